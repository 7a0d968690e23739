package typemix

import (
	"encoding"
	"fmt"
	"reflect"
)

// projector turns typed values back into dynamic trees.
type projector struct{ opt ProjectOpt }

// Project converts v (a domain instance, a pointer to one, a slice, a map, an
// Option or a scalar) into map[string]any / []any / scalar form. Struct fields
// are emitted under their wire names.
func Project(v any, opts ...ProjectOpt) (any, error) {
	p := projector{opt: firstProjectOpt(opts)}
	out, _, err := p.value(reflect.ValueOf(v))
	return out, err
}

// value returns the projected form of rv and whether it is None.
func (p projector) value(rv reflect.Value) (any, bool, error) {
	if !rv.IsValid() {
		return nil, true, nil
	}
	t := rv.Type()

	if rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return nil, true, nil
		}
		if rv.Kind() == reflect.Interface {
			return p.value(rv.Elem())
		}
	}

	if t.Implements(optionViewType) {
		inner, ok := rv.Interface().(optionView).optionValue()
		if !ok {
			return nil, true, nil
		}
		return p.value(inner)
	}

	if p.opt.KeepTyped {
		if rv.Kind() != reflect.Pointer && (isTransformerType(t) || t.Implements(valueTransformerType)) {
			return rv.Interface(), false, nil
		}
	} else if sym, ok := symbolOf(rv); ok {
		return sym, false, nil
	}

	switch rv.Kind() {
	case reflect.Pointer:
		return p.value(rv.Elem())
	case reflect.Struct:
		m, err := p.object(rv)
		return m, false, err
	case reflect.Slice, reflect.Array:
		if t.Elem().Kind() == reflect.Uint8 {
			return rv.Interface(), false, nil
		}
		out := make([]any, rv.Len())
		for i := range out {
			x, _, err := p.value(rv.Index(i))
			if err != nil {
				return nil, false, err
			}
			out[i] = x
		}
		return out, false, nil
	case reflect.Map:
		if t.Key().Kind() != reflect.String {
			return nil, false, fmt.Errorf("typemix: cannot project map with %s keys", t.Key())
		}
		out := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			x, none, err := p.value(iter.Value())
			if err != nil {
				return nil, false, err
			}
			p.put(out, iter.Key().String(), x, none)
		}
		return out, false, nil
	}
	return plainScalar(rv), false, nil
}

func (p projector) object(rv reflect.Value) (map[string]any, error) {
	schema, err := SchemaOf(rv.Type())
	if err != nil {
		return nil, err
	}
	out := make(map[string]any, len(schema.Fields))
	for i := range schema.Fields {
		f := &schema.Fields[i]
		x, none, err := p.value(rv.FieldByIndex(f.Index))
		if err != nil {
			return nil, err
		}
		p.put(out, f.Name, x, none)
	}
	return out, nil
}

// put applies the None and empty-container policies to one entry.
func (p projector) put(out map[string]any, key string, x any, none bool) {
	if none {
		if p.opt.KeepNone {
			out[key] = nil
		}
		return
	}
	if p.opt.IgnoreEmpty && isEmptyContainer(x) {
		return
	}
	out[key] = x
}

func isEmptyContainer(x any) bool {
	switch c := x.(type) {
	case []any:
		return len(c) == 0
	case map[string]any:
		return len(c) == 0
	}
	return false
}

// symbolOf renders value transformers and text marshalers.
func symbolOf(rv reflect.Value) (any, bool) {
	t := rv.Type()
	switch {
	case t.Implements(valueTransformerType):
		return rv.Interface().(ValueTransformer).ToSymbol(), true
	case reflect.PointerTo(t).Implements(valueTransformerType):
		return addressable(rv).Interface().(ValueTransformer).ToSymbol(), true
	case t.Implements(textMarshalerType):
		b, err := rv.Interface().(encoding.TextMarshaler).MarshalText()
		if err != nil {
			return nil, false
		}
		return string(b), true
	}
	return nil, false
}

func addressable(rv reflect.Value) reflect.Value {
	if rv.CanAddr() {
		return rv.Addr()
	}
	p := reflect.New(rv.Type())
	p.Elem().Set(rv)
	return p
}

var basicTypes = map[reflect.Kind]reflect.Type{
	reflect.Bool:    reflect.TypeOf(false),
	reflect.String:  reflect.TypeOf(""),
	reflect.Int:     reflect.TypeOf(int(0)),
	reflect.Int8:    reflect.TypeOf(int8(0)),
	reflect.Int16:   reflect.TypeOf(int16(0)),
	reflect.Int32:   reflect.TypeOf(int32(0)),
	reflect.Int64:   reflect.TypeOf(int64(0)),
	reflect.Uint:    reflect.TypeOf(uint(0)),
	reflect.Uint8:   reflect.TypeOf(uint8(0)),
	reflect.Uint16:  reflect.TypeOf(uint16(0)),
	reflect.Uint32:  reflect.TypeOf(uint32(0)),
	reflect.Uint64:  reflect.TypeOf(uint64(0)),
	reflect.Float32: reflect.TypeOf(float32(0)),
	reflect.Float64: reflect.TypeOf(float64(0)),
}

// plainScalar strips named scalar types down to their predeclared kind.
func plainScalar(rv reflect.Value) any {
	if bt, ok := basicTypes[rv.Kind()]; ok && rv.Type() != bt {
		return rv.Convert(bt).Interface()
	}
	return rv.Interface()
}

// ToDict projects a single instance.
func ToDict(v any, opts ...ProjectOpt) (map[string]any, error) {
	out, err := Project(v, opts...)
	if err != nil {
		return nil, err
	}
	m, ok := out.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("typemix: %T does not project to a dict", v)
	}
	return m, nil
}

// ToDicts projects a list of instances.
func ToDicts(v any, opts ...ProjectOpt) ([]map[string]any, error) {
	out, err := Project(v, opts...)
	if err != nil {
		return nil, err
	}
	return rowsOf(out, v)
}

func rowsOf(projected any, src any) ([]map[string]any, error) {
	switch x := projected.(type) {
	case map[string]any:
		return []map[string]any{x}, nil
	case []any:
		rows := make([]map[string]any, len(x))
		for i, item := range x {
			m, ok := item.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("typemix: element %d of %T does not project to a dict", i, src)
			}
			rows[i] = m
		}
		return rows, nil
	case nil:
		return []map[string]any{}, nil
	}
	return nil, fmt.Errorf("typemix: %T does not project to a list of dicts", src)
}
