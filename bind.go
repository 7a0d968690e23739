package typemix

import (
	"errors"
	"reflect"
	"sort"
	"strconv"
	"strings"

	jsonfmt "github.com/reoring/typemix/format/json"
	yamlfmt "github.com/reoring/typemix/format/yaml"
)

// binder builds typed values from dynamic trees. It walks declared fields in
// declaration order and stops at the first error.
type binder struct {
	opt      BindOpt
	renames  map[string]string
	presence PresenceMap // nil unless BindWithMeta
	// yamlText resolves string scalars as plain YAML against the field type.
	yamlText bool
}

func newBinder(opt BindOpt) *binder {
	return &binder{opt: opt, renames: opt.renames()}
}

// site locates the value being resolved for error reporting.
type site struct {
	owner string // Go type owning the field.
	field string // Owner-local label, extended with [i] and [key].
	path  string // JSON Pointer from the bound root; "" is the root.
}

func (s site) index(i int) site {
	return site{owner: s.owner, field: s.field + "[" + strconv.Itoa(i) + "]", path: s.path + "/" + strconv.Itoa(i)}
}

func (s site) key(k string) site {
	return site{owner: s.owner, field: s.field + "[" + k + "]", path: s.path + "/" + escapePointer(k)}
}

func (s site) required(e *TypeExpr) error {
	return &RequiredError{Owner: s.owner, Field: s.field, Path: rootIfEmpty(s.path), Type: e.String()}
}

func (s site) invalid(e *TypeExpr, raw any, cause error) error {
	var mm errMismatch
	if errors.As(cause, &mm) {
		cause = nil
	}
	return &InvalidTypeError{
		Owner:    s.owner,
		Field:    s.field,
		Path:     rootIfEmpty(s.path),
		Value:    raw,
		Expected: e.expected(),
		Actual:   dynamicTypeName(raw),
		Cause:    cause,
	}
}

// resolve turns raw into a value of e.Type. present is false when the key
// was absent from the input.
func (b *binder) resolve(e *TypeExpr, raw any, present bool, s site) (reflect.Value, error) {
	if present {
		b.presence.mark(s.path, PresenceSeen)
		if raw == nil {
			b.presence.mark(s.path, PresenceWasNull)
		}
	}
	// already of the declared type
	if present && raw != nil && reflect.TypeOf(raw) == e.Type {
		return reflect.ValueOf(raw), nil
	}

	if e.Kind == KindOption {
		if !present || raw == nil {
			return reflect.Zero(e.Type), nil
		}
		if str, ok := raw.(string); ok && str == "" {
			return reflect.Zero(e.Type), nil
		}
		inner, err := b.resolve(e.Elem, raw, true, s)
		if err != nil {
			return reflect.Value{}, err
		}
		if e.Type.Kind() == reflect.Pointer {
			p := reflect.New(e.Type.Elem())
			p.Elem().Set(inner)
			return p, nil
		}
		opt := reflect.New(e.Type)
		opt.Interface().(optionSlot).setSome(inner)
		return opt.Elem(), nil
	}

	if !present || raw == nil {
		return reflect.Value{}, s.required(e)
	}

	switch e.Kind {
	case KindAny:
		v := reflect.New(e.Type).Elem()
		v.Set(reflect.ValueOf(raw))
		return v, nil
	case KindScalar:
		if str, ok := raw.(string); ok && b.yamlText && yamlResolvable(e.Type) {
			if v, err := yamlfmt.ResolveScalar(str, e.Type); err == nil {
				return v, nil
			}
		}
		v, err := coerceScalar(raw, e.Type, b.opt.ForceCast)
		if err != nil {
			return reflect.Value{}, s.invalid(e, raw, err)
		}
		return v, nil
	case KindList:
		return b.list(e, raw, s)
	case KindDict:
		return b.dict(e, raw, s)
	case KindDomain, KindSelfRef:
		return b.domain(e, raw, s)
	case KindTransformer:
		return b.transform(e, raw, s)
	}
	return reflect.Value{}, s.invalid(e, raw, nil)
}

func (b *binder) list(e *TypeExpr, raw any, s site) (reflect.Value, error) {
	seq, ok := asSequence(raw)
	if !ok {
		if !b.opt.ForceCast {
			return reflect.Value{}, s.invalid(e, raw, nil)
		}
		seq = []any{raw}
	}
	out := reflect.MakeSlice(e.Type, len(seq), len(seq))
	for i, item := range seq {
		v, err := b.resolve(e.Elem, item, true, s.index(i))
		if err != nil {
			return reflect.Value{}, err
		}
		out.Index(i).Set(v)
	}
	return out, nil
}

func (b *binder) dict(e *TypeExpr, raw any, s site) (reflect.Value, error) {
	m, ok := asStringMap(raw)
	if !ok && b.opt.ForceCast {
		if rv := indirectValue(reflect.ValueOf(raw)); rv.IsValid() && rv.Kind() == reflect.Struct {
			if projected, err := Project(raw); err == nil {
				m, ok = projected.(map[string]any)
			}
		}
	}
	if !ok {
		return reflect.Value{}, s.invalid(e, raw, nil)
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := reflect.MakeMapWithSize(e.Type, len(m))
	kt := e.Type.Key()
	for _, k := range keys {
		v, err := b.resolve(e.Elem, m[k], true, s.key(k))
		if err != nil {
			return reflect.Value{}, err
		}
		out.SetMapIndex(reflect.ValueOf(k).Convert(kt), v)
	}
	return out, nil
}

func (b *binder) domain(e *TypeExpr, raw any, s site) (reflect.Value, error) {
	if rv := reflect.ValueOf(raw); rv.Kind() == reflect.Pointer && rv.Type().Elem() == e.Type {
		if rv.IsNil() {
			return reflect.Value{}, s.required(e)
		}
		return rv.Elem(), nil
	}
	m, ok := asStringMap(raw)
	if !ok {
		return reflect.Value{}, s.invalid(e, raw, nil)
	}
	schema, err := SchemaOf(e.Type)
	if err != nil {
		return reflect.Value{}, err
	}
	return b.object(schema, m, s.path)
}

func (b *binder) transform(e *TypeExpr, raw any, s site) (reflect.Value, error) {
	p := reflect.New(e.Type)
	switch recv := p.Interface().(type) {
	case SymbolReceiver:
		if err := recv.FromSymbol(raw); err != nil {
			return reflect.Value{}, s.invalid(e, raw, err)
		}
	case interface{ UnmarshalText([]byte) error }:
		str, ok := raw.(string)
		if !ok {
			if !b.opt.ForceCast {
				return reflect.Value{}, s.invalid(e, raw, nil)
			}
			str = jsonfmt.Inline(raw)
		}
		if err := recv.UnmarshalText([]byte(str)); err != nil {
			return reflect.Value{}, s.invalid(e, raw, err)
		}
	default:
		return reflect.Value{}, s.invalid(e, raw, nil)
	}
	return p.Elem(), nil
}

// object binds one wire map onto a new instance of schema.Type.
func (b *binder) object(schema *Schema, raw map[string]any, path string) (reflect.Value, error) {
	wire := NormalizeKeys(raw, b.renames, b.opt.PreserveKeys)

	var unknown []string
	for k := range wire {
		if _, ok := schema.byWire[k]; !ok {
			unknown = append(unknown, k)
		}
	}
	sort.Strings(unknown)
	if len(unknown) > 0 && !b.opt.AllowUnknown && schema.Extra == nil {
		return reflect.Value{}, &UnknownFieldsError{Owner: schema.Name, Path: rootIfEmpty(path), Fields: unknown}
	}

	out := reflect.New(schema.Type).Elem()
	var hooks reflect.Value // zero instance receiving Default/Pre calls
	hookRecv := func() reflect.Value {
		if !hooks.IsValid() {
			hooks = reflect.New(schema.Type)
		}
		return hooks
	}

	for i := range schema.Fields {
		f := &schema.Fields[i]
		s := site{owner: schema.Name, field: f.Name, path: path + "/" + escapePointer(f.Name)}
		val, present := wire[f.Name]

		if present && f.preMethod >= 0 {
			val = hookRecv().Method(f.preMethod).Call([]reflect.Value{reflect.ValueOf(&val).Elem()})[0].Interface()
		}

		if !present && f.defaultMethod >= 0 {
			dv := hookRecv().Method(f.defaultMethod).Call(nil)[0]
			out.FieldByIndex(f.Index).Set(dv)
			b.presence.mark(s.path, PresenceDefaultApplied)
			continue
		}

		fb := b
		if !present && f.hasDefaultLit {
			lit, err := literalValue(f)
			if err != nil {
				return reflect.Value{}, &InvalidTypeError{
					Owner: schema.Name, Field: f.Name, Path: s.path,
					Value: f.defaultLit, Expected: f.Expr.expected(), Actual: "string", Cause: err,
				}
			}
			val, present = lit, true
			fb = &binder{opt: b.opt, renames: b.renames, yamlText: b.yamlText}
			fb.opt.ForceCast = true
			b.presence.mark(s.path, PresenceDefaultApplied)
		}

		v, err := fb.resolve(f.Expr, val, present, s)
		if err != nil {
			return reflect.Value{}, err
		}
		out.FieldByIndex(f.Index).Set(v)
	}

	if len(unknown) > 0 && schema.Extra != nil {
		bag := make(map[string]any, len(unknown))
		for _, k := range unknown {
			bag[k] = wire[k]
		}
		dst := out.FieldByIndex(schema.Extra)
		dst.Set(reflect.ValueOf(bag).Convert(dst.Type()))
	}
	return out, nil
}

// literalValue turns a `default=` tag literal into a wire value. Literals
// starting with '[' or '{' are JSON; anything else stays a string and is
// coerced through the field type.
func literalValue(f *Field) (any, error) {
	lit := strings.TrimSpace(f.defaultLit)
	if strings.HasPrefix(lit, "[") || strings.HasPrefix(lit, "{") {
		return jsonfmt.Decode([]byte(lit), jsonfmt.DecodeOptions{})
	}
	return f.defaultLit, nil
}

func yamlResolvable(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}
