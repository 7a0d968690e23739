package typemix

import (
	"reflect"

	csvfmt "github.com/reoring/typemix/format/csv"
	jsonfmt "github.com/reoring/typemix/format/json"
	yamlfmt "github.com/reoring/typemix/format/yaml"
)

// Bind builds a T from a dynamic value, typically a map[string]any decoded
// from JSON, YAML or CSV. T may be a domain struct or any supported
// container of them (List[T], Dict[T], Option[T], []T, map[string]T).
//
// The first failure is returned as a *RequiredError, *InvalidTypeError or
// *UnknownFieldsError.
func Bind[T any](raw any, opts ...BindOpt) (T, error) {
	var zero T
	if v, ok := raw.(T); ok && raw != nil {
		return v, nil
	}
	v, err := bindValue(reflect.TypeOf((*T)(nil)).Elem(), raw, newBinder(firstBindOpt(opts)))
	if err != nil {
		return zero, err
	}
	return v.Interface().(T), nil
}

func bindValue(t reflect.Type, raw any, b *binder) (reflect.Value, error) {
	e, err := exprFor(t)
	if err != nil {
		return reflect.Value{}, err
	}
	return b.resolve(e, raw, true, site{owner: t.String()})
}

// BindOptional is Bind for a value that may be missing: nil and "" yield None.
func BindOptional[T any](raw any, opts ...BindOpt) (Option[T], error) {
	return Bind[Option[T]](raw, opts...)
}

// BindList binds every element of a sequence.
func BindList[T any](raw any, opts ...BindOpt) (List[T], error) {
	return Bind[List[T]](raw, opts...)
}

// BindOptionalList is BindList for a sequence that may be missing.
func BindOptionalList[T any](raw any, opts ...BindOpt) (Option[List[T]], error) {
	return Bind[Option[List[T]]](raw, opts...)
}

// BindDict binds every value of a string-keyed map; keys are kept as-is.
func BindDict[T any](raw any, opts ...BindOpt) (Dict[T], error) {
	return Bind[Dict[T]](raw, opts...)
}

// BindOptionalDict is BindDict for a map that may be missing.
func BindOptionalDict[T any](raw any, opts ...BindOpt) (Option[Dict[T]], error) {
	return Bind[Option[Dict[T]]](raw, opts...)
}

// BindWithMeta is Bind that also reports which JSON Pointers were present,
// null, or filled from defaults.
func BindWithMeta[T any](raw any, opts ...BindOpt) (Decoded[T], error) {
	b := newBinder(firstBindOpt(opts))
	b.presence = PresenceMap{}
	v, err := bindValue(reflect.TypeOf((*T)(nil)).Elem(), raw, b)
	if err != nil {
		return Decoded[T]{}, err
	}
	return Decoded[T]{Value: v.Interface().(T), Presence: b.presence}, nil
}

// BindJSON decodes a JSON document and binds it.
func BindJSON[T any](data []byte, opts ...BindOpt) (T, error) {
	raw, err := jsonfmt.Decode(data, jsonfmt.DecodeOptions{})
	if err != nil {
		var zero T
		return zero, err
	}
	return Bind[T](raw, opts...)
}

// BindJSONList decodes a JSON array and binds every element.
func BindJSONList[T any](data []byte, opts ...BindOpt) (List[T], error) {
	return BindJSON[List[T]](data, opts...)
}

// BindYAML decodes the first YAML document and binds it. Plain scalars are
// resolved against the declared field type, so `name: 123` binds to a
// string field as "123" and `id: 1` to an int field as 1.
func BindYAML[T any](data []byte, opts ...BindOpt) (T, error) {
	var zero T
	raw, err := yamlfmt.Decode(data, yamlfmt.DecodeOptions{StringScalars: true})
	if err != nil {
		return zero, err
	}
	b := newBinder(firstBindOpt(opts))
	b.yamlText = true
	v, err := bindValue(reflect.TypeOf((*T)(nil)).Elem(), raw, b)
	if err != nil {
		return zero, err
	}
	return v.Interface().(T), nil
}

// BindYAMLList decodes a YAML sequence and binds every element.
func BindYAMLList[T any](data []byte, opts ...BindOpt) (List[T], error) {
	return BindYAML[List[T]](data, opts...)
}

// BindCSV reads delimited text and binds every row. Cells arrive as strings,
// so scalar fields other than strings need ForceCast.
func BindCSV[T any](data []byte, ropt CSVReadOpt, opts ...BindOpt) (List[T], error) {
	rows, err := csvfmt.Read(data, csvfmt.ReadOptions{Fields: ropt.Fields, Comma: ropt.Comma})
	if err != nil {
		return nil, err
	}
	return Bind[List[T]](rows, opts...)
}
