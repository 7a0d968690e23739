package typemix

import (
	"reflect"
	"strings"
)

// fieldTag is the parsed form of a `typemix:"..."` struct tag.
type fieldTag struct {
	name       string
	skip       bool
	extra      bool
	hasDefault bool
	defaultLit string
}

func parseFieldTag(sf reflect.StructField) fieldTag {
	var ft fieldTag
	raw, ok := sf.Tag.Lookup("typemix")
	if !ok {
		return ft
	}
	if raw == "-" {
		ft.skip = true
		return ft
	}
	// default= consumes the rest of the tag so literals may contain commas.
	if i := strings.Index(raw, "default="); i >= 0 {
		ft.hasDefault = true
		ft.defaultLit = raw[i+len("default="):]
		raw = strings.TrimSuffix(raw[:i], ",")
	}
	for _, p := range strings.Split(raw, ",") {
		p = strings.TrimSpace(p)
		switch {
		case p == "":
		case p == "extra":
			ft.extra = true
		case strings.HasPrefix(p, "name="):
			ft.name = strings.TrimPrefix(p, "name=")
		}
	}
	return ft
}

// isPromoted reports whether the fields of an embedded struct are flattened
// into the embedding struct.
func isPromoted(sf reflect.StructField) bool {
	if !sf.Anonymous || sf.Type.Kind() != reflect.Struct {
		return false
	}
	_, hasTag := sf.Tag.Lookup("typemix")
	return !hasTag && sf.Tag.Get("json") == ""
}

// ResolveStructKey applies the repository-wide rule to resolve a struct field's
// wire key.
// Priority: typemix:"name=..." > json tag name > snake_case(field name); "-" disables the field.
func ResolveStructKey(sf reflect.StructField) string {
	ft := parseFieldTag(sf)
	if ft.skip {
		return "-"
	}
	if ft.name != "" {
		return ft.name
	}
	if jt := sf.Tag.Get("json"); jt != "" {
		if jt == "-" {
			return "-"
		}
		name := jt
		if i := strings.IndexByte(jt, ','); i >= 0 {
			name = jt[:i]
		}
		if name != "" {
			return name
		}
	}
	return ToSnake(sf.Name)
}

// dynamicTypeName names the runtime type of a wire value the way error
// records report it.
func dynamicTypeName(v any) string {
	if v == nil {
		return "null"
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Map:
		return "dict"
	case reflect.Slice, reflect.Array:
		return "list"
	}
	if n := rv.Type().Name(); n != "" {
		return n
	}
	return rv.Type().String()
}

// indirectValue follows pointers and interfaces until a concrete value or an
// invalid (nil) one remains.
func indirectValue(rv reflect.Value) reflect.Value {
	for rv.IsValid() && (rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface) {
		if rv.IsNil() {
			return reflect.Value{}
		}
		rv = rv.Elem()
	}
	return rv
}

// asStringMap views any string-keyed map as map[string]any.
func asStringMap(v any) (map[string]any, bool) {
	if m, ok := v.(map[string]any); ok {
		return m, true
	}
	rv := indirectValue(reflect.ValueOf(v))
	if !rv.IsValid() || rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return nil, false
	}
	out := make(map[string]any, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		out[iter.Key().String()] = iter.Value().Interface()
	}
	return out, true
}

// asSequence views any slice or array as []any. Byte strings are not
// sequences.
func asSequence(v any) ([]any, bool) {
	if s, ok := v.([]any); ok {
		return s, true
	}
	rv := indirectValue(reflect.ValueOf(v))
	if !rv.IsValid() {
		return nil, false
	}
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	if rv.Type().Elem().Kind() == reflect.Uint8 {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

// escapePointer escapes one JSON Pointer reference token.
func escapePointer(s string) string {
	if !strings.ContainsAny(s, "~/") {
		return s
	}
	s = strings.ReplaceAll(s, "~", "~0")
	return strings.ReplaceAll(s, "/", "~1")
}
