package typemix

import (
	"reflect"
	"strings"
)

// FieldToken identifies a top-level struct field of T by its wire name.
// Obtain it via FieldOf to ensure compile-time linkage to the struct field.
type FieldToken[T any] struct {
	key string
}

// Key returns the wire name associated with this field token.
func (t FieldToken[T]) Key() string { return t.key }

// Pointer returns the JSON Pointer of the field relative to a bound T.
func (t FieldToken[T]) Pointer() string { return "/" + escapePointer(t.key) }

// FieldPathToken identifies a nested struct field path of T by wire names.
// Produced by PathOf. Keys are top-level-first.
type FieldPathToken[T any] struct {
	keys []string
}

// Keys returns the wire path segments.
func (t FieldPathToken[T]) Keys() []string { return append([]string(nil), t.keys...) }

// Pointer returns the JSON Pointer of the nested field relative to a bound T.
func (t FieldPathToken[T]) Pointer() string {
	parts := make([]string, len(t.keys))
	for i, k := range t.keys {
		parts[i] = escapePointer(k)
	}
	return "/" + strings.Join(parts, "/")
}

// FieldNameOf returns the wire name for a top-level field of S selected by selector.
// Example: FieldNameOf(func(h *Human) *string { return &h.Name }) -> "name".
func FieldNameOf[S any, F any](selector func(*S) *F) string {
	return FieldOf(selector).Key()
}

// FieldOf builds a FieldToken for a top-level field of T.
// The selector must return the address of a top-level field, e.g.:
//
//	FieldOf(func(h *Human) *List[Food] { return &h.Favorites })
//
// This guarantees compile-time errors if the field is renamed/removed.
func FieldOf[T any, F any](selector func(*T) *F) FieldToken[T] {
	if selector == nil {
		panic("typemix.FieldOf: selector must not be nil")
	}
	var zero T
	fp := reflect.ValueOf(selector(&zero)).Pointer()
	rv := reflect.ValueOf(&zero).Elem()
	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		fv := rv.Field(i)
		if !sf.IsExported() || !fv.CanAddr() {
			continue
		}
		if fv.Addr().Pointer() == fp {
			name := ResolveStructKey(sf)
			if name == "-" || parseFieldTag(sf).extra {
				panic("typemix.FieldOf: selected field is not bound")
			}
			return FieldToken[T]{key: name}
		}
	}
	panic("typemix.FieldOf: selector must return address of a top-level field of T")
}

// PathOf builds a FieldPathToken for a nested field of T reached through
// non-pointer struct fields.
//
//	PathOf(func(s *Shop) *string { return &s.Owner.Name })
func PathOf[T any, F any](selector func(*T) *F) FieldPathToken[T] {
	if selector == nil {
		panic("typemix.PathOf: selector must not be nil")
	}
	var zero T
	target := reflect.ValueOf(selector(&zero)).Pointer()
	keys, ok := findPathKeys(reflect.ValueOf(&zero).Elem(), target, 0)
	if !ok || len(keys) == 0 {
		panic("typemix.PathOf: selector must address a nested struct field (non-pointer)")
	}
	return FieldPathToken[T]{keys: keys}
}

// Columns returns the wire names of the given tokens, for CSV and table field lists.
func Columns[T any](tokens ...FieldToken[T]) []string {
	out := make([]string, len(tokens))
	for i, t := range tokens {
		out[i] = t.key
	}
	return out
}

const maxPathDepth = 32

func findPathKeys(v reflect.Value, target uintptr, depth int) ([]string, bool) {
	if depth > maxPathDepth || v.Kind() != reflect.Struct {
		return nil, false
	}
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		fv := v.Field(i)
		name := ResolveStructKey(sf)
		if fv.CanAddr() && fv.Addr().Pointer() == target && fv.Kind() != reflect.Struct {
			if name == "-" {
				return nil, false
			}
			return []string{name}, true
		}
		if fv.Kind() == reflect.Struct {
			if rest, ok := findPathKeys(fv, target, depth+1); ok {
				if isPromoted(sf) {
					return rest, true
				}
				if name == "-" {
					return nil, false
				}
				return append([]string{name}, rest...), true
			}
			if fv.CanAddr() && fv.Addr().Pointer() == target {
				return []string{name}, true
			}
		}
	}
	return nil, false
}

// Seen reports whether the field was present in the bound input.
func (d Decoded[T]) Seen(field FieldToken[T]) bool { return d.Presence.Seen(field.Pointer()) }

// WasNull reports whether the field was explicitly null in the bound input.
func (d Decoded[T]) WasNull(field FieldToken[T]) bool { return d.Presence.WasNull(field.Pointer()) }

// DefaultApplied reports whether the field value came from a default provider.
func (d Decoded[T]) DefaultApplied(field FieldToken[T]) bool {
	return d.Presence.DefaultApplied(field.Pointer())
}
