package typemix

import (
	"encoding"
	"fmt"
	"reflect"
	"sort"
)

// ValueTransformer is implemented by enum-like types that render themselves
// as a primitive symbol.
type ValueTransformer interface {
	ToSymbol() any
}

// SymbolReceiver is implemented by pointers to enum-like types that can
// construct themselves from a primitive symbol.
type SymbolReceiver interface {
	FromSymbol(sym any) error
}

var (
	valueTransformerType = reflect.TypeOf((*ValueTransformer)(nil)).Elem()
	symbolReceiverType   = reflect.TypeOf((*SymbolReceiver)(nil)).Elem()
	textUnmarshalerType  = reflect.TypeOf((*encoding.TextUnmarshaler)(nil)).Elem()
	textMarshalerType    = reflect.TypeOf((*encoding.TextMarshaler)(nil)).Elem()
)

// isTransformerType reports whether values of t are built from a symbol
// rather than from a map or a scalar.
func isTransformerType(t reflect.Type) bool {
	pt := reflect.PointerTo(t)
	return pt.Implements(symbolReceiverType) || pt.Implements(textUnmarshalerType)
}

// SymbolTable is the dispatch table of an enum-like type: it maps each
// symbol to its variant and back. Build it once, at package init.
type SymbolTable[T comparable] struct {
	name    string
	bySym   map[string]T
	byValue map[T]string
}

// NewSymbolTable builds a table from symbol -> variant pairs. It panics when
// two symbols share a variant, since the reverse mapping would be ambiguous.
func NewSymbolTable[T comparable](name string, variants map[string]T) *SymbolTable[T] {
	st := &SymbolTable[T]{
		name:    name,
		bySym:   make(map[string]T, len(variants)),
		byValue: make(map[T]string, len(variants)),
	}
	for sym, v := range variants {
		if prev, dup := st.byValue[v]; dup {
			panic(fmt.Sprintf("typemix: %s: symbols %q and %q map to the same variant", name, prev, sym))
		}
		st.bySym[sym] = v
		st.byValue[v] = sym
	}
	return st
}

// Lookup resolves a symbol. Non-string symbols are rendered with fmt.Sprint
// before lookup so numeric-looking YAML scalars still match.
func (st *SymbolTable[T]) Lookup(sym any) (T, error) {
	var s string
	switch v := sym.(type) {
	case string:
		s = v
	case fmt.Stringer:
		s = v.String()
	default:
		s = fmt.Sprint(sym)
	}
	if v, ok := st.bySym[s]; ok {
		return v, nil
	}
	var zero T
	return zero, fmt.Errorf("%q is not a valid %s (one of %v)", s, st.name, st.Symbols())
}

// Symbol returns the symbol of v, or nil for an unknown variant.
func (st *SymbolTable[T]) Symbol(v T) any {
	if s, ok := st.byValue[v]; ok {
		return s
	}
	return nil
}

// Symbols lists every known symbol in ascending order.
func (st *SymbolTable[T]) Symbols() []string {
	out := make([]string, 0, len(st.bySym))
	for s := range st.bySym {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}
