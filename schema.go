package typemix

import (
	"fmt"
	"reflect"
	"strings"
	"sync"
)

// Kind enumerates the closed set of type expressions a field can declare.
type Kind uint8

const (
	KindAny Kind = iota
	KindScalar
	KindDomain
	KindList
	KindDict
	KindOption
	KindSelfRef
	KindTransformer
)

func (k Kind) String() string {
	switch k {
	case KindAny:
		return "any"
	case KindScalar:
		return "scalar"
	case KindDomain:
		return "domain"
	case KindList:
		return "list"
	case KindDict:
		return "dict"
	case KindOption:
		return "option"
	case KindSelfRef:
		return "self"
	case KindTransformer:
		return "transformer"
	default:
		return "unknown"
	}
}

// TypeExpr is the declared type of a field. Elem is set for List, Dict and
// Option. Domain and SelfRef only name their Go type; the nested Schema is
// looked up through the registry when a value is bound or projected.
type TypeExpr struct {
	Kind Kind
	Type reflect.Type
	Elem *TypeExpr
}

// String renders the expression the way error messages show declared types,
// for example "List[Food]" or "Option[Dict[string]]".
func (e *TypeExpr) String() string {
	switch e.Kind {
	case KindList:
		return "List[" + e.Elem.String() + "]"
	case KindDict:
		return "Dict[" + e.Elem.String() + "]"
	case KindOption:
		return "Option[" + e.Elem.String() + "]"
	case KindAny:
		return "any"
	default:
		return typeName(e.Type)
	}
}

// expected lists the acceptable type names reported by InvalidTypeError.
func (e *TypeExpr) expected() []string {
	switch e.Kind {
	case KindDomain, KindSelfRef:
		return []string{typeName(e.Type), "dict"}
	case KindList:
		return []string{"list"}
	case KindDict:
		return []string{"dict"}
	case KindTransformer:
		return []string{typeName(e.Type), "symbol"}
	case KindOption:
		return e.Elem.expected()
	case KindAny:
		return []string{"any"}
	default:
		return []string{typeName(e.Type)}
	}
}

func typeName(t reflect.Type) string {
	if t == nil {
		return "any"
	}
	if n := t.Name(); n != "" {
		return n
	}
	return t.String()
}

// Field is one declared field of a Schema.
type Field struct {
	Name   string // Wire name.
	GoName string
	Index  []int
	Expr   *TypeExpr

	defaultMethod int    // method index on the pointer type, -1 if none
	defaultLit    string // tag literal
	hasDefaultLit bool
	preMethod     int // method index on the pointer type, -1 if none
}

// HasDefault reports whether the field has a default provider.
func (f *Field) HasDefault() bool { return f.defaultMethod >= 0 || f.hasDefaultLit }

// HasPre reports whether the field has a pre-processing hook. The hook only
// sees keys present in the input.
func (f *Field) HasPre() bool { return f.preMethod >= 0 }

// Schema describes how a Go struct type maps to a wire map. It is derived
// once per type and immutable afterwards.
type Schema struct {
	Name   string // Fully qualified Go type name, for example "samples.Human".
	Type   reflect.Type
	Fields []Field
	// Extra is the index path of the extra-fields bag, nil when the type has none.
	Extra []int

	byWire map[string]int
}

// Lookup returns the field with the given wire name.
func (s *Schema) Lookup(wire string) (*Field, bool) {
	i, ok := s.byWire[wire]
	if !ok {
		return nil, false
	}
	return &s.Fields[i], true
}

// FieldNames returns the wire names in declaration order.
func (s *Schema) FieldNames() []string {
	out := make([]string, len(s.Fields))
	for i := range s.Fields {
		out[i] = s.Fields[i].Name
	}
	return out
}

var registry sync.Map // reflect.Type -> *Schema

// SchemaOf returns the Schema of the struct type t (pointers are followed).
func SchemaOf(t reflect.Type) (*Schema, error) {
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return nil, &SchemaError{Type: fmt.Sprint(t), Reason: "not a struct type"}
	}
	if s, ok := registry.Load(t); ok {
		return s.(*Schema), nil
	}
	s, err := deriveSchema(t)
	if err != nil {
		return nil, err
	}
	actual, _ := registry.LoadOrStore(t, s)
	return actual.(*Schema), nil
}

// SchemaFor returns the Schema of T.
func SchemaFor[T any]() (*Schema, error) {
	return SchemaOf(reflect.TypeOf((*T)(nil)).Elem())
}

// MustRegister derives and caches the Schema of T, panicking when T cannot
// be described. Call it from package init to surface declaration mistakes
// at startup.
func MustRegister[T any]() *Schema {
	s, err := SchemaFor[T]()
	if err != nil {
		panic(err)
	}
	return s
}

func deriveSchema(t reflect.Type) (*Schema, error) {
	s := &Schema{Name: t.String(), Type: t, byWire: map[string]int{}}
	pt := reflect.PointerTo(t)
	if err := collectFields(s, t, pt, t, nil); err != nil {
		return nil, err
	}
	return s, nil
}

func collectFields(s *Schema, owner, ownerPtr, t reflect.Type, prefix []int) error {
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		index := append(append([]int(nil), prefix...), i)
		if isPromoted(sf) {
			// promote the fields of embedded structs
			if err := collectFields(s, owner, ownerPtr, sf.Type, index); err != nil {
				return err
			}
			continue
		}
		if !sf.IsExported() {
			continue
		}
		ft := parseFieldTag(sf)
		if ft.extra {
			if sf.Type.Kind() != reflect.Map || sf.Type.Key().Kind() != reflect.String || sf.Type.Elem().Kind() != reflect.Interface {
				return &SchemaError{Type: owner.String(), Field: sf.Name, Reason: "extra bag must be map[string]any"}
			}
			s.Extra = index
			continue
		}
		name := ResolveStructKey(sf)
		if name == "-" {
			continue
		}
		if _, dup := s.byWire[name]; dup {
			return &SchemaError{Type: owner.String(), Field: sf.Name, Reason: fmt.Sprintf("duplicate wire name %q", name)}
		}
		expr, err := exprOf(sf.Type, owner)
		if err != nil {
			return &SchemaError{Type: owner.String(), Field: sf.Name, Reason: err.Error()}
		}
		f := Field{
			Name:          name,
			GoName:        sf.Name,
			Index:         index,
			Expr:          expr,
			defaultMethod: -1,
			preMethod:     -1,
			defaultLit:    ft.defaultLit,
			hasDefaultLit: ft.hasDefault,
		}
		if m, ok := ownerPtr.MethodByName("Default" + sf.Name); ok {
			if m.Type.NumIn() != 1 || m.Type.NumOut() != 1 || !m.Type.Out(0).AssignableTo(sf.Type) {
				return &SchemaError{Type: owner.String(), Field: sf.Name, Reason: fmt.Sprintf("Default%s must be func() %s", sf.Name, sf.Type)}
			}
			f.defaultMethod = m.Index
		}
		if m, ok := ownerPtr.MethodByName("Pre" + sf.Name); ok {
			if m.Type.NumIn() != 2 || m.Type.NumOut() != 1 || m.Type.In(1) != anyType || m.Type.Out(0) != anyType {
				return &SchemaError{Type: owner.String(), Field: sf.Name, Reason: fmt.Sprintf("Pre%s must be func(any) any", sf.Name)}
			}
			f.preMethod = m.Index
		}
		s.byWire[name] = len(s.Fields)
		s.Fields = append(s.Fields, f)
	}
	return nil
}

var anyType = reflect.TypeOf((*any)(nil)).Elem()

// exprOf maps a Go type to its TypeExpr. owner is the struct being derived,
// used to mark self references.
func exprOf(t reflect.Type, owner reflect.Type) (*TypeExpr, error) {
	if isTransformerType(t) {
		return &TypeExpr{Kind: KindTransformer, Type: t}, nil
	}
	if isOptionType(t) {
		elem, err := exprOf(reflect.New(t).Interface().(optionSlot).optionElem(), owner)
		if err != nil {
			return nil, err
		}
		return &TypeExpr{Kind: KindOption, Type: t, Elem: elem}, nil
	}
	switch t.Kind() {
	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return &TypeExpr{Kind: KindScalar, Type: t}, nil
	case reflect.Interface:
		if t.NumMethod() != 0 {
			return nil, fmt.Errorf("unsupported interface type %s", t)
		}
		return &TypeExpr{Kind: KindAny, Type: t}, nil
	case reflect.Pointer:
		elem, err := exprOf(t.Elem(), owner)
		if err != nil {
			return nil, err
		}
		return &TypeExpr{Kind: KindOption, Type: t, Elem: elem}, nil
	case reflect.Slice:
		elem, err := exprOf(t.Elem(), owner)
		if err != nil {
			return nil, err
		}
		return &TypeExpr{Kind: KindList, Type: t, Elem: elem}, nil
	case reflect.Map:
		if t.Key().Kind() != reflect.String {
			return nil, fmt.Errorf("map key must be a string kind, got %s", t.Key())
		}
		elem, err := exprOf(t.Elem(), owner)
		if err != nil {
			return nil, err
		}
		return &TypeExpr{Kind: KindDict, Type: t, Elem: elem}, nil
	case reflect.Struct:
		if t == owner {
			return &TypeExpr{Kind: KindSelfRef, Type: t}, nil
		}
		return &TypeExpr{Kind: KindDomain, Type: t}, nil
	}
	return nil, fmt.Errorf("unsupported type %s", t)
}

// exprFor is exprOf for top-level entry points where no owner exists.
func exprFor(t reflect.Type) (*TypeExpr, error) {
	e, err := exprOf(t, nil)
	if err != nil {
		return nil, &SchemaError{Type: t.String(), Reason: err.Error()}
	}
	return e, nil
}

// String renders the schema as "pkg.Type{name: Type, ...}".
func (s *Schema) String() string {
	parts := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		parts[i] = f.Name + ": " + f.Expr.String()
	}
	return s.Name + "{" + strings.Join(parts, ", ") + "}"
}
