// Package typemix binds dynamic data (maps and lists decoded from JSON, YAML
// or CSV) onto typed Go domain structs and projects them back.
//
// - Bind/BindList/BindDict build typed values field by field, in declaration order, failing fast
// - Project/ToDict/ToJSON/ToYAML/ToCSV/ToTable turn them back into deterministic dynamic trees and text
// - Option, List and Dict carry optionality and element types explicitly
// - Errors are one of *RequiredError, *InvalidTypeError or *UnknownFieldsError (see BindError)
//
// Design policy:
// - Keep only public APIs in the root package; text formats live under format/, I/O under load/.
// - Schemas are derived once per Go type by reflection and cached for the process lifetime.
// - Prefer black-box testing against public APIs.
//
// Typical usage:
//
//	type Food struct {
//		Name        string
//		NamesByLang typemix.Option[typemix.Dict[string]]
//	}
//	type Human struct {
//		ID        int
//		Name      string
//		Favorites typemix.List[Food]
//	}
//
//	h, err := typemix.BindJSON[Human](data)
//	out, err := typemix.ToJSON(h)
//
// Wire names default to the snake_case form of the Go field name and can be
// overridden with `typemix:"name=..."` or a json tag. Incoming keys are folded
// to snake_case before lookup, so "namesByLang" binds NamesByLang.
//
// A field can declare hooks as methods on the struct's pointer type.
// Default<Field>() supplies the value when the key is absent. Pre<Field>(raw
// any) any rewrites the raw value before it is bound, and runs only when the
// key is present (an explicit null arrives as nil). An absent key never
// reaches Pre, so a Pre hook cannot stand in for a default.
package typemix
