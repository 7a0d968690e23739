// Package samples holds small domain types used by the CLI, the examples and
// the tests.
package samples

import (
	"fmt"
	"sort"

	"github.com/reoring/typemix"
)

// Color is an enum-like value transformer whose wire symbol is its name.
type Color int

const (
	Red Color = iota + 1
	Green
	Blue
)

var colorSymbols = typemix.NewSymbolTable("Color", map[string]Color{
	"red":   Red,
	"green": Green,
	"blue":  Blue,
})

var colorJapanese = map[Color]string{Red: "赤", Green: "緑", Blue: "青"}

// ToSymbol implements typemix.ValueTransformer.
func (c Color) ToSymbol() any { return colorSymbols.Symbol(c) }

// FromSymbol implements typemix.SymbolReceiver.
func (c *Color) FromSymbol(sym any) error {
	v, err := colorSymbols.Lookup(sym)
	if err != nil {
		return err
	}
	*c = v
	return nil
}

func (c Color) String() string { return fmt.Sprint(c.ToSymbol()) }

// Japanese returns the Japanese name of the color.
func (c Color) Japanese() string { return colorJapanese[c] }

// Food is lenient: unknown keys land in Extra even under the default strict
// policy.
type Food struct {
	Name        string
	NamesByLang typemix.Option[typemix.Dict[string]]
	Extra       map[string]any `typemix:",extra"`
}

// Human is the canonical nested sample.
type Human struct {
	ID        int
	Name      string
	Favorites typemix.List[Food]
}

// Machine carries an optional enum-like field.
type Machine struct {
	ID    int
	Name  string
	Color typemix.Option[Color]
}

// Spot refers to itself through its children.
type Spot struct {
	ID       int
	Name     string
	Note     typemix.Option[string]
	Children typemix.Option[typemix.List[Spot]]
}

func init() {
	typemix.MustRegister[Food]()
	typemix.MustRegister[Human]()
	typemix.MustRegister[Machine]()
	typemix.MustRegister[Spot]()
}

// Binder binds a raw value into one of the sample types and returns it as any.
type Binder func(raw any, opt typemix.BindOpt) (any, error)

type entry struct {
	bind   Binder
	schema func() (*typemix.Schema, error)
}

var registry = map[string]entry{
	"food":    {bindAs[Food], typemix.SchemaFor[Food]},
	"human":   {bindAs[Human], typemix.SchemaFor[Human]},
	"machine": {bindAs[Machine], typemix.SchemaFor[Machine]},
	"spot":    {bindAs[Spot], typemix.SchemaFor[Spot]},
}

func bindAs[T any](raw any, opt typemix.BindOpt) (any, error) {
	if _, isList := raw.([]any); isList {
		return typemix.BindList[T](raw, opt)
	}
	return typemix.Bind[T](raw, opt)
}

// Lookup returns the binder registered under name.
func Lookup(name string) (Binder, bool) {
	e, ok := registry[name]
	return e.bind, ok
}

// Describe renders the schema registered under name, for example
// "samples.Machine{id: int, name: string, color: Option[Color]}".
func Describe(name string) (string, bool) {
	e, ok := registry[name]
	if !ok {
		return "", false
	}
	s, err := e.schema()
	if err != nil {
		return "", false
	}
	return s.String(), true
}

// Names lists the registered sample type names.
func Names() []string {
	out := make([]string, 0, len(registry))
	for k := range registry {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
