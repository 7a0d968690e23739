package typemix

// BindOpt configures the Binder. The zero value normalizes keys to
// snake_case, rejects unknown fields and never coerces across types.
type BindOpt struct {
	PreserveKeys bool // Skip snake_case folding of wire keys (renames still apply).
	ForceCast    bool // Coerce mismatched scalars, for example "1" into an int field.
	AllowUnknown bool // Drop unknown keys. Types with a `typemix:",extra"` bag always collect them.
	// Renames is applied to raw keys before folding; nil selects DefaultRenames.
	Renames map[string]string
}

func (o BindOpt) renames() map[string]string {
	if o.Renames == nil {
		return DefaultRenames
	}
	return o.Renames
}

func firstBindOpt(opts []BindOpt) BindOpt {
	if len(opts) == 0 {
		return BindOpt{}
	}
	return opts[0]
}

// ProjectOpt configures the Projector. The zero value omits None fields,
// keeps empty containers and renders value transformers as their symbols.
type ProjectOpt struct {
	KeepNone    bool // Emit None and nil fields as null instead of omitting them.
	IgnoreEmpty bool // Omit fields and entries holding an empty list or dict.
	KeepTyped   bool // Leave value transformers as Go values instead of calling ToSymbol.
}

func firstProjectOpt(opts []ProjectOpt) ProjectOpt {
	if len(opts) == 0 {
		return ProjectOpt{}
	}
	return opts[0]
}

// CSVOpt configures ToCSV.
type CSVOpt struct {
	ProjectOpt
	Fields []string // Column order; nil selects the sorted union of keys.
	Header bool
	Tab    bool // TSV instead of CSV.
	CRLF   bool
}

// CSVReadOpt configures BindCSV.
type CSVReadOpt struct {
	// Fields names the columns; nil reads them from the header row.
	Fields []string
	// Comma is the separator; 0 detects tab or comma from the first line.
	Comma rune
}

// TableOpt configures ToTable.
type TableOpt struct {
	ProjectOpt
	Fields []string // Column order; nil selects the sorted union of keys.
}
