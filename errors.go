package typemix

import (
	"errors"
	"fmt"
	"strings"

	"github.com/reoring/typemix/i18n"
)

// Issue codes (exported consts for IDE completion and type safety by convention)
const (
	CodeRequired     = "required"
	CodeInvalidType  = "invalid_type"
	CodeUnknownKey   = "unknown_key"
	CodeParseError   = "parse_error"
	CodeDuplicateKey = "duplicate_key"
)

// Issue is the flat, machine-friendly view of a binding failure.
type Issue struct {
	Path    string // JSON Pointer from the bound root (for example: /favorites/0/name).
	Code    string // One of the codes listed above.
	Message string
	Hint    string // Remediation hint.
	Cause   error  // Optional: underlying error.
	// Params carries the structured fields of the originating error record.
	Params map[string]any
}

// Issues is a collection of issues that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(iss)
	lim := n
	if lim > maxShown {
		lim = maxShown
	}
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		it := iss[i]
		// e.g. invalid_type at /path
		fmt.Fprintf(b, "%s at %s", it.Code, it.Path)
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// AsIssues extracts Issues from an error. Binding errors are converted to a
// single-element Issues.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	if be, ok := AsBindError(err); ok {
		return Issues{be.Issue()}, true
	}
	var ce codedError
	if errors.As(err, &ce) {
		return Issues{{Path: ce.IssuePath(), Code: ce.IssueCode(), Message: err.Error(), Cause: err}}, true
	}
	return nil, false
}

// codedError is implemented by the decoding errors of the format packages.
type codedError interface {
	error
	IssueCode() string
	IssuePath() string
}

// ErrorKind discriminates the three binding error records.
type ErrorKind uint8

const (
	ErrorRequired ErrorKind = iota + 1
	ErrorInvalidType
	ErrorUnknownFields
)

func (k ErrorKind) String() string {
	switch k {
	case ErrorRequired:
		return CodeRequired
	case ErrorInvalidType:
		return CodeInvalidType
	case ErrorUnknownFields:
		return CodeUnknownKey
	default:
		return "unknown"
	}
}

// BindError is implemented by every error record the binder produces.
// Callers switch on Kind (or use errors.As with the concrete type) instead
// of matching message text.
type BindError interface {
	error
	Kind() ErrorKind
	Title() string
	Description() string
	Hint() string
	Issue() Issue
}

// AsBindError extracts the binding error record from err, if any.
func AsBindError(err error) (BindError, bool) {
	var be BindError
	if errors.As(err, &be) {
		return be, true
	}
	return nil, false
}

// RequiredError reports a non-optional field that was absent or null.
type RequiredError struct {
	Owner string // Owning type, for example "samples.Human".
	Field string // Owner-local field path, for example "favorites[1]".
	Path  string // JSON Pointer from the bound root.
	Type  string // Declared type expression, for example "List[Food]".
}

func (e *RequiredError) Kind() ErrorKind { return ErrorRequired }
func (e *RequiredError) Title() string   { return i18n.T("required.title", nil) }

func (e *RequiredError) Description() string {
	return i18n.T(CodeRequired, map[string]string{"owner": e.Owner, "field": e.Field, "type": e.Type})
}

func (e *RequiredError) Hint() string {
	return i18n.T("required.hint", map[string]string{"field": e.Field, "type": e.Type})
}

func (e *RequiredError) Error() string { return e.Title() + ": " + e.Description() }

func (e *RequiredError) Issue() Issue {
	return Issue{
		Path:    e.Path,
		Code:    CodeRequired,
		Message: e.Description(),
		Hint:    e.Hint(),
		Params:  map[string]any{"owner": e.Owner, "field": e.Field, "type": e.Type},
	}
}

// InvalidTypeError reports a present value whose dynamic type does not fit
// the declared type (and could not be coerced).
type InvalidTypeError struct {
	Owner    string
	Field    string
	Path     string
	Value    any
	Expected []string // Acceptable type names, for example ["Food", "dict"].
	Actual   string   // Dynamic type name of Value, for example "string".
	Cause    error    // Coercion or symbol-construction failure, when any.
}

func (e *InvalidTypeError) Kind() ErrorKind { return ErrorInvalidType }
func (e *InvalidTypeError) Title() string   { return i18n.T("invalid_type.title", nil) }

func (e *InvalidTypeError) Description() string {
	d := i18n.T(CodeInvalidType, map[string]string{
		"owner":    e.Owner,
		"field":    e.Field,
		"value":    fmt.Sprintf("%v", e.Value),
		"expected": fmt.Sprintf("%v", e.Expected),
		"actual":   e.Actual,
	})
	if e.Cause != nil {
		d += ": " + e.Cause.Error()
	}
	return d
}

func (e *InvalidTypeError) Hint() string { return i18n.T("invalid_type.hint", nil) }

func (e *InvalidTypeError) Error() string { return e.Title() + ": " + e.Description() }

func (e *InvalidTypeError) Unwrap() error { return e.Cause }

func (e *InvalidTypeError) Issue() Issue {
	return Issue{
		Path:    e.Path,
		Code:    CodeInvalidType,
		Message: e.Description(),
		Hint:    e.Hint(),
		Cause:   e.Cause,
		Params: map[string]any{
			"owner":    e.Owner,
			"field":    e.Field,
			"value":    e.Value,
			"expected": append([]string(nil), e.Expected...),
			"actual":   e.Actual,
		},
	}
}

// UnknownFieldsError reports wire keys that the owning type does not declare.
type UnknownFieldsError struct {
	Owner  string
	Path   string   // JSON Pointer of the object holding the unknown keys.
	Fields []string // Sorted unknown keys (after key normalization).
}

func (e *UnknownFieldsError) Kind() ErrorKind { return ErrorUnknownFields }
func (e *UnknownFieldsError) Title() string   { return i18n.T("unknown_key.title", nil) }

func (e *UnknownFieldsError) Description() string {
	return i18n.T(CodeUnknownKey, map[string]string{"owner": e.Owner, "fields": quoteList(e.Fields)})
}

func (e *UnknownFieldsError) Hint() string {
	return i18n.T("unknown_key.hint", map[string]string{"owner": e.Owner, "fields": quoteList(e.Fields)})
}

func (e *UnknownFieldsError) Error() string { return e.Title() + ": " + e.Description() }

func (e *UnknownFieldsError) Issue() Issue {
	return Issue{
		Path:    e.Path,
		Code:    CodeUnknownKey,
		Message: e.Description(),
		Hint:    e.Hint(),
		Params:  map[string]any{"owner": e.Owner, "fields": append([]string(nil), e.Fields...)},
	}
}

// Render formats err for humans: a title line, the description, and the
// remediation hint. Errors that are not binding records render as their
// Error text.
func Render(err error) string {
	if err == nil {
		return ""
	}
	be, ok := AsBindError(err)
	if !ok {
		return err.Error()
	}
	b := &strings.Builder{}
	fmt.Fprintf(b, "%s\n\n%s\n", be.Title(), be.Description())
	if h := be.Hint(); h != "" {
		fmt.Fprintf(b, "\n    * %s\n", h)
	}
	return b.String()
}

// SchemaError reports a Go type the engine cannot derive a schema for. It is
// a programming error, not a data error, and is therefore not a BindError.
type SchemaError struct {
	Type   string
	Field  string
	Reason string
}

func (e *SchemaError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("typemix: schema %s: %s", e.Type, e.Reason)
	}
	return fmt.Sprintf("typemix: schema %s.%s: %s", e.Type, e.Field, e.Reason)
}

func quoteList(xs []string) string {
	q := make([]string, len(xs))
	for i, x := range xs {
		q[i] = "`" + x + "`"
	}
	return strings.Join(q, " and ")
}
