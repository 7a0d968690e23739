// Package yaml reads YAML documents into the dynamic trees the binder
// consumes and writes projected trees back as block-style YAML with sorted
// keys. Duplicate mapping keys are rejected with both positions.
package yaml

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strconv"

	"gopkg.in/yaml.v3"
)

// DecodeOptions controls how scalars are materialized.
type DecodeOptions struct {
	// StringScalars keeps every non-null scalar as its source text instead of
	// resolving ints, floats and bools from the YAML tag.
	StringScalars bool
}

// DuplicateKeyError reports a duplicate key found in a YAML mapping with both
// the first occurrence position and the duplicate occurrence position.
type DuplicateKeyError struct {
	Key       string
	Path      string
	FirstLine int
	FirstCol  int
	Line      int
	Col       int
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("yaml: duplicate key %q at %d:%d (first at %d:%d)", e.Key, e.Line, e.Col, e.FirstLine, e.FirstCol)
}

// IssueCode returns the issue code of the error.
func (e *DuplicateKeyError) IssueCode() string { return "duplicate_key" }

// IssuePath returns the JSON Pointer of the duplicated key.
func (e *DuplicateKeyError) IssuePath() string { return e.Path }

// ParseError wraps a syntax error reported by the YAML parser.
type ParseError struct{ Err error }

func (e *ParseError) Error() string { return "yaml: " + e.Err.Error() }
func (e *ParseError) Unwrap() error { return e.Err }

// IssueCode returns the issue code of the error.
func (e *ParseError) IssueCode() string { return "parse_error" }

// IssuePath returns the root pointer; the parser reports lines, not paths.
func (e *ParseError) IssuePath() string { return "/" }

// MaxAliasNodes bounds how many nodes one document may materialize through
// alias expansion.
const MaxAliasNodes = 100000

// Reader decodes a multi-document YAML stream into dynamic values.
type Reader struct {
	dec *yaml.Decoder
	opt DecodeOptions

	anchored   map[*yaml.Node]bool // anchored nodes on the current walk
	aliasDepth int
	aliasNodes int
}

// NewReader constructs a Reader.
func NewReader(r io.Reader, opt DecodeOptions) *Reader {
	return &Reader{dec: yaml.NewDecoder(r), opt: opt}
}

// Next returns the next document. It returns (nil, io.EOF) when the stream
// is exhausted.
func (r *Reader) Next() (any, error) {
	var root yaml.Node
	if err := r.dec.Decode(&root); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		return nil, &ParseError{Err: err}
	}
	r.anchored = map[*yaml.Node]bool{}
	r.aliasDepth, r.aliasNodes = 0, 0
	return r.node(&root, "")
}

// ReadAll reads all documents from the stream.
func (r *Reader) ReadAll() ([]any, error) {
	var out []any
	for {
		v, err := r.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return out, nil
			}
			return nil, err
		}
		out = append(out, v)
	}
}

// Decode parses the first document of data. Empty input decodes to nil.
func Decode(data []byte, opt DecodeOptions) (any, error) {
	v, err := NewReader(bytes.NewReader(data), opt).Next()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	return v, err
}

func (r *Reader) node(n *yaml.Node, path string) (any, error) {
	if r.aliasDepth > 0 {
		r.aliasNodes++
		if r.aliasNodes > MaxAliasNodes {
			return nil, &ParseError{Err: fmt.Errorf("aliases at %s expand to more than %d nodes", pointer(path), MaxAliasNodes)}
		}
	}
	if n.Anchor != "" {
		r.anchored[n] = true
		defer delete(r.anchored, n)
	}
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, nil
		}
		return r.node(n.Content[0], path)
	case yaml.AliasNode:
		if n.Alias == nil {
			return nil, &ParseError{Err: fmt.Errorf("unknown alias *%s at %s", n.Value, pointer(path))}
		}
		if r.anchored[n.Alias] {
			return nil, &ParseError{Err: fmt.Errorf("alias *%s at %s refers to an enclosing node", n.Value, pointer(path))}
		}
		r.aliasDepth++
		v, err := r.node(n.Alias, path)
		r.aliasDepth--
		return v, err
	case yaml.MappingNode:
		m := make(map[string]any, len(n.Content)/2)
		first := make(map[string][2]int, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			k, v := n.Content[i], n.Content[i+1]
			key := k.Value
			p := path + "/" + escape(key)
			if pos, dup := first[key]; dup {
				return nil, &DuplicateKeyError{Key: key, Path: p, FirstLine: pos[0], FirstCol: pos[1], Line: k.Line, Col: k.Column}
			}
			first[key] = [2]int{k.Line, k.Column}
			val, err := r.node(v, p)
			if err != nil {
				return nil, err
			}
			m[key] = val
		}
		return m, nil
	case yaml.SequenceNode:
		arr := make([]any, 0, len(n.Content))
		for i, c := range n.Content {
			v, err := r.node(c, path+"/"+strconv.Itoa(i))
			if err != nil {
				return nil, err
			}
			arr = append(arr, v)
		}
		return arr, nil
	case yaml.ScalarNode:
		return r.scalar(n), nil
	}
	return nil, nil
}

func (r *Reader) scalar(n *yaml.Node) any {
	tag := n.ShortTag()
	if tag == "!!null" {
		return nil
	}
	if r.opt.StringScalars {
		return n.Value
	}
	switch tag {
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err == nil {
			return b
		}
	case "!!int":
		if i, err := strconv.ParseInt(n.Value, 0, 64); err == nil {
			return i
		}
		var i int64
		if err := n.Decode(&i); err == nil {
			return i
		}
	case "!!float":
		var f float64
		if err := n.Decode(&f); err == nil {
			return f
		}
	}
	return n.Value
}

// ResolveScalar reads text as a plain YAML scalar of type t. It resolves the
// text against t instead of the implicit YAML tag, so "123" can still be a
// string elsewhere in the same document.
func ResolveScalar(text string, t reflect.Type) (reflect.Value, error) {
	p := reflect.New(t)
	n := &yaml.Node{Kind: yaml.ScalarNode, Value: text}
	if err := n.Decode(p.Interface()); err != nil {
		return reflect.Value{}, err
	}
	return p.Elem(), nil
}

func pointer(path string) string {
	if path == "" {
		return "/"
	}
	return path
}

func escape(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '~':
			out = append(out, '~', '0')
		case '/':
			out = append(out, '~', '1')
		default:
			out = append(out, s[i])
		}
	}
	return string(out)
}
