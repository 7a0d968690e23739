package json

import (
	"bytes"
	"fmt"
	"reflect"
	"sort"
	"strings"

	j "github.com/goccy/go-json"
)

// EncodeOptions controls Encode.
type EncodeOptions struct {
	// Indent is the number of spaces per nesting level; 0 renders a single line.
	Indent int
}

// Encode renders v with sorted object keys, without ASCII or HTML escaping.
// Single-line output separates items with "," and keys with ": ".
func Encode(v any, opt EncodeOptions) ([]byte, error) {
	e := &encoder{indent: strings.Repeat(" ", opt.Indent)}
	if err := e.value(v, 0); err != nil {
		return nil, err
	}
	return e.buf.Bytes(), nil
}

// Inline renders a nested value as a one-line cell: single-line JSON with
// double quotes replaced by single quotes. Scalars render as their plain text
// and nil as the empty string.
func Inline(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Map, reflect.Slice, reflect.Array:
		b, err := Encode(v, EncodeOptions{})
		if err != nil {
			return fmt.Sprint(v)
		}
		return strings.ReplaceAll(string(b), `"`, "'")
	}
	return fmt.Sprint(v)
}

type encoder struct {
	buf    bytes.Buffer
	indent string
}

func (e *encoder) newline(depth int) {
	if e.indent == "" {
		return
	}
	e.buf.WriteByte('\n')
	for i := 0; i < depth; i++ {
		e.buf.WriteString(e.indent)
	}
}

func (e *encoder) value(v any, depth int) error {
	switch x := v.(type) {
	case nil:
		e.buf.WriteString("null")
		return nil
	case map[string]any:
		return e.object(x, depth)
	case []any:
		return e.array(x, depth)
	case string, bool, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64, j.Number:
		return e.scalar(v)
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			e.buf.WriteString("null")
			return nil
		}
		return e.value(rv.Elem().Interface(), depth)
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return e.scalar(v)
		}
		m := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			m[iter.Key().String()] = iter.Value().Interface()
		}
		return e.object(m, depth)
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.Type().Elem().Kind() == reflect.Uint8 {
			return e.scalar(v)
		}
		s := make([]any, rv.Len())
		for i := range s {
			s[i] = rv.Index(i).Interface()
		}
		return e.array(s, depth)
	}
	return e.scalar(v)
}

func (e *encoder) scalar(v any) error {
	b, err := j.MarshalNoEscape(v)
	if err != nil {
		return fmt.Errorf("json: encode %T: %w", v, err)
	}
	e.buf.Write(b)
	return nil
}

func (e *encoder) object(m map[string]any, depth int) error {
	if len(m) == 0 {
		e.buf.WriteString("{}")
		return nil
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	e.buf.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			e.buf.WriteByte(',')
		}
		e.newline(depth + 1)
		if err := e.scalar(k); err != nil {
			return err
		}
		e.buf.WriteString(": ")
		if err := e.value(m[k], depth+1); err != nil {
			return err
		}
	}
	e.newline(depth)
	e.buf.WriteByte('}')
	return nil
}

func (e *encoder) array(s []any, depth int) error {
	if len(s) == 0 {
		e.buf.WriteString("[]")
		return nil
	}
	e.buf.WriteByte('[')
	for i, v := range s {
		if i > 0 {
			e.buf.WriteByte(',')
		}
		e.newline(depth + 1)
		if err := e.value(v, depth+1); err != nil {
			return err
		}
	}
	e.newline(depth)
	e.buf.WriteByte(']')
	return nil
}
