// Package json reads and writes the dynamic trees the binder and projector
// exchange: map[string]any, []any, string, bool, nil, int64 and float64.
//
// Decoding streams tokens from github.com/goccy/go-json through the engine's
// enforcement wrapper, so duplicate object keys are rejected instead of
// silently overwritten. Encoding is deterministic: object keys are sorted.
package json

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	eng "github.com/reoring/typemix/internal/engine"
)

// DefaultMaxDepth bounds container nesting when DecodeOptions.MaxDepth is 0.
const DefaultMaxDepth = 1000

// DecodeOptions controls Decode.
type DecodeOptions struct {
	// AllowDuplicates keeps the last value of a duplicated object key.
	AllowDuplicates bool
	// MaxDepth bounds nesting; 0 selects DefaultMaxDepth, negative disables the check.
	MaxDepth int
	// MaxBytes stops decoding past this input offset; 0 disables the check.
	MaxBytes int64
}

// ParseError reports malformed or rejected input.
type ParseError struct {
	Code string // parse_error, duplicate_key or truncated.
	Path string // JSON Pointer of the offending token, when known.
	Key  string // Offending key for duplicate_key.
	Err  error
}

func (e *ParseError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("json: %s at %s: %v", e.Code, e.Path, e.Err)
	}
	return fmt.Sprintf("json: %s: %v", e.Code, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// IssueCode returns the issue code of the error.
func (e *ParseError) IssueCode() string { return e.Code }

// IssuePath returns the JSON Pointer of the error.
func (e *ParseError) IssuePath() string { return e.Path }

// Decode parses exactly one JSON value.
func Decode(data []byte, opt DecodeOptions) (any, error) {
	return DecodeReader(bytes.NewReader(data), opt)
}

// DecodeReader parses exactly one JSON value from r.
func DecodeReader(r io.Reader, opt DecodeOptions) (any, error) {
	depth := opt.MaxDepth
	if depth == 0 {
		depth = DefaultMaxDepth
	} else if depth < 0 {
		depth = 0
	}
	src := eng.WrapWithEnforcement(newTokenSource(r), eng.EnforceOptions{
		AllowDuplicates: opt.AllowDuplicates,
		MaxDepth:        depth,
		MaxBytes:        opt.MaxBytes,
	})
	v, err := eng.DecodeAny(src, eng.IntOrFloat)
	if err != nil {
		var ie *eng.IssueError
		if errors.As(err, &ie) {
			return nil, &ParseError{Code: ie.Code, Path: ie.Path, Key: ie.Key, Err: errors.New(ie.Message)}
		}
		return nil, &ParseError{Code: eng.CodeParseError, Err: err}
	}
	return v, nil
}
