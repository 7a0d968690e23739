package engine

import (
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sliceSource struct {
	toks []Token
	pos  int
	off  int64
}

func (s *sliceSource) NextToken() (Token, error) {
	if s.pos >= len(s.toks) {
		return Token{}, io.EOF
	}
	t := s.toks[s.pos]
	s.pos++
	s.off = t.Offset
	return t, nil
}

func (s *sliceSource) Location() int64 { return s.off }

func obj(toks ...Token) []Token {
	out := []Token{{Kind: KindBeginObject}}
	out = append(out, toks...)
	return append(out, Token{Kind: KindEndObject})
}

func key(k string) Token           { return Token{Kind: KindKey, String: k} }
func str(v string) Token           { return Token{Kind: KindString, String: v} }
func num(v string) Token           { return Token{Kind: KindNumber, Number: v} }
func src(t ...Token) *sliceSource { return &sliceSource{toks: t} }

func TestDecodeAny_Tree(t *testing.T) {
	toks := obj(
		key("name"), str("Tom"),
		key("id"), num("1"),
		key("ratio"), num("0.5"),
		key("tags"), Token{Kind: KindBeginArray}, Token{Kind: KindBool, Bool: true}, Token{Kind: KindNull}, Token{Kind: KindEndArray},
		key("empty"), Token{Kind: KindBeginArray}, Token{Kind: KindEndArray},
	)
	v, err := DecodeAny(src(toks...), nil)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"name":  "Tom",
		"id":    int64(1),
		"ratio": 0.5,
		"tags":  []any{true, nil},
		"empty": []any{},
	}, v)
}

func TestDecodeAny_Errors(t *testing.T) {
	_, err := DecodeAny(src(), nil)
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)

	_, err = DecodeAny(src(Token{Kind: KindBeginObject}, key("a")), nil)
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)

	_, err = DecodeAny(src(str("a"), str("b")), nil)
	assert.ErrorIs(t, err, ErrTrailingData)
}

func TestIntOrFloat(t *testing.T) {
	v, err := IntOrFloat("42")
	require.NoError(t, err)
	assert.Equal(t, int64(42), v)

	v, err = IntOrFloat("1e2")
	require.NoError(t, err)
	assert.Equal(t, 100.0, v)

	v, err = IntOrFloat("99999999999999999999")
	require.NoError(t, err)
	assert.IsType(t, float64(0), v)

	_, err = IntOrFloat("x")
	assert.Error(t, err)
}

func TestEnforcement_DuplicateKey(t *testing.T) {
	inner := obj(key("b"), num("1"), key("b"), num("2"))
	toks := obj(append([]Token{key("a")}, inner...)...)
	_, err := DecodeAny(WrapWithEnforcement(src(toks...), EnforceOptions{}), nil)
	var ie *IssueError
	require.True(t, errors.As(err, &ie))
	assert.Equal(t, CodeDuplicateKey, ie.Code)
	assert.Equal(t, "/a/b", ie.Path)
	assert.Equal(t, "b", ie.Key)
}

func TestEnforcement_AllowDuplicates(t *testing.T) {
	toks := obj(key("a"), num("1"), key("a"), num("2"))
	v, err := DecodeAny(WrapWithEnforcement(src(toks...), EnforceOptions{AllowDuplicates: true}), nil)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": int64(2)}, v)
}

func TestEnforcement_SiblingObjectsKeepSeparateKeys(t *testing.T) {
	toks := []Token{
		{Kind: KindBeginArray},
		{Kind: KindBeginObject}, key("id"), num("1"), {Kind: KindEndObject},
		{Kind: KindBeginObject}, key("id"), num("2"), {Kind: KindEndObject},
		{Kind: KindEndArray},
	}
	v, err := DecodeAny(WrapWithEnforcement(src(toks...), EnforceOptions{}), nil)
	require.NoError(t, err)
	assert.Len(t, v, 2)
}

func TestEnforcement_MaxDepth(t *testing.T) {
	toks := []Token{
		{Kind: KindBeginArray}, {Kind: KindBeginArray}, {Kind: KindBeginArray},
		{Kind: KindEndArray}, {Kind: KindEndArray}, {Kind: KindEndArray},
	}
	_, err := DecodeAny(WrapWithEnforcement(src(toks...), EnforceOptions{MaxDepth: 2}), nil)
	var ie *IssueError
	require.True(t, errors.As(err, &ie))
	assert.Equal(t, CodeParseError, ie.Code)
	assert.Equal(t, "/0/0", ie.Path)
}

func TestEnforcement_MaxBytes(t *testing.T) {
	toks := []Token{
		{Kind: KindBeginArray, Offset: 1},
		{Kind: KindString, String: "x", Offset: 4},
		{Kind: KindString, String: "y", Offset: 64},
		{Kind: KindEndArray, Offset: 65},
	}
	_, err := DecodeAny(WrapWithEnforcement(src(toks...), EnforceOptions{MaxBytes: 10}), nil)
	var ie *IssueError
	require.True(t, errors.As(err, &ie))
	assert.Equal(t, CodeTruncated, ie.Code)
	assert.Equal(t, "/1", ie.Path)
}
