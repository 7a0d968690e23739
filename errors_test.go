package typemix_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/typemix"
	"github.com/reoring/typemix/i18n"
	"github.com/reoring/typemix/samples"
)

func TestRequiredError_Message(t *testing.T) {
	_, err := typemix.Bind[onlyName](map[string]any{})
	require.Error(t, err)
	assert.Equal(t, "Required error: `typemix_test.onlyName#name: string` is empty", err.Error())

	be, ok := typemix.AsBindError(err)
	require.True(t, ok)
	assert.Equal(t, typemix.ErrorRequired, be.Kind())
	assert.Equal(t, "required", be.Kind().String())
	assert.Contains(t, be.Hint(), "Option[string]")
}

func TestInvalidTypeError_Message(t *testing.T) {
	_, err := typemix.Bind[basket](map[string]any{"favorites": []any{"apple"}})
	require.Error(t, err)
	assert.Equal(t,
		"Invalid type error: `typemix_test.basket#favorites[0] = apple` doesn't match the expected types [Food dict]; actual type is `string`",
		err.Error())

	iss, ok := typemix.AsIssues(err)
	require.True(t, ok)
	require.Len(t, iss, 1)
	assert.Equal(t, typemix.CodeInvalidType, iss[0].Code)
	assert.Equal(t, "/favorites/0", iss[0].Path)
	assert.Equal(t, []string{"Food", "dict"}, iss[0].Params["expected"])
}

func TestInvalidTypeError_UnwrapsCause(t *testing.T) {
	_, err := typemix.Bind[samples.Machine](map[string]any{"id": 1, "name": "m", "color": "pink"})
	var ie *typemix.InvalidTypeError
	require.True(t, errors.As(err, &ie))
	assert.Same(t, ie.Cause, errors.Unwrap(ie))
	assert.Contains(t, err.Error(), "pink")
}

func TestUnknownFieldsError_Message(t *testing.T) {
	_, err := typemix.Bind[onlyName](map[string]any{"name": "x", "extra": 1, "another": 2})
	require.Error(t, err)
	assert.Equal(t, "Unknown fields error: `typemix_test.onlyName` has unknown fields `another` and `extra`", err.Error())

	be, ok := typemix.AsBindError(fmt.Errorf("load: %w", err))
	require.True(t, ok)
	assert.Equal(t, typemix.ErrorUnknownFields, be.Kind())
	assert.Equal(t, []string{"another", "extra"}, be.Issue().Params["fields"])
}

func TestRender(t *testing.T) {
	_, err := typemix.Bind[onlyName](map[string]any{})
	out := typemix.Render(err)
	assert.Equal(t,
		"Required error\n\n"+
			"`typemix_test.onlyName#name: string` is empty\n\n"+
			"    * if `name` is required, supply a value; if it is optional, change its type from `string` to `Option[string]`\n",
		out)

	assert.Equal(t, "plain", typemix.Render(errors.New("plain")))
	assert.Empty(t, typemix.Render(nil))
}

func TestErrors_Japanese(t *testing.T) {
	i18n.SetLanguage("ja")
	t.Cleanup(func() { i18n.SetLanguage("en") })

	_, err := typemix.Bind[onlyName](map[string]any{})
	be, ok := typemix.AsBindError(err)
	require.True(t, ok)
	assert.Equal(t, "必須エラー", be.Title())
	assert.Equal(t, "`typemix_test.onlyName#name: string` が空です", be.Description())
}

func TestIssues_Error(t *testing.T) {
	iss := typemix.Issues{
		{Path: "/a", Code: typemix.CodeRequired},
		{Path: "/b", Code: typemix.CodeInvalidType},
		{Path: "/c", Code: typemix.CodeUnknownKey},
		{Path: "/d", Code: typemix.CodeRequired},
	}
	assert.Equal(t, "required at /a; invalid_type at /b; unknown_key at /c; ... (total 4)", iss.Error())
	assert.Empty(t, typemix.Issues(nil).Error())

	got, ok := typemix.AsIssues(fmt.Errorf("wrapped: %w", iss))
	require.True(t, ok)
	assert.Len(t, got, 4)

	_, ok = typemix.AsIssues(errors.New("x"))
	assert.False(t, ok)
}
