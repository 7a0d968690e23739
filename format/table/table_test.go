package table_test

import (
	"strings"
	"testing"

	"github.com/mattn/go-runewidth"
	"github.com/stretchr/testify/assert"

	"github.com/reoring/typemix/format/table"
)

func TestRender_Aligned(t *testing.T) {
	out := table.Render([]map[string]any{
		{"id": 1, "name": "Tom"},
		{"id": 20, "name": "Alexander"},
	}, []string{"id", "name"})
	want := "" +
		"| id  | name      |\n" +
		"| --- | --------- |\n" +
		"| 1   | Tom       |\n" +
		"| 20  | Alexander |\n"
	assert.Equal(t, want, out)
}

func TestRender_WideCharacters(t *testing.T) {
	out := table.Render([]map[string]any{
		{"name": "りんご"},
		{"name": "pear"},
	}, []string{"name"})
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	w := runewidth.StringWidth(lines[0])
	for _, l := range lines {
		assert.Equal(t, w, runewidth.StringWidth(l), l)
	}
	assert.Equal(t, "| りんご |", lines[2])
}

func TestRender_AmbiguousWidthIsNarrow(t *testing.T) {
	out := table.Render([]map[string]any{{"k": "①②"}, {"k": "αβγδ"}}, []string{"k"})
	want := "" +
		"| k    |\n" +
		"| ---- |\n" +
		"| ①②   |\n" +
		"| αβγδ |\n"
	assert.Equal(t, want, out)
}

func TestRender_NestedAndEscaped(t *testing.T) {
	out := table.Render([]map[string]any{
		{"tags": []any{"a"}, "memo": "x|y\nz"},
	}, []string{"memo", "tags"})
	assert.Contains(t, out, `x\|y z`)
	assert.Contains(t, out, "['a']")
}

func TestRender_NoRows(t *testing.T) {
	assert.Equal(t, "| id  |\n| --- |\n", table.Render(nil, []string{"id"}))
}
