// Package table renders rows as a pipe-delimited text grid whose columns are
// aligned by display width, so East Asian wide characters count as two cells.
package table

import (
	"strings"

	"github.com/mattn/go-runewidth"

	jsonfmt "github.com/reoring/typemix/format/json"
)

// MinWidth is the narrowest column the grid renders.
const MinWidth = 3

// widthCond counts ambiguous-width runes as one cell whatever the locale.
var widthCond = &runewidth.Condition{EastAsianWidth: false, StrictEmojiNeutral: true}

// Render writes a header row, a dash separator row and one row per entry.
// Cells use the same inline form as CSV. Every line ends with a newline.
func Render(rows []map[string]any, fields []string) string {
	cells := make([][]string, len(rows))
	widths := make([]int, len(fields))
	for j, f := range fields {
		widths[j] = max(MinWidth, widthCond.StringWidth(f))
	}
	for i, row := range rows {
		cells[i] = make([]string, len(fields))
		for j, f := range fields {
			c := sanitize(jsonfmt.Inline(row[f]))
			cells[i][j] = c
			widths[j] = max(widths[j], widthCond.StringWidth(c))
		}
	}

	var b strings.Builder
	writeRow(&b, fields, widths)
	sep := make([]string, len(fields))
	for j, w := range widths {
		sep[j] = strings.Repeat("-", w)
	}
	writeRow(&b, sep, widths)
	for _, r := range cells {
		writeRow(&b, r, widths)
	}
	return b.String()
}

func writeRow(b *strings.Builder, cells []string, widths []int) {
	b.WriteByte('|')
	for j, c := range cells {
		b.WriteByte(' ')
		b.WriteString(widthCond.FillRight(c, widths[j]))
		b.WriteString(" |")
	}
	b.WriteByte('\n')
}

// sanitize keeps a cell on one line and escapes the column separator.
func sanitize(s string) string {
	if !strings.ContainsAny(s, "|\r\n") {
		return s
	}
	s = strings.ReplaceAll(s, "|", `\|`)
	s = strings.ReplaceAll(s, "\r\n", " ")
	return strings.NewReplacer("\n", " ", "\r", " ").Replace(s)
}
