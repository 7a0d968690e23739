package typemix

import (
	csvfmt "github.com/reoring/typemix/format/csv"
	jsonfmt "github.com/reoring/typemix/format/json"
	"github.com/reoring/typemix/format/table"
	yamlfmt "github.com/reoring/typemix/format/yaml"
)

// ToJSON projects v and renders it on one line with sorted keys.
func ToJSON(v any, opts ...ProjectOpt) (string, error) {
	return toJSON(v, 0, opts)
}

// ToPrettyJSON projects v and renders it indented by four spaces.
func ToPrettyJSON(v any, opts ...ProjectOpt) (string, error) {
	return toJSON(v, 4, opts)
}

func toJSON(v any, indent int, opts []ProjectOpt) (string, error) {
	out, err := Project(v, opts...)
	if err != nil {
		return "", err
	}
	b, err := jsonfmt.Encode(out, jsonfmt.EncodeOptions{Indent: indent})
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// ToYAML projects v and renders it as block-style YAML with sorted keys.
func ToYAML(v any, opts ...ProjectOpt) (string, error) {
	out, err := Project(v, opts...)
	if err != nil {
		return "", err
	}
	b, err := yamlfmt.Encode(out)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// ToCSV projects v (one instance or a list of them) into delimited rows.
func ToCSV(v any, opt CSVOpt) (string, error) {
	rows, err := ToDicts(v, opt.ProjectOpt)
	if err != nil {
		return "", err
	}
	b, err := csvfmt.Write(rows, opt.Fields, csvfmt.WriteOptions{Header: opt.Header, Tab: opt.Tab, CRLF: opt.CRLF})
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// ToTable projects v into a pipe-delimited grid aligned by display width.
func ToTable(v any, opt TableOpt) (string, error) {
	rows, err := ToDicts(v, opt.ProjectOpt)
	if err != nil {
		return "", err
	}
	fields := opt.Fields
	if len(fields) == 0 {
		fields = csvfmt.Columns(rows)
	}
	return table.Render(rows, fields), nil
}
