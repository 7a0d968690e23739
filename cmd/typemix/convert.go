package main

import (
	"fmt"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"

	"github.com/reoring/typemix"
	"github.com/reoring/typemix/load"
)

type convertFlags struct {
	inputFlags
	to          string
	output      string
	fields      string
	keepNone    bool
	ignoreEmpty bool
	header      bool
	crlf        bool
	dump        bool
}

var dumper = spew.ConfigState{Indent: "  ", SortKeys: true, DisablePointerAddresses: true, DisableCapacities: true}

func newConvertCmd(a *app) *cobra.Command {
	f := &convertFlags{}
	cmd := &cobra.Command{
		Use:   "convert <file-or-url>",
		Short: "Render a document in another format",
		Long: `Loads a JSON, YAML, CSV or TSV document, optionally binds it against a
registered type, and writes it as json, pretty, yaml, csv, tsv or table.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := a.read(cmd.Context(), args[0], &f.inputFlags)
			if err != nil {
				return err
			}
			if f.dump {
				dumper.Fdump(cmd.ErrOrStderr(), v)
			}
			text, err := f.render(v)
			if err != nil {
				return err
			}
			if f.output != "" {
				path, err := load.New(load.WithLogger(a.log)).Save(f.output, []byte(text), f.encoding)
				if err != nil {
					return err
				}
				a.log.Info().Str("path", path).Msg("written")
				return nil
			}
			if !strings.HasSuffix(text, "\n") {
				text += "\n"
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), text)
			return err
		},
	}
	f.register(cmd)
	fs := cmd.Flags()
	fs.StringVarP(&f.to, "to", "t", "json", "Output format: json, pretty, yaml, csv, tsv or table")
	fs.StringVarP(&f.output, "output", "o", "", "Write to this file instead of stdout")
	fs.StringVar(&f.fields, "fields", "", "Comma-separated column order for csv, tsv and table")
	fs.BoolVar(&f.keepNone, "keep-none", false, "Emit null for empty optional fields")
	fs.BoolVar(&f.ignoreEmpty, "ignore-empty", false, "Omit empty lists and dicts")
	fs.BoolVar(&f.header, "header", false, "Write a header row for csv and tsv")
	fs.BoolVar(&f.crlf, "crlf", false, "Terminate csv and tsv records with CRLF")
	fs.BoolVar(&f.dump, "dump", false, "Dump the loaded or bound Go value to stderr")
	return cmd
}

func (f *convertFlags) render(v any) (string, error) {
	popt := typemix.ProjectOpt{KeepNone: f.keepNone, IgnoreEmpty: f.ignoreEmpty}
	var fields []string
	if f.fields != "" {
		for _, s := range strings.Split(f.fields, ",") {
			if s = strings.TrimSpace(s); s != "" {
				fields = append(fields, s)
			}
		}
	}
	switch strings.ToLower(f.to) {
	case "json":
		return typemix.ToJSON(v, popt)
	case "pretty":
		return typemix.ToPrettyJSON(v, popt)
	case "yaml", "yml":
		return typemix.ToYAML(v, popt)
	case "csv", "tsv":
		return typemix.ToCSV(v, typemix.CSVOpt{
			ProjectOpt: popt,
			Fields:     fields,
			Header:     f.header,
			Tab:        strings.EqualFold(f.to, "tsv"),
			CRLF:       f.crlf,
		})
	case "table":
		return typemix.ToTable(v, typemix.TableOpt{ProjectOpt: popt, Fields: fields})
	}
	return "", fmt.Errorf("unknown output format %q", f.to)
}
