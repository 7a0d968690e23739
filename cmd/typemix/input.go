package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/reoring/typemix"
	"github.com/reoring/typemix/load"
	"github.com/reoring/typemix/samples"
)

// inputFlags are shared by every command that reads a document.
type inputFlags struct {
	from         string
	encoding     string
	query        string
	typeName     string
	timeout      time.Duration
	forceCast    bool
	allowUnknown bool
	keepKeys     bool
}

func (f *inputFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVar(&f.from, "from", "", "Input format: json, yaml, csv or tsv (default: from the extension)")
	fs.StringVar(&f.encoding, "encoding", "", "Charset of the input and of --output files, for example shift_jis")
	fs.StringVar(&f.query, "query", "", "Select a subtree with a gjson path before binding")
	fs.StringVar(&f.typeName, "type", "", "Bind against a registered type ("+strings.Join(samples.Names(), ", ")+")")
	fs.DurationVar(&f.timeout, "timeout", 30*time.Second, "Timeout for URL sources")
	fs.BoolVar(&f.forceCast, "force-cast", false, "Coerce mismatching scalars instead of failing")
	fs.BoolVar(&f.allowUnknown, "allow-unknown", false, "Drop undeclared keys instead of failing")
	fs.BoolVar(&f.keepKeys, "keep-keys", false, "Do not normalize keys to snake_case")
}

func (f *inputFlags) bindOpt() typemix.BindOpt {
	return typemix.BindOpt{PreserveKeys: f.keepKeys, ForceCast: f.forceCast, AllowUnknown: f.allowUnknown}
}

// read loads src, applies the query and, when a type is selected, binds the
// result. The returned value is either the dynamic tree or the bound record.
func (a *app) read(ctx context.Context, src string, f *inputFlags) (any, error) {
	format, err := load.ParseFormat(f.from)
	if err != nil {
		return nil, err
	}
	var binder samples.Binder
	if f.typeName != "" {
		b, ok := samples.Lookup(f.typeName)
		if !ok {
			return nil, fmt.Errorf("unknown type %q (one of %s)", f.typeName, strings.Join(samples.Names(), ", "))
		}
		binder = b
	}

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()
	ld := load.New(load.WithLogger(a.log))
	raw, err := ld.Load(ctx, src, load.LoadOpt{Format: format, Encoding: f.encoding})
	if err != nil {
		return nil, err
	}
	raw, err = load.Query(raw, f.query)
	if err != nil {
		return nil, err
	}
	if binder == nil {
		return raw, nil
	}
	v, err := binder(raw, f.bindOpt())
	if err != nil {
		return nil, err
	}
	a.log.Debug().Str("type", f.typeName).Msg("bound")
	return v, nil
}
