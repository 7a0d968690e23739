// Package load reads dynamic trees from files and URLs and writes rendered
// text back to disk. It is the I/O side of typemix: the binder and projector
// never touch files or sockets themselves.
package load

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"

	csvfmt "github.com/reoring/typemix/format/csv"
	jsonfmt "github.com/reoring/typemix/format/json"
	yamlfmt "github.com/reoring/typemix/format/yaml"
)

// Format names a text format understood by Load.
type Format string

const (
	FormatAuto Format = ""
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatCSV  Format = "csv"
	FormatTSV  Format = "tsv"
)

// ParseFormat maps a user-supplied name to a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return FormatAuto, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "csv":
		return FormatCSV, nil
	case "tsv":
		return FormatTSV, nil
	}
	return FormatAuto, fmt.Errorf("unknown format %q", s)
}

// LoadOpt configures Load. The zero value infers the format and reads UTF-8.
type LoadOpt struct {
	Format   Format
	Encoding string // WHATWG encoding label, for example "shift_jis"; "" means utf-8.
	CSV      csvfmt.ReadOptions
	YAML     yamlfmt.DecodeOptions
	JSON     jsonfmt.DecodeOptions
}

// ErrStatus is wrapped by Load when a URL answers with a non-2xx status.
var ErrStatus = errors.New("unexpected HTTP status")

// Loader reads and writes documents. The zero value is not usable; call New.
type Loader struct {
	log    zerolog.Logger
	client *http.Client
}

// Option configures a Loader.
type Option func(*Loader)

// WithLogger sets the logger used for load and save events.
func WithLogger(l zerolog.Logger) Option {
	return func(ld *Loader) { ld.log = l }
}

// WithHTTPClient sets the client used for http(s) sources.
func WithHTTPClient(c *http.Client) Option {
	return func(ld *Loader) {
		if c != nil {
			ld.client = c
		}
	}
}

// New returns a Loader that logs nothing and uses http.DefaultClient.
func New(opts ...Option) *Loader {
	ld := &Loader{log: zerolog.Nop(), client: http.DefaultClient}
	for _, o := range opts {
		o(ld)
	}
	return ld
}

var defaultLoader = New()

// Load reads src with a default Loader.
func Load(ctx context.Context, src string, opt LoadOpt) (any, error) {
	return defaultLoader.Load(ctx, src, opt)
}

// Load reads src (a file path or an http(s) URL) and decodes it into a
// dynamic tree. CSV and TSV sources decode to a list of rows.
func (l *Loader) Load(ctx context.Context, src string, opt LoadOpt) (any, error) {
	data, contentType, err := l.read(ctx, src)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", src, err)
	}
	data, err = decodeText(data, opt.Encoding)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", src, err)
	}
	f := opt.Format
	if f == FormatAuto {
		f = inferFormat(src, contentType)
	}
	l.log.Debug().Str("source", src).Str("format", string(f)).Int("bytes", len(data)).Msg("loaded")

	v, err := Decode(data, f, opt)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", src, err)
	}
	return v, nil
}

// Decode parses already-read text in the given format.
func Decode(data []byte, f Format, opt LoadOpt) (any, error) {
	switch f {
	case FormatYAML:
		return yamlfmt.Decode(data, opt.YAML)
	case FormatCSV, FormatTSV:
		ropt := opt.CSV
		if ropt.Comma == 0 && f == FormatTSV {
			ropt.Comma = '\t'
		}
		rows, err := csvfmt.Read(data, ropt)
		if err != nil {
			return nil, err
		}
		out := make([]any, len(rows))
		for i, r := range rows {
			out[i] = r
		}
		return out, nil
	default:
		return jsonfmt.Decode(data, opt.JSON)
	}
}

func (l *Loader) read(ctx context.Context, src string) ([]byte, string, error) {
	if !isURL(src) {
		b, err := os.ReadFile(src)
		return b, "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return nil, "", err
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, "", fmt.Errorf("%w: %s", ErrStatus, resp.Status)
	}
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", err
	}
	return b, resp.Header.Get("Content-Type"), nil
}

func isURL(src string) bool {
	return strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://")
}

// inferFormat picks a format from the file extension, then from the
// response content type, and falls back to JSON.
func inferFormat(src, contentType string) Format {
	p := src
	if isURL(src) {
		if u, err := url.Parse(src); err == nil {
			p = u.Path
		}
		p = path.Ext(p)
	} else {
		p = filepath.Ext(p)
	}
	switch strings.ToLower(p) {
	case ".yaml", ".yml":
		return FormatYAML
	case ".csv":
		return FormatCSV
	case ".tsv":
		return FormatTSV
	case ".json":
		return FormatJSON
	}
	ct := strings.ToLower(contentType)
	switch {
	case strings.Contains(ct, "yaml"):
		return FormatYAML
	case strings.Contains(ct, "tab-separated"):
		return FormatTSV
	case strings.Contains(ct, "csv"):
		return FormatCSV
	}
	return FormatJSON
}

func lookupEncoding(label string) (encoding.Encoding, error) {
	if label == "" {
		return nil, nil
	}
	enc, err := htmlindex.Get(label)
	if err != nil {
		return nil, fmt.Errorf("encoding %q: %w", label, err)
	}
	if name, _ := htmlindex.Name(enc); name == "utf-8" {
		return nil, nil
	}
	return enc, nil
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

func decodeText(b []byte, label string) ([]byte, error) {
	enc, err := lookupEncoding(label)
	if err != nil {
		return nil, err
	}
	if enc == nil {
		return trimBOM(b), nil
	}
	out, err := enc.NewDecoder().Bytes(b)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", label, err)
	}
	return out, nil
}

func trimBOM(b []byte) []byte {
	if len(b) >= 3 && b[0] == utf8BOM[0] && b[1] == utf8BOM[1] && b[2] == utf8BOM[2] {
		return b[3:]
	}
	return b
}
