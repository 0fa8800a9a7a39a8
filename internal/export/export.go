package export

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/ivlev/script2edl/internal/director"
)

// Options carry the metadata exporters stamp on their output
type Options struct {
	App   string
	Title string
	Now   func() time.Time // nil uses time.Now
}

func (o Options) now() time.Time {
	if o.Now == nil {
		return time.Now()
	}
	return o.Now()
}

// Exporter writes an edit map in one file format
type Exporter interface {
	Export(w io.Writer, em *director.EditMap) error
	Extension() string
	ContentType() string
}

type factory func(opts Options) Exporter

var registry map[string]factory

// The pack exporter calls back into New, so the table is filled in init.
func init() {
	registry = map[string]factory{
		"json": func(o Options) Exporter { return &mapExporter{format: "json", opts: o} },
		"yaml": func(o Options) Exporter { return &mapExporter{format: "yaml", opts: o} },
		"csv":  func(o Options) Exporter { return &CSVExporter{} },
		"txt":  func(o Options) Exporter { return &ReportExporter{opts: o} },
		"srt":  func(o Options) Exporter { return &SRTExporter{} },
		"edl":  func(o Options) Exporter { return &CMXExporter{opts: o} },
		"zip":  func(o Options) Exporter { return &PackExporter{opts: o} },
	}
}

// New returns the exporter for a format name
func New(format string, opts Options) (Exporter, error) {
	f, ok := registry[strings.ToLower(format)]
	if !ok {
		return nil, fmt.Errorf("unknown export format: %s", format)
	}
	return f(opts), nil
}

// Formats lists the registered format names
func Formats() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Bytes renders em with the named exporter
func Bytes(format string, em *director.EditMap, opts Options) ([]byte, error) {
	e, err := New(format, opts)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := e.Export(&buf, em); err != nil {
		return nil, fmt.Errorf("%s export: %w", format, err)
	}
	return buf.Bytes(), nil
}

// WriteFile renders em into path
func WriteFile(format string, em *director.EditMap, path string, opts Options) error {
	data, err := Bytes(format, em, opts)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// mapExporter writes the exchange format with export metadata
type mapExporter struct {
	format string
	opts   Options
}

func (e *mapExporter) Export(w io.Writer, em *director.EditMap) error {
	data, err := director.Marshal(director.Stamp(em, e.opts.App, e.opts.now()), e.format)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

func (e *mapExporter) Extension() string { return e.format }

func (e *mapExporter) ContentType() string {
	if e.format == "json" {
		return "application/json"
	}
	return "application/yaml"
}
