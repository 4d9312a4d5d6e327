package datasource

import (
	"context"
	"fmt"
	"os"

	"github.com/vanderheijden86/treetable/pkg/debug"
	"github.com/vanderheijden86/treetable/pkg/loader"
	"github.com/vanderheijden86/treetable/pkg/markup"
	"github.com/vanderheijden86/treetable/pkg/metrics"
	"github.com/vanderheijden86/treetable/pkg/model"
)

// Loaded is the result of loading one or more sources.
type Loaded struct {
	Sources []DataSource
	Rows    []*model.Row

	// Document is set for a single HTML source so the engine's annotations
	// can be written back into the markup.
	Document *markup.Document
}

// Load detects the type of path and reads its rows.
func Load(ctx context.Context, path string, opts loader.ParseOptions) (*Loaded, error) {
	defer metrics.Timer(metrics.SourceLoad)()

	source, err := Detect(path)
	if err != nil {
		return nil, err
	}
	debug.Log("datasource: loading %s", source)

	out := &Loaded{Sources: []DataSource{source}}
	out.Rows, out.Document, err = LoadFromSource(ctx, source, opts)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// LoadAll loads several sources into one row list. A single path may be of
// any type; several paths must all be row files, which are read concurrently
// and concatenated in argument order.
func LoadAll(ctx context.Context, paths []string, opts loader.ParseOptions) (*Loaded, error) {
	switch len(paths) {
	case 0:
		return nil, fmt.Errorf("no source given")
	case 1:
		return Load(ctx, paths[0], opts)
	}

	defer metrics.Timer(metrics.SourceLoad)()
	out := &Loaded{}
	for _, p := range paths {
		source, err := Detect(p)
		if err != nil {
			return nil, err
		}
		if !source.IsRowFile() {
			return nil, fmt.Errorf("%s: only jsonl, json and yaml sources can be combined, got %s", p, source.Type)
		}
		out.Sources = append(out.Sources, source)
	}

	rows, err := loader.LoadFiles(ctx, paths, opts)
	if err != nil {
		return nil, err
	}
	out.Rows = rows
	return out, nil
}

// LoadFromSource reads rows from a detected source, dispatching to the
// appropriate reader based on source type.
func LoadFromSource(ctx context.Context, source DataSource, opts loader.ParseOptions) ([]*model.Row, *markup.Document, error) {
	switch source.Type {
	case SourceTypeHTML:
		f, err := os.Open(source.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open HTML source: %w", err)
		}
		defer f.Close()
		doc, err := markup.Parse(f)
		if err != nil {
			return nil, nil, fmt.Errorf("%s: %w", source.Path, err)
		}
		return doc.Rows(), doc, nil

	case SourceTypeJSONL, SourceTypeJSON, SourceTypeYAML:
		rows, err := loader.LoadFile(source.Path, opts)
		return rows, nil, err

	case SourceTypeSQLite:
		reader, err := NewSQLiteReader(source)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open SQLite source %s: %w", source.Path, err)
		}
		defer reader.Close()
		warn := opts.WarningHandler
		if warn == nil {
			warn = func(msg string) { fmt.Fprintf(os.Stderr, "Warning: %s\n", msg) }
		}
		rows, err := reader.LoadRows(ctx, warn)
		return rows, nil, err

	default:
		return nil, nil, fmt.Errorf("%w: %s", ErrUnknownSource, source.Type)
	}
}
