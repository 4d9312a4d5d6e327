// Package loader reads and writes row files: JSONL (one record per line), a
// JSON array, or a YAML sequence of records.
package loader

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"github.com/vanderheijden86/treetable/pkg/model"
	"gopkg.in/yaml.v3"
)

// Format is a row file encoding.
type Format string

const (
	FormatJSONL Format = "jsonl"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
)

// ErrUnknownFormat is returned for files whose extension is not a row format.
var ErrUnknownFormat = errors.New("unknown row file format")

// FormatForPath picks the format from the file extension.
func FormatForPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jsonl", ".ndjson":
		return FormatJSONL, nil
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownFormat, path)
}

// DefaultMaxBufferSize is the default maximum JSONL line size (10MB).
const DefaultMaxBufferSize = 1024 * 1024 * 10

// ParseOptions configures parsing.
type ParseOptions struct {
	// WarningHandler is called with warning messages (e.g., malformed JSON).
	// If nil, warnings are printed to os.Stderr.
	WarningHandler func(string)

	// BufferSize sets the maximum JSONL line size in bytes. Longer lines
	// are skipped with a warning. If 0, uses DefaultMaxBufferSize.
	BufferSize int

	// TreeColumn is the cell that receives a record's padding.
	TreeColumn int
}

func (o ParseOptions) warn() func(string) {
	if o.WarningHandler != nil {
		return o.WarningHandler
	}
	return func(msg string) {
		fmt.Fprintf(os.Stderr, "Warning: %s\n", msg)
	}
}

// LoadFile reads rows from path using the format implied by its extension.
func LoadFile(path string, opts ParseOptions) ([]*model.Row, error) {
	format, err := FormatForPath(path)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open row file: %w", err)
	}
	defer file.Close()

	return Parse(file, format, opts)
}

// Parse reads rows in the given format.
func Parse(r io.Reader, format Format, opts ParseOptions) ([]*model.Row, error) {
	switch format {
	case FormatJSONL:
		return ParseJSONL(r, opts)
	case FormatJSON:
		return ParseJSON(r, opts)
	case FormatYAML:
		return ParseYAML(r, opts)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}

// ParseJSONL parses one record per line. Blank lines are ignored; malformed
// or invalid records are skipped with a warning.
func ParseJSONL(r io.Reader, opts ParseOptions) ([]*model.Row, error) {
	maxCapacity := opts.BufferSize
	if maxCapacity <= 0 {
		maxCapacity = DefaultMaxBufferSize
	}
	reader := bufio.NewReaderSize(r, maxCapacity)
	warn := opts.warn()

	var rows []*model.Row
	lineNum := 0
	for {
		lineNum++
		line, isPrefix, err := reader.ReadLine()
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, fmt.Errorf("error reading rows at line %d: %w", lineNum, err)
		}

		if isPrefix {
			warn(fmt.Sprintf("skipping line %d: line too long (exceeds %d bytes)", lineNum, maxCapacity))
			for isPrefix {
				_, isPrefix, err = reader.ReadLine()
				if err == io.EOF {
					break
				}
				if err != nil {
					return nil, fmt.Errorf("error skipping long line at line %d: %w", lineNum, err)
				}
			}
			continue
		}

		if lineNum == 1 {
			line = stripBOM(line)
		}
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}

		var rec Record
		if err := json.Unmarshal(line, &rec); err != nil {
			warn(fmt.Sprintf("skipping malformed JSON on line %d: %v", lineNum, err))
			continue
		}
		row := rec.Row(opts.TreeColumn)
		if err := row.Validate(); err != nil {
			warn(fmt.Sprintf("skipping invalid row on line %d: %v", lineNum, err))
			continue
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// ParseJSON parses a JSON array of records.
func ParseJSON(r io.Reader, opts ParseOptions) ([]*model.Row, error) {
	var recs []Record
	if err := json.NewDecoder(r).Decode(&recs); err != nil {
		return nil, fmt.Errorf("decoding JSON rows: %w", err)
	}
	return toRows(recs, opts), nil
}

// ParseYAML parses a YAML sequence of records. An empty document yields no
// rows.
func ParseYAML(r io.Reader, opts ParseOptions) ([]*model.Row, error) {
	var recs []Record
	if err := yaml.NewDecoder(r).Decode(&recs); err != nil && err != io.EOF {
		return nil, fmt.Errorf("decoding YAML rows: %w", err)
	}
	return toRows(recs, opts), nil
}

func toRows(recs []Record, opts ParseOptions) []*model.Row {
	warn := opts.warn()
	rows := make([]*model.Row, 0, len(recs))
	for i, rec := range recs {
		row := rec.Row(opts.TreeColumn)
		if err := row.Validate(); err != nil {
			warn(fmt.Sprintf("skipping invalid row %d: %v", i+1, err))
			continue
		}
		rows = append(rows, row)
	}
	return rows
}

// WriteJSONL writes rows as JSONL with their current state.
func WriteJSONL(w io.Writer, rows []*model.Row, treeColumn int) error {
	enc := json.NewEncoder(w)
	for _, row := range rows {
		if err := enc.Encode(RecordFrom(row, treeColumn)); err != nil {
			return fmt.Errorf("encoding row %s: %w", row.ID, err)
		}
	}
	return nil
}

// stripBOM removes the UTF-8 Byte Order Mark if present
func stripBOM(b []byte) []byte {
	if bytes.HasPrefix(b, []byte{0xEF, 0xBB, 0xBF}) {
		return b[3:]
	}
	return b
}
