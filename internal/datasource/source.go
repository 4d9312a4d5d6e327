// Package datasource detects what kind of row source a path holds and loads
// rows from it: annotated HTML, row files (JSONL, JSON, YAML) or a SQLite
// database.
package datasource

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// SourceType identifies the type of data source
type SourceType string

const (
	// SourceTypeHTML is an HTML document with a table
	SourceTypeHTML SourceType = "html"
	// SourceTypeJSONL is a row file with one JSON record per line
	SourceTypeJSONL SourceType = "jsonl"
	// SourceTypeJSON is a JSON array of records
	SourceTypeJSON SourceType = "json"
	// SourceTypeYAML is a YAML sequence of records
	SourceTypeYAML SourceType = "yaml"
	// SourceTypeSQLite is a SQLite database with a rows table
	SourceTypeSQLite SourceType = "sqlite"
)

// ErrUnknownSource is returned when a path is not a supported source.
var ErrUnknownSource = errors.New("unknown source type")

// DataSource describes a row source on disk.
type DataSource struct {
	// Type identifies the source type
	Type SourceType `json:"type"`
	// Path is the path to the source file
	Path string `json:"path"`
	// ModTime is the last modification time of the source
	ModTime time.Time `json:"mod_time"`
	// Size is the file size in bytes
	Size int64 `json:"size"`
}

// String returns a human-readable description of the source
func (s DataSource) String() string {
	return fmt.Sprintf("%s (%s, %d bytes, mod=%s)", s.Path, s.Type, s.Size, s.ModTime.Format(time.RFC3339))
}

// IsRowFile reports whether the source is one of the row file formats.
func (s DataSource) IsRowFile() bool {
	switch s.Type {
	case SourceTypeJSONL, SourceTypeJSON, SourceTypeYAML:
		return true
	}
	return false
}

var extensions = map[string]SourceType{
	".html":    SourceTypeHTML,
	".htm":     SourceTypeHTML,
	".jsonl":   SourceTypeJSONL,
	".ndjson":  SourceTypeJSONL,
	".json":    SourceTypeJSON,
	".yaml":    SourceTypeYAML,
	".yml":     SourceTypeYAML,
	".db":      SourceTypeSQLite,
	".sqlite":  SourceTypeSQLite,
	".sqlite3": SourceTypeSQLite,
}

// TypeForPath returns the source type implied by the file extension.
func TypeForPath(path string) (SourceType, error) {
	if t, ok := extensions[strings.ToLower(filepath.Ext(path))]; ok {
		return t, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownSource, path)
}

// Detect stats path and classifies it by extension.
func Detect(path string) (DataSource, error) {
	t, err := TypeForPath(path)
	if err != nil {
		return DataSource{}, err
	}
	info, err := os.Stat(path)
	if err != nil {
		return DataSource{}, fmt.Errorf("cannot read source: %w", err)
	}
	if info.IsDir() {
		return DataSource{}, fmt.Errorf("%w: %s is a directory", ErrUnknownSource, path)
	}
	return DataSource{
		Type:    t,
		Path:    path,
		ModTime: info.ModTime(),
		Size:    info.Size(),
	}, nil
}
