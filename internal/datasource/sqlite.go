package datasource

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/goccy/go-json"
	_ "modernc.org/sqlite"

	"github.com/vanderheijden86/treetable/pkg/debug"
	"github.com/vanderheijden86/treetable/pkg/model"
)

// SQLiteReader provides read access to a rows table:
//
//	CREATE TABLE rows (
//	    id       TEXT PRIMARY KEY,
//	    position INTEGER,
//	    classes  TEXT, -- space separated class tokens
//	    cells    TEXT  -- JSON array of strings
//	);
type SQLiteReader struct {
	db   *sql.DB
	path string
}

// NewSQLiteReader opens a SQLite database for reading
func NewSQLiteReader(source DataSource) (*SQLiteReader, error) {
	if source.Type != SourceTypeSQLite {
		return nil, fmt.Errorf("source is not SQLite: %s", source.Type)
	}

	dsn := fmt.Sprintf("file:%s?mode=ro&_pragma=busy_timeout(5000)", source.Path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("cannot open database: %w", err)
	}

	pragmas := []string{
		"PRAGMA cache_size = -16000",
		"PRAGMA temp_store = MEMORY",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			debug.Log("datasource: %s failed: %v", pragma, err)
		}
	}

	return &SQLiteReader{
		db:   db,
		path: source.Path,
	}, nil
}

// Close closes the database connection
func (r *SQLiteReader) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// LoadRows reads every row ordered by position. Cells that are not a JSON
// string array are reported through warn and left empty.
func (r *SQLiteReader) LoadRows(ctx context.Context, warn func(string)) ([]*model.Row, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, classes, cells
		FROM rows
		ORDER BY position, rowid
	`)
	if err != nil {
		return nil, fmt.Errorf("querying rows in %s: %w", r.path, err)
	}
	defer rows.Close()

	var out []*model.Row
	for rows.Next() {
		var id string
		var classes, cells sql.NullString
		if err := rows.Scan(&id, &classes, &cells); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}

		row := &model.Row{ID: strings.TrimSpace(id)}
		if classes.Valid {
			model.ParseClasses(row, strings.Fields(classes.String))
		}
		if cells.Valid && cells.String != "" {
			var texts []string
			if err := json.Unmarshal([]byte(cells.String), &texts); err != nil {
				warn(fmt.Sprintf("row %s: cells are not a JSON string array: %v", row.ID, err))
			}
			for _, t := range texts {
				row.Cells = append(row.Cells, model.Cell{Text: t})
			}
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading rows: %w", err)
	}
	return out, nil
}

// CountRows returns the number of rows in the table.
func (r *SQLiteReader) CountRows(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM rows").Scan(&count); err != nil {
		return 0, fmt.Errorf("counting rows: %w", err)
	}
	return count, nil
}
