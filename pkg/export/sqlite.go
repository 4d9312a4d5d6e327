package export

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/goccy/go-json"

	"github.com/vanderheijden86/treetable/pkg/metrics"
	"github.com/vanderheijden86/treetable/pkg/model"

	_ "modernc.org/sqlite"
)

// SchemaVersion is stored in the meta table of exported databases.
const SchemaVersion = 1

// CreateSchema creates the rows and meta tables. The rows table is the one
// the sqlite source reads.
func CreateSchema(ctx context.Context, db *sql.DB) error {
	rowsSQL := `
		CREATE TABLE IF NOT EXISTS rows (
			id TEXT PRIMARY KEY,
			position INTEGER NOT NULL,
			classes TEXT,
			cells TEXT
		)
	`
	if _, err := db.ExecContext(ctx, rowsSQL); err != nil {
		return fmt.Errorf("create rows table: %w", err)
	}
	if _, err := db.ExecContext(ctx, `CREATE INDEX IF NOT EXISTS idx_rows_position ON rows(position)`); err != nil {
		return fmt.Errorf("create position index: %w", err)
	}

	metaSQL := `
		CREATE TABLE IF NOT EXISTS export_meta (
			key TEXT PRIMARY KEY,
			value TEXT
		)
	`
	if _, err := db.ExecContext(ctx, metaSQL); err != nil {
		return fmt.Errorf("create meta table: %w", err)
	}
	return nil
}

// SaveSQLite writes rows to a new SQLite database at path, replacing any
// existing file. Each row keeps its document position, its class tokens
// (including the current expanded/collapsed tag) and its cell texts.
func SaveSQLite(ctx context.Context, path string, rows []*model.Row) error {
	if path == "" {
		return ErrNoPath
	}
	defer metrics.Timer(metrics.Export)()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create parent dir: %w", err)
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove existing database: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	if err := CreateSchema(ctx, db); err != nil {
		return err
	}
	if err := insertRows(ctx, db, rows); err != nil {
		return fmt.Errorf("insert rows: %w", err)
	}
	if err := writeMeta(ctx, db, len(rows)); err != nil {
		return fmt.Errorf("write meta: %w", err)
	}
	return db.Close()
}

func insertRows(ctx context.Context, db *sql.DB, rows []*model.Row) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO rows (id, position, classes, cells)
		VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, row := range rows {
		texts := make([]string, len(row.Cells))
		for j, c := range row.Cells {
			texts[j] = c.Text
		}
		cells, err := json.Marshal(texts)
		if err != nil {
			return fmt.Errorf("row %s: %w", row.ID, err)
		}
		if _, err := stmt.ExecContext(ctx, row.ID, i, row.ClassAttr(), string(cells)); err != nil {
			return fmt.Errorf("row %s: %w", row.ID, err)
		}
	}
	return tx.Commit()
}

func writeMeta(ctx context.Context, db *sql.DB, count int) error {
	meta := map[string]string{
		"schema_version": strconv.Itoa(SchemaVersion),
		"row_count":      strconv.Itoa(count),
		"exported_at":    time.Now().UTC().Format(time.RFC3339),
	}
	for k, v := range meta {
		if _, err := db.ExecContext(ctx, `INSERT OR REPLACE INTO export_meta (key, value) VALUES (?, ?)`, k, v); err != nil {
			return err
		}
	}
	return nil
}
