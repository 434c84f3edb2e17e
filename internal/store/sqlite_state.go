package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"vitae-cli/internal/model"
)

// LoadSQLite loads the workspace state from <dir>/vitae.sqlite, creating the schema if needed.
func (s Store) LoadSQLite(ctx context.Context) (*DB, error) {
	db, err := s.openSQLite(ctx)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	return loadStateFromSQLite(ctx, db)
}

func (s Store) SaveSQLite(ctx context.Context, st *DB) error {
	if st == nil {
		return errors.New("nil db")
	}
	db, err := s.openSQLite(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `INSERT OR REPLACE INTO state_meta(k, v) VALUES(?, ?)`, "version", strconv.Itoa(st.Version)); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `INSERT OR REPLACE INTO state_meta(k, v) VALUES(?, ?)`, "current_document_id", strings.TrimSpace(st.CurrentDocumentID)); err != nil {
		return err
	}

	// Replace-all: the whole workspace is a handful of small trees.
	for _, t := range []string{"documents", "sections", "items", "fields"} {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+t); err != nil {
			return err
		}
	}

	nowMs := time.Now().UTC().UnixMilli()

	for _, d := range st.Documents {
		raw, _ := json.Marshal(d)
		if _, err := tx.ExecContext(ctx, `INSERT INTO documents(id, title, template_id, json, updated_at_unixms) VALUES(?, ?, ?, ?, ?)`,
			d.ID, d.Title, d.TemplateID, string(raw), nowMs); err != nil {
			return fmt.Errorf("save document %s: %w", d.ID, err)
		}
	}
	for _, sec := range st.Sections {
		raw, _ := json.Marshal(sec)
		meta, _ := json.Marshal(sec.Metadata)
		if _, err := tx.ExecContext(ctx, `INSERT INTO sections(id, document_id, type, display_order, metadata_json, json, updated_at_unixms) VALUES(?, ?, ?, ?, ?, ?, ?)`,
			sec.ID, sec.DocumentID, string(sec.Type), sec.DisplayOrder, string(meta), string(raw), nowMs); err != nil {
			return fmt.Errorf("save section %s: %w", sec.ID, err)
		}
	}
	for _, it := range st.Items {
		raw, _ := json.Marshal(it)
		if _, err := tx.ExecContext(ctx, `INSERT INTO items(id, section_id, container_type, display_order, json, updated_at_unixms) VALUES(?, ?, ?, ?, ?, ?)`,
			it.ID, it.SectionID, string(it.ContainerType), it.DisplayOrder, string(raw), nowMs); err != nil {
			return fmt.Errorf("save item %s: %w", it.ID, err)
		}
	}
	for _, f := range st.Fields {
		raw, _ := json.Marshal(f)
		if _, err := tx.ExecContext(ctx, `INSERT INTO fields(id, item_id, name, type, display_order, json, updated_at_unixms) VALUES(?, ?, ?, ?, ?, ?, ?)`,
			f.ID, f.ItemID, f.Name, string(f.Type), f.DisplayOrder, string(raw), nowMs); err != nil {
			return fmt.Errorf("save field %s: %w", f.ID, err)
		}
	}

	return tx.Commit()
}

func migrateSQLiteState(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS state_meta (
			k TEXT PRIMARY KEY,
			v TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS documents (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			template_id TEXT NOT NULL,
			json TEXT NOT NULL,
			updated_at_unixms INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS sections (
			id TEXT PRIMARY KEY,
			document_id TEXT NOT NULL,
			type TEXT NOT NULL,
			display_order INTEGER NOT NULL,
			metadata_json TEXT NOT NULL,
			json TEXT NOT NULL,
			updated_at_unixms INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_sections_document ON sections(document_id, display_order);`,
		`CREATE TABLE IF NOT EXISTS items (
			id TEXT PRIMARY KEY,
			section_id TEXT NOT NULL,
			container_type TEXT NOT NULL,
			display_order INTEGER NOT NULL,
			json TEXT NOT NULL,
			updated_at_unixms INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_items_section ON items(section_id, display_order);`,
		`CREATE TABLE IF NOT EXISTS fields (
			id TEXT PRIMARY KEY,
			item_id TEXT NOT NULL,
			name TEXT NOT NULL,
			type TEXT NOT NULL,
			display_order INTEGER NOT NULL,
			json TEXT NOT NULL,
			updated_at_unixms INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_fields_item ON fields(item_id, display_order);`,
	}
	for _, st := range stmts {
		if _, err := db.ExecContext(ctx, st); err != nil {
			return err
		}
	}
	return nil
}

func loadStateFromSQLite(ctx context.Context, db *sql.DB) (*DB, error) {
	out := &DB{Version: 1}

	readMeta := func(k string) string {
		var v string
		_ = db.QueryRowContext(ctx, `SELECT v FROM state_meta WHERE k = ?`, k).Scan(&v)
		return strings.TrimSpace(v)
	}
	if v := readMeta("version"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			out.Version = n
		}
	}
	out.CurrentDocumentID = readMeta("current_document_id")

	var err error
	if out.Documents, err = readJSONRows[model.Document](ctx, db, `SELECT json FROM documents ORDER BY id`); err != nil {
		return nil, err
	}
	if out.Sections, err = readJSONRows[model.Section](ctx, db, `SELECT json FROM sections ORDER BY document_id, display_order, id`); err != nil {
		return nil, err
	}
	if out.Items, err = readJSONRows[model.Item](ctx, db, `SELECT json FROM items ORDER BY section_id, display_order, id`); err != nil {
		return nil, err
	}
	if out.Fields, err = readJSONRows[model.Field](ctx, db, `SELECT json FROM fields ORDER BY item_id, display_order, id`); err != nil {
		return nil, err
	}

	// Ensure nil slices are empty for stable callers.
	if out.Documents == nil {
		out.Documents = []model.Document{}
	}
	if out.Sections == nil {
		out.Sections = []model.Section{}
	}
	if out.Items == nil {
		out.Items = []model.Item{}
	}
	if out.Fields == nil {
		out.Fields = []model.Field{}
	}
	return out, nil
}

func readJSONRows[T any](ctx context.Context, db *sql.DB, query string) ([]T, error) {
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []T
	for rows.Next() {
		var js string
		if err := rows.Scan(&js); err != nil {
			return nil, err
		}
		var v T
		if err := json.Unmarshal([]byte(js), &v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
