package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"path/filepath"
	"strings"
	"time"

	"vitae-cli/internal/model"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

func (s Store) SQLitePath() string {
	return filepath.Join(filepath.Clean(s.Dir), sqliteFileName)
}

func (s Store) openSQLite(ctx context.Context) (*sql.DB, error) {
	if err := s.Ensure(); err != nil {
		return nil, err
	}
	// modernc.org/sqlite driver name is "sqlite".
	db, err := sql.Open("sqlite", s.SQLitePath())
	if err != nil {
		return nil, err
	}
	// WAL lets the TUI/web writer and CLI readers share the file; busy_timeout avoids "database is locked".
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA foreign_keys=ON;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	if err := migrateSQLiteState(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := migrateSQLiteEvents(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func migrateSQLiteEvents(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS events (
			event_id TEXT PRIMARY KEY,
			type TEXT NOT NULL,
			entity_id TEXT NOT NULL,
			issued_at_unixms INTEGER NOT NULL,
			payload_json TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_events_entity ON events(entity_id, issued_at_unixms);`,
		`CREATE INDEX IF NOT EXISTS idx_events_issued ON events(issued_at_unixms);`,
	}
	for _, st := range stmts {
		if _, err := db.ExecContext(ctx, st); err != nil {
			return err
		}
	}
	return nil
}

// AppendEvent journals a mutation. Payload is stored as JSON.
func (s Store) AppendEvent(typ, entityID string, payload any) error {
	return s.AppendEventContext(context.Background(), typ, entityID, payload)
}

func (s Store) AppendEventContext(ctx context.Context, typ, entityID string, payload any) error {
	db, err := s.openSQLite(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx, `INSERT INTO events(event_id, type, entity_id, issued_at_unixms, payload_json) VALUES(?, ?, ?, ?, ?)`,
		uuid.NewString(), strings.TrimSpace(typ), strings.TrimSpace(entityID), time.Now().UTC().UnixMilli(), string(raw))
	return err
}

// ReadEvents returns up to limit of the most recent events, oldest first. limit <= 0 returns all.
func (s Store) ReadEvents(ctx context.Context, limit int) ([]model.Event, error) {
	return s.readEvents(ctx, "", limit)
}

// ReadEventsForEntity is ReadEvents filtered to one entity id.
func (s Store) ReadEventsForEntity(ctx context.Context, entityID string, limit int) ([]model.Event, error) {
	return s.readEvents(ctx, strings.TrimSpace(entityID), limit)
}

func (s Store) readEvents(ctx context.Context, entityID string, limit int) ([]model.Event, error) {
	db, err := s.openSQLite(ctx)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	q := `SELECT event_id, type, entity_id, issued_at_unixms, payload_json FROM events`
	var args []any
	if entityID != "" {
		q += ` WHERE entity_id = ?`
		args = append(args, entityID)
	}
	q += ` ORDER BY issued_at_unixms DESC, rowid DESC`
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Event
	for rows.Next() {
		var (
			ev      model.Event
			ms      int64
			payload string
		)
		if err := rows.Scan(&ev.ID, &ev.Type, &ev.EntityID, &ms, &payload); err != nil {
			return nil, err
		}
		ev.TS = time.UnixMilli(ms).UTC()
		var p any
		if err := json.Unmarshal([]byte(payload), &p); err == nil {
			ev.Payload = p
		}
		out = append(out, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	if out == nil {
		out = []model.Event{}
	}
	return out, nil
}
