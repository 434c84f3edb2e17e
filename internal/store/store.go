package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"vitae-cli/internal/model"
)

const sqliteFileName = "vitae.sqlite"

type DB struct {
	Version           int              `json:"version"`
	CurrentDocumentID string           `json:"currentDocumentId,omitempty"`
	Documents         []model.Document `json:"documents"`
	Sections          []model.Section  `json:"sections"`
	Items             []model.Item     `json:"items"`
	Fields            []model.Field    `json:"fields"`
}

type Store struct {
	Dir string
}

func WorkspaceDir(name string) (string, error) {
	name, err := NormalizeWorkspaceName(name)
	if err != nil {
		return "", err
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "workspaces", name), nil
}

func (s Store) Ensure() error {
	return os.MkdirAll(s.Dir, 0o755)
}

func (s Store) Load() (*DB, error) {
	return s.LoadSQLite(context.Background())
}

func (s Store) Save(db *DB) error {
	return s.SaveSQLite(context.Background(), db)
}

// NextID returns an unused prefixed id (e.g. "sec-k3x9a2mq").
func (s Store) NextID(db *DB, prefix string) string {
	for i := 0; i < 16; i++ {
		id, err := newRandomID(prefix)
		if err != nil {
			break
		}
		if !idExists(db, id) {
			return id
		}
	}
	// crypto/rand failing is not recoverable in a meaningful way; fall back to a counter suffix.
	n := len(db.Documents) + len(db.Sections) + len(db.Items) + len(db.Fields) + 1
	for {
		id := fmt.Sprintf("%s-%08d", prefix, n)
		if !idExists(db, id) {
			return id
		}
		n++
	}
}

func (db *DB) FindDocument(id string) (*model.Document, bool) {
	id = strings.TrimSpace(id)
	for i := range db.Documents {
		if db.Documents[i].ID == id {
			return &db.Documents[i], true
		}
	}
	return nil, false
}

func (db *DB) FindSection(id string) (*model.Section, bool) {
	id = strings.TrimSpace(id)
	for i := range db.Sections {
		if db.Sections[i].ID == id {
			return &db.Sections[i], true
		}
	}
	return nil, false
}

func (db *DB) FindItem(id string) (*model.Item, bool) {
	id = strings.TrimSpace(id)
	for i := range db.Items {
		if db.Items[i].ID == id {
			return &db.Items[i], true
		}
	}
	return nil, false
}

func (db *DB) FindField(id string) (*model.Field, bool) {
	id = strings.TrimSpace(id)
	for i := range db.Fields {
		if db.Fields[i].ID == id {
			return &db.Fields[i], true
		}
	}
	return nil, false
}

// SectionsOf returns pointers into db.Sections for documentID, in display order.
func (db *DB) SectionsOf(documentID string) []*model.Section {
	var out []*model.Section
	for i := range db.Sections {
		if db.Sections[i].DocumentID == documentID {
			out = append(out, &db.Sections[i])
		}
	}
	SortByDisplayOrder(out, sectionOrder)
	return out
}

// ItemsOf returns pointers into db.Items for sectionID, in display order.
func (db *DB) ItemsOf(sectionID string) []*model.Item {
	var out []*model.Item
	for i := range db.Items {
		if db.Items[i].SectionID == sectionID {
			out = append(out, &db.Items[i])
		}
	}
	SortByDisplayOrder(out, itemOrder)
	return out
}

// FieldsOf returns pointers into db.Fields for itemID, in display order.
func (db *DB) FieldsOf(itemID string) []*model.Field {
	var out []*model.Field
	for i := range db.Fields {
		if db.Fields[i].ItemID == itemID {
			out = append(out, &db.Fields[i])
		}
	}
	SortByDisplayOrder(out, fieldOrder)
	return out
}

// DocumentsByUpdated lists documents newest first.
func (db *DB) DocumentsByUpdated() []model.Document {
	out := append([]model.Document{}, db.Documents...)
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].UpdatedAt.Equal(out[j].UpdatedAt) {
			return out[i].UpdatedAt.After(out[j].UpdatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Clone returns a deep copy suitable for handing to a background writer.
func (db *DB) Clone() *DB {
	if db == nil {
		return nil
	}
	out := &DB{
		Version:           db.Version,
		CurrentDocumentID: db.CurrentDocumentID,
		Documents:         append([]model.Document{}, db.Documents...),
		Sections:          make([]model.Section, len(db.Sections)),
		Items:             append([]model.Item{}, db.Items...),
		Fields:            make([]model.Field, len(db.Fields)),
	}
	for i, s := range db.Sections {
		s.Metadata = s.Metadata.Clone()
		out.Sections[i] = s
	}
	for i, f := range db.Fields {
		if f.Options != nil {
			f.Options = append([]string{}, f.Options...)
		}
		out.Fields[i] = f
	}
	return out
}
