package store

import (
	"fmt"
	"sort"

	"vitae-cli/internal/model"
)

type DoctorIssueLevel string

const (
	DoctorIssueLevelError DoctorIssueLevel = "error"
	DoctorIssueLevelWarn  DoctorIssueLevel = "warn"
)

type DoctorIssue struct {
	Level      DoctorIssueLevel `json:"level"`
	Code       string           `json:"code"`
	Message    string           `json:"message"`
	EntityKind string           `json:"entityKind,omitempty"`
	EntityID   string           `json:"entityId,omitempty"`
}

type DoctorReport struct {
	Issues []DoctorIssue `json:"issues"`
}

func (r DoctorReport) HasErrors() bool {
	for _, it := range r.Issues {
		if it.Level == DoctorIssueLevelError {
			return true
		}
	}
	return false
}

// Doctor checks referential integrity and display order contiguity of the whole workspace.
func Doctor(db *DB) DoctorReport {
	r := DoctorReport{Issues: []DoctorIssue{}}
	if db == nil {
		return r
	}
	add := func(level DoctorIssueLevel, code, kind, id, format string, args ...any) {
		r.Issues = append(r.Issues, DoctorIssue{
			Level:      level,
			Code:       code,
			Message:    fmt.Sprintf(format, args...),
			EntityKind: kind,
			EntityID:   id,
		})
	}

	seen := map[string]string{}
	dup := func(kind, id string) {
		if prev, ok := seen[id]; ok {
			add(DoctorIssueLevelError, "duplicate_id", kind, id, "id %s used by both a %s and a %s", id, prev, kind)
			return
		}
		seen[id] = kind
	}
	for _, d := range db.Documents {
		dup("document", d.ID)
	}

	for _, s := range db.Sections {
		dup("section", s.ID)
		if _, ok := db.FindDocument(s.DocumentID); !ok {
			add(DoctorIssueLevelError, "orphan_section", "section", s.ID, "section %s references missing document %s", s.ID, s.DocumentID)
		}
		if !s.Type.Valid() {
			add(DoctorIssueLevelWarn, "unknown_section_type", "section", s.ID, "section %s has unknown type %q", s.ID, s.Type)
		}
		known := map[string]bool{}
		for _, o := range model.MetadataOptionsFor(s.Type) {
			known[o.Key] = true
		}
		keys := make([]string, 0, len(s.Metadata))
		for k := range s.Metadata {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if !known[k] {
				add(DoctorIssueLevelWarn, "unknown_metadata_key", "section", s.ID, "section %s has unknown metadata key %q", s.ID, k)
			}
		}
	}
	for _, it := range db.Items {
		dup("item", it.ID)
		if _, ok := db.FindSection(it.SectionID); !ok {
			add(DoctorIssueLevelError, "orphan_item", "item", it.ID, "item %s references missing section %s", it.ID, it.SectionID)
		}
	}
	for _, f := range db.Fields {
		dup("field", f.ID)
		if _, ok := db.FindItem(f.ItemID); !ok {
			add(DoctorIssueLevelError, "orphan_field", "field", f.ID, "field %s references missing item %s", f.ID, f.ItemID)
		}
	}

	checkOrders := func(kind, parentID string, orders []int) {
		for i, o := range orders {
			if o != i+1 {
				add(DoctorIssueLevelError, "display_order_gap", kind, parentID,
					"%s display orders under %s are not contiguous: %v", kind, parentID, orders)
				return
			}
		}
	}
	for _, d := range db.Documents {
		var orders []int
		for _, s := range db.SectionsOf(d.ID) {
			orders = append(orders, s.DisplayOrder)
		}
		checkOrders("section", d.ID, orders)
	}
	for _, s := range db.Sections {
		var orders []int
		for _, it := range db.ItemsOf(s.ID) {
			orders = append(orders, it.DisplayOrder)
		}
		checkOrders("item", s.ID, orders)
	}
	for _, it := range db.Items {
		var orders []int
		for _, f := range db.FieldsOf(it.ID) {
			orders = append(orders, f.DisplayOrder)
		}
		checkOrders("field", it.ID, orders)
	}
	return r
}
