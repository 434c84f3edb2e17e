package store

import (
	"strings"
	"testing"
)

func TestNextID_PrefixAndUniqueness(t *testing.T) {
	t.Parallel()
	db := fixtureDB()
	s := Store{}
	seen := map[string]bool{}
	for i := 0; i < 200; i++ {
		id := s.NextID(db, "itm")
		if !strings.HasPrefix(id, "itm-") || len(id) != len("itm-")+8 {
			t.Fatalf("unexpected id shape: %q", id)
		}
		if seen[id] || idExists(db, id) {
			t.Fatalf("duplicate id: %q", id)
		}
		seen[id] = true
	}
}

func TestDBClone_IsDeep(t *testing.T) {
	t.Parallel()
	db := fixtureDB()
	cp := db.Clone()
	cp.Sections[0].Metadata["showExperienceLevel"] = "1"
	cp.Fields[1].Options[0] = "Novice"
	cp.Fields[0].Value = "Rust"
	if db.Sections[0].Metadata["showExperienceLevel"] != "0" {
		t.Fatalf("metadata shared with clone")
	}
	if db.Fields[1].Options[0] == "Novice" {
		t.Fatalf("options shared with clone")
	}
	if db.Fields[0].Value != "Go" {
		t.Fatalf("fields shared with clone")
	}
}

func TestIDExists_ByPrefix(t *testing.T) {
	t.Parallel()
	db := fixtureDB()
	for _, id := range []string{"doc-a", "sec-a", "itm-a", "fld-b"} {
		if !idExists(db, id) {
			t.Fatalf("expected %q to exist", id)
		}
	}
	// A known prefix only checks its own table.
	db.Items[0].ID = "doc-x"
	if idExists(db, "doc-x") {
		t.Fatalf("doc- prefix must not match an item id")
	}
	if idExists(nil, "doc-a") || idExists(db, "legacy") {
		t.Fatalf("unexpected match")
	}
}
