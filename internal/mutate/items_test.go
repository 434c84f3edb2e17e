package mutate

import (
	"errors"
	"testing"

	"vitae-cli/internal/model"
)

func TestAddItem_CopiesSchemaWithEmptyValues(t *testing.T) {
	db, doc := newDoc(t)
	edu := sectionOfType(t, db, doc.ID, model.SectionEducation)
	first := db.ItemsOf(edu.ID)[0]
	school := db.FieldsOf(first.ID)[0]
	if _, err := UpdateField(db, school.ID, "MIT", testNow); err != nil {
		t.Fatalf("UpdateField: %v", err)
	}

	res, err := AddItem(db, edu.ID, testNow)
	if err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	if res.Item.DisplayOrder != 2 || res.Item.ContainerType != model.ContainerCollapsible {
		t.Fatalf("unexpected item: %+v", res.Item)
	}
	if res.DocumentID != doc.ID {
		t.Fatalf("expected document id %s, got %s", doc.ID, res.DocumentID)
	}
	if len(res.Fields) != 6 {
		t.Fatalf("expected 6 fields, got %d", len(res.Fields))
	}
	for i, f := range res.Fields {
		if f.Value != "" {
			t.Fatalf("expected empty value, got %q", f.Value)
		}
		if f.DisplayOrder != i+1 {
			t.Fatalf("expected field order %d, got %d", i+1, f.DisplayOrder)
		}
		if f.ItemID != res.Item.ID {
			t.Fatalf("field attached to wrong item")
		}
	}
	assertContiguous(t, db)
}

func TestAddItem_RejectsStaticSection(t *testing.T) {
	db, doc := newDoc(t)
	personal := sectionOfType(t, db, doc.ID, model.SectionPersonalDetails)
	_, err := AddItem(db, personal.ID, testNow)
	var ve ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestRemoveItem_RemovesFieldsAndRenumbers(t *testing.T) {
	db, doc := newDoc(t)
	jobs := sectionOfType(t, db, doc.ID, model.SectionEmploymentHistory)
	for i := 0; i < 2; i++ {
		if _, err := AddItem(db, jobs.ID, testNow); err != nil {
			t.Fatalf("AddItem: %v", err)
		}
	}
	items := db.ItemsOf(jobs.ID)
	victim := items[0].ID
	survivors := []string{items[1].ID, items[2].ID}

	res, err := RemoveItem(db, victim, testNow)
	if err != nil {
		t.Fatalf("RemoveItem: %v", err)
	}
	if res.RemovedFields != 6 {
		t.Fatalf("expected 6 removed fields, got %d", res.RemovedFields)
	}
	for _, f := range db.Fields {
		if f.ItemID == victim {
			t.Fatalf("orphan field left behind: %+v", f)
		}
	}
	got := db.ItemsOf(jobs.ID)
	if len(got) != 2 || got[0].ID != survivors[0] || got[0].DisplayOrder != 1 || got[1].DisplayOrder != 2 {
		t.Fatalf("unexpected survivors: %+v %+v", *got[0], *got[1])
	}
	assertContiguous(t, db)

	if _, err := RemoveItem(db, victim, testNow); !isNotFound(err) {
		t.Fatalf("expected not found on second remove, got %v", err)
	}
}

func TestRemoveItem_RejectsStatic(t *testing.T) {
	db, doc := newDoc(t)
	summary := sectionOfType(t, db, doc.ID, model.SectionProfessionalSummary)
	if _, err := RemoveItem(db, db.ItemsOf(summary.ID)[0].ID, testNow); err == nil {
		t.Fatalf("expected error removing static item")
	}
}

func TestMoveItem(t *testing.T) {
	db, doc := newDoc(t)
	links := sectionOfType(t, db, doc.ID, model.SectionWebsitesLinks)
	for i := 0; i < 2; i++ {
		if _, err := AddItem(db, links.ID, testNow); err != nil {
			t.Fatalf("AddItem: %v", err)
		}
	}
	before := db.ItemsOf(links.ID)
	a, b, c := before[0].ID, before[1].ID, before[2].ID

	res, err := MoveItem(db, c, 1, testNow)
	if err != nil {
		t.Fatalf("MoveItem: %v", err)
	}
	if !res.Changed {
		t.Fatalf("expected change")
	}
	after := db.ItemsOf(links.ID)
	if after[0].ID != c || after[1].ID != a || after[2].ID != b {
		t.Fatalf("unexpected order: %s %s %s", after[0].ID, after[1].ID, after[2].ID)
	}
	assertContiguous(t, db)

	res, err = MoveItem(db, c, 1, testNow)
	if err != nil || res.Changed {
		t.Fatalf("expected no-op move, got %+v %v", res, err)
	}
}

func TestBlankIDs_NotFound(t *testing.T) {
	db, _ := newDoc(t)
	cases := []struct {
		name string
		kind string
		run  func() error
	}{
		{"rename document", "document", func() error {
			_, err := RenameDocument(db, " ", "CV", testNow)
			return err
		}},
		{"set template", "document", func() error {
			_, err := SetDocumentTemplate(db, "", model.TemplateLondon, testNow)
			return err
		}},
		{"delete document", "document", func() error {
			_, err := DeleteDocument(db, "")
			return err
		}},
		{"update field", "field", func() error {
			_, err := UpdateField(db, " ", "x", testNow)
			return err
		}},
		{"add item", "section", func() error {
			_, err := AddItem(db, " ", testNow)
			return err
		}},
		{"remove item", "item", func() error {
			_, err := RemoveItem(db, "", testNow)
			return err
		}},
		{"move item", "item", func() error {
			_, err := MoveItem(db, "\t", 1, testNow)
			return err
		}},
		{"move section", "section", func() error {
			_, err := MoveSection(db, "", 1, testNow)
			return err
		}},
		{"rename section", "section", func() error {
			_, err := RenameSection(db, " ", "x", testNow)
			return err
		}},
		{"section metadata", "section", func() error {
			_, err := SetSectionMetadata(db, "", model.MetaShowExperienceLevel, true, testNow)
			return err
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var nf NotFoundError
			if err := tc.run(); !errors.As(err, &nf) || nf.Kind != tc.kind {
				t.Fatalf("expected %s NotFoundError, got %v", tc.kind, err)
			}
		})
	}
}
