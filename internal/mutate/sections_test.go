package mutate

import (
	"testing"

	"vitae-cli/internal/model"
	"vitae-cli/internal/store"
)

func TestSetSectionMetadata_StoresOneZeroAndRoundTrips(t *testing.T) {
	t.Setenv("VITAE_CONFIG_DIR", t.TempDir())
	db, doc := newDoc(t)
	skills := sectionOfType(t, db, doc.ID, model.SectionSkills)

	res, err := SetSectionMetadata(db, skills.ID, model.MetaShowExperienceLevel, false, testNow)
	if err != nil {
		t.Fatalf("SetSectionMetadata: %v", err)
	}
	if !res.Changed || res.Section.Metadata[model.MetaShowExperienceLevel] != "0" {
		t.Fatalf("expected \"0\", got %+v", res.Section.Metadata)
	}

	s := store.Store{Dir: t.TempDir()}
	if err := s.Save(db); err != nil {
		t.Fatalf("save: %v", err)
	}
	loaded, err := s.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	sec, ok := loaded.FindSection(skills.ID)
	if !ok {
		t.Fatalf("section missing after reload")
	}
	opts := SectionMetadataOptions(*sec)
	if len(opts) != 1 || opts[0].Enabled || opts[0].Value != "0" {
		t.Fatalf("expected switch off after reload, got %+v", opts)
	}

	res, err = SetSectionMetadata(loaded, skills.ID, model.MetaShowExperienceLevel, true, testNow)
	if err != nil || !res.Changed || res.Section.Metadata[model.MetaShowExperienceLevel] != "1" {
		t.Fatalf("expected \"1\", got %+v %v", res, err)
	}
	if res, _ := SetSectionMetadata(loaded, skills.ID, model.MetaShowExperienceLevel, true, testNow); res.Changed {
		t.Fatalf("expected no-op")
	}
}

func TestSetSectionMetadata_UnknownKey(t *testing.T) {
	db, doc := newDoc(t)
	edu := sectionOfType(t, db, doc.ID, model.SectionEducation)
	if _, err := SetSectionMetadata(db, edu.ID, model.MetaShowExperienceLevel, true, testNow); err == nil {
		t.Fatalf("expected error for key not offered by education")
	}
}

func TestSectionMetadataOptions_LegacyBoolean(t *testing.T) {
	t.Parallel()
	var meta model.SectionMetadata
	if err := meta.UnmarshalJSON([]byte(`{"showExperienceLevel":true}`)); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	opts := SectionMetadataOptions(model.Section{Type: model.SectionSkills, Metadata: meta})
	if len(opts) != 1 || !opts[0].Enabled || opts[0].Value != "1" {
		t.Fatalf("unexpected options: %+v", opts)
	}
}

func TestRenameSection_EmptyResetsToDefault(t *testing.T) {
	db, doc := newDoc(t)
	edu := sectionOfType(t, db, doc.ID, model.SectionEducation)

	res, err := RenameSection(db, edu.ID, "Studies", testNow)
	if err != nil || res.Section.Title != "Studies" {
		t.Fatalf("rename: %+v %v", res, err)
	}
	res, err = RenameSection(db, edu.ID, "   ", testNow)
	if err != nil || res.Section.Title != "Education" || !res.Changed {
		t.Fatalf("reset: %+v %v", res, err)
	}
}

func TestMoveSection_KeepsOrdersContiguous(t *testing.T) {
	db, doc := newDoc(t)
	skills := sectionOfType(t, db, doc.ID, model.SectionSkills)

	res, err := MoveSection(db, skills.ID, 2, testNow)
	if err != nil || !res.Changed {
		t.Fatalf("MoveSection: %+v %v", res, err)
	}
	secs := db.SectionsOf(doc.ID)
	if secs[1].ID != skills.ID {
		t.Fatalf("expected skills at position 2, got %s", secs[1].Type)
	}
	assertContiguous(t, db)
}
