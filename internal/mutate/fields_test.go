package mutate

import (
	"testing"

	"vitae-cli/internal/model"
	"vitae-cli/internal/store"
)

func fieldNamed(t *testing.T, db *store.DB, itemID, name string) *model.Field {
	t.Helper()
	for _, f := range db.FieldsOf(itemID) {
		if f.Name == name {
			return f
		}
	}
	t.Fatalf("no field %q on %s", name, itemID)
	return nil
}

func TestUpdateField_Validation(t *testing.T) {
	db, doc := newDoc(t)
	jobs := sectionOfType(t, db, doc.ID, model.SectionEmploymentHistory)
	job := db.ItemsOf(jobs.ID)[0]
	start := fieldNamed(t, db, job.ID, model.FieldStartDate)

	skills := sectionOfType(t, db, doc.ID, model.SectionSkills)
	level := fieldNamed(t, db, db.ItemsOf(skills.ID)[0].ID, model.FieldLevel)

	tests := []struct {
		name    string
		fieldID string
		value   string
		want    string
		wantErr bool
	}{
		{name: "date month", fieldID: start.ID, value: "2021-03", want: "2021-03"},
		{name: "date month cleared", fieldID: start.ID, value: " ", want: ""},
		{name: "date month bad", fieldID: start.ID, value: "March 2021", wantErr: true},
		{name: "select canonical case", fieldID: level.ID, value: "expert", want: "Expert"},
		{name: "select unknown", fieldID: level.ID, value: "Guru", wantErr: true},
		{name: "select cleared", fieldID: level.ID, value: "", want: ""},
	}
	for _, tt := range tests {
		res, err := UpdateField(db, tt.fieldID, tt.value, testNow)
		if tt.wantErr {
			if err == nil {
				t.Fatalf("%s: expected error", tt.name)
			}
			continue
		}
		if err != nil {
			t.Fatalf("%s: %v", tt.name, err)
		}
		if res.Field.Value != tt.want {
			t.Fatalf("%s: got %q want %q", tt.name, res.Field.Value, tt.want)
		}
		if res.DocumentID != doc.ID {
			t.Fatalf("%s: expected document id", tt.name)
		}
	}
}

func TestUpdateField_LastWriteWins(t *testing.T) {
	db, doc := newDoc(t)
	personal := sectionOfType(t, db, doc.ID, model.SectionPersonalDetails)
	first := fieldNamed(t, db, db.ItemsOf(personal.ID)[0].ID, model.FieldFirstName)

	for _, v := range []string{"Ada", "Grace", "Ada"} {
		if _, err := UpdateField(db, first.ID, v, testNow); err != nil {
			t.Fatalf("UpdateField: %v", err)
		}
	}
	got, _ := db.FindField(first.ID)
	if got.Value != "Ada" {
		t.Fatalf("expected last write to win, got %q", got.Value)
	}
	res, err := UpdateField(db, first.ID, "Ada", testNow)
	if err != nil || res.Changed {
		t.Fatalf("expected no-op, got %+v %v", res, err)
	}
	if _, err := UpdateField(db, "fld-missing", "x", testNow); !isNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}
