package mutate

import (
	"strings"
	"time"

	"vitae-cli/internal/model"
	"vitae-cli/internal/store"
)

type FieldResult struct {
	Field        *model.Field
	DocumentID   string
	Changed      bool
	EventPayload map[string]any
}

// DateMonthLayout is the stored form of DATE_MONTH values.
const DateMonthLayout = "2006-01"

// UpdateField stores a new value (last write wins).
func UpdateField(db *store.DB, fieldID, value string, now time.Time) (FieldResult, error) {
	fieldID = strings.TrimSpace(fieldID)
	if db == nil || fieldID == "" {
		return FieldResult{}, NotFoundError{Kind: "field", ID: fieldID}
	}
	f, ok := db.FindField(fieldID)
	if !ok {
		return FieldResult{}, NotFoundError{Kind: "field", ID: fieldID}
	}
	value, err := normalizeFieldValue(*f, value)
	if err != nil {
		return FieldResult{}, err
	}
	documentID := documentOfItem(db, f.ItemID)
	if f.Value == value {
		return FieldResult{Field: f, DocumentID: documentID}, nil
	}
	f.Value = value
	touch(db, documentID, now)
	return FieldResult{
		Field:        f,
		DocumentID:   documentID,
		Changed:      true,
		EventPayload: map[string]any{"name": f.Name, "value": value},
	}, nil
}

func normalizeFieldValue(f model.Field, value string) (string, error) {
	switch f.Type {
	case model.FieldDateMonth:
		value = strings.TrimSpace(value)
		if value == "" {
			return "", nil
		}
		t, err := time.Parse(DateMonthLayout, value)
		if err != nil {
			return "", ValidationError{Field: f.Name, Reason: "expected YYYY-MM, got " + value}
		}
		return t.Format(DateMonthLayout), nil
	case model.FieldSelect:
		value = strings.TrimSpace(value)
		if value == "" || len(f.Options) == 0 {
			return value, nil
		}
		for _, o := range f.Options {
			if strings.EqualFold(o, value) {
				return o, nil
			}
		}
		return "", ValidationError{Field: f.Name, Reason: "must be one of " + strings.Join(f.Options, ", ")}
	default:
		return value, nil
	}
}
