package mutate

import (
	"strings"
	"time"

	"vitae-cli/internal/model"
	"vitae-cli/internal/store"
)

type SectionResult struct {
	Section      *model.Section
	Changed      bool
	EventPayload map[string]any
}

// MoveSection places a section at a 1-based position within its document.
func MoveSection(db *store.DB, sectionID string, toPosition int, now time.Time) (MoveResult, error) {
	sectionID = strings.TrimSpace(sectionID)
	if db == nil || sectionID == "" {
		return MoveResult{}, NotFoundError{Kind: "section", ID: sectionID}
	}
	sec, ok := db.FindSection(sectionID)
	if !ok {
		return MoveResult{}, NotFoundError{Kind: "section", ID: sectionID}
	}
	documentID := sec.DocumentID
	plan, err := store.PlanMove(store.OrderedSections(db.SectionsOf(documentID)), sectionID, toPosition)
	if err != nil {
		return MoveResult{}, err
	}
	res := MoveResult{ID: sectionID, DocumentID: documentID, OrderByID: plan.OrderByID}
	if len(plan.OrderByID) == 0 {
		return res, nil
	}
	for id, order := range plan.OrderByID {
		if x, ok := db.FindSection(id); ok {
			x.DisplayOrder = order
		}
	}
	touch(db, documentID, now)
	res.Changed = true
	res.EventPayload = map[string]any{"documentId": documentID, "order": plan.FinalIDs}
	return res, nil
}

// RenameSection sets the display title. An empty title restores the default title.
func RenameSection(db *store.DB, sectionID, title string, now time.Time) (SectionResult, error) {
	sectionID = strings.TrimSpace(sectionID)
	if db == nil || sectionID == "" {
		return SectionResult{}, NotFoundError{Kind: "section", ID: sectionID}
	}
	sec, ok := db.FindSection(sectionID)
	if !ok {
		return SectionResult{}, NotFoundError{Kind: "section", ID: sectionID}
	}
	title = strings.TrimSpace(title)
	if title == "" {
		title = sec.DefaultTitle
	}
	if sec.Title == title {
		return SectionResult{Section: sec}, nil
	}
	sec.Title = title
	touch(db, sec.DocumentID, now)
	return SectionResult{Section: sec, Changed: true, EventPayload: map[string]any{"title": title}}, nil
}

// MetadataOptionState is a section switch together with its current value.
type MetadataOptionState struct {
	Key     string `json:"key"`
	Label   string `json:"label"`
	Value   string `json:"value"`
	Enabled bool   `json:"enabled"`
}

// SectionMetadataOptions lists the switches the section's type exposes.
func SectionMetadataOptions(sec model.Section) []MetadataOptionState {
	opts := model.MetadataOptionsFor(sec.Type)
	out := make([]MetadataOptionState, 0, len(opts))
	for _, o := range opts {
		v, ok := sec.Metadata[o.Key]
		if !ok {
			v = model.BoolFlag(o.Default)
		}
		out = append(out, MetadataOptionState{
			Key:     o.Key,
			Label:   o.Label,
			Value:   v,
			Enabled: model.SectionMetadata{o.Key: v}.Enabled(o.Key),
		})
	}
	return out
}

// SetSectionMetadata flips a section switch; the value is stored as "1" or "0".
func SetSectionMetadata(db *store.DB, sectionID, key string, on bool, now time.Time) (SectionResult, error) {
	sectionID = strings.TrimSpace(sectionID)
	key = strings.TrimSpace(key)
	if db == nil || sectionID == "" {
		return SectionResult{}, NotFoundError{Kind: "section", ID: sectionID}
	}
	sec, ok := db.FindSection(sectionID)
	if !ok {
		return SectionResult{}, NotFoundError{Kind: "section", ID: sectionID}
	}
	known := false
	for _, o := range model.MetadataOptionsFor(sec.Type) {
		if o.Key == key {
			known = true
			break
		}
	}
	if !known {
		return SectionResult{}, ValidationError{Field: "metadata key", Reason: key + " is not an option of " + string(sec.Type)}
	}

	v := model.BoolFlag(on)
	if cur, ok := sec.Metadata[key]; ok && cur == v {
		return SectionResult{Section: sec}, nil
	}
	if sec.Metadata == nil {
		sec.Metadata = model.SectionMetadata{}
	}
	sec.Metadata[key] = v
	touch(db, sec.DocumentID, now)
	return SectionResult{Section: sec, Changed: true, EventPayload: map[string]any{"key": key, "value": v}}, nil
}
