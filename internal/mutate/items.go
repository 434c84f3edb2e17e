package mutate

import (
	"strings"
	"time"

	"vitae-cli/internal/model"
	"vitae-cli/internal/store"
)

type ItemResult struct {
	Item         *model.Item
	Fields       []model.Field
	DocumentID   string
	Changed      bool
	EventPayload map[string]any
}

// AddItem appends an empty entry to a collapsible section. The new item copies the field
// schema of the section's first item, or of the section type's boilerplate when it has none.
func AddItem(db *store.DB, sectionID string, now time.Time) (ItemResult, error) {
	sectionID = strings.TrimSpace(sectionID)
	if db == nil || sectionID == "" {
		return ItemResult{}, NotFoundError{Kind: "section", ID: sectionID}
	}
	sec, ok := db.FindSection(sectionID)
	if !ok {
		return ItemResult{}, NotFoundError{Kind: "section", ID: sectionID}
	}
	documentID := sec.DocumentID

	siblings := db.ItemsOf(sectionID)
	var schema []model.Field
	container := model.ContainerCollapsible
	if len(siblings) > 0 {
		container = siblings[0].ContainerType
		for _, f := range db.FieldsOf(siblings[0].ID) {
			schema = append(schema, *f)
		}
	} else if spec, ok := model.SpecFor(sec.Type); ok {
		container = spec.ContainerType
		schema = fieldSpecsOf(spec)
	}
	if container != model.ContainerCollapsible {
		return ItemResult{}, ValidationError{Field: "section", Reason: "items can only be added to collapsible sections"}
	}

	it := seedItem(db, sectionID, container, len(siblings)+1, schema)
	touch(db, documentID, now)

	ptr, _ := db.FindItem(it.ID)
	fields := make([]model.Field, 0, len(schema))
	for _, f := range db.FieldsOf(it.ID) {
		fields = append(fields, *f)
	}
	return ItemResult{
		Item:       ptr,
		Fields:     fields,
		DocumentID: documentID,
		Changed:    true,
		EventPayload: map[string]any{
			"sectionId":    sectionID,
			"displayOrder": it.DisplayOrder,
		},
	}, nil
}

type RemoveItemResult struct {
	ItemID        string
	SectionID     string
	DocumentID    string
	RemovedFields int
	EventPayload  map[string]any
}

// RemoveItem deletes an entry and all of its fields, then closes the gap in its section.
func RemoveItem(db *store.DB, itemID string, now time.Time) (RemoveItemResult, error) {
	itemID = strings.TrimSpace(itemID)
	if db == nil || itemID == "" {
		return RemoveItemResult{}, NotFoundError{Kind: "item", ID: itemID}
	}
	it, ok := db.FindItem(itemID)
	if !ok {
		return RemoveItemResult{}, NotFoundError{Kind: "item", ID: itemID}
	}
	if it.ContainerType == model.ContainerStatic {
		return RemoveItemResult{}, ValidationError{Field: "item", Reason: "static items cannot be removed"}
	}
	sectionID := it.SectionID
	documentID := documentOfSection(db, sectionID)

	removed := removeFields(db, func(f model.Field) bool { return f.ItemID == itemID })
	kept := db.Items[:0]
	for _, x := range db.Items {
		if x.ID != itemID {
			kept = append(kept, x)
		}
	}
	db.Items = kept
	db.RenumberItems(sectionID)
	touch(db, documentID, now)

	return RemoveItemResult{
		ItemID:        itemID,
		SectionID:     sectionID,
		DocumentID:    documentID,
		RemovedFields: removed,
		EventPayload: map[string]any{
			"sectionId": sectionID,
			"fields":    removed,
		},
	}, nil
}

type MoveResult struct {
	ID           string
	DocumentID   string
	Changed      bool
	OrderByID    map[string]int
	EventPayload map[string]any
}

// MoveItem places an item at a 1-based position within its section.
func MoveItem(db *store.DB, itemID string, toPosition int, now time.Time) (MoveResult, error) {
	itemID = strings.TrimSpace(itemID)
	if db == nil || itemID == "" {
		return MoveResult{}, NotFoundError{Kind: "item", ID: itemID}
	}
	it, ok := db.FindItem(itemID)
	if !ok {
		return MoveResult{}, NotFoundError{Kind: "item", ID: itemID}
	}
	sectionID := it.SectionID
	plan, err := store.PlanMove(store.OrderedItems(db.ItemsOf(sectionID)), itemID, toPosition)
	if err != nil {
		return MoveResult{}, err
	}
	res := MoveResult{ID: itemID, DocumentID: documentOfSection(db, sectionID), OrderByID: plan.OrderByID}
	if len(plan.OrderByID) == 0 {
		return res, nil
	}
	for id, order := range plan.OrderByID {
		if x, ok := db.FindItem(id); ok {
			x.DisplayOrder = order
		}
	}
	touch(db, res.DocumentID, now)
	res.Changed = true
	res.EventPayload = map[string]any{"sectionId": sectionID, "order": plan.FinalIDs}
	return res, nil
}
