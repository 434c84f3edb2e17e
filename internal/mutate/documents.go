package mutate

import (
	"strings"
	"time"

	"vitae-cli/internal/model"
	"vitae-cli/internal/store"
)

type DocumentResult struct {
	Document     *model.Document
	Changed      bool
	EventPayload map[string]any
}

func nextID(db *store.DB, prefix string) string {
	return store.Store{}.NextID(db, prefix)
}

func touch(db *store.DB, documentID string, now time.Time) {
	if d, ok := db.FindDocument(documentID); ok {
		d.UpdatedAt = now.UTC()
	}
}

// CreateDocument adds a document seeded with the boilerplate sections, each holding one item
// with empty fields. The first document created becomes the current one.
func CreateDocument(db *store.DB, title, templateID string, now time.Time) (DocumentResult, error) {
	if db == nil {
		return DocumentResult{}, nil
	}
	title = strings.TrimSpace(title)
	if title == "" {
		title = "Untitled"
	}
	templateID = strings.TrimSpace(templateID)
	if templateID == "" {
		templateID = model.TemplateLondon
	}
	if !model.KnownTemplate(templateID) {
		return DocumentResult{}, ValidationError{Field: "template", Reason: "unknown template " + templateID}
	}

	now = now.UTC()
	doc := model.Document{
		ID:         nextID(db, store.IDPrefixDocument),
		Title:      title,
		TemplateID: templateID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	db.Documents = append(db.Documents, doc)

	for i, spec := range model.Boilerplate() {
		sec := model.Section{
			ID:           nextID(db, store.IDPrefixSection),
			DocumentID:   doc.ID,
			Title:        spec.Title,
			DefaultTitle: spec.Title,
			Type:         spec.Type,
			DisplayOrder: i + 1,
		}
		if len(spec.MetadataOptions) > 0 {
			sec.Metadata = model.SectionMetadata{}
			for _, o := range spec.MetadataOptions {
				sec.Metadata[o.Key] = model.BoolFlag(o.Default)
			}
		}
		db.Sections = append(db.Sections, sec)
		seedItem(db, sec.ID, spec.ContainerType, 1, fieldSpecsOf(spec))
	}

	if strings.TrimSpace(db.CurrentDocumentID) == "" {
		db.CurrentDocumentID = doc.ID
	}

	d, _ := db.FindDocument(doc.ID)
	return DocumentResult{
		Document: d,
		Changed:  true,
		EventPayload: map[string]any{
			"title":      d.Title,
			"templateId": d.TemplateID,
		},
	}, nil
}

func fieldSpecsOf(spec model.SectionSpec) []model.Field {
	out := make([]model.Field, 0, len(spec.Fields))
	for _, f := range spec.Fields {
		out = append(out, model.Field{
			Name:       f.Name,
			Type:       f.Type,
			SelectType: f.SelectType,
			Options:    append([]string(nil), f.Options...),
		})
	}
	return out
}

// seedItem appends an item and fresh copies of the given field schema (values emptied).
func seedItem(db *store.DB, sectionID string, container model.ContainerType, order int, schema []model.Field) model.Item {
	it := model.Item{
		ID:            nextID(db, store.IDPrefixItem),
		SectionID:     sectionID,
		ContainerType: container,
		DisplayOrder:  order,
	}
	db.Items = append(db.Items, it)
	for i, f := range schema {
		db.Fields = append(db.Fields, model.Field{
			ID:           nextID(db, store.IDPrefixField),
			ItemID:       it.ID,
			Name:         f.Name,
			Type:         f.Type,
			DisplayOrder: i + 1,
			SelectType:   f.SelectType,
			Options:      append([]string(nil), f.Options...),
		})
	}
	return it
}

func RenameDocument(db *store.DB, documentID, title string, now time.Time) (DocumentResult, error) {
	documentID = strings.TrimSpace(documentID)
	if db == nil || documentID == "" {
		return DocumentResult{}, NotFoundError{Kind: "document", ID: documentID}
	}
	d, ok := db.FindDocument(documentID)
	if !ok {
		return DocumentResult{}, NotFoundError{Kind: "document", ID: documentID}
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return DocumentResult{}, ValidationError{Field: "title", Reason: "must not be empty"}
	}
	if d.Title == title {
		return DocumentResult{Document: d}, nil
	}
	d.Title = title
	d.UpdatedAt = now.UTC()
	return DocumentResult{Document: d, Changed: true, EventPayload: map[string]any{"title": title}}, nil
}

func SetDocumentTemplate(db *store.DB, documentID, templateID string, now time.Time) (DocumentResult, error) {
	documentID = strings.TrimSpace(documentID)
	if db == nil || documentID == "" {
		return DocumentResult{}, NotFoundError{Kind: "document", ID: documentID}
	}
	d, ok := db.FindDocument(documentID)
	if !ok {
		return DocumentResult{}, NotFoundError{Kind: "document", ID: documentID}
	}
	templateID = strings.TrimSpace(templateID)
	if !model.KnownTemplate(templateID) {
		return DocumentResult{}, ValidationError{Field: "template", Reason: "unknown template " + templateID}
	}
	if d.TemplateID == templateID {
		return DocumentResult{Document: d}, nil
	}
	d.TemplateID = templateID
	d.UpdatedAt = now.UTC()
	return DocumentResult{Document: d, Changed: true, EventPayload: map[string]any{"templateId": templateID}}, nil
}

type DeleteDocumentResult struct {
	DocumentID      string
	RemovedSections int
	RemovedItems    int
	RemovedFields   int
	EventPayload    map[string]any
}

// DeleteDocument removes a document and everything under it.
func DeleteDocument(db *store.DB, documentID string) (DeleteDocumentResult, error) {
	documentID = strings.TrimSpace(documentID)
	if db == nil || documentID == "" {
		return DeleteDocumentResult{}, NotFoundError{Kind: "document", ID: documentID}
	}
	if _, ok := db.FindDocument(documentID); !ok {
		return DeleteDocumentResult{}, NotFoundError{Kind: "document", ID: documentID}
	}

	sectionIDs := map[string]bool{}
	for _, s := range db.Sections {
		if s.DocumentID == documentID {
			sectionIDs[s.ID] = true
		}
	}
	itemIDs := map[string]bool{}
	for _, it := range db.Items {
		if sectionIDs[it.SectionID] {
			itemIDs[it.ID] = true
		}
	}

	res := DeleteDocumentResult{DocumentID: documentID}
	res.RemovedFields = removeFields(db, func(f model.Field) bool { return itemIDs[f.ItemID] })
	items := db.Items[:0]
	for _, it := range db.Items {
		if itemIDs[it.ID] {
			res.RemovedItems++
			continue
		}
		items = append(items, it)
	}
	db.Items = items
	sections := db.Sections[:0]
	for _, s := range db.Sections {
		if sectionIDs[s.ID] {
			res.RemovedSections++
			continue
		}
		sections = append(sections, s)
	}
	db.Sections = sections
	docs := db.Documents[:0]
	for _, d := range db.Documents {
		if d.ID != documentID {
			docs = append(docs, d)
		}
	}
	db.Documents = docs
	if db.CurrentDocumentID == documentID {
		db.CurrentDocumentID = ""
	}

	res.EventPayload = map[string]any{
		"sections": res.RemovedSections,
		"items":    res.RemovedItems,
		"fields":   res.RemovedFields,
	}
	return res, nil
}

func removeFields(db *store.DB, drop func(model.Field) bool) int {
	n := 0
	kept := db.Fields[:0]
	for _, f := range db.Fields {
		if drop(f) {
			n++
			continue
		}
		kept = append(kept, f)
	}
	db.Fields = kept
	return n
}

// documentOfSection resolves the owning document id, "" when the section is dangling.
func documentOfSection(db *store.DB, sectionID string) string {
	if s, ok := db.FindSection(sectionID); ok {
		return s.DocumentID
	}
	return ""
}

func documentOfItem(db *store.DB, itemID string) string {
	if it, ok := db.FindItem(itemID); ok {
		return documentOfSection(db, it.SectionID)
	}
	return ""
}
