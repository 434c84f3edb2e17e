package builder

import (
	"vitae-cli/internal/model"
	"vitae-cli/internal/mutate"
	"vitae-cli/internal/store"
)

// Tree is a document with its sections, items and fields in display order.
type Tree struct {
	Document model.Document `json:"document"`
	Sections []SectionTree  `json:"sections"`
}

type SectionTree struct {
	model.Section
	MetadataOptions []mutate.MetadataOptionState `json:"metadataOptions"`
	Items           []ItemTree                   `json:"items"`
}

type ItemTree struct {
	model.Item
	Fields []model.Field `json:"fields"`
}

// BuildTree copies documentID's subtree out of db.
func BuildTree(db *store.DB, documentID string) (Tree, error) {
	doc, ok := db.FindDocument(documentID)
	if !ok {
		return Tree{}, mutate.NotFoundError{Kind: "document", ID: documentID}
	}
	out := Tree{Document: *doc, Sections: []SectionTree{}}
	for _, s := range db.SectionsOf(doc.ID) {
		st := SectionTree{
			Section:         *s,
			MetadataOptions: mutate.SectionMetadataOptions(*s),
			Items:           []ItemTree{},
		}
		st.Metadata = s.Metadata.Clone()
		for _, it := range db.ItemsOf(s.ID) {
			itv := ItemTree{Item: *it, Fields: []model.Field{}}
			for _, f := range db.FieldsOf(it.ID) {
				fv := *f
				fv.Options = append([]string(nil), f.Options...)
				itv.Fields = append(itv.Fields, fv)
			}
			st.Items = append(st.Items, itv)
		}
		out.Sections = append(out.Sections, st)
	}
	return out, nil
}

// Tree returns the current subtree of documentID ("" for the current document).
func (b *Builder) Tree(documentID string) (Tree, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if documentID == "" {
		documentID = b.db.CurrentDocumentID
	}
	return BuildTree(b.db, documentID)
}

// Documents lists documents, most recently updated first.
func (b *Builder) Documents() []model.Document {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.db.DocumentsByUpdated()
}
