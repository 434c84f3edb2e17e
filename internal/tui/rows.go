package tui

import (
	"vitae-cli/internal/builder"
	"vitae-cli/internal/model"
	"vitae-cli/internal/mutate"
)

type rowKind int

const (
	rowSection rowKind = iota
	rowMeta
	rowItem
	rowField
)

// row is one selectable line of the editor pane.
type row struct {
	kind    rowKind
	section builder.SectionTree
	item    builder.ItemTree
	field   model.Field
	meta    mutate.MetadataOptionState
	// index is the 1-based position of the section or item among its siblings.
	index int
	count int
}

func (r row) id() string {
	switch r.kind {
	case rowSection:
		return r.section.ID
	case rowMeta:
		return r.section.ID + "/" + r.meta.Key
	case rowItem:
		return r.item.ID
	default:
		return r.field.ID
	}
}

// flattenTree lists the rows to display. Static items are always shown expanded;
// collapsible items only show their fields when open.
func flattenTree(tree builder.Tree, open string) []row {
	var out []row
	for si, sec := range tree.Sections {
		out = append(out, row{kind: rowSection, section: sec, index: si + 1, count: len(tree.Sections)})
		for _, opt := range sec.MetadataOptions {
			out = append(out, row{kind: rowMeta, section: sec, meta: opt})
		}
		for ii, it := range sec.Items {
			if it.ContainerType == model.ContainerStatic {
				for _, f := range it.Fields {
					out = append(out, row{kind: rowField, section: sec, item: it, field: f})
				}
				continue
			}
			out = append(out, row{kind: rowItem, section: sec, item: it, index: ii + 1, count: len(sec.Items)})
			if it.ID != open {
				continue
			}
			for _, f := range it.Fields {
				out = append(out, row{kind: rowField, section: sec, item: it, field: f})
			}
		}
	}
	return out
}

// itemSummary is the one-line label of a collapsible item.
func itemSummary(it builder.ItemTree) string {
	get := func(name string) string {
		for _, f := range it.Fields {
			if f.Name == name {
				return f.Value
			}
		}
		return ""
	}
	var label string
	switch {
	case get(model.FieldJobTitle) != "" || get(model.FieldEmployer) != "":
		label = joinNonEmpty(" at ", get(model.FieldJobTitle), get(model.FieldEmployer))
	case get(model.FieldSchool) != "" || get(model.FieldDegree) != "":
		label = joinNonEmpty(" - ", get(model.FieldDegree), get(model.FieldSchool))
	case get(model.FieldLabel) != "" || get(model.FieldLink) != "":
		label = joinNonEmpty(" ", get(model.FieldLabel), get(model.FieldLink))
	case get(model.FieldSkill) != "":
		label = joinNonEmpty(" - ", get(model.FieldSkill), get(model.FieldLevel))
	}
	if label == "" {
		return "(not specified)"
	}
	return label
}

func joinNonEmpty(sep string, parts ...string) string {
	out := ""
	for _, p := range parts {
		if p == "" {
			continue
		}
		if out != "" {
			out += sep
		}
		out += p
	}
	return out
}
