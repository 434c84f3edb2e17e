package store

import (
	"errors"
	"sort"
	"strings"

	"vitae-cli/internal/model"
)

func sectionOrder(s *model.Section) (int, string) { return s.DisplayOrder, s.ID }
func itemOrder(it *model.Item) (int, string)      { return it.DisplayOrder, it.ID }
func fieldOrder(f *model.Field) (int, string)     { return f.DisplayOrder, f.ID }

// SortByDisplayOrder sorts in place by display order, then ID.
func SortByDisplayOrder[T any](xs []*T, key func(*T) (int, string)) {
	sort.SliceStable(xs, func(i, j int) bool {
		oi, idi := key(xs[i])
		oj, idj := key(xs[j])
		if oi != oj {
			return oi < oj
		}
		return idi < idj
	})
}

// ReorderResult describes the display order updates needed to realize a move.
// OrderByID includes only entries whose order changes.
type ReorderResult struct {
	OrderByID map[string]int
	FinalIDs  []string
}

// PlanMove plans display order updates for moving movedID to a 1-based position within a
// sibling set. Positions beyond either end are clamped. The resulting orders are 1..n.
func PlanMove(sibs []Ordered, movedID string, toPosition int) (ReorderResult, error) {
	movedID = strings.TrimSpace(movedID)
	if movedID == "" {
		return ReorderResult{}, errors.New("missing movedID")
	}
	cur := append([]Ordered{}, sibs...)
	sort.SliceStable(cur, func(i, j int) bool {
		if cur[i].Order != cur[j].Order {
			return cur[i].Order < cur[j].Order
		}
		return cur[i].ID < cur[j].ID
	})

	movedIdx := -1
	for i := range cur {
		if cur[i].ID == movedID {
			movedIdx = i
			break
		}
	}
	if movedIdx < 0 {
		return ReorderResult{}, errors.New("moved entry not found in sibling set")
	}
	moved := cur[movedIdx]
	rest := make([]Ordered, 0, len(cur)-1)
	rest = append(rest, cur[:movedIdx]...)
	rest = append(rest, cur[movedIdx+1:]...)

	insertAt := toPosition - 1
	if insertAt < 0 {
		insertAt = 0
	}
	if insertAt > len(rest) {
		insertAt = len(rest)
	}
	final := make([]Ordered, 0, len(cur))
	final = append(final, rest[:insertAt]...)
	final = append(final, moved)
	final = append(final, rest[insertAt:]...)

	res := ReorderResult{OrderByID: map[string]int{}, FinalIDs: make([]string, 0, len(final))}
	for i, o := range final {
		res.FinalIDs = append(res.FinalIDs, o.ID)
		if o.Order != i+1 {
			res.OrderByID[o.ID] = i + 1
		}
	}
	return res, nil
}

// Ordered is the (id, displayOrder) pair PlanMove works on.
type Ordered struct {
	ID    string
	Order int
}

func OrderedSections(xs []*model.Section) []Ordered {
	out := make([]Ordered, 0, len(xs))
	for _, s := range xs {
		out = append(out, Ordered{ID: s.ID, Order: s.DisplayOrder})
	}
	return out
}

func OrderedItems(xs []*model.Item) []Ordered {
	out := make([]Ordered, 0, len(xs))
	for _, it := range xs {
		out = append(out, Ordered{ID: it.ID, Order: it.DisplayOrder})
	}
	return out
}

// RenumberSections rewrites the document's section orders to 1..n, keeping relative order.
func (db *DB) RenumberSections(documentID string) bool {
	changed := false
	for i, s := range db.SectionsOf(documentID) {
		if s.DisplayOrder != i+1 {
			s.DisplayOrder = i + 1
			changed = true
		}
	}
	return changed
}

// RenumberItems rewrites the section's item orders to 1..n, keeping relative order.
func (db *DB) RenumberItems(sectionID string) bool {
	changed := false
	for i, it := range db.ItemsOf(sectionID) {
		if it.DisplayOrder != i+1 {
			it.DisplayOrder = i + 1
			changed = true
		}
	}
	return changed
}

// RenumberFields rewrites the item's field orders to 1..n, keeping relative order.
func (db *DB) RenumberFields(itemID string) bool {
	changed := false
	for i, f := range db.FieldsOf(itemID) {
		if f.DisplayOrder != i+1 {
			f.DisplayOrder = i + 1
			changed = true
		}
	}
	return changed
}
