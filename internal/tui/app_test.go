package tui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"vitae-cli/internal/builder"
	"vitae-cli/internal/model"
	"vitae-cli/internal/store"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopBackend struct{}

func (nopBackend) SaveSQLite(context.Context, *store.DB) error { return nil }
func (nopBackend) AppendEventContext(context.Context, string, string, any) error {
	return nil
}

type harness struct {
	m          *appModel
	b          *builder.Builder
	remembered int
}

func newHarness(t *testing.T, withDoc bool) *harness {
	t.Helper()
	b := builder.New(&store.DB{}, nopBackend{}, builder.Options{Debounce: time.Hour})
	t.Cleanup(func() { _ = b.Close(context.Background()) })
	if withDoc {
		_, err := b.CreateDocument("Ada's CV", "")
		require.NoError(t, err)
	}
	h := &harness{b: b}
	h.m = newAppModel(b, Options{RememberSkipDeleteConfirmation: func() error {
		h.remembered++
		return nil
	}})
	t.Cleanup(h.m.unsubscribe)
	return h
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func (h *harness) press(keys ...string) {
	for _, k := range keys {
		h.m.Update(key(k))
	}
}

func (h *harness) typeText(s string) {
	for _, r := range s {
		h.m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

// focus puts the cursor on the first row matching pred.
func (h *harness) focus(t *testing.T, pred func(row) bool) row {
	t.Helper()
	for i, r := range h.m.rows {
		if pred(r) {
			h.m.cursor = i
			return r
		}
	}
	t.Fatal("no matching row")
	return row{}
}

func fieldRow(name string) func(row) bool {
	return func(r row) bool { return r.kind == rowField && r.field.Name == name }
}

func itemRowOf(typ model.SectionType) func(row) bool {
	return func(r row) bool { return r.kind == rowItem && r.section.Type == typ }
}

func (h *harness) items(typ model.SectionType) []builder.ItemTree {
	for _, s := range h.m.tree.Sections {
		if s.Type == typ {
			return s.Items
		}
	}
	return nil
}

func TestRows_StaticFieldsShownCollapsibleItemsClosed(t *testing.T) {
	h := newHarness(t, true)

	var sections, items, fields int
	for _, r := range h.m.rows {
		switch r.kind {
		case rowSection:
			sections++
		case rowItem:
			items++
		case rowField:
			fields++
		}
	}
	assert.Equal(t, 6, sections)
	assert.Equal(t, 4, items)
	// Personal details plus the summary.
	assert.Equal(t, 13, fields)
}

func TestEnterOpensOneItemAtATime(t *testing.T) {
	h := newHarness(t, true)

	job := h.focus(t, itemRowOf(model.SectionEmploymentHistory))
	h.press("enter")
	assert.Equal(t, job.item.ID, h.b.CollapsedItemID())
	h.focus(t, fieldRow(model.FieldEmployer))

	school := h.focus(t, itemRowOf(model.SectionEducation))
	h.press("enter")
	assert.Equal(t, school.item.ID, h.b.CollapsedItemID())
	for _, r := range h.m.rows {
		assert.False(t, r.kind == rowField && r.field.Name == model.FieldEmployer, "employment fields should be hidden")
	}

	h.focus(t, itemRowOf(model.SectionEducation))
	h.press("enter")
	assert.Empty(t, h.b.CollapsedItemID())
}

func TestEditFieldUpdatesPreview(t *testing.T) {
	h := newHarness(t, true)

	h.focus(t, fieldRow(model.FieldFirstName))
	h.press("enter")
	require.Equal(t, modeEdit, h.m.mode)
	h.typeText("Ada")
	h.press("enter")

	assert.Equal(t, modeBrowse, h.m.mode)
	r, ok := h.m.current()
	require.True(t, ok)
	assert.Equal(t, "Ada", r.field.Value)
	assert.Contains(t, h.m.previewMD, "# Ada")
}

func TestEditEscapeDiscards(t *testing.T) {
	h := newHarness(t, true)
	h.focus(t, fieldRow(model.FieldEmail))
	h.press("enter")
	h.typeText("ada@example.com")
	h.press("esc")
	r, _ := h.m.current()
	assert.Empty(t, r.field.Value)
}

func TestInvalidDateKeepsInputOpen(t *testing.T) {
	h := newHarness(t, true)
	h.focus(t, itemRowOf(model.SectionEmploymentHistory))
	h.press("enter")
	h.focus(t, fieldRow(model.FieldStartDate))
	h.press("enter")
	h.typeText("soon")
	h.press("enter")

	assert.Equal(t, modeEdit, h.m.mode)
	assert.True(t, h.m.statusErr)
	assert.Contains(t, h.m.status, "YYYY-MM")
}

func TestAddItemOpensIt(t *testing.T) {
	h := newHarness(t, true)
	h.focus(t, itemRowOf(model.SectionSkills))
	h.press("a")

	items := h.items(model.SectionSkills)
	require.Len(t, items, 2)
	assert.Equal(t, items[1].ID, h.b.CollapsedItemID())
	r, _ := h.m.current()
	assert.Equal(t, items[1].ID, r.item.ID)
}

func TestSelectFieldCyclesOptions(t *testing.T) {
	h := newHarness(t, true)
	h.focus(t, itemRowOf(model.SectionSkills))
	h.press("enter")
	h.focus(t, fieldRow(model.FieldLevel))
	h.press("enter")
	r, _ := h.m.current()
	assert.Equal(t, model.ExperienceLevels[0], r.field.Value)
	h.press("enter")
	r, _ = h.m.current()
	assert.Equal(t, model.ExperienceLevels[1], r.field.Value)
}

func TestMetadataToggle(t *testing.T) {
	h := newHarness(t, true)
	h.focus(t, func(r row) bool { return r.kind == rowMeta })
	h.press(" ")
	r, _ := h.m.current()
	assert.False(t, r.meta.Enabled)
}

func TestDeleteConfirmDontAskAgain(t *testing.T) {
	h := newHarness(t, true)
	h.focus(t, itemRowOf(model.SectionWebsitesLinks))
	h.press("a")
	require.Len(t, h.items(model.SectionWebsitesLinks), 2)

	h.focus(t, itemRowOf(model.SectionWebsitesLinks))
	h.press("d")
	require.Equal(t, modeConfirmDelete, h.m.mode)
	assert.Contains(t, h.m.View(), "Don't ask again")

	h.press("esc")
	assert.Equal(t, modeBrowse, h.m.mode)
	require.Len(t, h.items(model.SectionWebsitesLinks), 2)

	h.press("d", " ", "y")
	assert.Equal(t, modeBrowse, h.m.mode)
	assert.Len(t, h.items(model.SectionWebsitesLinks), 1)
	assert.Equal(t, 1, h.remembered)

	h.focus(t, itemRowOf(model.SectionWebsitesLinks))
	h.press("d")
	assert.Equal(t, modeBrowse, h.m.mode)
	assert.Empty(t, h.items(model.SectionWebsitesLinks))
	assert.Equal(t, 1, h.remembered)
}

func TestStaticRowsCannotBeDeleted(t *testing.T) {
	h := newHarness(t, true)
	h.focus(t, fieldRow(model.FieldFirstName))
	h.press("d")
	assert.Equal(t, modeBrowse, h.m.mode)
}

func TestReorderSection(t *testing.T) {
	h := newHarness(t, true)
	skills := h.focus(t, func(r row) bool { return r.kind == rowSection && r.section.Type == model.SectionSkills })
	h.press("K")
	require.Len(t, h.m.tree.Sections, 6)
	assert.Equal(t, skills.section.ID, h.m.tree.Sections[4].ID)
	r, _ := h.m.current()
	assert.Equal(t, skills.section.ID, r.section.ID)
}

func TestTemplateCycles(t *testing.T) {
	h := newHarness(t, true)
	h.press("t")
	assert.Equal(t, model.TemplateManhattan, h.m.tree.Document.TemplateID)
	h.press("t")
	assert.Equal(t, model.TemplateLondon, h.m.tree.Document.TemplateID)
}

func TestSaveErrorShownInStatus(t *testing.T) {
	h := newHarness(t, true)
	h.m.Update(changeMsg(builder.Change{Type: "save.error", Err: errors.New("disk full")}))
	assert.True(t, h.m.statusErr)
	assert.Contains(t, h.m.View(), "disk full")
}

func TestNoDocumentThenCreate(t *testing.T) {
	h := newHarness(t, false)
	assert.Contains(t, h.m.View(), "No document yet")
	h.press("n")
	require.True(t, h.m.hasDoc)
	assert.Equal(t, "Untitled", h.m.tree.Document.Title)
}

func TestViewFitsWidth(t *testing.T) {
	h := newHarness(t, true)
	h.m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	h.press("p")
	for _, ln := range strings.Split(h.m.View(), "\n") {
		assert.LessOrEqual(t, len([]rune(stripANSI(ln))), 80)
	}
}

func stripANSI(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == 0x1b && i+1 < len(s) && s[i+1] == '[' {
			i += 2
			for i < len(s) && (s[i] < 0x40 || s[i] > 0x7e) {
				i++
			}
			continue
		}
		b.WriteByte(s[i])
	}
	return b.String()
}
