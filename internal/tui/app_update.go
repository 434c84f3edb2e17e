package tui

import (
	"fmt"

	"vitae-cli/internal/model"
	"vitae-cli/internal/render"

	tea "github.com/charmbracelet/bubbletea"
)

func (m *appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case changeMsg:
		if msg.Err != nil {
			m.setError(fmt.Errorf("save failed: %w", msg.Err))
			return m, waitForChange(m.changes)
		}
		m.reload()
		return m, tea.Batch(waitForChange(m.changes), m.previewCmd())

	case changesClosedMsg:
		return m, nil

	case previewMsg:
		if msg.err != nil {
			m.setError(msg.err)
			return m, nil
		}
		m.preview = msg.preview
		return m, nil

	case tea.KeyMsg:
		switch m.mode {
		case modeEdit:
			return m.updateEdit(msg)
		case modeConfirmDelete:
			return m.updateConfirm(msg)
		default:
			return m.updateBrowse(msg)
		}
	}
	return m, nil
}

// applied reloads after a local mutation; the subscription delivers the same change later.
func (m *appModel) applied(err error) (tea.Model, tea.Cmd) {
	if err != nil {
		m.setError(err)
		return m, nil
	}
	m.reload()
	return m, m.previewCmd()
}

func (m *appModel) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		if m.unsubscribe != nil {
			m.unsubscribe()
		}
		return m, tea.Quit
	case "up", "k", "ctrl+p":
		m.cursor = clampCursor(m.cursor-1, len(m.rows))
		return m, nil
	case "down", "j", "ctrl+n":
		m.cursor = clampCursor(m.cursor+1, len(m.rows))
		return m, nil
	case "home", "g":
		m.cursor = 0
		return m, nil
	case "end", "G":
		m.cursor = clampCursor(len(m.rows)-1, len(m.rows))
		return m, nil
	case "n":
		doc, err := m.b.CreateDocument("", "")
		if err == nil {
			err = m.b.UseDocument(doc.ID)
		}
		m.cursor = 0
		return m.applied(err)
	case "tab":
		return m.applied(m.nextDocument())
	case "p":
		m.showPreview = !m.showPreview
		return m, nil
	case "]":
		m.preview.CurrentPage = m.previewer.NextPage()
		return m, nil
	case "[":
		m.preview.CurrentPage = m.previewer.PrevPage()
		return m, nil
	}

	if !m.hasDoc {
		return m, nil
	}

	switch msg.String() {
	case "R":
		m.startEdit(editDocumentTitle, m.tree.Document.ID, m.tree.Document.Title)
		return m, nil
	case "t":
		return m.applied(m.b.SetDocumentTemplate(m.tree.Document.ID, nextTemplate(m.tree.Document.TemplateID)))
	}

	r, ok := m.current()
	if !ok {
		return m, nil
	}
	switch msg.String() {
	case "enter", " ":
		return m.activate(r)
	case "e":
		if r.kind == rowField {
			m.startFieldEdit(r)
		}
		return m, nil
	case "r":
		m.startEdit(editSectionTitle, r.section.ID, r.section.Title)
		return m, nil
	case "a":
		it, err := m.b.AddItem(r.section.ID)
		mdl, cmd := m.applied(err)
		if err == nil {
			m.focusRow(it.ID)
		}
		return mdl, cmd
	case "d", "x", "delete":
		return m.requestDelete(r)
	case "K", "shift+up":
		return m.move(r, -1)
	case "J", "shift+down":
		return m.move(r, +1)
	}
	return m, nil
}

func (m *appModel) activate(r row) (tea.Model, tea.Cmd) {
	switch r.kind {
	case rowMeta:
		return m.applied(m.b.SetSectionMetadata(r.section.ID, r.meta.Key, !r.meta.Enabled))
	case rowItem:
		m.b.ToggleItem(r.item.ID)
		return m.applied(nil)
	case rowField:
		if r.field.Type == model.FieldSelect {
			return m.applied(m.b.UpdateField(r.field.ID, nextOption(r.field)))
		}
		m.startFieldEdit(r)
	}
	return m, nil
}

// move shifts the item (or the section, on a section row) one position.
func (m *appModel) move(r row, delta int) (tea.Model, tea.Cmd) {
	switch r.kind {
	case rowSection:
		if r.index+delta < 1 || r.index+delta > r.count {
			return m, nil
		}
		return m.applied(m.b.MoveSection(r.section.ID, r.index+delta))
	case rowItem:
		if r.index+delta < 1 || r.index+delta > r.count {
			return m, nil
		}
		return m.applied(m.b.MoveItem(r.item.ID, r.index+delta))
	}
	return m, nil
}

func (m *appModel) requestDelete(r row) (tea.Model, tea.Cmd) {
	if r.item.ID == "" || r.item.ContainerType != model.ContainerCollapsible {
		return m, nil
	}
	if m.skipConfirm {
		return m.applied(m.b.RemoveItem(r.item.ID))
	}
	m.mode = modeConfirmDelete
	m.confirm = confirmState{itemID: r.item.ID, label: itemSummary(r.item), focus: confirmFocusCancel}
	return m, nil
}

func (m *appModel) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "ctrl+g", "n":
		m.mode = modeBrowse
		return m, nil
	case "tab", "shift+tab", "left", "right", "h", "l":
		if m.confirm.focus == confirmFocusConfirm {
			m.confirm.focus = confirmFocusCancel
		} else {
			m.confirm.focus = confirmFocusConfirm
		}
		return m, nil
	case " ":
		m.confirm.dontAsk = !m.confirm.dontAsk
		return m, nil
	case "y":
		return m.confirmDelete()
	case "enter":
		if m.confirm.focus == confirmFocusConfirm {
			return m.confirmDelete()
		}
		m.mode = modeBrowse
		return m, nil
	}
	return m, nil
}

func (m *appModel) confirmDelete() (tea.Model, tea.Cmd) {
	m.mode = modeBrowse
	if m.confirm.dontAsk {
		m.skipConfirm = true
		if err := m.opts.RememberSkipDeleteConfirmation(); err != nil {
			m.setError(fmt.Errorf("remember choice: %w", err))
		}
	}
	return m.applied(m.b.RemoveItem(m.confirm.itemID))
}

func (m *appModel) startFieldEdit(r row) {
	if r.field.Type == model.FieldSelect {
		return
	}
	m.startEdit(editField, r.field.ID, r.field.Value)
	switch r.field.Type {
	case model.FieldDateMonth:
		m.input.Placeholder = "YYYY-MM"
	default:
		m.input.Placeholder = r.field.Name
	}
}

func (m *appModel) startEdit(target editTarget, id, value string) {
	m.mode = modeEdit
	m.editTarget = target
	m.editID = id
	m.input.Placeholder = ""
	m.input.SetValue(value)
	m.input.CursorEnd()
	m.input.Focus()
}

func (m *appModel) updateEdit(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "ctrl+g":
		m.mode = modeBrowse
		m.input.Blur()
		return m, nil
	case "enter":
		value := m.input.Value()
		var err error
		switch m.editTarget {
		case editField:
			err = m.b.UpdateField(m.editID, value)
		case editSectionTitle:
			err = m.b.RenameSection(m.editID, value)
		case editDocumentTitle:
			err = m.b.RenameDocument(m.editID, value)
		}
		if err != nil {
			// Keep the input open so the value can be corrected.
			m.setError(err)
			return m, nil
		}
		m.mode = modeBrowse
		m.input.Blur()
		m.setStatus("")
		return m.applied(nil)
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *appModel) nextDocument() error {
	docs := m.b.Documents()
	if len(docs) < 2 {
		return nil
	}
	cur := m.b.CurrentDocumentID()
	for i, d := range docs {
		if d.ID == cur {
			return m.b.UseDocument(docs[(i+1)%len(docs)].ID)
		}
	}
	return m.b.UseDocument(docs[0].ID)
}

func nextTemplate(current string) string {
	names := render.Names()
	for i, n := range names {
		if n == current {
			return names[(i+1)%len(names)]
		}
	}
	return names[0]
}

// nextOption cycles a select field through its options and back to empty.
func nextOption(f model.Field) string {
	for i, o := range f.Options {
		if o == f.Value {
			if i+1 < len(f.Options) {
				return f.Options[i+1]
			}
			return ""
		}
	}
	if len(f.Options) == 0 {
		return ""
	}
	return f.Options[0]
}
