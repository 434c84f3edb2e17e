package tui

import (
	"fmt"
	"strings"

	"vitae-cli/internal/model"
	"vitae-cli/internal/templatedata"

	"github.com/charmbracelet/lipgloss"
)

const keyHelp = "j/k move  enter open/edit  a add  d delete  J/K reorder  r rename  t template  p preview  tab next doc  q quit"

func (m *appModel) View() string {
	w, h := m.width, m.height
	if w < 20 {
		w = 20
	}
	if h < 5 {
		h = 5
	}
	bodyH := h - 3

	header := m.viewHeader(w)
	var body string
	switch {
	case m.mode == modeConfirmDelete:
		body = lipgloss.Place(w, bodyH, lipgloss.Center, lipgloss.Center, m.viewConfirm(w))
	case m.showPreview && w >= 60:
		leftW := w / 2
		rightW := w - leftW - 1
		left := normalizePane(m.viewEditor(leftW, bodyH), leftW, bodyH)
		right := normalizePane(m.viewPreview(rightW), rightW, bodyH)
		sep := strings.TrimRight(strings.Repeat("│\n", bodyH), "\n")
		body = lipgloss.JoinHorizontal(lipgloss.Top, left, styleMuted().Render(sep), right)
	default:
		body = normalizePane(m.viewEditor(w, bodyH), w, bodyH)
	}
	return strings.Join([]string{header, body, m.viewStatus(w), fitWidth(styleMuted().Render(keyHelp), w)}, "\n")
}

func (m *appModel) viewHeader(w int) string {
	if !m.hasDoc {
		return fitWidth(styleTitle.Render("vitae"), w)
	}
	doc := m.tree.Document
	line := styleTitle.Render(doc.Title) + styleMuted().Render("  "+doc.TemplateID+"  "+doc.ID)
	return fitWidth(line, w)
}

func (m *appModel) viewStatus(w int) string {
	var parts []string
	if m.status != "" {
		if m.statusErr {
			parts = append(parts, styleError.Render(m.status))
		} else {
			parts = append(parts, m.status)
		}
	}
	if m.preview.NumberOfPages > 0 {
		parts = append(parts, styleMuted().Render(fmt.Sprintf("page %d/%d", m.preview.CurrentPage, m.preview.NumberOfPages)))
	}
	return fitWidth(strings.Join(parts, "  "), w)
}

// viewEditor renders the rows, scrolled so the cursor stays visible.
func (m *appModel) viewEditor(w, h int) string {
	if !m.hasDoc {
		return styleMuted().Render("No document yet. Press n to create one.")
	}
	lines := make([]string, 0, len(m.rows))
	for i, r := range m.rows {
		lines = append(lines, m.viewRow(r, i == m.cursor, w))
	}
	start := 0
	if m.cursor >= h {
		start = m.cursor - h + 1
	}
	end := start + h
	if end > len(lines) {
		end = len(lines)
	}
	return strings.Join(lines[start:end], "\n")
}

func (m *appModel) viewRow(r row, selected bool, w int) string {
	var line string
	switch r.kind {
	case rowSection:
		line = styleSection.Render(r.section.Title)
	case rowMeta:
		box := "[ ]"
		if r.meta.Enabled {
			box = "[x]"
		}
		line = "  " + box + " " + r.meta.Label
	case rowItem:
		marker := "▸"
		if r.item.ID == m.b.CollapsedItemID() {
			marker = "▾"
		}
		line = "  " + marker + " " + itemSummary(r.item)
	case rowField:
		indent := "  "
		if r.item.ContainerType == model.ContainerCollapsible {
			indent = "      "
		}
		name := r.field.Name
		if name == "" {
			name = "Summary"
		}
		value := fieldDisplay(r.field)
		if selected && m.mode == modeEdit && m.editTarget == editField && m.editID == r.field.ID {
			return indent + styleFieldName.Render(name) + renderInputLine(w-len(indent)-18, m.input.View())
		}
		line = indent + styleFieldName.Render(name) + value
	}
	if selected && m.mode == modeEdit && m.editTarget == editSectionTitle && r.kind == rowSection {
		return renderInputLine(w, m.input.View())
	}
	line = fitWidth(line, w)
	if selected {
		return styleSelected.Render(line)
	}
	return line
}

func fieldDisplay(f model.Field) string {
	v := strings.TrimSpace(f.Value)
	if v == "" {
		return styleMuted().Render("-")
	}
	switch f.Type {
	case model.FieldDateMonth:
		return templatedata.FormatMonth(v)
	case model.FieldRichText:
		return strings.ReplaceAll(templatedata.PlainText(v), "\n", " / ")
	}
	return v
}

func (m *appModel) viewPreview(w int) string {
	if !m.hasDoc {
		return ""
	}
	out := renderMarkdown(m.previewMD, m.opts.GlamourStyle, w)
	if out == "" {
		return styleMuted().Render("Nothing to preview yet.")
	}
	return out
}

func (m *appModel) viewConfirm(w int) string {
	box := "[ ]"
	if m.confirm.dontAsk {
		box = "[x]"
	}
	body := "Delete " + m.confirm.label + "?\n\n" + box + " Don't ask again (space)"
	return renderConfirmModal(w, "Delete item", body, "Delete", "Cancel", m.confirm.focus)
}
