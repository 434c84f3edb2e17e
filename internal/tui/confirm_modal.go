package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func modalBodyWidth(width int) int {
	w := width - 10
	if w > 56 {
		w = 56
	}
	if w < 20 {
		w = 20
	}
	return w
}

func renderModalBox(width int, title, content string) string {
	bodyW := modalBodyWidth(width)
	head := lipgloss.NewStyle().Bold(true).Width(bodyW).Render(title)
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorAccent).
		Background(colorModalBg).
		Padding(0, 1).
		Render(head + "\n\n" + lipgloss.NewStyle().Width(bodyW).Render(content))
}

func renderConfirmModal(width int, title, body, confirmLabel, cancelLabel string, focus confirmModalFocus) string {
	// No borders on the buttons: nested borders inside a filled modal leave artifacts on some terminals.
	btnBase := lipgloss.NewStyle().
		Padding(0, 1).
		Foreground(colorSurfaceFg).
		Background(colorControlBg)
	btnActive := btnBase.
		Foreground(colorSelectedFg).
		Background(colorSelectedBg).
		Bold(true)

	confirm := btnBase.Render(confirmLabel)
	cancel := btnBase.Render(cancelLabel)
	if focus == confirmFocusConfirm {
		confirm = btnActive.Render(confirmLabel)
	} else {
		cancel = btnActive.Render(cancelLabel)
	}
	controls := lipgloss.JoinHorizontal(lipgloss.Top, confirm, " ", cancel)

	help := styleMuted().Width(modalBodyWidth(width)).Render("tab: focus   enter: select   y: delete   esc: cancel")
	return renderModalBox(width, title, strings.Join([]string{body, "", controls, "", help}, "\n"))
}
