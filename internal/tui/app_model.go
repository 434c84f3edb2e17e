package tui

import (
	"strings"

	"vitae-cli/internal/builder"
	"vitae-cli/internal/publish"
	"vitae-cli/internal/render"
	"vitae-cli/internal/store"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type mode int

const (
	modeBrowse mode = iota
	modeEdit
	modeConfirmDelete
)

type editTarget int

const (
	editField editTarget = iota
	editSectionTitle
	editDocumentTitle
)

type Options struct {
	// SkipDeleteConfirmation removes items without asking.
	SkipDeleteConfirmation bool
	// Preview opens with the rendered resume pane visible.
	Preview      bool
	GlamourStyle string
	// RememberSkipDeleteConfirmation persists "don't ask again". Defaults to the global config file.
	RememberSkipDeleteConfirmation func() error
}

type changeMsg builder.Change

type changesClosedMsg struct{}

type previewMsg struct {
	preview render.Preview
	err     error
}

type confirmModalFocus int

const (
	confirmFocusConfirm confirmModalFocus = iota
	confirmFocusCancel
)

type confirmState struct {
	itemID  string
	label   string
	focus   confirmModalFocus
	dontAsk bool
}

type appModel struct {
	b    *builder.Builder
	opts Options

	changes     <-chan builder.Change
	unsubscribe func()

	width  int
	height int

	tree   builder.Tree
	hasDoc bool
	rows   []row
	cursor int

	mode       mode
	input      textinput.Model
	editTarget editTarget
	editID     string

	confirm     confirmState
	skipConfirm bool

	showPreview bool
	previewer   *render.Previewer
	preview     render.Preview
	previewMD   string

	status    string
	statusErr bool
}

func newAppModel(b *builder.Builder, opts Options) *appModel {
	if opts.RememberSkipDeleteConfirmation == nil {
		opts.RememberSkipDeleteConfirmation = func() error {
			_, err := store.UpdateConfig(func(cfg *store.GlobalConfig) {
				cfg.SkipItemDeleteConfirmation = true
			})
			return err
		}
	}
	ti := textinput.New()
	ti.Prompt = ""
	ti.CharLimit = 2000

	m := &appModel{
		b:           b,
		opts:        opts,
		input:       ti,
		skipConfirm: opts.SkipDeleteConfirmation,
		showPreview: opts.Preview,
		previewer:   &render.Previewer{},
		width:       100,
		height:      30,
	}
	m.changes, m.unsubscribe = b.Subscribe()
	m.reload()
	return m
}

func (m *appModel) Init() tea.Cmd {
	return tea.Batch(waitForChange(m.changes), m.previewCmd())
}

func waitForChange(ch <-chan builder.Change) tea.Cmd {
	return func() tea.Msg {
		c, ok := <-ch
		if !ok {
			return changesClosedMsg{}
		}
		return changeMsg(c)
	}
}

// previewCmd renders the PDF off the update loop; the Previewer skips unchanged content.
func (m *appModel) previewCmd() tea.Cmd {
	if !m.hasDoc {
		return nil
	}
	b, p, id := m.b, m.previewer, m.tree.Document.ID
	return func() tea.Msg {
		data, err := b.TemplateData(id)
		if err != nil {
			return previewMsg{err: err}
		}
		pv, err := p.Render(data, "")
		return previewMsg{preview: pv, err: err}
	}
}

// reload re-reads the current document and keeps the cursor on the same row when it still exists.
func (m *appModel) reload() {
	var keep string
	if m.cursor >= 0 && m.cursor < len(m.rows) {
		keep = m.rows[m.cursor].id()
	}
	tree, err := m.b.Tree("")
	if err != nil {
		m.tree, m.hasDoc, m.rows, m.cursor, m.previewMD = builder.Tree{}, false, nil, 0, ""
		return
	}
	m.tree, m.hasDoc = tree, true
	m.rows = flattenTree(tree, m.b.CollapsedItemID())
	if data, err := m.b.TemplateData(tree.Document.ID); err == nil {
		m.previewMD = publish.RenderResumeMarkdown(data)
	}
	m.cursor = clampCursor(m.cursor, len(m.rows))
	for i, r := range m.rows {
		if r.id() == keep {
			m.cursor = i
			break
		}
	}
}

func clampCursor(n, rows int) int {
	if n >= rows {
		n = rows - 1
	}
	if n < 0 {
		n = 0
	}
	return n
}

func (m *appModel) current() (row, bool) {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return row{}, false
	}
	return m.rows[m.cursor], true
}

func (m *appModel) setStatus(s string) {
	m.status, m.statusErr = strings.TrimSpace(s), false
}

func (m *appModel) setError(err error) {
	if err == nil {
		return
	}
	m.status, m.statusErr = err.Error(), true
}

// focusRow moves the cursor to the row with id, if visible.
func (m *appModel) focusRow(id string) {
	for i, r := range m.rows {
		if r.id() == id {
			m.cursor = i
			return
		}
	}
}
