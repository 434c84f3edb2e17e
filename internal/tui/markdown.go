package tui

import (
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/ansi"
	"github.com/charmbracelet/glamour/styles"
	"github.com/charmbracelet/lipgloss"
)

var (
	mdRendererMu sync.Mutex
	// Keyed by style and wrap width. WithAutoStyle is avoided: it can block on terminal queries.
	mdRenderers = map[string]*glamour.TermRenderer{}
)

func renderMarkdown(md, style string, width int) string {
	md = strings.TrimSpace(md)
	if md == "" {
		return ""
	}
	if width < 10 {
		width = 10
	}
	style = markdownStyle(style)
	key := style + ":" + strconv.Itoa(width)

	mdRendererMu.Lock()
	r := mdRenderers[key]
	mdRendererMu.Unlock()

	if r == nil {
		rr, err := glamour.NewTermRenderer(
			glamour.WithStyles(markdownStyleConfig(style)),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			return md
		}
		mdRendererMu.Lock()
		if existing := mdRenderers[key]; existing != nil {
			r = existing
		} else {
			mdRenderers[key] = rr
			r = rr
		}
		mdRendererMu.Unlock()
	}

	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return strings.TrimRight(out, "\n")
}

func markdownStyle(configured string) string {
	switch strings.ToLower(strings.TrimSpace(configured)) {
	case "light", "dark", "notty":
		return strings.ToLower(strings.TrimSpace(configured))
	}
	if lipgloss.HasDarkBackground() {
		return "dark"
	}
	return "light"
}

func markdownStyleConfig(name string) ansi.StyleConfig {
	var cfg ansi.StyleConfig
	switch name {
	case "light":
		cfg = styles.LightStyleConfig
	case "notty":
		return styles.NoTTYStyleConfig
	default:
		cfg = styles.DarkStyleConfig
	}
	heading := mdColor(colorSurfaceFg, name)
	cfg.Heading.Color = heading
	cfg.H1.Color = heading
	cfg.H2.Color = heading
	cfg.H3.Color = heading
	// Glamour's H1 has a coloured background block; a resume title reads better plain.
	cfg.H1.BackgroundColor = nil
	cfg.H1.Prefix = ""
	cfg.H1.Suffix = ""

	link := mdColor(colorAccent, name)
	cfg.Link.Color = link
	cfg.LinkText.Color = link
	cfg.Text.Color = mdColor(colorSurfaceFg, name)
	cfg.Emph.Color = nil
	return cfg
}

func mdColor(c lipgloss.AdaptiveColor, styleName string) *string {
	s := c.Dark
	if styleName == "light" {
		s = c.Light
	}
	return &s
}
