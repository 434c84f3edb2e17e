package render

import (
	"bytes"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"sync"

	"vitae-cli/internal/templatedata"
)

// Preview is the result of a preview render. PDF must be treated as read-only.
type Preview struct {
	PDF           []byte `json:"-"`
	Template      string `json:"template"`
	NumberOfPages int    `json:"numberOfPages"`
	CurrentPage   int    `json:"currentPage"`
	Cached        bool   `json:"cached"`
}

// Previewer re-renders only when the mapped resume or the template changed,
// and keeps the pager position across renders.
type Previewer struct {
	mu      sync.Mutex
	key     [sha256.Size]byte
	hasKey  bool
	pdf     []byte
	tmpl    string
	pages   int
	current int
}

func previewKey(r templatedata.Resume, name string) ([sha256.Size]byte, error) {
	b, err := json.Marshal(r)
	if err != nil {
		return [sha256.Size]byte{}, err
	}
	return sha256.Sum256(append(append(b, 0), name...)), nil
}

// Render returns the cached preview when nothing changed, otherwise renders and re-counts pages.
func (p *Previewer) Render(r templatedata.Resume, templateName string) (Preview, error) {
	name := ResolveTemplate(templateName, r)
	key, err := previewKey(r, name)
	if err != nil {
		return Preview{}, fmt.Errorf("preview key: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.hasKey && p.key == key {
		return p.snapshotLocked(true), nil
	}

	var buf bytes.Buffer
	if err := RenderPDF(&buf, r, name); err != nil {
		return Preview{}, err
	}
	pages, err := CountPages(buf.Bytes())
	if err != nil {
		return Preview{}, err
	}
	p.key, p.hasKey = key, true
	p.pdf = buf.Bytes()
	p.tmpl = name
	p.pages = pages
	p.current = clampPage(p.current, pages)
	return p.snapshotLocked(false), nil
}

// SetPage moves the pager, clamped to 1..NumberOfPages, and returns the new page.
func (p *Previewer) SetPage(n int) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.current = clampPage(n, p.pages)
	return p.current
}

func (p *Previewer) NextPage() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.current = clampPage(p.current+1, p.pages)
	return p.current
}

func (p *Previewer) PrevPage() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.current = clampPage(p.current-1, p.pages)
	return p.current
}

// Last returns the most recent preview without rendering.
func (p *Previewer) Last() (Preview, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.hasKey {
		return Preview{}, false
	}
	return p.snapshotLocked(true), true
}

func (p *Previewer) snapshotLocked(cached bool) Preview {
	return Preview{
		PDF:           p.pdf,
		Template:      p.tmpl,
		NumberOfPages: p.pages,
		CurrentPage:   p.current,
		Cached:        cached,
	}
}

func clampPage(n, pages int) int {
	if pages < 1 {
		return 0
	}
	if n < 1 {
		return 1
	}
	if n > pages {
		return pages
	}
	return n
}
