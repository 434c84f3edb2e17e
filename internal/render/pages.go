package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// CountPages reads the page tree of a rendered PDF.
func CountPages(data []byte) (int, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return 0, fmt.Errorf("failed to read pdf: %w", err)
	}
	return r.NumPage(), nil
}

// PageText extracts the plain text of page n (1-based). Used to check what a layout drew.
func PageText(data []byte, n int) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to read pdf: %w", err)
	}
	if n < 1 || n > r.NumPage() {
		return "", fmt.Errorf("page %d out of range 1..%d", n, r.NumPage())
	}
	p := r.Page(n)
	if p.V.IsNull() {
		return "", nil
	}
	text, err := p.GetPlainText(nil)
	if err != nil {
		return "", fmt.Errorf("page %d: %w", n, err)
	}
	return strings.TrimSpace(text), nil
}
