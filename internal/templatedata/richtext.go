package templatedata

import (
	"html"
	"regexp"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

type BlockKind string

const (
	BlockParagraph BlockKind = "paragraph"
	BlockBullet    BlockKind = "bullet"
)

// Block is one line of rich text flattened for layout engines that only place text.
type Block struct {
	Kind BlockKind `json:"kind"`
	Text string    `json:"text"`
}

const bulletMark = "• "

var (
	strictOnce   sync.Once
	strictPolicy *bluemonday.Policy

	richOnce   sync.Once
	richPolicy *bluemonday.Policy

	reListItem   = regexp.MustCompile(`(?i)<li(\s[^>]*)?>`)
	reBlockBreak = regexp.MustCompile(`(?i)<br\s*/?>|</(p|div|li|ul|ol|h[1-6])>`)
	reTag        = regexp.MustCompile(`(?i)^(</?[a-z][a-z0-9]*(\s[^<>]*)?/?>|<!--)`)
)

// isMarkup reports whether value holds at least one real tag. A bare "<" as in
// "p95<budget" is text.
func isMarkup(value string) bool {
	for i := strings.IndexByte(value, '<'); i >= 0; {
		if reTag.MatchString(value[i:]) {
			return true
		}
		next := strings.IndexByte(value[i+1:], '<')
		if next < 0 {
			break
		}
		i += next + 1
	}
	return false
}

// escapeStrayLT escapes every "<" that does not open a tag so the tokenizer keeps it as text.
func escapeStrayLT(value string) string {
	var b strings.Builder
	for i := 0; i < len(value); i++ {
		if value[i] == '<' && !reTag.MatchString(value[i:]) {
			b.WriteString("&lt;")
			continue
		}
		b.WriteByte(value[i])
	}
	return b.String()
}

func textSanitizer() *bluemonday.Policy {
	strictOnce.Do(func() {
		strictPolicy = bluemonday.StrictPolicy()
	})
	return strictPolicy
}

// htmlSanitizer keeps the formatting a rich text editor produces and nothing else.
func htmlSanitizer() *bluemonday.Policy {
	richOnce.Do(func() {
		p := bluemonday.NewPolicy()
		p.AllowElements("p", "br", "ul", "ol", "li", "strong", "b", "em", "i", "u", "s")
		p.AllowAttrs("href").OnElements("a")
		p.AllowStandardURLs()
		p.RequireNoFollowOnLinks(true)
		p.AddTargetBlankToFullyQualifiedLinks(true)
		richPolicy = p
	})
	return richPolicy
}

// PlainBlocks converts a rich text value (editor HTML or plain text) into paragraphs and bullets.
func PlainBlocks(value string) []Block {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	text := value
	if isMarkup(value) {
		text = escapeStrayLT(text)
		text = reListItem.ReplaceAllString(text, "\n"+bulletMark)
		text = reBlockBreak.ReplaceAllString(text, "\n")
		text = html.UnescapeString(textSanitizer().Sanitize(text))
	}

	var out []Block
	for _, line := range strings.Split(text, "\n") {
		line = strings.Join(strings.Fields(line), " ")
		if line == "" {
			continue
		}
		kind := BlockParagraph
		for _, p := range []string{strings.TrimSpace(bulletMark), "- ", "* "} {
			if strings.HasPrefix(line, p) {
				kind = BlockBullet
				line = strings.TrimSpace(strings.TrimPrefix(line, p))
				break
			}
		}
		if line == "" {
			continue
		}
		out = append(out, Block{Kind: kind, Text: line})
	}
	return out
}

// PlainText flattens a rich text value to a single string.
func PlainText(value string) string {
	blocks := PlainBlocks(value)
	parts := make([]string, 0, len(blocks))
	for _, b := range blocks {
		parts = append(parts, b.Text)
	}
	return strings.Join(parts, " ")
}

// SanitizeHTML returns markup safe to embed in a page. Plain text is wrapped in paragraphs.
func SanitizeHTML(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	if !isMarkup(value) {
		var b strings.Builder
		for _, line := range strings.Split(value, "\n") {
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}
			b.WriteString("<p>")
			b.WriteString(html.EscapeString(line))
			b.WriteString("</p>")
		}
		return b.String()
	}
	return strings.TrimSpace(htmlSanitizer().Sanitize(escapeStrayLT(value)))
}
