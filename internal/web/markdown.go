package web

import (
	"bytes"
	"html/template"

	"vitae-cli/internal/publish"
	"vitae-cli/internal/templatedata"

	"github.com/yuin/goldmark"
	emoji "github.com/yuin/goldmark-emoji"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

// previewMarkdown turns the resume Markdown into the HTML article of the preview page.
// Raw HTML in field values is not passed through (goldmark's default), so the output is safe to embed.
var previewMarkdown = goldmark.New(
	goldmark.WithExtensions(
		extension.Table,
		extension.Linkify,
		extension.Typographer,
		emoji.Emoji,
	),
	goldmark.WithParserOptions(
		// Section headings get ids so the page can link to #employment-history etc.
		parser.WithAutoHeadingID(),
	),
	goldmark.WithRendererOptions(
		html.WithHardWraps(),
	),
)

// resumeHTML renders r for the browser. On a conversion error the Markdown is shown preformatted.
func resumeHTML(r templatedata.Resume) template.HTML {
	src := publish.RenderResumeMarkdown(r)
	if src == "" {
		return ""
	}
	var b bytes.Buffer
	if err := previewMarkdown.Convert([]byte(src), &b); err != nil {
		return template.HTML("<pre>" + template.HTMLEscapeString(src) + "</pre>")
	}
	return template.HTML(b.String())
}
