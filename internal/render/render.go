// Package render lays out a mapped resume as a paginated PDF using one of the named templates.
package render

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"vitae-cli/internal/model"
	"vitae-cli/internal/templatedata"

	"github.com/jung-kurt/gofpdf"
)

// layout draws a resume onto an open document. Page breaks are handled by gofpdf.
type layout func(c *canvas, r templatedata.Resume)

var layouts = map[string]layout{
	model.TemplateLondon:    drawLondon,
	model.TemplateManhattan: drawManhattan,
}

type UnknownTemplateError struct {
	Name      string
	Available []string
}

func (e UnknownTemplateError) Error() string {
	return fmt.Sprintf("unknown template %q (available: %s)", e.Name, strings.Join(e.Available, ", "))
}

// Names lists the registered templates in sorted order.
func Names() []string {
	out := make([]string, 0, len(layouts))
	for name := range layouts {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// ResolveTemplate picks the explicit name, else the document's template, else the default.
func ResolveTemplate(name string, r templatedata.Resume) string {
	if name = strings.TrimSpace(name); name != "" {
		return name
	}
	if r.TemplateID != "" {
		return r.TemplateID
	}
	return model.TemplateLondon
}

// RenderPDF writes r laid out with the named template to w.
func RenderPDF(w io.Writer, r templatedata.Resume, templateName string) error {
	name := ResolveTemplate(templateName, r)
	draw, ok := layouts[name]
	if !ok {
		return UnknownTemplateError{Name: name, Available: Names()}
	}
	st, err := StyleFor(name)
	if err != nil {
		return err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(st.Margins.Left, st.Margins.Top, st.Margins.Right)
	pdf.SetAutoPageBreak(true, st.Margins.Bottom)
	pdf.SetCreator("vitae", false)
	if title := strings.TrimSpace(r.Title); title != "" {
		pdf.SetTitle(title, true)
	}
	if author := r.PersonalDetails.FullName(); author != "" {
		pdf.SetAuthor(author, true)
	}
	pdf.AliasNbPages("")

	c := newCanvas(pdf, st)
	pdf.SetFooterFunc(c.footer)
	pdf.AddPage()
	draw(c, r)

	if pdf.Err() {
		return fmt.Errorf("render %s: %w", name, pdf.Error())
	}
	return pdf.Output(w)
}

// canvas wraps the gofpdf document with the active style sheet.
type canvas struct {
	pdf   *gofpdf.Fpdf
	style Style
	tr    func(string) string
}

func newCanvas(pdf *gofpdf.Fpdf, st Style) *canvas {
	return &canvas{
		pdf:   pdf,
		style: st,
		// Core fonts are cp1252; this covers accents, bullets and the middle dot.
		tr: pdf.UnicodeTranslatorFromDescriptor(""),
	}
}

// use selects a font role and text colour role.
func (c *canvas) use(fontRole, colorRole string) {
	f := c.style.font(fontRole)
	c.pdf.SetFont(c.style.Family, f.Style, f.Size)
	col := c.style.color(colorRole)
	c.pdf.SetTextColor(col.R, col.G, col.B)
}

func (c *canvas) left() float64 {
	l, _, _, _ := c.pdf.GetMargins()
	return l
}

func (c *canvas) contentWidth() float64 {
	pageW, _ := c.pdf.GetPageSize()
	l, _, r, _ := c.pdf.GetMargins()
	return pageW - l - r
}

// lineHeight scales the sheet's base line height with the current font.
func (c *canvas) lineHeight(role string) float64 {
	base := c.style.font("body").Size
	if base <= 0 {
		return c.style.LineHeight
	}
	return c.style.LineHeight * c.style.font(role).Size / base
}

// ensure starts a new page when fewer than h mm remain above the bottom margin.
func (c *canvas) ensure(h float64) {
	_, pageH := c.pdf.GetPageSize()
	_, _, _, bottom := c.pdf.GetMargins()
	if c.pdf.GetY()+h > pageH-bottom {
		c.pdf.AddPage()
	}
}

// text writes wrapped text at x with width w and returns the y below it.
func (c *canvas) text(x, w float64, role, colorRole, s, align string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return c.pdf.GetY()
	}
	c.use(role, colorRole)
	c.pdf.SetX(x)
	c.pdf.MultiCell(w, c.lineHeight(role), c.tr(s), "", align, false)
	return c.pdf.GetY()
}

// link writes a single clickable line.
func (c *canvas) link(x, w float64, role, label, target, align string) {
	c.use(role, "accent")
	c.pdf.SetX(x)
	c.pdf.CellFormat(w, c.lineHeight(role), c.tr(label), "", 2, align, false, 0, target)
}

// blocks writes paragraphs and indented bullets.
func (c *canvas) blocks(x, w float64, blocks []templatedata.Block) {
	const indent = 4.0
	lh := c.lineHeight("body")
	for _, b := range blocks {
		c.use("body", "text")
		if b.Kind == templatedata.BlockBullet {
			c.pdf.SetX(x)
			c.pdf.CellFormat(indent, lh, c.tr("•"), "", 0, "L", false, 0, "")
			c.pdf.MultiCell(w-indent, lh, c.tr(b.Text), "", "L", false)
			continue
		}
		c.pdf.SetX(x)
		c.pdf.MultiCell(w, lh, c.tr(b.Text), "", "L", false)
	}
}

// rule draws a horizontal line across the content width at the current y.
func (c *canvas) rule() {
	col := c.style.color("rule")
	c.pdf.SetDrawColor(col.R, col.G, col.B)
	c.pdf.SetLineWidth(0.3)
	y := c.pdf.GetY()
	c.pdf.Line(c.left(), y, c.left()+c.contentWidth(), y)
	c.pdf.SetLineWidth(0.2)
}

func (c *canvas) footer() {
	c.pdf.SetY(-c.style.Margins.Bottom + 4)
	c.use("small", "muted")
	c.pdf.CellFormat(0, 6, fmt.Sprintf("%d / {nb}", c.pdf.PageNo()), "", 0, "C", false, 0, "")
}

// visibleSections drops sections a template would draw nothing for.
func visibleSections(r templatedata.Resume) []templatedata.Section {
	out := make([]templatedata.Section, 0, len(r.Sections))
	for _, s := range r.Sections {
		if !s.IsEmpty() {
			out = append(out, s)
		}
	}
	return out
}
