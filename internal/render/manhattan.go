package render

import (
	"strings"

	"vitae-cli/internal/model"
	"vitae-cli/internal/templatedata"
)

// drawManhattan centres the header and stacks sections, dates right-aligned on the heading line.
func drawManhattan(c *canvas, r templatedata.Resume) {
	x, w := c.left(), c.contentWidth()
	p := r.PersonalDetails
	if !p.IsEmpty() {
		c.text(x, w, "name", "text", p.FullName(), "C")
		c.text(x, w, "title", "muted", p.JobTitle, "C")
		c.pdf.Ln(1)
		c.text(x, w, "small", "text", strings.Join(p.Contacts(), c.style.Separator), "C")
	}

	for _, sec := range visibleSections(r) {
		c.pdf.Ln(c.style.SectionGap)
		c.ensure(4 * c.lineHeight("heading"))
		c.rule()
		c.pdf.Ln(1.5)
		c.text(x, w, "heading", "accent", strings.ToUpper(sec.Title), "C")
		c.pdf.Ln(1.5)

		switch {
		case len(sec.Summary) > 0:
			c.blocks(x, w, sec.Summary)
		case sec.Type == model.SectionSkills:
			manhattanSkills(c, sec, x, w)
		default:
			for _, e := range sec.Entries {
				manhattanEntry(c, sec, e, x, w)
				c.pdf.Ln(1.5)
			}
		}
	}
}

func manhattanEntry(c *canvas, sec templatedata.Section, e templatedata.Entry, x, w float64) {
	c.ensure(3 * c.lineHeight("entry"))
	dateW := 0.0
	if e.DateRange != "" {
		c.use("small", "muted")
		dateW = c.pdf.GetStringWidth(c.tr(e.DateRange)) + 2
		top := c.pdf.GetY()
		c.pdf.SetX(x + w - dateW)
		c.pdf.CellFormat(dateW, c.lineHeight("entry"), c.tr(e.DateRange), "", 0, "R", false, 0, "")
		c.pdf.SetY(top)
	}

	if sec.Type == model.SectionWebsitesLinks && e.Link != "" {
		c.link(x, w-dateW, "entry", e.Heading, e.Link, "L")
		if e.Subheading != "" {
			c.text(x, w, "small", "muted", e.Subheading, "L")
		}
	} else {
		c.text(x, w-dateW, "entry", "text", e.Heading, "L")
	}
	c.text(x, w, "small", "muted", e.City, "L")
	c.blocks(x, w, e.Description)
}

// manhattanSkills prints skills as one wrapped line, levels in parentheses when shown.
func manhattanSkills(c *canvas, sec templatedata.Section, x, w float64) {
	parts := make([]string, 0, len(sec.Entries))
	for _, e := range sec.Entries {
		if e.Level != "" {
			parts = append(parts, e.Heading+" ("+e.Level+")")
			continue
		}
		parts = append(parts, e.Heading)
	}
	c.text(x, w, "body", "text", strings.Join(parts, c.style.Separator), "C")
}
