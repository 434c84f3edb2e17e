package render

import (
	"math"
	"strings"

	"vitae-cli/internal/model"
	"vitae-cli/internal/templatedata"
)

// drawLondon lays every entry out as a row: dates | content | city.
func drawLondon(c *canvas, r templatedata.Resume) {
	londonHeader(c, r.PersonalDetails)

	x := c.left()
	cols := c.style.Columns
	mid := x + cols.Left + cols.Gutter
	midW := c.contentWidth() - cols.Left - cols.Right - 2*cols.Gutter
	right := mid + midW + cols.Gutter

	for _, sec := range visibleSections(r) {
		c.pdf.Ln(c.style.SectionGap)
		c.ensure(4 * c.lineHeight("heading"))
		c.text(x, 0, "heading", "accent", strings.ToUpper(sec.Title), "L")
		c.rule()
		c.pdf.Ln(2)

		if len(sec.Summary) > 0 {
			c.blocks(mid, midW, sec.Summary)
			continue
		}
		for _, e := range sec.Entries {
			londonRow(c, sec, e, x, mid, midW, right)
			c.pdf.Ln(2)
		}
	}
}

func londonHeader(c *canvas, p templatedata.PersonalDetails) {
	if p.IsEmpty() {
		return
	}
	x, w := c.left(), c.contentWidth()
	c.text(x, w, "name", "text", p.FullName(), "L")
	c.text(x, w, "title", "muted", p.JobTitle, "L")
	c.pdf.Ln(1)
	c.text(x, w, "small", "text", strings.Join(p.Contacts(), c.style.Separator), "L")

	var extra []string
	for _, kv := range [][2]string{
		{"Born", strings.TrimSpace(p.DateOfBirth + " " + prefixed("in ", p.PlaceOfBirth))},
		{"Licence", p.DrivingLicense},
		{"", strings.TrimSpace(p.PostalCode + " " + p.Country)},
	} {
		if strings.TrimSpace(kv[1]) == "" {
			continue
		}
		if kv[0] == "" {
			extra = append(extra, kv[1])
		} else {
			extra = append(extra, kv[0]+": "+kv[1])
		}
	}
	c.text(x, w, "small", "muted", strings.Join(extra, c.style.Separator), "L")
}

func londonRow(c *canvas, sec templatedata.Section, e templatedata.Entry, x, mid, midW, right float64) {
	c.ensure(3 * c.lineHeight("entry"))
	top := c.pdf.GetY()
	page := c.pdf.PageNo()

	leftText, rightText := e.DateRange, e.City
	if sec.Type == model.SectionSkills {
		leftText, rightText = "", e.Level
	}

	c.pdf.SetY(top)
	leftEnd := c.text(x, c.style.Columns.Left, "small", "muted", leftText, "L")
	c.pdf.SetY(top)
	rightEnd := c.text(right, c.style.Columns.Right, "small", "muted", rightText, "R")

	c.pdf.SetY(top)
	if sec.Type == model.SectionWebsitesLinks && e.Link != "" {
		c.link(mid, midW, "entry", e.Heading, e.Link, "L")
		if e.Subheading != "" {
			c.text(mid, midW, "small", "muted", e.Subheading, "L")
		}
	} else {
		c.text(mid, midW, "entry", "text", e.Heading, "L")
	}
	c.blocks(mid, midW, e.Description)

	// Side columns are short; only extend past them when the content stayed on the same page.
	if c.pdf.PageNo() == page {
		c.pdf.SetY(math.Max(c.pdf.GetY(), math.Max(leftEnd, rightEnd)))
	}
}

func prefixed(prefix, s string) string {
	if s = strings.TrimSpace(s); s == "" {
		return ""
	}
	return prefix + s
}
