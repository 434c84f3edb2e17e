package publish

import (
	"bytes"
	"strings"

	"vitae-cli/internal/model"
	"vitae-cli/internal/templatedata"
)

// RenderResumeMarkdown renders the mapped resume as Markdown for text previews and .md export.
func RenderResumeMarkdown(r templatedata.Resume) string {
	var buf bytes.Buffer
	writeLn := func(s string) {
		buf.WriteString(s)
		buf.WriteString("\n")
	}

	p := r.PersonalDetails
	title := p.FullName()
	if title == "" {
		title = strings.TrimSpace(r.Title)
	}
	if title != "" {
		writeLn("# " + title)
		writeLn("")
	}
	if p.JobTitle != "" {
		writeLn("*" + p.JobTitle + "*")
		writeLn("")
	}
	if contacts := p.Contacts(); len(contacts) > 0 {
		writeLn(strings.Join(contacts, " · "))
		writeLn("")
	}

	for _, sec := range r.Sections {
		if sec.IsEmpty() {
			continue
		}
		writeLn("## " + sec.Title)
		writeLn("")
		if len(sec.Summary) > 0 {
			writeBlocks(writeLn, sec.Summary)
			continue
		}
		if sec.Type == model.SectionSkills {
			for _, e := range sec.Entries {
				if e.Level != "" {
					writeLn("- " + e.Heading + " (" + e.Level + ")")
				} else {
					writeLn("- " + e.Heading)
				}
			}
			writeLn("")
			continue
		}
		for _, e := range sec.Entries {
			heading := e.Heading
			if e.Link != "" && e.Heading != e.Link {
				heading = "[" + e.Heading + "](" + e.Link + ")"
			} else if e.Link != "" {
				heading = "<" + e.Link + ">"
			}
			writeLn("### " + heading)
			writeLn("")
			if meta := joinMeta(e.DateRange, e.City); meta != "" {
				writeLn("_" + meta + "_")
				writeLn("")
			}
			writeBlocks(writeLn, e.Description)
		}
	}
	return strings.TrimRight(buf.String(), "\n") + "\n"
}

func writeBlocks(writeLn func(string), blocks []templatedata.Block) {
	if len(blocks) == 0 {
		return
	}
	prev := templatedata.BlockKind("")
	for _, b := range blocks {
		if b.Kind == templatedata.BlockBullet {
			writeLn("- " + b.Text)
		} else {
			if prev == templatedata.BlockBullet {
				writeLn("")
			}
			writeLn(b.Text)
			writeLn("")
		}
		prev = b.Kind
	}
	if prev == templatedata.BlockBullet {
		writeLn("")
	}
}

func joinMeta(parts ...string) string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, ", ")
}
