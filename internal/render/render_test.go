package render

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"

	"vitae-cli/internal/model"
	"vitae-cli/internal/templatedata"
)

func sampleResume(jobs int) templatedata.Resume {
	r := templatedata.Resume{
		DocumentID: "doc-test",
		Title:      "CV",
		TemplateID: model.TemplateLondon,
		PersonalDetails: templatedata.PersonalDetails{
			FirstName: "Ada",
			LastName:  "Lovelace",
			JobTitle:  "Analyst",
			Email:     "ada@example.com",
			City:      "London",
		},
	}
	r.Sections = append(r.Sections, templatedata.Section{
		ID: "sec-sum", Type: model.SectionProfessionalSummary, Title: "Profile",
		Summary: []templatedata.Block{{Kind: templatedata.BlockParagraph, Text: "Writes programs for engines."}},
	})
	emp := templatedata.Section{ID: "sec-emp", Type: model.SectionEmploymentHistory, Title: "Employment History"}
	for i := 0; i < jobs; i++ {
		emp.Entries = append(emp.Entries, templatedata.Entry{
			ID:        fmt.Sprintf("itm-%d", i),
			Heading:   fmt.Sprintf("Engineer %d at Analytical Engines", i),
			DateRange: "Jan 2020 - Mar 2022",
			City:      "Zürich",
			Description: []templatedata.Block{
				{Kind: templatedata.BlockParagraph, Text: strings.Repeat("Designed and documented the engine. ", 6)},
				{Kind: templatedata.BlockBullet, Text: "Shipped the first program"},
			},
		})
	}
	r.Sections = append(r.Sections, emp,
		templatedata.Section{ID: "sec-skl", Type: model.SectionSkills, Title: "Skills", ShowExperienceLevel: true,
			Entries: []templatedata.Entry{{ID: "itm-s", Heading: "Mathematics", Level: "Expert", Subheading: "Expert"}}},
		templatedata.Section{ID: "sec-lnk", Type: model.SectionWebsitesLinks, Title: "Links",
			Entries: []templatedata.Entry{{ID: "itm-l", Heading: "GitHub", Subheading: "https://github.com/ada", Link: "https://github.com/ada"}}},
		templatedata.Section{ID: "sec-edu", Type: model.SectionEducation, Title: "Education"},
	)
	return r
}

func TestRenderPDF_AllTemplates(t *testing.T) {
	t.Parallel()
	for _, name := range model.Templates {
		name := name
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			var buf bytes.Buffer
			if err := RenderPDF(&buf, sampleResume(2), name); err != nil {
				t.Fatalf("RenderPDF: %v", err)
			}
			if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF")) {
				t.Fatalf("output does not start with %%PDF header")
			}
			pages, err := CountPages(buf.Bytes())
			if err != nil {
				t.Fatalf("CountPages: %v", err)
			}
			if pages != 1 {
				t.Fatalf("expected 1 page, got %d", pages)
			}
			text, err := PageText(buf.Bytes(), 1)
			if err != nil {
				t.Fatalf("PageText: %v", err)
			}
			if !strings.Contains(text, "Lovelace") {
				t.Fatalf("expected name on page 1, got %q", text)
			}
		})
	}
}

func TestRenderPDF_Paginates(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	if err := RenderPDF(&buf, sampleResume(25), model.TemplateLondon); err != nil {
		t.Fatalf("RenderPDF: %v", err)
	}
	pages, err := CountPages(buf.Bytes())
	if err != nil {
		t.Fatalf("CountPages: %v", err)
	}
	if pages < 2 {
		t.Fatalf("expected several pages, got %d", pages)
	}
	if _, err := PageText(buf.Bytes(), pages+1); err == nil {
		t.Fatalf("expected out of range error")
	}
}

func TestRenderPDF_EmptyResume(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	if err := RenderPDF(&buf, templatedata.Resume{}, ""); err != nil {
		t.Fatalf("RenderPDF: %v", err)
	}
	if pages, err := CountPages(buf.Bytes()); err != nil || pages != 1 {
		t.Fatalf("expected one blank page, got %d (%v)", pages, err)
	}
}

func TestRenderPDF_UnknownTemplate(t *testing.T) {
	t.Parallel()
	err := RenderPDF(&bytes.Buffer{}, sampleResume(1), "tokyo")
	var ute UnknownTemplateError
	if !errors.As(err, &ute) {
		t.Fatalf("expected UnknownTemplateError, got %v", err)
	}
	if !strings.Contains(err.Error(), "london, manhattan") {
		t.Fatalf("expected available names in error, got %q", err.Error())
	}
}

func TestRegistryMatchesModelTemplates(t *testing.T) {
	t.Parallel()
	names := Names()
	if len(names) != len(model.Templates) {
		t.Fatalf("registered %v, model knows %v", names, model.Templates)
	}
	for _, name := range model.Templates {
		st, err := StyleFor(name)
		if err != nil {
			t.Fatalf("StyleFor(%s): %v", name, err)
		}
		if st.Name != name || st.font("body").Size <= 0 || st.Margins.Left <= 0 {
			t.Fatalf("incomplete style for %s: %+v", name, st)
		}
	}
}

func TestStyleColourParsing(t *testing.T) {
	t.Parallel()
	st, err := StyleFor(model.TemplateLondon)
	if err != nil {
		t.Fatalf("StyleFor: %v", err)
	}
	if got := st.color("accent"); got != (RGB{R: 0x1f, G: 0x4e, B: 0x79}) {
		t.Fatalf("unexpected accent colour: %+v", got)
	}
	if got := st.color("missing"); got != st.color("text") {
		t.Fatalf("unknown roles should fall back to text colour")
	}
}
