// Package templatedata maps a stored document into the view model every PDF template renders.
// Build is pure: it reads the db and returns fresh values, never mutating its input.
package templatedata

import (
	"strings"

	"vitae-cli/internal/model"
	"vitae-cli/internal/mutate"
	"vitae-cli/internal/store"
)

type Resume struct {
	DocumentID      string          `json:"documentId"`
	Title           string          `json:"title"`
	TemplateID      string          `json:"templateId"`
	PersonalDetails PersonalDetails `json:"personalDetails"`
	Sections        []Section       `json:"sections"`
}

type PersonalDetails struct {
	JobTitle       string `json:"jobTitle"`
	FirstName      string `json:"firstName"`
	LastName       string `json:"lastName"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	Country        string `json:"country"`
	City           string `json:"city"`
	Address        string `json:"address"`
	PostalCode     string `json:"postalCode"`
	DrivingLicense string `json:"drivingLicense"`
	PlaceOfBirth   string `json:"placeOfBirth"`
	DateOfBirth    string `json:"dateOfBirth"`
}

func (p PersonalDetails) FullName() string {
	return joinNonEmpty(" ", p.FirstName, p.LastName)
}

// Contacts lists the contact line parts in template order, skipping blanks.
func (p PersonalDetails) Contacts() []string {
	var out []string
	for _, v := range []string{p.Email, p.Phone, p.Address, p.City} {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func (p PersonalDetails) IsEmpty() bool {
	return p == PersonalDetails{}
}

type Section struct {
	ID                  string            `json:"id"`
	Type                model.SectionType `json:"type"`
	Title               string            `json:"title"`
	Summary             []Block           `json:"summary,omitempty"`
	Entries             []Entry           `json:"entries"`
	ShowExperienceLevel bool              `json:"showExperienceLevel,omitempty"`
}

// IsEmpty reports whether a template would draw nothing for the section.
func (s Section) IsEmpty() bool {
	return len(s.Summary) == 0 && len(s.Entries) == 0
}

// Entry is one non-empty item. Heading/Subheading are already composed per section type;
// the raw parts stay available for templates that lay them out differently.
type Entry struct {
	ID              string  `json:"id"`
	Heading         string  `json:"heading"`
	Subheading      string  `json:"subheading,omitempty"`
	Title           string  `json:"title,omitempty"`
	Organization    string  `json:"organization,omitempty"`
	StartDate       string  `json:"startDate,omitempty"`
	EndDate         string  `json:"endDate,omitempty"`
	DateRange       string  `json:"dateRange,omitempty"`
	City            string  `json:"city,omitempty"`
	Level           string  `json:"level,omitempty"`
	Link            string  `json:"link,omitempty"`
	Description     []Block `json:"description,omitempty"`
	DescriptionHTML string  `json:"descriptionHtml,omitempty"` // sanitized editor markup
}

// Build maps documentID into its template view model.
func Build(db *store.DB, documentID string) (Resume, error) {
	documentID = strings.TrimSpace(documentID)
	if db == nil {
		return Resume{}, mutate.NotFoundError{Kind: "document", ID: documentID}
	}
	doc, ok := db.FindDocument(documentID)
	if !ok {
		return Resume{}, mutate.NotFoundError{Kind: "document", ID: documentID}
	}

	out := Resume{
		DocumentID: doc.ID,
		Title:      doc.Title,
		TemplateID: doc.TemplateID,
		Sections:   []Section{},
	}
	for _, sec := range db.SectionsOf(doc.ID) {
		items := itemValues(db, sec.ID)
		if sec.Type == model.SectionPersonalDetails {
			if len(items) > 0 {
				out.PersonalDetails = personalDetails(items[0])
			}
			continue
		}
		out.Sections = append(out.Sections, mapSection(*sec, items))
	}
	return out, nil
}

// values is one item's field values keyed by name; first field wins on duplicate names.
type values struct {
	itemID string
	byName map[string]string
	all    []string
}

func (v values) get(name string) string {
	return strings.TrimSpace(v.byName[name])
}

func (v values) allEmpty() bool {
	for _, s := range v.all {
		if strings.TrimSpace(s) != "" && PlainText(s) != "" {
			return false
		}
	}
	return true
}

func itemValues(db *store.DB, sectionID string) []values {
	var out []values
	for _, it := range db.ItemsOf(sectionID) {
		v := values{itemID: it.ID, byName: map[string]string{}}
		for _, f := range db.FieldsOf(it.ID) {
			if _, dup := v.byName[f.Name]; !dup {
				v.byName[f.Name] = f.Value
			}
			v.all = append(v.all, f.Value)
		}
		out = append(out, v)
	}
	return out
}

func personalDetails(v values) PersonalDetails {
	return PersonalDetails{
		JobTitle:       v.get(model.FieldWantedJobTitle),
		FirstName:      v.get(model.FieldFirstName),
		LastName:       v.get(model.FieldLastName),
		Email:          v.get(model.FieldEmail),
		Phone:          v.get(model.FieldPhone),
		Country:        v.get(model.FieldCountry),
		City:           v.get(model.FieldCity),
		Address:        v.get(model.FieldAddress),
		PostalCode:     v.get(model.FieldPostalCode),
		DrivingLicense: v.get(model.FieldDrivingLicense),
		PlaceOfBirth:   v.get(model.FieldPlaceOfBirth),
		DateOfBirth:    v.get(model.FieldDateOfBirth),
	}
}

func mapSection(sec model.Section, items []values) Section {
	out := Section{
		ID:      sec.ID,
		Type:    sec.Type,
		Title:   sec.Title,
		Entries: []Entry{},
	}
	if strings.TrimSpace(out.Title) == "" {
		out.Title = sec.DefaultTitle
	}
	if sec.Type == model.SectionSkills {
		out.ShowExperienceLevel = showExperienceLevel(sec)
	}

	for _, v := range items {
		if v.allEmpty() {
			continue
		}
		if sec.Type == model.SectionProfessionalSummary {
			out.Summary = append(out.Summary, PlainBlocks(v.get(model.FieldSummary))...)
			continue
		}
		e, ok := mapEntry(sec.Type, v, out.ShowExperienceLevel)
		if !ok {
			continue
		}
		out.Entries = append(out.Entries, e)
	}
	return out
}

func showExperienceLevel(sec model.Section) bool {
	for _, o := range mutate.SectionMetadataOptions(sec) {
		if o.Key == model.MetaShowExperienceLevel {
			return o.Enabled
		}
	}
	return false
}

// mapEntry composes an entry; ok is false when none of the type's significant fields is set.
func mapEntry(typ model.SectionType, v values, showLevel bool) (Entry, bool) {
	e := Entry{
		ID:          v.itemID,
		StartDate:   FormatMonth(v.get(model.FieldStartDate)),
		EndDate:     FormatMonth(v.get(model.FieldEndDate)),
		DateRange:   DateRange(v.get(model.FieldStartDate), v.get(model.FieldEndDate)),
		City:        v.get(model.FieldCity),
		Description: PlainBlocks(v.get(model.FieldDescription)),
	}
	e.DescriptionHTML = SanitizeHTML(v.get(model.FieldDescription))
	hasDates := e.DateRange != ""

	switch typ {
	case model.SectionEducation:
		e.Title = v.get(model.FieldDegree)
		e.Organization = v.get(model.FieldSchool)
		e.Heading = joinNonEmpty(" - ", e.Title, e.Organization)
		return e, e.Title != "" || e.Organization != "" || hasDates
	case model.SectionEmploymentHistory:
		e.Title = v.get(model.FieldJobTitle)
		e.Organization = v.get(model.FieldEmployer)
		e.Heading = joinNonEmpty(" at ", e.Title, e.Organization)
		return e, e.Title != "" || e.Organization != "" || hasDates
	case model.SectionSkills:
		e.Title = v.get(model.FieldSkill)
		e.Heading = e.Title
		if showLevel {
			e.Level = v.get(model.FieldLevel)
			e.Subheading = e.Level
		}
		return e, e.Title != ""
	case model.SectionWebsitesLinks:
		e.Link = v.get(model.FieldLink)
		e.Title = v.get(model.FieldLabel)
		e.Heading = e.Title
		if e.Heading == "" {
			e.Heading = e.Link
		} else {
			e.Subheading = e.Link
		}
		return e, e.Link != ""
	default:
		// Unknown section types: show whatever is filled in, in field order.
		var parts []string
		for _, s := range v.all {
			if t := PlainText(s); t != "" {
				parts = append(parts, t)
			}
		}
		e.Heading = joinNonEmpty(" - ", parts...)
		return e, e.Heading != ""
	}
}

func joinNonEmpty(sep string, parts ...string) string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, sep)
}
