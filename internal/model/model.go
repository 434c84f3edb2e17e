package model

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

type SectionType string

const (
	SectionPersonalDetails     SectionType = "PERSONAL_DETAILS"
	SectionProfessionalSummary SectionType = "PROFESSIONAL_SUMMARY"
	SectionEmploymentHistory   SectionType = "EMPLOYMENT_HISTORY"
	SectionEducation           SectionType = "EDUCATION"
	SectionWebsitesLinks       SectionType = "WEBSITES_SOCIAL_LINKS"
	SectionSkills              SectionType = "SKILLS"
)

func (t SectionType) Valid() bool {
	switch t {
	case SectionPersonalDetails, SectionProfessionalSummary, SectionEmploymentHistory,
		SectionEducation, SectionWebsitesLinks, SectionSkills:
		return true
	default:
		return false
	}
}

type ContainerType string

const (
	ContainerStatic      ContainerType = "STATIC"
	ContainerCollapsible ContainerType = "COLLAPSIBLE"
)

type FieldType string

const (
	FieldString    FieldType = "STRING"
	FieldRichText  FieldType = "RICH_TEXT"
	FieldDateMonth FieldType = "DATE_MONTH"
	FieldSelect    FieldType = "SELECT"
)

type Document struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	TemplateID string    `json:"templateId"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

type Section struct {
	ID           string          `json:"id"`
	DocumentID   string          `json:"documentId"`
	Title        string          `json:"title"`
	DefaultTitle string          `json:"defaultTitle"`
	Type         SectionType     `json:"type"`
	DisplayOrder int             `json:"displayOrder"`
	Metadata     SectionMetadata `json:"metadata,omitempty"`
}

type Item struct {
	ID            string        `json:"id"`
	SectionID     string        `json:"sectionId"`
	ContainerType ContainerType `json:"containerType"`
	DisplayOrder  int           `json:"displayOrder"`
}

type Field struct {
	ID           string    `json:"id"`
	ItemID       string    `json:"itemId"`
	Name         string    `json:"name"`
	Type         FieldType `json:"type"`
	Value        string    `json:"value"`
	DisplayOrder int       `json:"displayOrder"`
	SelectType   string    `json:"selectType,omitempty"`
	Options      []string  `json:"options,omitempty"`
}

// IsSelect reports whether the field offers a fixed option list.
func (f Field) IsSelect() bool {
	return f.Type == FieldSelect && len(f.Options) > 0
}

// HTMLID mirrors how form inputs are addressed: <itemId>-<name>.
func (f Field) HTMLID() string {
	return f.ItemID + "-" + f.Name
}

// SectionMetadata holds free-form per-section switches. Values are stored as strings;
// booleans and numbers are accepted on decode and normalized ("1"/"0" for booleans).
type SectionMetadata map[string]string

func (m *SectionMetadata) UnmarshalJSON(b []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	if raw == nil {
		*m = nil
		return nil
	}
	out := SectionMetadata{}
	for k, v := range raw {
		switch x := v.(type) {
		case string:
			out[k] = x
		case bool:
			out[k] = BoolFlag(x)
		case float64:
			out[k] = strconv.FormatFloat(x, 'f', -1, 64)
		case nil:
			out[k] = ""
		default:
			enc, err := json.Marshal(x)
			if err != nil {
				return err
			}
			out[k] = string(enc)
		}
	}
	*m = out
	return nil
}

// Enabled reports whether key holds an integer value of 1.
func (m SectionMetadata) Enabled(key string) bool {
	v, ok := m[key]
	if !ok {
		return false
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	return err == nil && n == 1
}

func (m SectionMetadata) Clone() SectionMetadata {
	if m == nil {
		return nil
	}
	out := make(SectionMetadata, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func BoolFlag(on bool) string {
	if on {
		return "1"
	}
	return "0"
}

type Event struct {
	ID       string    `json:"id"`
	TS       time.Time `json:"ts"`
	Type     string    `json:"type"`
	EntityID string    `json:"entityId"`
	Payload  any       `json:"payload"`
}

// Template ids a document can be rendered with.
const (
	TemplateLondon    = "london"
	TemplateManhattan = "manhattan"
)

var Templates = []string{TemplateLondon, TemplateManhattan}

func KnownTemplate(id string) bool {
	for _, t := range Templates {
		if t == id {
			return true
		}
	}
	return false
}
