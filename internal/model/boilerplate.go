package model

// FieldSpec describes one field every item of a section type carries.
type FieldSpec struct {
	Name       string
	Type       FieldType
	SelectType string
	Options    []string
}

// MetadataOption is a switch a section type exposes (stored as "1"/"0" in section metadata).
type MetadataOption struct {
	Key     string
	Label   string
	Default bool
}

// SectionSpec is the seed layout of a section type.
type SectionSpec struct {
	Type            SectionType
	Title           string
	ContainerType   ContainerType
	Fields          []FieldSpec
	MetadataOptions []MetadataOption
}

const MetaShowExperienceLevel = "showExperienceLevel"

// Field names the templates read by name.
const (
	FieldWantedJobTitle = "Wanted Job Title"
	FieldFirstName      = "First Name"
	FieldLastName       = "Last Name"
	FieldEmail          = "Email"
	FieldPhone          = "Phone"
	FieldCountry        = "Country"
	FieldCity           = "City"
	FieldAddress        = "Address"
	FieldPostalCode     = "Postal Code"
	FieldDrivingLicense = "Driving License"
	FieldPlaceOfBirth   = "Place of Birth"
	FieldDateOfBirth    = "Date of Birth"

	FieldJobTitle    = "Job Title"
	FieldEmployer    = "Employer"
	FieldSchool      = "School"
	FieldDegree      = "Degree"
	FieldStartDate   = "Start Date"
	FieldEndDate     = "End Date"
	FieldDescription = "Description"
	FieldLabel       = "Label"
	FieldLink        = "Link"
	FieldSkill       = "Skill"
	FieldLevel       = "Experience Level"
	FieldSummary     = ""
)

var ExperienceLevels = []string{"Beginner", "Competent", "Proficient", "Expert"}

var boilerplate = []SectionSpec{
	{
		Type:          SectionPersonalDetails,
		Title:         "Personal Details",
		ContainerType: ContainerStatic,
		Fields: []FieldSpec{
			{Name: FieldWantedJobTitle, Type: FieldString},
			{Name: FieldFirstName, Type: FieldString},
			{Name: FieldLastName, Type: FieldString},
			{Name: FieldEmail, Type: FieldString},
			{Name: FieldPhone, Type: FieldString},
			{Name: FieldCountry, Type: FieldString},
			{Name: FieldCity, Type: FieldString},
			{Name: FieldAddress, Type: FieldString},
			{Name: FieldPostalCode, Type: FieldString},
			{Name: FieldDrivingLicense, Type: FieldString},
			{Name: FieldPlaceOfBirth, Type: FieldString},
			{Name: FieldDateOfBirth, Type: FieldString},
		},
	},
	{
		Type:          SectionProfessionalSummary,
		Title:         "Professional Summary",
		ContainerType: ContainerStatic,
		Fields: []FieldSpec{
			{Name: FieldSummary, Type: FieldRichText},
		},
	},
	{
		Type:          SectionEmploymentHistory,
		Title:         "Employment History",
		ContainerType: ContainerCollapsible,
		Fields: []FieldSpec{
			{Name: FieldJobTitle, Type: FieldString},
			{Name: FieldStartDate, Type: FieldDateMonth},
			{Name: FieldEndDate, Type: FieldDateMonth},
			{Name: FieldEmployer, Type: FieldString},
			{Name: FieldCity, Type: FieldString},
			{Name: FieldDescription, Type: FieldRichText},
		},
	},
	{
		Type:          SectionEducation,
		Title:         "Education",
		ContainerType: ContainerCollapsible,
		Fields: []FieldSpec{
			{Name: FieldSchool, Type: FieldString},
			{Name: FieldDegree, Type: FieldString},
			{Name: FieldStartDate, Type: FieldDateMonth},
			{Name: FieldEndDate, Type: FieldDateMonth},
			{Name: FieldCity, Type: FieldString},
			{Name: FieldDescription, Type: FieldRichText},
		},
	},
	{
		Type:          SectionWebsitesLinks,
		Title:         "Websites & Social Links",
		ContainerType: ContainerCollapsible,
		Fields: []FieldSpec{
			{Name: FieldLabel, Type: FieldString},
			{Name: FieldLink, Type: FieldString},
		},
	},
	{
		Type:          SectionSkills,
		Title:         "Skills",
		ContainerType: ContainerCollapsible,
		Fields: []FieldSpec{
			{Name: FieldSkill, Type: FieldString},
			{Name: FieldLevel, Type: FieldSelect, SelectType: "basic", Options: ExperienceLevels},
		},
		MetadataOptions: []MetadataOption{
			{Key: MetaShowExperienceLevel, Label: "Show experience level", Default: true},
		},
	},
}

// Boilerplate returns the sections seeded into every new document, in display order.
func Boilerplate() []SectionSpec {
	out := make([]SectionSpec, len(boilerplate))
	copy(out, boilerplate)
	return out
}

func SpecFor(t SectionType) (SectionSpec, bool) {
	for _, s := range boilerplate {
		if s.Type == t {
			return s, true
		}
	}
	return SectionSpec{}, false
}

func MetadataOptionsFor(t SectionType) []MetadataOption {
	spec, ok := SpecFor(t)
	if !ok {
		return nil
	}
	return spec.MetadataOptions
}
