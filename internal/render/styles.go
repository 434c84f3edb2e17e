package render

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"strconv"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed styles/*.yaml
var embeddedStyles embed.FS

// Style is a template's sheet of fonts, colours and measurements (mm, points for font sizes).
type Style struct {
	Name        string          `yaml:"name"`
	Description string          `yaml:"description"`
	Family      string          `yaml:"family"`
	LineHeight  float64         `yaml:"lineHeight"`
	SectionGap  float64         `yaml:"sectionGap"`
	Margins     Margins         `yaml:"margins"`
	Columns     Columns         `yaml:"columns"`
	Fonts       map[string]Font `yaml:"fonts"`
	Colors      map[string]RGB  `yaml:"colors"`
	Separator   string          `yaml:"separator"`
}

type Margins struct {
	Left   float64 `yaml:"left"`
	Top    float64 `yaml:"top"`
	Right  float64 `yaml:"right"`
	Bottom float64 `yaml:"bottom"`
}

// Columns are the fixed side column widths of row-based layouts.
type Columns struct {
	Left   float64 `yaml:"left"`
	Right  float64 `yaml:"right"`
	Gutter float64 `yaml:"gutter"`
}

type Font struct {
	Style string  `yaml:"style"`
	Size  float64 `yaml:"size"`
}

type RGB struct {
	R, G, B int
}

// UnmarshalYAML accepts "#rrggbb" strings.
func (c *RGB) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 {
		return fmt.Errorf("line %d: colour %q: want #rrggbb", value.Line, value.Value)
	}
	n, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return fmt.Errorf("line %d: colour %q: %w", value.Line, value.Value, err)
	}
	c.R, c.G, c.B = int(n>>16&0xff), int(n>>8&0xff), int(n&0xff)
	return nil
}

func (s Style) font(role string) Font {
	f, ok := s.Fonts[role]
	if !ok || f.Size <= 0 {
		f = s.Fonts["body"]
	}
	if f.Size <= 0 {
		f.Size = 10
	}
	return f
}

func (s Style) color(role string) RGB {
	if c, ok := s.Colors[role]; ok {
		return c
	}
	return s.Colors["text"]
}

var (
	stylesOnce sync.Once
	styles     map[string]Style
	stylesErr  error
)

func loadStyles() (map[string]Style, error) {
	stylesOnce.Do(func() {
		styles, stylesErr = parseStyles(embeddedStyles, "styles")
	})
	return styles, stylesErr
}

func parseStyles(fsys fs.FS, dir string) (map[string]Style, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("render: read styles: %w", err)
	}
	out := map[string]Style{}
	for _, e := range entries {
		if e.IsDir() || path.Ext(e.Name()) != ".yaml" {
			continue
		}
		p := path.Join(dir, e.Name())
		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return nil, fmt.Errorf("render: read %s: %w", p, err)
		}
		var st Style
		if err := yaml.Unmarshal(data, &st); err != nil {
			return nil, fmt.Errorf("render: parse %s: %w", p, err)
		}
		st.Name = strings.TrimSpace(st.Name)
		if st.Name == "" {
			st.Name = strings.TrimSuffix(e.Name(), ".yaml")
		}
		if _, dup := out[st.Name]; dup {
			return nil, fmt.Errorf("render: duplicate style %q (file %s)", st.Name, p)
		}
		if st.Family == "" {
			st.Family = "Helvetica"
		}
		if st.LineHeight <= 0 {
			st.LineHeight = 5
		}
		out[st.Name] = st
	}
	return out, nil
}

// StyleFor returns the embedded style sheet for a template.
func StyleFor(name string) (Style, error) {
	all, err := loadStyles()
	if err != nil {
		return Style{}, err
	}
	st, ok := all[name]
	if !ok {
		return Style{}, UnknownTemplateError{Name: name, Available: Names()}
	}
	return st, nil
}
