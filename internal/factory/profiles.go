package factory

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"tabstream/internal/models"
)

// Profile describes one DSV dialect: its tag, the extensions it claims,
// and the default options applied when no caller options override them.
type Profile struct {
	Name       string   `yaml:"name"`
	Extensions []string `yaml:"extensions"`
	Delimiter  string   `yaml:"delimiter"`
	Quote      string   `yaml:"quote,omitempty"`
	// HasHeader defaults to true when omitted.
	HasHeader *bool  `yaml:"hasHeader,omitempty"`
	Encoding   string `yaml:"encoding,omitempty"`
}

func (p Profile) validate() error {
	if p.Name == "" {
		return fmt.Errorf("profile is missing a name")
	}
	if len([]rune(p.Delimiter)) != 1 {
		return fmt.Errorf("profile %q: delimiter must be a single character, got %q", p.Name, p.Delimiter)
	}
	if p.Quote != "" && len([]rune(p.Quote)) != 1 {
		return fmt.Errorf("profile %q: quote must be a single character, got %q", p.Name, p.Quote)
	}
	return nil
}

// options translates the profile into constructor defaults.
func (p Profile) options() models.ParseOptions {
	opts := models.NewParseOptions()
	opts.Delimiter = []rune(p.Delimiter)[0]
	if p.Quote != "" {
		opts.Quote = []rune(p.Quote)[0]
	}
	if p.HasHeader != nil {
		opts.HasHeader = *p.HasHeader
	}
	if p.Encoding != "" {
		opts.Encoding = p.Encoding
	}
	return opts
}

func builtinProfiles() []Profile {
	return []Profile{
		{Name: "csv", Extensions: []string{"csv"}, Delimiter: ","},
		{Name: "tsv", Extensions: []string{"tsv", "tab"}, Delimiter: "\t"},
		{Name: "psv", Extensions: []string{"psv"}, Delimiter: "|"},
		{Name: "ssv", Extensions: []string{"ssv"}, Delimiter: ";"},
	}
}

// profileFile is the top-level shape of a dialect profile file.
type profileFile struct {
	Profiles []Profile `yaml:"profiles"`
}

// LoadProfiles reads additional dialect profiles from a YAML file and
// registers them, replacing built-ins with the same name.
func (f *Factory) LoadProfiles(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("error reading profile file: %w", err)
	}

	var pf profileFile
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return fmt.Errorf("error parsing profile file %s: %w", path, err)
	}

	for _, p := range pf.Profiles {
		if err := f.Register(p); err != nil {
			return err
		}
	}
	return nil
}
