package catalog

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// courseFile is the top-level structure of a course YAML file. The file
// replaces the built-in catalog wholesale; pools left empty fall back to the
// built-in lists so a file can override units only.
//
// Example:
//
//	units:
//	  1:
//	    id: 1
//	    name: "UNIT 1 • MY FRIENDS"
//	    vocab: ["America", "Japan"]
//	    builder: country
//	    theme: ["#3a86ff", "#8b5cf6"]
//	countries: ["America", "Japan"]
type courseFile struct {
	Units         map[int]Unit      `yaml:"units"`
	Days          []string          `yaml:"days"`
	Countries     []string          `yaml:"countries"`
	Routines      []string          `yaml:"routines"`
	PartyEat      []string          `yaml:"party_eat"`
	PartyDrink    []string          `yaml:"party_drink"`
	Abilities     []string          `yaml:"abilities"`
	Illustrations map[string]string `yaml:"illustrations"`
}

// Load reads and parses a course YAML file from disk and validates the
// resulting catalog. Returns a descriptive error if the file cannot be
// opened, parsed, or fails validation.
func Load(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: open course file %q: %w", path, err)
	}
	defer f.Close()

	c, err := LoadFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("catalog: parse course file %q: %w", path, err)
	}
	return c, nil
}

// LoadFromReader parses course YAML from an [io.Reader]. The reader is
// consumed entirely; the caller is responsible for closing it. Omitted pools
// and illustrations inherit the built-in values.
func LoadFromReader(r io.Reader) (*Catalog, error) {
	var cf courseFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true) // reject unknown top-level keys to catch typos
	if err := dec.Decode(&cf); err != nil {
		return nil, fmt.Errorf("catalog: decode course yaml: %w", err)
	}

	base := BuiltIn()
	c := &Catalog{
		Units:         cf.Units,
		Days:          orDefault(cf.Days, base.Days),
		Countries:     orDefault(cf.Countries, base.Countries),
		Routines:      orDefault(cf.Routines, base.Routines),
		PartyEat:      orDefault(cf.PartyEat, base.PartyEat),
		PartyDrink:    orDefault(cf.PartyDrink, base.PartyDrink),
		Abilities:     orDefault(cf.Abilities, base.Abilities),
		Illustrations: cf.Illustrations,
	}
	if c.Illustrations == nil {
		c.Illustrations = base.Illustrations
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func orDefault(v, fallback []string) []string {
	if len(v) == 0 {
		return fallback
	}
	return v
}
