// Package catalog holds the static lesson data for the drill course: the
// ordered set of units, the shared vocabulary pools referenced by the
// sentence templates, and the illustration table for the vocabulary panel.
//
// A Catalog is immutable after construction. The built-in course ships in
// data.go; an optional YAML file can replace it at startup (see Load).
package catalog

import (
	"fmt"
	"sort"

	"github.com/hqnguyen/speakdrill/internal/grammar"
)

// Unit is one lesson: a display name, its vocabulary sequence, topic chips,
// example questions, the sentence-builder variant, and a two-color theme.
type Unit struct {
	ID         int             `yaml:"id"`
	Name       string          `yaml:"name"`
	Vocab      []string        `yaml:"vocab"`
	TopicChips []string        `yaml:"topic_chips"`
	Questions  []string        `yaml:"questions"`
	Builder    grammar.Builder `yaml:"builder"`
	Theme      [2]string       `yaml:"theme"`
}

// Catalog is the full course: units keyed by id plus the shared vocabulary
// pools. Read-only after initialization; safe for concurrent use.
type Catalog struct {
	Units         map[int]Unit      `yaml:"units"`
	Days          []string          `yaml:"days"`
	Countries     []string          `yaml:"countries"`
	Routines      []string          `yaml:"routines"`
	PartyEat      []string          `yaml:"party_eat"`
	PartyDrink    []string          `yaml:"party_drink"`
	Abilities     []string          `yaml:"abilities"`
	Illustrations map[string]string `yaml:"illustrations"`
}

// Unit returns the unit with the given id.
func (c *Catalog) Unit(id int) (Unit, bool) {
	u, ok := c.Units[id]
	return u, ok
}

// UnitIDs returns all unit ids in ascending order.
func (c *Catalog) UnitIDs() []int {
	ids := make([]int, 0, len(c.Units))
	for id := range c.Units {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// Pools returns the shared vocabulary pools in the shape the sentence
// templates consume.
func (c *Catalog) Pools() grammar.Pools {
	return grammar.Pools{
		Countries:  c.Countries,
		Days:       c.Days,
		Routines:   c.Routines,
		PartyEat:   c.PartyEat,
		PartyDrink: c.PartyDrink,
		Abilities:  c.Abilities,
	}
}

// Illustration returns the emoji illustration for a vocabulary term, falling
// back to a generic letter tile.
func (c *Catalog) Illustration(term string) string {
	if ill, ok := c.Illustrations[term]; ok {
		return ill
	}
	return "🔤"
}

// Validate checks that the catalog is internally coherent: at least one unit,
// every unit named with a known builder and non-empty vocabulary, and every
// pool a template may draw a default from non-empty.
func (c *Catalog) Validate() error {
	if len(c.Units) == 0 {
		return fmt.Errorf("catalog: no units defined")
	}
	for id, u := range c.Units {
		if u.Name == "" {
			return fmt.Errorf("catalog: unit %d has no name", id)
		}
		if !u.Builder.IsValid() {
			return fmt.Errorf("catalog: unit %d (%s) has unknown builder %q", id, u.Name, u.Builder)
		}
		if len(u.Vocab) == 0 {
			return fmt.Errorf("catalog: unit %d (%s) has no vocabulary", id, u.Name)
		}
	}
	pools := map[string][]string{
		"days":        c.Days,
		"countries":   c.Countries,
		"routines":    c.Routines,
		"party_eat":   c.PartyEat,
		"party_drink": c.PartyDrink,
		"abilities":   c.Abilities,
	}
	for name, pool := range pools {
		if len(pool) == 0 {
			return fmt.Errorf("catalog: pool %q is empty", name)
		}
	}
	return nil
}
