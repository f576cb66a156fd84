package catalog_test

import (
	"strings"
	"testing"

	"github.com/hqnguyen/speakdrill/internal/catalog"
	"github.com/hqnguyen/speakdrill/internal/grammar"
)

func TestBuiltIn(t *testing.T) {
	t.Parallel()

	c := catalog.BuiltIn()
	if err := c.Validate(); err != nil {
		t.Fatalf("Validate: built-in catalog should be valid: %v", err)
	}

	ids := c.UnitIDs()
	if len(ids) != 5 {
		t.Fatalf("UnitIDs: expected 5 units, got %d", len(ids))
	}
	for i, id := range ids {
		if id != i+1 {
			t.Errorf("UnitIDs[%d] = %d, expected %d", i, id, i+1)
		}
	}

	wantBuilders := map[int]grammar.Builder{
		1: grammar.BuilderCountry,
		2: grammar.BuilderRoutine,
		3: grammar.BuilderWeek,
		4: grammar.BuilderParty,
		5: grammar.BuilderAbility,
	}
	for id, want := range wantBuilders {
		u, ok := c.Unit(id)
		if !ok {
			t.Fatalf("Unit(%d): not found", id)
		}
		if u.Builder != want {
			t.Errorf("Unit(%d).Builder = %q, expected %q", id, u.Builder, want)
		}
		if u.Name == "" || len(u.Vocab) == 0 {
			t.Errorf("Unit(%d) is incomplete: %+v", id, u)
		}
	}

	if _, ok := c.Unit(99); ok {
		t.Error("Unit(99): expected not found")
	}
}

func TestBuiltIn_PoolsMatchTemplateDefaults(t *testing.T) {
	t.Parallel()

	c := catalog.BuiltIn()
	pools := c.Pools()

	// Templates draw first-option defaults from the pools; a complete set of
	// defaults must produce a non-empty sentence for every unit.
	for _, id := range c.UnitIDs() {
		u, _ := c.Unit(id)
		s := grammar.Build(u.Builder, nil, pools)
		if s.Question == "" || s.Answer == "" {
			t.Errorf("unit %d (%s): defaults produced empty sentence", id, u.Name)
		}
	}

	if pools.Countries[0] != "America" {
		t.Errorf("default country = %q, expected America", pools.Countries[0])
	}
	if pools.Routines[0] != "get up" {
		t.Errorf("default routine = %q, expected get up", pools.Routines[0])
	}
}

func TestIllustration(t *testing.T) {
	t.Parallel()

	c := catalog.BuiltIn()
	tests := []struct {
		term, want string
	}{
		{"Viet Nam", "🇻🇳"},
		{"o’clock", "⏰"},
		{"ride a bike", "🚴"},
		{"unknown term", "🔤"},
	}
	for _, tt := range tests {
		if got := c.Illustration(tt.term); got != tt.want {
			t.Errorf("Illustration(%q) = %q, expected %q", tt.term, got, tt.want)
		}
	}
}

const validCourseYAML = `
units:
  1:
    id: 1
    name: "UNIT 1 • GREETINGS"
    vocab: ["hello", "goodbye"]
    topic_chips: ["greetings"]
    questions: ["Where are you from?"]
    builder: country
    theme: ["#000000", "#ffffff"]
countries: ["France", "Spain"]
`

func TestLoadFromReader(t *testing.T) {
	t.Parallel()

	c, err := catalog.LoadFromReader(strings.NewReader(validCourseYAML))
	if err != nil {
		t.Fatalf("LoadFromReader: unexpected error: %v", err)
	}

	u, ok := c.Unit(1)
	if !ok {
		t.Fatal("Unit(1): not found")
	}
	if u.Name != "UNIT 1 • GREETINGS" {
		t.Errorf("unit name = %q", u.Name)
	}
	if u.Builder != grammar.BuilderCountry {
		t.Errorf("unit builder = %q, expected country", u.Builder)
	}

	// Overridden pool replaces the built-in list.
	if got := c.Pools().Countries[0]; got != "France" {
		t.Errorf("countries[0] = %q, expected France", got)
	}
	// Omitted pools inherit the built-in values.
	if got := c.Pools().Days[0]; got != "Monday" {
		t.Errorf("days[0] = %q, expected Monday", got)
	}
	if got := c.Illustration("chips"); got != "🍟" {
		t.Errorf("Illustration(chips) = %q, expected inherited 🍟", got)
	}
}

func TestLoadFromReader_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
	}{
		{
			name:  "completely invalid YAML",
			input: ":::not valid yaml:::",
		},
		{
			name:  "unknown top-level key",
			input: "units: {}\nunknown_key: true\n",
		},
		{
			name:  "no units",
			input: "countries: [\"France\"]\n",
		},
		{
			name: "unknown builder",
			input: `
units:
  1:
    id: 1
    name: "UNIT 1"
    vocab: ["hello"]
    builder: colour
`,
		},
		{
			name: "unit without vocab",
			input: `
units:
  1:
    id: 1
    name: "UNIT 1"
    builder: country
`,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := catalog.LoadFromReader(strings.NewReader(tc.input))
			if err == nil {
				t.Fatal("LoadFromReader: expected error for invalid input, got nil")
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	t.Parallel()

	_, err := catalog.Load("/nonexistent/course.yaml")
	if err == nil {
		t.Fatal("Load: expected error for missing file, got nil")
	}
}
