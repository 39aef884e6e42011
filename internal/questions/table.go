package questions

import (
	_ "embed"
	"fmt"
	"regexp"
	"sync"

	"github.com/abhisek/anamnesis/internal/pack"
)

//go:embed data/questions.yaml
var seedTable []byte

// Kind is the versioned document kind of a question table.
var Kind = pack.Kind{
	Name:      "questions",
	Supported: "1.2.0",
	Schema: map[string]any{
		"type":     "object",
		"required": []string{"schema_version", "questions"},
		"properties": map[string]any{
			"schema_version": map[string]any{"type": "string"},
			"questions": map[string]any{
				"type":     "array",
				"minItems": 1,
				"items": map[string]any{
					"type":     "object",
					"required": []string{"id", "category", "text", "tier", "responses"},
					"properties": map[string]any{
						"id":          map[string]any{"type": "string", "pattern": "^[a-z0-9-]+$"},
						"category":    map[string]any{"type": "string", "minLength": 1},
						"subcategory": map[string]any{"type": "string"},
						"text":        map[string]any{"type": "string", "minLength": 1},
						"phrasings": map[string]any{
							"type":  "array",
							"items": map[string]any{"type": "string", "minLength": 1},
						},
						"tier": map[string]any{"enum": []string{"essential", "helpful"}},
						"diagnoses": map[string]any{
							"type":  "array",
							"items": map[string]any{"type": "string"},
						},
						"responses": map[string]any{
							"type":          "object",
							"minProperties": 1,
							"additionalProperties": map[string]any{
								"type":     "array",
								"minItems": 1,
								"items":    map[string]any{"type": "string", "minLength": 1},
							},
						},
					},
				},
			},
		},
	},
}

// PlaceholderPattern matches {name} tokens in response templates.
var PlaceholderPattern = regexp.MustCompile(`\{([a-z_]+)\}`)

// Table is an immutable, ordered set of definitions. Safe for concurrent
// reads.
type Table struct {
	defs []*Definition
	byID map[string]*Definition
}

type tableDoc struct {
	Version   string       `yaml:"schema_version"`
	Questions []Definition `yaml:"questions"`
}

// Parse decodes and validates a question table document.
func Parse(source string, data []byte) (*Table, error) {
	var doc tableDoc
	if err := pack.Decode(Kind, source, data, &doc); err != nil {
		return nil, err
	}
	return NewTable(doc.Questions)
}

// NewTable builds a table from definitions in declaration order.
// Definition ids must be unique.
func NewTable(defs []Definition) (*Table, error) {
	t := &Table{
		defs: make([]*Definition, 0, len(defs)),
		byID: make(map[string]*Definition, len(defs)),
	}
	for i := range defs {
		d := &defs[i]
		if _, dup := t.byID[d.ID]; dup {
			return nil, fmt.Errorf("duplicate question id %q", d.ID)
		}
		t.byID[d.ID] = d
		t.defs = append(t.defs, d)
	}
	return t, nil
}

var (
	defaultOnce  sync.Once
	defaultTable *Table
)

// Default returns the built-in question table. It panics if the embedded
// table is invalid, which the package tests guard against.
func Default() *Table {
	defaultOnce.Do(func() {
		t, err := Parse("embedded questions.yaml", seedTable)
		if err != nil {
			panic(err)
		}
		defaultTable = t
	})
	return defaultTable
}

// Get returns a definition by id, or nil if not found.
func (t *Table) Get(id string) *Definition {
	return t.byID[id]
}

// All returns every definition in declaration order.
func (t *Table) All() []*Definition {
	return t.defs
}

// Essential returns the essential-tier definitions in declaration order.
func (t *Table) Essential() []*Definition {
	var out []*Definition
	for _, d := range t.defs {
		if d.Essential() {
			out = append(out, d)
		}
	}
	return out
}

// Len returns the number of definitions.
func (t *Table) Len() int {
	return len(t.defs)
}

// Placeholders returns the distinct placeholder names used by d's
// templates, in first-seen order over sorted scenario tags.
func Placeholders(d *Definition) []string {
	seen := make(map[string]bool)
	var out []string
	for _, tag := range ScenarioTags(d) {
		for _, tmpl := range d.Responses[tag] {
			for _, m := range PlaceholderPattern.FindAllStringSubmatch(tmpl, -1) {
				if !seen[m[1]] {
					seen[m[1]] = true
					out = append(out, m[1])
				}
			}
		}
	}
	return out
}
