package cases

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/abhisek/anamnesis/internal/pack"
)

//go:embed data/cases.yaml
var seedCases []byte

// Kind is the versioned document kind of a case pack.
var Kind = pack.Kind{
	Name:      "cases",
	Supported: "1.0.0",
	Schema: map[string]any{
		"type":     "object",
		"required": []string{"schema_version", "cases"},
		"properties": map[string]any{
			"schema_version": map[string]any{"type": "string"},
			"cases": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type":     "object",
					"required": []string{"id", "chief_complaint"},
					"properties": map[string]any{
						"id":              map[string]any{"type": "string", "pattern": "^[a-z0-9-]+$"},
						"title":           map[string]any{"type": "string"},
						"chief_complaint": map[string]any{"type": "string", "minLength": 1},
						"age":             map[string]any{"type": "integer", "minimum": 0},
						"persona":         map[string]any{"type": "string"},
						"scenario_tags": map[string]any{
							"type":  "array",
							"items": map[string]any{"type": "string"},
						},
						"doorknob": map[string]any{
							"type":     "object",
							"required": []string{"symptom"},
							"properties": map[string]any{
								"symptom":       map[string]any{"type": "string", "minLength": 1},
								"red_flag":      map[string]any{"type": "boolean"},
								"teaching_note": map[string]any{"type": "string"},
							},
						},
						"bindings": map[string]any{
							"type":                 "object",
							"additionalProperties": map[string]any{"type": "string"},
						},
						"fallbacks": map[string]any{
							"type":  "array",
							"items": map[string]any{"type": "string"},
						},
					},
				},
			},
		},
	},
}

type packDoc struct {
	Version string `yaml:"schema_version"`
	Cases   []Case `yaml:"cases"`
}

// Library is an immutable set of cases keyed by id.
type Library struct {
	byID map[string]*Case
	ids  []string // sorted
}

// Parse decodes one case pack document.
func Parse(source string, data []byte) ([]Case, error) {
	var doc packDoc
	if err := pack.Decode(Kind, source, data, &doc); err != nil {
		return nil, err
	}
	return doc.Cases, nil
}

// NewLibrary indexes cases. A later case replaces an earlier one with the
// same id.
func NewLibrary(cs ...Case) *Library {
	l := &Library{byID: make(map[string]*Case, len(cs))}
	for i := range cs {
		c := cs[i]
		l.byID[c.ID] = &c
	}
	for id := range l.byID {
		l.ids = append(l.ids, id)
	}
	sort.Strings(l.ids)
	return l
}

var (
	defaultOnce sync.Once
	defaultCs   []Case
)

func builtin() []Case {
	defaultOnce.Do(func() {
		cs, err := Parse("embedded cases.yaml", seedCases)
		if err != nil {
			panic(err)
		}
		defaultCs = cs
	})
	return defaultCs
}

// Default returns the built-in case library.
func Default() *Library {
	return NewLibrary(builtin()...)
}

// Load returns the built-in cases plus every *.yaml / *.yml pack in dir.
// Pack cases override built-ins with the same id. An empty dir loads the
// built-ins only.
func Load(dir string) (*Library, error) {
	all := append([]Case(nil), builtin()...)
	if dir == "" {
		return NewLibrary(all...), nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read case dir: %w", err)
	}
	for _, e := range entries {
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if e.IsDir() || (ext != ".yaml" && ext != ".yml") {
			continue
		}
		path := filepath.Join(dir, e.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read case pack: %w", err)
		}
		cs, err := Parse(path, data)
		if err != nil {
			return nil, err
		}
		all = append(all, cs...)
	}
	return NewLibrary(all...), nil
}

// Get returns a case by id, or nil if not found.
func (l *Library) Get(id string) *Case {
	return l.byID[id]
}

// All returns every case sorted by id.
func (l *Library) All() []*Case {
	out := make([]*Case, 0, len(l.ids))
	for _, id := range l.ids {
		out = append(out, l.byID[id])
	}
	return out
}

// IDs returns the sorted case ids.
func (l *Library) IDs() []string {
	return l.ids
}
