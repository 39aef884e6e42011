package persona

import (
	_ "embed"
	"fmt"
	"regexp"
	"sync"

	"github.com/abhisek/anamnesis/internal/pack"
	"github.com/abhisek/anamnesis/internal/rng"
)

//go:embed data/personas.yaml
var seedPersonas []byte

// Kind is the versioned document kind of a persona set.
var Kind = pack.Kind{
	Name:      "personas",
	Supported: "1.0.0",
	Schema: map[string]any{
		"type":     "object",
		"required": []string{"schema_version", "personas"},
		"properties": map[string]any{
			"schema_version": map[string]any{"type": "string"},
			"personas": map[string]any{
				"type":     "array",
				"minItems": 1,
				"items": map[string]any{
					"type":     "object",
					"required": []string{"id", "weight"},
					"properties": map[string]any{
						"id":     map[string]any{"type": "string", "minLength": 1},
						"label":  map[string]any{"type": "string"},
						"weight": map[string]any{"type": "number", "minimum": 0},
						"rules": map[string]any{
							"type": "array",
							"items": map[string]any{
								"oneOf": []any{
									map[string]any{
										"type":     "object",
										"required": []string{"pattern", "replace"},
									},
									map[string]any{
										"type":     "object",
										"required": []string{"probability", "clauses"},
										"properties": map[string]any{
											"probability": map[string]any{"type": "number", "minimum": 0, "maximum": 1},
											"position":    map[string]any{"enum": []string{"append", "prepend"}},
											"clauses": map[string]any{
												"type":     "array",
												"minItems": 1,
												"items":    map[string]any{"type": "string"},
											},
										},
									},
								},
							},
						},
					},
				},
			},
		},
	},
}

type ruleSpec struct {
	Pattern     string   `yaml:"pattern"`
	Replace     string   `yaml:"replace"`
	Probability float64  `yaml:"probability"`
	Position    string   `yaml:"position"`
	Clauses     []string `yaml:"clauses"`
}

type profileSpec struct {
	ID     string     `yaml:"id"`
	Label  string     `yaml:"label"`
	Weight float64    `yaml:"weight"`
	Rules  []ruleSpec `yaml:"rules"`
}

type setDoc struct {
	Version  string        `yaml:"schema_version"`
	Personas []profileSpec `yaml:"personas"`
}

// Set is an immutable, ordered collection of profiles. It always contains
// a neutral profile.
type Set struct {
	profiles []*Profile
	byID     map[string]*Profile
}

// NewSet indexes profiles in order, adding a neutral profile if none is
// present.
func NewSet(profiles ...*Profile) (*Set, error) {
	s := &Set{byID: make(map[string]*Profile, len(profiles)+1)}
	for _, p := range profiles {
		if _, dup := s.byID[p.ID]; dup {
			return nil, fmt.Errorf("duplicate persona id %q", p.ID)
		}
		s.byID[p.ID] = p
		s.profiles = append(s.profiles, p)
	}
	if _, ok := s.byID[NeutralID]; !ok {
		n := Neutral()
		s.byID[n.ID] = n
		s.profiles = append(s.profiles, n)
	}
	return s, nil
}

// Parse decodes a persona document.
func Parse(source string, data []byte) (*Set, error) {
	var doc setDoc
	if err := pack.Decode(Kind, source, data, &doc); err != nil {
		return nil, err
	}

	profiles := make([]*Profile, 0, len(doc.Personas))
	for _, ps := range doc.Personas {
		p := &Profile{ID: ps.ID, Label: ps.Label, Weight: ps.Weight}
		for i, rs := range ps.Rules {
			r, err := compileRule(rs)
			if err != nil {
				return nil, fmt.Errorf("persona %s rule %d: %w", ps.ID, i, err)
			}
			p.Rules = append(p.Rules, r)
		}
		profiles = append(profiles, p)
	}
	return NewSet(profiles...)
}

func compileRule(rs ruleSpec) (Rule, error) {
	if rs.Pattern != "" {
		re, err := regexp.Compile(rs.Pattern)
		if err != nil {
			return nil, fmt.Errorf("compile pattern: %w", err)
		}
		return Substitution{Pattern: re, Replacement: rs.Replace}, nil
	}
	return Clause{
		Probability: rs.Probability,
		Clauses:     rs.Clauses,
		Prepend:     rs.Position == "prepend",
	}, nil
}

var (
	defaultOnce sync.Once
	defaultSet  *Set
)

// Default returns the built-in persona set.
func Default() *Set {
	defaultOnce.Do(func() {
		s, err := Parse("embedded personas.yaml", seedPersonas)
		if err != nil {
			panic(err)
		}
		defaultSet = s
	})
	return defaultSet
}

// Lookup returns the profile for id. Unknown ids yield the neutral profile
// and false.
func (s *Set) Lookup(id string) (*Profile, bool) {
	if p, ok := s.byID[id]; ok {
		return p, true
	}
	return s.byID[NeutralID], false
}

// All returns the profiles in declaration order.
func (s *Set) All() []*Profile {
	return s.profiles
}

// Assign draws a profile weighted by Weight. It consumes exactly one draw.
func (s *Set) Assign(src rng.Source) *Profile {
	total := 0.0
	for _, p := range s.profiles {
		if p.Weight > 0 {
			total += p.Weight
		}
	}
	x := src.Float64()
	if total <= 0 {
		return s.byID[NeutralID]
	}
	x *= total
	for _, p := range s.profiles {
		if p.Weight <= 0 {
			continue
		}
		if x < p.Weight {
			return p
		}
		x -= p.Weight
	}
	// Float rounding can leave x just past the last bucket.
	for i := len(s.profiles) - 1; i >= 0; i-- {
		if s.profiles[i].Weight > 0 {
			return s.profiles[i]
		}
	}
	return s.byID[NeutralID]
}
