// Package persona rewrites patient responses according to a simulated
// communication style.
package persona

import (
	"regexp"
	"strings"

	"github.com/abhisek/anamnesis/internal/rng"
)

// NeutralID is the identity persona and the fallback for unknown ids.
const NeutralID = "neutral"

// Rule rewrites response text.
type Rule interface {
	Apply(text string, src rng.Source) string
}

// Substitution replaces every regexp match. It never draws from src.
type Substitution struct {
	Pattern     *regexp.Regexp
	Replacement string
}

func (s Substitution) Apply(text string, _ rng.Source) string {
	return s.Pattern.ReplaceAllString(text, s.Replacement)
}

// Clause adds one clause from a fixed set with the given probability.
// Each application draws once for the chance and, when it fires, once
// more for the clause.
type Clause struct {
	Probability float64
	Clauses     []string
	Prepend     bool
}

func (c Clause) Apply(text string, src rng.Source) string {
	if len(c.Clauses) == 0 || !rng.Chance(src, c.Probability) {
		return text
	}
	clause, _ := rng.Pick(src, c.Clauses)
	text = strings.TrimSpace(text)
	if text == "" {
		return clause
	}
	if c.Prepend {
		return clause + " " + text
	}
	return text + " " + clause
}

// Profile is an immutable communication style.
type Profile struct {
	ID     string
	Label  string
	Weight float64
	Rules  []Rule
}

// Transform applies the profile's rules in order.
func (p *Profile) Transform(text string, src rng.Source) string {
	for _, r := range p.Rules {
		text = r.Apply(text, src)
	}
	return text
}

// Neutral returns the identity profile.
func Neutral() *Profile {
	return &Profile{ID: NeutralID, Label: "Neutral", Weight: 1}
}
