// Package questions holds the canonical question table and the phrase
// scoring classifier that maps learner questions onto it.
package questions

import "slices"

// Tier ranks how much a question matters for a complete history.
type Tier string

const (
	TierEssential Tier = "essential"
	TierHelpful   Tier = "helpful"
)

// Definition is one canonical question a learner may ask.
type Definition struct {
	ID          string              `yaml:"id"`
	Category    string              `yaml:"category"`
	Subcategory string              `yaml:"subcategory"`
	Text        string              `yaml:"text"`      // Canonical display text
	Phrasings   []string            `yaml:"phrasings"` // Alternate phrasings, in authoring order
	Tier        Tier                `yaml:"tier"`
	Diagnoses   []string            `yaml:"diagnoses"`
	Responses   map[string][]string `yaml:"responses"` // Scenario tag -> response templates
}

// AllPhrasings returns the canonical text followed by the alternates.
func (d *Definition) AllPhrasings() []string {
	out := make([]string, 0, len(d.Phrasings)+1)
	out = append(out, d.Text)
	return append(out, d.Phrasings...)
}

// Essential reports whether the definition is tiered essential.
func (d *Definition) Essential() bool {
	return d.Tier == TierEssential
}

// Match is the outcome of classifying one question.
type Match struct {
	Definition *Definition // nil when Score is below the threshold
	Score      int

	// NearMiss names the closest definition when the best score was a
	// single word hit. Empty otherwise.
	NearMiss string
}

// Found reports whether a definition was matched.
func (m Match) Found() bool {
	return m.Definition != nil
}

// ScenarioTags returns d's declared scenario tags, sorted.
func ScenarioTags(d *Definition) []string {
	tags := make([]string, 0, len(d.Responses))
	for tag := range d.Responses {
		tags = append(tags, tag)
	}
	slices.Sort(tags)
	return tags
}
