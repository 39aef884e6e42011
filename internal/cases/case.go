// Package cases holds the read-only case library the interview engine
// draws patient facts from.
package cases

import "strings"

// DoorknobOverride pins a case's unsolicited disclosure.
type DoorknobOverride struct {
	Symptom      string `yaml:"symptom" json:"symptom"`
	RedFlag      bool   `yaml:"red_flag" json:"red_flag"`
	TeachingNote string `yaml:"teaching_note,omitempty" json:"teaching_note,omitempty"`
}

// Case is an immutable patient scenario.
type Case struct {
	ID             string            `yaml:"id" json:"id"`
	Title          string            `yaml:"title" json:"title"`
	ChiefComplaint string            `yaml:"chief_complaint" json:"chief_complaint"`
	Age            int               `yaml:"age,omitempty" json:"age,omitempty"`
	Sex            string            `yaml:"sex,omitempty" json:"sex,omitempty"`
	PersonaID      string            `yaml:"persona,omitempty" json:"persona,omitempty"` // Empty means assign by weighted draw
	ScenarioTags   []string          `yaml:"scenario_tags,omitempty" json:"scenario_tags,omitempty"`
	Doorknob       *DoorknobOverride `yaml:"doorknob,omitempty" json:"doorknob,omitempty"`
	Bindings       map[string]string `yaml:"bindings,omitempty" json:"bindings,omitempty"`
	Fallbacks      []string          `yaml:"fallbacks,omitempty" json:"fallbacks,omitempty"` // Lines used when no question matches
}

// DefaultBindings are substituted when a case leaves a placeholder
// unbound.
var DefaultBindings = map[string]string{
	"chief_complaint":    "not feeling well",
	"duration":           "a while",
	"episode_length":     "a few minutes",
	"location":           "middle",
	"character":          "hard to describe",
	"radiation":          "No, it stays in one place",
	"severity":           "5",
	"timing":             "It comes and goes",
	"aggravating":        "moving around",
	"alleviating":        "resting",
	"associated":         "I haven't noticed anything else",
	"prior_episodes":     "No, this is the first time",
	"conditions":         "nothing major",
	"surgeries":          "No, never had an operation",
	"hospitalizations":   "No, never",
	"medication":         "nothing regularly",
	"supplements":        "No, nothing like that",
	"allergy":            "No allergies that I know of",
	"family_cardiac":     "Not that I know of",
	"family_history":     "Nothing I know of",
	"smoking":            "No, I don't smoke",
	"alcohol":            "Just socially",
	"recreational_drugs": "No, never",
	"occupation":         "an office worker",
	"living_situation":   "I live with my family",
	"fever":              "No, no fever",
	"weight_change":      "No, my weight's been steady",
	"breathing":          "No, my breathing is fine",
	"nausea":             "No, not really",
	"bowel":              "No changes",
	"urinary":            "No problems there",
	"headache":           "No, not really",
	"concerns":           "I just want to know what's going on",
}

// GenericBinding fills placeholders that have no default either.
const GenericBinding = "that"

// Binding resolves a placeholder. The bool is false when the value came
// from DefaultBindings or GenericBinding.
func (c *Case) Binding(key string) (string, bool) {
	if v, ok := c.Bindings[key]; ok && v != "" {
		return v, true
	}
	if key == "chief_complaint" && c.ChiefComplaint != "" {
		return c.ChiefComplaint, true
	}
	if v, ok := DefaultBindings[key]; ok {
		return v, false
	}
	return GenericBinding, false
}

// HasScenarioTag reports whether tag is one of the case's scenario tags.
func (c *Case) HasScenarioTag(tag string) bool {
	for _, t := range c.ScenarioTags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}
