// Package doorknob decides when a simulated patient volunteers an
// unsolicited, late disclosure.
package doorknob

import (
	"fmt"
	"strings"

	"github.com/abhisek/anamnesis/internal/cases"
	"github.com/abhisek/anamnesis/internal/rng"
)

// Default draw probabilities.
const (
	DefaultTriggerProbability = 0.30
	DefaultRedFlagProbability = 0.20
)

// State is the per-session doorknob state.
type State int

const (
	Armed State = iota
	Fired
)

func (s State) String() string {
	if s == Fired {
		return "fired"
	}
	return "armed"
}

// Disclosure is the payload attached to a reply when the doorknob fires.
type Disclosure struct {
	Symptom      string `json:"symptom"`
	Text         string `json:"text"`
	RedFlag      bool   `json:"red_flag"`
	TeachingNote string `json:"teaching_note,omitempty"`
	Source       string `json:"source"` // "case", "red_flag_pool", or the routine pool category
}

// Config holds the draw probabilities.
type Config struct {
	TriggerProbability float64 `mapstructure:"trigger_probability"`
	RedFlagProbability float64 `mapstructure:"red_flag_probability"`
}

// DefaultConfig returns the default probabilities.
func DefaultConfig() Config {
	return Config{
		TriggerProbability: DefaultTriggerProbability,
		RedFlagProbability: DefaultRedFlagProbability,
	}
}

// Validate checks that both probabilities are within [0, 1].
func (c Config) Validate() error {
	if c.TriggerProbability < 0 || c.TriggerProbability > 1 {
		return fmt.Errorf("doorknob trigger probability %v out of range [0, 1]", c.TriggerProbability)
	}
	if c.RedFlagProbability < 0 || c.RedFlagProbability > 1 {
		return fmt.Errorf("doorknob red-flag probability %v out of range [0, 1]", c.RedFlagProbability)
	}
	return nil
}

// openEndedKeywords mark "anything else?"-style questions.
var openEndedKeywords = []string{
	"anything else",
	"something else",
	"what else",
	"anything more",
	"any other concerns",
	"other concerns",
	"else bothering",
	"else going on",
	"else i should know",
	"else you want",
	"else you would like",
}

// IsOpenEnded reports whether text is an "anything else?"-style question.
func IsOpenEnded(text string) bool {
	lower := strings.ToLower(text)
	for _, k := range openEndedKeywords {
		if strings.Contains(lower, k) {
			return true
		}
	}
	return false
}

// Generator evaluates doorknob draws. It holds no per-session state.
type Generator struct {
	cfg Config
}

// NewGenerator returns a Generator with cfg.
func NewGenerator(cfg Config) *Generator {
	return &Generator{cfg: cfg}
}

// Evaluate runs the doorknob state machine for one question. It returns a
// disclosure and moves *state to Fired when the doorknob fires. Nothing is
// drawn unless the state is Armed and text is open-ended.
func (g *Generator) Evaluate(state *State, c *cases.Case, text string, src rng.Source) *Disclosure {
	if *state != Armed || !IsOpenEnded(text) {
		return nil
	}
	if !rng.Chance(src, g.cfg.TriggerProbability) {
		return nil
	}
	redFlag := rng.Chance(src, g.cfg.RedFlagProbability)

	var d *Disclosure
	if c != nil && c.Doorknob != nil && c.Doorknob.Symptom != "" {
		d = fromOverride(c.Doorknob)
	} else {
		d = fromPool(c, redFlag, src)
	}
	*state = Fired
	return d
}

func fromOverride(o *cases.DoorknobOverride) *Disclosure {
	d := &Disclosure{
		Symptom: o.Symptom,
		RedFlag: o.RedFlag,
		Source:  "case",
		Text:    phrase(o.Symptom),
	}
	if o.RedFlag {
		d.TeachingNote = o.TeachingNote
		if d.TeachingNote == "" {
			d.TeachingNote = fmt.Sprintf("Late disclosure of %s is a red flag; revisit the history before closing.", o.Symptom)
		}
	}
	return d
}

func fromPool(c *cases.Case, redFlag bool, src rng.Source) *Disclosure {
	if redFlag {
		e, _ := rng.Pick(src, redFlagPool)
		return &Disclosure{
			Symptom:      e.Symptom,
			Text:         phrase(e.Symptom),
			RedFlag:      true,
			TeachingNote: e.TeachingNote,
			Source:       "red_flag_pool",
		}
	}

	cat := CategoryGeneral
	if c != nil {
		cat = Categorize(c.ChiefComplaint)
	}
	symptom, _ := rng.Pick(src, routinePools[cat])
	return &Disclosure{
		Symptom: symptom,
		Text:    phrase(symptom),
		Source:  string(cat),
	}
}

func phrase(symptom string) string {
	return fmt.Sprintf("Oh, and doctor, one more thing. I've also been having %s.", symptom)
}
