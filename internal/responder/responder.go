// Package responder turns a classified question into an instantiated
// patient answer for a case.
package responder

import (
	"slices"

	"go.uber.org/zap"

	"github.com/abhisek/anamnesis/internal/cases"
	"github.com/abhisek/anamnesis/internal/questions"
	"github.com/abhisek/anamnesis/internal/rng"
)

// Response is an instantiated answer.
type Response struct {
	Text        string
	QuestionID  string
	Category    string
	Subcategory string
	ScenarioTag string
	Template    string

	// Defaulted lists placeholders the case left unbound.
	Defaulted []string
}

// Selector picks and fills response templates.
type Selector struct {
	logger *zap.Logger
}

// NewSelector returns a Selector. A nil logger disables logging.
func NewSelector(logger *zap.Logger) *Selector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Selector{logger: logger}
}

// Select instantiates a response for a matched definition. ok is false when
// m carries no definition, which callers treat as no match.
func (s *Selector) Select(m questions.Match, c *cases.Case, src rng.Source) (resp Response, ok bool) {
	d := m.Definition
	if d == nil {
		return Response{}, false
	}

	tags := EligibleTags(d, c)
	tag, ok := rng.Pick(src, tags)
	if !ok {
		return Response{}, false
	}
	tmpl, ok := rng.Pick(src, d.Responses[tag])
	if !ok {
		return Response{}, false
	}

	text, defaulted := Fill(tmpl, c)
	if len(defaulted) > 0 {
		s.logger.Debug("placeholder defaults used",
			zap.String("question", d.ID),
			zap.String("case", c.ID),
			zap.Strings("placeholders", defaulted))
	}

	return Response{
		Text:        text,
		QuestionID:  d.ID,
		Category:    d.Category,
		Subcategory: d.Subcategory,
		ScenarioTag: tag,
		Template:    tmpl,
		Defaulted:   defaulted,
	}, true
}

// EligibleTags returns the declared scenario tags of d that the case
// carries, sorted. When the case carries none of them every declared tag
// is eligible.
func EligibleTags(d *questions.Definition, c *cases.Case) []string {
	declared := questions.ScenarioTags(d)
	var eligible []string
	for _, tag := range declared {
		if c != nil && c.HasScenarioTag(tag) {
			eligible = append(eligible, tag)
		}
	}
	if len(eligible) == 0 {
		return declared
	}
	return slices.Clip(eligible)
}

// Fill substitutes every {placeholder} in tmpl from the case bindings and
// returns the placeholders that fell back to defaults.
func Fill(tmpl string, c *cases.Case) (string, []string) {
	if c == nil {
		c = &cases.Case{}
	}
	var defaulted []string
	out := questions.PlaceholderPattern.ReplaceAllStringFunc(tmpl, func(tok string) string {
		key := tok[1 : len(tok)-1]
		v, bound := c.Binding(key)
		if !bound && !slices.Contains(defaulted, key) {
			defaulted = append(defaulted, key)
		}
		return v
	})
	return out, defaulted
}
