package questions

import (
	"strings"
	"unicode"
)

const (
	// ExactScore is awarded when a whole phrasing appears in the input.
	ExactScore = 5

	// DefaultMinScore is the lowest score that counts as a match.
	DefaultMinScore = 2

	// minWordLen is the shortest phrasing word that takes part in word
	// scoring. Input words are not filtered unless MinInputWordLen is set.
	minWordLen = 3
)

// Classifier scores free text against a question table.
type Classifier struct {
	Table    *Table
	MinScore int

	// MinInputWordLen drops input words shorter than this from word
	// scoring. Zero keeps every input word.
	MinInputWordLen int
}

// NewClassifier returns a classifier over t with the default threshold.
func NewClassifier(t *Table) *Classifier {
	return &Classifier{Table: t, MinScore: DefaultMinScore}
}

// Classify returns the best matching definition for text. Ties go to the
// definition declared first. The result depends only on text and the
// table.
func (c *Classifier) Classify(text string) Match {
	input := Normalize(text)
	if input == "" {
		return Match{}
	}
	words := inputWords(input, c.MinInputWordLen)

	var best *Definition
	bestScore := 0
	for _, d := range c.Table.All() {
		s := scoreDefinition(d, input, words)
		if s > bestScore {
			best, bestScore = d, s
		}
	}

	minScore := c.MinScore
	if minScore <= 0 {
		minScore = DefaultMinScore
	}
	switch {
	case best != nil && bestScore >= minScore:
		return Match{Definition: best, Score: bestScore}
	case best != nil && bestScore == 1:
		return Match{Score: 1, NearMiss: best.ID}
	}
	return Match{Score: bestScore}
}

// Score returns d's score for text, for diagnostics and authoring tools.
func Score(d *Definition, text string) int {
	input := Normalize(text)
	return scoreDefinition(d, input, inputWords(input, 0))
}

func scoreDefinition(d *Definition, input string, words []string) int {
	best := 0
	for _, p := range d.AllPhrasings() {
		if s := scorePhrasing(Normalize(p), input, words); s > best {
			best = s
		}
	}
	return best
}

// scorePhrasing awards ExactScore when the phrasing occurs in the input,
// otherwise one point per phrasing word that overlaps an input word.
func scorePhrasing(phrasing, input string, words []string) int {
	if phrasing == "" {
		return 0
	}
	if strings.Contains(input, phrasing) {
		return ExactScore
	}
	score := 0
	for _, pw := range strings.Fields(phrasing) {
		if len(pw) < minWordLen {
			continue
		}
		for _, w := range words {
			if strings.Contains(w, pw) || strings.Contains(pw, w) {
				score++
				break
			}
		}
	}
	return score
}

// Normalize lowercases text, drops apostrophes, turns other punctuation
// into spaces, and collapses whitespace.
func Normalize(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range strings.ToLower(text) {
		switch {
		case r == '\'' || r == '’':
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		default:
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

func inputWords(input string, minLen int) []string {
	words := strings.Fields(input)
	if minLen <= 1 {
		return words
	}
	out := words[:0]
	for _, w := range words {
		if len(w) >= minLen {
			out = append(out, w)
		}
	}
	return out
}
