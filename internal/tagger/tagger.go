// Package tagger maps free-text questions onto coarse (domain, element)
// pairs used for coverage bookkeeping.
//
// Rules are evaluated in order and the first match wins. More specific
// rules must therefore precede the general ones they overlap with: the
// cardiac family-history rule sits ahead of the plain family-history rule.
package tagger

import "strings"

// Other is the domain and element reported when no rule matches.
const Other = "other"

// Tag is a coverage coordinate.
type Tag struct {
	Domain  string `json:"domain"`
	Element string `json:"element"`
}

// IsOther reports whether t is the fallback tag.
func (t Tag) IsOther() bool {
	return t.Domain == Other
}

func (t Tag) String() string {
	return t.Domain + "/" + t.Element
}

// ParseTag reverses Tag.String. Input without a slash maps to the
// fallback tag.
func ParseTag(s string) Tag {
	domain, element, ok := strings.Cut(s, "/")
	if !ok || domain == "" || element == "" {
		return Tag{Domain: Other, Element: Other}
	}
	return Tag{Domain: domain, Element: element}
}

// Predicate reports whether a lowercased question matches.
type Predicate func(text string) bool

// Rule maps a predicate onto a tag.
type Rule struct {
	Name  string
	Match Predicate
	Tag   Tag
}

// Tagger evaluates an ordered rule list.
type Tagger struct {
	rules []Rule
}

// New returns a tagger over rules. The slice is not copied.
func New(rules []Rule) *Tagger {
	return &Tagger{rules: rules}
}

// Default returns a tagger over DefaultRules.
func Default() *Tagger {
	return New(DefaultRules())
}

// Tag returns the tag of the first matching rule, or (other, other).
func (t *Tagger) Tag(text string) Tag {
	tag, _ := t.TagWithRule(text)
	return tag
}

// TagWithRule is Tag plus the name of the rule that fired. The name is
// empty for the fallback.
func (t *Tagger) TagWithRule(text string) (Tag, string) {
	lower := strings.ToLower(text)
	for _, r := range t.rules {
		if r.Match(lower) {
			return r.Tag, r.Name
		}
	}
	return Tag{Domain: Other, Element: Other}, ""
}

// Rules returns the rule list in evaluation order.
func (t *Tagger) Rules() []Rule {
	return t.rules
}

// Checklist returns the distinct tags the rules can produce, in rule
// order. The fallback tag is never part of it.
func (t *Tagger) Checklist() []Tag {
	seen := make(map[Tag]bool)
	var out []Tag
	for _, r := range t.rules {
		if r.Tag.IsOther() || seen[r.Tag] {
			continue
		}
		seen[r.Tag] = true
		out = append(out, r.Tag)
	}
	return out
}

// Any matches when text contains at least one keyword.
func Any(keywords ...string) Predicate {
	return func(text string) bool {
		for _, k := range keywords {
			if strings.Contains(text, k) {
				return true
			}
		}
		return false
	}
}

// All matches when every predicate matches.
func All(preds ...Predicate) Predicate {
	return func(text string) bool {
		for _, p := range preds {
			if !p(text) {
				return false
			}
		}
		return true
	}
}

// Not inverts a predicate.
func Not(p Predicate) Predicate {
	return func(text string) bool { return !p(text) }
}
