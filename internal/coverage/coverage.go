// Package coverage tracks which history elements a learner has elicited
// during one session.
package coverage

import (
	"github.com/abhisek/anamnesis/internal/tagger"
)

// DomainSummary is the covered/total count for one domain.
type DomainSummary struct {
	Domain   string   `json:"domain"`
	Label    string   `json:"label"`
	Covered  int      `json:"covered"`
	Total    int      `json:"total"`
	Missing  []string `json:"missing,omitempty"`
	Elements []string `json:"elements"`
}

// Percent returns the domain completion in [0, 100].
func (d DomainSummary) Percent() float64 {
	if d.Total == 0 {
		return 0
	}
	return 100 * float64(d.Covered) / float64(d.Total)
}

// Tracker is a per-session coverage map. Entries only move from uncovered
// to covered. It is not safe for concurrent use; the owning session
// serializes access.
type Tracker struct {
	checklist []tagger.Tag
	index     map[tagger.Tag]bool
	covered   map[tagger.Tag]bool
}

// NewTracker returns an empty tracker over checklist.
func NewTracker(checklist []tagger.Tag) *Tracker {
	t := &Tracker{
		checklist: checklist,
		index:     make(map[tagger.Tag]bool, len(checklist)),
		covered:   make(map[tagger.Tag]bool),
	}
	for _, tag := range checklist {
		t.index[tag] = true
	}
	return t
}

// Mark records tag as covered. It reports whether the tag was newly
// covered; tags outside the checklist, including (other, other), are
// ignored.
func (t *Tracker) Mark(tag tagger.Tag) bool {
	if !t.index[tag] || t.covered[tag] {
		return false
	}
	t.covered[tag] = true
	return true
}

// Covered reports whether tag has been elicited.
func (t *Tracker) Covered(tag tagger.Tag) bool {
	return t.covered[tag]
}

// CoveredTags returns the covered tags in checklist order.
func (t *Tracker) CoveredTags() []tagger.Tag {
	var out []tagger.Tag
	for _, tag := range t.checklist {
		if t.covered[tag] {
			out = append(out, tag)
		}
	}
	return out
}

// Percent returns overall completion in [0, 100].
func (t *Tracker) Percent() float64 {
	if len(t.checklist) == 0 {
		return 0
	}
	return 100 * float64(len(t.covered)) / float64(len(t.checklist))
}

// Summary returns per-domain counts in checklist order.
func (t *Tracker) Summary() []DomainSummary {
	var out []DomainSummary
	pos := make(map[string]int)
	for _, tag := range t.checklist {
		i, ok := pos[tag.Domain]
		if !ok {
			i = len(out)
			pos[tag.Domain] = i
			label := tagger.DomainLabels[tag.Domain]
			if label == "" {
				label = tag.Domain
			}
			out = append(out, DomainSummary{Domain: tag.Domain, Label: label})
		}
		d := &out[i]
		d.Total++
		d.Elements = append(d.Elements, tag.Element)
		if t.covered[tag] {
			d.Covered++
		} else {
			d.Missing = append(d.Missing, tag.Element)
		}
	}
	return out
}

// Restore marks every tag in tags. Used when rebuilding a tracker from a
// snapshot.
func (t *Tracker) Restore(tags []tagger.Tag) {
	for _, tag := range tags {
		t.Mark(tag)
	}
}
