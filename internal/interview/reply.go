package interview

import (
	"time"

	"github.com/abhisek/anamnesis/internal/coverage"
	"github.com/abhisek/anamnesis/internal/doorknob"
	"github.com/abhisek/anamnesis/internal/tagger"
)

// Reply is the engine's answer to one question. NoMatch is a signal for
// the caller to supply free-form content, not an error.
type Reply struct {
	SessionID       string               `json:"session_id"`
	ResponseText    string               `json:"response_text,omitempty"`
	Category        string               `json:"category,omitempty"`
	QuestionID      string               `json:"question_id,omitempty"`
	Tag             tagger.Tag           `json:"tag"`
	NoMatch         bool                 `json:"no_match"`
	NearMiss        string               `json:"near_miss,omitempty"`
	Doorknob        *doorknob.Disclosure `json:"doorknob,omitempty"`
	NewlyCovered    bool                 `json:"newly_covered"`
	CoveragePercent float64              `json:"coverage_percent"`
	Warnings        []string             `json:"warnings,omitempty"`
}

// CoverageReport is a session's coverage at a point in time.
type CoverageReport struct {
	SessionID string                   `json:"session_id"`
	Percent   float64                  `json:"percent"`
	Domains   []coverage.DomainSummary `json:"domains"`
}

// Summary describes a closed session.
type Summary struct {
	SessionID       string                   `json:"session_id"`
	CaseID          string                   `json:"case_id"`
	PersonaID       string                   `json:"persona_id"`
	Questions       int                      `json:"questions"`
	Matched         int                      `json:"matched"`
	CoveragePercent float64                  `json:"coverage_percent"`
	Domains         []coverage.DomainSummary `json:"domains"`
	MissedEssential []string                 `json:"missed_essential,omitempty"`
	Doorknob        *doorknob.Disclosure     `json:"doorknob,omitempty"`
	Duration        time.Duration            `json:"duration"`
	Warnings        []string                 `json:"warnings,omitempty"`
}
