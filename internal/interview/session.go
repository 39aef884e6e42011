package interview

import (
	"sync"
	"time"

	"github.com/abhisek/anamnesis/internal/cases"
	"github.com/abhisek/anamnesis/internal/coverage"
	"github.com/abhisek/anamnesis/internal/doorknob"
	"github.com/abhisek/anamnesis/internal/persona"
	"github.com/abhisek/anamnesis/internal/rng"
	"github.com/abhisek/anamnesis/internal/store"
	"github.com/abhisek/anamnesis/internal/tagger"
)

// Phase is a session lifecycle phase.
type Phase int

const (
	PhaseCreated   Phase = iota // Started, no question asked yet
	PhaseAccepting              // At least one question asked
	PhaseClosed                 // Closed or evicted; read-only
)

func (p Phase) String() string {
	switch p {
	case PhaseCreated:
		return "created"
	case PhaseAccepting:
		return "accepting_questions"
	case PhaseClosed:
		return "closed"
	}
	return "unknown"
}

// AskedQuestion is one entry in a session's log.
type AskedQuestion struct {
	Text       string     `json:"text"`
	QuestionID string     `json:"question_id,omitempty"`
	Category   string     `json:"category,omitempty"`
	Score      int        `json:"score"`
	Tag        tagger.Tag `json:"tag"`
	NoMatch    bool       `json:"no_match"`
	Doorknob   bool       `json:"doorknob"`
	AskedAt    time.Time  `json:"asked_at"`
}

// Session is one learner interview with one simulated patient. All
// mutation goes through the Engine, which holds mu for the duration of a
// request.
type Session struct {
	mu sync.Mutex

	id        string
	c         *cases.Case
	profile   *persona.Profile
	seed      uint64
	src       rng.Source
	phase     Phase
	log       []AskedQuestion
	door      doorknob.State
	disclosed *doorknob.Disclosure
	tracker   *coverage.Tracker
	startedAt time.Time
	closedAt  time.Time
	reminders []string

	// pending holds warnings for the next reply.
	pending []string
}

// ID returns the session id.
func (s *Session) ID() string { return s.id }

// Case returns the session's case.
func (s *Session) Case() *cases.Case { return s.c }

// Persona returns the persona bound at start.
func (s *Session) Persona() *persona.Profile { return s.profile }

// Seed returns the RNG seed, or 0 when the caller supplied a source.
func (s *Session) Seed() uint64 { return s.seed }

// StartedAt returns the session start time.
func (s *Session) StartedAt() time.Time { return s.startedAt }

// Reminders lists essential question ids due for review when the session
// started.
func (s *Session) Reminders() []string { return s.reminders }

// Phase returns the current lifecycle phase.
func (s *Session) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// Log returns a copy of the asked-question log.
func (s *Session) Log() []AskedQuestion {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]AskedQuestion, len(s.log))
	copy(out, s.log)
	return out
}

// DoorknobState returns the doorknob state.
func (s *Session) DoorknobState() doorknob.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.door
}

// askedIDs returns the set of matched question ids. Caller holds mu.
func (s *Session) askedIDs() map[string]bool {
	ids := make(map[string]bool)
	for _, q := range s.log {
		if q.QuestionID != "" {
			ids[q.QuestionID] = true
		}
	}
	return ids
}

// snapshot builds the persisted form of the session. Caller holds mu.
func (s *Session) snapshot(now time.Time) store.SessionSnapshotData {
	asked := make([]store.AskedQuestionData, 0, len(s.log))
	for _, q := range s.log {
		asked = append(asked, s.askedRecord(q))
	}
	covered := make([]string, 0)
	for _, tag := range s.tracker.CoveredTags() {
		covered = append(covered, tag.String())
	}
	snap := store.SessionSnapshotData{
		SessionID:       s.id,
		CaseID:          s.c.ID,
		PersonaID:       s.profile.ID,
		Seed:            s.seed,
		Phase:           s.phase.String(),
		Asked:           asked,
		Covered:         covered,
		CoveragePercent: s.tracker.Percent(),
		DoorknobFired:   s.door == doorknob.Fired,
		StartedAt:       s.startedAt,
		ClosedAt:        s.closedAt,
		Timestamp:       now,
	}
	if s.disclosed != nil {
		snap.DoorknobSymptom = s.disclosed.Symptom
	}
	return snap
}

func (s *Session) askedRecord(q AskedQuestion) store.AskedQuestionData {
	return store.AskedQuestionData{
		SessionID:  s.id,
		CaseID:     s.c.ID,
		Text:       q.Text,
		QuestionID: q.QuestionID,
		Category:   q.Category,
		Score:      q.Score,
		Domain:     q.Tag.Domain,
		Element:    q.Tag.Element,
		NoMatch:    q.NoMatch,
		Doorknob:   q.Doorknob,
		Timestamp:  q.AskedAt,
	}
}
