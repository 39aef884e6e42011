package spacedrep

import (
	"sort"
	"time"

	"github.com/abhisek/anamnesis/internal/store"
)

// Outcomes recorded in store.ReviewEntryData.
const (
	OutcomeMissed = "missed"
	OutcomeAsked  = "asked"
)

// Scheduler manages the review queue. It is not safe for concurrent use;
// callers serialize session closes.
type Scheduler struct {
	reviews map[string]*ReviewState
}

// NewScheduler creates a scheduler, loading review state from the snapshot.
func NewScheduler(snap *store.SnapshotData) *Scheduler {
	s := &Scheduler{reviews: make(map[string]*ReviewState)}
	if snap != nil {
		s.loadFromSnapshot(snap.SpacedRep)
	}
	return s
}

func (s *Scheduler) loadFromSnapshot(data *store.SpacedRepSnapshotData) {
	if data == nil || data.Reviews == nil {
		return
	}
	for id, rd := range data.Reviews {
		nextReview, err := time.Parse(time.RFC3339, rd.NextReviewDate)
		if err != nil {
			continue
		}
		lastReview, err := time.Parse(time.RFC3339, rd.LastReviewDate)
		if err != nil {
			continue
		}
		s.reviews[id] = &ReviewState{
			QuestionID:      rd.QuestionID,
			Stage:           rd.Stage,
			NextReviewDate:  nextReview,
			ConsecutiveHits: rd.ConsecutiveHits,
			Misses:          rd.Misses,
			Graduated:       rd.Graduated,
			LastReviewDate:  lastReview,
		}
	}
}

// RecordMissed queues a question the learner did not ask. A question
// already in the queue drops back to stage 0.
func (s *Scheduler) RecordMissed(questionID string, now time.Time) *ReviewState {
	rs := s.reviews[questionID]
	if rs == nil {
		rs = &ReviewState{QuestionID: questionID}
		s.reviews[questionID] = rs
	}
	rs.Stage = 0
	rs.ConsecutiveHits = 0
	rs.Graduated = false
	rs.Misses++
	rs.LastReviewDate = now
	rs.NextReviewDate = now.AddDate(0, 0, BaseIntervals[0])
	return rs
}

// RecordAsked advances a queued question the learner remembered to ask.
// It returns nil for questions that are not queued.
func (s *Scheduler) RecordAsked(questionID string, now time.Time) *ReviewState {
	rs := s.reviews[questionID]
	if rs == nil {
		return nil
	}

	rs.LastReviewDate = now
	rs.ConsecutiveHits++
	if !rs.Graduated {
		rs.Stage++
		if rs.ConsecutiveHits >= GraduationStage {
			rs.Graduated = true
		}
	}
	rs.NextReviewDate = now.AddDate(0, 0, rs.CurrentIntervalDays())
	return rs
}

// ApplySession updates the queue from one closed session and returns
// journal entries for every change. essential lists the essential question
// ids in table order; asked holds the ids the learner matched.
func (s *Scheduler) ApplySession(sessionID string, essential []string, asked map[string]bool, now time.Time) []store.ReviewEntryData {
	var entries []store.ReviewEntryData
	for _, id := range essential {
		var (
			rs      *ReviewState
			outcome string
		)
		if asked[id] {
			rs, outcome = s.RecordAsked(id, now), OutcomeAsked
		} else {
			rs, outcome = s.RecordMissed(id, now), OutcomeMissed
		}
		if rs == nil {
			continue
		}
		entries = append(entries, store.ReviewEntryData{
			SessionID:      sessionID,
			QuestionID:     id,
			Outcome:        outcome,
			Stage:          rs.Stage,
			NextReviewDate: rs.NextReviewDate,
			Timestamp:      now,
		})
	}
	return entries
}

// DueQuestions returns queued questions that are due, most overdue first.
func (s *Scheduler) DueQuestions(now time.Time) []string {
	type dueQuestion struct {
		id      string
		overdue float64
	}
	var due []dueQuestion

	for id, rs := range s.reviews {
		if rs.IsDue(now) {
			due = append(due, dueQuestion{id: id, overdue: rs.OverdueDays(now)})
		}
	}

	sort.Slice(due, func(i, j int) bool {
		if due[i].overdue != due[j].overdue {
			return due[i].overdue > due[j].overdue
		}
		return due[i].id < due[j].id
	})

	ids := make([]string, len(due))
	for i, d := range due {
		ids[i] = d.id
	}
	return ids
}

// GetReviewState returns the review state for a question, or nil if not tracked.
func (s *Scheduler) GetReviewState(questionID string) *ReviewState {
	return s.reviews[questionID]
}

// AllReviewStates returns all review states (for stats/UI).
func (s *Scheduler) AllReviewStates() map[string]*ReviewState {
	result := make(map[string]*ReviewState, len(s.reviews))
	for id, rs := range s.reviews {
		result[id] = rs
	}
	return result
}

// SnapshotData exports the current review state for persistence.
func (s *Scheduler) SnapshotData() *store.SpacedRepSnapshotData {
	data := &store.SpacedRepSnapshotData{
		Reviews: make(map[string]*store.ReviewStateData),
	}
	for id, rs := range s.reviews {
		data.Reviews[id] = &store.ReviewStateData{
			QuestionID:      rs.QuestionID,
			Stage:           rs.Stage,
			NextReviewDate:  rs.NextReviewDate.Format(time.RFC3339),
			ConsecutiveHits: rs.ConsecutiveHits,
			Misses:          rs.Misses,
			Graduated:       rs.Graduated,
			LastReviewDate:  rs.LastReviewDate.Format(time.RFC3339),
		}
	}
	return data
}
