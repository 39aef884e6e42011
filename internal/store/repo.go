package store

import (
	"context"
	"encoding/json"
	"time"
)

// Concern names one append-only record stream.
type Concern string

const (
	ConcernAskedQuestions   Concern = "asked_questions"
	ConcernNearMisses       Concern = "near_misses"
	ConcernReflections      Concern = "reflections"
	ConcernSpacedRepetition Concern = "spaced_repetition"
	ConcernSessionSnapshots Concern = "session_snapshots"
	ConcernLLMRequests      Concern = "llm_requests"
)

// AllConcerns lists every concern in display order.
func AllConcerns() []Concern {
	return []Concern{
		ConcernAskedQuestions,
		ConcernNearMisses,
		ConcernReflections,
		ConcernSpacedRepetition,
		ConcernSessionSnapshots,
		ConcernLLMRequests,
	}
}

// Record is one journal entry.
type Record struct {
	Sequence  int64           `json:"sequence"`
	Concern   Concern         `json:"concern"`
	SessionID string          `json:"session_id,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
	Payload   json.RawMessage `json:"payload"`
}

// Decode unmarshals the payload into v.
func (r Record) Decode(v any) error {
	return json.Unmarshal(r.Payload, v)
}

// QueryOpts configures journal queries with filtering and pagination.
type QueryOpts struct {
	Limit     int       // max results (0 = unlimited)
	After     int64     // sequence > After
	SessionID string    // exact session match when non-empty
	From      time.Time // timestamp >= From
	To        time.Time // timestamp <= To
}

// Journal appends and reads per-concern records. Records are never
// rewritten.
type Journal interface {
	// Append stores payload as JSON and returns the record's sequence.
	Append(ctx context.Context, concern Concern, sessionID string, payload any) (int64, error)

	// Query returns matching records in sequence order.
	Query(ctx context.Context, concern Concern, opts QueryOpts) ([]Record, error)

	// Count returns the number of records for concern.
	Count(ctx context.Context, concern Concern) (int, error)
}

// SnapshotData captures learner state that outlives a session.
type SnapshotData struct {
	Version   int                    `json:"version"`
	SpacedRep *SpacedRepSnapshotData `json:"spaced_rep,omitempty"`
}

// SpacedRepSnapshotData is the review queue keyed by question id.
type SpacedRepSnapshotData struct {
	Reviews map[string]*ReviewStateData `json:"reviews"`
}

// ReviewStateData is the persisted form of one review entry.
type ReviewStateData struct {
	QuestionID      string `json:"question_id"`
	Stage           int    `json:"stage"`
	NextReviewDate  string `json:"next_review_date"` // RFC3339
	ConsecutiveHits int    `json:"consecutive_hits"`
	Misses          int    `json:"misses"`
	Graduated       bool   `json:"graduated"`
	LastReviewDate  string `json:"last_review_date"` // RFC3339
}

// Snapshot represents a point-in-time capture of learner state.
type Snapshot struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	Data      SnapshotData
}

// SnapshotRepo manages learner state snapshots.
type SnapshotRepo interface {
	// Save stores a new snapshot.
	Save(ctx context.Context, snap *Snapshot) error

	// Latest returns the most recent snapshot, or nil if none exist.
	Latest(ctx context.Context) (*Snapshot, error)

	// Prune deletes all but the N most recent snapshots.
	Prune(ctx context.Context, keep int) error
}
