package store

import "time"

// AskedQuestionData is one learner question and how it was handled.
type AskedQuestionData struct {
	SessionID  string    `json:"session_id"`
	CaseID     string    `json:"case_id"`
	Text       string    `json:"text"`
	QuestionID string    `json:"question_id,omitempty"`
	Category   string    `json:"category,omitempty"`
	Score      int       `json:"score"`
	Domain     string    `json:"domain"`
	Element    string    `json:"element"`
	NoMatch    bool      `json:"no_match"`
	Doorknob   bool      `json:"doorknob"`
	Timestamp  time.Time `json:"timestamp"`
}

// NearMissData is a question that scored a single word hit.
type NearMissData struct {
	SessionID string    `json:"session_id"`
	CaseID    string    `json:"case_id"`
	Text      string    `json:"text"`
	ClosestID string    `json:"closest_id"`
	Score     int       `json:"score"`
	Timestamp time.Time `json:"timestamp"`
}

// ReflectionData is the learner's closing reflection.
type ReflectionData struct {
	SessionID       string    `json:"session_id"`
	CaseID          string    `json:"case_id"`
	Text            string    `json:"text"`
	CoveragePercent float64   `json:"coverage_percent"`
	Missing         []string  `json:"missing,omitempty"`
	Timestamp       time.Time `json:"timestamp"`
}

// ReviewEntryData records a spaced-repetition queue change.
type ReviewEntryData struct {
	SessionID      string    `json:"session_id"`
	QuestionID     string    `json:"question_id"`
	Outcome        string    `json:"outcome"` // "missed" or "asked"
	Stage          int       `json:"stage"`
	NextReviewDate time.Time `json:"next_review_date"`
	Timestamp      time.Time `json:"timestamp"`
}

// SessionSnapshotData is the final state of a closed session.
type SessionSnapshotData struct {
	SessionID       string              `json:"session_id"`
	CaseID          string              `json:"case_id"`
	PersonaID       string              `json:"persona_id"`
	Seed            uint64              `json:"seed"`
	Phase           string              `json:"phase"`
	Asked           []AskedQuestionData `json:"asked"`
	Covered         []string            `json:"covered"`
	CoveragePercent float64             `json:"coverage_percent"`
	DoorknobFired   bool                `json:"doorknob_fired"`
	DoorknobSymptom string              `json:"doorknob_symptom,omitempty"`
	StartedAt       time.Time           `json:"started_at"`
	ClosedAt        time.Time           `json:"closed_at"`
	Timestamp       time.Time           `json:"timestamp"`
}

// LLMRequestData captures one LLM API call.
type LLMRequestData struct {
	Provider     string    `json:"provider"`
	Model        string    `json:"model"`
	Purpose      string    `json:"purpose"`
	InputTokens  int       `json:"input_tokens"`
	OutputTokens int       `json:"output_tokens"`
	CostUSD      float64   `json:"cost_usd,omitempty"`
	LatencyMs    int64     `json:"latency_ms"`
	Success      bool      `json:"success"`
	ErrorMessage string    `json:"error_message,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
}
