package interview

import (
	iv "github.com/abhisek/anamnesis/internal/interview"
)

// startedMsg carries the new session.
type startedMsg struct {
	Session *iv.Session
	Err     error
}

// replyMsg carries the answer to one question.
type replyMsg struct {
	Question string
	Reply    *iv.Reply
	Coverage *iv.CoverageReport
	Err      error
}

// closedMsg carries the summary after the learner ends the interview.
type closedMsg struct {
	Summary *iv.Summary
	Err     error
}
