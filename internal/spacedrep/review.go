// Package spacedrep schedules essential questions a learner forgot to ask
// so they resurface on an expanding interval.
package spacedrep

import "time"

// ReviewState holds the spaced repetition state for a single question.
type ReviewState struct {
	QuestionID      string    `json:"question_id"`
	Stage           int       `json:"stage"`
	NextReviewDate  time.Time `json:"next_review_date"`
	ConsecutiveHits int       `json:"consecutive_hits"`
	Misses          int       `json:"misses"`
	Graduated       bool      `json:"graduated"`
	LastReviewDate  time.Time `json:"last_review_date"`
}

// IsDue returns true if the question is due for review (at or past the review date).
func (rs *ReviewState) IsDue(now time.Time) bool {
	return !now.Before(rs.NextReviewDate)
}

// OverdueDays returns how many days past due the question is. Returns 0 if not yet due.
func (rs *ReviewState) OverdueDays(now time.Time) float64 {
	if now.Before(rs.NextReviewDate) {
		return 0
	}
	return now.Sub(rs.NextReviewDate).Hours() / 24.0
}

// CurrentIntervalDays returns the current interval in days.
func (rs *ReviewState) CurrentIntervalDays() int {
	if rs.Graduated {
		return GraduatedIntervalDays
	}
	if rs.Stage >= len(BaseIntervals) {
		return BaseIntervals[len(BaseIntervals)-1]
	}
	return BaseIntervals[rs.Stage]
}

// ReviewStatus describes a question's review status for display.
type ReviewStatus string

const (
	ReviewNotDue    ReviewStatus = "not_due"
	ReviewDue       ReviewStatus = "due"
	ReviewOverdue   ReviewStatus = "overdue"
	ReviewGraduated ReviewStatus = "graduated"
)

// isOverdue reports whether the question is past due by more than half
// its interval.
func (rs *ReviewState) isOverdue(now time.Time) bool {
	if !rs.IsDue(now) {
		return false
	}
	graceHours := float64(rs.CurrentIntervalDays()) * 0.5 * 24.0
	threshold := rs.NextReviewDate.Add(time.Duration(graceHours * float64(time.Hour)))
	return now.After(threshold)
}

// Status returns the review status for display.
func (rs *ReviewState) Status(now time.Time) ReviewStatus {
	switch {
	case rs.Graduated && !rs.IsDue(now):
		return ReviewGraduated
	case rs.isOverdue(now):
		return ReviewOverdue
	case rs.IsDue(now):
		return ReviewDue
	}
	return ReviewNotDue
}

// DaysUntilReview returns the number of days until the next review.
// Returns 0 if already due.
func (rs *ReviewState) DaysUntilReview(now time.Time) int {
	if rs.IsDue(now) {
		return 0
	}
	return int(rs.NextReviewDate.Sub(now).Hours()/24.0) + 1
}
