package spacedrep

import (
	"testing"
	"time"
)

func TestIsDue_BeforeDate(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	rs := &ReviewState{NextReviewDate: now.Add(24 * time.Hour)}
	if rs.IsDue(now) {
		t.Error("expected not due before review date")
	}
}

func TestIsDue_OnDate(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	rs := &ReviewState{NextReviewDate: now}
	if !rs.IsDue(now) {
		t.Error("expected due on review date")
	}
}

func TestOverdueDays(t *testing.T) {
	next := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	rs := &ReviewState{NextReviewDate: next}
	if got := rs.OverdueDays(next.Add(-time.Hour)); got != 0 {
		t.Errorf("OverdueDays() before due = %f, want 0", got)
	}
	if got := rs.OverdueDays(next.Add(36 * time.Hour)); got != 1.5 {
		t.Errorf("OverdueDays() = %f, want 1.5", got)
	}
}

func TestCurrentIntervalDays(t *testing.T) {
	tests := []struct {
		stage     int
		graduated bool
		want      int
	}{
		{0, false, 1},
		{2, false, 7},
		{5, false, 60},
		{9, false, 60},
		{3, true, GraduatedIntervalDays},
	}
	for _, tt := range tests {
		rs := &ReviewState{Stage: tt.stage, Graduated: tt.graduated}
		if got := rs.CurrentIntervalDays(); got != tt.want {
			t.Errorf("stage %d graduated %v: got %d, want %d", tt.stage, tt.graduated, got, tt.want)
		}
	}
}

func TestStatus(t *testing.T) {
	next := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	rs := &ReviewState{Stage: 2, NextReviewDate: next} // 7-day interval, 3.5 day grace

	tests := []struct {
		now  time.Time
		want ReviewStatus
	}{
		{next.Add(-time.Hour), ReviewNotDue},
		{next, ReviewDue},
		{next.Add(72 * time.Hour), ReviewDue},
		{next.Add(96 * time.Hour), ReviewOverdue},
	}
	for _, tt := range tests {
		if got := rs.Status(tt.now); got != tt.want {
			t.Errorf("Status(%v) = %s, want %s", tt.now, got, tt.want)
		}
	}

	grad := &ReviewState{Graduated: true, NextReviewDate: next}
	if got := grad.Status(next.Add(-time.Hour)); got != ReviewGraduated {
		t.Errorf("graduated status = %s", got)
	}
}

func TestDaysUntilReview(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	rs := &ReviewState{NextReviewDate: now.Add(50 * time.Hour)}
	if got := rs.DaysUntilReview(now); got != 3 {
		t.Errorf("DaysUntilReview() = %d, want 3", got)
	}
	if got := rs.DaysUntilReview(now.Add(60 * time.Hour)); got != 0 {
		t.Errorf("DaysUntilReview() when due = %d, want 0", got)
	}
}
