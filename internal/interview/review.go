package interview

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/abhisek/anamnesis/internal/spacedrep"
	"github.com/abhisek/anamnesis/internal/store"
)

// learnerScheduler loads the review queue on first use. Caller holds
// learnerMu.
func (e *Engine) learnerScheduler(ctx context.Context) (*spacedrep.Scheduler, error) {
	if e.scheduler != nil {
		return e.scheduler, nil
	}
	snap, err := e.snapshots.Latest(ctx)
	if err != nil {
		return nil, err
	}
	var data *store.SnapshotData
	if snap != nil {
		data = &snap.Data
	}
	e.scheduler = spacedrep.NewScheduler(data)
	return e.scheduler, nil
}

// DueReviews returns question ids due for review, or nil when spaced
// repetition is disabled or unavailable.
func (e *Engine) DueReviews(ctx context.Context) []string {
	if e.snapshots == nil {
		return nil
	}
	e.learnerMu.Lock()
	defer e.learnerMu.Unlock()

	sched, err := e.learnerScheduler(ctx)
	if err != nil {
		e.logger.Warn("failed to load review queue", zap.Error(err))
		return nil
	}
	return sched.DueQuestions(e.now())
}

// applyReviews updates the review queue from a closed session and saves a
// learner snapshot. Failures become warnings on s.
func (e *Engine) applyReviews(ctx context.Context, s *Session, essential []string, asked map[string]bool, now time.Time) []store.ReviewEntryData {
	if e.snapshots == nil {
		return nil
	}
	e.learnerMu.Lock()
	defer e.learnerMu.Unlock()

	sched, err := e.learnerScheduler(ctx)
	if err != nil {
		e.logger.Warn("failed to load review queue", zap.Error(err))
		s.pending = append(s.pending, "review queue unavailable: "+err.Error())
		return nil
	}

	entries := sched.ApplySession(s.id, essential, asked, now)
	snap := &store.Snapshot{
		Timestamp: now,
		Data:      store.SnapshotData{Version: 1, SpacedRep: sched.SnapshotData()},
	}
	if err := e.snapshots.Save(ctx, snap); err != nil {
		e.logger.Warn("failed to save learner snapshot", zap.Error(err))
		s.pending = append(s.pending, "failed to save review queue: "+err.Error())
		return entries
	}
	if err := e.snapshots.Prune(ctx, snapshotKeep); err != nil {
		e.logger.Debug("snapshot prune failed", zap.Error(err))
	}
	return entries
}
