package store

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
)

// sequencer allocates the global sequence shared by journal records and
// snapshots. The allocation and the row that uses it commit together, so
// a failed write never leaves a gap.
type sequencer struct {
	mu sync.Mutex
	db *sql.DB
}

// insert allocates the next sequence and calls write with it inside one
// transaction. A non-zero fixed sequence is used as is.
func (s *sequencer) insert(ctx context.Context, fixed int64, write func(tx *sql.Tx, seq int64) error) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	seq := fixed
	if seq == 0 {
		err := tx.QueryRowContext(ctx,
			`UPDATE sequence SET high_water = high_water + 1 WHERE id = 1 RETURNING high_water`,
		).Scan(&seq)
		if err != nil {
			return 0, fmt.Errorf("next sequence: %w", err)
		}
	}
	if err := write(tx, seq); err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return seq, nil
}

// last returns the most recently allocated sequence.
func (s *sequencer) last(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.QueryRowContext(ctx, `SELECT high_water FROM sequence WHERE id = 1`).Scan(&n); err != nil {
		return 0, fmt.Errorf("read sequence: %w", err)
	}
	return n, nil
}
