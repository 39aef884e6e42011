package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// snapshotRepo implements SnapshotRepo on the snapshots table.
type snapshotRepo struct {
	db  *sql.DB
	seq *sequencer
}

func (r *snapshotRepo) Save(ctx context.Context, snap *Snapshot) error {
	b, err := json.Marshal(snap.Data)
	if err != nil {
		return fmt.Errorf("marshal snapshot data: %w", err)
	}
	if snap.Timestamp.IsZero() {
		snap.Timestamp = time.Now().UTC()
	}

	seq, err := r.seq.insert(ctx, snap.Sequence, func(tx *sql.Tx, seq int64) error {
		res, err := tx.ExecContext(ctx,
			`INSERT INTO snapshots (sequence, timestamp, data) VALUES (?, ?, ?)`,
			seq, snap.Timestamp, string(b),
		)
		if err != nil {
			return fmt.Errorf("save snapshot: %w", err)
		}
		if id, err := res.LastInsertId(); err == nil {
			snap.ID = int(id)
		}
		return nil
	})
	if err != nil {
		return err
	}
	snap.Sequence = seq
	return nil
}

func (r *snapshotRepo) Latest(ctx context.Context) (*Snapshot, error) {
	var (
		s    Snapshot
		data string
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT id, sequence, timestamp, data FROM snapshots ORDER BY sequence DESC LIMIT 1`,
	).Scan(&s.ID, &s.Sequence, &s.Timestamp, &data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query latest snapshot: %w", err)
	}
	if err := json.Unmarshal([]byte(data), &s.Data); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot data: %w", err)
	}
	return &s, nil
}

func (r *snapshotRepo) Prune(ctx context.Context, keep int) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM snapshots WHERE id NOT IN (
			SELECT id FROM snapshots ORDER BY sequence DESC LIMIT ?
		)`, keep)
	if err != nil {
		return fmt.Errorf("prune snapshots: %w", err)
	}
	return nil
}
