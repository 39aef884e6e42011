package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// sqliteJournal implements Journal on the journal table.
type sqliteJournal struct {
	db  *sql.DB
	seq *sequencer
}

func (j *sqliteJournal) Append(ctx context.Context, concern Concern, sessionID string, payload any) (int64, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return 0, fmt.Errorf("marshal %s record: %w", concern, err)
	}

	return j.seq.insert(ctx, 0, func(tx *sql.Tx, seq int64) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO journal (sequence, concern, session_id, timestamp, payload) VALUES (?, ?, ?, ?, ?)`,
			seq, string(concern), sessionID, time.Now().UTC(), string(b),
		)
		if err != nil {
			return fmt.Errorf("append %s record: %w", concern, err)
		}
		return nil
	})
}

func (j *sqliteJournal) Query(ctx context.Context, concern Concern, opts QueryOpts) ([]Record, error) {
	var (
		where = []string{"concern = ?"}
		args  = []any{string(concern)}
	)
	if opts.After > 0 {
		where = append(where, "sequence > ?")
		args = append(args, opts.After)
	}
	if opts.SessionID != "" {
		where = append(where, "session_id = ?")
		args = append(args, opts.SessionID)
	}
	if !opts.From.IsZero() {
		where = append(where, "timestamp >= ?")
		args = append(args, opts.From.UTC())
	}
	if !opts.To.IsZero() {
		where = append(where, "timestamp <= ?")
		args = append(args, opts.To.UTC())
	}

	q := `SELECT sequence, concern, session_id, timestamp, payload FROM journal WHERE ` +
		strings.Join(where, " AND ") + ` ORDER BY sequence`
	if opts.Limit > 0 {
		q += fmt.Sprintf(" LIMIT %d", opts.Limit)
	}

	rows, err := j.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query %s records: %w", concern, err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var (
			r       Record
			c       string
			payload string
		)
		if err := rows.Scan(&r.Sequence, &c, &r.SessionID, &r.Timestamp, &payload); err != nil {
			return nil, fmt.Errorf("scan %s record: %w", concern, err)
		}
		r.Concern = Concern(c)
		r.Payload = json.RawMessage(payload)
		out = append(out, r)
	}
	return out, rows.Err()
}

func (j *sqliteJournal) Count(ctx context.Context, concern Concern) (int, error) {
	var n int
	err := j.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM journal WHERE concern = ?`, string(concern)).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count %s records: %w", concern, err)
	}
	return n, nil
}
