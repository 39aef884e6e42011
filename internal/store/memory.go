package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"
)

// MemoryJournal is an in-process Journal for ephemeral sessions and tests.
type MemoryJournal struct {
	mu      sync.Mutex
	seq     int64
	records map[Concern][]Record
}

// NewMemoryJournal returns an empty journal.
func NewMemoryJournal() *MemoryJournal {
	return &MemoryJournal{records: make(map[Concern][]Record)}
}

func (m *MemoryJournal) Append(_ context.Context, concern Concern, sessionID string, payload any) (int64, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return 0, fmt.Errorf("marshal %s record: %w", concern, err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	m.records[concern] = append(m.records[concern], Record{
		Sequence:  m.seq,
		Concern:   concern,
		SessionID: sessionID,
		Timestamp: time.Now().UTC(),
		Payload:   b,
	})
	return m.seq, nil
}

func (m *MemoryJournal) Query(_ context.Context, concern Concern, opts QueryOpts) ([]Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Record
	for _, r := range m.records[concern] {
		if !matches(r, opts) {
			continue
		}
		out = append(out, r)
		if opts.Limit > 0 && len(out) == opts.Limit {
			break
		}
	}
	return out, nil
}

func (m *MemoryJournal) Count(_ context.Context, concern Concern) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.records[concern]), nil
}

// Reset drops every record.
func (m *MemoryJournal) Reset(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = make(map[Concern][]Record)
	return nil
}

// MemorySnapshots is an in-process SnapshotRepo.
type MemorySnapshots struct {
	mu    sync.Mutex
	snaps []*Snapshot
}

func (m *MemorySnapshots) Save(_ context.Context, snap *Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	snap.Sequence = int64(len(m.snaps) + 1)
	snap.ID = int(snap.Sequence)
	if snap.Timestamp.IsZero() {
		snap.Timestamp = time.Now().UTC()
	}
	m.snaps = append(m.snaps, snap)
	return nil
}

func (m *MemorySnapshots) Latest(context.Context) (*Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.snaps) == 0 {
		return nil, nil
	}
	return m.snaps[len(m.snaps)-1], nil
}

func (m *MemorySnapshots) Prune(_ context.Context, keep int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.snaps) > keep {
		m.snaps = m.snaps[len(m.snaps)-keep:]
	}
	return nil
}

// Reset drops every snapshot.
func (m *MemorySnapshots) Reset(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snaps = nil
	return nil
}
