package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// DefaultQueueSize is the recorder's default buffer length.
const DefaultQueueSize = 64

// appendTimeout bounds a single background append.
const appendTimeout = 5 * time.Second

// Recorder appends journal records on a background goroutine so the
// interview flow never waits on storage. A full queue drops the record;
// drops and append failures become warnings for the owning session.
type Recorder struct {
	journal Journal
	logger  *zap.Logger
	pending chan recordJob
	done    chan struct{}

	mu       sync.Mutex
	closed   bool
	warnings map[string][]string
}

type recordJob struct {
	concern   Concern
	sessionID string
	payload   any
	forget    bool // drop the session's warnings once earlier jobs finish
}

// NewRecorder starts a recorder writing to j.
func NewRecorder(j Journal, queueSize int, logger *zap.Logger) *Recorder {
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Recorder{
		journal:  j,
		logger:   logger,
		pending:  make(chan recordJob, queueSize),
		done:     make(chan struct{}),
		warnings: make(map[string][]string),
	}
	go r.processLoop()
	return r
}

// Record queues a record without blocking.
func (r *Recorder) Record(concern Concern, sessionID string, payload any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		r.warnLocked(sessionID, fmt.Sprintf("recorder closed; dropped %s record", concern))
		return
	}
	select {
	case r.pending <- recordJob{concern: concern, sessionID: sessionID, payload: payload}:
	default:
		r.logger.Warn("recorder queue full, dropping record", zap.String("concern", string(concern)), zap.String("session", sessionID))
		r.warnLocked(sessionID, fmt.Sprintf("persistence queue full; dropped %s record", concern))
	}
}

// Warnings returns and clears the pending warnings for a session.
func (r *Recorder) Warnings(sessionID string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	w := r.warnings[sessionID]
	delete(r.warnings, sessionID)
	return w
}

// Forget drops a finished session's warnings. Warnings from records the
// session already queued are dropped too once those records are written.
func (r *Recorder) Forget(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.warnings, sessionID)
	if r.closed {
		return
	}
	select {
	case r.pending <- recordJob{sessionID: sessionID, forget: true}:
	default:
		r.logger.Debug("recorder queue full, forgetting session early", zap.String("session", sessionID))
	}
}

// Close stops accepting records and waits for queued ones to be written.
func (r *Recorder) Close() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		<-r.done
		return
	}
	r.closed = true
	close(r.pending)
	r.mu.Unlock()
	<-r.done
}

func (r *Recorder) processLoop() {
	defer close(r.done)
	for job := range r.pending {
		if job.forget {
			r.mu.Lock()
			delete(r.warnings, job.sessionID)
			r.mu.Unlock()
			continue
		}
		ctx, cancel := context.WithTimeout(context.Background(), appendTimeout)
		_, err := r.journal.Append(ctx, job.concern, job.sessionID, job.payload)
		cancel()
		if err != nil {
			r.logger.Warn("append failed", zap.String("concern", string(job.concern)), zap.String("session", job.sessionID), zap.Error(err))
			r.mu.Lock()
			r.warnLocked(job.sessionID, fmt.Sprintf("could not save %s record: %v", job.concern, err))
			r.mu.Unlock()
		}
	}
}

func (r *Recorder) warnLocked(sessionID, msg string) {
	r.warnings[sessionID] = append(r.warnings[sessionID], msg)
}
