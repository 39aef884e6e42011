// Package interview orchestrates patient interview sessions: it classifies
// each learner question, answers in character, fires the doorknob
// disclosure, and tracks history coverage.
package interview

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"

	"github.com/abhisek/anamnesis/internal/cases"
	"github.com/abhisek/anamnesis/internal/coverage"
	"github.com/abhisek/anamnesis/internal/doorknob"
	"github.com/abhisek/anamnesis/internal/persona"
	"github.com/abhisek/anamnesis/internal/questions"
	"github.com/abhisek/anamnesis/internal/responder"
	"github.com/abhisek/anamnesis/internal/rng"
	"github.com/abhisek/anamnesis/internal/spacedrep"
	"github.com/abhisek/anamnesis/internal/store"
	"github.com/abhisek/anamnesis/internal/tagger"
)

// DefaultMaxSessions bounds the number of live sessions.
const DefaultMaxSessions = 256

// snapshotKeep is how many learner snapshots survive a prune.
const snapshotKeep = 10

// Recorder persists journal records without blocking.
type Recorder interface {
	Record(concern store.Concern, sessionID string, payload any)
	Warnings(sessionID string) []string
}

// forgetter is implemented by recorders that hold per-session state.
type forgetter interface {
	Forget(sessionID string)
}

// Options configures an Engine. Zero values pick the embedded defaults.
type Options struct {
	Questions   *questions.Table
	MinScore    int
	MinWordLen  int // Shortest input word the classifier scores
	Tagger      *tagger.Tagger
	Personas    *persona.Set
	Cases       *cases.Library
	Doorknob    doorknob.Config
	MaxSessions int

	// Recorder receives journal records. Nil disables the journal.
	Recorder Recorder

	// Snapshots holds the learner review queue. Nil disables spaced
	// repetition.
	Snapshots store.SnapshotRepo

	Logger *zap.Logger
	Now    func() time.Time
}

// StartOptions selects the case and randomness for a new session.
type StartOptions struct {
	CaseID string

	// PersonaID overrides the case persona. Empty uses the case's
	// persona or a weighted draw.
	PersonaID string

	// Seed seeds the session RNG. Zero picks a random seed.
	Seed uint64

	// Source replaces the seeded RNG entirely.
	Source rng.Source
}

// Engine runs interview sessions. It is safe for concurrent use; each
// session serializes its own requests.
type Engine struct {
	table      *questions.Table
	classifier *questions.Classifier
	tagger     *tagger.Tagger
	checklist  []tagger.Tag
	personas   *persona.Set
	cases      *cases.Library
	selector   *responder.Selector
	doorknob   *doorknob.Generator
	recorder   Recorder
	snapshots  store.SnapshotRepo
	logger     *zap.Logger
	now        func() time.Time

	sessions *lru.Cache[string, *Session]

	learnerMu sync.Mutex
	scheduler *spacedrep.Scheduler
}

// New builds an Engine from opts.
func New(opts Options) (*Engine, error) {
	if err := opts.Doorknob.Validate(); err != nil {
		return nil, err
	}
	if opts.Questions == nil {
		opts.Questions = questions.Default()
	}
	if opts.Tagger == nil {
		opts.Tagger = tagger.Default()
	}
	if opts.Personas == nil {
		opts.Personas = persona.Default()
	}
	if opts.Cases == nil {
		opts.Cases = cases.Default()
	}
	if opts.MaxSessions <= 0 {
		opts.MaxSessions = DefaultMaxSessions
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	classifier := questions.NewClassifier(opts.Questions)
	if opts.MinScore > 0 {
		classifier.MinScore = opts.MinScore
	}
	classifier.MinInputWordLen = opts.MinWordLen

	e := &Engine{
		table:      opts.Questions,
		classifier: classifier,
		tagger:     opts.Tagger,
		checklist:  opts.Tagger.Checklist(),
		personas:   opts.Personas,
		cases:      opts.Cases,
		selector:   responder.NewSelector(opts.Logger),
		doorknob:   doorknob.NewGenerator(opts.Doorknob),
		recorder:   opts.Recorder,
		snapshots:  opts.Snapshots,
		logger:     opts.Logger,
		now:        opts.Now,
	}

	cache, err := lru.NewWithEvict(opts.MaxSessions, e.onEvict)
	if err != nil {
		return nil, fmt.Errorf("session registry: %w", err)
	}
	e.sessions = cache
	return e, nil
}

// Cases returns the engine's case library.
func (e *Engine) Cases() *cases.Library {
	return e.cases
}

// Questions returns the engine's question table.
func (e *Engine) Questions() *questions.Table {
	return e.table
}

// Start creates a session for a case and binds its persona.
func (e *Engine) Start(ctx context.Context, opts StartOptions) (*Session, error) {
	c := e.cases.Get(opts.CaseID)
	if c == nil {
		return nil, fmt.Errorf("%w: %q", ErrCaseNotFound, opts.CaseID)
	}

	src := opts.Source
	seed := uint64(0)
	if src == nil {
		seed = opts.Seed
		if seed == 0 {
			seed = rng.NewSeed()
		}
		src = rng.New(seed)
	}

	s := &Session{
		id:        uuid.New().String(),
		c:         c,
		seed:      seed,
		src:       src,
		phase:     PhaseCreated,
		door:      doorknob.Armed,
		tracker:   coverage.NewTracker(e.checklist),
		startedAt: e.now(),
	}

	personaID := opts.PersonaID
	if personaID == "" {
		personaID = c.PersonaID
	}
	if personaID == "" {
		s.profile = e.personas.Assign(src)
	} else {
		p, ok := e.personas.Lookup(personaID)
		s.profile = p
		if !ok {
			e.logger.Warn("unknown persona, using neutral", zap.String("persona", personaID), zap.String("case", c.ID))
			s.pending = append(s.pending, fmt.Sprintf("unknown persona %q; using %s", personaID, persona.NeutralID))
		}
	}

	s.reminders = e.DueReviews(ctx)

	e.sessions.Add(s.id, s)
	e.logger.Debug("session started",
		zap.String("session", s.id),
		zap.String("case", c.ID),
		zap.String("persona", s.profile.ID))
	return s, nil
}

// Get returns a live or closed session that has not been evicted.
func (e *Engine) Get(id string) (*Session, error) {
	s, ok := e.sessions.Get(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return s, nil
}

// Len returns the number of registered sessions.
func (e *Engine) Len() int {
	return e.sessions.Len()
}

// Ask answers one learner question.
func (e *Engine) Ask(ctx context.Context, id, text string) (*Reply, error) {
	s, err := e.Get(id)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase == PhaseClosed {
		return nil, ErrSessionClosed
	}
	if strings.TrimSpace(text) == "" {
		return nil, &ValidationError{Field: "text", Err: ErrEmptyQuestion}
	}
	s.phase = PhaseAccepting

	match := e.classifier.Classify(text)
	tag := e.tagger.Tag(text)
	newly := s.tracker.Mark(tag)

	reply := &Reply{SessionID: s.id, Tag: tag, NewlyCovered: newly}
	if resp, ok := e.selector.Select(match, s.c, s.src); ok {
		reply.ResponseText = s.profile.Transform(resp.Text, s.src)
		reply.Category = resp.Category
		reply.QuestionID = resp.QuestionID
	} else {
		reply.NoMatch = true
		reply.NearMiss = match.NearMiss
	}

	if d := e.doorknob.Evaluate(&s.door, s.c, text, s.src); d != nil {
		s.disclosed = d
		reply.Doorknob = d
		e.logger.Debug("doorknob fired",
			zap.String("session", s.id),
			zap.String("symptom", d.Symptom),
			zap.Bool("red_flag", d.RedFlag))
	}
	reply.CoveragePercent = s.tracker.Percent()

	asked := AskedQuestion{
		Text:       text,
		QuestionID: reply.QuestionID,
		Category:   reply.Category,
		Score:      match.Score,
		Tag:        tag,
		NoMatch:    reply.NoMatch,
		Doorknob:   reply.Doorknob != nil,
		AskedAt:    e.now(),
	}
	s.log = append(s.log, asked)

	e.record(store.ConcernAskedQuestions, s.id, s.askedRecord(asked))
	if match.NearMiss != "" {
		e.record(store.ConcernNearMisses, s.id, store.NearMissData{
			SessionID: s.id,
			CaseID:    s.c.ID,
			Text:      text,
			ClosestID: match.NearMiss,
			Score:     match.Score,
			Timestamp: asked.AskedAt,
		})
	}

	reply.Warnings = e.drainWarnings(s)
	return reply, nil
}

// Coverage reports a session's coverage. Closed sessions remain readable.
func (e *Engine) Coverage(id string) (*CoverageReport, error) {
	s, err := e.Get(id)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return &CoverageReport{
		SessionID: s.id,
		Percent:   s.tracker.Percent(),
		Domains:   s.tracker.Summary(),
	}, nil
}

// Close ends a session, records the learner's reflection, and queues
// every essential question the learner missed for review.
func (e *Engine) Close(ctx context.Context, id, reflection string) (*Summary, error) {
	s, err := e.Get(id)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase == PhaseClosed {
		return nil, ErrSessionClosed
	}

	summary := e.finalize(ctx, s, reflection)
	summary.Warnings = e.drainWarnings(s)
	e.forget(s.id)
	return summary, nil
}

// finalize closes s and writes its records. Caller holds s.mu.
func (e *Engine) finalize(ctx context.Context, s *Session, reflection string) *Summary {
	now := e.now()
	s.phase = PhaseClosed
	s.closedAt = now

	asked := s.askedIDs()
	var essential, missed []string
	for _, d := range e.table.Essential() {
		essential = append(essential, d.ID)
		if !asked[d.ID] {
			missed = append(missed, d.ID)
		}
	}

	domains := s.tracker.Summary()
	summary := &Summary{
		SessionID:       s.id,
		CaseID:          s.c.ID,
		PersonaID:       s.profile.ID,
		Questions:       len(s.log),
		Matched:         len(asked),
		CoveragePercent: s.tracker.Percent(),
		Domains:         domains,
		MissedEssential: missed,
		Doorknob:        s.disclosed,
		Duration:        now.Sub(s.startedAt),
	}

	var missing []string
	for _, d := range domains {
		for _, el := range d.Missing {
			missing = append(missing, d.Domain+"/"+el)
		}
	}
	e.record(store.ConcernReflections, s.id, store.ReflectionData{
		SessionID:       s.id,
		CaseID:          s.c.ID,
		Text:            strings.TrimSpace(reflection),
		CoveragePercent: summary.CoveragePercent,
		Missing:         missing,
		Timestamp:       now,
	})

	for _, entry := range e.applyReviews(ctx, s, essential, asked, now) {
		e.record(store.ConcernSpacedRepetition, s.id, entry)
	}

	e.record(store.ConcernSessionSnapshots, s.id, s.snapshot(now))

	e.logger.Info("session closed",
		zap.String("session", s.id),
		zap.String("case", s.c.ID),
		zap.Int("questions", summary.Questions),
		zap.Float64("coverage", summary.CoveragePercent))
	return summary
}

func (e *Engine) onEvict(id string, s *Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase == PhaseClosed {
		return
	}
	e.logger.Info("evicting open session", zap.String("session", id))
	e.finalize(context.Background(), s, "")
	e.forget(id)
}

func (e *Engine) record(concern store.Concern, sessionID string, payload any) {
	if e.recorder == nil {
		return
	}
	e.recorder.Record(concern, sessionID, payload)
}

// forget releases recorder state held for a closed session.
func (e *Engine) forget(sessionID string) {
	if f, ok := e.recorder.(forgetter); ok {
		f.Forget(sessionID)
	}
}

// drainWarnings collects warnings owed to s. Caller holds s.mu.
func (e *Engine) drainWarnings(s *Session) []string {
	w := s.pending
	s.pending = nil
	if e.recorder != nil {
		w = append(w, e.recorder.Warnings(s.id)...)
	}
	return w
}
