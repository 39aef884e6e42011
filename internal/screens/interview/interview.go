// Package interview is the screen where the learner questions a patient.
package interview

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/anamnesis/internal/cases"
	"github.com/abhisek/anamnesis/internal/freeform"
	iv "github.com/abhisek/anamnesis/internal/interview"
	"github.com/abhisek/anamnesis/internal/router"
	"github.com/abhisek/anamnesis/internal/screen"
	"github.com/abhisek/anamnesis/internal/screens/summary"
	"github.com/abhisek/anamnesis/internal/ui/components"
	"github.com/abhisek/anamnesis/internal/ui/layout"
)

const maxQuestionLen = 280

type speaker int

const (
	speakerNarrator speaker = iota
	speakerLearner
	speakerPatient
	speakerDoorknob
	speakerRedFlag
	speakerWarning
)

type line struct {
	who  speaker
	text string
}

// InterviewScreen runs one session against the engine.
type InterviewScreen struct {
	engine   *iv.Engine
	freeform freeform.Responder
	c        *cases.Case
	opts     iv.StartOptions

	sess       *iv.Session
	transcript []line
	coverage   *iv.CoverageReport
	input      components.TextInput

	waiting     bool
	confirmQuit bool
	reflecting  bool
	errMsg      string
}

var _ screen.Screen = (*InterviewScreen)(nil)
var _ screen.KeyHintProvider = (*InterviewScreen)(nil)
var _ screen.StatusProvider = (*InterviewScreen)(nil)
var _ screen.BackHandler = (*InterviewScreen)(nil)

// New returns a screen that starts a session for c on Init. ff may be nil.
func New(engine *iv.Engine, ff freeform.Responder, c *cases.Case, opts iv.StartOptions) *InterviewScreen {
	opts.CaseID = c.ID
	return &InterviewScreen{
		engine:   engine,
		freeform: ff,
		c:        c,
		opts:     opts,
		input:    components.NewTextInput("Ask the patient a question...", maxQuestionLen),
	}
}

func (s *InterviewScreen) Init() tea.Cmd {
	return tea.Batch(s.start(), s.input.Init())
}

func (s *InterviewScreen) Title() string {
	return s.c.Title
}

func (s *InterviewScreen) HandlesBack() bool { return true }

func (s *InterviewScreen) Status() string {
	if s.coverage == nil {
		return "Coverage 0%"
	}
	return fmt.Sprintf("Coverage %.0f%%", s.coverage.Percent)
}

func (s *InterviewScreen) KeyHints() []layout.KeyHint {
	switch {
	case s.errMsg != "":
		return []layout.KeyHint{{Key: "any key", Description: "Back"}}
	case s.confirmQuit:
		return []layout.KeyHint{
			{Key: "Y", Description: "End interview"},
			{Key: "N", Description: "Keep going"},
		}
	case s.reflecting:
		return []layout.KeyHint{
			{Key: "Enter", Description: "Finish"},
			{Key: "Esc", Description: "Back to patient"},
		}
	}
	return []layout.KeyHint{
		{Key: "Enter", Description: "Ask"},
		{Key: "Esc", Description: "End interview"},
	}
}

func (s *InterviewScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case startedMsg:
		return s.handleStarted(msg)
	case replyMsg:
		return s.handleReply(msg)
	case closedMsg:
		return s.handleClosed(msg)
	case tea.KeyMsg:
		return s.handleKey(msg)
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

func (s *InterviewScreen) start() tea.Cmd {
	engine, opts := s.engine, s.opts
	return func() tea.Msg {
		sess, err := engine.Start(context.Background(), opts)
		return startedMsg{Session: sess, Err: err}
	}
}

func (s *InterviewScreen) ask(text string) tea.Cmd {
	engine, ff, sess := s.engine, s.freeform, s.sess
	return func() tea.Msg {
		ctx := context.Background()
		reply, err := engine.Ask(ctx, sess.ID(), text)
		if err != nil {
			return replyMsg{Question: text, Err: err}
		}
		freeform.Complete(ctx, ff, sess, text, reply)
		report, err := engine.Coverage(sess.ID())
		return replyMsg{Question: text, Reply: reply, Coverage: report, Err: err}
	}
}

func (s *InterviewScreen) close(reflection string) tea.Cmd {
	engine, id := s.engine, s.sess.ID()
	return func() tea.Msg {
		sum, err := engine.Close(context.Background(), id, reflection)
		return closedMsg{Summary: sum, Err: err}
	}
}

func (s *InterviewScreen) handleStarted(msg startedMsg) (screen.Screen, tea.Cmd) {
	if msg.Err != nil {
		s.errMsg = msg.Err.Error()
		return s, nil
	}
	s.sess = msg.Session
	intro := s.c.ChiefComplaint
	if s.c.Age > 0 && s.c.Sex != "" {
		intro = fmt.Sprintf("%d-year-old %s presenting with %s.", s.c.Age, s.c.Sex, s.c.ChiefComplaint)
	}
	s.say(speakerNarrator, intro)
	if r := s.sess.Reminders(); len(r) > 0 {
		s.say(speakerNarrator, fmt.Sprintf("Review today: remember to ask about %d question(s) you missed before.", len(r)))
	}
	return s, nil
}

func (s *InterviewScreen) handleReply(msg replyMsg) (screen.Screen, tea.Cmd) {
	s.waiting = false
	s.say(speakerLearner, msg.Question)
	if msg.Err != nil && msg.Reply == nil {
		s.say(speakerWarning, msg.Err.Error())
		return s, nil
	}

	r := msg.Reply
	switch {
	case r.ResponseText != "":
		s.say(speakerPatient, r.ResponseText)
	case r.NoMatch:
		s.say(speakerPatient, "…")
	}
	if r.NearMiss != "" && r.NoMatch {
		s.say(speakerNarrator, fmt.Sprintf("(close to a recognised question: %s)", r.NearMiss))
	}
	if d := r.Doorknob; d != nil {
		if d.RedFlag {
			s.say(speakerRedFlag, d.Text)
		} else {
			s.say(speakerDoorknob, d.Text)
		}
	}
	for _, w := range r.Warnings {
		s.say(speakerWarning, w)
	}
	if msg.Coverage != nil {
		s.coverage = msg.Coverage
	}
	return s, nil
}

func (s *InterviewScreen) handleClosed(msg closedMsg) (screen.Screen, tea.Cmd) {
	if msg.Err != nil {
		s.errMsg = msg.Err.Error()
		return s, nil
	}
	sum := summary.New(msg.Summary)
	return s, func() tea.Msg { return router.ReplaceScreenMsg{Screen: sum} }
}

func (s *InterviewScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	if s.errMsg != "" {
		return s, func() tea.Msg { return router.PopScreenMsg{} }
	}
	if s.sess == nil || s.waiting {
		return s, nil
	}

	if s.confirmQuit {
		switch key {
		case "y", "Y":
			s.confirmQuit = false
			s.reflecting = true
			s.input = components.NewTextInput("One thing you would do differently (optional)", 0)
			return s, s.input.Init()
		case "n", "N", "esc":
			s.confirmQuit = false
		}
		return s, nil
	}

	switch key {
	case "esc":
		if s.reflecting {
			s.reflecting = false
			s.input = components.NewTextInput("Ask the patient a question...", maxQuestionLen)
			return s, s.input.Init()
		}
		s.confirmQuit = true
		return s, nil
	case "enter":
		if s.reflecting {
			s.waiting = true
			return s, s.close(s.input.Value())
		}
		text := s.input.Value()
		if strings.TrimSpace(text) == "" {
			return s, nil
		}
		s.input.Reset()
		s.waiting = true
		return s, s.ask(text)
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

func (s *InterviewScreen) say(who speaker, text string) {
	s.transcript = append(s.transcript, line{who: who, text: text})
}
