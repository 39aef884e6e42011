package interview

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/anamnesis/internal/cases"
	iv "github.com/abhisek/anamnesis/internal/interview"
	"github.com/abhisek/anamnesis/internal/rng"
	"github.com/abhisek/anamnesis/internal/router"
	"github.com/abhisek/anamnesis/internal/screens/summary"
)

func keyPress(r rune) tea.Msg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func specialKey(code rune) tea.Msg {
	return tea.KeyPressMsg{Code: code}
}

func newStartedScreen(t *testing.T) *InterviewScreen {
	t.Helper()
	engine, err := iv.New(iv.Options{})
	if err != nil {
		t.Fatal(err)
	}
	c := cases.Default().Get("chest-pain")
	s := New(engine, nil, c, iv.StartOptions{Source: rng.Always(0)})

	s.Update(s.start()())
	if s.sess == nil {
		t.Fatalf("session not started: %s", s.errMsg)
	}
	return s
}

// submit types text and presses enter, running the resulting command.
func submit(t *testing.T, s *InterviewScreen, text string) {
	t.Helper()
	s.input.Model.SetValue(text)
	_, cmd := s.Update(specialKey(tea.KeyEnter))
	if cmd == nil {
		t.Fatal("enter produced no command")
	}
	s.Update(cmd())
}

func TestStartShowsIntro(t *testing.T) {
	s := newStartedScreen(t)
	if len(s.transcript) == 0 || !strings.Contains(s.transcript[0].text, "chest pain") {
		t.Errorf("transcript = %+v", s.transcript)
	}
	if s.Status() != "Coverage 0%" {
		t.Errorf("status = %q", s.Status())
	}
}

func TestStartUnknownCase(t *testing.T) {
	engine, _ := iv.New(iv.Options{})
	s := New(engine, nil, &cases.Case{ID: "missing", Title: "Missing"}, iv.StartOptions{})
	s.Update(s.start()())
	if s.errMsg == "" {
		t.Fatal("expected error for unknown case")
	}

	_, cmd := s.Update(keyPress('x'))
	if _, ok := cmd().(router.PopScreenMsg); !ok {
		t.Error("any key on error should pop")
	}
}

func TestAskAppendsTranscript(t *testing.T) {
	s := newStartedScreen(t)
	submit(t, s, "When did this start?")

	n := len(s.transcript)
	if n < 3 {
		t.Fatalf("transcript too short: %+v", s.transcript)
	}
	if got := s.transcript[n-2]; got.who != speakerLearner || got.text != "When did this start?" {
		t.Errorf("learner line = %+v", got)
	}
	if got := s.transcript[n-1]; got.who != speakerPatient || got.text != "It came on suddenly, about two hours ago." {
		t.Errorf("patient line = %+v", got)
	}
	if s.input.Value() != "" {
		t.Error("input not cleared after asking")
	}
	if s.coverage == nil || s.coverage.Percent == 0 {
		t.Error("coverage not updated")
	}
}

func TestEmptyEnterDoesNothing(t *testing.T) {
	s := newStartedScreen(t)
	if _, cmd := s.Update(specialKey(tea.KeyEnter)); cmd != nil {
		t.Error("empty question should not be sent")
	}
}

func TestBlankEnterDoesNothing(t *testing.T) {
	s := newStartedScreen(t)
	before := len(s.transcript)
	s.input.Model.SetValue("   \t ")
	if _, cmd := s.Update(specialKey(tea.KeyEnter)); cmd != nil {
		t.Error("blank question should not be sent")
	}
	if s.waiting {
		t.Error("screen waiting on a blank question")
	}
	if len(s.transcript) != before {
		t.Errorf("transcript grew to %d lines", len(s.transcript))
	}
}

func TestEndInterviewFlow(t *testing.T) {
	s := newStartedScreen(t)
	submit(t, s, "Do you smoke?")

	s.Update(specialKey(tea.KeyEscape))
	if !s.confirmQuit {
		t.Fatal("esc should ask for confirmation")
	}
	s.Update(keyPress('n'))
	if s.confirmQuit {
		t.Fatal("n should cancel")
	}

	s.Update(specialKey(tea.KeyEscape))
	s.Update(keyPress('y'))
	if !s.reflecting {
		t.Fatal("y should move to reflection")
	}

	s.input.Model.SetValue("Ask about allergies earlier.")
	_, cmd := s.Update(specialKey(tea.KeyEnter))
	if cmd == nil {
		t.Fatal("enter during reflection produced no command")
	}
	_, cmd = s.Update(cmd())
	if cmd == nil {
		t.Fatal("close produced no navigation")
	}
	msg, ok := cmd().(router.ReplaceScreenMsg)
	if !ok {
		t.Fatalf("expected ReplaceScreenMsg, got %T", cmd())
	}
	if _, ok := msg.Screen.(*summary.SummaryScreen); !ok {
		t.Errorf("replaced with %T", msg.Screen)
	}
	if s.sess.Phase() != iv.PhaseClosed {
		t.Error("session not closed")
	}
}

func TestViewRenders(t *testing.T) {
	s := newStartedScreen(t)
	submit(t, s, "When did this start?")

	wide := s.View(120, 30)
	if !strings.Contains(wide, "Coverage") || !strings.Contains(wide, "You: When did this start?") {
		t.Errorf("wide view missing content:\n%s", wide)
	}
	if narrow := s.View(80, 24); strings.Contains(narrow, "Nothing asked yet") {
		t.Error("narrow view should hide the coverage panel")
	}
}
