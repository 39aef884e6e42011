package router

import (
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/anamnesis/internal/screen"
)

type fakeScreen struct {
	name  string
	inits int
	seen  []tea.Msg
}

func (s *fakeScreen) Init() tea.Cmd { s.inits++; return nil }
func (s *fakeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	s.seen = append(s.seen, msg)
	return s, nil
}
func (s *fakeScreen) View(int, int) string { return s.name }
func (s *fakeScreen) Title() string        { return s.name }

type tick struct{}

// The interview flow: case list, push interview, replace it with the
// summary on close, pop back to the case list.
func TestInterviewFlow(t *testing.T) {
	list := &fakeScreen{name: "cases"}
	iv := &fakeScreen{name: "interview"}
	sum := &fakeScreen{name: "summary"}
	r := New(list)

	steps := []struct {
		msg    tea.Msg
		active string
		depth  int
	}{
		{PushScreenMsg{Screen: iv}, "interview", 2},
		{ReplaceScreenMsg{Screen: sum}, "summary", 2},
		{PopScreenMsg{}, "cases", 1},
		{PopScreenMsg{}, "cases", 1},
	}
	for i, st := range steps {
		r.Update(st.msg)
		if got := r.Active().Title(); got != st.active {
			t.Errorf("step %d: active = %q, want %q", i, got, st.active)
		}
		if r.Depth() != st.depth {
			t.Errorf("step %d: depth = %d, want %d", i, r.Depth(), st.depth)
		}
	}
	if iv.inits != 1 || sum.inits != 1 {
		t.Errorf("inits: interview %d, summary %d; want 1 each", iv.inits, sum.inits)
	}
	if list.inits != 0 {
		t.Errorf("initial screen Init ran %d times; the app owns it", list.inits)
	}
}

func TestForwardsToActiveOnly(t *testing.T) {
	list := &fakeScreen{name: "cases"}
	iv := &fakeScreen{name: "interview"}
	r := New(list)
	r.Push(iv)

	r.Update(tick{})

	if len(iv.seen) != 1 {
		t.Errorf("active screen saw %d messages, want 1", len(iv.seen))
	}
	if len(list.seen) != 0 {
		t.Errorf("covered screen saw %d messages, want 0", len(list.seen))
	}
	if got := r.View(80, 24); got != "interview" {
		t.Errorf("View = %q", got)
	}
}

func TestNavigationMessagesNotForwarded(t *testing.T) {
	list := &fakeScreen{name: "cases"}
	r := New(list)

	r.Update(PopScreenMsg{})

	if len(list.seen) != 0 {
		t.Errorf("navigation message reached the screen: %v", list.seen)
	}
}
