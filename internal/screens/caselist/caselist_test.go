package caselist

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/anamnesis/internal/cases"
	"github.com/abhisek/anamnesis/internal/router"
	"github.com/abhisek/anamnesis/internal/screen"
)

type opened struct{ id string }

func (o *opened) Init() tea.Cmd                           { return nil }
func (o *opened) Update(tea.Msg) (screen.Screen, tea.Cmd) { return o, nil }
func (o *opened) View(int, int) string                    { return o.id }
func (o *opened) Title() string                           { return o.id }

func open(c *cases.Case) screen.Screen { return &opened{id: c.ID} }

func TestShortcutOpensCase(t *testing.T) {
	s := New(cases.Default(), open, nil)

	_, cmd := s.Update(tea.KeyPressMsg{Code: '2', Text: "2"})
	if cmd == nil {
		t.Fatal("shortcut returned no command")
	}
	push, ok := cmd().(router.PushScreenMsg)
	if !ok {
		t.Fatalf("got %T, want router.PushScreenMsg", cmd())
	}
	if got := push.Screen.Title(); got != "chest-pain" {
		t.Errorf("opened %q, want chest-pain", got)
	}
}

func TestEnterOpensSelected(t *testing.T) {
	s := New(cases.Default(), open, nil)

	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("enter returned no command")
	}
	if got := cmd().(router.PushScreenMsg).Screen.Title(); got != "chest-pain" {
		t.Errorf("opened %q, want chest-pain", got)
	}
}

func TestViewShowsCasesAndReminders(t *testing.T) {
	v := New(cases.Default(), open, []string{"allergies"}).View(120, 30)
	for _, want := range []string{"1. Right-sided abdominal pain", "58, male, chest pain", "Due for review: allergies"} {
		if !strings.Contains(v, want) {
			t.Errorf("view missing %q:\n%s", want, v)
		}
	}
}
