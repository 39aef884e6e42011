// Package caselist is the start screen: pick a patient to interview.
package caselist

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/anamnesis/internal/cases"
	"github.com/abhisek/anamnesis/internal/router"
	"github.com/abhisek/anamnesis/internal/screen"
	"github.com/abhisek/anamnesis/internal/ui/components"
	"github.com/abhisek/anamnesis/internal/ui/layout"
	"github.com/abhisek/anamnesis/internal/ui/theme"
)

// Opener builds the interview screen for a case.
type Opener func(c *cases.Case) screen.Screen

type CaseListScreen struct {
	menu      components.Menu
	reminders []string
}

var _ screen.Screen = (*CaseListScreen)(nil)
var _ screen.KeyHintProvider = (*CaseListScreen)(nil)

// New lists every case in lib. reminders are question ids due for review,
// shown under the menu.
func New(lib *cases.Library, open Opener, reminders []string) *CaseListScreen {
	var items []components.MenuItem
	for _, c := range lib.All() {
		items = append(items, components.MenuItem{
			Label:  c.Title,
			Detail: describe(c),
			Action: func() tea.Cmd {
				return func() tea.Msg { return router.PushScreenMsg{Screen: open(c)} }
			},
		})
	}
	menu := components.NewMenu(items)
	menu.Numbered = true
	return &CaseListScreen{menu: menu, reminders: reminders}
}

func describe(c *cases.Case) string {
	var parts []string
	if c.Age > 0 {
		parts = append(parts, fmt.Sprintf("%d", c.Age))
	}
	if c.Sex != "" {
		parts = append(parts, c.Sex)
	}
	parts = append(parts, c.ChiefComplaint)
	return strings.Join(parts, ", ")
}

func (s *CaseListScreen) Init() tea.Cmd { return nil }

func (s *CaseListScreen) Title() string { return "Choose a patient" }

func (s *CaseListScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter/1-9", Description: "Interview"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (s *CaseListScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	s.menu, cmd = s.menu.Update(msg)
	return s, cmd
}

func (s *CaseListScreen) View(width, height int) string {
	var b strings.Builder
	b.WriteString(theme.Title.Width(width).Render("Who would you like to see?"))
	b.WriteString("\n\n")
	b.WriteString(s.menu.View())

	if len(s.reminders) > 0 {
		b.WriteString("\n")
		b.WriteString(theme.Hint.Render(fmt.Sprintf("  Due for review: %s", strings.Join(s.reminders, ", "))))
		b.WriteString("\n")
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Top, b.String())
}
