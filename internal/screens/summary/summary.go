package summary

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/anamnesis/internal/interview"
	"github.com/abhisek/anamnesis/internal/router"
	"github.com/abhisek/anamnesis/internal/screen"
	"github.com/abhisek/anamnesis/internal/ui/components"
	"github.com/abhisek/anamnesis/internal/ui/layout"
	"github.com/abhisek/anamnesis/internal/ui/theme"
)

// SummaryScreen shows how a closed interview went.
type SummaryScreen struct {
	summary *interview.Summary
}

var _ screen.Screen = (*SummaryScreen)(nil)
var _ screen.KeyHintProvider = (*SummaryScreen)(nil)

func New(summary *interview.Summary) *SummaryScreen {
	return &SummaryScreen{summary: summary}
}

func (s *SummaryScreen) Init() tea.Cmd { return nil }

func (s *SummaryScreen) Title() string { return "Interview Summary" }

func (s *SummaryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Back to patients"},
	}
}

func (s *SummaryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch kmsg.String() {
		case "enter", "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		}
	}
	return s, nil
}

func (s *SummaryScreen) View(width, height int) string {
	sum := s.summary
	if sum == nil {
		return ""
	}
	center := func(str string) string { return lipgloss.PlaceHorizontal(width, lipgloss.Center, str) }
	colWidth := min(width-8, 60)

	var b strings.Builder
	b.WriteString(theme.Title.Width(width).Render("Interview complete"))
	b.WriteString("\n\n")

	mins := int(sum.Duration.Minutes())
	secs := int(sum.Duration.Seconds()) % 60
	b.WriteString(center(theme.Hint.Render(fmt.Sprintf("Duration %d:%02d    Persona %s", mins, secs, sum.PersonaID))))
	b.WriteString("\n\n")
	b.WriteString(center(theme.Body.Render(fmt.Sprintf("Questions: %d    Recognised: %d    Coverage: %.0f%%",
		sum.Questions, sum.Matched, sum.CoveragePercent))))
	b.WriteString("\n\n")

	for _, d := range sum.Domains {
		pct := 0.0
		if d.Total > 0 {
			pct = float64(d.Covered) / float64(d.Total)
		}
		bar := components.ProgressBar{Label: d.Label, LabelWidth: 22, Percent: pct, ShowPercent: true, Width: colWidth}
		b.WriteString(center(bar.View()))
		b.WriteString("\n")
	}

	if sum.Doorknob != nil {
		style := theme.Unsolicited
		label := "Unsolicited disclosure"
		if sum.Doorknob.RedFlag {
			style, label = theme.RedFlag, "Red flag disclosed"
		}
		b.WriteString("\n")
		b.WriteString(center(style.Render(fmt.Sprintf("%s: %s", label, sum.Doorknob.Symptom))))
		b.WriteString("\n")
	}

	if len(sum.MissedEssential) > 0 {
		b.WriteString("\n")
		b.WriteString(center(theme.Missing.Render("Essential questions you missed (queued for review):")))
		b.WriteString("\n")
		b.WriteString(center(theme.Body.Width(colWidth).Render(strings.Join(sum.MissedEssential, ", "))))
		b.WriteString("\n")
	}

	for _, w := range sum.Warnings {
		b.WriteString("\n" + center(theme.Warning.Render("warning: "+w)))
	}
	return b.String()
}
