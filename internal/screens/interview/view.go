package interview

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/anamnesis/internal/ui/components"
	"github.com/abhisek/anamnesis/internal/ui/layout"
	"github.com/abhisek/anamnesis/internal/ui/theme"
)

const sidebarWidth = 34

func (s *InterviewScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
			theme.RedFlag.Render("Something went wrong: "+s.errMsg)+"\n\n"+theme.Hint.Render("press any key to go back"))
	}
	if s.sess == nil {
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, theme.Hint.Render("Calling the patient in..."))
	}

	mainWidth := width
	var sidebar string
	if !layout.IsCompactWidth(width) {
		mainWidth = width - sidebarWidth - 1
		sidebar = s.renderCoverage(sidebarWidth, height)
	}

	prompt := s.renderPrompt(mainWidth)
	transcriptHeight := max(height-lipgloss.Height(prompt)-1, 1)
	main := s.renderTranscript(mainWidth, transcriptHeight) + "\n\n" + prompt

	if sidebar == "" {
		return main
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, lipgloss.NewStyle().Width(mainWidth).Render(main), " ", sidebar)
}

func (s *InterviewScreen) renderPrompt(width int) string {
	switch {
	case s.confirmQuit:
		return theme.Unsolicited.Render("End the interview now? (y/n)")
	case s.reflecting:
		return theme.Hint.Render("Before you go: what would you do differently next time?") + "\n" + s.input.View()
	case s.waiting:
		return theme.Hint.Render("…")
	}
	return lipgloss.NewStyle().Width(width).Render(s.input.View())
}

// renderTranscript wraps every line to width and keeps the newest lines
// that fit in height.
func (s *InterviewScreen) renderTranscript(width, height int) string {
	var rows []string
	for _, l := range s.transcript {
		rendered := styleFor(l.who).Width(width).Render(prefixFor(l.who) + l.text)
		rows = append(rows, strings.Split(rendered, "\n")...)
	}
	if len(rows) > height {
		rows = rows[len(rows)-height:]
	}
	return strings.Join(rows, "\n")
}

func (s *InterviewScreen) renderCoverage(width, height int) string {
	var b strings.Builder
	b.WriteString(theme.Selected.Render("Coverage"))
	b.WriteString("\n\n")
	if s.coverage == nil || len(s.coverage.Domains) == 0 {
		b.WriteString(theme.Hint.Render("Nothing asked yet"))
	} else {
		for _, d := range s.coverage.Domains {
			pct := 0.0
			if d.Total > 0 {
				pct = float64(d.Covered) / float64(d.Total)
			}
			label := d.Domain
			if len(label) > 12 {
				label = label[:12]
			}
			bar := components.ProgressBar{Label: label, LabelWidth: 12, Percent: pct, ShowPercent: true, Width: width - 4}
			b.WriteString(bar.View())
			b.WriteString("\n")
		}
	}
	return theme.Card.Width(width).Height(max(height-2, 1)).Render(b.String())
}

func styleFor(who speaker) lipgloss.Style {
	switch who {
	case speakerLearner:
		return theme.Learner
	case speakerPatient:
		return theme.Patient
	case speakerDoorknob:
		return theme.Unsolicited
	case speakerRedFlag:
		return theme.RedFlag
	case speakerWarning:
		return theme.Warning
	}
	return theme.Hint
}

func prefixFor(who speaker) string {
	switch who {
	case speakerLearner:
		return "You: "
	case speakerPatient, speakerDoorknob, speakerRedFlag:
		return "Patient: "
	case speakerWarning:
		return "warning: "
	}
	return ""
}
