// Package layout draws the frame shared by every screen: a header bar,
// the screen body and a footer of key hints.
package layout

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/anamnesis/internal/ui/theme"
)

const (
	MinWidth  = 80
	MinHeight = 24

	// CompactWidthThreshold is the width below which screens drop side
	// panels.
	CompactWidthThreshold = 100
)

// KeyHint is one footer entry.
type KeyHint struct {
	Key         string
	Description string
}

func IsCompactWidth(width int) bool {
	return width < CompactWidthThreshold
}

func IsTooSmall(width, height int) bool {
	return width < MinWidth || height < MinHeight
}

// RenderMinSizeMessage asks the user to enlarge the terminal.
func RenderMinSizeMessage(width, height int) string {
	text := fmt.Sprintf("The exam room is a bit cramped.\n\nResize to at least %d×%d\n(now %d×%d)",
		MinWidth, MinHeight, width, height)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		lipgloss.NewStyle().Foreground(theme.Text).Align(lipgloss.Center).Render(text))
}

var (
	brand     = lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)
	heading   = lipgloss.NewStyle().Foreground(theme.Text)
	statusTxt = lipgloss.NewStyle().Foreground(theme.Accent)
	hintKey   = lipgloss.NewStyle().Foreground(theme.Text).Bold(true)
	hintDesc  = lipgloss.NewStyle().Foreground(theme.TextDim)
)

// bar boxes content in the card border used by header and footer.
func bar(content string, width int) string {
	return lipgloss.NewStyle().
		Width(width).
		Background(theme.BgCard).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Render(content)
}

// RenderHeader centres title between the brand and a right-aligned
// status, which may be empty.
func RenderHeader(title, status string, width int) string {
	left := brand.Render("  Anamnesis")
	mid := heading.Render(title)
	right := statusTxt.Render(status)

	inner := max(width-4, 0)
	lw, mw, rw := lipgloss.Width(left), lipgloss.Width(mid), lipgloss.Width(right)
	gapL := max((inner-mw)/2-lw, 1)
	gapR := max(inner-lw-gapL-mw-rw, 1)

	return bar(left+strings.Repeat(" ", gapL)+mid+strings.Repeat(" ", gapR)+right, width)
}

// RenderFooter lists key hints.
func RenderFooter(hints []KeyHint, width int) string {
	parts := make([]string, len(hints))
	for i, h := range hints {
		parts[i] = hintKey.Render(h.Key) + " " + hintDesc.Render(h.Description)
	}
	return bar("  "+strings.Join(parts, "   "), width)
}

// RenderFrame stacks header, content and footer, giving content the
// remaining height.
func RenderFrame(header, content, footer string, width, height int) string {
	h := max(height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
	body := lipgloss.NewStyle().Width(width).Height(h).Render(content)
	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}
