package components

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/anamnesis/internal/ui/theme"
)

// MenuItem is one selectable row. Detail is rendered dimmed after the
// label.
type MenuItem struct {
	Label    string
	Detail   string
	Action   func() tea.Cmd
	Disabled bool
}

// Menu is a vertical list. Arrow keys move, home and end jump, and the
// digits 1-9 pick a row directly.
type Menu struct {
	Items    []MenuItem
	Selected int
	Numbered bool // Prefix rows with their shortcut digit
}

func NewMenu(items []MenuItem) Menu {
	m := Menu{Items: items}
	m.Selected = m.next(-1, 1)
	if m.Selected < 0 {
		m.Selected = 0
	}
	return m
}

// next returns the first enabled row after from in direction dir, or -1.
func (m Menu) next(from, dir int) int {
	for i := from + dir; i >= 0 && i < len(m.Items); i += dir {
		if !m.Items[i].Disabled {
			return i
		}
	}
	return -1
}

func (m Menu) activate(i int) tea.Cmd {
	if i < 0 || i >= len(m.Items) {
		return nil
	}
	if it := m.Items[i]; it.Action != nil && !it.Disabled {
		return it.Action()
	}
	return nil
}

func (m Menu) Update(msg tea.Msg) (Menu, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	move := func(i int) {
		if i >= 0 {
			m.Selected = i
		}
	}
	switch k := kmsg.String(); k {
	case "up", "k":
		move(m.next(m.Selected, -1))
	case "down", "j":
		move(m.next(m.Selected, 1))
	case "home", "g":
		move(m.next(-1, 1))
	case "end", "G":
		move(m.next(len(m.Items), -1))
	case "enter":
		return m, m.activate(m.Selected)
	default:
		if len(k) == 1 && k[0] >= '1' && k[0] <= '9' {
			i := int(k[0] - '1')
			if i < len(m.Items) && !m.Items[i].Disabled {
				m.Selected = i
				return m, m.activate(i)
			}
		}
	}
	return m, nil
}

func (m Menu) View() string {
	var b strings.Builder
	for i, item := range m.Items {
		label := item.Label
		if m.Numbered && i < 9 {
			label = fmt.Sprintf("%d. %s", i+1, label)
		}
		if i == m.Selected {
			b.WriteString(theme.Selected.Render("  ▸ " + label))
		} else {
			b.WriteString(theme.Unselected.Render("    " + label))
		}
		if item.Detail != "" {
			b.WriteString("  " + theme.Hint.Render(item.Detail))
		}
		b.WriteByte('\n')
	}
	return b.String()
}
