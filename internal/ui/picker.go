package ui

import (
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// ErrNothingToPick is returned by Pick for an empty list.
var ErrNothingToPick = errors.New("nothing to pick from")

// Choice is one line of a picker.
type Choice struct {
	Label   string // wallet name
	Detail  string // address, shown dimmed
	Current bool   // marked and preselected
}

type pickerModel struct {
	title    string
	choices  []Choice
	cursor   int
	picked   int
	quitting bool
}

func newPicker(title string, choices []Choice) pickerModel {
	m := pickerModel{title: title, choices: choices, picked: -1}
	for i, c := range choices {
		if c.Current {
			m.cursor = i
			break
		}
	}
	return m
}

func (m pickerModel) Init() tea.Cmd { return nil }

func (m pickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "q", "ctrl+c", "esc":
		m.quitting = true
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.choices)-1 {
			m.cursor++
		}
	case "enter", " ":
		m.picked = m.cursor
		return m, tea.Quit
	}
	return m, nil
}

func (m pickerModel) View() string {
	if m.quitting || m.picked >= 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(StyleTitle.Render(m.title) + "\n")
	for i, c := range m.choices {
		cursor := "  "
		if i == m.cursor {
			cursor = "▸ "
		}
		line := cursor + StyleValue.Render(c.Label)
		if c.Detail != "" {
			line += "  " + StyleMeta.Render(TruncateAddr(c.Detail))
		}
		if c.Current {
			line += "  " + StyleSuccess.Render("(default)")
		}
		if i == m.cursor {
			line = StyleSelected.Render(line)
		}
		sb.WriteString(line + "\n")
	}
	sb.WriteString("\n" + StyleMeta.Render("↑↓ move · enter select · q cancel") + "\n")
	return sb.String()
}

// Pick lets the user choose one of choices and returns its index, or -1
// when cancelled.
func Pick(title string, choices []Choice) (int, error) {
	if len(choices) == 0 {
		return -1, ErrNothingToPick
	}
	final, err := tea.NewProgram(newPicker(title, choices)).Run()
	if err != nil {
		return -1, fmt.Errorf("picker: %w", err)
	}
	m := final.(pickerModel)
	if m.quitting {
		return -1, nil
	}
	return m.picked, nil
}
