package components

import (
	"fmt"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/wanjiru/soma/internal/ui/theme"
)

var optionLabels = []string{"A", "B", "C", "D", "E", "F"}

// MultiChoice is a multiple-choice answer selector. Options are matched
// against the correct answer by exact text, which is how questions are
// keyed in the bank.
type MultiChoice struct {
	Question  string
	Options   []string
	Answer    string
	Selected  int
	Submitted bool
	Chosen    int
}

// NewMultiChoice creates a new multiple-choice component.
func NewMultiChoice(question string, options []string, answer string) MultiChoice {
	return MultiChoice{
		Question: question,
		Options:  options,
		Answer:   answer,
		Selected: 0,
		Chosen:   -1,
	}
}

// Init returns nil.
func (m MultiChoice) Init() tea.Cmd {
	return nil
}

// Update handles keyboard navigation and selection. Once submitted the
// component is frozen until replaced with the next question.
func (m MultiChoice) Update(msg tea.Msg) (MultiChoice, tea.Cmd) {
	if m.Submitted {
		return m, nil
	}

	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch kmsg.String() {
	case "up", "k":
		if m.Selected > 0 {
			m.Selected--
		}
	case "down", "j":
		if m.Selected < len(m.Options)-1 {
			m.Selected++
		}
	case "enter":
		m.Submitted = true
		m.Chosen = m.Selected
	}

	return m, nil
}

// View renders the question and its options. After submission the
// correct option is shown in green and a wrong choice in red.
func (m MultiChoice) View() string {
	questionStyle := lipgloss.NewStyle().Foreground(theme.Text).Bold(true)
	s := questionStyle.Render(m.Question) + "\n\n"

	for i, opt := range m.Options {
		label := "?"
		if i < len(optionLabels) {
			label = optionLabels[i]
		}
		prefix := "  "
		if i == m.Selected && !m.Submitted {
			prefix = "▸ "
		}

		line := fmt.Sprintf("%s%s)  %s", prefix, label, opt)

		if m.Submitted {
			switch {
			case opt == m.Answer:
				s += theme.Correct.Render(line) + "\n"
			case i == m.Chosen:
				s += theme.Incorrect.Render(line) + "\n"
			default:
				s += lipgloss.NewStyle().Foreground(theme.TextDim).Render(line) + "\n"
			}
		} else {
			if i == m.Selected {
				s += theme.Selected.Render(line) + "\n"
			} else {
				s += theme.Unselected.Render(line) + "\n"
			}
		}
	}

	return s
}

// ChosenOption returns the text of the submitted option, or "" if
// nothing has been submitted yet.
func (m MultiChoice) ChosenOption() string {
	if !m.Submitted || m.Chosen < 0 || m.Chosen >= len(m.Options) {
		return ""
	}
	return m.Options[m.Chosen]
}

// IsCorrect returns true if the submitted option matches the answer.
func (m MultiChoice) IsCorrect() bool {
	return m.Submitted && m.ChosenOption() == m.Answer
}
