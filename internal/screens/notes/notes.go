package notes

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/google/uuid"

	"github.com/wanjiru/soma/internal/questionbank"
	"github.com/wanjiru/soma/internal/screen"
	"github.com/wanjiru/soma/internal/timeledger"
	"github.com/wanjiru/soma/internal/ui/components"
	"github.com/wanjiru/soma/internal/ui/layout"
	"github.com/wanjiru/soma/internal/ui/theme"
)

// NotesScreen browses the lesson notes for one subject. Time spent on
// the screen counts as study time for the subject.
type NotesScreen struct {
	subject  questionbank.Subject
	lessons  []questionbank.Lesson
	filtered []questionbank.Lesson
	filter   components.FilterInput
	selected int
	reading  *questionbank.Lesson
	ledger   *timeledger.Ledger
	ledgerID string
	closed   bool
}

var _ screen.Screen = (*NotesScreen)(nil)
var _ screen.KeyHintProvider = (*NotesScreen)(nil)
var _ screen.Closer = (*NotesScreen)(nil)

// New creates the notes browser for a subject and starts its time
// session.
func New(subject questionbank.Subject, bank *questionbank.Bank, ledger *timeledger.Ledger) *NotesScreen {
	lessons := bank.LoadNotes(subject)

	s := &NotesScreen{
		subject:  subject,
		lessons:  lessons,
		filtered: lessons,
		filter:   components.NewFilterInput("filter lessons..."),
		ledger:   ledger,
		ledgerID: uuid.New().String(),
	}
	s.ledger.Start(s.ledgerID, string(subject), timeledger.KindNotes)
	return s
}

func (s *NotesScreen) Init() tea.Cmd {
	return nil
}

func (s *NotesScreen) Title() string {
	return string(s.subject) + " Notes"
}

// Close ends the time session, flushing the study time.
func (s *NotesScreen) Close() {
	if s.closed {
		return
	}
	s.closed = true
	s.ledger.End(s.ledgerID)
}

func (s *NotesScreen) KeyHints() []layout.KeyHint {
	if s.reading != nil {
		return []layout.KeyHint{{Key: "Enter", Description: "Back to list"}}
	}
	if s.filter.Active() {
		return []layout.KeyHint{{Key: "Enter", Description: "Apply filter"}}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Read"},
		{Key: "/", Description: "Filter"},
	}
}

func (s *NotesScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil
	}
	key := kmsg.String()

	if s.reading != nil {
		if key == "enter" || key == "backspace" {
			s.reading = nil
		}
		return s, nil
	}

	if s.filter.Active() {
		if key == "enter" {
			s.filter.Blur()
			return s, nil
		}
		var cmd tea.Cmd
		s.filter, cmd = s.filter.Update(msg)
		s.applyFilter()
		return s, cmd
	}

	switch key {
	case "/":
		return s, s.filter.Focus()
	case "up", "k":
		if s.selected > 0 {
			s.selected--
		}
	case "down", "j":
		if s.selected < len(s.filtered)-1 {
			s.selected++
		}
	case "enter":
		if s.selected >= 0 && s.selected < len(s.filtered) {
			s.reading = &s.filtered[s.selected]
		}
	}

	return s, nil
}

// applyFilter narrows the lesson list by a case-insensitive title
// match and keeps the selection in range.
func (s *NotesScreen) applyFilter() {
	query := strings.ToLower(strings.TrimSpace(s.filter.Value()))
	if query == "" {
		s.filtered = s.lessons
	} else {
		filtered := make([]questionbank.Lesson, 0, len(s.lessons))
		for _, l := range s.lessons {
			if strings.Contains(strings.ToLower(l.Title), query) {
				filtered = append(filtered, l)
			}
		}
		s.filtered = filtered
	}

	if s.selected >= len(s.filtered) {
		s.selected = len(s.filtered) - 1
	}
	if s.selected < 0 {
		s.selected = 0
	}
}

func (s *NotesScreen) View(width, height int) string {
	var content string
	if s.reading != nil {
		content = s.renderLesson(width)
	} else {
		content = s.renderList()
	}

	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(content)
}

func (s *NotesScreen) renderList() string {
	var b strings.Builder

	b.WriteString(s.filter.View())
	b.WriteString("\n\n")

	if len(s.filtered) == 0 {
		b.WriteString(theme.Hint.Render("No lessons match."))
		return b.String()
	}

	for i, l := range s.filtered {
		if i == s.selected {
			b.WriteString(theme.Selected.Render("  ▸ " + l.Title))
		} else {
			b.WriteString(theme.Unselected.Render("    " + l.Title))
		}
		b.WriteString("\n")
	}

	return b.String()
}

func (s *NotesScreen) renderLesson(width int) string {
	l := s.reading

	maxWidth := width - 10
	if maxWidth > 72 {
		maxWidth = 72
	}
	if maxWidth < 20 {
		maxWidth = 20
	}
	body := lipgloss.NewStyle().Width(maxWidth)

	sections := []string{
		theme.Title.Render(l.Title),
		"",
		body.Foreground(theme.Text).Render(l.Content),
	}

	if len(l.Steps) > 0 {
		var steps strings.Builder
		for i, step := range l.Steps {
			steps.WriteString(fmt.Sprintf("%d. %s\n", i+1, step))
		}
		sections = append(sections, "",
			theme.Subtitle.Render("Steps"),
			body.Foreground(theme.Text).Render(strings.TrimRight(steps.String(), "\n")))
	}

	if len(l.Examples) > 0 {
		sections = append(sections, "",
			theme.Subtitle.Render("Examples"),
			body.Foreground(theme.TextDim).Render(strings.Join(l.Examples, "\n")))
	}

	return theme.Card.Render(strings.Join(sections, "\n"))
}
