package picker

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/google/uuid"

	"github.com/wanjiru/soma/internal/progress"
	"github.com/wanjiru/soma/internal/questionbank"
	quizcore "github.com/wanjiru/soma/internal/quiz"
	"github.com/wanjiru/soma/internal/router"
	"github.com/wanjiru/soma/internal/screen"
	quizscreen "github.com/wanjiru/soma/internal/screens/quiz"
	"github.com/wanjiru/soma/internal/timeledger"
	"github.com/wanjiru/soma/internal/ui/layout"
	"github.com/wanjiru/soma/internal/ui/theme"
)

// Filter narrows which questions the list shows.
type Filter int

const (
	FilterAll Filter = iota
	FilterBookmarked
	FilterWrong
)

func (f Filter) String() string {
	switch f {
	case FilterBookmarked:
		return "bookmarked"
	case FilterWrong:
		return "needs review"
	default:
		return "all"
	}
}

// maxVisibleRows keeps the list within a typical content area.
const maxVisibleRows = 12

// PickerScreen lets the learner hand-pick the exact questions for a
// quiz: toggle individual questions, select all, clear, and start with
// the selection. Filters narrow the pool to bookmarked questions or to
// ones with an active wrong-streak. Time on the picker counts as study
// time for the subject.
type PickerScreen struct {
	subject questionbank.Subject
	pool    []questionbank.Question
	visible []questionbank.Question

	selected   map[int]bool
	bookmarked map[int]bool
	wrong      map[int]bool
	cursor     int
	filter     Filter

	prog     *progress.Store
	sink     quizcore.Sink
	ledger   *timeledger.Ledger
	ledgerID string
	closed   bool
}

var _ screen.Screen = (*PickerScreen)(nil)
var _ screen.KeyHintProvider = (*PickerScreen)(nil)
var _ screen.Closer = (*PickerScreen)(nil)

// New creates the picker for a subject and starts its time session.
func New(subject questionbank.Subject, bank *questionbank.Bank, prog *progress.Store, sink quizcore.Sink, ledger *timeledger.Ledger) *PickerScreen {
	ctx := context.Background()
	pool := bank.LoadQuiz(subject)
	rec := prog.Load(ctx)

	bookmarked := make(map[int]bool)
	for _, q := range pool {
		if rec.Bookmarks[progress.QuestionKey(string(subject), q.ID)] {
			bookmarked[q.ID] = true
		}
	}
	wrong := make(map[int]bool)
	for _, id := range prog.WrongForSubject(ctx, string(subject)) {
		wrong[id] = true
	}

	s := &PickerScreen{
		subject:    subject,
		pool:       pool,
		visible:    pool,
		selected:   make(map[int]bool),
		bookmarked: bookmarked,
		wrong:      wrong,
		prog:       prog,
		sink:       sink,
		ledger:     ledger,
		ledgerID:   uuid.New().String(),
	}
	s.ledger.Start(s.ledgerID, string(subject), timeledger.KindScreen)
	return s
}

func (s *PickerScreen) Init() tea.Cmd {
	return nil
}

func (s *PickerScreen) Title() string {
	return string(s.subject) + " Questions"
}

// Close ends the time session, flushing the picker's study time.
func (s *PickerScreen) Close() {
	if s.closed {
		return
	}
	s.closed = true
	s.ledger.End(s.ledgerID)
}

func (s *PickerScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Space", Description: "Toggle"},
		{Key: "A", Description: "Select all"},
		{Key: "C", Description: "Clear"},
		{Key: "F", Description: "Filter"},
		{Key: "Enter", Description: "Start selected"},
		{Key: "S", Description: "Start all"},
	}
}

func (s *PickerScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil
	}

	switch kmsg.String() {
	case "up", "k":
		if s.cursor > 0 {
			s.cursor--
		}
	case "down", "j":
		if s.cursor < len(s.visible)-1 {
			s.cursor++
		}
	case "space":
		if s.cursor >= 0 && s.cursor < len(s.visible) {
			id := s.visible[s.cursor].ID
			if s.selected[id] {
				delete(s.selected, id)
			} else {
				s.selected[id] = true
			}
		}
	case "a", "A":
		for _, q := range s.visible {
			s.selected[q.ID] = true
		}
	case "c", "C":
		s.selected = make(map[int]bool)
	case "f", "F":
		s.cycleFilter()
	case "enter":
		return s, s.startQuiz(s.pickSelected())
	case "s", "S":
		return s, s.startQuiz(s.visible)
	}

	return s, nil
}

// cycleFilter advances to the next filter and recomputes the visible
// list, keeping the cursor in range.
func (s *PickerScreen) cycleFilter() {
	s.filter = (s.filter + 1) % 3

	switch s.filter {
	case FilterBookmarked:
		s.visible = s.filterPool(s.bookmarked)
	case FilterWrong:
		s.visible = s.filterPool(s.wrong)
	default:
		s.visible = s.pool
	}

	if s.cursor >= len(s.visible) {
		s.cursor = len(s.visible) - 1
	}
	if s.cursor < 0 {
		s.cursor = 0
	}
}

func (s *PickerScreen) filterPool(keep map[int]bool) []questionbank.Question {
	out := make([]questionbank.Question, 0, len(keep))
	for _, q := range s.pool {
		if keep[q.ID] {
			out = append(out, q)
		}
	}
	return out
}

// pickSelected returns the selected questions in pool order.
func (s *PickerScreen) pickSelected() []questionbank.Question {
	out := make([]questionbank.Question, 0, len(s.selected))
	for _, q := range s.pool {
		if s.selected[q.ID] {
			out = append(out, q)
		}
	}
	return out
}

// startQuiz pushes a quiz over exactly the given questions. An empty
// set is a no-op.
func (s *PickerScreen) startQuiz(questions []questionbank.Question) tea.Cmd {
	if len(questions) == 0 {
		return nil
	}
	subject, prog, sink, ledger := s.subject, s.prog, s.sink, s.ledger
	return func() tea.Msg {
		return router.PushScreenMsg{
			Screen: quizscreen.NewWithQuestions(subject, questions, prog, sink, ledger),
		}
	}
}

func (s *PickerScreen) View(width, height int) string {
	var b strings.Builder

	status := fmt.Sprintf("%d of %d selected", len(s.selected), len(s.pool))
	if s.filter != FilterAll {
		status += theme.Hint.Render(fmt.Sprintf("  ·  showing %s (%d)", s.filter, len(s.visible)))
	}
	b.WriteString(theme.Subtitle.Render(status))
	b.WriteString("\n\n")

	if len(s.visible) == 0 {
		b.WriteString(theme.Hint.Render("No questions match this filter."))
	} else {
		b.WriteString(s.renderList(width))
	}

	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(b.String())
}

func (s *PickerScreen) renderList(width int) string {
	start := 0
	if s.cursor >= maxVisibleRows {
		start = s.cursor - maxVisibleRows + 1
	}
	end := start + maxVisibleRows
	if end > len(s.visible) {
		end = len(s.visible)
	}

	maxText := width - 20
	if maxText < 20 {
		maxText = 20
	}

	var b strings.Builder
	for i := start; i < end; i++ {
		q := s.visible[i]

		box := "[ ]"
		if s.selected[q.ID] {
			box = "[x]"
		}
		cursor := "  "
		if i == s.cursor {
			cursor = "▸ "
		}

		text := q.Question
		if len(text) > maxText {
			text = text[:maxText-1] + "…"
		}

		marks := ""
		if s.bookmarked[q.ID] {
			marks += " ★"
		}
		if s.wrong[q.ID] {
			marks += " ✗"
		}

		line := fmt.Sprintf("%s%s %s%s", cursor, box, text, marks)
		switch {
		case i == s.cursor:
			b.WriteString(theme.Selected.Render(line))
		case s.selected[q.ID]:
			b.WriteString(theme.Body.Render(line))
		default:
			b.WriteString(theme.Unselected.Render(line))
		}
		b.WriteString("\n")
	}

	if end < len(s.visible) || start > 0 {
		b.WriteString(theme.Hint.Render(fmt.Sprintf("  … %d more", len(s.visible)-(end-start))))
	}
	return b.String()
}
