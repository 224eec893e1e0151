package stats

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/wanjiru/soma/internal/progress"
	"github.com/wanjiru/soma/internal/screen"
	"github.com/wanjiru/soma/internal/timeutil"
	"github.com/wanjiru/soma/internal/ui/theme"
)

const recentSessions = 5

// StatsScreen shows the learner's saved progress: scores, study time,
// bookmarks and weak questions.
type StatsScreen struct {
	rec progress.Record
}

var _ screen.Screen = (*StatsScreen)(nil)

// New creates the stats screen with a fresh snapshot of the record.
func New(prog *progress.Store) *StatsScreen {
	return &StatsScreen{rec: prog.Load(context.Background())}
}

func (s *StatsScreen) Init() tea.Cmd {
	return nil
}

func (s *StatsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	return s, nil
}

func (s *StatsScreen) Title() string {
	return "My Progress"
}

func (s *StatsScreen) View(width, height int) string {
	left := s.renderOverview()
	right := s.renderSubjects()

	columns := lipgloss.JoinHorizontal(lipgloss.Top,
		theme.Card.Render(left),
		"  ",
		theme.Card.Render(right),
	)

	sections := []string{columns}
	if recent := s.renderRecent(); recent != "" {
		sections = append(sections, "", theme.Card.Render(recent))
	}

	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(strings.Join(sections, "\n"))
}

func (s *StatsScreen) renderOverview() string {
	rec := s.rec

	totalQuestions := 0
	for _, sess := range rec.Sessions {
		totalQuestions += sess.Total
	}
	avg := "—"
	if totalQuestions > 0 {
		avg = fmt.Sprintf("%d%%", rec.TotalScore*100/totalQuestions)
	}

	lines := []string{
		theme.Subtitle.Render("Overview"),
		"",
		row("Quizzes taken", fmt.Sprintf("%d", rec.QuizzesTaken)),
		row("Average score", avg),
		row("Total study time", timeutil.FormatDuration(ms(rec.TotalDurationMs))),
		row("Studied today", timeutil.FormatDuration(ms(rec.TodayDurationMs))),
		row("Bookmarked", fmt.Sprintf("%d questions", len(rec.Bookmarks))),
		row("Needs review", fmt.Sprintf("%d questions", len(rec.Wrong))),
	}
	return strings.Join(lines, "\n")
}

func (s *StatsScreen) renderSubjects() string {
	rec := s.rec

	subjects := make([]string, 0, len(rec.PerSubjectDuration))
	for subject := range rec.PerSubjectDuration {
		subjects = append(subjects, subject)
	}
	sort.Strings(subjects)

	lines := []string{theme.Subtitle.Render("Time per subject"), ""}
	if len(subjects) == 0 {
		lines = append(lines, theme.Hint.Render("No study time yet."))
	}
	for _, subject := range subjects {
		total := timeutil.FormatDuration(ms(rec.PerSubjectDuration[subject]))
		today := ""
		if t := rec.PerSubjectTodayDuration[subject]; t > 0 {
			today = theme.Hint.Render(fmt.Sprintf("  (%s today)", timeutil.FormatDuration(ms(t))))
		}
		lines = append(lines, row(subject, total)+today)
	}
	return strings.Join(lines, "\n")
}

func (s *StatsScreen) renderRecent() string {
	rec := s.rec
	if len(rec.Sessions) == 0 {
		return ""
	}

	lines := []string{theme.Subtitle.Render("Recent quizzes"), ""}

	start := len(rec.Sessions) - recentSessions
	if start < 0 {
		start = 0
	}
	for i := len(rec.Sessions) - 1; i >= start; i-- {
		sess := rec.Sessions[i]
		date := sess.Date
		if t, err := time.Parse(time.RFC3339, sess.Date); err == nil {
			date = t.Format("Jan 2")
		}
		line := fmt.Sprintf("%-8s %-16s %d/%d", date, sess.Subject, sess.Score, sess.Total)
		if sess.DurationMs > 0 {
			line += theme.Hint.Render("  " + timeutil.FormatDuration(ms(sess.DurationMs)))
		}
		lines = append(lines, theme.Body.Render(line))
	}
	return strings.Join(lines, "\n")
}

func row(label, value string) string {
	return theme.Body.Render(fmt.Sprintf("%-18s", label)) + theme.Selected.Render(value)
}

func ms(v int64) time.Duration {
	return time.Duration(v) * time.Millisecond
}
