package home

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/wanjiru/soma/internal/progress"
	"github.com/wanjiru/soma/internal/questionbank"
	"github.com/wanjiru/soma/internal/quiz"
	"github.com/wanjiru/soma/internal/router"
	"github.com/wanjiru/soma/internal/screen"
	"github.com/wanjiru/soma/internal/screens/stats"
	"github.com/wanjiru/soma/internal/screens/subjects"
	"github.com/wanjiru/soma/internal/timeledger"
	"github.com/wanjiru/soma/internal/timeutil"
	"github.com/wanjiru/soma/internal/ui/components"
	"github.com/wanjiru/soma/internal/ui/theme"
)

// HomeScreen is the main menu of the application.
type HomeScreen struct {
	menu         components.Menu
	quizzesTaken int
	totalTime    string
	todayTime    string
}

var _ screen.Screen = (*HomeScreen)(nil)

// New creates the home screen. The study snapshot shown in the stats
// bar is read once at construction; it refreshes whenever the screen
// is recreated after a pop.
func New(bank *questionbank.Bank, prog *progress.Store, sink quiz.Sink, ledger *timeledger.Ledger) *HomeScreen {
	rec := prog.Load(context.Background())

	items := []components.MenuItem{
		{Label: "TAKE A QUIZ", Hint: "Timed multiple choice, answers saved as you go", Action: func() tea.Cmd {
			return func() tea.Msg {
				return router.PushScreenMsg{
					Screen: subjects.New(subjects.ModeQuiz, bank, prog, sink, ledger),
				}
			}
		}},
		{Label: "PICK QUESTIONS", Hint: "Hand-pick questions, filter by bookmarks and weak spots", Action: func() tea.Cmd {
			return func() tea.Msg {
				return router.PushScreenMsg{
					Screen: subjects.New(subjects.ModePick, bank, prog, sink, ledger),
				}
			}
		}},
		{Label: "STUDY NOTES", Hint: "Browse lessons by subject and level", Action: func() tea.Cmd {
			return func() tea.Msg {
				return router.PushScreenMsg{
					Screen: subjects.New(subjects.ModeNotes, bank, prog, sink, ledger),
				}
			}
		}},
		{Label: "MY PROGRESS", Hint: "Scores, study time, bookmarks and weak spots", Action: func() tea.Cmd {
			return func() tea.Msg {
				return router.PushScreenMsg{Screen: stats.New(prog)}
			}
		}},
		{Label: "EXIT", Action: func() tea.Cmd {
			return tea.Quit
		}},
	}

	return &HomeScreen{
		menu:         components.NewMenu(items),
		quizzesTaken: rec.QuizzesTaken,
		totalTime:    timeutil.FormatDuration(time.Duration(rec.TotalDurationMs) * time.Millisecond),
		todayTime:    timeutil.FormatDuration(time.Duration(rec.TodayDurationMs) * time.Millisecond),
	}
}

func (h *HomeScreen) Init() tea.Cmd {
	return nil
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	title := theme.Title.Render("S O M A")
	subtitle := theme.Subtitle.Render("Your pocket study room")

	statsLine := theme.Hint.Render(fmt.Sprintf(
		"%d quizzes taken  ·  %s studied  ·  %s today",
		h.quizzesTaken, h.totalTime, h.todayTime,
	))

	sections := []string{title, subtitle, "", statsLine, "", h.menu.View()}
	content := strings.Join(sections, "\n")

	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(content)
}

func (h *HomeScreen) Title() string {
	return "Home"
}
