package subjects

import (
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/wanjiru/soma/internal/progress"
	"github.com/wanjiru/soma/internal/questionbank"
	"github.com/wanjiru/soma/internal/quiz"
	"github.com/wanjiru/soma/internal/router"
	"github.com/wanjiru/soma/internal/screen"
	"github.com/wanjiru/soma/internal/screens/notes"
	"github.com/wanjiru/soma/internal/screens/picker"
	quizscreen "github.com/wanjiru/soma/internal/screens/quiz"
	"github.com/wanjiru/soma/internal/timeledger"
	"github.com/wanjiru/soma/internal/ui/components"
	"github.com/wanjiru/soma/internal/ui/theme"
)

// Mode selects what picking a subject leads to.
type Mode int

const (
	ModeQuiz Mode = iota
	ModeNotes
	ModePick
)

// SubjectsScreen lets the learner pick a subject before a quiz, a
// notes session, or the question picker.
type SubjectsScreen struct {
	mode Mode
	menu components.Menu
}

var _ screen.Screen = (*SubjectsScreen)(nil)

// New creates the subject picker for the given mode.
func New(mode Mode, bank *questionbank.Bank, prog *progress.Store, sink quiz.Sink, ledger *timeledger.Ledger) *SubjectsScreen {
	items := make([]components.MenuItem, 0, len(questionbank.Subjects()))
	for _, subject := range questionbank.Subjects() {
		subject := subject
		items = append(items, components.MenuItem{
			Label: string(subject),
			Action: func() tea.Cmd {
				return func() tea.Msg {
					switch mode {
					case ModeNotes:
						return router.PushScreenMsg{
							Screen: notes.New(subject, bank, ledger),
						}
					case ModePick:
						return router.PushScreenMsg{
							Screen: picker.New(subject, bank, prog, sink, ledger),
						}
					default:
						return router.PushScreenMsg{
							Screen: quizscreen.New(subject, bank, prog, sink, ledger),
						}
					}
				}
			},
		})
	}

	return &SubjectsScreen{
		mode: mode,
		menu: components.NewMenu(items),
	}
}

func (s *SubjectsScreen) Init() tea.Cmd {
	return nil
}

func (s *SubjectsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	s.menu, cmd = s.menu.Update(msg)
	return s, cmd
}

func (s *SubjectsScreen) View(width, height int) string {
	prompt := "Which subject do you want to practice?"
	switch s.mode {
	case ModeNotes:
		prompt = "Which subject do you want to study?"
	case ModePick:
		prompt = "Which subject do you want to pick questions from?"
	}

	content := theme.Subtitle.Render(prompt) + "\n\n" + s.menu.View()

	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(content)
}

func (s *SubjectsScreen) Title() string {
	switch s.mode {
	case ModeNotes:
		return "Study Notes"
	case ModePick:
		return "Pick Questions"
	default:
		return "Take a Quiz"
	}
}
