package quiz

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/google/uuid"

	"github.com/wanjiru/soma/internal/progress"
	"github.com/wanjiru/soma/internal/questionbank"
	quizcore "github.com/wanjiru/soma/internal/quiz"
	"github.com/wanjiru/soma/internal/router"
	"github.com/wanjiru/soma/internal/screen"
	"github.com/wanjiru/soma/internal/timeledger"
	"github.com/wanjiru/soma/internal/timeutil"
	"github.com/wanjiru/soma/internal/ui/components"
	"github.com/wanjiru/soma/internal/ui/layout"
	"github.com/wanjiru/soma/internal/ui/theme"
)

// QuizScreen runs one quiz attempt for a subject. Answer and summary
// persistence happens through the session's sink; the screen only owns
// presentation and the running time session.
type QuizScreen struct {
	subject    questionbank.Subject
	sess       *quizcore.Session
	mc         components.MultiChoice
	prog       *progress.Store
	ledger     *timeledger.Ledger
	ledgerID   string
	bookmarked bool
	errMsg     string
	closed     bool
}

var _ screen.Screen = (*QuizScreen)(nil)
var _ screen.KeyHintProvider = (*QuizScreen)(nil)
var _ screen.Closer = (*QuizScreen)(nil)

// New creates a quiz screen over a random sample of the subject's pool
// and starts its time session immediately.
func New(subject questionbank.Subject, bank *questionbank.Bank, prog *progress.Store, sink quizcore.Sink, ledger *timeledger.Ledger) *QuizScreen {
	pool := bank.LoadQuiz(subject)
	return NewWithQuestions(subject, questionbank.Pick(pool, questionbank.MaxQuizQuestions), prog, sink, ledger)
}

// NewWithQuestions creates a quiz screen over exactly the given
// questions, in order. The question picker uses this to run a
// hand-picked set without resampling.
func NewWithQuestions(subject questionbank.Subject, questions []questionbank.Question, prog *progress.Store, sink quizcore.Sink, ledger *timeledger.Ledger) *QuizScreen {
	s := &QuizScreen{
		subject: subject,
		sess:    quizcore.NewSession(sink),
		prog:    prog,
		ledger:  ledger,
	}

	if err := s.sess.Load(questions); err != nil {
		s.errMsg = fmt.Sprintf("No questions available for %s yet.", subject)
		return s
	}

	s.ledgerID = uuid.New().String()
	s.ledger.Start(s.ledgerID, string(subject), timeledger.KindQuiz)
	s.loadCurrent()
	return s
}

// loadCurrent rebuilds the choice component and bookmark flag for the
// question the session is currently on.
func (s *QuizScreen) loadCurrent() {
	q := s.sess.Current()
	if q == nil {
		return
	}
	s.mc = components.NewMultiChoice(q.Question, q.Options, q.Answer)
	s.bookmarked = s.prog.IsBookmarked(context.Background(), string(s.subject), q.ID)
}

func (s *QuizScreen) Init() tea.Cmd {
	if s.errMsg != "" {
		return nil
	}
	return tickCmd()
}

func (s *QuizScreen) Title() string {
	return string(s.subject) + " Quiz"
}

// Close ends the time session so the attempt's study time is flushed
// even when the learner backs out mid-quiz.
func (s *QuizScreen) Close() {
	if s.closed {
		return
	}
	s.closed = true
	if s.ledgerID != "" {
		s.ledger.End(s.ledgerID)
	}
}

func (s *QuizScreen) KeyHints() []layout.KeyHint {
	switch {
	case s.errMsg != "":
		return []layout.KeyHint{{Key: "any key", Description: "Back"}}
	case s.sess.Complete():
		return []layout.KeyHint{{Key: "Enter", Description: "Done"}}
	case s.sess.Answered():
		return []layout.KeyHint{
			{Key: "Enter", Description: "Next question"},
			{Key: "B", Description: "Bookmark"},
		}
	default:
		return []layout.KeyHint{
			{Key: "↑↓", Description: "Select"},
			{Key: "Enter", Description: "Submit"},
			{Key: "B", Description: "Bookmark"},
		}
	}
}

func (s *QuizScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case timerTickMsg:
		if s.errMsg != "" || s.sess.Complete() {
			return s, nil
		}
		return s, tickCmd()

	case tea.KeyMsg:
		return s.handleKey(msg)
	}
	return s, nil
}

func (s *QuizScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	if s.errMsg != "" {
		return s, func() tea.Msg { return router.PopScreenMsg{} }
	}

	if s.sess.Complete() {
		if key == "enter" {
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		}
		return s, nil
	}

	if key == "b" || key == "B" {
		s.toggleBookmark()
		return s, nil
	}

	// Feedback shown after an answer; Enter moves on.
	if s.sess.Answered() {
		if key == "enter" || key == "n" || key == "space" {
			if err := s.sess.Next(); err == nil && !s.sess.Complete() {
				s.loadCurrent()
			}
		}
		return s, nil
	}

	var cmd tea.Cmd
	s.mc, cmd = s.mc.Update(msg)
	if s.mc.Submitted {
		s.sess.Submit(s.mc.ChosenOption())
	}
	return s, cmd
}

func (s *QuizScreen) toggleBookmark() {
	q := s.sess.Current()
	if q == nil {
		return
	}
	on := !s.bookmarked
	if err := s.prog.ToggleBookmark(context.Background(), string(s.subject), q.ID, on); err != nil {
		return
	}
	s.bookmarked = on
}

func (s *QuizScreen) View(width, height int) string {
	var content string
	switch {
	case s.errMsg != "":
		content = theme.Subtitle.Render(s.errMsg)
	case s.sess.Complete():
		content = s.renderSummary()
	default:
		content = s.renderQuestion(width)
	}

	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(content)
}

func (s *QuizScreen) renderQuestion(width int) string {
	barWidth := width / 2
	if barWidth > 50 {
		barWidth = 50
	}

	bar := components.NewProgressBar(
		fmt.Sprintf("Question %d/%d", s.sess.Index()+1, s.sess.Total()),
		s.sess.Progress(), false, barWidth,
	)

	timer := theme.Hint.Render("⏱ " + timeutil.FormatTimer(s.ledger.Duration(s.ledgerID)))
	mark := ""
	if s.bookmarked {
		mark = "  " + theme.Selected.Render("★ bookmarked")
	}

	sections := []string{
		bar.View(),
		timer + mark,
		"",
		s.mc.View(),
	}

	if s.sess.Answered() {
		sections = append(sections, s.renderFeedback())
	}

	return strings.Join(sections, "\n")
}

func (s *QuizScreen) renderFeedback() string {
	q := s.sess.Current()
	if q == nil {
		return ""
	}

	var verdict string
	if s.sess.Selected() == q.Answer {
		verdict = theme.Correct.Render("Correct!")
	} else {
		verdict = theme.Incorrect.Render("Not quite.") + " " +
			theme.Body.Render("The answer is "+q.Answer+".")
	}

	out := "\n" + verdict
	if q.Explanation != "" {
		out += "\n" + theme.Hint.Render(q.Explanation)
	}
	return out
}

func (s *QuizScreen) renderSummary() string {
	score := s.sess.Score()
	total := s.sess.Total()
	percent := 0
	if total > 0 {
		percent = score * 100 / total
	}

	verdict := "Keep practicing, it adds up."
	switch {
	case percent >= 80:
		verdict = "Excellent work!"
	case percent >= 50:
		verdict = "Good effort, almost there."
	}

	elapsed := s.ledger.Duration(s.ledgerID)

	body := strings.Join([]string{
		theme.Title.Render("Quiz Complete"),
		"",
		theme.Body.Render(fmt.Sprintf("%s — %d/%d (%d%%)", s.subject, score, total, percent)),
		theme.Hint.Render("Time: " + timeutil.FormatDuration(elapsed)),
		"",
		theme.Subtitle.Render(verdict),
	}, "\n")

	return theme.Card.Render(body)
}

// tickCmd drives the on-screen timer at one-second resolution.
func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return timerTickMsg(t)
	})
}
