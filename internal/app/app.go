package app

import (
	"context"
	"fmt"
	"os"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"go.uber.org/zap"

	"github.com/wanjiru/soma/internal/progress"
	"github.com/wanjiru/soma/internal/questionbank"
	"github.com/wanjiru/soma/internal/router"
	"github.com/wanjiru/soma/internal/screen"
	"github.com/wanjiru/soma/internal/screens/home"
	"github.com/wanjiru/soma/internal/screens/notes"
	quizscreen "github.com/wanjiru/soma/internal/screens/quiz"
	"github.com/wanjiru/soma/internal/timeledger"
	"github.com/wanjiru/soma/internal/timeutil"
	"github.com/wanjiru/soma/internal/ui/layout"
)

// headerRefresh is how often the "studied today" header figure is
// re-read from the progress record.
const headerRefresh = 15 * time.Second

// Options carries the wired services the TUI runs on.
type Options struct {
	Progress *progress.Store
	Outbox   *progress.Outbox
	Ledger   *timeledger.Ledger
	Bank     *questionbank.Bank
	Logger   *zap.Logger

	// StartQuiz, when set, opens a quiz for that subject on launch.
	StartQuiz questionbank.Subject

	// StartNotes, when set, opens the notes browser for that subject
	// on launch instead.
	StartNotes questionbank.Subject
}

type headerTickMsg time.Time

// AppModel is the root Bubble Tea model.
type AppModel struct {
	opts   Options
	router *router.Router
	width  int
	height int

	// initCmd carries the Init command of a screen pushed before the
	// program started (direct quiz/notes launch).
	initCmd tea.Cmd

	todayTime string
}

func newAppModel(opts Options) AppModel {
	sink := outboxSink{out: opts.Outbox}

	homeScreen := home.New(opts.Bank, opts.Progress, sink, opts.Ledger)
	r := router.New(homeScreen)

	var initCmd tea.Cmd
	switch {
	case opts.StartQuiz != "":
		initCmd = r.Push(quizscreen.New(opts.StartQuiz, opts.Bank, opts.Progress, sink, opts.Ledger))
	case opts.StartNotes != "":
		initCmd = r.Push(notes.New(opts.StartNotes, opts.Bank, opts.Ledger))
	}

	m := AppModel{
		opts:    opts,
		router:  r,
		initCmd: initCmd,
	}
	m.refreshToday()
	return m
}

func (m *AppModel) refreshToday() {
	rec := m.opts.Progress.Load(context.Background())
	today := time.Duration(rec.TodayDurationMs) * time.Millisecond

	// Include time sessions still running so the header does not lag
	// behind the current quiz or notes screen.
	for _, info := range m.opts.Ledger.Sessions() {
		today += m.opts.Ledger.Duration(info.ID)
	}

	m.todayTime = timeutil.FormatDuration(today)
}

func (m AppModel) Init() tea.Cmd {
	if m.initCmd != nil {
		return tea.Batch(headerTickCmd(), m.initCmd)
	}
	return headerTickCmd()
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.FocusMsg:
		m.opts.Ledger.HandleAppState(timeledger.StateActive)
		return m, nil

	case tea.BlurMsg:
		m.opts.Ledger.HandleAppState(timeledger.StateBackground)
		return m, nil

	case headerTickMsg:
		m.refreshToday()
		return m, headerTickCmd()

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
			return m, nil
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true
	v.ReportFocus = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	header := layout.RenderHeader(title, m.todayTime, m.width)

	footerHints := m.footerHints(active)
	footer := layout.RenderFooter(footerHints, m.width)

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := m.height - headerHeight - footerHeight
	if contentHeight < 0 {
		contentHeight = 0
	}

	content := m.router.View(m.width, contentHeight)
	frame := layout.RenderFrame(header, content, footer, m.width, m.height)

	v.SetContent(frame)
	return v
}

func (m AppModel) footerHints(active screen.Screen) []layout.KeyHint {
	var hints []layout.KeyHint
	if provider, ok := active.(screen.KeyHintProvider); ok {
		hints = provider.KeyHints()
	}
	if hints == nil {
		hints = []layout.KeyHint{
			{Key: "↑↓", Description: "Navigate"},
			{Key: "Enter", Description: "Select"},
		}
	}
	if m.router.Depth() > 1 {
		hints = append(hints, layout.KeyHint{Key: "Esc", Description: "Back"})
	}
	hints = append(hints, layout.KeyHint{Key: "Ctrl+C", Description: "Quit"})
	return hints
}

// headerTickCmd schedules the next header refresh.
func headerTickCmd() tea.Cmd {
	return tea.Tick(headerRefresh, func(t time.Time) tea.Msg {
		return headerTickMsg(t)
	})
}

// Run starts the Bubble Tea program and blocks until it exits.
func Run(opts Options) error {
	p := tea.NewProgram(newAppModel(opts))
	_, err := p.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
