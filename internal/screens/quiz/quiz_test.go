package quiz

import (
	"context"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/wanjiru/soma/internal/progress"
	"github.com/wanjiru/soma/internal/questionbank"
	quizcore "github.com/wanjiru/soma/internal/quiz"
	"github.com/wanjiru/soma/internal/screen"
	"github.com/wanjiru/soma/internal/store"
	"github.com/wanjiru/soma/internal/timeledger"
)

// captureSink records quiz intents instead of persisting them.
type captureSink struct {
	answers   int
	summaries []quizcore.Summary
}

func (c *captureSink) RecordAnswer(subject string, id int, correct bool) {
	c.answers++
}

func (c *captureSink) CompleteQuiz(s quizcore.Summary) {
	c.summaries = append(c.summaries, s)
}

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func specialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

func testQuizScreen(t *testing.T) (*QuizScreen, *captureSink, *progress.Store, *timeledger.Ledger) {
	t.Helper()

	sink := &captureSink{}
	prog := progress.New(store.NewMemory())
	ledger := timeledger.New(nil)

	s := New(questionbank.Mathematics, questionbank.New(nil), prog, sink, ledger)
	if s.errMsg != "" {
		t.Fatalf("unexpected load error: %s", s.errMsg)
	}
	return s, sink, prog, ledger
}

func TestNewWithQuestions_UsesExactSet(t *testing.T) {
	sink := &captureSink{}
	prog := progress.New(store.NewMemory())
	ledger := timeledger.New(nil)

	pool := questionbank.New(nil).LoadQuiz(questionbank.Mathematics)
	if len(pool) < 3 {
		t.Fatalf("pool = %d questions, want at least 3", len(pool))
	}
	picked := pool[:3]

	s := NewWithQuestions(questionbank.Mathematics, picked, prog, sink, ledger)
	if s.errMsg != "" {
		t.Fatalf("unexpected load error: %s", s.errMsg)
	}

	if s.sess.Total() != len(picked) {
		t.Errorf("Total = %d, want %d", s.sess.Total(), len(picked))
	}
	if got := s.sess.Current(); got == nil || got.ID != picked[0].ID {
		t.Errorf("first question = %+v, want ID %d", got, picked[0].ID)
	}
	if !ledger.Active(s.ledgerID) {
		t.Error("expected an active time session after NewWithQuestions")
	}
}

func TestQuizScreen_Title(t *testing.T) {
	s, _, _, _ := testQuizScreen(t)
	if s.Title() != "Mathematics Quiz" {
		t.Errorf("Title = %q, want %q", s.Title(), "Mathematics Quiz")
	}
}

func TestQuizScreen_StartsTimeSession(t *testing.T) {
	s, _, _, ledger := testQuizScreen(t)
	if !ledger.Active(s.ledgerID) {
		t.Error("expected an active time session after New")
	}
}

func TestQuizScreen_SubmitShowsFeedback(t *testing.T) {
	s, sink, _, _ := testQuizScreen(t)

	var scr screen.Screen = s
	scr, _ = scr.Update(specialKey(tea.KeyEnter))
	ss := scr.(*QuizScreen)

	if !ss.sess.Answered() {
		t.Error("expected the answer to be recorded after Enter")
	}
	if sink.answers != 1 {
		t.Errorf("answer events = %d, want 1", sink.answers)
	}

	view := ss.View(80, 24)
	if view == "" {
		t.Error("expected non-empty feedback view")
	}
}

func TestQuizScreen_EnterAdvancesAfterFeedback(t *testing.T) {
	s, _, _, _ := testQuizScreen(t)

	var scr screen.Screen = s
	scr, _ = scr.Update(specialKey(tea.KeyEnter)) // submit
	scr, _ = scr.Update(specialKey(tea.KeyEnter)) // next
	ss := scr.(*QuizScreen)

	if ss.sess.Index() != 1 {
		t.Errorf("Index = %d, want 1", ss.sess.Index())
	}
	if ss.sess.Answered() {
		t.Error("expected a fresh question without a recorded answer")
	}
	if ss.mc.Submitted {
		t.Error("expected a fresh choice component")
	}
}

func TestQuizScreen_BookmarkToggle(t *testing.T) {
	s, _, prog, _ := testQuizScreen(t)
	q := s.sess.Current()

	var scr screen.Screen = s
	scr, _ = scr.Update(keyPress('b'))
	ss := scr.(*QuizScreen)

	if !ss.bookmarked {
		t.Error("expected question to be bookmarked")
	}
	if !prog.IsBookmarked(context.Background(), string(questionbank.Mathematics), q.ID) {
		t.Error("expected bookmark to be saved")
	}

	scr, _ = ss.Update(keyPress('b'))
	ss = scr.(*QuizScreen)
	if ss.bookmarked {
		t.Error("expected second toggle to remove the bookmark")
	}
}

func TestQuizScreen_CompletesAndEmitsSummary(t *testing.T) {
	s, sink, _, _ := testQuizScreen(t)
	total := s.sess.Total()

	var scr screen.Screen = s
	for i := 0; i < total; i++ {
		scr, _ = scr.Update(specialKey(tea.KeyEnter)) // submit
		scr, _ = scr.Update(specialKey(tea.KeyEnter)) // next
	}
	ss := scr.(*QuizScreen)

	if !ss.sess.Complete() {
		t.Fatal("expected a complete session after answering everything")
	}
	if len(sink.summaries) != 1 {
		t.Fatalf("summaries = %d, want 1", len(sink.summaries))
	}
	if sink.summaries[0].Total != total {
		t.Errorf("summary total = %d, want %d", sink.summaries[0].Total, total)
	}

	view := ss.View(80, 24)
	if view == "" {
		t.Error("expected non-empty summary view")
	}
}

func TestQuizScreen_CloseEndsTimeSession(t *testing.T) {
	s, _, _, ledger := testQuizScreen(t)
	id := s.ledgerID

	s.Close()
	if ledger.Active(id) {
		t.Error("expected Close to end the time session")
	}

	// Second close must not panic or double-end.
	s.Close()
}

func TestQuizScreen_KeyHints(t *testing.T) {
	s, _, _, _ := testQuizScreen(t)
	if len(s.KeyHints()) == 0 {
		t.Error("expected non-empty key hints")
	}
}
