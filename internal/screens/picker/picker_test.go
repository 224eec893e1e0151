package picker

import (
	"context"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/wanjiru/soma/internal/progress"
	"github.com/wanjiru/soma/internal/questionbank"
	quizcore "github.com/wanjiru/soma/internal/quiz"
	"github.com/wanjiru/soma/internal/router"
	"github.com/wanjiru/soma/internal/screen"
	"github.com/wanjiru/soma/internal/store"
	"github.com/wanjiru/soma/internal/timeledger"
)

// discardSink satisfies the quiz sink without persisting anything.
type discardSink struct{}

func (discardSink) RecordAnswer(subject string, id int, correct bool) {}
func (discardSink) CompleteQuiz(s quizcore.Summary)                   {}

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func specialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

func testPicker(t *testing.T) (*PickerScreen, *progress.Store, *timeledger.Ledger) {
	t.Helper()

	prog := progress.New(store.NewMemory())
	ledger := timeledger.New(nil)

	s := New(questionbank.Mathematics, questionbank.New(nil), prog, discardSink{}, ledger)
	if len(s.pool) == 0 {
		t.Fatal("expected a non-empty question pool")
	}
	return s, prog, ledger
}

func update(t *testing.T, s screen.Screen, msg tea.Msg) (*PickerScreen, tea.Cmd) {
	t.Helper()
	next, cmd := s.Update(msg)
	return next.(*PickerScreen), cmd
}

func TestPickerScreen_Title(t *testing.T) {
	s, _, _ := testPicker(t)
	if s.Title() != "Mathematics Questions" {
		t.Errorf("Title = %q, want %q", s.Title(), "Mathematics Questions")
	}
}

func TestPickerScreen_StartsTimeSession(t *testing.T) {
	s, _, ledger := testPicker(t)
	if !ledger.Active(s.ledgerID) {
		t.Error("expected an active time session after New")
	}
}

func TestPickerScreen_SpaceTogglesSelection(t *testing.T) {
	s, _, _ := testPicker(t)
	first := s.visible[0].ID

	s, _ = update(t, s, keyPress(' '))
	if !s.selected[first] {
		t.Error("expected first question selected after space")
	}

	s, _ = update(t, s, keyPress(' '))
	if s.selected[first] {
		t.Error("expected second space to deselect")
	}
}

func TestPickerScreen_SelectAllAndClear(t *testing.T) {
	s, _, _ := testPicker(t)

	s, _ = update(t, s, keyPress('a'))
	if len(s.selected) != len(s.pool) {
		t.Errorf("selected = %d, want %d", len(s.selected), len(s.pool))
	}

	s, _ = update(t, s, keyPress('c'))
	if len(s.selected) != 0 {
		t.Errorf("selected = %d after clear, want 0", len(s.selected))
	}
}

func TestPickerScreen_EnterWithoutSelectionIsNoop(t *testing.T) {
	s, _, _ := testPicker(t)

	_, cmd := update(t, s, specialKey(tea.KeyEnter))
	if cmd != nil {
		t.Error("expected no command when nothing is selected")
	}
}

func TestPickerScreen_EnterStartsQuizWithSelection(t *testing.T) {
	s, _, _ := testPicker(t)

	s, _ = update(t, s, keyPress(' '))
	s, _ = update(t, s, specialKey(tea.KeyDown))
	s, _ = update(t, s, keyPress(' '))
	_, cmd := update(t, s, specialKey(tea.KeyEnter))
	if cmd == nil {
		t.Fatal("expected a command after Enter with a selection")
	}

	msg, ok := cmd().(router.PushScreenMsg)
	if !ok {
		t.Fatalf("cmd msg = %T, want router.PushScreenMsg", cmd())
	}
	if msg.Screen == nil {
		t.Fatal("expected a pushed screen")
	}
	if msg.Screen.Title() != "Mathematics Quiz" {
		t.Errorf("pushed screen title = %q, want %q", msg.Screen.Title(), "Mathematics Quiz")
	}
}

func TestPickerScreen_SelectionKeepsPoolOrder(t *testing.T) {
	s, _, _ := testPicker(t)

	// Select the second question first, then the first.
	s.selected[s.pool[1].ID] = true
	s.selected[s.pool[0].ID] = true

	got := s.pickSelected()
	if len(got) != 2 {
		t.Fatalf("picked = %d questions, want 2", len(got))
	}
	if got[0].ID != s.pool[0].ID || got[1].ID != s.pool[1].ID {
		t.Errorf("picked order = [%d %d], want pool order [%d %d]",
			got[0].ID, got[1].ID, s.pool[0].ID, s.pool[1].ID)
	}
}

func TestPickerScreen_BookmarkFilter(t *testing.T) {
	prog := progress.New(store.NewMemory())
	ledger := timeledger.New(nil)
	bank := questionbank.New(nil)

	pool := bank.LoadQuiz(questionbank.Mathematics)
	marked := pool[2].ID
	if err := prog.ToggleBookmark(context.Background(), string(questionbank.Mathematics), marked, true); err != nil {
		t.Fatalf("ToggleBookmark: %v", err)
	}

	s := New(questionbank.Mathematics, bank, prog, discardSink{}, ledger)

	s, _ = update(t, s, keyPress('f')) // all -> bookmarked
	if len(s.visible) != 1 {
		t.Fatalf("visible = %d under bookmark filter, want 1", len(s.visible))
	}
	if s.visible[0].ID != marked {
		t.Errorf("visible ID = %d, want %d", s.visible[0].ID, marked)
	}
}

func TestPickerScreen_WrongFilter(t *testing.T) {
	prog := progress.New(store.NewMemory())
	ledger := timeledger.New(nil)
	bank := questionbank.New(nil)

	pool := bank.LoadQuiz(questionbank.Mathematics)
	missed := pool[1].ID
	if err := prog.RecordAnswer(context.Background(), string(questionbank.Mathematics), missed, false); err != nil {
		t.Fatalf("RecordAnswer: %v", err)
	}

	s := New(questionbank.Mathematics, bank, prog, discardSink{}, ledger)

	s, _ = update(t, s, keyPress('f')) // all -> bookmarked
	s, _ = update(t, s, keyPress('f')) // bookmarked -> needs review
	if len(s.visible) != 1 {
		t.Fatalf("visible = %d under needs-review filter, want 1", len(s.visible))
	}
	if s.visible[0].ID != missed {
		t.Errorf("visible ID = %d, want %d", s.visible[0].ID, missed)
	}

	s, _ = update(t, s, keyPress('f')) // needs review -> all
	if len(s.visible) != len(s.pool) {
		t.Errorf("visible = %d back on all, want %d", len(s.visible), len(s.pool))
	}
}

func TestPickerScreen_StartAllUsesVisibleSet(t *testing.T) {
	prog := progress.New(store.NewMemory())
	ledger := timeledger.New(nil)
	bank := questionbank.New(nil)

	pool := bank.LoadQuiz(questionbank.Mathematics)
	if err := prog.ToggleBookmark(context.Background(), string(questionbank.Mathematics), pool[0].ID, true); err != nil {
		t.Fatalf("ToggleBookmark: %v", err)
	}

	s := New(questionbank.Mathematics, bank, prog, discardSink{}, ledger)
	s, _ = update(t, s, keyPress('f')) // bookmarked only

	_, cmd := update(t, s, keyPress('s'))
	if cmd == nil {
		t.Fatal("expected a command after start-all")
	}
	if _, ok := cmd().(router.PushScreenMsg); !ok {
		t.Fatalf("cmd msg = %T, want router.PushScreenMsg", cmd())
	}
}

func TestPickerScreen_CloseEndsTimeSession(t *testing.T) {
	s, _, ledger := testPicker(t)
	id := s.ledgerID

	s.Close()
	if ledger.Active(id) {
		t.Error("expected Close to end the time session")
	}

	// Second close must not panic or double-end.
	s.Close()
}

func TestPickerScreen_KeyHints(t *testing.T) {
	s, _, _ := testPicker(t)
	if len(s.KeyHints()) == 0 {
		t.Error("expected non-empty key hints")
	}
}
