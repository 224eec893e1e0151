package quiz

import (
	"testing"
	"time"

	"github.com/wanjiru/soma/internal/questionbank"
)

type fakeClock struct {
	t time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2025, 3, 10, 9, 0, 0, 0, time.Local)}
}

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

type recordedAnswer struct {
	subject string
	id      int
	correct bool
}

type captureSink struct {
	answers   []recordedAnswer
	summaries []Summary
}

func (c *captureSink) RecordAnswer(subject string, id int, correct bool) {
	c.answers = append(c.answers, recordedAnswer{subject, id, correct})
}

func (c *captureSink) CompleteQuiz(s Summary) {
	c.summaries = append(c.summaries, s)
}

func threeQuestions() []questionbank.Question {
	return []questionbank.Question{
		{ID: 1, Question: "q1", Options: []string{"A", "X"}, Answer: "A", Subject: questionbank.Physics},
		{ID: 2, Question: "q2", Options: []string{"B", "X"}, Answer: "B", Subject: questionbank.Physics},
		{ID: 3, Question: "q3", Options: []string{"C", "X"}, Answer: "C", Subject: questionbank.Physics},
	}
}

func TestLoad_EmptyFails(t *testing.T) {
	s := NewSession(nil)
	if err := s.Load(nil); err != ErrNoQuestions {
		t.Errorf("Load(nil) = %v, want ErrNoQuestions", err)
	}
	if s.Phase() != PhaseIdle {
		t.Error("failed Load must leave the session idle")
	}
}

func TestFullQuizScenario(t *testing.T) {
	sink := &captureSink{}
	clk := newFakeClock()
	s := NewSession(sink, WithClock(clk.Now))

	if err := s.Load(threeQuestions()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.Phase() != PhaseInProgress || s.Index() != 0 || s.Score() != 0 {
		t.Fatalf("after Load: phase=%v index=%d score=%d", s.Phase(), s.Index(), s.Score())
	}

	// Q1 correct.
	s.Submit("A")
	if s.Score() != 1 || !s.Answered() {
		t.Errorf("after Q1: score=%d answered=%v", s.Score(), s.Answered())
	}
	if err := s.Next(); err != nil {
		t.Fatalf("Next: %v", err)
	}
	if s.Index() != 1 {
		t.Errorf("index = %d, want 1", s.Index())
	}

	// Q2 wrong.
	s.Submit("X")
	if s.Score() != 1 {
		t.Errorf("score after wrong answer = %d, want 1", s.Score())
	}
	if err := s.Next(); err != nil {
		t.Fatalf("Next: %v", err)
	}

	// Q3 correct; completion.
	clk.Advance(95 * time.Second)
	s.Submit("C")
	if err := s.Next(); err != nil {
		t.Fatalf("Next: %v", err)
	}

	if !s.Complete() {
		t.Fatal("expected session complete")
	}
	if s.Current() != nil {
		t.Error("Current must be nil after completion")
	}

	// Answer events in order, with correctness.
	want := []recordedAnswer{
		{"Physics", 1, true},
		{"Physics", 2, false},
		{"Physics", 3, true},
	}
	if len(sink.answers) != len(want) {
		t.Fatalf("answers = %v", sink.answers)
	}
	for i, a := range want {
		if sink.answers[i] != a {
			t.Errorf("answer[%d] = %+v, want %+v", i, sink.answers[i], a)
		}
	}

	// Exactly one summary.
	if len(sink.summaries) != 1 {
		t.Fatalf("summaries = %v, want one", sink.summaries)
	}
	sum := sink.summaries[0]
	if sum.Subject != "Physics" || sum.Score != 2 || sum.Total != 3 {
		t.Errorf("summary = %+v", sum)
	}
	if sum.Duration != 95*time.Second {
		t.Errorf("summary duration = %v, want 95s", sum.Duration)
	}
}

func TestSubmit_DoubleTapIsNoop(t *testing.T) {
	sink := &captureSink{}
	s := NewSession(sink)
	s.Load(threeQuestions())

	s.Submit("A")
	s.Submit("X") // second tap with a different selection

	if s.Score() != 1 {
		t.Errorf("score = %d, want 1", s.Score())
	}
	if s.Selected() != "A" {
		t.Errorf("Selected = %q, want A (first submission wins)", s.Selected())
	}
	if !s.Answered() {
		t.Error("Answered must stay true")
	}
	if len(sink.answers) != 1 {
		t.Errorf("answer events = %d, want 1", len(sink.answers))
	}
}

func TestNext_BeforeSubmitIsIllegal(t *testing.T) {
	s := NewSession(nil)
	s.Load(threeQuestions())

	if err := s.Next(); err != ErrNotAnswered {
		t.Errorf("Next before Submit = %v, want ErrNotAnswered", err)
	}
	if s.Index() != 0 {
		t.Errorf("index = %d, want 0 (unchanged)", s.Index())
	}
}

func TestNext_ClearsPerQuestionState(t *testing.T) {
	s := NewSession(nil)
	s.Load(threeQuestions())

	s.Submit("A")
	s.Next()

	if s.Answered() {
		t.Error("Answered must reset after advancing")
	}
	if s.Selected() != "" {
		t.Errorf("Selected = %q, want empty", s.Selected())
	}
}

func TestNext_AfterCompleteIsNoop(t *testing.T) {
	sink := &captureSink{}
	s := NewSession(sink)
	s.Load([]questionbank.Question{
		{ID: 1, Options: []string{"A", "B"}, Answer: "A", Subject: questionbank.English},
	})
	s.Submit("A")
	s.Next()

	if err := s.Next(); err != nil {
		t.Errorf("Next after complete = %v, want nil no-op", err)
	}
	if len(sink.summaries) != 1 {
		t.Errorf("summaries = %d, want exactly 1", len(sink.summaries))
	}
}

func TestSubmit_WhenIdleIsNoop(t *testing.T) {
	sink := &captureSink{}
	s := NewSession(sink)
	s.Submit("A")
	if len(sink.answers) != 0 {
		t.Error("Submit on idle session must not emit events")
	}
}

func TestReset_AbandonsWithoutRecord(t *testing.T) {
	sink := &captureSink{}
	s := NewSession(sink)
	s.Load(threeQuestions())
	s.Submit("A")

	s.Reset()

	if s.Phase() != PhaseIdle || s.Total() != 0 || s.Score() != 0 {
		t.Errorf("after Reset: phase=%v total=%d score=%d", s.Phase(), s.Total(), s.Score())
	}
	if len(sink.summaries) != 0 {
		t.Error("abandoning an attempt must not persist a session record")
	}
}

func TestSubject_FallsBackToUnknown(t *testing.T) {
	sink := &captureSink{}
	s := NewSession(sink)
	s.Load([]questionbank.Question{
		{ID: 9, Options: []string{"A", "B"}, Answer: "A"},
	})
	s.Submit("B")

	if len(sink.answers) != 1 || sink.answers[0].subject != "Unknown" {
		t.Errorf("answers = %v, want subject Unknown", sink.answers)
	}
}

func TestProgress(t *testing.T) {
	s := NewSession(nil)
	if s.Progress() != 0 {
		t.Error("idle progress should be 0")
	}
	s.Load(threeQuestions())
	s.Submit("A")
	s.Next()
	if got := s.Progress(); got < 0.33 || got > 0.34 {
		t.Errorf("Progress = %v, want ~1/3", got)
	}
}
