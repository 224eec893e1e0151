// Package quiz drives a single quiz attempt: question sequence,
// answer submission, scoring and completion. Durable side effects go
// through a Sink so the state machine itself never blocks on storage.
package quiz

import (
	"errors"
	"time"

	"github.com/wanjiru/soma/internal/questionbank"
)

// Phase is the lifecycle state of a quiz session.
type Phase int

const (
	PhaseIdle       Phase = iota // no questions loaded
	PhaseInProgress              // answering questions
	PhaseComplete                // all questions answered, summary emitted
)

var (
	// ErrNoQuestions is returned by Load for an empty question set.
	ErrNoQuestions = errors.New("quiz: no questions loaded")

	// ErrNotAnswered is returned by Next when the current question has
	// no submitted answer. Skipping without answering is not allowed.
	ErrNotAnswered = errors.New("quiz: current question not answered")
)

// fallbackSubject tags sessions whose questions carry no subject.
const fallbackSubject = "Unknown"

// Summary is the outcome of a completed attempt, handed to the Sink
// exactly once per session.
type Summary struct {
	Subject    string
	Score      int
	Total      int
	Duration   time.Duration
	FinishedAt time.Time
}

// Sink receives the session's durable intents. Implementations are
// expected to be asynchronous and never fail the caller; the progress
// outbox satisfies this.
type Sink interface {
	RecordAnswer(subject string, id int, correct bool)
	CompleteQuiz(s Summary)
}

// Session is the in-memory state of one quiz attempt. It is owned by a
// single caller (the active quiz screen) and is not safe for
// concurrent use.
type Session struct {
	questions       []questionbank.Question
	index           int
	score           int
	selectedAnswers []string
	answered        bool
	currentSelected string
	phase           Phase
	start           time.Time

	sink Sink
	now  func() time.Time
}

// Option configures a Session.
type Option func(*Session)

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// NewSession creates an idle session. A nil sink discards all intents.
func NewSession(sink Sink, opts ...Option) *Session {
	s := &Session{
		sink:  sink,
		now:   time.Now,
		phase: PhaseIdle,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Load starts a fresh attempt over the given questions, which the
// caller has already selected and shuffled. Any previous in-memory
// state is discarded.
func (s *Session) Load(questions []questionbank.Question) error {
	if len(questions) == 0 {
		return ErrNoQuestions
	}

	s.questions = questions
	s.index = 0
	s.score = 0
	s.selectedAnswers = nil
	s.answered = false
	s.currentSelected = ""
	s.phase = PhaseInProgress
	s.start = s.now()
	return nil
}

// Submit records the learner's answer for the current question. A
// second call before Next is a silent no-op, so a double tap cannot
// change the recorded selection or the score.
func (s *Session) Submit(selected string) {
	if s.phase != PhaseInProgress || s.answered {
		return
	}

	q := s.questions[s.index]
	correct := q.Answer == selected

	if correct {
		s.score++
	}
	s.selectedAnswers = append(s.selectedAnswers, selected)
	s.currentSelected = selected
	s.answered = true

	if s.sink != nil {
		s.sink.RecordAnswer(s.subject(), q.ID, correct)
	}
}

// Next advances past the current question. It requires a submitted
// answer; otherwise it returns ErrNotAnswered and changes nothing.
// Moving past the last question completes the session and emits the
// summary through the Sink.
func (s *Session) Next() error {
	if s.phase != PhaseInProgress {
		return nil
	}
	if !s.answered {
		return ErrNotAnswered
	}

	s.index++
	s.answered = false
	s.currentSelected = ""

	if s.index >= len(s.questions) {
		s.phase = PhaseComplete
		if s.sink != nil {
			now := s.now()
			s.sink.CompleteQuiz(Summary{
				Subject:    s.subject(),
				Score:      s.score,
				Total:      len(s.questions),
				Duration:   now.Sub(s.start),
				FinishedAt: now,
			})
		}
	}
	return nil
}

// Reset discards all in-memory state and returns to idle. An
// in-progress attempt is abandoned without any record; completion must
// already have happened through Next.
func (s *Session) Reset() {
	s.questions = nil
	s.index = 0
	s.score = 0
	s.selectedAnswers = nil
	s.answered = false
	s.currentSelected = ""
	s.phase = PhaseIdle
	s.start = time.Time{}
}

// Current returns the question awaiting an answer, or nil when idle or
// complete.
func (s *Session) Current() *questionbank.Question {
	if s.phase != PhaseInProgress || s.index >= len(s.questions) {
		return nil
	}
	return &s.questions[s.index]
}

// Phase returns the session's lifecycle state.
func (s *Session) Phase() Phase { return s.phase }

// Complete reports whether the attempt has finished.
func (s *Session) Complete() bool { return s.phase == PhaseComplete }

// Index returns the zero-based position of the current question.
func (s *Session) Index() int { return s.index }

// Total returns the number of questions in the attempt.
func (s *Session) Total() int { return len(s.questions) }

// Score returns the number of correct answers so far.
func (s *Session) Score() int { return s.score }

// Answered reports whether the current question has a submitted answer.
func (s *Session) Answered() bool { return s.answered }

// Selected returns the answer submitted for the current question, or
// "" if none yet.
func (s *Session) Selected() string { return s.currentSelected }

// Answers returns the submitted answers in question order.
func (s *Session) Answers() []string { return s.selectedAnswers }

// Progress returns completion as a fraction in [0, 1].
func (s *Session) Progress() float64 {
	if len(s.questions) == 0 {
		return 0
	}
	return float64(s.index) / float64(len(s.questions))
}

// Elapsed returns time since the attempt started, 0 when idle.
func (s *Session) Elapsed() time.Duration {
	if s.phase == PhaseIdle {
		return 0
	}
	return s.now().Sub(s.start)
}

func (s *Session) subject() string {
	if len(s.questions) > 0 && s.questions[0].Subject != "" {
		return string(s.questions[0].Subject)
	}
	return fallbackSubject
}
