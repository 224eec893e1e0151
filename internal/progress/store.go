package progress

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/wanjiru/soma/internal/store"
	"github.com/wanjiru/soma/internal/timeutil"
)

// Store reads and writes the progress Record through a blob store.
//
// Every mutation is a load → modify → save under one mutex, so two
// in-flight merges can never clobber each other's fields. Storage
// failures degrade to best-effort in-memory state: loads default,
// saves log and report, nothing is fatal.
type Store struct {
	blob store.Blob
	log  *zap.Logger
	now  func() time.Time

	mu sync.Mutex // held across each load-modify-save cycle
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Store) { s.log = l }
}

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// New creates a Store over the given blob.
func New(blob store.Blob, opts ...Option) *Store {
	s := &Store{
		blob: blob,
		log:  zap.NewNop(),
		now:  time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Load returns the current record, or a default-initialized one if no
// record exists or the stored blob fails to parse. Malformed data is
// treated as absence, never as an error.
func (s *Store) Load(ctx context.Context) Record {
	raw, ok, err := s.blob.Get(ctx, Key)
	if err != nil {
		s.log.Warn("load progress failed, using defaults", zap.Error(err))
		return NewRecord()
	}
	if !ok {
		return NewRecord()
	}

	var rec Record
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		s.log.Warn("stored progress is malformed, using defaults", zap.Error(err))
		return NewRecord()
	}
	rec.normalize()
	return rec
}

// Save persists the record. Failures are logged and returned as a
// non-fatal signal; the caller proceeds with in-memory state.
func (s *Store) Save(ctx context.Context, rec Record) error {
	raw, err := json.Marshal(rec)
	if err != nil {
		s.log.Warn("encode progress failed", zap.Error(err))
		return fmt.Errorf("encode progress: %w", err)
	}
	if err := s.blob.Set(ctx, Key, string(raw)); err != nil {
		s.log.Warn("save progress failed", zap.Error(err))
		return fmt.Errorf("save progress: %w", err)
	}
	return nil
}

// Reset deletes the record entirely.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.blob.Remove(ctx, Key); err != nil {
		s.log.Warn("reset progress failed", zap.Error(err))
		return fmt.Errorf("reset progress: %w", err)
	}
	return nil
}

// mutate runs fn inside a serialized load-modify-save cycle. The today
// buckets are rolled over before fn sees the record, so every mutating
// write observes the current calendar day.
func (s *Store) mutate(ctx context.Context, fn func(*Record)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := s.Load(ctx)
	s.rollToday(&rec)
	fn(&rec)
	return s.Save(ctx, rec)
}

// rollToday resets the today buckets the first time a write happens on
// a new local calendar day.
func (s *Store) rollToday(rec *Record) {
	today := timeutil.DateString(s.now())
	if rec.TodayDate == today {
		return
	}
	rec.TodayDate = today
	rec.TodayDurationMs = 0
	rec.PerSubjectTodayDuration = map[string]int64{}
}

// ToggleBookmark sets or clears the bookmark for (subject, id).
func (s *Store) ToggleBookmark(ctx context.Context, subject string, id int, on bool) error {
	return s.mutate(ctx, func(rec *Record) {
		key := QuestionKey(subject, id)
		if on {
			rec.Bookmarks[key] = true
		} else {
			delete(rec.Bookmarks, key)
		}
	})
}

// IsBookmarked reports whether (subject, id) is bookmarked.
func (s *Store) IsBookmarked(ctx context.Context, subject string, id int) bool {
	rec := s.Load(ctx)
	return rec.Bookmarks[QuestionKey(subject, id)]
}

// RecordAnswer tracks the wrong-streak for a question: an incorrect
// answer increments it, a correct answer deletes the entry entirely.
func (s *Store) RecordAnswer(ctx context.Context, subject string, id int, correct bool) error {
	return s.mutate(ctx, func(rec *Record) {
		key := QuestionKey(subject, id)
		if correct {
			delete(rec.Wrong, key)
		} else {
			rec.Wrong[key]++
		}
	})
}

// WrongForSubject returns the ids of questions in subject with an
// active wrong-streak, sorted ascending.
func (s *Store) WrongForSubject(ctx context.Context, subject string) []int {
	rec := s.Load(ctx)

	var ids []int
	for key := range rec.Wrong {
		sub, id, ok := splitQuestionKey(key)
		if ok && sub == subject {
			ids = append(ids, id)
		}
	}
	sort.Ints(ids)
	return ids
}

// AddStudyDuration folds a tracked time delta into the duration totals.
// Non-positive deltas are ignored; oversized ones are clamped. An empty
// subject updates only the global totals.
func (s *Store) AddStudyDuration(ctx context.Context, delta time.Duration, subject string) error {
	if delta <= 0 {
		return nil
	}
	delta = timeutil.Sanitize(delta)

	return s.mutate(ctx, func(rec *Record) {
		ms := delta.Milliseconds()
		rec.TotalDurationMs += ms
		rec.TodayDurationMs += ms
		if subject != "" {
			rec.PerSubjectDuration[subject] += ms
			rec.PerSubjectTodayDuration[subject] += ms
		}
	})
}

// QuizResult is the outcome of one completed quiz attempt, handed to
// CompleteQuiz by the quiz state machine.
type QuizResult struct {
	Subject    string
	Score      int
	Total      int
	Duration   time.Duration
	FinishedAt time.Time
}

// CompleteQuiz merges a finished quiz into the record: bumps the
// aggregate counters and appends one session entry. Duration totals,
// bookmarks and the wrong map are owned by other operations and pass
// through untouched. The merge always runs against the freshest load.
func (s *Store) CompleteQuiz(ctx context.Context, res QuizResult) error {
	if res.Total <= 0 {
		return fmt.Errorf("quiz result: total must be positive, got %d", res.Total)
	}
	if res.Score < 0 || res.Score > res.Total {
		return fmt.Errorf("quiz result: score %d out of range [0, %d]", res.Score, res.Total)
	}

	finished := res.FinishedAt
	if finished.IsZero() {
		finished = s.now()
	}

	return s.mutate(ctx, func(rec *Record) {
		rec.QuizzesTaken++
		rec.TotalScore += res.Score
		rec.Sessions = append(rec.Sessions, SessionRecord{
			Subject:    res.Subject,
			Score:      res.Score,
			Total:      res.Total,
			Date:       finished.Format(time.RFC3339),
			DurationMs: timeutil.Sanitize(res.Duration).Milliseconds(),
		})
	})
}
