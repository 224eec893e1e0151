package progress

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Outbox decouples state machines from durability: callers enqueue
// merge intents and a single worker goroutine applies them to the
// Store in order. Failed merges are retried a bounded number of times
// and then surfaced through Status rather than silently dropped.
//
// Because one worker drains the queue, intents are applied strictly in
// enqueue order and never overlap with each other.
type Outbox struct {
	store *Store
	log   *zap.Logger

	attempts int
	backoff  time.Duration

	ch chan item
	wg sync.WaitGroup

	mu       sync.Mutex
	enqueued int
	applied  int
	failed   int
	lastErr  error
}

type itemKind int

const (
	itemQuizResult itemKind = iota
	itemStudyDuration
	itemAnswer
)

type item struct {
	kind itemKind

	result  QuizResult    // itemQuizResult
	delta   time.Duration // itemStudyDuration
	subject string        // itemStudyDuration, itemAnswer
	id      int           // itemAnswer
	correct bool          // itemAnswer
}

// OutboxStatus is a point-in-time view of the outbox counters.
type OutboxStatus struct {
	Enqueued int
	Applied  int
	Failed   int
	LastErr  error
}

// OutboxOption configures an Outbox.
type OutboxOption func(*Outbox)

// WithRetry sets the per-item attempt count and the delay between
// attempts. Attempts below 1 are treated as 1.
func WithRetry(attempts int, backoff time.Duration) OutboxOption {
	return func(o *Outbox) {
		if attempts < 1 {
			attempts = 1
		}
		o.attempts = attempts
		o.backoff = backoff
	}
}

// WithOutboxLogger sets the logger. Defaults to a no-op logger.
func WithOutboxLogger(l *zap.Logger) OutboxOption {
	return func(o *Outbox) { o.log = l }
}

// NewOutbox creates an Outbox over the store and starts its worker.
func NewOutbox(store *Store, opts ...OutboxOption) *Outbox {
	o := &Outbox{
		store:    store,
		log:      zap.NewNop(),
		attempts: 3,
		backoff:  250 * time.Millisecond,
		ch:       make(chan item, 64),
	}
	for _, opt := range opts {
		opt(o)
	}

	o.wg.Add(1)
	go o.run()
	return o
}

// CompleteQuiz enqueues a completed quiz for merging.
func (o *Outbox) CompleteQuiz(res QuizResult) {
	o.enqueue(item{kind: itemQuizResult, result: res})
}

// AddStudyDuration enqueues a tracked-time delta for merging.
func (o *Outbox) AddStudyDuration(delta time.Duration, subject string) {
	o.enqueue(item{kind: itemStudyDuration, delta: delta, subject: subject})
}

// RecordAnswer enqueues a per-question answer outcome.
func (o *Outbox) RecordAnswer(subject string, id int, correct bool) {
	o.enqueue(item{kind: itemAnswer, subject: subject, id: id, correct: correct})
}

// Status returns the current counters.
func (o *Outbox) Status() OutboxStatus {
	o.mu.Lock()
	defer o.mu.Unlock()
	return OutboxStatus{
		Enqueued: o.enqueued,
		Applied:  o.applied,
		Failed:   o.failed,
		LastErr:  o.lastErr,
	}
}

// Close stops accepting intents, drains the queue, and waits for the
// worker to finish.
func (o *Outbox) Close() {
	close(o.ch)
	o.wg.Wait()
}

func (o *Outbox) enqueue(it item) {
	o.mu.Lock()
	o.enqueued++
	o.mu.Unlock()
	o.ch <- it
}

func (o *Outbox) run() {
	defer o.wg.Done()
	for it := range o.ch {
		err := o.applyWithRetry(it)

		o.mu.Lock()
		if err != nil {
			o.failed++
			o.lastErr = err
		} else {
			o.applied++
		}
		o.mu.Unlock()

		if err != nil {
			o.log.Warn("outbox merge failed after retries",
				zap.Int("kind", int(it.kind)),
				zap.Error(err))
		}
	}
}

func (o *Outbox) applyWithRetry(it item) error {
	var err error
	for attempt := 0; attempt < o.attempts; attempt++ {
		if attempt > 0 {
			time.Sleep(o.backoff)
		}
		if err = o.apply(it); err == nil {
			return nil
		}
	}
	return err
}

func (o *Outbox) apply(it item) error {
	ctx := context.Background()
	switch it.kind {
	case itemQuizResult:
		return o.store.CompleteQuiz(ctx, it.result)
	case itemStudyDuration:
		return o.store.AddStudyDuration(ctx, it.delta, it.subject)
	case itemAnswer:
		return o.store.RecordAnswer(ctx, it.subject, it.id, it.correct)
	}
	return nil
}
