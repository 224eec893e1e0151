// Package timeledger tracks named intervals of study activity. Several
// sessions can run at once (a screen-level one and a quiz-level one,
// for example); each can pause and resume independently, and all of
// them react to app foreground/background transitions so that time
// away from the app is never counted.
package timeledger

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// MinFlush is the minimum net duration a session must reach for its
// time to be flushed into progress. Shorter sessions are discarded.
const MinFlush = time.Second

// Kind categorizes what a session is timing.
type Kind string

const (
	KindScreen Kind = "screen"
	KindQuiz   Kind = "quiz"
	KindNotes  Kind = "notes"
)

// AppState mirrors the app-lifecycle broadcast the ledger subscribes to.
type AppState int

const (
	StateActive AppState = iota
	StateInactive
	StateBackground
)

// Sink receives net elapsed durations when sessions end. The progress
// outbox satisfies this.
type Sink interface {
	AddStudyDuration(delta time.Duration, subject string)
}

// session is one live tracked interval. Never persisted; only its net
// duration survives, via the sink.
type session struct {
	id         string
	subject    string
	kind       Kind
	startTime  time.Time
	pausedTime time.Duration
	lastPause  time.Time // zero when running
}

// Info is a read-only view of an active session.
type Info struct {
	ID      string
	Subject string
	Kind    Kind
	Paused  bool
}

// Ledger is the registry of active time sessions. Create one at app
// start and inject it into every consumer; it is safe for concurrent
// use.
type Ledger struct {
	mu       sync.Mutex
	sessions map[string]*session

	sink Sink
	log  *zap.Logger
	now  func() time.Time
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(ld *Ledger) { ld.log = l }
}

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(ld *Ledger) { ld.now = now }
}

// New creates a Ledger flushing into sink. A nil sink discards all
// durations.
func New(sink Sink, opts ...Option) *Ledger {
	ld := &Ledger{
		sessions: make(map[string]*session),
		sink:     sink,
		log:      zap.NewNop(),
		now:      time.Now,
	}
	for _, o := range opts {
		o(ld)
	}
	return ld
}

// Start begins tracking under id. If a session with the same id is
// already active it is ended (and flushed) first, so a caller that
// restarts tracking without explicit teardown never double-counts.
func (ld *Ledger) Start(id, subject string, kind Kind) {
	ld.mu.Lock()

	var (
		prevDur     time.Duration
		prevSubject string
		flush       bool
	)
	if _, exists := ld.sessions[id]; exists {
		prevDur, prevSubject, flush = ld.endLocked(id)
	}

	ld.sessions[id] = &session{
		id:        id,
		subject:   subject,
		kind:      kind,
		startTime: ld.now(),
	}
	ld.mu.Unlock()

	if flush {
		ld.sink.AddStudyDuration(prevDur, prevSubject)
	}
}

// Pause stops the clock for id. No-op if the session is absent or
// already paused.
func (ld *Ledger) Pause(id string) {
	ld.mu.Lock()
	defer ld.mu.Unlock()

	s := ld.sessions[id]
	if s != nil && s.lastPause.IsZero() {
		s.lastPause = ld.now()
	}
}

// Resume restarts the clock for id, folding the pause interval into
// the session's paused time. No-op if absent or not paused.
func (ld *Ledger) Resume(id string) {
	ld.mu.Lock()
	defer ld.mu.Unlock()

	s := ld.sessions[id]
	if s != nil && !s.lastPause.IsZero() {
		s.pausedTime += ld.now().Sub(s.lastPause)
		s.lastPause = time.Time{}
	}
}

// End removes the session and returns its net elapsed duration. When
// the duration exceeds MinFlush and the session has a subject, it is
// handed to the sink; otherwise it is discarded. Returns 0 for an
// unknown id.
func (ld *Ledger) End(id string) time.Duration {
	ld.mu.Lock()
	dur, subject, flush := ld.endLocked(id)
	ld.mu.Unlock()

	if flush {
		ld.sink.AddStudyDuration(dur, subject)
	}
	return dur
}

// endLocked removes the session and decides whether its duration gets
// flushed. The sink call itself happens outside the mutex: the outbox
// send can block when its queue is full, and that must never stall
// other ledger operations.
func (ld *Ledger) endLocked(id string) (dur time.Duration, subject string, flush bool) {
	s := ld.sessions[id]
	if s == nil {
		return 0, "", false
	}
	delete(ld.sessions, id)

	dur = ld.netElapsed(s)
	if dur > MinFlush && s.subject != "" && ld.sink != nil {
		return dur, s.subject, true
	}
	ld.log.Debug("discarding insignificant session",
		zap.String("id", id),
		zap.Duration("duration", dur))
	return dur, "", false
}

// Duration returns the current net elapsed duration for id, without
// side effects. Returns 0 for an unknown id.
func (ld *Ledger) Duration(id string) time.Duration {
	ld.mu.Lock()
	defer ld.mu.Unlock()

	s := ld.sessions[id]
	if s == nil {
		return 0
	}
	return ld.netElapsed(s)
}

// Active reports whether a session with id is being tracked.
func (ld *Ledger) Active(id string) bool {
	ld.mu.Lock()
	defer ld.mu.Unlock()
	_, ok := ld.sessions[id]
	return ok
}

// Sessions returns a snapshot of all active sessions.
func (ld *Ledger) Sessions() []Info {
	ld.mu.Lock()
	defer ld.mu.Unlock()

	out := make([]Info, 0, len(ld.sessions))
	for _, s := range ld.sessions {
		out = append(out, Info{
			ID:      s.id,
			Subject: s.subject,
			Kind:    s.kind,
			Paused:  !s.lastPause.IsZero(),
		})
	}
	return out
}

// HandleAppState reacts to the app-lifecycle broadcast: leaving the
// foreground pauses every running session, returning to it resumes
// every paused one. Wall-clock time outside the foreground therefore
// never counts as study time.
func (ld *Ledger) HandleAppState(state AppState) {
	ld.mu.Lock()
	defer ld.mu.Unlock()

	now := ld.now()
	switch state {
	case StateBackground, StateInactive:
		for _, s := range ld.sessions {
			if s.lastPause.IsZero() {
				s.lastPause = now
			}
		}
	case StateActive:
		for _, s := range ld.sessions {
			if !s.lastPause.IsZero() {
				s.pausedTime += now.Sub(s.lastPause)
				s.lastPause = time.Time{}
			}
		}
	}
}

// netElapsed computes wall time since start minus accumulated pauses,
// including a still-open pause interval. Never negative.
func (ld *Ledger) netElapsed(s *session) time.Duration {
	now := ld.now()
	dur := now.Sub(s.startTime) - s.pausedTime
	if !s.lastPause.IsZero() {
		dur -= now.Sub(s.lastPause)
	}
	if dur < 0 {
		return 0
	}
	return dur
}
