// Package progress owns the single durable record of a learner's
// cumulative quiz and study-time history. All other packages read
// snapshots of it and submit deltas back through the Store; nothing
// else writes the record.
package progress

import (
	"fmt"
	"strconv"
	"strings"
)

// Key is the single blob-store key under which the record lives.
const Key = "soma:progress"

// SessionRecord is one completed quiz attempt. Immutable once appended.
type SessionRecord struct {
	Subject    string `json:"subject"`
	Score      int    `json:"score"`
	Total      int    `json:"total"`
	Date       string `json:"date"` // RFC3339
	DurationMs int64  `json:"durationMs,omitempty"`
}

// Record is the persisted aggregate, one per installation.
//
// Bookmarks and Wrong are keyed "subject:questionID". Wrong counts the
// current unbroken streak of misses on a question; a correct answer
// deletes the entry.
type Record struct {
	QuizzesTaken            int              `json:"quizzesTaken"`
	TotalScore              int              `json:"totalScore"`
	Sessions                []SessionRecord  `json:"sessions"`
	TotalDurationMs         int64            `json:"totalDurationMs"`
	TodayDurationMs         int64            `json:"todayDurationMs"`
	TodayDate               string           `json:"todayDate,omitempty"` // local YYYY-MM-DD anchor for the today buckets
	PerSubjectDuration      map[string]int64 `json:"perSubjectDuration"`
	PerSubjectTodayDuration map[string]int64 `json:"perSubjectTodayDuration"`
	Bookmarks               map[string]bool  `json:"bookmarks"`
	Wrong                   map[string]int   `json:"wrong"`
}

// NewRecord returns a default-initialized record: all counters zero,
// all collections empty.
func NewRecord() Record {
	return Record{
		Sessions:                []SessionRecord{},
		PerSubjectDuration:      map[string]int64{},
		PerSubjectTodayDuration: map[string]int64{},
		Bookmarks:               map[string]bool{},
		Wrong:                   map[string]int{},
	}
}

// normalize repairs nil collections after JSON decoding so that merge
// helpers never have to nil-check maps.
func (r *Record) normalize() {
	if r.Sessions == nil {
		r.Sessions = []SessionRecord{}
	}
	if r.PerSubjectDuration == nil {
		r.PerSubjectDuration = map[string]int64{}
	}
	if r.PerSubjectTodayDuration == nil {
		r.PerSubjectTodayDuration = map[string]int64{}
	}
	if r.Bookmarks == nil {
		r.Bookmarks = map[string]bool{}
	}
	if r.Wrong == nil {
		r.Wrong = map[string]int{}
	}
}

// QuestionKey builds the "subject:id" key used by Bookmarks and Wrong.
func QuestionKey(subject string, id int) string {
	return fmt.Sprintf("%s:%d", subject, id)
}

// splitQuestionKey returns the subject and question id encoded in key.
// The id is everything after the last colon, so subjects containing
// colons still round-trip.
func splitQuestionKey(key string) (subject string, id int, ok bool) {
	i := strings.LastIndex(key, ":")
	if i < 0 {
		return "", 0, false
	}
	id, err := strconv.Atoi(key[i+1:])
	if err != nil {
		return "", 0, false
	}
	return key[:i], id, true
}
