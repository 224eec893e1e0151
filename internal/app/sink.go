package app

import (
	"github.com/wanjiru/soma/internal/progress"
	"github.com/wanjiru/soma/internal/quiz"
)

// outboxSink adapts the progress outbox to the quiz session's sink
// interface, converting the session summary to a persistence request.
type outboxSink struct {
	out *progress.Outbox
}

var _ quiz.Sink = outboxSink{}

func (s outboxSink) RecordAnswer(subject string, id int, correct bool) {
	s.out.RecordAnswer(subject, id, correct)
}

func (s outboxSink) CompleteQuiz(sum quiz.Summary) {
	s.out.CompleteQuiz(progress.QuizResult{
		Subject:    sum.Subject,
		Score:      sum.Score,
		Total:      sum.Total,
		Duration:   sum.Duration,
		FinishedAt: sum.FinishedAt,
	})
}
