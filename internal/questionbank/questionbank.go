// Package questionbank loads the bundled question and notes content.
// Content ships inside the binary; a load failure for a subject yields
// an empty slice and a log line, never an error to the caller.
package questionbank

import (
	"embed"
	"encoding/json"
	"fmt"
	"math/rand/v2"

	"go.uber.org/zap"
)

//go:embed data
var dataFS embed.FS

// MaxQuizQuestions caps how many questions a single quiz draws.
const MaxQuizQuestions = 15

// Subject is a top-level content category.
type Subject string

const (
	Mathematics     Subject = "Mathematics"
	English         Subject = "English"
	Physics         Subject = "Physics"
	MachineLearning Subject = "Machine Learning"
)

// Subjects returns all bundled subjects in display order.
func Subjects() []Subject {
	return []Subject{Mathematics, English, Physics, MachineLearning}
}

// ParseSubject resolves a user-supplied subject name, accepting the
// short aliases used on the command line.
func ParseSubject(s string) (Subject, error) {
	switch s {
	case "Mathematics", "mathematics", "math":
		return Mathematics, nil
	case "English", "english":
		return English, nil
	case "Physics", "physics":
		return Physics, nil
	case "Machine Learning", "machine-learning", "ml":
		return MachineLearning, nil
	}
	return "", fmt.Errorf("unknown subject %q (try math, english, physics, ml)", s)
}

// Question is one multiple-choice question. Immutable; the Subject tag
// is stamped on load.
type Question struct {
	ID          int      `json:"id"`
	Question    string   `json:"question"`
	Options     []string `json:"options"`
	Answer      string   `json:"answer"`
	Topic       string   `json:"topic,omitempty"`
	Difficulty  string   `json:"difficulty,omitempty"`
	Explanation string   `json:"explanation,omitempty"`
	Subject     Subject  `json:"-"`
}

// Lesson is one study-notes entry.
type Lesson struct {
	ID       int      `json:"id,omitempty"`
	Title    string   `json:"title"`
	Content  string   `json:"content"`
	Examples []string `json:"examples,omitempty"`
	Steps    []string `json:"steps,omitempty"`
}

// notesFile is the on-disk notes shape: lessons grouped by level.
type notesFile struct {
	Subject string              `json:"subject,omitempty"`
	Levels  map[string][]Lesson `json:"levels"`
}

// levelOrder fixes the flattening order of the notes levels.
var levelOrder = []string{"Beginner", "Intermediate", "Advanced"}

var quizFiles = map[Subject]string{
	Mathematics:     "data/math.json",
	English:         "data/english.json",
	Physics:         "data/physics.json",
	MachineLearning: "data/ml.json",
}

var notesFiles = map[Subject]string{
	Mathematics:     "data/notes/math_notes.json",
	English:         "data/notes/english_notes.json",
	Physics:         "data/notes/physics_notes.json",
	MachineLearning: "data/notes/ml_notes.json",
}

// Bank serves quiz questions and notes for the bundled subjects.
type Bank struct {
	log *zap.Logger
}

// New creates a Bank. A nil logger is replaced with a no-op one.
func New(log *zap.Logger) *Bank {
	if log == nil {
		log = zap.NewNop()
	}
	return &Bank{log: log}
}

// LoadQuiz returns all questions for subject, each stamped with the
// subject tag. Returns an empty slice on any failure.
func (b *Bank) LoadQuiz(subject Subject) []Question {
	path, ok := quizFiles[subject]
	if !ok {
		return []Question{}
	}

	raw, err := dataFS.ReadFile(path)
	if err != nil {
		b.log.Warn("read question file failed",
			zap.String("subject", string(subject)), zap.Error(err))
		return []Question{}
	}

	if err := validateQuestions(raw); err != nil {
		b.log.Warn("question file failed schema validation",
			zap.String("subject", string(subject)), zap.Error(err))
		return []Question{}
	}

	var questions []Question
	if err := json.Unmarshal(raw, &questions); err != nil {
		b.log.Warn("decode question file failed",
			zap.String("subject", string(subject)), zap.Error(err))
		return []Question{}
	}

	out := questions[:0]
	for _, q := range questions {
		if !containsOption(q.Options, q.Answer) {
			b.log.Warn("dropping question whose answer is not among its options",
				zap.String("subject", string(subject)), zap.Int("id", q.ID))
			continue
		}
		q.Subject = subject
		out = append(out, q)
	}
	return out
}

// LoadNotes returns the flattened lessons for subject, Beginner level
// first. Returns an empty slice on any failure.
func (b *Bank) LoadNotes(subject Subject) []Lesson {
	path, ok := notesFiles[subject]
	if !ok {
		return []Lesson{}
	}

	raw, err := dataFS.ReadFile(path)
	if err != nil {
		b.log.Warn("read notes file failed",
			zap.String("subject", string(subject)), zap.Error(err))
		return []Lesson{}
	}

	var nf notesFile
	if err := json.Unmarshal(raw, &nf); err != nil {
		b.log.Warn("decode notes file failed",
			zap.String("subject", string(subject)), zap.Error(err))
		return []Lesson{}
	}

	lessons := []Lesson{}
	seen := map[string]bool{}
	for _, lvl := range levelOrder {
		lessons = append(lessons, nf.Levels[lvl]...)
		seen[lvl] = true
	}
	// Any nonstandard level names go last.
	for lvl, extra := range nf.Levels {
		if !seen[lvl] {
			lessons = append(lessons, extra...)
		}
	}
	return lessons
}

// Pick samples up to n questions (capped at MaxQuizQuestions) in
// random order without repeats. The input slice is not modified.
func Pick(questions []Question, n int) []Question {
	if n <= 0 || n > MaxQuizQuestions {
		n = MaxQuizQuestions
	}
	if n > len(questions) {
		n = len(questions)
	}

	shuffled := make([]Question, len(questions))
	copy(shuffled, questions)
	rand.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	return shuffled[:n]
}

func containsOption(options []string, answer string) bool {
	for _, o := range options {
		if o == answer {
			return true
		}
	}
	return false
}
