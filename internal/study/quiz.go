package study

import (
	"errors"
	"fmt"
)

var (
	ErrQuizSubmitted   = errors.New("quiz already submitted")
	ErrQuizIncomplete  = errors.New("every question needs an answer before submitting")
	ErrUnknownQuestion = errors.New("unknown question")
	ErrInvalidOption   = errors.New("option out of range")
)

// Quiz tracks the answers chosen for one assessment and whether results are shown.
type Quiz struct {
	questions []Question
	answers   map[int]int
	submitted bool
}

// NewQuiz starts an unanswered quiz over questions.
func NewQuiz(questions []Question) *Quiz {
	return &Quiz{
		questions: questions,
		answers:   map[int]int{},
	}
}

// Questions returns the question set in generation order.
func (q *Quiz) Questions() []Question {
	return q.questions
}

// Select records option as the answer for the question with the given id,
// replacing any earlier choice.
func (q *Quiz) Select(questionID, option int) error {
	if q.submitted {
		return ErrQuizSubmitted
	}
	question, ok := q.find(questionID)
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownQuestion, questionID)
	}
	if option < 0 || option >= len(question.Options) {
		return fmt.Errorf("%w: %d", ErrInvalidOption, option)
	}
	q.answers[questionID] = option
	return nil
}

// Answer reports the selected option for a question.
func (q *Quiz) Answer(questionID int) (int, bool) {
	option, ok := q.answers[questionID]
	return option, ok
}

// Answered counts the questions that have a selection. Questions that share
// an id share their answer.
func (q *Quiz) Answered() int {
	n := 0
	for _, question := range q.questions {
		if _, ok := q.answers[question.ID]; ok {
			n++
		}
	}
	return n
}

// CanSubmit is true once every question has an answer.
func (q *Quiz) CanSubmit() bool {
	return !q.submitted && q.Answered() == len(q.questions)
}

// Submit reveals results.
func (q *Quiz) Submit() error {
	if q.submitted {
		return ErrQuizSubmitted
	}
	if !q.CanSubmit() {
		return ErrQuizIncomplete
	}
	q.submitted = true
	return nil
}

// Submitted reports whether results are showing.
func (q *Quiz) Submitted() bool {
	return q.submitted
}

// Score counts questions whose selected option is the correct one.
func (q *Quiz) Score() int {
	score := 0
	for _, question := range q.questions {
		if option, ok := q.answers[question.ID]; ok && option == question.CorrectAnswerIndex {
			score++
		}
	}
	return score
}

// ScoreLabel renders the score the way the results header shows it.
func (q *Quiz) ScoreLabel() string {
	return fmt.Sprintf("%d / %d", q.Score(), len(q.questions))
}

// Reset clears every answer and hides results; the questions are untouched.
func (q *Quiz) Reset() {
	q.answers = map[int]int{}
	q.submitted = false
}

func (q *Quiz) find(id int) (Question, bool) {
	for _, question := range q.questions {
		if question.ID == id {
			return question, true
		}
	}
	return Question{}, false
}
