package domain

// Answer is one submitted value for one question. It is an immutable
// fact; whether it is correct depends on the question's live accepted
// set at the moment of asking.
type Answer struct {
	// Question is the question this answer was submitted to.
	Question *Question
	// Value is the submitted text, matched verbatim against the
	// accepted set.
	Value string
}

// NewAnswer records an answer against a question and registers it in
// the question's tally history.
func NewAnswer(question *Question, value string) *Answer {
	a := &Answer{Question: question, Value: value}
	if question != nil {
		question.answers = append(question.answers, a)
	}
	return a
}

// IsCorrect reports whether the value is in the question's current
// accepted set. Recomputed on every call so answer-key edits change
// historical scores.
func (a *Answer) IsCorrect() bool {
	return a.Question.IsCorrectAnswer(a.Value)
}
