package domain

// Question is a single quiz question inside a section. Its accepted
// answers are editable at any time; scores always reflect the current
// set because correctness is recomputed on demand, never cached.
type Question struct {
	// Name is the prompt text from the header row. May be empty.
	Name string

	section *Section

	// correctAnswers keeps insertion order for deterministic side-file
	// output but behaves as a set: duplicates collapse on add.
	correctAnswers []string

	// answers holds every answer ever submitted to this question, for
	// tallying.
	answers []*Answer
}

// NewQuestion creates a question with the given prompt and accepted
// answers (duplicates collapse).
func NewQuestion(name string, correctAnswers ...string) *Question {
	q := &Question{Name: name}
	q.SetCorrectAnswers(correctAnswers)
	return q
}

// Section returns the section this question belongs to, or nil.
func (q *Question) Section() *Section { return q.section }

// NumberInSection returns the 1-based position of the question within
// its section, or 0 when it has no section.
func (q *Question) NumberInSection() int {
	if q.section == nil {
		return 0
	}
	for i, other := range q.section.questions {
		if other == q {
			return i + 1
		}
	}
	return 0
}

// CorrectAnswers returns a copy of the accepted answers in insertion
// order.
func (q *Question) CorrectAnswers() []string {
	out := make([]string, len(q.correctAnswers))
	copy(out, q.correctAnswers)
	return out
}

// SetCorrectAnswers replaces the accepted-answer set. Duplicates in the
// input collapse, keeping the first occurrence's position.
func (q *Question) SetCorrectAnswers(answers []string) {
	q.correctAnswers = q.correctAnswers[:0]
	for _, answer := range answers {
		q.AddCorrectAnswer(answer)
	}
}

// AddCorrectAnswer adds one accepted answer. Adding an answer that is
// already accepted is a no-op.
func (q *Question) AddCorrectAnswer(answer string) {
	if q.IsCorrectAnswer(answer) {
		return
	}
	q.correctAnswers = append(q.correctAnswers, answer)
}

// RemoveCorrectAnswer removes one accepted answer if present.
func (q *Question) RemoveCorrectAnswer(answer string) {
	for i, existing := range q.correctAnswers {
		if existing == answer {
			q.correctAnswers = append(q.correctAnswers[:i], q.correctAnswers[i+1:]...)
			return
		}
	}
}

// IsCorrectAnswer reports whether value is in the current accepted set.
func (q *Question) IsCorrectAnswer(value string) bool {
	for _, answer := range q.correctAnswers {
		if answer == value {
			return true
		}
	}
	return false
}

// Answers returns every answer submitted to this question.
func (q *Question) Answers() []*Answer { return q.answers }

// FractionCorrect returns the fraction of submitted answers that are
// correct under the current accepted set. Zero when nothing was
// submitted.
func (q *Question) FractionCorrect() float64 {
	if len(q.answers) == 0 {
		return 0
	}
	correct := 0
	for _, answer := range q.answers {
		if answer.IsCorrect() {
			correct++
		}
	}
	return float64(correct) / float64(len(q.answers))
}

// AnswerTally maps every distinct submitted value to how often it was
// submitted. Currently accepted answers are always present, at count 0
// when never submitted, so the answer key stays visible even without
// responses.
func (q *Question) AnswerTally() map[string]int {
	tally := make(map[string]int, len(q.correctAnswers)+len(q.answers))
	for _, correct := range q.correctAnswers {
		tally[correct] = 0
	}
	for _, answer := range q.answers {
		tally[answer.Value]++
	}
	return tally
}
