package domain

// Response is one team's single submission event to one section: a
// timestamp, the team that submitted, and one answer per question in
// section order. A team may submit more than once to the same section;
// only the earliest submission counts for scoring.
type Response struct {
	// Timestamp is the raw timestamp cell, treated as an opaque
	// sortable key.
	Timestamp string
	// Team points into the quiz's team registry (or a section-local
	// team when the section has no quiz).
	Team *Team
	// Answers are aligned 1:1 with the section's questions.
	Answers []*Answer
}

// Score counts the answers that are correct under the current answer
// key. Never cached.
func (r *Response) Score() int {
	score := 0
	for _, answer := range r.Answers {
		if answer.IsCorrect() {
			score++
		}
	}
	return score
}
