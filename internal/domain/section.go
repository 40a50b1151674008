package domain

import "fmt"

// Section is one round of the quiz, read from one source file. It owns
// the round's questions in header order and every response submitted to
// it. A section optionally belongs to a quiz; when it does, team
// resolution goes through the quiz's registry.
type Section struct {
	// Name is derived from the source file's base name.
	Name string

	quiz      *Quiz
	questions []*Question
	responses []*Response

	// width is the header's cell count; every data row must match it.
	width int

	// localTeams holds section-scoped identities when no quiz is
	// attached.
	localTeams []*Team
}

// NewSection creates an empty section with the given name.
func NewSection(name string) *Section {
	return &Section{Name: name}
}

// Quiz returns the owning quiz, or nil.
func (s *Section) Quiz() *Quiz { return s.quiz }

// Questions returns the section's questions in header order.
func (s *Section) Questions() []*Question { return s.questions }

// Responses returns every response submitted to the section, in
// ingestion order.
func (s *Section) Responses() []*Response { return s.responses }

// AddQuestion appends a question to the section and sets its
// back-reference.
func (s *Section) AddQuestion(q *Question) {
	q.section = s
	s.questions = append(s.questions, q)
}

func (s *Section) columns() Columns {
	if s.quiz != nil {
		return s.quiz.Columns
	}
	return DefaultColumns()
}

// SetHeader parses the header row: cell 0 is the timestamp label, the
// configured cells carry team identity, and every remaining cell
// becomes a question with an empty accepted set.
func (s *Section) SetHeader(cells []string) error {
	cols := s.columns()
	need := cols.TeamID + 1
	if cols.TeamName >= cols.TeamID {
		need = cols.TeamName + 1
	}
	if need < 2 {
		need = 2
	}
	if len(cells) < need {
		return fmt.Errorf("header: %w: got %d cells, need at least %d", ErrMalformedRow, len(cells), need)
	}
	s.width = len(cells)
	for _, i := range cols.answerCells(s.width) {
		s.AddQuestion(NewQuestion(cells[i]))
	}
	return nil
}

// AddRow classifies and applies one data row: an inline answer-key row
// replaces every question's accepted set with its aligned cell, a
// submission row becomes one response.
func (s *Section) AddRow(cells []string) error {
	row, err := classifyRow(cells, s.width, s.columns())
	if err != nil {
		return err
	}

	switch row.kind {
	case answerKeyRow:
		// Aligned 1:1 with the questions; a later key row simply
		// overwrites.
		for i, q := range s.questions {
			q.SetCorrectAnswers([]string{row.answers[i]})
		}
	case submissionRow:
		team := s.resolveTeam(row.teamID, row.teamName)
		answers := make([]*Answer, len(s.questions))
		for i, q := range s.questions {
			answers[i] = NewAnswer(q, row.answers[i])
		}
		s.responses = append(s.responses, &Response{
			Timestamp: row.timestamp,
			Team:      team,
			Answers:   answers,
		})
	}
	return nil
}

// ReadRows populates the section from a table: row 0 is the header, the
// rest are data rows. A bad row aborts with its 1-based number; rows
// before it stay committed.
func (s *Section) ReadRows(rows [][]string) error {
	if len(rows) == 0 {
		return fmt.Errorf("section %q: %w: missing header row", s.Name, ErrMalformedRow)
	}
	if err := s.SetHeader(rows[0]); err != nil {
		return fmt.Errorf("section %q: %w", s.Name, err)
	}
	for i, row := range rows[1:] {
		if err := s.AddRow(row); err != nil {
			return fmt.Errorf("section %q row %d: %w", s.Name, i+2, err)
		}
	}
	return nil
}

func (s *Section) resolveTeam(id, name string) *Team {
	if s.quiz != nil {
		return s.quiz.GetOrCreateTeam(id, name)
	}
	for _, team := range s.localTeams {
		if team.ID == id {
			return team
		}
	}
	team := NewTeam(id, name)
	s.localTeams = append(s.localTeams, team)
	return team
}

// ResponseForTeam returns the team's earliest response to this section,
// or nil. Equal timestamps keep the first one encountered.
func (s *Section) ResponseForTeam(team *Team) *Response {
	var earliest *Response
	for _, r := range s.responses {
		if r.Team != team {
			continue
		}
		if earliest == nil || r.Timestamp < earliest.Timestamp {
			earliest = r
		}
	}
	return earliest
}

// Teams returns the teams that responded to this section, in first-seen
// order.
func (s *Section) Teams() []*Team {
	seen := make(map[*Team]bool, len(s.responses))
	teams := make([]*Team, 0, len(s.responses))
	for _, r := range s.responses {
		if !seen[r.Team] {
			seen[r.Team] = true
			teams = append(teams, r.Team)
		}
	}
	return teams
}

// Scores returns each responding team's score for this round. A team
// with several responses is scored on its earliest one; resubmissions
// are ignored.
func (s *Section) Scores() map[*Team]int {
	scores := make(map[*Team]int)
	for _, team := range s.Teams() {
		scores[team] = s.ResponseForTeam(team).Score()
	}
	return scores
}

// FractionCorrect returns the fraction of scored answers that are
// correct across the whole section. Zero when the section has no
// questions or no responses.
func (s *Section) FractionCorrect() float64 {
	scores := s.Scores()
	possible := len(s.questions) * len(scores)
	if possible == 0 {
		return 0
	}
	total := 0
	for _, score := range scores {
		total += score
	}
	return float64(total) / float64(possible)
}

// SetCorrectAnswers replaces every question's accepted set from one
// list per question, zipped against the questions in order: extra or
// missing entries are silently ignored.
func (s *Section) SetCorrectAnswers(sets [][]string) {
	for i, q := range s.questions {
		if i >= len(sets) {
			return
		}
		q.SetCorrectAnswers(sets[i])
	}
}

// CorrectAnswerSets exports the accepted set of every question in
// question order, for the answer-key side file.
func (s *Section) CorrectAnswerSets() [][]string {
	sets := make([][]string, len(s.questions))
	for i, q := range s.questions {
		sets[i] = q.CorrectAnswers()
	}
	return sets
}
