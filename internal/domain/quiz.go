package domain

import (
	"strings"

	"github.com/agnivade/levenshtein"
)

// Quiz is the root aggregate: an ordered list of sections plus the team
// registry shared by all of them.
type Quiz struct {
	// Columns is applied uniformly to every section the quiz owns when
	// parsing raw rows.
	Columns Columns

	sections []*Section
	teams    []*Team
}

// NewQuiz creates an empty quiz with the default column layout.
func NewQuiz() *Quiz {
	return &Quiz{Columns: DefaultColumns()}
}

// Sections returns the quiz's sections in presentation order.
func (q *Quiz) Sections() []*Section { return q.sections }

// Teams returns the registry in first-seen order.
func (q *Quiz) Teams() []*Team { return q.teams }

// AddSection appends a section and takes ownership: from now on the
// section resolves teams through this quiz's registry.
func (q *Quiz) AddSection(s *Section) {
	s.quiz = q
	q.sections = append(q.sections, s)
}

// SectionByName returns the section with the given name, or nil.
func (q *Quiz) SectionByName(name string) *Section {
	for _, s := range q.sections {
		if s.Name == name {
			return s
		}
	}
	return nil
}

// ReadSection creates a section, attaches it to the quiz, and populates
// it from the given table. The section is attached before parsing so a
// mid-file failure leaves the rows read so far committed.
func (q *Quiz) ReadSection(name string, rows [][]string) (*Section, error) {
	section := NewSection(name)
	q.AddSection(section)
	if err := section.ReadRows(rows); err != nil {
		return section, err
	}
	return section, nil
}

// GetOrCreateTeam resolves a raw (id, name) pair to a single shared
// team. The identity is authoritative: an existing team keeps its
// stored name even when a different one is supplied.
func (q *Quiz) GetOrCreateTeam(id, name string) *Team {
	for _, team := range q.teams {
		if team.ID == id {
			return team
		}
	}
	team := NewTeam(id, name)
	q.teams = append(q.teams, team)
	return team
}

// TeamByID returns the registered team with the given id, or nil.
func (q *Quiz) TeamByID(id string) *Team {
	for _, team := range q.teams {
		if team.ID == id {
			return team
		}
	}
	return nil
}

// Scores sums every team's score across all sections. Teams absent from
// a section contribute nothing for that section.
func (q *Quiz) Scores() map[*Team]int {
	scores := make(map[*Team]int, len(q.teams))
	for _, team := range q.teams {
		scores[team] = 0
	}
	for _, section := range q.sections {
		for team, score := range section.Scores() {
			scores[team] += score
		}
	}
	return scores
}

// SectionsPerTeam reports, for every registered team, which sections it
// responded to. Used by the teams view to spot incomplete identities.
func (q *Quiz) SectionsPerTeam() map[*Team]map[*Section]bool {
	grid := make(map[*Team]map[*Section]bool, len(q.teams))
	for _, team := range q.teams {
		row := make(map[*Section]bool, len(q.sections))
		for _, section := range q.sections {
			row[section] = section.ResponseForTeam(team) != nil
		}
		grid[team] = row
	}
	return grid
}

// CanMergeTeams reports whether the given teams can be the same
// real-world team. False with fewer than two teams, and false when any
// single section holds more than one response among the candidates
// combined: teams that answered a round independently are distinct.
func (q *Quiz) CanMergeTeams(teams []*Team) bool {
	if len(teams) < 2 {
		return false
	}
	candidates := make(map[*Team]bool, len(teams))
	for _, team := range teams {
		candidates[team] = true
	}
	for _, section := range q.sections {
		combined := 0
		for _, r := range section.responses {
			if candidates[r.Team] {
				combined++
				if combined > 1 {
					return false
				}
			}
		}
	}
	return true
}

// MergeTeams merges the given teams into the first one: every response
// of a losing team is repointed to the survivor and the loser leaves
// the registry. The CanMergeTeams precondition is revalidated; a failed
// check returns ErrCannotMerge without mutating anything.
func (q *Quiz) MergeTeams(teams []*Team) error {
	if !q.CanMergeTeams(teams) {
		return ErrCannotMerge
	}
	survivor := teams[0]
	for _, loser := range teams[1:] {
		for _, section := range q.sections {
			for _, r := range section.responses {
				if r.Team == loser {
					r.Team = survivor
				}
			}
		}
		q.removeTeam(loser)
	}
	return nil
}

func (q *Quiz) removeTeam(team *Team) {
	for i, existing := range q.teams {
		if existing == team {
			q.teams = append(q.teams[:i], q.teams[i+1:]...)
			return
		}
	}
}

// SuggestMerges returns candidate pairs of teams whose names are within
// the given edit distance of each other (case-insensitive) and that
// pass CanMergeTeams: the usual re-submission typos.
func (q *Quiz) SuggestMerges(maxDistance int) [][2]*Team {
	var pairs [][2]*Team
	for i, a := range q.teams {
		for _, b := range q.teams[i+1:] {
			d := levenshtein.ComputeDistance(strings.ToLower(a.Name), strings.ToLower(b.Name))
			if d > maxDistance {
				continue
			}
			if q.CanMergeTeams([]*Team{a, b}) {
				pairs = append(pairs, [2]*Team{a, b})
			}
		}
	}
	return pairs
}
