package domain

import "errors"

var (
	// ErrMalformedRow is returned when a data row's cell count does not
	// match the header's. Ingestion is not transactional: rows parsed
	// before the bad one stay committed.
	ErrMalformedRow = errors.New("row has wrong number of cells")
	// ErrCannotMerge is returned when a merge is attempted on teams
	// that fail the CanMergeTeams precondition.
	ErrCannotMerge = errors.New("teams cannot be merged")
	// ErrSectionNotFound indicates a section name that is not part of the quiz.
	ErrSectionNotFound = errors.New("section not found")
	// ErrQuestionNotFound indicates a question number outside the section's range.
	ErrQuestionNotFound = errors.New("question not found")
	// ErrTeamNotFound indicates a team id that is not in the registry.
	ErrTeamNotFound = errors.New("team not found")
)
