package domain

import "fmt"

// AnswerKeySentinel is the literal that marks a row as an answer-key
// correction when it appears in the team-identity column.
const AnswerKeySentinel = "Correct answers"

// Columns selects which cells of a row carry team identity. Cell 0 is
// always the timestamp.
type Columns struct {
	// TeamID is the index of the team-identity column.
	TeamID int
	// TeamName is the index of the display-name column, or -1 when the
	// display name equals the identity value.
	TeamName int
}

// DefaultColumns matches the usual forms export: timestamp first, team
// identity immediately after, no separate display-name column.
func DefaultColumns() Columns {
	return Columns{TeamID: 1, TeamName: -1}
}

// answerCells returns the indices of the cells that carry answers: all
// cells except the timestamp and the identity/display-name columns.
func (c Columns) answerCells(width int) []int {
	cells := make([]int, 0, width)
	for i := 1; i < width; i++ {
		if i == c.TeamID || i == c.TeamName {
			continue
		}
		cells = append(cells, i)
	}
	return cells
}

// rowKind tags the outcome of classifying one data row.
type rowKind int

const (
	// submissionRow is a genuine team submission.
	submissionRow rowKind = iota
	// answerKeyRow is an inline correction carrying the answer key.
	answerKeyRow
)

// parsedRow is the explicit tagged result of classifying a data row, so
// the sentinel comparison lives in exactly one place.
type parsedRow struct {
	kind      rowKind
	timestamp string
	teamID    string
	teamName  string
	// answers holds the answer cells in question order, for both kinds.
	answers []string
}

// classifyRow validates a data row against the header width and splits
// it into its tagged parts.
func classifyRow(cells []string, width int, cols Columns) (parsedRow, error) {
	if len(cells) != width {
		return parsedRow{}, fmt.Errorf("%w: got %d cells, header has %d", ErrMalformedRow, len(cells), width)
	}

	row := parsedRow{timestamp: cells[0]}
	for _, i := range cols.answerCells(width) {
		row.answers = append(row.answers, cells[i])
	}

	if cells[cols.TeamID] == AnswerKeySentinel {
		row.kind = answerKeyRow
		return row, nil
	}

	row.kind = submissionRow
	row.teamID = cells[cols.TeamID]
	if cols.TeamName >= 0 && cols.TeamName < width {
		row.teamName = cells[cols.TeamName]
	} else {
		row.teamName = row.teamID
	}
	return row, nil
}
