package domain

import (
	"errors"
	"testing"
)

func TestClassifySubmissionRow(t *testing.T) {
	row, err := classifyRow([]string{"t1", "42", "a", "b"}, 4, DefaultColumns())
	if err != nil {
		t.Fatalf("classify failed: %v", err)
	}

	if row.kind != submissionRow {
		t.Fatalf("expected submission row")
	}
	if row.timestamp != "t1" || row.teamID != "42" || row.teamName != "42" {
		t.Fatalf("unexpected row: %+v", row)
	}
	if len(row.answers) != 2 || row.answers[0] != "a" || row.answers[1] != "b" {
		t.Fatalf("unexpected answers: %v", row.answers)
	}
}

func TestClassifyAnswerKeyRow(t *testing.T) {
	row, err := classifyRow([]string{"t1", AnswerKeySentinel, "a", "b"}, 4, DefaultColumns())
	if err != nil {
		t.Fatalf("classify failed: %v", err)
	}

	if row.kind != answerKeyRow {
		t.Fatalf("expected answer-key row")
	}
	if len(row.answers) != 2 {
		t.Fatalf("unexpected answers: %v", row.answers)
	}
}

func TestClassifyRowWithNameColumn(t *testing.T) {
	cols := Columns{TeamID: 1, TeamName: 2}

	row, err := classifyRow([]string{"t1", "42", "The Scientists", "a"}, 4, cols)
	if err != nil {
		t.Fatalf("classify failed: %v", err)
	}

	if row.teamID != "42" || row.teamName != "The Scientists" {
		t.Fatalf("unexpected identity: %+v", row)
	}
	// The name cell is not an answer.
	if len(row.answers) != 1 || row.answers[0] != "a" {
		t.Fatalf("unexpected answers: %v", row.answers)
	}
}

func TestClassifyRejectsWrongWidth(t *testing.T) {
	_, err := classifyRow([]string{"t1", "42", "a"}, 4, DefaultColumns())
	if !errors.Is(err, ErrMalformedRow) {
		t.Fatalf("expected ErrMalformedRow, got %v", err)
	}

	_, err = classifyRow([]string{"t1", "42", "a", "b", "c"}, 4, DefaultColumns())
	if !errors.Is(err, ErrMalformedRow) {
		t.Fatalf("expected ErrMalformedRow for extra cells, got %v", err)
	}
}
