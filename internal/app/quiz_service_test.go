package app_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"go.uber.org/zap"

	"pubquiz-service/internal/app"
	"pubquiz-service/internal/domain"
	"pubquiz-service/internal/infra/answerkey"
)

const round1CSV = `Timestamp,Team,Q1,Q2,Q3
t0,Correct answers,A1,A2,A3
t1,alpha,A1,A2,A3
t2,beta,A1,x,x
`

const round2CSV = `Timestamp,Team,Q1,Q2
t1,alpha,B1,B2
t2,gamma,B1,x
`

const round2Key = "- - B1\n- - B2\n"

func newFixtureDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"round1.csv":  round1CSV,
		"round2.csv":  round2CSV,
		"round2.yaml": round2Key,
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	return dir
}

func newTestService(t *testing.T) (*app.QuizService, string) {
	t.Helper()
	dir := newFixtureDir(t)
	service := app.NewQuizService(dir, domain.DefaultColumns(), zap.NewNop())
	if _, err := service.Rescan(context.Background()); err != nil {
		t.Fatalf("rescan failed: %v", err)
	}
	return service, dir
}

func TestRescanLoadsDirectory(t *testing.T) {
	dir := newFixtureDir(t)
	service := app.NewQuizService(dir, domain.DefaultColumns(), zap.NewNop())

	added, err := service.Rescan(context.Background())
	if err != nil {
		t.Fatalf("rescan failed: %v", err)
	}
	if added != 2 {
		t.Fatalf("expected 2 sections added, got %d", added)
	}

	rows := service.Leaderboard()
	want := []domain.LeaderboardRow{
		{Rank: "1", Team: "alpha", Score: "5"},
		{Rank: "2", Team: "beta", Score: "1"},
		{Rank: "", Team: "gamma", Score: "1"},
	}
	if !reflect.DeepEqual(rows, want) {
		t.Fatalf("expected %v, got %v", want, rows)
	}
}

func TestRescanIsIdempotent(t *testing.T) {
	service, _ := newTestService(t)
	before := service.Teams()

	added, err := service.Rescan(context.Background())
	if err != nil {
		t.Fatalf("second rescan failed: %v", err)
	}
	if added != 0 {
		t.Fatalf("expected no sections added on second pass, got %d", added)
	}
	if len(service.Sections()) != 2 {
		t.Fatalf("expected 2 sections, got %d", len(service.Sections()))
	}
	if !reflect.DeepEqual(service.Teams(), before) {
		t.Fatalf("second pass changed team summaries")
	}
}

func TestRescanPicksUpNewRounds(t *testing.T) {
	service, dir := newTestService(t)

	round3 := "Timestamp,Team,Q1\nt0,Correct answers,C1\nt1,beta,C1\n"
	if err := os.WriteFile(filepath.Join(dir, "round3.csv"), []byte(round3), 0o644); err != nil {
		t.Fatalf("write round3: %v", err)
	}

	added, err := service.Rescan(context.Background())
	if err != nil {
		t.Fatalf("rescan failed: %v", err)
	}
	if added != 1 {
		t.Fatalf("expected 1 section added, got %d", added)
	}

	for _, team := range service.Teams() {
		if team.ID == "beta" && team.Score != 2 {
			t.Fatalf("expected beta at 2 after round3, got %d", team.Score)
		}
	}
}

func TestRescanSurfacesMalformedRows(t *testing.T) {
	service, dir := newTestService(t)

	bad := "Timestamp,Team,Q1,Q2\nt1,team,only-one\n"
	if err := os.WriteFile(filepath.Join(dir, "zz_bad.csv"), []byte(bad), 0o644); err != nil {
		t.Fatalf("write bad round: %v", err)
	}

	_, err := service.Rescan(context.Background())
	if !errors.Is(err, domain.ErrMalformedRow) {
		t.Fatalf("expected ErrMalformedRow, got %v", err)
	}
	// The earlier sections stay committed.
	if len(service.Sections()) < 2 {
		t.Fatalf("expected committed sections to remain")
	}
}

func TestSetCorrectAnswersRescoresAndPersists(t *testing.T) {
	service, dir := newTestService(t)

	if err := service.SetCorrectAnswers("round1", 2, []string{"x"}); err != nil {
		t.Fatalf("set answers failed: %v", err)
	}

	rows := service.Leaderboard()
	want := []domain.LeaderboardRow{
		{Rank: "1", Team: "alpha", Score: "4"},
		{Rank: "2", Team: "beta", Score: "2"},
		{Rank: "3", Team: "gamma", Score: "1"},
	}
	if !reflect.DeepEqual(rows, want) {
		t.Fatalf("expected rescored leaderboard %v, got %v", want, rows)
	}

	sets, ok, err := answerkey.NewStore(dir).Load("round1")
	if err != nil || !ok {
		t.Fatalf("expected persisted side file, got %v (%v)", ok, err)
	}
	wantSets := [][]string{{"A1"}, {"x"}, {"A3"}}
	if !reflect.DeepEqual(sets, wantSets) {
		t.Fatalf("expected persisted key %v, got %v", wantSets, sets)
	}
}

func TestSetCorrectAnswersUnknownSection(t *testing.T) {
	service, _ := newTestService(t)

	err := service.SetCorrectAnswers("nope", 1, []string{"x"})
	if !errors.Is(err, domain.ErrSectionNotFound) {
		t.Fatalf("expected ErrSectionNotFound, got %v", err)
	}
	err = service.SetCorrectAnswers("round1", 9, []string{"x"})
	if !errors.Is(err, domain.ErrQuestionNotFound) {
		t.Fatalf("expected ErrQuestionNotFound, got %v", err)
	}
}

func TestQuestionDetail(t *testing.T) {
	service, _ := newTestService(t)

	detail, err := service.QuestionDetail("round1", 2)
	if err != nil {
		t.Fatalf("question detail failed: %v", err)
	}

	if detail.Name != "Q2" || detail.Number != 2 {
		t.Fatalf("unexpected detail: %+v", detail)
	}
	if detail.FractionCorrect != 0.5 {
		t.Fatalf("expected fraction 0.5, got %v", detail.FractionCorrect)
	}
	want := []app.TallyEntry{
		{Answer: "A2", Count: 1, Correct: true},
		{Answer: "x", Count: 1, Correct: false},
	}
	if !reflect.DeepEqual(detail.Tally, want) {
		t.Fatalf("expected tally %v, got %v", want, detail.Tally)
	}
}

func TestMergeTeams(t *testing.T) {
	service, _ := newTestService(t)

	// beta answered round1 only, gamma round2 only.
	if err := service.MergeTeams([]string{"beta", "gamma"}); err != nil {
		t.Fatalf("merge failed: %v", err)
	}

	teams := service.Teams()
	if len(teams) != 2 {
		t.Fatalf("expected 2 teams after merge, got %d", len(teams))
	}
	for _, team := range teams {
		if team.ID == "beta" && team.Score != 2 {
			t.Fatalf("expected merged score 2, got %d", team.Score)
		}
		if team.ID == "gamma" {
			t.Fatalf("losing team still present")
		}
	}
}

func TestMergeTeamsRejectsConflict(t *testing.T) {
	service, _ := newTestService(t)

	// alpha and beta both answered round1.
	err := service.MergeTeams([]string{"alpha", "beta"})
	if !errors.Is(err, domain.ErrCannotMerge) {
		t.Fatalf("expected ErrCannotMerge, got %v", err)
	}

	err = service.MergeTeams([]string{"alpha", "nope"})
	if !errors.Is(err, domain.ErrTeamNotFound) {
		t.Fatalf("expected ErrTeamNotFound, got %v", err)
	}
}

func TestSubscribeReceivesUpdates(t *testing.T) {
	service, _ := newTestService(t)

	updates, cancel := service.Subscribe()
	defer cancel()

	initial := <-updates
	if len(initial) != 3 {
		t.Fatalf("expected initial snapshot with 3 rows, got %v", initial)
	}

	if err := service.SetCorrectAnswers("round2", 2, []string{"x"}); err != nil {
		t.Fatalf("set answers failed: %v", err)
	}

	update := <-updates
	if len(update) != 3 {
		t.Fatalf("expected updated snapshot, got %v", update)
	}
	if update[0].Team != "alpha" || update[0].Score != "4" {
		t.Fatalf("expected alpha at 4 after key edit, got %v", update[0])
	}
}
