package app

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"pubquiz-service/internal/domain"
	"pubquiz-service/internal/infra/answerkey"
	"pubquiz-service/internal/infra/dirscan"
	"pubquiz-service/internal/infra/table"
)

// suggestionDistance is the maximum edit distance between two team
// names for the pair to count as a likely typo.
const suggestionDistance = 2

// QuizService owns the quiz and serializes every mutation behind one
// lock: the scoring core is single-threaded by design, so ingestion,
// answer-key edits and merges must never interleave.
type QuizService struct {
	dir  string
	keys *answerkey.Store
	log  *zap.Logger

	// sf coalesces rescans triggered at the same time by the watcher
	// and by clients.
	sf singleflight.Group

	mu          sync.RWMutex
	quiz        *domain.Quiz
	subscribers map[chan []domain.LeaderboardRow]struct{}
}

// NewQuizService creates a service over the quiz directory. Columns
// apply to every round file it will ever read.
func NewQuizService(dir string, cols domain.Columns, log *zap.Logger) *QuizService {
	quiz := domain.NewQuiz()
	quiz.Columns = cols
	return &QuizService{
		dir:         dir,
		keys:        answerkey.NewStore(dir),
		log:         log,
		quiz:        quiz,
		subscribers: make(map[chan []domain.LeaderboardRow]struct{}),
	}
}

// Rescan ingests round files that appeared since the last scan. It is
// idempotent: a file whose section name is already loaded is skipped,
// so rescanning mid-event never duplicates sections or resets an
// answer key. Returns the number of sections added.
func (s *QuizService) Rescan(ctx context.Context) (int, error) {
	added, err, _ := s.sf.Do("rescan", func() (interface{}, error) {
		n, err := s.rescan(ctx)
		return n, err
	})
	return added.(int), err
}

func (s *QuizService) rescan(ctx context.Context) (int, error) {
	rounds, err := dirscan.List(s.dir)
	if err != nil {
		return 0, fmt.Errorf("scan %s: %w", s.dir, err)
	}

	added := 0
	for _, round := range rounds {
		if err := ctx.Err(); err != nil {
			return added, err
		}
		s.mu.RLock()
		exists := s.quiz.SectionByName(round.Section) != nil
		s.mu.RUnlock()
		if exists {
			continue
		}

		rows, err := table.ReadFile(round.Path)
		if err != nil {
			return added, err
		}

		s.mu.Lock()
		_, err = s.quiz.ReadSection(round.Section, rows)
		s.mu.Unlock()
		if err != nil {
			// Committed sections stay; the bad file surfaces.
			return added, err
		}
		added++
		s.log.Info("section loaded", zap.String("section", round.Section))

		if round.KeyPath != "" {
			if err := s.loadAnswerKey(round.Section); err != nil {
				return added, err
			}
		}
	}

	if added > 0 {
		s.mu.Lock()
		s.broadcastLocked()
		s.mu.Unlock()
	}
	return added, nil
}

func (s *QuizService) loadAnswerKey(section string) error {
	sets, ok, err := s.keys.Load(section)
	if err != nil || !ok {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if sec := s.quiz.SectionByName(section); sec != nil {
		sec.SetCorrectAnswers(sets)
		s.log.Info("answer key loaded", zap.String("section", section))
	}
	return nil
}

// Leaderboard returns the current ranked listing as a snapshot.
func (s *QuizService) Leaderboard() []domain.LeaderboardRow {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.leaderboardLocked()
}

func (s *QuizService) leaderboardLocked() []domain.LeaderboardRow {
	var rows []domain.LeaderboardRow
	lb := s.quiz.Leaderboard()
	for lb.Next() {
		rows = append(rows, lb.Row())
	}
	return rows
}

// SectionSummary is the read model for the sections listing.
type SectionSummary struct {
	Name            string  `json:"name"`
	Questions       int     `json:"questions"`
	Teams           int     `json:"teams"`
	FractionCorrect float64 `json:"fractionCorrect"`
}

// Sections summarizes every loaded round in presentation order.
func (s *QuizService) Sections() []SectionSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	summaries := make([]SectionSummary, 0, len(s.quiz.Sections()))
	for _, section := range s.quiz.Sections() {
		summaries = append(summaries, SectionSummary{
			Name:            section.Name,
			Questions:       len(section.Questions()),
			Teams:           len(section.Teams()),
			FractionCorrect: section.FractionCorrect(),
		})
	}
	return summaries
}

// QuestionSummary is one row of a section's question table.
type QuestionSummary struct {
	Number          int     `json:"number"`
	Name            string  `json:"name"`
	FractionCorrect float64 `json:"fractionCorrect"`
}

// SectionDetail lists a section's questions with how well they were
// answered.
func (s *QuizService) SectionDetail(section string) ([]QuestionSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sec := s.quiz.SectionByName(section)
	if sec == nil {
		return nil, fmt.Errorf("%w: %q", domain.ErrSectionNotFound, section)
	}
	questions := make([]QuestionSummary, 0, len(sec.Questions()))
	for i, q := range sec.Questions() {
		questions = append(questions, QuestionSummary{
			Number:          i + 1,
			Name:            q.Name,
			FractionCorrect: q.FractionCorrect(),
		})
	}
	return questions, nil
}

// TallyEntry is one distinct submitted answer with its count.
type TallyEntry struct {
	Answer  string `json:"answer"`
	Count   int    `json:"count"`
	Correct bool   `json:"correct"`
}

// QuestionDetail is the read model for one question: its tally, key and
// difficulty.
type QuestionDetail struct {
	Section         string       `json:"section"`
	Number          int          `json:"number"`
	Name            string       `json:"name"`
	CorrectAnswers  []string     `json:"correctAnswers"`
	FractionCorrect float64      `json:"fractionCorrect"`
	Tally           []TallyEntry `json:"tally"`
}

// QuestionDetail returns everything the question page shows. questionNr
// is 1-based within the section.
func (s *QuizService) QuestionDetail(section string, questionNr int) (QuestionDetail, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	q, err := s.questionLocked(section, questionNr)
	if err != nil {
		return QuestionDetail{}, err
	}

	tally := make([]TallyEntry, 0)
	for answer, count := range q.AnswerTally() {
		tally = append(tally, TallyEntry{
			Answer:  answer,
			Count:   count,
			Correct: q.IsCorrectAnswer(answer),
		})
	}
	sort.Slice(tally, func(i, j int) bool {
		if tally[i].Count != tally[j].Count {
			return tally[i].Count > tally[j].Count
		}
		return tally[i].Answer < tally[j].Answer
	})

	return QuestionDetail{
		Section:         section,
		Number:          questionNr,
		Name:            q.Name,
		CorrectAnswers:  q.CorrectAnswers(),
		FractionCorrect: q.FractionCorrect(),
		Tally:           tally,
	}, nil
}

// SetCorrectAnswers replaces one question's accepted set, persists the
// section's full key to the side file, and pushes the rescored
// leaderboard to subscribers.
func (s *QuizService) SetCorrectAnswers(section string, questionNr int, answers []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	q, err := s.questionLocked(section, questionNr)
	if err != nil {
		return err
	}
	q.SetCorrectAnswers(answers)

	sec := s.quiz.SectionByName(section)
	if err := s.keys.Save(section, sec.CorrectAnswerSets()); err != nil {
		return fmt.Errorf("persist answer key for %q: %w", section, err)
	}
	s.log.Info("answer key updated",
		zap.String("section", section), zap.Int("question", questionNr))
	s.broadcastLocked()
	return nil
}

func (s *QuizService) questionLocked(section string, questionNr int) (*domain.Question, error) {
	sec := s.quiz.SectionByName(section)
	if sec == nil {
		return nil, fmt.Errorf("%w: %q", domain.ErrSectionNotFound, section)
	}
	questions := sec.Questions()
	if questionNr < 1 || questionNr > len(questions) {
		return nil, fmt.Errorf("%w: %q question %d", domain.ErrQuestionNotFound, section, questionNr)
	}
	return questions[questionNr-1], nil
}

// TeamSummary is the read model for the teams view: total score plus
// which sections the team responded to.
type TeamSummary struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Score    int             `json:"score"`
	Sections map[string]bool `json:"sections"`
}

// Teams returns every registered team with its total score and
// participation grid, in first-seen order.
func (s *QuizService) Teams() []TeamSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()

	scores := s.quiz.Scores()
	grid := s.quiz.SectionsPerTeam()
	summaries := make([]TeamSummary, 0, len(s.quiz.Teams()))
	for _, team := range s.quiz.Teams() {
		sections := make(map[string]bool, len(grid[team]))
		for section, responded := range grid[team] {
			sections[section.Name] = responded
		}
		summaries = append(summaries, TeamSummary{
			ID:       team.ID,
			Name:     team.Name,
			Score:    scores[team],
			Sections: sections,
		})
	}
	return summaries
}

// MergeTeams merges the teams with the given ids into the first one.
// The merge precondition is validated; conflicting teams return
// domain.ErrCannotMerge.
func (s *QuizService) MergeTeams(ids []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	teams := make([]*domain.Team, 0, len(ids))
	for _, id := range ids {
		team := s.quiz.TeamByID(id)
		if team == nil {
			return fmt.Errorf("%w: %q", domain.ErrTeamNotFound, id)
		}
		teams = append(teams, team)
	}
	if err := s.quiz.MergeTeams(teams); err != nil {
		return err
	}
	s.log.Info("teams merged",
		zap.Strings("ids", ids), zap.String("survivor", teams[0].ID))
	s.broadcastLocked()
	return nil
}

// MergeSuggestion pairs two teams whose names look like the same team.
type MergeSuggestion struct {
	IDs   [2]string `json:"ids"`
	Names [2]string `json:"names"`
}

// SuggestMerges returns mergeable team pairs with near-identical names.
func (s *QuizService) SuggestMerges() []MergeSuggestion {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var suggestions []MergeSuggestion
	for _, pair := range s.quiz.SuggestMerges(suggestionDistance) {
		suggestions = append(suggestions, MergeSuggestion{
			IDs:   [2]string{pair[0].ID, pair[1].ID},
			Names: [2]string{pair[0].Name, pair[1].Name},
		})
	}
	return suggestions
}

// Subscribe returns a channel receiving the leaderboard after every
// change. The caller must invoke the cancel function to avoid leaks.
func (s *QuizService) Subscribe() (<-chan []domain.LeaderboardRow, func()) {
	ch := make(chan []domain.LeaderboardRow, 8)

	s.mu.Lock()
	s.subscribers[ch] = struct{}{}
	initial := s.leaderboardLocked()
	s.mu.Unlock()

	ch <- initial

	cancel := func() {
		s.mu.Lock()
		if _, ok := s.subscribers[ch]; ok {
			delete(s.subscribers, ch)
			close(ch)
		}
		s.mu.Unlock()
	}
	return ch, cancel
}

func (s *QuizService) broadcastLocked() {
	rows := s.leaderboardLocked()
	for ch := range s.subscribers {
		select {
		case ch <- rows:
		default:
			// Drop the stale snapshot so slow clients never block the
			// scoring path.
			select {
			case <-ch:
			default:
			}
			ch <- rows
		}
	}
}
