package domain

import (
	"sort"
	"strconv"
)

// LeaderboardRow is one displayed row of the ranked listing. Rank is
// the 1-based row position when the score differs from the previous
// row's, and empty on a repeat. This is deliberately not competition
// ranking: after a tie group the next distinct score shows its row
// position, not its rank among distinct scores.
type LeaderboardRow struct {
	Rank  string `json:"rank"`
	Team  string `json:"team"`
	Score string `json:"score"`
}

// Leaderboard iterates the ranked listing once, row by row, in the
// manner of bufio.Scanner. It is finite and cannot be restarted; call
// Quiz.Leaderboard again for a fresh pass.
type Leaderboard struct {
	entries []leaderboardEntry
	pos     int
	current LeaderboardRow
}

type leaderboardEntry struct {
	team  *Team
	score int
}

// Leaderboard ranks all teams by score descending, ties by team name
// ascending, and returns an iterator over the display rows.
func (q *Quiz) Leaderboard() *Leaderboard {
	scores := q.Scores()
	entries := make([]leaderboardEntry, 0, len(scores))
	for team, score := range scores {
		entries = append(entries, leaderboardEntry{team: team, score: score})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].score != entries[j].score {
			return entries[i].score > entries[j].score
		}
		return entries[i].team.Name < entries[j].team.Name
	})
	return &Leaderboard{entries: entries}
}

// Next advances to the next row. It returns false when the listing is
// exhausted.
func (l *Leaderboard) Next() bool {
	if l.pos >= len(l.entries) {
		return false
	}
	entry := l.entries[l.pos]
	rank := ""
	if l.pos == 0 || entry.score != l.entries[l.pos-1].score {
		rank = strconv.Itoa(l.pos + 1)
	}
	l.current = LeaderboardRow{
		Rank:  rank,
		Team:  entry.team.Name,
		Score: strconv.Itoa(entry.score),
	}
	l.pos++
	return true
}

// Row returns the row produced by the last successful Next.
func (l *Leaderboard) Row() LeaderboardRow { return l.current }
