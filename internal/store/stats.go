package store

import (
	"sort"

	"github.com/zdr/communaute/internal/kvstore"
	"github.com/zdr/communaute/internal/models"
)

// Leaderboard size.
const topRanks = 5

// Stats maps display names to their increment-only counters. Counters are
// never decremented or deleted. Each mutation is a full-map read-modify-write
// with no cross-process locking: two processes incrementing concurrently can
// lose one increment (last write wins, see DESIGN.md).
type Stats struct {
	kv kvstore.Store
}

func NewStats(kv kvstore.Store) *Stats {
	return &Stats{kv: kv}
}

// Score derives the ranking value of a stat entry.
func Score(st models.UserStat) int {
	return st.Missions*10 + st.Posts*5
}

func (s *Stats) load() map[string]models.UserStat {
	stats := map[string]models.UserStat{}
	kvstore.ReadJSON(s.kv, KeyStats, &stats)
	return stats
}

// All returns the full mapping.
func (s *Stats) All() map[string]models.UserStat {
	return s.load()
}

// Ensure guarantees a zero-initialized entry exists for username. Idempotent.
func (s *Stats) Ensure(username string) {
	stats := s.load()
	if _, ok := stats[username]; ok {
		return
	}
	stats[username] = models.UserStat{}
	kvstore.WriteJSON(s.kv, KeyStats, stats)
}

// IncrementPosts adds one post to username's counters, creating the entry if
// needed.
func (s *Stats) IncrementPosts(username string) {
	stats := s.load()
	st := stats[username]
	st.Posts++
	stats[username] = st
	kvstore.WriteJSON(s.kv, KeyStats, stats)
}

// IncrementMissions adds one completed mission to username's counters,
// creating the entry if needed.
func (s *Stats) IncrementMissions(username string) {
	stats := s.load()
	st := stats[username]
	st.Missions++
	stats[username] = st
	kvstore.WriteJSON(s.kv, KeyStats, stats)
}

// Leaderboard returns the top entries sorted by points descending, at most
// five. Ties are broken by username ascending so the ranking is stable
// across renders.
func (s *Stats) Leaderboard() []models.LeaderboardRow {
	stats := s.load()

	rows := make([]models.LeaderboardRow, 0, len(stats))
	for name, st := range stats {
		rows = append(rows, models.LeaderboardRow{
			Username: name,
			Posts:    st.Posts,
			Missions: st.Missions,
			Points:   Score(st),
		})
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Points != rows[j].Points {
			return rows[i].Points > rows[j].Points
		}
		return rows[i].Username < rows[j].Username
	})

	if len(rows) > topRanks {
		rows = rows[:topRanks]
	}
	return rows
}
