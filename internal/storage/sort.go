package storage

import (
	"sort"

	"github.com/mcoot/cs2coach/internal/model"
)

// SortPlayersNewestFirst orders players by creation time, latest first.
// Ties keep their ID order so results are deterministic.
func SortPlayersNewestFirst(players []*model.Player) {
	sort.SliceStable(players, func(i, j int) bool {
		if players[i].CreatedAt.Equal(players[j].CreatedAt) {
			return players[i].ID > players[j].ID
		}
		return players[i].CreatedAt.After(players[j].CreatedAt)
	})
}

// SortSessionsLatestFirst orders sessions by session date, latest first
func SortSessionsLatestFirst(sessions []*model.TrainingSession) {
	sort.SliceStable(sessions, func(i, j int) bool {
		if sessions[i].SessionDate.Equal(sessions[j].SessionDate) {
			return sessions[i].CreatedAt.After(sessions[j].CreatedAt)
		}
		return sessions[i].SessionDate.After(sessions[j].SessionDate)
	})
}

// SortUsers orders users by creation time, oldest first
func SortUsers(users []*model.User) {
	sort.SliceStable(users, func(i, j int) bool {
		if users[i].CreatedAt.Equal(users[j].CreatedAt) {
			return users[i].Email < users[j].Email
		}
		return users[i].CreatedAt.Before(users[j].CreatedAt)
	})
}
