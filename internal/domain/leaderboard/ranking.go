package leaderboard

import (
	"sort"
	"time"

	"github.com/riskibarqy/salabet/internal/domain/room"
)

// Rank builds one entry per member. Order is points descending, then earlier
// join time, then user id. Ranks are sequential so tied members get distinct positions.
func Rank(roomID string, period time.Time, members []room.Membership, totals map[string]int) []Entry {
	type row struct {
		entry    Entry
		joinedAt time.Time
	}

	period = PeriodOf(period)
	rows := make([]row, 0, len(members))
	seen := make(map[string]struct{}, len(members))
	for _, member := range members {
		if _, dup := seen[member.UserID]; dup {
			continue
		}
		seen[member.UserID] = struct{}{}
		rows = append(rows, row{
			entry: Entry{
				RoomID: roomID,
				UserID: member.UserID,
				Period: period,
				Points: totals[member.UserID],
			},
			joinedAt: member.JoinedAt,
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.entry.Points != b.entry.Points {
			return a.entry.Points > b.entry.Points
		}
		if !a.joinedAt.Equal(b.joinedAt) {
			return a.joinedAt.Before(b.joinedAt)
		}
		return a.entry.UserID < b.entry.UserID
	})

	out := make([]Entry, 0, len(rows))
	for i, r := range rows {
		r.entry.Rank = i + 1
		out = append(out, r.entry)
	}
	return out
}
