package postgres

import "time"

type matchTableModel struct {
	ID         string    `db:"id"`
	HomeTeamID string    `db:"home_team_id"`
	HomeTeam   string    `db:"home_team_name"`
	AwayTeamID string    `db:"away_team_id"`
	AwayTeam   string    `db:"away_team_name"`
	KickoffAt  time.Time `db:"kickoff_at"`
	Status     string    `db:"status"`
	HomeScore  *int      `db:"home_score"`
	AwayScore  *int      `db:"away_score"`
}

type predictionTableModel struct {
	ID            string     `db:"id"`
	UserID        string     `db:"user_id"`
	MatchID       string     `db:"match_id"`
	RoomID        string     `db:"room_id"`
	PredictedHome int        `db:"predicted_home"`
	PredictedAway int        `db:"predicted_away"`
	Status        string     `db:"status"`
	PointsAwarded int        `db:"points_awarded"`
	RuleOverride  *string    `db:"rule_override"`
	CreatedAt     time.Time  `db:"created_at"`
	SettledAt     *time.Time `db:"settled_at"`
}

type predictionLockModel struct {
	Status        string `db:"status"`
	PointsAwarded int    `db:"points_awarded"`
}

type wonPointsRow struct {
	UserID string `db:"user_id"`
	Points int    `db:"points"`
}

type roomMemberTableModel struct {
	RoomID   string    `db:"room_id"`
	UserID   string    `db:"user_id"`
	Username string    `db:"username"`
	Role     string    `db:"role"`
	JoinedAt time.Time `db:"joined_at"`
}

type leaderboardEntryTableModel struct {
	RoomID string    `db:"room_id"`
	UserID string    `db:"user_id"`
	Period time.Time `db:"period"`
	Points int       `db:"points"`
	Rank   int       `db:"rank"`
}

type leaderboardEntryInsertModel struct {
	RoomID string `db:"room_id"`
	UserID string `db:"user_id"`
	Period string `db:"period"`
	Points int    `db:"points"`
	Rank   int    `db:"rank"`
}

type roomFeedTableModel struct {
	ID        string    `db:"id"`
	RoomID    string    `db:"room_id"`
	Kind      string    `db:"kind"`
	Message   string    `db:"message"`
	UserID    *string   `db:"user_id"`
	MatchID   *string   `db:"match_id"`
	CreatedAt time.Time `db:"created_at"`
}

type roomFeedInsertModel struct {
	ID        string    `db:"id"`
	RoomID    string    `db:"room_id"`
	Kind      string    `db:"kind"`
	Message   string    `db:"message"`
	UserID    *string   `db:"user_id"`
	MatchID   *string   `db:"match_id"`
	CreatedAt time.Time `db:"created_at"`
}
