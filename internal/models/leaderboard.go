package models

type LeaderboardItem struct {
	UserID    int64   `json:"user_id" msgpack:"user_id"`
	FirstName string  `json:"first_name" msgpack:"first_name"`
	LastName  string  `json:"last_name" msgpack:"last_name"`
	Score     float64 `json:"score" msgpack:"score"`
	Rank      int     `json:"rank,omitempty" msgpack:"rank"`
}

type LeaderboardResponse struct {
	Leaderboard []*LeaderboardItem `json:"leaderboard"`
	Me          *LeaderboardItem   `json:"me"`
}
