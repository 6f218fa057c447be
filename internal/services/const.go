package services

import (
	"errors"
	"fmt"
	"time"
)

var ErrChallengeJoinLock = errors.New("challenge join locked")
var ErrTeamJoinLock = errors.New("team join locked")

const (
	LEADERBOARD_OVERALL = "overall"
	LEADERBOARD_WEEKLY  = "weekly"

	LEADERBOARD_DEFAULT_LIMIT = 20

	DEFAULT_PAGE_LIMIT = 20
	MAX_PAGE_LIMIT     = 100

	MAX_NOTES_LENGTH = 500

	// same action by the same user counts once per rolling day
	DUPLICATE_WINDOW = 24 * time.Hour

	ACTION_SUBMIT_RATE_LIMIT_PER_MINUTE = 10

	CACHE_TTL_5_SECONDS = 5 * time.Second
	CACHE_TTL_1_MIN     = 1 * time.Minute
	CACHE_TTL_5_MINS    = 5 * time.Minute
	CACHE_TTL_1_HOUR    = 1 * time.Hour
)

func LockKeyChallengeJoin(challengeID int64) string {
	return fmt.Sprintf("lock:challenge-join:%d", challengeID)
}

func LockKeyTeamJoin(teamID int64) string {
	return fmt.Sprintf("lock:team-join:%d", teamID)
}

// db
func DBKeyUser(userID int64) string {
	return fmt.Sprintf("user:%d", userID)
}

func DBKeyMe(userID int64) string {
	return fmt.Sprintf("me:%d", userID)
}

func DBKeyActiveActions() string {
	return "actions:active"
}

func DBKeyLeaderboardByUser(name string, userID int64, limit int) string {
	return fmt.Sprintf("leaderboard_by_user:%s:%d:%d", name, userID, limit)
}

func DBKeyPlatformStats() string {
	return "stats:platform"
}

func LimitKeyActionSubmit(userID int64) string {
	return fmt.Sprintf("limit:action-submit:%d", userID)
}
