package models

import (
	"time"

	"github.com/uptrace/bun"
)

type Badge struct {
	Slug            string `json:"slug"`
	Title           string `json:"title"`
	Description     string `json:"description"`
	Icon            string `json:"icon"`
	PointsThreshold int    `json:"points_threshold"`
}

// Badges is the static catalog, ordered by ascending threshold.
var Badges = []Badge{
	{
		Slug:            "first-steps",
		Title:           "First Steps",
		Description:     "Earn your first 10 points",
		Icon:            "🌱",
		PointsThreshold: 10,
	},
	{
		Slug:            "green-sprout",
		Title:           "Green Sprout",
		Description:     "Reach 100 points",
		Icon:            "🌿",
		PointsThreshold: 100,
	},
	{
		Slug:            "eco-warrior",
		Title:           "Eco Warrior",
		Description:     "Reach 500 points",
		Icon:            "🌳",
		PointsThreshold: 500,
	},
	{
		Slug:            "planet-champion",
		Title:           "Planet Champion",
		Description:     "Reach 2000 points",
		Icon:            "🌍",
		PointsThreshold: 2000,
	},
}

type UserBadge struct {
	bun.BaseModel `bun:"table:user_badge"`
	ID            int64     `bun:"id,pk,autoincrement" json:"id"`
	UserID        int64     `bun:"user_id,notnull" json:"user_id"`
	BadgeSlug     string    `bun:"badge_slug,notnull" json:"badge_slug"`
	AwardedAt     time.Time `bun:"awarded_at,default:current_timestamp" json:"awarded_at"`
}
