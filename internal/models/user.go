package models

import (
	"time"

	"github.com/uptrace/bun"
)

type User struct {
	bun.BaseModel `bun:"table:user"`
	ID            int64                     `bun:"id,pk,autoincrement" json:"id"`
	Email         string                    `bun:"email,notnull,unique" json:"email"`
	FirstName     string                    `bun:"first_name" json:"first_name"`
	LastName      string                    `bun:"last_name" json:"last_name"`
	Department    string                    `bun:"department" json:"department"`
	IsAdmin       bool                      `bun:"is_admin" json:"is_admin"`
	Points        int                       `bun:"points" json:"points"`
	TotalCO2Saved float64                   `bun:"total_co2_saved" json:"total_co2_saved"`
	Prefs         map[NotificationType]bool `bun:"notification_prefs,type:jsonb" json:"notification_prefs"`
	CreatedAt     time.Time                 `bun:"created_at,default:current_timestamp" json:"created_at"`
	UpdatedAt     time.Time                 `bun:"updated_at" json:"updated_at"`

	Rank      int     `bun:"-" json:"rank,omitempty"`
	Badges    []Badge `bun:"-" json:"badges,omitempty"`
	IsNewUser bool    `bun:"-" json:"is_new_user"`
}

// AllowsNotification reports whether the user accepts notifications of the
// given type. Absence of a preference entry means allowed.
func (u *User) AllowsNotification(t NotificationType) bool {
	if u.Prefs == nil {
		return true
	}
	enabled, ok := u.Prefs[t]
	if !ok {
		return true
	}
	return enabled
}

// UserFromAuth only use in middleware
type UserFromAuth struct {
	ID        int64  `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	IsAdmin   bool   `json:"is_admin"`
}
