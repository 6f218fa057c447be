package models

import (
	"time"

	"github.com/uptrace/bun"
)

type TeamRole string

const (
	RoleLeader TeamRole = "leader"
	RoleMember TeamRole = "member"
)

type Team struct {
	bun.BaseModel `bun:"table:team"`
	ID            int64     `bun:"id,pk,autoincrement" json:"id"`
	Name          string    `bun:"name,notnull,unique" json:"name"`
	Description   *string   `bun:"description" json:"description"`
	MaxMembers    int       `bun:"max_members" json:"max_members"`
	CreatedAt     time.Time `bun:"created_at,default:current_timestamp" json:"created_at"`

	MemberCount int `bun:"-" json:"member_count,omitempty"`
}

type TeamMember struct {
	bun.BaseModel `bun:"table:team_member"`
	ID            int64     `bun:"id,pk,autoincrement" json:"id"`
	TeamID        int64     `bun:"team_id,notnull" json:"team_id"`
	UserID        int64     `bun:"user_id,notnull" json:"user_id"`
	Role          TeamRole  `bun:"role,default:'member'" json:"role"`
	JoinedAt      time.Time `bun:"joined_at,default:current_timestamp" json:"joined_at"`
}

func (m *TeamMember) IsLeader() bool {
	return m != nil && m.Role == RoleLeader
}
