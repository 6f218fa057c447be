package datastore

import (
	"context"
	"errors"
	"time"

	"greensteps/internal/models"

	"github.com/uptrace/bun"
)

var ErrTeamFull = errors.New("team is full")

func CreateTableTeam(ctx context.Context, db *bun.DB) error {
	_, err := db.NewCreateTable().Model((*models.Team)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateTable().Model((*models.TeamMember)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().Model((*models.TeamMember)(nil)).Index("index_team_member_unique").IfNotExists().Unique().Column("team_id", "user_id").Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().Model((*models.TeamMember)(nil)).Index("index_team_member_user_id").IfNotExists().Column("user_id").Exec(ctx)
	if err != nil {
		return err
	}

	return nil
}

func GetTeams(ctx context.Context, db *bun.DB, limit, offset int) ([]*models.Team, error) {
	var teams []*models.Team
	err := db.NewSelect().Model(&teams).
		Order("name ASC").
		Limit(limit).
		Offset(offset).
		Scan(ctx)
	if err != nil {
		return nil, err
	}

	return teams, nil
}

func FindTeamByID(ctx context.Context, db *bun.DB, teamID int64) (*models.Team, error) {
	var team models.Team
	err := db.NewSelect().Model(&team).Where("id = ?", teamID).Scan(ctx)
	if err != nil {
		return nil, err
	}

	return &team, nil
}

// CreateTeamWithLeader inserts the team and its leader membership in one
// transaction.
func CreateTeamWithLeader(ctx context.Context, db *bun.DB, team *models.Team, leaderID int64) (*models.Team, error) {
	err := db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewInsert().Model(team).Exec(ctx); err != nil {
			return err
		}

		member := &models.TeamMember{
			TeamID:   team.ID,
			UserID:   leaderID,
			Role:     models.RoleLeader,
			JoinedAt: time.Now(),
		}
		_, err := tx.NewInsert().Model(member).Exec(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}

	return team, nil
}

// DeleteTeam removes the team and its memberships in one transaction.
func DeleteTeam(ctx context.Context, db *bun.DB, teamID int64) error {
	return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewDelete().
			Model((*models.TeamMember)(nil)).
			Where("team_id = ?", teamID).
			Exec(ctx); err != nil {
			return err
		}

		_, err := tx.NewDelete().
			Model((*models.Team)(nil)).
			Where("id = ?", teamID).
			Exec(ctx)
		return err
	})
}

func CountTeamMembers(ctx context.Context, db bun.IDB, teamID int64) (int, error) {
	count, err := db.NewSelect().Model((*models.TeamMember)(nil)).Where("team_id = ?", teamID).Count(ctx)
	if err != nil {
		return 0, err
	}

	return count, nil
}

// AddTeamMember re-checks capacity inside the transaction; callers hold the
// per-team join mutex.
func AddTeamMember(ctx context.Context, db *bun.DB, team *models.Team, userID int64) (*models.TeamMember, error) {
	member := &models.TeamMember{
		TeamID:   team.ID,
		UserID:   userID,
		Role:     models.RoleMember,
		JoinedAt: time.Now(),
	}

	err := db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if team.MaxMembers > 0 {
			count, err := CountTeamMembers(ctx, tx, team.ID)
			if err != nil {
				return err
			}
			if count >= team.MaxMembers {
				return ErrTeamFull
			}
		}

		_, err := tx.NewInsert().Model(member).Exec(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}

	return member, nil
}

func FindTeamMember(ctx context.Context, db *bun.DB, teamID, userID int64) (*models.TeamMember, error) {
	var member models.TeamMember
	err := db.NewSelect().Model(&member).
		Where("team_id = ?", teamID).
		Where("user_id = ?", userID).
		Scan(ctx)
	if err != nil {
		return nil, err
	}

	return &member, nil
}

func FindTeamMembership(ctx context.Context, db *bun.DB, userID int64) (*models.TeamMember, error) {
	var member models.TeamMember
	err := db.NewSelect().Model(&member).
		Where("user_id = ?", userID).
		Scan(ctx)
	if err != nil {
		return nil, err
	}

	return &member, nil
}

func RemoveTeamMember(ctx context.Context, db *bun.DB, teamID, userID int64) (int64, error) {
	res, err := db.NewDelete().
		Model((*models.TeamMember)(nil)).
		Where("team_id = ?", teamID).
		Where("user_id = ?", userID).
		Exec(ctx)
	if err != nil {
		return 0, err
	}

	return res.RowsAffected()
}

func GetTeamMembers(ctx context.Context, db *bun.DB, teamID int64) ([]*models.TeamMember, error) {
	var members []*models.TeamMember
	err := db.NewSelect().Model(&members).
		Where("team_id = ?", teamID).
		Order("joined_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}

	return members, nil
}
