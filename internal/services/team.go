package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"greensteps/internal/datastore"
	"greensteps/internal/models"

	"github.com/go-redsync/redsync/v4"
	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/samber/do"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

type ServiceTeam struct {
	container  *do.Injector
	rs         *redsync.Redsync
	postgresDB *bun.DB
	logger     *zap.Logger

	serviceNotification *ServiceNotification
}

func NewServiceTeam(container *do.Injector) (*ServiceTeam, error) {
	rs, err := do.Invoke[*redsync.Redsync](container)
	if err != nil {
		return nil, err
	}

	postgresDB, err := do.Invoke[*bun.DB](container)
	if err != nil {
		return nil, err
	}

	logger, err := do.Invoke[*zap.Logger](container)
	if err != nil {
		return nil, err
	}

	serviceNotification, err := do.Invoke[*ServiceNotification](container)
	if err != nil {
		return nil, err
	}

	return &ServiceTeam{container, rs, postgresDB, logger, serviceNotification}, nil
}

func (service *ServiceTeam) List(ctx context.Context, page, limit int) ([]*models.Team, error) {
	limit, offset := Paginate(page, limit)

	teams, err := datastore.GetTeams(ctx, service.postgresDB, limit, offset)
	if err != nil {
		return nil, err
	}

	for _, team := range teams {
		count, err := datastore.CountTeamMembers(ctx, service.postgresDB, team.ID)
		if err != nil {
			continue
		}
		team.MemberCount = count
	}

	return teams, nil
}

func (service *ServiceTeam) Get(ctx context.Context, teamID int64) (*models.Team, error) {
	team, err := datastore.FindTeamByID(ctx, service.postgresDB, teamID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errorx.Wrap(errors.New("team not found"), errorx.NotExist)
	}
	if err != nil {
		return nil, err
	}

	count, err := datastore.CountTeamMembers(ctx, service.postgresDB, team.ID)
	if err == nil {
		team.MemberCount = count
	}

	return team, nil
}

// Create makes a new team with the caller as leader. A user belongs to at
// most one team at a time.
func (service *ServiceTeam) Create(ctx context.Context, user *models.User, team *models.Team) (*models.Team, error) {
	if team.Name == "" {
		return nil, errorx.Wrap(errors.New("name is required"), errorx.Validation)
	}

	if _, err := datastore.FindTeamMembership(ctx, service.postgresDB, user.ID); err == nil {
		return nil, errorx.Wrap(errors.New("already in a team"), errorx.Invalid)
	}

	team.CreatedAt = time.Now()
	created, err := datastore.CreateTeamWithLeader(ctx, service.postgresDB, team, user.ID)
	if err != nil {
		return nil, err
	}

	created.MemberCount = 1
	return created, nil
}

// Join adds the caller as a member. Capacity is enforced under a per-team
// mutex; the leader is told about the new member.
func (service *ServiceTeam) Join(ctx context.Context, user *models.User, teamID int64) (*models.TeamMember, error) {
	team, err := service.Get(ctx, teamID)
	if err != nil {
		return nil, err
	}

	if _, err := datastore.FindTeamMembership(ctx, service.postgresDB, user.ID); err == nil {
		return nil, errorx.Wrap(errors.New("already in a team"), errorx.Invalid)
	}

	mutex := service.rs.NewMutex(LockKeyTeamJoin(teamID), redsync.WithExpiry(10*time.Second))
	if err := mutex.Lock(); err != nil {
		return nil, errorx.Wrap(ErrTeamJoinLock, errorx.Invalid)
	}
	//nolint:errcheck
	defer mutex.Unlock()

	member, err := datastore.AddTeamMember(ctx, service.postgresDB, team, user.ID)
	if errors.Is(err, datastore.ErrTeamFull) {
		return nil, errorx.Wrap(err, errorx.Invalid)
	}
	if err != nil {
		return nil, err
	}

	service.notifyLeader(ctx, teamID, "New team member",
		fmt.Sprintf("%s %s joined %q.", user.FirstName, user.LastName, team.Name))

	return member, nil
}

// Leave removes the caller's membership. A leader may only leave as the last
// member, which dissolves the team.
func (service *ServiceTeam) Leave(ctx context.Context, user *models.User, teamID int64) error {
	member, err := datastore.FindTeamMember(ctx, service.postgresDB, teamID, user.ID)
	if errors.Is(err, sql.ErrNoRows) {
		return errorx.Wrap(errors.New("not a team member"), errorx.NotExist)
	}
	if err != nil {
		return err
	}

	if member.IsLeader() {
		count, err := datastore.CountTeamMembers(ctx, service.postgresDB, teamID)
		if err != nil {
			return err
		}
		if count > 1 {
			return errorx.Wrap(errors.New("leader cannot leave while the team has members"), errorx.Invalid)
		}

		return datastore.DeleteTeam(ctx, service.postgresDB, teamID)
	}

	n, err := datastore.RemoveTeamMember(ctx, service.postgresDB, teamID, user.ID)
	if err != nil {
		return err
	}
	if n == 0 {
		return errorx.Wrap(errors.New("not a team member"), errorx.NotExist)
	}

	service.notifyLeader(ctx, teamID, "Team member left",
		fmt.Sprintf("%s %s left the team.", user.FirstName, user.LastName))

	return nil
}

func (service *ServiceTeam) Members(ctx context.Context, teamID int64) ([]*models.TeamMember, error) {
	if _, err := service.Get(ctx, teamID); err != nil {
		return nil, err
	}

	return datastore.GetTeamMembers(ctx, service.postgresDB, teamID)
}

func (service *ServiceTeam) notifyLeader(ctx context.Context, teamID int64, title, body string) {
	members, err := datastore.GetTeamMembers(ctx, service.postgresDB, teamID)
	if err != nil {
		service.logger.Warn("loading team members failed", zap.Int64("team_id", teamID), zap.Error(err))
		return
	}

	for _, member := range members {
		if !member.IsLeader() {
			continue
		}
		leader, err := datastore.FindUserByID(ctx, service.postgresDB, member.UserID)
		if err != nil {
			return
		}
		service.serviceNotification.Dispatch(ctx, leader, models.NotificationTeamUpdate, title, body)
		return
	}
}
