package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"greensteps/internal/datastore"
	"greensteps/internal/models"
	"greensteps/internal/pkg/caching"

	"github.com/google/uuid"
	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/samber/do"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

type ServiceAction struct {
	container     *do.Injector
	postgresDB    *bun.DB
	cache         caching.Cache
	readonlyCache caching.ReadOnlyCache
	logger        *zap.Logger

	serviceUser         *ServiceUser
	serviceNotification *ServiceNotification
	serviceLeaderboard  *ServiceLeaderboard
	serviceBadge        *ServiceBadge
	serviceChallenge    *ServiceChallenge
}

func NewServiceAction(container *do.Injector) (*ServiceAction, error) {
	postgresDB, err := do.Invoke[*bun.DB](container)
	if err != nil {
		return nil, err
	}

	cache, err := do.Invoke[caching.Cache](container)
	if err != nil {
		return nil, err
	}

	readonlyCache, err := do.Invoke[caching.ReadOnlyCache](container)
	if err != nil {
		return nil, err
	}

	logger, err := do.Invoke[*zap.Logger](container)
	if err != nil {
		return nil, err
	}

	serviceUser, err := do.Invoke[*ServiceUser](container)
	if err != nil {
		return nil, err
	}

	serviceNotification, err := do.Invoke[*ServiceNotification](container)
	if err != nil {
		return nil, err
	}

	serviceLeaderboard, err := do.Invoke[*ServiceLeaderboard](container)
	if err != nil {
		return nil, err
	}

	serviceBadge, err := do.Invoke[*ServiceBadge](container)
	if err != nil {
		return nil, err
	}

	serviceChallenge, err := do.Invoke[*ServiceChallenge](container)
	if err != nil {
		return nil, err
	}

	return &ServiceAction{container, postgresDB, cache, readonlyCache, logger, serviceUser, serviceNotification, serviceLeaderboard, serviceBadge, serviceChallenge}, nil
}

func (service *ServiceAction) GetCatalog(ctx context.Context) ([]models.Action, error) {
	callback := func() ([]models.Action, error) {
		return datastore.GetActiveActions(ctx, service.postgresDB)
	}

	return caching.UseCacheWithRO(ctx, service.readonlyCache, service.cache, DBKeyActiveActions(), CACHE_TTL_1_MIN, callback)
}

func (service *ServiceAction) FindActionByID(ctx context.Context, actionID int64) (*models.Action, error) {
	action, err := datastore.FindActionByID(ctx, service.postgresDB, actionID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errorx.Wrap(errors.New("action not found"), errorx.NotExist)
	}
	if err != nil {
		return nil, err
	}

	return action, nil
}

// ProposeAction records a user-suggested catalog entry. It stays inactive
// and unloggable until an admin accepts it with final reward values.
func (service *ServiceAction) ProposeAction(ctx context.Context, user *models.User, title, description string, category models.ActionCategory) (*models.Action, error) {
	if title == "" {
		return nil, errorx.Wrap(errors.New("title is required"), errorx.Validation)
	}

	now := time.Now()
	action := &models.Action{
		Title:         title,
		Description:   &description,
		Category:      category,
		IsActive:      false,
		IsUserCreated: true,
		SubmittedBy:   &user.ID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	return datastore.CreateAction(ctx, service.postgresDB, action)
}

func (service *ServiceAction) CreateAction(ctx context.Context, action *models.Action) (*models.Action, error) {
	if action.Title == "" {
		return nil, errorx.Wrap(errors.New("title is required"), errorx.Validation)
	}
	if action.PointsValue <= 0 {
		return nil, errorx.Wrap(errors.New("points_value must be positive"), errorx.Validation)
	}

	action.IsActive = true
	created, err := datastore.CreateAction(ctx, service.postgresDB, action)
	if err != nil {
		return nil, err
	}

	service.invalidateCatalogCache(ctx)
	return created, nil
}

// UpdateAction edits catalog values. Settled logs keep their snapshots; only
// future submissions see the new reward.
func (service *ServiceAction) UpdateAction(ctx context.Context, action *models.Action) (*models.Action, error) {
	if _, err := service.FindActionByID(ctx, action.ID); err != nil {
		return nil, err
	}

	updated, err := datastore.UpdateAction(ctx, service.postgresDB, action)
	if err != nil {
		return nil, err
	}

	service.invalidateCatalogCache(ctx)
	return updated, nil
}

func (service *ServiceAction) DeactivateAction(ctx context.Context, actionID int64) error {
	if _, err := service.FindActionByID(ctx, actionID); err != nil {
		return err
	}

	if err := datastore.DeactivateAction(ctx, service.postgresDB, actionID); err != nil {
		return err
	}

	service.invalidateCatalogCache(ctx)
	return nil
}

func (service *ServiceAction) GetPendingProposals(ctx context.Context) ([]models.Action, error) {
	return datastore.GetPendingProposals(ctx, service.postgresDB)
}

// ApproveProposal activates the proposed action with admin-chosen reward
// values and credits the submitter with one approved log, settled atomically.
func (service *ServiceAction) ApproveProposal(ctx context.Context, admin *models.User, actionID int64, pointsValue int, co2Impact float64) (*models.ActionLog, error) {
	if pointsValue <= 0 {
		return nil, errorx.Wrap(errors.New("points_value must be positive"), errorx.Validation)
	}

	action, err := service.FindActionByID(ctx, actionID)
	if err != nil {
		return nil, err
	}
	if !action.PendingProposal() {
		return nil, errorx.Wrap(errors.New("action is not a pending proposal"), errorx.Invalid)
	}
	if action.SubmittedBy == nil {
		return nil, errorx.Wrap(errors.New("proposal has no submitter"), errorx.Service)
	}

	now := time.Now()
	log := &models.ActionLog{
		UserID:       *action.SubmittedBy,
		ActionID:     action.ID,
		PointsEarned: pointsValue,
		CO2Saved:     co2Impact,
		Status:       models.StatusApproved,
		VerifiedBy:   &admin.ID,
		VerifiedAt:   &now,
		CompletedAt:  now,
		CreatedAt:    now,
	}

	settled, err := datastore.SettleProposal(ctx, service.postgresDB, log, uuid.NewString())
	if errors.Is(err, datastore.ErrNotPending) {
		return nil, errorx.Wrap(errors.New("action is not a pending proposal"), errorx.Invalid)
	}
	if err != nil {
		return nil, err
	}

	service.invalidateCatalogCache(ctx)
	service.serviceUser.InvalidateUserCache(ctx, log.UserID)

	submitter, err := service.serviceUser.FindUserByID(ctx, log.UserID)
	if err != nil {
		service.logger.Warn("proposal settled but submitter lookup failed", zap.Int64("user_id", log.UserID), zap.Error(err))
		return settled, nil
	}

	service.serviceNotification.Dispatch(ctx, submitter, models.NotificationRewardStatus,
		"Action idea accepted",
		fmt.Sprintf("Your idea %q is now in the catalog. You earned %d points.", action.Title, pointsValue))

	if _, err := service.serviceLeaderboard.UpdateUserScore(ctx, submitter.ID); err != nil {
		service.logger.Warn("leaderboard update failed", zap.Int64("user_id", submitter.ID), zap.Error(err))
	}

	service.serviceBadge.EvaluateBadges(ctx, submitter, submitter.Points-pointsValue, submitter.Points)
	service.serviceChallenge.ApplyProgress(ctx, submitter, settled)

	return settled, nil
}

// RejectProposal drops the proposed entry and tells the submitter why.
func (service *ServiceAction) RejectProposal(ctx context.Context, actionID int64, reason string) error {
	action, err := service.FindActionByID(ctx, actionID)
	if err != nil {
		return err
	}
	if !action.PendingProposal() {
		return errorx.Wrap(errors.New("action is not a pending proposal"), errorx.Invalid)
	}

	if err := datastore.DeleteAction(ctx, service.postgresDB, actionID); err != nil {
		return err
	}

	if action.SubmittedBy != nil {
		submitter, err := service.serviceUser.FindUserByID(ctx, *action.SubmittedBy)
		if err == nil {
			body := fmt.Sprintf("Your idea %q was not accepted.", action.Title)
			if reason != "" {
				body = fmt.Sprintf("%s Reason: %s", body, reason)
			}
			service.serviceNotification.Dispatch(ctx, submitter, models.NotificationRewardStatus, "Action idea declined", body)
		}
	}

	return nil
}

func (service *ServiceAction) invalidateCatalogCache(ctx context.Context) {
	//nolint:errcheck
	service.cache.Delete(ctx, DBKeyActiveActions())
}
