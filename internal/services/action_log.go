package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"
	"unicode/utf8"

	"greensteps/internal/datastore"
	"greensteps/internal/interfaces"
	"greensteps/internal/models"

	"github.com/go-redis/redis_rate/v10"
	"github.com/google/uuid"
	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/samber/do"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

type ServiceActionLog struct {
	ServiceHTTP
	container  *do.Injector
	postgresDB *bun.DB
	limiter    interfaces.Limiter
	logger     *zap.Logger

	serviceUser         *ServiceUser
	serviceAction       *ServiceAction
	serviceNotification *ServiceNotification
	serviceLeaderboard  *ServiceLeaderboard
	serviceBadge        *ServiceBadge
	serviceChallenge    *ServiceChallenge
}

func NewServiceActionLog(container *do.Injector) (*ServiceActionLog, error) {
	postgresDB, err := do.Invoke[*bun.DB](container)
	if err != nil {
		return nil, err
	}

	limiter, err := do.Invoke[interfaces.Limiter](container)
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

	serviceAction, err := do.Invoke[*ServiceAction](container)
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

	return &ServiceActionLog{
		container:           container,
		postgresDB:          postgresDB,
		limiter:             limiter,
		logger:              logger,
		serviceUser:         serviceUser,
		serviceAction:       serviceAction,
		serviceNotification: serviceNotification,
		serviceLeaderboard:  serviceLeaderboard,
		serviceBadge:        serviceBadge,
		serviceChallenge:    serviceChallenge,
	}, nil
}

// ValidateSubmission enforces the submission policy before anything is
// written. Missing photographic proof wins over every other complaint; the
// notes cap counts characters, not bytes.
func ValidateSubmission(notes string, hasPhotos bool) error {
	if !hasPhotos {
		return errorx.Wrap(errors.New("photographic proof required"), errorx.Validation)
	}

	if utf8.RuneCountInString(notes) > MAX_NOTES_LENGTH {
		return errorx.Wrap(errors.New("notes exceed 500 characters"), errorx.Validation)
	}

	return nil
}

// Submit records a pending log for the user. Reward values are snapshotted
// from the catalog now; verification only flips the status later.
func (service *ServiceActionLog) Submit(ctx context.Context, user *models.User, actionID int64, notes string, hasPhotos bool, photoURL *string) (*models.ActionLog, error) {
	if err := service.limiter.Allow(ctx, LimitKeyActionSubmit(user.ID), redis_rate.PerMinute(ACTION_SUBMIT_RATE_LIMIT_PER_MINUTE)); err != nil {
		return nil, errorx.Wrap(err, errorx.RateLimiting)
	}

	if err := ValidateSubmission(notes, hasPhotos); err != nil {
		return nil, err
	}

	action, err := service.serviceAction.FindActionByID(ctx, actionID)
	if err != nil {
		return nil, err
	}
	if !action.IsActive {
		return nil, errorx.Wrap(errors.New("action not found"), errorx.NotExist)
	}

	since := time.Now().Add(-DUPLICATE_WINDOW)
	_, err = datastore.FindRecentLog(ctx, service.postgresDB, user.ID, action.ID, since)
	if err == nil {
		return nil, errorx.Wrap(errors.New("action already logged within the last day"), errorx.Invalid)
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	if photoURL != nil && *photoURL != "" {
		service.probePhotoURL(*photoURL, user.ID)
	}

	now := time.Now()
	log := &models.ActionLog{
		UserID:       user.ID,
		ActionID:     action.ID,
		PointsEarned: action.PointsValue,
		CO2Saved:     action.CO2Impact,
		Status:       models.StatusPending,
		Notes:        notes,
		PhotoURL:     photoURL,
		CompletedAt:  now,
		CreatedAt:    now,
	}

	return datastore.InsertActionLog(ctx, service.postgresDB, log)
}

// probePhotoURL checks the uploaded proof is reachable. Advisory: a dead
// link is logged for the reviewer but never blocks the submission.
func (service *ServiceActionLog) probePhotoURL(url string, userID int64) {
	res, err := service.httpClient(0).Get(url, http.Header{})
	if err != nil {
		service.logger.Warn("photo url unreachable", zap.Int64("user_id", userID), zap.String("url", url), zap.Error(err))
		return
	}
	defer res.Body.Close()

	if res.StatusCode >= 400 {
		service.logger.Warn("photo url returned error status",
			zap.Int64("user_id", userID),
			zap.String("url", url),
			zap.Int("status", res.StatusCode))
	}
}

func (service *ServiceActionLog) History(ctx context.Context, user *models.User, page, limit int) ([]*models.ActionLog, error) {
	limit, offset := Paginate(page, limit)
	return datastore.GetUserActionLogs(ctx, service.postgresDB, user.ID, limit, offset)
}

func (service *ServiceActionLog) PendingQueue(ctx context.Context, page, limit int) ([]*models.ActionLog, error) {
	limit, offset := Paginate(page, limit)
	return datastore.GetPendingActionLogs(ctx, service.postgresDB, limit, offset)
}

// Approve settles a pending log: one transaction flips the status, moves the
// totals and appends the ledger row. Side effects after the commit are best
// effort and logged when they fail.
func (service *ServiceActionLog) Approve(ctx context.Context, admin *models.User, logID int64) (*models.ActionLog, error) {
	log, err := datastore.ApproveActionLog(ctx, service.postgresDB, logID, admin.ID, uuid.NewString())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errorx.Wrap(errors.New("action log not found"), errorx.NotExist)
	}
	if errors.Is(err, datastore.ErrNotPending) {
		return nil, errorx.Wrap(err, errorx.Invalid)
	}
	if err != nil {
		return nil, err
	}

	service.serviceUser.InvalidateUserCache(ctx, log.UserID)

	user, err := service.serviceUser.FindUserByID(ctx, log.UserID)
	if err != nil {
		service.logger.Warn("settled but user lookup failed", zap.Int64("user_id", log.UserID), zap.Error(err))
		return log, nil
	}

	service.serviceNotification.Dispatch(ctx, user, models.NotificationActionStatus,
		"Action approved",
		fmt.Sprintf("Your action was approved. You earned %d points and saved %.1f kg CO2.", log.PointsEarned, log.CO2Saved))

	if _, err := service.serviceLeaderboard.UpdateUserScore(ctx, user.ID); err != nil {
		service.logger.Warn("leaderboard update failed", zap.Int64("user_id", user.ID), zap.Error(err))
	}

	service.serviceBadge.EvaluateBadges(ctx, user, user.Points-log.PointsEarned, user.Points)
	service.serviceChallenge.ApplyProgress(ctx, user, log)

	return log, nil
}

// Reject flips a pending log to rejected and tells the user why. Nothing is
// awarded and no ledger row is written.
func (service *ServiceActionLog) Reject(ctx context.Context, admin *models.User, logID int64, reason string) error {
	log, err := datastore.FindActionLogByID(ctx, service.postgresDB, logID)
	if errors.Is(err, sql.ErrNoRows) {
		return errorx.Wrap(errors.New("action log not found"), errorx.NotExist)
	}
	if err != nil {
		return err
	}

	err = datastore.RejectActionLog(ctx, service.postgresDB, logID, admin.ID, reason)
	if errors.Is(err, datastore.ErrNotPending) {
		return errorx.Wrap(err, errorx.Invalid)
	}
	if err != nil {
		return err
	}

	user, err := service.serviceUser.FindUserByID(ctx, log.UserID)
	if err != nil {
		service.logger.Warn("rejected but user lookup failed", zap.Int64("user_id", log.UserID), zap.Error(err))
		return nil
	}

	body := "Your action submission was not approved."
	if reason != "" {
		body = fmt.Sprintf("%s Reason: %s", body, reason)
	}
	service.serviceNotification.Dispatch(ctx, user, models.NotificationActionStatus, "Action rejected", body)

	return nil
}
