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

type ServiceChallenge struct {
	container  *do.Injector
	rs         *redsync.Redsync
	postgresDB *bun.DB
	logger     *zap.Logger

	serviceNotification *ServiceNotification
}

func NewServiceChallenge(container *do.Injector) (*ServiceChallenge, error) {
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

	return &ServiceChallenge{container, rs, postgresDB, logger, serviceNotification}, nil
}

func (service *ServiceChallenge) List(ctx context.Context, user *models.User, page, limit int) ([]*models.Challenge, error) {
	limit, offset := Paginate(page, limit)

	challenges, err := datastore.GetChallenges(ctx, service.postgresDB, limit, offset)
	if err != nil {
		return nil, err
	}

	if user != nil {
		for _, challenge := range challenges {
			participant, err := datastore.FindParticipant(ctx, service.postgresDB, challenge.ID, user.ID)
			if err == nil {
				challenge.Participation = participant
			}
		}
	}

	return challenges, nil
}

func (service *ServiceChallenge) Get(ctx context.Context, user *models.User, challengeID int64) (*models.Challenge, error) {
	challenge, err := datastore.FindChallengeByID(ctx, service.postgresDB, challengeID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errorx.Wrap(errors.New("challenge not found"), errorx.NotExist)
	}
	if err != nil {
		return nil, err
	}

	if user != nil {
		participant, err := datastore.FindParticipant(ctx, service.postgresDB, challenge.ID, user.ID)
		if err == nil {
			challenge.Participation = participant
		}
	}

	return challenge, nil
}

func (service *ServiceChallenge) Create(ctx context.Context, user *models.User, challenge *models.Challenge) (*models.Challenge, error) {
	if challenge.Title == "" {
		return nil, errorx.Wrap(errors.New("title is required"), errorx.Validation)
	}
	if challenge.TargetValue <= 0 {
		return nil, errorx.Wrap(errors.New("target_value must be positive"), errorx.Validation)
	}
	if !challenge.EndDate.After(challenge.StartDate) {
		return nil, errorx.Wrap(errors.New("end_date must be after start_date"), errorx.Validation)
	}

	switch challenge.Type {
	case models.ChallengeCompany:
		if !user.IsAdmin {
			return nil, errorx.Wrap(errors.New("only admins create company challenges"), errorx.Authn)
		}
	case models.ChallengeTeam:
		if challenge.TeamID == nil {
			return nil, errorx.Wrap(errors.New("team challenges need a team"), errorx.Validation)
		}
		if !user.IsAdmin {
			member, err := datastore.FindTeamMember(ctx, service.postgresDB, *challenge.TeamID, user.ID)
			if err != nil || !member.IsLeader() {
				return nil, errorx.Wrap(errors.New("only the team leader creates team challenges"), errorx.Authn)
			}
		}
	case models.ChallengeIndividual:
	default:
		return nil, errorx.Wrap(errors.New("unknown challenge type"), errorx.Validation)
	}

	switch challenge.Metric {
	case models.MetricActions, models.MetricPoints, models.MetricCO2:
	default:
		return nil, errorx.Wrap(errors.New("unknown challenge metric"), errorx.Validation)
	}

	challenge.CreatedBy = user.ID
	challenge.CreatedAt = time.Now()
	return datastore.CreateChallenge(ctx, service.postgresDB, challenge)
}

// Delete is allowed for admins, the creator, and the leader of the owning
// team for team challenges. Participant rows go with the challenge.
func (service *ServiceChallenge) Delete(ctx context.Context, user *models.User, challengeID int64) error {
	challenge, err := service.Get(ctx, nil, challengeID)
	if err != nil {
		return err
	}

	allowed := user.IsAdmin || challenge.CreatedBy == user.ID
	if !allowed && challenge.Type == models.ChallengeTeam && challenge.TeamID != nil {
		member, err := datastore.FindTeamMember(ctx, service.postgresDB, *challenge.TeamID, user.ID)
		allowed = err == nil && member.IsLeader()
	}
	if !allowed {
		return errorx.Wrap(errors.New("not allowed to delete this challenge"), errorx.Authn)
	}

	return datastore.DeleteChallenge(ctx, service.postgresDB, challengeID)
}

// Join enrolls the user. Capacity is enforced under a per-challenge mutex so
// two concurrent joins cannot both take the last slot.
func (service *ServiceChallenge) Join(ctx context.Context, user *models.User, challengeID int64) (*models.ChallengeParticipant, error) {
	challenge, err := service.Get(ctx, nil, challengeID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if challenge.Ended(now) {
		return nil, errorx.Wrap(errors.New("challenge has ended"), errorx.Invalid)
	}

	if challenge.Type == models.ChallengeTeam {
		return nil, errorx.Wrap(errors.New("team challenges cannot be joined directly"), errorx.Invalid)
	}

	mutex := service.rs.NewMutex(LockKeyChallengeJoin(challengeID), redsync.WithExpiry(10*time.Second))
	if err := mutex.Lock(); err != nil {
		return nil, errorx.Wrap(ErrChallengeJoinLock, errorx.Invalid)
	}
	//nolint:errcheck
	defer mutex.Unlock()

	// under the mutex, so a concurrent join by the same user is visible here
	if _, err := datastore.FindParticipant(ctx, service.postgresDB, challengeID, user.ID); err == nil {
		return nil, errorx.Wrap(errors.New("already joined"), errorx.Invalid)
	}

	participant, err := datastore.AddParticipant(ctx, service.postgresDB, challenge, user.ID)
	if errors.Is(err, datastore.ErrChallengeFull) {
		return nil, errorx.Wrap(err, errorx.Invalid)
	}
	if err != nil {
		return nil, err
	}

	return participant, nil
}

// Leave removes an uncompleted participation; progress is discarded.
func (service *ServiceChallenge) Leave(ctx context.Context, user *models.User, challengeID int64) error {
	participant, err := datastore.FindParticipant(ctx, service.postgresDB, challengeID, user.ID)
	if errors.Is(err, sql.ErrNoRows) {
		return errorx.Wrap(errors.New("not participating"), errorx.NotExist)
	}
	if err != nil {
		return err
	}

	if participant.Completed {
		return errorx.Wrap(errors.New("completed challenges cannot be left"), errorx.Invalid)
	}

	n, err := datastore.RemoveParticipant(ctx, service.postgresDB, challengeID, user.ID)
	if err != nil {
		return err
	}
	if n == 0 {
		return errorx.Wrap(errors.New("not participating"), errorx.NotExist)
	}

	return nil
}

func (service *ServiceChallenge) GetParticipants(ctx context.Context, challengeID int64) ([]*models.ChallengeParticipant, error) {
	if _, err := service.Get(ctx, nil, challengeID); err != nil {
		return nil, err
	}

	return datastore.GetParticipants(ctx, service.postgresDB, challengeID)
}

// ProgressDelta maps a settled log onto a challenge metric. Every settlement
// path, ordinary approval and proposal approval alike, feeds progress
// through this.
func ProgressDelta(metric models.ChallengeMetric, log *models.ActionLog) (float64, bool) {
	switch metric {
	case models.MetricActions:
		return 1, true
	case models.MetricPoints:
		return float64(log.PointsEarned), true
	case models.MetricCO2:
		return log.CO2Saved, true
	default:
		return 0, false
	}
}

// ApplyProgress advances every open participation touched by a settled log.
// The delta depends on the challenge metric; completion fires exactly once.
func (service *ServiceChallenge) ApplyProgress(ctx context.Context, user *models.User, log *models.ActionLog) {
	now := time.Now()
	participants, challenges, err := datastore.GetOpenParticipations(ctx, service.postgresDB, user.ID, now)
	if err != nil {
		service.logger.Warn("loading open participations failed", zap.Int64("user_id", user.ID), zap.Error(err))
		return
	}

	for i, participant := range participants {
		challenge := challenges[i]

		delta, ok := ProgressDelta(challenge.Metric, log)
		if !ok {
			continue
		}

		progress, err := datastore.AddParticipantProgress(ctx, service.postgresDB, participant.ID, delta)
		if err != nil {
			service.logger.Warn("challenge progress update failed",
				zap.Int64("participant_id", participant.ID),
				zap.Error(err))
			continue
		}

		if progress < challenge.TargetValue {
			continue
		}

		completed, err := datastore.MarkParticipantCompleted(ctx, service.postgresDB, participant.ID)
		if err != nil {
			service.logger.Warn("challenge completion flag failed",
				zap.Int64("participant_id", participant.ID),
				zap.Error(err))
			continue
		}
		if !completed {
			continue
		}

		service.serviceNotification.Dispatch(ctx, user, models.NotificationChallengeProgress,
			"Challenge completed",
			fmt.Sprintf("You completed %q.", challenge.Title))
	}
}

// ExpireEnded tells participants of freshly ended challenges how they did.
// Each challenge is flagged so the sweep never notifies twice.
func (service *ServiceChallenge) ExpireEnded(ctx context.Context) error {
	challenges, err := datastore.GetEndedUnnotified(ctx, service.postgresDB, time.Now())
	if err != nil {
		return err
	}

	for _, challenge := range challenges {
		participants, err := datastore.GetParticipants(ctx, service.postgresDB, challenge.ID)
		if err != nil {
			service.logger.Warn("loading participants failed", zap.Int64("challenge_id", challenge.ID), zap.Error(err))
			continue
		}

		for _, participant := range participants {
			user, err := datastore.FindUserByID(ctx, service.postgresDB, participant.UserID)
			if err != nil {
				continue
			}

			body := fmt.Sprintf("%q has ended. You reached %.0f of %.0f.", challenge.Title, participant.CurrentProgress, challenge.TargetValue)
			if participant.Completed {
				body = fmt.Sprintf("%q has ended. You completed it, well done!", challenge.Title)
			}
			service.serviceNotification.Dispatch(ctx, user, models.NotificationChallengeProgress, "Challenge ended", body)
		}
	}

	return nil
}
