package datastore

import (
	"context"
	"errors"
	"time"

	"greensteps/internal/models"

	"github.com/uptrace/bun"
)

var ErrChallengeFull = errors.New("challenge is full")

func CreateTableChallenge(ctx context.Context, db *bun.DB) error {
	_, err := db.NewCreateTable().Model((*models.Challenge)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().Model((*models.Challenge)(nil)).Index("index_challenge_end_date").IfNotExists().Column("end_date").Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateTable().Model((*models.ChallengeParticipant)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().Model((*models.ChallengeParticipant)(nil)).Index("index_challenge_participant_unique").IfNotExists().Unique().Column("challenge_id", "user_id").Exec(ctx)
	if err != nil {
		return err
	}

	return nil
}

func GetChallenges(ctx context.Context, db *bun.DB, limit, offset int) ([]*models.Challenge, error) {
	var challenges []*models.Challenge
	err := db.NewSelect().Model(&challenges).
		Order("start_date DESC").
		Limit(limit).
		Offset(offset).
		Scan(ctx)
	if err != nil {
		return nil, err
	}

	return challenges, nil
}

func FindChallengeByID(ctx context.Context, db *bun.DB, challengeID int64) (*models.Challenge, error) {
	var challenge models.Challenge
	err := db.NewSelect().Model(&challenge).Where("id = ?", challengeID).Scan(ctx)
	if err != nil {
		return nil, err
	}

	return &challenge, nil
}

func CreateChallenge(ctx context.Context, db *bun.DB, challenge *models.Challenge) (*models.Challenge, error) {
	_, err := db.NewInsert().Model(challenge).Exec(ctx)
	if err != nil {
		return nil, err
	}

	return challenge, nil
}

func DeleteChallenge(ctx context.Context, db *bun.DB, challengeID int64) error {
	return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewDelete().
			Model((*models.ChallengeParticipant)(nil)).
			Where("challenge_id = ?", challengeID).
			Exec(ctx); err != nil {
			return err
		}

		_, err := tx.NewDelete().
			Model((*models.Challenge)(nil)).
			Where("id = ?", challengeID).
			Exec(ctx)
		return err
	})
}

func CountParticipants(ctx context.Context, db bun.IDB, challengeID int64) (int, error) {
	count, err := db.NewSelect().Model((*models.ChallengeParticipant)(nil)).Where("challenge_id = ?", challengeID).Count(ctx)
	if err != nil {
		return 0, err
	}

	return count, nil
}

// AddParticipant re-checks capacity and inserts in one transaction. Callers
// hold the per-challenge join mutex, so the count cannot move underneath the
// insert.
func AddParticipant(ctx context.Context, db *bun.DB, challenge *models.Challenge, userID int64) (*models.ChallengeParticipant, error) {
	participant := &models.ChallengeParticipant{
		ChallengeID: challenge.ID,
		UserID:      userID,
		JoinedAt:    time.Now(),
	}

	err := db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if challenge.MaxParticipants > 0 {
			count, err := CountParticipants(ctx, tx, challenge.ID)
			if err != nil {
				return err
			}
			if count >= challenge.MaxParticipants {
				return ErrChallengeFull
			}
		}

		_, err := tx.NewInsert().Model(participant).Exec(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}

	return participant, nil
}

func FindParticipant(ctx context.Context, db *bun.DB, challengeID, userID int64) (*models.ChallengeParticipant, error) {
	var participant models.ChallengeParticipant
	err := db.NewSelect().Model(&participant).
		Where("challenge_id = ?", challengeID).
		Where("user_id = ?", userID).
		Scan(ctx)
	if err != nil {
		return nil, err
	}

	return &participant, nil
}

// RemoveParticipant deletes the row only when it belongs to the user and is
// not completed. Returns the number of rows removed so callers can tell a
// successful leave from a silent no-op.
func RemoveParticipant(ctx context.Context, db *bun.DB, challengeID, userID int64) (int64, error) {
	res, err := db.NewDelete().
		Model((*models.ChallengeParticipant)(nil)).
		Where("challenge_id = ?", challengeID).
		Where("user_id = ?", userID).
		Where("completed = ?", false).
		Exec(ctx)
	if err != nil {
		return 0, err
	}

	return res.RowsAffected()
}

func GetParticipants(ctx context.Context, db *bun.DB, challengeID int64) ([]*models.ChallengeParticipant, error) {
	var participants []*models.ChallengeParticipant
	err := db.NewSelect().Model(&participants).
		Where("challenge_id = ?", challengeID).
		Order("current_progress DESC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}

	return participants, nil
}

// GetOpenParticipations returns the user's not-completed participations in
// challenges whose window contains now, with the challenge loaded.
func GetOpenParticipations(ctx context.Context, db *bun.DB, userID int64, now time.Time) ([]*models.ChallengeParticipant, []*models.Challenge, error) {
	var participants []*models.ChallengeParticipant
	err := db.NewSelect().Model(&participants).
		Where("user_id = ?", userID).
		Where("completed = ?", false).
		Scan(ctx)
	if err != nil {
		return nil, nil, err
	}

	var open []*models.ChallengeParticipant
	var challenges []*models.Challenge
	for _, p := range participants {
		challenge, err := FindChallengeByID(ctx, db, p.ChallengeID)
		if err != nil {
			continue
		}
		if challenge.Started(now) && !challenge.Ended(now) {
			open = append(open, p)
			challenges = append(challenges, challenge)
		}
	}

	return open, challenges, nil
}

// AddParticipantProgress applies the delta atomically and returns the new
// progress value.
func AddParticipantProgress(ctx context.Context, db *bun.DB, participantID int64, delta float64) (float64, error) {
	var progress float64
	err := db.NewUpdate().
		Model((*models.ChallengeParticipant)(nil)).
		Set("current_progress = current_progress + ?", delta).
		Where("id = ?", participantID).
		Where("completed = ?", false).
		Returning("current_progress").
		Scan(ctx, &progress)
	if err != nil {
		return 0, err
	}

	return progress, nil
}

// MarkParticipantCompleted is guarded so completion fires exactly once.
func MarkParticipantCompleted(ctx context.Context, db *bun.DB, participantID int64) (bool, error) {
	res, err := db.NewUpdate().
		Model((*models.ChallengeParticipant)(nil)).
		Set("completed = ?", true).
		Where("id = ?", participantID).
		Where("completed = ?", false).
		Exec(ctx)
	if err != nil {
		return false, err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}

	return n > 0, nil
}

// GetEndedUnnotified returns challenges past their end date whose
// participants have not been told yet, and flags them notified.
func GetEndedUnnotified(ctx context.Context, db *bun.DB, now time.Time) ([]*models.Challenge, error) {
	var challenges []*models.Challenge
	err := db.NewSelect().Model(&challenges).
		Where("end_date < ?", now).
		Where("end_notified = ?", false).
		Scan(ctx)
	if err != nil {
		return nil, err
	}

	for _, challenge := range challenges {
		if _, err := db.NewUpdate().
			Model((*models.Challenge)(nil)).
			Set("end_notified = ?", true).
			Where("id = ?", challenge.ID).
			Exec(ctx); err != nil {
			return nil, err
		}
	}

	return challenges, nil
}
