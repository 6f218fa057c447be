package datastore

import (
	"context"
	"time"

	"greensteps/internal/models"

	"github.com/uptrace/bun"
)

func CreateTableAction(ctx context.Context, db *bun.DB) error {
	_, err := db.NewCreateTable().Model((*models.Action)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().Model((*models.Action)(nil)).Index("index_action_is_active").IfNotExists().Column("is_active").Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().Model((*models.Action)(nil)).Index("index_action_category").IfNotExists().Column("category").Exec(ctx)
	if err != nil {
		return err
	}

	return nil
}

func GetActiveActions(ctx context.Context, db *bun.DB) ([]models.Action, error) {
	var actions []models.Action
	err := db.NewSelect().Model(&actions).
		Where("is_active = ?", true).
		Order("category ASC").
		Order("title ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}

	return actions, nil
}

func FindActionByID(ctx context.Context, db *bun.DB, actionID int64) (*models.Action, error) {
	var action models.Action
	err := db.NewSelect().Model(&action).Where("id = ?", actionID).Scan(ctx)
	if err != nil {
		return nil, err
	}

	return &action, nil
}

func CreateAction(ctx context.Context, db *bun.DB, action *models.Action) (*models.Action, error) {
	_, err := db.NewInsert().Model(action).Exec(ctx)
	if err != nil {
		return nil, err
	}

	return action, nil
}

func UpdateAction(ctx context.Context, db *bun.DB, action *models.Action) (*models.Action, error) {
	_, err := db.NewUpdate().Model(action).
		Set("title = ?", action.Title).
		Set("description = ?", action.Description).
		Set("category = ?", action.Category).
		Set("points_value = ?", action.PointsValue).
		Set("co2_impact = ?", action.CO2Impact).
		Set("is_active = ?", action.IsActive).
		Set("updated_at = ?", time.Now()).
		WherePK().Exec(ctx)
	if err != nil {
		return nil, err
	}

	return action, nil
}

// ActivateAction finalizes a user-submitted proposal with admin-chosen
// reward values inside the caller's transaction. The update only touches an
// inactive row, so a second concurrent approval settles nothing and gets
// ErrNotPending.
func ActivateAction(ctx context.Context, db bun.IDB, actionID int64, pointsValue int, co2Impact float64) error {
	res, err := db.NewUpdate().
		Model((*models.Action)(nil)).
		Set("is_active = ?", true).
		Set("points_value = ?", pointsValue).
		Set("co2_impact = ?", co2Impact).
		Set("updated_at = ?", time.Now()).
		Where("id = ?", actionID).
		Where("is_active = ?", false).
		Exec(ctx)
	if err != nil {
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotPending
	}

	return nil
}

func DeactivateAction(ctx context.Context, db *bun.DB, actionID int64) error {
	_, err := db.NewUpdate().
		Model((*models.Action)(nil)).
		Set("is_active = ?", false).
		Set("updated_at = ?", time.Now()).
		Where("id = ?", actionID).
		Exec(ctx)
	return err
}

// DeleteAction removes a never-activated proposal. Active catalog entries
// are deactivated instead so settled logs keep a valid reference.
func DeleteAction(ctx context.Context, db *bun.DB, actionID int64) error {
	_, err := db.NewDelete().
		Model((*models.Action)(nil)).
		Where("id = ?", actionID).
		Where("is_active = ?", false).
		Exec(ctx)
	return err
}

func GetPendingProposals(ctx context.Context, db *bun.DB) ([]models.Action, error) {
	var actions []models.Action
	err := db.NewSelect().Model(&actions).
		Where("is_user_created = ?", true).
		Where("is_active = ?", false).
		Order("created_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}

	return actions, nil
}
