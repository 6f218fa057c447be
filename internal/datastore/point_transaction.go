package datastore

import (
	"context"

	"greensteps/internal/models"

	"github.com/uptrace/bun"
)

func CreateTablePointTransaction(ctx context.Context, db *bun.DB) error {
	_, err := db.NewCreateTable().Model((*models.PointTransaction)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().Model((*models.PointTransaction)(nil)).Index("index_point_transaction_user_id").IfNotExists().Column("user_id").Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().Model((*models.PointTransaction)(nil)).Index("index_point_transaction_reference").IfNotExists().Unique().Column("reference").Exec(ctx)
	if err != nil {
		return err
	}

	return nil
}

// InsertPointTransaction appends an audit row; takes bun.IDB so settlement
// can run it inside a transaction.
func InsertPointTransaction(ctx context.Context, db bun.IDB, tx *models.PointTransaction) error {
	_, err := db.NewInsert().Model(tx).Exec(ctx)
	return err
}

func GetUserPointTransactions(ctx context.Context, db *bun.DB, userID int64, limit, offset int) ([]*models.PointTransaction, error) {
	var txs []*models.PointTransaction
	err := db.NewSelect().Model(&txs).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Scan(ctx)
	if err != nil {
		return nil, err
	}

	return txs, nil
}
