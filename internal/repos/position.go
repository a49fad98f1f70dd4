package repos

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/soa-tours/platform/internal/pkg/logger"
	"github.com/soa-tours/platform/internal/types"
)

type PositionRepo interface {
	GetByUserID(ctx context.Context, tx *gorm.DB, userID int64) (*types.Position, error)
	Upsert(ctx context.Context, tx *gorm.DB, position *types.Position) error
	DeleteByUserID(ctx context.Context, tx *gorm.DB, userID int64) (bool, error)
	List(ctx context.Context, tx *gorm.DB) ([]*types.Position, error)
}

type positionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPositionRepo(db *gorm.DB, baseLog *logger.Logger) PositionRepo {
	repoLog := baseLog.With("repo", "PositionRepo")
	return &positionRepo{db: db, log: repoLog}
}

func (r *positionRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID int64) (*types.Position, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var position types.Position
	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&position).Error; err != nil {
		return nil, err
	}
	return &position, nil
}

// Upsert overwrites the user's single position row.
func (r *positionRepo) Upsert(ctx context.Context, tx *gorm.DB, position *types.Position) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"latitude", "longitude", "timestamp", "accuracy"}),
		}).
		Create(position).Error
}

func (r *positionRepo) DeleteByUserID(ctx context.Context, tx *gorm.DB, userID int64) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	res := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&types.Position{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *positionRepo) List(ctx context.Context, tx *gorm.DB) ([]*types.Position, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.Position
	if err := transaction.WithContext(ctx).
		Order("timestamp DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
