package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/soa-tours/platform/internal/pkg/logger"
	"github.com/soa-tours/platform/internal/types"
)

type ExecutionRepo interface {
	Create(ctx context.Context, tx *gorm.DB, execution *types.TourExecution) error
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.TourExecution, error)
	GetActiveByUserID(ctx context.Context, tx *gorm.DB, userID int64) (*types.TourExecution, error)
	ListByUserID(ctx context.Context, tx *gorm.DB, userID int64) ([]*types.TourExecution, error)
	CountActiveByTourID(ctx context.Context, tx *gorm.DB, tourID uuid.UUID) (int64, error)
	// UpdateGuarded writes the execution only if the stored row still has
	// the expected version and is still active. It reports whether the
	// write happened; a false result means a concurrent writer won.
	UpdateGuarded(ctx context.Context, tx *gorm.DB, execution *types.TourExecution, expectedVersion int64) (bool, error)
}

type executionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewExecutionRepo(db *gorm.DB, baseLog *logger.Logger) ExecutionRepo {
	repoLog := baseLog.With("repo", "ExecutionRepo")
	return &executionRepo{db: db, log: repoLog}
}

func (r *executionRepo) Create(ctx context.Context, tx *gorm.DB, execution *types.TourExecution) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Create(execution).Error
}

func (r *executionRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.TourExecution, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var execution types.TourExecution
	if err := transaction.WithContext(ctx).
		Where("id = ?", id).
		First(&execution).Error; err != nil {
		return nil, err
	}
	return &execution, nil
}

func (r *executionRepo) GetActiveByUserID(ctx context.Context, tx *gorm.DB, userID int64) (*types.TourExecution, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var execution types.TourExecution
	if err := transaction.WithContext(ctx).
		Where("user_id = ? AND status = ?", userID, types.ExecutionStatusActive).
		First(&execution).Error; err != nil {
		return nil, err
	}
	return &execution, nil
}

func (r *executionRepo) ListByUserID(ctx context.Context, tx *gorm.DB, userID int64) ([]*types.TourExecution, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.TourExecution
	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("started_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *executionRepo) CountActiveByTourID(ctx context.Context, tx *gorm.DB, tourID uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.TourExecution{}).
		Where("tour_id = ? AND status = ?", tourID, types.ExecutionStatusActive).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *executionRepo) UpdateGuarded(ctx context.Context, tx *gorm.DB, execution *types.TourExecution, expectedVersion int64) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	execution.Version = expectedVersion + 1
	res := transaction.WithContext(ctx).
		Model(&types.TourExecution{}).
		Where("id = ? AND version = ? AND status = ?", execution.ID, expectedVersion, types.ExecutionStatusActive).
		Select("status", "current_position", "completed_keypoints", "completed_at", "abandoned_at", "last_activity", "version").
		Updates(execution)
	if res.Error != nil {
		execution.Version = expectedVersion
		return false, res.Error
	}
	if res.RowsAffected == 0 {
		execution.Version = expectedVersion
		return false, nil
	}
	return true, nil
}
