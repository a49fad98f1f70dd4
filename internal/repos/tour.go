package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/soa-tours/platform/internal/pkg/logger"
	"github.com/soa-tours/platform/internal/types"
)

// TourFilter narrows List results; zero values mean "any".
type TourFilter struct {
	AuthorID   int64
	Status     string
	Difficulty string
}

type TourRepo interface {
	Create(ctx context.Context, tx *gorm.DB, tour *types.Tour) error
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Tour, error)
	List(ctx context.Context, tx *gorm.DB, filter TourFilter) ([]*types.Tour, error)
	Save(ctx context.Context, tx *gorm.DB, tour *types.Tour) error
}

type tourRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTourRepo(db *gorm.DB, baseLog *logger.Logger) TourRepo {
	repoLog := baseLog.With("repo", "TourRepo")
	return &tourRepo{db: db, log: repoLog}
}

func (r *tourRepo) Create(ctx context.Context, tx *gorm.DB, tour *types.Tour) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Create(tour).Error
}

func (r *tourRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Tour, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var tour types.Tour
	if err := transaction.WithContext(ctx).
		Where("id = ?", id).
		First(&tour).Error; err != nil {
		return nil, err
	}
	return &tour, nil
}

func (r *tourRepo) List(ctx context.Context, tx *gorm.DB, filter TourFilter) ([]*types.Tour, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	q := transaction.WithContext(ctx).Model(&types.Tour{})
	if filter.AuthorID != 0 {
		q = q.Where("author_id = ?", filter.AuthorID)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.Difficulty != "" {
		q = q.Where("difficulty = ?", filter.Difficulty)
	}
	var results []*types.Tour
	if err := q.Order("created_at DESC").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *tourRepo) Save(ctx context.Context, tx *gorm.DB, tour *types.Tour) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Save(tour).Error
}
