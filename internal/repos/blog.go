package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/soa-tours/platform/internal/pkg/logger"
	"github.com/soa-tours/platform/internal/types"
)

type BlogRepo interface {
	Create(ctx context.Context, tx *gorm.DB, blog *types.Blog) error
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Blog, error)
	List(ctx context.Context, tx *gorm.DB, offset, limit int) ([]*types.Blog, error)
	Count(ctx context.Context, tx *gorm.DB) (int64, error)
	Save(ctx context.Context, tx *gorm.DB, blog *types.Blog) error
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
}

type blogRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewBlogRepo(db *gorm.DB, baseLog *logger.Logger) BlogRepo {
	repoLog := baseLog.With("repo", "BlogRepo")
	return &blogRepo{db: db, log: repoLog}
}

func (r *blogRepo) Create(ctx context.Context, tx *gorm.DB, blog *types.Blog) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Create(blog).Error
}

func (r *blogRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Blog, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var blog types.Blog
	if err := transaction.WithContext(ctx).
		Where("id = ?", id).
		First(&blog).Error; err != nil {
		return nil, err
	}
	return &blog, nil
}

func (r *blogRepo) List(ctx context.Context, tx *gorm.DB, offset, limit int) ([]*types.Blog, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.Blog
	if err := transaction.WithContext(ctx).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *blogRepo) Count(ctx context.Context, tx *gorm.DB) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.Blog{}).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *blogRepo) Save(ctx context.Context, tx *gorm.DB, blog *types.Blog) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Save(blog).Error
}

func (r *blogRepo) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Where("id = ?", id).
		Delete(&types.Blog{}).Error
}
