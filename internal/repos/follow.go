package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/soa-tours/platform/internal/pkg/logger"
	"github.com/soa-tours/platform/internal/types"
)

type FollowRepo interface {
	Create(ctx context.Context, tx *gorm.DB, follow *types.Follow) error
	Delete(ctx context.Context, tx *gorm.DB, followerID, followingID int64) (bool, error)
	Exists(ctx context.Context, tx *gorm.DB, followerID, followingID int64) (bool, error)
	ListFollowing(ctx context.Context, tx *gorm.DB, followerID int64) ([]*types.Follow, error)
	ListFollowers(ctx context.Context, tx *gorm.DB, followingID int64) ([]*types.Follow, error)
}

type followRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewFollowRepo(db *gorm.DB, baseLog *logger.Logger) FollowRepo {
	repoLog := baseLog.With("repo", "FollowRepo")
	return &followRepo{db: db, log: repoLog}
}

func (r *followRepo) Create(ctx context.Context, tx *gorm.DB, follow *types.Follow) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Create(follow).Error
}

func (r *followRepo) Delete(ctx context.Context, tx *gorm.DB, followerID, followingID int64) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	res := transaction.WithContext(ctx).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Delete(&types.Follow{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *followRepo) Exists(ctx context.Context, tx *gorm.DB, followerID, followingID int64) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.Follow{}).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *followRepo) ListFollowing(ctx context.Context, tx *gorm.DB, followerID int64) ([]*types.Follow, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.Follow
	if err := transaction.WithContext(ctx).
		Preload("Following").
		Preload("Following.Profile").
		Where("follower_id = ?", followerID).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *followRepo) ListFollowers(ctx context.Context, tx *gorm.DB, followingID int64) ([]*types.Follow, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.Follow
	if err := transaction.WithContext(ctx).
		Preload("Follower").
		Preload("Follower.Profile").
		Where("following_id = ?", followingID).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
