package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/soa-tours/platform/internal/pkg/logger"
	"github.com/soa-tours/platform/internal/types"
)

type ProfileRepo interface {
	Create(ctx context.Context, tx *gorm.DB, profiles []*types.Profile) ([]*types.Profile, error)
	GetByUserID(ctx context.Context, tx *gorm.DB, userID int64) (*types.Profile, error)
	List(ctx context.Context, tx *gorm.DB) ([]*types.Profile, error)
	Save(ctx context.Context, tx *gorm.DB, profile *types.Profile) error
}

type profileRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewProfileRepo(db *gorm.DB, baseLog *logger.Logger) ProfileRepo {
	repoLog := baseLog.With("repo", "ProfileRepo")
	return &profileRepo{db: db, log: repoLog}
}

func (r *profileRepo) Create(ctx context.Context, tx *gorm.DB, profiles []*types.Profile) ([]*types.Profile, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(profiles) == 0 {
		return []*types.Profile{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&profiles).Error; err != nil {
		return nil, err
	}
	return profiles, nil
}

func (r *profileRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID int64) (*types.Profile, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var profile types.Profile
	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *profileRepo) List(ctx context.Context, tx *gorm.DB) ([]*types.Profile, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.Profile
	if err := transaction.WithContext(ctx).
		Order("user_id ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *profileRepo) Save(ctx context.Context, tx *gorm.DB, profile *types.Profile) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Save(profile).Error
}
