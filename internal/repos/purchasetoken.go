package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/soa-tours/platform/internal/pkg/logger"
	"github.com/soa-tours/platform/internal/types"
)

type PurchaseTokenRepo interface {
	Create(ctx context.Context, tx *gorm.DB, tokens []*types.PurchaseToken) error
	ListActiveByUserID(ctx context.Context, tx *gorm.DB, userID int64) ([]*types.PurchaseToken, error)
	GetActiveByUserAndTour(ctx context.Context, tx *gorm.DB, userID int64, tourID string) (*types.PurchaseToken, error)
}

type purchaseTokenRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPurchaseTokenRepo(db *gorm.DB, baseLog *logger.Logger) PurchaseTokenRepo {
	repoLog := baseLog.With("repo", "PurchaseTokenRepo")
	return &purchaseTokenRepo{db: db, log: repoLog}
}

func (r *purchaseTokenRepo) Create(ctx context.Context, tx *gorm.DB, tokens []*types.PurchaseToken) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(tokens) == 0 {
		return nil
	}
	return transaction.WithContext(ctx).Create(&tokens).Error
}

func (r *purchaseTokenRepo) ListActiveByUserID(ctx context.Context, tx *gorm.DB, userID int64) ([]*types.PurchaseToken, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.PurchaseToken
	if err := transaction.WithContext(ctx).
		Where("user_id = ? AND is_active = ?", userID, true).
		Order("purchased_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *purchaseTokenRepo) GetActiveByUserAndTour(ctx context.Context, tx *gorm.DB, userID int64, tourID string) (*types.PurchaseToken, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var token types.PurchaseToken
	if err := transaction.WithContext(ctx).
		Where("user_id = ? AND tour_id = ? AND is_active = ?", userID, tourID, true).
		First(&token).Error; err != nil {
		return nil, err
	}
	return &token, nil
}
