package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/soa-tours/platform/internal/pkg/logger"
	"github.com/soa-tours/platform/internal/types"
)

type CartRepo interface {
	GetByUserID(ctx context.Context, tx *gorm.DB, userID int64) (*types.ShoppingCart, error)
	Create(ctx context.Context, tx *gorm.DB, cart *types.ShoppingCart) error
	SetTotal(ctx context.Context, tx *gorm.DB, cartID int64, total float64) error
	ListItems(ctx context.Context, tx *gorm.DB, cartID int64) ([]types.CartItem, error)
	AddItem(ctx context.Context, tx *gorm.DB, item *types.CartItem) error
	RemoveItem(ctx context.Context, tx *gorm.DB, cartID int64, tourID string) (bool, error)
	ItemExists(ctx context.Context, tx *gorm.DB, cartID int64, tourID string) (bool, error)
	ClearItems(ctx context.Context, tx *gorm.DB, cartID int64) error
}

type cartRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCartRepo(db *gorm.DB, baseLog *logger.Logger) CartRepo {
	repoLog := baseLog.With("repo", "CartRepo")
	return &cartRepo{db: db, log: repoLog}
}

func (r *cartRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID int64) (*types.ShoppingCart, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var cart types.ShoppingCart
	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&cart).Error; err != nil {
		return nil, err
	}
	return &cart, nil
}

func (r *cartRepo) Create(ctx context.Context, tx *gorm.DB, cart *types.ShoppingCart) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Create(cart).Error
}

func (r *cartRepo) SetTotal(ctx context.Context, tx *gorm.DB, cartID int64, total float64) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Model(&types.ShoppingCart{}).
		Where("id = ?", cartID).
		Update("total_price", total).Error
}

func (r *cartRepo) ListItems(ctx context.Context, tx *gorm.DB, cartID int64) ([]types.CartItem, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var items []types.CartItem
	if err := transaction.WithContext(ctx).
		Where("cart_id = ?", cartID).
		Order("created_at ASC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *cartRepo) AddItem(ctx context.Context, tx *gorm.DB, item *types.CartItem) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Create(item).Error
}

func (r *cartRepo) RemoveItem(ctx context.Context, tx *gorm.DB, cartID int64, tourID string) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	res := transaction.WithContext(ctx).
		Where("cart_id = ? AND tour_id = ?", cartID, tourID).
		Delete(&types.CartItem{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *cartRepo) ItemExists(ctx context.Context, tx *gorm.DB, cartID int64, tourID string) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.CartItem{}).
		Where("cart_id = ? AND tour_id = ?", cartID, tourID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *cartRepo) ClearItems(ctx context.Context, tx *gorm.DB, cartID int64) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Where("cart_id = ?", cartID).
		Delete(&types.CartItem{}).Error
}
