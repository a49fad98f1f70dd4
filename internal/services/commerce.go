package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/soa-tours/platform/internal/pkg/apierr"
	"github.com/soa-tours/platform/internal/pkg/logger"
	"github.com/soa-tours/platform/internal/repos"
	"github.com/soa-tours/platform/internal/types"
)

type CartItemInput struct {
	TourID   string  `json:"tour_id"`
	TourName string  `json:"tour_name"`
	Price    float64 `json:"price"`
}

type CheckoutResult struct {
	Tokens []*types.PurchaseToken `json:"purchase_tokens"`
	Total  float64                `json:"total_price"`
}

type CommerceService interface {
	GetCart(ctx context.Context, userID int64) (*types.ShoppingCart, error)
	AddToCart(ctx context.Context, userID int64, input *CartItemInput) (*types.ShoppingCart, error)
	RemoveFromCart(ctx context.Context, userID int64, tourID string) (*types.ShoppingCart, error)
	Checkout(ctx context.Context, userID int64) (*CheckoutResult, error)
	Purchases(ctx context.Context, userID int64) ([]*types.PurchaseToken, error)
	CheckPurchase(ctx context.Context, userID int64, tourID string) (*types.TourPurchaseInfo, error)
}

type commerceService struct {
	db                *gorm.DB
	log               *logger.Logger
	cartRepo          repos.CartRepo
	purchaseTokenRepo repos.PurchaseTokenRepo
}

func NewCommerceService(db *gorm.DB, log *logger.Logger, cartRepo repos.CartRepo, purchaseTokenRepo repos.PurchaseTokenRepo) CommerceService {
	serviceLog := log.With("service", "CommerceService")
	return &commerceService{db: db, log: serviceLog, cartRepo: cartRepo, purchaseTokenRepo: purchaseTokenRepo}
}

// GetCart returns the user's cart, creating an empty one on first use.
func (cs *commerceService) GetCart(ctx context.Context, userID int64) (*types.ShoppingCart, error) {
	cart, err := cs.getOrCreateCart(ctx, nil, userID)
	if err != nil {
		return nil, apierr.Dependency(err, "failed to load cart")
	}
	return cs.loadCart(ctx, cart)
}

func (cs *commerceService) AddToCart(ctx context.Context, userID int64, input *CartItemInput) (*types.ShoppingCart, error) {
	if strings.TrimSpace(input.TourID) == "" || strings.TrimSpace(input.TourName) == "" {
		return nil, apierr.Validation("tour_id and tour_name are required")
	}
	if input.Price < 0 {
		return nil, apierr.Validation("price cannot be negative")
	}

	existing, err := cs.purchaseTokenRepo.GetActiveByUserAndTour(ctx, nil, userID, input.TourID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apierr.Dependency(err, "failed to check purchases")
	}
	if existing != nil {
		return nil, apierr.Conflict("tour already purchased")
	}

	var cart *types.ShoppingCart
	if err := cs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		cart, err = cs.getOrCreateCart(ctx, tx, userID)
		if err != nil {
			return err
		}
		inCart, err := cs.cartRepo.ItemExists(ctx, tx, cart.ID, input.TourID)
		if err != nil {
			return err
		}
		if inCart {
			return apierr.Conflict("tour already in cart")
		}
		if err := cs.cartRepo.AddItem(ctx, tx, &types.CartItem{
			CartID:   cart.ID,
			TourID:   input.TourID,
			TourName: input.TourName,
			Price:    input.Price,
		}); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return apierr.Conflict("tour already in cart")
			}
			return err
		}
		return cs.cartRepo.SetTotal(ctx, tx, cart.ID, cart.TotalPrice+input.Price)
	}); err != nil {
		if ae := apierr.As(err); ae != nil {
			return nil, ae
		}
		return nil, apierr.Dependency(err, "failed to add cart item")
	}
	return cs.GetCart(ctx, userID)
}

func (cs *commerceService) RemoveFromCart(ctx context.Context, userID int64, tourID string) (*types.ShoppingCart, error) {
	if err := cs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		cart, err := cs.getOrCreateCart(ctx, tx, userID)
		if err != nil {
			return err
		}
		items, err := cs.cartRepo.ListItems(ctx, tx, cart.ID)
		if err != nil {
			return err
		}
		var removedPrice float64
		found := false
		for _, item := range items {
			if item.TourID == tourID {
				removedPrice = item.Price
				found = true
				break
			}
		}
		if !found {
			return apierr.NotFound("tour not in cart")
		}
		if _, err := cs.cartRepo.RemoveItem(ctx, tx, cart.ID, tourID); err != nil {
			return err
		}
		return cs.cartRepo.SetTotal(ctx, tx, cart.ID, cart.TotalPrice-removedPrice)
	}); err != nil {
		if ae := apierr.As(err); ae != nil {
			return nil, ae
		}
		return nil, apierr.Dependency(err, "failed to remove cart item")
	}
	return cs.GetCart(ctx, userID)
}

// Checkout converts every cart item into a purchase token and empties
// the cart, all in one transaction.
func (cs *commerceService) Checkout(ctx context.Context, userID int64) (*CheckoutResult, error) {
	result := &CheckoutResult{}
	if err := cs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		cart, err := cs.getOrCreateCart(ctx, tx, userID)
		if err != nil {
			return err
		}
		items, err := cs.cartRepo.ListItems(ctx, tx, cart.ID)
		if err != nil {
			return err
		}
		if len(items) == 0 {
			return apierr.Precondition("cart is empty")
		}

		tokens := make([]*types.PurchaseToken, 0, len(items))
		for _, item := range items {
			tokens = append(tokens, &types.PurchaseToken{
				UserID:   userID,
				TourID:   item.TourID,
				Token:    fmt.Sprintf("pt-%s", uuid.New().String()),
				IsActive: true,
			})
		}
		if err := cs.purchaseTokenRepo.Create(ctx, tx, tokens); err != nil {
			return err
		}
		if err := cs.cartRepo.ClearItems(ctx, tx, cart.ID); err != nil {
			return err
		}
		if err := cs.cartRepo.SetTotal(ctx, tx, cart.ID, 0); err != nil {
			return err
		}
		result.Tokens = tokens
		result.Total = cart.TotalPrice
		return nil
	}); err != nil {
		if ae := apierr.As(err); ae != nil {
			return nil, ae
		}
		return nil, apierr.Dependency(err, "checkout failed")
	}
	return result, nil
}

func (cs *commerceService) Purchases(ctx context.Context, userID int64) ([]*types.PurchaseToken, error) {
	tokens, err := cs.purchaseTokenRepo.ListActiveByUserID(ctx, nil, userID)
	if err != nil {
		return nil, apierr.Dependency(err, "failed to list purchases")
	}
	return tokens, nil
}

func (cs *commerceService) CheckPurchase(ctx context.Context, userID int64, tourID string) (*types.TourPurchaseInfo, error) {
	token, err := cs.purchaseTokenRepo.GetActiveByUserAndTour(ctx, nil, userID, tourID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &types.TourPurchaseInfo{TourID: tourID, IsPurchased: false}, nil
		}
		return nil, apierr.Dependency(err, "failed to check purchase")
	}
	return &types.TourPurchaseInfo{TourID: tourID, IsPurchased: true, Token: token.Token}, nil
}

func (cs *commerceService) getOrCreateCart(ctx context.Context, tx *gorm.DB, userID int64) (*types.ShoppingCart, error) {
	cart, err := cs.cartRepo.GetByUserID(ctx, tx, userID)
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	cart = &types.ShoppingCart{UserID: userID}
	if err := cs.cartRepo.Create(ctx, tx, cart); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return cs.cartRepo.GetByUserID(ctx, tx, userID)
		}
		return nil, err
	}
	return cart, nil
}

func (cs *commerceService) loadCart(ctx context.Context, cart *types.ShoppingCart) (*types.ShoppingCart, error) {
	items, err := cs.cartRepo.ListItems(ctx, nil, cart.ID)
	if err != nil {
		return nil, apierr.Dependency(err, "failed to load cart items")
	}
	cart.Items = items
	return cart, nil
}
