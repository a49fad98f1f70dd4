package services

import (
	"context"
	"testing"

	"gorm.io/gorm"

	"github.com/soa-tours/platform/internal/pkg/apierr"
	"github.com/soa-tours/platform/internal/repos"
	"github.com/soa-tours/platform/internal/types"
)

func newCommerceService(t *testing.T) (CommerceService, *gorm.DB) {
	t.Helper()
	db := openTestDB(t, &types.ShoppingCart{}, &types.CartItem{}, &types.PurchaseToken{})
	log := testLogger()
	service := NewCommerceService(db, log, repos.NewCartRepo(db, log), repos.NewPurchaseTokenRepo(db, log))
	return service, db
}

func TestGetCartCreatesEmptyCart(t *testing.T) {
	service, _ := newCommerceService(t)

	cart, err := service.GetCart(context.Background(), 42)
	if err != nil {
		t.Fatalf("get cart: %v", err)
	}
	if cart.UserID != 42 || cart.TotalPrice != 0 || len(cart.Items) != 0 {
		t.Fatalf("expected fresh empty cart, got %+v", cart)
	}

	again, err := service.GetCart(context.Background(), 42)
	if err != nil {
		t.Fatalf("get cart again: %v", err)
	}
	if again.ID != cart.ID {
		t.Fatalf("expected the same cart on repeat calls")
	}
}

func TestAddToCart(t *testing.T) {
	service, _ := newCommerceService(t)

	cart, err := service.AddToCart(context.Background(), 42, &CartItemInput{
		TourID: "tour-1", TourName: "Old Town Walk", Price: 25,
	})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if len(cart.Items) != 1 || cart.TotalPrice != 25 {
		t.Fatalf("expected one item totalling 25, got %+v", cart)
	}

	_, err = service.AddToCart(context.Background(), 42, &CartItemInput{
		TourID: "tour-1", TourName: "Old Town Walk", Price: 25,
	})
	ae := apierr.As(err)
	if ae == nil || ae.Code != "conflict_error" {
		t.Fatalf("expected conflict_error on duplicate, got %v", err)
	}
}

func TestRemoveFromCartAdjustsTotal(t *testing.T) {
	service, _ := newCommerceService(t)

	for _, item := range []CartItemInput{
		{TourID: "tour-1", TourName: "Old Town Walk", Price: 25},
		{TourID: "tour-2", TourName: "River Cruise", Price: 40},
	} {
		if _, err := service.AddToCart(context.Background(), 42, &item); err != nil {
			t.Fatalf("add %s: %v", item.TourID, err)
		}
	}

	cart, err := service.RemoveFromCart(context.Background(), 42, "tour-1")
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	if len(cart.Items) != 1 || cart.TotalPrice != 40 {
		t.Fatalf("expected one item totalling 40, got %+v", cart)
	}

	_, err = service.RemoveFromCart(context.Background(), 42, "tour-1")
	ae := apierr.As(err)
	if ae == nil || ae.Code != "not_found" {
		t.Fatalf("expected not_found, got %v", err)
	}
}

func TestCheckoutIssuesTokensAndClearsCart(t *testing.T) {
	service, _ := newCommerceService(t)

	for _, item := range []CartItemInput{
		{TourID: "tour-1", TourName: "Old Town Walk", Price: 25},
		{TourID: "tour-2", TourName: "River Cruise", Price: 40},
	} {
		if _, err := service.AddToCart(context.Background(), 42, &item); err != nil {
			t.Fatalf("add %s: %v", item.TourID, err)
		}
	}

	result, err := service.Checkout(context.Background(), 42)
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}
	if len(result.Tokens) != 2 || result.Total != 65 {
		t.Fatalf("expected 2 tokens totalling 65, got %+v", result)
	}
	for _, token := range result.Tokens {
		if token.Token == "" || !token.IsActive {
			t.Fatalf("token not issued properly: %+v", token)
		}
	}

	cart, err := service.GetCart(context.Background(), 42)
	if err != nil {
		t.Fatalf("get cart: %v", err)
	}
	if len(cart.Items) != 0 || cart.TotalPrice != 0 {
		t.Fatalf("cart should be empty after checkout, got %+v", cart)
	}

	_, err = service.Checkout(context.Background(), 42)
	ae := apierr.As(err)
	if ae == nil || ae.Code != "precondition_error" {
		t.Fatalf("expected precondition_error on empty cart, got %v", err)
	}
}

func TestPurchasedTourCannotReturnToCart(t *testing.T) {
	service, _ := newCommerceService(t)

	if _, err := service.AddToCart(context.Background(), 42, &CartItemInput{
		TourID: "tour-1", TourName: "Old Town Walk", Price: 25,
	}); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := service.Checkout(context.Background(), 42); err != nil {
		t.Fatalf("checkout: %v", err)
	}

	_, err := service.AddToCart(context.Background(), 42, &CartItemInput{
		TourID: "tour-1", TourName: "Old Town Walk", Price: 25,
	})
	ae := apierr.As(err)
	if ae == nil || ae.Code != "conflict_error" {
		t.Fatalf("expected conflict_error for purchased tour, got %v", err)
	}
}

func TestCheckPurchase(t *testing.T) {
	service, _ := newCommerceService(t)

	info, err := service.CheckPurchase(context.Background(), 42, "tour-1")
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if info.IsPurchased {
		t.Fatalf("nothing bought yet, got %+v", info)
	}

	if _, err := service.AddToCart(context.Background(), 42, &CartItemInput{
		TourID: "tour-1", TourName: "Old Town Walk", Price: 25,
	}); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := service.Checkout(context.Background(), 42); err != nil {
		t.Fatalf("checkout: %v", err)
	}

	info, err = service.CheckPurchase(context.Background(), 42, "tour-1")
	if err != nil {
		t.Fatalf("check after purchase: %v", err)
	}
	if !info.IsPurchased || info.Token == "" {
		t.Fatalf("expected purchase with token, got %+v", info)
	}

	purchases, err := service.Purchases(context.Background(), 42)
	if err != nil {
		t.Fatalf("purchases: %v", err)
	}
	if len(purchases) != 1 {
		t.Fatalf("expected one purchase, got %d", len(purchases))
	}
}
