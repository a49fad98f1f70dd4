package services

import (
	"context"
	"testing"

	"github.com/soa-tours/platform/internal/pkg/apierr"
	"github.com/soa-tours/platform/internal/repos"
)

func newPositionService(t *testing.T) PositionService {
	t.Helper()
	db := openContentTestDB(t)
	log := testLogger()
	return NewPositionService(log, repos.NewPositionRepo(db, log), nil)
}

func TestPositionSetOverwrites(t *testing.T) {
	service := newPositionService(t)

	first, err := service.Set(context.Background(), 42, &PositionInput{Latitude: 44.8176, Longitude: 20.4633})
	if err != nil {
		t.Fatalf("set: %v", err)
	}

	second, err := service.Set(context.Background(), 42, &PositionInput{Latitude: 44.8206, Longitude: 20.4513})
	if err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	if second.Latitude != 44.8206 || second.Longitude != 20.4513 {
		t.Fatalf("coordinates not overwritten: %+v", second)
	}
	_ = first

	positions, err := service.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(positions) != 1 {
		t.Fatalf("expected a single row per user, got %d", len(positions))
	}
}

func TestPositionValidatesBounds(t *testing.T) {
	service := newPositionService(t)

	cases := []struct {
		name string
		lat  float64
		lon  float64
	}{
		{"lat_too_high", 90.1, 0},
		{"lat_too_low", -90.1, 0},
		{"lon_too_high", 0, 180.1},
		{"lon_too_low", 0, -180.1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := service.Set(context.Background(), 42, &PositionInput{Latitude: tc.lat, Longitude: tc.lon})
			ae := apierr.As(err)
			if ae == nil || ae.Code != "validation_error" {
				t.Fatalf("expected validation_error, got %v", err)
			}
		})
	}
}

func TestPositionClear(t *testing.T) {
	service := newPositionService(t)

	if _, err := service.Set(context.Background(), 42, &PositionInput{Latitude: 44.8, Longitude: 20.4}); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := service.Clear(context.Background(), 42); err != nil {
		t.Fatalf("clear: %v", err)
	}

	_, err := service.Get(context.Background(), 42)
	ae := apierr.As(err)
	if ae == nil || ae.Code != "not_found" {
		t.Fatalf("expected not_found after clear, got %v", err)
	}

	err = service.Clear(context.Background(), 42)
	ae = apierr.As(err)
	if ae == nil || ae.Code != "not_found" {
		t.Fatalf("expected not_found on repeat clear, got %v", err)
	}
}
