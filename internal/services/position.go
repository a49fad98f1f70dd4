package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/soa-tours/platform/internal/clients/positioncache"
	"github.com/soa-tours/platform/internal/pkg/apierr"
	"github.com/soa-tours/platform/internal/pkg/geo"
	"github.com/soa-tours/platform/internal/pkg/logger"
	"github.com/soa-tours/platform/internal/repos"
	"github.com/soa-tours/platform/internal/types"
)

type PositionInput struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Accuracy  float64 `json:"accuracy"`
}

type PositionService interface {
	Get(ctx context.Context, userID int64) (*types.Position, error)
	Set(ctx context.Context, userID int64, input *PositionInput) (*types.Position, error)
	Clear(ctx context.Context, userID int64) error
	List(ctx context.Context) ([]*types.Position, error)
}

type positionService struct {
	log          *logger.Logger
	positionRepo repos.PositionRepo
	cache        *positioncache.Cache
}

// NewPositionService accepts a nil cache; all cache paths degrade to
// the database.
func NewPositionService(log *logger.Logger, positionRepo repos.PositionRepo, cache *positioncache.Cache) PositionService {
	serviceLog := log.With("service", "PositionService")
	return &positionService{log: serviceLog, positionRepo: positionRepo, cache: cache}
}

func (ps *positionService) Get(ctx context.Context, userID int64) (*types.Position, error) {
	cached, err := ps.cache.Get(ctx, userID)
	if err != nil {
		ps.log.Warn("position cache read failed", "user_id", userID, "error", err)
	}
	if cached != nil {
		return cached, nil
	}

	position, err := ps.positionRepo.GetByUserID(ctx, nil, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.NotFound("no position set for this user")
		}
		return nil, apierr.Dependency(err, "failed to load position")
	}
	if err := ps.cache.Set(ctx, position); err != nil {
		ps.log.Warn("position cache write failed", "user_id", userID, "error", err)
	}
	return position, nil
}

func (ps *positionService) Set(ctx context.Context, userID int64, input *PositionInput) (*types.Position, error) {
	coordinate := geo.Coordinate{Latitude: input.Latitude, Longitude: input.Longitude}
	if !coordinate.Valid() {
		return nil, apierr.Validation("latitude must be in [-90, 90] and longitude in [-180, 180]")
	}

	position := &types.Position{
		ID:        uuid.New(),
		UserID:    userID,
		Latitude:  input.Latitude,
		Longitude: input.Longitude,
		Timestamp: time.Now(),
		Accuracy:  input.Accuracy,
	}
	if err := ps.positionRepo.Upsert(ctx, nil, position); err != nil {
		return nil, apierr.Dependency(err, "failed to store position")
	}
	stored, err := ps.positionRepo.GetByUserID(ctx, nil, userID)
	if err != nil {
		return nil, apierr.Dependency(err, "failed to reload position")
	}
	if err := ps.cache.Set(ctx, stored); err != nil {
		ps.log.Warn("position cache write failed", "user_id", userID, "error", err)
	}
	return stored, nil
}

func (ps *positionService) Clear(ctx context.Context, userID int64) error {
	removed, err := ps.positionRepo.DeleteByUserID(ctx, nil, userID)
	if err != nil {
		return apierr.Dependency(err, "failed to delete position")
	}
	if err := ps.cache.Delete(ctx, userID); err != nil {
		ps.log.Warn("position cache delete failed", "user_id", userID, "error", err)
	}
	if !removed {
		return apierr.NotFound("no position set for this user")
	}
	return nil
}

func (ps *positionService) List(ctx context.Context) ([]*types.Position, error) {
	positions, err := ps.positionRepo.List(ctx, nil)
	if err != nil {
		return nil, apierr.Dependency(err, "failed to list positions")
	}
	return positions, nil
}
