package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/soa-tours/platform/internal/pkg/apierr"
	"github.com/soa-tours/platform/internal/pkg/geo"
	"github.com/soa-tours/platform/internal/pkg/logger"
	"github.com/soa-tours/platform/internal/repos"
	"github.com/soa-tours/platform/internal/types"
)

const (
	// A keypoint counts as reached within this distance of it.
	completionRadiusMeters = 50.0
	// NearbyKeypoints reports keypoints inside this advisory radius.
	nearbyRadiusMeters = 100.0

	// Concurrent proximity checks for the same execution serialize on the
	// version column; the loser re-reads and retries this many times.
	checkRetryAttempts = 3
)

// CheckResult is the outcome of a single proximity check.
type CheckResult struct {
	NearKeypoint       bool                 `json:"near_keypoint"`
	KeypointIndex      int                  `json:"keypoint_index"`
	KeypointName       string               `json:"keypoint_name"`
	DistanceToKeypoint float64              `json:"distance_to_keypoint"`
	CompletedKeypoint  bool                 `json:"completed_keypoint"`
	Execution          *types.TourExecution `json:"tour_execution"`
}

// NearbyKeypoint is an advisory hit within the nearby radius.
type NearbyKeypoint struct {
	KeypointIndex  int     `json:"keypoint_index"`
	KeypointName   string  `json:"keypoint_name"`
	DistanceMeters float64 `json:"distance_meters"`
	Completed      bool    `json:"completed"`
}

type ExecutionService interface {
	StartExecution(ctx context.Context, userID int64, tourID uuid.UUID) (*types.TourExecution, error)
	CheckProximity(ctx context.Context, userID int64) (*CheckResult, error)
	AbandonExecution(ctx context.Context, userID int64, executionID uuid.UUID) (*types.TourExecution, error)
	ListExecutions(ctx context.Context, userID int64) ([]*types.TourExecution, error)
	GetExecution(ctx context.Context, userID int64, executionID uuid.UUID) (*types.TourExecution, error)
	NearbyKeypoints(ctx context.Context, userID int64) ([]NearbyKeypoint, error)
}

type executionService struct {
	log           *logger.Logger
	executionRepo repos.ExecutionRepo
	tourRepo      repos.TourRepo
	positionRepo  repos.PositionRepo
}

func NewExecutionService(
	log *logger.Logger,
	executionRepo repos.ExecutionRepo,
	tourRepo repos.TourRepo,
	positionRepo repos.PositionRepo,
) ExecutionService {
	serviceLog := log.With("service", "ExecutionService")
	return &executionService{
		log:           serviceLog,
		executionRepo: executionRepo,
		tourRepo:      tourRepo,
		positionRepo:  positionRepo,
	}
}

func (es *executionService) StartExecution(ctx context.Context, userID int64, tourID uuid.UUID) (*types.TourExecution, error) {
	tour, err := es.tourRepo.GetByID(ctx, nil, tourID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.NotFound("tour not found")
		}
		return nil, apierr.Dependency(err, "failed to load tour")
	}
	if len(tour.Keypoints) == 0 {
		return nil, apierr.Validation("tour has no keypoints to track")
	}

	position, err := es.positionRepo.GetByUserID(ctx, nil, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.Precondition("set a position before starting a tour")
		}
		return nil, apierr.Dependency(err, "failed to load position")
	}

	if existing, err := es.executionRepo.GetActiveByUserID(ctx, nil, userID); err == nil {
		return existing, apierr.Conflict("an active execution already exists for this user")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apierr.Dependency(err, "failed to check active executions")
	}

	now := time.Now()
	execution := &types.TourExecution{
		ID:     uuid.New(),
		UserID: userID,
		TourID: tourID,
		Status: types.ExecutionStatusActive,
		CurrentPosition: &types.TrackedPosition{
			Latitude:  position.Latitude,
			Longitude: position.Longitude,
			Timestamp: position.Timestamp,
		},
		CompletedKeypoints: []types.CompletedKeypoint{},
		StartedAt:          now,
		LastActivity:       now,
	}
	if err := es.executionRepo.Create(ctx, nil, execution); err != nil {
		// The partial unique index catches starts that raced past the
		// check above.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			if existing, getErr := es.executionRepo.GetActiveByUserID(ctx, nil, userID); getErr == nil {
				return existing, apierr.Conflict("an active execution already exists for this user")
			}
			return nil, apierr.Conflict("an active execution already exists for this user")
		}
		return nil, apierr.Dependency(err, "failed to create execution")
	}
	return execution, nil
}

func (es *executionService) CheckProximity(ctx context.Context, userID int64) (*CheckResult, error) {
	for attempt := 0; attempt < checkRetryAttempts; attempt++ {
		execution, err := es.executionRepo.GetActiveByUserID(ctx, nil, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apierr.NotFound("no active execution for this user")
			}
			return nil, apierr.Dependency(err, "failed to load execution")
		}

		position, err := es.positionRepo.GetByUserID(ctx, nil, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apierr.NotFound("no position set for this user")
			}
			return nil, apierr.Dependency(err, "failed to load position")
		}

		tour, err := es.tourRepo.GetByID(ctx, nil, execution.TourID)
		if err != nil {
			return nil, apierr.Dependency(err, "failed to load tour")
		}

		expectedVersion := execution.Version
		now := time.Now()
		execution.CurrentPosition = &types.TrackedPosition{
			Latitude:  position.Latitude,
			Longitude: position.Longitude,
			Timestamp: position.Timestamp,
		}
		execution.LastActivity = now

		result := &CheckResult{KeypointIndex: -1, Execution: execution}
		target := nextKeypoint(tour.Keypoints, execution.CompletedIndexSet())
		if target == nil {
			// Every keypoint is already recorded; close the execution.
			execution.Status = types.ExecutionStatusCompleted
			execution.CompletedAt = &now
		} else {
			here := geo.Coordinate{Latitude: position.Latitude, Longitude: position.Longitude}
			there := geo.Coordinate{Latitude: target.Latitude, Longitude: target.Longitude}
			within, distance := geo.WithinRadius(here, there, completionRadiusMeters)

			result.KeypointIndex = target.Order
			result.KeypointName = target.Name
			result.DistanceToKeypoint = distance
			result.NearKeypoint = within

			if within {
				execution.CompletedKeypoints = append(execution.CompletedKeypoints, types.CompletedKeypoint{
					KeypointIndex: target.Order,
					CompletedAt:   now,
					Latitude:      position.Latitude,
					Longitude:     position.Longitude,
				})
				result.CompletedKeypoint = true
				if len(execution.CompletedKeypoints) == len(tour.Keypoints) {
					execution.Status = types.ExecutionStatusCompleted
					execution.CompletedAt = &now
				}
			}
		}

		updated, err := es.executionRepo.UpdateGuarded(ctx, nil, execution, expectedVersion)
		if err != nil {
			return nil, apierr.Dependency(err, "failed to save execution")
		}
		if updated {
			return result, nil
		}
		es.log.Debug("proximity check lost version race, retrying",
			"user_id", userID, "execution_id", execution.ID, "attempt", attempt)
	}
	return nil, apierr.Conflict("proximity check conflicted with a concurrent update")
}

func (es *executionService) AbandonExecution(ctx context.Context, userID int64, executionID uuid.UUID) (*types.TourExecution, error) {
	for attempt := 0; attempt < checkRetryAttempts; attempt++ {
		execution, err := es.executionRepo.GetByID(ctx, nil, executionID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apierr.NotFound("execution not found")
			}
			return nil, apierr.Dependency(err, "failed to load execution")
		}
		if execution.UserID != userID {
			return nil, apierr.Forbidden("execution belongs to another user")
		}
		if execution.Status != types.ExecutionStatusActive {
			return nil, apierr.Conflict("execution is not active")
		}

		expectedVersion := execution.Version
		now := time.Now()
		execution.Status = types.ExecutionStatusAbandoned
		execution.AbandonedAt = &now
		execution.LastActivity = now

		updated, err := es.executionRepo.UpdateGuarded(ctx, nil, execution, expectedVersion)
		if err != nil {
			return nil, apierr.Dependency(err, "failed to save execution")
		}
		if updated {
			return execution, nil
		}
	}
	return nil, apierr.Conflict("abandon conflicted with a concurrent update")
}

func (es *executionService) ListExecutions(ctx context.Context, userID int64) ([]*types.TourExecution, error) {
	executions, err := es.executionRepo.ListByUserID(ctx, nil, userID)
	if err != nil {
		return nil, apierr.Dependency(err, "failed to list executions")
	}
	return executions, nil
}

func (es *executionService) GetExecution(ctx context.Context, userID int64, executionID uuid.UUID) (*types.TourExecution, error) {
	execution, err := es.executionRepo.GetByID(ctx, nil, executionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.NotFound("execution not found")
		}
		return nil, apierr.Dependency(err, "failed to load execution")
	}
	if execution.UserID != userID {
		return nil, apierr.Forbidden("execution belongs to another user")
	}
	return execution, nil
}

// NearbyKeypoints reports every keypoint of the active tour within the
// advisory radius of the user's current position. It never mutates the
// execution; only CheckProximity records completions.
func (es *executionService) NearbyKeypoints(ctx context.Context, userID int64) ([]NearbyKeypoint, error) {
	execution, err := es.executionRepo.GetActiveByUserID(ctx, nil, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.NotFound("no active execution for this user")
		}
		return nil, apierr.Dependency(err, "failed to load execution")
	}
	position, err := es.positionRepo.GetByUserID(ctx, nil, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.NotFound("no position set for this user")
		}
		return nil, apierr.Dependency(err, "failed to load position")
	}
	tour, err := es.tourRepo.GetByID(ctx, nil, execution.TourID)
	if err != nil {
		return nil, apierr.Dependency(err, "failed to load tour")
	}

	completed := execution.CompletedIndexSet()
	here := geo.Coordinate{Latitude: position.Latitude, Longitude: position.Longitude}
	nearby := []NearbyKeypoint{}
	for _, keypoint := range tour.Keypoints {
		there := geo.Coordinate{Latitude: keypoint.Latitude, Longitude: keypoint.Longitude}
		within, distance := geo.WithinRadius(here, there, nearbyRadiusMeters)
		if !within {
			continue
		}
		nearby = append(nearby, NearbyKeypoint{
			KeypointIndex:  keypoint.Order,
			KeypointName:   keypoint.Name,
			DistanceMeters: distance,
			Completed:      completed[keypoint.Order],
		})
	}
	return nearby, nil
}

// nextKeypoint returns the lowest-order keypoint not yet completed, or
// nil when all are done. Keypoints complete in order only.
func nextKeypoint(keypoints []types.Keypoint, completed map[int]bool) *types.Keypoint {
	for i := range keypoints {
		if !completed[keypoints[i].Order] {
			return &keypoints[i]
		}
	}
	return nil
}
