package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/soa-tours/platform/internal/pkg/apierr"
	"github.com/soa-tours/platform/internal/pkg/geo"
	"github.com/soa-tours/platform/internal/pkg/logger"
	"github.com/soa-tours/platform/internal/repos"
	"github.com/soa-tours/platform/internal/types"
)

type TourInput struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Difficulty  string   `json:"difficulty"`
	Price       float64  `json:"price"`
	Tags        []string `json:"tags"`
}

type KeypointInput struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Latitude    float64  `json:"latitude"`
	Longitude   float64  `json:"longitude"`
	Images      []string `json:"images"`
}

type TransportTimeInput struct {
	TransportType   string `json:"transport_type"`
	DurationMinutes int    `json:"duration_minutes"`
}

type ReviewInput struct {
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	VisitDate time.Time `json:"visit_date"`
	Images    []string  `json:"images"`
}

type TourService interface {
	Create(ctx context.Context, authorID int64, input *TourInput) (*types.Tour, error)
	GetByID(ctx context.Context, tourID uuid.UUID) (*types.Tour, error)
	List(ctx context.Context, filter repos.TourFilter) ([]*types.Tour, error)
	Update(ctx context.Context, tourID uuid.UUID, authorID int64, input *TourInput) (*types.Tour, error)
	Publish(ctx context.Context, tourID uuid.UUID, authorID int64) (*types.Tour, error)
	Archive(ctx context.Context, tourID uuid.UUID, authorID int64) (*types.Tour, error)
	AddKeypoint(ctx context.Context, tourID uuid.UUID, authorID int64, input *KeypointInput) (*types.Tour, error)
	UpdateKeypoint(ctx context.Context, tourID uuid.UUID, authorID int64, order int, input *KeypointInput) (*types.Tour, error)
	RemoveKeypoint(ctx context.Context, tourID uuid.UUID, authorID int64, order int) (*types.Tour, error)
	SetTransportTime(ctx context.Context, tourID uuid.UUID, authorID int64, input *TransportTimeInput) (*types.Tour, error)
	AddReview(ctx context.Context, tourID uuid.UUID, userID int64, input *ReviewInput) (*types.Tour, error)
}

type tourService struct {
	log           *logger.Logger
	tourRepo      repos.TourRepo
	executionRepo repos.ExecutionRepo
}

func NewTourService(log *logger.Logger, tourRepo repos.TourRepo, executionRepo repos.ExecutionRepo) TourService {
	serviceLog := log.With("service", "TourService")
	return &tourService{log: serviceLog, tourRepo: tourRepo, executionRepo: executionRepo}
}

func (ts *tourService) Create(ctx context.Context, authorID int64, input *TourInput) (*types.Tour, error) {
	if err := validateTourInput(input); err != nil {
		return nil, err
	}
	tour := &types.Tour{
		ID:             uuid.New(),
		Name:           input.Name,
		Description:    input.Description,
		AuthorID:       authorID,
		Status:         types.TourStatusDraft,
		Difficulty:     input.Difficulty,
		Price:          input.Price,
		Tags:           input.Tags,
		Keypoints:      []types.Keypoint{},
		TransportTimes: []types.TransportTime{},
		Reviews:        []types.Review{},
	}
	if err := ts.tourRepo.Create(ctx, nil, tour); err != nil {
		return nil, apierr.Dependency(err, "failed to create tour")
	}
	return tour, nil
}

func (ts *tourService) GetByID(ctx context.Context, tourID uuid.UUID) (*types.Tour, error) {
	tour, err := ts.tourRepo.GetByID(ctx, nil, tourID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.NotFound("tour not found")
		}
		return nil, apierr.Dependency(err, "failed to load tour")
	}
	return tour, nil
}

func (ts *tourService) List(ctx context.Context, filter repos.TourFilter) ([]*types.Tour, error) {
	tours, err := ts.tourRepo.List(ctx, nil, filter)
	if err != nil {
		return nil, apierr.Dependency(err, "failed to list tours")
	}
	return tours, nil
}

func (ts *tourService) Update(ctx context.Context, tourID uuid.UUID, authorID int64, input *TourInput) (*types.Tour, error) {
	tour, err := ts.ownedTour(ctx, tourID, authorID)
	if err != nil {
		return nil, err
	}
	if err := validateTourInput(input); err != nil {
		return nil, err
	}
	tour.Name = input.Name
	tour.Description = input.Description
	tour.Difficulty = input.Difficulty
	tour.Price = input.Price
	tour.Tags = input.Tags
	if err := ts.tourRepo.Save(ctx, nil, tour); err != nil {
		return nil, apierr.Dependency(err, "failed to save tour")
	}
	return tour, nil
}

func (ts *tourService) Publish(ctx context.Context, tourID uuid.UUID, authorID int64) (*types.Tour, error) {
	tour, err := ts.ownedTour(ctx, tourID, authorID)
	if err != nil {
		return nil, err
	}
	if tour.Status == types.TourStatusPublished {
		return tour, nil
	}
	if tour.Status == types.TourStatusArchived {
		return nil, apierr.Conflict("archived tours cannot be published")
	}
	if len(tour.Keypoints) < 2 {
		return nil, apierr.Precondition("a tour needs at least two keypoints to be published")
	}
	now := time.Now()
	tour.Status = types.TourStatusPublished
	tour.PublishedAt = &now
	if err := ts.tourRepo.Save(ctx, nil, tour); err != nil {
		return nil, apierr.Dependency(err, "failed to save tour")
	}
	return tour, nil
}

func (ts *tourService) Archive(ctx context.Context, tourID uuid.UUID, authorID int64) (*types.Tour, error) {
	tour, err := ts.ownedTour(ctx, tourID, authorID)
	if err != nil {
		return nil, err
	}
	if tour.Status == types.TourStatusArchived {
		return tour, nil
	}
	if tour.Status != types.TourStatusPublished {
		return nil, apierr.Conflict("only published tours can be archived")
	}
	now := time.Now()
	tour.Status = types.TourStatusArchived
	tour.ArchivedAt = &now
	if err := ts.tourRepo.Save(ctx, nil, tour); err != nil {
		return nil, apierr.Dependency(err, "failed to save tour")
	}
	return tour, nil
}

func (ts *tourService) AddKeypoint(ctx context.Context, tourID uuid.UUID, authorID int64, input *KeypointInput) (*types.Tour, error) {
	tour, err := ts.ownedTour(ctx, tourID, authorID)
	if err != nil {
		return nil, err
	}
	if err := validateKeypointInput(input); err != nil {
		return nil, err
	}
	if err := ts.ensureNoActiveExecutions(ctx, tourID); err != nil {
		return nil, err
	}
	tour.Keypoints = append(tour.Keypoints, types.Keypoint{
		Name:        input.Name,
		Description: input.Description,
		Latitude:    input.Latitude,
		Longitude:   input.Longitude,
		Images:      input.Images,
		Order:       len(tour.Keypoints),
	})
	tour.DistanceKm = keypointDistanceKm(tour.Keypoints)
	if err := ts.tourRepo.Save(ctx, nil, tour); err != nil {
		return nil, apierr.Dependency(err, "failed to save tour")
	}
	return tour, nil
}

func (ts *tourService) UpdateKeypoint(ctx context.Context, tourID uuid.UUID, authorID int64, order int, input *KeypointInput) (*types.Tour, error) {
	tour, err := ts.ownedTour(ctx, tourID, authorID)
	if err != nil {
		return nil, err
	}
	if order < 0 || order >= len(tour.Keypoints) {
		return nil, apierr.NotFound("keypoint not found")
	}
	if err := validateKeypointInput(input); err != nil {
		return nil, err
	}
	current := tour.Keypoints[order]
	moved := current.Latitude != input.Latitude || current.Longitude != input.Longitude
	if moved {
		if err := ts.ensureNoActiveExecutions(ctx, tourID); err != nil {
			return nil, err
		}
	}
	tour.Keypoints[order] = types.Keypoint{
		Name:        input.Name,
		Description: input.Description,
		Latitude:    input.Latitude,
		Longitude:   input.Longitude,
		Images:      input.Images,
		Order:       order,
	}
	tour.DistanceKm = keypointDistanceKm(tour.Keypoints)
	if err := ts.tourRepo.Save(ctx, nil, tour); err != nil {
		return nil, apierr.Dependency(err, "failed to save tour")
	}
	return tour, nil
}

func (ts *tourService) RemoveKeypoint(ctx context.Context, tourID uuid.UUID, authorID int64, order int) (*types.Tour, error) {
	tour, err := ts.ownedTour(ctx, tourID, authorID)
	if err != nil {
		return nil, err
	}
	if order < 0 || order >= len(tour.Keypoints) {
		return nil, apierr.NotFound("keypoint not found")
	}
	if err := ts.ensureNoActiveExecutions(ctx, tourID); err != nil {
		return nil, err
	}
	tour.Keypoints = append(tour.Keypoints[:order], tour.Keypoints[order+1:]...)
	for i := range tour.Keypoints {
		tour.Keypoints[i].Order = i
	}
	tour.DistanceKm = keypointDistanceKm(tour.Keypoints)
	if err := ts.tourRepo.Save(ctx, nil, tour); err != nil {
		return nil, apierr.Dependency(err, "failed to save tour")
	}
	return tour, nil
}

func (ts *tourService) SetTransportTime(ctx context.Context, tourID uuid.UUID, authorID int64, input *TransportTimeInput) (*types.Tour, error) {
	tour, err := ts.ownedTour(ctx, tourID, authorID)
	if err != nil {
		return nil, err
	}
	switch input.TransportType {
	case "walking", "bicycle", "car":
	default:
		return nil, apierr.Validation("transport_type must be walking, bicycle or car")
	}
	if input.DurationMinutes <= 0 {
		return nil, apierr.Validation("duration_minutes must be positive")
	}
	replaced := false
	for i := range tour.TransportTimes {
		if tour.TransportTimes[i].TransportType == input.TransportType {
			tour.TransportTimes[i].DurationMinutes = input.DurationMinutes
			replaced = true
			break
		}
	}
	if !replaced {
		tour.TransportTimes = append(tour.TransportTimes, types.TransportTime{
			TransportType:   input.TransportType,
			DurationMinutes: input.DurationMinutes,
		})
	}
	if err := ts.tourRepo.Save(ctx, nil, tour); err != nil {
		return nil, apierr.Dependency(err, "failed to save tour")
	}
	return tour, nil
}

func (ts *tourService) AddReview(ctx context.Context, tourID uuid.UUID, userID int64, input *ReviewInput) (*types.Tour, error) {
	tour, err := ts.GetByID(ctx, tourID)
	if err != nil {
		return nil, err
	}
	if tour.Status != types.TourStatusPublished {
		return nil, apierr.Precondition("only published tours can be reviewed")
	}
	if input.Rating < 1 || input.Rating > 5 {
		return nil, apierr.Validation("rating must be between 1 and 5")
	}
	tour.Reviews = append(tour.Reviews, types.Review{
		UserID:    userID,
		Rating:    input.Rating,
		Comment:   input.Comment,
		VisitDate: input.VisitDate,
		CreatedAt: time.Now(),
		Images:    input.Images,
	})
	if err := ts.tourRepo.Save(ctx, nil, tour); err != nil {
		return nil, apierr.Dependency(err, "failed to save tour")
	}
	return tour, nil
}

func (ts *tourService) ownedTour(ctx context.Context, tourID uuid.UUID, authorID int64) (*types.Tour, error) {
	tour, err := ts.GetByID(ctx, tourID)
	if err != nil {
		return nil, err
	}
	if tour.AuthorID != authorID {
		return nil, apierr.Forbidden("only the author can modify this tour")
	}
	return tour, nil
}

// Keypoint order is the identity active executions record, so the
// keypoint list must stay stable while anyone is walking the tour.
func (ts *tourService) ensureNoActiveExecutions(ctx context.Context, tourID uuid.UUID) error {
	active, err := ts.executionRepo.CountActiveByTourID(ctx, nil, tourID)
	if err != nil {
		return apierr.Dependency(err, "failed to count active executions")
	}
	if active > 0 {
		return apierr.Conflict("tour keypoints cannot change while executions are active")
	}
	return nil
}

func validateTourInput(input *TourInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return apierr.Validation("a tour name is required")
	}
	switch input.Difficulty {
	case "easy", "medium", "hard":
	default:
		return apierr.Validation("difficulty must be easy, medium or hard")
	}
	if input.Price < 0 {
		return apierr.Validation("price cannot be negative")
	}
	return nil
}

func validateKeypointInput(input *KeypointInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return apierr.Validation("a keypoint name is required")
	}
	coordinate := geo.Coordinate{Latitude: input.Latitude, Longitude: input.Longitude}
	if !coordinate.Valid() {
		return apierr.Validation("keypoint coordinates are out of range")
	}
	return nil
}

func keypointDistanceKm(keypoints []types.Keypoint) float64 {
	total := 0.0
	for i := 1; i < len(keypoints); i++ {
		a := geo.Coordinate{Latitude: keypoints[i-1].Latitude, Longitude: keypoints[i-1].Longitude}
		b := geo.Coordinate{Latitude: keypoints[i].Latitude, Longitude: keypoints[i].Longitude}
		total += geo.DistanceMeters(a, b)
	}
	return total / 1000.0
}
