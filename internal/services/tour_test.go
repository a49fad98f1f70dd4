package services

import (
	"context"
	"testing"

	"gorm.io/gorm"

	"github.com/soa-tours/platform/internal/pkg/apierr"
	"github.com/soa-tours/platform/internal/repos"
	"github.com/soa-tours/platform/internal/types"
)

func newTourService(t *testing.T) (TourService, ExecutionService, *gorm.DB) {
	t.Helper()
	db := openContentTestDB(t)
	log := testLogger()
	tourRepo := repos.NewTourRepo(db, log)
	executionRepo := repos.NewExecutionRepo(db, log)
	positionRepo := repos.NewPositionRepo(db, log)
	return NewTourService(log, tourRepo, executionRepo),
		NewExecutionService(log, executionRepo, tourRepo, positionRepo),
		db
}

func TestAddKeypointAssignsOrder(t *testing.T) {
	service, _, _ := newTourService(t)

	tour, err := service.Create(context.Background(), 1, &TourInput{Name: "Old Town Walk", Difficulty: "easy"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	tour, err = service.AddKeypoint(context.Background(), tour.ID, 1, &KeypointInput{
		Name: "Kalemegdan", Latitude: 44.8176, Longitude: 20.4633,
	})
	if err != nil {
		t.Fatalf("add keypoint: %v", err)
	}
	tour, err = service.AddKeypoint(context.Background(), tour.ID, 1, &KeypointInput{
		Name: "Skadarlija", Latitude: 44.8206, Longitude: 20.4513,
	})
	if err != nil {
		t.Fatalf("add second keypoint: %v", err)
	}

	if len(tour.Keypoints) != 2 {
		t.Fatalf("expected 2 keypoints, got %d", len(tour.Keypoints))
	}
	if tour.Keypoints[0].Order != 0 || tour.Keypoints[1].Order != 1 {
		t.Fatalf("orders misassigned: %+v", tour.Keypoints)
	}
	if tour.DistanceKm <= 0.9 || tour.DistanceKm >= 1.1 {
		t.Fatalf("expected roughly 1 km between the keypoints, got %f", tour.DistanceKm)
	}
}

func TestRemoveKeypointReorders(t *testing.T) {
	service, _, _ := newTourService(t)

	tour, err := service.Create(context.Background(), 1, &TourInput{Name: "Old Town Walk", Difficulty: "easy"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	for _, name := range []string{"A", "B", "C"} {
		if tour, err = service.AddKeypoint(context.Background(), tour.ID, 1, &KeypointInput{
			Name: name, Latitude: 44.8, Longitude: 20.4,
		}); err != nil {
			t.Fatalf("add %s: %v", name, err)
		}
	}

	tour, err = service.RemoveKeypoint(context.Background(), tour.ID, 1, 1)
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	if len(tour.Keypoints) != 2 {
		t.Fatalf("expected 2 keypoints, got %d", len(tour.Keypoints))
	}
	if tour.Keypoints[0].Name != "A" || tour.Keypoints[1].Name != "C" {
		t.Fatalf("wrong keypoint removed: %+v", tour.Keypoints)
	}
	if tour.Keypoints[1].Order != 1 {
		t.Fatalf("orders must be contiguous after removal, got %+v", tour.Keypoints)
	}
}

func TestKeypointEditsBlockedWhileExecutionsActive(t *testing.T) {
	tourService, executionService, db := newTourService(t)

	tour := seedTour(t, db, 1, belgradeKeypoints)
	setPosition(t, db, 42, 44.8176, 20.4633)
	if _, err := executionService.StartExecution(context.Background(), 42, tour.ID); err != nil {
		t.Fatalf("start execution: %v", err)
	}

	_, err := tourService.RemoveKeypoint(context.Background(), tour.ID, 1, 0)
	ae := apierr.As(err)
	if ae == nil || ae.Code != "conflict_error" {
		t.Fatalf("expected conflict_error, got %v", err)
	}

	_, err = tourService.AddKeypoint(context.Background(), tour.ID, 1, &KeypointInput{
		Name: "New Stop", Latitude: 44.81, Longitude: 20.46,
	})
	ae = apierr.As(err)
	if ae == nil || ae.Code != "conflict_error" {
		t.Fatalf("expected conflict_error, got %v", err)
	}

	// Renaming does not move the keypoint, so it stays allowed.
	updated, err := tourService.UpdateKeypoint(context.Background(), tour.ID, 1, 0, &KeypointInput{
		Name: "Kalemegdan Fortress", Latitude: 44.8176, Longitude: 20.4633,
	})
	if err != nil {
		t.Fatalf("rename keypoint: %v", err)
	}
	if updated.Keypoints[0].Name != "Kalemegdan Fortress" {
		t.Fatalf("rename lost: %+v", updated.Keypoints[0])
	}
}

func TestPublishRequiresKeypoints(t *testing.T) {
	service, _, _ := newTourService(t)

	tour, err := service.Create(context.Background(), 1, &TourInput{Name: "Old Town Walk", Difficulty: "easy"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	_, err = service.Publish(context.Background(), tour.ID, 1)
	ae := apierr.As(err)
	if ae == nil || ae.Code != "precondition_error" {
		t.Fatalf("expected precondition_error, got %v", err)
	}

	for _, kp := range belgradeKeypoints {
		if tour, err = service.AddKeypoint(context.Background(), tour.ID, 1, &KeypointInput{
			Name: kp.Name, Latitude: kp.Latitude, Longitude: kp.Longitude,
		}); err != nil {
			t.Fatalf("add keypoint: %v", err)
		}
	}
	published, err := service.Publish(context.Background(), tour.ID, 1)
	if err != nil {
		t.Fatalf("publish: %v", err)
	}
	if published.Status != types.TourStatusPublished || published.PublishedAt == nil {
		t.Fatalf("expected published with timestamp, got %+v", published)
	}
}

func TestTourAuthorOnly(t *testing.T) {
	service, _, _ := newTourService(t)

	tour, err := service.Create(context.Background(), 1, &TourInput{Name: "Old Town Walk", Difficulty: "easy"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	_, err = service.Update(context.Background(), tour.ID, 2, &TourInput{Name: "Hijacked", Difficulty: "easy"})
	ae := apierr.As(err)
	if ae == nil || ae.Code != "forbidden" {
		t.Fatalf("expected forbidden, got %v", err)
	}
}
