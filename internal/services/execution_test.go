package services

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/soa-tours/platform/internal/pkg/apierr"
	"github.com/soa-tours/platform/internal/repos"
	"github.com/soa-tours/platform/internal/types"
)

// Two keypoints in Belgrade roughly a kilometer apart.
var belgradeKeypoints = []types.Keypoint{
	{Name: "Kalemegdan", Latitude: 44.8176, Longitude: 20.4633, Order: 0},
	{Name: "Skadarlija", Latitude: 44.8206, Longitude: 20.4513, Order: 1},
}

func newExecutionService(t *testing.T) (ExecutionService, *gorm.DB) {
	t.Helper()
	db := openContentTestDB(t)
	log := testLogger()
	service := NewExecutionService(
		log,
		repos.NewExecutionRepo(db, log),
		repos.NewTourRepo(db, log),
		repos.NewPositionRepo(db, log),
	)
	return service, db
}

func TestStartExecutionRequiresPosition(t *testing.T) {
	service, db := newExecutionService(t)
	tour := seedTour(t, db, 1, belgradeKeypoints)

	_, err := service.StartExecution(context.Background(), 42, tour.ID)
	ae := apierr.As(err)
	if ae == nil || ae.Code != "precondition_error" {
		t.Fatalf("expected precondition_error, got %v", err)
	}
}

func TestStartExecutionUnknownTour(t *testing.T) {
	service, db := newExecutionService(t)
	setPosition(t, db, 42, 44.8176, 20.4633)

	_, err := service.StartExecution(context.Background(), 42, uuid.New())
	ae := apierr.As(err)
	if ae == nil || ae.Code != "not_found" {
		t.Fatalf("expected not_found, got %v", err)
	}
}

func TestStartExecutionRejectsEmptyTour(t *testing.T) {
	service, db := newExecutionService(t)
	tour := seedTour(t, db, 1, []types.Keypoint{})
	setPosition(t, db, 42, 44.8176, 20.4633)

	_, err := service.StartExecution(context.Background(), 42, tour.ID)
	ae := apierr.As(err)
	if ae == nil || ae.Code != "validation_error" {
		t.Fatalf("expected validation_error, got %v", err)
	}
}

func TestStartExecutionSingleActivePerUser(t *testing.T) {
	service, db := newExecutionService(t)
	tour := seedTour(t, db, 1, belgradeKeypoints)
	setPosition(t, db, 42, 44.8176, 20.4633)

	first, err := service.StartExecution(context.Background(), 42, tour.ID)
	if err != nil {
		t.Fatalf("first start: %v", err)
	}
	if first.Status != types.ExecutionStatusActive {
		t.Fatalf("expected active, got %s", first.Status)
	}

	existing, err := service.StartExecution(context.Background(), 42, tour.ID)
	ae := apierr.As(err)
	if ae == nil || ae.Code != "conflict_error" {
		t.Fatalf("expected conflict_error, got %v", err)
	}
	if existing == nil || existing.ID != first.ID {
		t.Fatalf("conflict should surface the existing execution")
	}
}

func TestCheckProximityCompletesKeypointInOrder(t *testing.T) {
	service, db := newExecutionService(t)
	tour := seedTour(t, db, 1, belgradeKeypoints)
	setPosition(t, db, 42, 44.8176, 20.4633)

	if _, err := service.StartExecution(context.Background(), 42, tour.ID); err != nil {
		t.Fatalf("start: %v", err)
	}

	result, err := service.CheckProximity(context.Background(), 42)
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if !result.NearKeypoint || !result.CompletedKeypoint {
		t.Fatalf("expected keypoint 0 completed, got %+v", result)
	}
	if result.KeypointIndex != 0 || result.KeypointName != "Kalemegdan" {
		t.Fatalf("expected keypoint 0 targeted, got index %d name %q", result.KeypointIndex, result.KeypointName)
	}
	if result.DistanceToKeypoint > 1.0 {
		t.Fatalf("expected near-zero distance, got %f", result.DistanceToKeypoint)
	}
	if result.Execution.Status != types.ExecutionStatusActive {
		t.Fatalf("one of two keypoints done, expected still active")
	}
	if len(result.Execution.CompletedKeypoints) != 1 {
		t.Fatalf("expected one completion, got %d", len(result.Execution.CompletedKeypoints))
	}
}

func TestCheckProximityNoDuplicateWhenStationary(t *testing.T) {
	service, db := newExecutionService(t)
	tour := seedTour(t, db, 1, belgradeKeypoints)
	setPosition(t, db, 42, 44.8176, 20.4633)

	if _, err := service.StartExecution(context.Background(), 42, tour.ID); err != nil {
		t.Fatalf("start: %v", err)
	}
	first, err := service.CheckProximity(context.Background(), 42)
	if err != nil {
		t.Fatalf("first check: %v", err)
	}

	// Still standing at keypoint 0; the next check targets keypoint 1,
	// which is about a kilometer away.
	second, err := service.CheckProximity(context.Background(), 42)
	if err != nil {
		t.Fatalf("second check: %v", err)
	}
	if second.CompletedKeypoint {
		t.Fatalf("stationary re-check must not complete anything")
	}
	if second.KeypointIndex != 1 {
		t.Fatalf("expected target keypoint 1, got %d", second.KeypointIndex)
	}
	if second.NearKeypoint {
		t.Fatalf("keypoint 1 should be out of range")
	}
	if len(second.Execution.CompletedKeypoints) != 1 {
		t.Fatalf("completion list grew on a stationary check")
	}
	if !second.Execution.LastActivity.After(first.Execution.LastActivity) {
		t.Fatalf("last_activity must advance on every check")
	}
}

func TestCheckProximityConcurrentChecksRecordOneCompletion(t *testing.T) {
	service, db := newExecutionService(t)
	tour := seedTour(t, db, 1, belgradeKeypoints)
	setPosition(t, db, 42, 44.8176, 20.4633)

	if _, err := service.StartExecution(context.Background(), 42, tour.ID); err != nil {
		t.Fatalf("start: %v", err)
	}

	// Two checks race on the same execution row. The version guard makes
	// the loser re-read and retry, so keypoint 0 is completed once.
	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = service.CheckProximity(context.Background(), 42)
		}(i)
	}
	wg.Wait()
	for i, err := range errs {
		if err != nil {
			t.Fatalf("check %d: %v", i, err)
		}
	}

	execution, err := repos.NewExecutionRepo(db, testLogger()).GetActiveByUserID(context.Background(), nil, 42)
	if err != nil {
		t.Fatalf("reload execution: %v", err)
	}
	completions := 0
	for _, completed := range execution.CompletedKeypoints {
		if completed.KeypointIndex == 0 {
			completions++
		}
	}
	if completions != 1 {
		t.Fatalf("expected one completion for keypoint 0, got %d", completions)
	}
}

func TestCheckProximityCompletesExecution(t *testing.T) {
	service, db := newExecutionService(t)
	tour := seedTour(t, db, 1, belgradeKeypoints)
	setPosition(t, db, 42, 44.8176, 20.4633)

	if _, err := service.StartExecution(context.Background(), 42, tour.ID); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := service.CheckProximity(context.Background(), 42); err != nil {
		t.Fatalf("check at keypoint 0: %v", err)
	}

	setPosition(t, db, 42, 44.8206, 20.4513)
	result, err := service.CheckProximity(context.Background(), 42)
	if err != nil {
		t.Fatalf("check at keypoint 1: %v", err)
	}
	if !result.CompletedKeypoint {
		t.Fatalf("expected keypoint 1 completed")
	}
	if result.Execution.Status != types.ExecutionStatusCompleted {
		t.Fatalf("expected execution completed, got %s", result.Execution.Status)
	}
	if result.Execution.CompletedAt == nil {
		t.Fatalf("completed execution must carry completed_at")
	}

	// The execution is terminal; another check finds nothing active.
	_, err = service.CheckProximity(context.Background(), 42)
	ae := apierr.As(err)
	if ae == nil || ae.Code != "not_found" {
		t.Fatalf("expected not_found after completion, got %v", err)
	}
}

func TestAbandonExecution(t *testing.T) {
	service, db := newExecutionService(t)
	tour := seedTour(t, db, 1, belgradeKeypoints)
	setPosition(t, db, 42, 44.8176, 20.4633)

	execution, err := service.StartExecution(context.Background(), 42, tour.ID)
	if err != nil {
		t.Fatalf("start: %v", err)
	}

	abandoned, err := service.AbandonExecution(context.Background(), 42, execution.ID)
	if err != nil {
		t.Fatalf("abandon: %v", err)
	}
	if abandoned.Status != types.ExecutionStatusAbandoned || abandoned.AbandonedAt == nil {
		t.Fatalf("expected abandoned with timestamp, got %+v", abandoned)
	}

	_, err = service.AbandonExecution(context.Background(), 42, execution.ID)
	ae := apierr.As(err)
	if ae == nil || ae.Code != "conflict_error" {
		t.Fatalf("expected conflict_error on terminal execution, got %v", err)
	}
}

func TestAbandonExecutionOwnerOnly(t *testing.T) {
	service, db := newExecutionService(t)
	tour := seedTour(t, db, 1, belgradeKeypoints)
	setPosition(t, db, 42, 44.8176, 20.4633)

	execution, err := service.StartExecution(context.Background(), 42, tour.ID)
	if err != nil {
		t.Fatalf("start: %v", err)
	}

	_, err = service.AbandonExecution(context.Background(), 99, execution.ID)
	ae := apierr.As(err)
	if ae == nil || ae.Code != "forbidden" {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestListExecutions(t *testing.T) {
	service, db := newExecutionService(t)
	tour := seedTour(t, db, 1, belgradeKeypoints)
	setPosition(t, db, 42, 44.8176, 20.4633)

	execution, err := service.StartExecution(context.Background(), 42, tour.ID)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := service.AbandonExecution(context.Background(), 42, execution.ID); err != nil {
		t.Fatalf("abandon: %v", err)
	}
	if _, err := service.StartExecution(context.Background(), 42, tour.ID); err != nil {
		t.Fatalf("restart: %v", err)
	}

	executions, err := service.ListExecutions(context.Background(), 42)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(executions) != 2 {
		t.Fatalf("expected 2 executions, got %d", len(executions))
	}

	other, err := service.ListExecutions(context.Background(), 7)
	if err != nil {
		t.Fatalf("list other: %v", err)
	}
	if len(other) != 0 {
		t.Fatalf("expected no executions for other user, got %d", len(other))
	}
}

func TestNearbyKeypoints(t *testing.T) {
	service, db := newExecutionService(t)
	tour := seedTour(t, db, 1, belgradeKeypoints)
	setPosition(t, db, 42, 44.8176, 20.4633)

	if _, err := service.StartExecution(context.Background(), 42, tour.ID); err != nil {
		t.Fatalf("start: %v", err)
	}

	nearby, err := service.NearbyKeypoints(context.Background(), 42)
	if err != nil {
		t.Fatalf("nearby: %v", err)
	}
	if len(nearby) != 1 {
		t.Fatalf("expected only keypoint 0 within range, got %d hits", len(nearby))
	}
	if nearby[0].KeypointIndex != 0 || nearby[0].Completed {
		t.Fatalf("unexpected nearby hit %+v", nearby[0])
	}
}
