package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/soa-tours/platform/internal/pkg/logger"
	"github.com/soa-tours/platform/internal/repos"
	"github.com/soa-tours/platform/internal/types"
)

func testLogger() *logger.Logger {
	return &logger.Logger{SugaredLogger: zap.NewNop().Sugar()}
}

// openTestDB gives each test an isolated in-memory database. A single
// connection is forced because every :memory: connection would otherwise
// see its own empty schema.
func openTestDB(t *testing.T, models ...interface{}) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unwrap sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := db.AutoMigrate(models...); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func openContentTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db := openTestDB(t, &types.Blog{}, &types.Tour{}, &types.Position{}, &types.TourExecution{})
	err := db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS uniq_active_execution_per_user
		ON tour_executions (user_id)
		WHERE status = 'active'
	`).Error
	if err != nil {
		t.Fatalf("create partial index: %v", err)
	}
	return db
}

func seedTour(t *testing.T, db *gorm.DB, authorID int64, keypoints []types.Keypoint) *types.Tour {
	t.Helper()
	tour := &types.Tour{
		ID:         uuid.New(),
		Name:       "Old Town Walk",
		AuthorID:   authorID,
		Status:     types.TourStatusPublished,
		Difficulty: "easy",
		Keypoints:  keypoints,
	}
	if err := db.Create(tour).Error; err != nil {
		t.Fatalf("seed tour: %v", err)
	}
	return tour
}

func setPosition(t *testing.T, db *gorm.DB, userID int64, lat, lon float64) {
	t.Helper()
	positionRepo := repos.NewPositionRepo(db, testLogger())
	err := positionRepo.Upsert(context.Background(), nil, &types.Position{
		ID:        uuid.New(),
		UserID:    userID,
		Latitude:  lat,
		Longitude: lon,
		Timestamp: time.Now(),
	})
	if err != nil {
		t.Fatalf("set position: %v", err)
	}
}
