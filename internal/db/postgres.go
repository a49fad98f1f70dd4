package db

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/soa-tours/platform/internal/pkg/envutil"
	"github.com/soa-tours/platform/internal/pkg/logger"
	"github.com/soa-tours/platform/internal/types"
)

// PostgresService owns the content database: blogs, tours, positions and
// tour executions live here as JSONB-backed documents.
type PostgresService struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPostgresService(log *logger.Logger) (*PostgresService, error) {
	serviceLog := log.With("service", "PostgresService")

	host := envutil.Get("POSTGRES_HOST", "localhost", log)
	port := envutil.Get("POSTGRES_PORT", "5432", log)
	user := envutil.Get("POSTGRES_USER", "postgres", log)
	password := envutil.Get("POSTGRES_PASSWORD", "", log)
	name := envutil.Get("POSTGRES_NAME", "soa_tours_content", log)

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", user, password, host, port, name)

	serviceLog.Info("Connecting to Postgres...")
	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		TranslateError:                           true,
	})
	if err != nil {
		serviceLog.Error("Failed to connect to Postgres", "error", err)
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	return &PostgresService{db: gdb, log: serviceLog}, nil
}

func (s *PostgresService) DB() *gorm.DB {
	return s.db
}

func (s *PostgresService) AutoMigrateAll() error {
	s.log.Info("Auto migrating content tables...")
	err := s.db.AutoMigrate(
		&types.Blog{},
		&types.Tour{},
		&types.Position{},
		&types.TourExecution{},
	)
	if err != nil {
		s.log.Error("Auto migration failed for content tables", "error", err)
		return err
	}

	// One active execution per user. The automigrator cannot express a
	// partial unique index, so it is created directly.
	if err := s.db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS uniq_active_execution_per_user
		ON tour_executions (user_id)
		WHERE status = 'active'
	`).Error; err != nil {
		s.log.Error("Failed to create active-execution unique index", "error", err)
		return err
	}
	return nil
}
