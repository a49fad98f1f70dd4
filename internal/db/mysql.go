package db

import (
	"fmt"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/soa-tours/platform/internal/pkg/envutil"
	"github.com/soa-tours/platform/internal/pkg/logger"
)

// MySQLService backs the stakeholders and commerce databases. Each service
// passes its own model set to AutoMigrate so the two schemas stay separate.
type MySQLService struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewMySQLService(log *logger.Logger, defaultName string) (*MySQLService, error) {
	serviceLog := log.With("service", "MySQLService")

	dsn := envutil.Get("MYSQL_DSN", "", log)
	if dsn == "" {
		host := envutil.Get("MYSQL_HOST", "localhost", log)
		port := envutil.Get("MYSQL_PORT", "3306", log)
		user := envutil.Get("MYSQL_USER", "soa_user", log)
		password := envutil.Get("MYSQL_PASSWORD", "", log)
		name := envutil.Get("MYSQL_NAME", defaultName, log)
		dsn = fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local", user, password, host, port, name)
	}

	serviceLog.Info("Connecting to MySQL...")
	gdb, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		TranslateError:                           true,
	})
	if err != nil {
		serviceLog.Error("Failed to connect to MySQL", "error", err)
		return nil, fmt.Errorf("failed to connect to mysql: %w", err)
	}

	return &MySQLService{db: gdb, log: serviceLog}, nil
}

func (s *MySQLService) DB() *gorm.DB {
	return s.db
}

func (s *MySQLService) AutoMigrate(models ...interface{}) error {
	s.log.Info("Auto migrating tables...", "count", len(models))
	if err := s.db.AutoMigrate(models...); err != nil {
		s.log.Error("Auto migration failed", "error", err)
		return err
	}
	return nil
}
