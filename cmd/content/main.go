package main

import (
	"github.com/soa-tours/platform/internal/clients/positioncache"
	"github.com/soa-tours/platform/internal/clients/stakeholders"
	"github.com/soa-tours/platform/internal/db"
	apphttp "github.com/soa-tours/platform/internal/http"
	"github.com/soa-tours/platform/internal/http/handlers"
	"github.com/soa-tours/platform/internal/pkg/envutil"
	"github.com/soa-tours/platform/internal/pkg/logger"
	"github.com/soa-tours/platform/internal/repos"
	"github.com/soa-tours/platform/internal/services"
)

func main() {
	mode := envutil.Get("APP_MODE", "debug", nil)
	log, err := logger.New(mode)
	if err != nil {
		panic(err)
	}
	defer log.Sync()
	log = log.With("app", "content")

	dbService, err := db.NewPostgresService(log)
	if err != nil {
		log.Fatal("failed to connect to postgres", "error", err)
	}
	if err := dbService.AutoMigrateAll(); err != nil {
		log.Fatal("failed to migrate", "error", err)
	}
	gormDB := dbService.DB()

	blogRepo := repos.NewBlogRepo(gormDB, log)
	tourRepo := repos.NewTourRepo(gormDB, log)
	positionRepo := repos.NewPositionRepo(gormDB, log)
	executionRepo := repos.NewExecutionRepo(gormDB, log)

	stakeholdersURL := envutil.Get("STAKEHOLDERS_URL", "http://stakeholders:8081", log)
	stakeholdersClient := stakeholders.NewClient(stakeholdersURL, log)
	cache := positioncache.New(log)

	blogService := services.NewBlogService(log, blogRepo, stakeholdersClient)
	tourService := services.NewTourService(log, tourRepo, executionRepo)
	positionService := services.NewPositionService(log, positionRepo, cache)
	executionService := services.NewExecutionService(log, executionRepo, tourRepo, positionRepo)

	jwtSecretKey := envutil.Get("JWT_SECRET_KEY", "dev-secret-change-me", log)

	router := apphttp.NewRouter(apphttp.RouterConfig{
		ServiceName:      "content",
		Mode:             mode,
		JWTSecretKey:     jwtSecretKey,
		DB:               gormDB,
		Log:              log,
		BlogHandler:      handlers.NewBlogHandler(log, blogService),
		TourHandler:      handlers.NewTourHandler(log, tourService),
		PositionHandler:  handlers.NewPositionHandler(log, positionService),
		ExecutionHandler: handlers.NewExecutionHandler(log, executionService),
	})

	addr := ":" + envutil.Get("PORT", "8082", log)
	log.Info("content service listening", "addr", addr)
	if err := router.Run(addr); err != nil {
		log.Fatal("server exited", "error", err)
	}
}
