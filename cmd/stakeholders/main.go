package main

import (
	"time"

	"github.com/soa-tours/platform/internal/db"
	apphttp "github.com/soa-tours/platform/internal/http"
	"github.com/soa-tours/platform/internal/http/handlers"
	"github.com/soa-tours/platform/internal/pkg/envutil"
	"github.com/soa-tours/platform/internal/pkg/logger"
	"github.com/soa-tours/platform/internal/repos"
	"github.com/soa-tours/platform/internal/services"
	"github.com/soa-tours/platform/internal/types"
)

func main() {
	mode := envutil.Get("APP_MODE", "debug", nil)
	log, err := logger.New(mode)
	if err != nil {
		panic(err)
	}
	defer log.Sync()
	log = log.With("app", "stakeholders")

	dbService, err := db.NewMySQLService(log, "stakeholders")
	if err != nil {
		log.Fatal("failed to connect to mysql", "error", err)
	}
	if err := dbService.AutoMigrate(
		&types.User{},
		&types.Profile{},
		&types.Follow{},
		&types.UserToken{},
	); err != nil {
		log.Fatal("failed to migrate", "error", err)
	}
	gormDB := dbService.DB()

	userRepo := repos.NewUserRepo(gormDB, log)
	profileRepo := repos.NewProfileRepo(gormDB, log)
	followRepo := repos.NewFollowRepo(gormDB, log)
	userTokenRepo := repos.NewUserTokenRepo(gormDB, log)

	jwtSecretKey := envutil.Get("JWT_SECRET_KEY", "dev-secret-change-me", log)
	accessTTL := envutil.GetDuration("ACCESS_TOKEN_TTL", 15*time.Minute, log)
	refreshTTL := envutil.GetDuration("REFRESH_TOKEN_TTL", 7*24*time.Hour, log)

	authService := services.NewAuthService(gormDB, log, userRepo, profileRepo, userTokenRepo, jwtSecretKey, accessTTL, refreshTTL)
	userService := services.NewUserService(log, userRepo, profileRepo)
	followService := services.NewFollowService(log, followRepo, userRepo)

	router := apphttp.NewRouter(apphttp.RouterConfig{
		ServiceName:   "stakeholders",
		Mode:          mode,
		JWTSecretKey:  jwtSecretKey,
		DB:            gormDB,
		Log:           log,
		AuthHandler:   handlers.NewAuthHandler(log, authService),
		UserHandler:   handlers.NewUserHandler(log, userService),
		FollowHandler: handlers.NewFollowHandler(log, followService),
	})

	addr := ":" + envutil.Get("PORT", "8081", log)
	log.Info("stakeholders service listening", "addr", addr)
	if err := router.Run(addr); err != nil {
		log.Fatal("server exited", "error", err)
	}
}
