package main

import (
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
	log = log.With("app", "commerce")

	dbService, err := db.NewMySQLService(log, "commerce")
	if err != nil {
		log.Fatal("failed to connect to mysql", "error", err)
	}
	if err := dbService.AutoMigrate(
		&types.ShoppingCart{},
		&types.CartItem{},
		&types.PurchaseToken{},
	); err != nil {
		log.Fatal("failed to migrate", "error", err)
	}
	gormDB := dbService.DB()

	cartRepo := repos.NewCartRepo(gormDB, log)
	purchaseTokenRepo := repos.NewPurchaseTokenRepo(gormDB, log)
	commerceService := services.NewCommerceService(gormDB, log, cartRepo, purchaseTokenRepo)

	jwtSecretKey := envutil.Get("JWT_SECRET_KEY", "dev-secret-change-me", log)

	router := apphttp.NewRouter(apphttp.RouterConfig{
		ServiceName:     "commerce",
		Mode:            mode,
		JWTSecretKey:    jwtSecretKey,
		DB:              gormDB,
		Log:             log,
		CommerceHandler: handlers.NewCommerceHandler(log, commerceService),
	})

	addr := ":" + envutil.Get("PORT", "8083", log)
	log.Info("commerce service listening", "addr", addr)
	if err := router.Run(addr); err != nil {
		log.Fatal("server exited", "error", err)
	}
}
