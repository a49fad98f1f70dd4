package main

import (
	"github.com/soa-tours/platform/internal/gateway"
	"github.com/soa-tours/platform/internal/pkg/envutil"
	"github.com/soa-tours/platform/internal/pkg/logger"
)

func main() {
	mode := envutil.Get("APP_MODE", "debug", nil)
	log, err := logger.New(mode)
	if err != nil {
		panic(err)
	}
	defer log.Sync()
	log = log.With("app", "gateway")

	cfg, err := gateway.Load(log)
	if err != nil {
		log.Fatal("failed to load gateway config", "error", err)
	}
	router, err := gateway.NewRouter(cfg, log, mode)
	if err != nil {
		log.Fatal("failed to build gateway router", "error", err)
	}

	log.Info("gateway listening", "addr", cfg.Listen, "routes", len(cfg.Routes))
	if err := router.Run(cfg.Listen); err != nil {
		log.Fatal("server exited", "error", err)
	}
}
