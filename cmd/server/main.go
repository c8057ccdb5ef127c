package main

import (
	"fmt"

	"github.com/amirasaad/banksaga/infra/initializer"
	"github.com/amirasaad/banksaga/pkg/config"
	"github.com/amirasaad/banksaga/webapi"
	log "github.com/charmbracelet/log"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load(".env")
	if err != nil {
		return fmt.Errorf("failed to load application configuration: %w", err)
	}

	deps, err := initializer.InitializeDependencies(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize dependencies: %w", err)
	}

	app := webapi.SetupApp(deps.AccountService, deps.TransferService)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	deps.Logger.Info("starting server",
		"env", cfg.Env,
		"address", addr,
		"event_store", cfg.EventStore.Driver,
		"event_bus", cfg.EventBus.Driver,
	)

	return app.Listen(addr)
}
