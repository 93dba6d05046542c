package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/leadflow/crm-api/internal/app"
	"github.com/leadflow/crm-api/internal/pkg/config"
	"github.com/leadflow/crm-api/pkg/logger"
)

// @title           CRM API
// @version         1.0
// @description     Lead management with role and ownership based access control.
// @BasePath        /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// New initialises the logger before anything that can fail.
	application, err := app.New(ctx, cfg)
	log := logger.Get()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize application")
	}

	if err := application.Run(ctx); err != nil {
		log.Error().Err(err).Msg("application error")
		stop()
		os.Exit(1)
	}
}
