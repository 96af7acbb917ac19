package main

import (
	"context"
	"fmt"

	"github.com/o-dots/backend/internal/chat"
	"github.com/o-dots/backend/internal/config"
	"github.com/o-dots/backend/internal/handler"
	"github.com/o-dots/backend/internal/logger"
	"github.com/o-dots/backend/internal/payments"
	"github.com/o-dots/backend/internal/server"
	"github.com/o-dots/backend/internal/service"
	"github.com/o-dots/backend/internal/store"
	"github.com/o-dots/backend/internal/workers"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	log := logger.NewLogger("backend-server")
	cfg, err := config.GetStructuredConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	log.Debug().Any("config", cfg).Msg("received configs")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	storages, err := store.NewStorages(ctx, cfg.Storage, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating storages")
	}
	defer storages.Close()

	emailSender, err := service.NewEmailService(cfg.Email, cfg.App.ClientURL, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating email service")
	}

	stripe := payments.NewStripeClient(cfg.Payments)

	services := service.NewServices(storages, emailSender, stripe, cfg, log)

	hub := chat.NewHub(services.MessageService, log)
	go hub.Run(ctx)

	workers.NewWorkers(storages, cfg.Workers, log).Run(ctx)

	handlers, err := handler.NewHandlers(services, hub, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating handlers")
	}

	srv, err := server.NewServer(handlers, cfg.Server, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating server")
	}

	srv.RunServer()
}

func printBuildInfo() {
	if buildVersion == "" {
		buildVersion = "N/A"
	}

	if buildDate == "" {
		buildDate = "N/A"
	}

	if buildCommit == "" {
		buildCommit = "N/A"
	}

	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDate)
	fmt.Printf("Build commit: %s\n", buildCommit)
}
