package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"facturador/internal/afip"
	"facturador/internal/config"
	"facturador/internal/infra"
	"facturador/internal/repository"
	"facturador/internal/router"
	"facturador/internal/worker"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Structured logger — dev: pretty, prod: JSON
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}

	rdb, err := infra.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}

	// Cadena de autenticación AFIP: certificado X.509 → firmador CMS →
	// cliente WSAA con caché de tickets en DB.
	firmador, err := afip.NewFirmadorDesdeArchivos(cfg.AFIPCertPath, cfg.AFIPKeyPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load AFIP certificate")
	}
	ticketRepo := repository.NewTicketRepository(db)
	wsaa := afip.NewClienteWSAA(cfg.AFIPWSAAURL, firmador, ticketRepo, time.Duration(cfg.AFIPTimeoutSeconds)*time.Second)
	wsfe := afip.NewClienteWSFE(cfg.AFIPWSFEURL, cfg.AFIPCUIT, wsaa, time.Duration(cfg.AFIPTimeoutSeconds)*time.Second)
	afipCB := infra.NewCircuitBreaker(infra.DefaultCBConfig())

	// Start goroutine worker pool for async tasks (PDF, QR, email).
	// Worker handlers are wired here (composition root) so that the pool
	// has full access to all infrastructure dependencies.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	mailer := infra.NewMailer(cfg)
	dispatcher := worker.NewDispatcher(rdb)
	comprobanteRepo := repository.NewComprobanteRepository(db)
	emisor := infra.PDFEmisor{
		RazonSocial: cfg.EmisorRazonSocial,
		CUIT:        cfg.AFIPCUIT,
		Direccion:   cfg.EmisorDireccion,
	}

	handlers := worker.Handlers{
		Documento: worker.NewDocumentoWorker(comprobanteRepo, dispatcher, emisor, cfg.PDFStoragePath),
		Email:     worker.NewEmailWorker(mailer),
	}
	worker.StartWorkerPool(ctx, rdb, cfg.WorkerPoolSize, handlers)

	r := router.New(cfg, db, rdb, wsfe, afipCB, dispatcher)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().Msgf("facturador listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server…")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("forced shutdown")
	}
	log.Info().Msg("server exited")
}
