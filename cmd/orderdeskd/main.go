package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/vyvy-garden/orderdesk/internal/catalog"
	"github.com/vyvy-garden/orderdesk/internal/config"
	"github.com/vyvy-garden/orderdesk/internal/handler"
	"github.com/vyvy-garden/orderdesk/internal/invoice"
	"github.com/vyvy-garden/orderdesk/internal/order"
	"github.com/vyvy-garden/orderdesk/internal/transport"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	log.Logger = log.With().Str("service", "orderdeskd").Logger()

	log.Info().Msg("Order desk starting...")

	cfg, err := config.Load(".env")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}

	cat := catalog.Default()

	store, err := order.OpenBolt(cfg.Store.Path, cat)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open order store")
	}
	defer store.Close()

	svc := order.NewService(store, order.NewIDSource(), cfg.DeleteDelay)
	pdf := invoice.NewPDFWriter(cfg.Invoice.LogoPath)
	orderHandler := handler.NewOrderHandler(svc, cat, pdf)
	router := transport.NewRouter(orderHandler)

	srv := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.App.Port).Msg("Starting HTTP server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan
	log.Info().Msg("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Shutdown failed")
	}
	log.Info().Msg("Server stopped")
}
