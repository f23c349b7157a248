package main

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/vyvy-garden/orderdesk/internal/catalog"
	"github.com/vyvy-garden/orderdesk/internal/config"
	"github.com/vyvy-garden/orderdesk/internal/invoice"
	"github.com/vyvy-garden/orderdesk/internal/order"
	"github.com/vyvy-garden/orderdesk/internal/tui"
)

func main() {
	// The terminal belongs to the UI; keep log output in a file.
	logFile, err := os.OpenFile("orderdesk.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err == nil {
		defer logFile.Close()
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: logFile, TimeFormat: time.RFC3339, NoColor: true})
	}
	log.Logger = log.With().Str("service", "orderdesk").Logger()

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

	if err := tui.Run(svc, cat, pdf); err != nil {
		log.Fatal().Err(err).Msg("UI failed")
	}
}
