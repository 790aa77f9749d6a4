package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/quickbite/ordersync/internal/engine"
	"github.com/quickbite/ordersync/internal/fetch"
	"github.com/quickbite/ordersync/internal/metrics"
	"github.com/quickbite/ordersync/internal/notify"
	"github.com/quickbite/ordersync/internal/track"
	"github.com/quickbite/ordersync/pkg/config"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	log.Logger = log.With().Str("service", "ordertrack").Logger()

	orderID := flag.String("order", "", "order id to track; defaults to the last tracked order")
	flag.Parse()

	cfg, err := config.Load(".env")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}

	tracked, err := track.Open(cfg.Track.DBPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open track store")
	}
	defer tracked.Close()

	ctx := context.Background()

	// The CLI flag wins; otherwise resume whatever order was tracked
	// before the last restart.
	id := *orderID
	if id == "" {
		id, err = tracked.LastOrderID(ctx)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to read last tracked order")
		}
	} else if err := tracked.SetLastOrderID(ctx, id); err != nil {
		log.Fatal().Err(err).Msg("Failed to persist tracked order")
	}

	m := metrics.New("tracker")
	observers := []engine.Observer{
		notify.NewLogObserver(),
		metrics.NewObserver(m),
	}

	var amqpConn *amqp091.Connection
	if cfg.AMQP.URL != "" {
		amqpConn, err = amqp091.Dial(cfg.AMQP.URL)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to AMQP broker")
		}
		defer amqpConn.Close()

		ch, err := amqpConn.Channel()
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to open AMQP channel")
		}
		pub, err := notify.NewPublisher(ch, cfg.AMQP.Exchange)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to declare notification exchange")
		}
		observers = append(observers, pub)
		log.Info().Str("exchange", cfg.AMQP.Exchange).Msg("Publishing diff events to AMQP")
	}

	client := fetch.NewClient(cfg.API.BaseURL)
	store := engine.NewStore()
	poller := engine.NewPoller(client, store, cfg.Poll.ListInterval, cfg.Poll.OrderInterval, observers...)

	subs := []*engine.Subscription{poller.SubscribeAll()}
	if id != "" {
		subs = append(subs, poller.SubscribeOrder(id))
		log.Info().Str("order_id", id).Msg("Tracking single order")
	}

	metricsRouter := chi.NewRouter()
	metricsRouter.Handle("/metrics", metrics.Handler())
	metricsSrv := &http.Server{
		Addr:         cfg.Metrics.Addr,
		Handler:      metricsRouter,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	go func() {
		log.Info().Str("addr", cfg.Metrics.Addr).Msg("Serving metrics")
		if err := metricsSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Metrics server failed")
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan
	log.Info().Msg("Shutting down...")

	for _, sub := range subs {
		sub.Stop()
		<-sub.Done()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("Shutdown failed")
	}
	log.Info().Msg("Tracker stopped")
}
