package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/handsnminds/platform/internal/auth"
	"github.com/handsnminds/platform/internal/catalog"
	"github.com/handsnminds/platform/internal/config"
	"github.com/handsnminds/platform/internal/donations"
	"github.com/handsnminds/platform/internal/es"
	"github.com/handsnminds/platform/internal/events"
	"github.com/handsnminds/platform/internal/httpserver"
	"github.com/handsnminds/platform/internal/localstore"
	"github.com/handsnminds/platform/internal/logging"
	loggingmw "github.com/handsnminds/platform/internal/middleware/logging"
	"github.com/handsnminds/platform/internal/mykafka"
	"github.com/handsnminds/platform/internal/newsletter"
	"github.com/handsnminds/platform/internal/userstate"
	"github.com/handsnminds/platform/internal/workshops"
)

func main() {
	cfg := config.Load()

	logger := logging.New(cfg.LogLevel).With("service", "platform")
	slog.SetDefault(logger)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	db, err := config.InitDB(ctx, cfg.DatabaseURL)
	cancel()
	if err != nil {
		log.Fatalf("db open: %v", err)
	}

	local, err := localstore.New(cfg.StateDir)
	if err != nil {
		log.Fatalf("local store: %v", err)
	}

	producer, err := mykafka.NewProducer(cfg.KafkaBrokers, []string{"auth_events", "cart_events", "favorites_events", "donation_events"})
	if err != nil {
		logger.Warn("kafka_unavailable", "error", err)
		producer = nil
	}

	esClient, err := es.NewClient(cfg)
	if err != nil {
		logger.Warn("elasticsearch_unavailable", "error", err)
		esClient = nil
	}

	notifier := auth.NewNotifier()
	authSvc := &auth.Service{
		Repo: auth.GormRepo{
			DB:            db,
			JWTSecret:     cfg.JWTSecret,
			RefreshSecret: cfg.RefreshSecret,
		},
		Notifier: notifier,
	}
	users := userstate.NewManager(local, logger)
	catalogSvc := &catalog.Service{Repo: &catalog.GormRepo{DB: db}}

	e := echo.New()
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(loggingmw.RequestLogger(logger))
	e.Use(echomw.CORS())

	httpserver.Register(e, &httpserver.Deps{
		AuthHandler:       &httpserver.AuthHTTP{Svc: authSvc, Producer: producer},
		CartHandler:       &httpserver.CartHTTP{Users: users, Catalog: catalogSvc, Producer: producer},
		FavoritesHandler:  &httpserver.FavoritesHTTP{Users: users, Producer: producer},
		CatalogHandler:    &httpserver.CatalogHTTP{Svc: catalogSvc},
		EventHandler:      &httpserver.EventHTTP{Svc: &events.Service{Repo: &events.GormRepo{DB: db}}},
		WorkshopHandler:   &httpserver.WorkshopHTTP{Svc: &workshops.Service{Repo: &workshops.GormRepo{DB: db}}},
		DonationHandler:   &httpserver.DonationHTTP{Svc: &donations.Service{Repo: &donations.GormRepo{DB: db}}, Producer: producer},
		NewsletterHandler: &httpserver.NewsletterHTTP{Svc: &newsletter.Service{Repo: &newsletter.GormRepo{DB: db}}},
		SearchHandler:     httpserver.NewSearchHTTP(esClient, "products"),
		SessionHandler:    &httpserver.SessionWS{Notifier: notifier},
		ExportHandler:     &httpserver.ExportHTTP{DB: db},
		JWTSecret:         cfg.JWTSecret,
		Auth:              authSvc,
	})

	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.ServerPort),
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
	}

	go func() {
		log.Printf("platform listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	_ = srv.Shutdown(shutdownCtx)

	if producer != nil {
		_ = producer.Close()
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}

	log.Println("platform stopped")
}
