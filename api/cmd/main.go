package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"net/url"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	zlog "github.com/rs/zerolog/log"

	"github.com/suppertable/experience-service/internal/application/booking"
	"github.com/suppertable/experience-service/internal/application/experience"
	"github.com/suppertable/experience-service/internal/config"
	redisclient "github.com/suppertable/experience-service/internal/infrastructure/caching/redis"
	"github.com/suppertable/experience-service/internal/infrastructure/db/postgres"
	"github.com/suppertable/experience-service/internal/infrastructure/messaging/rabbitmq"
	"github.com/suppertable/experience-service/internal/logger"
	"github.com/suppertable/experience-service/internal/notify"
	"github.com/suppertable/experience-service/internal/transport/http/handlers"
	authmw "github.com/suppertable/experience-service/internal/transport/http/middleware"
	"github.com/suppertable/experience-service/internal/transport/http/router"
)

// sysClock provides wall time to the application services.
type sysClock struct{}

func (sysClock) Now() time.Time { return time.Now().UTC() }

// App holds all dependencies for the service.
type App struct {
	Config *config.Config
	Server *http.Server
	DB     *sql.DB

	Cache     *redisclient.Client
	Publisher *rabbitmq.Publisher
	Consumer  *rabbitmq.Consumer
	Outbox    *postgres.OutboxWorker
}

func main() {
	logger.Init()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	u, _ := url.Parse(cfg.DatabaseURL)
	zlog.Info().
		Str("db_user", u.User.Username()).
		Str("db_host", u.Host).
		Str("db_db", u.Path).
		Msg("db config loaded")

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		zlog.Fatal().Err(err).Msg("db open failed")
	}
	defer db.Close()

	{
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			zlog.Fatal().Err(err).Msg("db ping failed")
		}
	}

	app := NewApp(cfg, db)
	defer func() {
		if app.Publisher != nil {
			_ = app.Publisher.Close()
		}
		if app.Consumer != nil {
			_ = app.Consumer.Close()
		}
		if app.Cache != nil {
			_ = app.Cache.Close()
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app.Outbox.Start(ctx)
	if app.Consumer != nil {
		app.Consumer.Start(ctx)
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = app.Server.Shutdown(shutdownCtx)
	}()

	zlog.Info().Str("addr", cfg.HTTPAddr).Msg("listening")
	if err := app.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		zlog.Fatal().Err(err).Msg("server crashed")
	}
	zlog.Info().Msg("server stopped")
}

func NewApp(cfg *config.Config, db *sql.DB) *App {
	// 1) Infrastructure
	repo := postgres.New(db)
	bookingRepo := postgres.NewBookingRepo(db)

	var cache *redisclient.Client
	var svcCache experience.Cache
	if cfg.RedisURL != "" {
		c, err := redisclient.New(cfg.RedisURL)
		if err != nil {
			zlog.Warn().Err(err).Msg("redis unavailable, caching disabled")
		} else {
			cache = c
			svcCache = c
		}
	}

	var rabbit *rabbitmq.Publisher
	var pub experience.EventPublisher = experience.NoopPublisher{}
	if cfg.RabbitURL != "" {
		p, err := rabbitmq.NewPublisher(cfg.RabbitURL, cfg.RabbitExchange)
		if err != nil {
			zlog.Fatal().Err(err).Msg("rabbit publisher init failed")
		}
		rabbit = p
		pub = p
		zlog.Info().Str("exchange", cfg.RabbitExchange).Msg("rabbit publisher ready")
	} else {
		zlog.Warn().Msg("RABBIT_URL empty: domain events will not be published")
	}

	worker := postgres.NewOutboxWorker(db, pub)

	// 2) Application
	esvc := experience.New(repo, bookingRepo, sysClock{}, svcCache, cfg.CacheTTLDetails, cfg.CacheTTLStats)
	bsvc := booking.New(bookingRepo, repo, notify.NewLogNotifier(), esvc, sysClock{})

	var consumer *rabbitmq.Consumer
	if cfg.RabbitURL != "" {
		c, err := rabbitmq.NewConsumer(cfg.RabbitURL, cfg.RabbitExchange, esvc)
		if err != nil {
			zlog.Fatal().Err(err).Msg("rabbit consumer init failed")
		}
		consumer = c
	}

	// 3) Transport
	eh := handlers.NewExperiencesHandler(esvc, sysClock{})
	bh := handlers.NewBookingsHandler(bsvc)
	auth := authmw.NewAuth(cfg.JWTSecret, cfg.JWTIssuer)
	z := handlers.NewHealthHandler()

	httpHandler := router.New(eh, bh, auth, z, cfg)

	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      httpHandler,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	return &App{
		Config:    cfg,
		Server:    srv,
		DB:        db,
		Cache:     cache,
		Publisher: rabbit,
		Consumer:  consumer,
		Outbox:    worker,
	}
}
