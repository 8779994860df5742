package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"staysync/internal/config"
	"staysync/internal/domain"
	"staysync/internal/handler"
	"staysync/internal/media"
	"staysync/internal/messaging"
	"staysync/internal/middleware"
	"staysync/internal/observability"
	"staysync/internal/repository/mongodb"
	"staysync/internal/repository/postgres"
	redisrepo "staysync/internal/repository/redis"
	"staysync/internal/router"
	"staysync/internal/security"
	"staysync/internal/service"
	"staysync/internal/session"
	"staysync/internal/view"
)

func main() {
	cfg := config.Load()
	observability.InitLogger(cfg.LogLevel, cfg.LogFormat)

	slog.Info("starting staysync", slog.String("environment", cfg.Environment))

	startCtx, startCancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer startCancel()

	db, err := config.NewPostgresConnection(startCtx, cfg.DatabaseURL)
	if err != nil {
		fatal("failed to connect to database", err)
	}
	defer db.Close()
	slog.Info("connected to postgresql")

	if err := postgres.Migrate(startCtx, postgres.NewTxManager(db)); err != nil {
		fatal("failed to migrate database", err)
	}

	mdb, err := config.NewMongoDatabase(startCtx, cfg.MongoURL, cfg.MongoDatabase)
	if err != nil {
		fatal("failed to connect to mongo", err)
	}
	defer mdb.Client().Disconnect(context.Background())
	slog.Info("connected to mongodb", slog.String("database", cfg.MongoDatabase))

	if err := mongodb.EnsureIndexes(startCtx, mdb); err != nil {
		fatal("failed to create mongo indexes", err)
	}

	checks := map[string]handler.Check{
		"database": handler.DatabaseCheck(db),
		"mongodb":  handler.MongoCheck(mdb.Client()),
	}

	userRepo, err := postgres.NewUserRepository(db)
	if err != nil {
		fatal("failed to prepare user repository", err)
	}
	sessionRepo, err := newSessionRepository(startCtx, cfg, db, checks)
	if err != nil {
		fatal("failed to set up session store", err)
	}
	listingRepo := mongodb.NewListingRepository(mdb)
	reviewRepo := mongodb.NewReviewRepository(mdb)

	store, files, err := newMediaStore(cfg, mdb)
	if err != nil {
		fatal("failed to set up media store", err)
	}

	var publisher domain.EventPublisher = messaging.NoopPublisher{}
	if cfg.RabbitMQURL != "" {
		rmq, err := messaging.NewRabbitMQWithRetry(startCtx, cfg.RabbitMQURL)
		if err != nil {
			fatal("failed to connect to rabbitmq", err)
		}
		defer rmq.Close()
		publisher = rmq
		checks["rabbitmq"] = handler.ConnectionCheck(rmq)
		slog.Info("connected to rabbitmq")
	} else {
		slog.Info("RABBITMQ_URL not set, listing events are dropped")
	}

	authService := service.NewAuthService(userRepo)
	listingService := service.NewListingService(listingRepo, reviewRepo, userRepo, publisher)
	reviewService := service.NewReviewService(listingRepo, reviewRepo, publisher)

	sessions := session.NewManager(sessionRepo, authService, security.NewTokenManager(), cfg.IsProduction())
	renderer, err := view.New(sessions)
	if err != nil {
		fatal("failed to parse templates", err)
	}
	errs := handler.NewErrorHandler(renderer)
	sessions.SetErrorResponder(errs.Handle)

	authLimiter := middleware.NewRateLimiter(5, 10, errs.Handle)
	defer authLimiter.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go startMaintenance(ctx, sessions, db)
	slog.Info("session cleanup task started")

	srv := &http.Server{
		Addr: ":" + cfg.Port,
		Handler: router.New(router.Deps{
			Sessions:    sessions,
			Auth:        authService,
			Listings:    listingService,
			Reviews:     reviewService,
			Media:       store,
			Renderer:    renderer,
			Errors:      errs,
			MediaFiles:  files,
			AuthLimiter: authLimiter,
			Checks:      checks,
		}),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("staysync listening", slog.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			fatal("server error", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	slog.Info("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", slog.String("error", err.Error()))
	}

	cancel()
	slog.Info("server stopped gracefully")
}

func fatal(msg string, err error) {
	slog.Error(msg, slog.String("error", err.Error()))
	os.Exit(1)
}

// newSessionRepository picks the configured session backend and registers
// its health check.
func newSessionRepository(ctx context.Context, cfg *config.Config, db *sql.DB, checks map[string]handler.Check) (domain.SessionRepository, error) {
	if cfg.SessionStore == config.SessionStoreRedis {
		client, err := config.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		checks["redis"] = handler.PingCheck(func(ctx context.Context) error {
			return client.Ping(ctx).Err()
		})
		slog.Info("sessions stored in redis")
		return redisrepo.NewSessionRepository(client), nil
	}

	slog.Info("sessions stored in postgresql")
	return postgres.NewSessionRepository(db)
}

// newMediaStore uses Cloudinary when it is configured and GridFS otherwise.
// files is only set for GridFS, whose images the server streams itself.
func newMediaStore(cfg *config.Config, mdb *mongo.Database) (domain.MediaStore, handler.MediaSource, error) {
	if cfg.Cloudinary.Enabled() {
		c := cfg.Cloudinary
		store, err := media.NewCloudinary(c.CloudName, c.APIKey, c.APISecret, c.Folder)
		if err != nil {
			return nil, nil, err
		}
		slog.Info("images stored on cloudinary", slog.String("folder", c.Folder))
		return media.Instrumented{MediaStore: store, Name: "cloudinary"}, nil, nil
	}

	grid, err := media.NewGridFS(mdb)
	if err != nil {
		return nil, nil, err
	}
	slog.Info("images stored in gridfs")
	return media.Instrumented{MediaStore: grid, Name: "gridfs"}, grid, nil
}

// startMaintenance removes expired sessions and samples pool statistics
func startMaintenance(ctx context.Context, sessions *session.Manager, db *sql.DB) {
	cleanup := time.NewTicker(1 * time.Hour)
	defer cleanup.Stop()
	stats := time.NewTicker(15 * time.Second)
	defer stats.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("stopping session cleanup task")
			return
		case <-stats.C:
			observability.RecordDBStats(db.Stats())
		case <-cleanup.C:
			cleanupCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			count, err := sessions.Cleanup(cleanupCtx)
			if err != nil && !errors.Is(err, context.Canceled) {
				slog.Error("session cleanup failed", slog.String("error", err.Error()))
			} else {
				slog.Info("session cleanup completed", slog.Int64("sessions_deleted", count))
			}
			cancel()
		}
	}
}
