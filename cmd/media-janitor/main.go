package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"staysync/internal/config"
	"staysync/internal/domain"
	"staysync/internal/media"
	"staysync/internal/messaging"
	"staysync/internal/observability"
)

func main() {
	cfg := config.Load()
	observability.InitLogger(cfg.LogLevel, cfg.LogFormat)

	slog.Info("starting media janitor")

	if cfg.RabbitMQURL == "" {
		slog.Error("RABBITMQ_URL is required")
		os.Exit(1)
	}

	startCtx, startCancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer startCancel()

	rmq, err := messaging.NewRabbitMQWithRetry(startCtx, cfg.RabbitMQURL)
	if err != nil {
		slog.Error("failed to connect to rabbitmq", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer rmq.Close()

	var store domain.MediaStore
	if cfg.Cloudinary.Enabled() {
		c := cfg.Cloudinary
		if store, err = media.NewCloudinary(c.CloudName, c.APIKey, c.APISecret, c.Folder); err != nil {
			slog.Error("failed to create cloudinary client", slog.String("error", err.Error()))
			os.Exit(1)
		}
	} else {
		mdb, err := config.NewMongoDatabase(startCtx, cfg.MongoURL, cfg.MongoDatabase)
		if err != nil {
			slog.Error("failed to connect to mongo", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer mdb.Client().Disconnect(context.Background())

		if store, err = media.NewGridFS(mdb); err != nil {
			slog.Error("failed to open gridfs", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	msgs, err := rmq.ConsumeMediaCleanup()
	if err != nil {
		slog.Error("failed to start consuming", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	janitor := messaging.NewMediaJanitor(store)
	done := make(chan struct{})
	go func() {
		janitor.Run(ctx, msgs)
		close(done)
	}()

	slog.Info("media janitor is ready to process events")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case <-sigChan:
		slog.Info("shutting down media janitor")
	case <-done:
		slog.Warn("delivery channel closed")
	}
	cancel()
	slog.Info("media janitor stopped")
}
