package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"staysync/internal/config"
	"staysync/internal/observability"
	"staysync/internal/repository/mongodb"
	"staysync/internal/repository/postgres"
	"staysync/internal/seed"
	"staysync/internal/service"
)

func main() {
	cfg := config.Load()
	observability.InitLogger(cfg.LogLevel, cfg.LogFormat)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	db, err := config.NewPostgresConnection(ctx, cfg.DatabaseURL)
	if err != nil {
		fatal("failed to connect to database", err)
	}
	defer db.Close()

	if err := postgres.Migrate(ctx, postgres.NewTxManager(db)); err != nil {
		fatal("failed to migrate database", err)
	}

	userRepo, err := postgres.NewUserRepository(db)
	if err != nil {
		fatal("failed to prepare user repository", err)
	}

	mdb, err := config.NewMongoDatabase(ctx, cfg.MongoURL, cfg.MongoDatabase)
	if err != nil {
		fatal("failed to connect to mongo", err)
	}
	defer mdb.Client().Disconnect(context.Background())

	seeder := seed.NewSeeder(mongodb.NewListingRepository(mdb), service.NewAuthService(userRepo))
	n, err := seeder.Run(ctx, cfg.SeedOwnerUsername, cfg.SeedOwnerPassword)
	if err != nil {
		fatal("seeding failed", err)
	}

	slog.Info("data inserted successfully", slog.Int("listings", n))
}

func fatal(msg string, err error) {
	slog.Error(msg, slog.String("error", err.Error()))
	os.Exit(1)
}
