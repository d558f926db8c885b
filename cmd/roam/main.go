// Package main is the Roam vacation creation CLI. It runs the full photo
// pipeline against a Roam backend: load the photo files given on the command
// line, upload them, request an AI itinerary, and print the reconciled
// vacation. With DATABASE_URL set the result is also persisted locally.
package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib" // registers "pgx" driver for database/sql
	"github.com/joho/godotenv"
	"github.com/pressly/goose/v3"

	"github.com/ekaravadi/roam/client/internal/api"
	"github.com/ekaravadi/roam/client/internal/config"
	"github.com/ekaravadi/roam/client/internal/domain"
	"github.com/ekaravadi/roam/client/internal/media"
	"github.com/ekaravadi/roam/client/internal/pipeline"
	"github.com/ekaravadi/roam/client/internal/store"
	"github.com/ekaravadi/roam/client/migrations"
)

func main() {
	title := flag.String("title", "", "vacation title (required)")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(),
			"Usage: %s -title <title> <photo.jpg> [photo.jpg ...]\n\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	// --- Config -----------------------------------------------------------
	// .env is a development convenience; a missing file is not an error.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Error("failed to load .env", "error", err)
		os.Exit(1)
	}
	cfg, err := config.Load()
	if err != nil {
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}

	if *title == "" || flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	// --- Logger -----------------------------------------------------------
	var logLevel slog.Level
	if err := logLevel.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		logLevel = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	// --- Optional local store ---------------------------------------------
	// The store is opt-in: without DATABASE_URL the vacation is printed but
	// not persisted.
	var saver pipeline.Saver
	if cfg.DatabaseURL != "" {
		if err := migrate(cfg.DatabaseURL); err != nil {
			slog.Error("failed to run migrations", "error", err)
			os.Exit(1)
		}
		pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
		if err != nil {
			slog.Error("failed to create database pool", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
		if err := pool.Ping(context.Background()); err != nil {
			slog.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		saver = store.NewVacationStore(pool)
		slog.Info("local vacation store enabled")
	}

	// --- Pipeline ---------------------------------------------------------
	client := api.FromConfig(cfg, logger)
	loader := media.NewLoader(logger)
	runner := pipeline.NewRunner(loader, client, client, saver, func(p float64) {
		fmt.Fprintf(os.Stderr, "\rprogress: %3.0f%%", p*100)
	}, logger)

	// Ctrl-C cancels the run between stages; in-flight HTTP requests are
	// aborted through the request context.
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	vacation, err := runner.Run(ctx, *title, flag.Args())
	fmt.Fprintln(os.Stderr)
	if err != nil {
		slog.Error("vacation creation failed", "error", err)
		os.Exit(1)
	}

	printVacation(vacation)
}

// migrate brings the local schema up to date. goose needs database/sql, so a
// separate short-lived connection is used rather than the pgx pool.
func migrate(dsn string) error {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return fmt.Errorf("open: %w", err)
	}
	defer db.Close()

	provider, err := goose.NewProvider(goose.DialectPostgres, db, migrations.FS)
	if err != nil {
		return fmt.Errorf("create goose provider: %w", err)
	}
	if _, err := provider.Up(context.Background()); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}
	return nil
}

// printVacation writes a human-readable summary of the created vacation to
// stdout. Absent dates render as "(no date)" at presentation time only; the
// underlying values stay nil.
func printVacation(v domain.Vacation) {
	fmt.Printf("Vacation %s\n", v.ID)
	fmt.Printf("  Title: %s\n", v.Title)
	fmt.Printf("  Dates: %s to %s\n", formatDate(v.StartDate), formatDate(v.EndDate))
	if v.Owner != nil {
		fmt.Printf("  Owner: %s\n", v.Owner.Name)
	}
	if v.AIItinerary != "" {
		fmt.Printf("  Itinerary: %s\n", v.AIItinerary)
	}
	for _, loc := range v.Locations {
		fmt.Printf("  Location %q at (%.4f, %.4f), visited %s, %d photos\n",
			loc.Name, loc.Coordinate.Latitude, loc.Coordinate.Longitude,
			formatDate(loc.VisitDate), len(loc.Photos))
		for _, act := range loc.Activities {
			fmt.Printf("    - %s: %s\n", act.Title, act.Description)
		}
	}
}

func formatDate(t *time.Time) string {
	if t == nil {
		return "(no date)"
	}
	return t.Format("2006-01-02")
}
