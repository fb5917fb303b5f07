// Command ingest runs one ingestion pass for a named task and exits. The
// periodic schedule belongs to an external runner (cron, systemd timers).
//
// Usage:
//
//	ingest <task>
//
// Tasks: arso-stations, arso-weather, dwd-stations, dwd-mosmix, dwd-current,
// alert-areas. The dwd-current task reads an observation snapshot from stdin.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/ntadej/Vremenar-API/internal/config"
	"github.com/ntadej/Vremenar-API/internal/domain"
	"github.com/ntadej/Vremenar-API/internal/observability"
	"github.com/ntadej/Vremenar-API/internal/source"
	"github.com/ntadej/Vremenar-API/internal/source/arso"
	"github.com/ntadej/Vremenar-API/internal/source/dwd"
	"github.com/ntadej/Vremenar-API/internal/store"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: ingest <task>")
		os.Exit(2)
	}
	task := os.Args[1]

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := store.New(ctx, cfg.RedisAddr, cfg.RedisDB, cfg.BatchSize, logger)
	if err != nil {
		logger.Error("failed to connect to the store", "error", err)
		os.Exit(1)
	}
	defer func() { _ = st.Close() }()
	st = st.WithMetrics(metrics)

	directory := store.NewDirectory(st)
	arsoSource := arso.New(st, directory,
		source.NewFetcher("arso", cfg.FetchTimeout, metrics), logger, metrics, cfg.DataDir, cfg.GeoRadiusKm)
	dwdSource := dwd.New(st, directory,
		source.NewFetcher("dwd", cfg.FetchTimeout, metrics), logger, metrics, cfg.DataDir, cfg.GeoRadiusKm)

	metrics.IngestRunning.Inc()
	defer metrics.IngestRunning.Dec()

	count, err := runTask(ctx, task, cfg, st, arsoSource, dwdSource)
	if err != nil {
		logger.Error("ingestion failed", "task", task, "records", count, "error", err)
		os.Exit(1)
	}
	logger.Info("ingestion finished", "task", task, "records", count)
}

func runTask(ctx context.Context, task string, cfg *config.Config, st *store.Store, arsoSource *arso.Source, dwdSource *dwd.Source) (int, error) {
	switch task {
	case "arso-stations":
		return arsoSource.IngestStations(ctx)
	case "arso-weather":
		return arsoSource.IngestWeather(ctx)
	case "dwd-stations":
		return dwdSource.IngestStations(ctx)
	case "dwd-mosmix":
		return dwdSource.IngestForecasts(ctx, "")
	// The current-observations snapshot is assembled by an external collector
	// and piped in.
	case "dwd-current":
		return dwdSource.IngestCurrent(ctx, os.Stdin)
	case "alert-areas":
		total := 0
		for _, country := range []domain.Country{domain.CountrySlovenia, domain.CountryGermany} {
			count, err := source.IngestAlertAreas(ctx, st, cfg.DataDir, country)
			total += count
			if err != nil {
				return total, err
			}
		}
		return total, nil
	default:
		return 0, fmt.Errorf("unknown task %q", task)
	}
}
