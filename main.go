package main

import (
	"context"
	"flag"
	"os"
	"time"

	"showdown_stats/internal/app"
	"showdown_stats/internal/config"
	"showdown_stats/internal/deployment"
	"showdown_stats/internal/export"
	"showdown_stats/internal/processing"
	"showdown_stats/internal/sheets"
	"showdown_stats/internal/showdown"
	"showdown_stats/internal/store"

	"github.com/rs/zerolog/log"
)

func main() {
	app.SetupEnvironment()

	// Parse command line flags
	now := time.Now().UTC()
	format := flag.String("format", "", "Battle format to collect (default gen3ou, or SHOWDOWN_FORMAT)")
	startDate := flag.String("start", now.AddDate(0, 0, -7).Format("2006-01-02"), "Start of date range (YYYY-MM-DD, UTC)")
	endDate := flag.String("end", now.AddDate(0, 0, 1).Format("2006-01-02"), "End of date range (YYYY-MM-DD, UTC, exclusive)")
	workers := flag.Int("workers", 4, "Concurrent replay downloads per search page")
	pageDelay := flag.Duration("page-delay", config.SearchPageDelay, "Delay between search page requests (e.g., 1s)")
	fresh := flag.Bool("fresh", false, "Truncate CSV output before processing")
	deployTarget := flag.String("deploy", "", "Publish CSV output to user@host:path via SCP after processing")
	flag.Parse()

	cfg, err := app.LoadConfig(*format, *startDate, *endDate)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	cfg.Workers = *workers
	cfg.RequestDelay = *pageDelay

	log.Info().
		Str("format", cfg.Format).
		Time("start", cfg.StartDate).
		Time("end", cfg.EndDate).
		Int("workers", cfg.Workers).
		Msg("Starting Showdown stats collection")

	ctx := context.Background()

	client := showdown.NewClient()

	replayStore, err := store.NewReplayStore(cfg.CacheDBPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.CacheDBPath).Msg("Failed to open replay cache")
	}
	defer replayStore.Close()

	exporter := export.NewCSVExporter(cfg.OutputFile)
	if *fresh {
		if err := exporter.Truncate(); err != nil {
			log.Fatal().Err(err).Msg("Failed to truncate CSV output")
		}
	}
	writers := []processing.RecordWriterInterface{exporter}

	// Sheets export is optional: only wired when a spreadsheet is configured
	if cfg.SpreadsheetID != "" {
		sheetsClient, err := sheets.NewClient(ctx, cfg.CredentialsFile)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create sheets client")
		}
		manager := sheets.NewMatchSheetsManager(sheetsClient, cfg.SpreadsheetID)
		if err := manager.EnsureSheets(ctx); err != nil {
			log.Fatal().Err(err).Msg("Failed to prepare spreadsheet tabs")
		}
		writers = append(writers, manager)
	}

	processor := processing.NewReplayProcessor(client, replayStore, writers, cfg)

	client.ResetAPICallCount()
	summary, err := processor.ProcessDateRange(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Failed to process replay date range")
		os.Exit(1)
	}

	log.Info().
		Int("pages", summary.Pages).
		Int("replays", summary.Replays).
		Int("interpreted", summary.Interpreted).
		Int("cache_hits", summary.CacheHits).
		Int("failures", summary.Failures).
		Int64("api_calls", client.GetAPICallCount()).
		Msg("Collection run complete")

	if *deployTarget != "" {
		publisher := deployment.NewSSHPublisher(*deployTarget, os.Getenv("SSH_KEY_FILE"))
		defer publisher.Disconnect()
		if err := publisher.PublishExports(exporter.Paths()); err != nil {
			log.Fatal().Err(err).Msg("Failed to publish CSV output")
		}
	}
}
