package nascar

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/racelytics/competitiveness-analyzer-go/log"
	"github.com/racelytics/competitiveness-analyzer-go/pkg/adapter/nascar"
	"github.com/racelytics/competitiveness-analyzer-go/pkg/catalog"
	"github.com/racelytics/competitiveness-analyzer-go/pkg/config"
	"github.com/racelytics/competitiveness-analyzer-go/pkg/export"
	"github.com/racelytics/competitiveness-analyzer-go/pkg/model"
	"github.com/racelytics/competitiveness-analyzer-go/pkg/processing/aggregate"
	"github.com/racelytics/competitiveness-analyzer-go/pkg/processing/stats"
)

// NewNascarCmd creates the collector for the feed-based stock car series.
//
//nolint:funlen // by design
func NewNascarCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "nascar startYear endYear seriesId outputFile",
		Short: "collects stock car feed data and computes the statistics bundle",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runCollect(ctx, args)
		},
	}
	cmd.Flags().StringVar(&config.FeedBaseURL,
		"baseUrl",
		nascar.DefaultBaseURL,
		"base URL of the feed document cache")
	cmd.Flags().StringVar(&config.TrackTableFile,
		"trackTable",
		"",
		"track lookup table file (default: embedded table)")
	cmd.Flags().IntVar(&config.MaxRequests,
		"maxRequests",
		nascar.DefaultMaxAttempts,
		"max download attempts per document")
	cmd.Flags().StringVar(&config.RequestDelay,
		"requestDelay",
		"4s",
		"delay between download attempts")
	cmd.Flags().StringVar(&config.FetchPause,
		"fetchPause",
		"2s",
		"pause between successive feed requests")
	cmd.Flags().Float64Var(&config.CalcFrequency,
		"calcFrequency",
		0.01,
		"spacing of the evaluation grid over normalized race completion")
	cmd.Flags().Float64Var(&config.CalcInterval,
		"calcInterval",
		0.1,
		"width of the pooling window centered on each grid point")
	cmd.Flags().IntVar(&config.StatsWorkers,
		"statsWorkers",
		4,
		"max number of tracks evaluated concurrently")
	return cmd
}

func parseLogLevel(l string, defaultVal log.Level) log.Level {
	level, err := log.ParseLevel(l)
	if err != nil {
		return defaultVal
	}
	return level
}

func setupLogger() *log.Logger {
	if config.LogConfig != "" {
		cfg, err := log.LoadConfig(config.LogConfig)
		if err == nil {
			var logger *log.Logger
			if logger, err = log.NewFiltered(os.Stderr, cfg); err == nil {
				return logger
			}
		}
		log.Warn("could not use log config, falling back",
			log.String("file", config.LogConfig),
			log.ErrorField(err))
	}
	switch config.LogFormat {
	case "json":
		return log.New(
			os.Stderr,
			parseLogLevel(config.LogLevel, log.InfoLevel),
			log.WithCaller(true),
			log.AddCallerSkip(1))
	default:
		return log.DevLogger(
			os.Stderr,
			parseLogLevel(config.LogLevel, log.DebugLevel),
			log.WithCaller(true),
			log.AddCallerSkip(1))
	}
}

func parseDuration(v string, defaultVal time.Duration) time.Duration {
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultVal
	}
	return d
}

func runCollect(ctx context.Context, args []string) error {
	logger := setupLogger()
	log.ResetDefault(logger)

	startYear, endYear, seriesID, outputFile, err := parseArgs(args)
	if err != nil {
		return err
	}
	table, err := resolveTrackTable()
	if err != nil {
		return err
	}

	grid, err := stats.NewTimeGrid(config.CalcFrequency)
	if err != nil {
		return err
	}
	engine, err := stats.NewEngine(grid, config.CalcInterval)
	if err != nil {
		return err
	}

	client := nascar.NewClient(
		nascar.WithBaseURL(config.FeedBaseURL),
		nascar.WithMaxAttempts(config.MaxRequests),
		nascar.WithRetryDelay(parseDuration(config.RequestDelay, nascar.DefaultRetryDelay)),
		nascar.WithFetchPause(parseDuration(config.FetchPause, nascar.DefaultFetchPause)),
		nascar.WithClientLogger(logger.Named("nascar.client")))
	src := nascar.NewAdapter(client, table, seriesID,
		nascar.WithLogger(logger.Named("nascar")))

	log.Info("discovering races",
		log.String("series", src.Series()),
		log.Int("startYear", startYear),
		log.Int("endYear", endYear))
	plans, err := src.BuildPlans(ctx, startYear, endYear)
	if err != nil {
		return err
	}
	if len(plans) == 0 {
		return fmt.Errorf("%w: no races found between %d and %d",
			model.ErrDataConsistency, startYear, endYear)
	}

	agg := aggregate.NewAggregator(src, engine,
		aggregate.WithWorkers(config.StatsWorkers),
		aggregate.WithLogger(logger.Named("aggregate")))
	trackStats, err := agg.Run(ctx, plans)
	if err != nil {
		return err
	}

	bundle := export.NewBundle(src.Series(), grid, config.CalcInterval, trackStats)
	if err := export.Write(outputFile, bundle); err != nil {
		return err
	}
	log.Info("bundle written",
		log.String("file", outputFile),
		log.String("runId", bundle.RunID),
		log.Int("tracks", len(trackStats)))
	return nil
}

func parseArgs(args []string) (startYear, endYear, seriesID int, outputFile string, err error) {
	if startYear, err = strconv.Atoi(strings.TrimSpace(args[0])); err != nil {
		return 0, 0, 0, "", fmt.Errorf("%w: invalid start year %q", model.ErrConfiguration, args[0])
	}
	if endYear, err = strconv.Atoi(strings.TrimSpace(args[1])); err != nil {
		return 0, 0, 0, "", fmt.Errorf("%w: invalid end year %q", model.ErrConfiguration, args[1])
	}
	if seriesID, err = strconv.Atoi(strings.TrimSpace(args[2])); err != nil {
		return 0, 0, 0, "", fmt.Errorf("%w: invalid series id %q", model.ErrConfiguration, args[2])
	}
	outputFile = strings.TrimSpace(args[3])
	if outputFile == "" {
		return 0, 0, 0, "", fmt.Errorf("%w: empty output file name", model.ErrConfiguration)
	}
	return startYear, endYear, seriesID, outputFile, nil
}

func resolveTrackTable() (catalog.TrackTable, error) {
	if config.TrackTableFile == "" {
		return catalog.DefaultTrackTable(), nil
	}
	return catalog.LoadTrackTable(config.TrackTableFile)
}
