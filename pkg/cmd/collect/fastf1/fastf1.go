package fastf1

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/racelytics/competitiveness-analyzer-go/log"
	"github.com/racelytics/competitiveness-analyzer-go/pkg/adapter/fastf1"
	"github.com/racelytics/competitiveness-analyzer-go/pkg/catalog"
	"github.com/racelytics/competitiveness-analyzer-go/pkg/config"
	"github.com/racelytics/competitiveness-analyzer-go/pkg/export"
	"github.com/racelytics/competitiveness-analyzer-go/pkg/processing/aggregate"
	"github.com/racelytics/competitiveness-analyzer-go/pkg/processing/stats"
)

// NewFastF1Cmd creates the collector for the session-based open-wheel
// series.
func NewFastF1Cmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fastf1 outputFile",
		Short: "collects archived open-wheel sessions and computes the statistics bundle",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runCollect(ctx, args[0])
		},
	}
	cmd.Flags().StringVar(&config.SessionDir,
		"sessions",
		"sessions",
		"directory containing archived session documents")
	cmd.Flags().StringVar(&config.CatalogFile,
		"catalog",
		"",
		"track catalog file (default: embedded catalog)")
	cmd.Flags().BoolVar(&config.IncludeAllTracks,
		"includeAllTracks",
		false,
		"add a synthetic entry pooling every configured race")
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

func runCollect(ctx context.Context, outputFile string) error {
	logger := setupLogger()
	log.ResetDefault(logger)

	cat, err := resolveCatalog()
	if err != nil {
		return err
	}
	plans := cat.Plans(config.IncludeAllTracks)

	grid, err := stats.NewTimeGrid(config.CalcFrequency)
	if err != nil {
		return err
	}
	engine, err := stats.NewEngine(grid, config.CalcInterval)
	if err != nil {
		return err
	}

	src := fastf1.New(fastf1.NewArchiveLoader(config.SessionDir))
	agg := aggregate.NewAggregator(src, engine,
		aggregate.WithWorkers(config.StatsWorkers),
		aggregate.WithLogger(logger.Named("aggregate")))

	log.Info("collecting races",
		log.String("series", src.Series()),
		log.Int("tracks", len(plans)))
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

func resolveCatalog() (*catalog.Catalog, error) {
	if config.CatalogFile == "" {
		return catalog.Default(), nil
	}
	return catalog.Load(config.CatalogFile)
}
