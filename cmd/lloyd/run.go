package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/hupe1980/lloyd"
	"github.com/hupe1980/lloyd/compress"
	"github.com/hupe1980/lloyd/config"
	"github.com/hupe1980/lloyd/datagen"
	"github.com/hupe1980/lloyd/results"
)

func bindRun(fs *flag.FlagSet, cfg *config.Config) func(string) {
	var seed int64
	bindCommon(fs, cfg)
	fs.IntVar(&cfg.Run.NumClusters, "k", cfg.Run.NumClusters, "Number of clusters")
	fs.IntVar(&cfg.Run.NumPoints, "n", cfg.Run.NumPoints, "Number of points")
	fs.IntVar(&cfg.Run.NumDimensions, "d", cfg.Run.NumDimensions, "Number of dimensions")
	fs.IntVar(&cfg.Run.MaxIterations, "max-iter", cfg.Run.MaxIterations, "Assign/update rounds")
	fs.StringVar(&cfg.Run.Metric, "metric", cfg.Run.Metric, "Distance metric (default: euclidean)")
	fs.Int64Var(&seed, "seed", 0, "Random seed (default: time-based)")
	fs.IntVar(&cfg.Workers, "workers", cfg.Workers, "Goroutines for assignment and update")
	fs.BoolVar(&cfg.EarlyStop, "early-stop", cfg.EarlyStop, "Stop once no label changes")
	fs.IntVar(&cfg.Data.Low, "low", cfg.Data.Low, "Smallest generated coordinate")
	fs.IntVar(&cfg.Data.High, "high", cfg.Data.High, "Largest generated coordinate")
	fs.StringVar(&cfg.Output.SQLite, "sqlite", cfg.Output.SQLite, "Also store the run in this SQLite database")
	fs.BoolVar(&cfg.Output.Quiet, "quiet", cfg.Output.Quiet, "Print a summary instead of every assignment")
	fs.Int64Var(&cfg.Resources.IOLimitBytesPerSec, "io-limit", cfg.Resources.IOLimitBytesPerSec, "Result write throughput in bytes/sec (0 = unlimited)")

	return func(name string) {
		if name == "seed" {
			cfg.Seed = &seed
		}
	}
}

func handleRun(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	cfg, err := loadConfig(fs, args, stderr, bindRun)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := cfg.Log.Logger(stderr)
	if err != nil {
		return err
	}

	rng := datagen.NewTimeSeeded()
	if cfg.Seed != nil {
		rng = datagen.NewRNG(*cfg.Seed)
	}
	points := rng.UniformIntPoints(cfg.Run.NumPoints, cfg.Run.NumDimensions, cfg.Data.Low, cfg.Data.High)

	runID := results.NewRunID()
	rc := cfg.Resources.Controller()
	metrics := &lloyd.BasicMetricsCollector{}

	c, err := lloyd.New(cfg.Run,
		lloyd.WithLogger(logger.WithRunID(runID)),
		lloyd.WithMetricsCollector(metrics),
		lloyd.WithRand(rng.Source()),
		lloyd.WithWorkers(cfg.Workers),
		lloyd.WithEarlyStop(cfg.EarlyStop),
		lloyd.WithResourceController(rc),
	)
	if err != nil {
		return err
	}

	start := time.Now()
	res, err := c.Fit(ctx, points)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	if cfg.Output.Quiet {
		if err := results.Summary(stdout, res); err != nil {
			return err
		}
	} else {
		if err := results.Report(stdout, res, elapsed, res.Memory.WithPeakRSS()); err != nil {
			return err
		}
	}

	store, err := openStore(ctx, cfg.Output)
	if err != nil {
		return err
	}
	if store != nil {
		cd, err := cfg.Output.CodecFor()
		if err != nil {
			return err
		}
		comp, err := compress.ParseType(cfg.Output.Compression)
		if err != nil {
			return err
		}
		w := results.NewWriter(store, results.WithCodec(cd), results.WithCompression(comp), results.WithIOLimit(rc))
		m, err := w.Save(ctx, runID, res)
		if err != nil {
			return err
		}
		logger.InfoContext(ctx, "results saved", "run_id", m.RunID, "files", len(m.Files), "store", cfg.Output.Store)
	}

	if cfg.Output.SQLite != "" {
		sink, err := results.OpenSQLite(cfg.Output.SQLite)
		if err != nil {
			return err
		}
		err = sink.Save(ctx, runID, res)
		if cerr := sink.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return fmt.Errorf("sqlite: %w", err)
		}
	}

	stats := metrics.GetStats()
	logger.DebugContext(ctx, "run statistics",
		"label_changes", stats.LabelChanges,
		"empty_clusters", stats.EmptyClusters,
		"iteration_avg_ns", stats.IterationAvgNanos,
	)
	return nil
}
