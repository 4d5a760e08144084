package main

import (
	"flag"
	"io"

	"github.com/hupe1980/lloyd/config"
)

// loadConfig parses args into fs, loads the config file named by -config and
// applies every flag the user set on top.
func loadConfig(fs *flag.FlagSet, args []string, stderr io.Writer, bind func(*flag.FlagSet, *config.Config) func(string)) (config.Config, error) {
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "YAML configuration file")

	// Flags are bound to a scratch copy so defaults shown in -h come from
	// config.Default(); only flags that were set are copied over.
	scratch := config.Default()
	apply := bind(fs, &scratch)

	if err := fs.Parse(args); err != nil {
		return config.Config{}, err
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return config.Config{}, err
	}

	fs.Visit(func(f *flag.Flag) {
		if f.Name == "config" {
			return
		}
		apply(f.Name)
		copyFlag(f.Name, &scratch, &cfg)
	})
	return cfg, nil
}

func copyFlag(name string, from, to *config.Config) {
	switch name {
	case "k":
		to.Run.NumClusters = from.Run.NumClusters
	case "n":
		to.Run.NumPoints = from.Run.NumPoints
	case "d":
		to.Run.NumDimensions = from.Run.NumDimensions
	case "max-iter":
		to.Run.MaxIterations = from.Run.MaxIterations
	case "metric":
		to.Run.Metric = from.Run.Metric
	case "seed":
		to.Seed = from.Seed
	case "workers":
		to.Workers = from.Workers
	case "early-stop":
		to.EarlyStop = from.EarlyStop
	case "low":
		to.Data.Low = from.Data.Low
	case "high":
		to.Data.High = from.Data.High
	case "out":
		to.Output.Dir = from.Output.Dir
	case "store":
		to.Output.Store = from.Output.Store
	case "bucket":
		to.Output.Bucket = from.Output.Bucket
	case "prefix":
		to.Output.Prefix = from.Output.Prefix
	case "region":
		to.Output.Region = from.Output.Region
	case "codec":
		to.Output.Codec = from.Output.Codec
	case "compress":
		to.Output.Compression = from.Output.Compression
	case "sqlite":
		to.Output.SQLite = from.Output.SQLite
	case "quiet":
		to.Output.Quiet = from.Output.Quiet
	case "minio-endpoint":
		to.Output.MinIO.Endpoint = from.Output.MinIO.Endpoint
	case "memory-limit":
		to.Resources.MemoryLimitBytes = from.Resources.MemoryLimitBytes
	case "io-limit":
		to.Resources.IOLimitBytesPerSec = from.Resources.IOLimitBytesPerSec
	case "log-format":
		to.Log.Format = from.Log.Format
	case "log-level":
		to.Log.Level = from.Log.Level
	case "addr":
		to.Server.Addr = from.Server.Addr
	}
}

func bindCommon(fs *flag.FlagSet, cfg *config.Config) {
	fs.StringVar(&cfg.Log.Format, "log-format", cfg.Log.Format, "Log format: text or json")
	fs.StringVar(&cfg.Log.Level, "log-level", cfg.Log.Level, "Log level: debug, info, warn, error")
	fs.Int64Var(&cfg.Resources.MemoryLimitBytes, "memory-limit", cfg.Resources.MemoryLimitBytes, "Memory limit per process in bytes (0 = unlimited)")
	fs.StringVar(&cfg.Output.Store, "store", cfg.Output.Store, "Result store: none, local, s3 or minio")
	fs.StringVar(&cfg.Output.Dir, "out", cfg.Output.Dir, "Output directory for the local store")
	fs.StringVar(&cfg.Output.Bucket, "bucket", cfg.Output.Bucket, "Bucket for s3/minio stores")
	fs.StringVar(&cfg.Output.Prefix, "prefix", cfg.Output.Prefix, "Key prefix inside the bucket")
	fs.StringVar(&cfg.Output.Region, "region", cfg.Output.Region, "AWS region for the s3 store")
	fs.StringVar(&cfg.Output.MinIO.Endpoint, "minio-endpoint", cfg.Output.MinIO.Endpoint, "MinIO endpoint (host:port)")
	fs.StringVar(&cfg.Output.Codec, "codec", cfg.Output.Codec, "Result codec: json or go-json")
	fs.StringVar(&cfg.Output.Compression, "compress", cfg.Output.Compression, "Compression: none, lz4 or zstd")
}
