package main

import (
	"context"
	"flag"
	"io"

	"github.com/hupe1980/lloyd/compress"
	"github.com/hupe1980/lloyd/config"
	lloydprom "github.com/hupe1980/lloyd/metrics/prometheus"
	"github.com/hupe1980/lloyd/results"
	"github.com/hupe1980/lloyd/server"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func bindServe(fs *flag.FlagSet, cfg *config.Config) func(string) {
	bindCommon(fs, cfg)
	fs.StringVar(&cfg.Server.Addr, "addr", cfg.Server.Addr, "Listen address")
	return func(string) {}
}

func handleServe(ctx context.Context, args []string, stderr io.Writer) error {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	cfg, err := loadConfig(fs, args, stderr, bindServe)
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

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	opts := server.Options{
		Logger:    logger,
		Metrics:   lloydprom.NewCollector(reg, "lloyd"),
		Gatherer:  reg,
		Resources: cfg.Resources.Controller(),
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
		opts.Store = store
		opts.Writer = results.NewWriter(store, results.WithCodec(cd), results.WithCompression(comp), results.WithIOLimit(opts.Resources))
	}

	logger.InfoContext(ctx, "listening", "addr", cfg.Server.Addr, "store", cfg.Output.Store)
	return server.New(opts).ListenAndServe(ctx, cfg.Server.Addr)
}
