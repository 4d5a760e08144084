// Package config loads application settings for the lloyd command.
//
// Sources, lowest priority first:
//  1. Default()
//  2. a YAML file (LoadFile)
//  3. a .env file found in the working directory or any parent (LoadEnv)
//  4. LLOYD_* environment variables (ApplyEnv)
//
// Command-line flags are applied by the caller on top.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/hupe1980/lloyd"
	"github.com/hupe1980/lloyd/codec"
	"github.com/hupe1980/lloyd/compress"
	"github.com/hupe1980/lloyd/datagen"
	"github.com/hupe1980/lloyd/resource"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the full application configuration.
type Config struct {
	Run       lloyd.Config   `yaml:"run"`
	Seed      *int64         `yaml:"seed"`
	Workers   int            `yaml:"workers"`
	EarlyStop bool           `yaml:"early_stop"`
	Data      DataConfig     `yaml:"data"`
	Output    OutputConfig   `yaml:"output"`
	Resources ResourceConfig `yaml:"resources"`
	Log       LogConfig      `yaml:"log"`
	Server    ServerConfig   `yaml:"server"`
}

// DataConfig bounds the generated integer coordinates.
type DataConfig struct {
	Low  int `yaml:"low"`
	High int `yaml:"high"`
}

// OutputConfig selects where results go.
type OutputConfig struct {
	// Store is one of "none", "local", "s3" or "minio".
	Store       string `yaml:"store"`
	Dir         string `yaml:"dir"`
	Bucket      string `yaml:"bucket"`
	Prefix      string `yaml:"prefix"`
	Region      string `yaml:"region"`
	Codec       string `yaml:"codec"`
	Compression string `yaml:"compression"`
	SQLite      string `yaml:"sqlite"`
	Quiet       bool   `yaml:"quiet"`

	MinIO MinIOConfig `yaml:"minio"`
}

// MinIOConfig holds MinIO connection settings.
type MinIOConfig struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	UseSSL    bool   `yaml:"use_ssl"`
}

// ResourceConfig mirrors resource.Config.
type ResourceConfig struct {
	MemoryLimitBytes   int64 `yaml:"memory_limit_bytes"`
	MaxWorkers         int64 `yaml:"max_workers"`
	IOLimitBytesPerSec int64 `yaml:"io_limit_bytes_per_sec"`
}

// LogConfig selects the log handler.
type LogConfig struct {
	// Format is "text" or "json".
	Format string `yaml:"format"`
	// Level is a slog level name ("debug", "info", "warn", "error").
	Level string `yaml:"level"`
}

// ServerConfig configures `lloyd serve`.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Run: lloyd.Config{
			NumClusters:   3,
			NumPoints:     1000,
			NumDimensions: 2,
			MaxIterations: lloyd.DefaultMaxIterations,
		},
		Workers: 1,
		Data: DataConfig{
			Low:  datagen.DefaultLow,
			High: datagen.DefaultHigh,
		},
		Output: OutputConfig{
			Store:       "local",
			Dir:         ".",
			Codec:       codec.Default.Name(),
			Compression: compress.None.String(),
		},
		Log: LogConfig{
			Format: "text",
			Level:  "info",
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
	}
}

// LoadFile merges the YAML file at path into cfg. Fields missing from the
// file keep their current values.
func LoadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

// LoadEnv loads environment variables from a .env file, searching up the
// directory tree from the working directory. A missing file is not an error.
func LoadEnv() error {
	dir, err := os.Getwd()
	if err != nil {
		return err
	}
	return loadEnvFrom(dir)
}

func loadEnvFrom(dir string) error {
	for {
		envPath := filepath.Join(dir, ".env")
		if _, err := os.Stat(envPath); err == nil {
			return godotenv.Load(envPath)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return nil
		}
		dir = parent
	}
}

// ApplyEnv overrides cfg with LLOYD_* variables read through getenv.
func ApplyEnv(cfg *Config, getenv func(string) string) error {
	ints := []struct {
		key string
		dst *int
	}{
		{"LLOYD_K", &cfg.Run.NumClusters},
		{"LLOYD_N", &cfg.Run.NumPoints},
		{"LLOYD_D", &cfg.Run.NumDimensions},
		{"LLOYD_MAX_ITER", &cfg.Run.MaxIterations},
		{"LLOYD_WORKERS", &cfg.Workers},
		{"LLOYD_DATA_LOW", &cfg.Data.Low},
		{"LLOYD_DATA_HIGH", &cfg.Data.High},
	}
	for _, v := range ints {
		if s := getenv(v.key); s != "" {
			n, err := strconv.Atoi(s)
			if err != nil {
				return fmt.Errorf("%s: %w", v.key, err)
			}
			*v.dst = n
		}
	}

	int64s := []struct {
		key string
		dst *int64
	}{
		{"LLOYD_MEMORY_LIMIT", &cfg.Resources.MemoryLimitBytes},
		{"LLOYD_MAX_WORKERS", &cfg.Resources.MaxWorkers},
		{"LLOYD_IO_LIMIT", &cfg.Resources.IOLimitBytesPerSec},
	}
	for _, v := range int64s {
		if s := getenv(v.key); s != "" {
			n, err := strconv.ParseInt(s, 10, 64)
			if err != nil {
				return fmt.Errorf("%s: %w", v.key, err)
			}
			*v.dst = n
		}
	}

	if s := getenv("LLOYD_SEED"); s != "" {
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return fmt.Errorf("LLOYD_SEED: %w", err)
		}
		cfg.Seed = &n
	}

	bools := []struct {
		key string
		dst *bool
	}{
		{"LLOYD_EARLY_STOP", &cfg.EarlyStop},
		{"LLOYD_QUIET", &cfg.Output.Quiet},
		{"LLOYD_MINIO_USE_SSL", &cfg.Output.MinIO.UseSSL},
	}
	for _, v := range bools {
		if s := getenv(v.key); s != "" {
			b, err := strconv.ParseBool(s)
			if err != nil {
				return fmt.Errorf("%s: %w", v.key, err)
			}
			*v.dst = b
		}
	}

	strs := []struct {
		key string
		dst *string
	}{
		{"LLOYD_METRIC", &cfg.Run.Metric},
		{"LLOYD_STORE", &cfg.Output.Store},
		{"LLOYD_OUT", &cfg.Output.Dir},
		{"LLOYD_BUCKET", &cfg.Output.Bucket},
		{"LLOYD_PREFIX", &cfg.Output.Prefix},
		{"LLOYD_REGION", &cfg.Output.Region},
		{"LLOYD_CODEC", &cfg.Output.Codec},
		{"LLOYD_COMPRESS", &cfg.Output.Compression},
		{"LLOYD_SQLITE", &cfg.Output.SQLite},
		{"LLOYD_MINIO_ENDPOINT", &cfg.Output.MinIO.Endpoint},
		{"LLOYD_MINIO_ACCESS_KEY", &cfg.Output.MinIO.AccessKey},
		{"LLOYD_MINIO_SECRET_KEY", &cfg.Output.MinIO.SecretKey},
		{"LLOYD_LOG_FORMAT", &cfg.Log.Format},
		{"LLOYD_LOG_LEVEL", &cfg.Log.Level},
		{"LLOYD_ADDR", &cfg.Server.Addr},
	}
	for _, v := range strs {
		if s := getenv(v.key); s != "" {
			*v.dst = s
		}
	}
	return nil
}

// Load builds the configuration from defaults, the optional YAML file at
// path, a discovered .env file and the process environment.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		if err := LoadFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}
	if err := LoadEnv(); err != nil {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	if err := ApplyEnv(&cfg, os.Getenv); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks every section. Run errors are *lloyd.ConfigError values.
func (c Config) Validate() error {
	var errs []error

	if err := c.Run.Validate(); err != nil {
		errs = append(errs, err)
	}
	if c.Data.Low > c.Data.High {
		errs = append(errs, fmt.Errorf("data: low %d exceeds high %d", c.Data.Low, c.Data.High))
	}

	switch c.Output.Store {
	case "none", "local":
	case "s3", "minio":
		if c.Output.Bucket == "" {
			errs = append(errs, fmt.Errorf("output: store %q requires a bucket", c.Output.Store))
		}
		if c.Output.Store == "minio" && c.Output.MinIO.Endpoint == "" {
			errs = append(errs, errors.New("output: store \"minio\" requires an endpoint"))
		}
	default:
		errs = append(errs, fmt.Errorf("output: unknown store %q", c.Output.Store))
	}
	if _, ok := codec.ByName(c.Output.Codec); !ok {
		errs = append(errs, fmt.Errorf("output: unknown codec %q (want one of %s)", c.Output.Codec, strings.Join(codec.Names(), ", ")))
	}
	if _, err := compress.ParseType(c.Output.Compression); err != nil {
		errs = append(errs, fmt.Errorf("output: %w", err))
	}

	if _, err := c.Log.level(); err != nil {
		errs = append(errs, err)
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		errs = append(errs, fmt.Errorf("log: unknown format %q", c.Log.Format))
	}

	return errors.Join(errs...)
}

func (c LogConfig) level() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.Level)); err != nil {
		return 0, fmt.Errorf("log: %w", err)
	}
	return lvl, nil
}

// Logger builds a lloyd.Logger writing to w.
func (c LogConfig) Logger(w io.Writer) (*lloyd.Logger, error) {
	lvl, err := c.level()
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: lvl}
	if c.Format == "json" {
		return lloyd.NewLogger(slog.NewJSONHandler(w, opts)), nil
	}
	return lloyd.NewLogger(slog.NewTextHandler(w, opts)), nil
}

// Controller builds the resource controller.
func (c ResourceConfig) Controller() *resource.Controller {
	return resource.NewController(resource.Config{
		MemoryLimitBytes:   c.MemoryLimitBytes,
		MaxWorkers:         c.MaxWorkers,
		IOLimitBytesPerSec: c.IOLimitBytesPerSec,
	})
}

// CodecFor returns the configured codec.
func (c OutputConfig) CodecFor() (codec.Codec, error) {
	cd, ok := codec.ByName(c.Codec)
	if !ok {
		return nil, fmt.Errorf("unknown codec %q", c.Codec)
	}
	return cd, nil
}
