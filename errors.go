package lloyd

import (
	"errors"
	"fmt"

	"github.com/hupe1980/lloyd/distance"
	"github.com/hupe1980/lloyd/internal/kmeans"
	"github.com/hupe1980/lloyd/resource"
)

var (
	// ErrInvalidConfig is matched (errors.Is) by every *ConfigError.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrMemoryLimitExceeded is returned when the run's footprint does not fit
	// the resource controller's memory limit.
	ErrMemoryLimitExceeded = resource.ErrMemoryLimitExceeded
)

// ConfigError describes a rejected configuration value. It is returned before
// any computation starts.
type ConfigError struct {
	Field  string
	Value  any
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid configuration: %s=%v: %s", e.Field, e.Value, e.Reason)
}

func (e *ConfigError) Unwrap() error { return ErrInvalidConfig }

// ErrDimensionMismatch indicates a point whose coordinate count differs from
// the configured dimension.
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
type ErrDimensionMismatch struct {
	// Index is the offending point, or -1 when not tied to a dataset row.
	Index    int
	Expected int
	Actual   int
	cause    error
}

func (e *ErrDimensionMismatch) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("dimension mismatch: expected %d, got %d", e.Expected, e.Actual)
	}
	return fmt.Sprintf("dimension mismatch: point %d: expected %d, got %d", e.Index, e.Expected, e.Actual)
}

func (e *ErrDimensionMismatch) Unwrap() error { return e.cause }

func translateError(err error) error {
	if err == nil {
		return nil
	}

	var kdm *kmeans.ErrDimensionMismatch
	if errors.As(err, &kdm) {
		return &ErrDimensionMismatch{Index: kdm.Index, Expected: kdm.Expected, Actual: kdm.Actual, cause: err}
	}
	var ddm *distance.ErrDimensionMismatch
	if errors.As(err, &ddm) {
		return &ErrDimensionMismatch{Index: -1, Expected: ddm.Expected, Actual: ddm.Actual, cause: err}
	}
	if errors.Is(err, kmeans.ErrEmptyDataset) {
		return &ConfigError{Field: "num_points", Value: 0, Reason: "dataset is empty"}
	}
	if errors.Is(err, kmeans.ErrInvalidDimension) {
		return &ConfigError{Field: "num_dimensions", Value: 0, Reason: "must be positive"}
	}

	return err
}
