package lloyd

import (
	"fmt"

	"github.com/hupe1980/lloyd/distance"
)

// DefaultMaxIterations is used when Config.MaxIterations is zero.
const DefaultMaxIterations = 100

// Config describes one clustering run. It is immutable for the run.
type Config struct {
	// NumClusters is K, the number of centroids. 1 <= K <= NumPoints.
	NumClusters int `json:"num_clusters" yaml:"num_clusters"`

	// NumPoints is N, the number of points in the dataset.
	NumPoints int `json:"num_points" yaml:"num_points"`

	// NumDimensions is D, the number of coordinates of every point.
	NumDimensions int `json:"num_dimensions" yaml:"num_dimensions"`

	// MaxIterations is the exact number of assign/update rounds.
	// Zero selects DefaultMaxIterations.
	MaxIterations int `json:"max_iterations" yaml:"max_iterations"`

	// Metric names the distance used for seeding, assignment and inertia
	// (see distance.ParseMetric). Empty selects Euclidean.
	Metric string `json:"metric,omitempty" yaml:"metric"`
}

// Validate reports the first invalid field as a *ConfigError.
func (c Config) Validate() error {
	switch {
	case c.NumClusters <= 0:
		return &ConfigError{Field: "num_clusters", Value: c.NumClusters, Reason: "must be positive"}
	case c.NumPoints <= 0:
		return &ConfigError{Field: "num_points", Value: c.NumPoints, Reason: "must be positive"}
	case c.NumDimensions <= 0:
		return &ConfigError{Field: "num_dimensions", Value: c.NumDimensions, Reason: "must be positive"}
	case c.NumClusters > c.NumPoints:
		return &ConfigError{
			Field:  "num_clusters",
			Value:  c.NumClusters,
			Reason: fmt.Sprintf("must not exceed num_points (%d)", c.NumPoints),
		}
	case c.MaxIterations < 0:
		return &ConfigError{Field: "max_iterations", Value: c.MaxIterations, Reason: "must not be negative"}
	}
	if _, err := c.distance(); err != nil {
		return &ConfigError{Field: "metric", Value: c.Metric, Reason: err.Error()}
	}
	return nil
}

func (c Config) distance() (distance.Func, error) {
	m, err := distance.ParseMetric(c.Metric)
	if err != nil {
		return nil, err
	}
	return distance.Provider(m)
}

// Iterations returns the effective iteration count.
func (c Config) Iterations() int {
	if c.MaxIterations == 0 {
		return DefaultMaxIterations
	}
	return c.MaxIterations
}
