package kmeans

import (
	"errors"
	"fmt"
)

// Unassigned is the label of a point before the first assignment.
const Unassigned = -1

var (
	// ErrInvalidDimension is returned when the dimension is not positive.
	ErrInvalidDimension = errors.New("kmeans: dimension must be positive")

	// ErrEmptyDataset is returned when a dataset has no points.
	ErrEmptyDataset = errors.New("kmeans: dataset is empty")
)

// ErrDimensionMismatch indicates a point whose coordinate count differs
// from the dataset dimension.
type ErrDimensionMismatch struct {
	Index    int
	Expected int
	Actual   int
}

func (e *ErrDimensionMismatch) Error() string {
	return fmt.Sprintf("kmeans: point %d: dimension mismatch: expected %d, got %d", e.Index, e.Expected, e.Actual)
}

// Dataset is a fixed set of points stored contiguously by (point, dimension).
// Coordinates never change after construction; only labels do.
type Dataset struct {
	n      int
	dim    int
	coords []float64
	labels []int
}

// NewDataset copies rows into a new Dataset. Every row must have dim coordinates.
func NewDataset(rows [][]float64, dim int) (*Dataset, error) {
	if dim <= 0 {
		return nil, ErrInvalidDimension
	}
	if len(rows) == 0 {
		return nil, ErrEmptyDataset
	}

	coords := make([]float64, len(rows)*dim)
	for i, row := range rows {
		if len(row) != dim {
			return nil, &ErrDimensionMismatch{Index: i, Expected: dim, Actual: len(row)}
		}
		copy(coords[i*dim:(i+1)*dim], row)
	}

	return newDataset(coords, dim), nil
}

func newDataset(coords []float64, dim int) *Dataset {
	n := len(coords) / dim
	labels := make([]int, n)
	for i := range labels {
		labels[i] = Unassigned
	}
	return &Dataset{
		n:      n,
		dim:    dim,
		coords: coords,
		labels: labels,
	}
}

// Len returns the number of points.
func (d *Dataset) Len() int { return d.n }

// Dim returns the number of coordinates per point.
func (d *Dataset) Dim() int { return d.dim }

// Point returns the coordinates of point i. The slice aliases the dataset
// buffer and must not be modified.
func (d *Dataset) Point(i int) []float64 {
	off := i * d.dim
	return d.coords[off : off+d.dim : off+d.dim]
}

// Labels returns a copy of all labels.
func (d *Dataset) Labels() []int {
	out := make([]int, d.n)
	copy(out, d.labels)
	return out
}

// Rows returns a copy of the coordinates as one row per point.
// All rows share a single backing array.
func (d *Dataset) Rows() [][]float64 {
	return rows(d.coords, d.n, d.dim)
}

func rows(coords []float64, n, dim int) [][]float64 {
	data := make([]float64, n*dim)
	copy(data, coords)

	out := make([][]float64, n)
	for i := range out {
		out[i] = data[i*dim : (i+1)*dim : (i+1)*dim]
	}
	return out
}
