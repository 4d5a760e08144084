package datagen

import (
	"math/rand"
	"sync"
	"time"
)

// Default coordinate range of UniformIntPoints, inclusive.
const (
	DefaultLow  = 1
	DefaultHigh = 100
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// NewTimeSeeded creates an RNG seeded from the wall clock.
func NewTimeSeeded() *RNG {
	return NewRNG(time.Now().UnixNano())
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Float64 returns a pseudo-random number in [0.0,1.0).
func (r *RNG) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Float64()
}

// UniformIntPoints generates num points whose coordinates are integers drawn
// uniformly from [lo, hi]. Uses a single backing array for efficiency.
func (r *RNG) UniformIntPoints(num, dimensions, lo, hi int) [][]float64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	span := hi - lo + 1
	return r.fillLocked(num, dimensions, func() float64 {
		return float64(lo + r.rand.Intn(span))
	})
}

// UniformPoints generates num points with coordinates in [lo, hi).
func (r *RNG) UniformPoints(num, dimensions int, lo, hi float64) [][]float64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	span := hi - lo
	return r.fillLocked(num, dimensions, func() float64 {
		return lo + r.rand.Float64()*span
	})
}

// Blobs generates perCenter points around each center with Gaussian noise
// of the given standard deviation. Points are emitted center by center.
func (r *RNG) Blobs(centers [][]float64, perCenter int, stddev float64) [][]float64 {
	if len(centers) == 0 || perCenter <= 0 {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	dim := len(centers[0])
	num := len(centers) * perCenter
	data := make([]float64, num*dim)
	points := make([][]float64, num)

	for i := range num {
		center := centers[i/perCenter]
		p := data[i*dim : (i+1)*dim : (i+1)*dim]
		for j := range p {
			p[j] = center[j] + r.rand.NormFloat64()*stddev
		}
		points[i] = p
	}

	return points
}

// fillLocked allocates num points and fills every coordinate with next().
// Caller must hold the lock.
func (r *RNG) fillLocked(num, dimensions int, next func() float64) [][]float64 {
	data := make([]float64, num*dimensions)
	points := make([][]float64, num)

	for i := range num {
		p := data[i*dimensions : (i+1)*dimensions : (i+1)*dimensions]
		for j := range p {
			p[j] = next()
		}
		points[i] = p
	}

	return points
}

// Source returns a *rand.Rand seeded from this RNG, for consumers that need
// their own generator (e.g. the clusterer's seeding step).
func (r *RNG) Source() *rand.Rand {
	r.mu.Lock()
	defer r.mu.Unlock()
	return rand.New(rand.NewSource(r.rand.Int63()))
}
