package resource

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestController_Memory(t *testing.T) {
	c := NewController(Config{MemoryLimitBytes: 100})

	require.NoError(t, c.AcquireMemory(50))
	assert.Equal(t, int64(50), c.MemoryUsage())

	require.NoError(t, c.AcquireMemory(40))
	assert.Equal(t, int64(90), c.MemoryUsage())

	err := c.AcquireMemory(20)
	assert.ErrorIs(t, err, ErrMemoryLimitExceeded)
	assert.Equal(t, int64(90), c.MemoryUsage())

	c.ReleaseMemory(50)
	assert.Equal(t, int64(40), c.MemoryUsage())

	require.NoError(t, c.AcquireMemory(20))
	assert.Equal(t, int64(60), c.MemoryUsage())
	assert.Equal(t, int64(100), c.MemoryLimit())
}

func TestController_UnlimitedMemory(t *testing.T) {
	c := NewController(Config{MemoryLimitBytes: 0})

	require.NoError(t, c.AcquireMemory(1000))
	assert.Equal(t, int64(1000), c.MemoryUsage())

	c.ReleaseMemory(500)
	assert.Equal(t, int64(500), c.MemoryUsage())
}

func TestController_Nil(t *testing.T) {
	var c *Controller

	require.NoError(t, c.AcquireMemory(1<<40))
	c.ReleaseMemory(1 << 40)
	assert.Zero(t, c.MemoryUsage())
	assert.Zero(t, c.MemoryLimit())

	n, err := c.AcquireWorkers(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	c.ReleaseWorkers(n)

	require.NoError(t, c.AcquireIO(context.Background(), 1<<20))
}

func TestController_Workers(t *testing.T) {
	c := NewController(Config{MaxWorkers: 3})
	assert.Equal(t, 3, c.MaxWorkers())

	n, err := c.AcquireWorkers(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	// Only one slot left: granted partially.
	m, err := c.AcquireWorkers(context.Background(), 4)
	require.NoError(t, err)
	assert.Equal(t, 1, m)

	// None left: blocks until the context expires.
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err = c.AcquireWorkers(ctx, 1)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	c.ReleaseWorkers(n + m)
	k, err := c.AcquireWorkers(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, 1, k)
}

func TestController_IO(t *testing.T) {
	c := NewController(Config{IOLimitBytesPerSec: 1 << 20})

	var buf bytes.Buffer
	w := NewRateLimitedWriter(context.Background(), &buf, c)
	// Larger than the burst; must be split rather than rejected.
	payload := bytes.Repeat([]byte{'x'}, 1<<20+10)

	start := time.Now()
	n, err := w.Write(payload)
	require.NoError(t, err)
	assert.Equal(t, len(payload), n)
	assert.Equal(t, payload, buf.Bytes())
	assert.Less(t, time.Since(start), 2*time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = NewRateLimitedWriter(ctx, &buf, c).Write([]byte("y"))
	assert.Error(t, err)
}

func TestFootprint(t *testing.T) {
	r := Footprint(1000, 10, 3)
	assert.Equal(t, int64(1000*3*8), r.PointsBytes)
	assert.Equal(t, int64(10*3*8), r.ClustersBytes)
	assert.Equal(t, int64(1000*8), r.LabelsBytes)
	assert.Equal(t, int64(24000+240+8000), r.Total())

	var buf bytes.Buffer
	_, err := r.WriteTo(&buf)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Total memory used: 32240 bytes")
	assert.NotContains(t, buf.String(), "Peak resident")

	r.PeakRSSBytes = 4096
	buf.Reset()
	_, err = r.WriteTo(&buf)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Peak resident set size: 4096 bytes")
}
