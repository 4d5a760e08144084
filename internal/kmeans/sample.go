package kmeans

import "sort"

// Cumulative is a prefix-sum table over non-negative weights, used to sample
// an index with probability proportional to its weight.
type Cumulative struct {
	sums []float64
}

// NewCumulative builds the table for weights. Negative weights count as zero.
func NewCumulative(weights []float64) *Cumulative {
	c := &Cumulative{}
	c.Reset(weights)
	return c
}

// Reset rebuilds the table for weights, reusing the existing buffer.
func (c *Cumulative) Reset(weights []float64) {
	if cap(c.sums) < len(weights) {
		c.sums = make([]float64, len(weights))
	}
	c.sums = c.sums[:len(weights)]

	var running float64
	for i, w := range weights {
		if w > 0 {
			running += w
		}
		c.sums[i] = running
	}
}

// Len returns the number of weights.
func (c *Cumulative) Len() int { return len(c.sums) }

// Total returns the sum of all weights.
func (c *Cumulative) Total() float64 {
	if len(c.sums) == 0 {
		return 0
	}
	return c.sums[len(c.sums)-1]
}

// Pick maps a uniform draw u in [0,1) to an index. With r = u*Total(), it
// selects the first index with positive weight whose cumulative sum reaches
// or exceeds r. At r == 0 this skips leading zero-weight indices, where a
// plain first-sum-reaching-r rule would return an already chosen point.
//
// When every weight is zero there is nothing to sample from and Pick returns 0.
// Returns -1 for an empty table.
func (c *Cumulative) Pick(u float64) int {
	n := len(c.sums)
	if n == 0 {
		return -1
	}
	total := c.Total()
	if total <= 0 {
		return 0
	}

	r := u * total
	j := sort.SearchFloat64s(c.sums, r)
	for j < n && c.weight(j) == 0 {
		j++
	}
	if j >= n {
		// Only reachable for u >= 1; take the last index that carries weight.
		j = n - 1
		for j > 0 && c.weight(j) == 0 {
			j--
		}
	}
	return j
}

func (c *Cumulative) weight(j int) float64 {
	if j == 0 {
		return c.sums[0]
	}
	return c.sums[j] - c.sums[j-1]
}
