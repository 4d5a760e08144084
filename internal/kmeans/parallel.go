package kmeans

// span is a half-open range of point indices [lo, hi).
type span struct {
	lo, hi int
}

// partition splits n points into at most parts contiguous spans of nearly
// equal size. Boundaries depend only on n and parts.
func partition(n, parts int) []span {
	if parts < 1 {
		parts = 1
	}
	if parts > n {
		parts = n
	}
	if parts == 0 {
		return nil
	}

	out := make([]span, parts)
	size, rem := n/parts, n%parts
	lo := 0
	for p := range parts {
		hi := lo + size
		if p < rem {
			hi++
		}
		out[p] = span{lo: lo, hi: hi}
		lo = hi
	}
	return out
}
