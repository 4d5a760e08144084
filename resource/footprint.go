package resource

import (
	"fmt"
	"io"
	"unsafe"
)

// Report describes the memory held by one clustering run.
type Report struct {
	PointsBytes   int64 `json:"points_bytes"`
	ClustersBytes int64 `json:"clusters_bytes"`
	LabelsBytes   int64 `json:"labels_bytes"`
	// PeakRSSBytes is the process peak resident set size, 0 if unknown.
	PeakRSSBytes int64 `json:"peak_rss_bytes,omitempty"`
}

// Total returns the bytes held by points, centroids and labels.
func (r Report) Total() int64 {
	return r.PointsBytes + r.ClustersBytes + r.LabelsBytes
}

// Footprint computes the memory needed for n points and k centroids of
// dimension dim plus one label per point.
func Footprint(n, k, dim int) Report {
	var (
		coord float64
		label int
	)
	coordSize := int64(unsafe.Sizeof(coord))
	labelSize := int64(unsafe.Sizeof(label))

	return Report{
		PointsBytes:   int64(n) * int64(dim) * coordSize,
		ClustersBytes: int64(k) * int64(dim) * coordSize,
		LabelsBytes:   int64(n) * labelSize,
	}
}

// WithPeakRSS returns a copy of r with PeakRSSBytes filled in when the
// platform reports it.
func (r Report) WithPeakRSS() Report {
	if rss, ok := PeakRSS(); ok {
		r.PeakRSSBytes = rss
	}
	return r
}

// WriteTo prints the report in human-readable form.
func (r Report) WriteTo(w io.Writer) (int64, error) {
	n, err := fmt.Fprintf(w,
		"Memory used for points: %d bytes\nMemory used for clusters: %d bytes\nMemory used for labels: %d bytes\nTotal memory used: %d bytes\n",
		r.PointsBytes, r.ClustersBytes, r.LabelsBytes, r.Total())
	if err != nil || r.PeakRSSBytes == 0 {
		return int64(n), err
	}
	m, err := fmt.Fprintf(w, "Peak resident set size: %d bytes\n", r.PeakRSSBytes)
	return int64(n + m), err
}
