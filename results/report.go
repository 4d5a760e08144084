package results

import (
	"bufio"
	"fmt"
	"io"
	"time"

	"github.com/hupe1980/lloyd"
	"github.com/hupe1980/lloyd/resource"
)

// Report prints the final centroids, every point's assignment, the elapsed
// time and the memory report.
func Report(w io.Writer, res *lloyd.Result, elapsed time.Duration, mem resource.Report) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintln(bw, "Final clusters (centroids):")
	for i, c := range res.Centroids {
		fmt.Fprintf(bw, "Cluster %d: ", i)
		writeFixed2(bw, c)
		fmt.Fprintln(bw)
	}

	fmt.Fprintln(bw, "Point assignments:")
	for i, p := range res.Points {
		fmt.Fprintf(bw, "Point %d (", i)
		writeFixed2(bw, p)
		fmt.Fprintf(bw, ") belongs to cluster %d\n", res.Labels[i])
	}

	fmt.Fprintf(bw, "Total time: %.6f seconds\n", elapsed.Seconds())
	if _, err := mem.WriteTo(bw); err != nil {
		return err
	}
	return bw.Flush()
}

// Summary prints the run statistics without per-point output.
func Summary(w io.Writer, res *lloyd.Result) error {
	_, err := fmt.Fprintf(w, "k=%d points=%d iterations=%d converged=%t inertia=%.6f sizes=%v\n",
		res.K(), len(res.Points), res.Iterations, res.Converged, res.Inertia, res.Sizes())
	return err
}

func writeFixed2(w io.Writer, coords []float64) {
	for _, v := range coords {
		fmt.Fprintf(w, "%.2f ", v)
	}
}
