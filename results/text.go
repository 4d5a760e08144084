package results

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// WritePoints writes one line per point: every coordinate formatted as %f and
// followed by a space, then the point's label.
func WritePoints(w io.Writer, points [][]float64, labels []int) error {
	if len(points) != len(labels) {
		return fmt.Errorf("points/labels length mismatch: %d != %d", len(points), len(labels))
	}

	bw := bufio.NewWriter(w)
	var line []byte
	for i, p := range points {
		line = appendCoords(line[:0], p)
		line = strconv.AppendInt(line, int64(labels[i]), 10)
		line = append(line, '\n')
		if _, err := bw.Write(line); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WriteClusters writes one line per centroid, every coordinate formatted as
// %f and followed by a space.
func WriteClusters(w io.Writer, centroids [][]float64) error {
	bw := bufio.NewWriter(w)
	var line []byte
	for _, c := range centroids {
		line = appendCoords(line[:0], c)
		line = append(line, '\n')
		if _, err := bw.Write(line); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func appendCoords(dst []byte, coords []float64) []byte {
	for _, v := range coords {
		dst = strconv.AppendFloat(dst, v, 'f', 6, 64)
		dst = append(dst, ' ')
	}
	return dst
}

// ReadPoints parses the format written by WritePoints.
func ReadPoints(r io.Reader) ([][]float64, []int, error) {
	var (
		points [][]float64
		labels []int
	)
	err := scanLines(r, func(lineNo int, fields []string) error {
		if len(fields) < 2 {
			return fmt.Errorf("line %d: want coordinates and a label", lineNo)
		}
		coords, err := parseCoords(lineNo, fields[:len(fields)-1])
		if err != nil {
			return err
		}
		label, err := strconv.Atoi(fields[len(fields)-1])
		if err != nil {
			return fmt.Errorf("line %d: label: %w", lineNo, err)
		}
		points = append(points, coords)
		labels = append(labels, label)
		return nil
	})
	return points, labels, err
}

// ReadClusters parses the format written by WriteClusters.
func ReadClusters(r io.Reader) ([][]float64, error) {
	var centroids [][]float64
	err := scanLines(r, func(lineNo int, fields []string) error {
		coords, err := parseCoords(lineNo, fields)
		if err != nil {
			return err
		}
		centroids = append(centroids, coords)
		return nil
	})
	return centroids, err
}

func scanLines(r io.Reader, fn func(lineNo int, fields []string) error) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		if err := fn(lineNo, fields); err != nil {
			return err
		}
	}
	return sc.Err()
}

func parseCoords(lineNo int, fields []string) ([]float64, error) {
	coords := make([]float64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: coordinate %d: %w", lineNo, i, err)
		}
		coords[i] = v
	}
	return coords, nil
}
