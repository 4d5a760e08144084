package results

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/hupe1980/lloyd"
	"github.com/hupe1980/lloyd/blobstore"
	"github.com/hupe1980/lloyd/codec"
	"github.com/hupe1980/lloyd/compress"
	"github.com/hupe1980/lloyd/resource"
)

// ManifestName is the blob name, relative to the run directory, of the
// manifest.
const ManifestName = "manifest.json"

// ErrManifest is returned when a stored manifest cannot be interpreted.
var ErrManifest = errors.New("invalid manifest")

// Manifest describes a saved run.
type Manifest struct {
	RunID       string    `json:"run_id"`
	CreatedAt   time.Time `json:"created_at"`
	Codec       string    `json:"codec"`
	Compression string    `json:"compression"`
	Files       []File    `json:"files"`

	NumClusters   int     `json:"num_clusters"`
	NumPoints     int     `json:"num_points"`
	NumDimensions int     `json:"num_dimensions"`
	Iterations    int     `json:"iterations"`
	Inertia       float64 `json:"inertia"`
}

// File is one blob written for a run.
type File struct {
	Name string `json:"name"`
	Size int64  `json:"size"`
}

// File returns the stored name of the file whose logical name (without
// compression suffix) is name.
func (m Manifest) File(name string) (string, bool) {
	typ, err := compress.ParseType(m.Compression)
	if err != nil {
		return "", false
	}
	want := name + typ.Extension()
	for _, f := range m.Files {
		if f.Name == want {
			return f.Name, true
		}
	}
	return "", false
}

// NewRunID returns a fresh random run identifier.
func NewRunID() string { return uuid.NewString() }

// Writer saves runs to a blob store.
type Writer struct {
	store       blobstore.Store
	codec       codec.Codec
	compression compress.Type
	resources   *resource.Controller
	now         func() time.Time
}

// WriterOption configures a Writer.
type WriterOption func(*Writer)

// WithCodec selects the codec for the result blob. Default is codec.Default.
func WithCodec(c codec.Codec) WriterOption {
	return func(w *Writer) {
		if c != nil {
			w.codec = c
		}
	}
}

// WithCompression compresses every data blob. The manifest stays plain.
func WithCompression(t compress.Type) WriterOption {
	return func(w *Writer) {
		w.compression = t
	}
}

// WithIOLimit throttles encoding through rc's IO rate limiter.
func WithIOLimit(rc *resource.Controller) WriterOption {
	return func(w *Writer) {
		w.resources = rc
	}
}

// NewWriter creates a Writer for store.
func NewWriter(store blobstore.Store, opts ...WriterOption) *Writer {
	w := &Writer{
		store: store,
		codec: codec.Default,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Save writes points.dat, clusters.dat, the encoded result and the manifest
// under runID. An empty runID is replaced by NewRunID(). The manifest is
// written last, so a run without one is incomplete.
func (w *Writer) Save(ctx context.Context, runID string, res *lloyd.Result) (Manifest, error) {
	if runID == "" {
		runID = NewRunID()
	}

	m := Manifest{
		RunID:         runID,
		CreatedAt:     w.now().UTC(),
		Codec:         w.codec.Name(),
		Compression:   w.compression.String(),
		NumClusters:   res.K(),
		NumPoints:     len(res.Points),
		NumDimensions: res.Dim(),
		Iterations:    res.Iterations,
		Inertia:       res.Inertia,
	}

	encoded, err := w.codec.Marshal(res)
	if err != nil {
		return Manifest{}, fmt.Errorf("encode result: %w", err)
	}

	blobs := []struct {
		name  string
		write func(io.Writer) error
	}{
		{"points.dat", func(dst io.Writer) error { return WritePoints(dst, res.Points, res.Labels) }},
		{"clusters.dat", func(dst io.Writer) error { return WriteClusters(dst, res.Centroids) }},
		{"result." + w.codec.Name(), func(dst io.Writer) error {
			_, err := dst.Write(encoded)
			return err
		}},
	}

	for _, b := range blobs {
		data, err := w.encode(ctx, b.write)
		if err != nil {
			return Manifest{}, fmt.Errorf("encode %s: %w", b.name, err)
		}
		name := b.name + w.compression.Extension()
		if err := w.store.Put(ctx, blobstore.Join(runID, name), data); err != nil {
			return Manifest{}, fmt.Errorf("save %s: %w", name, err)
		}
		m.Files = append(m.Files, File{Name: name, Size: int64(len(data))})
	}

	manifest, err := codec.JSON{}.Marshal(m)
	if err != nil {
		return Manifest{}, err
	}
	if err := w.store.Put(ctx, blobstore.Join(runID, ManifestName), manifest); err != nil {
		return Manifest{}, fmt.Errorf("save manifest: %w", err)
	}
	return m, nil
}

func (w *Writer) encode(ctx context.Context, write func(io.Writer) error) ([]byte, error) {
	var buf bytes.Buffer
	var dst io.Writer = &buf
	if w.resources != nil {
		dst = resource.NewRateLimitedWriter(ctx, &buf, w.resources)
	}

	cw, err := compress.NewWriter(dst, w.compression)
	if err != nil {
		return nil, err
	}
	if err := write(cw); err != nil {
		_ = cw.Close()
		return nil, err
	}
	if err := cw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// LoadManifest reads the manifest of runID.
func LoadManifest(ctx context.Context, store blobstore.Store, runID string) (Manifest, error) {
	data, err := store.Get(ctx, blobstore.Join(runID, ManifestName))
	if err != nil {
		return Manifest{}, err
	}
	var m Manifest
	if err := (codec.JSON{}).Unmarshal(data, &m); err != nil {
		return Manifest{}, fmt.Errorf("%w: %v", ErrManifest, err)
	}
	return m, nil
}

// Load reads back the result saved under runID, using the codec and
// compression recorded in its manifest.
func Load(ctx context.Context, store blobstore.Store, runID string) (*lloyd.Result, Manifest, error) {
	m, err := LoadManifest(ctx, store, runID)
	if err != nil {
		return nil, Manifest{}, err
	}

	c, ok := codec.ByName(m.Codec)
	if !ok {
		return nil, m, fmt.Errorf("%w: unknown codec %q", ErrManifest, m.Codec)
	}

	data, err := readBlob(ctx, store, m, "result."+m.Codec)
	if err != nil {
		return nil, m, err
	}

	var res lloyd.Result
	if err := c.Unmarshal(data, &res); err != nil {
		return nil, m, fmt.Errorf("decode result: %w", err)
	}
	return &res, m, nil
}

// LoadText reads the points.dat and clusters.dat files of runID.
func LoadText(ctx context.Context, store blobstore.Store, runID string) (points [][]float64, labels []int, centroids [][]float64, err error) {
	m, err := LoadManifest(ctx, store, runID)
	if err != nil {
		return nil, nil, nil, err
	}

	data, err := readBlob(ctx, store, m, "points.dat")
	if err != nil {
		return nil, nil, nil, err
	}
	if points, labels, err = ReadPoints(bytes.NewReader(data)); err != nil {
		return nil, nil, nil, err
	}

	data, err = readBlob(ctx, store, m, "clusters.dat")
	if err != nil {
		return nil, nil, nil, err
	}
	if centroids, err = ReadClusters(bytes.NewReader(data)); err != nil {
		return nil, nil, nil, err
	}
	return points, labels, centroids, nil
}

func readBlob(ctx context.Context, store blobstore.Store, m Manifest, name string) ([]byte, error) {
	stored, ok := m.File(name)
	if !ok {
		return nil, fmt.Errorf("%w: no file %s", ErrManifest, name)
	}
	typ, err := compress.ParseType(m.Compression)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrManifest, err)
	}

	raw, err := store.Get(ctx, blobstore.Join(m.RunID, stored))
	if err != nil {
		return nil, err
	}
	r, err := compress.NewReader(bytes.NewReader(raw), typ)
	if err != nil {
		return nil, err
	}
	defer func() { _ = r.Close() }()
	return io.ReadAll(r)
}

// Runs lists the ids of all runs with a manifest in store.
func Runs(ctx context.Context, store blobstore.Store) ([]string, error) {
	names, err := store.List(ctx, "")
	if err != nil {
		return nil, err
	}
	var ids []string
	suffix := "/" + ManifestName
	for _, n := range names {
		if len(n) > len(suffix) && n[len(n)-len(suffix):] == suffix {
			ids = append(ids, n[:len(n)-len(suffix)])
		}
	}
	return ids, nil
}
