package results

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/hupe1980/lloyd"
	_ "modernc.org/sqlite"
)

const schemaDDL = `
CREATE TABLE IF NOT EXISTS runs (
    id TEXT PRIMARY KEY,
    num_clusters INTEGER NOT NULL,
    num_points INTEGER NOT NULL,
    num_dimensions INTEGER NOT NULL,
    iterations INTEGER NOT NULL,
    converged INTEGER NOT NULL,
    inertia REAL NOT NULL,
    elapsed_ns INTEGER NOT NULL,
    created_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS centroids (
    run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
    cluster INTEGER NOT NULL,
    dim INTEGER NOT NULL,
    value REAL NOT NULL,
    PRIMARY KEY (run_id, cluster, dim)
);

CREATE TABLE IF NOT EXISTS assignments (
    run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
    point INTEGER NOT NULL,
    cluster INTEGER NOT NULL,
    PRIMARY KEY (run_id, point)
);
CREATE INDEX IF NOT EXISTS idx_assignments_cluster ON assignments(run_id, cluster);
`

// ErrRunNotFound is returned when a run id is not in the database.
var ErrRunNotFound = errors.New("run not found")

// RunRow is the summary row stored for a run.
type RunRow struct {
	ID            string
	NumClusters   int
	NumPoints     int
	NumDimensions int
	Iterations    int
	Converged     bool
	Inertia       float64
	Elapsed       time.Duration
	CreatedAt     time.Time
}

// SQLiteSink stores runs in a SQLite database.
type SQLiteSink struct {
	db *sql.DB
}

// OpenSQLite opens (or creates) the database at path and applies the schema.
// Use ":memory:" for a private in-memory database.
func OpenSQLite(path string) (*SQLiteSink, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if path == ":memory:" {
		// Every connection would otherwise see its own empty database.
		db.SetMaxOpenConns(1)
	}
	for _, pragma := range []string{
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=10000",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("pragma %s: %w", pragma, err)
		}
	}
	if _, err := db.Exec(schemaDDL); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &SQLiteSink{db: db}, nil
}

// Close closes the database.
func (s *SQLiteSink) Close() error { return s.db.Close() }

// Save stores res under runID in one transaction, replacing an earlier run
// with the same id.
func (s *SQLiteSink) Save(ctx context.Context, runID string, res *lloyd.Result) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, stmt := range []string{
		"DELETE FROM assignments WHERE run_id = ?",
		"DELETE FROM centroids WHERE run_id = ?",
		"DELETE FROM runs WHERE id = ?",
	} {
		if _, err := tx.ExecContext(ctx, stmt, runID); err != nil {
			return err
		}
	}

	converged := 0
	if res.Converged {
		converged = 1
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, num_clusters, num_points, num_dimensions, iterations, converged, inertia, elapsed_ns, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		runID, res.K(), len(res.Points), res.Dim(), res.Iterations, converged, res.Inertia,
		res.Elapsed.Nanoseconds(), time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	cstmt, err := tx.PrepareContext(ctx, "INSERT INTO centroids (run_id, cluster, dim, value) VALUES (?, ?, ?, ?)")
	if err != nil {
		return err
	}
	defer cstmt.Close()
	for c, row := range res.Centroids {
		for d, v := range row {
			if _, err := cstmt.ExecContext(ctx, runID, c, d, v); err != nil {
				return fmt.Errorf("insert centroid %d: %w", c, err)
			}
		}
	}

	astmt, err := tx.PrepareContext(ctx, "INSERT INTO assignments (run_id, point, cluster) VALUES (?, ?, ?)")
	if err != nil {
		return err
	}
	defer astmt.Close()
	for i, label := range res.Labels {
		if _, err := astmt.ExecContext(ctx, runID, i, label); err != nil {
			return fmt.Errorf("insert assignment %d: %w", i, err)
		}
	}

	return tx.Commit()
}

// Run returns the summary row of runID.
func (s *SQLiteSink) Run(ctx context.Context, runID string) (RunRow, error) {
	var (
		row       RunRow
		converged int
		elapsed   int64
		created   string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, num_clusters, num_points, num_dimensions, iterations, converged, inertia, elapsed_ns, created_at
		 FROM runs WHERE id = ?`, runID).
		Scan(&row.ID, &row.NumClusters, &row.NumPoints, &row.NumDimensions, &row.Iterations, &converged, &row.Inertia, &elapsed, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return RunRow{}, fmt.Errorf("%s: %w", runID, ErrRunNotFound)
	}
	if err != nil {
		return RunRow{}, err
	}
	row.Converged = converged != 0
	row.Elapsed = time.Duration(elapsed)
	row.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)
	return row, nil
}

// Centroids returns the centroids of runID in cluster order.
func (s *SQLiteSink) Centroids(ctx context.Context, runID string) ([][]float64, error) {
	run, err := s.Run(ctx, runID)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT cluster, dim, value FROM centroids WHERE run_id = ? ORDER BY cluster, dim", runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([][]float64, run.NumClusters)
	for c := range out {
		out[c] = make([]float64, run.NumDimensions)
	}
	for rows.Next() {
		var c, d int
		var v float64
		if err := rows.Scan(&c, &d, &v); err != nil {
			return nil, err
		}
		out[c][d] = v
	}
	return out, rows.Err()
}

// Labels returns the label of every point of runID in point order.
func (s *SQLiteSink) Labels(ctx context.Context, runID string) ([]int, error) {
	run, err := s.Run(ctx, runID)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT point, cluster FROM assignments WHERE run_id = ? ORDER BY point", runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]int, run.NumPoints)
	for rows.Next() {
		var p, c int
		if err := rows.Scan(&p, &c); err != nil {
			return nil, err
		}
		out[p] = c
	}
	return out, rows.Err()
}

// ClusterSizes returns the number of points per cluster of runID.
func (s *SQLiteSink) ClusterSizes(ctx context.Context, runID string) ([]int, error) {
	run, err := s.Run(ctx, runID)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT cluster, COUNT(*) FROM assignments WHERE run_id = ? GROUP BY cluster", runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]int, run.NumClusters)
	for rows.Next() {
		var c, n int
		if err := rows.Scan(&c, &n); err != nil {
			return nil, err
		}
		out[c] = n
	}
	return out, rows.Err()
}
