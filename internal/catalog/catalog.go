package catalog

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/greenpulse/greenpulse-cli/internal/properties"
)

// ErrNotFound is returned when a scene or run is missing from the
// catalog.
var ErrNotFound = errors.New("not found in catalog")

// Catalog keeps a record of downloaded scenes and finished change
// runs in a local sqlite file.
type Catalog struct {
	*sql.DB
}

func DefaultPath() string {
	return filepath.Join(properties.DataPath(), "greenpulse.db")
}

func Open(path string) (*Catalog, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create catalog directory: %v", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS scenes (
			scene_id          TEXT PRIMARY KEY,
			satellite         BIGINT,
			wrs_path          BIGINT,
			wrs_row           BIGINT,
			acquired_at       TEXT,
			downloaded_at     TEXT,
			cloud_cover       DOUBLE
		);
		CREATE TABLE IF NOT EXISTS runs (
			run_id            TEXT PRIMARY KEY,
			division          TEXT,
			earlier_scene     TEXT,
			later_scene       TEXT,
			threshold         DOUBLE,
			valid_cells       BIGINT,
			gain_cells        BIGINT,
			loss_cells        BIGINT,
			mean_change       DOUBLE,
			started_at        TEXT,
			finished_at       TEXT,
			output_dir        TEXT
		);
	`)
	if err != nil {
		return nil, err
	}

	return &Catalog{db}, nil
}

// NewRunID mints the identifier a change run is filed under.
func NewRunID() string {
	return uuid.NewString()
}

type SceneRecord struct {
	SceneID      string
	Satellite    int
	Path         int
	Row          int
	AcquiredAt   time.Time
	DownloadedAt time.Time
	CloudCover   float64
}

type RunRecord struct {
	RunID        string
	Division     string
	EarlierScene string
	LaterScene   string
	Threshold    float64
	ValidCells   int
	GainCells    int
	LossCells    int
	MeanChange   float64
	StartedAt    time.Time
	FinishedAt   time.Time
	OutputDir    string
}

// RecordScene files a downloaded scene, replacing any earlier record
// of the same scene.
func (c *Catalog) RecordScene(rec SceneRecord) error {
	_, err := c.Exec(`
		INSERT OR REPLACE INTO scenes
			(scene_id, satellite, wrs_path, wrs_row, acquired_at, downloaded_at, cloud_cover)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.SceneID,
		rec.Satellite,
		rec.Path,
		rec.Row,
		rec.AcquiredAt.UTC().Format(time.RFC3339),
		rec.DownloadedAt.UTC().Format(time.RFC3339),
		rec.CloudCover,
	)
	if err != nil {
		return fmt.Errorf("failed to record scene %s: %v", rec.SceneID, err)
	}
	return nil
}

func scanScene(row interface{ Scan(...any) error }) (SceneRecord, error) {
	var rec SceneRecord
	var acquired, downloaded string
	err := row.Scan(&rec.SceneID, &rec.Satellite, &rec.Path, &rec.Row, &acquired, &downloaded, &rec.CloudCover)
	if err != nil {
		return SceneRecord{}, err
	}
	if rec.AcquiredAt, err = time.Parse(time.RFC3339, acquired); err != nil {
		return SceneRecord{}, fmt.Errorf("bad acquired_at %q: %v", acquired, err)
	}
	if rec.DownloadedAt, err = time.Parse(time.RFC3339, downloaded); err != nil {
		return SceneRecord{}, fmt.Errorf("bad downloaded_at %q: %v", downloaded, err)
	}
	return rec, nil
}

func (c *Catalog) GetScene(sceneID string) (SceneRecord, error) {
	row := c.QueryRow(`
		SELECT scene_id, satellite, wrs_path, wrs_row, acquired_at, downloaded_at, cloud_cover
		FROM scenes WHERE scene_id = ?`, sceneID)
	rec, err := scanScene(row)
	if errors.Is(err, sql.ErrNoRows) {
		return SceneRecord{}, fmt.Errorf("scene %s: %w", sceneID, ErrNotFound)
	}
	return rec, err
}

// ListScenes returns every recorded scene, oldest acquisition first.
func (c *Catalog) ListScenes() ([]SceneRecord, error) {
	rows, err := c.Query(`
		SELECT scene_id, satellite, wrs_path, wrs_row, acquired_at, downloaded_at, cloud_cover
		FROM scenes ORDER BY acquired_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []SceneRecord
	for rows.Next() {
		rec, err := scanScene(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// RecordRun files a finished change run.
func (c *Catalog) RecordRun(rec RunRecord) error {
	_, err := c.Exec(`
		INSERT OR REPLACE INTO runs
			(run_id, division, earlier_scene, later_scene, threshold,
			 valid_cells, gain_cells, loss_cells, mean_change,
			 started_at, finished_at, output_dir)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.RunID,
		rec.Division,
		rec.EarlierScene,
		rec.LaterScene,
		rec.Threshold,
		rec.ValidCells,
		rec.GainCells,
		rec.LossCells,
		rec.MeanChange,
		rec.StartedAt.UTC().Format(time.RFC3339),
		rec.FinishedAt.UTC().Format(time.RFC3339),
		rec.OutputDir,
	)
	if err != nil {
		return fmt.Errorf("failed to record run %s: %v", rec.RunID, err)
	}
	return nil
}

func scanRun(row interface{ Scan(...any) error }) (RunRecord, error) {
	var rec RunRecord
	var started, finished string
	err := row.Scan(&rec.RunID, &rec.Division, &rec.EarlierScene, &rec.LaterScene, &rec.Threshold,
		&rec.ValidCells, &rec.GainCells, &rec.LossCells, &rec.MeanChange,
		&started, &finished, &rec.OutputDir)
	if err != nil {
		return RunRecord{}, err
	}
	if rec.StartedAt, err = time.Parse(time.RFC3339, started); err != nil {
		return RunRecord{}, fmt.Errorf("bad started_at %q: %v", started, err)
	}
	if rec.FinishedAt, err = time.Parse(time.RFC3339, finished); err != nil {
		return RunRecord{}, fmt.Errorf("bad finished_at %q: %v", finished, err)
	}
	return rec, nil
}

func (c *Catalog) GetRun(runID string) (RunRecord, error) {
	row := c.QueryRow(`
		SELECT run_id, division, earlier_scene, later_scene, threshold,
		       valid_cells, gain_cells, loss_cells, mean_change,
		       started_at, finished_at, output_dir
		FROM runs WHERE run_id = ?`, runID)
	rec, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return RunRecord{}, fmt.Errorf("run %s: %w", runID, ErrNotFound)
	}
	return rec, err
}

// ListRuns returns the most recent runs, newest first. A limit of 0
// returns everything.
func (c *Catalog) ListRuns(limit int) ([]RunRecord, error) {
	query := `
		SELECT run_id, division, earlier_scene, later_scene, threshold,
		       valid_cells, gain_cells, loss_cells, mean_change,
		       started_at, finished_at, output_dir
		FROM runs ORDER BY finished_at DESC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := c.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []RunRecord
	for rows.Next() {
		rec, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
