// Package store archives completed runs in an embedded SQLite database so
// scenario sweeps can be compared later without rerunning. One row per run
// carries the metrics summary; a snapshot table keeps the headline Village
// series for plotting. Undefined metrics are stored as NULL, never zero.
package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/Alane0307/SD-Flood-Relief/sim"
)

// Store wraps a SQLite connection holding the run archive.
type Store struct {
	db *sqlx.DB
}

// Open opens or creates the archive at the given path.
func Open(path string) (*Store, error) {
	db, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open run archive: %w", err)
	}
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate run archive: %w", err)
	}
	return s, nil
}

// Close closes the underlying database.
func (s *Store) Close() error { return s.db.Close() }

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		scenario TEXT NOT NULL,
		created_at TEXT NOT NULL,
		horizon_days REAL NOT NULL,
		dt REAL NOT NULL,
		se REAL,
		re REAL,
		leakage_ratio REAL,
		median_response_days REAL,
		cum_collected REAL NOT NULL,
		cum_delivered REAL NOT NULL,
		cum_leakage REAL NOT NULL,
		cum_hazard REAL NOT NULL,
		final_unmet_need REAL NOT NULL
	);

	CREATE TABLE IF NOT EXISTS village_series (
		run_id TEXT NOT NULL REFERENCES runs(id),
		step INTEGER NOT NULL,
		time REAL NOT NULL,
		outstanding_need REAL NOT NULL,
		received_goods REAL NOT NULL,
		labor_pool REAL NOT NULL,
		cum_delivered REAL NOT NULL,
		PRIMARY KEY (run_id, step)
	);`
	_, err := s.db.Exec(schema)
	return err
}

// RunRecord is one archived run's summary row.
type RunRecord struct {
	ID                 string          `db:"id"`
	Scenario           string          `db:"scenario"`
	CreatedAt          string          `db:"created_at"`
	HorizonDays        float64         `db:"horizon_days"`
	DT                 float64         `db:"dt"`
	SE                 sql.NullFloat64 `db:"se"`
	RE                 sql.NullFloat64 `db:"re"`
	LeakageRatio       sql.NullFloat64 `db:"leakage_ratio"`
	MedianResponseDays sql.NullFloat64 `db:"median_response_days"`
	CumCollected       float64         `db:"cum_collected"`
	CumDelivered       float64         `db:"cum_delivered"`
	CumLeakage         float64         `db:"cum_leakage"`
	CumHazard          float64         `db:"cum_hazard"`
	FinalUnmetNeed     float64         `db:"final_unmet_need"`
}

func nullable(m sim.MetricValue) sql.NullFloat64 {
	return sql.NullFloat64{Float64: m.Value, Valid: m.Defined}
}

// SaveRun archives one completed run and returns its generated ID.
func (s *Store) SaveRun(traj *sim.Trajectory, summary *sim.MetricsSummary) (string, error) {
	id := uuid.NewString()
	tx, err := s.db.Beginx()
	if err != nil {
		return "", fmt.Errorf("save run: %w", err)
	}
	defer tx.Rollback()

	rec := RunRecord{
		ID:                 id,
		Scenario:           traj.Scenario,
		CreatedAt:          time.Now().UTC().Format(time.RFC3339),
		HorizonDays:        float64(traj.Len()) * traj.DT,
		DT:                 traj.DT,
		SE:                 nullable(summary.SE),
		RE:                 nullable(summary.RE),
		LeakageRatio:       nullable(summary.LeakageRatio),
		MedianResponseDays: nullable(summary.MedianResponseTime),
		CumCollected:       summary.CumCollected,
		CumDelivered:       summary.CumDelivered,
		CumLeakage:         summary.CumLeakage,
		CumHazard:          summary.CumHazard,
		FinalUnmetNeed:     summary.FinalUnmetNeed,
	}
	if _, err := tx.NamedExec(`
		INSERT INTO runs (id, scenario, created_at, horizon_days, dt, se, re,
			leakage_ratio, median_response_days, cum_collected, cum_delivered,
			cum_leakage, cum_hazard, final_unmet_need)
		VALUES (:id, :scenario, :created_at, :horizon_days, :dt, :se, :re,
			:leakage_ratio, :median_response_days, :cum_collected, :cum_delivered,
			:cum_leakage, :cum_hazard, :final_unmet_need)`, rec); err != nil {
		return "", fmt.Errorf("insert run %s: %w", id, err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO village_series (run_id, step, time, outstanding_need,
			received_goods, labor_pool, cum_delivered)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return "", fmt.Errorf("prepare series insert: %w", err)
	}
	defer stmt.Close()
	for i := range traj.Snapshots {
		snap := traj.At(i)
		v := &snap.States[sim.Village]
		if _, err := stmt.Exec(id, snap.Step, snap.Time,
			v.OutstandingNeed, v.ReceivedGoods, v.LaborPool, snap.CumDelivered); err != nil {
			return "", fmt.Errorf("insert series row %d: %w", i, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit run %s: %w", id, err)
	}
	return id, nil
}

// ListRuns returns all archived runs, newest first.
func (s *Store) ListRuns() ([]RunRecord, error) {
	var runs []RunRecord
	if err := s.db.Select(&runs, `SELECT * FROM runs ORDER BY created_at DESC`); err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	return runs, nil
}

// VillagePoint is one archived Village-series sample.
type VillagePoint struct {
	Step            int     `db:"step"`
	Time            float64 `db:"time"`
	OutstandingNeed float64 `db:"outstanding_need"`
	ReceivedGoods   float64 `db:"received_goods"`
	LaborPool       float64 `db:"labor_pool"`
	CumDelivered    float64 `db:"cum_delivered"`
}

// VillageSeries returns the archived Village series for one run.
func (s *Store) VillageSeries(runID string) ([]VillagePoint, error) {
	var points []VillagePoint
	if err := s.db.Select(&points, `
		SELECT step, time, outstanding_need, received_goods, labor_pool, cum_delivered
		FROM village_series WHERE run_id = ? ORDER BY step`, runID); err != nil {
		return nil, fmt.Errorf("load series for run %s: %w", runID, err)
	}
	return points, nil
}
