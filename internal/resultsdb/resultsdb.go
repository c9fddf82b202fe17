// Package resultsdb caches results tables, one per likelihood and run
// configuration, in SQLite. A cached table is only returned when its
// columns match the requested estimator list exactly.
package resultsdb

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math"
	"slices"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/banshee-data/nestdiag/internal/settings"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

var (
	// ErrNotFound indicates no table is cached for the key.
	ErrNotFound = errors.New("resultsdb: table not found")
	// ErrEstimatorMismatch indicates the cached table was built from a
	// different estimator list.
	ErrEstimatorMismatch = errors.New("resultsdb: estimator list does not match cached table")
)

// Key identifies a cached table.
type Key struct {
	Likelihood string
	settings.Config
}

func (k Key) String() string {
	return fmt.Sprintf("%s %s", k.Likelihood, k.Config)
}

// DB is a results cache backed by SQLite.
type DB struct {
	*sql.DB
}

// Open opens (creating if needed) the cache at path and applies pending
// migrations.
func Open(path string) (*DB, error) {
	sqlDB, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// SQLite allows a single writer; one connection also keeps ":memory:"
	// databases shared between queries.
	sqlDB.SetMaxOpenConns(1)

	if _, err := sqlDB.Exec("PRAGMA foreign_keys = ON"); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	db := &DB{sqlDB}
	if err := db.MigrateUp(); err != nil {
		sqlDB.Close()
		return nil, err
	}
	return db, nil
}

// MigrateUp applies all embedded migrations not yet applied.
func (db *DB) MigrateUp() error {
	m, err := db.newMigrate()
	if err != nil {
		return err
	}
	// m is not closed: closing it would close db.DB.
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration up failed: %w", err)
	}
	return nil
}

// MigrateVersion returns the applied schema version, 0 when none.
func (db *DB) MigrateVersion() (uint, bool, error) {
	m, err := db.newMigrate()
	if err != nil {
		return 0, false, err
	}
	version, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	return version, dirty, err
}

func (db *DB) newMigrate() (*migrate.Migrate, error) {
	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return nil, fmt.Errorf("failed to open embedded migrations: %w", err)
	}
	driver, err := sqlite.WithInstance(db.DB, &sqlite.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to create sqlite driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", source, "sqlite", driver)
	if err != nil {
		return nil, fmt.Errorf("failed to create migrate instance: %w", err)
	}
	m.Log = &migrateLogger{}
	return m, nil
}

// migrateLogger implements migrate.Logger.
type migrateLogger struct{}

func (l *migrateLogger) Printf(format string, v ...interface{}) {
	log.Printf("[resultsdb] migrate: "+format, v...)
}

func (l *migrateLogger) Verbose() bool {
	return false
}

// SaveTable stores rows for key, replacing any table cached under the same
// key. Every row must have one value per column. Returns the new table ID.
func (db *DB) SaveTable(ctx context.Context, key Key, columns []string, rows [][]float64) (string, error) {
	for i, row := range rows {
		if len(row) != len(columns) {
			return "", fmt.Errorf("row %d has %d values for %d columns", i, len(row), len(columns))
		}
	}
	columnsJSON, err := json.Marshal(columns)
	if err != nil {
		return "", fmt.Errorf("failed to encode columns: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		DELETE FROM results_rows WHERE table_id IN (
			SELECT table_id FROM results_tables
			WHERE likelihood = ? AND ndim = ? AND nlive = ? AND nrepeats = ?)`,
		key.Likelihood, key.NDim, key.NLive, key.NRepeats); err != nil {
		return "", fmt.Errorf("failed to replace rows of %s: %w", key, err)
	}
	if _, err := tx.ExecContext(ctx, `
		DELETE FROM results_tables
		WHERE likelihood = ? AND ndim = ? AND nlive = ? AND nrepeats = ?`,
		key.Likelihood, key.NDim, key.NLive, key.NRepeats); err != nil {
		return "", fmt.Errorf("failed to replace table %s: %w", key, err)
	}

	tableID := uuid.NewString()
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO results_tables (table_id, likelihood, ndim, nlive, nrepeats, n_columns, columns_json)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		tableID, key.Likelihood, key.NDim, key.NLive, key.NRepeats, len(columns), string(columnsJSON)); err != nil {
		return "", fmt.Errorf("failed to insert table %s: %w", key, err)
	}

	for i, row := range rows {
		valuesJSON, err := json.Marshal(encodeRow(row))
		if err != nil {
			return "", fmt.Errorf("failed to encode row %d: %w", i, err)
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO results_rows (table_id, row_index, values_json) VALUES (?, ?, ?)`,
			tableID, i, string(valuesJSON)); err != nil {
			return "", fmt.Errorf("failed to insert row %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", err
	}
	log.Printf("[resultsdb] cached %s: %d rows x %d columns", key, len(rows), len(columns))
	return tableID, nil
}

// LoadTable returns the rows cached for key. The stored columns must equal
// columns, in order; otherwise ErrEstimatorMismatch is returned.
func (db *DB) LoadTable(ctx context.Context, key Key, columns []string) ([][]float64, error) {
	var (
		tableID     string
		nColumns    int
		columnsJSON string
	)
	err := db.QueryRowContext(ctx, `
		SELECT table_id, n_columns, columns_json FROM results_tables
		WHERE likelihood = ? AND ndim = ? AND nlive = ? AND nrepeats = ?`,
		key.Likelihood, key.NDim, key.NLive, key.NRepeats).Scan(&tableID, &nColumns, &columnsJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query table %s: %w", key, err)
	}

	if nColumns != len(columns) {
		return nil, fmt.Errorf("%w: %s has %d estimators, requested %d", ErrEstimatorMismatch, key, nColumns, len(columns))
	}
	var stored []string
	if err := json.Unmarshal([]byte(columnsJSON), &stored); err != nil {
		return nil, fmt.Errorf("failed to decode columns of %s: %w", key, err)
	}
	if !slices.Equal(stored, columns) {
		return nil, fmt.Errorf("%w: %s columns differ", ErrEstimatorMismatch, key)
	}

	rows, err := db.QueryContext(ctx, `
		SELECT values_json FROM results_rows WHERE table_id = ? ORDER BY row_index`, tableID)
	if err != nil {
		return nil, fmt.Errorf("failed to query rows of %s: %w", key, err)
	}
	defer rows.Close()

	out := [][]float64{}
	for rows.Next() {
		var valuesJSON string
		if err := rows.Scan(&valuesJSON); err != nil {
			return nil, err
		}
		var encoded []*float64
		if err := json.Unmarshal([]byte(valuesJSON), &encoded); err != nil {
			return nil, fmt.Errorf("failed to decode row of %s: %w", key, err)
		}
		out = append(out, decodeRow(encoded))
	}
	return out, rows.Err()
}

// ListTables returns the cached keys in the order they were saved.
func (db *DB) ListTables(ctx context.Context) ([]Key, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT likelihood, ndim, nlive, nrepeats FROM results_tables ORDER BY rowid`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var keys []Key
	for rows.Next() {
		var k Key
		if err := rows.Scan(&k.Likelihood, &k.NDim, &k.NLive, &k.NRepeats); err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

// encodeRow stores non-finite values as null since JSON has no NaN; they
// load back as NaN. Estimators yield NaN for parameters a run lacks.
func encodeRow(row []float64) []*float64 {
	out := make([]*float64, len(row))
	for i := range row {
		if math.IsNaN(row[i]) || math.IsInf(row[i], 0) {
			continue
		}
		out[i] = &row[i]
	}
	return out
}

func decodeRow(encoded []*float64) []float64 {
	out := make([]float64, len(encoded))
	for i, v := range encoded {
		if v == nil {
			out[i] = math.NaN()
			continue
		}
		out[i] = *v
	}
	return out
}
