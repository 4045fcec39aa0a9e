// Package alertstore persists generated alerts across engine runs.
package alertstore

import (
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/go-sql-driver/mysql"   // MySQL driver
	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
	_ "modernc.org/sqlite"             // SQLite driver

	"github.com/sinteticoai/givemetry/internal/contract"
	"github.com/sinteticoai/givemetry/schema"
)

// Table names for alert tracking.
const (
	alertsTable = "givemetry_alerts"
	runsTable   = "givemetry_alert_runs"
)

// timeFormat is used for all stored timestamps regardless of backend, so
// scanning never needs per-backend switches.
const timeFormat = time.RFC3339Nano

// StoreImpl handles durable alert storage using various database backends.
type StoreImpl struct {
	db      *sql.DB
	backend schema.DatabaseBackend
	builder sq.StatementBuilderType
}

var _ contract.AlertStore = &StoreImpl{} // Compile-time check

// NewAlertStore initializes and returns a new AlertStore based on the backend type.
func NewAlertStore(backend schema.DatabaseBackend, connStr string) (contract.AlertStore, error) {
	var db *sql.DB
	var err error

	switch backend {
	case schema.SQLiteBackend:
		dbPath := connStr
		if dbPath == "" {
			dbPath = contract.GetAlertsDBFilePath()
		}
		db, err = sql.Open("sqlite", dbPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open SQLite database at %q: %w. Check that the directory is writable", dbPath, err)
		}
		// Limit SQLite to a single open connection to avoid "database is locked" errors
		db.SetMaxOpenConns(1)

	case schema.MySQLBackend:
		db, err = sql.Open("mysql", connStr)
		if err != nil {
			return nil, fmt.Errorf("failed to open MySQL database: %w. Check connection string format: user:password@tcp(host:port)/dbname", err)
		}

	case schema.PostgreSQLBackend:
		db, err = sql.Open("pgx", connStr)
		if err != nil {
			return nil, fmt.Errorf("failed to open PostgreSQL database: %w. Check connection string format: host=localhost port=5432 user=postgres dbname=mydb", err)
		}

	case schema.NoneBackend:
		// Return a no-op store for disabled persistence
		return &StoreImpl{db: nil, backend: backend}, nil

	default:
		return nil, fmt.Errorf("unsupported alert backend: %s. Must be sqlite, mysql, postgresql, or none", backend)
	}

	// Ping to verify connection
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to %s database: %w. Check that the server is running and connection parameters are valid", backend, err)
	}

	// Create the table schemas
	if err := createAlertTables(db, backend); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create alert tables: %w", err)
	}

	return &StoreImpl{
		db:      db,
		backend: backend,
		builder: builderFor(backend),
	}, nil
}

// createAlertTables creates the alert tracking tables.
func createAlertTables(db *sql.DB, backend schema.DatabaseBackend) error {
	tables := []struct {
		name  string
		query string
	}{
		{alertsTable, getCreateAlertsQuery(backend)},
		{runsTable, getCreateRunsQuery(backend)},
	}

	for _, table := range tables {
		if _, err := db.Exec(table.query); err != nil {
			return fmt.Errorf("failed to create table %s: %w", table.name, err)
		}
	}

	return nil
}

// getCreateAlertsQuery returns the CREATE TABLE query for givemetry_alerts.
// One row per (constituent, alert type); re-detection replaces the row.
func getCreateAlertsQuery(backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(alertsTable, backend)
	return fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			constituent_id VARCHAR(64) NOT NULL,
			alert_type VARCHAR(32) NOT NULL,
			alert_id VARCHAR(64) NOT NULL,
			severity VARCHAR(16) NOT NULL,
			title VARCHAR(255) NOT NULL,
			description TEXT,
			detected_at VARCHAR(64) NOT NULL,
			run_id VARCHAR(64),
			PRIMARY KEY (constituent_id, alert_type)
		);
	`, quotedTableName)
}

// getCreateRunsQuery returns the CREATE TABLE query for givemetry_alert_runs.
func getCreateRunsQuery(backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(runsTable, backend)
	return fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			run_id VARCHAR(64) PRIMARY KEY,
			start_time VARCHAR(64) NOT NULL,
			end_time VARCHAR(64),
			run_duration_ms BIGINT,
			total_alerts INT,
			config_params TEXT
		);
	`, quotedTableName)
}

// BeginRun creates a new alert run and returns its unique ID.
func (st *StoreImpl) BeginRun(startTime time.Time, configParams map[string]any) (string, error) {
	// Skip for NoneBackend
	if st.backend == schema.NoneBackend || st.db == nil {
		return "", nil
	}

	configJSON, err := marshalConfigParams(configParams)
	if err != nil {
		return "", err
	}

	runID := uuid.NewString()
	query, args, err := st.builder.
		Insert(quoteTableName(runsTable, st.backend)).
		Columns("run_id", "start_time", "config_params").
		Values(runID, startTime.UTC().Format(timeFormat), configJSON).
		ToSql()
	if err != nil {
		return "", fmt.Errorf("failed to build run insert: %w", err)
	}

	if _, err := st.db.Exec(query, args...); err != nil {
		return "", fmt.Errorf("failed to insert alert run: %w", err)
	}
	return runID, nil
}

// EndRun updates the alert run with completion data.
func (st *StoreImpl) EndRun(runID string, endTime time.Time, totalAlerts int) error {
	// Skip for NoneBackend
	if st.backend == schema.NoneBackend || st.db == nil {
		return nil
	}

	// Get the start_time to calculate duration
	query, args, err := st.builder.
		Select("start_time").
		From(quoteTableName(runsTable, st.backend)).
		Where(sq.Eq{"run_id": runID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build run select: %w", err)
	}

	var startTimeStr string
	if err := st.db.QueryRow(query, args...).Scan(&startTimeStr); err != nil {
		return fmt.Errorf("failed to get start_time for run %s: %w", runID, err)
	}
	startTime, err := time.Parse(timeFormat, startTimeStr)
	if err != nil {
		return fmt.Errorf("failed to parse start_time: %w", err)
	}

	durationMs := endTime.Sub(startTime).Milliseconds()

	query, args, err = st.builder.
		Update(quoteTableName(runsTable, st.backend)).
		Set("end_time", endTime.UTC().Format(timeFormat)).
		Set("run_duration_ms", durationMs).
		Set("total_alerts", totalAlerts).
		Where(sq.Eq{"run_id": runID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build run update: %w", err)
	}

	if _, err := st.db.Exec(query, args...); err != nil {
		return fmt.Errorf("failed to update alert run: %w", err)
	}
	return nil
}

// SaveAlerts upserts alerts keyed by (constituent, alert type). A newer
// detection for the same key replaces the stored row.
func (st *StoreImpl) SaveAlerts(runID string, alerts []schema.GeneratedAlert) error {
	// Skip for NoneBackend
	if st.backend == schema.NoneBackend || st.db == nil {
		return nil
	}

	for _, a := range alerts {
		query, args, err := st.builder.
			Insert(quoteTableName(alertsTable, st.backend)).
			Columns("constituent_id", "alert_type", "alert_id", "severity", "title", "description", "detected_at", "run_id").
			Values(a.ConstituentID, string(a.AlertType), a.ID, string(a.Severity), a.Title, a.Description, a.DetectedAt.UTC().Format(timeFormat), runID).
			Suffix(upsertSuffix(st.backend)).
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build alert insert: %w", err)
		}
		if _, err := st.db.Exec(query, args...); err != nil {
			return fmt.Errorf("failed to save alert %s: %w", a.Key(), err)
		}
	}
	return nil
}

// LoadExistingKeys returns the deduplication keys of all stored alerts.
func (st *StoreImpl) LoadExistingKeys() (map[string]struct{}, error) {
	// Nothing stored for NoneBackend
	if st.backend == schema.NoneBackend || st.db == nil {
		return map[string]struct{}{}, nil
	}

	query, args, err := st.builder.
		Select("constituent_id", "alert_type").
		From(quoteTableName(alertsTable, st.backend)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build key select: %w", err)
	}

	rows, err := st.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query alert keys: %w", err)
	}
	defer func() { _ = rows.Close() }()

	keys := make(map[string]struct{})
	for rows.Next() {
		var constituentID, alertType string
		if err := rows.Scan(&constituentID, &alertType); err != nil {
			return nil, fmt.Errorf("failed to scan alert key: %w", err)
		}
		keys[constituentID+":"+alertType] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating alert keys: %w", err)
	}
	return keys, nil
}

// GetStatus returns status information about the alert store.
func (st *StoreImpl) GetStatus() (schema.AlertStoreStatus, error) {
	status := schema.AlertStoreStatus{
		Backend:   string(st.backend),
		Connected: st.db != nil,
	}

	if st.backend == schema.NoneBackend || st.db == nil {
		return status, nil
	}

	quotedAlerts := quoteTableName(alertsTable, st.backend)
	quotedRuns := quoteTableName(runsTable, st.backend)

	row := st.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", quotedAlerts))
	if err := row.Scan(&status.TotalAlerts); err != nil {
		return status, fmt.Errorf("failed to get total alerts: %w", err)
	}

	row = st.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", quotedRuns))
	if err := row.Scan(&status.TotalRuns); err != nil {
		return status, fmt.Errorf("failed to get total runs: %w", err)
	}

	if status.TotalRuns > 0 {
		lastRunQuery := fmt.Sprintf("SELECT run_id, start_time FROM %s ORDER BY start_time DESC LIMIT 1", quotedRuns)
		var lastRunTimeStr string
		if err := st.db.QueryRow(lastRunQuery).Scan(&status.LastRunID, &lastRunTimeStr); err != nil {
			return status, fmt.Errorf("failed to get last run info: %w", err)
		}
		lastRunTime, err := time.Parse(timeFormat, lastRunTimeStr)
		if err != nil {
			return status, fmt.Errorf("failed to parse last run time: %w", err)
		}
		status.LastRunTime = lastRunTime
	}

	if status.TotalAlerts > 0 {
		sevQuery := fmt.Sprintf("SELECT severity, COUNT(*) FROM %s GROUP BY severity", quotedAlerts)
		rows, err := st.db.Query(sevQuery)
		if err != nil {
			return status, fmt.Errorf("failed to get severity counts: %w", err)
		}
		defer func() { _ = rows.Close() }()

		status.BySeverity = make(map[schema.Severity]int64)
		for rows.Next() {
			var sev string
			var count int64
			if err := rows.Scan(&sev, &count); err != nil {
				return status, fmt.Errorf("failed to scan severity count: %w", err)
			}
			status.BySeverity[schema.Severity(sev)] = count
		}
		if err := rows.Err(); err != nil {
			return status, fmt.Errorf("error iterating severity counts: %w", err)
		}
	}

	return status, nil
}

// Clear removes all stored alerts and runs.
func (st *StoreImpl) Clear() error {
	// Skip for NoneBackend
	if st.backend == schema.NoneBackend || st.db == nil {
		return nil
	}

	for _, table := range []string{alertsTable, runsTable} {
		if _, err := st.db.Exec(fmt.Sprintf("DELETE FROM %s", quoteTableName(table, st.backend))); err != nil {
			return fmt.Errorf("failed to clear table %s: %w", table, err)
		}
	}
	return nil
}

// Close closes the underlying DB connection.
func (st *StoreImpl) Close() error {
	if st.db != nil {
		return st.db.Close()
	}
	return nil
}
