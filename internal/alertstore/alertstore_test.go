package alertstore

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sinteticoai/givemetry/schema"
)

func testAlert(constituentID string, alertType schema.AnomalyType, sev schema.Severity) schema.GeneratedAlert {
	return schema.GeneratedAlert{
		ID:            "a-" + constituentID + "-" + string(alertType),
		ConstituentID: constituentID,
		AlertType:     alertType,
		Severity:      sev,
		Title:         "Test alert",
		Description:   "Generated for store tests",
		DetectedAt:    time.Date(2026, time.January, 15, 0, 0, 0, 0, time.UTC),
	}
}

func TestAlertStore_NoneBackend(t *testing.T) {
	store, err := NewAlertStore(schema.NoneBackend, "")
	require.NoError(t, err)
	require.NotNil(t, store)

	// BeginRun should return an empty ID for NoneBackend
	runID, err := store.BeginRun(time.Now(), map[string]any{"test": "value"})
	assert.NoError(t, err)
	assert.Empty(t, runID)

	// Other operations should not error
	assert.NoError(t, store.SaveAlerts(runID, []schema.GeneratedAlert{testAlert("LU-1", schema.LapseRiskAnomaly, schema.HighSeverity)}))
	assert.NoError(t, store.EndRun(runID, time.Now(), 1))

	keys, err := store.LoadExistingKeys()
	assert.NoError(t, err)
	assert.Empty(t, keys)

	assert.NoError(t, store.Clear())
	assert.NoError(t, store.Close())
}

func TestAlertStore_UnsupportedBackend(t *testing.T) {
	_, err := NewAlertStore(schema.DatabaseBackend("oracle"), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported alert backend")
}

func TestAlertStore_SQLiteRoundtrip(t *testing.T) {
	store, err := NewAlertStore(schema.SQLiteBackend, filepath.Join(t.TempDir(), "alerts.db"))
	require.NoError(t, err)
	require.NotNil(t, store)
	defer func() { _ = store.Close() }()

	startTime := time.Now()
	runID, err := store.BeginRun(startTime, map[string]any{"min_severity": "low"})
	require.NoError(t, err)
	require.NotEmpty(t, runID)

	alerts := []schema.GeneratedAlert{
		testAlert("LU-00001", schema.LapseRiskAnomaly, schema.HighSeverity),
		testAlert("LU-00001", schema.SuddenSilenceAnomaly, schema.MediumSeverity),
		testAlert("LU-00002", schema.GivingDropAnomaly, schema.HighSeverity),
	}
	require.NoError(t, store.SaveAlerts(runID, alerts))
	require.NoError(t, store.EndRun(runID, time.Now(), len(alerts)))

	keys, err := store.LoadExistingKeys()
	require.NoError(t, err)
	assert.Len(t, keys, 3)
	assert.Contains(t, keys, "LU-00001:lapse_risk")
	assert.Contains(t, keys, "LU-00002:giving_drop")

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.True(t, status.Connected)
	assert.Equal(t, int64(3), status.TotalAlerts)
	assert.Equal(t, int64(1), status.TotalRuns)
	assert.Equal(t, runID, status.LastRunID)
	assert.Equal(t, int64(2), status.BySeverity[schema.HighSeverity])
	assert.Equal(t, int64(1), status.BySeverity[schema.MediumSeverity])
}

func TestAlertStore_UpsertReplacesSameKey(t *testing.T) {
	store, err := NewAlertStore(schema.SQLiteBackend, filepath.Join(t.TempDir(), "alerts.db"))
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	runID, err := store.BeginRun(time.Now(), nil)
	require.NoError(t, err)

	first := testAlert("LU-00001", schema.LapseRiskAnomaly, schema.MediumSeverity)
	require.NoError(t, store.SaveAlerts(runID, []schema.GeneratedAlert{first}))

	// Re-detection of the same key escalates in place instead of duplicating
	second := first
	second.ID = "a-replacement"
	second.Severity = schema.HighSeverity
	require.NoError(t, store.SaveAlerts(runID, []schema.GeneratedAlert{second}))

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, int64(1), status.TotalAlerts)
	assert.Equal(t, int64(1), status.BySeverity[schema.HighSeverity])
	assert.Zero(t, status.BySeverity[schema.MediumSeverity])
}

func TestAlertStore_Clear(t *testing.T) {
	store, err := NewAlertStore(schema.SQLiteBackend, filepath.Join(t.TempDir(), "alerts.db"))
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	runID, err := store.BeginRun(time.Now(), nil)
	require.NoError(t, err)
	require.NoError(t, store.SaveAlerts(runID, []schema.GeneratedAlert{
		testAlert("LU-00001", schema.LapseRiskAnomaly, schema.HighSeverity),
	}))

	require.NoError(t, store.Clear())

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.Zero(t, status.TotalAlerts)
	assert.Zero(t, status.TotalRuns)

	keys, err := store.LoadExistingKeys()
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestAlertStore_MultipleRuns(t *testing.T) {
	store, err := NewAlertStore(schema.SQLiteBackend, filepath.Join(t.TempDir(), "alerts.db"))
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	base := time.Now()
	var lastRunID string
	for i := range 3 {
		runID, err := store.BeginRun(base.Add(time.Duration(i)*time.Second), map[string]any{"run": i})
		require.NoError(t, err)
		require.NoError(t, store.EndRun(runID, base.Add(time.Duration(i)*time.Second+time.Millisecond), 0))
		lastRunID = runID
	}

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, int64(3), status.TotalRuns)
	assert.Equal(t, lastRunID, status.LastRunID)
}

func TestMigrate_SQLiteUpAndDown(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "migrate.db")

	require.NoError(t, Migrate(schema.SQLiteBackend, dbPath, -1))

	// Tables from the migration are usable
	store, err := NewAlertStore(schema.SQLiteBackend, dbPath)
	require.NoError(t, err)
	runID, err := store.BeginRun(time.Now(), nil)
	require.NoError(t, err)
	require.NotEmpty(t, runID)
	require.NoError(t, store.Close())

	require.NoError(t, Migrate(schema.SQLiteBackend, dbPath, 0))
}

func TestMigrate_NoneBackendRejected(t *testing.T) {
	err := Migrate(schema.NoneBackend, "", -1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not supported")
}

func TestQuoteTableName(t *testing.T) {
	assert.Equal(t, "`givemetry_alerts`", quoteTableName("givemetry_alerts", schema.MySQLBackend))
	assert.Equal(t, `"givemetry_alerts"`, quoteTableName("givemetry_alerts", schema.PostgreSQLBackend))
	assert.Equal(t, `"givemetry_alerts"`, quoteTableName("givemetry_alerts", schema.SQLiteBackend))
}

func TestMarshalConfigParams(t *testing.T) {
	out, err := marshalConfigParams(nil)
	require.NoError(t, err)
	assert.Equal(t, "{}", out)

	out, err = marshalConfigParams(map[string]any{"limit": 25})
	require.NoError(t, err)
	assert.JSONEq(t, `{"limit": 25}`, out)
}
