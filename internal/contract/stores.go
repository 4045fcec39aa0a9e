package contract

import (
	"time"

	"github.com/sinteticoai/givemetry/schema"
)

// AlertStore persists generated alerts and run bookkeeping across engine
// invocations. Implementations back onto SQLite, MySQL or PostgreSQL; the
// none backend is a no-op.
type AlertStore interface {
	// BeginRun records the start of an alert run and returns its ID.
	BeginRun(startTime time.Time, configParams map[string]any) (string, error)

	// EndRun records the completion of a run.
	EndRun(runID string, endTime time.Time, totalAlerts int) error

	// SaveAlerts upserts alerts keyed by (constituent, alert type).
	SaveAlerts(runID string, alerts []schema.GeneratedAlert) error

	// LoadExistingKeys returns the deduplication keys of stored alerts.
	LoadExistingKeys() (map[string]struct{}, error)

	// GetStatus reports backend connectivity and stored volumes.
	GetStatus() (schema.AlertStoreStatus, error)

	// Clear removes all stored alerts and runs.
	Clear() error

	// Close releases the underlying connection.
	Close() error
}
