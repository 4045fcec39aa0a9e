package alertstore

import (
	"fmt"

	sq "github.com/Masterminds/squirrel"
	json "github.com/goccy/go-json"

	"github.com/sinteticoai/givemetry/schema"
)

// quoteTableName returns the properly quoted table name for the given backend.
func quoteTableName(name string, backend schema.DatabaseBackend) string {
	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf("`%s`", name)
	default: // SQLite and PostgreSQL
		return fmt.Sprintf("%q", name)
	}
}

// builderFor returns a squirrel statement builder with the placeholder
// format the backend expects.
func builderFor(backend schema.DatabaseBackend) sq.StatementBuilderType {
	if backend == schema.PostgreSQLBackend {
		return sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	}
	return sq.StatementBuilder.PlaceholderFormat(sq.Question)
}

// upsertSuffix returns the backend-specific clause that makes an alert
// insert replace the existing row for the same (constituent, alert type).
func upsertSuffix(backend schema.DatabaseBackend) string {
	switch backend {
	case schema.MySQLBackend:
		return `AS new ON DUPLICATE KEY UPDATE
			alert_id = new.alert_id, severity = new.severity, title = new.title,
			description = new.description, detected_at = new.detected_at, run_id = new.run_id`
	default: // SQLite and PostgreSQL
		return `ON CONFLICT (constituent_id, alert_type) DO UPDATE SET
			alert_id = EXCLUDED.alert_id, severity = EXCLUDED.severity, title = EXCLUDED.title,
			description = EXCLUDED.description, detected_at = EXCLUDED.detected_at, run_id = EXCLUDED.run_id`
	}
}

// marshalConfigParams serializes run parameters for the config_params column.
func marshalConfigParams(configParams map[string]any) (string, error) {
	if configParams == nil {
		return "{}", nil
	}
	raw, err := json.Marshal(configParams)
	if err != nil {
		return "", fmt.Errorf("failed to marshal config params: %w", err)
	}
	return string(raw), nil
}
