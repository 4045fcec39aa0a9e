package cmd

import (
	"fmt"

	"github.com/sinteticoai/givemetry/core"
	"github.com/sinteticoai/givemetry/internal/alertstore"
	"github.com/sinteticoai/givemetry/internal/contract"
	"github.com/sinteticoai/givemetry/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// alertsSetup loads minimal configuration needed for alert store operations.
// This is used by commands that need store access without full shared setup.
func alertsSetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	// Get alert store config values
	backendStr := viper.GetString("alert-backend")
	connStr := viper.GetString("alert-db-connect")

	// Handle empty backend as NoneBackend
	var backend schema.DatabaseBackend
	if backendStr == "" {
		backend = schema.NoneBackend
	} else {
		backend = schema.DatabaseBackend(backendStr)
	}

	// Basic validation for database backends
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	cfg.AlertBackend = backend
	cfg.AlertDBConnect = connStr

	return nil
}

// alertsSetupWrapper wraps alertsSetup to provide PreRunE for alert store commands.
func alertsSetupWrapper(_ *cobra.Command, _ []string) error {
	return alertsSetup()
}

// alertsMigrateSetup loads minimal configuration needed for migrate operations.
// Unlike alertsSetup it resolves the default SQLite path explicitly, so
// migrations can run against a fresh database before any table exists.
func alertsMigrateSetup() error {
	if err := alertsSetup(); err != nil {
		return err
	}

	// For SQLite backend with empty connection string, use default path
	if cfg.AlertBackend == schema.SQLiteBackend && cfg.AlertDBConnect == "" {
		cfg.AlertDBConnect = contract.GetAlertsDBFilePath()
	}

	return nil
}

// alertsMigrateSetupWrapper wraps alertsMigrateSetup to provide PreRunE for migrate command.
func alertsMigrateSetupWrapper(_ *cobra.Command, _ []string) error {
	return alertsMigrateSetup()
}

// openAlertStore connects to the configured alert store backend.
func openAlertStore() (contract.AlertStore, error) {
	return alertstore.NewAlertStore(cfg.AlertBackend, cfg.AlertDBConnect)
}

// alertsCmd performs anomaly detection and alert generation.
var alertsCmd = &cobra.Command{
	Use:   "alerts [data-dir]",
	Short: "Detect anomalies and generate actionable alerts.",
	Long: `Scan every constituent's gift and contact timeline for notable deviations.

Detects four kinds of anomalies:
- Lapse risk crossing the high threshold
- Giving far below estimated capacity (or tier below capacity)
- Sudden silence after a steady contact pattern
- Year-over-year giving decline

With --store, alerts are persisted and repeated runs report only new
findings. At most one live alert exists per constituent and alert type.

Supported backends: SQLite (default), MySQL, PostgreSQL, or None (disabled)

Subcommands:
  status  - Show alert store statistics
  clear   - Remove all stored alerts
  migrate - Run database schema migrations

Examples:
  # One-off scan
  givemetry alerts ./exports

  # Only the urgent findings
  givemetry alerts --min-severity high

  # Persist alerts so the next run stays quiet about known findings
  givemetry alerts --store`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteAlerts(rootCtx, cfg); err != nil {
			contract.LogFatal("Cannot run alerts analysis", err)
		}
	},
}

// alertsClearCmd clears the stored alert data.
var alertsClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all stored alerts and run history",
	Long: `Delete every stored alert and alert run record.

WARNING: This action cannot be undone. After clearing, the next --store
run will report all current findings as new.

Examples:
  # Reset the alert store
  givemetry alerts clear`,
	PreRunE: alertsSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		store, err := openAlertStore()
		if err != nil {
			contract.LogFatal("Failed to open alert store", err)
		}
		defer func() { _ = store.Close() }()

		if err := store.Clear(); err != nil {
			contract.LogFatal("Failed to clear alert data", err)
		}
		fmt.Println("Alert data cleared successfully.")
	},
}

// alertsStatusCmd shows alert store status.
var alertsStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display alert store statistics and connection details",
	Long: `Show detailed information about the alert store.

Displays:
- Backend type and connection status
- Total live alerts by severity
- Total alert runs and the most recent run

Examples:
  # Check alert store status
  givemetry alerts status`,
	PreRunE: alertsSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		store, err := openAlertStore()
		if err != nil {
			contract.LogFatal("Failed to open alert store", err)
		}
		defer func() { _ = store.Close() }()

		status, err := store.GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get alert store status", err)
		}
		alertstore.PrintStatus(status)
	},
}

// alertsMigrateCmd runs database migrations for the alert store.
var alertsMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Manage database schema versions for the alert store.

By default, migrates to the latest version. Use --target-version for specific versions.

Examples:
  # Migrate to latest version (default)
  givemetry alerts migrate

  # Rollback to initial state
  givemetry alerts migrate --target-version 0`,
	PreRunE: alertsMigrateSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		targetVersion := viper.GetInt("target-version")
		if err := alertstore.Migrate(cfg.AlertBackend, cfg.AlertDBConnect, targetVersion); err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
	},
}
