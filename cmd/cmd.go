// Package cmd defines the command-line interface for givemetry.
package cmd

import (
	"github.com/sinteticoai/givemetry/internal/contract"
	"github.com/sinteticoai/givemetry/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(riskCmd)
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(alertsCmd)
	rootCmd.AddCommand(portfolioCmd)
	rootCmd.AddCommand(versionCmd)

	// Add the alerts subcommands to the parent alerts command
	alertsCmd.AddCommand(alertsClearCmd)
	alertsCmd.AddCommand(alertsStatusCmd)
	alertsCmd.AddCommand(alertsMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("constituents", "", "Path to the constituents CSV export")
	rootCmd.PersistentFlags().String("gifts", "", "Path to the gifts CSV export")
	rootCmd.PersistentFlags().String("contacts", "", "Path to the contacts CSV export")
	rootCmd.PersistentFlags().String("as-of", "", "Reference date in YYYY-MM-DD, ISO8601 or time ago")
	rootCmd.PersistentFlags().IntP("limit", "l", contract.DefaultResultLimit, "Number of results to display")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json or parquet")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for numeric columns")
	rootCmd.PersistentFlags().String("profile", "", "Enable profiling and write profiles to files with this prefix")
	rootCmd.PersistentFlags().Int("workers", contract.DefaultWorkers, "Number of concurrent workers")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("alert-backend", string(schema.SQLiteBackend), "Alert store backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("alert-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of riskCmd to Viper
	riskCmd.Flags().Bool("explain", false, "Print per-constituent risk factor breakdown")
	if err := viper.BindPFlags(riskCmd.Flags()); err != nil {
		contract.LogFatal("Error binding risk flags", err)
	}

	// Bind all flags of alertsCmd to Viper
	alertsCmd.Flags().Bool("store", false, "Persist generated alerts and report only new findings")
	alertsCmd.Flags().String("min-severity", "", "Drop alerts below this severity: low, medium or high")
	if err := viper.BindPFlags(alertsCmd.Flags()); err != nil {
		contract.LogFatal("Error binding alerts flags", err)
	}

	// Bind all flags of alertsMigrateCmd to Viper
	alertsMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(alertsMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding alerts migrate flags", err)
	}
}
