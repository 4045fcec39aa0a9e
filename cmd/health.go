package cmd

import (
	"github.com/sinteticoai/givemetry/core"
	"github.com/sinteticoai/givemetry/internal/contract"
	"github.com/spf13/cobra"
)

// healthCmd performs the data quality analysis.
var healthCmd = &cobra.Command{
	Use:   "health [data-dir]",
	Short: "Report organization-wide data quality.",
	Long: `Compute a data health report across the whole constituent file.

Grades the organization on four categories:
- Completeness: weighted fill rate of profile fields
- Freshness: share of constituents with recent gifts or contacts
- Consistency: share of profiles free of data quality findings
- Coverage: share of constituents assigned to a gift officer

The table view lists only constituents with findings; CSV and JSON output
include every record.

Examples:
  # Grade the CSV exports in the current directory
  givemetry health

  # Export the full per-constituent detail
  givemetry health --output csv --output-file health.csv`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteHealth(rootCtx, cfg); err != nil {
			contract.LogFatal("Cannot run health analysis", err)
		}
	},
}
