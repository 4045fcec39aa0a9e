package cmd

import (
	"github.com/sinteticoai/givemetry/core"
	"github.com/sinteticoai/givemetry/internal/contract"
	"github.com/spf13/cobra"
)

// riskCmd performs batch lapse risk analysis.
var riskCmd = &cobra.Command{
	Use:   "risk [data-dir]",
	Short: "Show the top constituents ranked by lapse risk.",
	Long: `Score every constituent for lapse risk and rank them from highest to lowest.

Combines four weighted behavioral factors into a single risk score:
- Recency: time since the last gift
- Frequency: giving pattern over recent years
- Monetary: trajectory of gift amounts
- Contact: time since the last meaningful interaction

Each score carries a confidence value based on how much history backs it
and a predicted lapse window for prioritizing outreach.

Examples:
  # Score the CSV exports in the current directory
  givemetry risk

  # Point at a data directory and show the top 10
  givemetry risk ./exports --limit 10

  # Include the per-factor breakdown
  givemetry risk --explain

  # Export findings to CSV for the advancement team
  givemetry risk --output csv --output-file at-risk.csv`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteRisk(rootCtx, cfg); err != nil {
			contract.LogFatal("Cannot run risk analysis", err)
		}
	},
}
