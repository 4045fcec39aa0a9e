package cmd

import (
	"github.com/sinteticoai/givemetry/core"
	"github.com/sinteticoai/givemetry/internal/contract"
	"github.com/spf13/cobra"
)

// portfolioCmd performs the officer workload analysis.
var portfolioCmd = &cobra.Command{
	Use:   "portfolio [data-dir]",
	Short: "Analyze gift officer portfolio balance.",
	Long: `Compare gift officer portfolios and flag workload imbalance.

For each officer with assigned constituents, computes:
- Portfolio size and total estimated capacity
- High-priority (major and principal tier) counts
- High lapse risk counts
- A composite workload score and classification

When portfolios are imbalanced, suggests specific constituents to move
from overloaded officers to underutilized ones. Suggestions are advisory;
assignment data is never modified.

Examples:
  # Check portfolio balance
  givemetry portfolio ./exports

  # Export metrics for leadership reporting
  givemetry portfolio --output json --output-file portfolios.json`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecutePortfolio(rootCtx, cfg); err != nil {
			contract.LogFatal("Cannot run portfolio analysis", err)
		}
	},
}
