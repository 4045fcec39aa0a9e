// Package outwriter has output and writer logic.
package outwriter

import (
	"time"

	"github.com/sinteticoai/givemetry/internal/contract"
	"github.com/sinteticoai/givemetry/schema"
)

// OutWriter provides a unified interface for all output operations.
// It encapsulates the various output formats and provides a clean API for the core logic.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteRisk prints batch lapse risk results using the configured output format.
func (ow *OutWriter) WriteRisk(items []schema.BatchRiskItem, cfg *contract.Config, duration time.Duration) error {
	return WriteRiskResults(items, cfg, duration)
}

// WriteHealth prints the data quality report using the configured output format.
func (ow *OutWriter) WriteHealth(report schema.HealthReport, cfg *contract.Config, duration time.Duration) error {
	return WriteHealthReport(report, cfg, duration)
}

// WriteAlerts prints generated alerts and their summary using the configured output format.
func (ow *OutWriter) WriteAlerts(alerts []schema.GeneratedAlert, summary schema.AlertSummary, cfg *contract.Config, duration time.Duration) error {
	return WriteAlertResults(alerts, summary, cfg, duration)
}

// WritePortfolio prints the portfolio balance analysis using the configured output format.
func (ow *OutWriter) WritePortfolio(analysis schema.PortfolioAnalysis, cfg *contract.Config, duration time.Duration) error {
	return WritePortfolioResults(analysis, cfg, duration)
}
