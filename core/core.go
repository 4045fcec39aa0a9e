// Package core has the orchestration logic that wires ingestion, scoring
// and output together for each engine operation.
package core

import (
	"context"
	"time"

	"github.com/sinteticoai/givemetry/core/algo"
	"github.com/sinteticoai/givemetry/internal/alertstore"
	"github.com/sinteticoai/givemetry/internal/contract"
	"github.com/sinteticoai/givemetry/internal/ingest"
	"github.com/sinteticoai/givemetry/internal/outwriter"
	"github.com/sinteticoai/givemetry/schema"
)

// ExecutorFunc defines the function signature for executing different engine operations.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config) error

// ExecuteRisk runs the batch lapse risk analysis and prints ranked results.
// It serves as the main entry point for the 'risk' command.
func ExecuteRisk(ctx context.Context, cfg *contract.Config) error {
	start := time.Now()
	data, err := ingest.LoadAll(cfg)
	if err != nil {
		return err
	}
	items := CalculateBatchLapseRisk(ctx, cfg, data)
	logBatchFailures(items)
	ranked := algo.RankRiskItems(items, cfg.ResultLimit)
	duration := time.Since(start)
	return outwriter.NewOutWriter().WriteRisk(ranked, cfg, duration)
}

// ExecuteHealth runs the data quality analysis and prints the report.
// It serves as the main entry point for the 'health' command.
func ExecuteHealth(_ context.Context, cfg *contract.Config) error {
	start := time.Now()
	data, err := ingest.LoadAll(cfg)
	if err != nil {
		return err
	}
	report := BuildHealthReport(data, cfg)
	duration := time.Since(start)
	return outwriter.NewOutWriter().WriteHealth(report, cfg, duration)
}

// ExecuteAlerts runs anomaly detection, generates alerts and prints them.
// With persistence enabled it also filters out alerts already stored from
// earlier runs, so repeated invocations stay quiet about known findings.
func ExecuteAlerts(_ context.Context, cfg *contract.Config) error {
	start := time.Now()
	data, err := ingest.LoadAll(cfg)
	if err != nil {
		return err
	}

	alerts := algo.GenerateAlertsForOrganization(data, cfg.ReferenceDate)
	alerts = filterBySeverity(alerts, cfg.MinSeverity)

	if cfg.Store && cfg.AlertBackend != schema.NoneBackend {
		alerts, err = persistAlerts(cfg, start, alerts)
		if err != nil {
			return err
		}
	}

	summary := algo.GetAlertSummary(alerts)
	duration := time.Since(start)
	return outwriter.NewOutWriter().WriteAlerts(alerts, summary, cfg, duration)
}

// ExecutePortfolio runs the officer workload analysis and prints it.
// It serves as the main entry point for the 'portfolio' command.
func ExecutePortfolio(_ context.Context, cfg *contract.Config) error {
	start := time.Now()
	data, err := ingest.LoadAll(cfg)
	if err != nil {
		return err
	}
	analysis := algo.AnalyzePortfolio(data, cfg.ReferenceDate)
	duration := time.Since(start)
	return outwriter.NewOutWriter().WritePortfolio(analysis, cfg, duration)
}

// persistAlerts stores new alerts and returns only the ones not already
// known to the store.
func persistAlerts(cfg *contract.Config, start time.Time, alerts []schema.GeneratedAlert) ([]schema.GeneratedAlert, error) {
	store, err := alertstore.NewAlertStore(cfg.AlertBackend, cfg.AlertDBConnect)
	if err != nil {
		return nil, err
	}
	defer func() { _ = store.Close() }()

	existing, err := store.LoadExistingKeys()
	if err != nil {
		return nil, err
	}
	fresh := algo.FilterNewAlerts(alerts, existing)

	runID, err := store.BeginRun(start, map[string]any{
		"min_severity": string(cfg.MinSeverity),
		"as_of":        cfg.ReferenceDate.Format(contract.DateTimeFormat),
	})
	if err != nil {
		return nil, err
	}
	if err := store.SaveAlerts(runID, fresh); err != nil {
		return nil, err
	}
	if err := store.EndRun(runID, time.Now(), len(fresh)); err != nil {
		return nil, err
	}
	return fresh, nil
}

// filterBySeverity drops alerts below the configured severity floor.
// An empty floor keeps everything.
func filterBySeverity(alerts []schema.GeneratedAlert, floor schema.Severity) []schema.GeneratedAlert {
	if floor == "" {
		return alerts
	}
	minRank := schema.SeverityRank(floor)
	out := make([]schema.GeneratedAlert, 0, len(alerts))
	for _, a := range alerts {
		if schema.SeverityRank(a.Severity) >= minRank {
			out = append(out, a)
		}
	}
	return out
}

// logBatchFailures warns about per-item scoring failures without
// interrupting the run.
func logBatchFailures(items []schema.BatchRiskItem) {
	for _, item := range items {
		if item.Err != nil {
			contract.LogWarn("Skipping constituent "+item.ConstituentID, item.Err)
		}
	}
}
