package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/sinteticoai/givemetry/internal/contract"
	"github.com/sinteticoai/givemetry/internal/parquet"
	"github.com/sinteticoai/givemetry/schema"
)

// WriteAlertResults outputs generated alerts plus their summary, dispatching
// based on the output format configured.
func WriteAlertResults(alerts []schema.GeneratedAlert, summary schema.AlertSummary, cfg *contract.Config, duration time.Duration) error {
	switch cfg.Output {
	case schema.JSONOut:
		if err := writeAlertsJSONResults(alerts, summary, cfg); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeAlertsCSVResults(alerts, cfg); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		if err := writeAlertsParquetResults(alerts, cfg); err != nil {
			return fmt.Errorf("error writing parquet output: %w", err)
		}
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeAlertsTable(alerts, summary, cfg, duration, w)
		}, "Wrote table")
	}
	return nil
}

// writeAlertsJSONResults emits alerts and the rollup in one document.
func writeAlertsJSONResults(alerts []schema.GeneratedAlert, summary schema.AlertSummary, cfg *contract.Config) error {
	type JSONAlertReport struct {
		Alerts  []schema.GeneratedAlert `json:"alerts"`
		Summary schema.AlertSummary     `json:"summary"`
	}
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeJSON(w, JSONAlertReport{Alerts: alerts, Summary: summary})
	}, "Wrote JSON")
}

// writeAlertsCSVResults handles opening the file and calling the CSV writer.
func writeAlertsCSVResults(alerts []schema.GeneratedAlert, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		header := []string{
			"alert_id",
			"constituent_id",
			"alert_type",
			"severity",
			"title",
			"description",
			"detected_at",
		}
		return writeCSVWithHeader(w, header, func(csvWriter *csv.Writer) error {
			for _, a := range alerts {
				rec := []string{
					a.ID,
					a.ConstituentID,
					string(a.AlertType),
					string(a.Severity),
					a.Title,
					a.Description,
					a.DetectedAt.Format(contract.DateTimeFormat),
				}
				if err := csvWriter.Write(rec); err != nil {
					return err
				}
			}
			return nil
		})
	}, "Wrote CSV")
}

// writeAlertsParquetResults snapshots alerts to a parquet file.
func writeAlertsParquetResults(alerts []schema.GeneratedAlert, cfg *contract.Config) error {
	if cfg.OutputFile == "" {
		return fmt.Errorf("parquet output requires an output file path")
	}
	if err := parquet.WriteAlertsParquet(parquet.BuildAlertRecords(alerts), cfg.OutputFile); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "💾 Wrote parquet to %s\n", cfg.OutputFile)
	return nil
}

// writeAlertsTable generates and writes the human-readable table.
func writeAlertsTable(alerts []schema.GeneratedAlert, summary schema.AlertSummary, cfg *contract.Config, duration time.Duration, writer io.Writer) error {
	table := tablewriter.NewWriter(writer)
	table.Header([]string{"Rank", "Constituent", "Type", "Severity", "Title", "Detected"})
	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for i, a := range alerts {
		data = append(data, []string{
			strconv.Itoa(i + 1),
			a.ConstituentID,
			string(a.AlertType),
			severityLabel(cfg, a.Severity),
			contract.TruncateName(a.Title, getMaxTableNameWidth(cfg)),
			a.DetectedAt.Format(contract.DateOnlyFormat),
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(writer, "%d alerts across %d constituents (high: %d, medium: %d, low: %d)\n",
		summary.Total,
		summary.ConstituentsAffected,
		summary.BySeverity[schema.HighSeverity],
		summary.BySeverity[schema.MediumSeverity],
		summary.BySeverity[schema.LowSeverity]); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(writer, "Detection completed in %v\n", duration); err != nil {
		return err
	}
	return nil
}
