package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/sinteticoai/givemetry/internal/contract"
	"github.com/sinteticoai/givemetry/schema"
)

// WriteHealthReport outputs the data quality report, dispatching based on the
// output format configured.
func WriteHealthReport(report schema.HealthReport, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, _ := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, report)
		}, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeHealthCSVResults(report, cfg, fmtFloat); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		return fmt.Errorf("parquet output is not supported for health reports")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeHealthTable(report, cfg, fmtFloat, duration, w)
		}, "Wrote table")
	}
	return nil
}

// writeHealthCSVResults writes one CSV row per constituent.
func writeHealthCSVResults(report schema.HealthReport, cfg *contract.Config, fmtFloat func(float64) string) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		header := []string{
			"constituent_id",
			"display_name",
			"completeness",
			"issue_count",
			"issues",
		}
		return writeCSVWithHeader(w, header, func(csvWriter *csv.Writer) error {
			for _, item := range report.Constituents {
				rec := []string{
					item.ConstituentID,
					item.DisplayName,
					fmtFloat(item.Completeness),
					strconv.Itoa(len(item.Issues)),
					formatIssues(item.Issues),
				}
				if err := csvWriter.Write(rec); err != nil {
					return err
				}
			}
			return nil
		})
	}, "Wrote CSV")
}

// writeHealthTable generates and writes the human-readable table. Only
// constituents with findings get a row; clean profiles are summarized.
func writeHealthTable(report schema.HealthReport, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration, writer io.Writer) error {
	table := tablewriter.NewWriter(writer)
	table.Header([]string{"Constituent", "Name", "Completeness", "Issues"})
	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	clean := 0
	for _, item := range report.Constituents {
		if len(item.Issues) == 0 {
			clean++
			continue
		}
		data = append(data, []string{
			item.ConstituentID,
			contract.TruncateName(item.DisplayName, getMaxTableNameWidth(cfg)),
			fmtFloat(item.Completeness),
			formatIssues(item.Issues),
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(writer, "%d of %d constituents have data quality findings (%d clean)\n",
		len(data), len(report.Constituents), clean); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(writer, "Overall health: %s (grade %s)\n",
		fmtFloat(report.Score.Overall), report.Grade); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(writer, "Completeness %s | Freshness %s | Consistency %s | Coverage %s\n",
		fmtFloat(report.Score.Completeness),
		fmtFloat(report.Score.Freshness),
		fmtFloat(report.Score.Consistency),
		fmtFloat(report.Score.Coverage)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(writer, "Analysis completed in %v\n", duration); err != nil {
		return err
	}
	return nil
}
