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

// WritePortfolioResults outputs the portfolio balance analysis, dispatching
// based on the output format configured.
func WritePortfolioResults(analysis schema.PortfolioAnalysis, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, _ := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, analysis)
		}, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writePortfolioCSVResults(analysis, cfg, fmtFloat); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		return fmt.Errorf("parquet output is not supported for portfolio analysis")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writePortfolioTable(analysis, cfg, fmtFloat, duration, w)
		}, "Wrote table")
	}
	return nil
}

// writePortfolioCSVResults writes one CSV row per officer.
func writePortfolioCSVResults(analysis schema.PortfolioAnalysis, cfg *contract.Config, fmtFloat func(float64) string) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		header := []string{
			"officer_id",
			"constituent_count",
			"total_capacity",
			"high_priority_count",
			"high_risk_count",
			"workload_score",
			"workload_ratio",
			"classification",
		}
		return writeCSVWithHeader(w, header, func(csvWriter *csv.Writer) error {
			for _, o := range analysis.Officers {
				rec := []string{
					o.OfficerID,
					strconv.Itoa(o.ConstituentCount),
					fmtFloat(o.TotalCapacity),
					strconv.Itoa(o.HighPriorityCount),
					strconv.Itoa(o.HighRiskCount),
					fmtFloat(o.WorkloadScore),
					fmtFloat(o.WorkloadRatio),
					string(o.Classification),
				}
				if err := csvWriter.Write(rec); err != nil {
					return err
				}
			}
			return nil
		})
	}, "Wrote CSV")
}

// writePortfolioTable generates and writes the human-readable table plus the
// balance verdict and any rebalance suggestions.
func writePortfolioTable(analysis schema.PortfolioAnalysis, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration, writer io.Writer) error {
	table := tablewriter.NewWriter(writer)
	table.Header([]string{"Officer", "Count", "Ratio", "Workload", "Class", "HighPri", "HighRisk", "Capacity"})
	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for _, o := range analysis.Officers {
		data = append(data, []string{
			o.OfficerID,
			strconv.Itoa(o.ConstituentCount),
			fmtFloat(o.WorkloadRatio),
			fmtFloat(o.WorkloadScore),
			string(o.Classification),
			strconv.Itoa(o.HighPriorityCount),
			strconv.Itoa(o.HighRiskCount),
			fmtFloat(o.TotalCapacity),
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	verdict := "balanced"
	if !analysis.IsBalanced {
		verdict = "NOT balanced"
	}
	if _, err := fmt.Fprintf(writer, "%d officers, portfolio sizes %d-%d (avg %s): %s\n",
		len(analysis.Officers),
		analysis.MinPortfolioSize,
		analysis.MaxPortfolioSize,
		fmtFloat(analysis.AveragePortfolioSize),
		verdict); err != nil {
		return err
	}

	if len(analysis.Suggestions) > 0 {
		if _, err := fmt.Fprintf(writer, "Rebalance suggestions (%d):\n", len(analysis.Suggestions)); err != nil {
			return err
		}
		for _, s := range analysis.Suggestions {
			if _, err := fmt.Fprintf(writer, "  %s: %s -> %s (%s)\n",
				s.ConstituentID, s.FromOfficerID, s.ToOfficerID, s.Reason); err != nil {
				return err
			}
		}
	}

	if _, err := fmt.Fprintf(writer, "Analysis completed in %v\n", duration); err != nil {
		return err
	}
	return nil
}
