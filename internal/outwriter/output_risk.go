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

// WriteRiskResults outputs batch lapse risk results, dispatching based on the
// output format configured.
func WriteRiskResults(items []schema.BatchRiskItem, cfg *contract.Config, duration time.Duration) error {
	// Create formatters using helper
	fmtFloat, _ := createFormatters(cfg.Precision)

	// Dispatcher: Handle different output formats
	switch cfg.Output {
	case schema.JSONOut:
		if err := writeRiskJSONResults(items, cfg); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeRiskCSVResults(items, cfg, fmtFloat); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		if err := writeRiskParquetResults(items, cfg); err != nil {
			return fmt.Errorf("error writing parquet output: %w", err)
		}
	default:
		// Default to human-readable table
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeRiskTable(items, cfg, fmtFloat, duration, w)
		}, "Wrote table")
	}
	return nil
}

// writeRiskJSONResults handles opening the file and calling the JSON writer.
func writeRiskJSONResults(items []schema.BatchRiskItem, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeJSONResultsForRisk(w, items)
	}, "Wrote JSON")
}

// writeRiskCSVResults handles opening the file and calling the CSV writer.
func writeRiskCSVResults(items []schema.BatchRiskItem, cfg *contract.Config, fmtFloat func(float64) string) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		header := []string{
			"rank",
			"constituent_id",
			"display_name",
			"score",
			"risk_level",
			"label",
			"confidence",
			"predicted_lapse_window",
			"reference_date",
		}
		return writeCSVWithHeader(w, header, func(csvWriter *csv.Writer) error {
			return writeCSVResultsForRisk(csvWriter, items, cfg, fmtFloat)
		})
	}, "Wrote CSV")
}

// writeRiskParquetResults snapshots scored items to a parquet file.
// Parquet is a file format, so it never falls back to stdout.
func writeRiskParquetResults(items []schema.BatchRiskItem, cfg *contract.Config) error {
	if cfg.OutputFile == "" {
		return fmt.Errorf("parquet output requires an output file path")
	}
	records := parquet.BuildRiskScoreRecords(items, cfg.ReferenceDate)
	if err := parquet.WriteRiskScoresParquet(records, cfg.OutputFile); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "💾 Wrote parquet to %s\n", cfg.OutputFile)
	return nil
}

// writeRiskTable generates and writes the human-readable table.
func writeRiskTable(items []schema.BatchRiskItem, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration, writer io.Writer) error {
	table := tablewriter.NewWriter(writer)

	// 1. Define Headers
	headers := []string{"Rank", "Constituent", "Name", "Score", "Label", "Conf", "Window"}
	if cfg.Explain {
		headers = append(headers, "Factors")
	}
	table.Header(headers)

	// 2. Configure Separators/Borders to match a minimal look
	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignRight
	})

	// 3. Populate Rows
	var data [][]string
	failed := 0
	for _, item := range items {
		if item.Result == nil {
			failed++
			continue
		}
		row := []string{
			strconv.Itoa(len(data) + 1), // Rank
			item.ConstituentID,
			contract.TruncateName(item.DisplayName, getMaxTableNameWidth(cfg)),
			fmtFloat(item.Result.Score),
			riskLabel(cfg, item.Result.Score),
			fmtFloat(item.Result.Confidence),
			item.Result.PredictedLapseWindow,
		}
		if cfg.Explain {
			row = append(row, formatTopRiskFactors(item.Result))
		}
		data = append(data, row)
	}

	// 4. Render the table
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(writer, "Showing top %d constituents by lapse risk (%d failed)\n", len(data), failed); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(writer, "Analysis completed in %v with %d workers\n", duration, cfg.Workers); err != nil {
		return err
	}
	return nil
}

// writeCSVResultsForRisk writes the scored items in CSV format.
func writeCSVResultsForRisk(w *csv.Writer, items []schema.BatchRiskItem, cfg *contract.Config, fmtFloat func(float64) string) error {
	refDate := cfg.ReferenceDate.Format(contract.DateTimeFormat)
	rank := 0
	for _, item := range items {
		if item.Result == nil {
			continue
		}
		rank++
		rec := []string{
			strconv.Itoa(rank),
			item.ConstituentID,
			item.DisplayName,
			fmtFloat(item.Result.Score),
			string(item.Result.RiskLevel),
			contract.GetPlainRiskLabel(item.Result.Score),
			fmtFloat(item.Result.Confidence),
			item.Result.PredictedLapseWindow,
			refDate,
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	return nil
}

// writeJSONResultsForRisk writes the scored items in JSON format.
func writeJSONResultsForRisk(w io.Writer, items []schema.BatchRiskItem) error {
	// 1. Prepare the data structure for JSON with rank and label added
	type JSONRiskResult struct {
		Rank  int    `json:"rank"`
		Label string `json:"label"`
		schema.BatchRiskItem
	}

	output := make([]JSONRiskResult, 0, len(items))
	for _, item := range items {
		if item.Result == nil {
			continue
		}
		output = append(output, JSONRiskResult{
			Rank:          len(output) + 1,
			Label:         contract.GetPlainRiskLabel(item.Result.Score),
			BatchRiskItem: item,
		})
	}

	// 2. Use the generic JSON writer
	return writeJSON(w, output)
}
