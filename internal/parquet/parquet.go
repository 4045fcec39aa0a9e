// Package parquet provides data structures and functions for exporting
// analytics snapshots to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"time"

	"github.com/parquet-go/parquet-go"

	"github.com/sinteticoai/givemetry/schema"
)

// RiskScoreRecord is one constituent's lapse risk snapshot in a batch run.
type RiskScoreRecord struct {
	// ConstituentID is the CRM identifier of the constituent
	ConstituentID string `parquet:"constituent_id,snappy"`

	// DisplayName is the constituent's human-readable name
	DisplayName string `parquet:"display_name,snappy"`

	// Score is the composite lapse risk in [0,1]
	Score float64 `parquet:"score,snappy"`

	// RiskLevel is the bucketed risk label (low, medium, high)
	RiskLevel string `parquet:"risk_level,snappy"`

	// Confidence reflects how much history backs the score, [0,1]
	Confidence float64 `parquet:"confidence,snappy"`

	// PredictedLapseWindow is the categorical lapse horizon
	PredictedLapseWindow string `parquet:"predicted_lapse_window,snappy"`

	// ReferenceDate is the "now" the run was anchored to
	ReferenceDate time.Time `parquet:"reference_date,snappy"`
}

// AlertRecord is one generated alert in an organization-wide alert run.
type AlertRecord struct {
	// AlertID is the unique identifier assigned at generation time
	AlertID string `parquet:"alert_id,snappy"`

	// ConstituentID is the CRM identifier of the affected constituent
	ConstituentID string `parquet:"constituent_id,snappy"`

	// AlertType is the anomaly rule that produced the alert
	AlertType string `parquet:"alert_type,snappy"`

	// Severity is the alert severity (low, medium, high)
	Severity string `parquet:"severity,snappy"`

	// Title is the short human-readable alert headline
	Title string `parquet:"title,snappy"`

	// Description is the full alert text
	Description string `parquet:"description,snappy"`

	// DetectedAt is the reference date of the detecting run
	DetectedAt time.Time `parquet:"detected_at,snappy"`
}

// BuildRiskScoreRecords flattens batch risk items into export records.
// Failed items are skipped; they have no score to snapshot.
func BuildRiskScoreRecords(items []schema.BatchRiskItem, referenceDate time.Time) []RiskScoreRecord {
	records := make([]RiskScoreRecord, 0, len(items))
	for _, item := range items {
		if item.Result == nil {
			continue
		}
		records = append(records, RiskScoreRecord{
			ConstituentID:        item.ConstituentID,
			DisplayName:          item.DisplayName,
			Score:                item.Result.Score,
			RiskLevel:            string(item.Result.RiskLevel),
			Confidence:           item.Result.Confidence,
			PredictedLapseWindow: item.Result.PredictedLapseWindow,
			ReferenceDate:        referenceDate,
		})
	}
	return records
}

// BuildAlertRecords flattens generated alerts into export records.
func BuildAlertRecords(alerts []schema.GeneratedAlert) []AlertRecord {
	records := make([]AlertRecord, 0, len(alerts))
	for _, a := range alerts {
		records = append(records, AlertRecord{
			AlertID:       a.ID,
			ConstituentID: a.ConstituentID,
			AlertType:     string(a.AlertType),
			Severity:      string(a.Severity),
			Title:         a.Title,
			Description:   a.Description,
			DetectedAt:    a.DetectedAt,
		})
	}
	return records
}

// WriteRiskScoresParquet writes risk score records to a Parquet file.
func WriteRiskScoresParquet(data []RiskScoreRecord, outputPath string) error {
	return writeParquet(data, outputPath)
}

// WriteAlertsParquet writes alert records to a Parquet file.
func WriteAlertsParquet(data []AlertRecord, outputPath string) error {
	return writeParquet(data, outputPath)
}

// writeParquet writes any record slice to a Parquet file using struct
// schema inference from the record type's tags.
func writeParquet[T any](data []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := parquet.NewGenericWriter[T](file)
	defer func() { _ = writer.Close() }()

	if _, err := writer.Write(data); err != nil {
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}

	return nil
}
