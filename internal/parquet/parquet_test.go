package parquet

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sinteticoai/givemetry/schema"
)

var testRef = time.Date(2026, time.January, 15, 0, 0, 0, 0, time.UTC)

func TestRiskScoreRecordStructTags(t *testing.T) {
	// Verify struct tags are properly defined for parquet schema inference
	s := parquet.SchemaOf(new(RiskScoreRecord))
	require.NotNil(t, s)

	expectedColumns := []string{
		"constituent_id",
		"display_name",
		"score",
		"risk_level",
		"confidence",
		"predicted_lapse_window",
		"reference_date",
	}

	for _, colName := range expectedColumns {
		col, ok := s.Lookup(colName)
		require.True(t, ok, "Column %s should exist in schema", colName)
		require.NotNil(t, col, "Column %s should not be nil", colName)
	}
}

func TestAlertRecordStructTags(t *testing.T) {
	s := parquet.SchemaOf(new(AlertRecord))
	require.NotNil(t, s)

	expectedColumns := []string{
		"alert_id",
		"constituent_id",
		"alert_type",
		"severity",
		"title",
		"description",
		"detected_at",
	}

	for _, colName := range expectedColumns {
		col, ok := s.Lookup(colName)
		require.True(t, ok, "Column %s should exist in schema", colName)
		require.NotNil(t, col, "Column %s should not be nil", colName)
	}
}

func TestBuildRiskScoreRecords(t *testing.T) {
	items := []schema.BatchRiskItem{
		{
			ConstituentID: "LU-00001",
			DisplayName:   "Dana Whitfield",
			Result: &schema.LapseRiskResult{
				Score:                0.82,
				RiskLevel:            schema.HighRisk,
				Confidence:           0.4,
				PredictedLapseWindow: "3-6 months",
			},
		},
		{ConstituentID: "LU-00002", Err: errors.New("boom")},
	}

	records := BuildRiskScoreRecords(items, testRef)

	require.Len(t, records, 1) // failed item has nothing to snapshot
	assert.Equal(t, "LU-00001", records[0].ConstituentID)
	assert.Equal(t, 0.82, records[0].Score)
	assert.Equal(t, "high", records[0].RiskLevel)
	assert.Equal(t, testRef, records[0].ReferenceDate)
}

func TestWriteRiskScoresParquetRoundtrip(t *testing.T) {
	tmpDir := t.TempDir()
	outputPath := filepath.Join(tmpDir, "risk_scores.parquet")

	data := []RiskScoreRecord{
		{
			ConstituentID:        "LU-00001",
			DisplayName:          "Dana Whitfield",
			Score:                0.82,
			RiskLevel:            "high",
			Confidence:           0.4,
			PredictedLapseWindow: "3-6 months",
			ReferenceDate:        testRef,
		},
		{
			ConstituentID:        "LU-00002",
			DisplayName:          "Miriam Okafor",
			Score:                0.21,
			RiskLevel:            "low",
			Confidence:           0.7,
			PredictedLapseWindow: "18+ months",
			ReferenceDate:        testRef,
		},
	}

	require.NoError(t, WriteRiskScoresParquet(data, outputPath))

	info, err := os.Stat(outputPath)
	require.NoError(t, err, "Output file should exist")
	assert.Greater(t, info.Size(), int64(0), "Output file should not be empty")

	file, err := os.Open(outputPath)
	require.NoError(t, err)
	defer file.Close()

	reader := parquet.NewGenericReader[RiskScoreRecord](file)
	defer reader.Close()

	readData := make([]RiskScoreRecord, reader.NumRows())
	n, err := reader.Read(readData)
	if err != nil && err != io.EOF {
		require.NoError(t, err)
	}
	require.Equal(t, len(data), n, "Should read all records")
	assert.Equal(t, "LU-00001", readData[0].ConstituentID)
	assert.Equal(t, 0.82, readData[0].Score)
}

func TestWriteAlertsParquet(t *testing.T) {
	tmpDir := t.TempDir()
	outputPath := filepath.Join(tmpDir, "alerts.parquet")

	alerts := []schema.GeneratedAlert{
		{
			ID:            "a-1",
			ConstituentID: "LU-00001",
			AlertType:     schema.LapseRiskAnomaly,
			Severity:      schema.HighSeverity,
			Title:         "High lapse risk",
			Description:   "Dana Whitfield: lapse risk score 0.88",
			DetectedAt:    testRef,
		},
	}

	require.NoError(t, WriteAlertsParquet(BuildAlertRecords(alerts), outputPath))

	info, err := os.Stat(outputPath)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestWriteParquetBadPath(t *testing.T) {
	err := WriteRiskScoresParquet(nil, filepath.Join(t.TempDir(), "no", "such", "dir.parquet"))
	assert.Error(t, err)
}
