//go:build basic

// Package integration contains integration tests for givemetry.
// These tests are excluded from normal test runs due to build tags.
// To run these tests: go test -tags basic ./integration
package integration

import (
	"bytes"
	"encoding/csv"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestRiskCSVVerification runs givemetry risk with CSV output and verifies
// the ranking invariants hold in the exported file.
func TestRiskCSVVerification(t *testing.T) {
	dataDir := writeTestDataDir(t)
	outFile := filepath.Join(t.TempDir(), "risk.csv")

	cmd := exec.Command(getGivemetryBinary(), "risk", dataDir,
		"--output", "csv", "--output-file", outFile, "--alert-backend", "none")
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	require.NoError(t, cmd.Run(), "stderr: %s", stderr.String())

	f, err := os.Open(outFile)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 4) // header + three constituents

	header := rows[0]
	rankIdx := indexOf(t, header, "rank")
	scoreIdx := indexOf(t, header, "score")
	idIdx := indexOf(t, header, "constituent_id")

	// Ranks are sequential and scores never increase down the file.
	prevScore := 1.1
	for i, row := range rows[1:] {
		rank, err := strconv.Atoi(row[rankIdx])
		require.NoError(t, err)
		assert.Equal(t, i+1, rank)

		score, err := strconv.ParseFloat(row[scoreIdx], 64)
		require.NoError(t, err)
		assert.LessOrEqual(t, score, prevScore, "scores must be ranked descending")
		prevScore = score
	}

	// The donor silent since 2022 should top the list.
	assert.Equal(t, "LU-00002", rows[1][idIdx])
}

// TestAlertStoreIdempotency persists alerts to a SQLite store twice and
// verifies the second run reports nothing new.
func TestAlertStoreIdempotency(t *testing.T) {
	dataDir := writeTestDataDir(t)
	dbFile := filepath.Join(t.TempDir(), "alerts.db")

	run := func() string {
		cmd := exec.Command(getGivemetryBinary(), "alerts", dataDir,
			"--store", "--alert-backend", "sqlite", "--alert-db-connect", dbFile)
		output, err := cmd.CombinedOutput()
		require.NoError(t, err, "output: %s", string(output))
		return string(output)
	}

	first := run()
	require.Contains(t, first, "alerts across", "first run should report findings")
	assert.NotContains(t, first, "0 alerts across")

	second := run()
	assert.Contains(t, second, "0 alerts across 0 constituents",
		"second run must stay quiet about known findings")
}

func indexOf(t *testing.T, header []string, name string) int {
	t.Helper()
	for i, h := range header {
		if strings.TrimSpace(h) == name {
			return i
		}
	}
	t.Fatalf("column %q not found in header %v", name, header)
	return -1
}
