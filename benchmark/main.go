// Package main provides a performance benchmarking tool for the givemetry CLI.
// It generates synthetic CSV datasets of different sizes, measures execution
// times across command types, running each test multiple times and treating
// the first successful run as cold and averaging the rest as warm,
// generating CSV output for performance analysis and documentation.
//
// Prerequisites:
// - givemetry binary installed and available in PATH
//
// Usage: go run benchmark/main.go [work-dir]
//
//	work-dir: Directory to generate synthetic datasets in
package main

import (
	"encoding/csv"
	"fmt"
	"math/rand"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// BenchmarkResult holds the result of a benchmark run (cold run and average of warm runs).
type BenchmarkResult struct {
	Dataset  string
	Command  string
	ColdTime string
	WarmTime string
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	WorkDir      string
	Timeout      time.Duration
	Workers      int
	Runs         int
	DatasetSizes map[string]int
}

func main() {
	// Parse command line arguments
	if len(os.Args) != 2 {
		fmt.Printf("Usage: %s [work-dir]\n", os.Args[0])
		os.Exit(1)
	}

	config := BenchmarkConfig{
		WorkDir: os.Args[1],
		Timeout: 5 * time.Minute,
		Workers: 14,
		Runs:    4,
		DatasetSizes: map[string]int{
			"small":  1_000,
			"medium": 10_000,
			"large":  100_000,
		},
	}

	if err := checkPrerequisites(); err != nil {
		fmt.Printf("Prerequisites check failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Generating synthetic datasets in %s...\n", config.WorkDir)
	datasets, err := generateDatasets(config)
	if err != nil {
		fmt.Printf("Failed to generate datasets: %v\n", err)
		os.Exit(1)
	}

	results := runBenchmarks(config, datasets)

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(results)
}

// checkPrerequisites verifies that the givemetry binary exists.
func checkPrerequisites() error {
	if _, err := exec.LookPath("givemetry"); err != nil {
		return fmt.Errorf("givemetry binary not found in PATH")
	}
	return nil
}

// generateDatasets writes one synthetic CSV export set per configured size.
func generateDatasets(config BenchmarkConfig) (map[string]string, error) {
	rng := rand.New(rand.NewSource(42))
	datasets := make(map[string]string, len(config.DatasetSizes))

	for name, size := range config.DatasetSizes {
		dir := filepath.Join(config.WorkDir, name)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
		if err := writeDataset(dir, size, rng); err != nil {
			return nil, fmt.Errorf("dataset %s: %w", name, err)
		}
		fmt.Printf("  %s: %d constituents\n", name, size)
		datasets[name] = dir
	}
	return datasets, nil
}

// writeDataset writes constituents.csv, gifts.csv and contacts.csv for a
// synthetic population of the given size.
func writeDataset(dir string, size int, rng *rand.Rand) error {
	refDate := time.Now()
	officers := []string{"MGO-01", "MGO-02", "MGO-03", "MGO-04", "MGO-05"}
	tiers := []string{"major", "principal", "mid", "annual"}

	constituents, err := os.Create(filepath.Join(dir, "constituents.csv"))
	if err != nil {
		return err
	}
	defer func() { _ = constituents.Close() }()
	gifts, err := os.Create(filepath.Join(dir, "gifts.csv"))
	if err != nil {
		return err
	}
	defer func() { _ = gifts.Close() }()
	contacts, err := os.Create(filepath.Join(dir, "contacts.csv"))
	if err != nil {
		return err
	}
	defer func() { _ = contacts.Close() }()

	cw := csv.NewWriter(constituents)
	gw := csv.NewWriter(gifts)
	xw := csv.NewWriter(contacts)
	defer cw.Flush()
	defer gw.Flush()
	defer xw.Flush()

	_ = cw.Write([]string{"constituent_id", "first_name", "last_name", "email", "estimated_capacity", "portfolio_tier", "assigned_officer_id"})
	_ = gw.Write([]string{"gift_id", "constituent_id", "amount", "gift_date"})
	_ = xw.Write([]string{"contact_id", "constituent_id", "contact_date", "contact_type"})

	giftID, contactID := 0, 0
	for i := range size {
		id := fmt.Sprintf("LU-%06d", i)
		_ = cw.Write([]string{
			id,
			fmt.Sprintf("First%d", i),
			fmt.Sprintf("Last%d", i),
			fmt.Sprintf("donor%d@example.edu", i),
			strconv.Itoa(10_000 + rng.Intn(1_000_000)),
			tiers[rng.Intn(len(tiers))],
			officers[rng.Intn(len(officers))],
		})

		for range rng.Intn(8) {
			giftID++
			date := refDate.AddDate(0, 0, -rng.Intn(5*365))
			_ = gw.Write([]string{
				fmt.Sprintf("G-%d", giftID),
				id,
				strconv.Itoa(10 + rng.Intn(5000)),
				date.Format("2006-01-02"),
			})
		}
		for range rng.Intn(5) {
			contactID++
			date := refDate.AddDate(0, 0, -rng.Intn(3*365))
			_ = xw.Write([]string{
				fmt.Sprintf("C-%d", contactID),
				id,
				date.Format("2006-01-02"),
				"call",
			})
		}
	}

	cw.Flush()
	gw.Flush()
	xw.Flush()
	return cw.Error()
}

// runBenchmarks executes all benchmark tests across generated datasets.
func runBenchmarks(config BenchmarkConfig, datasets map[string]string) []BenchmarkResult {
	var results []BenchmarkResult

	fmt.Printf("Starting benchmark: %d datasets, %v timeout, %d workers, %d runs each\n",
		len(datasets), config.Timeout, config.Workers, config.Runs)

	commands := []string{"risk", "health", "alerts", "portfolio"}
	for name, dir := range datasets {
		fmt.Printf("Benchmarking %s\n", name)
		for _, command := range commands {
			results = append(results, runBenchmarkSuite(config, name, dir, command))
		}
	}

	return results
}

// runBenchmarkSuite runs one command against one dataset, cold then warm.
func runBenchmarkSuite(config BenchmarkConfig, dataset, dir, command string) BenchmarkResult {
	fmt.Printf("Running %s analysis on %s\n", command, dataset)

	cold, times := runBenchmark(config, dir, command)

	warmAvg := "TIMEOUT"
	if len(times) > 0 {
		var sum float64
		for _, t := range times {
			sum += t
		}
		warmAvg = fmt.Sprintf("%.3fs", sum/float64(len(times)))
	}
	coldStr := "TIMEOUT"
	if cold > 0 {
		coldStr = fmt.Sprintf("%.3fs", cold)
	}

	fmt.Printf("  Cold time: %s, Warm average: %s\n", coldStr, warmAvg)

	return BenchmarkResult{
		Dataset:  dataset,
		Command:  command,
		ColdTime: coldStr,
		WarmTime: warmAvg,
	}
}

// runBenchmark executes a givemetry command multiple times and returns cold
// time and warm times.
func runBenchmark(config BenchmarkConfig, dir, command string) (coldTime float64, warmTimes []float64) {
	args := []string{command, dir,
		"--workers", strconv.Itoa(config.Workers),
		"--alert-backend", "none",
	}

	var times []float64
	for run := 1; run <= config.Runs; run++ {
		start := time.Now()

		cmd := exec.Command("givemetry", args...)

		done := make(chan bool)
		var output []byte
		var cmdErr error

		go func() {
			output, cmdErr = cmd.CombinedOutput()
			done <- true
		}()

		select {
		case <-done:
			if cmdErr == nil && isSuccess(output, command) {
				times = append(times, time.Since(start).Seconds())
			}
		case <-time.After(config.Timeout):
			// Timeout - don't add to times
		}
	}

	if len(times) > 0 {
		coldTime = times[0]
		warmTimes = times[1:]
	}
	return
}

// isSuccess checks if command output indicates successful completion.
func isSuccess(output []byte, command string) bool {
	outputStr := string(output)
	if command == "alerts" {
		return strings.Contains(outputStr, "Detection completed in")
	}
	return strings.Contains(outputStr, "Analysis completed in")
}

// saveResults writes benchmark results to a timestamped CSV file.
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("/tmp/givemetry_benchmark_%s.csv", timestamp)

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			fmt.Printf("Warning: failed to close file %s: %v\n", filename, closeErr)
		}
	}()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	// Write header
	if err := writer.Write([]string{"dataset", "cmd", "cold_time", "warm_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	// Write results
	for _, result := range results {
		if err := writer.Write([]string{result.Dataset, result.Command, result.ColdTime, result.WarmTime}); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final benchmark results summary.
func printSummary(results []BenchmarkResult) {
	fmt.Printf("Benchmark complete\n")

	printCommandSummary(results, "risk", "Risk Analysis:")
	printCommandSummary(results, "health", "Health Analysis:")
	printCommandSummary(results, "alerts", "Alerts Analysis:")
	printCommandSummary(results, "portfolio", "Portfolio Analysis:")

	fmt.Printf("Benchmark script completed successfully\n")
}

// printCommandSummary displays results for a specific command type.
func printCommandSummary(results []BenchmarkResult, command, title string) {
	fmt.Printf("%s\n", title)
	for _, result := range results {
		if result.Command == command {
			fmt.Printf("  %-12s: Cold: %s, Warm: %s\n", result.Dataset, result.ColdTime, result.WarmTime)
		}
	}
}
