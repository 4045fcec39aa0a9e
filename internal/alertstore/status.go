package alertstore

import (
	"fmt"

	"github.com/sinteticoai/givemetry/schema"
)

// PrintStatus prints alert store status information.
func PrintStatus(status schema.AlertStoreStatus) {
	fmt.Printf("Alert Backend: %s\n", status.Backend)
	fmt.Printf("Connected: %t\n", status.Connected)
	if !status.Connected {
		return
	}
	fmt.Printf("Total Alerts: %d\n", status.TotalAlerts)
	fmt.Printf("Total Runs: %d\n", status.TotalRuns)
	if status.TotalRuns > 0 {
		fmt.Printf("Last Run ID: %s\n", status.LastRunID)
		fmt.Printf("Last Run: %s\n", status.LastRunTime.Format("2006-01-02 15:04:05"))
	}
	if len(status.BySeverity) > 0 {
		fmt.Println("Alerts by Severity:")
		for _, sev := range []schema.Severity{schema.HighSeverity, schema.MediumSeverity, schema.LowSeverity} {
			if count, ok := status.BySeverity[sev]; ok {
				fmt.Printf("  %s: %d\n", sev, count)
			}
		}
	}
}
