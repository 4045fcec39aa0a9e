//go:build basic || database

package integration

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"testing"
)

var (
	// sharedBinaryPath holds the path to a shared givemetry binary built once for all tests.
	sharedBinaryPath string

	// buildOnce ensures we only build the binary once.
	buildOnce sync.Once

	// buildMutex protects the shared binary path.
	buildMutex sync.Mutex

	// tempDir holds the temp directory for cleanup.
	tempDir string
)

// TestMain handles setup and cleanup for all integration tests.
func TestMain(m *testing.M) {
	// Run all tests
	code := m.Run()

	// Cleanup the shared binary after all tests
	if tempDir != "" {
		_ = os.RemoveAll(tempDir)
	}

	os.Exit(code)
}

// getGivemetryBinary returns the path to the givemetry binary, building it once if needed.
func getGivemetryBinary() string {
	buildMutex.Lock()
	defer buildMutex.Unlock()

	buildOnce.Do(func() {
		// Create a temp directory for the binary
		var err error
		tempDir, err = os.MkdirTemp("", "givemetry-integration-*")
		if err != nil {
			panic(fmt.Sprintf("failed to create temp dir: %v", err))
		}

		binaryPath := filepath.Join(tempDir, "givemetry")
		buildCmd := exec.Command("go", "build", "-o", binaryPath, "./cmd/givemetry")
		buildCmd.Dir = ".." // Build from parent directory (project root)
		err = buildCmd.Run()
		if err != nil {
			panic(fmt.Sprintf("failed to build givemetry: %v", err))
		}

		sharedBinaryPath = binaryPath
	})

	return sharedBinaryPath
}

// writeTestDataDir writes a small but realistic CSV export set and returns
// the directory.
func writeTestDataDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	files := map[string]string{
		"constituents.csv": "constituent_id,first_name,last_name,email,estimated_capacity,portfolio_tier,assigned_officer_id\n" +
			"LU-00001,Dana,Whitfield,dana@example.edu,50000,major,MGO-01\n" +
			"LU-00002,Miriam,Okafor,,600000,annual,MGO-01\n" +
			"LU-00003,Iris,Calloway,iris@example.edu,25000,mid,MGO-02\n",
		"gifts.csv": "gift_id,constituent_id,amount,gift_date\n" +
			"G-1,LU-00001,500.00,2025-11-02\n" +
			"G-2,LU-00002,100,2022-03-09\n" +
			"G-3,LU-00003,250,2025-06-20\n",
		"contacts.csv": "contact_id,constituent_id,contact_date,contact_type\n" +
			"C-1,LU-00001,2025-12-01,meeting\n" +
			"C-2,LU-00003,2025-07-01,call\n",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatalf("failed to write %s: %v", name, err)
		}
	}
	return dir
}
