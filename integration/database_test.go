//go:build database

package integration

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestGivemetryWithMySQL tests the givemetry CLI with a MySQL alert store.
func TestGivemetryWithMySQL(t *testing.T) {
	ctx := context.Background()

	// Start MySQL container
	req := testcontainers.ContainerRequest{
		Image:        "mysql:8",
		ExposedPorts: []string{"3306:3306/tcp"},
		Env: map[string]string{
			"MYSQL_ROOT_PASSWORD": "secret123",
			"MYSQL_DATABASE":      "givemetry",
		},
		WaitingFor: wait.ForLog("port: 3306  MySQL Community Server").WithStartupTimeout(30 * time.Second),
	}
	mysqlC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	defer func() { _ = mysqlC.Terminate(ctx) }()

	// Get connection details
	host, err := mysqlC.Host(ctx)
	require.NoError(t, err)
	port, err := mysqlC.MappedPort(ctx, "3306")
	require.NoError(t, err)

	connStr := fmt.Sprintf("root:secret123@tcp(%s:%s)/givemetry?parseTime=true", host, port.Port())
	runAlertStoreLifecycle(t, "mysql", connStr)
}

// TestGivemetryWithPostgres tests the givemetry CLI with a PostgreSQL alert store.
func TestGivemetryWithPostgres(t *testing.T) {
	ctx := context.Background()

	// Start Postgres container
	req := testcontainers.ContainerRequest{
		Image:        "postgres:18-alpine",
		ExposedPorts: []string{"5432:5432/tcp"},
		Env: map[string]string{
			"POSTGRES_HOST_AUTH_METHOD": "trust",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").WithStartupTimeout(30 * time.Second),
	}
	pgC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	defer func() { _ = pgC.Terminate(ctx) }()
	time.Sleep(5 * time.Second)

	// Get connection details
	host, err := pgC.Host(ctx)
	require.NoError(t, err)
	port, err := pgC.MappedPort(ctx, "5432")
	require.NoError(t, err)

	connStr := fmt.Sprintf("host=%s port=%s user=postgres dbname=postgres", host, port.Port())
	runAlertStoreLifecycle(t, "postgresql", connStr)
}

// runAlertStoreLifecycle exercises migrate, store, status and clear against
// the given backend.
func runAlertStoreLifecycle(t *testing.T, backend, connStr string) {
	t.Helper()

	// Set environment variables
	_ = os.Setenv("GIVEMETRY_ALERT_BACKEND", backend)
	_ = os.Setenv("GIVEMETRY_ALERT_DB_CONNECT", connStr)
	defer func() { _ = os.Unsetenv("GIVEMETRY_ALERT_BACKEND") }()
	defer func() { _ = os.Unsetenv("GIVEMETRY_ALERT_DB_CONNECT") }()

	dataDir := writeTestDataDir(t)

	// Run schema migrations first so tables exist
	require.NoError(t, runGivemetryCommand(t, "alerts", "migrate"))

	// Start from a clean slate
	require.NoError(t, runGivemetryCommand(t, "alerts", "clear"))

	// Persist alerts, twice: the second run must only report new findings
	require.NoError(t, runGivemetryCommand(t, "alerts", dataDir, "--store"))
	require.NoError(t, runGivemetryCommand(t, "alerts", dataDir, "--store"))

	// Check status and clear again
	require.NoError(t, runGivemetryCommand(t, "alerts", "status"))
	require.NoError(t, runGivemetryCommand(t, "alerts", "clear"))
}

func runGivemetryCommand(t *testing.T, args ...string) error {
	binaryPath := getGivemetryBinary()
	cmd := exec.Command(binaryPath, args...)
	cmd.Dir = "../" // Run from project root
	output, err := cmd.CombinedOutput()
	if err != nil {
		t.Logf("Command failed: %s\nOutput: %s", cmd.String(), string(output))
		return err
	}
	return nil
}
