//go:build database

package integration

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestBlqdashWithMySQL tests the blqdash CLI with a MySQL backend.
func TestBlqdashWithMySQL(t *testing.T) {
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "mysql:8",
		ExposedPorts: []string{"3306/tcp"},
		Env: map[string]string{
			"MYSQL_ROOT_PASSWORD": "secret123",
			"MYSQL_DATABASE":      "blqdash",
		},
		WaitingFor: wait.ForLog("port: 3306  MySQL Community Server").WithStartupTimeout(60 * time.Second),
	}
	mysqlC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	defer func() { _ = mysqlC.Terminate(ctx) }()

	host, err := mysqlC.Host(ctx)
	require.NoError(t, err)
	port, err := mysqlC.MappedPort(ctx, "3306")
	require.NoError(t, err)

	connStr := fmt.Sprintf("root:secret123@tcp(%s:%s)/blqdash?parseTime=true", host, port.Port())
	runBackendScenario(t, "mysql", connStr)
}

// TestBlqdashWithPostgres tests the blqdash CLI with a PostgreSQL backend.
func TestBlqdashWithPostgres(t *testing.T) {
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:18-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_HOST_AUTH_METHOD": "trust",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}
	pgC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	defer func() { _ = pgC.Terminate(ctx) }()

	host, err := pgC.Host(ctx)
	require.NoError(t, err)
	port, err := pgC.MappedPort(ctx, "5432")
	require.NoError(t, err)

	connStr := fmt.Sprintf("host=%s port=%s user=postgres dbname=postgres sslmode=disable", host, port.Port())
	runBackendScenario(t, "postgresql", connStr)
}

// runBackendScenario drives the cache and view log commands against one database.
func runBackendScenario(t *testing.T, backend, connStr string) {
	t.Setenv("BLQDASH_CACHE_BACKEND", backend)
	t.Setenv("BLQDASH_CACHE_DB_CONNECT", connStr)
	t.Setenv("BLQDASH_VIEWS_BACKEND", backend)
	t.Setenv("BLQDASH_VIEWS_DB_CONNECT", connStr)

	steps := [][]string{
		{"cache", "clear"},
		{"views", "clear"},
		{"views", "migrate"},
		{"views", "migrate", "--target-version", "1"},
		{"views", "migrate"},
		{"trends", "--metrics", "Passengers,Cargo Tons", "--start", "2010"},
		{"trends", "--metrics", "Movements", "--output", "csv"},
		{"volumes", "--volume", "cargo"},
		{"emissions", "--output", "json"},
		{"cache", "status"},
	}
	for _, args := range steps {
		_, err := runCommand(t, args...)
		require.NoError(t, err, "blqdash %v", args)
	}

	out, err := runCommand(t, "views", "status")
	require.NoError(t, err)
	assert.Contains(t, string(out), "Schema Version")
	assert.Contains(t, string(out), "Total Views: 4")

	exportPath := filepath.Join(t.TempDir(), "views.parquet")
	out, err = runCommand(t, "views", "export", "--output-file", exportPath)
	require.NoError(t, err)
	assert.Contains(t, string(out), "Exported 4 views")
}
