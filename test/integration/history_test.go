//go:build integration

package integration

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/milo0914/ChemPatent-Pro/internal/config"
	"github.com/milo0914/ChemPatent-Pro/pkg/errors"
)

// postgresConfig starts a PostgreSQL container and returns a config section
// pointing at it.  The stack applies the migrations on startup.
func postgresConfig(t *testing.T) config.PostgresConfig {
	t.Helper()
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:16-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "test",
				"POSTGRES_PASSWORD": "test",
				"POSTGRES_DB":       "chempatent_it",
			},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)
	portNum, err := strconv.Atoi(port.Port())
	require.NoError(t, err)

	return config.PostgresConfig{
		Enabled:       true,
		Host:          host,
		Port:          portNum,
		User:          "test",
		Password:      "test",
		DBName:        "chempatent_it",
		SSLMode:       "disable",
		MaxConns:      4,
		MigrationPath: "file://../../migrations",
		AutoMigrate:   true,
		Retention:     time.Hour,
	}
}

func TestIntegration_AnalysisHistory(t *testing.T) {
	cfg := baseConfig()
	cfg.Postgres = postgresConfig(t)
	env := startServer(t, cfg)
	ctx := context.Background()

	first, err := env.Client.Claims().Analyze(ctx, englishClaims, "")
	require.NoError(t, err)
	second, err := env.Client.Claims().Analyze(ctx, danglingClaims, "")
	require.NoError(t, err)

	stored, err := env.Client.Claims().GetAnalysis(ctx, first.AnalysisID)
	require.NoError(t, err)
	assert.Equal(t, first.AnalysisID, stored.AnalysisID)
	assert.Equal(t, first.Claims, stored.Claims)
	assert.Equal(t, first.Statistics.MainProtectionType, stored.Statistics.MainProtectionType)

	page, err := env.Client.Claims().ListAnalyses(ctx, 10, 0)
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.Equal(t, second.AnalysisID, page.Items[0].AnalysisID, "newest first")
	assert.Equal(t, len(second.Issues), page.Items[0].IssueCount)

	_, err = env.Client.Claims().GetAnalysis(ctx, "00000000-0000-4000-8000-000000000000")
	assert.True(t, errors.IsNotFound(err))

	checks := env.Infra.Checks()
	require.Len(t, checks, 1)
	assert.Equal(t, "postgres", checks[0].Name)

	assert.Equal(t, int64(2), env.Infra.PruneHistory(ctx, time.Now().Add(2*time.Hour)))
	page, err = env.Client.Claims().ListAnalyses(ctx, 10, 0)
	require.NoError(t, err)
	assert.Empty(t, page.Items)
}

//Personal.AI order the ending
