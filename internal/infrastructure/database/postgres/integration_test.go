//go:build integration

// Integration tests for the pool, the migrations and the analysis repository.
// They require Docker and are gated behind the "integration" build tag.
package postgres_test

import (
	"context"
	"fmt"
	"strconv"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/milo0914/ChemPatent-Pro/internal/config"
	"github.com/milo0914/ChemPatent-Pro/internal/infrastructure/database/postgres"
	"github.com/milo0914/ChemPatent-Pro/internal/infrastructure/database/postgres/repositories"
	"github.com/milo0914/ChemPatent-Pro/internal/infrastructure/monitoring/logging"
	appErrors "github.com/milo0914/ChemPatent-Pro/pkg/errors"
	"github.com/milo0914/ChemPatent-Pro/pkg/types/patent"
)

const migrationsPath = "file://../../../../migrations"

// startPostgres launches a PostgreSQL 16 container, applies the migrations
// and returns a connected pool.
func startPostgres(t *testing.T) *postgres.Connection {
	t.Helper()
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:16-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "test",
				"POSTGRES_PASSWORD": "test",
				"POSTGRES_DB":       "chempatent_test",
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

	cfg := config.PostgresConfig{
		Enabled: true, Host: host, Port: portNum, User: "test", Password: "test",
		DBName: "chempatent_test", SSLMode: "disable", MaxConns: 4,
	}
	require.NoError(t, postgres.RunMigrations(cfg.DSN(), migrationsPath))

	version, dirty, err := postgres.MigrationStatus(cfg.DSN(), migrationsPath)
	require.NoError(t, err)
	assert.Equal(t, uint(1), version)
	assert.False(t, dirty)

	conn, err := postgres.NewConnection(ctx, cfg, logging.NewNopLogger())
	require.NoError(t, err)
	t.Cleanup(conn.Close)
	return conn
}

func TestIntegration_AnalysisRepositoryRoundTrip(t *testing.T) {
	conn := startPostgres(t)
	ctx := context.Background()
	require.NoError(t, conn.HealthCheck(ctx))

	repo := repositories.NewAnalysisRepository(conn.Pool(), logging.NewNopLogger(), nil)

	base := time.Now().UTC().Truncate(time.Millisecond)
	var ids []string
	for i := 0; i < 3; i++ {
		res := &patent.AnalysisResult{
			AnalysisID:  uuid.NewString(),
			CreatedAt:   base.Add(time.Duration(i) * time.Minute),
			Fingerprint: fmt.Sprintf("fp-%d", i),
			AnalysisResponse: &patent.AnalysisResponse{
				TotalClaims:       i + 1,
				Claims:            []patent.ClaimDTO{},
				IndependentClaims: []int{1},
				DependentClaims:   []int{},
				Issues:            []patent.IssueDTO{},
				Suggestions:       []string{},
				Language:          "en",
			},
		}
		require.NoError(t, repo.Save(ctx, res))
		require.NoError(t, repo.Save(ctx, res), "saving twice is a no-op")
		ids = append(ids, res.AnalysisID)
	}

	got, err := repo.FindByID(ctx, ids[1])
	require.NoError(t, err)
	assert.Equal(t, 2, got.TotalClaims)
	assert.Equal(t, "fp-1", got.Fingerprint)
	assert.True(t, got.CreatedAt.Equal(base.Add(time.Minute)))

	_, err = repo.FindByID(ctx, uuid.NewString())
	assert.True(t, appErrors.IsNotFound(err))
	_, err = repo.FindByID(ctx, "not-a-uuid")
	assert.True(t, appErrors.IsNotFound(err))

	items, err := repo.List(ctx, 2, 0)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, ids[2], items[0].AnalysisID)
	assert.Equal(t, ids[1], items[1].AnalysisID)

	n, err := repo.DeleteOlderThan(ctx, base.Add(30*time.Second))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestIntegration_WithTransaction(t *testing.T) {
	conn := startPostgres(t)
	ctx := context.Background()
	pool := conn.Pool()

	_, err := pool.Exec(ctx, "CREATE TABLE tx_probe (id INT PRIMARY KEY)")
	require.NoError(t, err)

	require.NoError(t, postgres.WithTransaction(ctx, pool, func(tx pgx.Tx, txCtx context.Context) error {
		_, err := tx.Exec(txCtx, "INSERT INTO tx_probe VALUES (1)")
		return err
	}))

	err = postgres.WithTransaction(ctx, pool, func(tx pgx.Tx, txCtx context.Context) error {
		if _, err := tx.Exec(txCtx, "INSERT INTO tx_probe VALUES (2)"); err != nil {
			return err
		}
		return fmt.Errorf("intentional error for rollback test")
	})
	require.Error(t, err)

	assert.Panics(t, func() {
		_ = postgres.WithTransaction(ctx, pool, func(tx pgx.Tx, txCtx context.Context) error {
			_, _ = tx.Exec(txCtx, "INSERT INTO tx_probe VALUES (3)")
			panic("intentional panic")
		})
	})

	var count int
	require.NoError(t, pool.QueryRow(ctx, "SELECT COUNT(*) FROM tx_probe").Scan(&count))
	assert.Equal(t, 1, count)
}

//Personal.AI order the ending
