package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/cacildafilmes/cacilda/internal/database"
	"github.com/cacildafilmes/cacilda/internal/migrations"
)

const (
	pgImage    = "postgres:17-alpine"
	pgUser     = "cacilda"
	pgPassword = "cacilda"
	pgDatabase = "cacilda"
)

// PostgresContainer is a throwaway Postgres used by repository tests.
type PostgresContainer struct {
	Container testcontainers.Container
	Host      string
	Port      string
}

// NewPostgresContainer starts Postgres in Docker. Tests are skipped under
// -short since they need a Docker daemon.
func NewPostgresContainer(ctx context.Context, t *testing.T) *PostgresContainer {
	t.Helper()
	if testing.Short() {
		t.Skip("postgres container tests skipped in short mode")
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        pgImage,
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     pgUser,
				"POSTGRES_PASSWORD": pgPassword,
				"POSTGRES_DB":       pgDatabase,
			},
			// The entrypoint restarts the server once after init.
			WaitingFor: wait.ForAll(
				wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
				wait.ForListeningPort("5432/tcp"),
			).WithStartupTimeout(time.Minute),
		},
		Started: true,
	})
	if err != nil {
		t.Fatalf("start postgres container: %v", err)
	}

	pc := &PostgresContainer{Container: container}
	if pc.Host, err = container.Host(ctx); err != nil {
		t.Fatalf("postgres container host: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		t.Fatalf("postgres container port: %v", err)
	}
	pc.Port = port.Port()

	return pc
}

// ConnectionString returns a DSN for the container.
func (pc *PostgresContainer) ConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		pgUser, pgPassword, pc.Host, pc.Port, pgDatabase)
}

func (pc *PostgresContainer) Terminate(ctx context.Context) error {
	return pc.Container.Terminate(ctx)
}

// NewTestPool opens a pool through database.NewPool and applies the embedded
// migrations. The port can accept connections slightly before Postgres does,
// so opening is retried.
func NewTestPool(ctx context.Context, t *testing.T, pc *PostgresContainer) *pgxpool.Pool {
	t.Helper()

	cfg := database.Config{URL: pc.ConnectionString(), MaxConns: 4, PingTimeout: 2 * time.Second}

	var (
		pool *pgxpool.Pool
		err  error
	)
	for attempt := 1; attempt <= 5; attempt++ {
		if pool, err = database.NewPool(ctx, cfg); err == nil {
			break
		}
		time.Sleep(time.Duration(attempt) * 500 * time.Millisecond)
	}
	if err != nil {
		t.Fatalf("connect to postgres container: %v", err)
	}

	if _, err := migrations.Up(pc.ConnectionString(), nil); err != nil {
		pool.Close()
		t.Fatalf("apply migrations: %v", err)
	}

	return pool
}

// TruncateAll empties every application table and resets identities.
func TruncateAll(ctx context.Context, pool *pgxpool.Pool) error {
	const stmt = `TRUNCATE TABLE assistant_sessions, videosprod, videos, knowledge_base_prod, knowledge_base RESTART IDENTITY CASCADE`
	if _, err := pool.Exec(ctx, stmt); err != nil {
		return fmt.Errorf("truncate tables: %w", err)
	}
	return nil
}
