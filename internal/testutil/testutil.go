// Package testutil holds helpers shared by integration tests.
package testutil

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/adboard/adboard/internal/model"
	"github.com/adboard/adboard/internal/repository"
)

// RequireEnv returns an environment variable or skips the test if missing.
func RequireEnv(t testing.TB, key string) string {
	t.Helper()
	value := os.Getenv(key)
	if value == "" {
		t.Skipf("%s not set", key)
	}
	return value
}

// PostgresURL returns TEST_DATABASE_URL when set, otherwise it starts a
// throwaway PostgreSQL container that is terminated when the test ends.
func PostgresURL(t testing.TB) string {
	t.Helper()

	if dsn := os.Getenv("TEST_DATABASE_URL"); dsn != "" {
		return dsn
	}

	ctx := context.Background()
	container, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("adboard"),
		postgres.WithUsername("user"),
		postgres.WithPassword("1234"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		t.Skipf("postgres container unavailable: %v", err)
	}
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("container connection string: %v", err)
	}
	return dsn
}

// RedisURL returns TEST_REDIS_URL when set, otherwise it starts a throwaway
// Redis container.
func RedisURL(t testing.TB) string {
	t.Helper()

	if url := os.Getenv("TEST_REDIS_URL"); url != "" {
		return url
	}

	ctx := context.Background()
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		t.Skipf("redis container unavailable: %v", err)
	}
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("container host: %v", err)
	}
	port, err := container.MappedPort(ctx, "6379/tcp")
	if err != nil {
		t.Fatalf("container port: %v", err)
	}
	return fmt.Sprintf("redis://%s:%s/0", host, port.Port())
}

const advisoryLockID int64 = 424242

// AcquireDBLock grabs a global advisory lock to serialize DB tests.
func AcquireDBLock(ctx context.Context, pool *pgxpool.Pool) (func() error, error) {
	conn, err := pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}

	if _, err := conn.Exec(ctx, "SELECT pg_advisory_lock($1)", advisoryLockID); err != nil {
		conn.Release()
		return nil, fmt.Errorf("acquire advisory lock: %w", err)
	}

	unlock := func() error {
		defer conn.Release()
		if _, err := conn.Exec(ctx, "SELECT pg_advisory_unlock($1)", advisoryLockID); err != nil {
			return fmt.Errorf("release advisory lock: %w", err)
		}
		return nil
	}

	return unlock, nil
}

// ResetSchema drops every application table and re-applies the migrations.
func ResetSchema(ctx context.Context, pool *pgxpool.Pool, databaseURL string) error {
	if _, err := pool.Exec(ctx, `DROP TABLE IF EXISTS ads, "user", goose_db_version CASCADE`); err != nil {
		return fmt.Errorf("drop tables: %w", err)
	}
	if err := repository.Migrate(ctx, databaseURL); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// ProjectRoot returns the project root directory.
func ProjectRoot() (string, error) {
	_, filename, _, ok := runtime.Caller(0)
	if !ok {
		return "", fmt.Errorf("failed to resolve testutil path")
	}
	root := filepath.Clean(filepath.Join(filepath.Dir(filename), "..", ".."))
	return root, nil
}

// NewTestUser creates an unsaved user with a unique name.
func NewTestUser(t testing.TB, prefix string) *model.User {
	t.Helper()
	return &model.User{
		Name:         UniqueName(prefix),
		PasswordHash: "$2a$10$abcdefghijklmnopqrstuuJ5k8Q3YbC8W0m6b3Zb8y1n2o3p4q5r6",
	}
}

// NewTestAd creates an unsaved ad owned by ownerID.
func NewTestAd(t testing.TB, ownerID int64) *model.Ad {
	t.Helper()
	return &model.Ad{
		Header:  "Bike for sale",
		Text:    "Barely used, blue",
		Price:   1000,
		OwnerID: ownerID,
	}
}

// UniqueName generates a unique user name for tests.
func UniqueName(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, time.Now().UnixNano())
}
