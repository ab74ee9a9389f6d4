package db

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

var (
	testDb     *sqlx.DB
	testDbSkip string
	getDbOnce  sync.Once
)

// GetDb hands out the shared test database, started once per package. With no
// POSTGRES_URL and no container runtime the calling test is skipped. The
// container is reaped by testcontainers after the run.
func GetDb(t *testing.T) *sqlx.DB {
	t.Helper()

	getDbOnce.Do(func() {
		url := os.Getenv("POSTGRES_URL")
		if url == "" {
			_, url, testDbSkip = startPostgresContainer()
			if testDbSkip != "" {
				return
			}
		}

		var err error
		testDb, err = sqlx.Open("postgres", url)
		if err != nil {
			testDbSkip = err.Error()
			return
		}

		if err := InitializeDatabaseSchema(testDb); err != nil {
			testDbSkip = err.Error()
		}
	})

	if testDbSkip != "" {
		t.Skipf("test database unavailable: %s", testDbSkip)
	}
	require.NotNil(t, testDb)

	return testDb
}

func startPostgresContainer() (testcontainers.Container, string, string) {
	ctx := context.Background()

	postgresContainer, err := postgres.RunContainer(ctx,
		testcontainers.WithImage("docker.io/postgres:15.2-alpine"),
		postgres.WithDatabase("db"),
		postgres.WithUsername("user"),
		postgres.WithPassword("password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		return nil, "", err.Error()
	}

	connStr, err := postgresContainer.ConnectionString(ctx, "sslmode=disable", "application_name=test")
	if err != nil {
		return nil, "", err.Error()
	}

	return postgresContainer, connStr, ""
}
