//go:build integration

// Package integration runs the repositories against real PostgreSQL
// containers started with testcontainers.
package integration

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/subhashana00/E-Commerce-Clothing--WEB-VTON-Reasearch/internal/infrastructure/config"
	"github.com/subhashana00/E-Commerce-Clothing--WEB-VTON-Reasearch/internal/infrastructure/migration"
	"github.com/subhashana00/E-Commerce-Clothing--WEB-VTON-Reasearch/internal/infrastructure/persistence"
	"github.com/subhashana00/E-Commerce-Clothing--WEB-VTON-Reasearch/migrations"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap/zaptest"
)

const (
	testDBName     = "storefront_test"
	testDBUser     = "postgres"
	testDBPassword = "storefront"
)

var (
	sharedContainer   *tcpostgres.PostgresContainer
	sharedContainerMu sync.Mutex
)

// TestDB is a migrated database inside a running container
type TestDB struct {
	*persistence.Database
	Config config.DatabaseConfig
	t      *testing.T
}

// NewTestDB starts a dedicated container, for tests that need the schema
// to themselves (rolling migrations back, for example)
func NewTestDB(t *testing.T) *TestDB {
	t.Helper()
	container := startPostgres(t)
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})
	return connect(t, container)
}

// NewSharedTestDB reuses one container for the package. Callers clean the
// tables they touch with CleanTables.
func NewSharedTestDB(t *testing.T) *TestDB {
	t.Helper()
	sharedContainerMu.Lock()
	if sharedContainer == nil {
		sharedContainer = startPostgres(t)
	}
	container := sharedContainer
	sharedContainerMu.Unlock()
	return connect(t, container)
}

// CleanupSharedContainer stops the shared container. Call it from TestMain.
func CleanupSharedContainer() {
	sharedContainerMu.Lock()
	defer sharedContainerMu.Unlock()
	if sharedContainer == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	_ = sharedContainer.Terminate(ctx)
	sharedContainer = nil
}

// CleanTables empties every application table
func (tdb *TestDB) CleanTables() {
	tdb.t.Helper()
	var tables []string
	err := tdb.DB.Raw(`
		SELECT tablename FROM pg_tables
		WHERE schemaname = 'public' AND tablename != 'schema_migrations'
	`).Scan(&tables).Error
	require.NoError(tdb.t, err)
	for _, table := range tables {
		require.NoError(tdb.t, tdb.DB.Exec(fmt.Sprintf("TRUNCATE TABLE %q CASCADE", table)).Error)
	}
}

// Migrator opens a migrator over this database's connection
func (tdb *TestDB) Migrator() *migration.Migrator {
	tdb.t.Helper()
	sqlDB, err := tdb.SQL()
	require.NoError(tdb.t, err)
	m, err := migration.NewFromFS(sqlDB, migrations.FS, ".", zaptest.NewLogger(tdb.t))
	require.NoError(tdb.t, err)
	return m
}

func startPostgres(t *testing.T) *tcpostgres.PostgresContainer {
	t.Helper()
	container, err := tcpostgres.Run(context.Background(),
		"postgres:16-alpine",
		tcpostgres.WithDatabase(testDBName),
		tcpostgres.WithUsername(testDBUser),
		tcpostgres.WithPassword(testDBPassword),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err, "failed to start PostgreSQL container")
	return container
}

func connect(t *testing.T, container *tcpostgres.PostgresContainer) *TestDB {
	t.Helper()
	ctx := context.Background()

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)
	portNum, err := strconv.Atoi(port.Port())
	require.NoError(t, err)

	cfg := config.DatabaseConfig{
		Driver:          "postgres",
		Host:            host,
		Port:            portNum,
		User:            testDBUser,
		Password:        testDBPassword,
		DBName:          testDBName,
		SSLMode:         "disable",
		MaxOpenConns:    5,
		MaxIdleConns:    2,
		ConnMaxLifetime: 5,
	}
	db, err := persistence.NewDatabase(&cfg)
	require.NoError(t, err, "failed to connect to test database")
	t.Cleanup(func() { _ = db.Close() })

	tdb := &TestDB{Database: db, Config: cfg, t: t}
	require.NoError(t, tdb.Migrator().Up())
	return tdb
}
