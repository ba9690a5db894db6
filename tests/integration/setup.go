//go:build integration

package integration

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"studio-booking/internal/infra/db"
	"studio-booking/internal/pkg/config"

	"github.com/docker/go-connections/nat"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

var (
	postgresOnce      sync.Once
	postgresContainer testcontainers.Container

	// testCfg supplies the credentials and ambient settings shared by the
	// container bootstrap and every per-test pool.
	testCfg = config.NewTestConfig()
)

// setupDatabase starts the shared postgres container (once per process),
// creates a fresh database for the calling test, and applies the schema.
func setupDatabase(t *testing.T) *pgxpool.Pool {
	t.Helper()
	host, port := startPostgresOnce(t)

	dbName := "testdb_" + strings.ReplaceAll(uuid.New().String(), "-", "")

	adminDSN := fmt.Sprintf("postgres://%s:%s@%s:%s/postgres?sslmode=disable",
		testCfg.DB.User, testCfg.DB.Password, host, port.Port())

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	adminPool, err := pgxpool.New(ctx, adminDSN)
	require.NoError(t, err)
	defer adminPool.Close()

	_, err = adminPool.Exec(ctx, "CREATE DATABASE "+dbName)
	require.NoError(t, err)

	t.Cleanup(func() {
		cleanupCtx, cleanupCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cleanupCancel()
		cleanupPool, err := pgxpool.New(cleanupCtx, adminDSN)
		if err != nil {
			return
		}
		defer cleanupPool.Close()
		_, _ = cleanupPool.Exec(cleanupCtx, "DROP DATABASE IF EXISTS "+dbName)
	})

	cfg := testCfg.DB
	cfg.Host = host
	cfg.Port = port.Port()
	cfg.DBName = dbName

	pool, cleanup, err := db.Connect(ctx, cfg)
	require.NoError(t, err)
	t.Cleanup(cleanup)

	require.NoError(t, db.ApplySchema(ctx, pool))

	return pool
}

func startPostgresOnce(t *testing.T) (string, nat.Port) {
	t.Helper()
	postgresOnce.Do(func() {
		req := testcontainers.ContainerRequest{
			Image:        "postgres:17",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     testCfg.DB.User,
				"POSTGRES_PASSWORD": testCfg.DB.Password,
				"POSTGRES_DB":       "postgres",
			},
			Tmpfs: map[string]string{
				"/var/lib/postgresql/data": "rw,size=512m",
			},
			Cmd: []string{
				"postgres",
				"-c", "fsync=off",
				"-c", "synchronous_commit=off",
				"-c", "max_connections=200",
			},
			WaitingFor: wait.ForSQL("5432/tcp", "pgx", func(host string, port nat.Port) string {
				return fmt.Sprintf("postgres://%s:%s@%s:%s/postgres?sslmode=disable",
					testCfg.DB.User, testCfg.DB.Password, host, port.Port())
			}).WithStartupTimeout(60 * time.Second),
			Labels: map[string]string{"purpose": "integration-tests"},
		}

		ctx, cancel := context.WithTimeout(context.Background(), 180*time.Second)
		defer cancel()

		var err error
		postgresContainer, err = testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
			ContainerRequest: req,
			Started:          true,
		})
		require.NoError(t, err)
	})

	ctx := context.Background()
	mappedPort, err := postgresContainer.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)
	host, err := postgresContainer.Host(ctx)
	require.NoError(t, err)
	return host, mappedPort
}

// --- fixtures ---

type fixtures struct {
	StudioID    uuid.UUID
	RoomID      uuid.UUID
	EquipmentID uuid.UUID
	ClientID    uuid.UUID
	StaffID     uuid.UUID
	AdminID     uuid.UUID
}

// bcrypt hash of "password123", precomputed so fixtures don't pay the
// hashing cost on every test.
const fixturePasswordHash = "$2a$12$uhAjVE9f92IGYv3E25pJNetg.27lVt0p7jmLWjqjmhOg92ldPS0A."

func seedFixtures(t *testing.T, pool *pgxpool.Pool) fixtures {
	t.Helper()
	ctx := context.Background()

	f := fixtures{
		StudioID:    uuid.New(),
		RoomID:      uuid.New(),
		EquipmentID: uuid.New(),
		ClientID:    uuid.New(),
		StaffID:     uuid.New(),
		AdminID:     uuid.New(),
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO studios (id, name) VALUES ($1, 'Test Studio')`, f.StudioID)
	require.NoError(t, err)

	_, err = pool.Exec(ctx,
		`INSERT INTO rooms (id, studio_id, name, capacity, hourly_rate_cents)
		 VALUES ($1, $2, 'Room A', 10, 6000)`, f.RoomID, f.StudioID)
	require.NoError(t, err)

	_, err = pool.Exec(ctx,
		`INSERT INTO equipment (id, studio_id, name, stock)
		 VALUES ($1, $2, 'Neumann U87', 2)`, f.EquipmentID, f.StudioID)
	require.NoError(t, err)

	for _, u := range []struct {
		id    uuid.UUID
		email string
		role  string
	}{
		{f.ClientID, "client@example.com", "client"},
		{f.StaffID, "staff@example.com", "staff"},
		{f.AdminID, "admin@example.com", "admin"},
	} {
		_, err = pool.Exec(ctx,
			`INSERT INTO users (id, email, password_hash, name, role)
			 VALUES ($1, $2, $3, $4, $5)`,
			u.id, u.email, fixturePasswordHash, u.role, u.role)
		require.NoError(t, err)
	}

	return f
}
