// Package testutil sets up stores for package tests.
package testutil

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	"wedding-site-api/config"
	"wedding-site-api/internal/database"
	"wedding-site-api/internal/migration"

	"github.com/alicebob/miniredis/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// NewSQLite 回傳已套用遷移的 in-memory SQLite，測試結束時自動關閉
func NewSQLite(t *testing.T) *sql.DB {
	t.Helper()
	cfg := config.LoadTestConfig()

	db, err := database.InitSQLite(&cfg.Database)
	if err != nil {
		t.Fatalf("Failed to initialize test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	m, err := migration.NewSQLite(db, zap.NewNop())
	if err != nil {
		t.Fatalf("Failed to create migrator: %v", err)
	}
	if err := m.Up(); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}
	return db
}

var (
	pgOnce sync.Once
	pgPool *pgxpool.Pool
	pgErr  error
)

// NewPostgres 連線到測試 PostgreSQL (5433 port)；無法連線時略過測試
func NewPostgres(t *testing.T) *pgxpool.Pool {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping PostgreSQL test in short mode")
	}

	pgOnce.Do(func() {
		cfg := config.LoadTestConfig()
		pgPool, pgErr = database.InitDatabase(&cfg.Database)
		if pgErr != nil {
			return
		}
		var m *migration.Migrator
		m, pgErr = migration.NewPostgres(&cfg.Database, zap.NewNop())
		if pgErr != nil {
			return
		}
		defer m.Close()
		pgErr = m.Up()
	})
	if pgErr != nil {
		t.Skipf("PostgreSQL test database unavailable: %v", pgErr)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	// 清空所有測試資料，保留 schema
	if _, err := pgPool.Exec(ctx, "TRUNCATE song_requests, rsvp RESTART IDENTITY CASCADE"); err != nil {
		t.Fatalf("Failed to truncate tables: %v", err)
	}
	return pgPool
}

// NewRedis 啟動 miniredis 並回傳連上它的 client
func NewRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return rdb, mr
}
