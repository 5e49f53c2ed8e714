// Package testutil provides fixtures shared by package tests.
package testutil

import (
	"path/filepath"
	"testing"

	"github.com/ahmetcoskunkizilkaya/waitlist-backend/internal/database"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB opens a private in-memory SQLite database with every table migrated.
// The pool is pinned to one connection so the memory database lives as long
// as the test.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()
	return open(t, "file:"+uuid.NewString()+"?mode=memory&cache=shared", 1)
}

// NewFileDB opens a migrated SQLite database in a temp file that several
// connections can use at once. Transactions begin IMMEDIATE, so concurrent
// writers queue on the database lock the way row locks queue them in
// PostgreSQL.
func NewFileDB(t testing.TB) *gorm.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	return open(t, "file:"+path+"?_txlock=immediate&_pragma=journal_mode(WAL)", 8)
}

func open(t testing.TB, dsn string, conns int) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(conns)
	t.Cleanup(func() { sqlDB.Close() })

	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}
