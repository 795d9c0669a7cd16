package database

import (
	"fmt"
	"sync/atomic"
	"testing"

	"gorm.io/gorm"
)

var testSeq atomic.Int64

// OpenTest returns an isolated in-memory sqlite database with models
// migrated. It is closed when the test ends.
func OpenTest(t testing.TB, models ...interface{}) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:shopdesk_test_%d?mode=memory&cache=shared", testSeq.Add(1))
	db, err := Open("sqlite", dsn, Options{MaxOpenConns: 1})
	if err != nil {
		t.Fatalf("database: open test db: %v", err)
	}
	t.Cleanup(func() { _ = Close(db) })

	if len(models) > 0 {
		if err := db.AutoMigrate(models...); err != nil {
			t.Fatalf("database: migrate test db: %v", err)
		}
	}
	return db
}
