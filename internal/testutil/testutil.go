package testutil

import (
	"context"
	"database/sql"
	"testing"

	"cattleprices/internal/db"
)

// SetupDB opens an in-memory sqlite database with the snapshot schema applied,
// it is closed when the test finishes.
func SetupDB(t testing.TB) *sql.DB {
	conn, err := db.Config{File: ":memory:"}.OpenDB(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		conn.Close()
	})
	return conn
}
