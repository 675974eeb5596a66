package sqlite

import (
	"fmt"
	"net/url"
	"testing"
)

// setupTestDB opens a migrated in-memory database named after the test. The
// single connection keeps the database alive until cleanup.
func setupTestDB(t *testing.T) *DB {
	t.Helper()

	name := url.PathEscape(t.Name())
	db, err := open(fmt.Sprintf("file:%s?mode=memory&cache=shared&_pragma=busy_timeout(5000)", name), name)
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if _, err := db.Migrate(); err != nil {
		t.Fatalf("run migrations: %v", err)
	}
	return db
}
