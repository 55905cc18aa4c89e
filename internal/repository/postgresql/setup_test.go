package postgresql_test

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"

	"github.com/initcore/callcenter-backend-go/internal/pkg/database"
)

var (
	testDB     *database.DB
	testDBOnce sync.Once
)

// requireTestDB connects to the database named by TEST_DATABASE_URL and skips
// the test when it is unset. The schema from migrations/ must be loaded.
func requireTestDB(t *testing.T) *database.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping database tests")
	}

	testDBOnce.Do(func() {
		var err error
		testDB, err = database.NewPostgreSQLDB(dsn)
		if err != nil {
			panic("failed to connect to test database: " + err.Error())
		}
	})

	return testDB
}

// truncateTables clears the given tables between tests
func truncateTables(t *testing.T, db *database.DB, tables ...string) {
	t.Helper()
	ctx := context.Background()

	for _, table := range tables {
		_, err := db.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table))
		if err != nil {
			t.Fatalf("failed to truncate table %s: %v", table, err)
		}
	}
}
