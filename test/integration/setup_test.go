package integration

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/medref/medref/internal/platform/db"
)

// The suite runs against a real PostgreSQL instance. Point
// MEDREF_TEST_DATABASE_URL (or DATABASE_URL) at an empty database; when
// neither is set the whole package is skipped.

var testPool *pgxpool.Pool

func TestMain(m *testing.M) {
	url := os.Getenv("MEDREF_TEST_DATABASE_URL")
	if url == "" {
		url = os.Getenv("DATABASE_URL")
	}
	if url == "" {
		fmt.Println("integration: no test database configured, skipping")
		os.Exit(0)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := db.NewPool(ctx, url, 5, 1)
	if err != nil {
		fmt.Printf("integration: connect: %v\n", err)
		os.Exit(1)
	}
	testPool = pool

	if _, err := db.NewMigrator(pool, "../../migrations").Up(ctx); err != nil {
		fmt.Printf("integration: migrate: %v\n", err)
		os.Exit(1)
	}

	code := m.Run()
	pool.Close()
	os.Exit(code)
}

func truncateAll(t *testing.T, ctx context.Context) {
	t.Helper()
	_, err := testPool.Exec(ctx, `
		TRUNCATE favorite, app_user,
			medication_relationships, medication_specialties, medication_references,
			condition_references, condition_medications,
			condition_history, medication_history, guideline_history,
			guideline, reference, medication, condition, specialty CASCADE`)
	if err != nil {
		t.Fatalf("truncate: %v", err)
	}
}
