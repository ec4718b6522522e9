package database

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/wheels195/cfb-market-edge-sub005/internal/dbconfig"
)

// SetupTestDB creates a test database connection, skipping the test unless
// CFB_EDGE_TEST_DB_HOST is set.
func SetupTestDB(t *testing.T) *DB {
	host := os.Getenv("CFB_EDGE_TEST_DB_HOST")
	if host == "" {
		t.Skip("CFB_EDGE_TEST_DB_HOST not set, skipping database integration test")
	}

	cfg := &dbconfig.DatabaseConfig{
		Host:               host,
		Port:               5432,
		Name:               envOr("CFB_EDGE_TEST_DB_NAME", "cfb_edge_test"),
		User:               envOr("CFB_EDGE_TEST_DB_USER", "cfb_edge"),
		Password:           envOr("CFB_EDGE_TEST_DB_PASSWORD", "cfb_edge"),
		SSLMode:            "disable",
		MaxConnections:     5,
		MaxIdleConnections: 2,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	db, err := NewDB(ctx, cfg)
	if err != nil {
		t.Fatalf("failed to create test database connection: %v", err)
	}
	t.Cleanup(db.Close)
	return db
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
