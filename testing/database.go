// Package testing provides test utilities and database setup for testing the counter store
package testing

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/amirphl/tallybook/config"
	"github.com/amirphl/tallybook/repository"
	"gorm.io/gorm"
)

// TestDB represents a test database instance
type TestDB struct {
	DB   *gorm.DB
	Path string
	dir  string
}

// SetupTestDB creates a fresh sqlite file in a temporary directory and runs migrations
func SetupTestDB() (*TestDB, error) {
	dir, err := os.MkdirTemp("", "tallybook_test_*")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp dir: %w", err)
	}
	path := filepath.Join(dir, "tallybook_test.db")

	ctx := context.Background()
	db, err := repository.OpenDatabase(ctx, config.DatabaseConfig{
		Driver:       "sqlite",
		Path:         path,
		MaxOpenConns: 4,
		MaxIdleConns: 4,
	}, nil)
	if err != nil {
		_ = os.RemoveAll(dir)
		return nil, fmt.Errorf("failed to open test database %s: %w", path, err)
	}

	if err := repository.RunMigrations(ctx, db); err != nil {
		_ = repository.CloseDatabase(db)
		_ = os.RemoveAll(dir)
		return nil, fmt.Errorf("failed to run migrations on test database %s: %w", path, err)
	}

	return &TestDB{
		DB:   db,
		Path: path,
		dir:  dir,
	}, nil
}

// TeardownTestDB closes connections and removes the database file
func (tdb *TestDB) TeardownTestDB() error {
	if tdb.DB != nil {
		if err := repository.CloseDatabase(tdb.DB); err != nil {
			log.Printf("Warning: failed to close test database %s: %v", tdb.Path, err)
		}
	}
	return os.RemoveAll(tdb.dir)
}

// ClearAllTables removes all data from tables while preserving structure
func (tdb *TestDB) ClearAllTables() error {
	for _, table := range []string{"events", "counters"} {
		if err := tdb.DB.Exec(fmt.Sprintf("DELETE FROM %s", table)).Error; err != nil {
			return fmt.Errorf("failed to clear table %s: %w", table, err)
		}
	}
	return nil
}

// TestWithDB is a helper function that sets up a test database, runs the test function, and cleans up
func TestWithDB(testFunc func(*TestDB) error) error {
	testDB, err := SetupTestDB()
	if err != nil {
		return fmt.Errorf("failed to setup test database: %w", err)
	}
	defer func() {
		if cleanupErr := testDB.TeardownTestDB(); cleanupErr != nil {
			log.Printf("Warning: failed to cleanup test database: %v", cleanupErr)
		}
	}()

	return testFunc(testDB)
}

// CreateTestContext creates a context for testing
func CreateTestContext() context.Context {
	return context.Background()
}
