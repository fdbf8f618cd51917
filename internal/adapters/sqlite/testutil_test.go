// Package sqlite_test contains integration tests for SQLite repositories.
//
// # Schema Protection
//
// This file is the SINGLE POINT where the database schema is loaded for tests.
// All test setup functions use db.GetSchemaSQL() to ensure tests run against
// the authoritative schema, preventing drift between test and production.
//
// DO NOT hardcode CREATE TABLE statements in test files. Use setupTestDB()
// and the seed* helpers instead.
package sqlite_test

import (
	"context"
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"github.com/example/skillmatrix/internal/ctxutil"
	"github.com/example/skillmatrix/internal/db"
)

// setupTestDB creates an in-memory database with the authoritative schema.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	testDB, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	// Every pooled connection to :memory: is a separate database.
	testDB.SetMaxOpenConns(1)

	if _, err := testDB.Exec(db.GetSchemaSQL()); err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}

	t.Cleanup(func() {
		testDB.Close()
	})

	return testDB
}

// lineCtx returns a context scoped to a line with an actor set.
func lineCtx(lineID string) context.Context {
	ctx := ctxutil.WithActorID(context.Background(), "EMP-099")
	return ctxutil.WithLineID(ctx, lineID)
}

// seedLine inserts a test line and returns its ID.
func seedLine(t *testing.T, db *sql.DB, id, name string) string {
	t.Helper()
	if id == "" {
		id = "LINE-001"
	}
	if name == "" {
		name = "Assembly"
	}
	if _, err := db.Exec("INSERT INTO lines (id, name) VALUES (?, ?)", id, name); err != nil {
		t.Fatalf("failed to seed line: %v", err)
	}
	return id
}

// seedEmployee inserts an active operator and returns its ID.
func seedEmployee(t *testing.T, db *sql.DB, id, lineID, name string) string {
	t.Helper()
	_, err := db.Exec("INSERT INTO employees (id, line_id, name, role, active) VALUES (?, ?, ?, 'operator', 1)", id, lineID, name)
	if err != nil {
		t.Fatalf("failed to seed employee: %v", err)
	}
	return id
}

// seedPosition inserts an active position and returns its ID.
func seedPosition(t *testing.T, db *sql.DB, id, lineID, name string, sortOrder int) string {
	t.Helper()
	_, err := db.Exec("INSERT INTO positions (id, line_id, name, sort_order, active) VALUES (?, ?, ?, ?, 1)", id, lineID, name, sortOrder)
	if err != nil {
		t.Fatalf("failed to seed position: %v", err)
	}
	return id
}

// countRows returns the number of rows in a table.
func countRows(t *testing.T, db *sql.DB, table string) int {
	t.Helper()
	var n int
	if err := db.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&n); err != nil {
		t.Fatalf("failed to count %s: %v", table, err)
	}
	return n
}
