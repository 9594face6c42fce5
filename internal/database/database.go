// Package database provides the data access layer for the MealBridge API.
//
// The Database interface abstracts SurrealDB operations so repositories and
// services never touch the driver directly:
//   - Query: returns multiple results (SELECT returning lists)
//   - QueryOne: returns a single result (SELECT by ID)
//   - Execute: no return value (CREATE/UPDATE/DELETE mutations)
//
// # Transactions
//
// Transactions are BATCH-BASED, not connection-level. BeginTx() accumulates
// queries in memory; at Commit() everything is wrapped in
// BEGIN TRANSACTION / COMMIT TRANSACTION and executed atomically. There is no
// isolation between Add() calls, and Rollback() simply discards the batch.
// Prefer AtomicBatch for short multi-statement writes.
//
// # Errors
//
// Sentinel errors cover common failures; check with errors.Is():
//
//	if errors.Is(err, database.ErrNotFound) { ... }
package database

import (
	"context"
	"errors"
)

// Standard errors for database operations.
var (
	// ErrNotFound indicates the requested record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicate indicates a unique constraint violation.
	ErrDuplicate = errors.New("duplicate record")

	// ErrConnection indicates a failure to connect to or talk to the database.
	ErrConnection = errors.New("database connection error")

	// ErrQuery indicates a query execution failure.
	ErrQuery = errors.New("query error")
)

// Database defines the interface for database operations
type Database interface {
	// Connection management
	Connect(ctx context.Context) error
	Close() error
	Ping(ctx context.Context) error

	// Query executes a query and returns results
	Query(ctx context.Context, query string, vars map[string]interface{}) ([]interface{}, error)

	// QueryOne executes a query and returns a single result
	QueryOne(ctx context.Context, query string, vars map[string]interface{}) (interface{}, error)

	// Execute runs a query without returning results (for mutations)
	Execute(ctx context.Context, query string, vars map[string]interface{}) error

	// Transaction support
	BeginTx(ctx context.Context) (Transaction, error)
}

// Transaction represents a batch-based database transaction
type Transaction interface {
	Execute(ctx context.Context, query string, vars map[string]interface{}) error
	Commit() error
	Rollback() error
}
