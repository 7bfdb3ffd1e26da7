// Package store defines the single durable-store surface the core depends
// on: a generic key/row write operation plus query-based reads. Everything
// above it (repositories, services) is storage-engine agnostic.
package store

import "context"

// Operation is the kind of row write.
type Operation string

const (
	OpInsert Operation = "INSERT"
	OpUpdate Operation = "UPDATE"
	OpDelete Operation = "DELETE"
)

// Store is the abstract durable store. Writes are atomic at the single-row
// level only; no multi-row transaction spans a script, its lines, and its
// history in one unit.
type Store interface {
	// Write inserts, updates, or deletes the row identified by key (the id
	// column) in the named table. For inserts, fields must include the id.
	// For updates, fields holds the columns to set. For deletes, fields is
	// ignored. Updates and deletes of a missing row fail with
	// models.ErrNotFound; unique violations fail with models.ErrConflict.
	Write(ctx context.Context, table string, op Operation, key string, fields map[string]any) error

	// Select runs a query and scans all rows into dest (a pointer to a slice).
	Select(ctx context.Context, dest any, query string, args ...any) error

	// Get runs a query expected to return one row and scans it into dest.
	// No rows fails with models.ErrNotFound.
	Get(ctx context.Context, dest any, query string, args ...any) error

	// Exec runs a filtered mutation (e.g. a scoped DELETE) and returns the
	// number of affected rows. Used where the key-addressed Write does not
	// fit, such as releasing locks by (script, line, owner).
	Exec(ctx context.Context, query string, args ...any) (int64, error)
}
