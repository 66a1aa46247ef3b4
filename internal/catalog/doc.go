// Package catalog provides SQLite-backed storage for compiled queries.
//
// Each row holds one query's SPARQL text under its structural key. The key
// is UNIQUE, so saving a query that is structurally equal to a stored one
// is a no-op that returns the stored row.
//
// # Ordering
//
// Rows carry a seq INTEGER assigned on insert (MAX(seq)+1). Listings use
// ORDER BY seq ASC, id ASC COLLATE BINARY, never timestamps, so output is
// identical across runs over the same database.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//
// Schema changes are tracked with PRAGMA user_version.
package catalog
