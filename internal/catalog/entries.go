package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/roach88/sparqb/internal/ir"
)

// ErrNotFound is returned when no stored query matches.
var ErrNotFound = errors.New("query not found")

// ErrAmbiguous is returned when a key prefix matches several queries.
var ErrAmbiguous = errors.New("key prefix matches more than one query")

// Entry is one stored query.
type Entry struct {
	ID      string
	Key     ir.Key
	Name    string
	Dialect string
	QueryID string
	Text    string
	Seq     int64
}

// Put stores e unless a query with the same key is already stored. It
// returns the stored row and whether it was inserted. ID and Seq are
// assigned by Put; an ID set by the caller is kept.
func (c *Catalog) Put(ctx context.Context, e Entry) (Entry, bool, error) {
	if e.Key == "" {
		return Entry{}, false, errors.New("put query: key is required")
	}
	if e.ID == "" {
		e.ID = uuid.NewString()
	}

	// WHERE true disambiguates the upsert clause from a join constraint.
	res, err := c.db.ExecContext(ctx, `
		INSERT INTO queries (id, key, name, dialect, query_id, text, seq)
		SELECT ?, ?, ?, ?, ?, ?, COALESCE(MAX(seq), 0) + 1 FROM queries WHERE true
		ON CONFLICT(key) DO NOTHING
	`,
		e.ID,
		string(e.Key),
		e.Name,
		e.Dialect,
		e.QueryID,
		e.Text,
	)
	if err != nil {
		return Entry{}, false, fmt.Errorf("put query: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return Entry{}, false, fmt.Errorf("put query: %w", err)
	}

	stored, err := c.Get(ctx, e.Key)
	if err != nil {
		return Entry{}, false, fmt.Errorf("put query: %w", err)
	}
	return stored, n == 1, nil
}

const selectColumns = `SELECT id, key, name, dialect, query_id, text, seq FROM queries`

// Get returns the query stored under key.
func (c *Catalog) Get(ctx context.Context, key ir.Key) (Entry, error) {
	row := c.db.QueryRowContext(ctx, selectColumns+` WHERE key = ?`, string(key))
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, ErrNotFound
	}
	return e, err
}

// Resolve returns the single query whose key starts with prefix.
func (c *Catalog) Resolve(ctx context.Context, prefix string) (Entry, error) {
	prefix = strings.ToLower(strings.TrimSpace(prefix))
	if prefix == "" {
		return Entry{}, ErrNotFound
	}
	// Only hex digits reach LIKE, so the prefix needs no escaping.
	for _, r := range prefix {
		if !strings.ContainsRune("0123456789abcdef", r) {
			return Entry{}, ErrNotFound
		}
	}

	rows, err := c.db.QueryContext(ctx, selectColumns+`
		WHERE key LIKE ? || '%'
		ORDER BY seq ASC, id COLLATE BINARY ASC
		LIMIT 2
	`, prefix)
	if err != nil {
		return Entry{}, fmt.Errorf("resolve query: %w", err)
	}
	entries, err := scanEntries(rows)
	if err != nil {
		return Entry{}, fmt.Errorf("resolve query: %w", err)
	}
	switch len(entries) {
	case 0:
		return Entry{}, ErrNotFound
	case 1:
		return entries[0], nil
	}
	return Entry{}, ErrAmbiguous
}

// List returns every stored query in insertion order.
//
// Returns an empty slice (not nil) if the catalog is empty.
func (c *Catalog) List(ctx context.Context) ([]Entry, error) {
	rows, err := c.db.QueryContext(ctx, selectColumns+`
		ORDER BY seq ASC, id COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list queries: %w", err)
	}
	entries, err := scanEntries(rows)
	if err != nil {
		return nil, fmt.Errorf("list queries: %w", err)
	}
	return entries, nil
}

// Delete removes the query stored under key.
func (c *Catalog) Delete(ctx context.Context, key ir.Key) error {
	res, err := c.db.ExecContext(ctx, `DELETE FROM queries WHERE key = ?`, string(key))
	if err != nil {
		return fmt.Errorf("delete query: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete query: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(s scanner) (Entry, error) {
	var e Entry
	var key string
	if err := s.Scan(&e.ID, &key, &e.Name, &e.Dialect, &e.QueryID, &e.Text, &e.Seq); err != nil {
		return Entry{}, err
	}
	e.Key = ir.Key(key)
	return e, nil
}

func scanEntries(rows *sql.Rows) ([]Entry, error) {
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}
