package testutil

import (
	"fmt"
	"sync"
)

// SequentialIDs generates query ids "test-query-0001", "test-query-0002", ...
//
// It stands in for the uuid generator wherever a document asks for
// `query_id: auto`, so rendered queries are byte-identical across runs.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type SequentialIDs struct {
	mu  sync.Mutex
	seq int64
}

// NewSequentialIDs creates a generator whose first id ends in 0001.
func NewSequentialIDs() *SequentialIDs {
	return &SequentialIDs{}
}

// NewID returns the next id.
func (g *SequentialIDs) NewID() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.seq++
	return fmt.Sprintf("test-query-%04d", g.seq)
}

// Reset restarts the sequence. After Reset, NewID returns test-query-0001.
func (g *SequentialIDs) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.seq = 0
}

// FixedID returns the same id every time.
//
// Thread-safety: FixedID is stateless and safe for concurrent use.
type FixedID string

// NewID returns the fixed id, or "test-query-fixed" when empty.
func (id FixedID) NewID() string {
	if id == "" {
		return "test-query-fixed"
	}
	return string(id)
}
