package testutil

import (
	"fmt"
	"sync"
)

// FixedIDs returns predetermined ids in order.
//
// Thread-safety: FixedIDs is safe for concurrent use via internal mutex.
type FixedIDs struct {
	mu  sync.Mutex
	ids []string
	idx int
}

// NewFixedIDs creates a generator that returns ids in order.
//
// Example:
//
//	gen := NewFixedIDs("import-1", "import-2")
//	gen.Generate() // "import-1"
//	gen.Generate() // "import-2"
//	gen.Generate() // panic: all ids exhausted
func NewFixedIDs(ids ...string) *FixedIDs {
	return &FixedIDs{ids: ids}
}

// Generate returns the next predetermined id.
//
// Panics once all ids have been consumed, which catches a test doing more
// imports than it planned for.
func (g *FixedIDs) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.idx >= len(g.ids) {
		panic(fmt.Sprintf("FixedIDs: all %d ids exhausted", len(g.ids)))
	}
	id := g.ids[g.idx]
	g.idx++
	return id
}

// Remaining returns how many ids have not been handed out yet.
func (g *FixedIDs) Remaining() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.ids) - g.idx
}
