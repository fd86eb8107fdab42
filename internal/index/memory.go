package index

import (
	"sync"
	"time"

	"github.com/MrSnakeDoc/scribe/internal/domain"
)

// MemoryIndex holds the current site map snapshot in memory.
//
// Publish invocations read it, the sitemap reloader swaps it wholesale.
// Reads vastly outnumber writes, so a RWMutex is enough; each reader
// gets a consistent copy of the whole snapshot.
type MemoryIndex struct {
	mu         sync.RWMutex
	siteMap    domain.SiteMap
	lastReload time.Time
}

// NewMemoryIndex creates an index preloaded with the built-in defaults,
// so publishing works even before the first reload completes.
func NewMemoryIndex() *MemoryIndex {
	return &MemoryIndex{
		siteMap: domain.DefaultSiteMap(),
	}
}

// Update replaces the site map snapshot.
func (idx *MemoryIndex) Update(m domain.SiteMap) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	idx.siteMap = m
	idx.lastReload = time.Now()
}

// Current returns the active site map snapshot.
func (idx *MemoryIndex) Current() domain.SiteMap {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return idx.siteMap
}

// GetLastReload returns the timestamp of the last successful reload,
// zero if only the built-in defaults have ever been active.
func (idx *MemoryIndex) GetLastReload() time.Time {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return idx.lastReload
}
