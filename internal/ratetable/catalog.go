package ratetable

import (
	"sort"
	"sync"
)

// Catalog maps market names to rate tables. It is safe for concurrent use.
// Put swaps whole tables; a *Table handed out earlier keeps its rates.
type Catalog struct {
	mu     sync.RWMutex
	tables map[string]*Table
}

// NewCatalog returns a catalog holding tables.
func NewCatalog(tables map[string]*Table) *Catalog {
	c := &Catalog{tables: make(map[string]*Table, len(tables))}
	for market, t := range tables {
		c.tables[market] = t
	}
	return c
}

// Get returns the table of market.
func (c *Catalog) Get(market string) (*Table, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	t, ok := c.tables[market]
	return t, ok
}

// Put installs t as the table of market.
func (c *Catalog) Put(market string, t *Table) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tables[market] = t
}

// Markets lists the market names in sorted order.
func (c *Catalog) Markets() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, 0, len(c.tables))
	for m := range c.tables {
		out = append(out, m)
	}
	sort.Strings(out)
	return out
}
