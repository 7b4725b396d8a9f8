// Package catalog holds the in-memory id to name index of every known
// creature. The index is loaded once from the remote API and is read-only
// afterwards.
package catalog

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"pokedex/internal/logging"
	"pokedex/internal/notify"
	"pokedex/internal/pokeapi"
)

// DefaultLimit covers the full known catalog in a single index request.
const DefaultLimit = 1017

// State is the load state of a Cache.
type State int

const (
	StateEmpty State = iota
	StateLoading
	StateLoaded
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateLoading:
		return "loading"
	case StateLoaded:
		return "loaded"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Entry is one catalog record.
type Entry struct {
	ID   int
	Name string
}

// Cache is the explicitly owned catalog. Components receive a *Cache rather
// than reaching for global state.
type Cache struct {
	mu       sync.RWMutex
	source   pokeapi.Source
	notifier notify.Notifier
	limit    int

	names    map[int]string
	ids      []int // ascending
	state    State
	lastErr  error
}

// Option configures a Cache.
type Option func(*Cache)

// WithNotifier sets where load failures are surfaced.
func WithNotifier(n notify.Notifier) Option {
	return func(c *Cache) { c.notifier = n }
}

// WithLimit sets the index page size requested by Load.
func WithLimit(limit int) Option {
	return func(c *Cache) {
		if limit > 0 {
			c.limit = limit
		}
	}
}

// New creates an empty cache backed by source.
func New(source pokeapi.Source, opts ...Option) *Cache {
	c := &Cache{
		source: source,
		limit:  DefaultLimit,
		names:  make(map[int]string),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.notifier = notify.OrDiscard(c.notifier)
	return c
}

// Load fetches the whole index in one request and populates the cache.
// A successful load is final: later calls return nil without refetching.
// On failure the cache stays empty, one notification is raised and the
// error is returned; nothing is retried automatically.
func (c *Cache) Load(ctx context.Context) error {
	c.mu.Lock()
	switch c.state {
	case StateLoaded:
		c.mu.Unlock()
		return nil
	case StateLoading:
		c.mu.Unlock()
		return ErrAlreadyLoading
	}
	c.state = StateLoading
	c.mu.Unlock()

	timer := logging.StartTimer(logging.CategoryCatalog, "catalog load")
	defer timer.Stop()

	names, ids, err := c.fetch(ctx)
	if err != nil {
		c.mu.Lock()
		c.state = StateFailed
		c.lastErr = err
		c.mu.Unlock()

		logging.CatalogError("Catalog load failed: %v", err)
		if !notify.Suppressed(ctx, err) {
			c.notifier.Notify(notify.FailureMessage)
		}
		return err
	}

	c.mu.Lock()
	c.names = names
	c.ids = ids
	c.state = StateLoaded
	c.lastErr = nil
	c.mu.Unlock()

	logging.Catalog("Catalog loaded: %d entries", len(ids))
	return nil
}

func (c *Cache) fetch(ctx context.Context) (map[int]string, []int, error) {
	records, err := c.source.FetchIndex(ctx, 0, c.limit)
	if err != nil {
		return nil, nil, fmt.Errorf("load catalog: %w", err)
	}

	names := make(map[int]string, len(records))
	for _, rec := range records {
		id, err := ParseID(rec.URL)
		if err != nil {
			return nil, nil, fmt.Errorf("load catalog: %w", &pokeapi.ParseError{Op: "parse id", URL: rec.URL, Err: err})
		}
		if prev, dup := names[id]; dup {
			logging.CatalogWarn("Duplicate id %d: %q replaces %q", id, rec.Name, prev)
		}
		names[id] = rec.Name
	}

	ids := make([]int, 0, len(names))
	for id := range names {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return names, ids, nil
}

// State returns the current load state.
func (c *Cache) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// IsLoaded reports whether Load has completed successfully.
func (c *Cache) IsLoaded() bool {
	return c.State() == StateLoaded
}

// Err returns the error of the last failed load, if any.
func (c *Cache) Err() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastErr
}

// Len returns the number of entries.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.ids)
}

// Name looks up the name stored for id.
func (c *Cache) Name(id int) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	name, ok := c.names[id]
	return name, ok
}

// Entries returns every entry in ascending id order.
func (c *Cache) Entries() []Entry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Entry, len(c.ids))
	for i, id := range c.ids {
		out[i] = Entry{ID: id, Name: c.names[id]}
	}
	return out
}

// Names returns every name in ascending id order.
func (c *Cache) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, len(c.ids))
	for i, id := range c.ids {
		out[i] = c.names[id]
	}
	return out
}

// Contains reports whether name is stored, by exact match. The scan is
// linear over the catalog.
func (c *Cache) Contains(name string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, id := range c.ids {
		if c.names[id] == name {
			return true
		}
	}
	return false
}

// List returns the names for ids start..end inclusive, ascending. Ids
// absent from the catalog yield "". Returns ErrNotReady before a successful
// load.
func (c *Cache) List(start, end int) ([]string, error) {
	return c.ListRange(Range{Start: start, End: end})
}

// ListRange is List over a Range.
func (c *Cache) ListRange(r Range) ([]string, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.state != StateLoaded {
		return nil, ErrNotReady
	}

	n := r.Len()
	out := make([]string, n)
	for i := 0; i < n; i++ {
		out[i] = c.names[r.Start+i]
	}
	logging.CatalogDebug("Listed %d-%d (%d positions)", r.Start, r.End, len(out))
	return out, nil
}
