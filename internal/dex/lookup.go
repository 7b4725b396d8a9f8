// Package dex resolves user queries against the catalog: detail lookups by
// name and the search box flow.
package dex

import (
	"context"
	"time"

	"pokedex/internal/logging"
	"pokedex/internal/notify"
	"pokedex/internal/pokeapi"
)

// slowLookup is the duration above which a single detail request is logged
// as a warning.
const slowLookup = 2 * time.Second

// Lookup fetches detail records by name. Nothing is cached: every call is
// one request.
type Lookup struct {
	source   pokeapi.Source
	notifier notify.Notifier
}

// NewLookup creates a Lookup. A nil notifier discards failures.
func NewLookup(source pokeapi.Source, n notify.Notifier) *Lookup {
	return &Lookup{source: source, notifier: notify.OrDiscard(n)}
}

// FetchByName returns the detail record for name. On failure it raises one
// notification and returns a nil record with the error.
func (l *Lookup) FetchByName(ctx context.Context, name string) (*pokeapi.Detail, error) {
	timer := logging.StartTimer(logging.CategorySearch, "detail lookup "+name)
	d, err := l.source.FetchDetail(ctx, name)
	timer.StopWithThreshold(slowLookup)
	if err != nil {
		logging.SearchError("Detail lookup for %q failed: %v", name, err)
		if !notify.Suppressed(ctx, err) {
			l.notifier.Notify(notify.FailureMessage)
		}
		return nil, err
	}
	logging.SearchDebug("Detail lookup for %q: %d abilities, %d moves", name, len(d.Abilities), len(d.Moves))
	return d, nil
}
