package dex

import (
	"context"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"

	"pokedex/internal/catalog"
	"pokedex/internal/logging"
	"pokedex/internal/pokeapi"
)

const (
	maxSuggestions     = 3
	suggestionDistance = 2
)

// SearchResult is the outcome of a search. NotFound is a normal result,
// not an error.
type SearchResult struct {
	Found       bool
	Term        string // the term as typed
	Name        string // the normalized name that matched
	Detail      *pokeapi.Detail
	Suggestions []string
}

// Resolver answers the search box.
type Resolver struct {
	cache  *catalog.Cache
	lookup *Lookup
}

// NewResolver creates a Resolver over a loaded (or loading) cache.
func NewResolver(cache *catalog.Cache, lookup *Lookup) *Resolver {
	return &Resolver{cache: cache, lookup: lookup}
}

// Normalize lowercases a search term. Surrounding whitespace is kept, so
// " bulbasaur" does not match "bulbasaur".
func Normalize(term string) string {
	return strings.ToLower(term)
}

// Search lowercases term and looks it up among the cached names. A hit
// fetches the detail record; a miss returns a NotFound result carrying the
// original term and close-name suggestions.
func (r *Resolver) Search(ctx context.Context, term string) (SearchResult, error) {
	if !r.cache.IsLoaded() {
		return SearchResult{Term: term}, catalog.ErrNotReady
	}

	name := Normalize(term)
	if name == "" || !r.cache.Contains(name) {
		logging.Search("No match for %q", term)
		return SearchResult{Term: term, Suggestions: r.suggest(name)}, nil
	}

	res := SearchResult{Found: true, Term: term, Name: name}
	d, err := r.lookup.FetchByName(ctx, name)
	if err != nil {
		return res, err
	}
	res.Detail = d
	logging.Search("Resolved %q to %s", term, name)
	return res, nil
}

func (r *Resolver) suggest(name string) []string {
	if name == "" {
		return nil
	}

	type candidate struct {
		name  string
		dist  int
		index int
	}
	var candidates []candidate
	for i, n := range r.cache.Names() {
		if d := levenshtein.ComputeDistance(name, n); d <= suggestionDistance {
			candidates = append(candidates, candidate{name: n, dist: d, index: i})
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].dist != candidates[j].dist {
			return candidates[i].dist < candidates[j].dist
		}
		return candidates[i].index < candidates[j].index
	})

	var out []string
	for _, c := range candidates {
		if len(out) == maxSuggestions {
			break
		}
		out = append(out, c.name)
	}
	return out
}
