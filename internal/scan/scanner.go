// Package scan computes the most frequent ability across the whole catalog
// by fetching every entry's detail record.
package scan

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"pokedex/internal/catalog"
	"pokedex/internal/dex"
	"pokedex/internal/logging"
	"pokedex/internal/notify"
	"pokedex/internal/pokeapi"
)

// Result is the outcome of a scan. The zero value is the result for an
// empty catalog.
type Result struct {
	Ability  string
	Count    int
	Scanned  int
	Duration time.Duration
	Tally    *Tally
}

// ProgressFunc is called after each entry's detail record is fetched.
// Calls are serialized.
type ProgressFunc func(done, total int)

// Scanner runs most-frequent-ability scans over a cache.
type Scanner struct {
	cache       *catalog.Cache
	lookup      *dex.Lookup
	notifier    notify.Notifier
	concurrency int
	progress    ProgressFunc
}

// Option configures a Scanner.
type Option func(*Scanner)

// WithConcurrency bounds in-flight detail fetches. 1 (the default) fetches
// strictly one after another.
func WithConcurrency(n int) Option {
	return func(s *Scanner) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

// WithProgress registers a progress callback.
func WithProgress(fn ProgressFunc) Option {
	return func(s *Scanner) { s.progress = fn }
}

// WithNotifier sets where a failed scan is surfaced.
func WithNotifier(n notify.Notifier) Option {
	return func(s *Scanner) { s.notifier = n }
}

// New creates a Scanner. Detail records are fetched from source on every
// scan.
func New(cache *catalog.Cache, source pokeapi.Source, opts ...Option) *Scanner {
	s := &Scanner{
		cache:       cache,
		concurrency: 1,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.notifier = notify.OrDiscard(s.notifier)
	// The scanner raises a single notification for the whole scan.
	s.lookup = dex.NewLookup(source, notify.Discard)
	return s
}

// Concurrency returns the fetch bound in effect.
func (s *Scanner) Concurrency() int { return s.concurrency }

// MostFrequentAbility fetches the detail record of every cached entry and
// returns the ability listed most often. The tally is rebuilt from scratch
// on every call. Any fetch failure aborts the scan with one notification.
func (s *Scanner) MostFrequentAbility(ctx context.Context) (Result, error) {
	if !s.cache.IsLoaded() {
		return Result{}, catalog.ErrNotReady
	}

	entries := s.cache.Entries()
	if len(entries) == 0 {
		return Result{}, nil
	}

	start := time.Now()
	logging.Scan("Scan started: %d entries, concurrency=%d", len(entries), s.concurrency)

	var (
		tally *Tally
		err   error
	)
	if s.concurrency == 1 {
		tally, err = s.scanSerial(ctx, entries)
	} else {
		tally, err = s.scanConcurrent(ctx, entries)
	}
	if err != nil {
		logging.ScanError("Scan aborted: %v", err)
		if !notify.Suppressed(ctx, err) {
			s.notifier.Notify(notify.FailureMessage)
		}
		return Result{}, err
	}

	ability, count := tally.Leader()
	res := Result{
		Ability:  ability,
		Count:    count,
		Scanned:  len(entries),
		Duration: time.Since(start),
		Tally:    tally,
	}
	logging.Scan("Scan finished: %s x%d over %d entries in %v", ability, count, res.Scanned, res.Duration)
	return res, nil
}

func (s *Scanner) scanSerial(ctx context.Context, entries []catalog.Entry) (*Tally, error) {
	tally := NewTally()
	for i, e := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		d, err := s.lookup.FetchByName(ctx, e.Name)
		if err != nil {
			return nil, fmt.Errorf("scan %s (#%d): %w", e.Name, e.ID, err)
		}
		for _, a := range d.Abilities {
			tally.Add(a)
		}
		logging.ScanDebug("#%d %s: %v", e.ID, e.Name, d.Abilities)
		s.report(i+1, len(entries))
	}
	return tally, nil
}

// scanConcurrent prefetches details with bounded concurrency, then tallies
// them in id order so the result matches the serial scan exactly.
func (s *Scanner) scanConcurrent(ctx context.Context, entries []catalog.Entry) (*Tally, error) {
	details := make([]*pokeapi.Detail, len(entries))

	var (
		mu   sync.Mutex
		done int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, e := range entries {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			d, err := s.lookup.FetchByName(gctx, e.Name)
			if err != nil {
				return fmt.Errorf("scan %s (#%d): %w", e.Name, e.ID, err)
			}
			details[i] = d

			mu.Lock()
			done++
			s.report(done, len(entries))
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	tally := NewTally()
	for _, d := range details {
		for _, a := range d.Abilities {
			tally.Add(a)
		}
		logging.ScanDebug("#%d %s: %v", d.ID, d.Name, d.Abilities)
	}
	return tally, nil
}

func (s *Scanner) report(done, total int) {
	if s.progress != nil {
		s.progress(done, total)
	}
}
