package scan_test

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"pokedex/internal/catalog"
	"pokedex/internal/notify"
	"pokedex/internal/pokeapi"
	"pokedex/internal/pokeapi/pokeapitest"
	"pokedex/internal/scan"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func loadedCache(t *testing.T, src pokeapi.Source) *catalog.Cache {
	t.Helper()
	c := catalog.New(src)
	require.NoError(t, c.Load(context.Background()))
	return c
}

func TestMostFrequentAbility_Fixture(t *testing.T) {
	fake := pokeapitest.NewFake(
		pokeapitest.Entity{ID: 1, Name: "one", Abilities: []string{"A", "B"}},
		pokeapitest.Entity{ID: 2, Name: "two", Abilities: []string{"A"}},
		pokeapitest.Entity{ID: 3, Name: "three", Abilities: []string{"B"}},
	)
	s := scan.New(loadedCache(t, fake), fake)

	res, err := s.MostFrequentAbility(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "A", res.Ability)
	assert.Equal(t, 2, res.Count)
	assert.Equal(t, 3, res.Scanned)
	assert.Equal(t, []string{"one", "two", "three"}, fake.Order, "fetches in id order")
}

func TestMostFrequentAbility_TieBreak(t *testing.T) {
	tests := []struct {
		name      string
		abilities [][]string
		want      string
		count     int
	}{
		{"first to one wins", [][]string{{"A"}, {"B"}}, "A", 1},
		{"first to two wins", [][]string{{"A", "B"}, {"B", "A"}}, "B", 2},
		{"later equal count does not overwrite", [][]string{{"A"}, {"A"}, {"B"}, {"B"}}, "A", 2},
		{"strictly greater overtakes", [][]string{{"A"}, {"B"}, {"B"}}, "B", 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ents []pokeapitest.Entity
			for i, ab := range tt.abilities {
				ents = append(ents, pokeapitest.Entity{ID: i + 1, Name: fmt.Sprintf("e%d", i+1), Abilities: ab})
			}
			fake := pokeapitest.NewFake(ents...)

			res, err := scan.New(loadedCache(t, fake), fake).MostFrequentAbility(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.want, res.Ability)
			assert.Equal(t, tt.count, res.Count)
		})
	}
}

func TestMostFrequentAbility_EmptyCatalog(t *testing.T) {
	fake := pokeapitest.NewFake()
	rec := &notify.Recorder{}

	res, err := scan.New(loadedCache(t, fake), fake, scan.WithNotifier(rec)).MostFrequentAbility(context.Background())
	require.NoError(t, err)
	assert.Equal(t, scan.Result{}, res)
	assert.Zero(t, rec.Count())
}

func TestMostFrequentAbility_NotReady(t *testing.T) {
	fake := pokeapitest.NewFake(pokeapitest.Entity{ID: 1, Name: "one"})

	_, err := scan.New(catalog.New(fake), fake).MostFrequentAbility(context.Background())
	assert.ErrorIs(t, err, catalog.ErrNotReady)
}

func TestMostFrequentAbility_RebuildsTallyEachCall(t *testing.T) {
	fake := pokeapitest.NewFake(
		pokeapitest.Entity{ID: 1, Name: "one", Abilities: []string{"A"}},
		pokeapitest.Entity{ID: 2, Name: "two", Abilities: []string{"A"}},
	)
	s := scan.New(loadedCache(t, fake), fake)

	first, err := s.MostFrequentAbility(context.Background())
	require.NoError(t, err)
	second, err := s.MostFrequentAbility(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, first.Count)
	assert.Equal(t, 2, second.Count)
	assert.Equal(t, 2, fake.DetailCalls["one"], "details are refetched on every scan")
}

func TestMostFrequentAbility_FailureAbortsWithOneNotification(t *testing.T) {
	for _, conc := range []int{1, 4} {
		t.Run(fmt.Sprintf("concurrency=%d", conc), func(t *testing.T) {
			var ents []pokeapitest.Entity
			for i := 1; i <= 20; i++ {
				ents = append(ents, pokeapitest.Entity{ID: i, Name: fmt.Sprintf("e%d", i), Abilities: []string{"A"}})
			}
			fake := pokeapitest.NewFake(ents...)
			fake.FailDetail("e5", &pokeapi.NetworkError{Op: "fetch detail", URL: "e5", StatusCode: 503})
			fake.FailDetail("e9", &pokeapi.NetworkError{Op: "fetch detail", URL: "e9", StatusCode: 503})
			rec := &notify.Recorder{}

			s := scan.New(loadedCache(t, fake), fake, scan.WithConcurrency(conc), scan.WithNotifier(rec))
			res, err := s.MostFrequentAbility(context.Background())

			require.Error(t, err)
			assert.True(t, pokeapi.IsFetchError(err))
			assert.Equal(t, scan.Result{}, res)
			assert.Equal(t, 1, rec.Count())
		})
	}
}

func TestMostFrequentAbility_SerialStopsAtFirstFailure(t *testing.T) {
	fake := pokeapitest.NewFake(
		pokeapitest.Entity{ID: 1, Name: "one", Abilities: []string{"A"}},
		pokeapitest.Entity{ID: 2, Name: "two", Abilities: []string{"A"}},
		pokeapitest.Entity{ID: 3, Name: "three", Abilities: []string{"A"}},
	)
	fake.FailDetail("two", errors.New("reset by peer"))

	_, err := scan.New(loadedCache(t, fake), fake).MostFrequentAbility(context.Background())
	require.Error(t, err)
	assert.Equal(t, []string{"one", "two"}, fake.Order)
}

func TestMostFrequentAbility_Canceled(t *testing.T) {
	fake := pokeapitest.NewFake(
		pokeapitest.Entity{ID: 1, Name: "one", Abilities: []string{"A"}},
		pokeapitest.Entity{ID: 2, Name: "two", Abilities: []string{"A"}},
	)
	rec := &notify.Recorder{}
	ctx, cancel := context.WithCancel(context.Background())

	s := scan.New(loadedCache(t, fake), fake,
		scan.WithNotifier(rec),
		scan.WithProgress(func(done, total int) { cancel() }),
	)
	_, err := s.MostFrequentAbility(ctx)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, rec.Count(), "a caller abort is not a failure")
	assert.Equal(t, []string{"one"}, fake.Order)
}

func TestMostFrequentAbility_DeadlineNotifiesOnce(t *testing.T) {
	for _, conc := range []int{1, 4} {
		t.Run(fmt.Sprintf("concurrency=%d", conc), func(t *testing.T) {
			fake := pokeapitest.NewFake(
				pokeapitest.Entity{ID: 1, Name: "one", Abilities: []string{"A"}},
				pokeapitest.Entity{ID: 2, Name: "two", Abilities: []string{"A"}},
			)
			rec := &notify.Recorder{}
			cache := loadedCache(t, fake)

			ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
			defer cancel()

			_, err := scan.New(cache, fake, scan.WithConcurrency(conc), scan.WithNotifier(rec)).MostFrequentAbility(ctx)
			assert.ErrorIs(t, err, context.DeadlineExceeded)
			assert.Equal(t, 1, rec.Count(), "an expired deadline is a failure")
		})
	}
}

func TestMostFrequentAbility_Progress(t *testing.T) {
	fake := pokeapitest.NewFake(
		pokeapitest.Entity{ID: 1, Name: "one", Abilities: []string{"A"}},
		pokeapitest.Entity{ID: 2, Name: "two", Abilities: []string{"B"}},
		pokeapitest.Entity{ID: 3, Name: "three", Abilities: []string{"C"}},
	)
	var calls [][2]int
	s := scan.New(loadedCache(t, fake), fake, scan.WithProgress(func(done, total int) {
		calls = append(calls, [2]int{done, total})
	}))

	_, err := s.MostFrequentAbility(context.Background())
	require.NoError(t, err)
	assert.Equal(t, [][2]int{{1, 3}, {2, 3}, {3, 3}}, calls)
}

// jitterSource delays every detail fetch by a random amount and tracks how
// many fetches are in flight at once.
type jitterSource struct {
	*pokeapitest.Fake
	inFlight atomic.Int32
	peak     atomic.Int32
	mu       sync.Mutex
	rng      *rand.Rand
}

func (j *jitterSource) FetchDetail(ctx context.Context, name string) (*pokeapi.Detail, error) {
	n := j.inFlight.Add(1)
	defer j.inFlight.Add(-1)
	for {
		p := j.peak.Load()
		if n <= p || j.peak.CompareAndSwap(p, n) {
			break
		}
	}

	j.mu.Lock()
	d := time.Duration(j.rng.Intn(2000)) * time.Microsecond
	j.mu.Unlock()

	select {
	case <-time.After(d):
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return j.Fake.FetchDetail(ctx, name)
}

func TestMostFrequentAbility_ConcurrentMatchesSerial(t *testing.T) {
	pool := []string{"overgrow", "blaze", "torrent", "static", "levitate", "intimidate", "swift-swim"}
	rng := rand.New(rand.NewSource(7))

	var ents []pokeapitest.Entity
	for i := 1; i <= 120; i++ {
		n := 1 + rng.Intn(3)
		var abilities []string
		for k := 0; k < n; k++ {
			abilities = append(abilities, pool[rng.Intn(len(pool))])
		}
		ents = append(ents, pokeapitest.Entity{ID: i, Name: fmt.Sprintf("e%d", i), Abilities: abilities})
	}

	serialSrc := pokeapitest.NewFake(ents...)
	serial, err := scan.New(loadedCache(t, serialSrc), serialSrc).MostFrequentAbility(context.Background())
	require.NoError(t, err)

	src := &jitterSource{Fake: pokeapitest.NewFake(ents...), rng: rand.New(rand.NewSource(11))}
	var maxDone int
	concurrent, err := scan.New(loadedCache(t, src), src,
		scan.WithConcurrency(8),
		scan.WithProgress(func(done, total int) {
			if done > maxDone {
				maxDone = done
			}
		}),
	).MostFrequentAbility(context.Background())
	require.NoError(t, err)

	assert.Equal(t, serial.Ability, concurrent.Ability)
	assert.Equal(t, serial.Count, concurrent.Count)
	assert.Equal(t, serial.Tally.Top(-1), concurrent.Tally.Top(-1))
	assert.Equal(t, 120, maxDone)
	assert.LessOrEqual(t, src.peak.Load(), int32(8))
}
