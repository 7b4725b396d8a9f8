package scan

import "sort"

// AbilityCount is one row of a tally.
type AbilityCount struct {
	Ability string
	Count   int
}

// Tally counts ability occurrences and tracks the running maximum. The
// leader only changes when a count strictly exceeds the current maximum, so
// on ties the ability that reached the count first keeps the lead.
type Tally struct {
	counts    map[string]int
	reachedAt map[string]int // step at which an ability reached its current count
	step      int
	maxCount  int
	winner    string
}

// NewTally returns an empty tally.
func NewTally() *Tally {
	return &Tally{
		counts:    make(map[string]int),
		reachedAt: make(map[string]int),
	}
}

// Add records one occurrence of ability.
func (t *Tally) Add(ability string) {
	t.step++
	t.counts[ability]++
	t.reachedAt[ability] = t.step
	if c := t.counts[ability]; c > t.maxCount {
		t.maxCount = c
		t.winner = ability
	}
}

// Leader returns the current most frequent ability and its count.
func (t *Tally) Leader() (string, int) {
	return t.winner, t.maxCount
}

// Count returns the occurrences recorded for ability.
func (t *Tally) Count(ability string) int {
	return t.counts[ability]
}

// Len returns the number of distinct abilities.
func (t *Tally) Len() int {
	return len(t.counts)
}

// Top returns up to n abilities by descending count. Equal counts are
// ordered by which ability reached that count first.
func (t *Tally) Top(n int) []AbilityCount {
	rows := make([]AbilityCount, 0, len(t.counts))
	for a, c := range t.counts {
		rows = append(rows, AbilityCount{Ability: a, Count: c})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Count != rows[j].Count {
			return rows[i].Count > rows[j].Count
		}
		return t.reachedAt[rows[i].Ability] < t.reachedAt[rows[j].Ability]
	})
	if n >= 0 && n < len(rows) {
		rows = rows[:n]
	}
	return rows
}
