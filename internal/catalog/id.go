package catalog

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// ParseID extracts the numeric id from a detail URL such as
// https://pokeapi.co/api/v2/pokemon/25/ by taking the last non-empty path
// segment. Host and path prefix length do not matter.
func ParseID(detailURL string) (int, error) {
	path := detailURL
	if u, err := url.Parse(detailURL); err == nil && u.Path != "" {
		path = u.Path
	}

	segments := strings.Split(path, "/")
	for i := len(segments) - 1; i >= 0; i-- {
		seg := segments[i]
		if seg == "" {
			continue
		}
		id, err := strconv.Atoi(seg)
		if err != nil || id < 1 {
			return 0, fmt.Errorf("%w: %q", ErrBadDetailURL, detailURL)
		}
		return id, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrBadDetailURL, detailURL)
}

// MaxID bounds the ids a Range may address. The catalog uses a few
// thousand ids at most.
const MaxID = 100000

// Range is an inclusive id interval.
type Range struct {
	Start int
	End   int
}

// Len returns the number of ids in the range.
func (r Range) Len() int {
	if r.End < r.Start {
		return 0
	}
	return r.End - r.Start + 1
}

// Validate rejects ranges with start < 1, start > end or end > MaxID.
func (r Range) Validate() error {
	if r.Start < 1 || r.Start > r.End || r.End > MaxID {
		return fmt.Errorf("%w: %d-%d", ErrInvalidRange, r.Start, r.End)
	}
	return nil
}

// ParseRange parses the selector's comma-joined "start,end" value.
func ParseRange(s string) (Range, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return Range{}, fmt.Errorf("%w: %q (want start,end)", ErrInvalidRange, s)
	}
	start, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return Range{}, fmt.Errorf("%w: bad start %q", ErrInvalidRange, parts[0])
	}
	end, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return Range{}, fmt.Errorf("%w: bad end %q", ErrInvalidRange, parts[1])
	}
	r := Range{Start: start, End: end}
	if err := r.Validate(); err != nil {
		return Range{}, err
	}
	return r, nil
}
