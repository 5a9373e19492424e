package lpak

import (
	"fmt"

	"github.com/gobwas/glob"
)

// Filter returns the entries whose full stored path matches pattern, in
// table order. Matching uses shell glob semantics: `*` matches any run of
// characters including separators, `?` matches a single character, and the
// whole path must match the whole pattern, case-sensitively. An empty
// pattern matches everything.
func Filter(entries []Entry, pattern string) ([]Entry, error) {
	if pattern == "" {
		return entries, nil
	}

	g, err := glob.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid filter pattern %q: %w", pattern, err)
	}

	matched := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if g.Match(e.Path) {
			matched = append(matched, e)
		}
	}
	return matched, nil
}
