// The KEYS command filters list names against a glob pattern; the following module implements the glob matching.

package port

import (
	"fmt"
	"iter"

	"v.io/v23/glob"
)

// matchGlob filters the `keys` stream with the given glob `pattern`.
// Patterns are matched against the whole key as a single name element; '/' is not treated as a separator.
func matchGlob(pattern string, keys iter.Seq[string]) (iter.Seq[string], error) {
	parsedPattern, err := glob.Parse(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid pattern '%s': %w", pattern, err)
	}
	matcher := parsedPattern.Head()
	return func(yield func(string) bool) {
		for key := range keys {
			if matcher.Match(key) {
				if !yield(key) {
					return
				}
			}
		}
	}, nil
}
