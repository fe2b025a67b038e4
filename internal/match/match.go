package match

import (
	"fresh2mealie/internal/mealie"
	"fresh2mealie/internal/similarity"
)

// Result is the best catalog candidate found for one extracted title.
type Result struct {
	SourceTitle string
	MatchedName string
	RecipeID    string
	Score       float64
}

// Matcher scores extracted menu titles against the recipe catalog.
type Matcher struct {
	threshold float64
}

// New creates a matcher with the given acceptance threshold in [0, 1].
func New(threshold float64) *Matcher {
	return &Matcher{threshold: threshold}
}

// Best returns the highest-scoring catalog entry for the title, or nil when
// the catalog is empty. Ties keep the entry seen first in catalog order. The
// best candidate is returned regardless of its score; use Accepted to decide
// whether it may enter plan creation.
func (m *Matcher) Best(title string, catalog *mealie.Catalog) *Result {
	var best *Result
	for _, entry := range catalog.Entries() {
		score := similarity.Score(title, entry.NormalizedName)
		if best == nil || score > best.Score {
			best = &Result{
				SourceTitle: title,
				MatchedName: entry.NormalizedName,
				RecipeID:    entry.RecipeID,
				Score:       score,
			}
		}
	}
	return best
}

// Accepted reports whether the result clears the acceptance threshold.
func (m *Matcher) Accepted(r *Result) bool {
	return r != nil && r.Score >= m.threshold
}
