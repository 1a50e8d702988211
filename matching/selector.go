package matching

import (
	"strings"
	"unicode/utf8"

	"github.com/sejinpark/tracklift/core"
)

// MatchResult is the selector outcome: the chosen candidate (nil when no tier
// accepted anything) and the tier number that made the decision, for
// diagnostics and tests.
type MatchResult struct {
	Candidate *core.CatalogCandidate
	Tier      int
}

// Found reports whether a candidate was selected.
func (r MatchResult) Found() bool {
	return r.Candidate != nil
}

// selectorQuery carries the precomputed normalized forms of one query so the
// tier predicates stay cheap.
type selectorQuery struct {
	rawTitle  string
	rawArtist string
	title     string
	artist    string
}

// tier is one ranked matching rule. Earlier tiers are stricter; the first
// candidate accepted by the earliest tier wins.
type tier struct {
	name   string
	accept func(q selectorQuery, c *core.CatalogCandidate) bool
	// allowMismatch permits cross-script candidates. On the general path
	// only the strictest tier sets it: an exact title and artist match is
	// trusted even when a script classifier would flag the pair. The
	// title-only path sets it on every tier.
	allowMismatch bool
}

// NewCandidateSelector creates a stateless selector.
func NewCandidateSelector() *CandidateSelector {
	return &CandidateSelector{}
}

type CandidateSelector struct{}

// SelectBest picks the single best candidate for the query using a tiered
// fallback policy. Selection deliberately runs its own string matching on top
// of any scorer annotations: a high-confidence wrong-script candidate must
// lose to a lower-confidence same-script partial match, which pure confidence
// sorting cannot express.
func (s *CandidateSelector) SelectBest(
	queryTitle string,
	queryArtist string,
	candidates []core.CatalogCandidate, /*const*/
) MatchResult {
	if len(candidates) == 0 {
		return MatchResult{}
	}

	q := selectorQuery{
		rawTitle:  queryTitle,
		rawArtist: queryArtist,
		title:     Normalize(queryTitle),
		artist:    Normalize(queryArtist),
	}

	tiers := generalTiers
	if isUnknownArtist(queryArtist) {
		tiers = titleOnlyTiers
	}

	for tierIdx, t := range tiers {
		for i := range candidates {
			c := &candidates[i]
			if !t.allowMismatch && s.mismatched(q, c) {
				continue
			}
			if t.accept(q, c) {
				core.Printf("Selected %q - %q at tier %d (%s)", c.Title, c.Artist, tierIdx+1, t.name)
				return MatchResult{Candidate: c, Tier: tierIdx + 1}
			}
		}
	}

	return MatchResult{}
}

// mismatched flags a candidate whose title or artist belongs to a visibly
// different writing system than the query's.
func (s *CandidateSelector) mismatched(q selectorQuery, c *core.CatalogCandidate) bool {
	if IsLanguageMismatch(q.rawTitle, c.Title) {
		return true
	}
	return q.rawArtist != core.UnknownArtist && IsLanguageMismatch(q.rawArtist, c.Artist)
}

// titleOnlyTiers handle queries whose artist is unknown. The script-mismatch
// exclusion does not apply on this path: with no artist to corroborate, a
// cross-script candidate may still be the right one (a romanized catalog
// entry, for instance), so every tier allows mismatches and the final tier
// falls back to the first candidate in the input, which is assumed pre-sorted
// by the catalog or the scorer.
var titleOnlyTiers = []tier{
	{
		name:          "exact title",
		allowMismatch: true,
		accept: func(q selectorQuery, c *core.CatalogCandidate) bool {
			return q.title == Normalize(c.Title)
		},
	},
	{
		name:          "title containment",
		allowMismatch: true,
		accept: func(q selectorQuery, c *core.CatalogCandidate) bool {
			return containsEither(q.title, Normalize(c.Title))
		},
	},
	{
		name:          "title similarity 0.8",
		allowMismatch: true,
		accept: func(q selectorQuery, c *core.CatalogCandidate) bool {
			return Similarity(q.title, Normalize(c.Title)) >= 0.8
		},
	},
	{
		name:          "title similarity 0.6",
		allowMismatch: true,
		accept: func(q selectorQuery, c *core.CatalogCandidate) bool {
			return Similarity(q.title, Normalize(c.Title)) >= 0.6
		},
	},
	{
		name:          "first candidate fallback",
		allowMismatch: true,
		accept: func(q selectorQuery, c *core.CatalogCandidate) bool {
			return true
		},
	},
}

// generalTiers handle queries with a known artist. Order is significant and
// encodes the empirical precedence: exact structural matches beat fuzzy ones,
// same-script beats cross-script, and the featuring special case resolves
// before giving up.
var generalTiers = []tier{
	{
		name:          "exact title and artist",
		allowMismatch: true,
		accept: func(q selectorQuery, c *core.CatalogCandidate) bool {
			return q.title == Normalize(c.Title) && q.artist == Normalize(c.Artist)
		},
	},
	{
		name: "exact title, artist containment",
		accept: func(q selectorQuery, c *core.CatalogCandidate) bool {
			return q.title == Normalize(c.Title) && containsEither(q.artist, Normalize(c.Artist))
		},
	},
	{
		name: "exact artist, title containment",
		accept: func(q selectorQuery, c *core.CatalogCandidate) bool {
			return q.artist == Normalize(c.Artist) && containsEither(q.title, Normalize(c.Title))
		},
	},
	{
		name: "title containment, loose artist",
		accept: func(q selectorQuery, c *core.CatalogCandidate) bool {
			return containsEither(q.title, Normalize(c.Title)) && looseArtistMatch(q.artist, Normalize(c.Artist))
		},
	},
	{
		name: "title 0.8, artist 0.7",
		accept: func(q selectorQuery, c *core.CatalogCandidate) bool {
			return Similarity(q.title, Normalize(c.Title)) >= 0.8 &&
				Similarity(q.artist, Normalize(c.Artist)) >= 0.7
		},
	},
	{
		name: "exact title, artist 0.6",
		accept: func(q selectorQuery, c *core.CatalogCandidate) bool {
			return q.title == Normalize(c.Title) &&
				Similarity(q.artist, Normalize(c.Artist)) >= 0.6
		},
	},
	{
		name: "exact artist, title 0.7",
		accept: func(q selectorQuery, c *core.CatalogCandidate) bool {
			return q.artist == Normalize(c.Artist) &&
				Similarity(q.title, Normalize(c.Title)) >= 0.7
		},
	},
	{
		name: "title containment, artist 0.4 or containment",
		accept: func(q selectorQuery, c *core.CatalogCandidate) bool {
			if !containsEither(q.title, Normalize(c.Title)) {
				return false
			}
			cArtist := Normalize(c.Artist)
			return Similarity(q.artist, cArtist) >= 0.4 || containsEither(q.artist, cArtist)
		},
	},
	{
		name:   "featuring credit in candidate title",
		accept: featuringMatch,
	},
}

// featuringMatch handles tracks whose queried "artist" is actually a credited
// feature inside the canonical title, e.g. query {title: "Sleep Well",
// artist: "kehlani"} against candidate "Sleep Well (feat. Kehlani)". The
// candidate title must contain both query parts plus a featuring marker.
func featuringMatch(q selectorQuery, c *core.CatalogCandidate) bool {
	cTitle := Normalize(c.Title)
	if q.title == "" || q.artist == "" {
		return false
	}
	if !strings.Contains(cTitle, q.title) || !strings.Contains(cTitle, q.artist) {
		return false
	}
	for _, word := range strings.Fields(cTitle) {
		switch word {
		case "feat", "featuring", "ft", "with":
			return true
		}
	}
	return false
}

// looseArtistMatch is the tier-4 artist criterion: moderate similarity, or a
// containment relationship where the longer of the two names has substance.
func looseArtistMatch(qArtist, cArtist string) bool {
	if Similarity(qArtist, cArtist) >= 0.5 {
		return true
	}
	if !containsEither(qArtist, cArtist) {
		return false
	}
	longer := qArtist
	if utf8.RuneCountInString(cArtist) > utf8.RuneCountInString(qArtist) {
		longer = cArtist
	}
	return utf8.RuneCountInString(longer) >= 2
}
