package matching

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/sejinpark/tracklift/core"
)

// MatchScore is the scorer verdict for one candidate against one query.
type MatchScore struct {
	IsExact    bool
	Confidence float64
}

// NewMatchScorer creates a stateless scorer. Instances are freely shareable.
func NewMatchScorer() *MatchScorer {
	return &MatchScorer{}
}

type MatchScorer struct{}

// Score compares a search query (title, artist) with one catalog candidate
// and computes an exactness flag plus a confidence in [0, 1]. Queries whose
// artist is the Unknown Artist sentinel are matched on title alone.
func (m *MatchScorer) Score(queryTitle, queryArtist, candidateTitle, candidateArtist string) MatchScore {
	qTitle := Normalize(queryTitle)
	cTitle := Normalize(candidateTitle)

	if isUnknownArtist(queryArtist) {
		return m.scoreTitleOnly(qTitle, cTitle)
	}

	qArtist := Normalize(queryArtist)
	cArtist := Normalize(candidateArtist)

	exactTitle := qTitle == cTitle
	exactArtist := qArtist == cArtist
	titleContained := containsEither(qTitle, cTitle)
	artistContained := containsEither(qArtist, cArtist)

	isExact := (exactTitle && exactArtist) ||
		(exactTitle && artistContained) ||
		(titleContained && exactArtist)

	titleSim := Similarity(qTitle, cTitle)
	if titleContained && titleSim < 0.9 {
		titleSim = 0.9
	}
	artistSim := Similarity(qArtist, cArtist)
	if artistContained && artistSim < 0.95 {
		artistSim = 0.95
	}

	var confidence float64
	switch {
	case exactTitle && exactArtist,
		exactTitle && artistSim >= 0.9,
		exactArtist && titleSim >= 0.9:
		confidence = 1.0
	case titleSim >= 0.8 && artistSim >= 0.8:
		confidence = titleSim*0.6 + artistSim*0.4 + 0.1
		if confidence > 1.0 {
			confidence = 1.0
		}
	case titleSim >= 0.9:
		confidence = titleSim*0.7 + artistSim*0.3
	case artistSim >= 0.9:
		confidence = titleSim*0.5 + artistSim*0.5
	default:
		confidence = titleSim*0.6 + artistSim*0.4
	}

	return MatchScore{IsExact: isExact, Confidence: confidence}
}

// scoreTitleOnly handles queries without artist information.
func (m *MatchScorer) scoreTitleOnly(qTitle, cTitle string) MatchScore {
	exact := qTitle == cTitle
	contained := containsEither(qTitle, cTitle)

	score := MatchScore{IsExact: exact || contained}
	switch {
	case exact:
		score.Confidence = 0.95
	case contained:
		ratio := containmentRatio(qTitle, cTitle)
		score.Confidence = ratio * 0.9
		if score.Confidence < 0.8 {
			score.Confidence = 0.8
		}
	default:
		titleSim := Similarity(qTitle, cTitle)
		if titleSim >= 0.8 {
			score.Confidence = titleSim * 0.9
		} else {
			score.Confidence = titleSim * 0.7
		}
	}
	return score
}

// ScoreCandidates annotates every candidate with the scorer verdict and
// returns them sorted: exact matches first, then by descending confidence.
// The input slice is not modified.
func (m *MatchScorer) ScoreCandidates(
	track core.MusicTrack, /*const*/
	candidates []core.CatalogCandidate, /*const*/
) []core.CatalogCandidate {
	scored := make([]core.CatalogCandidate, len(candidates))
	for i, candidate := range candidates {
		score := m.Score(track.Title, track.Artist, candidate.Title, candidate.Artist)
		candidate.IsExact = score.IsExact
		candidate.Confidence = score.Confidence
		scored[i] = candidate
	}
	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].IsExact != scored[j].IsExact {
			return scored[i].IsExact
		}
		return scored[i].Confidence > scored[j].Confidence
	})
	return scored
}

// isUnknownArtist reports whether the query artist carries no real
// information: the sentinel value, or anything containing "unknown".
func isUnknownArtist(artist string) bool {
	return artist == core.UnknownArtist ||
		strings.Contains(strings.ToLower(artist), "unknown")
}

// containmentRatio is the length ratio shorter/longer of two strings, used to
// grade how much of the longer title the contained one covers.
func containmentRatio(s1, s2 string) float64 {
	l1 := utf8.RuneCountInString(s1)
	l2 := utf8.RuneCountInString(s2)
	if l1 == 0 || l2 == 0 {
		return 0
	}
	if l1 > l2 {
		l1, l2 = l2, l1
	}
	return float64(l1) / float64(l2)
}
