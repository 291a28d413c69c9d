// Package scoring computes the match score shown next to every search result.
package scoring

import (
	"math"
	"sort"
	"strings"

	"github.com/spigell/gig-matcher/internal/filtering"
	"github.com/spigell/gig-matcher/internal/marketplace"
)

const (
	MaxScore = 99

	baseScore        = 70
	perBadge         = 5
	ratingPivot      = 4.0
	ratingWeight     = 10
	skillMatchBonus  = 15
	titleMatchBonus  = 10
	workTypeBonus    = 5
	availableBonus   = 5
	excellentAtLeast = 90
	goodAtLeast      = 80
	fairAtLeast      = 70
)

type Level string

const (
	LevelExcellent Level = "excellent"
	LevelGood      Level = "good"
	LevelFair      Level = "fair"
	LevelLow       Level = "low"
)

// Match annotates a worker with its score for the current criteria.
type Match struct {
	Worker *marketplace.Worker
	Score  int
	Level  Level
}

// Score returns the match score of w for the given criteria and query.
// The result is capped at MaxScore. There is no lower clamp: a worker rated
// below 4.0 loses points, down to 30 for a zero rating.
func Score(w *marketplace.Worker, c filtering.Criteria, query string) int {
	if w == nil {
		return 0
	}

	sum := float64(baseScore)
	sum += float64(perBadge * len(w.ValidBadges()))
	sum += ratingWeight * (w.Rating - ratingPivot)

	if q := strings.TrimSpace(query); q != "" {
		if filtering.SkillMatches(w, q) {
			sum += skillMatchBonus
		}
		if strings.Contains(strings.ToLower(w.Title), strings.ToLower(q)) {
			sum += titleMatchBonus
		}
	}

	if wt, ok := c.ResolvedWorkType(); ok && wt == w.WorkType {
		sum += workTypeBonus
	}

	if w.IsAvailableNow() {
		sum += availableBonus
	}

	return min(MaxScore, roundHalfUp(sum))
}

// roundHalfUp rounds .5 towards positive infinity.
func roundHalfUp(x float64) int {
	return int(math.Floor(x + 0.5))
}

func LevelOf(score int) Level {
	switch {
	case score >= excellentAtLeast:
		return LevelExcellent
	case score >= goodAtLeast:
		return LevelGood
	case score >= fairAtLeast:
		return LevelFair
	default:
		return LevelLow
	}
}

// Annotate scores every worker of roster using c.Query, keeping roster order.
func Annotate(roster *marketplace.Roster, c filtering.Criteria) []Match {
	matches := make([]Match, 0, roster.Len())
	if roster == nil {
		return matches
	}
	for _, w := range roster.Items {
		if w == nil {
			continue
		}
		score := Score(w, c, c.Query)
		matches = append(matches, Match{Worker: w, Score: score, Level: LevelOf(score)})
	}
	return matches
}

// SortByScore returns a copy of matches ordered by descending score. Ties keep
// their original relative order.
func SortByScore(matches []Match) []Match {
	sorted := make([]Match, len(matches))
	copy(sorted, matches)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Score > sorted[j].Score
	})
	return sorted
}
