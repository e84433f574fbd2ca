// Package match scores an entity's observed skills against a market
// benchmark. This is the only place gap semantics are defined; every rollup
// consumes its output rather than raw proficiency.
package match

import (
	"math"
	"sort"
	"strings"

	"github.com/upskillhq/skillmatch/internal/engine/domain"
)

const (
	// GapThreshold is the per-skill score at or below which a baseline
	// skill counts as a gap
	GapThreshold = 40

	// MaxTopMissing bounds the ranked gap list
	MaxTopMissing = 5

	criticalImportance = 80
	emergingImportance = 60
)

// Result holds the outcome of one comparison.
type Result struct {
	Average    int
	TopMissing []domain.GapEntry
}

// Compare scores each baseline skill by the entity's proficiency (0-3 mapped
// linearly to 0-100, defaulting to 0 for unseen skills, case-insensitive on
// skill name), averages the scores, and ranks the top gaps by the baseline's
// own market importance.
func Compare(baseline []domain.BenchmarkSkill, observed []domain.ObservedSkill) Result {
	if len(baseline) == 0 {
		return Result{Average: 0, TopMissing: []domain.GapEntry{}}
	}

	proficiency := make(map[string]int, len(observed))
	for _, s := range observed {
		proficiency[strings.ToLower(s.SkillName)] = s.Proficiency
	}

	total := 0
	var gaps []domain.BenchmarkSkill
	for _, b := range baseline {
		p := proficiency[strings.ToLower(b.SkillName)]
		score := roundInt(float64(p) / domain.MaxProficiency * 100)
		total += score
		if score <= GapThreshold {
			gaps = append(gaps, b)
		}
	}

	sort.SliceStable(gaps, func(i, j int) bool {
		return gaps[i].MatchPercentage > gaps[j].MatchPercentage
	})
	if len(gaps) > MaxTopMissing {
		gaps = gaps[:MaxTopMissing]
	}

	topMissing := make([]domain.GapEntry, 0, len(gaps))
	for _, g := range gaps {
		topMissing = append(topMissing, domain.GapEntry{
			SkillName:        g.SkillName,
			Category:         Categorize(g.MatchPercentage),
			MarketImportance: g.MatchPercentage,
		})
	}

	return Result{
		Average:    roundInt(float64(total) / float64(len(baseline))),
		TopMissing: topMissing,
	}
}

// Categorize tags a gap by the baseline skill's market importance. The tag
// overrides any category the benchmark itself carried.
func Categorize(importance int) string {
	switch {
	case importance >= criticalImportance:
		return domain.GapCritical
	case importance >= emergingImportance:
		return domain.GapEmerging
	}
	return domain.GapFoundational
}

func roundInt(v float64) int {
	return int(math.Round(v))
}
