package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/upskillhq/skillmatch/internal/engine/domain"
)

func TestCompare(t *testing.T) {
	tests := []struct {
		name        string
		baseline    []domain.BenchmarkSkill
		observed    []domain.ObservedSkill
		wantAverage int
		wantMissing []domain.GapEntry
	}{
		{
			name: "expert in one of three baseline skills",
			baseline: []domain.BenchmarkSkill{
				{SkillName: "React", MatchPercentage: 90},
				{SkillName: "SQL", MatchPercentage: 70},
				{SkillName: "Go", MatchPercentage: 50},
			},
			observed: []domain.ObservedSkill{
				{SkillName: "React", Proficiency: 3, Source: domain.SourceCV},
			},
			wantAverage: 33,
			wantMissing: []domain.GapEntry{
				{SkillName: "SQL", Category: domain.GapEmerging, MarketImportance: 70},
				{SkillName: "Go", Category: domain.GapFoundational, MarketImportance: 50},
			},
		},
		{
			name:        "empty baseline",
			baseline:    nil,
			observed:    []domain.ObservedSkill{{SkillName: "Go", Proficiency: 3}},
			wantAverage: 0,
			wantMissing: []domain.GapEntry{},
		},
		{
			name: "skill name lookup is case-insensitive",
			baseline: []domain.BenchmarkSkill{
				{SkillName: "PostgreSQL", MatchPercentage: 85},
			},
			observed: []domain.ObservedSkill{
				{SkillName: "postgresql", Proficiency: 3},
			},
			wantAverage: 100,
			wantMissing: []domain.GapEntry{},
		},
		{
			name: "learning proficiency still counts as a gap",
			baseline: []domain.BenchmarkSkill{
				{SkillName: "Kubernetes", MatchPercentage: 95},
			},
			observed: []domain.ObservedSkill{
				{SkillName: "Kubernetes", Proficiency: 1},
			},
			// 1/3 of 100 rounds to 33, at or below the gap threshold
			wantAverage: 33,
			wantMissing: []domain.GapEntry{
				{SkillName: "Kubernetes", Category: domain.GapCritical, MarketImportance: 95},
			},
		},
		{
			name: "using proficiency is above the gap threshold",
			baseline: []domain.BenchmarkSkill{
				{SkillName: "Terraform", MatchPercentage: 90},
			},
			observed: []domain.ObservedSkill{
				{SkillName: "Terraform", Proficiency: 2},
			},
			wantAverage: 67,
			wantMissing: []domain.GapEntry{},
		},
		{
			name: "gap category overrides the benchmark's own category",
			baseline: []domain.BenchmarkSkill{
				{SkillName: "Rust", MatchPercentage: 80, Category: "niche"},
			},
			observed:    nil,
			wantAverage: 0,
			wantMissing: []domain.GapEntry{
				{SkillName: "Rust", Category: domain.GapCritical, MarketImportance: 80},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Compare(tt.baseline, tt.observed)
			assert.Equal(t, tt.wantAverage, got.Average)
			assert.Equal(t, tt.wantMissing, got.TopMissing)
		})
	}
}

func TestCompare_TopMissingBounded(t *testing.T) {
	baseline := []domain.BenchmarkSkill{
		{SkillName: "A", MatchPercentage: 95},
		{SkillName: "B", MatchPercentage: 90},
		{SkillName: "C", MatchPercentage: 85},
		{SkillName: "D", MatchPercentage: 70},
		{SkillName: "E", MatchPercentage: 65},
		{SkillName: "F", MatchPercentage: 50},
		{SkillName: "G", MatchPercentage: 45},
	}

	got := Compare(baseline, nil)

	require.Len(t, got.TopMissing, MaxTopMissing)
	// Ranked by market importance descending
	for i := 1; i < len(got.TopMissing); i++ {
		assert.GreaterOrEqual(t,
			got.TopMissing[i-1].MarketImportance,
			got.TopMissing[i].MarketImportance,
		)
	}
	assert.Equal(t, "A", got.TopMissing[0].SkillName)
	assert.Equal(t, "E", got.TopMissing[4].SkillName)
	assert.Equal(t, 0, got.Average)
}

func TestCompare_AverageInRange(t *testing.T) {
	baseline := []domain.BenchmarkSkill{
		{SkillName: "A", MatchPercentage: 90},
		{SkillName: "B", MatchPercentage: 40},
	}
	observed := []domain.ObservedSkill{
		{SkillName: "A", Proficiency: 3},
		{SkillName: "B", Proficiency: 3},
	}

	got := Compare(baseline, observed)

	assert.Equal(t, 100, got.Average)
	assert.Empty(t, got.TopMissing)
}

func TestCategorize(t *testing.T) {
	tests := []struct {
		importance int
		want       string
	}{
		{100, domain.GapCritical},
		{80, domain.GapCritical},
		{79, domain.GapEmerging},
		{60, domain.GapEmerging},
		{59, domain.GapFoundational},
		{0, domain.GapFoundational},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Categorize(tt.importance), "importance %d", tt.importance)
	}
}
