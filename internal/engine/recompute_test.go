package engine

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/upskillhq/skillmatch/internal/engine/domain"
)

func TestResolveBaseline(t *testing.T) {
	older := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	newer := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	store := newFakeStore()
	store.benchmarks = []domain.MarketBenchmark{
		{ID: "bm-eng-old", CompanyID: "acme", Department: "Engineering", GeneratedAt: older},
		{ID: "bm-eng-new", CompanyID: "acme", Department: "Engineering", GeneratedAt: newer},
		{ID: "bm-role", CompanyID: "acme", RoleName: "Data Analyst", GeneratedAt: older},
		{ID: "bm-any", CompanyID: "acme", Department: "Sales", GeneratedAt: newer},
		{ID: "bm-other", CompanyID: "globex", Department: "Engineering", GeneratedAt: newer},
	}
	e := newTestEngine(store)
	ctx := context.Background()

	tests := []struct {
		name       string
		department string
		roleName   string
		wantID     string
	}{
		{"department tier wins and takes the most recent", "Engineering", "Data Analyst", "bm-eng-new"},
		{"role tier when department has no benchmark", "Marketing", "Data Analyst", "bm-role"},
		{"latest overall when neither tier matches", "Marketing", "Designer", "bm-eng-new"},
		{"latest overall when no department or role given", "", "", "bm-eng-new"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := e.resolveBaseline(ctx, "acme", tt.department, tt.roleName)
			require.NoError(t, err)
			require.NotNil(t, got)
			assert.Equal(t, tt.wantID, got.ID)
		})
	}

	t.Run("nil when the company has no benchmarks at all", func(t *testing.T) {
		got, err := e.resolveBaseline(ctx, "initech", "Engineering", "Data Analyst")
		require.NoError(t, err)
		assert.Nil(t, got)
	})
}

func TestRecomputeEmployee(t *testing.T) {
	store := newFakeStore()
	store.benchmarks = []domain.MarketBenchmark{{
		ID:         "bm-1",
		CompanyID:  "acme",
		Department: "Engineering",
		Skills: []domain.BenchmarkSkill{
			{SkillName: "React", MatchPercentage: 90},
			{SkillName: "SQL", MatchPercentage: 70},
			{SkillName: "Go", MatchPercentage: 50},
		},
		GeneratedAt: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
	}}
	store.employees[key("acme", "emp-1")] = domain.Employee{
		ID: "emp-1", CompanyID: "acme", Department: "Engineering", RoleTitle: "Frontend Developer",
	}
	store.skills[key("acme", "emp-1")] = []domain.ObservedSkill{
		{SkillName: "React", Proficiency: 3, Source: domain.SourceVerified},
		{SkillName: "Figma", Proficiency: 2, Source: domain.SourceCV},
		{SkillName: "CSS", Proficiency: 2, Source: domain.SourceAI},
	}
	e := newTestEngine(store)
	ctx := context.Background()

	require.NoError(t, e.RecomputeEmployee(ctx, "acme", "emp-1"))

	snap, err := store.GetEmployeeSnapshot(ctx, "acme", "emp-1")
	require.NoError(t, err)
	assert.Equal(t, "bm-1", snap.BaselineID)
	assert.Equal(t, 33, snap.MatchPercentage)
	assert.Equal(t, []domain.GapEntry{
		{SkillName: "SQL", Category: domain.GapEmerging, MarketImportance: 70},
		{SkillName: "Go", Category: domain.GapFoundational, MarketImportance: 50},
	}, snap.TopMissingSkills)
	assert.Equal(t, domain.SourceCounts{AI: 1, CV: 1, Verified: 1}, snap.SkillsBySource)
	assert.False(t, snap.LastComputedAt.IsZero())
}

func TestRecomputeEmployee_Idempotent(t *testing.T) {
	store := newFakeStore()
	store.benchmarks = []domain.MarketBenchmark{{
		ID:        "bm-1",
		CompanyID: "acme",
		RoleName:  "Backend Developer",
		Skills: []domain.BenchmarkSkill{
			{SkillName: "Go", MatchPercentage: 90},
			{SkillName: "PostgreSQL", MatchPercentage: 75},
		},
		GeneratedAt: time.Now(),
	}}
	store.employees[key("acme", "emp-1")] = domain.Employee{
		ID: "emp-1", CompanyID: "acme", RoleTitle: "Backend Developer",
	}
	store.skills[key("acme", "emp-1")] = []domain.ObservedSkill{
		{SkillName: "Go", Proficiency: 2, Source: domain.SourceVerified},
	}
	e := newTestEngine(store)
	ctx := context.Background()

	require.NoError(t, e.RecomputeEmployee(ctx, "acme", "emp-1"))
	first, err := store.GetEmployeeSnapshot(ctx, "acme", "emp-1")
	require.NoError(t, err)

	require.NoError(t, e.RecomputeEmployee(ctx, "acme", "emp-1"))
	second, err := store.GetEmployeeSnapshot(ctx, "acme", "emp-1")
	require.NoError(t, err)

	// Identical except for the computation timestamp
	first.LastComputedAt = time.Time{}
	second.LastComputedAt = time.Time{}
	assert.Equal(t, first, second)
}

func TestRecomputeEmployee_NoBenchmarkIsNoOp(t *testing.T) {
	store := newFakeStore()
	store.employees[key("acme", "emp-1")] = domain.Employee{
		ID: "emp-1", CompanyID: "acme", Department: "Engineering",
	}
	e := newTestEngine(store)
	ctx := context.Background()

	require.NoError(t, e.RecomputeEmployee(ctx, "acme", "emp-1"))

	_, err := store.GetEmployeeSnapshot(ctx, "acme", "emp-1")
	assert.ErrorIs(t, err, domain.ErrSnapshotNotFound)
}

func TestRecomputeDepartment_Empty(t *testing.T) {
	store := newFakeStore()
	e := newTestEngine(store)
	ctx := context.Background()

	require.NoError(t, e.RecomputeDepartment(ctx, "acme", "Engineering"))

	snap, ok := store.deptSnaps[key("acme", "Engineering")]
	require.True(t, ok)
	assert.Equal(t, 0, snap.AvgMarketMatch)
	assert.Equal(t, 0, snap.EmployeeCount)
	assert.Equal(t, 0, snap.AnalyzedCount)
	assert.Equal(t, 0, snap.CriticalGaps)
	assert.Equal(t, 0, snap.EmergingGaps)
	assert.Empty(t, snap.TopGaps)
	assert.False(t, snap.LastComputedAt.IsZero())
}

func TestRecomputeDepartment(t *testing.T) {
	store := newFakeStore()
	for _, id := range []string{"emp-1", "emp-2", "emp-3"} {
		store.employees[key("acme", id)] = domain.Employee{
			ID: id, CompanyID: "acme", Department: "Engineering",
		}
	}
	// emp-3 has no snapshot: counted in headcount, excluded from analysis
	store.empSnaps[key("acme", "emp-1")] = domain.EmployeeMatchSnapshot{
		CompanyID: "acme", EmployeeID: "emp-1", BaselineID: "bm-1", MatchPercentage: 80,
		TopMissingSkills: []domain.GapEntry{
			{SkillName: "Kubernetes", Category: domain.GapCritical, MarketImportance: 85},
			{SkillName: "Go", Category: domain.GapEmerging, MarketImportance: 70},
		},
	}
	store.empSnaps[key("acme", "emp-2")] = domain.EmployeeMatchSnapshot{
		CompanyID: "acme", EmployeeID: "emp-2", BaselineID: "bm-2", MatchPercentage: 50,
		TopMissingSkills: []domain.GapEntry{
			{SkillName: "Kubernetes", Category: domain.GapCritical, MarketImportance: 85},
		},
	}
	e := newTestEngine(store)
	ctx := context.Background()

	require.NoError(t, e.RecomputeDepartment(ctx, "acme", "Engineering"))

	snap, ok := store.deptSnaps[key("acme", "Engineering")]
	require.True(t, ok)
	assert.Equal(t, 65, snap.AvgMarketMatch)
	assert.Equal(t, 3, snap.EmployeeCount)
	assert.Equal(t, 2, snap.AnalyzedCount)
	// Occurrence counts across employees, not distinct skills
	assert.Equal(t, 2, snap.CriticalGaps)
	assert.Equal(t, 1, snap.EmergingGaps)
	assert.Equal(t, []domain.DepartmentGap{
		{SkillName: "Kubernetes", Count: 2},
		{SkillName: "Go", Count: 1},
	}, snap.TopGaps)
	// Inherited from the first analyzed employee
	assert.Equal(t, "bm-1", snap.BaselineID)
}

func TestRecomputeOrganization(t *testing.T) {
	store := newFakeStore()
	store.deptSnaps[key("acme", "Engineering")] = domain.DepartmentMatchSnapshot{
		CompanyID: "acme", Department: "Engineering", BaselineID: "bm-1",
		AvgMarketMatch: 80, AnalyzedCount: 10, CriticalGaps: 4, EmergingGaps: 2,
	}
	store.deptSnaps[key("acme", "Sales")] = domain.DepartmentMatchSnapshot{
		CompanyID: "acme", Department: "Sales", BaselineID: "bm-2",
		AvgMarketMatch: 40, AnalyzedCount: 10, CriticalGaps: 1, EmergingGaps: 3,
	}
	store.empSnaps[key("acme", "emp-1")] = domain.EmployeeMatchSnapshot{
		CompanyID: "acme", EmployeeID: "emp-1", MatchPercentage: 90,
	}
	store.empSnaps[key("acme", "emp-2")] = domain.EmployeeMatchSnapshot{
		CompanyID: "acme", EmployeeID: "emp-2", MatchPercentage: 67,
	}
	store.empSnaps[key("acme", "emp-3")] = domain.EmployeeMatchSnapshot{
		CompanyID: "acme", EmployeeID: "emp-3", MatchPercentage: 40,
	}
	e := newTestEngine(store)

	require.NoError(t, e.RecomputeOrganization(context.Background(), "acme"))

	snap, ok := store.orgSnaps["acme"]
	require.True(t, ok)
	// (80*10 + 40*10) / 20 = 60, compressed to a 0-10 index
	assert.Equal(t, 6, snap.IndustryAlignmentIndex)
	// 2 of 3 employees at or above the 67% coverage threshold
	assert.Equal(t, 67, snap.MarketCoverageRate)
	assert.Equal(t, 5, snap.CriticalSkillsCount)
	assert.Equal(t, 5, snap.ModerateSkillsCount)
	assert.Equal(t, "bm-1", snap.BaselineID)
	assert.Empty(t, snap.TopMissingSkills)
}

func TestRecomputeOrganization_NoData(t *testing.T) {
	store := newFakeStore()
	e := newTestEngine(store)

	require.NoError(t, e.RecomputeOrganization(context.Background(), "acme"))

	snap, ok := store.orgSnaps["acme"]
	require.True(t, ok)
	assert.Equal(t, 0, snap.MarketCoverageRate)
	assert.Equal(t, 0, snap.IndustryAlignmentIndex)
	assert.Equal(t, 0, snap.CriticalSkillsCount)
	assert.Equal(t, 0, snap.ModerateSkillsCount)
}
