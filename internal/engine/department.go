package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"time"

	"github.com/upskillhq/skillmatch/internal/engine/domain"
	"github.com/upskillhq/skillmatch/internal/engine/match"
)

// RecomputeDepartment rolls one department's employee snapshots up into a
// department snapshot. An empty department gets a zeroed snapshot, which is
// a valid "no data" result distinct from "not yet computed". Employees
// without a snapshot count toward the headcount but not toward the average
// or the gap counters.
func (e *Engine) RecomputeDepartment(ctx context.Context, companyID, department string) error {
	employees, err := e.store.ListEmployeesByDepartment(ctx, companyID, department)
	if err != nil {
		return fmt.Errorf("failed to list department employees: %w", err)
	}

	now := time.Now().UTC()

	if len(employees) == 0 {
		snapshot := &domain.DepartmentMatchSnapshot{
			CompanyID:      companyID,
			Department:     department,
			TopGaps:        []domain.DepartmentGap{},
			LastComputedAt: now,
		}
		if err := e.store.UpsertDepartmentSnapshot(ctx, snapshot); err != nil {
			return fmt.Errorf("failed to upsert department snapshot: %w", err)
		}
		e.logger.Info("Department snapshot recomputed (no employees)",
			slog.String("company_id", companyID),
			slog.String("department", department),
		)
		return nil
	}

	var analyzed []*domain.EmployeeMatchSnapshot
	for _, employee := range employees {
		snap, err := e.store.GetEmployeeSnapshot(ctx, companyID, employee.ID)
		if err != nil {
			if errors.Is(err, domain.ErrSnapshotNotFound) {
				continue
			}
			return fmt.Errorf("failed to load employee snapshot: %w", err)
		}
		analyzed = append(analyzed, snap)
	}

	matchSum := 0
	criticalGaps := 0
	emergingGaps := 0
	gapCounts := make(map[string]int)
	var baselineID string

	for i, snap := range analyzed {
		if i == 0 {
			baselineID = snap.BaselineID
		}
		matchSum += snap.MatchPercentage
		for _, gap := range snap.TopMissingSkills {
			// Occurrence counts: a skill missing for ten employees adds ten
			gapCounts[gap.SkillName]++
			switch gap.Category {
			case domain.GapCritical:
				criticalGaps++
			case domain.GapEmerging:
				emergingGaps++
			}
		}
	}

	avgMarketMatch := 0
	if len(analyzed) > 0 {
		avgMarketMatch = int(math.Round(float64(matchSum) / float64(len(analyzed))))
	}

	snapshot := &domain.DepartmentMatchSnapshot{
		CompanyID:      companyID,
		Department:     department,
		BaselineID:     baselineID,
		AvgMarketMatch: avgMarketMatch,
		CriticalGaps:   criticalGaps,
		EmergingGaps:   emergingGaps,
		TopGaps:        rankGaps(gapCounts),
		AnalyzedCount:  len(analyzed),
		EmployeeCount:  len(employees),
		LastComputedAt: now,
	}

	if err := e.store.UpsertDepartmentSnapshot(ctx, snapshot); err != nil {
		return fmt.Errorf("failed to upsert department snapshot: %w", err)
	}

	e.logger.Info("Department snapshot recomputed",
		slog.String("company_id", companyID),
		slog.String("department", department),
		slog.Int("avg_market_match", avgMarketMatch),
		slog.Int("analyzed_count", len(analyzed)),
		slog.Int("employee_count", len(employees)),
	)

	return nil
}

// rankGaps returns the most frequent gap skill names, count descending with
// name as the tie-break so reruns over unchanged inputs stay identical. The
// per-entry percentage is a schema placeholder, not computed at this level.
func rankGaps(gapCounts map[string]int) []domain.DepartmentGap {
	ranked := make([]domain.DepartmentGap, 0, len(gapCounts))
	for name, count := range gapCounts {
		ranked = append(ranked, domain.DepartmentGap{SkillName: name, Count: count})
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return ranked[i].SkillName < ranked[j].SkillName
	})

	if len(ranked) > match.MaxTopMissing {
		ranked = ranked[:match.MaxTopMissing]
	}
	return ranked
}
