package engine

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/upskillhq/skillmatch/internal/engine/domain"
)

// coverageThreshold is the employee match percentage at or above which an
// employee counts as covered by the market baseline.
const coverageThreshold = 67

// RecomputeOrganization rolls the company up from its department snapshots,
// with coverage computed directly from individual employee snapshots. The
// organization is the root of the rollup; nothing fans out from here.
func (e *Engine) RecomputeOrganization(ctx context.Context, companyID string) error {
	departments, err := e.store.ListDepartmentSnapshots(ctx, companyID)
	if err != nil {
		return fmt.Errorf("failed to list department snapshots: %w", err)
	}

	employees, err := e.store.ListEmployeeSnapshots(ctx, companyID)
	if err != nil {
		return fmt.Errorf("failed to list employee snapshots: %w", err)
	}

	coverageRate := 0
	if len(employees) > 0 {
		covered := 0
		for _, snap := range employees {
			if snap.MatchPercentage >= coverageThreshold {
				covered++
			}
		}
		coverageRate = int(math.Round(float64(covered) / float64(len(employees)) * 100))
	}

	weightedSum := 0
	analyzedTotal := 0
	criticalSkills := 0
	moderateSkills := 0
	var baselineID string

	for i, dept := range departments {
		if i == 0 {
			baselineID = dept.BaselineID
		}
		weightedSum += dept.AvgMarketMatch * dept.AnalyzedCount
		analyzedTotal += dept.AnalyzedCount
		criticalSkills += dept.CriticalGaps
		moderateSkills += dept.EmergingGaps
	}

	// Compresses the 0-100 analyzed-weighted average into a 0-10 index
	alignmentIndex := 0
	if analyzedTotal > 0 {
		alignmentIndex = int(math.Round(float64(weightedSum) / float64(analyzedTotal) / 10))
	}

	snapshot := &domain.OrganizationMatchSnapshot{
		CompanyID:              companyID,
		BaselineID:             baselineID,
		MarketCoverageRate:     coverageRate,
		IndustryAlignmentIndex: alignmentIndex,
		CriticalSkillsCount:    criticalSkills,
		ModerateSkillsCount:    moderateSkills,
		TopMissingSkills:       []domain.GapEntry{},
		LastComputedAt:         time.Now().UTC(),
	}

	if err := e.store.UpsertOrganizationSnapshot(ctx, snapshot); err != nil {
		return fmt.Errorf("failed to upsert organization snapshot: %w", err)
	}

	e.logger.Info("Organization snapshot recomputed",
		slog.String("company_id", companyID),
		slog.Int("market_coverage_rate", coverageRate),
		slog.Int("industry_alignment_index", alignmentIndex),
		slog.Int("critical_skills_count", criticalSkills),
		slog.Int("moderate_skills_count", moderateSkills),
	)

	return nil
}
