package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/upskillhq/skillmatch/internal/engine/domain"
	"github.com/upskillhq/skillmatch/internal/engine/match"
)

// RecomputeEmployee rescores one employee against the best-matching
// benchmark and upserts the resulting snapshot. A resolution miss (no
// benchmark anywhere for the company) is a silent no-op, not an error: any
// prior snapshot stays in place until a benchmark appears.
func (e *Engine) RecomputeEmployee(ctx context.Context, companyID, employeeID string) error {
	employee, err := e.store.GetEmployee(ctx, companyID, employeeID)
	if err != nil {
		return fmt.Errorf("failed to load employee: %w", err)
	}

	skills, err := e.store.ListEmployeeSkills(ctx, companyID, employeeID)
	if err != nil {
		return fmt.Errorf("failed to load employee skills: %w", err)
	}

	baseline, err := e.resolveBaseline(ctx, companyID, employee.Department, employee.RoleTitle)
	if err != nil {
		return err
	}
	if baseline == nil {
		e.logger.Debug("Skipping employee recompute, no benchmark resolved",
			slog.String("company_id", companyID),
			slog.String("employee_id", employeeID),
		)
		return nil
	}

	result := match.Compare(baseline.Skills, skills)

	var sources domain.SourceCounts
	for _, s := range skills {
		switch s.Source {
		case domain.SourceAI:
			sources.AI++
		case domain.SourceCV:
			sources.CV++
		case domain.SourceVerified:
			sources.Verified++
		}
	}

	snapshot := &domain.EmployeeMatchSnapshot{
		CompanyID:        companyID,
		EmployeeID:       employeeID,
		BaselineID:       baseline.ID,
		MatchPercentage:  result.Average,
		TopMissingSkills: result.TopMissing,
		SkillsBySource:   sources,
		LastComputedAt:   time.Now().UTC(),
	}

	if err := e.store.UpsertEmployeeSnapshot(ctx, snapshot); err != nil {
		return fmt.Errorf("failed to upsert employee snapshot: %w", err)
	}

	e.logger.Info("Employee snapshot recomputed",
		slog.String("company_id", companyID),
		slog.String("employee_id", employeeID),
		slog.String("baseline_id", baseline.ID),
		slog.Int("match_percentage", result.Average),
		slog.Int("top_missing", len(result.TopMissing)),
	)

	return nil
}
