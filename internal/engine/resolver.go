package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/upskillhq/skillmatch/internal/engine/domain"
)

// resolveBaseline selects the single most relevant market benchmark for a
// company. Each tier is a full independent lookup, no merging: exact
// department match first, then exact role match, then the most recent
// benchmark overall. Returns (nil, nil) when no benchmark exists at any
// tier; callers treat that as "skip, nothing to compute".
func (e *Engine) resolveBaseline(ctx context.Context, companyID, department, roleName string) (*domain.MarketBenchmark, error) {
	if department != "" {
		benchmark, err := e.store.LatestBenchmarkByDepartment(ctx, companyID, department)
		if err == nil {
			return benchmark, nil
		}
		if !errors.Is(err, domain.ErrBenchmarkNotFound) {
			return nil, fmt.Errorf("failed to look up department benchmark: %w", err)
		}
	}

	if roleName != "" {
		benchmark, err := e.store.LatestBenchmarkByRole(ctx, companyID, roleName)
		if err == nil {
			return benchmark, nil
		}
		if !errors.Is(err, domain.ErrBenchmarkNotFound) {
			return nil, fmt.Errorf("failed to look up role benchmark: %w", err)
		}
	}

	benchmark, err := e.store.LatestBenchmark(ctx, companyID)
	if err != nil {
		if errors.Is(err, domain.ErrBenchmarkNotFound) {
			e.logger.Debug("No benchmark available",
				slog.String("company_id", companyID),
				slog.String("department", department),
				slog.String("role_name", roleName),
			)
			return nil, nil
		}
		return nil, fmt.Errorf("failed to look up latest benchmark: %w", err)
	}

	return benchmark, nil
}
