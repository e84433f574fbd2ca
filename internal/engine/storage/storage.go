// Package storage is the PostgreSQL implementation of the engine's Store.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/upskillhq/skillmatch/internal/engine/domain"
)

// Storage handles all database operations for the engine.
type Storage struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewStorage creates a new Storage instance.
func NewStorage(db *sqlx.DB, logger *slog.Logger) *Storage {
	return &Storage{
		db:     db,
		logger: logger,
	}
}

// PendingTasks selects up to limit pending tasks in FIFO order. The seq
// column breaks creation-time ties so ordering never depends on wall-clock
// resolution.
func (s *Storage) PendingTasks(ctx context.Context, limit int) ([]domain.QueueTask, error) {
	query := `
		SELECT seq, task_id, company_id, scope, scope_id, reason, created_at
		FROM recompute_tasks
		ORDER BY created_at ASC, seq ASC
		LIMIT $1
	`

	var tasks []domain.QueueTask
	if err := s.db.SelectContext(ctx, &tasks, query, limit); err != nil {
		return nil, fmt.Errorf("failed to select pending tasks: %w", err)
	}

	return tasks, nil
}

// EnqueueTask inserts one pending task. Seq is assigned by the database.
func (s *Storage) EnqueueTask(ctx context.Context, task *domain.QueueTask) error {
	query := `
		INSERT INTO recompute_tasks (task_id, company_id, scope, scope_id, reason, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING seq
	`

	err := s.db.QueryRowContext(ctx, query,
		task.TaskID,
		task.CompanyID,
		task.Scope,
		task.ScopeID,
		task.Reason,
		task.CreatedAt,
	).Scan(&task.Seq)
	if err != nil {
		return fmt.Errorf("failed to enqueue task: %w", err)
	}

	return nil
}

// DeleteTasks removes the given task ids in one batch operation.
func (s *Storage) DeleteTasks(ctx context.Context, taskIDs []string) error {
	if len(taskIDs) == 0 {
		return nil
	}

	query := `DELETE FROM recompute_tasks WHERE task_id = ANY($1)`

	result, err := s.db.ExecContext(ctx, query, pq.Array(taskIDs))
	if err != nil {
		return fmt.Errorf("failed to delete tasks: %w", err)
	}

	deleted, err := result.RowsAffected()
	if err == nil && deleted != int64(len(taskIDs)) {
		// A concurrent processor invocation already deleted some of them
		s.logger.Warn("Deleted fewer tasks than processed",
			slog.Int("processed", len(taskIDs)),
			slog.Int64("deleted", deleted),
		)
	}

	return nil
}

// TaskFilter narrows the dashboard task listing.
type TaskFilter struct {
	CompanyID string
	Scope     string
	PageSize  int
	Cursor    *TaskCursor
}

// TaskCursor is a keyset cursor over the queue's FIFO order.
type TaskCursor struct {
	CreatedAt time.Time
	Seq       int64
}

// ListTasks returns pending tasks in queue order for the dashboard surface,
// fetching one extra row so the caller can detect another page.
func (s *Storage) ListTasks(ctx context.Context, filter TaskFilter) ([]domain.QueueTask, error) {
	query := `
		SELECT seq, task_id, company_id, scope, scope_id, reason, created_at
		FROM recompute_tasks
		WHERE 1=1
	`
	args := []interface{}{}
	argIdx := 1

	if filter.CompanyID != "" {
		query += fmt.Sprintf(" AND company_id = $%d", argIdx)
		args = append(args, filter.CompanyID)
		argIdx++
	}

	if filter.Scope != "" {
		query += fmt.Sprintf(" AND scope = $%d", argIdx)
		args = append(args, filter.Scope)
		argIdx++
	}

	if filter.Cursor != nil {
		query += fmt.Sprintf(" AND (created_at, seq) > ($%d, $%d)", argIdx, argIdx+1)
		args = append(args, filter.Cursor.CreatedAt, filter.Cursor.Seq)
		argIdx += 2
	}

	query += " ORDER BY created_at ASC, seq ASC"
	query += fmt.Sprintf(" LIMIT $%d", argIdx)
	args = append(args, filter.PageSize+1)

	var tasks []domain.QueueTask
	if err := s.db.SelectContext(ctx, &tasks, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	return tasks, nil
}

const benchmarkColumns = `id, company_id, role_name, industry, department, skills, generated_at`

func (s *Storage) scanBenchmark(row *sql.Row) (*domain.MarketBenchmark, error) {
	var b domain.MarketBenchmark
	var skillsJSON []byte

	err := row.Scan(&b.ID, &b.CompanyID, &b.RoleName, &b.Industry, &b.Department, &skillsJSON, &b.GeneratedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrBenchmarkNotFound
		}
		return nil, fmt.Errorf("failed to scan benchmark: %w", err)
	}

	if err := json.Unmarshal(skillsJSON, &b.Skills); err != nil {
		return nil, fmt.Errorf("failed to decode benchmark skills: %w", err)
	}

	return &b, nil
}

// LatestBenchmarkByDepartment returns the most recently generated benchmark
// with an exact department match.
func (s *Storage) LatestBenchmarkByDepartment(ctx context.Context, companyID, department string) (*domain.MarketBenchmark, error) {
	query := `
		SELECT ` + benchmarkColumns + `
		FROM market_benchmarks
		WHERE company_id = $1 AND department = $2
		ORDER BY generated_at DESC
		LIMIT 1
	`
	return s.scanBenchmark(s.db.QueryRowContext(ctx, query, companyID, department))
}

// LatestBenchmarkByRole returns the most recently generated benchmark with
// an exact role match.
func (s *Storage) LatestBenchmarkByRole(ctx context.Context, companyID, roleName string) (*domain.MarketBenchmark, error) {
	query := `
		SELECT ` + benchmarkColumns + `
		FROM market_benchmarks
		WHERE company_id = $1 AND role_name = $2
		ORDER BY generated_at DESC
		LIMIT 1
	`
	return s.scanBenchmark(s.db.QueryRowContext(ctx, query, companyID, roleName))
}

// LatestBenchmark returns the most recently generated benchmark for the
// company's market, regardless of department or role.
func (s *Storage) LatestBenchmark(ctx context.Context, companyID string) (*domain.MarketBenchmark, error) {
	query := `
		SELECT ` + benchmarkColumns + `
		FROM market_benchmarks
		WHERE company_id = $1
		ORDER BY generated_at DESC
		LIMIT 1
	`
	return s.scanBenchmark(s.db.QueryRowContext(ctx, query, companyID))
}

// GetEmployee retrieves one directory entry.
func (s *Storage) GetEmployee(ctx context.Context, companyID, employeeID string) (*domain.Employee, error) {
	query := `
		SELECT id, company_id, department, role_title
		FROM employees
		WHERE company_id = $1 AND id = $2
	`

	var employee domain.Employee
	if err := s.db.GetContext(ctx, &employee, query, companyID, employeeID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrEmployeeNotFound
		}
		return nil, fmt.Errorf("failed to get employee: %w", err)
	}

	return &employee, nil
}

// ListEmployeeSkills returns the employee's observed skills with source tags.
func (s *Storage) ListEmployeeSkills(ctx context.Context, companyID, employeeID string) ([]domain.ObservedSkill, error) {
	query := `
		SELECT skill_name, proficiency, source
		FROM employee_skills
		WHERE company_id = $1 AND employee_id = $2
		ORDER BY skill_name
	`

	var skills []domain.ObservedSkill
	if err := s.db.SelectContext(ctx, &skills, query, companyID, employeeID); err != nil {
		return nil, fmt.Errorf("failed to list employee skills: %w", err)
	}

	return skills, nil
}

// ListEmployeesByDepartment returns the department's full headcount.
func (s *Storage) ListEmployeesByDepartment(ctx context.Context, companyID, department string) ([]domain.Employee, error) {
	query := `
		SELECT id, company_id, department, role_title
		FROM employees
		WHERE company_id = $1 AND department = $2
		ORDER BY id
	`

	var employees []domain.Employee
	if err := s.db.SelectContext(ctx, &employees, query, companyID, department); err != nil {
		return nil, fmt.Errorf("failed to list department employees: %w", err)
	}

	return employees, nil
}

// UpsertEmployeeSnapshot overwrites the (company, employee) snapshot row.
func (s *Storage) UpsertEmployeeSnapshot(ctx context.Context, snap *domain.EmployeeMatchSnapshot) error {
	topMissing, err := json.Marshal(snap.TopMissingSkills)
	if err != nil {
		return fmt.Errorf("failed to encode top missing skills: %w", err)
	}
	sources, err := json.Marshal(snap.SkillsBySource)
	if err != nil {
		return fmt.Errorf("failed to encode source counts: %w", err)
	}

	query := `
		INSERT INTO employee_match_snapshots (
			company_id, employee_id, baseline_id, match_percentage,
			top_missing_skills, skills_by_source, last_computed_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (company_id, employee_id) DO UPDATE SET
			baseline_id = EXCLUDED.baseline_id,
			match_percentage = EXCLUDED.match_percentage,
			top_missing_skills = EXCLUDED.top_missing_skills,
			skills_by_source = EXCLUDED.skills_by_source,
			last_computed_at = EXCLUDED.last_computed_at
	`

	_, err = s.db.ExecContext(ctx, query,
		snap.CompanyID,
		snap.EmployeeID,
		snap.BaselineID,
		snap.MatchPercentage,
		topMissing,
		sources,
		snap.LastComputedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert employee snapshot: %w", err)
	}

	return nil
}

func scanEmployeeSnapshot(scan func(dest ...interface{}) error) (*domain.EmployeeMatchSnapshot, error) {
	var snap domain.EmployeeMatchSnapshot
	var topMissing, sources []byte

	err := scan(
		&snap.CompanyID,
		&snap.EmployeeID,
		&snap.BaselineID,
		&snap.MatchPercentage,
		&topMissing,
		&sources,
		&snap.LastComputedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(topMissing, &snap.TopMissingSkills); err != nil {
		return nil, fmt.Errorf("failed to decode top missing skills: %w", err)
	}
	if err := json.Unmarshal(sources, &snap.SkillsBySource); err != nil {
		return nil, fmt.Errorf("failed to decode source counts: %w", err)
	}

	return &snap, nil
}

const employeeSnapshotColumns = `company_id, employee_id, baseline_id, match_percentage, top_missing_skills, skills_by_source, last_computed_at`

// GetEmployeeSnapshot retrieves one employee's current snapshot.
func (s *Storage) GetEmployeeSnapshot(ctx context.Context, companyID, employeeID string) (*domain.EmployeeMatchSnapshot, error) {
	query := `
		SELECT ` + employeeSnapshotColumns + `
		FROM employee_match_snapshots
		WHERE company_id = $1 AND employee_id = $2
	`

	row := s.db.QueryRowContext(ctx, query, companyID, employeeID)
	snap, err := scanEmployeeSnapshot(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrSnapshotNotFound
		}
		return nil, fmt.Errorf("failed to get employee snapshot: %w", err)
	}

	return snap, nil
}

// ListEmployeeSnapshots returns every employee snapshot for the company.
func (s *Storage) ListEmployeeSnapshots(ctx context.Context, companyID string) ([]domain.EmployeeMatchSnapshot, error) {
	query := `
		SELECT ` + employeeSnapshotColumns + `
		FROM employee_match_snapshots
		WHERE company_id = $1
		ORDER BY employee_id
	`

	rows, err := s.db.QueryContext(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list employee snapshots: %w", err)
	}
	defer rows.Close()

	var snapshots []domain.EmployeeMatchSnapshot
	for rows.Next() {
		snap, err := scanEmployeeSnapshot(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employee snapshot: %w", err)
		}
		snapshots = append(snapshots, *snap)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read employee snapshots: %w", err)
	}

	return snapshots, nil
}

// UpsertDepartmentSnapshot overwrites the (company, department) snapshot row.
func (s *Storage) UpsertDepartmentSnapshot(ctx context.Context, snap *domain.DepartmentMatchSnapshot) error {
	topGaps, err := json.Marshal(snap.TopGaps)
	if err != nil {
		return fmt.Errorf("failed to encode top gaps: %w", err)
	}

	query := `
		INSERT INTO department_match_snapshots (
			company_id, department, baseline_id, avg_market_match,
			critical_gaps, emerging_gaps, top_gaps,
			analyzed_count, employee_count, last_computed_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (company_id, department) DO UPDATE SET
			baseline_id = EXCLUDED.baseline_id,
			avg_market_match = EXCLUDED.avg_market_match,
			critical_gaps = EXCLUDED.critical_gaps,
			emerging_gaps = EXCLUDED.emerging_gaps,
			top_gaps = EXCLUDED.top_gaps,
			analyzed_count = EXCLUDED.analyzed_count,
			employee_count = EXCLUDED.employee_count,
			last_computed_at = EXCLUDED.last_computed_at
	`

	_, err = s.db.ExecContext(ctx, query,
		snap.CompanyID,
		snap.Department,
		snap.BaselineID,
		snap.AvgMarketMatch,
		snap.CriticalGaps,
		snap.EmergingGaps,
		topGaps,
		snap.AnalyzedCount,
		snap.EmployeeCount,
		snap.LastComputedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert department snapshot: %w", err)
	}

	return nil
}

func scanDepartmentSnapshot(scan func(dest ...interface{}) error) (*domain.DepartmentMatchSnapshot, error) {
	var snap domain.DepartmentMatchSnapshot
	var topGaps []byte

	err := scan(
		&snap.CompanyID,
		&snap.Department,
		&snap.BaselineID,
		&snap.AvgMarketMatch,
		&snap.CriticalGaps,
		&snap.EmergingGaps,
		&topGaps,
		&snap.AnalyzedCount,
		&snap.EmployeeCount,
		&snap.LastComputedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(topGaps, &snap.TopGaps); err != nil {
		return nil, fmt.Errorf("failed to decode top gaps: %w", err)
	}

	return &snap, nil
}

const departmentSnapshotColumns = `company_id, department, baseline_id, avg_market_match, critical_gaps, emerging_gaps, top_gaps, analyzed_count, employee_count, last_computed_at`

// GetDepartmentSnapshot retrieves one department's current snapshot.
func (s *Storage) GetDepartmentSnapshot(ctx context.Context, companyID, department string) (*domain.DepartmentMatchSnapshot, error) {
	query := `
		SELECT ` + departmentSnapshotColumns + `
		FROM department_match_snapshots
		WHERE company_id = $1 AND department = $2
	`

	row := s.db.QueryRowContext(ctx, query, companyID, department)
	snap, err := scanDepartmentSnapshot(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrSnapshotNotFound
		}
		return nil, fmt.Errorf("failed to get department snapshot: %w", err)
	}

	return snap, nil
}

// ListDepartmentSnapshots returns every department snapshot for the company.
func (s *Storage) ListDepartmentSnapshots(ctx context.Context, companyID string) ([]domain.DepartmentMatchSnapshot, error) {
	query := `
		SELECT ` + departmentSnapshotColumns + `
		FROM department_match_snapshots
		WHERE company_id = $1
		ORDER BY department
	`

	rows, err := s.db.QueryContext(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list department snapshots: %w", err)
	}
	defer rows.Close()

	var snapshots []domain.DepartmentMatchSnapshot
	for rows.Next() {
		snap, err := scanDepartmentSnapshot(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan department snapshot: %w", err)
		}
		snapshots = append(snapshots, *snap)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read department snapshots: %w", err)
	}

	return snapshots, nil
}

// UpsertOrganizationSnapshot overwrites the company's snapshot row.
func (s *Storage) UpsertOrganizationSnapshot(ctx context.Context, snap *domain.OrganizationMatchSnapshot) error {
	topMissing, err := json.Marshal(snap.TopMissingSkills)
	if err != nil {
		return fmt.Errorf("failed to encode top missing skills: %w", err)
	}

	query := `
		INSERT INTO organization_match_snapshots (
			company_id, baseline_id, market_coverage_rate, industry_alignment_index,
			critical_skills_count, moderate_skills_count, top_missing_skills, last_computed_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (company_id) DO UPDATE SET
			baseline_id = EXCLUDED.baseline_id,
			market_coverage_rate = EXCLUDED.market_coverage_rate,
			industry_alignment_index = EXCLUDED.industry_alignment_index,
			critical_skills_count = EXCLUDED.critical_skills_count,
			moderate_skills_count = EXCLUDED.moderate_skills_count,
			top_missing_skills = EXCLUDED.top_missing_skills,
			last_computed_at = EXCLUDED.last_computed_at
	`

	_, err = s.db.ExecContext(ctx, query,
		snap.CompanyID,
		snap.BaselineID,
		snap.MarketCoverageRate,
		snap.IndustryAlignmentIndex,
		snap.CriticalSkillsCount,
		snap.ModerateSkillsCount,
		topMissing,
		snap.LastComputedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert organization snapshot: %w", err)
	}

	return nil
}

// GetOrganizationSnapshot retrieves the company's current rollup snapshot.
func (s *Storage) GetOrganizationSnapshot(ctx context.Context, companyID string) (*domain.OrganizationMatchSnapshot, error) {
	query := `
		SELECT company_id, baseline_id, market_coverage_rate, industry_alignment_index,
			critical_skills_count, moderate_skills_count, top_missing_skills, last_computed_at
		FROM organization_match_snapshots
		WHERE company_id = $1
	`

	var snap domain.OrganizationMatchSnapshot
	var topMissing []byte

	err := s.db.QueryRowContext(ctx, query, companyID).Scan(
		&snap.CompanyID,
		&snap.BaselineID,
		&snap.MarketCoverageRate,
		&snap.IndustryAlignmentIndex,
		&snap.CriticalSkillsCount,
		&snap.ModerateSkillsCount,
		&topMissing,
		&snap.LastComputedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrSnapshotNotFound
		}
		return nil, fmt.Errorf("failed to get organization snapshot: %w", err)
	}

	if err := json.Unmarshal(topMissing, &snap.TopMissingSkills); err != nil {
		return nil, fmt.Errorf("failed to decode top missing skills: %w", err)
	}

	return &snap, nil
}
