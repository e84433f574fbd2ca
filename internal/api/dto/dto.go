package dto

import "github.com/upskillhq/skillmatch/internal/engine/domain"

// ProcessRequest triggers one processor invocation.
type ProcessRequest struct {
	Mode  string `json:"mode"`
	Limit int    `json:"limit"`
}

// ProcessResponse reports how many tasks the batch processed.
type ProcessResponse struct {
	Processed int `json:"processed"`
}

// EnqueueTaskRequest adds one pending recompute task.
type EnqueueTaskRequest struct {
	CompanyID string `json:"company_id" binding:"required"`
	Scope     string `json:"scope" binding:"required"`
	ScopeID   string `json:"scope_id"`
	Reason    string `json:"reason"`
}

// EnqueueTaskResponse echoes the accepted task.
type EnqueueTaskResponse struct {
	TaskID    string `json:"task_id"`
	CompanyID string `json:"company_id"`
	Scope     string `json:"scope"`
	ScopeID   string `json:"scope_id"`
	Reason    string `json:"reason"`
}

// ListTasksRequest filters and paginates the pending-task listing.
type ListTasksRequest struct {
	CompanyID string `form:"company_id"`
	Scope     string `form:"scope"`
	PageSize  int    `form:"page_size"`
	Cursor    string `form:"cursor"`
}

// ListTasksResponse is one page of pending tasks in queue order.
type ListTasksResponse struct {
	Tasks      []TaskDTO `json:"tasks"`
	NextCursor string    `json:"next_cursor,omitempty"`
}

// TaskDTO is one pending task as exposed to dashboards.
type TaskDTO struct {
	TaskID    string `json:"task_id"`
	CompanyID string `json:"company_id"`
	Scope     string `json:"scope"`
	ScopeID   string `json:"scope_id"`
	Reason    string `json:"reason"`
	CreatedAt string `json:"created_at"`
}

// EmployeeSnapshotResponse mirrors an employee match snapshot.
type EmployeeSnapshotResponse struct {
	CompanyID        string              `json:"company_id"`
	EmployeeID       string              `json:"employee_id"`
	BaselineID       string              `json:"baseline_id"`
	MatchPercentage  int                 `json:"match_percentage"`
	TopMissingSkills []domain.GapEntry   `json:"top_missing_skills"`
	SkillsBySource   domain.SourceCounts `json:"skills_by_source"`
	LastComputedAt   string              `json:"last_computed_at"`
}

// DepartmentSnapshotResponse mirrors a department match snapshot.
type DepartmentSnapshotResponse struct {
	CompanyID      string                 `json:"company_id"`
	Department     string                 `json:"department"`
	BaselineID     string                 `json:"baseline_id"`
	AvgMarketMatch int                    `json:"avg_market_match"`
	CriticalGaps   int                    `json:"critical_gaps"`
	EmergingGaps   int                    `json:"emerging_gaps"`
	TopGaps        []domain.DepartmentGap `json:"top_gaps"`
	AnalyzedCount  int                    `json:"analyzed_count"`
	EmployeeCount  int                    `json:"employee_count"`
	LastComputedAt string                 `json:"last_computed_at"`
}

// OrganizationSnapshotResponse mirrors the company-wide rollup snapshot.
type OrganizationSnapshotResponse struct {
	CompanyID              string            `json:"company_id"`
	BaselineID             string            `json:"baseline_id"`
	MarketCoverageRate     int               `json:"market_coverage_rate"`
	IndustryAlignmentIndex int               `json:"industry_alignment_index"`
	CriticalSkillsCount    int               `json:"critical_skills_count"`
	ModerateSkillsCount    int               `json:"moderate_skills_count"`
	TopMissingSkills       []domain.GapEntry `json:"top_missing_skills"`
	LastComputedAt         string            `json:"last_computed_at"`
}
