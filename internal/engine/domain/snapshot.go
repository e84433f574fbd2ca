package domain

import "time"

// Gap categories derived from a baseline skill's market importance
const (
	GapCritical     = "critical"
	GapEmerging     = "emerging"
	GapFoundational = "foundational"
)

// GapEntry is a baseline skill the scored entity is missing, tagged by the
// baseline's own market importance.
type GapEntry struct {
	SkillName        string `json:"skillName"`
	Category         string `json:"category"`
	MarketImportance int    `json:"marketImportance"`
}

// SourceCounts tallies an employee's observed skills per source tag.
type SourceCounts struct {
	AI       int `json:"ai"`
	CV       int `json:"cv"`
	Verified int `json:"verified"`
}

// EmployeeMatchSnapshot is the persisted result of the most recent employee
// recompute. One row per (company, employee), overwritten on every run.
type EmployeeMatchSnapshot struct {
	CompanyID        string
	EmployeeID       string
	BaselineID       string
	MatchPercentage  int
	TopMissingSkills []GapEntry
	SkillsBySource   SourceCounts
	LastComputedAt   time.Time
}

// DepartmentGap is a department-level aggregated gap. Count is the number of
// employee gap occurrences for the skill; MatchPercentage is a placeholder
// carried for the reporting schema and is not computed at this level.
type DepartmentGap struct {
	SkillName       string `json:"skillName"`
	Count           int    `json:"count"`
	MatchPercentage int    `json:"matchPercentage"`
}

// DepartmentMatchSnapshot is the rollup over one department's employee
// snapshots. CriticalGaps and EmergingGaps count gap occurrences across
// employees, not distinct skills.
type DepartmentMatchSnapshot struct {
	CompanyID      string
	Department     string
	BaselineID     string
	AvgMarketMatch int
	CriticalGaps   int
	EmergingGaps   int
	TopGaps        []DepartmentGap
	AnalyzedCount  int
	EmployeeCount  int
	LastComputedAt time.Time
}

// OrganizationMatchSnapshot is the company-wide rollup. Coverage is computed
// directly from employee snapshots; the skill counters inherit the
// occurrence-count semantics of the department level.
type OrganizationMatchSnapshot struct {
	CompanyID              string
	BaselineID             string
	MarketCoverageRate     int
	IndustryAlignmentIndex int
	CriticalSkillsCount    int
	ModerateSkillsCount    int
	TopMissingSkills       []GapEntry
	LastComputedAt         time.Time
}
