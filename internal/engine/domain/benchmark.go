package domain

import "time"

// Skill sources, from least to most trusted
const (
	SourceAI       = "ai"
	SourceCV       = "cv"
	SourceVerified = "verified"
)

// Proficiency scale bounds: 0 none, 1 learning, 2 using, 3 expert
const MaxProficiency = 3

// MarketBenchmark is an externally produced reference skill profile for a
// role, department, or industry. Read-only from this engine's perspective.
type MarketBenchmark struct {
	ID          string
	CompanyID   string
	RoleName    string
	Industry    string
	Department  string
	Skills      []BenchmarkSkill
	GeneratedAt time.Time
}

// BenchmarkSkill is one entry of a benchmark's skill list. MatchPercentage
// is the skill's market importance on a 0-100 scale.
type BenchmarkSkill struct {
	SkillName       string `json:"skillName"`
	MatchPercentage int    `json:"matchPercentage"`
	Category        string `json:"category,omitempty"`
	MarketDemand    string `json:"marketDemand,omitempty"`
}

// ObservedSkill is an employee-owned skill with its proficiency (0-3) and
// the source that reported it.
type ObservedSkill struct {
	SkillName   string `db:"skill_name"`
	Proficiency int    `db:"proficiency"`
	Source      string `db:"source"`
}

// Employee is a directory entry consumed for scope resolution.
type Employee struct {
	ID         string `db:"id"`
	CompanyID  string `db:"company_id"`
	Department string `db:"department"`
	RoleTitle  string `db:"role_title"`
}
