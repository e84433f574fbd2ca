package domain

import "time"

// Recompute scopes, from narrowest to widest
const (
	ScopeEmployee     = "employee"
	ScopeDepartment   = "department"
	ScopeOrganization = "organization"
)

// Reasons attached to fan-out tasks enqueued by the processor
const (
	ReasonBubbleFromEmployee   = "bubble_from_employee"
	ReasonBubbleFromDepartment = "bubble_from_department"
)

// QueueTask is one pending unit of recompute work. Seq is assigned by the
// store and defines FIFO order together with CreatedAt; a task leaves the
// queue only when deleted after successful processing.
type QueueTask struct {
	Seq       int64     `db:"seq"`
	TaskID    string    `db:"task_id"`
	CompanyID string    `db:"company_id"`
	Scope     string    `db:"scope"`
	ScopeID   string    `db:"scope_id"`
	Reason    string    `db:"reason"`
	CreatedAt time.Time `db:"created_at"`
}

// ValidScope reports whether s is one of the recompute scopes.
func ValidScope(s string) bool {
	switch s {
	case ScopeEmployee, ScopeDepartment, ScopeOrganization:
		return true
	}
	return false
}

// FollowUpReason returns the reason tag for the organization-scope task that
// a successful recompute at the given scope fans out, or "" when the scope
// does not bubble (organization is the root of the rollup).
func FollowUpReason(scope string) string {
	switch scope {
	case ScopeEmployee:
		return ReasonBubbleFromEmployee
	case ScopeDepartment:
		return ReasonBubbleFromDepartment
	}
	return ""
}
