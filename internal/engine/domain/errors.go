package domain

import "errors"

var (
	// ErrEmployeeNotFound is returned when an employee id has no directory entry
	ErrEmployeeNotFound = errors.New("employee not found")

	// ErrBenchmarkNotFound is returned by a single resolver tier that has no
	// benchmark; the resolver falls through to the next tier
	ErrBenchmarkNotFound = errors.New("benchmark not found")

	// ErrSnapshotNotFound is returned when a scope instance has not been
	// computed yet
	ErrSnapshotNotFound = errors.New("snapshot not found")

	// ErrInvalidScope is returned for a task or request whose scope is not
	// employee, department, or organization
	ErrInvalidScope = errors.New("invalid scope")
)
