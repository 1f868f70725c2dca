package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidProfile indicates a missing or non-positive FTP, or malformed
	// activity data that cannot produce a stress score.
	ErrInvalidProfile = errors.New("invalid rider profile")

	// ErrInfeasibleGoal indicates the requested capability gain cannot be
	// reached in the time available.
	ErrInfeasibleGoal = errors.New("infeasible goal")

	// ErrPlanningConflict indicates an operation that would violate the
	// program or week state machine.
	ErrPlanningConflict = errors.New("planning conflict")

	// ErrCollaboratorUnavailable indicates an external collaborator failed or
	// timed out. Operations failing with it are safe to retry.
	ErrCollaboratorUnavailable = errors.New("collaborator unavailable")

	// ErrInvalidInput indicates a malformed request field.
	ErrInvalidInput = errors.New("invalid input")
)

// InfeasibleGoalError carries the minimum number of weeks that would make
// the goal achievable.
type InfeasibleGoalError struct {
	Reason     string
	TotalWeeks int
	MinWeeks   int
}

func (e *InfeasibleGoalError) Error() string {
	return fmt.Sprintf("infeasible goal: %s (have %d weeks, need at least %d)", e.Reason, e.TotalWeeks, e.MinWeeks)
}

func (e *InfeasibleGoalError) Unwrap() error { return ErrInfeasibleGoal }

// ConflictError describes a rejected state transition.
type ConflictError struct {
	Entity string
	ID     string
	Reason string
}

func (e *ConflictError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("planning conflict: %s: %s", e.Entity, e.Reason)
	}
	return fmt.Sprintf("planning conflict: %s %s: %s", e.Entity, e.ID, e.Reason)
}

func (e *ConflictError) Unwrap() error { return ErrPlanningConflict }

func conflict(entity, id, format string, args ...any) error {
	return &ConflictError{Entity: entity, ID: id, Reason: fmt.Sprintf(format, args...)}
}

func invalid(format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, ErrInvalidInput)...)
}

// IsRetryable reports whether err came from a collaborator failure that left
// state untouched.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrCollaboratorUnavailable)
}
