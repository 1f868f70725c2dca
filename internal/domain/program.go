package domain

import (
	"strings"
	"time"
)

// Goal is the capability target a program works toward.
type Goal struct {
	Type        GoalType
	Description string
	StartFTP    float64
	TargetFTP   float64
	TargetDate  time.Time
}

// Delta returns the FTP gain the goal asks for; declines count as zero.
func (g Goal) Delta() float64 {
	if g.TargetFTP <= g.StartFTP {
		return 0
	}
	return g.TargetFTP - g.StartFTP
}

// Volume is the training time the rider can commit each week.
type Volume struct {
	HoursPerWeek    float64
	SessionsPerWeek int
}

func (v Volume) Validate() error {
	if v.HoursPerWeek <= 0 {
		return invalid("hours per week must be positive, got %.1f", v.HoursPerWeek)
	}
	if v.SessionsPerWeek <= 0 {
		return invalid("sessions per week must be positive, got %d", v.SessionsPerWeek)
	}
	return nil
}

type Program struct {
	ID          string
	Name        string
	Goal        Goal
	StartDate   time.Time
	Volume      Volume
	Skeleton    *Skeleton
	Status      ProgramStatus
	InitialCTL  float64
	CreatedAt   time.Time
	UpdatedAt   time.Time
	CompletedAt *time.Time
}

// Validate checks user-supplied fields prior to design.
func (p *Program) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return invalid("program name is required")
	}
	if p.Goal.Type != "" && !ValidGoalTypes[string(p.Goal.Type)] {
		return invalid("unknown goal type %q", p.Goal.Type)
	}
	if !p.Goal.TargetDate.After(p.StartDate) {
		return invalid("target date must be after start date")
	}
	return p.Volume.Validate()
}

// EndDate returns the last day of the final week.
func (p *Program) EndDate() time.Time {
	weeks := 0
	if p.Skeleton != nil {
		weeks = p.Skeleton.TotalWeeks
	}
	return p.StartDate.AddDate(0, 0, weeks*7-1)
}

// IsTerminal reports whether the program no longer accepts transitions.
func (p *Program) IsTerminal() bool {
	return p.Status == ProgramCompleted || p.Status == ProgramCancelled
}

// RequireActive returns a conflict if the program is not active.
func (p *Program) RequireActive() error {
	if p.Status != ProgramActive {
		return conflict("program", p.ID, "program is %s, not active", p.Status)
	}
	return nil
}

func (p *Program) Pause(now time.Time) error {
	if p.Status != ProgramActive {
		return conflict("program", p.ID, "cannot pause a %s program", p.Status)
	}
	p.Status = ProgramPaused
	p.UpdatedAt = now
	return nil
}

func (p *Program) Resume(now time.Time) error {
	if p.Status != ProgramPaused {
		return conflict("program", p.ID, "cannot resume a %s program", p.Status)
	}
	p.Status = ProgramActive
	p.UpdatedAt = now
	return nil
}

func (p *Program) Cancel(now time.Time) error {
	if p.IsTerminal() {
		return conflict("program", p.ID, "cannot cancel a %s program", p.Status)
	}
	p.Status = ProgramCancelled
	p.UpdatedAt = now
	return nil
}

// Complete marks the program finished after its final week closes.
func (p *Program) Complete(now time.Time) error {
	if p.Status != ProgramActive {
		return conflict("program", p.ID, "cannot complete a %s program", p.Status)
	}
	p.Status = ProgramCompleted
	p.CompletedAt = &now
	p.UpdatedAt = now
	return nil
}
