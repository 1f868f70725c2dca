package domain

import (
	"fmt"
	"time"
)

// WorkoutSlot is a single planned session within a week.
type WorkoutSlot struct {
	ID                 string
	WeekID             string
	DayIndex           int
	Category           WorkoutCategory
	Intensity          Intensity
	TargetStress       int
	TargetDurationMin  int
	Instructions       string
	Status             SlotStatus
	ArtifactRef        string
	ActivityID         *string
	ValidationWarnings string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

func (s *WorkoutSlot) Validate() error {
	if s.DayIndex < 1 || s.DayIndex > 7 {
		return fmt.Errorf("day index must be 1-7, got %d", s.DayIndex)
	}
	if s.TargetStress < 0 {
		return fmt.Errorf("target stress must not be negative, got %d", s.TargetStress)
	}
	return nil
}

// MarkGenerated attaches generated content to a planned slot.
func (s *WorkoutSlot) MarkGenerated(artifactRef, warnings string, now time.Time) error {
	if s.Status != SlotPlanned {
		return conflict("slot", s.ID, "cannot generate content for a %s slot", s.Status)
	}
	s.Status = SlotGenerated
	s.ArtifactRef = artifactRef
	s.ValidationWarnings = warnings
	s.UpdatedAt = now
	return nil
}

// MarkCompleted links the slot to the activity that fulfilled it.
func (s *WorkoutSlot) MarkCompleted(activityID string, now time.Time) error {
	if !s.Status.Open() {
		return conflict("slot", s.ID, "cannot complete a %s slot", s.Status)
	}
	s.Status = SlotCompleted
	s.ActivityID = &activityID
	s.UpdatedAt = now
	return nil
}

func (s *WorkoutSlot) Skip(now time.Time) error {
	if !s.Status.Open() {
		return conflict("slot", s.ID, "cannot skip a %s slot", s.Status)
	}
	s.Status = SlotSkipped
	s.UpdatedAt = now
	return nil
}
