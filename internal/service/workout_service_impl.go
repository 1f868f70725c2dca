package service

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/alexanderramin/velo/internal/db"
	"github.com/alexanderramin/velo/internal/domain"
)

type workoutService struct {
	deps    Deps
	repos   repoSet
	locks   *keyedLocker
	fitness *fitnessService
}

// Generate asks the content generator to write the workout for a planned
// slot. The generator runs outside any transaction; when it fails the slot
// stays planned and the error is retryable.
func (s *workoutService) Generate(ctx context.Context, slotID string) (res *GenerateResult, err error) {
	startedAt := s.deps.Clock()
	fields := map[string]any{"slot_id": slotID}
	defer func() { observe(ctx, s.deps.Observer, "generate-workout", startedAt, fields, err) }()

	slot, err := s.repos.slots.GetByID(ctx, slotID)
	if err != nil {
		return nil, err
	}
	week, err := s.repos.weeks.GetByID(ctx, slot.WeekID)
	if err != nil {
		return nil, err
	}
	program, err := s.repos.programs.GetByID(ctx, week.ProgramID)
	if err != nil {
		return nil, err
	}
	if err := program.RequireActive(); err != nil {
		return nil, err
	}
	if slot.Status != domain.SlotPlanned {
		return nil, &domain.ConflictError{Entity: "slot", ID: slot.ID, Reason: fmt.Sprintf("slot is %s, not planned", slot.Status)}
	}
	if s.deps.Generator == nil {
		return nil, fmt.Errorf("no content generator configured: %w", domain.ErrCollaboratorUnavailable)
	}

	snapshot, err := s.fitness.Snapshot(ctx, startedAt)
	if err != nil {
		return nil, err
	}
	feedback, err := s.repos.feedback.ListByCategory(ctx, slot.Category, s.deps.Config.FeedbackSize)
	if err != nil {
		return nil, err
	}

	gctx, cancel := context.WithTimeout(ctx, s.deps.Config.GeneratorTimeout)
	workout, err := s.deps.Generator.Generate(gctx, GenerationRequest{
		Slot:         *slot,
		Phase:        week.Phase,
		WeekNumber:   week.WeekNumber,
		ZoneEmphasis: week.ZoneEmphasis,
		Snapshot:     snapshot,
		Feedback:     feedback,
	})
	cancel()
	if err != nil {
		return nil, fmt.Errorf("generating workout for slot %s: %w: %w", slot.ID, domain.ErrCollaboratorUnavailable, err)
	}

	warnings := validateWorkout(slot, workout, s.deps.Config.Tolerance)

	unlock := s.locks.Lock(program.ID)
	defer unlock()
	err = s.deps.UoW.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		r := newRepoSet(tx)
		current, err := r.slots.GetByID(ctx, slotID)
		if err != nil {
			return err
		}
		if err := current.MarkGenerated(workout.ArtifactRef, strings.Join(warnings, "\n"), s.deps.Clock()); err != nil {
			return err
		}
		if err := r.slots.Update(ctx, current); err != nil {
			return err
		}
		slot = current
		return nil
	})
	if err != nil {
		return nil, err
	}
	fields["artifact"] = workout.ArtifactRef
	fields["warnings"] = len(warnings)
	return &GenerateResult{Slot: slot, Workout: workout, Warnings: warnings}, nil
}

// validateWorkout compares the generator's summary with the slot targets.
func validateWorkout(slot *domain.WorkoutSlot, w *GeneratedWorkout, tolerance float64) []string {
	var warnings []string
	if slot.TargetStress > 0 {
		dev := (w.ActualStress - float64(slot.TargetStress)) / float64(slot.TargetStress)
		if math.Abs(dev) > tolerance {
			warnings = append(warnings, fmt.Sprintf("stress %.0f is %+.0f%% off the %d target", w.ActualStress, dev*100, slot.TargetStress))
		}
	}
	if slot.TargetDurationMin > 0 {
		dev := float64(w.ActualDurationMin-slot.TargetDurationMin) / float64(slot.TargetDurationMin)
		if math.Abs(dev) > tolerance {
			warnings = append(warnings, fmt.Sprintf("duration %d min is %+.0f%% off the %d min target", w.ActualDurationMin, dev*100, slot.TargetDurationMin))
		}
	}
	return warnings
}
