package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/alexanderramin/velo/internal/db"
	"github.com/alexanderramin/velo/internal/domain"
	"github.com/alexanderramin/velo/internal/macro"
)

type programService struct {
	deps  Deps
	repos repoSet
	locks *keyedLocker
}

func newID() string {
	return uuid.New().String()
}

func (s *programService) Create(ctx context.Context, req CreateProgramRequest) (view *ProgramView, err error) {
	startedAt := s.deps.Clock()
	fields := map[string]any{"name": req.Name, "goal_type": string(req.Goal.Type)}
	defer func() { observe(ctx, s.deps.Observer, "create-program", startedAt, fields, err) }()

	now := startedAt
	if req.Goal.Type == "" {
		req.Goal.Type = domain.GoalFTPTarget
	}
	program := &domain.Program{
		ID:        newID(),
		Name:      req.Name,
		Goal:      req.Goal,
		StartDate: domain.TruncateDay(req.StartDate),
		Volume:    req.Volume,
		Status:    domain.ProgramActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	program.Goal.TargetDate = domain.TruncateDay(req.Goal.TargetDate)
	if err = program.Validate(); err != nil {
		return nil, err
	}

	snapshot, err := computeSnapshot(ctx, s.repos, now)
	if err != nil {
		return nil, err
	}
	program.Goal.StartFTP = snapshot.FTP
	program.InitialCTL = snapshot.CTL

	citations := s.citations(ctx, req.Goal.Type)
	skeleton, err := macro.Design(macro.Request{
		Goal:      program.Goal,
		Volume:    program.Volume,
		Fitness:   snapshot,
		StartDate: program.StartDate,
		Citations: citations,
	}, s.deps.Config.Macro)
	if err != nil {
		return nil, err
	}
	program.Skeleton = skeleton
	fields["total_weeks"] = skeleton.TotalWeeks

	view = &ProgramView{Program: program}
	err = s.deps.UoW.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		r := newRepoSet(tx)
		if err := r.programs.Create(ctx, program); err != nil {
			return err
		}
		for n := 1; n <= skeleton.TotalWeeks; n++ {
			target, err := skeleton.Target(n)
			if err != nil {
				return err
			}
			start := program.StartDate.AddDate(0, 0, (n-1)*7)
			status := domain.WeekUpcoming
			if n == 1 {
				status = domain.WeekCurrent
			}
			w := &domain.Week{
				ID:         newID(),
				ProgramID:  program.ID,
				WeekNumber: n,
				Phase:      target.Phase,
				IsRecovery: target.IsRecovery,
				StartDate:  start,
				EndDate:    start.AddDate(0, 0, 6),
				Status:     status,
				CreatedAt:  now,
				UpdatedAt:  now,
			}
			if err := r.weeks.Create(ctx, w); err != nil {
				return err
			}
			view.Weeks = append(view.Weeks, w)
		}
		current, err := planWeek(ctx, s.deps, r, program, view.Weeks[0], now)
		if err != nil {
			return err
		}
		view.Current = current
		return nil
	})
	if err != nil {
		return nil, err
	}
	fields["program_id"] = program.ID
	return view, nil
}

// citations asks the theory retriever for supporting passages. Failure only
// costs the citations.
func (s *programService) citations(ctx context.Context, goal domain.GoalType) []domain.Citation {
	if s.deps.Retriever == nil {
		return nil
	}
	rctx, cancel := context.WithTimeout(ctx, s.deps.Config.KnowledgeTimeout)
	defer cancel()
	out, err := s.deps.Retriever.Citations(rctx, goal)
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("goal_type", string(goal)).Msg("theory retrieval failed; designing without citations")
		return nil
	}
	return out
}

func (s *programService) Get(ctx context.Context, id string) (*ProgramView, error) {
	program, err := s.repos.programs.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	weeks, err := s.repos.weeks.ListByProgram(ctx, id)
	if err != nil {
		return nil, err
	}
	view := &ProgramView{Program: program, Weeks: weeks}
	for _, w := range weeks {
		if w.Status != domain.WeekCurrent {
			continue
		}
		slots, err := s.repos.slots.ListByWeek(ctx, w.ID)
		if err != nil {
			return nil, err
		}
		view.Current = &WeekView{Week: w, Slots: slots}
	}
	return view, nil
}

func (s *programService) List(ctx context.Context, includeClosed bool) ([]*domain.Program, error) {
	if includeClosed {
		return s.repos.programs.List(ctx)
	}
	return s.repos.programs.List(ctx, domain.ProgramActive, domain.ProgramPaused)
}

func (s *programService) Pause(ctx context.Context, id string) (*domain.Program, error) {
	return s.transition(ctx, "pause-program", id, (*domain.Program).Pause)
}

func (s *programService) Resume(ctx context.Context, id string) (*domain.Program, error) {
	return s.transition(ctx, "resume-program", id, (*domain.Program).Resume)
}

func (s *programService) Cancel(ctx context.Context, id string) (*domain.Program, error) {
	return s.transition(ctx, "cancel-program", id, (*domain.Program).Cancel)
}

func (s *programService) transition(ctx context.Context, name, id string, apply func(*domain.Program, time.Time) error) (program *domain.Program, err error) {
	startedAt := s.deps.Clock()
	defer func() { observe(ctx, s.deps.Observer, name, startedAt, map[string]any{"program_id": id}, err) }()

	unlock := s.locks.Lock(id)
	defer unlock()

	err = s.deps.UoW.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		r := newRepoSet(tx)
		p, err := r.programs.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := apply(p, startedAt); err != nil {
			return err
		}
		if err := r.programs.UpdateStatus(ctx, p); err != nil {
			return err
		}
		program = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return program, nil
}

func (s *programService) Delete(ctx context.Context, id string) (err error) {
	startedAt := s.deps.Clock()
	defer func() {
		observe(ctx, s.deps.Observer, "delete-program", startedAt, map[string]any{"program_id": id}, err)
	}()

	unlock := s.locks.Lock(id)
	defer unlock()
	return s.deps.UoW.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return newRepoSet(tx).programs.Delete(ctx, id)
	})
}

func (s *programService) GetWeek(ctx context.Context, programID string, weekNumber int) (*WeekView, error) {
	w, err := s.repos.weeks.GetByNumber(ctx, programID, weekNumber)
	if err != nil {
		return nil, err
	}
	slots, err := s.repos.slots.ListByWeek(ctx, w.ID)
	if err != nil {
		return nil, err
	}
	return &WeekView{Week: w, Slots: slots}, nil
}

// PlanWeek plans the given week if it is the program's current week and has
// no slots yet.
func (s *programService) PlanWeek(ctx context.Context, programID string, weekNumber int) (view *WeekView, err error) {
	startedAt := s.deps.Clock()
	fields := map[string]any{"program_id": programID, "week": weekNumber}
	defer func() { observe(ctx, s.deps.Observer, "plan-week", startedAt, fields, err) }()

	unlock := s.locks.Lock(programID)
	defer unlock()

	err = s.deps.UoW.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		r := newRepoSet(tx)
		program, err := r.programs.GetByID(ctx, programID)
		if err != nil {
			return err
		}
		week, err := r.weeks.GetByNumber(ctx, programID, weekNumber)
		if err != nil {
			return err
		}
		view, err = planWeek(ctx, s.deps, r, program, week, startedAt)
		return err
	})
	if err != nil {
		return nil, err
	}
	fields["target_stress"] = view.Week.TargetStress
	return view, nil
}

// Advance closes the current week and moves the program forward. The closed
// week is skipped when it ended without any generated or completed workout.
func (s *programService) Advance(ctx context.Context, programID string, now time.Time) (res *AdvanceResult, err error) {
	startedAt := s.deps.Clock()
	fields := map[string]any{"program_id": programID}
	defer func() { observe(ctx, s.deps.Observer, "advance-week", startedAt, fields, err) }()

	unlock := s.locks.Lock(programID)
	defer unlock()

	res = &AdvanceResult{}
	err = s.deps.UoW.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		r := newRepoSet(tx)
		program, err := r.programs.GetByID(ctx, programID)
		if err != nil {
			return err
		}
		if err := program.RequireActive(); err != nil {
			return err
		}
		current, err := r.weeks.GetCurrent(ctx, programID)
		if err != nil {
			return err
		}
		profile, err := loadProfile(ctx, r)
		if err != nil {
			return err
		}
		activities, err := r.activities.ListAll(ctx)
		if err != nil {
			return err
		}
		if err := recomputeActuals(current, profile.FTP, activities, now); err != nil {
			return err
		}

		slots, err := r.slots.ListByWeek(ctx, current.ID)
		if err != nil {
			return err
		}
		trained := false
		for _, slot := range slots {
			if slot.ArtifactRef != "" || slot.Status == domain.SlotCompleted {
				trained = true
			}
			if !slot.Status.Open() {
				continue
			}
			if err := slot.Skip(now); err != nil {
				return err
			}
			if err := r.slots.Update(ctx, slot); err != nil {
				return err
			}
		}

		if !trained && !now.Before(current.EndDate.AddDate(0, 0, 1)) {
			err = current.Skip(now)
		} else {
			err = current.Complete(now)
		}
		if err != nil {
			return err
		}
		if err := r.weeks.Update(ctx, current); err != nil {
			return err
		}
		res.Closed = current

		if current.WeekNumber >= program.Skeleton.TotalWeeks {
			if err := program.Complete(now); err != nil {
				return err
			}
			res.ProgramCompleted = true
			return r.programs.UpdateStatus(ctx, program)
		}

		next, err := r.weeks.GetByNumber(ctx, programID, current.WeekNumber+1)
		if err != nil {
			return err
		}
		if err := next.Activate(now); err != nil {
			return err
		}
		if err := r.weeks.Update(ctx, next); err != nil {
			return err
		}
		res.Current, err = planWeek(ctx, s.deps, r, program, next, now)
		return err
	})
	if err != nil {
		return nil, err
	}
	fields["closed_week"] = res.Closed.WeekNumber
	fields["closed_status"] = string(res.Closed.Status)
	fields["program_completed"] = res.ProgramCompleted
	return res, nil
}
