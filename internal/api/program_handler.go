package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/alexanderramin/velo/internal/domain"
	"github.com/alexanderramin/velo/internal/service"
)

type ProgramHandler struct {
	programs service.ProgramService
	workouts service.WorkoutService
	now      func() time.Time
}

func NewProgramHandler(programs service.ProgramService, workouts service.WorkoutService, now func() time.Time) *ProgramHandler {
	return &ProgramHandler{programs: programs, workouts: workouts, now: now}
}

type CreateProgramRequest struct {
	Name            string  `json:"name" binding:"required"`
	GoalType        string  `json:"goal_type"`
	Description     string  `json:"description"`
	TargetFTP       float64 `json:"target_ftp" binding:"required,gt=0"`
	TargetDate      string  `json:"target_date" binding:"required"`
	StartDate       string  `json:"start_date"`
	HoursPerWeek    float64 `json:"hours_per_week" binding:"required,gt=0"`
	SessionsPerWeek int     `json:"sessions_per_week" binding:"required,gt=0"`
}

func (h *ProgramHandler) Create(c *gin.Context) {
	var req CreateProgramRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	target, err := parseDate("target_date", req.TargetDate)
	if err != nil {
		respondError(c, err)
		return
	}
	start := domain.TruncateDay(h.now())
	if req.StartDate != "" {
		if start, err = parseDate("start_date", req.StartDate); err != nil {
			respondError(c, err)
			return
		}
	}

	view, err := h.programs.Create(c.Request.Context(), service.CreateProgramRequest{
		Name: req.Name,
		Goal: domain.Goal{
			Type:        domain.GoalType(req.GoalType),
			Description: req.Description,
			TargetFTP:   req.TargetFTP,
			TargetDate:  target,
		},
		StartDate: start,
		Volume:    domain.Volume{HoursPerWeek: req.HoursPerWeek, SessionsPerWeek: req.SessionsPerWeek},
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, mapProgramView(view))
}

func (h *ProgramHandler) List(c *gin.Context) {
	programs, err := h.programs.List(c.Request.Context(), c.Query("all") == "true")
	if err != nil {
		respondError(c, err)
		return
	}
	out := make([]ProgramResponse, len(programs))
	for i, p := range programs {
		out[i] = mapProgram(p, false)
	}
	c.JSON(http.StatusOK, out)
}

func (h *ProgramHandler) Get(c *gin.Context) {
	view, err := h.programs.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapProgramView(view))
}

func (h *ProgramHandler) Pause(c *gin.Context)  { h.transition(c, h.programs.Pause) }
func (h *ProgramHandler) Resume(c *gin.Context) { h.transition(c, h.programs.Resume) }
func (h *ProgramHandler) Cancel(c *gin.Context) { h.transition(c, h.programs.Cancel) }

func (h *ProgramHandler) transition(c *gin.Context, apply func(ctx context.Context, id string) (*domain.Program, error)) {
	p, err := apply(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapProgram(p, false))
}

func (h *ProgramHandler) Delete(c *gin.Context) {
	if err := h.programs.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type AdvanceResponse struct {
	Closed           WeekResponse  `json:"closed"`
	Current          *WeekResponse `json:"current,omitempty"`
	ProgramCompleted bool          `json:"program_completed"`
}

func (h *ProgramHandler) Advance(c *gin.Context) {
	res, err := h.programs.Advance(c.Request.Context(), c.Param("id"), h.now())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, AdvanceResponse{
		Closed:           mapWeek(res.Closed, nil),
		Current:          mapWeekView(res.Current),
		ProgramCompleted: res.ProgramCompleted,
	})
}

func (h *ProgramHandler) GetWeek(c *gin.Context) {
	n, err := weekParam(c)
	if err != nil {
		respondError(c, err)
		return
	}
	view, err := h.programs.GetWeek(c.Request.Context(), c.Param("id"), n)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapWeekView(view))
}

func (h *ProgramHandler) PlanWeek(c *gin.Context) {
	n, err := weekParam(c)
	if err != nil {
		respondError(c, err)
		return
	}
	view, err := h.programs.PlanWeek(c.Request.Context(), c.Param("id"), n)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, mapWeekView(view))
}

type GenerateResponse struct {
	Slot              SlotResponse `json:"slot"`
	Name              string       `json:"name"`
	ArtifactRef       string       `json:"artifact_ref"`
	ActualStress      float64      `json:"actual_stress"`
	ActualDurationMin int          `json:"actual_duration_min"`
	Warnings          []string     `json:"warnings,omitempty"`
}

func (h *ProgramHandler) GenerateSlot(c *gin.Context) {
	res, err := h.workouts.Generate(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, GenerateResponse{
		Slot:              mapSlot(res.Slot),
		Name:              res.Workout.Name,
		ArtifactRef:       res.Workout.ArtifactRef,
		ActualStress:      res.Workout.ActualStress,
		ActualDurationMin: res.Workout.ActualDurationMin,
		Warnings:          res.Warnings,
	})
}
