package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/alexanderramin/velo/internal/domain"
	"github.com/alexanderramin/velo/internal/service"
)

// RiderHandler serves the profile, fitness, activity and feedback endpoints.
type RiderHandler struct {
	svc *service.Services
	now func() time.Time
}

func NewRiderHandler(svc *service.Services, now func() time.Time) *RiderHandler {
	return &RiderHandler{svc: svc, now: now}
}

func (h *RiderHandler) GetProfile(c *gin.Context) {
	p, err := h.svc.Profiles.Get(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapProfile(p))
}

type SetFTPRequest struct {
	FTP float64 `json:"ftp" binding:"required"`
}

func (h *RiderHandler) SetFTP(c *gin.Context) {
	var req SetFTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	p, err := h.svc.Profiles.SetFTP(c.Request.Context(), req.FTP)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapProfile(p))
}

type SetWeightRequest struct {
	WeightKg float64 `json:"weight_kg" binding:"required"`
}

func (h *RiderHandler) SetWeight(c *gin.Context) {
	var req SetWeightRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	p, err := h.svc.Profiles.SetWeight(c.Request.Context(), req.WeightKg)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapProfile(p))
}

func (h *RiderHandler) Fitness(c *gin.Context) {
	asOf, err := dateQuery(c, "as_of", h.now())
	if err != nil {
		respondError(c, err)
		return
	}
	snap, err := h.svc.Fitness.Snapshot(c.Request.Context(), asOf)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapSnapshot(snap))
}

func (h *RiderHandler) Risk(c *gin.Context) {
	asOf, err := dateQuery(c, "as_of", h.now())
	if err != nil {
		respondError(c, err)
		return
	}
	rep, err := h.svc.Fitness.Risk(c.Request.Context(), asOf)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, RiskResponse{
		Snapshot: mapSnapshot(rep.Snapshot),
		Level:    rep.Risk.Level,
		Warnings: rep.Risk.Warnings,
	})
}

func (h *RiderHandler) Trend(c *gin.Context) {
	to, err := dateQuery(c, "to", domain.TruncateDay(h.now()))
	if err != nil {
		respondError(c, err)
		return
	}
	from, err := dateQuery(c, "from", to.AddDate(0, 0, -41))
	if err != nil {
		respondError(c, err)
		return
	}
	days, err := h.svc.Fitness.Trend(c.Request.Context(), from, to)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapTrend(days))
}

// PowerProfile reports best efforts, records and the rider type.
func (h *RiderHandler) PowerProfile(c *gin.Context) {
	asOf, err := dateQuery(c, "as_of", h.now())
	if err != nil {
		respondError(c, err)
		return
	}
	rep, err := h.svc.Fitness.PowerProfile(c.Request.Context(), asOf)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapPowerReport(rep))
}

type SyncRequest struct {
	From string `json:"from"`
	To   string `json:"to"`
}

type SyncResponse struct {
	Fetched        int `json:"fetched"`
	Created        int `json:"created"`
	Updated        int `json:"updated"`
	SlotsCompleted int `json:"slots_completed"`
	WeeksUpdated   int `json:"weeks_updated"`
}

// Sync resyncs activities. The window defaults to the last 42 days.
func (h *RiderHandler) Sync(c *gin.Context) {
	var req SyncRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
			return
		}
	}
	to := domain.TruncateDay(h.now()).AddDate(0, 0, 1)
	from := to.AddDate(0, 0, -42)
	var err error
	if req.To != "" {
		if to, err = parseDate("to", req.To); err != nil {
			respondError(c, err)
			return
		}
	}
	if req.From != "" {
		if from, err = parseDate("from", req.From); err != nil {
			respondError(c, err)
			return
		}
	}

	res, err := h.svc.Activities.Resync(c.Request.Context(), from, to)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, SyncResponse{
		Fetched:        res.Fetched,
		Created:        res.Created,
		Updated:        res.Updated,
		SlotsCompleted: res.SlotsCompleted,
		WeeksUpdated:   res.WeeksUpdated,
	})
}

func (h *RiderHandler) ListActivities(c *gin.Context) {
	to, err := dateQuery(c, "to", domain.TruncateDay(h.now()).AddDate(0, 0, 1))
	if err != nil {
		respondError(c, err)
		return
	}
	from, err := dateQuery(c, "from", to.AddDate(0, 0, -42))
	if err != nil {
		respondError(c, err)
		return
	}
	activities, err := h.svc.Activities.List(c.Request.Context(), from, to)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapActivities(activities))
}

type AddFeedbackRequest struct {
	SlotID     string `json:"slot_id"`
	Category   string `json:"category"`
	Difficulty int    `json:"difficulty" binding:"required"`
	Rating     int    `json:"rating" binding:"required"`
	Notes      string `json:"notes"`
}

func (h *RiderHandler) AddFeedback(c *gin.Context) {
	var req AddFeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	f := &domain.WorkoutFeedback{
		Category:   domain.WorkoutCategory(req.Category),
		Difficulty: req.Difficulty,
		Rating:     req.Rating,
		Notes:      req.Notes,
	}
	if req.SlotID != "" {
		f.SlotID = &req.SlotID
	}
	if err := h.svc.Feedback.Add(c.Request.Context(), f); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, mapFeedback(f))
}

func (h *RiderHandler) ListFeedback(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	items, err := h.svc.Feedback.ListRecent(c.Request.Context(), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	out := make([]FeedbackResponse, len(items))
	for i, f := range items {
		out[i] = mapFeedback(f)
	}
	c.JSON(http.StatusOK, out)
}
