package api

import (
	"time"

	"github.com/alexanderramin/velo/internal/domain"
	"github.com/alexanderramin/velo/internal/metrics"
	"github.com/alexanderramin/velo/internal/service"
)

const dateLayout = "2006-01-02"

type SnapshotResponse struct {
	FTP     float64 `json:"ftp"`
	CTL     float64 `json:"ctl"`
	ATL     float64 `json:"atl"`
	TSB     float64 `json:"tsb"`
	CTLRamp float64 `json:"ctl_ramp"`
	AsOf    string  `json:"as_of"`
}

func mapSnapshot(s domain.FitnessSnapshot) SnapshotResponse {
	return SnapshotResponse{
		FTP:     s.FTP,
		CTL:     s.CTL,
		ATL:     s.ATL,
		TSB:     s.TSB(),
		CTLRamp: s.CTLRamp,
		AsOf:    s.AsOf.Format(dateLayout),
	}
}

type RiskResponse struct {
	Snapshot SnapshotResponse `json:"snapshot"`
	Level    domain.RiskLevel `json:"level"`
	Warnings []string         `json:"warnings"`
}

type DailyLoadResponse struct {
	Date   string  `json:"date"`
	Stress float64 `json:"stress"`
	CTL    float64 `json:"ctl"`
	ATL    float64 `json:"atl"`
	TSB    float64 `json:"tsb"`
}

func mapTrend(days []metrics.DailyLoad) []DailyLoadResponse {
	out := make([]DailyLoadResponse, len(days))
	for i, d := range days {
		out[i] = DailyLoadResponse{Date: d.Date.Format(dateLayout), Stress: d.Stress, CTL: d.CTL, ATL: d.ATL, TSB: d.TSB()}
	}
	return out
}

type EffortResponse struct {
	Label      string  `json:"label"`
	Seconds    int     `json:"seconds"`
	Watts      float64 `json:"watts"`
	WattsPerKg float64 `json:"watts_per_kg"`
	Percent    float64 `json:"percent_of_reference"`
}

type PowerProfileResponse struct {
	AsOf           string             `json:"as_of"`
	Since          string             `json:"since"`
	Recent         domain.BestEfforts `json:"recent"`
	AllTime        domain.BestEfforts `json:"all_time"`
	NewRecords     []string           `json:"new_records"`
	WeightKg       float64            `json:"weight_kg"`
	RiderType      domain.RiderType   `json:"rider_type"`
	Efforts        []EffortResponse   `json:"efforts"`
	Strengths      []string           `json:"strengths"`
	Weaknesses     []string           `json:"weaknesses"`
	Recommendation string             `json:"recommendation"`
}

func mapPowerReport(r *domain.PowerReport) PowerProfileResponse {
	out := PowerProfileResponse{
		AsOf:           r.AsOf.Format(dateLayout),
		Since:          r.Since.Format(dateLayout),
		Recent:         r.Recent,
		AllTime:        r.AllTime,
		NewRecords:     nonNil(r.NewRecords),
		WeightKg:       r.Profile.WeightKg,
		RiderType:      r.Profile.RiderType,
		Efforts:        make([]EffortResponse, len(r.Profile.Efforts)),
		Strengths:      nonNil(r.Profile.Strengths),
		Weaknesses:     nonNil(r.Profile.Weaknesses),
		Recommendation: r.Profile.Recommendation,
	}
	for i, e := range r.Profile.Efforts {
		out.Efforts[i] = EffortResponse{Label: e.Label, Seconds: e.Seconds, Watts: e.Watts, WattsPerKg: e.WattsPerKg, Percent: e.Percent}
	}
	return out
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

type ProfileResponse struct {
	FTP        float64   `json:"ftp"`
	WeightKg   float64   `json:"weight_kg,omitempty"`
	WattsPerKg float64   `json:"watts_per_kg,omitempty"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func mapProfile(p *domain.RiderProfile) ProfileResponse {
	return ProfileResponse{FTP: p.FTP, WeightKg: p.WeightKg, WattsPerKg: p.WattsPerKg(), UpdatedAt: p.UpdatedAt}
}

type ActivityResponse struct {
	ID              string             `json:"id"`
	ExternalID      string             `json:"external_id"`
	Name            string             `json:"name"`
	Sport           string             `json:"sport"`
	StartedAt       time.Time          `json:"started_at"`
	DurationSeconds int                `json:"duration_seconds"`
	NormalizedPower float64            `json:"normalized_power"`
	IntensityFactor float64            `json:"intensity_factor"`
	StressScore     float64            `json:"stress_score"`
	ZoneSeconds     [7]int             `json:"zone_seconds"`
	BestEfforts     domain.BestEfforts `json:"best_efforts,omitempty"`
}

func mapActivities(as []*domain.Activity) []ActivityResponse {
	out := make([]ActivityResponse, len(as))
	for i, a := range as {
		out[i] = ActivityResponse{
			ID:              a.ID,
			ExternalID:      a.ExternalID,
			Name:            a.Name,
			Sport:           a.Sport,
			StartedAt:       a.StartedAt,
			DurationSeconds: a.DurationSeconds,
			NormalizedPower: a.NormalizedPower,
			IntensityFactor: a.IntensityFactor,
			StressScore:     a.StressScore,
			ZoneSeconds:     a.ZoneSeconds,
			BestEfforts:     a.BestEfforts,
		}
	}
	return out
}

type SlotResponse struct {
	ID                 string                 `json:"id"`
	DayIndex           int                    `json:"day_index"`
	Category           domain.WorkoutCategory `json:"category"`
	Intensity          domain.Intensity       `json:"intensity"`
	TargetStress       int                    `json:"target_stress"`
	TargetDurationMin  int                    `json:"target_duration_min"`
	Instructions       string                 `json:"instructions,omitempty"`
	Status             domain.SlotStatus      `json:"status"`
	ArtifactRef        string                 `json:"artifact_ref,omitempty"`
	ActivityID         *string                `json:"activity_id,omitempty"`
	ValidationWarnings string                 `json:"validation_warnings,omitempty"`
}

func mapSlot(s *domain.WorkoutSlot) SlotResponse {
	return SlotResponse{
		ID:                 s.ID,
		DayIndex:           s.DayIndex,
		Category:           s.Category,
		Intensity:          s.Intensity,
		TargetStress:       s.TargetStress,
		TargetDurationMin:  s.TargetDurationMin,
		Instructions:       s.Instructions,
		Status:             s.Status,
		ArtifactRef:        s.ArtifactRef,
		ActivityID:         s.ActivityID,
		ValidationWarnings: s.ValidationWarnings,
	}
}

type WeekResponse struct {
	ID              string             `json:"id"`
	WeekNumber      int                `json:"week_number"`
	Phase           domain.PhaseName   `json:"phase"`
	IsRecovery      bool               `json:"is_recovery"`
	StartDate       string             `json:"start_date"`
	EndDate         string             `json:"end_date"`
	Status          domain.WeekStatus  `json:"status"`
	TargetStress    float64            `json:"target_stress"`
	TargetHours     float64            `json:"target_hours"`
	TargetSessions  int                `json:"target_sessions"`
	ZoneEmphasis    domain.ZoneWeights `json:"zone_emphasis,omitempty"`
	CoachingNotes   string             `json:"coaching_notes,omitempty"`
	AdaptationNotes string             `json:"adaptation_notes,omitempty"`
	ActualStress    *float64           `json:"actual_stress,omitempty"`
	ActualHours     *float64           `json:"actual_hours,omitempty"`
	ActualSessions  *int               `json:"actual_sessions,omitempty"`
	ActualCTL       *float64           `json:"actual_ctl,omitempty"`
	ActualATL       *float64           `json:"actual_atl,omitempty"`
	ActualTSB       *float64           `json:"actual_tsb,omitempty"`
	Slots           []SlotResponse     `json:"slots,omitempty"`
}

func mapWeek(w *domain.Week, slots []*domain.WorkoutSlot) WeekResponse {
	resp := WeekResponse{
		ID:              w.ID,
		WeekNumber:      w.WeekNumber,
		Phase:           w.Phase,
		IsRecovery:      w.IsRecovery,
		StartDate:       w.StartDate.Format(dateLayout),
		EndDate:         w.EndDate.Format(dateLayout),
		Status:          w.Status,
		TargetStress:    w.TargetStress,
		TargetHours:     w.TargetHours,
		TargetSessions:  w.TargetSessions,
		ZoneEmphasis:    w.ZoneEmphasis,
		CoachingNotes:   w.CoachingNotes,
		AdaptationNotes: w.AdaptationNotes,
		ActualStress:    w.ActualStress,
		ActualHours:     w.ActualHours,
		ActualSessions:  w.ActualSessions,
		ActualCTL:       w.ActualCTL,
		ActualATL:       w.ActualATL,
		ActualTSB:       w.ActualTSB(),
	}
	for _, s := range slots {
		resp.Slots = append(resp.Slots, mapSlot(s))
	}
	return resp
}

func mapWeekView(v *service.WeekView) *WeekResponse {
	if v == nil {
		return nil
	}
	resp := mapWeek(v.Week, v.Slots)
	return &resp
}

type ProgramResponse struct {
	ID          string               `json:"id"`
	Name        string               `json:"name"`
	GoalType    domain.GoalType      `json:"goal_type"`
	Description string               `json:"description,omitempty"`
	StartFTP    float64              `json:"start_ftp"`
	TargetFTP   float64              `json:"target_ftp"`
	TargetDate  string               `json:"target_date"`
	StartDate   string               `json:"start_date"`
	EndDate     string               `json:"end_date"`
	Hours       float64              `json:"hours_per_week"`
	Sessions    int                  `json:"sessions_per_week"`
	Status      domain.ProgramStatus `json:"status"`
	InitialCTL  float64              `json:"initial_ctl"`
	Skeleton    *domain.Skeleton     `json:"skeleton,omitempty"`
	CreatedAt   time.Time            `json:"created_at"`
	CompletedAt *time.Time           `json:"completed_at,omitempty"`
}

func mapProgram(p *domain.Program, withSkeleton bool) ProgramResponse {
	resp := ProgramResponse{
		ID:          p.ID,
		Name:        p.Name,
		GoalType:    p.Goal.Type,
		Description: p.Goal.Description,
		StartFTP:    p.Goal.StartFTP,
		TargetFTP:   p.Goal.TargetFTP,
		TargetDate:  p.Goal.TargetDate.Format(dateLayout),
		StartDate:   p.StartDate.Format(dateLayout),
		EndDate:     p.EndDate().Format(dateLayout),
		Hours:       p.Volume.HoursPerWeek,
		Sessions:    p.Volume.SessionsPerWeek,
		Status:      p.Status,
		InitialCTL:  p.InitialCTL,
		CreatedAt:   p.CreatedAt,
		CompletedAt: p.CompletedAt,
	}
	if withSkeleton {
		resp.Skeleton = p.Skeleton
	}
	return resp
}

type ProgramViewResponse struct {
	Program ProgramResponse `json:"program"`
	Weeks   []WeekResponse  `json:"weeks"`
	Current *WeekResponse   `json:"current,omitempty"`
}

func mapProgramView(v *service.ProgramView) ProgramViewResponse {
	resp := ProgramViewResponse{Program: mapProgram(v.Program, true), Current: mapWeekView(v.Current)}
	for _, w := range v.Weeks {
		resp.Weeks = append(resp.Weeks, mapWeek(w, nil))
	}
	return resp
}

type FeedbackResponse struct {
	ID         string                 `json:"id"`
	SlotID     *string                `json:"slot_id,omitempty"`
	Category   domain.WorkoutCategory `json:"category"`
	Difficulty int                    `json:"difficulty"`
	Rating     int                    `json:"rating"`
	Notes      string                 `json:"notes,omitempty"`
	CreatedAt  time.Time              `json:"created_at"`
}

func mapFeedback(f *domain.WorkoutFeedback) FeedbackResponse {
	return FeedbackResponse{
		ID:         f.ID,
		SlotID:     f.SlotID,
		Category:   f.Category,
		Difficulty: f.Difficulty,
		Rating:     f.Rating,
		Notes:      f.Notes,
		CreatedAt:  f.CreatedAt,
	}
}
