package weekplan

import "github.com/alexanderramin/velo/internal/domain"

type templateSlot struct {
	day       int
	intensity domain.Intensity
	weight    float64
}

// templates fix the day order and relative stress of each session count.
// Every template opens below the hardest session, separates hard days and
// keeps at least one easy day.
var templates = map[int][]templateSlot{
	3: {
		{2, domain.IntensityModerate, 0.35},
		{4, domain.IntensityHard, 0.40},
		{6, domain.IntensityEasy, 0.25},
	},
	4: {
		{1, domain.IntensityModerate, 0.20},
		{2, domain.IntensityHard, 0.35},
		{4, domain.IntensityEasy, 0.15},
		{6, domain.IntensityHard, 0.30},
	},
	5: {
		{1, domain.IntensityModerate, 0.20},
		{2, domain.IntensityHard, 0.30},
		{3, domain.IntensityEasy, 0.10},
		{5, domain.IntensityHard, 0.25},
		{6, domain.IntensityModerate, 0.15},
	},
	6: {
		{1, domain.IntensityModerate, 0.15},
		{2, domain.IntensityHard, 0.25},
		{3, domain.IntensityEasy, 0.10},
		{4, domain.IntensityHard, 0.20},
		{5, domain.IntensityEasy, 0.12},
		{6, domain.IntensityModerate, 0.18},
	},
	7: {
		{1, domain.IntensityEasy, 0.08},
		{2, domain.IntensityHard, 0.22},
		{3, domain.IntensityModerate, 0.12},
		{4, domain.IntensityHard, 0.18},
		{5, domain.IntensityEasy, 0.08},
		{6, domain.IntensityModerate, 0.20},
		{7, domain.IntensityModerate, 0.12},
	},
}

// categoryIF is the typical whole-session intensity factor of a category,
// used to turn stress into duration.
var categoryIF = map[domain.WorkoutCategory]float64{
	domain.CategoryRecovery:  0.55,
	domain.CategoryEndurance: 0.65,
	domain.CategoryTempo:     0.80,
	domain.CategorySweetSpot: 0.88,
	domain.CategoryThreshold: 0.92,
	domain.CategoryVO2max:    0.90,
	domain.CategoryAnaerobic: 0.85,
}

var categoryGuidance = map[domain.WorkoutCategory]string{
	domain.CategoryRecovery:  "Spin easily below 55% FTP, high cadence, no efforts.",
	domain.CategoryEndurance: "Steady riding at 56-75% FTP; keep it conversational.",
	domain.CategoryTempo:     "Sustained blocks at 76-90% FTP with short recoveries.",
	domain.CategorySweetSpot: "2-4 intervals of 10-20 min at 88-94% FTP.",
	domain.CategoryThreshold: "2-3 intervals of 8-20 min at 95-105% FTP.",
	domain.CategoryVO2max:    "4-6 intervals of 3-5 min at 106-120% FTP, equal recovery.",
	domain.CategoryAnaerobic: "Short 30 s-2 min efforts above 120% FTP with full recovery.",
}

// recoveryZones replace the phase emphasis in a forced recovery week.
var recoveryZones = domain.ZoneWeights{domain.Z1: 0.4, domain.Z2: 0.6}
