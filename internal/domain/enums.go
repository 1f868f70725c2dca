package domain

type ProgramStatus string

const (
	ProgramActive    ProgramStatus = "active"
	ProgramPaused    ProgramStatus = "paused"
	ProgramCompleted ProgramStatus = "completed"
	ProgramCancelled ProgramStatus = "cancelled"
)

type WeekStatus string

const (
	WeekUpcoming  WeekStatus = "upcoming"
	WeekCurrent   WeekStatus = "current"
	WeekCompleted WeekStatus = "completed"
	WeekSkipped   WeekStatus = "skipped"
)

type SlotStatus string

const (
	SlotPlanned   SlotStatus = "planned"
	SlotGenerated SlotStatus = "generated"
	SlotCompleted SlotStatus = "completed"
	SlotSkipped   SlotStatus = "skipped"
)

// Open reports whether the slot can still be generated or matched to an activity.
func (s SlotStatus) Open() bool {
	return s == SlotPlanned || s == SlotGenerated
}

type PhaseName string

const (
	PhaseBase  PhaseName = "base"
	PhaseBuild PhaseName = "build"
	PhasePeak  PhaseName = "peak"
	PhaseTaper PhaseName = "taper"
)

// PhaseOrder is the canonical order phases appear in a skeleton.
var PhaseOrder = []PhaseName{PhaseBase, PhaseBuild, PhasePeak, PhaseTaper}

type GoalType string

const (
	GoalFTPTarget    GoalType = "ftp_target"
	GoalRacePrep     GoalType = "race_prep"
	GoalBaseBuilding GoalType = "base_building"
)

// ValidGoalTypes is the canonical set of accepted goal type strings.
var ValidGoalTypes = map[string]bool{
	"ftp_target": true, "race_prep": true, "base_building": true,
}

// Zone is a power training zone expressed relative to FTP.
type Zone string

const (
	Z1 Zone = "Z1"
	Z2 Zone = "Z2"
	Z3 Zone = "Z3"
	Z4 Zone = "Z4"
	Z5 Zone = "Z5"
	Z6 Zone = "Z6"
	Z7 Zone = "Z7"
)

// Zones lists all power zones from easiest to hardest.
var Zones = []Zone{Z1, Z2, Z3, Z4, Z5, Z6, Z7}

var zoneNames = map[Zone]string{
	Z1: "Active Recovery",
	Z2: "Endurance",
	Z3: "Tempo",
	Z4: "Threshold",
	Z5: "VO2max",
	Z6: "Anaerobic",
	Z7: "Neuromuscular",
}

// Name returns the conventional label of the zone.
func (z Zone) Name() string {
	return zoneNames[z]
}

type WorkoutCategory string

const (
	CategoryRecovery  WorkoutCategory = "recovery"
	CategoryEndurance WorkoutCategory = "endurance"
	CategoryTempo     WorkoutCategory = "tempo"
	CategorySweetSpot WorkoutCategory = "sweet_spot"
	CategoryThreshold WorkoutCategory = "threshold"
	CategoryVO2max    WorkoutCategory = "vo2max"
	CategoryAnaerobic WorkoutCategory = "anaerobic"
)

// Intensity classifies a slot relative to the rest of its week.
type Intensity string

const (
	IntensityHard     Intensity = "hard"
	IntensityModerate Intensity = "moderate"
	IntensityEasy     Intensity = "easy"
)

type RiskLevel string

const (
	RiskNone   RiskLevel = "none"
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// RiderType classifies a power profile by where the rider is strongest
// relative to a reference curve.
type RiderType string

const (
	RiderSprinter     RiderType = "sprinter"
	RiderPuncheur     RiderType = "puncheur"
	RiderPursuiter    RiderType = "pursuiter"
	RiderTimeTrialist RiderType = "time_trialist"
	RiderClimber      RiderType = "climber"
	RiderAllRounder   RiderType = "all_rounder"
	RiderBalanced     RiderType = "balanced"
)
