package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/alexanderramin/velo/internal/domain"
	"github.com/alexanderramin/velo/internal/metrics"
	"github.com/alexanderramin/velo/internal/service"
)

const (
	maxStepSeconds  = 4 * 3600
	maxTotalSeconds = 6 * 3600
	maxPowerPct     = 2.0
)

type workoutStep struct {
	Label       string  `json:"label"`
	DurationSec int     `json:"duration_sec"`
	PowerPct    float64 `json:"power_pct"`
}

type workoutDoc struct {
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Steps       []workoutStep `json:"steps"`
}

func validateWorkoutDoc(d workoutDoc) error {
	if d.Name == "" {
		return fmt.Errorf("workout has no name")
	}
	if len(d.Steps) == 0 {
		return fmt.Errorf("workout has no steps")
	}
	total := 0
	for i, s := range d.Steps {
		if s.DurationSec <= 0 || s.DurationSec > maxStepSeconds {
			return fmt.Errorf("step %d: duration %d s out of range", i+1, s.DurationSec)
		}
		if s.PowerPct <= 0 || s.PowerPct > maxPowerPct {
			return fmt.Errorf("step %d: power %.2f of FTP out of range", i+1, s.PowerPct)
		}
		total += s.DurationSec
	}
	if total > maxTotalSeconds {
		return fmt.Errorf("workout lasts %d s", total)
	}
	return nil
}

// Artifact is the workout document written to disk.
type Artifact struct {
	SlotID      string                 `json:"slot_id"`
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	Category    domain.WorkoutCategory `json:"category"`
	FTP         float64                `json:"ftp"`
	Steps       []workoutStep          `json:"steps"`
	StressScore float64                `json:"stress_score"`
	DurationMin int                    `json:"duration_min"`
	Model       string                 `json:"model"`
	GeneratedAt time.Time              `json:"generated_at"`
}

// WorkoutGenerator writes workouts for planned slots with an LLM and
// stores each one as a JSON artifact.
type WorkoutGenerator struct {
	client Client
	dir    string
	now    func() time.Time
}

var _ service.ContentGenerator = (*WorkoutGenerator)(nil)

func NewWorkoutGenerator(client Client, artifactDir string) *WorkoutGenerator {
	return &WorkoutGenerator{
		client: client,
		dir:    artifactDir,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (g *WorkoutGenerator) Generate(ctx context.Context, req service.GenerationRequest) (*service.GeneratedWorkout, error) {
	ftp := req.Snapshot.FTP
	if ftp <= 0 {
		return nil, fmt.Errorf("generating workout with ftp %.1f: %w", ftp, domain.ErrInvalidProfile)
	}

	completion, err := g.client.Complete(ctx, Prompt{
		System: workoutSystemPrompt,
		User:   buildWorkoutPrompt(req),
		JSON:   true,
	})
	if err != nil {
		return nil, err
	}
	doc, err := ExtractJSON(completion.Text, validateWorkoutDoc)
	if err != nil {
		return nil, err
	}

	stress, seconds, err := summarize(doc.Steps, ftp)
	if err != nil {
		return nil, err
	}
	art := Artifact{
		SlotID:      req.Slot.ID,
		Name:        doc.Name,
		Description: doc.Description,
		Category:    req.Slot.Category,
		FTP:         ftp,
		Steps:       doc.Steps,
		StressScore: math.Round(stress*10) / 10,
		DurationMin: int(math.Round(float64(seconds) / 60)),
		Model:       completion.Model,
		GeneratedAt: g.now(),
	}
	path, err := g.write(art)
	if err != nil {
		return nil, err
	}
	return &service.GeneratedWorkout{
		ArtifactRef:       path,
		Name:              art.Name,
		ActualStress:      art.StressScore,
		ActualDurationMin: art.DurationMin,
	}, nil
}

// summarize expands the steps into a 1 Hz power trace and scores it the same
// way a recorded ride is scored.
func summarize(steps []workoutStep, ftp float64) (float64, int, error) {
	total := 0
	for _, s := range steps {
		total += s.DurationSec
	}
	trace := make([]float64, 0, total)
	for _, s := range steps {
		w := s.PowerPct * ftp
		for i := 0; i < s.DurationSec; i++ {
			trace = append(trace, w)
		}
	}
	stress, err := metrics.StressScore(total, metrics.NormalizedPower(trace), ftp)
	if err != nil {
		return 0, 0, err
	}
	return stress, total, nil
}

func (g *WorkoutGenerator) write(art Artifact) (string, error) {
	if err := os.MkdirAll(g.dir, 0o750); err != nil {
		return "", fmt.Errorf("creating artifact directory: %w", err)
	}
	data, err := json.MarshalIndent(art, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding workout: %w", err)
	}
	path := filepath.Join(g.dir, art.SlotID+".json")
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o640); err != nil {
		return "", fmt.Errorf("writing workout: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return "", fmt.Errorf("writing workout: %w", err)
	}
	return path, nil
}
