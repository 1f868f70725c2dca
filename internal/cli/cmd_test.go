package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/alexanderramin/velo/internal/domain"
	"github.com/alexanderramin/velo/internal/service"
	"github.com/alexanderramin/velo/internal/testutil"
)

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

type stubGenerator struct{ err error }

func (g *stubGenerator) Generate(_ context.Context, req service.GenerationRequest) (*service.GeneratedWorkout, error) {
	if g.err != nil {
		return nil, g.err
	}
	return &service.GeneratedWorkout{
		ArtifactRef:       "workouts/" + req.Slot.ID + ".json",
		Name:              "Sweet spot 3x15",
		ActualStress:      float64(req.Slot.TargetStress),
		ActualDurationMin: req.Slot.TargetDurationMin,
	}, nil
}

type noRides struct{}

func (noRides) Fetch(context.Context, time.Time, time.Time) ([]service.RawActivity, error) {
	return nil, nil
}

// testApp wires a full App over an in-memory database with the clock at
// 09:00 on testutil.Monday.
func testApp(t *testing.T) (*App, *stubGenerator) {
	t.Helper()
	database := testutil.NewTestDB(t)
	now := testutil.Monday.Add(9 * time.Hour)
	gen := &stubGenerator{}
	deps := service.Deps{
		Conn:      database,
		UoW:       testutil.NewTestUoW(database),
		Generator: gen,
		Source:    noRides{},
		Clock:     func() time.Time { return now },
		Config:    service.DefaultConfig(),
	}
	return &App{
		Services: service.New(deps),
		Deps:     deps,
		Logger:   zerolog.Nop(),
		Now:      func() time.Time { return now },
	}, gen
}

func executeCmd(t *testing.T, app *App, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd(app)
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.Execute()
	return ansiPattern.ReplaceAllString(buf.String(), ""), err
}

func mustExec(t *testing.T, app *App, args ...string) string {
	t.Helper()
	out, err := executeCmd(t, app, args...)
	require.NoError(t, err, out)
	return out
}

func createProgram(t *testing.T, app *App) *domain.Program {
	t.Helper()
	mustExec(t, app, "profile", "set-ftp", "265")
	mustExec(t, app, "program", "create",
		"--name", "Spring build", "--target-ftp", "300",
		"--start", "2025-03-03", "--target-date", "2025-06-23",
		"--hours", "10", "--sessions", "5")
	programs, err := app.Services.Programs.List(context.Background(), false)
	require.NoError(t, err)
	require.Len(t, programs, 1)
	return programs[0]
}

func TestProfileCommands(t *testing.T) {
	app, _ := testApp(t)

	_, err := executeCmd(t, app, "profile", "show")
	require.Error(t, err)

	out := mustExec(t, app, "profile", "set-ftp", "250")
	assert.Contains(t, out, "FTP set to 250 W")

	out = mustExec(t, app, "profile", "set-weight", "62.5")
	assert.Contains(t, out, "4.00 W/kg")

	out = mustExec(t, app, "profile", "show")
	assert.Contains(t, out, "250 W")

	_, err = executeCmd(t, app, "profile", "set-ftp", "abc")
	assert.Error(t, err)
}

func TestFitness_RequiresProfileWithHint(t *testing.T) {
	app, _ := testApp(t)
	_, err := executeCmd(t, app, "fitness")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidProfile)
	assert.Contains(t, err.Error(), "velo profile set-ftp")

	mustExec(t, app, "profile", "set-ftp", "250")
	out := mustExec(t, app, "fitness", "--as-of", "2025-03-03", "--trend", "3")
	assert.Contains(t, out, "FITNESS")
	assert.Contains(t, out, "2025-03-01")

	mustExec(t, app, "profile", "set-weight", "70")
	out = mustExec(t, app, "fitness", "--as-of", "2025-03-03", "--power")
	assert.Contains(t, out, "No power data yet.")
}

func TestProgramCreate_NonInteractiveNeedsFlags(t *testing.T) {
	app, _ := testApp(t)
	_, err := executeCmd(t, app, "program", "create", "--name", "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--target-ftp")
}

func TestProgramCreate_InfeasibleHint(t *testing.T) {
	app, _ := testApp(t)
	mustExec(t, app, "profile", "set-ftp", "265")
	_, err := executeCmd(t, app, "program", "create",
		"--name", "Too much", "--target-ftp", "330",
		"--start", "2025-03-03", "--target-date", "2025-06-23",
		"--hours", "10", "--sessions", "5")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInfeasibleGoal)
	assert.Contains(t, err.Error(), "at least 26 weeks")
}

func TestProgramLifecycleCommands(t *testing.T) {
	app, _ := testApp(t)
	p := createProgram(t, app)

	out := mustExec(t, app, "program", "list")
	assert.Contains(t, out, "Spring build")

	out = mustExec(t, app, "program", "show", "spring build")
	assert.Contains(t, out, "PHASES")
	assert.Contains(t, out, "WEEK 1 · BASE")

	out = mustExec(t, app, "week", "show", p.ID[:8], "2")
	assert.Contains(t, out, "Not planned yet.")

	_, err := executeCmd(t, app, "week", "plan", p.ID, "1")
	assert.ErrorIs(t, err, domain.ErrPlanningConflict)

	_, err = executeCmd(t, app, "week", "show", p.ID, "zero")
	assert.Error(t, err)

	out = mustExec(t, app, "program", "pause", p.ID)
	assert.Contains(t, out, "Paused")
	_, err = executeCmd(t, app, "program", "advance", p.ID)
	assert.ErrorIs(t, err, domain.ErrPlanningConflict)
	mustExec(t, app, "program", "resume", p.ID)

	out = mustExec(t, app, "program", "advance", p.ID)
	assert.Contains(t, out, "Week 1 completed")
	assert.Contains(t, out, "WEEK 2")

	_, err = executeCmd(t, app, "program", "delete", p.ID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--yes")

	out = mustExec(t, app, "program", "delete", p.ID, "--yes")
	assert.Contains(t, out, "Program deleted.")
	_, err = executeCmd(t, app, "program", "show", p.ID)
	assert.Error(t, err)
}

func TestSlotGenerate_ByPrefix(t *testing.T) {
	app, gen := testApp(t)
	p := createProgram(t, app)
	view, err := app.Services.Programs.Get(context.Background(), p.ID)
	require.NoError(t, err)
	slotID := view.Current.Slots[0].ID

	gen.err = errors.New("model offline")
	_, err = executeCmd(t, app, "slot", "generate", slotID)
	require.Error(t, err)
	assert.True(t, domain.IsRetryable(err))
	assert.Contains(t, err.Error(), "nothing was changed")

	gen.err = nil
	out := mustExec(t, app, "slot", "generate", slotID[:8])
	assert.Contains(t, out, "Sweet spot 3x15")
	assert.Contains(t, out, "workouts/"+slotID+".json")
}

func TestFeedbackCommands(t *testing.T) {
	app, _ := testApp(t)

	_, err := executeCmd(t, app, "feedback", "add", "--difficulty", "7")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	out := mustExec(t, app, "feedback", "add", "--category", "threshold", "--difficulty", "4", "--rating", "5", "--notes", "legs heavy")
	assert.Contains(t, out, "Recorded threshold feedback")

	out = mustExec(t, app, "feedback", "list")
	assert.Contains(t, out, "legs heavy")
	assert.Contains(t, out, "4/5")
}

func TestSyncCommand_FromDirectory(t *testing.T) {
	app, _ := testApp(t)
	mustExec(t, app, "profile", "set-ftp", "250")
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "junk.fit"), []byte("nope"), 0o644))

	out := mustExec(t, app, "sync", "--dir", dir, "--from", "2025-02-01")
	assert.Contains(t, out, "fetched 0")

	_, err := executeCmd(t, app, "sync", "--from", "Feb 1")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	out = mustExec(t, app, "activities")
	assert.Contains(t, out, "No activities")
}

func TestProgramExport_YAML(t *testing.T) {
	app, _ := testApp(t)
	p := createProgram(t, app)

	out := mustExec(t, app, "program", "export", p.ID)
	var doc exportDoc
	require.NoError(t, yaml.Unmarshal([]byte(out), &doc))
	assert.Equal(t, "Spring build", doc.Name)
	assert.Equal(t, 265.0, doc.Goal.StartFTP)
	assert.Len(t, doc.Weeks, 16)
	assert.Len(t, doc.Phases, 4)
	require.NotNil(t, doc.Weeks[0].TargetStress)
	assert.Nil(t, doc.Weeks[1].TargetStress)

	path := filepath.Join(t.TempDir(), "plan.yaml")
	out = mustExec(t, app, "program", "export", p.ID, "-o", path)
	assert.Contains(t, out, "Exported Spring build")
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "baseline_stress:")
}

func TestResolveProgramID(t *testing.T) {
	app, _ := testApp(t)
	p := createProgram(t, app)
	ctx := context.Background()

	id, err := resolveProgramID(ctx, app, p.ID[:6])
	require.NoError(t, err)
	assert.Equal(t, p.ID, id)

	_, err = resolveProgramID(ctx, app, "nothing-like-it")
	assert.Error(t, err)

	_, err = resolveProgramID(ctx, app, "")
	assert.Error(t, err)
}

func TestEnumFlags_RejectUnknownValues(t *testing.T) {
	app, _ := testApp(t)

	_, err := executeCmd(t, app, "feedback", "add", "--category", "sprints")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must be one of")

	out := mustExec(t, app, "feedback", "add", "--category", "VO2MAX", "--difficulty", "5")
	assert.Contains(t, out, "Recorded vo2max feedback")

	_, err = executeCmd(t, app, "program", "create", "--goal", "marathon")
	assert.Error(t, err)
}
