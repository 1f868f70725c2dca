package service

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/velo/internal/cache"
	"github.com/alexanderramin/velo/internal/db"
	"github.com/alexanderramin/velo/internal/domain"
	"github.com/alexanderramin/velo/internal/testutil"
)

var errFake = errors.New("collaborator down")

type fakeSource struct {
	mu   sync.Mutex
	raw  []RawActivity
	err  error
	hits int
}

func (f *fakeSource) Fetch(_ context.Context, from, to time.Time) ([]RawActivity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.hits++
	if f.err != nil {
		return nil, f.err
	}
	var out []RawActivity
	for _, r := range f.raw {
		if !r.StartedAt.Before(from) && r.StartedAt.Before(to) {
			out = append(out, r)
		}
	}
	return out, nil
}

type fakeGenerator struct {
	err         error
	stressScale float64
	requests    []GenerationRequest
}

func (g *fakeGenerator) Generate(_ context.Context, req GenerationRequest) (*GeneratedWorkout, error) {
	g.requests = append(g.requests, req)
	if g.err != nil {
		return nil, g.err
	}
	scale := g.stressScale
	if scale == 0 {
		scale = 1
	}
	return &GeneratedWorkout{
		ArtifactRef:       "artifacts/" + req.Slot.ID + ".json",
		Name:              "Generated " + string(req.Slot.Category),
		ActualStress:      float64(req.Slot.TargetStress) * scale,
		ActualDurationMin: req.Slot.TargetDurationMin,
	}, nil
}

type fakeRetriever struct {
	citations []domain.Citation
	err       error
}

func (r *fakeRetriever) Citations(context.Context, domain.GoalType) ([]domain.Citation, error) {
	return r.citations, r.err
}

type fixture struct {
	db        *sql.DB
	now       time.Time
	svc       *Services
	source    *fakeSource
	generator *fakeGenerator
	cache     *cache.Store[domain.FitnessSnapshot]
	repos     repoSet
}

type fixtureOption func(*Deps)

// withUoW replaces the unit of work with one built over the fixture database.
func withUoW(build func(*sql.DB) db.UnitOfWork) fixtureOption {
	return func(d *Deps) { d.UoW = build(d.Conn.(*sql.DB)) }
}

func withConfig(edit func(*Config)) fixtureOption {
	return func(d *Deps) { edit(&d.Config) }
}

func withRetriever(r TheoryRetriever) fixtureOption {
	return func(d *Deps) { d.Retriever = r }
}

// newFixture wires the services over an in-memory database with the clock
// fixed at 09:00 on testutil.Monday and a rider profile at the given FTP.
// ftp 0 leaves the profile unset.
func newFixture(t *testing.T, ftp float64, opts ...fixtureOption) *fixture {
	t.Helper()
	database := testutil.NewTestDB(t)
	f := &fixture{
		db:        database,
		now:       testutil.Monday.Add(9 * time.Hour),
		source:    &fakeSource{},
		generator: &fakeGenerator{},
		repos:     newRepoSet(database),
	}
	f.cache = cache.New[domain.FitnessSnapshot](time.Hour)

	d := Deps{
		Conn:      database,
		UoW:       testutil.NewTestUoW(database),
		Generator: f.generator,
		Source:    f.source,
		Cache:     f.cache,
		Clock:     func() time.Time { return f.now },
		Config:    DefaultConfig(),
	}
	for _, opt := range opts {
		opt(&d)
	}
	f.svc = New(d)

	if ftp > 0 {
		require.NoError(t, f.repos.profiles.Upsert(context.Background(), testutil.NewTestProfile(ftp)))
	}
	return f
}

// createProgram creates a 16-week FTP program starting on testutil.Monday.
func (f *fixture) createProgram(t *testing.T, target float64) *ProgramView {
	t.Helper()
	view, err := f.svc.Programs.Create(context.Background(), CreateProgramRequest{
		Name:      "Spring build",
		Goal:      domain.Goal{Type: domain.GoalFTPTarget, TargetFTP: target, TargetDate: testutil.Monday.AddDate(0, 0, 16*7)},
		StartDate: testutil.Monday,
		Volume:    domain.Volume{HoursPerWeek: 10, SessionsPerWeek: 5},
	})
	require.NoError(t, err)
	return view
}

func (f *fixture) countRows(t *testing.T, table string) int {
	t.Helper()
	var n int
	require.NoError(t, f.db.QueryRow(`SELECT COUNT(*) FROM `+table).Scan(&n))
	return n
}

func slotIDs(slots []*domain.WorkoutSlot) []string {
	ids := make([]string, len(slots))
	for i, s := range slots {
		ids[i] = s.ID
	}
	return ids
}

func slotStressSum(slots []*domain.WorkoutSlot) int {
	sum := 0
	for _, s := range slots {
		sum += s.TargetStress
	}
	return sum
}
