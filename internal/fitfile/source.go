// Package fitfile reads ride recordings from a directory of FIT files.
package fitfile

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/tormoder/fit"
	"golang.org/x/sync/errgroup"

	"github.com/alexanderramin/velo/internal/domain"
	"github.com/alexanderramin/velo/internal/service"
)

var _ service.ActivitySource = (*DirSource)(nil)

const invalidPower = 0xFFFF

// DirSource serves activities decoded from the *.fit files in a directory.
// The file name without extension is the activity's external id.
type DirSource struct {
	dir     string
	workers int
}

func NewDirSource(dir string, workers int) *DirSource {
	if workers <= 0 {
		workers = 1
	}
	return &DirSource{dir: dir, workers: workers}
}

// Fetch decodes every FIT file and returns the rides that started in
// [from, to). Files that are not readable activities are skipped.
func (s *DirSource) Fetch(ctx context.Context, from, to time.Time) ([]service.RawActivity, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("reading fit dir %s: %w: %w", s.dir, domain.ErrCollaboratorUnavailable, err)
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".fit") {
			continue
		}
		paths = append(paths, filepath.Join(s.dir, e.Name()))
	}

	decoded := make([]*service.RawActivity, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			ra, err := readFile(path)
			if err != nil {
				zerolog.Ctx(ctx).Warn().Err(err).Str("file", path).Msg("skipping fit file")
				return nil
			}
			decoded[i] = ra
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("decoding fit files: %w: %w", domain.ErrCollaboratorUnavailable, err)
	}

	var out []service.RawActivity
	for _, ra := range decoded {
		if ra == nil || ra.StartedAt.Before(from) || !ra.StartedAt.Before(to) {
			continue
		}
		out = append(out, *ra)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartedAt.Before(out[j].StartedAt) })
	return out, nil
}

func readFile(path string) (*service.RawActivity, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	decoded, err := fit.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	activity, err := decoded.Activity()
	if err != nil {
		return nil, err
	}
	id := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return fromActivity(id, activity)
}

// fromActivity converts a decoded activity file. Records are treated as a
// 1 Hz power stream; samples without a power reading count as zero.
func fromActivity(id string, a *fit.ActivityFile) (*service.RawActivity, error) {
	if len(a.Sessions) == 0 && len(a.Records) == 0 {
		return nil, fmt.Errorf("activity %s has neither sessions nor records", id)
	}
	ra := &service.RawActivity{ExternalID: id, Name: id, Sport: "cycling"}

	var hasPower bool
	for _, r := range a.Records {
		w := 0.0
		if r.Power != invalidPower {
			w = float64(r.Power)
			hasPower = true
		}
		ra.Power = append(ra.Power, w)
	}
	if !hasPower {
		ra.Power = nil
	}

	if len(a.Sessions) > 0 {
		sess := a.Sessions[0]
		ra.StartedAt = sess.StartTime.UTC()
		if sess.Sport != fit.SportCycling {
			ra.Sport = strings.ToLower(sess.Sport.String())
		}
		if secs := sess.GetTotalTimerTimeScaled(); secs > 0 {
			ra.DurationSeconds = int(secs)
		}
		if sess.AvgPower != invalidPower {
			ra.AveragePower = float64(sess.AvgPower)
		}
	}

	if len(a.Records) > 0 {
		first, last := a.Records[0].Timestamp.UTC(), a.Records[len(a.Records)-1].Timestamp.UTC()
		if ra.StartedAt.IsZero() {
			ra.StartedAt = first
		}
		if ra.DurationSeconds == 0 {
			ra.DurationSeconds = int(last.Sub(first).Seconds()) + 1
		}
	}
	if ra.AveragePower == 0 && len(ra.Power) > 0 {
		var sum float64
		for _, w := range ra.Power {
			sum += w
		}
		ra.AveragePower = sum / float64(len(ra.Power))
	}
	return ra, nil
}
