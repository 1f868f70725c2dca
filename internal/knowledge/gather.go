package knowledge

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/alexanderramin/velo/internal/domain"
	"github.com/alexanderramin/velo/internal/service"
)

var _ service.TheoryRetriever = (*Client)(nil)

const (
	dedupePrefix = 100
	maxTextLen   = 1000
)

var queriesByTopic = map[string][]string{
	"phase_structure": {
		"Traditional periodization base build peak taper cycling mesocycle macrocycle",
		"Block periodization cycling concentrated loading versus traditional linear",
	},
	"progressive_overload": {
		"Progressive overload training stress score weekly ramp rate chronic training load cycling",
		"Acute chronic workload ratio training load management cycling",
	},
	"recovery": {
		"Recovery supercompensation deload week cycling",
		"Overtraining prevention warning signs cycling",
	},
	"intensity_distribution": {
		"Training intensity distribution polarized pyramidal threshold cycling",
	},
	"ftp_development": {
		"FTP improvement sweet spot and threshold intervals progression",
		"Lactate threshold training progression power duration curve",
	},
	"race_preparation": {
		"Race preparation taper peaking cycling event readiness",
		"Pre-competition volume and intensity manipulation peak timing",
	},
	"base_building": {
		"Aerobic base building zone 2 endurance foundation cycling",
		"Polarized training high volume low intensity 80/20 cycling",
	},
	"physiological_adaptation": {
		"Physiological adaptations to cycling training VO2max cardiac output",
	},
}

var commonTopics = []string{"phase_structure", "progressive_overload", "recovery", "intensity_distribution"}

// Queries returns the query set for a goal type.
func Queries(goal domain.GoalType) []string {
	topics := append([]string(nil), commonTopics...)
	switch goal {
	case domain.GoalFTPTarget:
		topics = append(topics, "ftp_development")
	case domain.GoalRacePrep:
		topics = append(topics, "race_preparation")
	default:
		topics = append(topics, "base_building")
	}
	topics = append(topics, "physiological_adaptation")

	var out []string
	for _, t := range topics {
		out = append(out, queriesByTopic[t]...)
	}
	return out
}

// Citations runs the goal's queries concurrently and merges the hits:
// duplicates are dropped, the rest ordered by score and capped at
// MaxPassages. A failing query only loses its own hits; the call fails when
// every query does.
func (c *Client) Citations(ctx context.Context, goal domain.GoalType) ([]domain.Citation, error) {
	queries := Queries(goal)
	results := make([][]Passage, len(queries))

	var mu sync.Mutex
	var failures []error

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.cfg.Workers)
	for i, q := range queries {
		g.Go(func() error {
			hits, err := c.Search(gctx, q, c.cfg.Limit, c.cfg.MinScore)
			if err != nil {
				zerolog.Ctx(ctx).Debug().Err(err).Str("query", q).Msg("theory query failed")
				mu.Lock()
				failures = append(failures, err)
				mu.Unlock()
				return nil
			}
			results[i] = hits
			return nil
		})
	}
	_ = g.Wait()

	if len(failures) == len(queries) && len(queries) > 0 {
		return nil, fmt.Errorf("all %d theory queries failed: %w", len(queries), failures[0])
	}
	return merge(results, c.cfg.MaxPassages), nil
}

// merge flattens per-query hits in query order, drops passages whose text
// opening was already seen and keeps the best limit by score.
func merge(results [][]Passage, limit int) []domain.Citation {
	seen := make(map[string]bool)
	var all []Passage
	for _, hits := range results {
		for _, p := range hits {
			key := prefix(p.Text, dedupePrefix)
			if seen[key] {
				continue
			}
			seen[key] = true
			all = append(all, p)
		}
	}
	sort.SliceStable(all, func(i, j int) bool { return all[i].Score > all[j].Score })
	if limit > 0 && len(all) > limit {
		all = all[:limit]
	}

	out := make([]domain.Citation, len(all))
	for i, p := range all {
		source := p.Source
		if source == "" {
			source = "unknown"
		}
		out[i] = domain.Citation{Source: source, Text: prefix(p.Text, maxTextLen), Score: p.Score}
	}
	return out
}

func prefix(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
