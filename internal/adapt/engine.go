// Package adapt evaluates fatigue, compliance and cadence rules to scale the
// load of the week being planned.
package adapt

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/velo/internal/domain"
)

// Bounds of the composed load multiplier. Below MinMultiplier a week stops
// carrying useful stimulus; above MaxMultiplier the ramp outpaces recovery.
const (
	MinMultiplier = 0.4
	MaxMultiplier = 1.2
)

// Input is everything the rules may look at. RecentCompleted is ordered
// oldest first.
type Input struct {
	Snapshot        domain.FitnessSnapshot
	Skeleton        *domain.Skeleton
	WeekNumber      int
	RecentCompleted []*domain.Week
}

// Outcome is a single rule's verdict.
type Outcome struct {
	Multiplier    float64
	ForceRecovery bool
	Reason        string
}

// Rule is one independent adaptation check. Evaluate returns false when the
// rule does not apply. acc is the result accumulated by earlier rules.
type Rule interface {
	Name() string
	Evaluate(in Input, acc Result) (Outcome, bool)
}

// Result is the composed adaptation for a week.
type Result struct {
	Multiplier    float64
	ForceRecovery bool
	Reasons       []string
	Overrides     []string
}

// Notes renders the result for the week's adaptation notes.
func (r Result) Notes() string {
	lines := make([]string, 0, len(r.Reasons)+len(r.Overrides))
	lines = append(lines, r.Reasons...)
	lines = append(lines, r.Overrides...)
	return strings.Join(lines, "\n")
}

// Clamped reports whether the multiplier was pulled back into bounds.
func (r Result) Clamped() bool {
	return len(r.Overrides) > 0
}

// Engine applies rules in a fixed order.
type Engine struct {
	rules []Rule
}

// New creates an engine evaluating rules in the given order.
func New(rules ...Rule) *Engine {
	return &Engine{rules: rules}
}

// Default creates an engine with DefaultRules.
func Default() *Engine {
	return New(DefaultRules()...)
}

// Evaluate composes the rules. Multipliers multiply; a rule forcing recovery
// stops evaluation and replaces the accumulated multiplier when it is lower.
// The final multiplier is clamped to [MinMultiplier, MaxMultiplier].
func (e *Engine) Evaluate(in Input) Result {
	res := Result{Multiplier: 1}
	for _, rule := range e.rules {
		out, ok := rule.Evaluate(in, res)
		if !ok {
			continue
		}
		res.Reasons = append(res.Reasons, out.Reason)
		if out.ForceRecovery {
			res.ForceRecovery = true
			if out.Multiplier < res.Multiplier {
				res.Multiplier = out.Multiplier
			}
			break
		}
		res.Multiplier *= out.Multiplier
	}

	switch {
	case res.Multiplier < MinMultiplier:
		res.Overrides = append(res.Overrides, fmt.Sprintf("multiplier %.2f clamped to %.2f", res.Multiplier, MinMultiplier))
		res.Multiplier = MinMultiplier
	case res.Multiplier > MaxMultiplier:
		res.Overrides = append(res.Overrides, fmt.Sprintf("multiplier %.2f clamped to %.2f", res.Multiplier, MaxMultiplier))
		res.Multiplier = MaxMultiplier
	}
	return res
}
