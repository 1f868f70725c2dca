package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"

	"github.com/alexanderramin/velo/internal/domain"
)

// enumValue is a string flag restricted to a fixed set of values. The empty
// string stays allowed so an unset flag keeps its service-side default.
type enumValue struct {
	target  *string
	allowed []string
}

var _ pflag.Value = (*enumValue)(nil)

func newEnumValue(target *string, allowed ...string) *enumValue {
	return &enumValue{target: target, allowed: allowed}
}

func (e *enumValue) String() string { return *e.target }

func (e *enumValue) Set(v string) error {
	v = strings.ToLower(strings.TrimSpace(v))
	for _, a := range e.allowed {
		if v == a {
			*e.target = v
			return nil
		}
	}
	return fmt.Errorf("must be one of %s", strings.Join(e.allowed, ", "))
}

func (e *enumValue) Type() string { return "string" }

func goalTypeNames() []string {
	return []string{string(domain.GoalFTPTarget), string(domain.GoalRacePrep), string(domain.GoalBaseBuilding)}
}

func categoryNames() []string {
	return []string{
		string(domain.CategoryRecovery), string(domain.CategoryEndurance), string(domain.CategoryTempo),
		string(domain.CategorySweetSpot), string(domain.CategoryThreshold), string(domain.CategoryVO2max),
		string(domain.CategoryAnaerobic),
	}
}
