package scenario

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/skirmish/internal/game/combat"
	"github.com/cory-johannsen/skirmish/internal/game/search"
)

// Report is the result of running one scenario.
type Report struct {
	Name     string
	Baseline combat.Outcome
	Boosted  search.Result
	// Mismatches lists every expectation the run failed to meet.
	Mismatches []string
}

// OK reports whether every expectation was met.
func (r Report) OK() bool { return len(r.Mismatches) == 0 }

// Run simulates s once at base attack power, then searches for the minimal
// loss-free boost.
//
// Precondition: s must come from FromMap or a loader.
// Postcondition: Returns a Report, or the first simulation/search error.
// Exhausting the search is an error.
func Run(ctx context.Context, s *Scenario, rules combat.Rules, opts search.Options, logger *zap.Logger) (Report, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.With(zap.String("scenario", s.Name))

	field, err := combat.NewBattlefield(s.Grid, s.Spawns, rules)
	if err != nil {
		return Report{}, fmt.Errorf("scenario %q: %w", s.Name, err)
	}

	baseline, err := combat.NewSimulation(field.Clone(), rules, logger).Run(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("scenario %q baseline: %w", s.Name, err)
	}

	driver, err := search.NewDriver(field, rules, opts, logger)
	if err != nil {
		return Report{}, fmt.Errorf("scenario %q: %w", s.Name, err)
	}
	boosted, err := driver.Search(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("scenario %q search: %w", s.Name, err)
	}

	r := Report{Name: s.Name, Baseline: baseline, Boosted: boosted}
	r.Mismatches = s.Expect.Check(baseline.Score(), boosted.Boost, boosted.Outcome.Score())
	return r, nil
}

// Check compares actual answers against the expectation.
//
// Postcondition: Returns one message per mismatching non-nil field.
func (e Expectation) Check(outcome, boost, boostedOutcome int) []string {
	var out []string
	check := func(label string, want *int, got int) {
		if want != nil && *want != got {
			out = append(out, fmt.Sprintf("%s: want %d, got %d", label, *want, got))
		}
	}
	check("outcome", e.Outcome, outcome)
	check("boost", e.Boost, boost)
	check("boosted_outcome", e.BoostedOutcome, boostedOutcome)
	return out
}

// RunAll runs every scenario in c, stopping at the first error.
//
// Postcondition: Returns one Report per scenario in catalogue order, or the
// reports completed so far and the error.
func RunAll(ctx context.Context, c *Catalogue, rules combat.Rules, opts search.Options, logger *zap.Logger) ([]Report, error) {
	reports := make([]Report, 0, len(c.Scenarios))
	for _, s := range c.Scenarios {
		r, err := Run(ctx, s, rules, opts, logger)
		if err != nil {
			return reports, err
		}
		reports = append(reports, r)
	}
	return reports, nil
}

// Failed joins one error per report with unmet expectations; nil when all passed.
func Failed(reports []Report) error {
	var errs []error
	for _, r := range reports {
		if !r.OK() {
			errs = append(errs, fmt.Errorf("scenario %q: %v", r.Name, r.Mismatches))
		}
	}
	return errors.Join(errs...)
}
