// Package scenario loads named battle maps with optional expected results and
// runs them through the baseline simulation and the boost search.
package scenario

import (
	"errors"
	"fmt"
	"strings"

	"github.com/cory-johannsen/skirmish/internal/game/grid"
)

// Expectation holds the published answers for a scenario. Nil fields are not checked.
type Expectation struct {
	// Outcome is the baseline score: rounds * remaining HP.
	Outcome *int
	// Boost is the minimal loss-free boost.
	Boost *int
	// BoostedOutcome is the score of the minimal loss-free trial.
	BoostedOutcome *int
}

// Scenario is one named battle map.
type Scenario struct {
	Name   string
	Map    string
	Grid   *grid.Grid
	Spawns []grid.Spawn
	Expect Expectation
}

// Catalogue is an ordered set of scenarios with unique names.
type Catalogue struct {
	Scenarios []*Scenario
}

// FromMap builds a scenario from raw map text with no expectations.
//
// Postcondition: Returns a parsed Scenario or the map's *grid.ParseError.
func FromMap(name, text string) (*Scenario, error) {
	g, spawns, err := grid.ParseString(text)
	if err != nil {
		return nil, fmt.Errorf("scenario %q: %w", name, err)
	}
	return &Scenario{Name: name, Map: text, Grid: g, Spawns: spawns}, nil
}

// Validate checks that scenario names are present and unique and that every
// map has at least one actor.
//
// Postcondition: Returns nil if valid, or an error describing all violations.
func (c *Catalogue) Validate() error {
	var errs []string
	seen := make(map[string]bool, len(c.Scenarios))
	for i, s := range c.Scenarios {
		if s.Name == "" {
			errs = append(errs, fmt.Sprintf("scenario %d: name must not be empty", i))
			continue
		}
		if seen[s.Name] {
			errs = append(errs, fmt.Sprintf("scenario %q: duplicate name", s.Name))
		}
		seen[s.Name] = true
		if len(s.Spawns) == 0 {
			errs = append(errs, fmt.Sprintf("scenario %q: map has no actors", s.Name))
		}
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

// Get returns the scenario with the given name.
func (c *Catalogue) Get(name string) (*Scenario, bool) {
	for _, s := range c.Scenarios {
		if s.Name == name {
			return s, true
		}
	}
	return nil, false
}
