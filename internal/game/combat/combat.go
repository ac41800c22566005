// Package combat implements the grid skirmish engine: actors, the battlefield
// they occupy, per-actor turn decisions, and the round state machine.
package combat

import (
	"errors"
	"fmt"
	"strings"

	"github.com/cory-johannsen/skirmish/internal/game/grid"
)

// Faction distinguishes the two opposing sides.
type Faction int

const (
	// FactionNone is the zero value; used as "no winner" and "no protected faction".
	FactionNone Faction = iota
	Elf
	Goblin
)

// String returns a lower-case faction label.
func (f Faction) String() string {
	switch f {
	case Elf:
		return "elf"
	case Goblin:
		return "goblin"
	default:
		return "none"
	}
}

// Opponent returns the opposing faction.
//
// Postcondition: Opponent(Elf) == Goblin, Opponent(Goblin) == Elf, otherwise FactionNone.
func (f Faction) Opponent() Faction {
	switch f {
	case Elf:
		return Goblin
	case Goblin:
		return Elf
	default:
		return FactionNone
	}
}

// Rune returns the map rune used to draw an actor of this faction.
func (f Faction) Rune() rune {
	switch f {
	case Elf:
		return rune(grid.KindElf)
	case Goblin:
		return rune(grid.KindGoblin)
	default:
		return '?'
	}
}

// ParseFaction maps "elf"/"elves" and "goblin"/"goblins" (any case) to a Faction.
//
// Postcondition: Returns Elf or Goblin, or a non-nil error.
func ParseFaction(s string) (Faction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "elf", "elves", "e":
		return Elf, nil
	case "goblin", "goblins", "g":
		return Goblin, nil
	default:
		return FactionNone, fmt.Errorf("unknown faction %q", s)
	}
}

// FactionOf returns the faction that spawns from the given map kind.
func FactionOf(k grid.Kind) Faction {
	switch k {
	case grid.KindElf:
		return Elf
	case grid.KindGoblin:
		return Goblin
	default:
		return FactionNone
	}
}

// Actor is one combatant on the battlefield.
type Actor struct {
	// ID is stable for the lifetime of a battle; assigned in reading order of spawn.
	ID      int
	Faction Faction
	Pos     grid.Pos
	HP      int
	Attack  int
}

// IsDead reports whether the actor has no hit points left.
func (a *Actor) IsDead() bool { return a.HP <= 0 }

// ApplyDamage reduces HP by amount, flooring at zero.
// Precondition: amount must be >= 0.
// Postcondition: HP >= 0.
func (a *Actor) ApplyDamage(amount int) {
	a.HP -= amount
	if a.HP < 0 {
		a.HP = 0
	}
}

// Rules holds the per-trial simulation constants.
type Rules struct {
	// HitPoints is every actor's starting HP.
	HitPoints int
	// AttackPower is every actor's base attack before any boost.
	AttackPower int
	// MaxRounds aborts Run with ErrRoundLimit once exceeded; 0 means unlimited.
	MaxRounds int
}

// DefaultRules returns the classic constants: 200 HP, 3 attack, no round limit.
func DefaultRules() Rules {
	return Rules{HitPoints: 200, AttackPower: 3}
}

// Validate checks the rule invariants.
//
// Postcondition: Returns nil iff HitPoints >= 1, AttackPower >= 1 and MaxRounds >= 0.
func (r Rules) Validate() error {
	var errs []error
	if r.HitPoints < 1 {
		errs = append(errs, fmt.Errorf("hit points must be >= 1, got %d", r.HitPoints))
	}
	if r.AttackPower < 1 {
		errs = append(errs, fmt.Errorf("attack power must be >= 1, got %d", r.AttackPower))
	}
	if r.MaxRounds < 0 {
		errs = append(errs, fmt.Errorf("max rounds must be >= 0, got %d", r.MaxRounds))
	}
	return errors.Join(errs...)
}
