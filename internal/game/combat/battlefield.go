package combat

import (
	"fmt"
	"slices"
	"strings"

	"github.com/cory-johannsen/skirmish/internal/game/grid"
	"github.com/cory-johannsen/skirmish/internal/game/pathfind"
)

// Battlefield is the mutable state of one battle: a shared immutable grid plus
// the live actors, indexed both by ID and by position.
//
// Invariant: for every live actor a, at[a.Pos] == a.ID and grid.IsOpen(a.Pos).
// Invariant: dead actors are absent from both indexes.
type Battlefield struct {
	grid   *grid.Grid
	actors map[int]*Actor
	at     map[grid.Pos]int
}

// NewBattlefield places one actor per spawn using the HP and attack in rules.
//
// Precondition: g must be non-nil.
// Postcondition: Returns a battlefield whose actor IDs follow the reading order
// of their spawn, or an error if a spawn is off the floor or shares a cell.
func NewBattlefield(g *grid.Grid, spawns []grid.Spawn, rules Rules) (*Battlefield, error) {
	if err := rules.Validate(); err != nil {
		return nil, fmt.Errorf("invalid rules: %w", err)
	}
	sorted := slices.Clone(spawns)
	slices.SortFunc(sorted, func(a, b grid.Spawn) int { return grid.Compare(a.Pos, b.Pos) })

	b := &Battlefield{
		grid:   g,
		actors: make(map[int]*Actor, len(sorted)),
		at:     make(map[grid.Pos]int, len(sorted)),
	}
	for i, sp := range sorted {
		if !g.IsOpen(sp.Pos) {
			return nil, fmt.Errorf("spawn at %v is not open floor", sp.Pos)
		}
		if _, taken := b.at[sp.Pos]; taken {
			return nil, fmt.Errorf("spawn at %v shares a cell with another actor", sp.Pos)
		}
		f := FactionOf(sp.Kind)
		if f == FactionNone {
			return nil, fmt.Errorf("spawn at %v has unknown kind %q", sp.Pos, rune(sp.Kind))
		}
		b.actors[i] = &Actor{ID: i, Faction: f, Pos: sp.Pos, HP: rules.HitPoints, Attack: rules.AttackPower}
		b.at[sp.Pos] = i
	}
	return b, nil
}

// Grid returns the shared terrain.
func (b *Battlefield) Grid() *grid.Grid { return b.grid }

// Actor returns a copy of the live actor with the given ID.
//
// Postcondition: ok is false iff the actor never existed or has died.
func (b *Battlefield) Actor(id int) (Actor, bool) {
	a, ok := b.actors[id]
	if !ok {
		return Actor{}, false
	}
	return *a, true
}

// ActorAt returns a copy of the live actor standing on p.
func (b *Battlefield) ActorAt(p grid.Pos) (Actor, bool) {
	id, ok := b.at[p]
	if !ok {
		return Actor{}, false
	}
	return *b.actors[id], true
}

// Actors returns copies of all live actors in reading order of position.
func (b *Battlefield) Actors() []Actor {
	out := make([]Actor, 0, len(b.actors))
	for _, a := range b.actors {
		out = append(out, *a)
	}
	slices.SortFunc(out, func(x, y Actor) int { return grid.Compare(x.Pos, y.Pos) })
	return out
}

// TurnOrder returns the IDs of all live actors sorted by reading order of their
// current position.
func (b *Battlefield) TurnOrder() []int {
	actors := b.Actors()
	ids := make([]int, len(actors))
	for i, a := range actors {
		ids[i] = a.ID
	}
	return ids
}

// Living returns the number of live actors in faction f.
func (b *Battlefield) Living(f Faction) int {
	n := 0
	for _, a := range b.actors {
		if a.Faction == f {
			n++
		}
	}
	return n
}

// RemainingHP returns the summed hit points of every live actor.
func (b *Battlefield) RemainingHP() int {
	total := 0
	for _, a := range b.actors {
		total += a.HP
	}
	return total
}

// Boost raises the attack of every live actor in faction f by amount.
//
// Precondition: amount >= 0.
func (b *Battlefield) Boost(f Faction, amount int) {
	for _, a := range b.actors {
		if a.Faction == f {
			a.Attack += amount
		}
	}
}

// Clone returns an independent copy sharing only the immutable grid.
//
// Postcondition: Mutating the clone never affects b.
func (b *Battlefield) Clone() *Battlefield {
	c := &Battlefield{
		grid:   b.grid,
		actors: make(map[int]*Actor, len(b.actors)),
		at:     make(map[grid.Pos]int, len(b.at)),
	}
	for id, a := range b.actors {
		cp := *a
		c.actors[id] = &cp
		c.at[cp.Pos] = id
	}
	return c
}

// blockerFor treats every cell held by a live actor other than self as blocked.
func (b *Battlefield) blockerFor(self int) pathfind.Blocker {
	return func(p grid.Pos) bool {
		id, ok := b.at[p]
		return ok && id != self
	}
}

func (b *Battlefield) move(a *Actor, to grid.Pos) {
	delete(b.at, a.Pos)
	a.Pos = to
	b.at[to] = a.ID
}

func (b *Battlefield) remove(a *Actor) {
	delete(b.at, a.Pos)
	delete(b.actors, a.ID)
}

// String renders the board with actors drawn over the terrain, each row
// followed by the HP of the actors on it, e.g. "#G.E#   G(200), E(197)".
func (b *Battlefield) String() string {
	var sb strings.Builder
	for r := 0; r < b.grid.Height(); r++ {
		var hps []string
		for c := 0; c < b.grid.Width(); c++ {
			p := grid.Pos{Row: r, Col: c}
			if id, ok := b.at[p]; ok {
				a := b.actors[id]
				sb.WriteRune(a.Faction.Rune())
				hps = append(hps, fmt.Sprintf("%c(%d)", a.Faction.Rune(), a.HP))
				continue
			}
			sb.WriteString(b.grid.At(p).String())
		}
		if len(hps) > 0 {
			sb.WriteString("   ")
			sb.WriteString(strings.Join(hps, ", "))
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
