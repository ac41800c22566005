package combat

import (
	"github.com/cory-johannsen/skirmish/internal/game/grid"
	"github.com/cory-johannsen/skirmish/internal/game/pathfind"
)

// TurnAction classifies what an actor did with its turn.
type TurnAction int

const (
	// TurnSkipped means the actor died earlier in the round.
	TurnSkipped TurnAction = iota
	// TurnHeld means the actor could neither reach nor strike an enemy.
	TurnHeld
	// TurnAttacked means the actor struck without moving.
	TurnAttacked
	// TurnMoved means the actor took one step and may also have struck.
	TurnMoved
)

// String returns the human-readable name of the TurnAction.
func (t TurnAction) String() string {
	switch t {
	case TurnSkipped:
		return "skipped"
	case TurnHeld:
		return "held"
	case TurnAttacked:
		return "attacked"
	case TurnMoved:
		return "moved"
	default:
		return "unknown"
	}
}

// Turn records the result of one TakeTurn call.
type Turn struct {
	ActorID int
	Faction Faction
	Action  TurnAction
	// From and To are equal unless Action == TurnMoved.
	From grid.Pos
	To   grid.Pos
	// Attacked is true when damage was dealt; the fields below are set only then.
	Attacked      bool
	TargetID      int
	TargetFaction Faction
	Damage        int
	Killed        bool
}

// Progressed reports whether the turn changed the battlefield.
func (t Turn) Progressed() bool {
	return t.Action == TurnMoved || t.Attacked
}

// TakeTurn plays one turn for the actor with the given ID:
//   - a dead actor is skipped;
//   - an actor adjacent to an enemy attacks it without moving;
//   - otherwise it steps toward the nearest reachable cell next to an enemy and
//     attacks if that step brought it into range.
//
// Every tie (target HP, destination distance, step distance) is broken by
// reading order. A target reduced to 0 HP is removed immediately.
//
// Postcondition: Battlefield invariants hold; the returned Turn describes every
// mutation made.
func (b *Battlefield) TakeTurn(id int) Turn {
	a, ok := b.actors[id]
	if !ok {
		return Turn{ActorID: id, Action: TurnSkipped}
	}
	turn := Turn{ActorID: id, Faction: a.Faction, Action: TurnHeld, From: a.Pos, To: a.Pos}

	if target := b.targetFor(a); target != nil {
		b.strike(a, target, &turn)
		turn.Action = TurnAttacked
		return turn
	}

	if dest, ok := b.destinationFor(a); ok {
		if step, ok := b.stepToward(a, dest); ok {
			b.move(a, step)
			turn.To = step
			turn.Action = TurnMoved
		}
	}

	if target := b.targetFor(a); target != nil {
		b.strike(a, target, &turn)
		if turn.Action == TurnHeld {
			turn.Action = TurnAttacked
		}
	}
	return turn
}

// targetFor picks the adjacent enemy with the fewest HP, ties by reading order.
//
// Postcondition: Returns nil when no enemy is adjacent.
func (b *Battlefield) targetFor(a *Actor) *Actor {
	var best *Actor
	for _, n := range a.Pos.Neighbors() {
		id, ok := b.at[n]
		if !ok {
			continue
		}
		e := b.actors[id]
		if e.Faction == a.Faction {
			continue
		}
		if best == nil || e.HP < best.HP || (e.HP == best.HP && grid.Compare(e.Pos, best.Pos) < 0) {
			best = e
		}
	}
	return best
}

// destinationFor picks the closest reachable open cell adjacent to any enemy,
// ties by reading order.
func (b *Battlefield) destinationFor(a *Actor) (grid.Pos, bool) {
	dist := pathfind.Distances(b.grid, b.blockerFor(a.ID), a.Pos)

	var (
		best     grid.Pos
		bestDist int
		found    bool
	)
	for _, e := range b.actors {
		if e.Faction == a.Faction {
			continue
		}
		for _, n := range e.Pos.Neighbors() {
			d, ok := dist[n]
			if !ok {
				continue
			}
			if !found || d < bestDist || (d == bestDist && grid.Compare(n, best) < 0) {
				best, bestDist, found = n, d, true
			}
		}
	}
	return best, found
}

// stepToward picks the open, unoccupied neighbor of a with the shortest path
// to dest, ties by reading order.
func (b *Battlefield) stepToward(a *Actor, dest grid.Pos) (grid.Pos, bool) {
	blocked := b.blockerFor(a.ID)

	var (
		best     grid.Pos
		bestDist int
		found    bool
	)
	for _, n := range a.Pos.Neighbors() {
		if !b.grid.IsOpen(n) || blocked(n) {
			continue
		}
		d, ok := pathfind.Distance(b.grid, blocked, n, dest)
		if !ok {
			continue
		}
		if !found || d < bestDist || (d == bestDist && grid.Compare(n, best) < 0) {
			best, bestDist, found = n, d, true
		}
	}
	return best, found
}

func (b *Battlefield) strike(a, target *Actor, turn *Turn) {
	target.ApplyDamage(a.Attack)
	turn.Attacked = true
	turn.TargetID = target.ID
	turn.TargetFaction = target.Faction
	turn.Damage = a.Attack
	if target.IsDead() {
		b.remove(target)
		turn.Killed = true
	}
}
