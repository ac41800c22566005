// Package pathfind computes unweighted shortest distances over a battle grid
// by expanding breadth-first rings from a source cell.
package pathfind

import "github.com/cory-johannsen/skirmish/internal/game/grid"

// Blocker reports whether a cell is occupied and so cannot be entered.
// A nil Blocker blocks nothing.
type Blocker func(grid.Pos) bool

// Terrain is the part of a grid the pathfinder reads.
type Terrain interface {
	IsOpen(p grid.Pos) bool
}

// Distances returns the step count from src to every cell reachable through
// open, unblocked cells.
//
// Precondition: g must be non-nil.
// Postcondition: result[src] == 0; src itself is never treated as blocked.
func Distances(g Terrain, blocked Blocker, src grid.Pos) map[grid.Pos]int {
	dist, _ := expand(g, blocked, src, nil)
	return dist
}

// DistancesUntil is Distances with an early exit once stop has been assigned a
// distance. If stop is unreachable the full enumeration is returned without a
// stop entry.
//
// Precondition: g must be non-nil.
func DistancesUntil(g Terrain, blocked Blocker, src, stop grid.Pos) map[grid.Pos]int {
	dist, _ := expand(g, blocked, src, &stop)
	return dist
}

// Distance returns the shortest step count from src to dst.
//
// Postcondition: ok is false iff dst cannot be reached.
func Distance(g Terrain, blocked Blocker, src, dst grid.Pos) (steps int, ok bool) {
	dist, found := expand(g, blocked, src, &dst)
	if !found {
		return 0, false
	}
	return dist[dst], true
}

func expand(g Terrain, blocked Blocker, src grid.Pos, stop *grid.Pos) (map[grid.Pos]int, bool) {
	dist := map[grid.Pos]int{src: 0}
	if stop != nil && *stop == src {
		return dist, true
	}

	ring := []grid.Pos{src}
	for d := 1; len(ring) > 0; d++ {
		var next []grid.Pos
		for _, p := range ring {
			for _, n := range p.Neighbors() {
				if _, seen := dist[n]; seen {
					continue
				}
				if !g.IsOpen(n) || (blocked != nil && blocked(n)) {
					continue
				}
				dist[n] = d
				if stop != nil && n == *stop {
					return dist, true
				}
				next = append(next, n)
			}
		}
		ring = next
	}
	return dist, false
}
