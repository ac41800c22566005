package pathfind_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/skirmish/internal/game/grid"
	"github.com/cory-johannsen/skirmish/internal/game/pathfind"
)

func mustGrid(t *testing.T, s string) *grid.Grid {
	t.Helper()
	g, _, err := grid.ParseString(s)
	require.NoError(t, err)
	return g
}

func p(r, c int) grid.Pos { return grid.Pos{Row: r, Col: c} }

func TestDistances_OpenRoom(t *testing.T) {
	g := mustGrid(t, "#####\n#...#\n#...#\n#...#\n#####")
	dist := pathfind.Distances(g, nil, p(1, 1))

	assert.Len(t, dist, 9)
	assert.Equal(t, 0, dist[p(1, 1)])
	assert.Equal(t, 1, dist[p(1, 2)])
	assert.Equal(t, 2, dist[p(2, 2)])
	assert.Equal(t, 4, dist[p(3, 3)])
}

func TestDistances_AroundWall(t *testing.T) {
	g := mustGrid(t, "#####\n#.#.#\n#...#\n#####")
	dist := pathfind.Distances(g, nil, p(1, 1))
	assert.Equal(t, 4, dist[p(1, 3)])
}

func TestDistances_BlockedCellsAreObstacles(t *testing.T) {
	g := mustGrid(t, "#####\n#...#\n#####")
	blocked := func(q grid.Pos) bool { return q == p(1, 2) }
	dist := pathfind.Distances(g, blocked, p(1, 1))
	assert.Equal(t, map[grid.Pos]int{p(1, 1): 0}, dist)
}

func TestDistances_SourceNeverBlocksItself(t *testing.T) {
	g := mustGrid(t, "####\n#..#\n####")
	blocked := func(q grid.Pos) bool { return q == p(1, 1) }
	dist := pathfind.Distances(g, blocked, p(1, 1))
	assert.Equal(t, 1, dist[p(1, 2)])
}

func TestDistances_EnclosedSource(t *testing.T) {
	g := mustGrid(t, "#####\n#.#.#\n#####")
	dist := pathfind.Distances(g, nil, p(1, 1))
	assert.Equal(t, map[grid.Pos]int{p(1, 1): 0}, dist)
}

func TestDistancesUntil_StopsEarly(t *testing.T) {
	g := mustGrid(t, "#######\n#.....#\n#######")
	dist := pathfind.DistancesUntil(g, nil, p(1, 1), p(1, 2))
	assert.Equal(t, 1, dist[p(1, 2)])
	_, far := dist[p(1, 5)]
	assert.False(t, far, "expansion should stop once the target is reached")
}

func TestDistancesUntil_UnreachableStop(t *testing.T) {
	g := mustGrid(t, "#####\n#.#.#\n#####")
	dist := pathfind.DistancesUntil(g, nil, p(1, 1), p(1, 3))
	_, ok := dist[p(1, 3)]
	assert.False(t, ok)
	assert.Equal(t, map[grid.Pos]int{p(1, 1): 0}, dist)
}

func TestDistance(t *testing.T) {
	g := mustGrid(t, "#####\n#...#\n#.#.#\n#####")
	d, ok := pathfind.Distance(g, nil, p(2, 1), p(2, 3))
	require.True(t, ok)
	assert.Equal(t, 4, d)

	d, ok = pathfind.Distance(g, nil, p(1, 2), p(1, 2))
	require.True(t, ok)
	assert.Equal(t, 0, d)

	_, ok = pathfind.Distance(g, func(q grid.Pos) bool { return q == p(1, 2) }, p(2, 1), p(2, 3))
	assert.False(t, ok)
}

// relax computes distances by iterating edge relaxation to a fixpoint; it
// shares no code with the ring expansion.
func relax(g *grid.Grid, blocked map[grid.Pos]bool, src grid.Pos) map[grid.Pos]int {
	const inf = 1 << 30
	dist := map[grid.Pos]int{}
	for r := 0; r < g.Height(); r++ {
		for c := 0; c < g.Width(); c++ {
			q := p(r, c)
			if g.IsOpen(q) && !blocked[q] {
				dist[q] = inf
			}
		}
	}
	dist[src] = 0
	for changed := true; changed; {
		changed = false
		for q, d := range dist {
			if d == inf {
				continue
			}
			for _, n := range q.Neighbors() {
				if nd, ok := dist[n]; ok && nd > d+1 {
					dist[n] = d + 1
					changed = true
				}
			}
		}
	}
	for q, d := range dist {
		if d == inf {
			delete(dist, q)
		}
	}
	return dist
}

func TestDistances_Property_MatchesRelaxation(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		w := rapid.IntRange(1, 8).Draw(rt, "w")
		h := rapid.IntRange(1, 8).Draw(rt, "h")
		var sb []byte
		for r := 0; r < h; r++ {
			for c := 0; c < w; c++ {
				if rapid.IntRange(0, 3).Draw(rt, "cell") == 0 {
					sb = append(sb, '#')
				} else {
					sb = append(sb, '.')
				}
			}
			sb = append(sb, '\n')
		}
		g, _, err := grid.ParseString(string(sb))
		require.NoError(rt, err)

		src := p(rapid.IntRange(0, h-1).Draw(rt, "sr"), rapid.IntRange(0, w-1).Draw(rt, "sc"))
		if !g.IsOpen(src) {
			rt.Skip("source is a wall")
		}
		blocked := map[grid.Pos]bool{}
		for i, n := 0, rapid.IntRange(0, 4).Draw(rt, "blocked"); i < n; i++ {
			q := p(rapid.IntRange(0, h-1).Draw(rt, "br"), rapid.IntRange(0, w-1).Draw(rt, "bc"))
			if q != src {
				blocked[q] = true
			}
		}

		got := pathfind.Distances(g, func(q grid.Pos) bool { return blocked[q] }, src)
		assert.Equal(rt, relax(g, blocked, src), got)

		for dst, want := range got {
			d, ok := pathfind.Distance(g, func(q grid.Pos) bool { return blocked[q] }, src, dst)
			require.True(rt, ok)
			assert.Equal(rt, want, d)
		}
	})
}
