// Package grid models the static battle map: cell terrain, positions, and the
// reading order used to break every tie in the simulation.
package grid

import "strings"

// Cell is the terrain classification of one map square.
type Cell int

const (
	Wall Cell = iota
	Open
)

// String returns the map rune for the cell.
func (c Cell) String() string {
	if c == Open {
		return "."
	}
	return "#"
}

// Pos is a map coordinate. Row grows downward, Col grows rightward.
type Pos struct {
	Row int
	Col int
}

// Neighbors returns the four orthogonal neighbors of p in reading order:
// up, left, right, down.
//
// Postcondition: The returned positions are sorted by Compare.
func (p Pos) Neighbors() [4]Pos {
	return [4]Pos{
		{Row: p.Row - 1, Col: p.Col},
		{Row: p.Row, Col: p.Col - 1},
		{Row: p.Row, Col: p.Col + 1},
		{Row: p.Row + 1, Col: p.Col},
	}
}

// Adjacent reports whether p and q share an edge.
func (p Pos) Adjacent(q Pos) bool {
	dr, dc := p.Row-q.Row, p.Col-q.Col
	return dr*dr+dc*dc == 1
}

// Compare orders positions in reading order: lower row first, then lower column.
// It is the single tie-break comparator shared by turn order, target choice,
// destination choice and step choice.
//
// Postcondition: Returns a negative number, zero, or a positive number as a is
// before, equal to, or after b.
func Compare(a, b Pos) int {
	if a.Row != b.Row {
		return a.Row - b.Row
	}
	return a.Col - b.Col
}

// Grid is the immutable terrain of a battle map.
//
// Invariant: len(cells) == width*height; never mutated after Parse returns.
type Grid struct {
	width  int
	height int
	cells  []Cell
}

// New builds a grid of the given size with every cell set to Wall.
//
// Precondition: width >= 0 and height >= 0.
func New(width, height int) *Grid {
	return &Grid{width: width, height: height, cells: make([]Cell, width*height)}
}

// Width returns the number of columns.
func (g *Grid) Width() int { return g.width }

// Height returns the number of rows.
func (g *Grid) Height() int { return g.height }

// InBounds reports whether p lies inside the parsed map area.
func (g *Grid) InBounds(p Pos) bool {
	return p.Row >= 0 && p.Row < g.height && p.Col >= 0 && p.Col < g.width
}

// At returns the terrain at p. Positions outside the map are walls.
func (g *Grid) At(p Pos) Cell {
	if !g.InBounds(p) {
		return Wall
	}
	return g.cells[p.Row*g.width+p.Col]
}

// IsOpen reports whether p is traversable floor.
func (g *Grid) IsOpen(p Pos) bool {
	return g.At(p) == Open
}

// OpenCount returns the number of floor cells.
func (g *Grid) OpenCount() int {
	n := 0
	for _, c := range g.cells {
		if c == Open {
			n++
		}
	}
	return n
}

func (g *Grid) set(p Pos, c Cell) {
	g.cells[p.Row*g.width+p.Col] = c
}

// String renders the terrain using the map alphabet.
func (g *Grid) String() string {
	var sb strings.Builder
	for r := 0; r < g.height; r++ {
		for c := 0; c < g.width; c++ {
			sb.WriteString(g.At(Pos{Row: r, Col: c}).String())
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
