package grid

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Kind identifies which faction spawns on a map square.
type Kind rune

const (
	KindElf    Kind = 'E'
	KindGoblin Kind = 'G'
)

// Spawn is an actor start position read from the map.
type Spawn struct {
	Pos  Pos
	Kind Kind
}

// ParseError reports an unrecognized map rune.
type ParseError struct {
	Line int
	Col  int
	Rune rune
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("map line %d column %d: unrecognized character %q", e.Line, e.Col, e.Rune)
}

// ParseString parses a map held in memory.
//
// Postcondition: Same as Parse.
func ParseString(s string) (*Grid, []Spawn, error) {
	return Parse(strings.NewReader(s))
}

// Parse reads a textual battle map. '#' is wall, '.' is floor, 'E' and 'G' are
// floor occupied by an elf or goblin spawn. Lines may be ragged; missing cells
// are walls. Trailing blank lines are ignored.
//
// Precondition: r must be non-nil.
// Postcondition: Returns the grid and spawns in reading order, or a *ParseError
// for the first unrecognized rune, or the underlying read error.
func Parse(r io.Reader) (*Grid, []Spawn, error) {
	var lines []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		lines = append(lines, strings.TrimRight(sc.Text(), "\r"))
	}
	if err := sc.Err(); err != nil {
		return nil, nil, fmt.Errorf("reading map: %w", err)
	}
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}

	width := 0
	for _, l := range lines {
		if n := len([]rune(l)); n > width {
			width = n
		}
	}

	g := New(width, len(lines))
	var spawns []Spawn
	for row, l := range lines {
		for col, ch := range []rune(l) {
			p := Pos{Row: row, Col: col}
			switch ch {
			case '#':
			case '.':
				g.set(p, Open)
			case rune(KindElf), rune(KindGoblin):
				g.set(p, Open)
				spawns = append(spawns, Spawn{Pos: p, Kind: Kind(ch)})
			default:
				return nil, nil, &ParseError{Line: row + 1, Col: col + 1, Rune: ch}
			}
		}
	}
	return g, spawns, nil
}
