package combat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/skirmish/internal/game/grid"
)

func newField(t *testing.T, m string) *Battlefield {
	t.Helper()
	g, spawns, err := grid.ParseString(m)
	require.NoError(t, err)
	field, err := NewBattlefield(g, spawns, DefaultRules())
	require.NoError(t, err)
	return field
}

func at(t *testing.T, b *Battlefield, r, c int) *Actor {
	t.Helper()
	id, ok := b.at[grid.Pos{Row: r, Col: c}]
	require.True(t, ok, "no actor at (%d,%d)", r, c)
	return b.actors[id]
}

func TestTakeTurn_AdjacentAttacksWithoutMoving(t *testing.T) {
	field := newField(t, "####\n#EG#\n####")
	elf := at(t, field, 1, 1)
	gob := at(t, field, 1, 2)

	turn := field.TakeTurn(elf.ID)

	assert.Equal(t, TurnAttacked, turn.Action)
	assert.Equal(t, turn.From, turn.To)
	assert.True(t, turn.Attacked)
	assert.Equal(t, gob.ID, turn.TargetID)
	assert.Equal(t, 3, turn.Damage)
	assert.Equal(t, 197, gob.HP)
	assert.Equal(t, grid.Pos{Row: 1, Col: 1}, elf.Pos)
}

func TestTakeTurn_TargetsLowestHPThenReadingOrder(t *testing.T) {
	field := newField(t, "G....\n..G..\n..EG.\n..G..\n...G.")
	at(t, field, 0, 0).HP = 9
	at(t, field, 1, 2).HP = 4
	at(t, field, 2, 3).HP = 2
	at(t, field, 3, 2).HP = 2
	at(t, field, 4, 3).HP = 1
	elf := at(t, field, 2, 2)
	want := at(t, field, 2, 3)

	turn := field.TakeTurn(elf.ID)

	assert.Equal(t, TurnAttacked, turn.Action)
	assert.Equal(t, want.ID, turn.TargetID)
	assert.True(t, turn.Killed)
	_, alive := field.Actor(want.ID)
	assert.False(t, alive)
	_, occupied := field.ActorAt(grid.Pos{Row: 2, Col: 3})
	assert.False(t, occupied, "dead actor must vacate its cell")
	assert.Equal(t, 2, at(t, field, 3, 2).HP)
}

func TestTakeTurn_DestinationTieBrokenByReadingOrder(t *testing.T) {
	field := newField(t, "#######\n#E..G.#\n#...#.#\n#.G.#G#\n#######")
	elf := at(t, field, 1, 1)

	dest, ok := field.destinationFor(elf)
	require.True(t, ok)
	assert.Equal(t, grid.Pos{Row: 1, Col: 3}, dest)

	turn := field.TakeTurn(elf.ID)
	assert.Equal(t, TurnMoved, turn.Action)
	assert.Equal(t, grid.Pos{Row: 1, Col: 2}, turn.To)
	assert.False(t, turn.Attacked)
}

func TestTakeTurn_StepTieBrokenByReadingOrder(t *testing.T) {
	field := newField(t, "#######\n#.E...#\n#.....#\n#...G.#\n#######")
	elf := at(t, field, 1, 2)

	dest, ok := field.destinationFor(elf)
	require.True(t, ok)
	assert.Equal(t, grid.Pos{Row: 2, Col: 4}, dest)

	step, ok := field.stepToward(elf, dest)
	require.True(t, ok)
	assert.Equal(t, grid.Pos{Row: 1, Col: 3}, step)
}

func TestTakeTurn_MoveThenAttack(t *testing.T) {
	field := newField(t, "#####\n#E.G#\n#####")
	elf := at(t, field, 1, 1)
	gob := at(t, field, 1, 3)

	turn := field.TakeTurn(elf.ID)

	assert.Equal(t, TurnMoved, turn.Action)
	assert.Equal(t, grid.Pos{Row: 1, Col: 2}, elf.Pos)
	assert.True(t, turn.Attacked)
	assert.Equal(t, gob.ID, turn.TargetID)
	assert.Equal(t, 197, gob.HP)
}

func TestTakeTurn_EnclosedActorHolds(t *testing.T) {
	field := newField(t, "#######\n#E#...#\n###..G#\n#######")
	elf := at(t, field, 1, 1)
	gob := at(t, field, 2, 5)

	turn := field.TakeTurn(elf.ID)
	assert.Equal(t, TurnHeld, turn.Action)
	assert.False(t, turn.Progressed())

	turn = field.TakeTurn(gob.ID)
	assert.Equal(t, TurnHeld, turn.Action)
	assert.Equal(t, grid.Pos{Row: 2, Col: 5}, gob.Pos)
}

func TestTakeTurn_BlockedByAlliesDoesNotMove(t *testing.T) {
	field := newField(t, "#######\n#EE.G.#\n#######")
	back := at(t, field, 1, 1)

	turn := field.TakeTurn(back.ID)
	assert.Equal(t, TurnHeld, turn.Action)
	assert.Equal(t, grid.Pos{Row: 1, Col: 1}, back.Pos)
}

func TestTakeTurn_DeadActorIsSkipped(t *testing.T) {
	field := newField(t, "####\n#EG#\n####")
	gob := at(t, field, 1, 2)
	field.remove(gob)

	turn := field.TakeTurn(gob.ID)
	assert.Equal(t, TurnSkipped, turn.Action)
}

func TestTurnAction_String(t *testing.T) {
	assert.Equal(t, "skipped", TurnSkipped.String())
	assert.Equal(t, "held", TurnHeld.String())
	assert.Equal(t, "attacked", TurnAttacked.String())
	assert.Equal(t, "moved", TurnMoved.String())
	assert.Equal(t, "unknown", TurnAction(99).String())
}
