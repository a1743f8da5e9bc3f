package model

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zucenko/robogrid/observer"
)

func counter(n *int) observer.Observer {
	return observer.ObserverFunc(func(observer.Subject) { *n++ })
}

func TestNewBoard(t *testing.T) {
	b := NewBoard(4, 3, "")
	assert.Equal(t, DEFAULT_BOARD_NAME, b.Name())
	assert.Equal(t, 4, b.Width())
	assert.Equal(t, 3, b.Height())
	assert.Equal(t, INITIALISATION, b.Phase())
	assert.Equal(t, 0, b.Step())
	assert.False(t, b.StepMode())
	assert.Nil(t, b.CurrentPlayer())
	_, assigned := b.GameId()
	assert.False(t, assigned)

	for x := 0; x < 4; x++ {
		for y := 0; y < 3; y++ {
			s := b.SpaceAt(x, y)
			require.NotNil(t, s)
			assert.Equal(t, x, s.X())
			assert.Equal(t, y, s.Y())
			assert.Same(t, b, s.Board())
			assert.Nil(t, s.Player())
		}
	}
}

func TestNewBoardRejectsEmptyGrid(t *testing.T) {
	assert.Panics(t, func() { NewBoard(0, 3, "x") })
}

func TestSpaceAtOutOfRange(t *testing.T) {
	b := NewBoard(3, 2, "b")
	for _, c := range [][2]int{{-1, 0}, {0, -1}, {3, 0}, {0, 2}, {3, 2}, {-5, -5}} {
		assert.Nil(t, b.SpaceAt(c[0], c[1]), "(%d,%d)", c[0], c[1])
	}
}

func TestNeighborWrapsAround(t *testing.T) {
	b := NewBoard(3, 3, "torus")
	corner := b.SpaceAt(2, 2)
	assert.Same(t, b.SpaceAt(0, 2), b.Neighbor(corner, EAST))
	assert.Same(t, b.SpaceAt(2, 0), b.Neighbor(corner, SOUTH))
	origin := b.SpaceAt(0, 0)
	assert.Same(t, b.SpaceAt(2, 0), b.Neighbor(origin, WEST))
	assert.Same(t, b.SpaceAt(0, 2), b.Neighbor(origin, NORTH))
}

func TestNeighborIsSelfInverse(t *testing.T) {
	for _, size := range [][2]int{{1, 1}, {1, 4}, {5, 1}, {3, 3}, {7, 4}} {
		b := NewBoard(size[0], size[1], "")
		for x := 0; x < b.Width(); x++ {
			for y := 0; y < b.Height(); y++ {
				s := b.SpaceAt(x, y)
				for h := SOUTH; h <= EAST; h++ {
					n := b.Neighbor(s, h)
					require.NotNil(t, n)
					assert.Same(t, s, b.Neighbor(n, h.Opposite()))
				}
			}
		}
	}
}

func TestNeighborForeignSpace(t *testing.T) {
	b := NewBoard(2, 2, "")
	other := NewBoard(2, 2, "")
	assert.Nil(t, b.Neighbor(other.SpaceAt(0, 0), EAST))
	assert.Nil(t, b.Neighbor(nil, EAST))
}

func TestNeighborWithWalls(t *testing.T) {
	b := NewBoard(3, 3, "")
	walls := NewWalls(3, 3)
	walls.Add(2, 1, EAST)
	walls.Add(1, 1, NORTH)
	b.SetBlocker(walls)

	assert.Nil(t, b.Neighbor(b.SpaceAt(2, 1), EAST))
	assert.Nil(t, b.Neighbor(b.SpaceAt(0, 1), WEST), "wall on the wrapped edge blocks both ways")
	assert.Nil(t, b.Neighbor(b.SpaceAt(1, 1), NORTH))
	assert.Nil(t, b.Neighbor(b.SpaceAt(1, 0), SOUTH))
	assert.Same(t, b.SpaceAt(1, 2), b.Neighbor(b.SpaceAt(1, 1), SOUTH))
	assert.Equal(t, 2, walls.Len())

	walls.Remove(0, 1, WEST)
	assert.Same(t, b.SpaceAt(0, 1), b.Neighbor(b.SpaceAt(2, 1), EAST))

	b.SetBlocker(BlockerFunc(func(*Space, Heading) bool { return true }))
	assert.Nil(t, b.Neighbor(b.SpaceAt(0, 0), SOUTH))
	b.SetBlocker(nil)
	assert.NotNil(t, b.Neighbor(b.SpaceAt(0, 0), SOUTH))
}

func TestAddPlayer(t *testing.T) {
	b := NewBoard(3, 3, "")
	changes := 0
	b.Attach(counter(&changes))

	p := NewPlayer(b, "red", "Alice")
	b.AddPlayer(p)
	b.AddPlayer(p)
	assert.Equal(t, 1, b.PlayerCount())
	assert.Equal(t, 1, changes)

	foreign := NewPlayer(NewBoard(3, 3, ""), "blue", "Bob")
	b.AddPlayer(foreign)
	b.AddPlayer(nil)
	assert.Equal(t, 1, b.PlayerCount())
	assert.Equal(t, 1, changes)
}

func TestRosterQueries(t *testing.T) {
	b := NewBoard(3, 3, "")
	a := NewPlayer(b, "red", "A")
	c := NewPlayer(b, "green", "C")
	b.AddPlayer(a)
	b.AddPlayer(c)

	assert.Same(t, a, b.PlayerAt(0))
	assert.Same(t, c, b.PlayerAt(1))
	assert.Nil(t, b.PlayerAt(2))
	assert.Nil(t, b.PlayerAt(-1))

	i, ok := b.IndexOf(c)
	assert.True(t, ok)
	assert.Equal(t, 1, i)

	_, ok = b.IndexOf(NewPlayer(b, "x", "not added"))
	assert.False(t, ok)

	other := NewBoard(3, 3, "")
	_, ok = other.IndexOf(a)
	assert.False(t, ok)

	assert.Same(t, a, b.PlayerById(a.Id()))
	assert.Nil(t, b.PlayerById(99))
	assert.Nil(t, b.PlayerById(NO_PLAYER))
}

func TestSetCurrentPlayer(t *testing.T) {
	b := NewBoard(3, 3, "")
	p := NewPlayer(b, "red", "P")
	outsider := NewPlayer(b, "blue", "O")
	b.AddPlayer(p)
	changes := 0
	b.Attach(counter(&changes))

	b.SetCurrentPlayer(outsider)
	assert.Nil(t, b.CurrentPlayer())
	assert.Equal(t, 0, changes)

	b.SetCurrentPlayer(p)
	assert.Same(t, p, b.CurrentPlayer())
	assert.Equal(t, 1, changes)

	b.SetCurrentPlayer(p)
	b.SetCurrentPlayer(outsider)
	b.SetCurrentPlayer(nil)
	assert.Same(t, p, b.CurrentPlayer())
	assert.Equal(t, 1, changes)
}

func TestCounters(t *testing.T) {
	b := NewBoard(2, 2, "")
	changes := 0
	b.Attach(counter(&changes))

	b.SetPhase(INITIALISATION)
	b.SetStep(0)
	b.SetStepMode(false)
	b.SetMoves(0)
	assert.Equal(t, 0, changes)

	b.SetPhase(ACTIVATION)
	b.SetStep(3)
	b.SetStep(1)
	b.SetStepMode(true)
	b.SetMoves(2)
	assert.Equal(t, 5, changes)
	assert.Equal(t, ACTIVATION, b.Phase())
	assert.Equal(t, 1, b.Step())
	assert.True(t, b.StepMode())
	assert.Equal(t, 2, b.Moves())

	b.SetStep(-1)
	b.SetMoves(-1)
	assert.Equal(t, 1, b.Step())
	assert.Equal(t, 2, b.Moves())
	assert.Equal(t, 5, changes)
}

func TestGameId(t *testing.T) {
	b := NewBoard(2, 2, "")
	require.NoError(t, b.SetGameId(7))
	require.NoError(t, b.SetGameId(7))

	err := b.SetGameId(8)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrGameIdAssigned))

	id, assigned := b.GameId()
	assert.True(t, assigned)
	assert.Equal(t, 7, id)
}

func TestStatusMessage(t *testing.T) {
	b := NewBoard(2, 2, "")
	assert.NotPanics(t, func() { _ = b.StatusMessage() })
	p := NewPlayer(b, "red", "Alice")
	b.AddPlayer(p)
	b.SetCurrentPlayer(p)
	assert.Contains(t, b.StatusMessage(), "Alice")
}

func TestHeading(t *testing.T) {
	assert.Equal(t, WEST, SOUTH.Next())
	assert.Equal(t, SOUTH, EAST.Next())
	assert.Equal(t, EAST, SOUTH.Prev())
	assert.Equal(t, NORTH, SOUTH.Opposite())
	assert.Equal(t, WEST, EAST.Opposite())
	h, ok := ParseHeading("NORTH")
	assert.True(t, ok)
	assert.Equal(t, NORTH, h)
	_, ok = ParseHeading("UP")
	assert.False(t, ok)
	assert.False(t, Heading(9).Valid())

	p, ok := ParsePhase("PROGRAMMING")
	assert.True(t, ok)
	assert.Equal(t, PROGRAMMING, p)
}

func TestPlacedPlayerNeighbors(t *testing.T) {
	b := NewBoard(3, 3, "")
	p := NewPlayer(b, "red", "P")
	b.AddPlayer(p)
	p.SetSpace(b.SpaceAt(2, 2))

	at := p.Space()
	require.NotNil(t, at)
	assert.Same(t, b.SpaceAt(0, 2), b.Neighbor(at, EAST))
	assert.Same(t, b.SpaceAt(2, 0), b.Neighbor(at, SOUTH))
	assert.Nil(t, b.Neighbor(at, Heading(7)))
}
