// Package model is the in-memory state of one game: the board grid, its
// spaces, the players and the turn counters. It is not safe for concurrent
// use; a single game loop is expected to drive every mutation.
package model

import (
	"errors"

	"github.com/zucenko/robogrid/observer"
)

const (
	NO_REGISTERS = 5
	NO_CARDS     = 8

	DEFAULT_BOARD_NAME = "defaultboard"
)

// PlayerId is the stable handle of a player inside its board's arena.
type PlayerId int32

const NO_PLAYER PlayerId = -1

const noSpace = -1

var ErrGameIdAssigned = errors.New("a game with a set id may not be assigned a new id")

type Board struct {
	notifier observer.Notifier

	width, height int
	name          string

	gameId    int
	hasGameId bool

	// spaces[x][y]
	spaces [][]*Space

	// arena holds every player created for this board, indexed by PlayerId.
	arena []*Player
	// roster is the insertion ordered list of players taking part.
	roster []PlayerId

	current  PlayerId
	phase    Phase
	step     int
	moves    int
	stepMode bool

	blocker Blocker
}

type Space struct {
	notifier observer.Notifier
	// occupantView fires when the occupant changes how it looks, not where it is.
	occupantView observer.Notifier

	board    *Board
	x, y     int
	occupant PlayerId
}

type Player struct {
	notifier observer.Notifier

	board *Board
	id    PlayerId

	name    string
	color   string
	heading Heading
	// at is the flat index of the occupied space, noSpace when off the board.
	at int

	program [NO_REGISTERS]*CardField
	cards   [NO_CARDS]*CardField
}

// CardField is one program register or hand slot. The card it holds is
// opaque to the board model.
type CardField struct {
	notifier observer.Notifier

	player  *Player
	card    interface{}
	visible bool
}
