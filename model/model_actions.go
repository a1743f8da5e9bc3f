package model

import (
	"fmt"

	"github.com/zucenko/robogrid/observer"
)

// NewBoard creates the board together with all of its spaces. An empty name
// falls back to DEFAULT_BOARD_NAME. Width and height must be positive.
func NewBoard(width, height int, name string) *Board {
	if width <= 0 || height <= 0 {
		panic(fmt.Sprintf("board size %dx%d", width, height))
	}
	if name == "" {
		name = DEFAULT_BOARD_NAME
	}
	b := &Board{
		width:   width,
		height:  height,
		name:    name,
		current: NO_PLAYER,
		phase:   INITIALISATION,
	}
	b.spaces = make([][]*Space, 0, width)
	for x := 0; x < width; x++ {
		column := make([]*Space, 0, height)
		for y := 0; y < height; y++ {
			column = append(column, &Space{board: b, x: x, y: y, occupant: NO_PLAYER})
		}
		b.spaces = append(b.spaces, column)
	}
	return b
}

func (b *Board) Attach(o observer.Observer) (detach func()) {
	return b.notifier.Attach(o)
}

func (b *Board) notifyChange() {
	b.notifier.NotifyChange(b)
}

func (b *Board) Width() int {
	return b.width
}

func (b *Board) Height() int {
	return b.height
}

func (b *Board) Name() string {
	return b.name
}

// GameId reports the game id and whether it was assigned yet.
func (b *Board) GameId() (int, bool) {
	return b.gameId, b.hasGameId
}

// SetGameId assigns the game id once. Repeating the same id is fine, any
// other id afterwards fails with ErrGameIdAssigned and changes nothing.
func (b *Board) SetGameId(id int) error {
	if !b.hasGameId {
		b.gameId = id
		b.hasGameId = true
		return nil
	}
	if b.gameId != id {
		return fmt.Errorf("set game id %d on game %d: %w", id, b.gameId, ErrGameIdAssigned)
	}
	return nil
}

// SpaceAt returns nil when (x, y) is off the board.
func (b *Board) SpaceAt(x, y int) *Space {
	if x >= 0 && x < b.width && y >= 0 && y < b.height {
		return b.spaces[x][y]
	}
	return nil
}

func (b *Board) spaceByIndex(i int) *Space {
	if i == noSpace {
		return nil
	}
	return b.spaces[i/b.height][i%b.height]
}

// SetBlocker installs the obstruction rule used by Neighbor. nil removes it.
func (b *Board) SetBlocker(blocker Blocker) {
	b.blocker = blocker
}

func (b *Board) Blocker() Blocker {
	return b.blocker
}

// Neighbor returns the space one step from s in heading h. The board wraps
// around on both axes. The result is nil if the step is blocked, h is not a
// heading or s is not a space of this board.
func (b *Board) Neighbor(s *Space, h Heading) *Space {
	if s == nil || s.board != b || !h.Valid() {
		return nil
	}
	if b.blocker != nil && b.blocker.Blocked(s, h) {
		return nil
	}
	dx, dy := h.delta()
	x := (s.x + dx + b.width) % b.width
	y := (s.y + dy + b.height) % b.height
	return b.SpaceAt(x, y)
}

// NewPlayer creates a player bound to b for good. The player is not part of
// the roster until AddPlayer is called.
func NewPlayer(b *Board, color, name string) *Player {
	p := &Player{
		board:   b,
		id:      PlayerId(len(b.arena)),
		name:    name,
		color:   color,
		heading: SOUTH,
		at:      noSpace,
	}
	for i := range p.program {
		p.program[i] = &CardField{player: p, visible: true}
	}
	for i := range p.cards {
		p.cards[i] = &CardField{player: p, visible: true}
	}
	b.arena = append(b.arena, p)
	return p
}

// PlayerById resolves a handle of this board, nil if unknown.
func (b *Board) PlayerById(id PlayerId) *Player {
	if id < 0 || int(id) >= len(b.arena) {
		return nil
	}
	return b.arena[id]
}

func (b *Board) contains(id PlayerId) bool {
	for _, r := range b.roster {
		if r == id {
			return true
		}
	}
	return false
}

// AddPlayer appends p to the roster. Players of another board and players
// already in the roster are ignored.
func (b *Board) AddPlayer(p *Player) {
	if p == nil || p.board != b || b.contains(p.id) {
		return
	}
	b.roster = append(b.roster, p.id)
	b.notifyChange()
}

func (b *Board) PlayerCount() int {
	return len(b.roster)
}

// PlayerAt returns the i-th roster entry or nil when i is out of range.
func (b *Board) PlayerAt(i int) *Player {
	if i < 0 || i >= len(b.roster) {
		return nil
	}
	return b.arena[b.roster[i]]
}

// IndexOf returns the roster position of p. ok is false for players of
// another board and for players never added.
func (b *Board) IndexOf(p *Player) (i int, ok bool) {
	if p == nil || p.board != b {
		return -1, false
	}
	for n, id := range b.roster {
		if id == p.id {
			return n, true
		}
	}
	return -1, false
}

// CurrentPlayer is nil until one is set.
func (b *Board) CurrentPlayer() *Player {
	if b.current == NO_PLAYER {
		return nil
	}
	return b.arena[b.current]
}

// SetCurrentPlayer only accepts roster members.
func (b *Board) SetCurrentPlayer(p *Player) {
	if p == nil || p.board != b || p.id == b.current || !b.contains(p.id) {
		return
	}
	b.current = p.id
	b.notifyChange()
}

func (b *Board) Phase() Phase {
	return b.phase
}

func (b *Board) SetPhase(phase Phase) {
	if phase != b.phase {
		b.phase = phase
		b.notifyChange()
	}
}

func (b *Board) Step() int {
	return b.step
}

func (b *Board) SetStep(step int) {
	if step < 0 {
		return
	}
	if step != b.step {
		b.step = step
		b.notifyChange()
	}
}

func (b *Board) StepMode() bool {
	return b.stepMode
}

func (b *Board) SetStepMode(stepMode bool) {
	if stepMode != b.stepMode {
		b.stepMode = stepMode
		b.notifyChange()
	}
}

// Moves counts moves made in the game so far.
func (b *Board) Moves() int {
	return b.moves
}

func (b *Board) SetMoves(moves int) {
	if moves < 0 {
		return
	}
	if moves != b.moves {
		b.moves = moves
		b.notifyChange()
	}
}

// StatusMessage is for diagnostics only; its format is not stable.
func (b *Board) StatusMessage() string {
	p := b.CurrentPlayer()
	if p == nil {
		return fmt.Sprintf("Player = none, Moves = %d", b.moves)
	}
	return fmt.Sprintf("Player = %s, Moves = %d", p.name, b.moves)
}
