package server

import (
	"errors"
	"fmt"

	"github.com/zucenko/robogrid/model"
)

var (
	ErrNotJoined     = errors.New("not joined")
	ErrAlreadyJoined = errors.New("already joined")
	ErrOffBoard      = errors.New("off the board")
	ErrOccupied      = errors.New("space occupied")
	ErrBlocked       = errors.New("blocked")
	ErrNotPlaced     = errors.New("not placed")
	ErrUnknown       = errors.New("unknown command")
)

// Apply runs one client command against the board. The joined player of the
// calling session is ps.PlayerId. Board observers fire during Apply.
func (gs *GameSession) Apply(ps *PlayerSession, cm ClientMessage) error {
	board := gs.Board
	if cm.Command == CMD_JOIN {
		if ps.PlayerId != model.NO_PLAYER {
			return ErrAlreadyJoined
		}
		p := model.NewPlayer(board, cm.Color, cm.Name)
		gs.watchPlayer(p)
		board.AddPlayer(p)
		ps.PlayerId = p.Id()
		if start := gs.freeStart(); start != nil {
			p.SetSpace(start)
		}
		if board.CurrentPlayer() == nil {
			board.SetCurrentPlayer(p)
		}
		return nil
	}

	switch cm.Command {
	case CMD_PHASE:
		phase, ok := model.ParsePhase(cm.Phase)
		if !ok {
			return fmt.Errorf("phase %q: %w", cm.Phase, ErrUnknown)
		}
		board.SetPhase(phase)
		return nil
	case CMD_STEP_MODE:
		board.SetStepMode(cm.StepMode)
		return nil
	case CMD_NEXT:
		return gs.nextPlayer()
	}

	p := board.PlayerById(ps.PlayerId)
	if p == nil {
		return ErrNotJoined
	}
	switch cm.Command {
	case CMD_PLACE:
		space := board.SpaceAt(cm.X, cm.Y)
		if space == nil {
			return fmt.Errorf("place %d,%d: %w", cm.X, cm.Y, ErrOffBoard)
		}
		if other := space.Player(); other != nil && other != p {
			return fmt.Errorf("place %d,%d: %w", cm.X, cm.Y, ErrOccupied)
		}
		p.SetSpace(space)
	case CMD_TURN:
		heading, ok := model.ParseHeading(cm.Heading)
		if !ok {
			return fmt.Errorf("heading %q: %w", cm.Heading, ErrUnknown)
		}
		p.SetHeading(heading)
	case CMD_STEP:
		from := p.Space()
		if from == nil {
			return ErrNotPlaced
		}
		to := board.Neighbor(from, p.Heading())
		if to == nil {
			return fmt.Errorf("step %s from %d,%d: %w", p.Heading().Name(), from.X(), from.Y(), ErrBlocked)
		}
		if to.Occupied() && to.Player() != p {
			return fmt.Errorf("step to %d,%d: %w", to.X(), to.Y(), ErrOccupied)
		}
		p.SetSpace(to)
		board.SetMoves(board.Moves() + 1)
	case CMD_PROGRAM:
		if cm.Register < 0 || cm.Register >= model.NO_REGISTERS {
			return fmt.Errorf("register %d out of range", cm.Register)
		}
		if cm.Card == "" {
			p.ProgramField(cm.Register).SetCard(nil)
		} else {
			p.ProgramField(cm.Register).SetCard(cm.Card)
		}
	default:
		return fmt.Errorf("%q: %w", cm.Command, ErrUnknown)
	}
	return nil
}

// freeStart is the first layout start space nobody stands on.
func (gs *GameSession) freeStart() *model.Space {
	for _, start := range gs.Starts {
		s := gs.Board.SpaceAt(start[0], start[1])
		if s != nil && !s.Occupied() {
			return s
		}
	}
	return nil
}

// nextPlayer hands the turn to the following roster member and restarts
// the step counter.
func (gs *GameSession) nextPlayer() error {
	board := gs.Board
	if board.PlayerCount() == 0 {
		return ErrNotJoined
	}
	next := 0
	if i, ok := board.IndexOf(board.CurrentPlayer()); ok {
		next = (i + 1) % board.PlayerCount()
	}
	board.SetCurrentPlayer(board.PlayerAt(next))
	board.SetStep(0)
	return nil
}
