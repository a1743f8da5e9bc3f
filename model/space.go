package model

import "github.com/zucenko/robogrid/observer"

// Attach registers o for occupancy changes of s.
func (s *Space) Attach(o observer.Observer) (detach func()) {
	return s.notifier.Attach(o)
}

// AttachOccupantView registers o for changes of the occupant's name, color
// or heading. The occupant did not move when these fire.
func (s *Space) AttachOccupantView(o observer.Observer) (detach func()) {
	return s.occupantView.Attach(o)
}

func (s *Space) Board() *Board {
	return s.board
}

func (s *Space) X() int {
	return s.x
}

func (s *Space) Y() int {
	return s.y
}

func (s *Space) index() int {
	return s.x*s.board.height + s.y
}

// Player is the occupant, nil for an empty space.
func (s *Space) Player() *Player {
	if s.occupant == NO_PLAYER {
		return nil
	}
	return s.board.arena[s.occupant]
}

func (s *Space) Occupied() bool {
	return s.occupant != NO_PLAYER
}

// setOccupant is only called by Player.SetSpace, which keeps both sides in step.
func (s *Space) setOccupant(id PlayerId) {
	if id == s.occupant {
		return
	}
	s.occupant = id
	s.notifier.NotifyChange(s)
}

func (s *Space) playerChanged() {
	s.occupantView.NotifyChange(s)
}
