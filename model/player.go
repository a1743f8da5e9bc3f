package model

import "github.com/zucenko/robogrid/observer"

func (p *Player) Attach(o observer.Observer) (detach func()) {
	return p.notifier.Attach(o)
}

func (p *Player) notifyChange() {
	p.notifier.NotifyChange(p)
	if s := p.Space(); s != nil {
		s.playerChanged()
	}
}

func (p *Player) Board() *Board {
	return p.board
}

func (p *Player) Id() PlayerId {
	return p.id
}

func (p *Player) Name() string {
	return p.name
}

// SetName ignores the empty name.
func (p *Player) SetName(name string) {
	if name != "" && name != p.name {
		p.name = name
		p.notifyChange()
	}
}

func (p *Player) Color() string {
	return p.color
}

func (p *Player) SetColor(color string) {
	if color != p.color {
		p.color = color
		p.notifyChange()
	}
}

func (p *Player) Heading() Heading {
	return p.heading
}

func (p *Player) SetHeading(h Heading) {
	if h.Valid() && h != p.heading {
		p.heading = h
		p.notifyChange()
	}
}

// Space is where the player stands, nil when it is off the board.
func (p *Player) Space() *Space {
	return p.board.spaceByIndex(p.at)
}

// SetSpace moves the player to s, or off the board when s is nil. Spaces of
// another board are ignored.
//
// An occupied s is taken over: its previous occupant keeps pointing at s
// until it is moved itself, and moving it then leaves s to the new occupant.
// This is narrower than plain last-writer-wins, where moving the stale
// player would clear s and evict the new occupant as well.
func (p *Player) SetSpace(s *Space) {
	old := p.Space()
	if s == old {
		return
	}
	if s != nil && s.board != p.board {
		return
	}
	if old != nil && old.occupant == p.id {
		old.setOccupant(NO_PLAYER)
	}
	if s != nil {
		p.at = s.index()
		s.setOccupant(p.id)
	} else {
		p.at = noSpace
	}
	p.notifier.NotifyChange(p)
}

// ProgramField panics when i is not in [0, NO_REGISTERS).
func (p *Player) ProgramField(i int) *CardField {
	return p.program[i]
}

// CardField panics when i is not in [0, NO_CARDS).
func (p *Player) CardField(i int) *CardField {
	return p.cards[i]
}
