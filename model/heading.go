package model

import "fmt"

type Heading int

const (
	SOUTH Heading = iota
	WEST
	NORTH
	EAST
)

const HEADINGS = 4

func (h Heading) Valid() bool {
	return h >= SOUTH && h <= EAST
}

// Next turns clockwise.
func (h Heading) Next() Heading {
	return (h + 1) % HEADINGS
}

func (h Heading) Prev() Heading {
	return (h + HEADINGS - 1) % HEADINGS
}

func (h Heading) Opposite() Heading {
	return (h + 2) % HEADINGS
}

// delta of one step in heading h; y grows towards SOUTH.
func (h Heading) delta() (dx, dy int) {
	switch h {
	case SOUTH:
		return 0, 1
	case WEST:
		return -1, 0
	case NORTH:
		return 0, -1
	case EAST:
		return 1, 0
	default:
		panic(h)
	}
}

func (h Heading) Name() string {
	switch h {
	case SOUTH:
		return "SOUTH"
	case WEST:
		return "WEST"
	case NORTH:
		return "NORTH"
	case EAST:
		return "EAST"
	default:
		return fmt.Sprintf("n/a:%d", h)
	}
}

func ParseHeading(s string) (Heading, bool) {
	for h := SOUTH; h <= EAST; h++ {
		if h.Name() == s {
			return h, true
		}
	}
	return SOUTH, false
}

type Phase int

const (
	INITIALISATION Phase = iota
	PROGRAMMING
	ACTIVATION
	PLAYER_INTERACTION
)

func (p Phase) Name() string {
	switch p {
	case INITIALISATION:
		return "INITIALISATION"
	case PROGRAMMING:
		return "PROGRAMMING"
	case ACTIVATION:
		return "ACTIVATION"
	case PLAYER_INTERACTION:
		return "PLAYER_INTERACTION"
	default:
		return fmt.Sprintf("n/a:%d", p)
	}
}

func ParsePhase(s string) (Phase, bool) {
	for p := INITIALISATION; p <= PLAYER_INTERACTION; p++ {
		if p.Name() == s {
			return p, true
		}
	}
	return INITIALISATION, false
}
