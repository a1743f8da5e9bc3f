package model

// Blocker decides whether a step out of a space in a heading is obstructed.
type Blocker interface {
	Blocked(from *Space, h Heading) bool
}

type BlockerFunc func(from *Space, h Heading) bool

func (f BlockerFunc) Blocked(from *Space, h Heading) bool {
	return f(from, h)
}

type edge struct {
	x, y int
	h    Heading
}

// Walls is a set of blocked edges between neighboring spaces of a
// width x height board. A wall blocks both ways, so a wall EAST of (x, y)
// is the same wall as WEST of (x+1, y), wrapping at the board border.
type Walls struct {
	width, height int
	edges         map[edge]struct{}
}

func NewWalls(width, height int) *Walls {
	return &Walls{width: width, height: height, edges: make(map[edge]struct{})}
}

// key stores every edge as the SOUTH or EAST side of its space.
func (w *Walls) key(x, y int, h Heading) edge {
	switch h {
	case NORTH:
		return edge{x, (y + w.height - 1) % w.height, SOUTH}
	case WEST:
		return edge{(x + w.width - 1) % w.width, y, EAST}
	default:
		return edge{x, y, h}
	}
}

func (w *Walls) Add(x, y int, h Heading) {
	w.edges[w.key(x, y, h)] = struct{}{}
}

func (w *Walls) Remove(x, y int, h Heading) {
	delete(w.edges, w.key(x, y, h))
}

func (w *Walls) Has(x, y int, h Heading) bool {
	_, found := w.edges[w.key(x, y, h)]
	return found
}

func (w *Walls) Len() int {
	return len(w.edges)
}

func (w *Walls) Blocked(from *Space, h Heading) bool {
	return w.Has(from.x, from.y, h)
}

// Each visits every wall once, as the SOUTH or EAST edge of a space.
func (w *Walls) Each(f func(x, y int, h Heading)) {
	for e := range w.edges {
		f(e.x, e.y, e.h)
	}
}
