package server

import (
	"sort"

	"github.com/zucenko/robogrid/model"
)

const (
	CMD_JOIN      = "join"
	CMD_PLACE     = "place"
	CMD_TURN      = "turn"
	CMD_STEP      = "step"
	CMD_PHASE     = "phase"
	CMD_NEXT      = "next"
	CMD_STEP_MODE = "stepmode"
	CMD_PROGRAM   = "program"
)

// ClientMessage is one command sent by a connected client.
type ClientMessage struct {
	Command  string `msgpack:"command"`
	Name     string `msgpack:"name,omitempty"`
	Color    string `msgpack:"color,omitempty"`
	X        int    `msgpack:"x"`
	Y        int    `msgpack:"y"`
	Heading  string `msgpack:"heading,omitempty"`
	Phase    string `msgpack:"phase,omitempty"`
	StepMode bool   `msgpack:"step_mode"`
	Register int    `msgpack:"register"`
	Card     string `msgpack:"card,omitempty"`
}

type ServerMessage struct {
	You      int32     `msgpack:"you"`
	Snapshot *Snapshot `msgpack:"snapshot,omitempty"`
	Error    string    `msgpack:"error,omitempty"`
}

type Snapshot struct {
	GameId   int          `msgpack:"game_id" json:"game_id"`
	Name     string       `msgpack:"name" json:"name"`
	Width    int          `msgpack:"width" json:"width"`
	Height   int          `msgpack:"height" json:"height"`
	Phase    string       `msgpack:"phase" json:"phase"`
	Step     int          `msgpack:"step" json:"step"`
	StepMode bool         `msgpack:"step_mode" json:"step_mode"`
	Moves    int          `msgpack:"moves" json:"moves"`
	Current  int32        `msgpack:"current" json:"current"`
	Status   string       `msgpack:"status" json:"status"`
	Players  []PlayerView `msgpack:"players" json:"players"`
	Walls    []WallView   `msgpack:"walls" json:"walls"`
}

type PlayerView struct {
	Id      int32    `msgpack:"id" json:"id"`
	Name    string   `msgpack:"name" json:"name"`
	Color   string   `msgpack:"color" json:"color"`
	Heading string   `msgpack:"heading" json:"heading"`
	Placed  bool     `msgpack:"placed" json:"placed"`
	X       int      `msgpack:"x" json:"x"`
	Y       int      `msgpack:"y" json:"y"`
	Program []string `msgpack:"program" json:"program"`
}

type WallView struct {
	X       int    `msgpack:"x" json:"x"`
	Y       int    `msgpack:"y" json:"y"`
	Heading string `msgpack:"heading" json:"heading"`
}

// MakeSnapshot reads the board and walls into a value safe to hand to
// other goroutines. Hidden program cards are sent as empty strings.
func MakeSnapshot(b *model.Board, walls *model.Walls) Snapshot {
	gameId, _ := b.GameId()
	current := int32(model.NO_PLAYER)
	if p := b.CurrentPlayer(); p != nil {
		current = int32(p.Id())
	}
	snapshot := Snapshot{
		GameId:   gameId,
		Name:     b.Name(),
		Width:    b.Width(),
		Height:   b.Height(),
		Phase:    b.Phase().Name(),
		Step:     b.Step(),
		StepMode: b.StepMode(),
		Moves:    b.Moves(),
		Current:  current,
		Status:   b.StatusMessage(),
		Players:  make([]PlayerView, 0, b.PlayerCount()),
		Walls:    make([]WallView, 0),
	}
	for i := 0; i < b.PlayerCount(); i++ {
		snapshot.Players = append(snapshot.Players, playerView(b.PlayerAt(i)))
	}
	if walls != nil {
		walls.Each(func(x, y int, h model.Heading) {
			snapshot.Walls = append(snapshot.Walls, WallView{X: x, Y: y, Heading: h.Name()})
		})
		sort.Slice(snapshot.Walls, func(i, j int) bool {
			a, c := snapshot.Walls[i], snapshot.Walls[j]
			if a.Y != c.Y {
				return a.Y < c.Y
			}
			if a.X != c.X {
				return a.X < c.X
			}
			return a.Heading < c.Heading
		})
	}
	return snapshot
}

func playerView(p *model.Player) PlayerView {
	v := PlayerView{
		Id:      int32(p.Id()),
		Name:    p.Name(),
		Color:   p.Color(),
		Heading: p.Heading().Name(),
		Program: make([]string, model.NO_REGISTERS),
	}
	if s := p.Space(); s != nil {
		v.Placed = true
		v.X, v.Y = s.X(), s.Y()
	}
	for i := range v.Program {
		f := p.ProgramField(i)
		if card, ok := f.Card().(string); ok && f.Visible() {
			v.Program[i] = card
		}
	}
	return v
}
