package server

import (
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/zucenko/robogrid/model"
)

type GameServer struct {
	GameSessions []*GameSession
	GameRequests chan GameRequest
	Upgrader     *websocket.Upgrader
	Settings     Settings
	Layout       *Layout

	lastGameId int
}

type GameSessionState int

const (
	GS_NEW GameSessionState = iota
	GS_WAIT
	GS_PLAY
	GS_OVER
)

// GameSession owns one board. Only its Loop goroutine touches the board.
type GameSession struct {
	Id             int
	State          GameSessionState
	Board          *model.Board
	Walls          *model.Walls
	Starts         [][2]int
	MaxConnections int
	PlayerSessions []*PlayerSession

	Errors                chan SessionError
	Events                chan PlayerEvent
	PlayerConnectRequests chan PlayerConnectRequest
	SnapshotRequests      chan chan Snapshot
	Done                  chan struct{}

	// dirty is set by board observers and cleared by the next broadcast.
	dirty bool
	// connections counts seats reserved by the GameServer loop, connected
	// or about to connect.
	connections atomic.Int32
}

type PlayerSessionState int

const (
	PS_NEW PlayerSessionState = iota + 1
	PS_PLAY
	PS_OVER
	PS_ERR
)

type PlayerSession struct {
	State       PlayerSessionState
	Id          uuid.UUID
	PlayerId    model.PlayerId
	GameSession *GameSession
	Conn        *websocket.Conn
	GameOver    chan struct{}

	MessagesToSend chan ServerMessage

	DebugInMessages  int
	DebugOutMessages int
	DebugLastMessage time.Time
	DebugLastPing    time.Time
	DebugPings       int
}
