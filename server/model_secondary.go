package server

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const HTTP_SUCCESS = 200
const HTTP_BAD_REQUEST = 400
const HTTP_NOT_FOUND = 404
const HTTP_TIMEOUT = 408

type ResponseCode int

const (
	GAME_READY ResponseCode = iota
	GAME_NOT_FOUND
	GAME_INVALIDE
)

func (h ResponseCode) ToHttp() int {
	switch h {
	case GAME_READY:
		return HTTP_SUCCESS
	case GAME_NOT_FOUND:
		return HTTP_NOT_FOUND
	case GAME_INVALIDE:
		return HTTP_BAD_REQUEST
	default:
		panic(h)
	}
}

func (gss GameSessionState) Name() string {
	switch gss {
	case GS_NEW:
		return "GS_NEW"
	case GS_WAIT:
		return "GS_WAIT"
	case GS_PLAY:
		return "GS_PLAY"
	case GS_OVER:
		return "GS_OVER"
	default:
		return fmt.Sprintf("n/a:%d", gss)
	}
}

func (ps PlayerSessionState) Name() string {
	switch ps {
	case PS_NEW:
		return "NEW"
	case PS_PLAY:
		return "PLAY"
	case PS_OVER:
		return "OVER"
	case PS_ERR:
		return "ERR"
	default:
		return "N/A"
	}
}

type GameContextAwaiting struct {
	ResponseCode ResponseCode
	GameSession  *GameSession
}

// GameRequest asks the GameServer loop for a session. GameId 0 means any
// session with room for one more connection.
type GameRequest struct {
	GameId              int
	GameContextAwaiting chan GameContextAwaiting
}

// CONNECT_ATTEMPTS bounds how many sessions one upgraded connection is
// offered to before it is closed.
const CONNECT_ATTEMPTS = 3

type PlayerConnectRequest struct {
	Con      *websocket.Conn
	GameOver chan struct{}
	// Accepted gets exactly one answer from the session loop.
	Accepted chan bool
}

// SessionError ends one player session; Err is what broke its connection.
type SessionError struct {
	Session uuid.UUID
	Err     error
}

type PlayerEvent struct {
	Session uuid.UUID
	Message ClientMessage
}
