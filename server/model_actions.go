package server

import (
	"encoding/json"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/matryer/way"
	log "github.com/sirupsen/logrus"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/zucenko/robogrid/model"
	"github.com/zucenko/robogrid/observer"
)

func NewGameServer(settings Settings, layout *Layout) *GameServer {
	return &GameServer{
		GameSessions: make([]*GameSession, 0),
		GameRequests: make(chan GameRequest),
		Upgrader:     &websocket.Upgrader{},
		Settings:     settings,
		Layout:       layout,
	}
}

// requestGame asks the server loop for a session and waits for the answer.
func (s *GameServer) requestGame(gameId int) (GameContextAwaiting, bool) {
	timeout := s.Settings.Session.Timeout
	gcas := make(chan GameContextAwaiting, 1)
	select {
	case s.GameRequests <- GameRequest{GameId: gameId, GameContextAwaiting: gcas}:
	case <-time.After(timeout):
		log.Warn("GameRequests TIMEOUTED")
		return GameContextAwaiting{}, false
	}
	select {
	case gca := <-gcas:
		return gca, true
	case <-time.After(timeout):
		log.Warnf("GameContextAwaiting <- TIMEOUTED")
		if gameId == 0 {
			// the loop answers every request it took; give the seat back
			go func() {
				if gca := <-gcas; gca.GameSession != nil {
					gca.GameSession.release()
				}
			}()
		}
		return GameContextAwaiting{}, false
	}
}

func (s *GameServer) HandleHttpCall() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Printf("HandleHttpCall - Conection received")
		timeout := s.Settings.Session.Timeout

		gca, ok := s.requestGame(0)
		if !ok {
			w.WriteHeader(HTTP_TIMEOUT)
			return
		}
		if gca.ResponseCode != GAME_READY {
			w.WriteHeader(gca.ResponseCode.ToHttp())
			return
		}

		con, err := s.Upgrader.Upgrade(w, r, nil)
		if err != nil {
			// Upgrade has already answered the request.
			log.Printf("HandleHttpCall websocket upgrade err %v", err)
			gca.GameSession.release()
			return
		}
		defer con.Close()

		gameOver := make(chan struct{})
		for attempt := 1; !gca.GameSession.connect(con, gameOver, timeout); attempt++ {
			gca.GameSession.release()
			log.Warnf("HandleHttpCall game %d did not take the connection", gca.GameSession.Id)
			if attempt == CONNECT_ATTEMPTS {
				return
			}
			gca, ok = s.requestGame(0)
			if !ok || gca.ResponseCode != GAME_READY {
				return
			}
		}

		log.Info("HandleHttpCall and wait for gameover ")
		<-gameOver
	}
}

// HandleSnapshot answers GET /games/:id with the JSON snapshot of one game.
func (s *GameServer) HandleSnapshot() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.Atoi(way.Param(r.Context(), "id"))
		if err != nil || id <= 0 {
			w.WriteHeader(HTTP_BAD_REQUEST)
			return
		}
		gca, ok := s.requestGame(id)
		if !ok {
			w.WriteHeader(HTTP_TIMEOUT)
			return
		}
		if gca.ResponseCode != GAME_READY {
			w.WriteHeader(gca.ResponseCode.ToHttp())
			return
		}
		snapshot, ok := gca.GameSession.Snapshot(s.Settings.Session.Timeout)
		if !ok {
			w.WriteHeader(HTTP_TIMEOUT)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(snapshot); err != nil {
			log.Warnf("HandleSnapshot encode %v", err)
		}
	}
}

func (s *GameServer) Loop() {
	log.Printf("GameServer.Loop starting")
	for gameReq := range s.GameRequests {
		s.prune()
		gameReq.GameContextAwaiting <- s.find(gameReq.GameId)
	}
}

// prune forgets sessions whose loop has ended.
func (s *GameServer) prune() {
	alive := s.GameSessions[:0]
	for _, gs := range s.GameSessions {
		select {
		case <-gs.Done:
			log.Infof("GameServer forgets game %d", gs.Id)
		default:
			alive = append(alive, gs)
		}
	}
	s.GameSessions = alive
}

func (s *GameServer) find(gameId int) GameContextAwaiting {
	if gameId != 0 {
		for _, gs := range s.GameSessions {
			if gs.Id == gameId {
				return GameContextAwaiting{ResponseCode: GAME_READY, GameSession: gs}
			}
		}
		return GameContextAwaiting{ResponseCode: GAME_NOT_FOUND}
	}
	for _, gs := range s.GameSessions {
		if gs.reserve() {
			return GameContextAwaiting{ResponseCode: GAME_READY, GameSession: gs}
		}
	}
	s.lastGameId++
	gs, err := NewGameSession(s.lastGameId, s.Settings, s.Layout)
	if err != nil {
		log.Errorf("create GameSession %v", err)
		return GameContextAwaiting{ResponseCode: GAME_INVALIDE}
	}
	log.Infof("create GameSession %d", gs.Id)
	gs.reserve()
	go gs.Loop()
	s.GameSessions = append(s.GameSessions, gs)
	return GameContextAwaiting{ResponseCode: GAME_READY, GameSession: gs}
}

func NewGameSession(id int, settings Settings, layout *Layout) (*GameSession, error) {
	board := model.NewBoard(layout.Width, layout.Height, settings.Board.Name)
	if err := board.SetGameId(id); err != nil {
		return nil, err
	}
	if layout.Walls != nil && layout.Walls.Len() > 0 {
		board.SetBlocker(layout.Walls)
	}
	queue := settings.Session.Queue
	if queue < 0 {
		queue = 0
	}
	gs := &GameSession{
		Id:                    id,
		State:                 GS_NEW,
		Board:                 board,
		Walls:                 layout.Walls,
		Starts:                layout.Starts,
		MaxConnections:        settings.Session.MaxConnections,
		PlayerSessions:        make([]*PlayerSession, 0),
		Errors:                make(chan SessionError),
		Events:                make(chan PlayerEvent, queue),
		PlayerConnectRequests: make(chan PlayerConnectRequest),
		SnapshotRequests:      make(chan chan Snapshot),
		Done:                  make(chan struct{}),
	}
	gs.watchBoard()
	return gs, nil
}

// reserve takes a seat for a connection about to be handed over. The seat
// is kept by the connection once accepted, otherwise it must be released.
func (gs *GameSession) reserve() bool {
	select {
	case <-gs.Done:
		return false
	default:
	}
	for {
		n := gs.connections.Load()
		if int(n) >= gs.MaxConnections {
			return false
		}
		if gs.connections.CompareAndSwap(n, n+1) {
			return true
		}
	}
}

func (gs *GameSession) release() {
	gs.connections.Add(-1)
}

// connect hands a reserved connection to the session loop and reports
// whether the loop took it.
func (gs *GameSession) connect(con *websocket.Conn, gameOver chan struct{}, timeout time.Duration) bool {
	accepted := make(chan bool, 1)
	select {
	case gs.PlayerConnectRequests <- PlayerConnectRequest{
		Con:      con,
		GameOver: gameOver,
		Accepted: accepted}:
	case <-gs.Done:
		return false
	case <-time.After(timeout):
		return false
	}
	return <-accepted
}

func (gs *GameSession) markDirty(observer.Subject) {
	gs.dirty = true
}

func (gs *GameSession) watchBoard() {
	dirty := observer.ObserverFunc(gs.markDirty)
	gs.Board.Attach(dirty)
	for x := 0; x < gs.Board.Width(); x++ {
		for y := 0; y < gs.Board.Height(); y++ {
			space := gs.Board.SpaceAt(x, y)
			space.Attach(dirty)
			space.AttachOccupantView(dirty)
		}
	}
}

func (gs *GameSession) watchPlayer(p *model.Player) {
	dirty := observer.ObserverFunc(gs.markDirty)
	p.Attach(dirty)
	for i := 0; i < model.NO_REGISTERS; i++ {
		p.ProgramField(i).Attach(dirty)
	}
}

// Snapshot asks the session loop for the current state.
func (gs *GameSession) Snapshot(timeout time.Duration) (Snapshot, bool) {
	reply := make(chan Snapshot, 1)
	select {
	case gs.SnapshotRequests <- reply:
	case <-gs.Done:
		return Snapshot{}, false
	case <-time.After(timeout):
		return Snapshot{}, false
	}
	return <-reply, true
}

// Loop is the only goroutine that mutates the board of gs. It ends when
// the last connection is gone.
func (gs *GameSession) Loop() {
	log.Infof("GameSession.Loop start game %d", gs.Id)
	defer close(gs.Done)
	for gs.State != GS_OVER {
		select {
		case pcr := <-gs.PlayerConnectRequests:
			if len(gs.PlayerSessions) >= gs.MaxConnections {
				log.Warnf("game %d is full", gs.Id)
				pcr.Accepted <- false
				continue
			}
			ps := gs.addPlayer(pcr.Con, pcr.GameOver)
			pcr.Accepted <- true
			ps.MessagesToSend <- gs.message(ps, "")
			ps.State = PS_PLAY
		case se := <-gs.Errors:
			gs.dropPlayer(se.Session, se.Err)
		case reply := <-gs.SnapshotRequests:
			reply <- MakeSnapshot(gs.Board, gs.Walls)
		case pe := <-gs.Events:
			ps := gs.playerSession(pe.Session)
			if ps == nil {
				log.Warnf("GameSession.Loop event of unknown session %v", pe.Session)
				continue
			}
			if err := gs.Apply(ps, pe.Message); err != nil {
				log.Infof("game %d %s: %v", gs.Id, pe.Message.Command, err)
				gs.send(ps, gs.message(ps, err.Error()))
			}
		}
		gs.broadcast()
	}
	log.Infof("GameSession.Loop over game %d", gs.Id)
}

func (gs *GameSession) message(ps *PlayerSession, errorText string) ServerMessage {
	snapshot := MakeSnapshot(gs.Board, gs.Walls)
	return ServerMessage{You: int32(ps.PlayerId), Snapshot: &snapshot, Error: errorText}
}

// broadcast sends a snapshot to everyone if observers saw a change.
func (gs *GameSession) broadcast() {
	if !gs.dirty {
		return
	}
	gs.dirty = false
	for _, ps := range gs.PlayerSessions {
		gs.send(ps, gs.message(ps, ""))
	}
}

// send never blocks the session loop; a client too slow to drain its
// queue misses frames.
func (gs *GameSession) send(ps *PlayerSession, m ServerMessage) {
	select {
	case ps.MessagesToSend <- m:
	default:
		log.Warnf("game %d session %v MessagesToSend FULL", gs.Id, ps.Id)
	}
}

func (gs *GameSession) playerSession(id uuid.UUID) *PlayerSession {
	for _, ps := range gs.PlayerSessions {
		if ps.Id == id {
			return ps
		}
	}
	return nil
}

func (gs *GameSession) addPlayer(
	conn *websocket.Conn,
	gameOver chan struct{},
) *PlayerSession {
	ps := &PlayerSession{
		State:          PS_NEW,
		Id:             uuid.New(),
		PlayerId:       model.NO_PLAYER,
		GameSession:    gs,
		Conn:           conn,
		GameOver:       gameOver,
		MessagesToSend: make(chan ServerMessage, 10),
	}
	log.Printf("GameSession.addPlayer %v", ps.Id)
	if conn != nil {
		conn.SetPingHandler(
			func(message string) error {
				err := conn.WriteControl(websocket.PongMessage, []byte(message), time.Now().Add(time.Second))
				ps.DebugLastPing = time.Now()
				ps.DebugPings++
				if err == websocket.ErrCloseSent {
					return nil
				} else if e, ok := err.(net.Error); ok && e.Timeout() {
					return nil
				}
				return err
			})
		go ps.LoopChannelRead()
		go ps.LoopChannelWrite()
	}
	gs.PlayerSessions = append(gs.PlayerSessions, ps)
	if len(gs.PlayerSessions) < gs.MaxConnections {
		gs.State = GS_WAIT
	} else {
		gs.State = GS_PLAY
	}
	log.Infof("game %d %s with %d connections", gs.Id, gs.State.Name(), len(gs.PlayerSessions))
	return ps
}

// dropPlayer closes one connection and frees its seat. A nil err or a
// normal close ends the session PS_OVER, anything else PS_ERR. The player
// stays on the board, there is no way to take a player off the roster.
func (gs *GameSession) dropPlayer(id uuid.UUID, err error) {
	for i, ps := range gs.PlayerSessions {
		if ps.Id != id {
			continue
		}
		ps.State = PS_OVER
		if err != nil && !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
			ps.State = PS_ERR
		}
		log.Infof("game %d drops session %v %s: %v", gs.Id, id, ps.State.Name(), err)
		close(ps.MessagesToSend)
		if ps.GameOver != nil {
			close(ps.GameOver)
		}
		gs.PlayerSessions = append(gs.PlayerSessions[:i], gs.PlayerSessions[i+1:]...)
		gs.release()
		break
	}
	if len(gs.PlayerSessions) == 0 {
		gs.State = GS_OVER
	} else if gs.State == GS_PLAY {
		gs.State = GS_WAIT
	}
	log.Infof("game %d %s with %d connections", gs.Id, gs.State.Name(), len(gs.PlayerSessions))
}

func (ps *PlayerSession) fail(err error) {
	select {
	case ps.GameSession.Errors <- SessionError{Session: ps.Id, Err: err}:
	case <-ps.GameSession.Done:
	}
}

func (ps *PlayerSession) LoopChannelRead() {
	log.Printf("LoopChannelRead STARTED %v", ps.Id)
	for {
		_, r, err := ps.Conn.NextReader()
		if err != nil {
			log.Printf("LoopChannelRead err reading message from Conn %v", err)
			ps.fail(err)
			break
		}
		cm := ClientMessage{}
		if err := msgpack.NewDecoder(r).Decode(&cm); err != nil {
			log.Warnf("LoopChannelRead cant decode %v", err)
			ps.fail(err)
			break
		}
		log.Debugf("LoopChannelRead %v %+v", ps.Id, cm)
		ps.DebugLastMessage = time.Now()
		ps.DebugInMessages++

		select {
		case ps.GameSession.Events <- PlayerEvent{Session: ps.Id, Message: cm}:
		case <-ps.GameSession.Done:
			return
		default:
			log.Warnf("Dropping Data red from socket but.. GameSession.Events FULL")
		}
	}
	log.Printf("LoopChannelRead ENDED %v", ps.Id)
}

// LoopChannelWrite ends when the session closes MessagesToSend.
func (ps *PlayerSession) LoopChannelWrite() {
	log.Printf("PlayerSession.LoopChannelWrite STARTED %v", ps.Id)
	for mes := range ps.MessagesToSend {
		w, err := ps.Conn.NextWriter(websocket.BinaryMessage)
		if err != nil {
			log.Warnf("PlayerSession.LoopChannelWrite cant get writer %v", err)
			ps.fail(err)
			break
		}
		if err := msgpack.NewEncoder(w).Encode(mes); err != nil {
			log.Warnf("PlayerSession.LoopChannelWrite cant encode %v", err)
			ps.fail(err)
			break
		}
		if err := w.Close(); err != nil {
			log.Warnf("PlayerSession.LoopChannelWrite cant flush %v", err)
			ps.fail(err)
			break
		}
		ps.DebugOutMessages++
	}
	log.Printf("LoopChannelWrite ENDED %v", ps.Id)
}
