package server

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	sendBuffer     = 64
)

// Session is one WebSocket client. Outbound messages go through a buffered
// channel and a single write pump; a client that cannot keep up is dropped.
type Session struct {
	server   *Server
	conn     *websocket.Conn
	logger   *log.Logger
	playerID uint64

	send      chan ServerMessage
	closeOnce sync.Once
	done      chan struct{}

	mu      sync.Mutex
	tableID string
	chair   int
}

func newSession(server *Server, conn *websocket.Conn, playerID uint64, logger *log.Logger) *Session {
	return &Session{
		server:   server,
		conn:     conn,
		playerID: playerID,
		logger:   logger.With("player_id", playerID),
		send:     make(chan ServerMessage, sendBuffer),
		done:     make(chan struct{}),
		chair:    -1,
	}
}

func (s *Session) table() (string, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tableID, s.chair
}

func (s *Session) setTable(tableID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tableID = tableID
	s.chair = -1
}

func (s *Session) setChair(chair int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chair = chair
}

// push queues a message. It never blocks; a full buffer closes the session.
func (s *Session) push(msg ServerMessage) {
	select {
	case s.send <- msg:
	case <-s.done:
	default:
		s.logger.Warn("send buffer full, dropping client")
		s.close()
	}
}

func (s *Session) close() {
	s.closeOnce.Do(func() {
		close(s.done)
		_ = s.conn.Close()
	})
}

// run services the connection until either pump fails.
func (s *Session) run() {
	go s.writePump()
	s.readPump()
}

func (s *Session) readPump() {
	defer func() {
		s.server.dropSession(s)
		s.close()
	}()
	s.conn.SetReadLimit(maxMessageSize)
	_ = s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Debug("read failed", "err", err)
			}
			return
		}
		var msg ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			s.push(ServerMessage{Type: MsgError, Message: "malformed message"})
			continue
		}
		s.server.handleMessage(s, msg)
	}
}

func (s *Session) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		s.close()
	}()

	for {
		select {
		case msg := <-s.send:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteJSON(msg); err != nil {
				s.logger.Debug("write failed", "err", err)
				return
			}
		case <-ticker.C:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-s.done:
			return
		}
	}
}
