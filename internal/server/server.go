// Package server exposes tables over WebSocket: JSON commands in, redacted
// state pushes out. It is a thin protocol boundary; all game semantics live
// in the engine and the table actor.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"

	"github.com/moonhole/holdemlite/internal/game"
	"github.com/moonhole/holdemlite/internal/npc"
	"github.com/moonhole/holdemlite/internal/randutil"
	"github.com/moonhole/holdemlite/internal/table"
)

// Server accepts WebSocket clients and routes their commands to tables.
type Server struct {
	cfg     *Config
	logger  *log.Logger
	manager *table.Manager

	upgrader websocket.Upgrader
	httpSrv  *http.Server
	ln       net.Listener

	nextPlayerID atomic.Uint64

	mu         sync.RWMutex
	sessions   map[*Session]bool
	tableIDs   map[string]string // config name -> table ID
	tableNames map[string]string // table ID -> config name
	lastRound  map[string]int
}

// New builds the server and its table manager. Call Setup to create the
// configured tables, then Listen and Run.
func New(cfg *Config, clock quartz.Clock, logger *log.Logger) *Server {
	s := &Server{
		cfg:    cfg,
		logger: logger.WithPrefix("server"),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		sessions:   make(map[*Session]bool),
		tableIDs:   make(map[string]string),
		tableNames: make(map[string]string),
		lastRound:  make(map[string]int),
	}
	s.manager = table.NewManager(clock, logger)
	return s
}

// Setup creates the configured tables and seats their NPCs.
func (s *Server) Setup() error {
	for _, tc := range s.cfg.Tables {
		tcfg := table.Config{
			Game: game.Config{
				MaxPlayers: tc.MaxPlayers,
				MinPlayers: tc.MinPlayers,
				SmallBlind: tc.SmallBlind,
				BigBlind:   tc.BigBlind,
				Ante:       tc.Ante,
				Seed:       tc.Seed,
			},
			ActionTimeout: tc.ActionTimeout(),
			AutoDeal:      tc.AutoDeal,
			AutoDealDelay: tc.AutoDealDelay(),
		}
		a, err := s.manager.Create(tcfg, s.onTableUpdate)
		if err != nil {
			return fmt.Errorf("table %s: %w", tc.Name, err)
		}
		s.mu.Lock()
		s.tableIDs[tc.Name] = a.ID
		s.tableNames[a.ID] = tc.Name
		s.mu.Unlock()

		if err := s.seatNPCs(a, tc); err != nil {
			return err
		}
		if tc.AutoDeal {
			// deal as soon as the lineup allows it
			if err := a.StartHand(); err != nil && !errors.Is(err, game.ErrNotEnough) {
				return fmt.Errorf("table %s: %w", tc.Name, err)
			}
		}
	}
	return nil
}

func (s *Server) seatNPCs(a *table.Actor, tc TableConfig) error {
	for i, nc := range s.cfg.NPCsForTable(tc.Name) {
		decider, err := npc.ForName(nc.Strategy, randutil.Derive(tc.Seed, uint64(i)))
		if err != nil {
			return fmt.Errorf("npc %s: %w", nc.Name, err)
		}
		id := s.nextPlayerID.Add(1)
		seated := false
		for chair := 0; chair < tc.MaxPlayers && !seated; chair++ {
			switch err := a.SitDown(chair, id, nc.BuyIn, decider); {
			case err == nil:
				seated = true
			case errors.Is(err, game.ErrChairOccupied):
			default:
				return fmt.Errorf("npc %s: %w", nc.Name, err)
			}
		}
		if !seated {
			return fmt.Errorf("npc %s: table %s is full", nc.Name, tc.Name)
		}
		s.logger.Info("npc seated", "npc", nc.Name, "strategy", nc.Strategy, "table", tc.Name)
	}
	return nil
}

// Listen binds the configured address. Split from Run so callers learn the
// port before serving.
func (s *Server) Listen() error {
	ln, err := net.Listen("tcp", s.cfg.ListenAddress())
	if err != nil {
		return err
	}
	s.ln = ln
	return nil
}

// Addr returns the bound address. Only valid after Listen.
func (s *Server) Addr() string {
	if s.ln == nil {
		return s.cfg.ListenAddress()
	}
	return s.ln.Addr().String()
}

// Run serves until the context is canceled, then shuts everything down.
func (s *Server) Run(ctx context.Context) error {
	if s.ln == nil {
		if err := s.Listen(); err != nil {
			return err
		}
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/health", s.handleHealth)
	s.httpSrv = &http.Server{Handler: mux}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("listening", "addr", s.Addr())
		if err := s.httpSrv.Serve(s.ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		s.logger.Info("shutting down")
		shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.httpSrv.Shutdown(shutCtx)

		s.mu.Lock()
		for sess := range s.sessions {
			sess.close()
			delete(s.sessions, sess)
		}
		s.mu.Unlock()
		s.manager.Close()
		return nil
	})
	return g.Wait()
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("upgrade failed", "err", err)
		return
	}
	sess := newSession(s, conn, s.nextPlayerID.Add(1), s.logger)

	s.mu.Lock()
	s.sessions[sess] = true
	total := len(s.sessions)
	s.mu.Unlock()
	s.logger.Info("client connected", "player_id", sess.playerID, "total", total)

	sess.push(ServerMessage{Type: MsgWelcome, PlayerID: sess.playerID})
	go sess.run()
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprint(w, "ok")
}

// dropSession unregisters a session and stands its player up.
func (s *Server) dropSession(sess *Session) {
	s.mu.Lock()
	if _, ok := s.sessions[sess]; !ok {
		s.mu.Unlock()
		return
	}
	delete(s.sessions, sess)
	total := len(s.sessions)
	s.mu.Unlock()

	tableID, chair := sess.table()
	if tableID != "" && chair >= 0 {
		if a, ok := s.manager.Get(tableID); ok {
			if err := a.StandUp(chair); err != nil {
				// mid-hand departures fold out via the action timeout
				s.logger.Debug("stand up on disconnect", "chair", chair, "err", err)
			}
		}
	}
	s.logger.Info("client disconnected", "player_id", sess.playerID, "total", total)
}

// handleMessage dispatches one client command. It runs on the session's
// read goroutine.
func (s *Server) handleMessage(sess *Session, msg ClientMessage) {
	var err error
	switch msg.Type {
	case MsgJoin:
		err = s.handleJoin(sess, msg)
	case MsgTables:
		sess.push(ServerMessage{Type: MsgTableList, Tables: s.summaries()})
	case MsgSit:
		err = s.handleSit(sess, msg)
	case MsgStand:
		err = s.withSeat(sess, func(a *table.Actor, chair int) error {
			if err := a.StandUp(chair); err != nil {
				return err
			}
			sess.setChair(-1)
			return nil
		})
	case MsgAct:
		action, ok := game.ParseAction(msg.Action)
		if !ok {
			err = fmt.Errorf("unknown action %q", msg.Action)
			break
		}
		err = s.withSeat(sess, func(a *table.Actor, chair int) error {
			return a.Act(chair, action, msg.Amount)
		})
	case MsgStart:
		err = s.withSeat(sess, func(a *table.Actor, _ int) error {
			return a.StartHand()
		})
	default:
		err = fmt.Errorf("unknown message type %q", msg.Type)
	}
	if err != nil {
		sess.push(ServerMessage{Type: MsgError, Message: err.Error()})
	}
}

// resolveTable accepts either a table ID or a configured table name.
func (s *Server) resolveTable(ref string) (*table.Actor, bool) {
	s.mu.RLock()
	if id, ok := s.tableIDs[ref]; ok {
		ref = id
	}
	s.mu.RUnlock()
	return s.manager.Get(ref)
}

func (s *Server) handleJoin(sess *Session, msg ClientMessage) error {
	a, ok := s.resolveTable(msg.TableID)
	if !ok {
		return fmt.Errorf("no such table %q", msg.TableID)
	}
	sess.setTable(a.ID)
	snap, err := a.Snapshot()
	if err != nil {
		return err
	}
	sess.push(ServerMessage{
		Type:    MsgJoined,
		TableID: a.ID,
		State:   buildState(snap, sess.playerID),
	})
	return nil
}

func (s *Server) handleSit(sess *Session, msg ClientMessage) error {
	tableID, _ := sess.table()
	if tableID == "" {
		return errors.New("join a table first")
	}
	a, ok := s.manager.Get(tableID)
	if !ok {
		return errors.New("table is gone")
	}
	buyIn := msg.BuyIn
	if buyIn <= 0 {
		buyIn = s.defaultBuyIn(tableID)
	}
	if err := a.SitDown(msg.Chair, sess.playerID, buyIn, nil); err != nil {
		return err
	}
	sess.setChair(msg.Chair)

	if a.Config().AutoDeal {
		if err := a.StartHand(); err != nil &&
			!errors.Is(err, game.ErrNotEnough) && !errors.Is(err, game.ErrHandInProgress) {
			return err
		}
	}
	return nil
}

func (s *Server) defaultBuyIn(tableID string) int64 {
	s.mu.RLock()
	name := s.tableNames[tableID]
	s.mu.RUnlock()
	for _, tc := range s.cfg.Tables {
		if tc.Name == name {
			return tc.BuyIn
		}
	}
	return 0
}

func (s *Server) withSeat(sess *Session, fn func(a *table.Actor, chair int) error) error {
	tableID, chair := sess.table()
	if tableID == "" {
		return errors.New("join a table first")
	}
	if chair < 0 {
		return errors.New("sit down first")
	}
	a, ok := s.manager.Get(tableID)
	if !ok {
		return errors.New("table is gone")
	}
	return fn(a, chair)
}

func (s *Server) summaries() []TableSummary {
	var out []TableSummary
	for _, a := range s.manager.List() {
		snap, err := a.Snapshot()
		if err != nil {
			continue
		}
		s.mu.RLock()
		name := s.tableNames[a.ID]
		s.mu.RUnlock()
		cfg := a.Config().Game
		out = append(out, TableSummary{
			ID:         a.ID,
			Name:       name,
			SmallBlind: cfg.SmallBlind,
			BigBlind:   cfg.BigBlind,
			MaxPlayers: cfg.MaxPlayers,
			Seated:     len(snap.Players),
		})
	}
	return out
}

// onTableUpdate fans a table update out to every session watching that
// table, redacted per recipient. It runs on the table's actor goroutine, so
// it must not block; Session.push drops slow clients instead.
func (s *Server) onTableUpdate(u table.Update) {
	typ := MsgState
	if u.Settlement != nil {
		typ = MsgHandEnd
	} else {
		s.mu.Lock()
		if u.Snapshot.Round > 0 && u.Snapshot.Round != s.lastRound[u.TableID] {
			typ = MsgHandStart
		}
		s.lastRound[u.TableID] = u.Snapshot.Round
		s.mu.Unlock()
	}

	var result *HandResult
	if u.Settlement != nil {
		result = buildResult(u.Settlement)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	for sess := range s.sessions {
		tableID, _ := sess.table()
		if tableID != u.TableID {
			continue
		}
		sess.push(ServerMessage{
			Type:    typ,
			TableID: u.TableID,
			State:   buildState(u.Snapshot, sess.playerID),
			Result:  result,
		})
	}
}
