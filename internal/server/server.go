package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/cardroom/holdem/internal/room"
)

// Server accepts WebSocket clients and routes room events back out to
// them. It implements room.Messenger: the manager broadcasts through
// the connection registry.
type Server struct {
	addr        string
	upgrader    websocket.Upgrader
	connections map[*Connection]bool
	register    chan *Connection
	unregister  chan *Connection
	logger      *log.Logger
	mu          sync.RWMutex
	ctx         context.Context
	cancel      context.CancelFunc
	rooms       *room.Manager
	httpServer  *http.Server
}

// NewServer creates a WebSocket server bound to addr.
func NewServer(addr string, logger *log.Logger) *Server {
	ctx, cancel := context.WithCancel(context.Background())
	return &Server{
		addr: addr,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		connections: make(map[*Connection]bool),
		register:    make(chan *Connection),
		unregister:  make(chan *Connection),
		logger:      logger.WithPrefix("server"),
		ctx:         ctx,
		cancel:      cancel,
	}
}

// SetRoomManager wires the manager in. Must be called before Start.
func (s *Server) SetRoomManager(rooms *room.Manager) {
	s.rooms = rooms
}

// Start runs the server. It blocks until the listener fails or Stop is
// called.
func (s *Server) Start() error {
	go s.run()

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/health", s.handleHealth)

	s.httpServer = &http.Server{Addr: s.addr, Handler: mux}

	s.logger.Info("starting websocket server", "addr", s.addr)
	err := s.httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Stop shuts the listener down and closes every connection.
func (s *Server) Stop() error {
	s.cancel()

	s.mu.Lock()
	for conn := range s.connections {
		_ = conn.Close()
	}
	s.mu.Unlock()

	if s.httpServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}

func (s *Server) run() {
	for {
		select {
		case conn := <-s.register:
			s.mu.Lock()
			s.connections[conn] = true
			total := len(s.connections)
			s.mu.Unlock()
			s.logger.Info("client connected", "total", total)

		case conn := <-s.unregister:
			s.mu.Lock()
			_, ok := s.connections[conn]
			if ok {
				delete(s.connections, conn)
			}
			total := len(s.connections)
			s.mu.Unlock()

			if ok {
				// A dropped client leaves its room: mid-hand this folds
				// the seat and cashes the stack out.
				if identity := conn.Identity(); identity != "" && s.rooms != nil {
					if err := s.rooms.Leave(identity); err == nil {
						s.logger.Info("removed disconnected player", "identity", identity)
					}
				}
				_ = conn.Close()
			}
			s.logger.Info("client disconnected", "total", total)

		case <-s.ctx.Done():
			return
		}
	}
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("failed to upgrade connection", "error", err)
		return
	}

	client := NewConnection(conn, s.logger, s.rooms)
	s.register <- client
	client.Start()

	go s.awaitUnregister(client)
}

// awaitUnregister hands the connection back to the registry loop once it
// closes. The registry loop stops at shutdown, so give up then instead
// of blocking forever.
func (s *Server) awaitUnregister(client *Connection) {
	<-client.ctx.Done()
	select {
	case s.unregister <- client:
	case <-s.ctx.Done():
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprintf(w, "OK")
}

// Broadcast implements room.Messenger: it delivers an event to every
// connection watching the room.
func (s *Server) Broadcast(roomID, event string, payload any) {
	msg, err := NewMessage(MessageTypeEvent, EventData{RoomID: roomID, Event: event, Data: payload})
	if err != nil {
		s.logger.Error("failed to create event message", "error", err, "event", event)
		return
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for conn := range s.connections {
		if conn.Room() == roomID {
			if err := conn.SendMessage(msg); err == nil {
				count++
			}
		}
	}
	s.logger.Debug("broadcast", "room", roomID, "event", event, "recipients", count)
}

// Notify implements room.Messenger: it delivers an event to one
// identity.
func (s *Server) Notify(identity, event string, payload any) {
	msg, err := NewMessage(MessageTypeEvent, EventData{Event: event, Data: payload})
	if err != nil {
		s.logger.Error("failed to create event message", "error", err, "event", event)
		return
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	for conn := range s.connections {
		if conn.Identity() == identity {
			_ = conn.SendMessage(msg)
			return
		}
	}
}
