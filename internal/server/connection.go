package server

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/cardroom/holdem/internal/game"
	"github.com/cardroom/holdem/internal/room"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 8192
)

var ErrConnectionClosed = websocket.ErrCloseSent

// Connection wraps one WebSocket client.
type Connection struct {
	conn      *websocket.Conn
	send      chan *Message
	identity  string
	roomID    string
	logger    *log.Logger
	ctx       context.Context
	cancel    context.CancelFunc
	mu        sync.RWMutex
	closeOnce sync.Once
	rooms     *room.Manager
}

// NewConnection creates a connection wrapper around a raw socket.
func NewConnection(conn *websocket.Conn, logger *log.Logger, rooms *room.Manager) *Connection {
	ctx, cancel := context.WithCancel(context.Background())
	return &Connection{
		conn:   conn,
		send:   make(chan *Message, 256),
		logger: logger.WithPrefix("conn"),
		ctx:    ctx,
		cancel: cancel,
		rooms:  rooms,
	}
}

// Start begins the read and write pumps.
func (c *Connection) Start() {
	go c.writePump()
	go c.readPump()
}

// Close tears the connection down. Safe to call more than once.
func (c *Connection) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.cancel()
		close(c.send)
		err = c.conn.Close()
	})
	return err
}

// SendMessage queues a message for delivery. A client that cannot keep
// up gets disconnected rather than blocking the sender.
func (c *Connection) SendMessage(msg *Message) error {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Debug("send on closed connection", "error", r)
		}
	}()

	select {
	case c.send <- msg:
		return nil
	case <-c.ctx.Done():
		return c.ctx.Err()
	default:
		c.logger.Warn("send buffer full, closing connection")
		_ = c.Close()
		return ErrConnectionClosed
	}
}

// Identity returns the authenticated identity, empty before auth.
func (c *Connection) Identity() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.identity
}

func (c *Connection) setIdentity(identity string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.identity = identity
}

// Room returns the room this connection is watching, empty when lobbied.
func (c *Connection) Room() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.roomID
}

func (c *Connection) setRoom(roomID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.roomID = roomID
}

func (c *Connection) readPump() {
	defer func() { _ = c.Close() }()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		select {
		case <-c.ctx.Done():
			return
		default:
		}

		var msg Message
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Error("websocket error", "error", err)
			}
			break
		}

		c.handleMessage(&msg)
	}
}

func (c *Connection) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(message); err != nil {
				c.logger.Error("failed to write message", "error", err)
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.ctx.Done():
			return
		}
	}
}

func (c *Connection) handleMessage(msg *Message) {
	c.logger.Debug("received message", "type", msg.Type, "identity", c.Identity())

	if msg.Type == MessageTypeAuth {
		var data AuthData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("invalid_message", "failed to parse auth data")
			return
		}
		c.handleAuth(data)
		return
	}

	identity := c.Identity()
	if identity == "" {
		c.sendError("not_authenticated", "must authenticate first")
		return
	}

	switch msg.Type {
	case MessageTypeCreateRoom:
		c.handleCreateRoom(identity)

	case MessageTypeJoinRoom:
		var data JoinRoomData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("invalid_message", "failed to parse join room data")
			return
		}
		c.handleJoinRoom(identity, data)

	case MessageTypeLeaveRoom:
		c.handleLeaveRoom(identity)

	case MessageTypeListRooms:
		c.handleListRooms()

	case MessageTypeStartHand:
		if err := c.rooms.Start(identity); err != nil {
			c.sendError(errorCode(err), err.Error())
		}

	case MessageTypeAction:
		var data ActionData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("invalid_message", "failed to parse action data")
			return
		}
		action, err := game.ParseAction(data.Action)
		if err != nil {
			c.sendError("invalid_action", err.Error())
			return
		}
		if err := c.rooms.Act(identity, action, data.Amount); err != nil {
			c.sendError(errorCode(err), err.Error())
		}

	case MessageTypeAdvance:
		if err := c.rooms.Advance(identity); err != nil {
			c.sendError(errorCode(err), err.Error())
		}

	case MessageTypeBuyChips:
		var data BuyChipsData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("invalid_message", "failed to parse buy chips data")
			return
		}
		if err := c.rooms.BuyChips(identity, data.Chips); err != nil {
			c.sendError(errorCode(err), err.Error())
		}

	case MessageTypeState:
		snap, err := c.rooms.Snapshot(identity)
		if err != nil {
			c.sendError(errorCode(err), err.Error())
			return
		}
		response, _ := NewMessage(MessageTypeRoomState, snap)
		_ = c.SendMessage(response)

	default:
		c.sendError("unknown_message_type", "unknown message type: "+msg.Type.String())
	}
}

func (c *Connection) handleAuth(data AuthData) {
	if data.Identity == "" {
		c.sendError("invalid_auth", "identity required")
		return
	}

	c.setIdentity(data.Identity)
	c.logger.Info("authenticated", "identity", data.Identity)

	response, _ := NewMessage(MessageTypeAuthResponse, AuthResponseData{
		Success:  true,
		Identity: data.Identity,
	})
	_ = c.SendMessage(response)
}

func (c *Connection) handleCreateRoom(identity string) {
	id, err := c.rooms.Create(identity, identity)
	if err != nil {
		c.sendError(errorCode(err), err.Error())
		return
	}
	c.setRoom(id)

	response, _ := NewMessage(MessageTypeRoomCreated, RoomCreatedData{RoomID: id})
	_ = c.SendMessage(response)
}

func (c *Connection) handleJoinRoom(identity string, data JoinRoomData) {
	if err := c.rooms.Join(data.RoomID, identity, identity); err != nil {
		c.sendError(errorCode(err), err.Error())
		return
	}
	c.setRoom(data.RoomID)

	response, _ := NewMessage(MessageTypeRoomJoined, RoomJoinedData{RoomID: data.RoomID})
	_ = c.SendMessage(response)
}

func (c *Connection) handleLeaveRoom(identity string) {
	if err := c.rooms.Leave(identity); err != nil {
		c.sendError(errorCode(err), err.Error())
		return
	}
	c.setRoom("")

	response, _ := NewMessage(MessageTypeRoomLeft, nil)
	_ = c.SendMessage(response)
}

func (c *Connection) handleListRooms() {
	response, _ := NewMessage(MessageTypeRoomList, c.rooms.List())
	_ = c.SendMessage(response)
}

func (c *Connection) sendError(code, message string) {
	errorMsg, err := NewMessage(MessageTypeError, ErrorData{Code: code, Message: message})
	if err != nil {
		c.logger.Error("failed to create error message", "error", err)
		return
	}
	_ = c.SendMessage(errorMsg)
}

// errorCode maps manager and game errors onto stable wire codes.
func errorCode(err error) string {
	switch {
	case errors.Is(err, room.ErrRoomNotFound):
		return "room_not_found"
	case errors.Is(err, room.ErrAlreadyInRoom):
		return "already_in_room"
	case errors.Is(err, room.ErrNotInRoom):
		return "not_in_room"
	case errors.Is(err, room.ErrInsufficientFunds):
		return "insufficient_funds"
	case errors.Is(err, game.ErrOutOfTurn):
		return "out_of_turn"
	case errors.Is(err, game.ErrWrongStage):
		return "wrong_stage"
	case errors.Is(err, game.ErrIllegalAmount):
		return "illegal_amount"
	case errors.Is(err, game.ErrRoomFull):
		return "room_full"
	case errors.Is(err, game.ErrNotSeated):
		return "not_seated"
	case errors.Is(err, game.ErrAlreadySeated):
		return "already_seated"
	case errors.Is(err, game.ErrNotEnoughPlayers):
		return "not_enough_players"
	case errors.Is(err, game.ErrHandInProgress):
		return "hand_in_progress"
	case errors.Is(err, game.ErrRoundNotSettled):
		return "round_not_settled"
	default:
		return "internal_error"
	}
}
