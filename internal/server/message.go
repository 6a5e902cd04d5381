package server

import (
	"encoding/json"
	"time"
)

// MessageType discriminates the wire envelope.
type MessageType string

const (
	// Client to server.
	MessageTypeAuth       MessageType = "auth"
	MessageTypeCreateRoom MessageType = "create_room"
	MessageTypeJoinRoom   MessageType = "join_room"
	MessageTypeLeaveRoom  MessageType = "leave_room"
	MessageTypeListRooms  MessageType = "list_rooms"
	MessageTypeStartHand  MessageType = "start_hand"
	MessageTypeAction     MessageType = "action"
	MessageTypeAdvance    MessageType = "advance"
	MessageTypeBuyChips   MessageType = "buy_chips"
	MessageTypeState      MessageType = "state"

	// Server to client.
	MessageTypeAuthResponse MessageType = "auth_response"
	MessageTypeRoomCreated  MessageType = "room_created"
	MessageTypeRoomJoined   MessageType = "room_joined"
	MessageTypeRoomLeft     MessageType = "room_left"
	MessageTypeRoomList     MessageType = "room_list"
	MessageTypeRoomState    MessageType = "room_state"
	MessageTypeEvent        MessageType = "event"
	MessageTypeError        MessageType = "error"
)

func (t MessageType) String() string { return string(t) }

// Message is the base envelope for every frame in both directions.
type Message struct {
	Type      MessageType     `json:"type"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

// NewMessage wraps a payload in an envelope with the current timestamp.
func NewMessage(messageType MessageType, data any) (*Message, error) {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return &Message{
		Type:      messageType,
		Data:      dataBytes,
		Timestamp: time.Now(),
	}, nil
}

// Client to server payloads.

type AuthData struct {
	Identity string `json:"identity"`
	Name     string `json:"name,omitempty"`
}

type JoinRoomData struct {
	RoomID string `json:"roomId"`
}

type ActionData struct {
	Action string `json:"action"`
	Amount int    `json:"amount,omitempty"`
}

type BuyChipsData struct {
	Chips int `json:"chips"`
}

// Server to client payloads.

type AuthResponseData struct {
	Success  bool   `json:"success"`
	Identity string `json:"identity,omitempty"`
	Error    string `json:"error,omitempty"`
}

type RoomCreatedData struct {
	RoomID string `json:"roomId"`
}

type RoomJoinedData struct {
	RoomID string `json:"roomId"`
}

type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// EventData carries a room event produced by the manager. The payload
// shape depends on the event name.
type EventData struct {
	RoomID string `json:"roomId,omitempty"`
	Event  string `json:"event"`
	Data   any    `json:"data,omitempty"`
}
