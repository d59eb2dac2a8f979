// Package types defines the JSON wire protocol shared by the session,
// service, and api packages.
//
// Frames are newline-free JSON text with a "type" discriminator. The Signal
// payload is opaque: the server never inspects or rewrites it.
package types

import (
	"context"
	"encoding/json"

	"github.com/filecoffee/signaling/internal/v1/logging"
	"go.uber.org/zap"
)

// Client frame types.
const (
	ClientCreateRoom = "CreateRoom"
	ClientJoinRoom   = "JoinRoom"
	ClientSignal     = "Signal"
	ClientPing       = "Ping"
)

// Server frame types.
const (
	ServerRoomCreated = "RoomCreated"
	ServerRoomJoined  = "RoomJoined"
	ServerPeerJoined  = "PeerJoined"
	ServerPeerLeft    = "PeerLeft"
	ServerSignal      = "Signal"
	ServerError       = "Error"
	ServerRoomExists  = "RoomExists"
	ServerPong        = "Pong"
)

// Wire error codes.
const (
	CodeRoomNotFound    = "ROOM_NOT_FOUND"
	CodeInvalidPassword = "INVALID_PASSWORD"
	CodeRoomFull        = "ROOM_FULL"
	CodeNotInRoom       = "NOT_IN_ROOM"
	CodeInvalidMessage  = "INVALID_MESSAGE"
	CodeRateLimited     = "RATE_LIMITED"
)

// ClientMessage is the decoded form of a client frame. Fields beyond Type
// are populated per frame type.
type ClientMessage struct {
	Type     string          `json:"type"`
	Password *string         `json:"password,omitempty"` // CreateRoom, JoinRoom
	RoomID   string          `json:"room_id,omitempty"`  // JoinRoom
	Data     json.RawMessage `json:"data,omitempty"`     // Signal
}

// ServerMessage is the encoded form of a server frame. Optional fields are
// pointers where false/zero is meaningful on the wire (RoomExists).
type ServerMessage struct {
	Type        string          `json:"type"`
	RoomID      string          `json:"room_id,omitempty"`
	PeerCount   int             `json:"peer_count,omitempty"`
	Data        json.RawMessage `json:"data,omitempty"`
	Code        string          `json:"code,omitempty"`
	Message     string          `json:"message,omitempty"`
	Exists      *bool           `json:"exists,omitempty"`
	HasPassword *bool           `json:"has_password,omitempty"`
}

func NewRoomCreated(roomID string) ServerMessage {
	return ServerMessage{Type: ServerRoomCreated, RoomID: roomID}
}

func NewRoomJoined() ServerMessage {
	return ServerMessage{Type: ServerRoomJoined}
}

func NewPeerJoined(peerCount int) ServerMessage {
	return ServerMessage{Type: ServerPeerJoined, PeerCount: peerCount}
}

func NewPeerLeft(peerCount int) ServerMessage {
	return ServerMessage{Type: ServerPeerLeft, PeerCount: peerCount}
}

func NewSignal(data json.RawMessage) ServerMessage {
	return ServerMessage{Type: ServerSignal, Data: data}
}

func NewError(code, message string) ServerMessage {
	return ServerMessage{Type: ServerError, Code: code, Message: message}
}

func NewRoomExists(exists, hasPassword bool) ServerMessage {
	return ServerMessage{Type: ServerRoomExists, Exists: &exists, HasPassword: &hasPassword}
}

func NewPong() ServerMessage {
	return ServerMessage{Type: ServerPong}
}

// Encode marshals the frame. Marshalling a ServerMessage cannot fail for the
// frames this package constructs; a failure is logged and returns nil, which
// senders treat as a dropped frame.
func (m ServerMessage) Encode() []byte {
	data, err := json.Marshal(m)
	if err != nil {
		logging.Error(context.Background(), "failed to encode server frame", zap.String("frame_type", m.Type), zap.Error(err))
		return nil
	}
	return data
}
