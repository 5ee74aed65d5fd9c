package gateway

import (
	"encoding/json"

	"github.com/7lmtv/rendezvous/internal/match"
)

// MessageType represents the type of WebSocket message
type MessageType string

// Client to server message types
const (
	MessageTypeJoinQueue  MessageType = "joinQueue"
	MessageTypeLeaveQueue MessageType = "leaveQueue"
	MessageTypeNext       MessageType = "next"
	MessageTypeSignal     MessageType = "signal"
	MessageTypeChat       MessageType = "chat"
)

// Server to client message types
const (
	MessageTypeMatchFound  MessageType = "matchFound"
	MessageTypePartnerLeft MessageType = "partnerLeft"
	MessageTypeOnlineCount MessageType = "onlineCount"
	MessageTypeRoomsCount  MessageType = "roomsCount"
)

// ClientMessage represents a message from the client
type ClientMessage struct {
	Type    MessageType     `json:"type"`
	Prefs   *match.Prefs    `json:"prefs,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
	Text    string          `json:"text,omitempty"`
}

// MatchPrefs returns the message's preference snapshot, defaulting every
// omitted axis to the wildcard.
func (m *ClientMessage) MatchPrefs() match.Prefs {
	if m.Prefs == nil {
		return match.DefaultPrefs()
	}
	return m.Prefs.Normalized()
}

// ServerMessage represents a message to the client. Fields other than Type are
// populated per message type; counters are pointers so a zero still serializes.
type ServerMessage struct {
	Type       MessageType     `json:"type"`
	RoomID     string          `json:"roomId,omitempty"`
	PartnerID  string          `json:"partnerId,omitempty"`
	From       string          `json:"from,omitempty"`
	Payload    json.RawMessage `json:"payload,omitempty"`
	Text       string          `json:"text,omitempty"`
	Count      *int            `json:"count,omitempty"`
	RoomsCount *int            `json:"roomsCount,omitempty"`
}

// MatchFoundMessage notifies a member of a fresh pairing. The partner is named
// by its opaque connection id only.
func MatchFoundMessage(roomID, partnerID string) ServerMessage {
	return ServerMessage{Type: MessageTypeMatchFound, RoomID: roomID, PartnerID: partnerID}
}

// PartnerLeftMessage notifies the surviving member that the room is gone.
func PartnerLeftMessage() ServerMessage {
	return ServerMessage{Type: MessageTypePartnerLeft}
}

// SignalMessage forwards an opaque signaling payload, tagged with the sender.
func SignalMessage(from string, payload json.RawMessage) ServerMessage {
	return ServerMessage{Type: MessageTypeSignal, From: from, Payload: payload}
}

// ChatMessage forwards a text chat line, tagged with the sender.
func ChatMessage(from, text string) ServerMessage {
	return ServerMessage{Type: MessageTypeChat, From: from, Text: text}
}

// OnlineCountMessage carries the absolute number of connected clients.
func OnlineCountMessage(count int) ServerMessage {
	return ServerMessage{Type: MessageTypeOnlineCount, Count: &count}
}

// RoomsCountMessage carries the absolute number of active rooms.
func RoomsCountMessage(count int) ServerMessage {
	return ServerMessage{Type: MessageTypeRoomsCount, RoomsCount: &count}
}
