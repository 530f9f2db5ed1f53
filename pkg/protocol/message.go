// Package protocol defines the WebSocket message types exchanged between the
// eyes server and remote controllers.
package protocol

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/teslashibe/go-roboeyes/pkg/eyes"
)

// MessageType identifies the type of WebSocket message
type MessageType string

const (
	// Controller → Eyes messages
	TypeCommand MessageType = "command" // Run a named command

	// Eyes → Controller messages
	TypeAck   MessageType = "ack"   // Command succeeded
	TypeError MessageType = "error" // Command or message failed
	TypeState MessageType = "state" // Full state snapshot
	TypeEvent MessageType = "event" // Animation/expression event
	TypeFrame MessageType = "frame" // Rendered frame

	// Bidirectional
	TypePing MessageType = "ping" // Health check
	TypePong MessageType = "pong" // Health check response
)

// Message is the base wrapper for all WebSocket messages
type Message struct {
	Type      MessageType     `json:"type"`
	Timestamp int64           `json:"ts,omitempty"` // Unix milliseconds
	Data      json.RawMessage `json:"data,omitempty"`
}

// NewMessage creates a new message with the current timestamp
func NewMessage(msgType MessageType, data interface{}) (*Message, error) {
	var rawData json.RawMessage
	if data != nil {
		var err error
		rawData, err = json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal message data: %w", err)
		}
	}

	return &Message{
		Type:      msgType,
		Timestamp: time.Now().UnixMilli(),
		Data:      rawData,
	}, nil
}

// ParseData unmarshals the message data into the provided struct
func (m *Message) ParseData(v interface{}) error {
	if m.Data == nil {
		return nil
	}
	return json.Unmarshal(m.Data, v)
}

// Bytes returns the JSON-encoded message
func (m *Message) Bytes() ([]byte, error) {
	return json.Marshal(m)
}

// ParseMessage parses a JSON message from bytes
func ParseMessage(data []byte) (*Message, error) {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("failed to parse message: %w", err)
	}
	if msg.Type == "" {
		return nil, fmt.Errorf("failed to parse message: missing type")
	}
	return &msg, nil
}

// =============================================================================
// Controller → Eyes Message Types
// =============================================================================

// CommandData asks the eyes to run a registered command.
type CommandData struct {
	ID   string         `json:"id,omitempty"` // Echoed in the ack/error reply
	Name string         `json:"name"`
	Args map[string]any `json:"args,omitempty"`
}

// =============================================================================
// Eyes → Controller Message Types
// =============================================================================

// AckData confirms a command ran.
type AckData struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name"`
}

// Error codes
const (
	CodeBadMessage  = "bad_message"
	CodeNotFound    = "not_found"
	CodeInvalidArgs = "invalid_args"
	CodeFailed      = "failed"
)

// ErrorData reports a failed command or an unreadable message.
type ErrorData struct {
	ID      string `json:"id,omitempty"`
	Name    string `json:"name,omitempty"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// StateData is a full state snapshot.
type StateData = eyes.State

// EventData mirrors an eyes.Event on the wire.
type EventData struct {
	Type   eyes.EventType `json:"type"`
	Detail string         `json:"detail,omitempty"`
	At     int64          `json:"at"` // Unix milliseconds
}

// FrameData contains a rendered frame
type FrameData struct {
	Width   int    `json:"width"`
	Height  int    `json:"height"`
	Format  string `json:"format"` // "jpeg"
	Data    string `json:"data"`   // base64 encoded
	FrameID uint64 `json:"frame_id,omitempty"`
}

// =============================================================================
// Bidirectional Message Types
// =============================================================================

// PingData contains ping information
type PingData struct {
	ID        string `json:"id"`
	Timestamp int64  `json:"ts"`
}

// PongData contains pong response
type PongData struct {
	ID        string `json:"id"`
	PingTS    int64  `json:"ping_ts"`
	PongTS    int64  `json:"pong_ts"`
	LatencyMs int64  `json:"latency_ms"`
}
