// Package remote accepts controller connections over WebSocket and turns
// their command messages into registry calls on the eyes.
package remote

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/teslashibe/go-roboeyes/internal/log"
	"github.com/teslashibe/go-roboeyes/pkg/command"
	"github.com/teslashibe/go-roboeyes/pkg/protocol"
)

// ErrSessionNotFound is returned when sending to an unknown session.
var ErrSessionNotFound = errors.New("session not connected")

// Executor runs a named command. driver.Loop.Exec satisfies it.
type Executor func(name string, args command.Args) error

// Session represents a connected controller
type Session struct {
	ID        string
	Conn      *websocket.Conn
	Connected time.Time
	LastSeen  time.Time
	Commands  uint64

	mu sync.Mutex
}

// Send sends a message to the controller
func (s *Session) Send(msg *protocol.Message) error {
	data, err := msg.Bytes()
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Conn.WriteMessage(websocket.TextMessage, data)
}

func (s *Session) touch() {
	s.mu.Lock()
	s.LastSeen = time.Now()
	s.mu.Unlock()
}

// Hub manages controller sessions
type Hub struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	exec     Executor

	// Callbacks
	onConnect func(sessionID string)

	// Stats
	messagesReceived atomic.Uint64
	messagesSent     atomic.Uint64
	commandsRun      atomic.Uint64
	commandErrors    atomic.Uint64
}

// NewHub creates a session hub that runs commands through exec.
func NewHub(exec Executor) *Hub {
	return &Hub{
		sessions: make(map[string]*Session),
		exec:     exec,
	}
}

// OnConnect sets the callback run after a session is registered.
func (h *Hub) OnConnect(callback func(sessionID string)) {
	h.mu.Lock()
	h.onConnect = callback
	h.mu.Unlock()
}

// RegisterRoutes registers the controller endpoint on a Fiber router
func (h *Hub) RegisterRoutes(r fiber.Router) {
	upgrade := func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	}

	r.Get("/ws/control", upgrade, websocket.New(h.handleSession))
	r.Get("/ws/control/:id", upgrade, websocket.New(h.handleSession))
}

// handleSession handles one controller connection
func (h *Hub) handleSession(c *websocket.Conn) {
	id := c.Params("id")
	if id == "" {
		id = uuid.NewString()
	}

	s := &Session{
		ID:        id,
		Conn:      c,
		Connected: time.Now(),
		LastSeen:  time.Now(),
	}

	h.mu.Lock()
	if old, ok := h.sessions[id]; ok {
		old.Conn.Close()
	}
	h.sessions[id] = s
	count := len(h.sessions)
	onConnect := h.onConnect
	h.mu.Unlock()

	log.Info("🎮 controller connected", "session", id, "sessions", count)

	defer func() {
		h.mu.Lock()
		if h.sessions[id] == s {
			delete(h.sessions, id)
		}
		count := len(h.sessions)
		h.mu.Unlock()

		log.Info("🎮 controller disconnected", "session", id, "sessions", count)
	}()

	if onConnect != nil {
		onConnect(id)
	}

	for {
		_, data, err := c.ReadMessage()
		if err != nil {
			log.Debug("controller read error", "session", id, "error", err)
			return
		}

		s.touch()
		h.messagesReceived.Add(1)
		h.handleMessage(s, data)
	}
}

// handleMessage processes one message from a controller
func (h *Hub) handleMessage(s *Session, data []byte) {
	msg, err := protocol.ParseMessage(data)
	if err != nil {
		log.Debug("controller sent bad message", "session", s.ID, "error", err)
		h.fail(s, "", "", protocol.CodeBadMessage, err.Error())
		return
	}

	switch msg.Type {
	case protocol.TypeCommand:
		cmd, err := msg.GetCommandData()
		if err != nil || cmd.Name == "" {
			if err == nil {
				err = errors.New("missing command name")
			}
			h.fail(s, "", "", protocol.CodeBadMessage, err.Error())
			return
		}
		h.runCommand(s, cmd)

	case protocol.TypePing:
		pong, err := protocol.NewPongMessage(pingID(msg), msg.Timestamp, time.Now().UnixMilli())
		h.reply(s, pong, err)

	default:
		h.fail(s, "", "", protocol.CodeBadMessage, "unsupported message type "+string(msg.Type))
	}
}

func (h *Hub) runCommand(s *Session, cmd *protocol.CommandData) {
	h.commandsRun.Add(1)
	s.mu.Lock()
	s.Commands++
	s.mu.Unlock()

	err := h.exec(cmd.Name, command.Args(cmd.Args))
	if err == nil {
		ack, err := protocol.NewAckMessage(cmd.ID, cmd.Name)
		h.reply(s, ack, err)
		return
	}

	h.commandErrors.Add(1)
	h.fail(s, cmd.ID, cmd.Name, ErrorCode(err), err.Error())
}

func (h *Hub) fail(s *Session, id, name, code, text string) {
	msg, err := protocol.NewErrorMessage(id, name, code, text)
	h.reply(s, msg, err)
}

func (h *Hub) reply(s *Session, msg *protocol.Message, err error) {
	if err != nil {
		log.Error("build reply", "session", s.ID, "error", err)
		return
	}
	h.messagesSent.Add(1)
	if err := s.Send(msg); err != nil {
		log.Debug("controller write error", "session", s.ID, "error", err)
	}
}

func pingID(msg *protocol.Message) string {
	ping, err := msg.GetPingData()
	if err != nil {
		return ""
	}
	return ping.ID
}

// ErrorCode maps a command error onto a protocol error code.
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, command.ErrNotFound):
		return protocol.CodeNotFound
	case command.IsInvalid(err):
		return protocol.CodeInvalidArgs
	default:
		return protocol.CodeFailed
	}
}

// SendTo sends a message to one session
func (h *Hub) SendTo(sessionID string, msg *protocol.Message) error {
	h.mu.RLock()
	s, ok := h.sessions[sessionID]
	h.mu.RUnlock()

	if !ok {
		return ErrSessionNotFound
	}

	h.messagesSent.Add(1)
	return s.Send(msg)
}

// Broadcast sends a message to all connected controllers
func (h *Hub) Broadcast(msg *protocol.Message) {
	for _, s := range h.GetSessions() {
		h.messagesSent.Add(1)
		if err := s.Send(msg); err != nil {
			log.Debug("broadcast error", "session", s.ID, "error", err)
		}
	}
}

// GetSession returns a session by ID
func (h *Hub) GetSession(sessionID string) *Session {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.sessions[sessionID]
}

// GetSessions returns all connected sessions
func (h *Hub) GetSessions() []*Session {
	h.mu.RLock()
	defer h.mu.RUnlock()

	sessions := make([]*Session, 0, len(h.sessions))
	for _, s := range h.sessions {
		sessions = append(sessions, s)
	}
	return sessions
}

// SessionCount returns the number of connected controllers
func (h *Hub) SessionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions)
}

// Stats contains hub statistics
type Stats struct {
	SessionCount     int    `json:"session_count"`
	MessagesReceived uint64 `json:"messages_received"`
	MessagesSent     uint64 `json:"messages_sent"`
	CommandsRun      uint64 `json:"commands_run"`
	CommandErrors    uint64 `json:"command_errors"`
}

// GetStats returns hub statistics
func (h *Hub) GetStats() Stats {
	return Stats{
		SessionCount:     h.SessionCount(),
		MessagesReceived: h.messagesReceived.Load(),
		MessagesSent:     h.messagesSent.Load(),
		CommandsRun:      h.commandsRun.Load(),
		CommandErrors:    h.commandErrors.Load(),
	}
}

// SessionInfo contains info about a connected controller
type SessionInfo struct {
	ID        string    `json:"id"`
	Connected time.Time `json:"connected"`
	LastSeen  time.Time `json:"last_seen"`
	Commands  uint64    `json:"commands"`
}

// GetSessionInfos returns info about all connected controllers
func (h *Hub) GetSessionInfos() []SessionInfo {
	sessions := h.GetSessions()
	infos := make([]SessionInfo, 0, len(sessions))
	for _, s := range sessions {
		s.mu.Lock()
		infos = append(infos, SessionInfo{
			ID:        s.ID,
			Connected: s.Connected,
			LastSeen:  s.LastSeen,
			Commands:  s.Commands,
		})
		s.mu.Unlock()
	}
	return infos
}

// RegisterAPIRoutes registers API routes for session management
func (h *Hub) RegisterAPIRoutes(api fiber.Router) {
	sessions := api.Group("/sessions")

	sessions.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"sessions": h.GetSessionInfos(),
			"count":    h.SessionCount(),
		})
	})

	sessions.Get("/stats", func(c *fiber.Ctx) error {
		return c.JSON(h.GetStats())
	})
}
