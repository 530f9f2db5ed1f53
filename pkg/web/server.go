// Package web serves the eyes over HTTP: a small dashboard, a REST control
// API and websocket streams for state, frames, events and remote control.
package web

import (
	"context"
	"embed"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/filesystem"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/teslashibe/go-roboeyes/internal/log"
	"github.com/teslashibe/go-roboeyes/pkg/canvas"
	"github.com/teslashibe/go-roboeyes/pkg/driver"
	"github.com/teslashibe/go-roboeyes/pkg/eyes"
	"github.com/teslashibe/go-roboeyes/pkg/hub"
	"github.com/teslashibe/go-roboeyes/pkg/protocol"
	"github.com/teslashibe/go-roboeyes/pkg/remote"
	"github.com/teslashibe/go-roboeyes/pkg/routine"
)

// Version is reported by /health.
var Version = "1.0.0"

//go:embed static
var static embed.FS

// Config configures the server.
type Config struct {
	// Port to listen on
	Port string

	// Debug enables request logging
	Debug bool

	// StateEvery broadcasts state on every Nth rendered frame
	StateEvery int

	// FrameEvery broadcasts a JPEG on every Nth rendered frame
	FrameEvery int

	// JPEGQuality for /api/frame.jpg and /ws/frames
	JPEGQuality int
}

// DefaultConfig returns a config suitable for a 60Hz loop: state at 10Hz and
// frames at 15Hz.
func DefaultConfig() Config {
	return Config{
		Port:        "8080",
		StateEvery:  6,
		FrameEvery:  4,
		JPEGQuality: canvas.DefaultQuality,
	}
}

// Server is the web dashboard server
type Server struct {
	app  *fiber.App
	cfg  Config
	loop *driver.Loop

	// Hubs for websocket broadcast
	stateHub *hub.Hub
	frameHub *hub.Hub
	eventHub *hub.Hub
	remote   *remote.Hub

	events chan eyes.Event

	routines *routine.Registry
	ctx      context.Context

	// Frame snapshots for /api/frame.jpg
	snapMu sync.Mutex
	snap   *canvas.Canvas

	sinkCalls     atomic.Uint64
	framesSent    atomic.Uint64
	eventsDropped atomic.Uint64

	startOnce sync.Once
}

// NewServer creates a server around loop and registers its frame sink and
// event listener.
func NewServer(loop *driver.Loop, cfg Config) *Server {
	def := DefaultConfig()
	if cfg.Port == "" {
		cfg.Port = def.Port
	}
	if cfg.StateEvery <= 0 {
		cfg.StateEvery = def.StateEvery
	}
	if cfg.FrameEvery <= 0 {
		cfg.FrameEvery = def.FrameEvery
	}
	if cfg.JPEGQuality <= 0 {
		cfg.JPEGQuality = def.JPEGQuality
	}

	s := &Server{
		cfg:      cfg,
		loop:     loop,
		stateHub: hub.New("state"),
		frameHub: hub.New("frames"),
		eventHub: hub.New("events"),
		remote:   remote.NewHub(loop.Exec),
		events:   make(chan eyes.Event, 64),
	}
	s.stateHub.SetWelcome(s.stateWelcome)
	s.remote.OnConnect(s.greetController)

	app := fiber.New(fiber.Config{
		AppName:               "roboeyes",
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,DELETE,OPTIONS",
		AllowHeaders: "Content-Type",
	}))
	if cfg.Debug {
		app.Use(logger.New())
	}

	app.Get("/health", s.handleHealth)
	app.Get("/metrics", s.handleMetrics)

	// API routes
	api := app.Group("/api")
	api.Get("/state", s.handleState)
	api.Get("/stats", s.handleStats)
	api.Get("/commands", s.handleListCommands)
	api.Post("/commands/:name", s.handleRunCommand)
	api.Get("/frame.jpg", s.handleFrame)
	s.remote.RegisterAPIRoutes(api)
	s.registerRoutineRoutes(api)

	// WebSocket routes
	app.Get("/ws/state", hub.Upgrade, s.stateHub.Handler())
	app.Get("/ws/frames", hub.Upgrade, s.frameHub.Handler())
	app.Get("/ws/events", hub.Upgrade, s.eventHub.Handler())
	s.remote.RegisterRoutes(app)

	// Dashboard
	app.Use("/", filesystem.New(filesystem.Config{
		Root:       http.FS(static),
		PathPrefix: "static",
		Index:      "index.html",
	}))

	s.app = app

	loop.AddSink(s.onFrame)
	_ = loop.Do(func(e *eyes.Eyes) error {
		e.AddListener(s.onEvent)
		return nil
	})
	return s
}

// App returns the underlying fiber app.
func (s *Server) App() *fiber.App { return s.app }

// Remote returns the controller session hub.
func (s *Server) Remote() *remote.Hub { return s.remote }

// Run starts the hubs and event pump; it returns when ctx is cancelled.
// Start calls it, so only call Run directly when serving through App.
func (s *Server) Run(ctx context.Context) {
	s.startOnce.Do(func() {
		s.ctx = ctx
		go s.stateHub.Run(ctx)
		go s.frameHub.Run(ctx)
		go s.eventHub.Run(ctx)
		go s.pumpEvents(ctx)
	})
}

// Start runs the hubs and serves until the listener fails or Shutdown is called.
func (s *Server) Start(ctx context.Context) error {
	fmt.Printf("🌐 Web dashboard: http://localhost:%s\n", s.cfg.Port)
	fmt.Printf("   Control:   ws://localhost:%s/ws/control\n", s.cfg.Port)
	s.Run(ctx)
	return s.app.Listen(":" + s.cfg.Port)
}

// StartAsync starts the web server in a goroutine
func (s *Server) StartAsync(ctx context.Context) {
	go func() {
		if err := s.Start(ctx); err != nil {
			log.Error("web server stopped", "error", err)
		}
	}()
}

// Shutdown gracefully stops the web server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

// onFrame runs on the loop goroutine after every rendered frame.
func (s *Server) onFrame(st eyes.State, c *canvas.Canvas) {
	n := s.sinkCalls.Add(1)

	if n%uint64(s.cfg.StateEvery) == 0 && s.stateHub.ClientCount() > 0 {
		if msg, err := protocol.NewStateMessage(st); err == nil {
			s.broadcast(s.stateHub, msg)
		}
	}

	if n%uint64(s.cfg.FrameEvery) == 0 && s.frameHub.ClientCount() > 0 {
		data, err := c.JPEG(s.cfg.JPEGQuality)
		if err != nil {
			log.Warn("encode frame", "error", err)
			return
		}
		s.frameHub.BroadcastBinary(data)
		s.framesSent.Add(1)
	}
}

// onEvent runs under the loop lock, so it only queues.
func (s *Server) onEvent(ev eyes.Event) {
	select {
	case s.events <- ev:
	default:
		s.eventsDropped.Add(1)
	}
}

func (s *Server) pumpEvents(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-s.events:
			msg, err := protocol.NewEventMessage(ev)
			if err != nil {
				continue
			}
			s.broadcast(s.eventHub, msg)
			s.remote.Broadcast(msg)
		}
	}
}

func (s *Server) broadcast(h *hub.Hub, msg *protocol.Message) {
	data, err := msg.Bytes()
	if err != nil {
		log.Warn("encode message", "type", msg.Type, "error", err)
		return
	}
	h.Broadcast(hub.NewJSONMessage(data))
}

func (s *Server) stateMessage() (*protocol.Message, error) {
	return protocol.NewStateMessage(s.loop.Snapshot())
}

func (s *Server) stateWelcome() (hub.Message, bool) {
	msg, err := s.stateMessage()
	if err != nil {
		return hub.Message{}, false
	}
	data, err := msg.Bytes()
	if err != nil {
		return hub.Message{}, false
	}
	return hub.NewJSONMessage(data), true
}

func (s *Server) greetController(sessionID string) {
	msg, err := s.stateMessage()
	if err != nil {
		return
	}
	if err := s.remote.SendTo(sessionID, msg); err != nil {
		log.Debug("greet controller", "session", sessionID, "error", err)
	}
}

// renderJPEG renders the current frame into the server's own canvas.
func (s *Server) renderJPEG() ([]byte, error) {
	st := s.loop.Snapshot()

	s.snapMu.Lock()
	defer s.snapMu.Unlock()
	if s.snap == nil {
		s.snap = canvas.New(st.ScreenWidth, st.ScreenHeight)
	} else {
		s.snap.Resize(st.ScreenWidth, st.ScreenHeight)
	}
	s.loop.Render(s.snap)
	return s.snap.JPEG(s.cfg.JPEGQuality)
}
