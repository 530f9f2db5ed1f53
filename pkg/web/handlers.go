package web

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/teslashibe/go-roboeyes/pkg/command"
	"github.com/teslashibe/go-roboeyes/pkg/driver"
	"github.com/teslashibe/go-roboeyes/pkg/remote"
)

// RunCommandRequest is the request body for running a command
type RunCommandRequest struct {
	Args map[string]interface{} `json:"args"`
}

// ViewerCounts are connected websocket viewers per stream.
type ViewerCounts struct {
	State  int `json:"state"`
	Frames int `json:"frames"`
	Events int `json:"events"`
}

// Stats is the /api/stats payload.
type Stats struct {
	Loop          driver.Stats `json:"loop"`
	Remote        remote.Stats `json:"remote"`
	Viewers       ViewerCounts `json:"viewers"`
	FramesSent    uint64       `json:"frames_sent"`
	EventsDropped uint64       `json:"events_dropped"`
}

func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	return c.Status(code).JSON(fiber.Map{"error": err.Error()})
}

// statusFor maps a command error to an HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, command.ErrNotFound):
		return fiber.StatusNotFound
	case command.IsInvalid(err):
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}

func (s *Server) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":   "ok",
		"version":  Version,
		"running":  s.loop.Stats().Running,
		"sessions": s.remote.SessionCount(),
	})
}

// handleState returns the current eyes state
func (s *Server) handleState(c *fiber.Ctx) error {
	return c.JSON(s.loop.Snapshot())
}

// handleStats returns loop and connection counters
func (s *Server) handleStats(c *fiber.Ctx) error {
	return c.JSON(s.stats())
}

func (s *Server) stats() Stats {
	return Stats{
		Loop:   s.loop.Stats(),
		Remote: s.remote.GetStats(),
		Viewers: ViewerCounts{
			State:  s.stateHub.ClientCount(),
			Frames: s.frameHub.ClientCount(),
			Events: s.eventHub.ClientCount(),
		},
		FramesSent:    s.framesSent.Load(),
		EventsDropped: s.eventsDropped.Load(),
	}
}

// handleListCommands returns available commands
func (s *Server) handleListCommands(c *fiber.Ctx) error {
	return c.JSON(s.loop.Registry().Commands())
}

// handleRunCommand runs a command and returns the resulting state
func (s *Server) handleRunCommand(c *fiber.Ctx) error {
	name := c.Params("name")

	var req RunCommandRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid request body: " + err.Error(),
			})
		}
	}

	if err := s.loop.Exec(name, command.Args(req.Args)); err != nil {
		return c.Status(statusFor(err)).JSON(fiber.Map{
			"command": name,
			"error":   err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"command": name,
		"state":   s.loop.Snapshot(),
	})
}

// handleFrame renders the current frame as JPEG
func (s *Server) handleFrame(c *fiber.Ctx) error {
	data, err := s.renderJPEG()
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	c.Set(fiber.HeaderCacheControl, "no-store")
	c.Type("jpg")
	return c.Send(data)
}

// handleMetrics exposes counters in Prometheus text format
func (s *Server) handleMetrics(c *fiber.Ctx) error {
	st := s.stats()
	c.Type("txt")
	return c.SendString(fmt.Sprintf(`# HELP roboeyes_ticks Total loop ticks
# TYPE roboeyes_ticks counter
roboeyes_ticks %d

# HELP roboeyes_frames Total rendered frames
# TYPE roboeyes_frames counter
roboeyes_frames %d

# HELP roboeyes_command_errors Total failed commands
# TYPE roboeyes_command_errors counter
roboeyes_command_errors %d

# HELP roboeyes_sessions Connected controller count
# TYPE roboeyes_sessions gauge
roboeyes_sessions %d

# HELP roboeyes_viewers Connected websocket viewers
# TYPE roboeyes_viewers gauge
roboeyes_viewers %d
`, st.Loop.Ticks, st.Loop.Frames, st.Loop.Errors, st.Remote.SessionCount,
		st.Viewers.State+st.Viewers.Frames+st.Viewers.Events))
}
