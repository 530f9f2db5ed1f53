package web

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/teslashibe/go-roboeyes/pkg/routine"
)

// RoutineList is the GET /api/routines payload.
type RoutineList struct {
	Routines map[string]string     `json:"routines"`
	Current  string                `json:"current,omitempty"`
	State    routine.PlaybackState `json:"state"`
}

// PlayRoutineRequest is the optional body of POST /api/routines/:name.
type PlayRoutineRequest struct {
	Speed float64 `json:"speed"`
	Loop  bool    `json:"loop"`
}

// SetRoutines enables the routine endpoints. Call before Start.
func (s *Server) SetRoutines(r *routine.Registry) { s.routines = r }

func (s *Server) registerRoutineRoutes(api fiber.Router) {
	api.Get("/routines", s.handleListRoutines)
	api.Post("/routines/:name", s.handlePlayRoutine)
	api.Delete("/routines", s.handleStopRoutine)
}

func (s *Server) routineRegistry() (*routine.Registry, error) {
	if s.routines == nil {
		return nil, fiber.NewError(fiber.StatusNotFound, "routines are not enabled")
	}
	return s.routines, nil
}

func (s *Server) handleListRoutines(c *fiber.Ctx) error {
	reg, err := s.routineRegistry()
	if err != nil {
		return err
	}
	return c.JSON(RoutineList{
		Routines: reg.Describe(),
		Current:  reg.Current(),
		State:    reg.State(),
	})
}

func (s *Server) handlePlayRoutine(c *fiber.Ctx) error {
	reg, err := s.routineRegistry()
	if err != nil {
		return err
	}

	req := PlayRoutineRequest{Speed: 1}
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body: "+err.Error())
		}
	}

	name := c.Params("name")
	opts := routine.DefaultOptions()
	if req.Speed > 0 {
		opts.Speed = req.Speed
	}
	opts.Loop = req.Loop

	if err := reg.PlayWithOptions(s.baseContext(), name, opts); err != nil {
		if errors.Is(err, routine.ErrNotFound) {
			return fiber.NewError(fiber.StatusNotFound, err.Error())
		}
		return err
	}
	return c.JSON(fiber.Map{"routine": name, "state": reg.State()})
}

func (s *Server) handleStopRoutine(c *fiber.Ctx) error {
	reg, err := s.routineRegistry()
	if err != nil {
		return err
	}
	reg.Stop()
	return c.JSON(fiber.Map{"state": reg.State()})
}

// baseContext is the context passed to Run, so routines end with the server.
func (s *Server) baseContext() context.Context {
	if s.ctx != nil {
		return s.ctx
	}
	return context.Background()
}
