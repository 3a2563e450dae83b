// Package api implements the REST API for evaluating expressions and
// browsing evaluation history.
package api

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/lemonberrylabs/calc/pkg/calc"
	"github.com/lemonberrylabs/calc/pkg/store"
)

// Server is the HTTP API server.
type Server struct {
	app    *fiber.App
	store  *store.Store
	logger *slog.Logger
}

// New creates a new API server backed by s. A nil logger discards logs.
func New(s *store.Store, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	srv := &Server{
		store:  s,
		logger: logger.WithGroup("api"),
	}

	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ReadTimeout:           30 * time.Second,
		WriteTimeout:          30 * time.Second,
	})
	app.Use(recover.New())
	app.Use(srv.logRequest)

	app.Get("/healthz", srv.health)

	app.Post("/v1/evaluations", srv.createEvaluation)
	app.Get("/v1/evaluations", srv.listEvaluations)
	app.Get("/v1/evaluations/:id", srv.getEvaluation)
	app.Delete("/v1/evaluations", srv.clearEvaluations)

	srv.app = app
	return srv
}

// Listen starts the HTTP server on the given address.
func (s *Server) Listen(addr string) error {
	return s.app.Listen(addr)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

// App returns the underlying Fiber app (useful for testing and for mounting
// the web UI).
func (s *Server) App() *fiber.App {
	return s.app
}

func (s *Server) logRequest(c *fiber.Ctx) error {
	start := time.Now()
	err := c.Next()
	s.logger.Debug("request",
		"method", c.Method(),
		"path", c.Path(),
		"status", c.Response().StatusCode(),
		"duration", time.Since(start),
	)
	return err
}

func (s *Server) health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// --- Evaluation Handlers ---

type createEvaluationRequest struct {
	Tokens     []string `json:"tokens"`
	Expression string   `json:"expression"`
}

func (s *Server) createEvaluation(c *fiber.Ctx) error {
	var req createEvaluationRequest
	if err := c.BodyParser(&req); err != nil {
		return errorResponse(c, 400, "INVALID_ARGUMENT", fmt.Sprintf("invalid request body: %v", err))
	}

	tokens := req.Tokens
	switch {
	case tokens != nil && req.Expression != "":
		return errorResponse(c, 400, "INVALID_ARGUMENT", "only one of tokens or expression may be set")
	case tokens == nil && req.Expression == "":
		return errorResponse(c, 400, "INVALID_ARGUMENT", "tokens or expression is required")
	case tokens == nil:
		tokens = calc.SplitExpression(req.Expression)
	}

	ev, err := s.store.Evaluate(tokens)
	if err != nil {
		s.logger.Info("evaluation failed", "id", ev.ID, "kind", ev.Kind, "error", err)
		// Every evaluation failure is a calc.Error caused by the input.
		return c.Status(400).JSON(fiber.Map{
			"error": fiber.Map{
				"code":       400,
				"message":    err.Error(),
				"status":     "INVALID_ARGUMENT",
				"kind":       string(ev.Kind),
				"evaluation": evaluationToJSON(ev),
			},
		})
	}

	s.logger.Debug("evaluated", "id", ev.ID, "result", ev.Result)
	return c.Status(200).JSON(evaluationToJSON(ev))
}

func (s *Server) getEvaluation(c *fiber.Ctx) error {
	ev, err := s.store.Get(c.Params("id"))
	if err != nil {
		return errorResponse(c, 404, "NOT_FOUND", err.Error())
	}
	return c.JSON(evaluationToJSON(ev))
}

func (s *Server) listEvaluations(c *fiber.Ctx) error {
	evaluations := s.store.List()

	items := make([]fiber.Map, len(evaluations))
	for i, ev := range evaluations {
		items[i] = evaluationToJSON(ev)
	}

	return c.JSON(fiber.Map{
		"evaluations": items,
	})
}

func (s *Server) clearEvaluations(c *fiber.Ctx) error {
	s.store.Clear()
	return c.JSON(fiber.Map{})
}

// --- Helpers ---

func errorResponse(c *fiber.Ctx, code int, status, message string) error {
	return c.Status(code).JSON(fiber.Map{
		"error": fiber.Map{
			"code":    code,
			"message": message,
			"status":  status,
		},
	})
}

func evaluationToJSON(ev *store.Evaluation) fiber.Map {
	result := fiber.Map{
		"id":         ev.ID,
		"tokens":     ev.Tokens,
		"createTime": ev.CreateTime.Format(time.RFC3339Nano),
	}
	if ev.Succeeded() {
		result["state"] = "SUCCEEDED"
		result["result"] = ev.Result
	} else {
		result["state"] = "FAILED"
		result["error"] = fiber.Map{
			"message": ev.Error,
			"kind":    string(ev.Kind),
		}
	}
	return result
}
