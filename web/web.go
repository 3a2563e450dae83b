// Package web provides the embedded web UI for the calculator.
package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/lemonberrylabs/calc/pkg/calc"
	"github.com/lemonberrylabs/calc/pkg/store"
)

//go:embed templates/*.html
var templateFS embed.FS

// recentLimit is the number of evaluations shown on the index page.
const recentLimit = 20

// Handler serves the web UI pages.
type Handler struct {
	store   *store.Store
	logger  *slog.Logger
	funcMap template.FuncMap
}

// pageData wraps all page-specific data with common fields.
type pageData struct {
	Title string
	Data  interface{}
}

// New creates a new web UI handler. A nil logger discards logs.
func New(s *store.Store, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Handler{
		store:  s,
		logger: logger.WithGroup("web"),
		funcMap: template.FuncMap{
			"expression": expression,
			"timeAgo":    timeAgo,
			"formatTime": formatTime,
			"stateClass": stateClass,
		},
	}
}

func (h *Handler) render(c *fiber.Ctx, status int, page, title string, data interface{}) error {
	// Each page is parsed with the layout on its own so define blocks do not
	// collide across pages.
	tmpl, err := template.New("").Funcs(h.funcMap).ParseFS(templateFS, "templates/layout.html", "templates/"+page)
	if err != nil {
		return c.Status(500).SendString(fmt.Sprintf("template error: %v", err))
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, page, pageData{Title: title, Data: data}); err != nil {
		return c.Status(500).SendString(fmt.Sprintf("template error: %v", err))
	}

	c.Set("Content-Type", "text/html; charset=utf-8")
	return c.Status(status).Send(buf.Bytes())
}

// Register mounts the UI routes on app.
func (h *Handler) Register(app *fiber.App) {
	app.Get("/", func(c *fiber.Ctx) error {
		return c.Redirect("/ui", 302)
	})
	app.Get("/ui", h.index)
	app.Post("/ui/evaluate", h.evaluate)
	app.Get("/ui/evaluations/:id", h.evaluationDetail)
}

type indexData struct {
	Expression  string
	Total       int
	Evaluations []*store.Evaluation
}

func (h *Handler) index(c *fiber.Ctx) error {
	all := h.store.List()
	recent := all
	if len(recent) > recentLimit {
		recent = recent[:recentLimit]
	}
	return h.render(c, 200, "index.html", "Calculator", indexData{
		Expression:  c.Query("expression"),
		Total:       len(all),
		Evaluations: recent,
	})
}

func (h *Handler) evaluate(c *fiber.Ctx) error {
	tokens := calc.SplitExpression(c.FormValue("expression"))
	ev, err := h.store.Evaluate(tokens)
	if err != nil {
		// The detail page shows the failure from the record.
		h.logger.Info("evaluation failed", "id", ev.ID, "kind", ev.Kind, "error", err)
	} else {
		h.logger.Debug("evaluated", "id", ev.ID, "result", ev.Result)
	}
	return c.Redirect("/ui/evaluations/"+ev.ID, 303)
}

func (h *Handler) evaluationDetail(c *fiber.Ctx) error {
	ev, err := h.store.Get(c.Params("id"))
	if err != nil {
		return h.render(c, 404, "not_found.html", "Not found", c.Params("id"))
	}
	return h.render(c, 200, "evaluation.html", "Evaluation", ev)
}

// --- Template Helpers ---

func expression(tokens []string) string {
	if len(tokens) == 0 {
		return "(empty)"
	}
	return strings.Join(tokens, " ")
}

func timeAgo(t time.Time) string {
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		m := int(d.Minutes())
		if m == 1 {
			return "1 minute ago"
		}
		return fmt.Sprintf("%d minutes ago", m)
	case d < 24*time.Hour:
		h := int(d.Hours())
		if h == 1 {
			return "1 hour ago"
		}
		return fmt.Sprintf("%d hours ago", h)
	default:
		return t.Format("Jan 2, 2006")
	}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("2006-01-02 15:04:05 MST")
}

func stateClass(ev *store.Evaluation) string {
	if ev.Succeeded() {
		return "state-succeeded"
	}
	return "state-failed"
}
