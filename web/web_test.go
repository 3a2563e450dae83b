package web

import (
	"bytes"
	"html/template"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lemonberrylabs/calc/pkg/store"
)

func setupTestApp(t *testing.T) (*fiber.App, *store.Store) {
	t.Helper()
	s := store.New(50)
	app := fiber.New()
	New(s, nil).Register(app)
	return app, s
}

func get(t *testing.T, app *fiber.App, path string) (int, string) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, path, nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

// textNode returns s as html/template renders it in a text node, where "+"
// becomes "&#43;".
func textNode(t *testing.T, s string) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, template.Must(template.New("").Parse("{{.}}")).Execute(&buf, s))
	return buf.String()
}

func TestIndexEmpty(t *testing.T) {
	app, _ := setupTestApp(t)

	code, html := get(t, app, "/ui")
	require.Equal(t, 200, code, html)
	assert.Contains(t, html, "Calculator")
	assert.Contains(t, html, "No evaluations yet")
}

func TestRootRedirects(t *testing.T) {
	app, _ := setupTestApp(t)
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, 302, resp.StatusCode)
	assert.Equal(t, "/ui", resp.Header.Get("Location"))
}

func TestIndexWithData(t *testing.T) {
	app, s := setupTestApp(t)
	s.Evaluate([]string{"2", "+", "3", "x", "4"})
	s.Evaluate([]string{"5", "/", "0"})

	code, html := get(t, app, "/ui")
	require.Equal(t, 200, code)
	assert.Contains(t, html, textNode(t, "2 + 3 x 4"))
	assert.Contains(t, html, "&#43;")
	assert.Contains(t, html, "14")
	assert.Contains(t, html, "division by zero")
	assert.Contains(t, html, "2 of 2 shown")
}

func TestEvaluateForm(t *testing.T) {
	app, s := setupTestApp(t)

	form := url.Values{"expression": {"10 % 3 + 1"}}
	req := httptest.NewRequest(http.MethodPost, "/ui/evaluate", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, 303, resp.StatusCode)

	list := s.List()
	require.Len(t, list, 1)
	assert.Equal(t, 2, list[0].Result)
	assert.Equal(t, "/ui/evaluations/"+list[0].ID, resp.Header.Get("Location"))

	code, html := get(t, app, resp.Header.Get("Location"))
	require.Equal(t, 200, code)
	assert.Contains(t, html, textNode(t, "10 % 3 + 1"))
	assert.Contains(t, html, list[0].ID)
}

func TestEvaluateFormLogsFailure(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	s := store.New(50)
	app := fiber.New()
	New(s, logger).Register(app)

	post := func(expr string) *http.Response {
		form := url.Values{"expression": {expr}}
		req := httptest.NewRequest(http.MethodPost, "/ui/evaluate", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		return resp
	}

	resp := post("5 / 0")
	require.Equal(t, 303, resp.StatusCode)
	list := s.List()
	require.Len(t, list, 1)
	assert.Equal(t, "/ui/evaluations/"+list[0].ID, resp.Header.Get("Location"))

	out := logs.String()
	assert.Contains(t, out, "evaluation failed")
	assert.Contains(t, out, "web.id="+list[0].ID)
	assert.Contains(t, out, "web.kind=DivisionByZero")

	logs.Reset()
	require.Equal(t, 303, post("1 + 1").StatusCode)
	assert.Contains(t, logs.String(), "evaluated")
	assert.NotContains(t, logs.String(), "evaluation failed")
}

func TestEvaluationDetailFailed(t *testing.T) {
	app, s := setupTestApp(t)
	ev, _ := s.Evaluate([]string{"1", "*", "2"})

	code, html := get(t, app, "/ui/evaluations/"+ev.ID)
	require.Equal(t, 200, code)
	assert.Contains(t, html, "invalid operator: *")
	assert.Contains(t, html, "InvalidOperator")
}

func TestEvaluationNotFound(t *testing.T) {
	app, _ := setupTestApp(t)
	code, html := get(t, app, "/ui/evaluations/nope")
	assert.Equal(t, 404, code)
	assert.Contains(t, html, "No evaluation with ID")
}

func TestTimeAgo(t *testing.T) {
	now := time.Now()
	assert.Equal(t, "just now", timeAgo(now))
	assert.Equal(t, "1 minute ago", timeAgo(now.Add(-90*time.Second)))
	assert.Equal(t, "5 minutes ago", timeAgo(now.Add(-5*time.Minute)))
	assert.Equal(t, "1 hour ago", timeAgo(now.Add(-61*time.Minute)))
	assert.Equal(t, "3 hours ago", timeAgo(now.Add(-3*time.Hour)))

	old := now.Add(-72 * time.Hour)
	assert.Equal(t, old.Format("Jan 2, 2006"), timeAgo(old))
}

func TestExpression(t *testing.T) {
	assert.Equal(t, "1 + 2", expression([]string{"1", "+", "2"}))
	assert.Equal(t, "(empty)", expression(nil))
}
