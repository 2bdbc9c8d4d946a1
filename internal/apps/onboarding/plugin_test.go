package onboarding

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp() *fiber.App {
	p := New()
	p.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }
	app := fiber.New()
	p.RegisterRoutes(app.Group("/api/p"), nil, nil)
	return app
}

func TestAdvanceStep_Handler(t *testing.T) {
	app := newTestApp()

	req := httptest.NewRequest("POST", "/api/p/onboarding/advance",
		strings.NewReader(`{"step":"progress_confirmed","last_niche":"fitness"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var got State
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, StepProOffered, got.Step)
	assert.Equal(t, "fitness", got.LastNiche)
}

func TestAdvanceStep_RejectsUnknownStep(t *testing.T) {
	app := newTestApp()

	req := httptest.NewRequest("POST", "/api/p/onboarding/advance", strings.NewReader(`{"step":"nope"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
