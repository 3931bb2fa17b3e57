package handler

import (
	"context"
	"errors"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func healthApp(db Pinger, optional map[string]Pinger) *fiber.App {
	app := fiber.New()
	NewHealthHandler(db, optional).RegisterRoutes(app)
	return app
}

func TestHealth(t *testing.T) {
	up := pingFunc(func(context.Context) error { return nil })
	down := pingFunc(func(context.Context) error { return errors.New("down") })

	status, env := do(t, healthApp(up, map[string]Pinger{"redis": up}), "GET", "/health", "")
	require.Equal(t, 200, status)
	assert.Equal(t, "ok", env.Message)
	assert.JSONEq(t, `{"status":"ok","checks":{"database":"ok","redis":"ok"}}`, string(env.Data))

	status, env = do(t, healthApp(up, map[string]Pinger{"redis": down}), "GET", "/health", "")
	require.Equal(t, 200, status)
	assert.JSONEq(t, `{"status":"degraded","checks":{"database":"ok","redis":"unavailable"}}`, string(env.Data))

	status, env = do(t, healthApp(down, map[string]Pinger{"redis": up}), "GET", "/health", "")
	require.Equal(t, fiber.StatusServiceUnavailable, status)
	assert.Equal(t, "down", env.Message)
}
