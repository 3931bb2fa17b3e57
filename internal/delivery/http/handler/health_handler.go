package handler

import (
	"context"
	"time"

	"talent-match/internal/pkg/response"

	"github.com/gofiber/fiber/v3"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler reports the database as required and every other dependency as optional.
type HealthHandler struct {
	db       Pinger
	optional map[string]Pinger
	timeout  time.Duration
}

func NewHealthHandler(db Pinger, optional map[string]Pinger) *HealthHandler {
	return &HealthHandler{db: db, optional: optional, timeout: 2 * time.Second}
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

func (h *HealthHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Get("/health", h.Health)
}

func (h *HealthHandler) Health(c fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), h.timeout)
	defer cancel()

	out := healthResponse{Status: "ok", Checks: map[string]string{}}
	status := fiber.StatusOK

	if h.db != nil {
		if err := h.db.Ping(ctx); err != nil {
			out.Checks["database"] = "down"
			out.Status = "down"
			status = fiber.StatusServiceUnavailable
		} else {
			out.Checks["database"] = "ok"
		}
	}
	for name, p := range h.optional {
		if p == nil {
			continue
		}
		if err := p.Ping(ctx); err != nil {
			out.Checks[name] = "unavailable"
			if out.Status == "ok" {
				out.Status = "degraded"
			}
			continue
		}
		out.Checks[name] = "ok"
	}

	return response.Success(c, status, out.Status, out)
}
