package v1

import (
	"talent-match/internal/delivery/http/handler"

	"github.com/gofiber/fiber/v3"
)

func Register(r fiber.Router, matching *handler.MatchingHandler) {
	if r == nil || matching == nil {
		return
	}

	matching.RegisterRoutes(r)
}
