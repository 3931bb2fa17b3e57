package routes

import (
	"talent-match/internal/delivery/http/handler"
	v1 "talent-match/internal/delivery/http/routes/v1"

	"github.com/gofiber/fiber/v3"
)

func RegisterV1(r fiber.Router, matching *handler.MatchingHandler) {
	if r == nil {
		return
	}

	v1.Register(r, matching)
}
