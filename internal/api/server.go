// Package api exposes a small read-only HTTP surface for dashboards:
// health, balances and per-chat spin history. It never mutates game state.
package api

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"gram-bot/internal/game"
)

type Server struct {
	app *fiber.App
	svc *game.Service
	log zerolog.Logger
}

func New(svc *game.Service, logger zerolog.Logger) *Server {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})
	s := &Server{app: app, svc: svc, log: logger}

	app.Get("/healthz", s.health)
	v1 := app.Group("/api/v1")
	v1.Get("/balance/:id", s.balance)
	v1.Get("/results/:chat", s.results)

	return s
}

// Listen blocks serving HTTP until Shutdown is called.
func (s *Server) Listen(addr string) error {
	s.log.Info().Str("addr", addr).Msg("api listening")
	return s.app.Listen(addr)
}

func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

func (s *Server) health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

func (s *Server) balance(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid user id"})
	}
	balance, err := s.svc.Balance(id)
	if err != nil {
		s.log.Error().Err(err).Int64("user_id", id).Msg("api: balance")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal error"})
	}
	return c.JSON(fiber.Map{"user_id": id, "balance": balance})
}

func (s *Server) results(c *fiber.Ctx) error {
	chatID, err := strconv.ParseInt(c.Params("chat"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid chat id"})
	}
	outcomes, err := s.svc.Recent(chatID)
	if err != nil {
		s.log.Error().Err(err).Int64("chat_id", chatID).Msg("api: results")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal error"})
	}

	type item struct {
		Number int    `json:"number"`
		Color  string `json:"color"`
		TS     int64  `json:"ts"`
	}
	out := make([]item, 0, len(outcomes))
	for _, o := range outcomes {
		out = append(out, item{Number: o.Number, Color: string(o.Color()), TS: o.TS})
	}
	return c.JSON(fiber.Map{"chat_id": chatID, "results": out})
}
