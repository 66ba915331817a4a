package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	applog "frieren/internal/log"
	"frieren/internal/services"
)

type ChatHandler struct {
	Chat *services.ChatService
}

// POST /chat
func (h *ChatHandler) Reply(c *fiber.Ctx) error {
	var body struct {
		Input   string `json:"input"`
		Message string `json:"message"`
		Text    string `json:"text"`
	}
	_ = c.BodyParser(&body)
	input := body.Input
	for _, s := range []string{body.Message, body.Text} {
		if strings.TrimSpace(input) == "" {
			input = s
		}
	}

	reply, err := h.Chat.Reply(input)
	switch {
	case errors.Is(err, services.ErrChatEmptyInput):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"reply": "No input provided."})
	case errors.Is(err, services.ErrChatNotConfigured):
		c.Status(fiber.StatusInternalServerError)
		applog.Error(c, "chat.unconfigured", err, nil)
		return c.JSON(fiber.Map{"reply": "Chat service is not configured."})
	case err != nil:
		c.Status(fiber.StatusInternalServerError)
		applog.Error(c, "chat.fail", err, nil)
		return c.JSON(fiber.Map{"reply": "Error while fetching response."})
	}
	if reply == "" {
		reply = "No reply from model."
	}
	applog.Info(c, "chat.reply", map[string]any{"input_len": len(input)})
	return c.JSON(fiber.Map{"reply": reply})
}
