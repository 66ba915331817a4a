package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"frieren/internal/pricing"
)

var (
	ErrChatNotConfigured = errors.New("chat: api key not configured")
	ErrChatEmptyInput    = errors.New("chat: empty input")
)

const DefaultChatBaseURL = "https://openrouter.ai/api/v1"

// ChatService forwards a visitor question to an OpenAI-compatible
// chat-completions endpoint.
type ChatService struct {
	APIKey  string
	BaseURL string
	Model   string
	Catalog pricing.Catalog
	Timeout time.Duration
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content json.RawMessage `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (s *ChatService) Reply(input string) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", ErrChatEmptyInput
	}
	if s.APIKey == "" {
		return "", ErrChatNotConfigured
	}

	base := strings.TrimRight(s.BaseURL, "/")
	if base == "" {
		base = DefaultChatBaseURL
	}
	timeout := s.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	a := fiber.Post(base + "/chat/completions")
	a.Set(fiber.HeaderAuthorization, "Bearer "+s.APIKey)
	a.Timeout(timeout)
	a.JSON(chatRequest{
		Model: s.Model,
		Messages: []chatMessage{
			{Role: "system", Content: SystemPrompt(s.Catalog)},
			{Role: "user", Content: input},
		},
	})

	code, body, errs := a.Bytes()
	if len(errs) > 0 {
		return "", fmt.Errorf("chat: request: %w", errors.Join(errs...))
	}
	var resp chatResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("chat: decode (status %d): %w", code, err)
	}
	if code >= 400 {
		msg := fmt.Sprintf("status %d", code)
		if resp.Error != nil && resp.Error.Message != "" {
			msg = resp.Error.Message
		}
		return "", fmt.Errorf("chat: upstream: %s", msg)
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return ExtractContent(resp.Choices[0].Message.Content), nil
}

// ExtractContent reads message content that is either a plain string or an
// array of blocks carrying text (or content) fields.
func ExtractContent(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if json.Unmarshal(raw, &s) == nil {
		return s
	}
	var blocks []json.RawMessage
	if json.Unmarshal(raw, &blocks) == nil {
		parts := make([]string, 0, len(blocks))
		for _, b := range blocks {
			if t := blockText(b); t != "" {
				parts = append(parts, t)
			}
		}
		return strings.Join(parts, "\n\n")
	}
	if t := blockText(raw); t != "" {
		return t
	}
	return string(raw)
}

func blockText(raw json.RawMessage) string {
	var s string
	if json.Unmarshal(raw, &s) == nil {
		return s
	}
	var blk struct {
		Text    *string  `json:"text"`
		Content *string  `json:"content"`
		Parts   []string `json:"parts"`
	}
	if json.Unmarshal(raw, &blk) != nil {
		return ""
	}
	switch {
	case blk.Text != nil:
		return *blk.Text
	case blk.Content != nil:
		return *blk.Content
	case len(blk.Parts) > 0:
		return strings.Join(blk.Parts, "")
	}
	return ""
}

// SystemPrompt describes the business with prices read from the catalog.
func SystemPrompt(c pricing.Catalog) string {
	var b strings.Builder
	b.WriteString("You are Frieren's AI assistant, a helpful chatbot for a premium web development company called Frieren.\n\n")
	b.WriteString("About Frieren:\n")
	b.WriteString("- We build custom websites with modern designs, animations, and responsive layouts\n")
	b.WriteString("- We offer admin panels with secure authentication\n")
	b.WriteString("- We integrate MongoDB for user management and file storage (GridFS)\n")
	b.WriteString("- We support payment gateway integration\n")
	fmt.Fprintf(&b, "- Frontend: Modern Website (₹%d), Animations + Custom Theme (₹%d), Everything + 1 Revision (₹%d)\n",
		c.Frontend["modern"], c.Frontend["animations"], c.Frontend["everything"])
	fmt.Fprintf(&b, "- Backend: Modern Admin Panel (₹%d), Premium with Animations (₹%d)\n",
		c.Backend["modern"], c.Backend["premium"])
	fmt.Fprintf(&b, "- Database: User Management (₹%d), GridFS (₹%d), Combo (₹%d)\n",
		c.Database["user"], c.Database["gridfs"], c.Database["combo"])
	fmt.Fprintf(&b, "- Payment integration: ₹%d\n\n", c.Payment)
	b.WriteString("Rules:\n")
	b.WriteString("1. Always be polite, professional, and helpful.\n")
	b.WriteString("2. If you don't know something, suggest visiting the /quote page.\n")
	b.WriteString("3. Avoid using '**' around text.\n")
	b.WriteString("4. Keep answers concise (2-3 sentences max unless asked for details).\n")
	b.WriteString("5. Guide users to /quote for getting a custom quote.\n")
	b.WriteString("6. Don't reveal all pricing at once; answer based on what they ask.")
	return b.String()
}
