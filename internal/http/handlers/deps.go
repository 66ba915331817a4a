package handlers

import (
	"frieren/internal/auth"
	"frieren/internal/config"
	"frieren/internal/pricing"
	"frieren/internal/ratelimit"
	"frieren/internal/services"
)

type Deps struct {
	Auth    *services.AuthService
	Limiter ratelimit.Limiter

	OrderHandler *OrderHandler
	AuthHandler  *AuthHandler
	ChatHandler  *ChatHandler
	QuoteHandler *QuoteHandler
	PageHandler  *PageHandler
}

func NewDeps(cfg config.Config, orders services.OrderStore, admins services.AdminStore, lim ratelimit.Limiter) *Deps {
	authSvc := &services.AuthService{
		Admins:        admins,
		Sessions:      auth.NewSessions(cfg.JWTSecret),
		BootstrapUser: cfg.AdminUser,
		BootstrapPass: cfg.AdminPass,
	}
	orderSvc := services.NewOrderService(orders)
	chatSvc := &services.ChatService{
		APIKey:  cfg.ChatAPIKey,
		BaseURL: cfg.ChatBaseURL,
		Model:   cfg.ChatModel,
		Catalog: pricing.Default,
	}

	return &Deps{
		Auth:         authSvc,
		Limiter:      lim,
		OrderHandler: &OrderHandler{Orders: orderSvc},
		AuthHandler:  &AuthHandler{Auth: authSvc, CookieSecure: cfg.CookieSecure},
		ChatHandler:  &ChatHandler{Chat: chatSvc},
		QuoteHandler: &QuoteHandler{Catalog: pricing.Default},
		PageHandler:  &PageHandler{Catalog: pricing.Default},
	}
}
