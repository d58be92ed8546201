package di

import (
	"github.com/Hiro-mackay/gc-commerce/backend/internal/interface/middleware"
)

// Middlewares はアプリケーションのミドルウェアを保持します
type Middlewares struct {
	SessionAuth *middleware.SessionAuthMiddleware
	RateLimit   *middleware.RateLimitMiddleware
}

// NewMiddlewares はContainerから全てのミドルウェアを初期化します
func NewMiddlewares(c *Container) *Middlewares {
	return &Middlewares{
		SessionAuth: middleware.NewSessionAuthMiddleware(c.SessionValidator),
		RateLimit:   middleware.NewRateLimitMiddleware(c.RateLimiter),
	}
}
