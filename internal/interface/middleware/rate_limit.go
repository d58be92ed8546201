package middleware

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Hiro-mackay/gc-commerce/backend/internal/infrastructure/cache"
	"github.com/Hiro-mackay/gc-commerce/backend/pkg/apperror"
)

// RateLimitType はレート制限の種類を定義します
type RateLimitType string

const (
	RateLimitAPIDefault RateLimitType = "api_default"
	RateLimitOrders     RateLimitType = "orders"
	RateLimitSupport    RateLimitType = "support"
)

// レート制限設定
var rateLimitConfigs = map[RateLimitType]cache.RateLimitConfig{
	RateLimitAPIDefault: {
		Type:     "api:default",
		Requests: 100,
		Window:   time.Minute,
	},
	RateLimitOrders: {
		Type:     "api:orders",
		Requests: 30,
		Window:   time.Minute,
	},
	RateLimitSupport: {
		Type:     "api:support",
		Requests: 20,
		Window:   time.Minute,
	},
}

// RateLimitMiddleware はREST API向けレート制限ミドルウェアを提供します
type RateLimitMiddleware struct {
	limiter *cache.RateLimiter
}

// NewRateLimitMiddleware は新しいRateLimitMiddlewareを作成します
func NewRateLimitMiddleware(limiter *cache.RateLimiter) *RateLimitMiddleware {
	return &RateLimitMiddleware{
		limiter: limiter,
	}
}

// ByIP はIPアドレスでレート制限するミドルウェアを返します
func (m *RateLimitMiddleware) ByIP(limitType RateLimitType) echo.MiddlewareFunc {
	config := rateLimitConfigs[limitType]
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			result, err := m.limiter.Allow(c.Request().Context(), c.RealIP(), config)
			if err != nil {
				// レート制限チェックに失敗した場合はリクエストを許可
				return next(c)
			}

			setRateLimitHeaders(c, result)

			if !result.Allowed {
				return apperror.NewTooManyRequestsError("rate limit exceeded")
			}

			return next(c)
		}
	}
}

// ByUser はユーザーIDでレート制限するミドルウェアを返します
func (m *RateLimitMiddleware) ByUser(limitType RateLimitType) echo.MiddlewareFunc {
	config := rateLimitConfigs[limitType]
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			identifier := GetUserID(c)
			if identifier == "" {
				// ユーザーIDがない場合はIPでフォールバック
				identifier = c.RealIP()
			}

			result, err := m.limiter.Allow(c.Request().Context(), identifier, config)
			if err != nil {
				return next(c)
			}

			setRateLimitHeaders(c, result)

			if !result.Allowed {
				return apperror.NewTooManyRequestsError("rate limit exceeded")
			}

			return next(c)
		}
	}
}

// setRateLimitHeaders はレート制限ヘッダーを設定します
func setRateLimitHeaders(c echo.Context, result *cache.RateLimitResult) {
	c.Response().Header().Set("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
	c.Response().Header().Set("X-RateLimit-Reset", result.ResetAt.Format(time.RFC3339))
}
