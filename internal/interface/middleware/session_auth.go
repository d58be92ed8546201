package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/Hiro-mackay/gc-commerce/backend/internal/interface/gateway"
	"github.com/Hiro-mackay/gc-commerce/backend/pkg/apperror"
	"github.com/Hiro-mackay/gc-commerce/backend/pkg/logger"
)

// SessionAuthMiddleware はセッションベース認証ミドルウェアを提供します
// WebSocketゲートウェイと同一のバリデーターを使い、RESTルートでも
// 失敗理由を区別しない認証判定を行います
type SessionAuthMiddleware struct {
	validator *gateway.SessionValidator
}

// NewSessionAuthMiddleware は新しいSessionAuthMiddlewareを作成します
func NewSessionAuthMiddleware(validator *gateway.SessionValidator) *SessionAuthMiddleware {
	return &SessionAuthMiddleware{validator: validator}
}

// Authenticate は認証ミドルウェアを返します
func (m *SessionAuthMiddleware) Authenticate() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			principal := m.validator.Validate(c.Request().Context(), c.Request().Header.Get("Cookie"))
			if principal == nil {
				return apperror.NewUnauthorizedError("unauthorized")
			}

			c.Set(ContextKeyUserID, principal.UserID)
			c.Set(ContextKeyUserRoles, principal.Roles)

			// リクエストコンテキストにも設定（ログ用）
			ctx := logger.ContextWithUserID(c.Request().Context(), principal.UserID)
			c.SetRequest(c.Request().WithContext(ctx))

			return next(c)
		}
	}
}

// RequireRole は指定ロールを要求するミドルウェアを返します
// Authenticateの後段で使用します
func (m *SessionAuthMiddleware) RequireRole(role string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !HasRole(c, role) {
				return apperror.NewForbiddenError("insufficient role")
			}
			return next(c)
		}
	}
}
