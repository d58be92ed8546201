package router

import (
	"github.com/labstack/echo/v4"

	"github.com/Hiro-mackay/gc-commerce/backend/internal/domain/entity"
	"github.com/Hiro-mackay/gc-commerce/backend/internal/infrastructure/di"
	"github.com/Hiro-mackay/gc-commerce/backend/internal/interface/middleware"
)

// Router はルート定義を管理します
type Router struct {
	echo        *echo.Echo
	handlers    *di.Handlers
	middlewares *di.Middlewares
}

// NewRouter は新しいRouterを作成します
func NewRouter(e *echo.Echo, handlers *di.Handlers, middlewares *di.Middlewares) *Router {
	return &Router{
		echo:        e,
		handlers:    handlers,
		middlewares: middlewares,
	}
}

// Setup は全てのルートを設定します
func (r *Router) Setup() {
	r.setupHealthRoutes()
	r.setupWebsocketRoutes()
	r.setupAPIRoutes()
}

// setupHealthRoutes はヘルスチェックルートを設定します
func (r *Router) setupHealthRoutes() {
	if r.handlers.Health == nil {
		return
	}
	r.echo.GET("/health", r.handlers.Health.Check)
	r.echo.GET("/ready", r.handlers.Health.Ready)
}

// setupWebsocketRoutes はWebSocketルートを設定します
// 受理判定（同時接続上限・オリジン・接続レート・セッション検証）は
// ゲートウェイ自身が行うため、ミドルウェアは通しません
func (r *Router) setupWebsocketRoutes() {
	r.echo.GET("/ws", r.handlers.Gateway.Handle)
}

// setupAPIRoutes はAPIルートを設定します
func (r *Router) setupAPIRoutes() {
	api := r.echo.Group("/api")

	r.setupOrderRoutes(api)
	r.setupSupportRoutes(api)
}

// setupOrderRoutes は注文関連ルートを設定します
func (r *Router) setupOrderRoutes(api *echo.Group) {
	ordersGroup := api.Group("/orders", r.middlewares.SessionAuth.Authenticate())
	ordersGroup.PATCH("/:id/status", r.handlers.Order.UpdateStatus,
		r.middlewares.SessionAuth.RequireRole(entity.RoleAdmin),
		r.middlewares.RateLimit.ByUser(middleware.RateLimitOrders))
}

// setupSupportRoutes はサポートチャット関連ルートを設定します
func (r *Router) setupSupportRoutes(api *echo.Group) {
	supportGroup := api.Group("/support", r.middlewares.SessionAuth.Authenticate())
	supportGroup.POST("/messages", r.handlers.Support.SendMessage,
		r.middlewares.RateLimit.ByUser(middleware.RateLimitSupport))
	supportGroup.GET("/messages", r.handlers.Support.ListMessages,
		r.middlewares.RateLimit.ByUser(middleware.RateLimitAPIDefault))
	supportGroup.GET("/presence/:userId", r.handlers.Support.GetPresence,
		r.middlewares.SessionAuth.RequireRole(entity.RoleSupport))
}
