package di

import (
	"github.com/Hiro-mackay/gc-commerce/backend/internal/interface/gateway"
	"github.com/Hiro-mackay/gc-commerce/backend/internal/interface/handler"
)

// Handlers はアプリケーションのハンドラーを保持します
type Handlers struct {
	Health  *handler.HealthHandler
	Gateway *gateway.Gateway
	Order   *handler.OrderHandler
	Support *handler.SupportHandler
}

// NewHandlers はContainerから全てのハンドラーを初期化します
func NewHandlers(c *Container) *Handlers {
	// Health Handler
	healthHandler := handler.NewHealthHandler()
	if c.PgClient != nil {
		healthHandler.RegisterChecker("postgres", c.PgClient)
	}
	if c.RedisClient != nil {
		healthHandler.RegisterChecker("redis", c.RedisClient)
	}

	// Order Handler
	orderHandler := handler.NewOrderHandler(c.UpdateOrderStatus)

	// Support Handler
	supportHandler := handler.NewSupportHandler(
		c.SendSupportMessage,
		c.GetSupportHistory,
		c.Gateway.Registry(),
	)

	return &Handlers{
		Health:  healthHandler,
		Gateway: c.Gateway,
		Order:   orderHandler,
		Support: supportHandler,
	}
}

// NewHandlersForTest はテスト用にハンドラーを初期化します（HealthHandlerなし）
func NewHandlersForTest(c *Container) *Handlers {
	orderHandler := handler.NewOrderHandler(c.UpdateOrderStatus)
	supportHandler := handler.NewSupportHandler(
		c.SendSupportMessage,
		c.GetSupportHistory,
		c.Gateway.Registry(),
	)

	return &Handlers{
		Health:  nil,
		Gateway: c.Gateway,
		Order:   orderHandler,
		Support: supportHandler,
	}
}
