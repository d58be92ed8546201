package command

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/Hiro-mackay/gc-commerce/backend/internal/domain/entity"
	"github.com/Hiro-mackay/gc-commerce/backend/internal/domain/repository"
	"github.com/Hiro-mackay/gc-commerce/backend/internal/domain/service"
	"github.com/Hiro-mackay/gc-commerce/backend/pkg/apperror"
)

// UpdateOrderStatusInput は注文ステータス更新の入力を定義します
type UpdateOrderStatusInput struct {
	OrderID uuid.UUID
	Status  entity.OrderStatus
}

// UpdateOrderStatusOutput は注文ステータス更新の出力を定義します
type UpdateOrderStatusOutput struct {
	Order    *entity.Order
	Notified bool // 注文者にリアルタイム通知が届いたか
}

// OrderStatusEvent は注文者にプッシュされるイベントペイロードです
type OrderStatusEvent struct {
	Type    string `json:"type"`
	OrderID string `json:"orderId"`
	Status  string `json:"status"`
}

// UpdateOrderStatusCommand は注文ステータス更新コマンドです
// ステータスを永続化したうえで、注文者が接続中であればゲートウェイ経由で
// 通知をプッシュします。通知の失敗は更新の成否に影響しません
type UpdateOrderStatusCommand struct {
	orderRepo repository.OrderRepository
	notifier  service.RealtimeNotifier
}

// NewUpdateOrderStatusCommand は新しいUpdateOrderStatusCommandを作成します
func NewUpdateOrderStatusCommand(
	orderRepo repository.OrderRepository,
	notifier service.RealtimeNotifier,
) *UpdateOrderStatusCommand {
	return &UpdateOrderStatusCommand{
		orderRepo: orderRepo,
		notifier:  notifier,
	}
}

// Execute は注文ステータス更新を実行します
func (c *UpdateOrderStatusCommand) Execute(ctx context.Context, input UpdateOrderStatusInput) (*UpdateOrderStatusOutput, error) {
	if !input.Status.IsValid() {
		return nil, apperror.NewInvalidRequestError("invalid order status")
	}

	order, err := c.orderRepo.FindByID(ctx, input.OrderID)
	if err != nil {
		return nil, err
	}

	order.UpdateStatus(input.Status)
	if err := c.orderRepo.UpdateStatus(ctx, order); err != nil {
		return nil, err
	}

	// 接続中であれば通知（fire-and-forget）
	notified := c.notifier.Notify(ctx, order.UserID, OrderStatusEvent{
		Type:    "order_status",
		OrderID: order.ID.String(),
		Status:  string(order.Status),
	})
	if !notified {
		slog.Debug("order status push skipped - user offline", "user_id", order.UserID)
	}

	return &UpdateOrderStatusOutput{
		Order:    order,
		Notified: notified,
	}, nil
}
