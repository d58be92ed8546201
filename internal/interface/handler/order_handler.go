package handler

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Hiro-mackay/gc-commerce/backend/internal/domain/entity"
	"github.com/Hiro-mackay/gc-commerce/backend/internal/interface/dto/request"
	"github.com/Hiro-mackay/gc-commerce/backend/internal/interface/dto/response"
	"github.com/Hiro-mackay/gc-commerce/backend/internal/interface/presenter"
	ordercmd "github.com/Hiro-mackay/gc-commerce/backend/internal/usecase/order/command"
	"github.com/Hiro-mackay/gc-commerce/backend/pkg/apperror"
)

// OrderHandler は注文関連のHTTPハンドラーです
type OrderHandler struct {
	updateOrderStatusCommand *ordercmd.UpdateOrderStatusCommand
}

// NewOrderHandler は新しいOrderHandlerを作成します
func NewOrderHandler(updateOrderStatusCommand *ordercmd.UpdateOrderStatusCommand) *OrderHandler {
	return &OrderHandler{
		updateOrderStatusCommand: updateOrderStatusCommand,
	}
}

// UpdateStatus は注文ステータスを更新し、接続中の注文者に通知します
// PATCH /api/orders/:id/status
func (h *OrderHandler) UpdateStatus(c echo.Context) error {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperror.NewInvalidRequestError("invalid order id")
	}

	var req request.UpdateOrderStatusRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewInvalidRequestError("invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	output, err := h.updateOrderStatusCommand.Execute(c.Request().Context(), ordercmd.UpdateOrderStatusInput{
		OrderID: orderID,
		Status:  entity.OrderStatus(req.Status),
	})
	if err != nil {
		return err
	}

	return presenter.OK(c, response.ToOrderResponse(output.Order, output.Notified))
}
