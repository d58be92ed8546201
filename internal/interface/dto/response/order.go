package response

import (
	"time"

	"github.com/Hiro-mackay/gc-commerce/backend/internal/domain/entity"
)

// OrderResponse は注文レスポンス
type OrderResponse struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Status    string    `json:"status"`
	Total     int64     `json:"total"`
	Notified  bool      `json:"notified"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ToOrderResponse はエンティティからレスポンスに変換します
func ToOrderResponse(order *entity.Order, notified bool) OrderResponse {
	return OrderResponse{
		ID:        order.ID.String(),
		UserID:    order.UserID,
		Status:    string(order.Status),
		Total:     order.Total,
		Notified:  notified,
		UpdatedAt: order.UpdatedAt,
	}
}
