package request

// UpdateOrderStatusRequest は注文ステータス更新リクエスト
type UpdateOrderStatusRequest struct {
	Status string `json:"status" validate:"required,orderstatus"`
}
