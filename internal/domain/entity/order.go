package entity

import (
	"time"

	"github.com/google/uuid"
)

// OrderStatus は注文ステータスを表します
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// IsValid はステータス値が定義済みかを判定します
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// Order は注文エンティティを定義します
// 注文の作成・明細はチェックアウトフロー（スコープ外）が所有し、
// 本システムはステータス更新と通知のみ扱います
type Order struct {
	ID        uuid.UUID
	UserID    string
	Status    OrderStatus
	Total     int64 // 最小通貨単位
	CreatedAt time.Time
	UpdatedAt time.Time
}

// UpdateStatus は注文ステータスを更新します
func (o *Order) UpdateStatus(status OrderStatus) {
	o.Status = status
	o.UpdatedAt = time.Now()
}
