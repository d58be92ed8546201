package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/Hiro-mackay/gc-commerce/backend/internal/domain/entity"
)

// OrderRepository は注文リポジトリインターフェースを定義します
type OrderRepository interface {
	// FindByID はIDで注文を検索します
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Order, error)

	// UpdateStatus は注文ステータスを更新します
	UpdateStatus(ctx context.Context, order *entity.Order) error
}
