package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Hiro-mackay/gc-commerce/backend/internal/domain/entity"
	"github.com/Hiro-mackay/gc-commerce/backend/internal/domain/repository"
	"github.com/Hiro-mackay/gc-commerce/backend/pkg/apperror"
)

// OrderRepository は注文リポジトリの実装です
type OrderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository は新しいOrderRepositoryを作成します
func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

// FindByID はIDで注文を検索します
func (r *OrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	const query = `SELECT id, user_id, status, total, created_at, updated_at FROM orders WHERE id = $1`

	var order entity.Order
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&order.ID,
		&order.UserID,
		&order.Status,
		&order.Total,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFoundError("order")
		}
		return nil, fmt.Errorf("failed to find order: %w", err)
	}

	return &order, nil
}

// UpdateStatus は注文ステータスを更新します
func (r *OrderRepository) UpdateStatus(ctx context.Context, order *entity.Order) error {
	const query = `UPDATE orders SET status = $2, updated_at = $3 WHERE id = $1`

	tag, err := r.pool.Exec(ctx, query, order.ID, order.Status, order.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFoundError("order")
	}

	return nil
}

// インターフェースの実装を保証
var _ repository.OrderRepository = (*OrderRepository)(nil)
