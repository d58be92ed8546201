package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Hiro-mackay/gc-commerce/backend/internal/domain/entity"
	"github.com/Hiro-mackay/gc-commerce/backend/internal/domain/repository"
)

// SupportMessageRepository はサポートメッセージリポジトリの実装です
type SupportMessageRepository struct {
	pool *pgxpool.Pool
}

// NewSupportMessageRepository は新しいSupportMessageRepositoryを作成します
func NewSupportMessageRepository(pool *pgxpool.Pool) *SupportMessageRepository {
	return &SupportMessageRepository{pool: pool}
}

// Create はサポートメッセージを保存します
func (r *SupportMessageRepository) Create(ctx context.Context, message *entity.SupportMessage) error {
	const query = `INSERT INTO support_messages (id, user_id, sender, content, created_at) VALUES ($1, $2, $3, $4, $5)`

	_, err := r.pool.Exec(ctx, query,
		message.ID,
		message.UserID,
		message.Sender,
		message.Content,
		message.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create support message: %w", err)
	}

	return nil
}

// FindByUserID はユーザーの会話履歴を新しい順に取得します
func (r *SupportMessageRepository) FindByUserID(ctx context.Context, userID string, limit int) ([]*entity.SupportMessage, error) {
	const query = `SELECT id, user_id, sender, content, created_at FROM support_messages WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2`

	rows, err := r.pool.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to find support messages: %w", err)
	}
	defer rows.Close()

	messages := make([]*entity.SupportMessage, 0)
	for rows.Next() {
		var msg entity.SupportMessage
		if err := rows.Scan(&msg.ID, &msg.UserID, &msg.Sender, &msg.Content, &msg.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan support message: %w", err)
		}
		messages = append(messages, &msg)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate support messages: %w", err)
	}

	return messages, nil
}

// インターフェースの実装を保証
var _ repository.SupportMessageRepository = (*SupportMessageRepository)(nil)
