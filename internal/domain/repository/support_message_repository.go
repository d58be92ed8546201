package repository

import (
	"context"

	"github.com/Hiro-mackay/gc-commerce/backend/internal/domain/entity"
)

// SupportMessageRepository はサポートメッセージリポジトリインターフェースを定義します
type SupportMessageRepository interface {
	// Create はサポートメッセージを保存します
	Create(ctx context.Context, message *entity.SupportMessage) error

	// FindByUserID はユーザーの会話履歴を新しい順に取得します
	FindByUserID(ctx context.Context, userID string, limit int) ([]*entity.SupportMessage, error)
}
