package repository

import (
	"context"

	"github.com/Hiro-mackay/gc-commerce/backend/internal/domain/entity"
)

// SessionRepository はセッションリポジトリインターフェースを定義します
// セッションの作成・削除はログインフロー（スコープ外）が所有するため読み取りのみです
type SessionRepository interface {
	// FindBySID はセッションIDでセッションを検索します
	FindBySID(ctx context.Context, sid string) (*entity.Session, error)
}
