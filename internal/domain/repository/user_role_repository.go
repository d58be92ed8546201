package repository

import (
	"context"

	"github.com/Hiro-mackay/gc-commerce/backend/internal/domain/entity"
)

// UserRoleRepository はユーザーロールリポジトリインターフェースを定義します
type UserRoleRepository interface {
	// FindByUserID はユーザーIDでロール一覧を取得します
	FindByUserID(ctx context.Context, userID string) ([]*entity.UserRole, error)
}
