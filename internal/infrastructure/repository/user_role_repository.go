package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Hiro-mackay/gc-commerce/backend/internal/domain/entity"
	"github.com/Hiro-mackay/gc-commerce/backend/internal/domain/repository"
)

// UserRoleRepository はユーザーロールリポジトリの実装です
type UserRoleRepository struct {
	pool *pgxpool.Pool
}

// NewUserRoleRepository は新しいUserRoleRepositoryを作成します
func NewUserRoleRepository(pool *pgxpool.Pool) *UserRoleRepository {
	return &UserRoleRepository{pool: pool}
}

// FindByUserID はユーザーIDでロール一覧を取得します
// ロールが付与されていないユーザーには空スライスを返します
func (r *UserRoleRepository) FindByUserID(ctx context.Context, userID string) ([]*entity.UserRole, error) {
	const query = `SELECT id, user_id, role, created_at FROM user_roles WHERE user_id = $1 ORDER BY created_at`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to find user roles: %w", err)
	}
	defer rows.Close()

	roles := make([]*entity.UserRole, 0)
	for rows.Next() {
		var role entity.UserRole
		if err := rows.Scan(&role.ID, &role.UserID, &role.Role, &role.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan user role: %w", err)
		}
		roles = append(roles, &role)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate user roles: %w", err)
	}

	return roles, nil
}

// インターフェースの実装を保証
var _ repository.UserRoleRepository = (*UserRoleRepository)(nil)
