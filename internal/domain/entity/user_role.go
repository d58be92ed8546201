package entity

import (
	"time"

	"github.com/google/uuid"
)

// ロール名
const (
	RoleCustomer = "customer"
	RoleSupport  = "support"
	RoleAdmin    = "admin"
)

// UserRole はユーザーに付与されたロールを定義します
type UserRole struct {
	ID        uuid.UUID
	UserID    string
	Role      string
	CreatedAt time.Time
}
