package middleware

import (
	"github.com/labstack/echo/v4"
)

// コンテキストキー
const (
	ContextKeyUserID    = "user_id"
	ContextKeyUserRoles = "user_roles"
)

// GetUserID はコンテキストから認証済みユーザーIDを取得します
func GetUserID(c echo.Context) string {
	if id, ok := c.Get(ContextKeyUserID).(string); ok {
		return id
	}
	return ""
}

// GetUserRoles はコンテキストからユーザーロールを取得します
func GetUserRoles(c echo.Context) []string {
	if roles, ok := c.Get(ContextKeyUserRoles).([]string); ok {
		return roles
	}
	return nil
}

// HasRole はコンテキストのユーザーが指定ロールを持つかを判定します
func HasRole(c echo.Context, role string) bool {
	for _, r := range GetUserRoles(c) {
		if r == role {
			return true
		}
	}
	return false
}
