package entity

import (
	"time"
)

const (
	// SessionIDMinLength はセッションIDの最小長
	SessionIDMinLength = 20
	// SessionIDMaxLength はセッションIDの最大長
	SessionIDMaxLength = 128
)

// SessionData はセッションペイロードのうちゲートウェイが関知する部分を定義します
// ペイロード自体は不透明であり、未知のフィールドは保持されません
type SessionData struct {
	UserID    string   `json:"userId"`
	UserRoles []string `json:"userRoles,omitempty"`
}

// Session はセッションエンティティを定義します
// セッションの作成はログインフロー（スコープ外）が所有し、ゲートウェイは読み取りのみ行います
type Session struct {
	SID    string
	Data   SessionData
	Expire time.Time
}

// IsExpired はセッションが期限切れかを判定します
func (s *Session) IsExpired() bool {
	return time.Now().After(s.Expire)
}

// IsValid はセッションが有効かを判定します
func (s *Session) IsValid() bool {
	return !s.IsExpired()
}

// HasIdentity はペイロードに認証済みユーザーIDが含まれるかを判定します
func (s *Session) HasIdentity() bool {
	return s.Data.UserID != ""
}
