package entity

import (
	"time"

	"github.com/google/uuid"
)

// SupportSender はサポートメッセージの送信者種別を表します
type SupportSender string

const (
	SupportSenderUser    SupportSender = "user"
	SupportSenderSupport SupportSender = "support"
)

// SupportMessage はサポートチャットのメッセージを定義します
type SupportMessage struct {
	ID        uuid.UUID
	UserID    string // 会話の相手となる顧客のユーザーID
	Sender    SupportSender
	Content   string
	CreatedAt time.Time
}

// NewSupportMessage は新しいSupportMessageを作成します
func NewSupportMessage(userID string, sender SupportSender, content string) *SupportMessage {
	return &SupportMessage{
		ID:        uuid.New(),
		UserID:    userID,
		Sender:    sender,
		Content:   content,
		CreatedAt: time.Now(),
	}
}
