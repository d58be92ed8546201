package response

import (
	"time"

	"github.com/Hiro-mackay/gc-commerce/backend/internal/domain/entity"
)

// SupportMessageResponse はサポートメッセージレスポンス
type SupportMessageResponse struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Sender    string    `json:"sender"`
	Content   string    `json:"content"`
	Delivered bool      `json:"delivered,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// ToSupportMessageResponse はエンティティからレスポンスに変換します
func ToSupportMessageResponse(message *entity.SupportMessage, delivered bool) SupportMessageResponse {
	return SupportMessageResponse{
		ID:        message.ID.String(),
		UserID:    message.UserID,
		Sender:    string(message.Sender),
		Content:   message.Content,
		Delivered: delivered,
		CreatedAt: message.CreatedAt,
	}
}

// ToSupportMessageListResponse はエンティティのスライスから変換します
func ToSupportMessageListResponse(messages []*entity.SupportMessage) []SupportMessageResponse {
	result := make([]SupportMessageResponse, 0, len(messages))
	for _, m := range messages {
		result = append(result, ToSupportMessageResponse(m, false))
	}
	return result
}

// PresenceResponse は在席状態レスポンス
type PresenceResponse struct {
	UserID string `json:"user_id"`
	Online bool   `json:"online"`
}
