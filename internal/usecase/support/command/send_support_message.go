package command

import (
	"context"
	"log/slog"

	"github.com/Hiro-mackay/gc-commerce/backend/internal/domain/entity"
	"github.com/Hiro-mackay/gc-commerce/backend/internal/domain/repository"
	"github.com/Hiro-mackay/gc-commerce/backend/internal/domain/service"
	"github.com/Hiro-mackay/gc-commerce/backend/pkg/apperror"
)

// maxSupportMessageLength はサポートメッセージの最大文字数
const maxSupportMessageLength = 2000

// SendSupportMessageInput はサポートメッセージ送信の入力を定義します
type SendSupportMessageInput struct {
	UserID  string // 会話の相手となる顧客のユーザーID
	Sender  entity.SupportSender
	Content string
}

// SendSupportMessageOutput はサポートメッセージ送信の出力を定義します
type SendSupportMessageOutput struct {
	Message   *entity.SupportMessage
	Delivered bool // 相手にリアルタイム配信されたか
}

// SupportMessageEvent は相手にプッシュされるイベントペイロードです
type SupportMessageEvent struct {
	Type      string `json:"type"`
	MessageID string `json:"messageId"`
	Sender    string `json:"sender"`
	Content   string `json:"content"`
}

// SendSupportMessageCommand はサポートメッセージ送信コマンドです
// メッセージを永続化し、相手が接続中であればプッシュします。
// 未接続の場合は履歴のみ残り、リアルタイム配信は行われません
type SendSupportMessageCommand struct {
	messageRepo repository.SupportMessageRepository
	notifier    service.RealtimeNotifier
}

// NewSendSupportMessageCommand は新しいSendSupportMessageCommandを作成します
func NewSendSupportMessageCommand(
	messageRepo repository.SupportMessageRepository,
	notifier service.RealtimeNotifier,
) *SendSupportMessageCommand {
	return &SendSupportMessageCommand{
		messageRepo: messageRepo,
		notifier:    notifier,
	}
}

// Execute はサポートメッセージ送信を実行します
func (c *SendSupportMessageCommand) Execute(ctx context.Context, input SendSupportMessageInput) (*SendSupportMessageOutput, error) {
	if input.Content == "" {
		return nil, apperror.NewValidationError("content is required", nil)
	}
	if len([]rune(input.Content)) > maxSupportMessageLength {
		return nil, apperror.NewValidationError("content is too long", nil)
	}

	message := entity.NewSupportMessage(input.UserID, input.Sender, input.Content)
	if err := c.messageRepo.Create(ctx, message); err != nil {
		return nil, err
	}

	delivered := c.notifier.Notify(ctx, input.UserID, SupportMessageEvent{
		Type:      "support_message",
		MessageID: message.ID.String(),
		Sender:    string(message.Sender),
		Content:   message.Content,
	})
	if !delivered {
		slog.Debug("support message push skipped - user offline", "user_id", input.UserID)
	}

	return &SendSupportMessageOutput{
		Message:   message,
		Delivered: delivered,
	}, nil
}
