package query

import (
	"context"

	"github.com/Hiro-mackay/gc-commerce/backend/internal/domain/entity"
	"github.com/Hiro-mackay/gc-commerce/backend/internal/domain/repository"
)

// デフォルト・最大取得件数
const (
	defaultHistoryLimit = 50
	maxHistoryLimit     = 200
)

// GetSupportHistoryInput はサポート履歴取得の入力を定義します
type GetSupportHistoryInput struct {
	UserID string
	Limit  int
}

// GetSupportHistoryOutput はサポート履歴取得の出力を定義します
type GetSupportHistoryOutput struct {
	Messages []*entity.SupportMessage
}

// GetSupportHistoryQuery はサポート履歴取得クエリです
type GetSupportHistoryQuery struct {
	messageRepo repository.SupportMessageRepository
}

// NewGetSupportHistoryQuery は新しいGetSupportHistoryQueryを作成します
func NewGetSupportHistoryQuery(messageRepo repository.SupportMessageRepository) *GetSupportHistoryQuery {
	return &GetSupportHistoryQuery{
		messageRepo: messageRepo,
	}
}

// Execute はサポート履歴取得を実行します
func (q *GetSupportHistoryQuery) Execute(ctx context.Context, input GetSupportHistoryInput) (*GetSupportHistoryOutput, error) {
	limit := input.Limit
	if limit < 1 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}

	messages, err := q.messageRepo.FindByUserID(ctx, input.UserID, limit)
	if err != nil {
		return nil, err
	}

	return &GetSupportHistoryOutput{Messages: messages}, nil
}
