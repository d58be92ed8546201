package request

// SendSupportMessageRequest はサポートメッセージ送信リクエスト
// UserIDはサポートスタッフが顧客宛に送る場合のみ指定します
type SendSupportMessageRequest struct {
	UserID  string `json:"user_id" validate:"omitempty,max=128"`
	Content string `json:"content" validate:"required,max=2000"`
}
