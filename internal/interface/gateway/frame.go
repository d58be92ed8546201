package gateway

import "encoding/json"

// サーバー→クライアントのフレーム種別
const (
	FrameTypeAuthSuccess    = "auth_success"
	FrameTypeRateLimit      = "rate_limit"
	FrameTypeOrderStatus    = "order_status"
	FrameTypeSupportMessage = "support_message"
)

// 接続拒否・切断時のクローズ理由（1008 = ポリシー違反、1009 = メッセージ過大）
const (
	ReasonTooManyConcurrent = "Maximum concurrent connections exceeded"
	ReasonInvalidOrigin     = "Invalid origin"
	ReasonTooManyConnects   = "Too many connections"
	ReasonUnauthorized      = "Unauthorized - invalid session"
	ReasonMessageTooLarge   = "Message too large"
)

// Frame はサーバー→クライアントのJSONフレームを定義します
// 1フレームに1オブジェクト
type Frame struct {
	Type    string `json:"type"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// InboundMessage はクライアント→サーバーのメッセージを定義します
// 現時点でインテークを越えて処理されるメッセージ種別はなく、
// チャットや注文ACKのハンドラーが接続する拡張ポイントです
type InboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}
