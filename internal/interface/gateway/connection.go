package gateway

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
)

const (
	// writeWait は1フレームの書き込みに許容する時間
	writeWait = 10 * time.Second

	// sendQueueSize は接続ごとの送信キューの長さ
	sendQueueSize = 256
)

// Connection は認証済みの単一WebSocket接続を表します
//
// ライフサイクル: 受理時にALIVE、ハートビート未応答・明示的クローズ・
// トランスポートエラーのいずれでも同一のクリーンアップ経路（teardown）を通って
// 終了します。クリーンアップはタイマー停止、レジストリ・レート制限マップ・
// IPごとの接続セットからの除去をすべて行います
type Connection struct {
	userID string
	ip     string
	ws     *websocket.Conn
	gw     *Gateway

	send      chan []byte
	done      chan struct{}
	alive     atomic.Bool
	closeOnce sync.Once
}

// newConnection は新しいConnectionを作成します
func newConnection(gw *Gateway, ws *websocket.Conn, userID, ip string) *Connection {
	c := &Connection{
		userID: userID,
		ip:     ip,
		ws:     ws,
		gw:     gw,
		send:   make(chan []byte, sendQueueSize),
		done:   make(chan struct{}),
	}
	c.alive.Store(true)
	return c
}

// UserID は接続の認証済みユーザーIDを返します
func (c *Connection) UserID() string {
	return c.userID
}

// IP は接続元のネットワークアドレスを返します
func (c *Connection) IP() string {
	return c.ip
}

// Send はフレームを送信キューに載せます
// 接続が終了済み、またはキューが満杯の場合はfalseを返します（配信保証なし）
func (c *Connection) Send(event any) bool {
	data, err := json.Marshal(event)
	if err != nil {
		slog.Error("failed to marshal websocket frame", "user_id", c.userID, "error", err)
		return false
	}

	select {
	case <-c.done:
		return false
	case c.send <- data:
		return true
	default:
		return false
	}
}

// readPump はインテークパイプラインを実行します
// メッセージごとに、サイズ上限→レート制限→パース→ディスパッチの順で処理します
func (c *Connection) readPump() {
	defer c.teardown()

	// サイズ上限+1までは読み取り、明示チェックで1009クローズする
	// それを超えるフレームはトランスポート層の読み取り制限が落とす
	c.ws.SetReadLimit(c.gw.cfg.MaxMessageSize + 1)
	c.ws.SetPongHandler(func(string) error {
		c.alive.Store(true)
		return nil
	})

	for {
		_, data, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseNormalClosure,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure,
			) {
				slog.Error("websocket read error", "user_id", c.userID, "error", err)
			}
			return
		}

		// 1. サイズ上限: 超過は1009で切断し、以降の処理は行わない
		if int64(len(data)) > c.gw.cfg.MaxMessageSize {
			slog.Warn("websocket message too large",
				"user_id", c.userID,
				"size", len(data),
				"max_size", c.gw.cfg.MaxMessageSize,
			)
			c.closeWith(websocket.CloseMessageTooBig, ReasonMessageTooLarge)
			return
		}

		// 2. レート制限: 超過は切断せず、通知フレームを返してメッセージを破棄する
		// ウィンドウのリセットを待てば回復するため、唯一のリトライ可能な拒否
		if !c.gw.msgLimiter.Allow(c.userID) {
			slog.Warn("websocket message rate limit exceeded", "user_id", c.userID)
			c.Send(Frame{
				Type:    FrameTypeRateLimit,
				Message: "Too many messages, please wait a minute",
			})
			continue
		}

		// 3. パース: 失敗はログのみで黙って破棄し、接続は維持する
		var msg InboundMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			slog.Error("websocket message parse error", "user_id", c.userID, "error", err)
			continue
		}

		// 4. ディスパッチ（拡張ポイント）
		if handler := c.gw.messageHandler; handler != nil {
			handler(context.Background(), c, &msg)
		}
	}
}

// writePump は送信キューとハートビートを処理します
// 書き込みはこのゴルーチンに直列化されます
func (c *Connection) writePump() {
	ticker := time.NewTicker(c.gw.cfg.HeartbeatInterval)
	defer func() {
		ticker.Stop()
		c.teardown()
	}()

	for {
		select {
		case <-c.done:
			return

		case data := <-c.send:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.TextMessage, data); err != nil {
				slog.Error("websocket write error", "user_id", c.userID, "error", err)
				return
			}

		case <-ticker.C:
			// 前回のプローブに応答がなければ死んだ接続として強制終了する
			if !c.alive.Load() {
				slog.Warn("websocket connection timeout - no pong received", "user_id", c.userID)
				return
			}
			c.alive.Store(false)
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// closeWith はクローズフレームを送信してから接続を終了します
func (c *Connection) closeWith(code int, reason string) {
	deadline := time.Now().Add(writeWait)
	_ = c.ws.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(code, reason), deadline)
	c.teardown()
}

// teardown は統一クリーンアップ経路です
// どの終了経路（ハートビートタイムアウト・明示的クローズ・トランスポートエラー）
// から呼ばれても一度だけ実行されます
func (c *Connection) teardown() {
	c.closeOnce.Do(func() {
		close(c.done)
		c.gw.cleanup(c)
		_ = c.ws.Close()
	})
}
