package gateway

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/Hiro-mackay/gc-commerce/backend/internal/domain/repository"
	"github.com/Hiro-mackay/gc-commerce/backend/pkg/config"
)

// MessageHandler はインテークを通過したメッセージの処理フックです
type MessageHandler func(ctx context.Context, conn *Connection, msg *InboundMessage)

// Gateway はリアルタイム接続ゲートウェイを提供します
//
// 単一のWebSocketエンドポイントで、セッションCookieによる認証、
// ユーザー単位のサーバー起点イベント配信、リソース枯渇
// （接続フラッド・メッセージフラッド・過大ペイロード・死んだソケット）への
// 防御を行います
//
// 共有状態（レジストリ・レート制限ウィンドウ・IPごとの接続セット）は
// すべてGatewayが所有し、ミューテックスで直列化されます。レジストリのみ
// 外部コンポーネント（注文・サポート）から参照されます
type Gateway struct {
	cfg            config.WebsocketConfig
	validator      *SessionValidator
	userRoles      repository.UserRoleRepository
	registry       *Registry
	connLimiter    *FixedWindowLimiter
	msgLimiter     *FixedWindowLimiter
	upgrader       websocket.Upgrader
	production     bool
	allowedOrigins []string
	messageHandler MessageHandler

	mu      sync.Mutex
	ipConns map[string]map[*Connection]struct{}
}

// New は新しいGatewayを作成します
func New(
	cfg config.WebsocketConfig,
	validator *SessionValidator,
	userRoles repository.UserRoleRepository,
	production bool,
	allowedOrigins []string,
) *Gateway {
	return &Gateway{
		cfg:         cfg,
		validator:   validator,
		userRoles:   userRoles,
		registry:    NewRegistry(),
		connLimiter: NewFixedWindowLimiter(cfg.ConnectionWindow, cfg.ConnectionLimit),
		msgLimiter:  NewFixedWindowLimiter(cfg.MessageWindow, cfg.MessageLimit),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// オリジンは受理判定（admit）の中で1008クローズとして扱うため、
			// アップグレード自体は常に許可する
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		production:     production,
		allowedOrigins: allowedOrigins,
		ipConns:        make(map[string]map[*Connection]struct{}),
	}
}

// Registry は接続レジストリを返します
func (g *Gateway) Registry() *Registry {
	return g.registry
}

// SetMessageHandler はメッセージ処理フックを設定します
func (g *Gateway) SetMessageHandler(handler MessageHandler) {
	g.messageHandler = handler
}

// Handle はWebSocketアップグレードエンドポイントのechoハンドラーです
// GET /ws
func (g *Gateway) Handle(c echo.Context) error {
	g.serve(c.Response(), c.Request())
	return nil
}

// serve は接続の受理判定と登録を行います
//
// チェックは順に短絡します:
// IPごとの同時接続上限 → オリジン（本番のみ） → 接続レート → セッション検証。
// 登録前に拒否された接続も状態を残さないため、攻撃トラフィックが継続しても
// リソースはリークしません
func (g *Gateway) serve(w http.ResponseWriter, r *http.Request) {
	ws, err := g.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("websocket upgrade failed", "error", err)
		return
	}

	ip := clientIP(r)

	// 1. IPごとの同時接続上限
	if g.ipConnCount(ip) >= g.cfg.MaxConnectionsPerIP {
		slog.Warn("too many concurrent websocket connections from IP",
			"client_ip", ip,
			"count", g.ipConnCount(ip),
		)
		rejectClose(ws, websocket.ClosePolicyViolation, ReasonTooManyConcurrent)
		return
	}

	// 2. オリジン検証（本番のみ）
	if g.production {
		origin := r.Header.Get("Origin")
		if !g.originAllowed(origin) {
			slog.Warn("websocket connection from invalid origin",
				"origin", origin,
				"client_ip", ip,
			)
			rejectClose(ws, websocket.ClosePolicyViolation, ReasonInvalidOrigin)
			return
		}
	}

	// 3. 接続レート制限
	if !g.connLimiter.Allow(ip) {
		slog.Warn("websocket connection rate limit exceeded", "client_ip", ip)
		rejectClose(ws, websocket.ClosePolicyViolation, ReasonTooManyConnects)
		return
	}

	// 4. セッション検証
	// どの検証に失敗したかは漏らさない（すべて同一の拒否にする）
	principal := g.validator.Validate(r.Context(), r.Header.Get("Cookie"))
	if principal == nil {
		slog.Warn("websocket connection rejected - invalid session", "client_ip", ip)
		rejectClose(ws, websocket.ClosePolicyViolation, ReasonUnauthorized)
		return
	}

	// ロールはセッションペイロードではなくDBの値を正とする
	roles := g.resolveRoles(r.Context(), principal)

	conn := newConnection(g, ws, principal.UserID, ip)
	g.addIPConn(ip, conn)
	g.registry.register(principal.UserID, conn, roles)

	slog.Info("websocket connection established",
		"user_id", principal.UserID,
		"roles", roles,
	)

	conn.Send(Frame{
		Type:    FrameTypeAuthSuccess,
		Message: "Connection established",
	})

	go conn.writePump()
	go conn.readPump()
}

// resolveRoles はDBからユーザーロールを取得します
// 取得に失敗した場合はセッションペイロードのロールにフォールバックします
func (g *Gateway) resolveRoles(ctx context.Context, principal *Principal) []string {
	records, err := g.userRoles.FindByUserID(ctx, principal.UserID)
	if err != nil {
		slog.Warn("failed to load user roles, falling back to session payload",
			"user_id", principal.UserID,
			"error", err,
		)
		return principal.Roles
	}

	roles := make([]string, 0, len(records))
	for _, record := range records {
		roles = append(roles, record.Role)
	}
	return roles
}

// originAllowed はオリジンが許可リストに含まれるかを判定します
func (g *Gateway) originAllowed(origin string) bool {
	if origin == "" {
		return false
	}
	for _, allowed := range g.allowedOrigins {
		if origin == allowed {
			return true
		}
	}
	return false
}

// Sweep は両方のレート制限マップから期限切れウィンドウを削除します
// workerのrate_limit_sweepジョブから定期的に呼び出されます
func (g *Gateway) Sweep(now time.Time) int {
	return g.connLimiter.Sweep(now) + g.msgLimiter.Sweep(now)
}

// cleanup は接続の共有状態をすべて除去します（teardownから一度だけ呼ばれます）
func (g *Gateway) cleanup(c *Connection) {
	g.registry.deregister(c.userID, c)
	g.msgLimiter.Remove(c.userID)
	g.removeIPConn(c.ip, c)
}

// ipConnCount はIPの現在の接続数を返します
func (g *Gateway) ipConnCount(ip string) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.ipConns[ip])
}

// addIPConn は接続をIPごとのセットに追加します
func (g *Gateway) addIPConn(ip string, c *Connection) {
	g.mu.Lock()
	defer g.mu.Unlock()
	set, ok := g.ipConns[ip]
	if !ok {
		set = make(map[*Connection]struct{})
		g.ipConns[ip] = set
	}
	set[c] = struct{}{}
}

// removeIPConn は接続をIPごとのセットから除去します
// セットが空になったらエントリごと削除し、メモリを有界に保ちます
func (g *Gateway) removeIPConn(ip string, c *Connection) {
	g.mu.Lock()
	defer g.mu.Unlock()
	set, ok := g.ipConns[ip]
	if !ok {
		return
	}
	delete(set, c)
	if len(set) == 0 {
		delete(g.ipConns, ip)
	}
}

// rejectClose は受理前の接続をクローズフレーム付きで拒否します
func rejectClose(ws *websocket.Conn, code int, reason string) {
	deadline := time.Now().Add(writeWait)
	_ = ws.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(code, reason), deadline)
	_ = ws.Close()
}

// clientIP はクライアントのネットワークアドレスを解決します
// X-Forwarded-Forの先頭エントリを優先し、なければソケットのリモートアドレスを使います
func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
