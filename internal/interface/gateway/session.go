package gateway

import (
	"context"
	"log/slog"
	"net/url"
	"regexp"
	"strings"

	"github.com/Hiro-mackay/gc-commerce/backend/internal/domain/repository"
	"github.com/Hiro-mackay/gc-commerce/backend/pkg/signature"
)

// signedCookiePrefix は署名付きCookie値のマーカーです（express-session互換）
const signedCookiePrefix = "s:"

// sessionIDPattern はセッションIDの厳格なフォーマットを定義します
var sessionIDPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]{20,128}$`)

// Principal は認証済みの接続主体を表します
type Principal struct {
	UserID string
	Roles  []string
}

// SessionValidator はCookieヘッダーからセッションを検証します
//
// すべての失敗経路は区別なくnilに収束します。署名不正・フォーマット不正・
// セッション不在・期限切れのいずれであるかを呼び出し側が識別できないように
// することで、トークン列挙や改竄の試行に情報を与えません
type SessionValidator struct {
	sessions   repository.SessionRepository
	secret     string
	cookieName string
}

// NewSessionValidator は新しいSessionValidatorを作成します
func NewSessionValidator(sessions repository.SessionRepository, secret, cookieName string) *SessionValidator {
	return &SessionValidator{
		sessions:   sessions,
		secret:     secret,
		cookieName: cookieName,
	}
}

// Validate はCookieヘッダーを検証し、認証済み主体を返します
// いずれかの検証に失敗した場合はnilを返します
func (v *SessionValidator) Validate(ctx context.Context, cookieHeader string) *Principal {
	if cookieHeader == "" {
		return nil
	}

	rawValue, ok := parseCookie(cookieHeader, v.cookieName)
	if !ok {
		return nil
	}

	decoded, err := url.QueryUnescape(rawValue)
	if err != nil {
		return nil
	}

	if !strings.HasPrefix(decoded, signedCookiePrefix) {
		return nil
	}

	sid, ok := signature.Unsign(decoded[len(signedCookiePrefix):], v.secret)
	if !ok {
		return nil
	}

	if !sessionIDPattern.MatchString(sid) {
		// 署名は正しいがIDフォーマットが不正: 改竄の可能性
		slog.Warn("invalid session ID format detected")
		return nil
	}

	session, err := v.sessions.FindBySID(ctx, sid)
	if err != nil {
		return nil
	}

	if session.IsExpired() {
		slog.Warn("expired session detected on websocket connection",
			"sid", sid,
			"expired_at", session.Expire,
		)
		return nil
	}

	if !session.HasIdentity() {
		return nil
	}

	return &Principal{
		UserID: session.Data.UserID,
		Roles:  session.Data.UserRoles,
	}
}

// parseCookie はCookieヘッダーから指定名の値を取り出します
func parseCookie(header, name string) (string, bool) {
	for _, part := range strings.Split(header, ";") {
		key, value, found := strings.Cut(strings.TrimSpace(part), "=")
		if !found {
			continue
		}
		if key == name && value != "" {
			return value, true
		}
	}
	return "", false
}
