package gateway

import (
	"context"
	"log/slog"
	"sync"

	"github.com/Hiro-mackay/gc-commerce/backend/internal/domain/service"
)

// registryEntry は接続中ユーザーのエントリを表します
type registryEntry struct {
	conn  *Connection
	roles []string
}

// Registry は認証済みユーザーIDから生きている接続へのマッピングを提供します
//
// ユーザーIDにつきエントリは常に1つです。同一ユーザーからの新しい接続は
// 既存エントリを置き換えます（last-writer-wins）。置き換えられた古いソケットは
// 積極的には閉じられず、自身のハートビート・ライフサイクルによって破棄されます
//
// 外部のコンポーネント（注文・サポート）はRealtimeNotifierとして参照し、
// 特定ユーザーへイベントをプッシュします。未接続ユーザー宛のイベントは
// キューイングされず破棄されます（at-most-once）
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*registryEntry
}

// NewRegistry は新しいRegistryを作成します
func NewRegistry() *Registry {
	return &Registry{
		entries: make(map[string]*registryEntry),
	}
}

// register は接続を登録します。既存エントリは置き換えられます
func (r *Registry) register(userID string, conn *Connection, roles []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[userID] = &registryEntry{conn: conn, roles: roles}
}

// deregister は接続を登録解除します
// 置き換え済みの古い接続のクリーンアップが後続の接続を
// 追い出さないよう、現在のエントリが同一接続の場合のみ削除します
func (r *Registry) deregister(userID string, conn *Connection) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if entry, ok := r.entries[userID]; ok && entry.conn == conn {
		delete(r.entries, userID)
	}
}

// Lookup はユーザーIDで接続とロールを検索します
func (r *Registry) Lookup(userID string) (*Connection, []string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.entries[userID]
	if !ok {
		return nil, nil, false
	}
	return entry.conn, entry.roles, true
}

// Count は接続中ユーザー数を返します
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Notify はイベントを指定ユーザーに送信します
// ユーザーが未接続の場合や送信キューが満杯の場合はfalseを返します
func (r *Registry) Notify(ctx context.Context, userID string, event any) bool {
	conn, _, ok := r.Lookup(userID)
	if !ok {
		return false
	}

	if !conn.Send(event) {
		slog.Warn("realtime event dropped", "user_id", userID)
		return false
	}
	return true
}

// IsOnline はユーザーが現在接続中かを返します
func (r *Registry) IsOnline(userID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.entries[userID]
	return ok
}

// インターフェースの実装を保証
var _ service.RealtimeNotifier = (*Registry)(nil)
