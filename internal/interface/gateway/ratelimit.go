package gateway

import (
	"sync"
	"time"
)

// rateWindow は単一キーのウィンドウ状態を表します
type rateWindow struct {
	count   int
	resetAt time.Time
}

// FixedWindowLimiter はインメモリのFixed Windowレート制限を提供します
// ウィンドウ境界でのバーストを許す意図的な簡略化であり、より滑らかな制限が
// 必要になった場合は同じAllow契約の下でアルゴリズムを差し替えられます
type FixedWindowLimiter struct {
	mu      sync.Mutex
	windows map[string]*rateWindow
	window  time.Duration
	limit   int
}

// NewFixedWindowLimiter は新しいFixedWindowLimiterを作成します
func NewFixedWindowLimiter(window time.Duration, limit int) *FixedWindowLimiter {
	return &FixedWindowLimiter{
		windows: make(map[string]*rateWindow),
		window:  window,
		limit:   limit,
	}
}

// Allow はキーに対するリクエストが許可されるかチェックします
// 許可された呼び出しのみカウントを進めます。ウィンドウ期限を越えていた場合は
// カウントを0にリセットし、新しいウィンドウを開始します（繰り越しなし）
func (l *FixedWindowLimiter) Allow(key string) bool {
	now := time.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	w, ok := l.windows[key]
	if !ok {
		w = &rateWindow{resetAt: now.Add(l.window)}
		l.windows[key] = w
	}

	if now.After(w.resetAt) {
		w.count = 0
		w.resetAt = now.Add(l.window)
	}

	if w.count >= l.limit {
		return false
	}

	w.count++
	return true
}

// Remove はキーのウィンドウ状態を削除します（接続クリーンアップ用）
func (l *FixedWindowLimiter) Remove(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.windows, key)
}

// Sweep は期限切れウィンドウを削除し、削除件数を返します
// アクティブなキーのみにメモリ使用量を抑えるため定期的に呼び出されます
func (l *FixedWindowLimiter) Sweep(now time.Time) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	removed := 0
	for key, w := range l.windows {
		if now.After(w.resetAt) {
			delete(l.windows, key)
			removed++
		}
	}
	return removed
}

// Size は現在追跡中のキー数を返します
func (l *FixedWindowLimiter) Size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.windows)
}
