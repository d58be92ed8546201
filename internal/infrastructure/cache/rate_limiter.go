package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// PrefixRateLimit はレート制限キーのプレフィックスです
const PrefixRateLimit = "ratelimit"

// RateLimitResult はレート制限チェックの結果を表します
type RateLimitResult struct {
	Allowed   bool      // リクエストが許可されたか
	Remaining int       // 残りリクエスト数
	ResetAt   time.Time // リセット時刻
}

// RateLimitConfig はレート制限の設定を定義します
type RateLimitConfig struct {
	Type     string        // 制限タイプ（orders, support等）
	Requests int           // ウィンドウ内の最大リクエスト数
	Window   time.Duration // ウィンドウサイズ
}

// RateLimiter はRedisバックエンドのレート制限を提供します
// REST API向け。ゲートウェイのコネクション単位の制限はgatewayパッケージの
// インメモリ実装が担います
type RateLimiter struct {
	client *redis.Client
}

// NewRateLimiter は新しいRateLimiterを作成します
func NewRateLimiter(client *redis.Client) *RateLimiter {
	return &RateLimiter{client: client}
}

// Fixed Window Counter
// Luaスクリプトでアトミックに処理
var fixedWindowScript = redis.NewScript(`
    local key = KEYS[1]
    local limit = tonumber(ARGV[1])
    local window = tonumber(ARGV[2])

    local current = redis.call('INCR', key)
    if current == 1 then
        redis.call('EXPIRE', key, window)
    end

    if current <= limit then
        return {1, limit - current}
    else
        local ttl = redis.call('TTL', key)
        return {0, ttl}
    end
`)

// Allow はリクエストが許可されるかチェックします（Fixed Window）
func (r *RateLimiter) Allow(ctx context.Context, identifier string, config RateLimitConfig) (*RateLimitResult, error) {
	now := time.Now()
	windowStart := now.Truncate(config.Window)
	key := RateLimitKey(config.Type, identifier, windowStart.Unix())

	result, err := fixedWindowScript.Run(ctx, r.client, []string{key}, config.Requests, int(config.Window.Seconds())).Slice()
	if err != nil {
		return nil, fmt.Errorf("failed to check rate limit: %w", err)
	}

	allowed := result[0].(int64) == 1
	secondValue := result[1].(int64)

	if allowed {
		return &RateLimitResult{
			Allowed:   true,
			Remaining: int(secondValue),
			ResetAt:   windowStart.Add(config.Window),
		}, nil
	}

	return &RateLimitResult{
		Allowed:   false,
		Remaining: 0,
		ResetAt:   windowStart.Add(config.Window),
	}, nil
}

// RateLimitKey はレート制限キーを生成します
func RateLimitKey(limitType, identifier string, windowStart int64) string {
	return fmt.Sprintf("%s:%s:%s:%d", PrefixRateLimit, limitType, identifier, windowStart)
}
