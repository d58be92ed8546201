package worker

import (
	"context"
	"log/slog"
	"time"
)

// NewRateLimitSweepJob はレート制限ウィンドウの掃除ジョブを作成します
// sweepFn は期限切れウィンドウを削除し、削除件数を返します
func NewRateLimitSweepJob(sweepFn func(now time.Time) int, interval time.Duration) Job {
	return Job{
		Name:     "rate_limit_sweep",
		Interval: interval,
		Fn: func(ctx context.Context) error {
			removed := sweepFn(time.Now())
			if removed > 0 {
				slog.Debug("rate limit sweep completed", "removed", removed)
			}
			return nil
		},
	}
}

// NewHealthCheckJob はヘルスチェックジョブを作成します（データベース接続確認など）
func NewHealthCheckJob(checkFn func(ctx context.Context) error) Job {
	return Job{
		Name:     "health_check",
		Interval: 5 * time.Minute,
		Fn: func(ctx context.Context) error {
			if err := checkFn(ctx); err != nil {
				slog.Warn("health check failed", "error", err)
				return err
			}
			return nil
		},
	}
}
