package di

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/Hiro-mackay/gc-commerce/backend/internal/domain/repository"
	"github.com/Hiro-mackay/gc-commerce/backend/internal/infrastructure/cache"
	"github.com/Hiro-mackay/gc-commerce/backend/internal/infrastructure/database"
	infraRepo "github.com/Hiro-mackay/gc-commerce/backend/internal/infrastructure/repository"
	"github.com/Hiro-mackay/gc-commerce/backend/internal/interface/gateway"
	ordercmd "github.com/Hiro-mackay/gc-commerce/backend/internal/usecase/order/command"
	supportcmd "github.com/Hiro-mackay/gc-commerce/backend/internal/usecase/support/command"
	supportqry "github.com/Hiro-mackay/gc-commerce/backend/internal/usecase/support/query"
	"github.com/Hiro-mackay/gc-commerce/backend/pkg/config"
)

// Container はアプリケーションの依存関係を保持するDIコンテナです
type Container struct {
	// Infrastructure
	PgClient    *database.PostgresClient
	RedisClient *cache.RedisClient
	Pool        *pgxpool.Pool

	// Services
	RateLimiter *cache.RateLimiter

	// Repositories
	SessionRepo        repository.SessionRepository
	UserRoleRepo       repository.UserRoleRepository
	OrderRepo          repository.OrderRepository
	SupportMessageRepo repository.SupportMessageRepository

	// Gateway
	SessionValidator *gateway.SessionValidator
	Gateway          *gateway.Gateway

	// UseCases
	UpdateOrderStatus  *ordercmd.UpdateOrderStatusCommand
	SendSupportMessage *supportcmd.SendSupportMessageCommand
	GetSupportHistory  *supportqry.GetSupportHistoryQuery

	// config
	config *config.Config
}

// Options はContainer作成時のオプションを定義します
// テストでは外部から接続済みのプール/クライアントを注入できます
type Options struct {
	PostgresPool *pgxpool.Pool
	RedisClient  *redis.Client
}

// NewContainer は新しいContainerを作成します
func NewContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	return NewContainerWithOptions(ctx, cfg, Options{})
}

// NewContainerWithOptions はオプションを指定してContainerを作成します
func NewContainerWithOptions(ctx context.Context, cfg *config.Config, opts Options) (*Container, error) {
	c := &Container{
		config: cfg,
	}

	// PostgreSQL
	if opts.PostgresPool != nil {
		c.Pool = opts.PostgresPool
	} else {
		slog.Info("connecting to PostgreSQL...")
		pgClient, err := database.NewPostgresClient(ctx, cfg.Database.URL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
		}
		c.PgClient = pgClient
		c.Pool = pgClient.Pool()
		slog.Info("connected to PostgreSQL")
	}

	// Redis
	if opts.RedisClient != nil {
		c.RateLimiter = cache.NewRateLimiter(opts.RedisClient)
	} else {
		slog.Info("connecting to Redis...")
		redisConfig := cache.DefaultConfig()
		redisConfig.URL = cfg.Redis.URL
		redisClient, err := cache.NewRedisClient(redisConfig)
		if err != nil {
			c.Close()
			return nil, fmt.Errorf("failed to connect to Redis: %w", err)
		}
		c.RedisClient = redisClient
		c.RateLimiter = cache.NewRateLimiter(redisClient.Client())
		slog.Info("connected to Redis")
	}

	// Repositories
	c.SessionRepo = infraRepo.NewSessionRepository(c.Pool)
	c.UserRoleRepo = infraRepo.NewUserRoleRepository(c.Pool)
	c.OrderRepo = infraRepo.NewOrderRepository(c.Pool)
	c.SupportMessageRepo = infraRepo.NewSupportMessageRepository(c.Pool)

	// Gateway
	c.SessionValidator = gateway.NewSessionValidator(c.SessionRepo, cfg.Session.Secret, cfg.Session.CookieName)
	c.Gateway = gateway.New(
		cfg.Websocket,
		c.SessionValidator,
		c.UserRoleRepo,
		cfg.App.IsProduction(),
		cfg.Security.CORSOrigins,
	)

	// UseCases
	c.UpdateOrderStatus = ordercmd.NewUpdateOrderStatusCommand(c.OrderRepo, c.Gateway.Registry())
	c.SendSupportMessage = supportcmd.NewSendSupportMessageCommand(c.SupportMessageRepo, c.Gateway.Registry())
	c.GetSupportHistory = supportqry.NewGetSupportHistoryQuery(c.SupportMessageRepo)

	return c, nil
}

// Close はリソースをクリーンアップします
func (c *Container) Close() error {
	var errs []error

	if c.PgClient != nil {
		c.PgClient.Close()
	}

	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close Redis: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("errors during close: %v", errs)
	}
	return nil
}
