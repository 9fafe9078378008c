package main

import (
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	appuser "github.com/xiebiao/bookreview/internal/application/user"
	"github.com/xiebiao/bookreview/internal/domain/book"
	"github.com/xiebiao/bookreview/internal/domain/rating"
	"github.com/xiebiao/bookreview/internal/domain/review"
	"github.com/xiebiao/bookreview/internal/domain/user"
	"github.com/xiebiao/bookreview/internal/infrastructure/config"
	"github.com/xiebiao/bookreview/internal/infrastructure/persistence/mysql"
	redisstore "github.com/xiebiao/bookreview/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/bookreview/internal/interface/http/middleware"
	"github.com/xiebiao/bookreview/pkg/circuitbreaker"
	"github.com/xiebiao/bookreview/pkg/jwt"
	"github.com/xiebiao/bookreview/pkg/mq"
)

// 自定义Provider：构造函数的参数需要从Config中提取，或需要返回cleanup

// provideDB 数据库连接，cleanup关闭连接池
func provideDB(cfg *config.Config, logger *zap.Logger) (*gorm.DB, func(), error) {
	db, err := mysql.NewDB(cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	return db, cleanup, nil
}

// provideRedis Redis连接，cleanup关闭客户端
func provideRedis(cfg *config.Config, logger *zap.Logger) (*redis.Client, func(), error) {
	client, err := redisstore.NewClient(cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	return client, func() { _ = client.Close() }, nil
}

// providePublisher 评分事件发布者
// 未启用消息队列时返回nil接口（聚合器跳过发布）
// Broker连续失败5次后熔断30秒，期间发布直接失败（只记录日志）
func providePublisher(cfg *config.Config, logger *zap.Logger) (rating.EventPublisher, func(), error) {
	if !cfg.MQ.Enabled {
		return nil, func() {}, nil
	}
	publisher, err := mq.NewPublisher(cfg.MQ.URL, cfg.MQ.Exchange, "topic", logger)
	if err != nil {
		return nil, nil, err
	}

	breaker := circuitbreaker.New(circuitbreaker.Settings{
		Name:          "mq." + cfg.MQ.Exchange,
		Interval:      time.Minute,
		Timeout:       30 * time.Second,
		OnStateChange: mq.LogStateChange(logger),
	})
	return mq.Guard(publisher, breaker), func() { _ = publisher.Close() }, nil
}

func provideJWTManager(cfg *config.Config) *jwt.Manager {
	return jwt.NewManager(cfg.JWT.Secret, cfg.JWT.AccessTokenExpire)
}

func provideUserService(cfg *config.Config, repo user.Repository) user.Service {
	return user.NewService(repo, cfg.Auth.BcryptCost)
}

func provideAggregator(reviews review.Repository, books book.Repository, publisher rating.EventPublisher, logger *zap.Logger) *rating.Aggregator {
	return rating.NewAggregator(reviews, books, publisher, logger)
}

func provideTokenIssuer(jwtManager *jwt.Manager, users user.Repository, sessions *redisstore.SessionStore, logger *zap.Logger) *appuser.TokenIssuer {
	return appuser.NewTokenIssuer(jwtManager, users, sessions, logger)
}

func provideAuthMiddleware(jwtManager *jwt.Manager, users user.Repository, sessions *redisstore.SessionStore, logger *zap.Logger) *middleware.AuthMiddleware {
	return middleware.NewAuthMiddleware(jwtManager, users, sessions, logger)
}
