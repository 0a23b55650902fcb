package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"neighborhub/internal/config"
	"neighborhub/internal/infra/cache"
	"neighborhub/internal/infra/db"
	"neighborhub/internal/infra/messaging"
	"neighborhub/internal/logger"
	"neighborhub/internal/server"
)

func main() {
	//.envはあれば読む
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		bootLog := logger.New("info", "prod")
		bootLog.Fatal().Err(err).Msg("config")
	}
	log := logger.New(cfg.LogLevel, cfg.GoEnv)

	// deferを全部走らせてから終了コードを返す
	if err := run(cfg, log); err != nil {
		log.Error().Err(err).Msg("server stopped")
		os.Exit(1)
	}
}

func run(cfg config.Config, log zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	//DB接続
	gormDB, err := db.Connect(cfg, log)
	if err != nil {
		return fmt.Errorf("db connect: %w", err)
	}
	if sqlDB, err := gormDB.DB(); err == nil {
		defer sqlDB.Close()
	}
	if err := db.Migrate(gormDB); err != nil {
		return fmt.Errorf("db migrate: %w", err)
	}

	guard, closeGuard := newIdempotencyGuard(ctx, cfg, log)
	defer closeGuard()
	events, closeEvents := newOrderPublisher(cfg, log)
	defer closeEvents()

	e := server.Build(cfg, log, server.Deps{DB: gormDB, Guard: guard, Events: events})

	//Server起動
	addr := cfg.Port
	if !strings.HasPrefix(addr, ":") {
		addr = ":" + addr
	}
	return server.Start(ctx, e, addr, log)
}

// REDIS_ADDRがなければDBのユニーク制約だけで冪等性を守る
func newIdempotencyGuard(ctx context.Context, cfg config.Config, log zerolog.Logger) (cache.IdempotencyGuard, func()) {
	if cfg.RedisAddr == "" {
		return cache.NoopIdempotencyGuard{}, func() {}
	}
	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	pctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := rdb.Ping(pctx).Err(); err != nil {
		log.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("redis unavailable, idempotency guard disabled")
		_ = rdb.Close()
		return cache.NoopIdempotencyGuard{}, func() {}
	}
	return cache.NewRedisIdempotencyGuard(rdb), func() {
		if err := rdb.Close(); err != nil {
			log.Warn().Err(err).Msg("redis close")
		}
	}
}

func newOrderPublisher(cfg config.Config, log zerolog.Logger) (messaging.OrderEventPublisher, func()) {
	if len(cfg.KafkaBrokers) == 0 {
		return messaging.NoopOrderPublisher{}, func() {}
	}
	p := messaging.NewKafkaOrderPublisher(messaging.NewKafkaWriter(cfg.KafkaBrokers, cfg.KafkaOrderTopic))
	return p, func() {
		if err := p.Close(); err != nil {
			log.Warn().Err(err).Msg("kafka writer close")
		}
	}
}
