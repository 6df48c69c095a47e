// cmd/message-router/main.go
package main

import (
	"context"
	"time"

	zlog "github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"

	"zirako/internal/pkg/bootstrap"
	"zirako/internal/pkg/mq"
	"zirako/internal/pkg/redis"
	"zirako/internal/pkg/session"
	"zirako/internal/service/push/application"
	"zirako/internal/service/push/interfaces"
)

const (
	serviceName     = "message-router"
	consumerGroupID = "message-router-group"
)

func main() {
	cfg := bootstrap.Setup(serviceName)
	kafkaCfg := cfg.Infra.Kafka

	redisClient, err := redis.NewClient(cfg.Infra.Redis.Addrs, cfg.Infra.Redis.Password)
	if err != nil {
		zlog.Fatal().Err(err).Msg("failed to initialize redis client")
	}
	sessions := session.NewManager(redisClient, cfg.Infra.Redis.SessionTTL)

	// 每个网关节点一个主题，writer 按需创建；推送是尽力而为的，失败重试后丢弃
	writers := mq.NewWriterPool(kafkaCfg.Brokers)
	router := application.NewRouter(sessions, writers, kafkaCfg.Topics.PushPrefix, otel.Tracer(serviceName))

	consumer := mq.NewConsumer(serviceName, kafkaCfg.Topics.ChatMessages,
		mq.NewKafkaReader(kafkaCfg.Brokers, kafkaCfg.Topics.ChatMessages, consumerGroupID),
		interfaces.NewRouteHandler(router),
		mq.WithRetries(3),
		mq.WithBackoff(500*time.Millisecond),
	)
	consumer.Start(context.Background())

	bootstrap.StartService(bootstrap.AppInfo{
		ServiceName: serviceName,
		OnShutdown: []func(ctx context.Context){
			func(context.Context) { _ = redisClient.Close() },
			func(context.Context) { writers.Close() },
			func(context.Context) { consumer.Stop() },
		},
	})
}
