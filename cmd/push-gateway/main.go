// cmd/push-gateway/main.go
package main

import (
	"context"
	"os"

	"github.com/google/uuid"
	zlog "github.com/rs/zerolog/log"

	"zirako/internal/pkg/auth"
	"zirako/internal/pkg/bootstrap"
	"zirako/internal/pkg/mq"
	"zirako/internal/pkg/redis"
	"zirako/internal/pkg/session"
	"zirako/internal/service/push/application"
	"zirako/internal/service/push/interfaces"
)

const serviceName = "push-gateway"

func main() {
	cfg := bootstrap.Setup(serviceName)
	kafkaCfg := cfg.Infra.Kafka
	nodeID := nodeName()

	redisClient, err := redis.NewClient(cfg.Infra.Redis.Addrs, cfg.Infra.Redis.Password)
	if err != nil {
		zlog.Fatal().Err(err).Msg("failed to initialize redis client")
	}
	sessions := session.NewManager(redisClient, cfg.Infra.Redis.SessionTTL)
	issuer := auth.NewIssuer(cfg.App.JWT.Secret, cfg.App.JWT.TTL)
	hub := application.NewHub()

	// 每个节点独占一个主题与消费组，message-router 把路由结果写入该主题
	topic := application.NodeTopic(kafkaCfg.Topics.PushPrefix, nodeID)
	consumer := mq.NewConsumer(serviceName, topic,
		mq.NewKafkaReader(kafkaCfg.Brokers, topic, nodeID),
		interfaces.NewDeliveryHandler(hub),
	)
	consumer.Start(context.Background())
	zlog.Info().Str("node", nodeID).Str("topic", topic).Msg("🚀 Push gateway node started")

	// ping 间隔取会话 TTL 的一半，保证在线用户的会话不会过期
	pingEvery := cfg.Infra.Redis.SessionTTL / 2

	bootstrap.StartService(bootstrap.AppInfo{
		ServiceName: serviceName,
		RegisterHandlers: func(appCtx bootstrap.AppCtx) {
			interfaces.NewWSHandler(hub, issuer, sessions, nodeID, pingEvery).RegisterRoutes(appCtx.Mux)
		},
		OnShutdown: []func(ctx context.Context){
			func(context.Context) { _ = redisClient.Close() },
			func(context.Context) { consumer.Stop() },
		},
	})
}

func nodeName() string {
	if name, ok := os.LookupEnv("PUSH_NODE_ID"); ok && name != "" {
		return name
	}
	return serviceName + "-" + uuid.New().String()[:8]
}
