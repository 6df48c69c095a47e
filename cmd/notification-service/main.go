// cmd/notification-service/main.go
package main

import (
	"context"

	zlog "github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"

	"zirako/internal/pkg/bootstrap"
	"zirako/internal/pkg/database"
	"zirako/internal/pkg/mq"
	"zirako/internal/service/notification/application"
	"zirako/internal/service/notification/infrastructure"
	"zirako/internal/service/notification/interfaces"
)

const (
	serviceName     = "notification-service"
	consumerGroupID = "notification-group"
	dltGroupID      = "notification-dlt-group"
	maxAttempts     = 3
)

func main() {
	cfg := bootstrap.Setup(serviceName)
	tracer := otel.Tracer(serviceName)
	kafkaCfg := cfg.Infra.Kafka

	db, err := database.Open(cfg.Infra.MySQL)
	if err != nil {
		zlog.Fatal().Err(err).Msg("failed to connect to mysql")
	}
	mailer, err := infrastructure.NewSMTPMailer(cfg.Infra.SMTP)
	if err != nil {
		zlog.Fatal().Err(err).Msg("failed to initialize smtp mailer")
	}
	dispatcher := application.NewDispatcher(infrastructure.NewGormDirectory(db), mailer, cfg.App.BaseURL, tracer)

	// 主题消费失败重试 maxAttempts 次后写入死信主题
	dltWriter := mq.NewKafkaWriter(kafkaCfg.Brokers, kafkaCfg.Topics.NotificationsDLT)
	consumer := mq.NewConsumer(serviceName, kafkaCfg.Topics.Notifications,
		mq.NewKafkaReader(kafkaCfg.Brokers, kafkaCfg.Topics.Notifications, consumerGroupID),
		interfaces.NewEventHandler(dispatcher),
		mq.WithDeadLetter(dltWriter, maxAttempts),
	)
	dltConsumer := mq.NewConsumer(serviceName+"-dlt", kafkaCfg.Topics.NotificationsDLT,
		mq.NewKafkaReader(kafkaCfg.Brokers, kafkaCfg.Topics.NotificationsDLT, dltGroupID),
		interfaces.DeadLetterHandler,
	)

	ctx := context.Background()
	consumer.Start(ctx)
	dltConsumer.Start(ctx)

	bootstrap.StartService(bootstrap.AppInfo{
		ServiceName: serviceName,
		OnShutdown: []func(ctx context.Context){
			func(context.Context) {
				if sqlDB, err := db.DB(); err == nil {
					_ = sqlDB.Close()
				}
			},
			func(context.Context) {
				if err := dltWriter.Close(); err != nil {
					zlog.Error().Err(err).Msg("failed to close dlt writer")
				}
			},
			func(context.Context) { dltConsumer.Stop() },
			func(context.Context) { consumer.Stop() },
		},
	})
}
