// cmd/pickup-reminder/main.go
package main

import (
	"context"
	"sync"

	zlog "github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"

	"zirako/internal/pkg/bootstrap"
	"zirako/internal/pkg/database"
	"zirako/internal/pkg/mq"
	"zirako/internal/pkg/zookeeper"
	notificationinfra "zirako/internal/service/notification/infrastructure"
	"zirako/internal/service/pickup/application"
	"zirako/internal/service/pickup/infrastructure"
	"zirako/internal/service/pickup/interfaces"
)

const (
	serviceName = "pickup-reminder"
	lockName    = "pickup-reminder"
)

func main() {
	cfg := bootstrap.Setup(serviceName)
	if !cfg.App.FeatureFlags.EnablePickupReminders {
		zlog.Warn().Msg("⚠️ Pickup reminders are disabled by feature flag, exiting")
		return
	}

	db, err := database.Open(cfg.Infra.MySQL)
	if err != nil {
		zlog.Fatal().Err(err).Msg("failed to connect to mysql")
	}
	zkConn, err := zookeeper.Connect(cfg.Infra.Zookeeper.Servers, cfg.Infra.Zookeeper.SessionTimeout)
	if err != nil {
		zlog.Fatal().Err(err).Msg("failed to connect to zookeeper")
	}
	lock, err := zookeeper.NewDistributedLock(zkConn, lockName)
	if err != nil {
		zlog.Fatal().Err(err).Msg("failed to create reminder lock")
	}

	writer := mq.NewKafkaWriter(cfg.Infra.Kafka.Brokers, cfg.Infra.Kafka.Topics.Notifications)
	sweeper := application.NewReminderSweeper(
		infrastructure.NewGormPickupRepository(db),
		infrastructure.NewEventNotifier(notificationinfra.NewKafkaPublisher(writer)),
		database.NewTxManager(db),
		otel.Tracer(serviceName),
	)
	scheduler := interfaces.NewReminderScheduler(sweeper, lock, cfg.App.ReminderInterval)

	ctx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		scheduler.Run(ctx)
	}()

	bootstrap.StartService(bootstrap.AppInfo{
		ServiceName: serviceName,
		OnShutdown: []func(ctx context.Context){
			func(context.Context) {
				if sqlDB, err := db.DB(); err == nil {
					_ = sqlDB.Close()
				}
			},
			func(context.Context) { zkConn.Close() },
			func(context.Context) {
				if err := writer.Close(); err != nil {
					zlog.Error().Err(err).Msg("failed to close kafka writer")
				}
			},
			func(context.Context) {
				cancel()
				wg.Wait()
			},
		},
	})
}
