// cmd/marketplace-service/main.go
package main

import (
	"context"
	"net/http"

	zlog "github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"

	"zirako/internal/pkg/auth"
	"zirako/internal/pkg/bootstrap"
	"zirako/internal/pkg/database"
	"zirako/internal/pkg/httpx"
	"zirako/internal/pkg/mq"
	accountapp "zirako/internal/service/account/application"
	accountinfra "zirako/internal/service/account/infrastructure"
	accountapi "zirako/internal/service/account/interfaces"
	exchangeapp "zirako/internal/service/exchange/application"
	exchangeinfra "zirako/internal/service/exchange/infrastructure"
	exchangeapi "zirako/internal/service/exchange/interfaces"
	listingapp "zirako/internal/service/listing/application"
	listinginfra "zirako/internal/service/listing/infrastructure"
	listingapi "zirako/internal/service/listing/interfaces"
	messagingapp "zirako/internal/service/messaging/application"
	messaginginfra "zirako/internal/service/messaging/infrastructure"
	messagingapi "zirako/internal/service/messaging/interfaces"
	messagingport "zirako/internal/service/messaging/port"
	notificationinfra "zirako/internal/service/notification/infrastructure"
	pickupapp "zirako/internal/service/pickup/application"
	pickupinfra "zirako/internal/service/pickup/infrastructure"
	pickupapi "zirako/internal/service/pickup/interfaces"
	rewardapp "zirako/internal/service/reward/application"
	rewardinfra "zirako/internal/service/reward/infrastructure"
	rewardapi "zirako/internal/service/reward/interfaces"
	supportapp "zirako/internal/service/support/application"
	supportdomain "zirako/internal/service/support/domain"
	supportinfra "zirako/internal/service/support/infrastructure"
	"zirako/internal/service/support/infrastructure/rule"
	supportapi "zirako/internal/service/support/interfaces"
)

const serviceName = "marketplace-service"

// main 函数是应用的"组装根" (Composition Root)
func main() {
	cfg := bootstrap.Setup(serviceName)
	tracer := otel.Tracer(serviceName)

	// 1. 初始化基础设施
	db, err := database.Open(cfg.Infra.MySQL)
	if err != nil {
		zlog.Fatal().Err(err).Msg("failed to connect to mysql")
	}
	tx := database.NewTxManager(db)
	issuer := auth.NewIssuer(cfg.App.JWT.Secret, cfg.App.JWT.TTL)

	notificationWriter := mq.NewKafkaWriter(cfg.Infra.Kafka.Brokers, cfg.Infra.Kafka.Topics.Notifications)
	publisher := notificationinfra.NewKafkaPublisher(notificationWriter)

	var chatPublisher messagingport.ChatPublisher = messaginginfra.DiscardChatPublisher{}
	chatWriter := mq.NewKafkaWriter(cfg.Infra.Kafka.Brokers, cfg.Infra.Kafka.Topics.ChatMessages)
	if cfg.App.FeatureFlags.EnableChatPush {
		chatPublisher = messaginginfra.NewKafkaChatPublisher(chatWriter)
	} else {
		zlog.Info().Msg("ℹ️ Chat push disabled, messages are stored only")
	}

	triager, err := rule.NewCELTriager(triageRules(cfg.Support.TriageRules))
	if err != nil {
		zlog.Fatal().Err(err).Msg("invalid support triage rules")
	}

	// 2. 组装业务服务
	rewards := rewardapp.NewRewardService(rewardinfra.NewGormRewardRepository(db), tx, tracer)
	accounts := accountapp.NewAccountService(
		accountinfra.NewGormAccountRepository(db), rewards,
		accountinfra.NewEventNotifier(publisher), issuer, tx, tracer,
	)
	listings := listingapp.NewListingService(listinginfra.NewGormListingRepository(db), rewards, tx, tracer)
	exchanges := exchangeapp.NewExchangeService(
		exchangeinfra.NewGormProposalRepository(db), exchangeinfra.NewGormListingReader(db), rewards,
		exchangeinfra.NewEventNotifier(publisher), tx, tracer,
	)
	pickups := pickupapp.NewPickupService(pickupinfra.NewGormPickupRepository(db), rewards, pickupinfra.NewEventNotifier(publisher), tx, tracer)
	support := supportapp.NewSupportService(
		supportinfra.NewGormTicketRepository(db), triager,
		supportinfra.NewEventNotifier(publisher, cfg.App.SupportInbox), tracer,
	)
	messaging := messagingapp.NewMessagingService(
		messaginginfra.NewGormMessageRepository(db), messaginginfra.NewGormAccountReader(db), messaginginfra.NewGormListingReader(db),
		chatPublisher, messaginginfra.NewEventNotifier(publisher), tx, tracer,
	)

	// 3. 启动 HTTP 服务
	bootstrap.StartService(bootstrap.AppInfo{
		ServiceName: serviceName,
		RegisterHandlers: func(appCtx bootstrap.AppCtx) {
			accountapi.NewAccountHandler(accounts, issuer.TTL()).RegisterRoutes(appCtx.Mux)
			listingapi.NewListingHandler(listings).RegisterRoutes(appCtx.Mux)
			exchangeapi.NewExchangeHandler(exchanges).RegisterRoutes(appCtx.Mux)
			rewardapi.NewImpactHandler(rewards).RegisterRoutes(appCtx.Mux)
			pickupapi.NewPickupHandler(pickups).RegisterRoutes(appCtx.Mux)
			supportapi.NewSupportHandler(support).RegisterRoutes(appCtx.Mux)
			messagingapi.NewMessagingHandler(messaging).RegisterRoutes(appCtx.Mux)
		},
		Wrap: func(next http.Handler) http.Handler {
			return httpx.Instrument(serviceName, auth.Authenticate(issuer)(next))
		},
		OnShutdown: []func(ctx context.Context){
			func(context.Context) {
				if sqlDB, err := db.DB(); err == nil {
					_ = sqlDB.Close()
				}
			},
			func(context.Context) { closeWriter("notifications", notificationWriter.Close) },
			func(context.Context) { closeWriter("chat-messages", chatWriter.Close) },
		},
	})
}

func triageRules(in []bootstrap.TriageRule) []supportdomain.TriageRule {
	out := make([]supportdomain.TriageRule, 0, len(in))
	for _, r := range in {
		out = append(out, supportdomain.TriageRule{Name: r.Name, Expression: r.Expression, Priority: supportdomain.Priority(r.Priority)})
	}
	return out
}

func closeWriter(name string, closeFn func() error) {
	if err := closeFn(); err != nil {
		zlog.Error().Err(err).Str("writer", name).Msg("failed to close kafka writer")
	}
}
