// cmd/marketplace-admin/commands.go
package main

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"
	"gorm.io/gorm"

	"zirako/internal/pkg/bootstrap"
	"zirako/internal/pkg/database"
	accountinfra "zirako/internal/service/account/infrastructure"
	exchangeinfra "zirako/internal/service/exchange/infrastructure"
	listinginfra "zirako/internal/service/listing/infrastructure"
	messaginginfra "zirako/internal/service/messaging/infrastructure"
	pickupinfra "zirako/internal/service/pickup/infrastructure"
	rewardapp "zirako/internal/service/reward/application"
	rewardinfra "zirako/internal/service/reward/infrastructure"
	supportinfra "zirako/internal/service/support/infrastructure"
)

const serviceName = "marketplace-admin"

// NewRootCmd 创建管理命令的根命令
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "marketplace-admin",
		Short:         "Zirako marketplace maintenance tasks",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			bootstrap.Setup(serviceName)
		},
	}
	root.AddCommand(newMigrateCmd(), newRecalcTiersCmd())
	return root
}

// models 返回需要建表的全部 GORM 模型，被引用的表排在前面
func models() []any {
	return []any{
		&accountinfra.AccountModel{},
		&listinginfra.ListingModel{},
		&listinginfra.FavoriteModel{},
		&exchangeinfra.ExchangeProposalModel{},
		&rewardinfra.ImpactActionModel{},
		&pickupinfra.PickupModel{},
		&messaginginfra.MessageModel{},
		&supportinfra.TicketModel{},
	}
}

func openDB() (*gorm.DB, error) {
	db, err := database.Open(bootstrap.GetCurrentConfig().Infra.MySQL)
	if err != nil {
		return nil, errors.Wrap(err, "connect to mysql")
	}
	return db, nil
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update every table",
		Example: `  # Apply the schema to the configured database
  CONFIG_FILE=configs/config.yaml marketplace-admin migrate`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, err := openDB()
			if err != nil {
				return err
			}
			if err := db.WithContext(cmd.Context()).AutoMigrate(models()...); err != nil {
				return errors.Wrap(err, "auto migrate")
			}
			cmd.Printf("Migrated %d tables\n", len(models()))
			return nil
		},
	}
}

func newRecalcTiersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "recalc-tiers",
		Short: "Recompute the stored tier of every account from its points",
		Long: `Walks every account and stores the tier that matches its current points.

Only accounts whose stored tier disagrees with their points are updated, so
the command is safe to run repeatedly.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, err := openDB()
			if err != nil {
				return err
			}
			svc := rewardapp.NewRewardService(rewardinfra.NewGormRewardRepository(db), database.NewTxManager(db), otel.Tracer(serviceName))
			updated, err := svc.RecalculateTiers(cmd.Context())
			if err != nil {
				return errors.Wrap(err, "recalculate tiers")
			}
			cmd.Printf("Updated %d accounts\n", updated)
			return nil
		},
	}
}
