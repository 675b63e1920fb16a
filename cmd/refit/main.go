package main

import (
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"gorm.io/gorm"

	"github.com/halion16/refit-management-sub000/internal/allocation"
	"github.com/halion16/refit-management-sub000/internal/clock"
	"github.com/halion16/refit-management-sub000/internal/config"
	"github.com/halion16/refit-management-sub000/internal/events"
	"github.com/halion16/refit-management-sub000/internal/ledger"
	"github.com/halion16/refit-management-sub000/internal/migration"
	"github.com/halion16/refit-management-sub000/internal/observability/logger"
	"github.com/halion16/refit-management-sub000/internal/observability/metrics"
	"github.com/halion16/refit-management-sub000/internal/paymenttemplate"
	"github.com/halion16/refit-management-sub000/internal/phase"
	"github.com/halion16/refit-management-sub000/internal/quote"
	"github.com/halion16/refit-management-sub000/internal/schedule"
	"github.com/halion16/refit-management-sub000/internal/scheduler"
	"github.com/halion16/refit-management-sub000/internal/seed"
	"github.com/halion16/refit-management-sub000/internal/server"
	"github.com/halion16/refit-management-sub000/pkg/db"
)

var version = "dev"

func main() {
	app := fx.New(
		config.Module,
		logger.Module,
		fx.Invoke(logger.FlushOnStop),
		fx.Provide(func() *snowflake.Node {
			node, err := snowflake.NewNode(1)
			if err != nil {
				panic(err)
			}
			return node
		}),
		clock.Module,
		db.Module,
		fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
			if err := migration.Run(conn); err != nil {
				return err
			}
			if cfg.SeedDefaults {
				return seed.EnsureDefaultTemplates(conn)
			}
			return nil
		}),
		fx.Invoke(func(cfg metrics.Config) {
			metrics.PaymentsWithConfig(cfg)
		}),
		events.Module,
		phase.Module,
		quote.Module,
		paymenttemplate.Module,
		allocation.Module,
		schedule.Module,
		ledger.Module,
		scheduler.Module,
		server.Module,
	)
	app.Run()
}
