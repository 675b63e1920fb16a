// Package db opens the gorm connection shared by every repository.
package db

import (
	"fmt"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/halion16/refit-management-sub000/internal/config"
)

type Params struct {
	fx.In

	Config config.Config
	Log    *zap.Logger
}

func Open(p Params) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch p.Config.DBDriver {
	case "postgres":
		dialector = postgres.Open(p.Config.DBDSN)
	case "sqlite", "":
		dialector = sqlite.Open(p.Config.DBDSN)
	default:
		return nil, fmt.Errorf("unsupported db driver %q", p.Config.DBDriver)
	}

	conn, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return nil, err
	}
	p.Log.Named("db").Info("database connected", zap.String("driver", p.Config.DBDriver))
	return conn, nil
}

var Module = fx.Module("db",
	fx.Provide(Open),
)
