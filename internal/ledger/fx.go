package ledger

import (
	"go.uber.org/fx"

	"github.com/halion16/refit-management-sub000/internal/ledger/service"
)

var Module = fx.Module("ledger.service",
	fx.Provide(service.NewService),
)
