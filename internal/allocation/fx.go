package allocation

import (
	"go.uber.org/fx"

	"github.com/halion16/refit-management-sub000/internal/allocation/service"
)

var Module = fx.Module("allocation.service",
	fx.Provide(service.NewService),
)
