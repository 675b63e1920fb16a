package schedule

import (
	"go.uber.org/fx"

	"github.com/halion16/refit-management-sub000/internal/schedule/repository"
	"github.com/halion16/refit-management-sub000/internal/schedule/service"
)

var Module = fx.Module("schedule.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)
