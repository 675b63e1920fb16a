package phase

import (
	"go.uber.org/fx"

	"github.com/halion16/refit-management-sub000/internal/phase/repository"
	"github.com/halion16/refit-management-sub000/internal/phase/service"
)

var Module = fx.Module("phase.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
	fx.Provide(service.ProvideDirectory),
)
