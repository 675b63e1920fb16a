package quote

import (
	"go.uber.org/fx"

	"github.com/halion16/refit-management-sub000/internal/quote/repository"
	"github.com/halion16/refit-management-sub000/internal/quote/service"
)

var Module = fx.Module("quote.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)
