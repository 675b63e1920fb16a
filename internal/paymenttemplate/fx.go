package paymenttemplate

import (
	"go.uber.org/fx"

	"github.com/halion16/refit-management-sub000/internal/paymenttemplate/repository"
	"github.com/halion16/refit-management-sub000/internal/paymenttemplate/service"
)

var Module = fx.Module("paymenttemplate.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)
