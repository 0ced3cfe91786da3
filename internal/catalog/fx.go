package catalog

import (
	"go.uber.org/fx"

	"github.com/ridewell/motorbill/internal/catalog/domain"
	"github.com/ridewell/motorbill/internal/catalog/service"
	"github.com/ridewell/motorbill/pkg/repository"
)

var Module = fx.Module("catalog.service",
	fx.Provide(repository.ProvideStore[domain.VehicleModel]),
	fx.Provide(service.New),
)
