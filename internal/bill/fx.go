package bill

import (
	"go.uber.org/fx"

	"github.com/ridewell/motorbill/internal/bill/repository"
	"github.com/ridewell/motorbill/internal/bill/service"
)

var Module = fx.Module("bill.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
