package scheduler

import (
	"context"

	"go.uber.org/fx"

	"github.com/ridewell/motorbill/internal/config"
)

var Module = fx.Module("scheduler",
	fx.Provide(New),
	fx.Invoke(Start),
)

// Start wires the sweep loop into the application lifecycle. An interval of
// zero disables the background sweep; the manual reconcile endpoint remains
// available.
func Start(lc fx.Lifecycle, cfg config.Config, sched *Scheduler) {
	if cfg.ReconcileInterval <= 0 {
		return
	}

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			ctx, cancel := context.WithCancel(context.Background())

			go sched.RunForever(ctx)

			lc.Append(fx.Hook{
				OnStop: func(context.Context) error {
					cancel()
					return nil
				},
			})

			return nil
		},
	})
}
