// Package scheduler drives the periodic reconciliation sweep.
package scheduler

import (
	"context"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/ridewell/motorbill/internal/config"
	"github.com/ridewell/motorbill/internal/reconcile"
)

type Params struct {
	fx.In

	Log       *zap.Logger
	Cfg       config.Config
	Reconcile *reconcile.Service
}

type Scheduler struct {
	log       *zap.Logger
	interval  time.Duration
	reconcile *reconcile.Service
}

func New(p Params) *Scheduler {
	return &Scheduler{
		log:       p.Log.Named("scheduler"),
		interval:  time.Duration(p.Cfg.ReconcileInterval) * time.Minute,
		reconcile: p.Reconcile,
	}
}

// RunForever sweeps on the configured interval until the context is
// cancelled. Sweep failures are logged and the loop keeps going; the next
// tick retries from scratch because the sweep is idempotent.
func (s *Scheduler) RunForever(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.log.Info("reconcile scheduler started", zap.Duration("interval", s.interval))
	for {
		select {
		case <-ctx.Done():
			s.log.Info("reconcile scheduler stopped")
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *Scheduler) sweep(ctx context.Context) {
	result, err := s.reconcile.Run(ctx)
	if err != nil {
		s.log.Warn("scheduled reconcile sweep finished with failures",
			zap.Error(err),
			zap.Int("corrected", result.Corrected),
			zap.Int("failed", result.Failed),
		)
		return
	}
	if result.Corrected > 0 || result.Reported > 0 {
		s.log.Info("scheduled reconcile sweep found drift",
			zap.Int("inspected", result.Inspected),
			zap.Int("corrected", result.Corrected),
			zap.Int("reported", result.Reported),
		)
	}
}
