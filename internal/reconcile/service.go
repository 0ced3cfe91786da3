// Package reconcile implements the consistency sweep over stored bills.
//
// It heals exactly one drift class: bills whose vehicle snapshot is exempt
// but whose stored total still carries a registration charge (the snapshot
// was reclassified after creation, or the charge was applied in error).
// Every other discrepancy is reported, never auto-healed.
package reconcile

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	catalogdomain "github.com/ridewell/motorbill/internal/catalog/domain"
	"github.com/ridewell/motorbill/internal/clock"
	"github.com/ridewell/motorbill/internal/observability/metrics"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	Clock clock.Clock
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	clock clock.Clock
}

func New(p Params) *Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("reconcile"),
		clock: p.Clock,
	}
}

// Result reports one sweep. Reported counts discrepancies outside the healed
// class; they are logged for operators and left untouched.
type Result struct {
	Inspected int `json:"inspected"`
	Corrected int `json:"corrected"`
	Reported  int `json:"reported"`
	Failed    int `json:"failed"`
}

type billRow struct {
	ID                 snowflake.ID `gorm:"column:id"`
	DisplayNumber      string       `gorm:"column:display_number"`
	Channel            string       `gorm:"column:channel"`
	BasePrice          int64        `gorm:"column:base_price"`
	RegistrationCharge int64        `gorm:"column:registration_charge"`
	TotalAmount        int64        `gorm:"column:total_amount"`
	FinancierSettles   bool         `gorm:"column:financier_settles"`
}

// Run sweeps every exempt-snapshot bill and corrects drifted totals. Each
// bill's correction is independent; a single failure is logged and the sweep
// proceeds. Running the sweep twice yields zero further corrections.
func (s *Service) Run(ctx context.Context) (Result, error) {
	var result Result

	var rows []billRow
	if err := s.db.WithContext(ctx).Raw(
		`SELECT id, display_number, channel, base_price, registration_charge, total_amount, financier_settles
		 FROM bills
		 WHERE vehicle_class = ?
		 ORDER BY created_at ASC, id ASC`,
		catalogdomain.VehicleClassExempt,
	).Scan(&rows).Error; err != nil {
		return result, err
	}

	var sweepErr error
	for _, row := range rows {
		if ctx.Err() != nil {
			return result, ctx.Err()
		}
		result.Inspected++

		if row.TotalAmount <= row.BasePrice {
			if row.RegistrationCharge != 0 {
				// Stale charge column without total drift: outside the
				// healed class, report only.
				result.Reported++
				s.log.Warn("exempt bill carries a registration charge, not auto-healed",
					zap.String("bill_id", row.ID.String()),
					zap.String("number", row.DisplayNumber),
					zap.Int64("registration_charge", row.RegistrationCharge),
				)
			}
			continue
		}

		if err := s.correct(ctx, row); err != nil {
			result.Failed++
			sweepErr = errors.Join(sweepErr, err)
			s.log.Warn("failed to correct bill total",
				zap.Error(err),
				zap.String("bill_id", row.ID.String()),
			)
			continue
		}
		result.Corrected++
		metrics.ReconcileCorrections.Inc()
	}

	s.log.Info("reconcile sweep finished",
		zap.Int("inspected", result.Inspected),
		zap.Int("corrected", result.Corrected),
		zap.Int("reported", result.Reported),
		zap.Int("failed", result.Failed),
	)
	return result, sweepErr
}

func (s *Service) correct(ctx context.Context, row billRow) error {
	newTotal := row.BasePrice

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Exec(
			`UPDATE bills SET total_amount = ?, updated_at = ? WHERE id = ? AND total_amount = ?`,
			newTotal,
			s.clock.Now(),
			row.ID,
			row.TotalAmount,
		).Error
	})
	if err != nil {
		return err
	}

	s.log.Info("corrected exempt bill total",
		zap.String("bill_id", row.ID.String()),
		zap.String("number", row.DisplayNumber),
		zap.Int64("old_total", row.TotalAmount),
		zap.Int64("new_total", newTotal),
	)
	return nil
}
