package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/ridewell/motorbill/internal/bill/domain"
	"github.com/ridewell/motorbill/internal/bill/format"
	"github.com/ridewell/motorbill/internal/observability/metrics"
	"github.com/ridewell/motorbill/internal/pricing"
)

// Convert finalizes a pending advance bill: it creates a completed successor
// priced through the chosen settlement channel and marks the source
// CONVERTED, all inside one transaction. A reader can never observe a
// CONVERTED source without its successor, or the reverse.
func (s *Service) Convert(ctx context.Context, req domain.ConvertBillRequest) (domain.ConvertBillResponse, error) {
	billID, err := parseID(req.ID)
	if err != nil {
		return domain.ConvertBillResponse{}, domain.ErrInvalidBillID
	}
	if !req.Settlement.Valid() {
		return domain.ConvertBillResponse{}, domain.ErrInvalidChannel
	}

	var resp domain.ConvertBillResponse
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		source, err := s.repo.FindByID(ctx, tx, billID)
		if err != nil {
			return err
		}
		if source == nil {
			return domain.ErrBillNotFound
		}
		if source.Status != domain.BillStatusPending {
			return transitionErr("convert", source)
		}
		if source.Channel != pricing.ChannelAdvance {
			return fmt.Errorf("%w: convert non-advance bill %s",
				domain.ErrInvalidTransition, source.DisplayNumber)
		}

		snapshot := source.Snapshot()
		if req.Resnapshot {
			// Explicit opt-in only: the default reuses the price captured
			// when the advance was taken.
			model, err := s.catalog.FindByName(ctx, source.ModelName)
			if err != nil {
				return err
			}
			snapshot.BasePrice = model.BasePrice
		}

		channel := pricing.ChannelCash
		if req.Settlement == pricing.SettlementLease {
			channel = pricing.ChannelLease
		}

		breakdown, err := pricing.Compute(s.tariff.Tariff(), snapshot, channel, pricing.Inputs{
			DownPayment: req.DownPayment,
		})
		if err != nil {
			return err
		}

		now := s.clock.Now()
		number, err := s.repo.NextNumber(ctx, tx)
		if err != nil {
			return err
		}
		displayNumber, err := format.FormatBillNumber(format.DefaultBillNumberTemplate, now, number)
		if err != nil {
			return err
		}

		originalID := source.ID
		successor := domain.Bill{
			ID:              s.genID.Generate(),
			Number:          number,
			DisplayNumber:   displayNumber,
			Channel:         channel,
			CustomerName:    source.CustomerName,
			CustomerNIC:     source.CustomerNIC,
			CustomerAddress: source.CustomerAddress,
			ModelName:       snapshot.ModelName,
			VehicleClass:    snapshot.Class,
			LeaseEligible:   snapshot.LeaseEligible,
			MotorNo:         source.MotorNo,
			ChassisNo:       source.ChassisNo,

			BasePrice:          snapshot.BasePrice,
			RegistrationCharge: breakdown.RegistrationCharge,
			FinancierSettles:   breakdown.FinancierSettles,
			TotalAmount:        breakdown.TotalAmount,
			BalanceAmount:      breakdown.BalanceAmount,
			// Carried for audit; the successor's own financials are the
			// plain settled computation.
			AdvanceAmount: source.AdvanceAmount,

			Status:         domain.BillStatusCompleted,
			OriginalBillID: &originalID,
			Metadata:       datatypes.JSONMap{},
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		if channel == pricing.ChannelLease {
			successor.DownPayment = req.DownPayment
		}

		if err := s.repo.Insert(ctx, tx, &successor); err != nil {
			return err
		}
		if err := s.repo.UpdateStatus(ctx, tx, source.ID, domain.BillStatusConverted, now); err != nil {
			return err
		}

		source.Status = domain.BillStatusConverted
		source.UpdatedAt = now
		resp = domain.ConvertBillResponse{Source: *source, Successor: successor}
		return nil
	})
	if err != nil {
		return domain.ConvertBillResponse{}, err
	}

	metrics.BillsConverted.Inc()
	s.log.Info("bill converted",
		zap.String("source_id", resp.Source.ID.String()),
		zap.String("successor_id", resp.Successor.ID.String()),
		zap.String("settlement", string(req.Settlement)),
		zap.Int64("total_amount", resp.Successor.TotalAmount),
	)
	return resp, nil
}
