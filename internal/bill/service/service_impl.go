package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/ridewell/motorbill/internal/bill/domain"
	"github.com/ridewell/motorbill/internal/bill/format"
	catalogdomain "github.com/ridewell/motorbill/internal/catalog/domain"
	"github.com/ridewell/motorbill/internal/clock"
	"github.com/ridewell/motorbill/internal/config"
	"github.com/ridewell/motorbill/internal/observability/metrics"
	"github.com/ridewell/motorbill/internal/pricing"
)

type Params struct {
	fx.In

	DB      *gorm.DB
	Log     *zap.Logger
	GenID   *snowflake.Node
	Clock   clock.Clock
	Tariff  *config.TariffHolder
	Repo    domain.Repository
	Catalog catalogdomain.Service
}

type Service struct {
	db      *gorm.DB
	log     *zap.Logger
	genID   *snowflake.Node
	clock   clock.Clock
	tariff  *config.TariffHolder
	repo    domain.Repository
	catalog catalogdomain.Service
}

func New(p Params) domain.Service {
	return &Service{
		db:      p.DB,
		log:     p.Log.Named("bill.service"),
		genID:   p.GenID,
		clock:   p.Clock,
		tariff:  p.Tariff,
		repo:    p.Repo,
		catalog: p.Catalog,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateBillRequest) (domain.Bill, error) {
	if !req.Channel.Valid() {
		return domain.Bill{}, domain.ErrInvalidChannel
	}
	if strings.TrimSpace(req.CustomerName) == "" ||
		strings.TrimSpace(req.CustomerNIC) == "" ||
		strings.TrimSpace(req.CustomerAddress) == "" {
		return domain.Bill{}, domain.ErrInvalidCustomer
	}

	model, err := s.catalog.FindByName(ctx, strings.TrimSpace(req.ModelName))
	if err != nil {
		return domain.Bill{}, err
	}

	snapshot := pricing.Snapshot{
		ModelName:     model.Name,
		BasePrice:     model.BasePrice,
		Class:         model.Class,
		LeaseEligible: model.LeaseEligible,
	}

	breakdown, err := pricing.Compute(s.tariff.Tariff(), snapshot, req.Channel, pricing.Inputs{
		Settlement:    req.Settlement,
		DownPayment:   req.DownPayment,
		AdvanceAmount: req.AdvanceAmount,
		DeliveryDate:  req.EstimatedDeliveryDate,
	})
	if err != nil {
		return domain.Bill{}, err
	}

	now := s.clock.Now()

	// Payment is immediate on cash and lease sales; only an advance leaves
	// the bill open for conversion.
	status := domain.BillStatusCompleted
	if req.Channel == pricing.ChannelAdvance {
		status = domain.BillStatusPending
	}

	bill := domain.Bill{
		ID:              s.genID.Generate(),
		Channel:         req.Channel,
		CustomerName:    strings.TrimSpace(req.CustomerName),
		CustomerNIC:     strings.TrimSpace(req.CustomerNIC),
		CustomerAddress: strings.TrimSpace(req.CustomerAddress),
		ModelName:       snapshot.ModelName,
		VehicleClass:    snapshot.Class,
		LeaseEligible:   snapshot.LeaseEligible,
		MotorNo:         strings.TrimSpace(req.MotorNo),
		ChassisNo:       strings.TrimSpace(req.ChassisNo),

		BasePrice:          snapshot.BasePrice,
		RegistrationCharge: breakdown.RegistrationCharge,
		FinancierSettles:   breakdown.FinancierSettles,
		TotalAmount:        breakdown.TotalAmount,
		BalanceAmount:      breakdown.BalanceAmount,

		Status:    status,
		Metadata:  datatypes.JSONMap{},
		CreatedAt: now,
		UpdatedAt: now,
	}

	switch req.Channel {
	case pricing.ChannelAdvance:
		bill.Settlement = req.Settlement
		bill.AdvanceAmount = req.AdvanceAmount
		bill.EstimatedDeliveryDate = req.EstimatedDeliveryDate
		if req.Settlement == pricing.SettlementLease {
			bill.DownPayment = req.DownPayment
		}
	case pricing.ChannelLease:
		bill.DownPayment = req.DownPayment
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		number, err := s.repo.NextNumber(ctx, tx)
		if err != nil {
			return err
		}
		bill.Number = number
		bill.DisplayNumber, err = format.FormatBillNumber(format.DefaultBillNumberTemplate, now, number)
		if err != nil {
			return err
		}
		return s.repo.Insert(ctx, tx, &bill)
	})
	if err != nil {
		return domain.Bill{}, err
	}

	metrics.BillsCreated.WithLabelValues(string(bill.Channel)).Inc()
	s.log.Info("bill created",
		zap.String("bill_id", bill.ID.String()),
		zap.String("number", bill.DisplayNumber),
		zap.String("channel", string(bill.Channel)),
		zap.Int64("total_amount", bill.TotalAmount),
	)
	return bill, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (domain.Bill, error) {
	billID, err := parseID(id)
	if err != nil {
		return domain.Bill{}, domain.ErrInvalidBillID
	}
	bill, err := s.repo.FindByID(ctx, s.db, billID)
	if err != nil {
		return domain.Bill{}, err
	}
	if bill == nil {
		return domain.Bill{}, domain.ErrBillNotFound
	}
	return *bill, nil
}

func (s *Service) List(ctx context.Context, req domain.ListBillRequest) ([]domain.Bill, error) {
	rows, err := s.repo.List(ctx, s.db, domain.ListBillFilter{
		Status:    req.Status,
		Channel:   string(req.Channel),
		ModelName: strings.TrimSpace(req.ModelName),
	})
	if err != nil {
		return nil, err
	}
	bills := make([]domain.Bill, 0, len(rows))
	for _, row := range rows {
		bills = append(bills, *row)
	}
	return bills, nil
}

// Complete settles a pending non-advance bill. Advance bills must go through
// Convert instead.
func (s *Service) Complete(ctx context.Context, id string) (domain.Bill, error) {
	billID, err := parseID(id)
	if err != nil {
		return domain.Bill{}, domain.ErrInvalidBillID
	}

	bill, err := s.repo.FindByID(ctx, s.db, billID)
	if err != nil {
		return domain.Bill{}, err
	}
	if bill == nil {
		return domain.Bill{}, domain.ErrBillNotFound
	}
	if bill.Status != domain.BillStatusPending {
		return domain.Bill{}, transitionErr("complete", bill)
	}
	if bill.Channel == pricing.ChannelAdvance {
		return domain.Bill{}, fmt.Errorf("%w: complete advance bill %s, convert it instead",
			domain.ErrInvalidTransition, bill.DisplayNumber)
	}

	now := s.clock.Now()
	if err := s.repo.UpdateStatus(ctx, s.db, bill.ID, domain.BillStatusCompleted, now); err != nil {
		return domain.Bill{}, err
	}
	bill.Status = domain.BillStatusCompleted
	bill.UpdatedAt = now
	return *bill, nil
}

// Cancel is a manual override on a pending bill; no financial recomputation.
func (s *Service) Cancel(ctx context.Context, id string) (domain.Bill, error) {
	billID, err := parseID(id)
	if err != nil {
		return domain.Bill{}, domain.ErrInvalidBillID
	}

	bill, err := s.repo.FindByID(ctx, s.db, billID)
	if err != nil {
		return domain.Bill{}, err
	}
	if bill == nil {
		return domain.Bill{}, domain.ErrBillNotFound
	}
	if bill.Status != domain.BillStatusPending {
		return domain.Bill{}, transitionErr("cancel", bill)
	}

	now := s.clock.Now()
	if err := s.repo.UpdateStatus(ctx, s.db, bill.ID, domain.BillStatusCancelled, now); err != nil {
		return domain.Bill{}, err
	}
	bill.Status = domain.BillStatusCancelled
	bill.UpdatedAt = now
	s.log.Info("bill cancelled", zap.String("bill_id", bill.ID.String()))
	return *bill, nil
}

// Delete removes a bill. It is rejected while a successor's back-reference
// still points at it, so conversion history is never orphaned.
func (s *Service) Delete(ctx context.Context, id string) error {
	billID, err := parseID(id)
	if err != nil {
		return domain.ErrInvalidBillID
	}

	bill, err := s.repo.FindByID(ctx, s.db, billID)
	if err != nil {
		return err
	}
	if bill == nil {
		return domain.ErrBillNotFound
	}

	successor, err := s.repo.FindSuccessor(ctx, s.db, bill.ID)
	if err != nil {
		return err
	}
	if successor != nil {
		return domain.ErrReferentialConflict
	}

	return s.repo.Delete(ctx, s.db, bill.ID)
}

func transitionErr(op string, bill *domain.Bill) error {
	return fmt.Errorf("%w: %s bill %s in status %s",
		domain.ErrInvalidTransition, op, bill.DisplayNumber, bill.Status)
}

func parseID(raw string) (snowflake.ID, error) {
	value, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || value == 0 {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return snowflake.ParseInt64(value), nil
}
