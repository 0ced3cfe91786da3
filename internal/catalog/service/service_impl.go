package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/ridewell/motorbill/internal/catalog/domain"
	"github.com/ridewell/motorbill/internal/clock"
	"github.com/ridewell/motorbill/pkg/db"
	"github.com/ridewell/motorbill/pkg/repository"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
	Store repository.Repository[domain.VehicleModel]
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock
	store repository.Repository[domain.VehicleModel]
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("catalog.service"),
		genID: p.GenID,
		clock: p.Clock,
		store: p.Store,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateModelRequest) (domain.VehicleModel, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.VehicleModel{}, domain.ErrInvalidName
	}
	if req.BasePrice <= 0 {
		return domain.VehicleModel{}, domain.ErrInvalidBasePrice
	}
	if !req.Class.Valid() {
		return domain.VehicleModel{}, domain.ErrInvalidVehicleClass
	}
	// Exempt models cannot be financed: the lease-eligibility flag is the
	// authoritative gate and must never contradict the class.
	if req.Class == domain.VehicleClassExempt && req.LeaseEligible {
		return domain.VehicleModel{}, domain.ErrExemptLeaseEligible
	}

	now := s.clock.Now()
	model := domain.VehicleModel{
		ID:            s.genID.Generate(),
		Name:          name,
		BasePrice:     req.BasePrice,
		Class:         req.Class,
		LeaseEligible: req.LeaseEligible,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.store.Create(ctx, &model); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return domain.VehicleModel{}, domain.ErrModelExists
		}
		return domain.VehicleModel{}, err
	}

	s.log.Info("vehicle model created",
		zap.String("name", model.Name),
		zap.String("class", string(model.Class)),
		zap.Int64("base_price", model.BasePrice),
	)
	return model, nil
}

func (s *Service) FindByName(ctx context.Context, name string) (domain.VehicleModel, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.VehicleModel{}, domain.ErrInvalidName
	}
	model, err := s.store.FindOne(ctx, &domain.VehicleModel{Name: name})
	if err != nil {
		return domain.VehicleModel{}, err
	}
	if model == nil {
		return domain.VehicleModel{}, domain.ErrModelNotFound
	}
	return *model, nil
}

func (s *Service) List(ctx context.Context) ([]domain.VehicleModel, error) {
	rows, err := s.store.Find(ctx, &domain.VehicleModel{})
	if err != nil {
		return nil, err
	}
	models := make([]domain.VehicleModel, 0, len(rows))
	for _, row := range rows {
		models = append(models, *row)
	}
	return models, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateModelRequest) (domain.VehicleModel, error) {
	model, err := s.FindByName(ctx, req.Name)
	if err != nil {
		return domain.VehicleModel{}, err
	}

	if req.BasePrice != nil {
		if *req.BasePrice <= 0 {
			return domain.VehicleModel{}, domain.ErrInvalidBasePrice
		}
		model.BasePrice = *req.BasePrice
	}
	if req.Class != nil {
		if !req.Class.Valid() {
			return domain.VehicleModel{}, domain.ErrInvalidVehicleClass
		}
		model.Class = *req.Class
	}
	if req.LeaseEligible != nil {
		model.LeaseEligible = *req.LeaseEligible
	}
	if model.Class == domain.VehicleClassExempt && model.LeaseEligible {
		return domain.VehicleModel{}, domain.ErrExemptLeaseEligible
	}
	model.UpdatedAt = s.clock.Now()

	if err := s.store.Update(ctx, model.ID.String(), map[string]any{
		"base_price":     model.BasePrice,
		"class":          model.Class,
		"lease_eligible": model.LeaseEligible,
		"updated_at":     model.UpdatedAt,
	}); err != nil {
		return domain.VehicleModel{}, err
	}
	return model, nil
}

func (s *Service) Delete(ctx context.Context, name string) error {
	model, err := s.FindByName(ctx, name)
	if err != nil {
		return err
	}

	// Historical bills carry the model name in their snapshot; removing the
	// catalog row while bills reference it would orphan that history.
	var referenced int64
	if err := s.db.WithContext(ctx).Raw(
		`SELECT COUNT(*) FROM bills WHERE model_name = ?`, model.Name,
	).Scan(&referenced).Error; err != nil {
		return err
	}
	if referenced > 0 {
		return domain.ErrModelReferenced
	}

	return s.store.Delete(ctx, model.ID.String())
}
