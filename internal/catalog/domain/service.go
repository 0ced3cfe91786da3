package domain

import (
	"context"
	"errors"
)

type CreateModelRequest struct {
	Name          string
	BasePrice     int64
	Class         VehicleClass
	LeaseEligible bool
}

type UpdateModelRequest struct {
	Name          string
	BasePrice     *int64
	Class         *VehicleClass
	LeaseEligible *bool
}

type Service interface {
	Create(context.Context, CreateModelRequest) (VehicleModel, error)
	FindByName(ctx context.Context, name string) (VehicleModel, error)
	List(ctx context.Context) ([]VehicleModel, error)
	Update(context.Context, UpdateModelRequest) (VehicleModel, error)
	// Delete removes a model. It is rejected while any bill still
	// references the model name.
	Delete(ctx context.Context, name string) error
}

var (
	ErrInvalidName         = errors.New("invalid_model_name")
	ErrInvalidBasePrice    = errors.New("invalid_base_price")
	ErrInvalidVehicleClass = errors.New("invalid_vehicle_class")
	ErrExemptLeaseEligible = errors.New("exempt_model_cannot_be_lease_eligible")
	ErrModelExists         = errors.New("model_already_exists")
	ErrModelNotFound       = errors.New("model_not_found")
	ErrModelReferenced     = errors.New("model_referenced_by_bills")
)
