package domain

import (
	"context"
	"errors"
	"time"

	"github.com/ridewell/motorbill/internal/pricing"
)

type CreateBillRequest struct {
	Channel    pricing.Channel
	Settlement pricing.Settlement // advance only

	CustomerName    string
	CustomerNIC     string
	CustomerAddress string

	ModelName string
	MotorNo   string
	ChassisNo string

	DownPayment           int64
	AdvanceAmount         int64
	EstimatedDeliveryDate *time.Time
}

type ConvertBillRequest struct {
	ID          string
	Settlement  pricing.Settlement
	DownPayment int64
	// Resnapshot re-prices the vehicle at the current catalog price. The
	// default keeps the original snapshot so the customer is not surprised.
	Resnapshot bool
}

type ConvertBillResponse struct {
	Source    Bill `json:"source"`
	Successor Bill `json:"successor"`
}

type ListBillRequest struct {
	Status    BillStatus
	Channel   pricing.Channel
	ModelName string
}

type Service interface {
	Create(context.Context, CreateBillRequest) (Bill, error)
	GetByID(ctx context.Context, id string) (Bill, error)
	List(context.Context, ListBillRequest) ([]Bill, error)
	Complete(ctx context.Context, id string) (Bill, error)
	Convert(context.Context, ConvertBillRequest) (ConvertBillResponse, error)
	Cancel(ctx context.Context, id string) (Bill, error)
	Delete(ctx context.Context, id string) error
}

var (
	ErrInvalidBillID      = errors.New("invalid_bill_id")
	ErrBillNotFound       = errors.New("bill_not_found")
	ErrInvalidCustomer    = errors.New("invalid_customer")
	ErrInvalidChannel     = errors.New("invalid_channel")
	ErrInvalidTransition  = errors.New("invalid_transition")
	ErrReferentialConflict = errors.New("bill_referenced_by_successor")
)
