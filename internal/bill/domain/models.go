// Package domain contains persistence models for vehicle sale bills.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"

	catalogdomain "github.com/ridewell/motorbill/internal/catalog/domain"
	"github.com/ridewell/motorbill/internal/pricing"
)

// BillStatus represents bill lifecycle states.
type BillStatus string

const (
	BillStatusPending   BillStatus = "PENDING"
	BillStatusCompleted BillStatus = "COMPLETED"
	BillStatusConverted BillStatus = "CONVERTED"
	BillStatusCancelled BillStatus = "CANCELLED"
)

// Terminal reports whether no further transition may leave the status.
func (s BillStatus) Terminal() bool {
	return s == BillStatusCompleted || s == BillStatusConverted || s == BillStatusCancelled
}

// Bill is one customer transaction. The vehicle fields are a snapshot taken
// at creation time, never a live catalog reference.
type Bill struct {
	ID            snowflake.ID `gorm:"primaryKey" json:"id"`
	Number        int64        `gorm:"not null;uniqueIndex" json:"number"`
	DisplayNumber string       `gorm:"type:text;not null" json:"display_number"`

	Channel pricing.Channel `gorm:"type:text;not null" json:"channel"`
	// Settlement is set on advance bills only: the channel the advance
	// eventually settles through, chosen when the advance is taken.
	Settlement pricing.Settlement `gorm:"type:text" json:"settlement,omitempty"`

	CustomerName    string `gorm:"type:text;not null" json:"customer_name"`
	CustomerNIC     string `gorm:"type:text;not null" json:"customer_nic"`
	CustomerAddress string `gorm:"type:text;not null" json:"customer_address"`

	ModelName     string                     `gorm:"type:text;not null;index" json:"model_name"`
	VehicleClass  catalogdomain.VehicleClass `gorm:"type:text;not null" json:"vehicle_class"`
	LeaseEligible bool                       `gorm:"not null;default:false" json:"lease_eligible"`
	MotorNo       string                     `gorm:"type:text" json:"motor_no"`
	ChassisNo     string                     `gorm:"type:text" json:"chassis_no"`

	BasePrice          int64 `gorm:"not null" json:"base_price"`
	RegistrationCharge int64 `gorm:"not null;default:0" json:"registration_charge"`
	FinancierSettles   bool  `gorm:"not null;default:false" json:"financier_settles"`
	DownPayment        int64 `gorm:"not null;default:0" json:"down_payment"`
	AdvanceAmount      int64 `gorm:"not null;default:0" json:"advance_amount"`
	TotalAmount        int64 `gorm:"not null" json:"total_amount"`
	BalanceAmount      int64 `gorm:"not null;default:0" json:"balance_amount"`

	Status BillStatus `gorm:"type:text;not null;default:'PENDING'" json:"status"`
	// OriginalBillID is set only on a bill produced by conversion and points
	// back at the converted source.
	OriginalBillID        *snowflake.ID     `gorm:"index" json:"original_bill_id,omitempty"`
	EstimatedDeliveryDate *time.Time        `json:"estimated_delivery_date,omitempty"`
	Metadata              datatypes.JSONMap `gorm:"type:jsonb" json:"metadata,omitempty"`
	CreatedAt             time.Time         `gorm:"not null" json:"created_at"`
	UpdatedAt             time.Time         `gorm:"not null" json:"updated_at"`
}

// TableName sets the database table name.
func (Bill) TableName() string { return "bills" }

// Snapshot projects the captured vehicle fields for the pricing policy.
func (b *Bill) Snapshot() pricing.Snapshot {
	return pricing.Snapshot{
		ModelName:     b.ModelName,
		BasePrice:     b.BasePrice,
		Class:         b.VehicleClass,
		LeaseEligible: b.LeaseEligible,
	}
}

// Breakdown projects the stored financials back into the policy's shape,
// e.g. for rendering without recomputation.
func (b *Bill) Breakdown() pricing.Breakdown {
	return pricing.Breakdown{
		RegistrationCharge: b.RegistrationCharge,
		FinancierSettles:   b.FinancierSettles,
		TotalAmount:        b.TotalAmount,
		BalanceAmount:      b.BalanceAmount,
	}
}
