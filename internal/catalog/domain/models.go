// Package domain contains the vehicle catalog models.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// VehicleClass categorizes a model for registration purposes. Exempt-class
// vehicles (e.g. electric bicycles) never incur the registration charge and
// cannot be financed through a leasing company.
type VehicleClass string

const (
	VehicleClassStandard VehicleClass = "STANDARD"
	VehicleClassExempt   VehicleClass = "EXEMPT"
)

func (c VehicleClass) Valid() bool {
	return c == VehicleClassStandard || c == VehicleClassExempt
}

// VehicleModel is a catalog entry. Bills capture a snapshot of the model at
// creation time; catalog prices change over time but historical bills must not.
type VehicleModel struct {
	ID            snowflake.ID `gorm:"primaryKey" json:"id"`
	Name          string       `gorm:"type:text;not null;uniqueIndex" json:"name"`
	BasePrice     int64        `gorm:"not null" json:"base_price"`
	Class         VehicleClass `gorm:"type:text;not null;default:'STANDARD'" json:"class"`
	LeaseEligible bool         `gorm:"not null;default:false" json:"lease_eligible"`
	CreatedAt     time.Time    `gorm:"not null" json:"created_at"`
	UpdatedAt     time.Time    `gorm:"not null" json:"updated_at"`
}

// TableName sets the database table name.
func (VehicleModel) TableName() string { return "vehicle_models" }
