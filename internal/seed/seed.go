// Package seed bootstraps a usable vehicle catalog for local installs.
package seed

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"

	catalogdomain "github.com/ridewell/motorbill/internal/catalog/domain"
)

var defaultModels = []catalogdomain.VehicleModel{
	{Name: "CT-100", BasePrice: 100000, Class: catalogdomain.VehicleClassStandard, LeaseEligible: true},
	{Name: "CT-125 Deluxe", BasePrice: 145000, Class: catalogdomain.VehicleClassStandard, LeaseEligible: true},
	{Name: "Cargo Trike", BasePrice: 210000, Class: catalogdomain.VehicleClassStandard, LeaseEligible: false},
	{Name: "E-Trike", BasePrice: 50000, Class: catalogdomain.VehicleClassExempt, LeaseEligible: false},
}

// EnsureDefaultModels inserts the starter catalog. Idempotent: models that
// already exist by name are left untouched, including operator edits.
func EnsureDefaultModels(db *gorm.DB) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, model := range defaultModels {
			var existing catalogdomain.VehicleModel
			err := tx.Where("name = ?", model.Name).First(&existing).Error
			if err == nil {
				continue
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}

			now := time.Now().UTC()
			model.ID = node.Generate()
			model.CreatedAt = now
			model.UpdatedAt = now
			if err := tx.Create(&model).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
