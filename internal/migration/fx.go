package migration

import (
	"go.uber.org/fx"
	"gorm.io/gorm"

	billdomain "github.com/ridewell/motorbill/internal/bill/domain"
	catalogdomain "github.com/ridewell/motorbill/internal/catalog/domain"
	"github.com/ridewell/motorbill/internal/config"
	"github.com/ridewell/motorbill/internal/seed"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		if cfg.DBType == "postgres" {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			if err := RunMigrations(sqlDB); err != nil {
				return err
			}
		} else {
			// sqlite installs skip the versioned migrations; the models are
			// the source of truth there.
			if err := conn.AutoMigrate(&catalogdomain.VehicleModel{}, &billdomain.Bill{}); err != nil {
				return err
			}
		}

		if cfg.SeedCatalog {
			return seed.EnsureDefaultModels(conn)
		}
		return nil
	}),
)
