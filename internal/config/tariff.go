package config

import (
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/ridewell/motorbill/internal/pricing"
)

// TariffHolder keeps the current registration tariff behind an atomic.Value
// so a config reload never races an in-flight pricing computation.
type TariffHolder struct {
	current atomic.Value // holds pricing.Tariff
}

// NewTariffHolder loads tariff.yml (volume mount, /etc, or cwd) and watches
// it for changes. Missing file falls back to pricing.DefaultTariff().
func NewTariffHolder(log *zap.Logger) (*TariffHolder, error) {
	v := viper.New()

	v.SetConfigName("tariff")
	v.SetConfigType("yml")
	v.AddConfigPath("/var/lib/motorbill/config")
	v.AddConfigPath("/etc/motorbill")
	v.AddConfigPath(".")

	v.SetEnvPrefix("MOTORBILL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := pricing.DefaultTariff()
	v.SetDefault("tariff.cashRegistrationCharge", defaults.CashRegistrationCharge)
	v.SetDefault("tariff.leaseRegistrationCharge", defaults.LeaseRegistrationCharge)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	holder := &TariffHolder{}
	if err := holder.reload(v); err != nil {
		return nil, err
	}

	v.OnConfigChange(func(fsnotify.Event) {
		if err := holder.reload(v); err != nil {
			log.Warn("tariff reload failed, keeping previous values", zap.Error(err))
			return
		}
		log.Info("tariff reloaded",
			zap.Int64("cash_registration_charge", holder.Tariff().CashRegistrationCharge),
			zap.Int64("lease_registration_charge", holder.Tariff().LeaseRegistrationCharge),
		)
	})
	v.WatchConfig()

	return holder, nil
}

func (h *TariffHolder) reload(v *viper.Viper) error {
	var tariff pricing.Tariff
	if err := v.UnmarshalKey("tariff", &tariff); err != nil {
		return err
	}
	defaults := pricing.DefaultTariff()
	if tariff.CashRegistrationCharge <= 0 {
		tariff.CashRegistrationCharge = defaults.CashRegistrationCharge
	}
	if tariff.LeaseRegistrationCharge <= 0 {
		tariff.LeaseRegistrationCharge = defaults.LeaseRegistrationCharge
	}
	h.current.Store(tariff)
	return nil
}

// Tariff returns the currently loaded tariff.
func (h *TariffHolder) Tariff() pricing.Tariff {
	if v, ok := h.current.Load().(pricing.Tariff); ok {
		return v
	}
	return pricing.DefaultTariff()
}

// StaticTariffHolder pins a tariff; used by tests.
func StaticTariffHolder(t pricing.Tariff) *TariffHolder {
	holder := &TariffHolder{}
	holder.current.Store(t)
	return holder
}
