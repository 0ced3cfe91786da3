// Package pricing is the single source of truth for a bill's financial
// breakdown. Every caller (creation, conversion, reconciliation, rendering
// fixtures) computes through here; no other package may add or subtract
// charges.
//
// All amounts are int64 in the currency's smallest settled unit. The
// arithmetic is integer-exact so the reconciliation sweep can compare stored
// and recomputed totals without tolerance windows.
package pricing

import (
	"fmt"
	"time"

	catalogdomain "github.com/ridewell/motorbill/internal/catalog/domain"
)

// Channel is the payment mechanism declared on a bill.
type Channel string

const (
	ChannelCash    Channel = "CASH"
	ChannelLease   Channel = "LEASE"
	ChannelAdvance Channel = "ADVANCE"
)

func (c Channel) Valid() bool {
	return c == ChannelCash || c == ChannelLease || c == ChannelAdvance
}

// Settlement is the eventual channel an advance bill settles through,
// chosen when the advance is taken.
type Settlement string

const (
	SettlementCash  Settlement = "CASH"
	SettlementLease Settlement = "LEASE"
)

func (s Settlement) Valid() bool {
	return s == SettlementCash || s == SettlementLease
}

// Tariff carries the fixed registration charges. The lease charge is
// bookkeeping only: it is settled by the financier and never added into the
// customer-facing total.
type Tariff struct {
	CashRegistrationCharge  int64 `mapstructure:"cashRegistrationCharge"`
	LeaseRegistrationCharge int64 `mapstructure:"leaseRegistrationCharge"`
}

func DefaultTariff() Tariff {
	return Tariff{
		CashRegistrationCharge:  13000,
		LeaseRegistrationCharge: 10000,
	}
}

// Reason classifies a Violation for programmatic handling.
type Reason string

const (
	ReasonNotLeaseEligible      Reason = "not_lease_eligible"
	ReasonMissingDownPayment    Reason = "missing_down_payment"
	ReasonMissingAdvanceDetails Reason = "missing_advance_details"
	ReasonNegativeBalance       Reason = "negative_balance"
)

// Violation is a client-input error: the channel / vehicle-class / payment
// combination is invalid. It is never retryable.
type Violation struct {
	Reason Reason
	Detail string
}

func (e *Violation) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("pricing violation (%s): %s", e.Reason, e.Detail)
	}
	return fmt.Sprintf("pricing violation (%s)", e.Reason)
}

func violation(reason Reason, format string, args ...any) error {
	return &Violation{Reason: reason, Detail: fmt.Sprintf(format, args...)}
}

// Snapshot is the vehicle data a bill captures at creation time.
type Snapshot struct {
	ModelName     string
	BasePrice     int64
	Class         catalogdomain.VehicleClass
	LeaseEligible bool
}

func (s Snapshot) Exempt() bool {
	return s.Class == catalogdomain.VehicleClassExempt
}

// Inputs are the payment parameters supplied by the operator.
type Inputs struct {
	Settlement    Settlement // advance only
	DownPayment   int64      // lease settlement only
	AdvanceAmount int64      // advance only
	DeliveryDate  *time.Time // advance only
}

// Breakdown is the computed financial result stored on a bill.
type Breakdown struct {
	// RegistrationCharge is zero for exempt vehicles regardless of channel.
	RegistrationCharge int64
	// FinancierSettles marks a lease-channel registration charge that is
	// recorded for bookkeeping but settled by the financier, so it is not
	// part of TotalAmount.
	FinancierSettles bool
	TotalAmount      int64
	BalanceAmount    int64
}

// Compute derives the breakdown for a vehicle snapshot, channel, and payment
// inputs. It is pure: same inputs, same result, no clock, no store.
func Compute(tariff Tariff, vehicle Snapshot, channel Channel, in Inputs) (Breakdown, error) {
	switch channel {
	case ChannelCash:
		b := settle(tariff, vehicle, SettlementCash, in)
		return b, nil

	case ChannelLease:
		if err := checkLease(vehicle, in); err != nil {
			return Breakdown{}, err
		}
		return settle(tariff, vehicle, SettlementLease, in), nil

	case ChannelAdvance:
		if in.AdvanceAmount <= 0 || in.DeliveryDate == nil || !in.Settlement.Valid() {
			return Breakdown{}, violation(ReasonMissingAdvanceDetails,
				"advance bills require a positive advance amount, an estimated delivery date and a settlement channel")
		}
		if in.Settlement == SettlementLease {
			if err := checkLease(vehicle, in); err != nil {
				return Breakdown{}, err
			}
		}
		b := settle(tariff, vehicle, in.Settlement, in)
		b.BalanceAmount = b.TotalAmount - in.AdvanceAmount
		if b.BalanceAmount < 0 {
			return Breakdown{}, violation(ReasonNegativeBalance,
				"advance %d exceeds total %d", in.AdvanceAmount, b.TotalAmount)
		}
		return b, nil

	default:
		return Breakdown{}, violation(ReasonMissingAdvanceDetails, "unknown bill channel %q", channel)
	}
}

func checkLease(vehicle Snapshot, in Inputs) error {
	if !vehicle.LeaseEligible {
		return violation(ReasonNotLeaseEligible, "model %s is not lease eligible", vehicle.ModelName)
	}
	if in.DownPayment <= 0 {
		return violation(ReasonMissingDownPayment, "lease bills require a positive down payment")
	}
	return nil
}

// settle computes the non-advance charge/total pair for the given settlement
// channel. The class exemption takes precedence over every channel rule.
func settle(tariff Tariff, vehicle Snapshot, settlement Settlement, in Inputs) Breakdown {
	var b Breakdown
	if !vehicle.Exempt() {
		switch settlement {
		case SettlementLease:
			b.RegistrationCharge = tariff.LeaseRegistrationCharge
			b.FinancierSettles = true
		default:
			b.RegistrationCharge = tariff.CashRegistrationCharge
		}
	}

	if settlement == SettlementLease {
		// The customer-facing total of a leased sale is the down payment;
		// the remainder is the financier's concern.
		b.TotalAmount = in.DownPayment
	} else {
		b.TotalAmount = vehicle.BasePrice + b.RegistrationCharge
	}
	return b
}
