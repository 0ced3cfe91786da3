package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ridewell/motorbill/internal/bill/domain"
	catalogdomain "github.com/ridewell/motorbill/internal/catalog/domain"
	"github.com/ridewell/motorbill/internal/pricing"
)

func createAdvance(t *testing.T, env *testEnv, modelName string, settlement pricing.Settlement, advance, downPayment int64) domain.Bill {
	t.Helper()
	delivery := time.Date(2025, 4, 15, 0, 0, 0, 0, time.UTC)

	req := cashRequest(modelName)
	req.Channel = pricing.ChannelAdvance
	req.Settlement = settlement
	req.AdvanceAmount = advance
	req.DownPayment = downPayment
	req.EstimatedDeliveryDate = &delivery

	bill, err := env.bills.Create(context.Background(), req)
	require.NoError(t, err)
	require.Equal(t, domain.BillStatusPending, bill.Status)
	return bill
}

func TestConvertAdvanceToCash(t *testing.T) {
	env := newTestEnv(t)
	env.seedCatalog(t)
	ctx := context.Background()

	source := createAdvance(t, env, "CT-100", pricing.SettlementCash, 30000, 0)
	env.clock.Advance(48 * time.Hour)

	resp, err := env.bills.Convert(ctx, domain.ConvertBillRequest{
		ID:         source.ID.String(),
		Settlement: pricing.SettlementCash,
	})
	require.NoError(t, err)

	assert.Equal(t, domain.BillStatusConverted, resp.Source.Status)

	successor := resp.Successor
	assert.Equal(t, domain.BillStatusCompleted, successor.Status)
	assert.Equal(t, pricing.ChannelCash, successor.Channel)
	assert.Equal(t, int64(113000), successor.TotalAmount)
	assert.Equal(t, int64(0), successor.BalanceAmount)
	require.NotNil(t, successor.OriginalBillID)
	assert.Equal(t, source.ID, *successor.OriginalBillID)
	// Carried for audit only.
	assert.Equal(t, int64(30000), successor.AdvanceAmount)
	assert.NotEqual(t, source.DisplayNumber, successor.DisplayNumber)

	// The stored source matches the response.
	stored, err := env.bills.GetByID(ctx, source.ID.String())
	require.NoError(t, err)
	assert.Equal(t, domain.BillStatusConverted, stored.Status)
}

func TestConvertAdvanceToLease(t *testing.T) {
	env := newTestEnv(t)
	env.seedCatalog(t)

	source := createAdvance(t, env, "CT-100", pricing.SettlementLease, 5000, 20000)

	resp, err := env.bills.Convert(context.Background(), domain.ConvertBillRequest{
		ID:          source.ID.String(),
		Settlement:  pricing.SettlementLease,
		DownPayment: 20000,
	})
	require.NoError(t, err)

	successor := resp.Successor
	assert.Equal(t, pricing.ChannelLease, successor.Channel)
	assert.Equal(t, int64(20000), successor.TotalAmount)
	assert.Equal(t, int64(10000), successor.RegistrationCharge)
	assert.True(t, successor.FinancierSettles)
	assert.Equal(t, int64(20000), successor.DownPayment)
}

func TestConvertFailureLeavesSourcePending(t *testing.T) {
	env := newTestEnv(t)
	env.seedCatalog(t)
	ctx := context.Background()

	source := createAdvance(t, env, "CT-100", pricing.SettlementCash, 30000, 0)

	// Lease settlement without a down payment fails inside the transaction;
	// the source must stay untouched.
	_, err := env.bills.Convert(ctx, domain.ConvertBillRequest{
		ID:         source.ID.String(),
		Settlement: pricing.SettlementLease,
	})
	var violation *pricing.Violation
	require.ErrorAs(t, err, &violation)
	assert.Equal(t, pricing.ReasonMissingDownPayment, violation.Reason)

	stored, err := env.bills.GetByID(ctx, source.ID.String())
	require.NoError(t, err)
	assert.Equal(t, domain.BillStatusPending, stored.Status)

	bills, err := env.bills.List(ctx, domain.ListBillRequest{})
	require.NoError(t, err)
	assert.Len(t, bills, 1)
}

func TestConvertIsNotRepeatable(t *testing.T) {
	env := newTestEnv(t)
	env.seedCatalog(t)
	ctx := context.Background()

	source := createAdvance(t, env, "CT-100", pricing.SettlementCash, 30000, 0)

	_, err := env.bills.Convert(ctx, domain.ConvertBillRequest{
		ID:         source.ID.String(),
		Settlement: pricing.SettlementCash,
	})
	require.NoError(t, err)

	_, err = env.bills.Convert(ctx, domain.ConvertBillRequest{
		ID:         source.ID.String(),
		Settlement: pricing.SettlementCash,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestConvertRejectsNonAdvanceBill(t *testing.T) {
	env := newTestEnv(t)
	env.seedCatalog(t)

	bill, err := env.bills.Create(context.Background(), cashRequest("CT-100"))
	require.NoError(t, err)

	_, err = env.bills.Convert(context.Background(), domain.ConvertBillRequest{
		ID:         bill.ID.String(),
		Settlement: pricing.SettlementCash,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestConvertRejectsInvalidSettlement(t *testing.T) {
	env := newTestEnv(t)
	env.seedCatalog(t)

	source := createAdvance(t, env, "CT-100", pricing.SettlementCash, 30000, 0)

	_, err := env.bills.Convert(context.Background(), domain.ConvertBillRequest{
		ID:         source.ID.String(),
		Settlement: "BARTER",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidChannel)
}

func TestConvertDefaultKeepsOriginalPrice(t *testing.T) {
	env := newTestEnv(t)
	env.seedCatalog(t)
	ctx := context.Background()

	source := createAdvance(t, env, "CT-100", pricing.SettlementCash, 30000, 0)

	newPrice := int64(125000)
	_, err := env.catalog.Update(ctx, catalogdomain.UpdateModelRequest{Name: "CT-100", BasePrice: &newPrice})
	require.NoError(t, err)

	resp, err := env.bills.Convert(ctx, domain.ConvertBillRequest{
		ID:         source.ID.String(),
		Settlement: pricing.SettlementCash,
	})
	require.NoError(t, err)

	// The snapshot price from when the advance was taken wins by default.
	assert.Equal(t, int64(100000), resp.Successor.BasePrice)
	assert.Equal(t, int64(113000), resp.Successor.TotalAmount)
}

func TestConvertResnapshotUsesCurrentPrice(t *testing.T) {
	env := newTestEnv(t)
	env.seedCatalog(t)
	ctx := context.Background()

	source := createAdvance(t, env, "CT-100", pricing.SettlementCash, 30000, 0)

	newPrice := int64(125000)
	_, err := env.catalog.Update(ctx, catalogdomain.UpdateModelRequest{Name: "CT-100", BasePrice: &newPrice})
	require.NoError(t, err)

	resp, err := env.bills.Convert(ctx, domain.ConvertBillRequest{
		ID:         source.ID.String(),
		Settlement: pricing.SettlementCash,
		Resnapshot: true,
	})
	require.NoError(t, err)

	assert.Equal(t, int64(125000), resp.Successor.BasePrice)
	assert.Equal(t, int64(138000), resp.Successor.TotalAmount)
}

func TestDeleteConvertedSourceBlocked(t *testing.T) {
	env := newTestEnv(t)
	env.seedCatalog(t)
	ctx := context.Background()

	source := createAdvance(t, env, "CT-100", pricing.SettlementCash, 30000, 0)

	resp, err := env.bills.Convert(ctx, domain.ConvertBillRequest{
		ID:         source.ID.String(),
		Settlement: pricing.SettlementCash,
	})
	require.NoError(t, err)

	// The successor's back-reference pins the source.
	err = env.bills.Delete(ctx, source.ID.String())
	assert.ErrorIs(t, err, domain.ErrReferentialConflict)

	// Removing the successor first releases it.
	require.NoError(t, env.bills.Delete(ctx, resp.Successor.ID.String()))
	require.NoError(t, env.bills.Delete(ctx, source.ID.String()))
}

func TestConvertBillNotFound(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.bills.Convert(context.Background(), domain.ConvertBillRequest{
		ID:         "424242",
		Settlement: pricing.SettlementCash,
	})
	assert.ErrorIs(t, err, domain.ErrBillNotFound)
}
