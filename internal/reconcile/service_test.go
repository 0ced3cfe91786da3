package reconcile

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	billdomain "github.com/ridewell/motorbill/internal/bill/domain"
	catalogdomain "github.com/ridewell/motorbill/internal/catalog/domain"
	"github.com/ridewell/motorbill/internal/clock"
	"github.com/ridewell/motorbill/internal/pricing"
)

func newTestSweep(t *testing.T) (*Service, *gorm.DB, *snowflake.Node) {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, gdb.AutoMigrate(&billdomain.Bill{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	svc := New(Params{
		DB:    gdb,
		Log:   zap.NewNop(),
		Clock: clock.NewFakeClock(time.Date(2025, 3, 10, 6, 0, 0, 0, time.UTC)),
	})
	return svc, gdb, node
}

func insertBill(t *testing.T, gdb *gorm.DB, node *snowflake.Node, class catalogdomain.VehicleClass, basePrice, charge, total int64) snowflake.ID {
	t.Helper()

	bill := billdomain.Bill{
		ID:                 node.Generate(),
		Channel:            pricing.ChannelCash,
		CustomerName:       "N. Perera",
		CustomerNIC:        "861234567V",
		CustomerAddress:    "12 Temple Lane, Kandy",
		ModelName:          "E-Trike",
		VehicleClass:       class,
		BasePrice:          basePrice,
		RegistrationCharge: charge,
		TotalAmount:        total,
		Status:             billdomain.BillStatusCompleted,
		CreatedAt:          time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC),
		UpdatedAt:          time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC),
	}
	bill.Number = int64(bill.ID) % 1_000_000
	bill.DisplayNumber = "BILL-TEST-" + bill.ID.String()
	require.NoError(t, gdb.Create(&bill).Error)
	return bill.ID
}

func TestRunCorrectsDriftedExemptTotals(t *testing.T) {
	svc, gdb, node := newTestSweep(t)
	ctx := context.Background()

	// Drifted: exempt bill whose total still carries a charge.
	drifted := insertBill(t, gdb, node, catalogdomain.VehicleClassExempt, 50000, 13000, 63000)
	// Healthy exempt bill.
	healthy := insertBill(t, gdb, node, catalogdomain.VehicleClassExempt, 50000, 0, 50000)
	// Standard bills are never touched.
	standard := insertBill(t, gdb, node, catalogdomain.VehicleClassStandard, 100000, 13000, 113000)

	result, err := svc.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Inspected)
	assert.Equal(t, 1, result.Corrected)
	assert.Equal(t, 0, result.Reported)
	assert.Equal(t, 0, result.Failed)

	var total int64
	require.NoError(t, gdb.Raw(`SELECT total_amount FROM bills WHERE id = ?`, drifted).Scan(&total).Error)
	assert.Equal(t, int64(50000), total)

	require.NoError(t, gdb.Raw(`SELECT total_amount FROM bills WHERE id = ?`, healthy).Scan(&total).Error)
	assert.Equal(t, int64(50000), total)

	require.NoError(t, gdb.Raw(`SELECT total_amount FROM bills WHERE id = ?`, standard).Scan(&total).Error)
	assert.Equal(t, int64(113000), total)
}

func TestRunIsIdempotent(t *testing.T) {
	svc, gdb, node := newTestSweep(t)
	ctx := context.Background()

	insertBill(t, gdb, node, catalogdomain.VehicleClassExempt, 50000, 13000, 63000)

	first, err := svc.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, first.Corrected)

	second, err := svc.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, second.Inspected)
	assert.Equal(t, 0, second.Corrected)
}

func TestRunReportsStaleChargeWithoutDrift(t *testing.T) {
	svc, gdb, node := newTestSweep(t)

	// Charge column set but total already clean: reported, not healed.
	id := insertBill(t, gdb, node, catalogdomain.VehicleClassExempt, 50000, 13000, 50000)

	result, err := svc.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Inspected)
	assert.Equal(t, 0, result.Corrected)
	assert.Equal(t, 1, result.Reported)

	var charge int64
	require.NoError(t, gdb.Raw(`SELECT registration_charge FROM bills WHERE id = ?`, id).Scan(&charge).Error)
	assert.Equal(t, int64(13000), charge)
}

func TestRunEmptyStore(t *testing.T) {
	svc, _, _ := newTestSweep(t)

	result, err := svc.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Result{}, result)
}
