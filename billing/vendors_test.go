package billing

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kpslogistics/models"
)

type vendorFixture struct {
	svc     *VendorService
	vendors *memVendorRepo
	entries *memEntryRepo
	sink    *recordingSink
}

func newVendorFixture(vendors ...*models.Vendor) vendorFixture {
	f := vendorFixture{
		vendors: newMemVendorRepo(vendors...),
		entries: newMemEntryRepo(),
		sink:    &recordingSink{},
	}
	f.svc = NewVendorService(f.vendors, f.entries, f.sink, nil, nil)
	f.svc.Now = fixedNow(time.Date(2024, 4, 10, 0, 0, 0, 0, time.UTC))
	return f
}

func TestCreateVendor(t *testing.T) {
	f := newVendorFixture()
	rate := 80.0

	v, err := f.svc.CreateVendor(context.Background(), "admin", models.VendorInput{
		Name:          "  Coastal Cargo ",
		RatePerParcel: &rate,
		PricingMode:   models.PricingRated,
		BillingName:   ptr("  "),
	})
	require.NoError(t, err)

	assert.NotZero(t, v.ID)
	assert.Equal(t, "Coastal Cargo", v.Name)
	assert.Equal(t, 80.0, v.RatePerParcel)
	assert.Equal(t, models.PricingRated, v.PricingMode)
	assert.Nil(t, v.BillingName)
	assert.True(t, v.ShowRailway)
	assert.Equal(t, auditEvent{"admin", models.ActionAddVendor, "Coastal Cargo (rated, rate 80.00)"}, f.sink.last())
}

func TestCreateVendorValidation(t *testing.T) {
	f := newVendorFixture()
	negative := -1.0

	tests := []struct {
		name  string
		in    models.VendorInput
		field string
	}{
		{"blank name", models.VendorInput{Name: "   "}, "name"},
		{"negative rate", models.VendorInput{Name: "X", RatePerParcel: &negative}, "rateperparcel"},
		{"bad mode", models.VendorInput{Name: "X", PricingMode: "weekly"}, "pricingmode"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.CreateVendor(context.Background(), "admin", tt.in)
			var verr *models.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
	assert.Empty(t, f.vendors.vendors)
}

func TestCreateVendorDuplicate(t *testing.T) {
	f := newVendorFixture(analyticsVendors()...)

	_, err := f.svc.CreateVendor(context.Background(), "admin", models.VendorInput{Name: "M/S Best Sellers"})
	assert.ErrorIs(t, err, models.ErrDuplicateVendor)
	assert.Len(t, f.vendors.vendors, 3)
}

func TestUpdateVendor(t *testing.T) {
	f := newVendorFixture(analyticsVendors()...)
	ctx := context.Background()

	rate := 90.0
	v, err := f.svc.UpdateVendor(ctx, "admin", 2, models.VendorInput{RatePerParcel: &rate, ShowRR: ptr(false)})
	require.NoError(t, err)
	assert.Equal(t, "M/S Shiva Express", v.Name)
	assert.Equal(t, 90.0, v.RatePerParcel)
	assert.False(t, v.ShowRR)
	assert.Equal(t, auditEvent{"admin", models.ActionUpdateRate, "M/S Shiva Express: 70.00 -> 90.00"}, f.sink.last())

	v, err = f.svc.UpdateVendor(ctx, "admin", 2, models.VendorInput{Name: "Shiva Express"})
	require.NoError(t, err)
	assert.Equal(t, "Shiva Express", v.Name)
	assert.Equal(t, auditEvent{"admin", models.ActionUpdateVendor, "Shiva Express"}, f.sink.last())

	_, err = f.svc.UpdateVendor(ctx, "admin", 2, models.VendorInput{Name: "Manipal Technologies"})
	assert.ErrorIs(t, err, models.ErrDuplicateVendor)

	_, err = f.svc.UpdateVendor(ctx, "admin", 40, models.VendorInput{Name: "Ghost"})
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestDeleteVendor(t *testing.T) {
	f := newVendorFixture(analyticsVendors()...)
	ctx := context.Background()
	require.NoError(t, f.entries.CreateEntry(ctx, flatEntry(1, day(2024, 4, 1), 1, 70, "Udupi")))

	err := f.svc.DeleteVendor(ctx, "admin", 1)
	assert.ErrorIs(t, err, models.ErrVendorInUse)
	assert.Contains(t, f.vendors.vendors, int64(1))

	require.NoError(t, f.svc.DeleteVendor(ctx, "admin", 3))
	assert.NotContains(t, f.vendors.vendors, int64(3))
	assert.Equal(t, auditEvent{"admin", models.ActionDeleteVendor, "Manipal Technologies"}, f.sink.last())

	assert.ErrorIs(t, f.svc.DeleteVendor(ctx, "admin", 3), models.ErrNotFound)
}

func TestSetDefaultVendorIsExclusive(t *testing.T) {
	f := newVendorFixture(analyticsVendors()...)
	ctx := context.Background()

	_, err := f.svc.SetDefaultVendor(ctx, "admin", 1)
	require.NoError(t, err)
	v, err := f.svc.SetDefaultVendor(ctx, "admin", 3)
	require.NoError(t, err)

	assert.True(t, v.IsDefault)
	assert.Equal(t, []int64{3}, f.vendors.defaults())

	_, err = f.svc.SetDefaultVendor(ctx, "admin", 99)
	assert.ErrorIs(t, err, models.ErrNotFound)
	assert.Equal(t, []int64{3}, f.vendors.defaults())
}

func TestPendingBalance(t *testing.T) {
	f := newVendorFixture(analyticsVendors()...)
	ctx := context.Background()

	v, err := f.svc.AdjustPendingBalance(ctx, "accounts", 2, 1200)
	require.NoError(t, err)
	assert.Equal(t, 1200.0, v.PendingBalance)

	v, err = f.svc.RecordPayment(ctx, "accounts", 2, 450.5)
	require.NoError(t, err)
	assert.Equal(t, 749.5, v.PendingBalance)
	assert.Equal(t, auditEvent{"accounts", models.ActionUpdateBalance, "M/S Shiva Express: 1200.00 -> 749.50"}, f.sink.last())

	for _, bad := range []float64{0, -10, math.NaN(), math.Inf(1)} {
		_, err := f.svc.RecordPayment(ctx, "accounts", 2, bad)
		var verr *models.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "amount", verr.Field)
	}

	_, err = f.svc.AdjustPendingBalance(ctx, "accounts", 2, math.Inf(-1))
	assert.ErrorIs(t, err, models.ErrValidation)

	_, err = f.svc.RecordPayment(ctx, "accounts", 99, 10)
	assert.ErrorIs(t, err, models.ErrNotFound)

	stored, err := f.vendors.GetVendor(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, 749.5, stored.PendingBalance)
}

func TestFindVendor(t *testing.T) {
	f := newVendorFixture(analyticsVendors()...)
	ctx := context.Background()

	v, err := f.svc.FindVendor(ctx, "2")
	require.NoError(t, err)
	assert.Equal(t, "M/S Shiva Express", v.Name)

	v, err = f.svc.FindVendor(ctx, " Manipal Technologies ")
	require.NoError(t, err)
	assert.Equal(t, int64(3), v.ID)

	_, err = f.svc.FindVendor(ctx, "Nobody")
	assert.ErrorIs(t, err, models.ErrNotFound)

	_, err = f.svc.FindVendor(ctx, "")
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestSeedDefaults(t *testing.T) {
	f := newVendorFixture()
	ctx := context.Background()

	require.NoError(t, f.svc.SeedDefaults(ctx, "A", "B", "C"))
	all, err := f.svc.ListVendors(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "A", all[0].Name)
	assert.True(t, all[0].IsDefault)
	assert.Len(t, f.vendors.defaults(), 1)
	assert.Equal(t, models.ActionSystem, f.sink.last().action)

	require.NoError(t, f.svc.SeedDefaults(ctx, "D"))
	all, err = f.svc.ListVendors(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}
