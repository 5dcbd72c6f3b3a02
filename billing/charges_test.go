package billing

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kpslogistics/models"
)

func bestSellers() *models.Vendor {
	v := models.NewVendor("M/S Best Sellers")
	v.ID = 1
	v.ShowRailway = false
	return v
}

func TestComputeEntryChargesZeroesHiddenRailway(t *testing.T) {
	in := models.EntryInput{
		Date:      "2024-04-10",
		VendorID:  "1",
		Parcels:   "10",
		Handling:  "700",
		Railway:   "500",
		Transport: "0",
	}

	e, err := ComputeEntryCharges(in, bestSellers())
	require.NoError(t, err)

	require.NotNil(t, e.Flat)
	assert.Nil(t, e.Rated)
	assert.Equal(t, models.PricingFlat, e.Mode)
	assert.Equal(t, 700.0, e.Flat.Handling)
	assert.Equal(t, 0.0, e.Flat.Railway)
	assert.Equal(t, 0.0, e.Flat.Transport)
	assert.Equal(t, 700.0, e.GrandTotal)
	assert.Equal(t, 10, e.Parcels)
	assert.Empty(t, e.CoercedFields)
}

func TestComputeEntryChargesKeepsFullPrecision(t *testing.T) {
	v := models.NewVendor("M/S Shiva Express")
	v.ID = 2
	in := models.EntryInput{
		Date:      "2024-04-10",
		VendorID:  "2",
		Handling:  "0.005",
		Railway:   "0.005",
		Transport: "1e13",
	}

	e, err := ComputeEntryCharges(in, v)
	require.NoError(t, err)
	assert.Equal(t, 0.005, e.Flat.Handling)
	assert.Equal(t, 0.005, e.Flat.Railway)
	assert.Equal(t, 1e13, e.Flat.Transport)
	assert.Equal(t, e.Flat.Handling+e.Flat.Railway+e.Flat.Transport, e.GrandTotal)
	assert.Equal(t, e.ComponentsTotal(), e.GrandTotal)
	assert.Empty(t, e.CoercedFields)
}

func TestComputeEntryChargesDefaults(t *testing.T) {
	v := models.NewVendor("Manipal Technologies")
	v.ID = 3

	e, err := ComputeEntryCharges(models.EntryInput{Date: " 2024-04-10 ", Parcels: "2", Handling: "140"}, v)
	require.NoError(t, err)

	assert.Equal(t, models.DefaultShipFrom, e.ShipFrom)
	assert.Equal(t, models.DefaultShipTo, e.ShipTo)
	assert.Nil(t, e.RRNo)
	assert.Nil(t, e.InvoiceRef)
	assert.Equal(t, int64(3), e.VendorID)
	assert.Equal(t, day(2024, 4, 10), e.Date)
}

func TestComputeEntryChargesCoercesBadNumbers(t *testing.T) {
	v := models.NewVendor("M/S Shiva Express")
	v.ID = 2

	in := models.EntryInput{
		Date:      "2024-04-10",
		Parcels:   "abc",
		Handling:  "1,250.50",
		Railway:   "NaN",
		Transport: "ten",
		RRNo:      " RR-11 ",
	}
	e, err := ComputeEntryCharges(in, v)
	require.NoError(t, err)

	assert.Equal(t, 0, e.Parcels)
	assert.Equal(t, 1250.50, e.Flat.Handling)
	assert.Equal(t, 0.0, e.Flat.Railway)
	assert.Equal(t, 0.0, e.Flat.Transport)
	assert.Equal(t, 1250.50, e.GrandTotal)
	assert.ElementsMatch(t, []string{"parcels", "railway", "transport"}, e.CoercedFields)
	require.NotNil(t, e.RRNo)
	assert.Equal(t, "RR-11", *e.RRNo)
}

func TestComputeEntryChargesNegativeParcelsClampToZero(t *testing.T) {
	v := models.NewVendor("X")
	v.ID = 9
	v.PricingMode = models.PricingRated

	e, err := ComputeEntryCharges(models.EntryInput{Date: "2024-04-10", Parcels: "-4"}, v)
	require.NoError(t, err)
	assert.Equal(t, 0, e.Parcels)
	assert.Equal(t, 0.0, e.Rated.TotalFreight)
	assert.Empty(t, e.CoercedFields)
}

func TestComputeEntryChargesRated(t *testing.T) {
	v := models.NewVendor("Rated Vendor")
	v.ID = 4
	v.PricingMode = models.PricingRated
	v.RatePerParcel = 70
	v.TransportRate = 5

	t.Run("vendor rates apply when blank", func(t *testing.T) {
		in := models.EntryInput{
			Date:      "2024-04-10",
			Parcels:   "10",
			Hamali:    "50",
			Statutory: "20",
			CR:        "10",
			Railway:   "100",
			Demurrage: "",
		}
		e, err := ComputeEntryCharges(in, v)
		require.NoError(t, err)
		require.NotNil(t, e.Rated)
		assert.Nil(t, e.Flat)
		assert.Equal(t, models.PricingRated, e.Mode)
		assert.Equal(t, 70.0, e.Rated.BoxRate)
		assert.Equal(t, 5.0, e.Rated.TransportRate)
		assert.Equal(t, 700.0, e.Rated.TotalFreight)
		assert.Equal(t, 50.0, e.Rated.TransportCharges)
		assert.Equal(t, 930.0, e.GrandTotal)
	})

	t.Run("overrides win", func(t *testing.T) {
		in := models.EntryInput{Date: "2024-04-10", Parcels: "3", BoxRate: "80", TransportRate: "0"}
		e, err := ComputeEntryCharges(in, v)
		require.NoError(t, err)
		assert.Equal(t, 240.0, e.Rated.TotalFreight)
		assert.Equal(t, 0.0, e.Rated.TransportCharges)
		assert.Equal(t, 240.0, e.GrandTotal)
	})

	t.Run("malformed override falls back to vendor rate", func(t *testing.T) {
		in := models.EntryInput{Date: "2024-04-10", Parcels: "2", BoxRate: "eighty"}
		e, err := ComputeEntryCharges(in, v)
		require.NoError(t, err)
		assert.Equal(t, 70.0, e.Rated.BoxRate)
		assert.Contains(t, e.CoercedFields, "box_rate")
	})

	t.Run("hidden columns zero rated charges", func(t *testing.T) {
		hidden := *v
		hidden.ShowHandling = false
		hidden.ShowTransport = false
		hidden.ShowRailway = false
		in := models.EntryInput{Date: "2024-04-10", Parcels: "10", Railway: "100", Hamali: "25"}
		e, err := ComputeEntryCharges(in, &hidden)
		require.NoError(t, err)
		assert.Equal(t, 0.0, e.Rated.TotalFreight)
		assert.Equal(t, 0.0, e.Rated.TransportCharges)
		assert.Equal(t, 0.0, e.Rated.Railway)
		assert.Equal(t, 25.0, e.GrandTotal)
	})
}

func TestComputeEntryChargesRejects(t *testing.T) {
	v := bestSellers()

	tests := []struct {
		name   string
		in     models.EntryInput
		vendor *models.Vendor
		field  string
	}{
		{"nil vendor", models.EntryInput{Date: "2024-04-10"}, nil, "vendor"},
		{"unsaved vendor", models.EntryInput{Date: "2024-04-10"}, models.NewVendor("x"), "vendor"},
		{"bad date", models.EntryInput{Date: "10/04/2024"}, v, "date"},
		{"blank date", models.EntryInput{}, v, "date"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := ComputeEntryCharges(tt.in, tt.vendor)
			require.Error(t, err)
			assert.Nil(t, e)
			assert.True(t, errors.Is(err, models.ErrValidation))
			var verr *models.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestComputeEntryChargesIsDeterministic(t *testing.T) {
	in := models.EntryInput{Date: "2024-04-10", Parcels: "7", Handling: "490", Transport: "35"}
	a, err := ComputeEntryCharges(in, bestSellers())
	require.NoError(t, err)
	b, err := ComputeEntryCharges(in, bestSellers())
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.Equal(t, a.ComponentsTotal(), a.GrandTotal)
}
