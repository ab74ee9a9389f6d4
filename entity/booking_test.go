package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewCostBreakdown(t *testing.T) {
	t.Run("upgrade", func(t *testing.T) {
		cost := NewCostBreakdown(5000, 6200, 500, 200)

		assert.Equal(t, 1200, cost.PriceDifference)
		assert.Equal(t, 500, cost.ChangeFee)
		assert.Equal(t, 1700, cost.TotalCost)
		assert.Equal(t, 0, cost.RefundAmount)
	})

	t.Run("downgrade", func(t *testing.T) {
		cost := NewCostBreakdown(5000, 4000, 500, 200)

		assert.Equal(t, -1000, cost.PriceDifference)
		assert.Equal(t, 200, cost.ChangeFee)
		assert.Equal(t, 200, cost.TotalCost, "only the fee is due, the difference comes back as refund")
		assert.Equal(t, 1000, cost.RefundAmount)
	})

	t.Run("same fare", func(t *testing.T) {
		cost := NewCostBreakdown(5000, 5000, 500, 200)

		assert.Equal(t, 0, cost.PriceDifference)
		assert.Equal(t, 500, cost.ChangeFee)
		assert.Equal(t, 500, cost.TotalCost)
		assert.Equal(t, 0, cost.RefundAmount)
	})
}

func TestBooking_Validate(t *testing.T) {
	valid := Booking{
		CustomerID:   "cust-1",
		FlightNumber: "QP1101",
		Origin:       "BOM",
		Destination:  "DEL",
		DepartDate:   "2026-09-01",
	}
	assert.Empty(t, valid.Validate())

	missing := Booking{}
	fields := missing.Validate()
	for _, field := range []string{"customer_id", "flight_number", "origin", "destination", "depart_date"} {
		assert.Contains(t, fields, field)
	}

	badDate := valid
	badDate.DepartDate = "September 1st"
	assert.Contains(t, badDate.Validate(), "depart_date")
}
