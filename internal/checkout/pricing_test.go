package checkout

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"china-one/internal/cart"
	"china-one/internal/domain"
)

func testRates() Rates {
	return Rates{
		TaxRate:     domain.Money("0.0825"),
		DeliveryFee: domain.Money("2.99"),
	}
}

func TestComputeQuote_Pickup(t *testing.T) {
	lines := []cart.Line{
		{MenuItemID: "wonton-soup", Quantity: 2, UnitPrice: domain.Money("6.95")},
	}

	q := ComputeQuote(lines, domain.OrderTypePickup, testRates())

	// 13.90 subtotal, 13.90 * 0.0825 = 1.14675 -> 1.15.
	assert.Equal(t, "13.90", q.Subtotal.StringFixed(2))
	assert.Equal(t, "1.15", q.Tax.StringFixed(2))
	assert.Equal(t, "0.00", q.DeliveryFee.StringFixed(2))
	assert.Equal(t, "15.05", q.Total.StringFixed(2))
}

func TestComputeQuote_DeliveryAddsFee(t *testing.T) {
	lines := []cart.Line{
		{MenuItemID: "wonton-soup", Quantity: 2, UnitPrice: domain.Money("6.95")},
	}

	q := ComputeQuote(lines, domain.OrderTypeDelivery, testRates())

	assert.Equal(t, "13.90", q.Subtotal.StringFixed(2))
	assert.Equal(t, "1.15", q.Tax.StringFixed(2))
	assert.Equal(t, "2.99", q.DeliveryFee.StringFixed(2))
	assert.Equal(t, "18.04", q.Total.StringFixed(2))
}

func TestComputeQuote_RoundsHalfAwayFromZero(t *testing.T) {
	// 3.50 * 0.0825 = 0.28875 -> 0.29, not banker's 0.28.
	lines := []cart.Line{
		{MenuItemID: "spring-roll", Quantity: 1, UnitPrice: domain.Money("3.50")},
	}

	q := ComputeQuote(lines, domain.OrderTypePickup, testRates())

	assert.Equal(t, "0.29", q.Tax.StringFixed(2))
	assert.Equal(t, "3.79", q.Total.StringFixed(2))
}

func TestComputeQuote_MultipleLines(t *testing.T) {
	lines := []cart.Line{
		{MenuItemID: "wonton-soup", Quantity: 2, UnitPrice: domain.Money("6.95")},
		{MenuItemID: "fried-rice", Quantity: 1, UnitPrice: domain.Money("9.25")},
		{MenuItemID: "spring-roll", Quantity: 3, UnitPrice: domain.Money("3.50")},
	}

	q := ComputeQuote(lines, domain.OrderTypePickup, testRates())

	// 13.90 + 9.25 + 10.50 = 33.65; tax 2.776125 -> 2.78.
	assert.Equal(t, "33.65", q.Subtotal.StringFixed(2))
	assert.Equal(t, "2.78", q.Tax.StringFixed(2))
	assert.Equal(t, "36.43", q.Total.StringFixed(2))
}

func TestComputeQuote_EmptySnapshot(t *testing.T) {
	q := ComputeQuote(nil, domain.OrderTypePickup, testRates())

	assert.True(t, q.Subtotal.IsZero())
	assert.True(t, q.Tax.IsZero())
	assert.True(t, q.Total.IsZero())
}
