package checkout

import (
	"github.com/shopspring/decimal"

	"china-one/internal/cart"
	"china-one/internal/domain"
)

// Rates are the restaurant's pricing constants, taken from the profile.
type Rates struct {
	TaxRate     decimal.Decimal
	DeliveryFee decimal.Decimal
}

// Quote is the frozen monetary breakdown shown at the payment step and
// persisted on the order. Computed once from the cart snapshot; later cart
// mutations cannot reach it.
type Quote struct {
	Subtotal    decimal.Decimal
	Tax         decimal.Decimal
	DeliveryFee decimal.Decimal
	Total       decimal.Decimal
}

// ComputeQuote prices a line snapshot. All arithmetic is exact decimal;
// rounding happens once per derived figure, half away from zero.
func ComputeQuote(lines []cart.Line, orderType domain.OrderType, rates Rates) Quote {
	subtotal := decimal.Zero
	for _, l := range lines {
		subtotal = subtotal.Add(l.Total())
	}
	subtotal = domain.RoundMoney(subtotal)

	tax := domain.RoundMoney(subtotal.Mul(rates.TaxRate))

	fee := decimal.Zero
	if orderType == domain.OrderTypeDelivery {
		fee = rates.DeliveryFee
	}

	return Quote{
		Subtotal:    subtotal,
		Tax:         tax,
		DeliveryFee: fee,
		Total:       domain.RoundMoney(subtotal.Add(tax).Add(fee)),
	}
}
