package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition_AllowedPaths(t *testing.T) {
	allowed := []struct{ from, to OrderStatus }{
		{OrderStatusPending, OrderStatusPreparing},
		{OrderStatusPending, OrderStatusCancelled},
		{OrderStatusPreparing, OrderStatusReady},
		{OrderStatusPreparing, OrderStatusCancelled},
		{OrderStatusReady, OrderStatusCompleted},
	}

	for _, tc := range allowed {
		assert.True(t, CanTransition(tc.from, tc.to), "%s -> %s should be allowed", tc.from, tc.to)
	}
}

func TestCanTransition_RejectedPaths(t *testing.T) {
	rejected := []struct{ from, to OrderStatus }{
		{OrderStatusCompleted, OrderStatusPreparing},
		{OrderStatusCompleted, OrderStatusPending},
		{OrderStatusCancelled, OrderStatusPreparing},
		{OrderStatusCancelled, OrderStatusPending},
		{OrderStatusReady, OrderStatusCancelled},
		{OrderStatusReady, OrderStatusPending},
		{OrderStatusPending, OrderStatusReady},
		{OrderStatusPending, OrderStatusCompleted},
		{OrderStatusPreparing, OrderStatusCompleted},
		{OrderStatusPending, OrderStatusPending},
	}

	for _, tc := range rejected {
		assert.False(t, CanTransition(tc.from, tc.to), "%s -> %s should be rejected", tc.from, tc.to)
	}
}

func TestOrderStatus_Valid(t *testing.T) {
	for _, s := range []OrderStatus{OrderStatusPending, OrderStatusPreparing, OrderStatusReady, OrderStatusCompleted, OrderStatusCancelled} {
		assert.True(t, s.Valid())
	}
	assert.False(t, OrderStatus("shipped").Valid())
	assert.False(t, OrderStatus("").Valid())
}

func TestOrderType_Valid(t *testing.T) {
	assert.True(t, OrderTypePickup.Valid())
	assert.True(t, OrderTypeDelivery.Valid())
	assert.False(t, OrderType("dine-in").Valid())
}

func TestPaymentMethod_Valid(t *testing.T) {
	assert.True(t, PaymentCash.Valid())
	assert.True(t, PaymentCard.Valid())
	assert.False(t, PaymentMethod("crypto").Valid())
}

func TestCustomizations_ScanNull(t *testing.T) {
	var c Customizations
	assert.NoError(t, c.Scan(nil))
	assert.Nil(t, c)

	assert.NoError(t, c.Scan([]byte(`{"Spice Level":["Hot"]}`)))
	assert.Equal(t, []string{"Hot"}, c["Spice Level"])
}
