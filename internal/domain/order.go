package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusPreparing OrderStatus = "preparing"
	OrderStatusReady     OrderStatus = "ready"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusCancelled OrderStatus = "cancelled"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusPreparing, OrderStatusReady,
		OrderStatusCompleted, OrderStatusCancelled:
		return true
	}
	return false
}

// allowedTransitions is the full lifecycle table. Terminal states have no
// entry. Cancellation is only reachable while the kitchen can still stop.
var allowedTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:   {OrderStatusPreparing, OrderStatusCancelled},
	OrderStatusPreparing: {OrderStatusReady, OrderStatusCancelled},
	OrderStatusReady:     {OrderStatusCompleted},
}

func CanTransition(from, to OrderStatus) bool {
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

type OrderType string

const (
	OrderTypePickup   OrderType = "pickup"
	OrderTypeDelivery OrderType = "delivery"
)

func (t OrderType) Valid() bool {
	return t == OrderTypePickup || t == OrderTypeDelivery
}

type PaymentMethod string

const (
	PaymentCash PaymentMethod = "cash"
	PaymentCard PaymentMethod = "card"
)

func (m PaymentMethod) Valid() bool {
	return m == PaymentCash || m == PaymentCard
}

// Customizations maps an option-group name to the selected option values.
// Stored as JSON in MySQL.
type Customizations map[string][]string

func (c Customizations) Value() (driver.Value, error) {
	if c == nil {
		return "{}", nil
	}
	b, err := json.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("marshaling customizations: %w", err)
	}
	return string(b), nil
}

func (c *Customizations) Scan(src interface{}) error {
	var data []byte
	switch v := src.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	case nil:
		*c = nil
		return nil
	default:
		return fmt.Errorf("unsupported customizations column type %T", src)
	}
	if len(data) == 0 {
		*c = nil
		return nil
	}
	return json.Unmarshal(data, c)
}

// Order is the persisted aggregate root. Contact fields and the monetary
// breakdown are snapshots taken at checkout time; later profile or menu
// edits never rewrite them.
type Order struct {
	ID                  uint
	CustomerID          string
	CustomerName        string
	CustomerPhone       string
	CustomerEmail       string
	OrderType           OrderType
	PaymentMethod       PaymentMethod
	Status              OrderStatus
	Subtotal            decimal.Decimal
	Tax                 decimal.Decimal
	DeliveryFee         decimal.Decimal
	Total               decimal.Decimal
	SpecialInstructions string
	EstimatedReadyAt    time.Time
	CompletedAt         *time.Time
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// OrderItem is an immutable child of Order, created in the same transaction
// as its parent. Name and prices are captured at order time.
type OrderItem struct {
	ID                  uint
	OrderID             uint
	MenuItemID          string
	Name                string
	Quantity            int
	BasePrice           decimal.Decimal
	FinalPrice          decimal.Decimal
	Customizations      Customizations
	SpecialInstructions string
}
