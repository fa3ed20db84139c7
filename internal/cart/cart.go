package cart

import (
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"china-one/internal/domain"
	apperrors "china-one/internal/errors"
)

// Pricer computes the unit price of a menu item with a chosen customization
// set. The base catalog prices nothing on top of the item itself, but the
// seam stays open for option surcharges.
type Pricer interface {
	UnitPrice(item *domain.MenuItem, customizations domain.Customizations) decimal.Decimal
}

// BasePricer returns the item's base price unmodified.
type BasePricer struct{}

func (BasePricer) UnitPrice(item *domain.MenuItem, _ domain.Customizations) decimal.Decimal {
	return item.BasePrice
}

// Line is one cart entry. The ID is unique within the cart and never
// persisted; identical items are kept as separate lines on purpose.
type Line struct {
	ID             string
	MenuItemID     string
	Name           string
	Quantity       int
	UnitPrice      decimal.Decimal
	Customizations domain.Customizations
	Note           string
}

// Total is the line's extended price.
func (l Line) Total() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Cart is a session-owned collection of lines. All methods are safe for
// concurrent use; a locked cart (checkout in progress) refuses mutation.
type Cart struct {
	mu     sync.Mutex
	pricer Pricer
	lines  []Line
	locked bool
}

func New(pricer Pricer) *Cart {
	if pricer == nil {
		pricer = BasePricer{}
	}
	return &Cart{pricer: pricer}
}

// AddItem appends a new line for the item. Customizations are validated
// against the item's declared option groups, quantity must be at least 1.
func (c *Cart) AddItem(item *domain.MenuItem, customizations domain.Customizations, quantity int, note string) (*Line, error) {
	if quantity < 1 {
		return nil, apperrors.NewValidationError("quantity must be at least 1", apperrors.ValidationDetail{
			Field: "quantity", Message: "quantity must be a positive integer",
		})
	}
	if !item.Available {
		return nil, apperrors.NewValidationError(item.Name + " is currently unavailable")
	}
	if err := item.ValidateCustomizations(customizations); err != nil {
		return nil, apperrors.NewValidationError(err.Error(), apperrors.ValidationDetail{
			Field: "customizations", Message: err.Error(),
		})
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.locked {
		return nil, apperrors.NewConflictError("cart is locked while checkout is in progress")
	}

	line := Line{
		ID:             uuid.New().String(),
		MenuItemID:     item.ID,
		Name:           item.Name,
		Quantity:       quantity,
		UnitPrice:      c.pricer.UnitPrice(item, customizations),
		Customizations: customizations,
		Note:           note,
	}
	c.lines = append(c.lines, line)

	return &line, nil
}

// RemoveLine deletes a line by id. Removing an unknown id is a no-op.
func (c *Cart) RemoveLine(lineID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.locked {
		return apperrors.NewConflictError("cart is locked while checkout is in progress")
	}

	for i, l := range c.lines {
		if l.ID == lineID {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			return nil
		}
	}
	return nil
}

// SetQuantity replaces a line's quantity in place. n <= 0 removes the line.
func (c *Cart) SetQuantity(lineID string, n int) error {
	if n <= 0 {
		return c.RemoveLine(lineID)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.locked {
		return apperrors.NewConflictError("cart is locked while checkout is in progress")
	}

	for i := range c.lines {
		if c.lines[i].ID == lineID {
			c.lines[i].Quantity = n
			return nil
		}
	}
	return nil
}

// Total sums unitPrice × quantity over all lines with exact decimal
// arithmetic.
func (c *Cart) Total() decimal.Decimal {
	c.mu.Lock()
	defer c.mu.Unlock()

	total := decimal.Zero
	for _, l := range c.lines {
		total = total.Add(l.Total())
	}
	return total
}

// ItemCount is the sum of quantities, for UI badges.
func (c *Cart) ItemCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := 0
	for _, l := range c.lines {
		n += l.Quantity
	}
	return n
}

// Lines returns a copy of the current lines.
func (c *Cart) Lines() []Line {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Cart) snapshotLocked() []Line {
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

// Lock freezes the cart for checkout and returns a snapshot of its lines.
// Mutations are refused until Unlock or Clear.
func (c *Cart) Lock() ([]Line, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.locked {
		return nil, apperrors.NewConflictError("checkout already in progress for this cart")
	}
	if len(c.lines) == 0 {
		return nil, apperrors.NewValidationError("cart is empty")
	}

	c.locked = true
	return c.snapshotLocked(), nil
}

// Unlock reopens a cart after an abandoned checkout.
func (c *Cart) Unlock() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.locked = false
}

// Clear empties the cart and releases the checkout lock. Called on
// successful order submission.
func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lines = nil
	c.locked = false
}
