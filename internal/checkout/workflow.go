package checkout

import (
	"context"
	"database/sql"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"china-one/internal/account"
	"china-one/internal/cart"
	"china-one/internal/domain"
	apperrors "china-one/internal/errors"
	"china-one/internal/feed"
)

// State is the checkout wizard position. Transitions are linear; Submit is
// re-invokable from Failed without re-collecting anything.
type State string

const (
	StateCollectingContact     State = "collecting_contact"
	StateCollectingFulfillment State = "collecting_fulfillment"
	StateCollectingPayment     State = "collecting_payment"
	StateSubmitting            State = "submitting"
	StateSucceeded             State = "succeeded"
	StateFailed                State = "failed"
)

const readyEstimate = 30 * time.Minute

type Contact struct {
	FirstName string
	LastName  string
	Phone     string
	Email     string
}

type TxRunner interface {
	RunInTx(ctx context.Context, fn func(tx *sql.Tx) error) error
}

type OrderRepository interface {
	Insert(ctx context.Context, tx *sql.Tx, o domain.Order) (uint, error)
	FindByID(ctx context.Context, id uint) (*domain.Order, error)
}

type OrderItemRepository interface {
	InsertAll(ctx context.Context, tx *sql.Tx, items []domain.OrderItem) error
}

type SessionChecker interface {
	CurrentSession(token string) (*account.Session, error)
}

type EventPublisher interface {
	PublishEvent(ctx context.Context, e feed.Event) error
}

// Service opens checkout workflows over a session's cart.
type Service struct {
	db        TxRunner
	orders    OrderRepository
	items     OrderItemRepository
	sessions  SessionChecker
	publisher EventPublisher
	rates     Rates
	txTimeout time.Duration
	logger    *zap.Logger
	now       func() time.Time
}

func NewService(
	db TxRunner,
	orders OrderRepository,
	items OrderItemRepository,
	sessions SessionChecker,
	publisher EventPublisher,
	rates Rates,
	logger *zap.Logger,
) *Service {
	return &Service{
		db:        db,
		orders:    orders,
		items:     items,
		sessions:  sessions,
		publisher: publisher,
		rates:     rates,
		txTimeout: 5 * time.Second,
		logger:    logger,
		now:       time.Now,
	}
}

// Start locks the cart, snapshots its lines and opens a workflow in the
// contact-collection state. The cart stays frozen until the workflow
// succeeds or is abandoned.
func (s *Service) Start(sessionToken string, c *cart.Cart) (*Workflow, error) {
	snapshot, err := c.Lock()
	if err != nil {
		return nil, err
	}

	return &Workflow{
		svc:          s,
		cart:         c,
		snapshot:     snapshot,
		sessionToken: sessionToken,
		state:        StateCollectingContact,
	}, nil
}

// Workflow is one in-flight checkout. Methods are safe for concurrent use,
// though a single client drives each instance in practice.
type Workflow struct {
	svc          *Service
	cart         *cart.Cart
	snapshot     []cart.Line
	sessionToken string

	mu           sync.Mutex
	state        State
	contact      Contact
	orderType    domain.OrderType
	instructions string
	payment      domain.PaymentMethod
	failReason   string
}

func (w *Workflow) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// FailReason is the human-readable reason for the last failure, empty
// otherwise.
func (w *Workflow) FailReason() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.failReason
}

// SubmitContact validates the contact fields and advances to fulfillment.
// On validation failure the workflow stays where it is.
func (w *Workflow) SubmitContact(c Contact) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.state != StateCollectingContact {
		return apperrors.NewConflictError("checkout is past the contact step")
	}

	var details []apperrors.ValidationDetail
	for _, f := range []struct{ name, value string }{
		{"firstName", c.FirstName},
		{"lastName", c.LastName},
		{"phone", c.Phone},
		{"email", c.Email},
	} {
		if strings.TrimSpace(f.value) == "" {
			details = append(details, apperrors.ValidationDetail{Field: f.name, Message: f.name + " is required"})
		}
	}
	if len(details) > 0 {
		return apperrors.NewValidationError("contact information is incomplete", details...)
	}

	w.contact = c
	w.state = StateCollectingFulfillment
	return nil
}

// SubmitFulfillment records the order type and optional instructions. The
// only validation is the type enum.
func (w *Workflow) SubmitFulfillment(orderType domain.OrderType, instructions string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.state != StateCollectingFulfillment {
		return apperrors.NewConflictError("checkout is not at the fulfillment step")
	}
	if !orderType.Valid() {
		return apperrors.NewValidationError("invalid order type", apperrors.ValidationDetail{
			Field: "orderType", Message: "orderType must be pickup or delivery",
		})
	}

	w.orderType = orderType
	w.instructions = instructions
	w.state = StateCollectingPayment
	return nil
}

// SelectPayment records the payment method. The method is stored, never
// charged.
func (w *Workflow) SelectPayment(method domain.PaymentMethod) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.state != StateCollectingPayment && w.state != StateFailed {
		return apperrors.NewConflictError("checkout is not at the payment step")
	}
	if !method.Valid() {
		return apperrors.NewValidationError("invalid payment method", apperrors.ValidationDetail{
			Field: "paymentMethod", Message: "paymentMethod must be cash or card",
		})
	}

	w.payment = method
	return nil
}

// Quote prices the snapshot taken when the workflow opened. Read-only; the
// figures cannot change between display and submit.
func (w *Workflow) Quote() Quote {
	w.mu.Lock()
	defer w.mu.Unlock()
	return ComputeQuote(w.snapshot, w.orderType, w.svc.rates)
}

// Abandon reopens the cart without submitting.
func (w *Workflow) Abandon() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.state == StateSucceeded {
		return
	}
	w.cart.Unlock()
	w.state = StateFailed
	w.failReason = "checkout abandoned"
}

// Submit persists the order header and every line item in one transaction.
// Requires an authenticated customer session. On failure the workflow moves
// to Failed and Submit may be called again with the data already collected.
func (w *Workflow) Submit(ctx context.Context) (*domain.Order, error) {
	w.mu.Lock()
	if w.state != StateCollectingPayment && w.state != StateFailed {
		w.mu.Unlock()
		return nil, apperrors.NewConflictError("checkout is not ready to submit")
	}
	if w.payment == "" {
		w.mu.Unlock()
		return nil, apperrors.NewValidationError("payment method not selected", apperrors.ValidationDetail{
			Field: "paymentMethod", Message: "select cash or card before submitting",
		})
	}
	w.state = StateSubmitting
	w.mu.Unlock()

	order, err := w.persist(ctx)

	w.mu.Lock()
	defer w.mu.Unlock()

	if err != nil {
		w.state = StateFailed
		w.failReason = err.Error()
		return nil, err
	}

	w.cart.Clear()
	w.state = StateSucceeded
	w.failReason = ""
	return order, nil
}

func (w *Workflow) persist(ctx context.Context) (*domain.Order, error) {
	session, err := w.svc.sessions.CurrentSession(w.sessionToken)
	if err != nil {
		return nil, apperrors.NewUnauthenticatedError("please sign in to place an order")
	}
	if session.Kind != account.SessionCustomer {
		return nil, apperrors.NewUnauthenticatedError("orders can only be placed from a customer session")
	}

	quote := ComputeQuote(w.snapshot, w.orderType, w.svc.rates)
	now := w.svc.now().UTC()

	header := domain.Order{
		CustomerID:          session.UserID,
		CustomerName:        strings.TrimSpace(w.contact.FirstName + " " + w.contact.LastName),
		CustomerPhone:       w.contact.Phone,
		CustomerEmail:       w.contact.Email,
		OrderType:           w.orderType,
		PaymentMethod:       w.payment,
		Status:              domain.OrderStatusPending,
		Subtotal:            quote.Subtotal,
		Tax:                 quote.Tax,
		DeliveryFee:         quote.DeliveryFee,
		Total:               quote.Total,
		SpecialInstructions: w.instructions,
		EstimatedReadyAt:    now.Add(readyEstimate),
	}

	txCtx, cancel := context.WithTimeout(ctx, w.svc.txTimeout)
	defer cancel()

	// Header and items commit or roll back as one unit: no orphaned
	// order rows.
	var orderID uint
	err = w.svc.db.RunInTx(txCtx, func(tx *sql.Tx) error {
		orderID, err = w.svc.orders.Insert(txCtx, tx, header)
		if err != nil {
			return err
		}

		items := make([]domain.OrderItem, len(w.snapshot))
		for i, line := range w.snapshot {
			items[i] = domain.OrderItem{
				OrderID:             orderID,
				MenuItemID:          line.MenuItemID,
				Name:                line.Name,
				Quantity:            line.Quantity,
				BasePrice:           line.UnitPrice,
				FinalPrice:          line.UnitPrice,
				Customizations:      line.Customizations,
				SpecialInstructions: line.Note,
			}
		}
		return w.svc.items.InsertAll(txCtx, tx, items)
	})
	if err != nil {
		w.svc.logger.Error("checkout transaction failed", zap.Error(err))
		return nil, apperrors.NewInternalError("failed to save order", err)
	}

	created, err := w.svc.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	w.svc.logger.Info("order placed",
		zap.Uint("orderId", orderID),
		zap.String("customerId", session.UserID),
		zap.String("orderType", string(created.OrderType)),
		zap.String("total", created.Total.StringFixed(2)),
	)

	if perr := w.svc.publisher.PublishEvent(ctx, feed.Event{
		Table:   feed.TableOrders,
		Type:    feed.EventInsert,
		RowID:   strconv.FormatUint(uint64(created.ID), 10),
		OrderID: created.ID,
		Status:  string(created.Status),
	}); perr != nil {
		// Committed; subscribers recover by re-fetching.
		w.svc.logger.Warn("publishing order created event failed", zap.Uint("orderId", orderID), zap.Error(perr))
	}

	return created, nil
}
