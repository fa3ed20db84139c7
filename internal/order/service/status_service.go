package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"china-one/internal/domain"
	apperrors "china-one/internal/errors"
	"china-one/internal/feed"
)

type OrderRepository interface {
	FindByID(ctx context.Context, id uint) (*domain.Order, error)
	List(ctx context.Context, status domain.OrderStatus) ([]domain.Order, error)
	ListByCustomer(ctx context.Context, customerID string) ([]domain.Order, error)
	UpdateStatusIf(ctx context.Context, id uint, from, to domain.OrderStatus, completedAt *time.Time) (bool, error)
}

type OrderItemRepository interface {
	ListByOrder(ctx context.Context, orderID uint) ([]domain.OrderItem, error)
}

type EventPublisher interface {
	PublishEvent(ctx context.Context, e feed.Event) error
}

// StatusService is the order lifecycle engine. Staff mutate through
// UpdateStatus; customers observe through Get/ListByCustomer and the feed.
type StatusService struct {
	orders    OrderRepository
	items     OrderItemRepository
	publisher EventPublisher
	logger    *zap.Logger
	now       func() time.Time
}

func NewStatusService(orders OrderRepository, items OrderItemRepository, publisher EventPublisher, logger *zap.Logger) *StatusService {
	return &StatusService{
		orders:    orders,
		items:     items,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

// UpdateStatus validates the transition against the lifecycle table before
// touching storage, then performs a conditional write keyed on the observed
// status. Under concurrent staff writes exactly one transition lands; the
// loser gets a conflict.
func (s *StatusService) UpdateStatus(ctx context.Context, orderID uint, newStatus domain.OrderStatus) (*domain.Order, error) {
	if !newStatus.Valid() {
		return nil, apperrors.NewValidationError(fmt.Sprintf("unknown status %q", newStatus), apperrors.ValidationDetail{
			Field: "status", Message: "status must be one of pending, preparing, ready, completed, cancelled",
		})
	}

	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if !domain.CanTransition(order.Status, newStatus) {
		return nil, apperrors.NewTransitionError(string(order.Status), string(newStatus))
	}

	// Only the transition into completed stamps the completion time.
	var completedAt *time.Time
	if newStatus == domain.OrderStatusCompleted {
		at := s.now().UTC()
		completedAt = &at
	}

	won, err := s.orders.UpdateStatusIf(ctx, orderID, order.Status, newStatus, completedAt)
	if err != nil {
		return nil, err
	}
	if !won {
		// Someone else moved the order first; re-read so the caller sees
		// the state that actually won.
		current, ferr := s.orders.FindByID(ctx, orderID)
		if ferr != nil {
			return nil, ferr
		}
		return nil, apperrors.NewConflictError(
			fmt.Sprintf("order %d is now %s; transition from %s lost", orderID, current.Status, order.Status),
		)
	}

	updated, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("order status updated",
		zap.Uint("orderId", orderID),
		zap.String("from", string(order.Status)),
		zap.String("to", string(newStatus)),
	)

	s.publishChange(ctx, feed.EventUpdate, updated)
	return updated, nil
}

// Get returns an order with its line items, for the customer tracker and
// the staff detail view.
func (s *StatusService) Get(ctx context.Context, orderID uint) (*domain.Order, []domain.OrderItem, error) {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, nil, err
	}

	items, err := s.items.ListByOrder(ctx, orderID)
	if err != nil {
		return nil, nil, err
	}

	return order, items, nil
}

func (s *StatusService) List(ctx context.Context, status domain.OrderStatus) ([]domain.Order, error) {
	if status != "" && !status.Valid() {
		return nil, apperrors.NewValidationError(fmt.Sprintf("unknown status filter %q", status))
	}
	return s.orders.List(ctx, status)
}

func (s *StatusService) ListByCustomer(ctx context.Context, customerID string) ([]domain.Order, error) {
	return s.orders.ListByCustomer(ctx, customerID)
}

func (s *StatusService) publishChange(ctx context.Context, eventType feed.EventType, o *domain.Order) {
	err := s.publisher.PublishEvent(ctx, feed.Event{
		Table:   feed.TableOrders,
		Type:    eventType,
		RowID:   fmt.Sprintf("%d", o.ID),
		OrderID: o.ID,
		Status:  string(o.Status),
	})
	if err != nil {
		// The transition is committed; watchers recover by re-fetching.
		s.logger.Warn("publishing order change event failed", zap.Uint("orderId", o.ID), zap.Error(err))
	}
}
