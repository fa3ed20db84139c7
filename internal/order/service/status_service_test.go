package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"china-one/internal/domain"
	apperrors "china-one/internal/errors"
	"china-one/internal/feed"
)

type mockOrderRepo struct {
	findByIDFunc       func(ctx context.Context, id uint) (*domain.Order, error)
	listFunc           func(ctx context.Context, status domain.OrderStatus) ([]domain.Order, error)
	listByCustomerFunc func(ctx context.Context, customerID string) ([]domain.Order, error)
	updateStatusIfFunc func(ctx context.Context, id uint, from, to domain.OrderStatus, completedAt *time.Time) (bool, error)
	updates            int
}

func (m *mockOrderRepo) FindByID(ctx context.Context, id uint) (*domain.Order, error) {
	return m.findByIDFunc(ctx, id)
}

func (m *mockOrderRepo) List(ctx context.Context, status domain.OrderStatus) ([]domain.Order, error) {
	return m.listFunc(ctx, status)
}

func (m *mockOrderRepo) ListByCustomer(ctx context.Context, customerID string) ([]domain.Order, error) {
	return m.listByCustomerFunc(ctx, customerID)
}

func (m *mockOrderRepo) UpdateStatusIf(ctx context.Context, id uint, from, to domain.OrderStatus, completedAt *time.Time) (bool, error) {
	m.updates++
	return m.updateStatusIfFunc(ctx, id, from, to, completedAt)
}

type mockItemRepo struct {
	listByOrderFunc func(ctx context.Context, orderID uint) ([]domain.OrderItem, error)
}

func (m *mockItemRepo) ListByOrder(ctx context.Context, orderID uint) ([]domain.OrderItem, error) {
	return m.listByOrderFunc(ctx, orderID)
}

type mockPublisher struct {
	publishFunc func(ctx context.Context, e feed.Event) error
	events      []feed.Event
}

func (m *mockPublisher) PublishEvent(ctx context.Context, e feed.Event) error {
	m.events = append(m.events, e)
	if m.publishFunc != nil {
		return m.publishFunc(ctx, e)
	}
	return nil
}

func fixedNow() time.Time {
	return time.Date(2025, 6, 1, 18, 45, 0, 0, time.UTC)
}

func newService(orders *mockOrderRepo, items *mockItemRepo, pub *mockPublisher) *StatusService {
	if items == nil {
		items = &mockItemRepo{}
	}
	s := NewStatusService(orders, items, pub, zap.NewNop())
	s.now = fixedNow
	return s
}

func TestUpdateStatus_HappyPath(t *testing.T) {
	status := domain.OrderStatusPending
	orders := &mockOrderRepo{
		findByIDFunc: func(ctx context.Context, id uint) (*domain.Order, error) {
			return &domain.Order{ID: id, Status: status}, nil
		},
		updateStatusIfFunc: func(ctx context.Context, id uint, from, to domain.OrderStatus, completedAt *time.Time) (bool, error) {
			assert.Equal(t, domain.OrderStatusPending, from)
			assert.Equal(t, domain.OrderStatusPreparing, to)
			assert.Nil(t, completedAt)
			status = to
			return true, nil
		},
	}
	pub := &mockPublisher{}
	s := newService(orders, nil, pub)

	updated, err := s.UpdateStatus(context.Background(), 7, domain.OrderStatusPreparing)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusPreparing, updated.Status)

	require.Len(t, pub.events, 1)
	assert.Equal(t, feed.TableOrders, pub.events[0].Table)
	assert.Equal(t, feed.EventUpdate, pub.events[0].Type)
	assert.Equal(t, uint(7), pub.events[0].OrderID)
	assert.Equal(t, "preparing", pub.events[0].Status)
}

func TestUpdateStatus_IllegalTransitionRejectedBeforeWrite(t *testing.T) {
	orders := &mockOrderRepo{
		findByIDFunc: func(ctx context.Context, id uint) (*domain.Order, error) {
			return &domain.Order{ID: id, Status: domain.OrderStatusCompleted}, nil
		},
		updateStatusIfFunc: func(ctx context.Context, id uint, from, to domain.OrderStatus, completedAt *time.Time) (bool, error) {
			t.Fatal("conditional write must not run for an illegal transition")
			return false, nil
		},
	}
	pub := &mockPublisher{}
	s := newService(orders, nil, pub)

	_, err := s.UpdateStatus(context.Background(), 7, domain.OrderStatusPreparing)
	te, ok := apperrors.IsTransitionError(err)
	require.True(t, ok)
	assert.Equal(t, "completed", te.From)
	assert.Equal(t, "preparing", te.To)
	assert.Equal(t, 0, orders.updates)
	assert.Empty(t, pub.events)
}

func TestUpdateStatus_UnknownStatus(t *testing.T) {
	orders := &mockOrderRepo{
		findByIDFunc: func(ctx context.Context, id uint) (*domain.Order, error) {
			t.Fatal("lookup must not run for an unknown status")
			return nil, nil
		},
	}
	s := newService(orders, nil, &mockPublisher{})

	_, err := s.UpdateStatus(context.Background(), 7, domain.OrderStatus("shipped"))
	_, ok := apperrors.IsValidationError(err)
	assert.True(t, ok)
}

func TestUpdateStatus_CompletedStampsTime(t *testing.T) {
	orders := &mockOrderRepo{
		findByIDFunc: func(ctx context.Context, id uint) (*domain.Order, error) {
			return &domain.Order{ID: id, Status: domain.OrderStatusReady}, nil
		},
		updateStatusIfFunc: func(ctx context.Context, id uint, from, to domain.OrderStatus, completedAt *time.Time) (bool, error) {
			require.NotNil(t, completedAt)
			assert.Equal(t, fixedNow(), *completedAt)
			return true, nil
		},
	}
	s := newService(orders, nil, &mockPublisher{})

	_, err := s.UpdateStatus(context.Background(), 7, domain.OrderStatusCompleted)
	require.NoError(t, err)
}

func TestUpdateStatus_ConcurrentLoserGetsConflict(t *testing.T) {
	// The order reads as pending, but another staff member's cancel lands
	// first: the conditional write misses and the loser sees a conflict
	// naming the status that actually won.
	calls := 0
	orders := &mockOrderRepo{
		findByIDFunc: func(ctx context.Context, id uint) (*domain.Order, error) {
			calls++
			if calls == 1 {
				return &domain.Order{ID: id, Status: domain.OrderStatusPending}, nil
			}
			return &domain.Order{ID: id, Status: domain.OrderStatusCancelled}, nil
		},
		updateStatusIfFunc: func(ctx context.Context, id uint, from, to domain.OrderStatus, completedAt *time.Time) (bool, error) {
			return false, nil
		},
	}
	pub := &mockPublisher{}
	s := newService(orders, nil, pub)

	_, err := s.UpdateStatus(context.Background(), 7, domain.OrderStatusPreparing)
	ce, ok := apperrors.IsConflictError(err)
	require.True(t, ok)
	assert.Contains(t, ce.Message, "cancelled")
	assert.Empty(t, pub.events)
}

func TestUpdateStatus_PublishFailureDoesNotFailUpdate(t *testing.T) {
	orders := &mockOrderRepo{
		findByIDFunc: func(ctx context.Context, id uint) (*domain.Order, error) {
			return &domain.Order{ID: id, Status: domain.OrderStatusPending}, nil
		},
		updateStatusIfFunc: func(ctx context.Context, id uint, from, to domain.OrderStatus, completedAt *time.Time) (bool, error) {
			return true, nil
		},
	}
	pub := &mockPublisher{publishFunc: func(context.Context, feed.Event) error {
		return assert.AnError
	}}
	s := newService(orders, nil, pub)

	_, err := s.UpdateStatus(context.Background(), 7, domain.OrderStatusPreparing)
	assert.NoError(t, err)
}

func TestGet_ReturnsOrderWithItems(t *testing.T) {
	orders := &mockOrderRepo{
		findByIDFunc: func(ctx context.Context, id uint) (*domain.Order, error) {
			return &domain.Order{ID: id, Status: domain.OrderStatusPreparing}, nil
		},
	}
	items := &mockItemRepo{
		listByOrderFunc: func(ctx context.Context, orderID uint) ([]domain.OrderItem, error) {
			return []domain.OrderItem{{OrderID: orderID, Name: "Wonton Soup", Quantity: 2}}, nil
		},
	}
	s := newService(orders, items, &mockPublisher{})

	order, lines, err := s.Get(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, uint(7), order.ID)
	require.Len(t, lines, 1)
	assert.Equal(t, "Wonton Soup", lines[0].Name)
}

func TestList_RejectsUnknownFilter(t *testing.T) {
	s := newService(&mockOrderRepo{}, nil, &mockPublisher{})

	_, err := s.List(context.Background(), domain.OrderStatus("shipped"))
	_, ok := apperrors.IsValidationError(err)
	assert.True(t, ok)
}

func TestList_EmptyFilterPassesThrough(t *testing.T) {
	orders := &mockOrderRepo{
		listFunc: func(ctx context.Context, status domain.OrderStatus) ([]domain.Order, error) {
			assert.Equal(t, domain.OrderStatus(""), status)
			return []domain.Order{{ID: 1}, {ID: 2}}, nil
		},
	}
	s := newService(orders, nil, &mockPublisher{})

	got, err := s.List(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, got, 2)
}
