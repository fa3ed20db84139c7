package account

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"china-one/internal/domain"
	apperrors "china-one/internal/errors"
)

type mockCustomerRepo struct {
	findByIDFunc    func(ctx context.Context, id string) (*domain.Customer, error)
	findByEmailFunc func(ctx context.Context, email string) (*domain.Customer, error)
	insertFunc      func(ctx context.Context, c domain.Customer) error
	inserted        []domain.Customer
}

func (m *mockCustomerRepo) FindByID(ctx context.Context, id string) (*domain.Customer, error) {
	return m.findByIDFunc(ctx, id)
}

func (m *mockCustomerRepo) FindByEmail(ctx context.Context, email string) (*domain.Customer, error) {
	return m.findByEmailFunc(ctx, email)
}

func (m *mockCustomerRepo) Insert(ctx context.Context, c domain.Customer) error {
	m.inserted = append(m.inserted, c)
	if m.insertFunc != nil {
		return m.insertFunc(ctx, c)
	}
	return nil
}

type mockAdminRepo struct {
	findByEmailFunc func(ctx context.Context, email string) (*domain.AdminUser, error)
	insertFunc      func(ctx context.Context, a domain.AdminUser) error
	inserted        []domain.AdminUser
	stamped         []string
}

func (m *mockAdminRepo) FindByEmail(ctx context.Context, email string) (*domain.AdminUser, error) {
	return m.findByEmailFunc(ctx, email)
}

func (m *mockAdminRepo) Insert(ctx context.Context, a domain.AdminUser) error {
	m.inserted = append(m.inserted, a)
	if m.insertFunc != nil {
		return m.insertFunc(ctx, a)
	}
	return nil
}

func (m *mockAdminRepo) StampLastLogin(ctx context.Context, id string, at time.Time) error {
	m.stamped = append(m.stamped, id)
	return nil
}

func newTestService(customers *mockCustomerRepo, admins *mockAdminRepo) *Service {
	if customers == nil {
		customers = &mockCustomerRepo{}
	}
	if admins == nil {
		admins = &mockAdminRepo{}
	}
	return NewService(customers, admins, time.Hour, zap.NewNop())
}

func TestSignInCustomer_IssuesSession(t *testing.T) {
	customers := &mockCustomerRepo{
		findByEmailFunc: func(ctx context.Context, email string) (*domain.Customer, error) {
			return &domain.Customer{ID: "c1", Email: email}, nil
		},
	}
	s := newTestService(customers, nil)

	session, err := s.SignInCustomer(context.Background(), "wei@example.com")
	require.NoError(t, err)
	assert.Equal(t, "c1", session.UserID)
	assert.Equal(t, SessionCustomer, session.Kind)
	assert.NotEmpty(t, session.Token)

	got, err := s.CurrentSession(session.Token)
	require.NoError(t, err)
	assert.Equal(t, "c1", got.UserID)
}

func TestSignInCustomer_UnknownEmail(t *testing.T) {
	customers := &mockCustomerRepo{
		findByEmailFunc: func(ctx context.Context, email string) (*domain.Customer, error) {
			return nil, apperrors.NewNotFoundError("customer not found")
		},
	}
	s := newTestService(customers, nil)

	_, err := s.SignInCustomer(context.Background(), "nobody@example.com")
	_, ok := apperrors.IsUnauthenticatedError(err)
	assert.True(t, ok)
}

func TestSignInCustomer_EmptyEmail(t *testing.T) {
	s := newTestService(nil, nil)

	_, err := s.SignInCustomer(context.Background(), "")
	_, ok := apperrors.IsValidationError(err)
	assert.True(t, ok)
}

func TestSignInAdmin_StampsLastLogin(t *testing.T) {
	admins := &mockAdminRepo{
		findByEmailFunc: func(ctx context.Context, email string) (*domain.AdminUser, error) {
			return &domain.AdminUser{ID: "a1", Email: email, Role: domain.RoleManager, Active: true}, nil
		},
	}
	s := newTestService(nil, admins)

	session, err := s.SignInAdmin(context.Background(), "manager@example.com")
	require.NoError(t, err)
	assert.Equal(t, SessionAdmin, session.Kind)
	assert.Equal(t, domain.RoleManager, session.Role)
	assert.Equal(t, []string{"a1"}, admins.stamped)
}

func TestSignInAdmin_RefusesInactive(t *testing.T) {
	admins := &mockAdminRepo{
		findByEmailFunc: func(ctx context.Context, email string) (*domain.AdminUser, error) {
			return &domain.AdminUser{ID: "a1", Email: email, Role: domain.RoleStaff, Active: false}, nil
		},
	}
	s := newTestService(nil, admins)

	_, err := s.SignInAdmin(context.Background(), "former@example.com")
	_, ok := apperrors.IsUnauthenticatedError(err)
	assert.True(t, ok)
	assert.Empty(t, admins.stamped)
}

func TestRegisterCustomer_ValidatesAndSignsIn(t *testing.T) {
	customers := &mockCustomerRepo{}
	s := newTestService(customers, nil)

	session, err := s.RegisterCustomer(context.Background(), domain.Customer{
		FirstName: "Wei", LastName: "Chen", Email: "wei@example.com",
	})
	require.NoError(t, err)
	require.Len(t, customers.inserted, 1)
	assert.NotEmpty(t, customers.inserted[0].ID)
	assert.Equal(t, customers.inserted[0].ID, session.UserID)
}

func TestRegisterCustomer_MissingFields(t *testing.T) {
	s := newTestService(nil, nil)

	_, err := s.RegisterCustomer(context.Background(), domain.Customer{Email: "wei@example.com"})
	ve, ok := apperrors.IsValidationError(err)
	require.True(t, ok)
	assert.Len(t, ve.Details, 2)
}

func TestCreateAdmin_DefaultsToStaff(t *testing.T) {
	admins := &mockAdminRepo{}
	s := newTestService(nil, admins)

	admin, err := s.CreateAdmin(context.Background(), "new@example.com", "New Hire", "")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleStaff, admin.Role)
	assert.True(t, admin.Active)
	require.Len(t, admins.inserted, 1)
}

func TestCreateAdmin_RejectsUnknownRole(t *testing.T) {
	s := newTestService(nil, nil)

	_, err := s.CreateAdmin(context.Background(), "new@example.com", "New Hire", domain.AdminRole("owner"))
	_, ok := apperrors.IsValidationError(err)
	assert.True(t, ok)
}

func TestCurrentSession_Expiry(t *testing.T) {
	customers := &mockCustomerRepo{
		findByEmailFunc: func(ctx context.Context, email string) (*domain.Customer, error) {
			return &domain.Customer{ID: "c1", Email: email}, nil
		},
	}
	s := newTestService(customers, nil)

	session, err := s.SignInCustomer(context.Background(), "wei@example.com")
	require.NoError(t, err)

	s.now = func() time.Time { return time.Now().Add(2 * time.Hour) }

	_, err = s.CurrentSession(session.Token)
	_, ok := apperrors.IsUnauthenticatedError(err)
	assert.True(t, ok)

	// The expired token was evicted; a second lookup fails the same way.
	_, err = s.CurrentSession(session.Token)
	_, ok = apperrors.IsUnauthenticatedError(err)
	assert.True(t, ok)
}

func TestSignOut_InvalidatesToken(t *testing.T) {
	customers := &mockCustomerRepo{
		findByEmailFunc: func(ctx context.Context, email string) (*domain.Customer, error) {
			return &domain.Customer{ID: "c1", Email: email}, nil
		},
	}
	s := newTestService(customers, nil)

	session, err := s.SignInCustomer(context.Background(), "wei@example.com")
	require.NoError(t, err)

	s.SignOut(session.Token)

	_, err = s.CurrentSession(session.Token)
	_, ok := apperrors.IsUnauthenticatedError(err)
	assert.True(t, ok)

	// Unknown token sign-out is a no-op.
	s.SignOut("missing")
}
