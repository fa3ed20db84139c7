package account

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"china-one/internal/domain"
	apperrors "china-one/internal/errors"
)

type SessionKind string

const (
	SessionCustomer SessionKind = "customer"
	SessionAdmin    SessionKind = "admin"
)

// Session is what the checkout workflow and the staff endpoints check. The
// UserID is the foreign key into customers or admin_users depending on Kind.
type Session struct {
	Token     string
	UserID    string
	Kind      SessionKind
	Role      domain.AdminRole
	ExpiresAt time.Time
}

type CustomerRepository interface {
	FindByID(ctx context.Context, id string) (*domain.Customer, error)
	FindByEmail(ctx context.Context, email string) (*domain.Customer, error)
	Insert(ctx context.Context, c domain.Customer) error
}

type AdminRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.AdminUser, error)
	Insert(ctx context.Context, a domain.AdminUser) error
	StampLastLogin(ctx context.Context, id string, at time.Time) error
}

// Service is the authentication gate. Credential verification itself is an
// external collaborator; this service resolves an asserted identity to a
// stored profile and owns the session lifecycle.
type Service struct {
	customers CustomerRepository
	admins    AdminRepository
	ttl       time.Duration
	logger    *zap.Logger
	now       func() time.Time

	mu       sync.Mutex
	sessions map[string]Session
}

func NewService(customers CustomerRepository, admins AdminRepository, ttl time.Duration, logger *zap.Logger) *Service {
	return &Service{
		customers: customers,
		admins:    admins,
		ttl:       ttl,
		logger:    logger,
		now:       time.Now,
		sessions:  make(map[string]Session),
	}
}

// SignInCustomer resolves the customer by email and issues a session.
func (s *Service) SignInCustomer(ctx context.Context, email string) (*Session, error) {
	if email == "" {
		return nil, apperrors.NewValidationError("email is required", apperrors.ValidationDetail{
			Field: "email", Message: "email is required",
		})
	}

	customer, err := s.customers.FindByEmail(ctx, email)
	if err != nil {
		if _, ok := apperrors.IsNotFoundError(err); ok {
			return nil, apperrors.NewUnauthenticatedError("unknown customer")
		}
		return nil, err
	}

	session := s.issue(customer.ID, SessionCustomer, "")
	s.logger.Info("customer signed in", zap.String("customerId", customer.ID))
	return &session, nil
}

// SignInAdmin resolves a staff identity. Inactive accounts are refused and
// a successful sign-in stamps lastLoginAt.
func (s *Service) SignInAdmin(ctx context.Context, email string) (*Session, error) {
	admin, err := s.admins.FindByEmail(ctx, email)
	if err != nil {
		if _, ok := apperrors.IsNotFoundError(err); ok {
			return nil, apperrors.NewUnauthenticatedError("unknown admin user")
		}
		return nil, err
	}
	if !admin.Active {
		return nil, apperrors.NewUnauthenticatedError("admin account is disabled")
	}

	if err := s.admins.StampLastLogin(ctx, admin.ID, s.now().UTC()); err != nil {
		return nil, err
	}

	session := s.issue(admin.ID, SessionAdmin, admin.Role)
	s.logger.Info("admin signed in", zap.String("adminId", admin.ID), zap.String("role", string(admin.Role)))
	return &session, nil
}

// RegisterCustomer creates a profile and signs it in.
func (s *Service) RegisterCustomer(ctx context.Context, c domain.Customer) (*Session, error) {
	var details []apperrors.ValidationDetail
	if c.FirstName == "" {
		details = append(details, apperrors.ValidationDetail{Field: "firstName", Message: "firstName is required"})
	}
	if c.LastName == "" {
		details = append(details, apperrors.ValidationDetail{Field: "lastName", Message: "lastName is required"})
	}
	if c.Email == "" {
		details = append(details, apperrors.ValidationDetail{Field: "email", Message: "email is required"})
	}
	if len(details) > 0 {
		return nil, apperrors.NewValidationError("validation failed", details...)
	}

	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	if err := s.customers.Insert(ctx, c); err != nil {
		return nil, err
	}

	session := s.issue(c.ID, SessionCustomer, "")
	return &session, nil
}

// CreateAdmin registers a staff account. Role defaults to staff.
func (s *Service) CreateAdmin(ctx context.Context, email, fullName string, role domain.AdminRole) (*domain.AdminUser, error) {
	if email == "" {
		return nil, apperrors.NewValidationError("email is required", apperrors.ValidationDetail{
			Field: "email", Message: "email is required",
		})
	}
	if role == "" {
		role = domain.RoleStaff
	}
	if !role.Valid() {
		return nil, apperrors.NewValidationError("invalid role", apperrors.ValidationDetail{
			Field: "role", Message: "role must be one of staff, manager, admin, super_admin",
		})
	}

	admin := domain.AdminUser{
		ID:       uuid.New().String(),
		Email:    email,
		FullName: fullName,
		Role:     role,
		Active:   true,
	}
	if err := s.admins.Insert(ctx, admin); err != nil {
		return nil, err
	}
	return &admin, nil
}

// CurrentSession returns the live session for a token, or Unauthenticated.
func (s *Service) CurrentSession(token string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[token]
	if !ok {
		return nil, apperrors.NewUnauthenticatedError("no active session")
	}
	if s.now().After(session.ExpiresAt) {
		delete(s.sessions, token)
		return nil, apperrors.NewUnauthenticatedError("session expired")
	}
	return &session, nil
}

func (s *Service) SignOut(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
}

func (s *Service) issue(userID string, kind SessionKind, role domain.AdminRole) Session {
	session := Session{
		Token:     uuid.New().String(),
		UserID:    userID,
		Kind:      kind,
		Role:      role,
		ExpiresAt: s.now().Add(s.ttl),
	}

	s.mu.Lock()
	s.sessions[session.Token] = session
	s.mu.Unlock()

	return session
}
