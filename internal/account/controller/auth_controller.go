package controller

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"china-one/internal/account"
	"china-one/internal/cart"
	"china-one/internal/domain"
	"china-one/internal/dto"
	apperrors "china-one/internal/errors"
	"china-one/internal/server"
)

const sessionHeader = "X-Session-Token"

type AuthController struct {
	accounts *account.Service
	carts    *cart.Store
	logger   *zap.Logger
}

func NewAuthController(accounts *account.Service, carts *cart.Store, logger *zap.Logger) *AuthController {
	return &AuthController{accounts: accounts, carts: carts, logger: logger}
}

func (c *AuthController) Register(w http.ResponseWriter, r *http.Request) {
	logger := c.logger.With(zap.String("traceId", uuid.New().String()))

	var req dto.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		server.WriteError(w, logger, apperrors.NewValidationError("invalid JSON body"))
		return
	}

	session, err := c.accounts.RegisterCustomer(r.Context(), domain.Customer{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
		Address:   req.Address,
	})
	if err != nil {
		server.WriteError(w, logger, err)
		return
	}

	server.WriteJSON(w, logger, http.StatusCreated, sessionResponse(session))
}

func (c *AuthController) SignIn(w http.ResponseWriter, r *http.Request) {
	logger := c.logger.With(zap.String("traceId", uuid.New().String()))

	var req dto.SignInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		server.WriteError(w, logger, apperrors.NewValidationError("invalid JSON body"))
		return
	}

	session, err := c.accounts.SignInCustomer(r.Context(), req.Email)
	if err != nil {
		server.WriteError(w, logger, err)
		return
	}

	server.WriteJSON(w, logger, http.StatusOK, sessionResponse(session))
}

func (c *AuthController) SignInAdmin(w http.ResponseWriter, r *http.Request) {
	logger := c.logger.With(zap.String("traceId", uuid.New().String()))

	var req dto.SignInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		server.WriteError(w, logger, apperrors.NewValidationError("invalid JSON body"))
		return
	}

	session, err := c.accounts.SignInAdmin(r.Context(), req.Email)
	if err != nil {
		server.WriteError(w, logger, err)
		return
	}

	server.WriteJSON(w, logger, http.StatusOK, sessionResponse(session))
}

// SignOut drops the session and its cart.
func (c *AuthController) SignOut(w http.ResponseWriter, r *http.Request) {
	token := r.Header.Get(sessionHeader)
	if token != "" {
		c.accounts.SignOut(token)
		c.carts.Drop(token)
	}
	w.WriteHeader(http.StatusNoContent)
}

// CreateAdmin registers a staff account; role defaults to staff. Only an
// existing admin or super_admin session may call it.
func (c *AuthController) CreateAdmin(w http.ResponseWriter, r *http.Request) {
	logger := c.logger.With(zap.String("traceId", uuid.New().String()))

	session, err := c.accounts.CurrentSession(r.Header.Get(sessionHeader))
	if err != nil {
		server.WriteError(w, logger, err)
		return
	}
	if session.Kind != account.SessionAdmin ||
		(session.Role != domain.RoleAdmin && session.Role != domain.RoleSuperAdmin) {
		server.WriteError(w, logger, apperrors.NewUnauthenticatedError("admin role required"))
		return
	}

	var req dto.CreateAdminRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		server.WriteError(w, logger, apperrors.NewValidationError("invalid JSON body"))
		return
	}

	admin, err := c.accounts.CreateAdmin(r.Context(), req.Email, req.FullName, domain.AdminRole(req.Role))
	if err != nil {
		server.WriteError(w, logger, err)
		return
	}

	server.WriteJSON(w, logger, http.StatusCreated, map[string]string{
		"id":    admin.ID,
		"email": admin.Email,
		"role":  string(admin.Role),
	})
}

func sessionResponse(s *account.Session) dto.SessionResponse {
	return dto.SessionResponse{
		Token:     s.Token,
		UserID:    s.UserID,
		Kind:      string(s.Kind),
		Role:      string(s.Role),
		ExpiresAt: s.ExpiresAt.UTC().Format(time.RFC3339),
	}
}
