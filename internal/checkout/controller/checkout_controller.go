package controller

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"china-one/internal/cart"
	"china-one/internal/checkout"
	"china-one/internal/domain"
	"china-one/internal/dto"
	apperrors "china-one/internal/errors"
	"china-one/internal/server"
)

const sessionHeader = "X-Session-Token"

// CheckoutController keeps one open workflow per session. Starting a new
// checkout while one is open is refused; abandoning releases the cart.
type CheckoutController struct {
	svc    *checkout.Service
	carts  *cart.Store
	logger *zap.Logger

	mu        sync.Mutex
	workflows map[string]*checkout.Workflow
}

func NewCheckoutController(svc *checkout.Service, carts *cart.Store, logger *zap.Logger) *CheckoutController {
	return &CheckoutController{
		svc:       svc,
		carts:     carts,
		logger:    logger,
		workflows: make(map[string]*checkout.Workflow),
	}
}

func (c *CheckoutController) Start(w http.ResponseWriter, r *http.Request) {
	logger := c.logger.With(zap.String("traceId", uuid.New().String()))

	token := r.Header.Get(sessionHeader)
	if token == "" {
		server.WriteError(w, logger, apperrors.NewValidationError("missing session token"))
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if wf, ok := c.workflows[token]; ok && wf.State() != checkout.StateSucceeded {
		server.WriteError(w, logger, apperrors.NewConflictError("checkout already in progress"))
		return
	}

	wf, err := c.svc.Start(token, c.carts.Get(token))
	if err != nil {
		server.WriteError(w, logger, err)
		return
	}
	c.workflows[token] = wf

	server.WriteJSON(w, logger, http.StatusCreated, dto.CheckoutStateResponse{State: string(wf.State())})
}

func (c *CheckoutController) SubmitContact(w http.ResponseWriter, r *http.Request) {
	logger := c.logger.With(zap.String("traceId", uuid.New().String()))

	wf, err := c.workflow(r)
	if err != nil {
		server.WriteError(w, logger, err)
		return
	}

	var req dto.ContactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		server.WriteError(w, logger, apperrors.NewValidationError("invalid JSON body"))
		return
	}

	err = wf.SubmitContact(checkout.Contact{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		Email:     req.Email,
	})
	if err != nil {
		server.WriteError(w, logger, err)
		return
	}

	server.WriteJSON(w, logger, http.StatusOK, dto.CheckoutStateResponse{State: string(wf.State())})
}

func (c *CheckoutController) SubmitFulfillment(w http.ResponseWriter, r *http.Request) {
	logger := c.logger.With(zap.String("traceId", uuid.New().String()))

	wf, err := c.workflow(r)
	if err != nil {
		server.WriteError(w, logger, err)
		return
	}

	var req dto.FulfillmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		server.WriteError(w, logger, apperrors.NewValidationError("invalid JSON body"))
		return
	}

	if err := wf.SubmitFulfillment(domain.OrderType(req.OrderType), req.SpecialInstructions); err != nil {
		server.WriteError(w, logger, err)
		return
	}

	server.WriteJSON(w, logger, http.StatusOK, dto.CheckoutStateResponse{State: string(wf.State())})
}

func (c *CheckoutController) SelectPayment(w http.ResponseWriter, r *http.Request) {
	logger := c.logger.With(zap.String("traceId", uuid.New().String()))

	wf, err := c.workflow(r)
	if err != nil {
		server.WriteError(w, logger, err)
		return
	}

	var req dto.PaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		server.WriteError(w, logger, apperrors.NewValidationError("invalid JSON body"))
		return
	}

	if err := wf.SelectPayment(domain.PaymentMethod(req.PaymentMethod)); err != nil {
		server.WriteError(w, logger, err)
		return
	}

	quote := wf.Quote()
	server.WriteJSON(w, logger, http.StatusOK, quoteResponse(quote))
}

func (c *CheckoutController) GetQuote(w http.ResponseWriter, r *http.Request) {
	logger := c.logger.With(zap.String("traceId", uuid.New().String()))

	wf, err := c.workflow(r)
	if err != nil {
		server.WriteError(w, logger, err)
		return
	}

	server.WriteJSON(w, logger, http.StatusOK, quoteResponse(wf.Quote()))
}

func (c *CheckoutController) Submit(w http.ResponseWriter, r *http.Request) {
	logger := c.logger.With(zap.String("traceId", uuid.New().String()))

	wf, err := c.workflow(r)
	if err != nil {
		server.WriteError(w, logger, err)
		return
	}

	order, err := wf.Submit(r.Context())
	if err != nil {
		server.WriteError(w, logger, err)
		return
	}

	c.mu.Lock()
	delete(c.workflows, r.Header.Get(sessionHeader))
	c.mu.Unlock()

	server.WriteJSON(w, logger, http.StatusCreated, dto.NewOrderResponse(order, nil))
}

func (c *CheckoutController) Abandon(w http.ResponseWriter, r *http.Request) {
	logger := c.logger.With(zap.String("traceId", uuid.New().String()))
	_ = logger

	token := r.Header.Get(sessionHeader)

	c.mu.Lock()
	wf, ok := c.workflows[token]
	delete(c.workflows, token)
	c.mu.Unlock()

	if ok {
		wf.Abandon()
	}
	w.WriteHeader(http.StatusNoContent)
}

func (c *CheckoutController) workflow(r *http.Request) (*checkout.Workflow, error) {
	token := r.Header.Get(sessionHeader)
	if token == "" {
		return nil, apperrors.NewValidationError("missing session token")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	wf, ok := c.workflows[token]
	if !ok {
		return nil, apperrors.NewNotFoundError("no checkout in progress for this session")
	}
	return wf, nil
}

func quoteResponse(q checkout.Quote) dto.QuoteResponse {
	return dto.QuoteResponse{
		Subtotal:    q.Subtotal.StringFixed(2),
		Tax:         q.Tax.StringFixed(2),
		DeliveryFee: q.DeliveryFee.StringFixed(2),
		Total:       q.Total.StringFixed(2),
	}
}
