package controller

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"china-one/internal/account"
	"china-one/internal/domain"
	"china-one/internal/dto"
	apperrors "china-one/internal/errors"
	"china-one/internal/feed"
	orderservice "china-one/internal/order/service"
	"china-one/internal/server"
)

const sessionHeader = "X-Session-Token"

type OrderController struct {
	status   *orderservice.StatusService
	sessions *account.Service
	hub      *feed.Hub
	logger   *zap.Logger
}

func NewOrderController(status *orderservice.StatusService, sessions *account.Service, hub *feed.Hub, logger *zap.Logger) *OrderController {
	return &OrderController{status: status, sessions: sessions, hub: hub, logger: logger}
}

// List is the staff order board, newest first, optionally ?status= filtered.
func (c *OrderController) List(w http.ResponseWriter, r *http.Request) {
	logger := c.logger.With(zap.String("traceId", uuid.New().String()))

	if err := c.requireStaff(r); err != nil {
		server.WriteError(w, logger, err)
		return
	}

	orders, err := c.status.List(r.Context(), domain.OrderStatus(r.URL.Query().Get("status")))
	if err != nil {
		server.WriteError(w, logger, err)
		return
	}

	responses := make([]dto.OrderResponse, len(orders))
	for i := range orders {
		responses[i] = dto.NewOrderResponse(&orders[i], nil)
	}
	server.WriteJSON(w, logger, http.StatusOK, responses)
}

// Get is the customer tracker and staff detail view: order plus items.
func (c *OrderController) Get(w http.ResponseWriter, r *http.Request) {
	logger := c.logger.With(zap.String("traceId", uuid.New().String()))

	orderID, err := orderIDParam(r)
	if err != nil {
		server.WriteError(w, logger, err)
		return
	}

	order, items, err := c.status.Get(r.Context(), orderID)
	if err != nil {
		server.WriteError(w, logger, err)
		return
	}

	server.WriteJSON(w, logger, http.StatusOK, dto.NewOrderResponse(order, items))
}

// UpdateStatus is staff-only; observers never reach this handler.
func (c *OrderController) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	logger := c.logger.With(zap.String("traceId", uuid.New().String()))

	if err := c.requireStaff(r); err != nil {
		server.WriteError(w, logger, err)
		return
	}

	orderID, err := orderIDParam(r)
	if err != nil {
		server.WriteError(w, logger, err)
		return
	}

	var req dto.UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		server.WriteError(w, logger, apperrors.NewValidationError("invalid JSON body"))
		return
	}

	updated, err := c.status.UpdateStatus(r.Context(), orderID, domain.OrderStatus(req.Status))
	if err != nil {
		server.WriteError(w, logger, err)
		return
	}

	server.WriteJSON(w, logger, http.StatusOK, dto.NewOrderResponse(updated, nil))
}

// History returns the signed-in customer's own orders.
func (c *OrderController) History(w http.ResponseWriter, r *http.Request) {
	logger := c.logger.With(zap.String("traceId", uuid.New().String()))

	session, err := c.sessions.CurrentSession(r.Header.Get(sessionHeader))
	if err != nil {
		server.WriteError(w, logger, err)
		return
	}
	if session.Kind != account.SessionCustomer {
		server.WriteError(w, logger, apperrors.NewUnauthenticatedError("customer session required"))
		return
	}

	orders, err := c.status.ListByCustomer(r.Context(), session.UserID)
	if err != nil {
		server.WriteError(w, logger, err)
		return
	}

	responses := make([]dto.OrderResponse, len(orders))
	for i := range orders {
		responses[i] = dto.NewOrderResponse(&orders[i], nil)
	}
	server.WriteJSON(w, logger, http.StatusOK, responses)
}

// Events streams change events for one order as server-sent events. The
// payload only names the order and status; clients re-fetch the order for
// truth.
func (c *OrderController) Events(w http.ResponseWriter, r *http.Request) {
	logger := c.logger.With(zap.String("traceId", uuid.New().String()))

	orderID, err := orderIDParam(r)
	if err != nil {
		server.WriteError(w, logger, err)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		server.WriteError(w, logger, apperrors.NewInternalError("streaming unsupported", nil))
		return
	}

	events, cancel := c.hub.Watch(feed.Filter{Table: feed.TableOrders, OrderID: orderID})
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case e, open := <-events:
			if !open {
				return
			}
			body, err := json.Marshal(e)
			if err != nil {
				logger.Warn("encoding feed event failed", zap.Error(err))
				continue
			}
			fmt.Fprintf(w, "data: %s\n\n", body)
			flusher.Flush()
		}
	}
}

func (c *OrderController) requireStaff(r *http.Request) error {
	session, err := c.sessions.CurrentSession(r.Header.Get(sessionHeader))
	if err != nil {
		return err
	}
	if session.Kind != account.SessionAdmin {
		return apperrors.NewUnauthenticatedError("staff session required")
	}
	return nil
}

func orderIDParam(r *http.Request) (uint, error) {
	raw := chi.URLParam(r, "orderId")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, apperrors.NewValidationError("invalid orderId", apperrors.ValidationDetail{
			Field: "orderId", Message: "orderId must be a positive integer",
		})
	}
	return uint(id), nil
}
