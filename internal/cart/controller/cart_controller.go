package controller

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"china-one/internal/cart"
	catalogservice "china-one/internal/catalog/service"
	"china-one/internal/dto"
	apperrors "china-one/internal/errors"
	"china-one/internal/server"
)

// SessionHeader identifies the shopper. Anonymous shoppers get a token from
// the storefront too; only checkout requires a signed-in customer.
const SessionHeader = "X-Session-Token"

type CartController struct {
	carts   *cart.Store
	catalog *catalogservice.CatalogService
	logger  *zap.Logger
}

func NewCartController(carts *cart.Store, catalog *catalogservice.CatalogService, logger *zap.Logger) *CartController {
	return &CartController{carts: carts, catalog: catalog, logger: logger}
}

func (c *CartController) GetCart(w http.ResponseWriter, r *http.Request) {
	logger := c.logger.With(zap.String("traceId", uuid.New().String()))

	token, err := sessionToken(r)
	if err != nil {
		server.WriteError(w, logger, err)
		return
	}

	server.WriteJSON(w, logger, http.StatusOK, cartResponse(c.carts.Get(token)))
}

func (c *CartController) AddItem(w http.ResponseWriter, r *http.Request) {
	logger := c.logger.With(zap.String("traceId", uuid.New().String()))

	token, err := sessionToken(r)
	if err != nil {
		server.WriteError(w, logger, err)
		return
	}

	var req dto.AddCartItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		server.WriteError(w, logger, apperrors.NewValidationError("invalid JSON body"))
		return
	}

	item, err := c.catalog.Item(r.Context(), req.MenuItemID)
	if err != nil {
		server.WriteError(w, logger, err)
		return
	}

	line, err := c.carts.Get(token).AddItem(item, req.Customizations, req.Quantity, req.Note)
	if err != nil {
		server.WriteError(w, logger, err)
		return
	}

	logger.Info("cart line added", zap.String("menuItemId", item.ID), zap.Int("quantity", req.Quantity))
	server.WriteJSON(w, logger, http.StatusCreated, lineResponse(*line))
}

func (c *CartController) SetQuantity(w http.ResponseWriter, r *http.Request) {
	logger := c.logger.With(zap.String("traceId", uuid.New().String()))

	token, err := sessionToken(r)
	if err != nil {
		server.WriteError(w, logger, err)
		return
	}

	var req dto.SetQuantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		server.WriteError(w, logger, apperrors.NewValidationError("invalid JSON body"))
		return
	}

	lineID := chi.URLParam(r, "lineId")
	if err := c.carts.Get(token).SetQuantity(lineID, req.Quantity); err != nil {
		server.WriteError(w, logger, err)
		return
	}

	server.WriteJSON(w, logger, http.StatusOK, cartResponse(c.carts.Get(token)))
}

func (c *CartController) RemoveLine(w http.ResponseWriter, r *http.Request) {
	logger := c.logger.With(zap.String("traceId", uuid.New().String()))

	token, err := sessionToken(r)
	if err != nil {
		server.WriteError(w, logger, err)
		return
	}

	lineID := chi.URLParam(r, "lineId")
	if err := c.carts.Get(token).RemoveLine(lineID); err != nil {
		server.WriteError(w, logger, err)
		return
	}

	server.WriteJSON(w, logger, http.StatusOK, cartResponse(c.carts.Get(token)))
}

func sessionToken(r *http.Request) (string, error) {
	token := r.Header.Get(SessionHeader)
	if token == "" {
		return "", apperrors.NewValidationError("missing session token", apperrors.ValidationDetail{
			Field: SessionHeader, Message: "session token header is required",
		})
	}
	return token, nil
}

func cartResponse(c *cart.Cart) dto.CartResponse {
	lines := c.Lines()
	resp := dto.CartResponse{
		Lines:     make([]dto.CartLineResponse, len(lines)),
		ItemCount: c.ItemCount(),
		Total:     c.Total().StringFixed(2),
	}
	for i, l := range lines {
		resp.Lines[i] = lineResponse(l)
	}
	return resp
}

func lineResponse(l cart.Line) dto.CartLineResponse {
	return dto.CartLineResponse{
		ID:             l.ID,
		MenuItemID:     l.MenuItemID,
		Name:           l.Name,
		Quantity:       l.Quantity,
		UnitPrice:      l.UnitPrice.StringFixed(2),
		LineTotal:      l.Total().StringFixed(2),
		Customizations: l.Customizations,
		Note:           l.Note,
	}
}
