package controller

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	catalogservice "china-one/internal/catalog/service"
	"china-one/internal/domain"
	"china-one/internal/dto"
	apperrors "china-one/internal/errors"
	"china-one/internal/server"
)

type MenuController struct {
	catalog *catalogservice.CatalogService
	logger  *zap.Logger
}

func NewMenuController(catalog *catalogservice.CatalogService, logger *zap.Logger) *MenuController {
	return &MenuController{catalog: catalog, logger: logger}
}

// GetMenu returns the storefront view: categories plus available items,
// optionally limited to one category via ?category=.
func (c *MenuController) GetMenu(w http.ResponseWriter, r *http.Request) {
	logger := c.logger.With(zap.String("traceId", uuid.New().String()))

	categories, err := c.catalog.Categories(r.Context())
	if err != nil {
		server.WriteError(w, logger, err)
		return
	}

	items, err := c.catalog.Menu(r.Context(), r.URL.Query().Get("category"))
	if err != nil {
		server.WriteError(w, logger, err)
		return
	}

	categoryResponses := make([]dto.MenuCategoryResponse, len(categories))
	for i, cat := range categories {
		categoryResponses[i] = dto.MenuCategoryResponse{
			ID: cat.ID, Name: cat.Name, Description: cat.Description, Icon: cat.Icon,
		}
	}
	itemResponses := make([]dto.MenuItemResponse, len(items))
	for i, item := range items {
		itemResponses[i] = dto.NewMenuItemResponse(item)
	}

	server.WriteJSON(w, logger, http.StatusOK, map[string]interface{}{
		"categories": categoryResponses,
		"items":      itemResponses,
	})
}

// GetFullMenu is the staff management view including unavailable items.
func (c *MenuController) GetFullMenu(w http.ResponseWriter, r *http.Request) {
	logger := c.logger.With(zap.String("traceId", uuid.New().String()))

	items, err := c.catalog.FullMenu(r.Context())
	if err != nil {
		server.WriteError(w, logger, err)
		return
	}

	responses := make([]dto.MenuItemResponse, len(items))
	for i, item := range items {
		responses[i] = dto.NewMenuItemResponse(item)
	}
	server.WriteJSON(w, logger, http.StatusOK, responses)
}

func (c *MenuController) CreateItem(w http.ResponseWriter, r *http.Request) {
	logger := c.logger.With(zap.String("traceId", uuid.New().String()))

	item, err := decodeItem(r)
	if err != nil {
		server.WriteError(w, logger, err)
		return
	}

	created, err := c.catalog.CreateItem(r.Context(), *item)
	if err != nil {
		server.WriteError(w, logger, err)
		return
	}

	server.WriteJSON(w, logger, http.StatusCreated, dto.NewMenuItemResponse(*created))
}

func (c *MenuController) UpdateItem(w http.ResponseWriter, r *http.Request) {
	logger := c.logger.With(zap.String("traceId", uuid.New().String()))

	item, err := decodeItem(r)
	if err != nil {
		server.WriteError(w, logger, err)
		return
	}
	item.ID = chi.URLParam(r, "itemId")

	if err := c.catalog.UpdateItem(r.Context(), *item); err != nil {
		server.WriteError(w, logger, err)
		return
	}

	server.WriteJSON(w, logger, http.StatusOK, dto.NewMenuItemResponse(*item))
}

func (c *MenuController) SetAvailability(w http.ResponseWriter, r *http.Request) {
	logger := c.logger.With(zap.String("traceId", uuid.New().String()))

	var req dto.SetAvailabilityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		server.WriteError(w, logger, apperrors.NewValidationError("invalid JSON body"))
		return
	}

	itemID := chi.URLParam(r, "itemId")
	if err := c.catalog.SetItemAvailability(r.Context(), itemID, req.Available); err != nil {
		server.WriteError(w, logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func decodeItem(r *http.Request) (*domain.MenuItem, error) {
	var req dto.MenuItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, apperrors.NewValidationError("invalid JSON body")
	}

	price, err := decimal.NewFromString(req.BasePrice)
	if err != nil {
		return nil, apperrors.NewValidationError("invalid basePrice", apperrors.ValidationDetail{
			Field: "basePrice", Message: "basePrice must be a decimal string like 6.95",
		})
	}

	return &domain.MenuItem{
		ID:           req.ID,
		CategoryID:   req.CategoryID,
		Name:         req.Name,
		Description:  req.Description,
		BasePrice:    price,
		Popular:      req.Popular,
		Spicy:        req.Spicy,
		Available:    req.Available,
		OptionGroups: req.OptionGroups,
	}, nil
}
