package dto

import "china-one/internal/domain"

type MenuCategoryResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

type MenuItemResponse struct {
	ID           string               `json:"id"`
	CategoryID   string               `json:"categoryId"`
	Name         string               `json:"name"`
	Description  string               `json:"description"`
	BasePrice    string               `json:"basePrice"`
	Popular      bool                 `json:"popular"`
	Spicy        bool                 `json:"spicy"`
	Available    bool                 `json:"available"`
	OptionGroups []domain.OptionGroup `json:"optionGroups,omitempty"`
}

func NewMenuItemResponse(item domain.MenuItem) MenuItemResponse {
	return MenuItemResponse{
		ID:           item.ID,
		CategoryID:   item.CategoryID,
		Name:         item.Name,
		Description:  item.Description,
		BasePrice:    item.BasePrice.StringFixed(2),
		Popular:      item.Popular,
		Spicy:        item.Spicy,
		Available:    item.Available,
		OptionGroups: item.OptionGroups,
	}
}

type MenuItemRequest struct {
	ID           string               `json:"id"`
	CategoryID   string               `json:"categoryId"`
	Name         string               `json:"name"`
	Description  string               `json:"description"`
	BasePrice    string               `json:"basePrice"`
	Popular      bool                 `json:"popular"`
	Spicy        bool                 `json:"spicy"`
	Available    bool                 `json:"available"`
	OptionGroups []domain.OptionGroup `json:"optionGroups,omitempty"`
}

type SetAvailabilityRequest struct {
	Available bool `json:"available"`
}
