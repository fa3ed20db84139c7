package dto

import "china-one/internal/domain"

type AddCartItemRequest struct {
	MenuItemID     string                `json:"menuItemId"`
	Quantity       int                   `json:"quantity"`
	Customizations domain.Customizations `json:"customizations"`
	Note           string                `json:"note"`
}

type SetQuantityRequest struct {
	Quantity int `json:"quantity"`
}

type CartLineResponse struct {
	ID             string                `json:"id"`
	MenuItemID     string                `json:"menuItemId"`
	Name           string                `json:"name"`
	Quantity       int                   `json:"quantity"`
	UnitPrice      string                `json:"unitPrice"`
	LineTotal      string                `json:"lineTotal"`
	Customizations domain.Customizations `json:"customizations,omitempty"`
	Note           string                `json:"note,omitempty"`
}

type CartResponse struct {
	Lines     []CartLineResponse `json:"lines"`
	ItemCount int                `json:"itemCount"`
	Total     string             `json:"total"`
}
