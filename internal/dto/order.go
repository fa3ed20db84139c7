package dto

import (
	"time"

	"china-one/internal/domain"
)

type UpdateStatusRequest struct {
	Status string `json:"status"`
}

type OrderItemResponse struct {
	ID                  uint                  `json:"id"`
	MenuItemID          string                `json:"menuItemId"`
	Name                string                `json:"name"`
	Quantity            int                   `json:"quantity"`
	BasePrice           string                `json:"basePrice"`
	FinalPrice          string                `json:"finalPrice"`
	Customizations      domain.Customizations `json:"customizations,omitempty"`
	SpecialInstructions string                `json:"specialInstructions,omitempty"`
}

type OrderResponse struct {
	ID                  uint                `json:"id"`
	CustomerID          string              `json:"customerId"`
	CustomerName        string              `json:"customerName"`
	CustomerPhone       string              `json:"customerPhone"`
	CustomerEmail       string              `json:"customerEmail"`
	OrderType           string              `json:"orderType"`
	PaymentMethod       string              `json:"paymentMethod"`
	Status              string              `json:"status"`
	Subtotal            string              `json:"subtotal"`
	Tax                 string              `json:"tax"`
	DeliveryFee         string              `json:"deliveryFee"`
	Total               string              `json:"total"`
	SpecialInstructions string              `json:"specialInstructions,omitempty"`
	EstimatedReadyAt    time.Time           `json:"estimatedReadyAt"`
	CompletedAt         *time.Time          `json:"completedAt,omitempty"`
	CreatedAt           time.Time           `json:"createdAt"`
	Items               []OrderItemResponse `json:"items,omitempty"`
}

func NewOrderResponse(o *domain.Order, items []domain.OrderItem) OrderResponse {
	resp := OrderResponse{
		ID:                  o.ID,
		CustomerID:          o.CustomerID,
		CustomerName:        o.CustomerName,
		CustomerPhone:       o.CustomerPhone,
		CustomerEmail:       o.CustomerEmail,
		OrderType:           string(o.OrderType),
		PaymentMethod:       string(o.PaymentMethod),
		Status:              string(o.Status),
		Subtotal:            o.Subtotal.StringFixed(2),
		Tax:                 o.Tax.StringFixed(2),
		DeliveryFee:         o.DeliveryFee.StringFixed(2),
		Total:               o.Total.StringFixed(2),
		SpecialInstructions: o.SpecialInstructions,
		EstimatedReadyAt:    o.EstimatedReadyAt,
		CompletedAt:         o.CompletedAt,
		CreatedAt:           o.CreatedAt,
	}
	for _, item := range items {
		resp.Items = append(resp.Items, OrderItemResponse{
			ID:                  item.ID,
			MenuItemID:          item.MenuItemID,
			Name:                item.Name,
			Quantity:            item.Quantity,
			BasePrice:           item.BasePrice.StringFixed(2),
			FinalPrice:          item.FinalPrice.StringFixed(2),
			Customizations:      item.Customizations,
			SpecialInstructions: item.SpecialInstructions,
		})
	}
	return resp
}
