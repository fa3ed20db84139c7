package dto

type ContactRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
}

type FulfillmentRequest struct {
	OrderType           string `json:"orderType"`
	SpecialInstructions string `json:"specialInstructions"`
}

type PaymentRequest struct {
	PaymentMethod string `json:"paymentMethod"`
}

type CheckoutStateResponse struct {
	State      string `json:"state"`
	FailReason string `json:"failReason,omitempty"`
}

type QuoteResponse struct {
	Subtotal    string `json:"subtotal"`
	Tax         string `json:"tax"`
	DeliveryFee string `json:"deliveryFee"`
	Total       string `json:"total"`
}
