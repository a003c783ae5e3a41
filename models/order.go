package models

import "github.com/shopspring/decimal"

// Length limits of the OrderRequest validate tags.
const (
	MaxCustomerName  = 80
	MaxCustomerPhone = 32
)

// OrderRequest is what the customer fills in at checkout.
type OrderRequest struct {
	CustomerName  string   `json:"customer_name" validate:"max=80"`
	CustomerPhone string   `json:"customer_phone" validate:"max=32"`
	Lang          Language `json:"lang" validate:"omitempty,oneof=pt en fr de"`
}

// OrderLine is one cart entry as it appears in an order message.
type OrderLine struct {
	Code     string          `json:"code"`
	Name     string          `json:"name"`
	Quantity int             `json:"quantity"`
	Subtotal decimal.Decimal `json:"subtotal"`
}

// Order is a composed order: the message text and the deep-link that carries it.
type Order struct {
	Message   string          `json:"message"`
	URL       string          `json:"url"`
	Phone     string          `json:"phone"`
	Lines     []OrderLine     `json:"lines"`
	Total     decimal.Decimal `json:"total"`
	ItemCount int             `json:"item_count"`
}
