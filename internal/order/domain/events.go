package domain

import (
	"time"

	"github.com/shopspring/decimal"

	cart "github.com/dmehra2102/pizzeria-ordering/internal/cart/domain"
)

const (
	EventOrderCreated       = "OrderCreated"
	EventOrderStatusChanged = "OrderStatusChanged"
)

type OrderCreated struct {
	OrderID       string          `json:"order_id"`
	Customer      Customer        `json:"customer"`
	PaymentMethod string          `json:"payment_method"`
	Total         decimal.Decimal `json:"total"`
	Items         []cart.LineItem `json:"items"`
	CreatedAt     time.Time       `json:"created_at"`
}

func NewOrderCreated(o Order) OrderCreated {
	return OrderCreated{
		OrderID:       o.ID,
		Customer:      o.Customer,
		PaymentMethod: o.PaymentMethod,
		Total:         o.Total,
		Items:         o.Clone().Items,
		CreatedAt:     o.CreatedAt,
	}
}

type OrderStatusChanged struct {
	OrderID   string      `json:"order_id"`
	From      OrderStatus `json:"from"`
	To        OrderStatus `json:"to"`
	ChangedAt time.Time   `json:"changed_at"`
}
