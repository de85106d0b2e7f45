package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	cart "github.com/dmehra2102/pizzeria-ordering/internal/cart/domain"
)

var (
	ErrUnknownStatus       = errors.New("unknown order status")
	ErrInvalidTransition   = errors.New("invalid status transition")
	ErrMissingCustomerInfo = errors.New("missing customer info")
	ErrOrderNotFound       = errors.New("order not found")
)

type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusConfirmed OrderStatus = "confirmed"
	StatusPreparing OrderStatus = "preparing"
	StatusDelivered OrderStatus = "delivered"
)

var statusFlow = []OrderStatus{StatusPending, StatusConfirmed, StatusPreparing, StatusDelivered}

func ParseStatus(s string) (OrderStatus, error) {
	st := OrderStatus(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range statusFlow {
		if st == known {
			return st, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownStatus, s)
}

// Next is the single legal successor of s. Delivered is terminal.
func (s OrderStatus) Next() (OrderStatus, bool) {
	for i, st := range statusFlow {
		if st == s && i+1 < len(statusFlow) {
			return statusFlow[i+1], true
		}
	}
	return "", false
}

func CanTransition(from, to OrderStatus) bool {
	next, ok := from.Next()
	return ok && next == to
}

// Suggested payment methods shown at checkout. The field itself is free form.
var PaymentMethods = []string{"Pix", "Cartão de Crédito", "Dinheiro"}

type Customer struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
}

func (c Customer) Validate() error {
	switch {
	case strings.TrimSpace(c.Name) == "":
		return fmt.Errorf("%w: name", ErrMissingCustomerInfo)
	case strings.TrimSpace(c.Address) == "":
		return fmt.Errorf("%w: address", ErrMissingCustomerInfo)
	case strings.TrimSpace(c.Phone) == "":
		return fmt.Errorf("%w: phone", ErrMissingCustomerInfo)
	}
	return nil
}

// Merchant is the store receiving the order summary.
type Merchant struct {
	Name  string
	Phone string
}

type Order struct {
	ID            string          `json:"id"`
	Items         []cart.LineItem `json:"items"`
	Customer      Customer        `json:"customer"`
	PaymentMethod string          `json:"payment_method"`
	Total         decimal.Decimal `json:"total"`
	Status        OrderStatus     `json:"status"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// NewOrder freezes a copy of the items. The ID is assigned by the ledger.
func NewOrder(items []cart.LineItem, customer Customer, paymentMethod string, total decimal.Decimal, now time.Time) Order {
	frozen := make([]cart.LineItem, 0, len(items))
	for _, it := range items {
		frozen = append(frozen, it.Clone())
	}
	return Order{
		Items:         frozen,
		Customer:      customer,
		PaymentMethod: paymentMethod,
		Total:         total,
		Status:        StatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func (o Order) UnitCount() int {
	n := 0
	for _, it := range o.Items {
		n += it.Quantity
	}
	return n
}

// Clone returns a copy that shares no slices with o.
func (o Order) Clone() Order {
	c := o
	c.Items = make([]cart.LineItem, 0, len(o.Items))
	for _, it := range o.Items {
		c.Items = append(c.Items, it.Clone())
	}
	return c
}
