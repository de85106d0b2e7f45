package application

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dmehra2102/pizzeria-ordering/internal/order/domain"
)

// OrderRepository persists orders together with their outbox events. SaveWithOutbox
// assigns the next sequential id and returns the stored order.
type OrderRepository interface {
	SaveWithOutbox(ctx context.Context, o domain.Order, traceparent string) (domain.Order, error)
	Get(ctx context.Context, id string) (domain.Order, error)
	List(ctx context.Context) ([]domain.Order, error)
	UpdateStatusIf(ctx context.Context, id string, from, to domain.OrderStatus, at time.Time, traceparent string) (bool, error)
}

// Relay hands a placed order to the merchant. It is a side effect only.
type Relay interface {
	Notify(ctx context.Context, o domain.Order, m domain.Merchant) error
}

type MerchantSource interface {
	Merchant(ctx context.Context) (domain.Merchant, error)
}

type MerchantFunc func(ctx context.Context) (domain.Merchant, error)

func (f MerchantFunc) Merchant(ctx context.Context) (domain.Merchant, error) { return f(ctx) }

type Metrics interface {
	OrderPlaced(total decimal.Decimal)
	StatusChanged(status string)
	RelayFailed()
}

type nopMetrics struct{}

func (nopMetrics) OrderPlaced(decimal.Decimal) {}
func (nopMetrics) StatusChanged(string)        {}
func (nopMetrics) RelayFailed()                {}
