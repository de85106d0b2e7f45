package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	cart "github.com/dmehra2102/pizzeria-ordering/internal/cart/domain"
	"github.com/dmehra2102/pizzeria-ordering/internal/order/domain"
	"github.com/dmehra2102/pizzeria-ordering/pkg/tracing"
)

var (
	ErrEmptyCart     = errors.New("cart is empty")
	ErrRelayDelivery = errors.New("relay delivery failed")
)

type Service struct {
	log      *slog.Logger
	repo     OrderRepository
	relay    Relay
	merchant MerchantSource
	metrics  Metrics
	now      func() time.Time
}

type Option func(*Service)

func WithMetrics(m Metrics) Option {
	return func(s *Service) {
		if m != nil {
			s.metrics = m
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(log *slog.Logger, repo OrderRepository, relay Relay, merchant MerchantSource, opts ...Option) *Service {
	s := &Service{
		log:      log,
		repo:     repo,
		relay:    relay,
		merchant: merchant,
		metrics:  nopMetrics{},
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CheckoutResult carries the stored order. RelayErr is set when the order
// was stored but the merchant hand-off failed; the order stands regardless.
type CheckoutResult struct {
	Order    domain.Order
	RelayErr error
}

// Checkout places the order and then hands it to the merchant relay.
func (s *Service) Checkout(ctx context.Context, c *cart.Cart, customer domain.Customer, paymentMethod string) (CheckoutResult, error) {
	saved, err := s.Place(ctx, c, customer, paymentMethod)
	if err != nil {
		return CheckoutResult{}, err
	}
	return CheckoutResult{Order: saved, RelayErr: s.Notify(ctx, saved)}, nil
}

// Place turns the cart into a pending order, stores it and clears the cart.
// The caller must hold exclusive access to c.
func (s *Service) Place(ctx context.Context, c *cart.Cart, customer domain.Customer, paymentMethod string) (domain.Order, error) {
	if c.Len() == 0 {
		return domain.Order{}, ErrEmptyCart
	}
	if err := customer.Validate(); err != nil {
		return domain.Order{}, err
	}
	if strings.TrimSpace(paymentMethod) == "" {
		return domain.Order{}, fmt.Errorf("%w: payment method", domain.ErrMissingCustomerInfo)
	}

	o := domain.NewOrder(c.Items(), customer, paymentMethod, c.Total(), s.now())
	saved, err := s.repo.SaveWithOutbox(ctx, o, tracing.Traceparent(ctx))
	if err != nil {
		return domain.Order{}, fmt.Errorf("save order: %w", err)
	}
	c.Clear()
	s.metrics.OrderPlaced(saved.Total)
	s.log.Info("order placed", "order_id", saved.ID, "total", saved.Total.StringFixed(2), "units", saved.UnitCount())
	return saved, nil
}

// Notify hands a stored order to the merchant relay. A failure is counted and
// logged and returned wrapped in ErrRelayDelivery; the order stands regardless.
func (s *Service) Notify(ctx context.Context, o domain.Order) error {
	m, err := s.merchant.Merchant(ctx)
	if err == nil {
		err = s.relay.Notify(ctx, o, m)
	} else {
		err = fmt.Errorf("merchant: %w", err)
	}
	if err != nil {
		s.metrics.RelayFailed()
		s.log.Warn("order relay failed", "order_id", o.ID, "err", err)
		return fmt.Errorf("%w: %w", ErrRelayDelivery, err)
	}
	return nil
}

// AdvanceStatus moves an order one step forward through
// pending, confirmed, preparing, delivered.
func (s *Service) AdvanceStatus(ctx context.Context, id string, to domain.OrderStatus) (domain.Order, error) {
	o, err := s.repo.Get(ctx, id)
	if err != nil {
		return domain.Order{}, err
	}
	if !domain.CanTransition(o.Status, to) {
		return domain.Order{}, fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, o.Status, to)
	}

	ok, err := s.repo.UpdateStatusIf(ctx, id, o.Status, to, s.now(), tracing.Traceparent(ctx))
	if err != nil {
		return domain.Order{}, err
	}
	if !ok {
		return domain.Order{}, fmt.Errorf("%w: order %s changed concurrently", domain.ErrInvalidTransition, id)
	}
	s.metrics.StatusChanged(string(to))
	s.log.Info("order status changed", "order_id", id, "from", o.Status, "to", to)

	return s.repo.Get(ctx, id)
}

func (s *Service) Order(ctx context.Context, id string) (domain.Order, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) Orders(ctx context.Context) ([]domain.Order, error) {
	return s.repo.List(ctx)
}

// DayStatistics is recomputed from the ledger on every call.
func (s *Service) DayStatistics(ctx context.Context, ref time.Time) (domain.DayStats, error) {
	orders, err := s.repo.List(ctx)
	if err != nil {
		return domain.DayStats{}, err
	}
	return domain.DayStatistics(orders, ref), nil
}
