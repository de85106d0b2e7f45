package application

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/dmehra2102/pizzeria-ordering/internal/cart/domain"
	catalog "github.com/dmehra2102/pizzeria-ordering/internal/catalog/domain"
	orderapp "github.com/dmehra2102/pizzeria-ordering/internal/order/application"
	order "github.com/dmehra2102/pizzeria-ordering/internal/order/domain"
)

type CatalogReader interface {
	Snapshot(ctx context.Context) (catalog.Snapshot, error)
}

type Checkouter interface {
	Place(ctx context.Context, c *domain.Cart, customer order.Customer, paymentMethod string) (order.Order, error)
	Notify(ctx context.Context, o order.Order) error
}

type View struct {
	Items     []domain.LineItem `json:"items"`
	Total     decimal.Decimal   `json:"total"`
	ItemCount int               `json:"item_count"`
}

func viewOf(c *domain.Cart) View {
	return View{Items: c.Items(), Total: c.Total(), ItemCount: c.ItemCount()}
}

type Service struct {
	sessions *SessionStore
	catalog  CatalogReader
	orders   Checkouter
}

func NewService(sessions *SessionStore, catalog CatalogReader, orders Checkouter) *Service {
	return &Service{sessions: sessions, catalog: catalog, orders: orders}
}

func (s *Service) Open() string { return s.sessions.Open() }

func (s *Service) View(_ context.Context, sid string) (View, error) {
	var v View
	err := s.sessions.WithCart(sid, func(c *domain.Cart) error {
		v = viewOf(c)
		return nil
	})
	return v, err
}

// Add prices the item against the current menu and adds it to the cart.
func (s *Service) Add(ctx context.Context, sid string, baseID catalog.EntryID, size catalog.Size, comp domain.Composition) (View, error) {
	snap, err := s.catalog.Snapshot(ctx)
	if err != nil {
		return View{}, err
	}
	return s.mutate(sid, func(c *domain.Cart) error {
		return c.Add(snap, baseID, size, comp)
	})
}

func (s *Service) UpdateQuantity(_ context.Context, sid string, index, quantity int) (View, error) {
	return s.mutate(sid, func(c *domain.Cart) error {
		return c.UpdateQuantity(index, quantity)
	})
}

func (s *Service) Remove(_ context.Context, sid string, index int) (View, error) {
	return s.mutate(sid, func(c *domain.Cart) error {
		return c.Remove(index)
	})
}

func (s *Service) Clear(_ context.Context, sid string) (View, error) {
	return s.mutate(sid, func(c *domain.Cart) error {
		c.Clear()
		return nil
	})
}

func (s *Service) Checkout(ctx context.Context, sid string, customer order.Customer, paymentMethod string) (orderapp.CheckoutResult, error) {
	var placed order.Order
	err := s.sessions.WithCart(sid, func(c *domain.Cart) error {
		var err error
		placed, err = s.orders.Place(ctx, c, customer, paymentMethod)
		return err
	})
	if err != nil {
		return orderapp.CheckoutResult{}, err
	}
	// The relay runs after the session lock is released.
	return orderapp.CheckoutResult{Order: placed, RelayErr: s.orders.Notify(ctx, placed)}, nil
}

func (s *Service) mutate(sid string, fn func(c *domain.Cart) error) (View, error) {
	var v View
	err := s.sessions.WithCart(sid, func(c *domain.Cart) error {
		if err := fn(c); err != nil {
			return err
		}
		v = viewOf(c)
		return nil
	})
	return v, err
}
