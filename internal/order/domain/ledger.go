package domain

import (
	"strconv"
	"sync"
	"time"
)

// Ledger is the in-memory order book. Orders are kept most recent first and
// numbered "1", "2", ... per ledger instance; the counter only advances on a
// successful append.
type Ledger struct {
	mu     sync.RWMutex
	next   int64
	orders []Order
}

func NewLedger() *Ledger {
	return &Ledger{next: 1}
}

// Append assigns the next sequential id to o, stores a copy and returns it.
func (l *Ledger) Append(o Order) Order {
	saved, _ := l.AppendFunc(o, nil)
	return saved
}

// AppendFunc numbers o and runs commit with the numbered order before storing
// it. When commit fails nothing is stored and the id is not used up.
func (l *Ledger) AppendFunc(o Order, commit func(Order) error) (Order, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	o = o.Clone()
	o.ID = strconv.FormatInt(l.next, 10)
	if commit != nil {
		if err := commit(o.Clone()); err != nil {
			return Order{}, err
		}
	}
	l.next++
	l.orders = append([]Order{o}, l.orders...)
	return o.Clone(), nil
}

func (l *Ledger) Get(id string) (Order, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	for _, o := range l.orders {
		if o.ID == id {
			return o.Clone(), true
		}
	}
	return Order{}, false
}

func (l *Ledger) List() []Order {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]Order, 0, len(l.orders))
	for _, o := range l.orders {
		out = append(out, o.Clone())
	}
	return out
}

// SetStatusIf moves order id from one status to another only if it is still
// in from. It does not check the transition table.
func (l *Ledger) SetStatusIf(id string, from, to OrderStatus, now time.Time) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for i := range l.orders {
		if l.orders[i].ID != id {
			continue
		}
		if l.orders[i].Status != from {
			return false, nil
		}
		l.orders[i].Status = to
		l.orders[i].UpdatedAt = now
		return true, nil
	}
	return false, ErrOrderNotFound
}
