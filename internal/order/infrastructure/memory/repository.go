package memory

import (
	"context"
	"sync"
	"time"

	"github.com/dmehra2102/pizzeria-ordering/internal/order/domain"
	"github.com/dmehra2102/pizzeria-ordering/pkg/outbox"
)

const aggregateType = "order"

type outboxRow struct {
	event      outbox.Event
	leaseUntil time.Time
}

// Repository keeps orders in a domain.Ledger and their outbox events in a
// slice. It also serves as the outbox.Store for the relay.
type Repository struct {
	ledger *domain.Ledger

	mu          sync.Mutex
	rows        []*outboxRow
	nextEventID int64
	maxRetries  int
	now         func() time.Time
}

func NewRepository(maxRetries int) *Repository {
	if maxRetries <= 0 {
		maxRetries = 5
	}
	return &Repository{
		ledger:      domain.NewLedger(),
		nextEventID: 1,
		maxRetries:  maxRetries,
		now:         time.Now,
	}
}

func (r *Repository) SaveWithOutbox(_ context.Context, o domain.Order, traceparent string) (domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.ledger.AppendFunc(o, func(numbered domain.Order) error {
		return r.enqueue(numbered.ID, domain.EventOrderCreated, domain.NewOrderCreated(numbered), traceparent)
	})
}

func (r *Repository) Get(_ context.Context, id string) (domain.Order, error) {
	o, ok := r.ledger.Get(id)
	if !ok {
		return domain.Order{}, domain.ErrOrderNotFound
	}
	return o, nil
}

func (r *Repository) List(_ context.Context) ([]domain.Order, error) {
	return r.ledger.List(), nil
}

func (r *Repository) UpdateStatusIf(_ context.Context, id string, from, to domain.OrderStatus, at time.Time, traceparent string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ok, err := r.ledger.SetStatusIf(id, from, to, at)
	if err != nil || !ok {
		return ok, err
	}
	ev := domain.OrderStatusChanged{OrderID: id, From: from, To: to, ChangedAt: at}
	if err := r.enqueue(id, domain.EventOrderStatusChanged, ev, traceparent); err != nil {
		return false, err
	}
	return true, nil
}

func (r *Repository) enqueue(orderID, eventType string, payload any, traceparent string) error {
	ev, err := outbox.NewEvent(aggregateType, orderID, eventType, payload, traceparent)
	if err != nil {
		return err
	}
	ev.ID = r.nextEventID
	ev.CreatedAt = r.now()
	r.nextEventID++
	r.rows = append(r.rows, &outboxRow{event: ev})
	return nil
}

func (r *Repository) LockBatch(_ context.Context, relayID string, batchSize int, lease time.Duration) ([]outbox.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	var out []outbox.Event
	for _, row := range r.rows {
		if len(out) == batchSize {
			break
		}
		expired := row.event.Status == outbox.StatusInProgress && now.After(row.leaseUntil)
		if row.event.Status != outbox.StatusPending && !expired {
			continue
		}
		row.event.Status = outbox.StatusInProgress
		row.event.RelayID = relayID
		row.leaseUntil = now.Add(lease)
		out = append(out, row.event)
	}
	return out, nil
}

func (r *Repository) MarkSent(_ context.Context, ids []int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, row := range r.find(ids) {
		row.event.Status = outbox.StatusSent
	}
	return nil
}

func (r *Repository) MarkFailed(_ context.Context, id int64, errMsg string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, row := range r.find([]int64{id}) {
		row.event.RetryCount++
		row.event.LastError = &errMsg
		row.event.Status = outbox.StatusPending
		if row.event.RetryCount >= r.maxRetries {
			row.event.Status = outbox.StatusFailed
		}
	}
	return nil
}

func (r *Repository) ExtendLease(_ context.Context, relayID string, ids []int64, lease time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	until := r.now().Add(lease)
	for _, row := range r.find(ids) {
		if row.event.RelayID == relayID {
			row.leaseUntil = until
		}
	}
	return nil
}

func (r *Repository) find(ids []int64) []*outboxRow {
	want := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}
	var out []*outboxRow
	for _, row := range r.rows {
		if _, ok := want[row.event.ID]; ok {
			out = append(out, row)
		}
	}
	return out
}
