package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/dmehra2102/pizzeria-ordering/internal/order/domain"
	"github.com/dmehra2102/pizzeria-ordering/pkg/outbox"
)

const aggregateType = "order"

type Repository struct {
	log  *slog.Logger
	pool *pgxpool.Pool
}

func NewRepository(log *slog.Logger, pool *pgxpool.Pool) *Repository {
	return &Repository{log: log, pool: pool}
}

// SaveWithOutbox numbers the order from order_number_seq and stores it
// together with its OrderCreated event.
func (r *Repository) SaveWithOutbox(ctx context.Context, o domain.Order, traceparent string) (domain.Order, error) {
	items, err := json.Marshal(o.Items)
	if err != nil {
		return domain.Order{}, fmt.Errorf("encode items: %w", err)
	}

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return domain.Order{}, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	var id int64
	err = tx.QueryRow(ctx, `
		INSERT INTO orders (id, customer_name, customer_address, customer_phone, payment_method, total, status, items, created_at, updated_at)
		VALUES (nextval('order_number_seq'), $1, $2, $3, $4, $5::numeric, $6, $7, $8, $9)
		RETURNING id`,
		o.Customer.Name, o.Customer.Address, o.Customer.Phone, o.PaymentMethod,
		o.Total.String(), string(o.Status), items, o.CreatedAt, o.UpdatedAt).Scan(&id)
	if err != nil {
		return domain.Order{}, err
	}
	o.ID = strconv.FormatInt(id, 10)

	if err := insertEvent(ctx, tx, o.ID, domain.EventOrderCreated, domain.NewOrderCreated(o), traceparent); err != nil {
		return domain.Order{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return domain.Order{}, err
	}
	return o, nil
}

const selectOrder = `SELECT id, customer_name, customer_address, customer_phone, payment_method, total::text, status, items, created_at, updated_at FROM orders`

func (r *Repository) Get(ctx context.Context, id string) (domain.Order, error) {
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return domain.Order{}, domain.ErrOrderNotFound
	}
	o, err := scanOrder(r.pool.QueryRow(ctx, selectOrder+` WHERE id = $1`, n))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Order{}, domain.ErrOrderNotFound
	}
	return o, err
}

// List returns every order, most recent first.
func (r *Repository) List(ctx context.Context) ([]domain.Order, error) {
	rows, err := r.pool.Query(ctx, selectOrder+` ORDER BY id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

func (r *Repository) UpdateStatusIf(ctx context.Context, id string, from, to domain.OrderStatus, at time.Time, traceparent string) (bool, error) {
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return false, domain.ErrOrderNotFound
	}

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return false, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	ct, err := tx.Exec(ctx, `UPDATE orders SET status = $3, updated_at = $4 WHERE id = $1 AND status = $2`,
		n, string(from), string(to), at)
	if err != nil {
		return false, err
	}
	if ct.RowsAffected() == 0 {
		var exists bool
		if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM orders WHERE id = $1)`, n).Scan(&exists); err != nil {
			return false, err
		}
		if !exists {
			return false, domain.ErrOrderNotFound
		}
		return false, nil
	}

	ev := domain.OrderStatusChanged{OrderID: id, From: from, To: to, ChangedAt: at}
	if err := insertEvent(ctx, tx, id, domain.EventOrderStatusChanged, ev, traceparent); err != nil {
		return false, err
	}
	if err := tx.Commit(ctx); err != nil {
		return false, err
	}
	return true, nil
}

func insertEvent(ctx context.Context, tx pgx.Tx, orderID, eventType string, payload any, traceparent string) error {
	ev, err := outbox.NewEvent(aggregateType, orderID, eventType, payload, traceparent)
	if err != nil {
		return err
	}
	_, err = tx.Exec(ctx, `INSERT INTO outbox (aggregate_type, aggregate_id, type, payload, headers, traceparent, status) VALUES ($1,$2,$3,$4,$5,$6,'pending')`,
		ev.AggregateType, ev.AggregateID, ev.Type, ev.Payload, ev.Headers, ev.Traceparent)
	return err
}

func scanOrder(row pgx.Row) (domain.Order, error) {
	var (
		o      domain.Order
		id     int64
		total  string
		status string
		items  []byte
	)
	err := row.Scan(&id, &o.Customer.Name, &o.Customer.Address, &o.Customer.Phone, &o.PaymentMethod,
		&total, &status, &items, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return domain.Order{}, err
	}
	o.ID = strconv.FormatInt(id, 10)
	o.Status = domain.OrderStatus(status)
	if o.Total, err = decimal.NewFromString(total); err != nil {
		return domain.Order{}, fmt.Errorf("order %s total: %w", o.ID, err)
	}
	if err := json.Unmarshal(items, &o.Items); err != nil {
		return domain.Order{}, fmt.Errorf("order %s items: %w", o.ID, err)
	}
	return o, nil
}
