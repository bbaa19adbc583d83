package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/port"
)

type orderRepository struct {
	pool *pgxpool.Pool
}

func NewOrder(pool *pgxpool.Pool) port.OrderRepository {
	return &orderRepository{pool: pool}
}

func (r *orderRepository) GetOrder(ctx context.Context, orderID uuid.UUID) (domain.Order, error) {
	order, err := withTx(ctx, r.pool, func(tx pgx.Tx) (domain.Order, error) {
		return readOrder(ctx, tx, orderID)
	})
	if err != nil {
		return domain.Order{}, fmt.Errorf("readOrder: %w", err)
	}

	return order, nil
}

func (r *orderRepository) ListOrders(ctx context.Context) ([]domain.Order, error) {
	return r.listOrders(ctx, `SELECT `+orderColumns+` FROM orders ORDER BY created_at DESC`)
}

func (r *orderRepository) ListOrdersByOwner(ctx context.Context, ownerID string) ([]domain.Order, error) {
	return r.listOrders(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE owner_id = $1 ORDER BY created_at DESC`,
		ownerID)
}

func (r *orderRepository) InsertOrder(ctx context.Context, order domain.Order) (uuid.UUID, error) {
	if len(order.Lines) == 0 {
		return uuid.Nil, domain.ValidationError{Field: "lines", Reason: "no items in order"}
	}

	address, err := json.Marshal(mapAddressToDB(order.Address))
	if err != nil {
		return uuid.Nil, fmt.Errorf("json.Marshal address: %w", err)
	}

	orderID, err := withTx(ctx, r.pool, func(tx pgx.Tx) (uuid.UUID, error) {
		var orderID uuid.UUID

		err := tx.QueryRow(ctx,
			`INSERT INTO orders (owner_id, amount, shipping_amount, currency, address, payment_method, paid,
			                     delivery_date, delivery_time_slot, status)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			 RETURNING id`,
			order.OwnerID, moneyAmount(order.Amount), moneyAmount(order.ShippingCharges),
			moneyCurrency(order.Amount), address, string(order.PaymentMethod), order.Paid,
			order.DeliveryDate, order.DeliveryTimeSlot, string(order.Status)).Scan(&orderID)
		if err != nil {
			return uuid.Nil, fmt.Errorf("insert orders: %w", err)
		}

		for position, line := range order.Lines {
			if _, err := tx.Exec(ctx,
				`INSERT INTO order_items (order_id, position, product_id, name, price_amount, price_currency, quantity, color, image)
				 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
				orderID, position, line.ProductID, line.Name,
				moneyAmount(line.Price), moneyCurrency(line.Price),
				line.Quantity, line.Color, line.Image); err != nil {
				return uuid.Nil, fmt.Errorf("insert order_items: %w", err)
			}
		}

		for _, change := range order.StatusHistory {
			if _, err := tx.Exec(ctx,
				`INSERT INTO order_status_history (order_id, status, created_at) VALUES ($1, $2, $3)`,
				orderID, string(change.Status), change.Timestamp); err != nil {
				return uuid.Nil, fmt.Errorf("insert order_status_history: %w", err)
			}
		}

		return orderID, nil
	})
	if err != nil {
		return uuid.Nil, fmt.Errorf("withTx: %w", err)
	}

	return orderID, nil
}

// UpdateOrderStatus holds the order's row lock across the check and the
// write, so a concurrent transition cannot produce a duplicate history entry.
// Setting the current status again is a no-op reported as changed=false.
func (r *orderRepository) UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, status domain.OrderStatus) (domain.Order, bool, error) {
	var changed bool

	order, err := withTx(ctx, r.pool, func(tx pgx.Tx) (domain.Order, error) {
		var current string

		err := tx.QueryRow(ctx,
			`SELECT status FROM orders WHERE id = $1 FOR UPDATE`, orderID).Scan(&current)
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Order{}, domain.NotFoundError{Entity: "order", Key: orderID.String()}
		}
		if err != nil {
			return domain.Order{}, fmt.Errorf("select for update: %w", err)
		}

		currentStatus, err := domain.ToOrderStatus(current)
		if err != nil {
			return domain.Order{}, fmt.Errorf("domain.ToOrderStatus[%s]: %w", current, err)
		}

		if currentStatus == status {
			return readOrder(ctx, tx, orderID)
		}

		if !domain.CanTransition(currentStatus, status) {
			return domain.Order{}, domain.ValidationError{
				Field:  "status",
				Reason: fmt.Sprintf("cannot transition from %q to %q", currentStatus, status),
			}
		}

		if _, err := tx.Exec(ctx,
			`UPDATE orders SET status = $2, updated_at = now() WHERE id = $1`,
			orderID, string(status)); err != nil {
			return domain.Order{}, fmt.Errorf("update orders: %w", err)
		}

		if _, err := tx.Exec(ctx,
			`INSERT INTO order_status_history (order_id, status) VALUES ($1, $2)`,
			orderID, string(status)); err != nil {
			return domain.Order{}, fmt.Errorf("insert order_status_history: %w", err)
		}

		changed = true
		return readOrder(ctx, tx, orderID)
	})
	if err != nil {
		return domain.Order{}, false, stateConflict(err, "order", orderID.String())
	}

	return order, changed, nil
}

const orderColumns = `id, owner_id, amount::text, shipping_amount::text, currency, address,
	payment_method, paid, delivery_date, delivery_time_slot, status, created_at, updated_at`

func (r *orderRepository) listOrders(ctx context.Context, query string, args ...any) ([]domain.Order, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select orders: %w", err)
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scanOrder: %w", err)
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows.Err: %w", err)
	}

	if err := r.attachLines(ctx, orders); err != nil {
		return nil, fmt.Errorf("attachLines: %w", err)
	}
	if err := r.attachHistory(ctx, orders); err != nil {
		return nil, fmt.Errorf("attachHistory: %w", err)
	}

	return orders, nil
}

func (r *orderRepository) attachLines(ctx context.Context, orders []domain.Order) error {
	if len(orders) == 0 {
		return nil
	}

	index := make(map[uuid.UUID]int, len(orders))
	ids := make([]uuid.UUID, 0, len(orders))
	for i, order := range orders {
		index[order.ID] = i
		ids = append(ids, order.ID)
	}

	rows, err := r.pool.Query(ctx,
		`SELECT order_id, product_id, name, price_amount::text, price_currency, quantity, color, image
		 FROM order_items WHERE order_id = ANY($1) ORDER BY order_id, position`,
		ids)
	if err != nil {
		return fmt.Errorf("select order_items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var orderID uuid.UUID

		line, err := scanOrderLine(rows, &orderID)
		if err != nil {
			return fmt.Errorf("scanOrderLine: %w", err)
		}

		i := index[orderID]
		orders[i].Lines = append(orders[i].Lines, line)
	}

	return rows.Err()
}

func (r *orderRepository) attachHistory(ctx context.Context, orders []domain.Order) error {
	if len(orders) == 0 {
		return nil
	}

	index := make(map[uuid.UUID]int, len(orders))
	ids := make([]uuid.UUID, 0, len(orders))
	for i, order := range orders {
		index[order.ID] = i
		ids = append(ids, order.ID)
	}

	rows, err := r.pool.Query(ctx,
		`SELECT order_id, status, created_at
		 FROM order_status_history WHERE order_id = ANY($1) ORDER BY order_id, id`,
		ids)
	if err != nil {
		return fmt.Errorf("select order_status_history: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			orderID uuid.UUID
			status  string
			change  domain.StatusChange
		)
		if err := rows.Scan(&orderID, &status, &change.Timestamp); err != nil {
			return fmt.Errorf("rows.Scan: %w", err)
		}

		change.Status, err = domain.ToOrderStatus(status)
		if err != nil {
			return fmt.Errorf("domain.ToOrderStatus[%s]: %w", status, err)
		}

		i := index[orderID]
		orders[i].StatusHistory = append(orders[i].StatusHistory, change)
	}

	return rows.Err()
}

func readOrder(ctx context.Context, q dbtx, orderID uuid.UUID) (domain.Order, error) {
	row := q.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, orderID)

	order, err := scanOrder(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Order{}, domain.NotFoundError{Entity: "order", Key: orderID.String()}
	}
	if err != nil {
		return domain.Order{}, fmt.Errorf("scanOrder: %w", err)
	}

	rows, err := q.Query(ctx,
		`SELECT order_id, product_id, name, price_amount::text, price_currency, quantity, color, image
		 FROM order_items WHERE order_id = $1 ORDER BY position`,
		orderID)
	if err != nil {
		return domain.Order{}, fmt.Errorf("select order_items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id uuid.UUID

		line, err := scanOrderLine(rows, &id)
		if err != nil {
			return domain.Order{}, fmt.Errorf("scanOrderLine: %w", err)
		}

		order.Lines = append(order.Lines, line)
	}
	if err := rows.Err(); err != nil {
		return domain.Order{}, fmt.Errorf("rows.Err: %w", err)
	}

	historyRows, err := q.Query(ctx,
		`SELECT status, created_at FROM order_status_history WHERE order_id = $1 ORDER BY id`,
		orderID)
	if err != nil {
		return domain.Order{}, fmt.Errorf("select order_status_history: %w", err)
	}
	defer historyRows.Close()

	for historyRows.Next() {
		var (
			status string
			change domain.StatusChange
		)
		if err := historyRows.Scan(&status, &change.Timestamp); err != nil {
			return domain.Order{}, fmt.Errorf("historyRows.Scan: %w", err)
		}

		change.Status, err = domain.ToOrderStatus(status)
		if err != nil {
			return domain.Order{}, fmt.Errorf("domain.ToOrderStatus[%s]: %w", status, err)
		}

		order.StatusHistory = append(order.StatusHistory, change)
	}

	return order, historyRows.Err()
}

func scanOrder(row pgx.Row) (domain.Order, error) {
	var o domain.Order
	var amount, shipping, currencyCode, paymentMethod, status string
	var address []byte

	if err := row.Scan(&o.ID, &o.OwnerID, &amount, &shipping, &currencyCode, &address,
		&paymentMethod, &o.Paid, &o.DeliveryDate, &o.DeliveryTimeSlot, &status,
		&o.CreatedAt, &o.UpdatedAt); err != nil {
		return o, err
	}

	var err error

	o.Amount, err = parseMoney(amount, currencyCode)
	if err != nil {
		return o, fmt.Errorf("parseMoney amount: %w", err)
	}

	o.ShippingCharges, err = parseMoney(shipping, currencyCode)
	if err != nil {
		return o, fmt.Errorf("parseMoney shipping: %w", err)
	}

	var dbAddr dbAddress
	if err := json.Unmarshal(address, &dbAddr); err != nil {
		return o, fmt.Errorf("json.Unmarshal address: %w", err)
	}
	o.Address = mapDBAddressToDomain(dbAddr)

	o.PaymentMethod = domain.PaymentMethod(paymentMethod)

	o.Status, err = domain.ToOrderStatus(status)
	if err != nil {
		return o, fmt.Errorf("domain.ToOrderStatus[%s]: %w", status, err)
	}

	return o, nil
}

func scanOrderLine(rows pgx.Rows, orderID *uuid.UUID) (domain.OrderLine, error) {
	var (
		line                       domain.OrderLine
		priceAmount, priceCurrency string
	)

	if err := rows.Scan(orderID, &line.ProductID, &line.Name, &priceAmount, &priceCurrency,
		&line.Quantity, &line.Color, &line.Image); err != nil {
		return line, fmt.Errorf("rows.Scan: %w", err)
	}

	price, err := parseMoney(priceAmount, priceCurrency)
	if err != nil {
		return line, fmt.Errorf("parseMoney: %w", err)
	}
	line.Price = price

	return line, nil
}

type dbAddress struct {
	FullName   string `json:"full_name"`
	Line1      string `json:"line1"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
	Phone      string `json:"phone,omitempty"`
}

func mapAddressToDB(a domain.Address) dbAddress {
	return dbAddress(a)
}

func mapDBAddressToDomain(a dbAddress) domain.Address {
	return domain.Address(a)
}
