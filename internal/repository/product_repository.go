package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/samber/lo"

	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/port"
)

type productRepository struct {
	pool *pgxpool.Pool
}

func NewProduct(pool *pgxpool.Pool) port.ProductStore {
	return &productRepository{pool: pool}
}

func (r *productRepository) Lookup(ctx context.Context, productID uuid.UUID) (domain.Product, error) {
	var (
		p                          domain.Product
		priceAmount, priceCurrency string
	)

	err := r.pool.QueryRow(ctx,
		`SELECT id, name, price_amount::text, price_currency, image, count_in_stock
		 FROM products WHERE id = $1`,
		productID).Scan(&p.ID, &p.Name, &priceAmount, &priceCurrency, &p.Image, &p.CountInStock)
	if errors.Is(err, pgx.ErrNoRows) {
		return p, domain.NotFoundError{Entity: "product", Key: productID.String()}
	}
	if err != nil {
		return p, fmt.Errorf("select products: %w", err)
	}

	p.Price, err = parseMoney(priceAmount, priceCurrency)
	if err != nil {
		return p, fmt.Errorf("parseMoney: %w", err)
	}

	return p, nil
}

func (r *productRepository) CreateProduct(ctx context.Context, product domain.Product) error {
	if _, err := r.pool.Exec(ctx,
		`INSERT INTO products (id, name, price_amount, price_currency, image, count_in_stock)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		product.ID, product.Name, moneyAmount(product.Price), moneyCurrency(product.Price),
		product.Image, product.CountInStock); err != nil {
		return fmt.Errorf("insert products: %w", err)
	}

	return nil
}

func (r *productRepository) StockLevel(ctx context.Context, productID uuid.UUID) (int32, error) {
	var count int32

	err := r.pool.QueryRow(ctx,
		`SELECT count_in_stock FROM products WHERE id = $1`, productID).Scan(&count)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, domain.NotFoundError{Entity: "product", Key: productID.String()}
	}
	if err != nil {
		return 0, fmt.Errorf("select products: %w", err)
	}

	return count, nil
}

// Reserve checks and decrements the whole batch as one atomic unit. The rows
// are locked in sorted product-ID order so two checkouts contending for an
// overlapping product set cannot deadlock, and the check happens under the
// lock so no concurrent decrement can slip between check and write.
func (r *productRepository) Reserve(ctx context.Context, lines []domain.StockLine) error {
	requested, ids := mergeStockLines(lines)
	if len(ids) == 0 {
		return nil
	}

	_, err := withTx(ctx, r.pool, func(tx pgx.Tx) (struct{}, error) {
		available, err := lockStock(ctx, tx, ids)
		if err != nil {
			return struct{}{}, fmt.Errorf("lockStock: %w", err)
		}

		var shortfalls []domain.StockShortfall
		for _, id := range ids {
			if available[id] < requested[id] {
				shortfalls = append(shortfalls, domain.StockShortfall{
					ProductID: id,
					Requested: requested[id],
					Available: available[id],
				})
			}
		}
		if len(shortfalls) > 0 {
			return struct{}{}, domain.InsufficientStockError{Shortfalls: shortfalls}
		}

		if err := adjustStock(ctx, tx, ids, requested, -1); err != nil {
			return struct{}{}, fmt.Errorf("adjustStock: %w", err)
		}

		return struct{}{}, nil
	})

	return stateConflict(err, "stock", fmt.Sprintf("%d products", len(ids)))
}

// Restore is the compensating increment; it tolerates products that have
// disappeared since the reservation.
func (r *productRepository) Restore(ctx context.Context, lines []domain.StockLine) error {
	restored, ids := mergeStockLines(lines)
	if len(ids) == 0 {
		return nil
	}

	_, err := withTx(ctx, r.pool, func(tx pgx.Tx) (struct{}, error) {
		if _, err := lockStock(ctx, tx, ids); err != nil {
			return struct{}{}, fmt.Errorf("lockStock: %w", err)
		}

		if err := adjustStock(ctx, tx, ids, restored, 1); err != nil {
			return struct{}{}, fmt.Errorf("adjustStock: %w", err)
		}

		return struct{}{}, nil
	})

	return stateConflict(err, "stock", fmt.Sprintf("%d products", len(ids)))
}

// mergeStockLines sums duplicate product IDs and returns the canonical
// (sorted) lock acquisition order.
func mergeStockLines(lines []domain.StockLine) (map[uuid.UUID]int32, []uuid.UUID) {
	merged := make(map[uuid.UUID]int32, len(lines))
	for _, line := range lines {
		merged[line.ProductID] += line.Quantity
	}

	ids := lo.Keys(merged)
	sort.Slice(ids, func(i, j int) bool {
		return ids[i].String() < ids[j].String()
	})

	return merged, ids
}

// lockStock takes row locks in the given order and returns the stock level
// per product. A product absent from the result has no row, which the
// caller treats as zero availability.
func lockStock(ctx context.Context, tx pgx.Tx, ids []uuid.UUID) (map[uuid.UUID]int32, error) {
	rows, err := tx.Query(ctx,
		`SELECT id, count_in_stock FROM products WHERE id = ANY($1) ORDER BY id FOR UPDATE`,
		ids)
	if err != nil {
		return nil, fmt.Errorf("select for update: %w", err)
	}
	defer rows.Close()

	available := make(map[uuid.UUID]int32, len(ids))
	for rows.Next() {
		var (
			id    uuid.UUID
			count int32
		)
		if err := rows.Scan(&id, &count); err != nil {
			return nil, fmt.Errorf("rows.Scan: %w", err)
		}
		available[id] = count
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows.Err: %w", err)
	}

	return available, nil
}

func adjustStock(ctx context.Context, tx pgx.Tx, ids []uuid.UUID, quantities map[uuid.UUID]int32, sign int32) error {
	batch := &pgx.Batch{}
	for _, id := range ids {
		batch.Queue(
			`UPDATE products SET count_in_stock = count_in_stock + $2, updated_at = now() WHERE id = $1`,
			id, sign*quantities[id])
	}

	results := tx.SendBatch(ctx, batch)
	for range ids {
		if _, err := results.Exec(); err != nil {
			_ = results.Close()
			return fmt.Errorf("results.Exec: %w", err)
		}
	}

	return results.Close()
}
