package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/port"
)

type cartRepository struct {
	pool *pgxpool.Pool
}

func NewCart(pool *pgxpool.Pool) port.CartRepository {
	return &cartRepository{pool: pool}
}

func (r *cartRepository) GetCart(ctx context.Context, ownerID string) (domain.Cart, error) {
	cart, err := readCart(ctx, r.pool, ownerID)
	if err != nil {
		return domain.Cart{}, fmt.Errorf("readCart: %w", err)
	}

	return cart, nil
}

// UpdateCart serializes mutations per owner: the owner's carts row is locked
// FOR UPDATE for the duration of the mutation, so two concurrent mutations
// for the same owner cannot interleave while different owners proceed in
// parallel. The cart returned by mutate replaces the stored line set.
func (r *cartRepository) UpdateCart(ctx context.Context, ownerID string, mutate func(domain.Cart) (domain.Cart, error)) (domain.Cart, error) {
	cart, err := withTx(ctx, r.pool, func(tx pgx.Tx) (domain.Cart, error) {
		if err := lockCart(ctx, tx, ownerID); err != nil {
			return domain.Cart{}, fmt.Errorf("lockCart: %w", err)
		}

		current, err := readCart(ctx, tx, ownerID)
		if err != nil {
			return domain.Cart{}, fmt.Errorf("readCart: %w", err)
		}

		updated, err := mutate(current)
		if err != nil {
			return domain.Cart{}, err
		}
		updated.OwnerID = ownerID

		if err := replaceCart(ctx, tx, updated); err != nil {
			return domain.Cart{}, fmt.Errorf("replaceCart: %w", err)
		}

		return updated, nil
	})
	if err != nil {
		return domain.Cart{}, stateConflict(err, "cart", ownerID)
	}

	return cart, nil
}

func (r *cartRepository) ClearCart(ctx context.Context, ownerID string) error {
	_, err := withTx(ctx, r.pool, func(tx pgx.Tx) (struct{}, error) {
		if err := lockCart(ctx, tx, ownerID); err != nil {
			return struct{}{}, fmt.Errorf("lockCart: %w", err)
		}

		if err := replaceCart(ctx, tx, domain.Cart{OwnerID: ownerID}); err != nil {
			return struct{}{}, fmt.Errorf("replaceCart: %w", err)
		}

		return struct{}{}, nil
	})
	if err != nil {
		return stateConflict(err, "cart", ownerID)
	}

	return nil
}

// lockCart creates the owner's carts row if missing and takes its row lock.
func lockCart(ctx context.Context, tx pgx.Tx, ownerID string) error {
	if _, err := tx.Exec(ctx,
		`INSERT INTO carts (owner_id) VALUES ($1) ON CONFLICT (owner_id) DO NOTHING`,
		ownerID); err != nil {
		return fmt.Errorf("insert carts: %w", err)
	}

	var one int
	if err := tx.QueryRow(ctx,
		`SELECT 1 FROM carts WHERE owner_id = $1 FOR UPDATE`,
		ownerID).Scan(&one); err != nil {
		return fmt.Errorf("select for update: %w", err)
	}

	return nil
}

// readCart returns an empty cart, not an error, for an owner without one yet.
func readCart(ctx context.Context, q dbtx, ownerID string) (domain.Cart, error) {
	cart := domain.Cart{OwnerID: ownerID}

	var billAmount, billCurrency string
	err := q.QueryRow(ctx,
		`SELECT bill_amount::text, bill_currency FROM carts WHERE owner_id = $1`,
		ownerID).Scan(&billAmount, &billCurrency)
	if errors.Is(err, pgx.ErrNoRows) {
		return cart, nil
	}
	if err != nil {
		return cart, fmt.Errorf("select carts: %w", err)
	}

	cart.Bill, err = parseMoney(billAmount, billCurrency)
	if err != nil {
		return cart, fmt.Errorf("parseMoney: %w", err)
	}

	rows, err := q.Query(ctx,
		`SELECT product_id, name, price_amount::text, price_currency, quantity, color, image
		 FROM cart_items
		 WHERE owner_id = $1
		 ORDER BY product_id, color`,
		ownerID)
	if err != nil {
		return cart, fmt.Errorf("select cart_items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var line domain.CartLine
		var priceAmount, priceCurrency string

		if err := rows.Scan(&line.ProductID, &line.Name, &priceAmount, &priceCurrency,
			&line.Quantity, &line.Color, &line.Image); err != nil {
			return cart, fmt.Errorf("rows.Scan: %w", err)
		}

		line.Price, err = parseMoney(priceAmount, priceCurrency)
		if err != nil {
			return cart, fmt.Errorf("parseMoney: %w", err)
		}

		cart.Lines = append(cart.Lines, line)
	}

	if err := rows.Err(); err != nil {
		return cart, fmt.Errorf("rows.Err: %w", err)
	}

	return cart, nil
}

func replaceCart(ctx context.Context, tx pgx.Tx, cart domain.Cart) error {
	if _, err := tx.Exec(ctx,
		`DELETE FROM cart_items WHERE owner_id = $1`, cart.OwnerID); err != nil {
		return fmt.Errorf("delete cart_items: %w", err)
	}

	for _, line := range cart.Lines {
		if _, err := tx.Exec(ctx,
			`INSERT INTO cart_items (owner_id, product_id, color, name, price_amount, price_currency, quantity, image)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			cart.OwnerID, line.ProductID, line.Color, line.Name,
			moneyAmount(line.Price), moneyCurrency(line.Price), line.Quantity, line.Image); err != nil {
			return fmt.Errorf("insert cart_items: %w", err)
		}
	}

	if _, err := tx.Exec(ctx,
		`UPDATE carts SET bill_amount = $2, bill_currency = $3, updated_at = now() WHERE owner_id = $1`,
		cart.OwnerID, moneyAmount(cart.Bill), moneyCurrency(cart.Bill)); err != nil {
		return fmt.Errorf("update carts: %w", err)
	}

	return nil
}
