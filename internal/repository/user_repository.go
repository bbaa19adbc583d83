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

type userRepository struct {
	pool *pgxpool.Pool
}

func NewUser(pool *pgxpool.Pool) port.UserStore {
	return &userRepository{pool: pool}
}

func (r *userRepository) FindByID(ctx context.Context, userID string) (domain.User, error) {
	var u domain.User

	err := r.pool.QueryRow(ctx,
		`SELECT id, email, first_name, last_name FROM users WHERE id = $1`,
		userID).Scan(&u.ID, &u.Email, &u.FirstName, &u.LastName)
	if errors.Is(err, pgx.ErrNoRows) {
		return u, domain.NotFoundError{Entity: "user", Key: userID}
	}
	if err != nil {
		return u, fmt.Errorf("select users: %w", err)
	}

	return u, nil
}

func (r *userRepository) CreateUser(ctx context.Context, user domain.User) error {
	if _, err := r.pool.Exec(ctx,
		`INSERT INTO users (id, email, first_name, last_name) VALUES ($1, $2, $3, $4)`,
		user.ID, user.Email, user.FirstName, user.LastName); err != nil {
		return fmt.Errorf("insert users: %w", err)
	}

	return nil
}
