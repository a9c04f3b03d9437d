package repository

import (
	"context"

	"github.com/Domenick1991/skybook/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

// UserRepository records every identity that called an authenticated endpoint.
type UserRepository interface {
	Touch(ctx context.Context, id domain.Identity) error
	Count(ctx context.Context) (int, error)
}

type PGUserRepository struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) UserRepository {
	return &PGUserRepository{db: db}
}

func (r *PGUserRepository) Touch(ctx context.Context, id domain.Identity) error {
	_, err := r.db.Exec(ctx, `INSERT INTO users (id, email, name) VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET email = EXCLUDED.email, name = EXCLUDED.name, last_seen = now()`,
		id.ID, id.Email, id.DisplayName)
	return err
}

func (r *PGUserRepository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `SELECT count(*) FROM users`).Scan(&n)
	return n, err
}

var _ UserRepository = (*PGUserRepository)(nil)
