package repository

import (
	"context"

	"github.com/Domenick1991/skybook/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ContactRepository interface {
	Upsert(ctx context.Context, contact *domain.Contact) error
	GetByUser(ctx context.Context, userID string) (*domain.Contact, error)
}

type PGContactRepository struct {
	db *pgxpool.Pool
}

func NewContactRepository(db *pgxpool.Pool) ContactRepository {
	return &PGContactRepository{db: db}
}

func (r *PGContactRepository) Upsert(ctx context.Context, c *domain.Contact) error {
	return r.db.QueryRow(ctx, `INSERT INTO contacts (user_id, phone) VALUES ($1, $2)
		ON CONFLICT (user_id) DO UPDATE SET phone = EXCLUDED.phone
		RETURNING created_at`, c.UserID, c.Phone).Scan(&c.CreatedAt)
}

func (r *PGContactRepository) GetByUser(ctx context.Context, userID string) (*domain.Contact, error) {
	var c domain.Contact
	err := r.db.QueryRow(ctx, `SELECT user_id, phone, created_at FROM contacts WHERE user_id=$1`, userID).
		Scan(&c.UserID, &c.Phone, &c.CreatedAt)
	if err != nil {
		return nil, mapErr(err)
	}
	return &c, nil
}

var _ ContactRepository = (*PGContactRepository)(nil)
