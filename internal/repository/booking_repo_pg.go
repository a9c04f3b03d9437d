package repository

import (
	"context"

	"github.com/Domenick1991/skybook/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type BookingRepository interface {
	// Create reserves the seats on the flight and stores the booking in one step.
	Create(ctx context.Context, booking *domain.Booking) error
	ListByUser(ctx context.Context, userID string) ([]domain.Booking, error)
	Totals(ctx context.Context) (BookingTotals, error)
}

// BookingTotals aggregates every stored booking for the admin dashboard.
type BookingTotals struct {
	Count        int
	Revenue      int64
	ActiveAlerts int
}

type PGBookingRepository struct {
	db *pgxpool.Pool
}

func NewBookingRepository(db *pgxpool.Pool) BookingRepository {
	return &PGBookingRepository{db: db}
}

func (r *PGBookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `UPDATE flights SET seats_available = seats_available - $2, updated_at = now() WHERE id=$1 AND seats_available >= $2`, b.FlightID, b.Passengers)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNoSeats
	}

	if _, err := tx.Exec(ctx, `INSERT INTO bookings (id, user_id, flight_id, flight_number, from_city, to_city, booking_date, passengers, total_amount, status, pnr, email, phone, alerts_enabled)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		b.ID, b.UserID, b.FlightID, b.FlightNumber, b.From, b.To, b.BookingDate, b.Passengers, b.TotalAmount, b.Status, b.PNR, b.Email, b.Phone, b.AlertsEnabled); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *PGBookingRepository) ListByUser(ctx context.Context, userID string) ([]domain.Booking, error) {
	rows, err := r.db.Query(ctx, `SELECT id, user_id, flight_id, flight_number, from_city, to_city, booking_date, passengers, total_amount, status, pnr, email, phone, alerts_enabled
		FROM bookings WHERE user_id=$1 ORDER BY created_at`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bookings := make([]domain.Booking, 0)
	for rows.Next() {
		var b domain.Booking
		if err := rows.Scan(&b.ID, &b.UserID, &b.FlightID, &b.FlightNumber, &b.From, &b.To, &b.BookingDate, &b.Passengers, &b.TotalAmount, &b.Status, &b.PNR, &b.Email, &b.Phone, &b.AlertsEnabled); err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

func (r *PGBookingRepository) Totals(ctx context.Context) (BookingTotals, error) {
	var t BookingTotals
	err := r.db.QueryRow(ctx, `SELECT count(*), COALESCE(sum(total_amount), 0), count(*) FILTER (WHERE alerts_enabled)
		FROM bookings`).Scan(&t.Count, &t.Revenue, &t.ActiveAlerts)
	return t, err
}

var _ BookingRepository = (*PGBookingRepository)(nil)
