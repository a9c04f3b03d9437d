package repository

import (
	"context"

	"github.com/Domenick1991/skybook/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type FlightRepository interface {
	List(ctx context.Context) ([]domain.Flight, error)
	GetByNumber(ctx context.Context, flightNumber string) (*domain.Flight, error)
}

type PGFlightRepository struct {
	db *pgxpool.Pool
}

func NewFlightRepository(db *pgxpool.Pool) FlightRepository {
	return &PGFlightRepository{db: db}
}

const flightColumns = `id, flight_number, airline, from_city, to_city, departure_time, arrival_time, duration, price, class, seats_available, status, delay_minutes`

func scanFlight(row pgx.Row) (*domain.Flight, error) {
	var f domain.Flight
	if err := row.Scan(&f.ID, &f.FlightNumber, &f.Airline, &f.From, &f.To, &f.Departure, &f.Arrival, &f.Duration, &f.Price, &f.Class, &f.SeatsAvailable, &f.Status, &f.DelayMinutes); err != nil {
		return nil, mapErr(err)
	}
	return &f, nil
}

func (r *PGFlightRepository) List(ctx context.Context) ([]domain.Flight, error) {
	rows, err := r.db.Query(ctx, `SELECT `+flightColumns+` FROM flights ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	flights := make([]domain.Flight, 0)
	for rows.Next() {
		f, err := scanFlight(rows)
		if err != nil {
			return nil, err
		}
		flights = append(flights, *f)
	}
	return flights, rows.Err()
}

func (r *PGFlightRepository) GetByNumber(ctx context.Context, flightNumber string) (*domain.Flight, error) {
	return scanFlight(r.db.QueryRow(ctx, `SELECT `+flightColumns+` FROM flights WHERE upper(flight_number)=upper($1)`, flightNumber))
}

var _ FlightRepository = (*PGFlightRepository)(nil)
