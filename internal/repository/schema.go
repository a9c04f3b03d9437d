package repository

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/Domenick1991/skybook/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed schema.sql
var schema string

// Migrate creates the tables if they are missing and inserts seed flights
// that are not present yet.
func Migrate(ctx context.Context, db *pgxpool.Pool, seed []domain.Flight) error {
	if _, err := db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}

	batch := &pgx.Batch{}
	for _, f := range seed {
		batch.Queue(`INSERT INTO flights (id, flight_number, airline, from_city, to_city, departure_time, arrival_time, duration, price, class, seats_available, status, delay_minutes)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
			ON CONFLICT (flight_number) DO NOTHING`,
			f.ID, f.FlightNumber, f.Airline, f.From, f.To, f.Departure, f.Arrival, f.Duration, f.Price, f.Class, f.SeatsAvailable, f.Status, f.DelayMinutes)
	}
	if batch.Len() == 0 {
		return nil
	}
	if err := db.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("seed flights: %w", err)
	}
	return nil
}
