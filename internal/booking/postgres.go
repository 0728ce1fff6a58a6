package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/brightbroom/booking-platform/internal/pricing"
)

type rowQuerier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresStore persists bookings to PostgreSQL.
type PostgresStore struct {
	pool rowQuerier
}

// NewPostgresStore creates a store backed by a pgx pool.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	if pool == nil {
		panic("booking: pgx pool required")
	}
	return &PostgresStore{pool: pool}
}

func newPostgresStoreWithExec(exec rowQuerier) *PostgresStore {
	if exec == nil {
		panic("booking: exec required")
	}
	return &PostgresStore{pool: exec}
}

var _ Sink = (*PostgresStore)(nil)
var _ Lookup = (*PostgresStore)(nil)

// Create inserts a confirmed booking row and returns the confirmation code.
func (s *PostgresStore) Create(ctx context.Context, rec Record) (string, error) {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO bookings (
			id, confirmation, phone, service, bedrooms, bathrooms,
			square_feet, price, service_date, slot_start, slot_label,
			address, customer_name, status, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`, rec.ID, rec.Confirmation, rec.Phone, string(rec.Service), rec.Bedrooms,
		rec.Bathrooms, rec.SquareFeet, rec.Price, rec.ServiceDate, rec.SlotStart,
		rec.SlotLabel, rec.Address, rec.Name, rec.Status, rec.CreatedAt)
	if err != nil {
		return "", fmt.Errorf("booking: insert: %w", err)
	}
	return rec.Confirmation, nil
}

// LatestByPhone returns the caller's most recent booking.
func (s *PostgresStore) LatestByPhone(ctx context.Context, phone string) (*Record, error) {
	var rec Record
	var service string
	err := s.pool.QueryRow(ctx, `
		SELECT id, confirmation, phone, service, bedrooms, bathrooms,
		       square_feet, price, service_date, slot_start, slot_label,
		       address, customer_name, status, created_at
		FROM bookings
		WHERE phone = $1
		ORDER BY created_at DESC
		LIMIT 1
	`, phone).Scan(
		&rec.ID, &rec.Confirmation, &rec.Phone, &service, &rec.Bedrooms,
		&rec.Bathrooms, &rec.SquareFeet, &rec.Price, &rec.ServiceDate,
		&rec.SlotStart, &rec.SlotLabel, &rec.Address, &rec.Name,
		&rec.Status, &rec.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("booking: latest by phone: %w", err)
	}
	rec.Service = pricing.ServiceType(service)
	return &rec, nil
}

// CancelByConfirmation cancels a confirmed booking matching phone and code.
func (s *PostgresStore) CancelByConfirmation(ctx context.Context, phone, code string) (bool, error) {
	ct, err := s.pool.Exec(ctx, `
		UPDATE bookings
		SET status = 'cancelled'
		WHERE phone = $1 AND confirmation = $2 AND status = 'confirmed'
	`, phone, strings.ToUpper(strings.TrimSpace(code)))
	if err != nil {
		return false, fmt.Errorf("booking: cancel by confirmation: %w", err)
	}
	return ct.RowsAffected() > 0, nil
}
