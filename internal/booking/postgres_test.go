package booking

import (
	"context"
	"testing"
	"time"

	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brightbroom/booking-platform/internal/pricing"
	"github.com/brightbroom/booking-platform/internal/session"
)

func testRecord() Record {
	draft := session.Draft{
		Service:     pricing.ServiceDeep,
		Price:       260,
		ServiceDate: time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC),
		SlotStart:   time.Date(2026, 3, 3, 9, 0, 0, 0, time.UTC),
		SlotLabel:   "9:00 AM",
		Address:     "12 Creekside Ln, Greenville, SC 29601",
		Name:        "Jordan Miles",
	}
	draft.EstimateFromBedrooms(3)
	return Promote("15551234567", draft, time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC))
}

func TestPostgresStoreCreate(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	rec := testRecord()
	mock.ExpectExec("INSERT INTO bookings").
		WithArgs(rec.ID, rec.Confirmation, rec.Phone, string(rec.Service),
			rec.Bedrooms, rec.Bathrooms, rec.SquareFeet, rec.Price,
			rec.ServiceDate, rec.SlotStart, rec.SlotLabel, rec.Address,
			rec.Name, rec.Status, rec.CreatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	store := newPostgresStoreWithExec(mock)
	confirmation, err := store.Create(context.Background(), rec)
	require.NoError(t, err)
	assert.Equal(t, rec.Confirmation, confirmation)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStoreLatestByPhone(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	rec := testRecord()
	rows := pgxmock.NewRows([]string{
		"id", "confirmation", "phone", "service", "bedrooms", "bathrooms",
		"square_feet", "price", "service_date", "slot_start", "slot_label",
		"address", "customer_name", "status", "created_at",
	}).AddRow(rec.ID, rec.Confirmation, rec.Phone, string(rec.Service),
		rec.Bedrooms, rec.Bathrooms, rec.SquareFeet, rec.Price,
		rec.ServiceDate, rec.SlotStart, rec.SlotLabel, rec.Address,
		rec.Name, rec.Status, rec.CreatedAt)

	mock.ExpectQuery("SELECT (.+) FROM bookings").
		WithArgs(rec.Phone).
		WillReturnRows(rows)

	store := newPostgresStoreWithExec(mock)
	got, err := store.LatestByPhone(context.Background(), rec.Phone)
	require.NoError(t, err)
	assert.Equal(t, rec.Confirmation, got.Confirmation)
	assert.Equal(t, pricing.ServiceDeep, got.Service)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStoreLatestByPhoneNotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("SELECT (.+) FROM bookings").
		WithArgs("10000000000").
		WillReturnRows(pgxmock.NewRows([]string{"id"}))

	store := newPostgresStoreWithExec(mock)
	_, err = store.LatestByPhone(context.Background(), "10000000000")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPostgresStoreCancelByConfirmation(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec("UPDATE bookings").
		WithArgs("15551234567", "BB-AB12CD").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	store := newPostgresStoreWithExec(mock)
	ok, err := store.CancelByConfirmation(context.Background(), "15551234567", " bb-ab12cd ")
	require.NoError(t, err)
	assert.True(t, ok)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStoreCancelNoMatch(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec("UPDATE bookings").
		WithArgs("15551234567", "BB-FFFFFF").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	store := newPostgresStoreWithExec(mock)
	ok, err := store.CancelByConfirmation(context.Background(), "15551234567", "BB-FFFFFF")
	require.NoError(t, err)
	assert.False(t, ok)
}
