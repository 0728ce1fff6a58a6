package booking

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/brightbroom/booking-platform/internal/pricing"
	"github.com/brightbroom/booking-platform/internal/session"
)

// Statuses a booking row can take.
const (
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
)

// ErrNotFound indicates no booking matched the lookup.
var ErrNotFound = errors.New("booking: not found")

// Record is an immutable finalized booking handed to the system of record.
type Record struct {
	ID           uuid.UUID
	Confirmation string
	Phone        string

	Service    pricing.ServiceType
	Bedrooms   int
	Bathrooms  int
	SquareFeet int
	Price      int

	ServiceDate time.Time
	SlotStart   time.Time
	SlotLabel   string

	Address string
	Name    string

	Status    string
	CreatedAt time.Time
}

// Promote turns a completed session draft into a booking record with a
// generated identifier and confirmation code.
func Promote(phone string, d session.Draft, now time.Time) Record {
	id := uuid.New()
	return Record{
		ID:           id,
		Confirmation: confirmationCode(id),
		Phone:        phone,
		Service:      d.Service,
		Bedrooms:     d.Bedrooms,
		Bathrooms:    d.Bathrooms,
		SquareFeet:   d.SquareFeet,
		Price:        d.Price,
		ServiceDate:  d.ServiceDate,
		SlotStart:    d.SlotStart,
		SlotLabel:    d.SlotLabel,
		Address:      d.Address,
		Name:         d.Name,
		Status:       StatusConfirmed,
		CreatedAt:    now,
	}
}

// confirmationCode derives the short code customers quote on the phone.
func confirmationCode(id uuid.UUID) string {
	return fmt.Sprintf("BB-%s", strings.ToUpper(hex.EncodeToString(id[:3])))
}

// Sink is the external system of record that persists a finalized booking.
// Create returns the confirmation code the customer should keep.
type Sink interface {
	Create(ctx context.Context, rec Record) (string, error)
}

// Lookup answers STATUS and CANCEL <code> keyword queries against the
// system of record.
type Lookup interface {
	// LatestByPhone returns the most recent booking for a caller, or
	// ErrNotFound.
	LatestByPhone(ctx context.Context, phone string) (*Record, error)
	// CancelByConfirmation cancels a confirmed booking owned by phone.
	// It reports false when no matching confirmed booking exists.
	CancelByConfirmation(ctx context.Context, phone, code string) (bool, error)
}
