package booking

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/brightbroom/booking-platform/pkg/logging"
)

var bookingTracer = otel.Tracer("brightbroom.internal.booking")

// Service wraps a Sink with a call timeout, tracing, and logging. The dialog
// engine treats a timeout the same as any other sink failure.
type Service struct {
	sink    Sink
	timeout time.Duration
	logger  *logging.Logger
}

// NewService constructs a booking service around the given sink.
func NewService(sink Sink, timeout time.Duration, logger *logging.Logger) *Service {
	if sink == nil {
		panic("booking: sink required")
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{sink: sink, timeout: timeout, logger: logger}
}

var _ Sink = (*Service)(nil)

// Create persists the booking under the configured timeout and returns its
// confirmation code.
func (s *Service) Create(ctx context.Context, rec Record) (string, error) {
	ctx, span := bookingTracer.Start(ctx, "booking.create")
	defer span.End()
	span.SetAttributes(
		attribute.String("brightbroom.booking_id", rec.ID.String()),
		attribute.String("brightbroom.service", string(rec.Service)),
		attribute.Int("brightbroom.price", rec.Price),
	)

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	confirmation, err := s.sink.Create(ctx, rec)
	if err != nil {
		span.RecordError(err)
		return "", fmt.Errorf("booking: create: %w", err)
	}

	s.logger.Info("booking created",
		"confirmation", confirmation,
		"service", rec.Service,
		"price", rec.Price,
		"service_date", rec.ServiceDate.Format("2006-01-02"),
	)
	return confirmation, nil
}
