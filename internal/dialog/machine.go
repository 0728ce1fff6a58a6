package dialog

import (
	"context"
	"strings"
	"time"

	"github.com/brightbroom/booking-platform/internal/availability"
	"github.com/brightbroom/booking-platform/internal/booking"
	"github.com/brightbroom/booking-platform/internal/pricing"
	"github.com/brightbroom/booking-platform/internal/session"
	"github.com/brightbroom/booking-platform/pkg/logging"
)

// Result is the outcome of advancing a session by one inbound message.
type Result struct {
	Reply string
	// EndSession tells the orchestrator to delete the session instead of
	// writing it back.
	EndSession bool
	Booked     bool
	SinkFailed bool
}

// Machine advances a booking conversation one valid input at a time. Invalid
// input re-emits the current step's prompt and leaves the session untouched.
type Machine struct {
	availability  availability.Lookup
	sink          booking.Sink
	businessPhone string
	logger        *logging.Logger
	now           func() time.Time
}

// NewMachine wires the conversation state machine to its collaborators.
func NewMachine(avail availability.Lookup, sink booking.Sink, businessPhone string, logger *logging.Logger) *Machine {
	if avail == nil {
		panic("dialog: availability lookup required")
	}
	if sink == nil {
		panic("dialog: booking sink required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Machine{
		availability:  avail,
		sink:          sink,
		businessPhone: businessPhone,
		logger:        logger,
		now:           time.Now,
	}
}

// Advance processes one inbound message against the session's current state.
// The session is mutated in place; the orchestrator persists or deletes it
// according to the result.
func (m *Machine) Advance(ctx context.Context, s *session.Session, text string) Result {
	switch s.State {
	case session.StateServiceType:
		n, ok := ParseMenuDigit(text, 4)
		if !ok {
			return m.reprompt(s)
		}
		svc, _ := pricing.ServiceByMenuIndex(n)
		s.Draft.Service = svc
		s.State = session.StateBedrooms
		return Result{Reply: promptBedrooms}

	case session.StateBedrooms:
		n, ok := ParseMenuDigit(text, pricing.MaxBedrooms)
		if !ok {
			return m.reprompt(s)
		}
		s.Draft.EstimateFromBedrooms(n)
		s.Draft.Price = pricing.Quote(s.Draft.Service, n, false)
		s.State = session.StateDate
		return Result{Reply: promptDate(s.Draft, m.now())}

	case session.StateDate:
		return m.advanceDate(ctx, s, text)

	case session.StateTime:
		n, ok := ParseMenuDigit(text, len(s.PresentedSlots))
		if !ok {
			return m.reprompt(s)
		}
		slot := s.PresentedSlots[n-1]
		s.Draft.SlotStart = slot.Start
		s.Draft.SlotLabel = slot.Label
		s.PresentedSlots = nil
		s.State = session.StateAddress
		return Result{Reply: promptAddress}

	case session.StateAddress:
		if !ValidAddress(text) {
			return m.reprompt(s)
		}
		s.Draft.Address = strings.TrimSpace(text)
		s.State = session.StateName
		return Result{Reply: promptName}

	case session.StateName:
		if !ValidName(text) {
			return m.reprompt(s)
		}
		s.Draft.Name = strings.TrimSpace(text)
		s.State = session.StateConfirm
		return Result{Reply: promptConfirm(s.Draft)}

	case session.StateConfirm:
		return m.advanceConfirm(ctx, s, text)
	}

	m.logger.Error("session in unknown state", "key", s.Key, "state", s.State)
	return Result{Reply: helpReply(m.businessPhone), EndSession: true}
}

// advanceDate applies a date selection. The price is recomputed from scratch
// so re-entering this step never stacks the rush fee.
func (m *Machine) advanceDate(ctx context.Context, s *session.Session, text string) Result {
	n, ok := ParseMenuDigit(text, dateMenuDays)
	if !ok {
		return m.reprompt(s)
	}

	now := m.now()
	chosen := now.AddDate(0, 0, n-1)
	date := time.Date(chosen.Year(), chosen.Month(), chosen.Day(), 0, 0, 0, 0, chosen.Location())
	sameDay := n == 1

	s.Draft.ServiceDate = date
	s.Draft.SameDay = sameDay
	s.Draft.Price = pricing.Quote(s.Draft.Service, s.Draft.Bedrooms, sameDay)

	slots, err := m.availability.SlotsFor(ctx, date)
	if err != nil {
		m.logger.Error("availability lookup failed", "error", err, "key", s.Key, "date", date.Format("2006-01-02"))
		return Result{Reply: replySinkFailure(m.businessPhone), EndSession: true, SinkFailed: true}
	}
	if len(slots) == 0 {
		return Result{Reply: replyNoSlots(s.Draft, now)}
	}

	s.PresentedSlots = slots
	s.State = session.StateTime
	return Result{Reply: promptTime(date, slots)}
}

func (m *Machine) advanceConfirm(ctx context.Context, s *session.Session, text string) Result {
	yes, ok := ParseYesNo(text)
	if !ok {
		return Result{Reply: replyYesNo}
	}
	if !yes {
		return Result{Reply: replyDeclined, EndSession: true}
	}

	rec := booking.Promote(s.Key, s.Draft, m.now())
	confirmation, err := m.sink.Create(ctx, rec)
	if err != nil {
		// The draft is discarded with the session; log it in full so the
		// office can recover the booking by hand.
		m.logger.Error("booking sink failed, discarding draft",
			"error", err,
			"phone", s.Key,
			"service", s.Draft.Service,
			"bedrooms", s.Draft.Bedrooms,
			"service_date", s.Draft.ServiceDate.Format("2006-01-02"),
			"slot", s.Draft.SlotLabel,
			"address", s.Draft.Address,
			"name", s.Draft.Name,
			"price", s.Draft.Price,
		)
		return Result{Reply: replySinkFailure(m.businessPhone), EndSession: true, SinkFailed: true}
	}
	return Result{Reply: replyBooked(confirmation, s.Draft), EndSession: true, Booked: true}
}

// reprompt re-emits the entry prompt for the session's current state without
// mutating it.
func (m *Machine) reprompt(s *session.Session) Result {
	return Result{Reply: m.entryPrompt(s)}
}

func (m *Machine) entryPrompt(s *session.Session) string {
	switch s.State {
	case session.StateServiceType:
		return promptServiceType
	case session.StateBedrooms:
		return promptBedrooms
	case session.StateDate:
		return promptDate(s.Draft, m.now())
	case session.StateTime:
		return promptTime(s.Draft.ServiceDate, s.PresentedSlots)
	case session.StateAddress:
		return promptAddress
	case session.StateName:
		return promptName
	case session.StateConfirm:
		return promptConfirm(s.Draft)
	}
	return helpReply(m.businessPhone)
}
