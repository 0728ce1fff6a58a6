package dialog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/brightbroom/booking-platform/internal/availability"
	"github.com/brightbroom/booking-platform/internal/booking"
	"github.com/brightbroom/booking-platform/internal/observability/metrics"
	"github.com/brightbroom/booking-platform/internal/session"
	"github.com/brightbroom/booking-platform/pkg/logging"
)

// Inbound is a normalized transport event: who texted and what they said.
type Inbound struct {
	From string
	Text string
}

// ErrEmptySender indicates the transport delivered an event with no usable
// caller identity.
var ErrEmptySender = errors.New("dialog: empty sender")

// Orchestrator is the single entry point for inbound messages. It routes
// keyword commands on a stateless fast path and everything else through the
// state machine against the session store. All session writes funnel through
// here, serialized per caller key.
type Orchestrator struct {
	store         session.Store
	machine       *Machine
	bookings      booking.Lookup
	availability  availability.Lookup
	businessPhone string
	logger        *logging.Logger
	metrics       *metrics.ConversationMetrics
	now           func() time.Time

	locks keyedMutex
}

// NewOrchestrator wires the dialog entry point.
func NewOrchestrator(
	store session.Store,
	machine *Machine,
	bookings booking.Lookup,
	avail availability.Lookup,
	businessPhone string,
	logger *logging.Logger,
	m *metrics.ConversationMetrics,
) *Orchestrator {
	if store == nil {
		panic("dialog: session store required")
	}
	if machine == nil {
		panic("dialog: machine required")
	}
	if bookings == nil {
		panic("dialog: booking lookup required")
	}
	if avail == nil {
		panic("dialog: availability lookup required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Orchestrator{
		store:         store,
		machine:       machine,
		bookings:      bookings,
		availability:  avail,
		businessPhone: businessPhone,
		logger:        logger,
		metrics:       m,
		now:           time.Now,
	}
}

// Handle processes one inbound message and returns the reply to send. An
// error means the session store itself failed; the transport adapter should
// answer with its generic fallback.
func (o *Orchestrator) Handle(ctx context.Context, in Inbound) (string, error) {
	started := o.now()
	key := NormalizeKey(in.From)
	if key == "" {
		return "", ErrEmptySender
	}

	unlock := o.locks.lock(key)
	defer unlock()

	reply, err := o.dispatch(ctx, key, in.Text)
	o.metrics.ObserveHandleLatency(time.Since(started).Seconds())
	return reply, err
}

func (o *Orchestrator) dispatch(ctx context.Context, key, text string) (string, error) {
	if cmd, arg, ok := DetectCommand(text); ok {
		return o.handleCommand(ctx, key, cmd, arg)
	}

	s, err := o.store.Get(ctx, key)
	if err != nil {
		return "", fmt.Errorf("dialog: load session: %w", err)
	}
	if s == nil {
		o.metrics.ObserveInbound("default", "ok")
		return helpReply(o.businessPhone), nil
	}

	s.Touch(o.now())
	res := o.machine.Advance(ctx, s, text)

	if res.EndSession {
		if err := o.store.Delete(ctx, key); err != nil {
			return "", fmt.Errorf("dialog: delete session: %w", err)
		}
	} else {
		if err := o.store.Put(ctx, s); err != nil {
			return "", fmt.Errorf("dialog: save session: %w", err)
		}
	}

	switch {
	case res.Booked:
		o.metrics.ObserveInbound("flow", "booked")
		o.metrics.ObserveBooking("created")
	case res.SinkFailed:
		o.metrics.ObserveInbound("flow", "sink_failed")
		o.metrics.ObserveBooking("failed")
	default:
		o.metrics.ObserveInbound("flow", "ok")
	}
	return res.Reply, nil
}

func (o *Orchestrator) handleCommand(ctx context.Context, key string, cmd Command, arg string) (string, error) {
	switch cmd {
	case CmdBook:
		// BOOK always starts fresh: any in-progress session is replaced
		// wholesale, never merged.
		s := session.New(key, o.now())
		if err := o.store.Put(ctx, s); err != nil {
			return "", fmt.Errorf("dialog: create session: %w", err)
		}
		o.metrics.ObserveInbound("keyword", "book")
		return promptServiceType, nil

	case CmdPrice:
		o.metrics.ObserveInbound("keyword", "price")
		return priceReply(), nil

	case CmdWhen:
		o.metrics.ObserveInbound("keyword", "when")
		return o.whenReply(ctx), nil

	case CmdHelp:
		o.metrics.ObserveInbound("keyword", "help")
		return helpReply(o.businessPhone), nil

	case CmdStatus:
		o.metrics.ObserveInbound("keyword", "status")
		return o.statusReply(ctx, key), nil

	case CmdCancel:
		o.metrics.ObserveInbound("keyword", "cancel")
		if arg != "" {
			return o.cancelBooking(ctx, key, arg), nil
		}
		return o.cancelSession(ctx, key)
	}

	o.metrics.ObserveInbound("keyword", "unknown")
	return helpReply(o.businessPhone), nil
}

// whenReply derives the next opening from the availability lookup.
func (o *Orchestrator) whenReply(ctx context.Context) string {
	now := o.now()
	for i := 0; i < 7; i++ {
		day := now.AddDate(0, 0, i)
		slots, err := o.availability.SlotsFor(ctx, day)
		if err != nil {
			o.logger.Error("availability lookup failed", "error", err)
			break
		}
		if len(slots) > 0 {
			return fmt.Sprintf(
				"Our next opening is %s at %s. We clean Monday through Saturday. Text BOOK to grab a slot.",
				day.Format("Mon Jan 2"), slots[0].Label,
			)
		}
	}
	return "We clean Monday through Saturday. Text BOOK to see available times."
}

func (o *Orchestrator) statusReply(ctx context.Context, key string) string {
	rec, err := o.bookings.LatestByPhone(ctx, key)
	if errors.Is(err, booking.ErrNotFound) {
		return "We don't have a booking on file for this number. Text BOOK to schedule one."
	}
	if err != nil {
		o.logger.Error("booking status lookup failed", "error", err, "phone", key)
		return fmt.Sprintf("We couldn't look that up just now. Please call us at %s.", o.businessPhone)
	}
	if rec.Status == booking.StatusCancelled {
		return fmt.Sprintf("Your booking %s was cancelled. Text BOOK to schedule a new one.", rec.Confirmation)
	}
	return fmt.Sprintf(
		"Your %s is confirmed for %s at %s (confirmation %s).",
		rec.Service.DisplayName(), rec.ServiceDate.Format("Mon Jan 2"), rec.SlotLabel, rec.Confirmation,
	)
}

func (o *Orchestrator) cancelBooking(ctx context.Context, key, code string) string {
	ok, err := o.bookings.CancelByConfirmation(ctx, key, code)
	if err != nil {
		o.logger.Error("booking cancel failed", "error", err, "phone", key, "code", code)
		return fmt.Sprintf("We couldn't cancel that just now. Please call us at %s.", o.businessPhone)
	}
	if !ok {
		return fmt.Sprintf("We couldn't find a confirmed booking %s for this number.", strings.ToUpper(code))
	}
	o.metrics.ObserveBooking("cancelled")
	return fmt.Sprintf("Booking %s is cancelled. Text BOOK when you need us again.", strings.ToUpper(code))
}

func (o *Orchestrator) cancelSession(ctx context.Context, key string) (string, error) {
	s, err := o.store.Get(ctx, key)
	if err != nil {
		return "", fmt.Errorf("dialog: load session: %w", err)
	}
	if s == nil {
		return replyNothingToCancel, nil
	}
	if err := o.store.Delete(ctx, key); err != nil {
		return "", fmt.Errorf("dialog: delete session: %w", err)
	}
	return replyCancelled, nil
}

// NormalizeKey strips a caller identity down to digits, normalizing
// 10-digit US numbers to their 11-digit form.
func NormalizeKey(from string) string {
	var digits strings.Builder
	for _, r := range from {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	d := digits.String()
	if len(d) == 10 {
		return "1" + d
	}
	return d
}

// keyedMutex serializes work per caller key so interleaved deliveries from
// the same number cannot race a get-then-put, without serializing unrelated
// callers against each other.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*keyedLock
}

type keyedLock struct {
	mu   sync.Mutex
	refs int
}

func (k *keyedMutex) lock(key string) (unlock func()) {
	k.mu.Lock()
	if k.locks == nil {
		k.locks = make(map[string]*keyedLock)
	}
	l, ok := k.locks[key]
	if !ok {
		l = &keyedLock{}
		k.locks[key] = l
	}
	l.refs++
	k.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		k.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}
