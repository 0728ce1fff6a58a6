package session

import (
	"time"

	"github.com/brightbroom/booking-platform/internal/availability"
	"github.com/brightbroom/booking-platform/internal/pricing"
)

// State is a step in the booking conversation. States form a straight line
// from ServiceType to Confirm; terminal outcomes delete the session rather
// than park it in a terminal state.
type State string

const (
	StateServiceType State = "service_type"
	StateBedrooms    State = "bedrooms"
	StateDate        State = "date"
	StateTime        State = "time"
	StateAddress     State = "address"
	StateName        State = "name"
	StateConfirm     State = "confirm"
)

// Valid reports whether s is a defined conversation state.
func (s State) Valid() bool {
	switch s {
	case StateServiceType, StateBedrooms, StateDate, StateTime, StateAddress, StateName, StateConfirm:
		return true
	}
	return false
}

// Draft is the booking record accumulated across a session's states.
// Fields fill in step order and are never re-asked once set, except on an
// explicit restart which replaces the whole session.
type Draft struct {
	Service    pricing.ServiceType `json:"service,omitempty"`
	Bedrooms   int                 `json:"bedrooms,omitempty"`
	Bathrooms  int                 `json:"bathrooms,omitempty"`
	SquareFeet int                 `json:"square_feet,omitempty"`
	Price      int                 `json:"price,omitempty"`

	ServiceDate time.Time `json:"service_date,omitempty"`
	SameDay     bool      `json:"same_day,omitempty"`
	SlotStart   time.Time `json:"slot_start,omitempty"`
	SlotLabel   string    `json:"slot_label,omitempty"`

	Address string `json:"address,omitempty"`
	Name    string `json:"name,omitempty"`
}

// EstimateFromBedrooms fills the derived sizing fields from the bedroom count.
func (d *Draft) EstimateFromBedrooms(bedrooms int) {
	d.Bedrooms = bedrooms
	d.Bathrooms = bedrooms - 1
	if d.Bathrooms < 1 {
		d.Bathrooms = 1
	}
	d.SquareFeet = 300 + 450*bedrooms
}

// Session is the per-caller record of booking-flow progress.
type Session struct {
	Key            string    `json:"key"`
	State          State     `json:"state"`
	Draft          Draft     `json:"draft"`
	CreatedAt      time.Time `json:"created_at"`
	LastActivityAt time.Time `json:"last_activity_at"`

	// PresentedSlots pins the numbered time options shown at the Time step,
	// so a selection refers to what the caller actually saw even if
	// availability shifted since.
	PresentedSlots []availability.Slot `json:"presented_slots,omitempty"`
}

// New creates a session at the start of the booking flow.
func New(key string, now time.Time) *Session {
	return &Session{
		Key:            key,
		State:          StateServiceType,
		CreatedAt:      now,
		LastActivityAt: now,
	}
}

// Touch records inbound activity; called together with the state mutation it
// accompanies so the sweeper never evicts a session mid-advance.
func (s *Session) Touch(now time.Time) {
	s.LastActivityAt = now
}

// IdleSince reports whether the session has seen no activity since cutoff.
func (s *Session) IdleSince(cutoff time.Time) bool {
	return s.LastActivityAt.Before(cutoff)
}
