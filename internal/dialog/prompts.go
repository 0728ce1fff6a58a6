package dialog

import (
	"fmt"
	"strings"
	"time"

	"github.com/brightbroom/booking-platform/internal/availability"
	"github.com/brightbroom/booking-platform/internal/pricing"
	"github.com/brightbroom/booking-platform/internal/session"
)

// dateMenuDays is how many consecutive days the Date step offers.
const dateMenuDays = 4

const promptServiceType = "Which cleaning would you like?\n" +
	"1. Regular Clean\n" +
	"2. Deep Clean\n" +
	"3. Move In/Out Clean\n" +
	"4. Airbnb Turnover\n" +
	"Reply with a number 1-4."

const promptBedrooms = "How many bedrooms? Reply 1, 2, 3, or 4 for 4 or more."

const promptAddress = "What's the service address? Please include the street and ZIP code."

const promptName = "Almost done! What name should the booking go under?"

func promptDate(d session.Draft, now time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "A %d bedroom %s runs $%d.\nWhen should we come?\n", d.Bedrooms, d.Service.DisplayName(), pricing.Quote(d.Service, d.Bedrooms, false))
	fmt.Fprintf(&b, "1. Today (+$%d same-day fee)\n", pricing.RushFee)
	b.WriteString("2. Tomorrow\n")
	for i := 3; i <= dateMenuDays; i++ {
		fmt.Fprintf(&b, "%d. %s\n", i, now.AddDate(0, 0, i-1).Format("Monday Jan 2"))
	}
	fmt.Fprintf(&b, "Reply with a number 1-%d.", dateMenuDays)
	return b.String()
}

func promptTime(date time.Time, slots []availability.Slot) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Arrival windows for %s:\n", date.Format("Mon Jan 2"))
	for i, slot := range slots {
		fmt.Fprintf(&b, "%d. %s\n", i+1, slot.Label)
	}
	fmt.Fprintf(&b, "Reply with a number 1-%d.", len(slots))
	return b.String()
}

func promptConfirm(d session.Draft) string {
	day := "same-day"
	if !d.SameDay {
		day = d.ServiceDate.Format("Mon Jan 2")
	}
	return fmt.Sprintf(
		"Here's your booking:\n%s, %d bed / %d bath\n%s at %s\n%s\nTotal: $%d\nReply Y to confirm or N to cancel.",
		d.Service.DisplayName(), d.Bedrooms, d.Bathrooms, day, d.SlotLabel, d.Address, d.Price,
	)
}

func replyBooked(confirmation string, d session.Draft) string {
	return fmt.Sprintf(
		"You're booked! Confirmation %s: %s on %s at %s for $%d. We'll text you a reminder. Reply CANCEL %s if plans change.",
		confirmation, d.Service.DisplayName(), d.ServiceDate.Format("Mon Jan 2"), d.SlotLabel, d.Price, confirmation,
	)
}

func replySinkFailure(businessPhone string) string {
	return fmt.Sprintf(
		"We couldn't finish your booking just now. Please call us at %s and we'll get you on the schedule right away.",
		businessPhone,
	)
}

const replyDeclined = "No problem, nothing was booked. Text BOOK anytime to start over."

const replyCancelled = "Your booking request has been cancelled. Text BOOK to start a new one."

const replyNothingToCancel = "You don't have a booking in progress. Text BOOK to start one, or CANCEL <confirmation code> to cancel an existing booking."

const replyYesNo = "Please reply Y to confirm or N to cancel."

func replyNoSlots(d session.Draft, now time.Time) string {
	return "We're fully booked that day. " + promptDate(d, now)
}

func helpReply(businessPhone string) string {
	return "BrightBroom Cleaning - text one of:\n" +
		"BOOK - schedule a cleaning\n" +
		"PRICE - see our rates\n" +
		"WHEN - next availability\n" +
		"STATUS - check your booking\n" +
		"CANCEL - cancel\n" +
		"Or call us at " + businessPhone + "."
}

func priceReply() string {
	return fmt.Sprintf(
		"Our rates start at: Regular Clean $%d, Deep Clean $%d, Move In/Out $%d, Airbnb Turnover $%d. "+
			"Larger homes add a per-bedroom charge and same-day service adds $%d. Text BOOK for an exact quote.",
		pricing.BasePrice(pricing.ServiceRegular),
		pricing.BasePrice(pricing.ServiceDeep),
		pricing.BasePrice(pricing.ServiceMoveInOut),
		pricing.BasePrice(pricing.ServiceAirbnb),
		pricing.RushFee,
	)
}
