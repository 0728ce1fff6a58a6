// Command simulator drives the booking conversation from a terminal,
// standing in for the SMS transport. Every line typed is one inbound text.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"

	"github.com/brightbroom/booking-platform/internal/availability"
	"github.com/brightbroom/booking-platform/internal/booking"
	appconfig "github.com/brightbroom/booking-platform/internal/config"
	"github.com/brightbroom/booking-platform/internal/dialog"
	"github.com/brightbroom/booking-platform/internal/session"
	"github.com/brightbroom/booking-platform/pkg/logging"
)

func main() {
	cfg := appconfig.Load()
	logger := logging.New("error")

	from := "+15551234567"
	if len(os.Args) > 1 {
		from = os.Args[1]
	}

	store := session.NewMemoryStore()
	bookings := booking.NewMemoryStore()
	schedule := availability.NewStaticSchedule(cfg.OpenHour, cfg.CloseHour, cfg.SlotMinutes)
	machine := dialog.NewMachine(schedule, bookings, cfg.BusinessPhone, logger)
	orchestrator := dialog.NewOrchestrator(store, machine, bookings, schedule, cfg.BusinessPhone, logger, nil)

	fmt.Printf("Simulating texts from %s. Try BOOK, PRICE, WHEN, STATUS, HELP. Ctrl-D to quit.\n\n", from)

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("you> ")
		if !scanner.Scan() {
			break
		}
		text := scanner.Text()
		if text == "" {
			continue
		}

		reply, err := orchestrator.Handle(context.Background(), dialog.Inbound{From: from, Text: text})
		if err != nil {
			fmt.Printf("error: %v\n", err)
			continue
		}
		fmt.Printf("\nbrightbroom> %s\n\n", reply)
	}
}
