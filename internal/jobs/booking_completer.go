// booking_completer.go implements the BookingCompleter background job, which
// periodically marks bookings as completed once their reserved slot has fully
// elapsed. Completion is computed in SQL from booking_date, start_time, and
// duration_minutes, so the transition survives server restarts and never
// depends on in-process state.
package jobs

import (
	"context"
	"log"
	"time"

	"github.com/roomreserve/roomreserve/internal/db/repositories"
	"github.com/roomreserve/roomreserve/internal/telemetry"
)

// BookingCompleter periodically transitions elapsed bookings to the completed status.
type BookingCompleter struct {
	bookingRepo *repositories.BookingRepository
	interval    time.Duration
	stopChan    chan struct{}
}

// NewBookingCompleter creates a new BookingCompleter.
// intervalMinutes controls how often the sweep runs (default 5 minutes).
func NewBookingCompleter(bookingRepo *repositories.BookingRepository, intervalMinutes int) *BookingCompleter {
	if intervalMinutes <= 0 {
		intervalMinutes = 5
	}
	return &BookingCompleter{
		bookingRepo: bookingRepo,
		interval:    time.Duration(intervalMinutes) * time.Minute,
		stopChan:    make(chan struct{}),
	}
}

// Start begins the background completion loop.
// It runs an initial sweep immediately, then repeats on the configured interval.
// The loop exits when ctx is cancelled or Stop() is called.
func (c *BookingCompleter) Start(ctx context.Context) {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	log.Printf("Booking completer started (sweep interval: %v)", c.interval)

	// Run once immediately on startup
	c.runSweep(ctx)

	for {
		select {
		case <-ticker.C:
			c.runSweep(ctx)
		case <-c.stopChan:
			log.Println("Booking completer stopped")
			return
		case <-ctx.Done():
			log.Println("Booking completer context cancelled")
			return
		}
	}
}

// Stop signals the background loop to exit.
func (c *BookingCompleter) Stop() {
	close(c.stopChan)
}

// runSweep marks every confirmed booking whose slot has elapsed as completed.
// Pending bookings are left alone; they were never approved.
func (c *BookingCompleter) runSweep(ctx context.Context) {
	n, err := c.bookingRepo.CompleteElapsedBookings(ctx, time.Now())
	if err != nil {
		log.Printf("Booking completer: failed to complete elapsed bookings: %v", err)
		return
	}
	if n > 0 {
		telemetry.BookingsCompletedTotal.Add(float64(n))
		log.Printf("Booking completer: marked %d bookings completed", n)
	}
}
