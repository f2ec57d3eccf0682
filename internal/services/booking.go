// booking.go implements BookingService: validated booking creation with
// role-based duration limits and room selection, status updates, participant
// join/leave, and admin-only deletion. All mutations go through the
// repositories; nothing is cached between calls.
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/roomreserve/roomreserve/internal/db/models"
	"github.com/roomreserve/roomreserve/internal/db/repositories"
)

// CreateBookingRequest carries the validated inputs for a new booking.
type CreateBookingRequest struct {
	Category        string
	Date            string // YYYY-MM-DD
	StartTime       string // HH:MM
	DurationMinutes int
	OrganizationID  *string
	Visibility      string
	MaxParticipants int
}

// BookingService validates and creates bookings, and manages their lifecycle
// and participant lists.
type BookingService struct {
	bookingRepo *repositories.BookingRepository
	roomRepo    *repositories.RoomRepository
	orgRepo     *repositories.OrganizationRepository
	authz       *AuthorizationService
}

// NewBookingService creates a new BookingService
func NewBookingService(
	bookingRepo *repositories.BookingRepository,
	roomRepo *repositories.RoomRepository,
	orgRepo *repositories.OrganizationRepository,
	authz *AuthorizationService,
) *BookingService {
	return &BookingService{
		bookingRepo: bookingRepo,
		roomRepo:    roomRepo,
		orgRepo:     orgRepo,
		authz:       authz,
	}
}

// Create places a booking for the first available room of the requested
// category. Bookings made on behalf of an organization start as pending
// (they need approval); personal bookings are confirmed immediately.
func (s *BookingService) Create(ctx context.Context, userID string, req CreateBookingRequest) (*models.BookingWithRoom, error) {
	if !models.ValidRoomCategory(req.Category) {
		return nil, NewValidationError("category", "category must be 'small' or 'large'")
	}
	if _, err := time.ParseInLocation("2006-01-02", req.Date, time.Local); err != nil {
		return nil, NewValidationError("date", "date must be in YYYY-MM-DD format")
	}
	startMinutes, err := parseStartTime(req.StartTime)
	if err != nil {
		return nil, NewValidationError("startTime", "startTime must be in HH:MM format")
	}
	if req.DurationMinutes <= 0 {
		return nil, NewValidationError("duration", "duration must be positive")
	}
	if req.Visibility == "" {
		req.Visibility = models.VisibilityPrivate
	}
	if !models.ValidVisibility(req.Visibility) {
		return nil, NewValidationError("visibility", "visibility must be 'private', 'public' or 'org'")
	}

	actor, err := s.authz.ResolveActor(ctx, userID)
	if err != nil {
		return nil, err
	}

	if limit := s.authz.RoleDurationLimit(actor.Role); limit > 0 && req.DurationMinutes > limit {
		return nil, NewValidationError("duration",
			fmt.Sprintf("duration exceeds the %d-minute limit for role %q", limit, actor.Role))
	}

	if req.OrganizationID != nil {
		org, err := s.orgRepo.GetByID(ctx, *req.OrganizationID)
		if err != nil {
			return nil, err
		}
		if org == nil {
			return nil, NewNotFoundError("Organization not found")
		}
	}

	rooms, err := s.roomRepo.FindAvailableRooms(ctx, req.Category, req.Date, startMinutes, req.DurationMinutes)
	if err != nil {
		return nil, err
	}
	if len(rooms) == 0 {
		return nil, NewNotFoundError("No rooms available")
	}

	status := models.BookingStatusConfirmed
	if req.OrganizationID != nil {
		status = models.BookingStatusPending
	}

	// The availability check and the insert are not atomic. The unique index
	// on (room_id, booking_date, start_time) closes the race: on a slot
	// conflict, fall through to the next candidate room.
	for _, room := range rooms {
		booking := &models.Booking{
			UserID:          userID,
			RoomID:          room.ID,
			OrganizationID:  req.OrganizationID,
			Date:            req.Date,
			StartTime:       req.StartTime,
			DurationMinutes: req.DurationMinutes,
			Status:          status,
			Visibility:      req.Visibility,
			MaxParticipants: req.MaxParticipants,
		}

		err := s.bookingRepo.CreateBooking(ctx, booking)
		if err != nil {
			if isUniqueViolation(err) {
				continue
			}
			return nil, err
		}

		return s.bookingRepo.GetBookingByID(ctx, booking.ID)
	}

	return nil, NewNotFoundError("No rooms available")
}

// UpdateStatus sets a booking's status. Only an admin or the booking's owner
// may do so; any status is reachable from any status.
func (s *BookingService) UpdateStatus(ctx context.Context, bookingID, actorID, status string) (*models.BookingWithRoom, error) {
	if !models.ValidBookingStatus(status) {
		return nil, NewValidationError("status", "invalid booking status")
	}

	booking, err := s.bookingRepo.GetBookingByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, NewNotFoundError("Booking not found")
	}

	actor, err := s.authz.ResolveActor(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if !s.authz.CanManage(booking.UserID, actor) {
		return nil, NewForbiddenError("You do not have permission to modify this booking")
	}

	if err := s.bookingRepo.UpdateBookingStatus(ctx, bookingID, status); err != nil {
		return nil, err
	}

	return s.bookingRepo.GetBookingByID(ctx, bookingID)
}

// Get retrieves a booking by id.
func (s *BookingService) Get(ctx context.Context, bookingID string) (*models.BookingWithRoom, error) {
	booking, err := s.bookingRepo.GetBookingByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, NewNotFoundError("Booking not found")
	}
	return booking, nil
}

// Join adds the caller to a booking's participant list.
func (s *BookingService) Join(ctx context.Context, bookingID, userID string) (*models.BookingWithRoom, error) {
	booking, err := s.bookingRepo.GetBookingByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, NewNotFoundError("Booking not found")
	}

	actor, err := s.authz.ResolveActor(ctx, userID)
	if err != nil {
		return nil, err
	}

	if booking.Visibility == models.VisibilityPrivate {
		return nil, NewForbiddenError("Booking is not joinable")
	}
	if booking.UserID == userID {
		return nil, NewForbiddenError("The creator cannot join their own booking")
	}
	if booking.IsParticipant(userID) {
		return nil, NewValidationError("", "Already joined this booking")
	}
	if booking.MaxParticipants > 0 && len(booking.Participants) >= booking.MaxParticipants {
		return nil, NewValidationError("", "Booking is full")
	}
	if booking.Visibility == models.VisibilityOrg {
		if booking.OrganizationID == nil || !actor.MemberOf(*booking.OrganizationID) {
			return nil, NewForbiddenError("Not a member of this organization")
		}
	}
	if started, err := bookingStarted(&booking.Booking, time.Now()); err != nil {
		return nil, err
	} else if started {
		return nil, NewValidationError("", "Booking has already started")
	}

	if err := s.bookingRepo.AddParticipant(ctx, bookingID, userID); err != nil {
		return nil, err
	}

	return s.bookingRepo.GetBookingByID(ctx, bookingID)
}

// Leave removes the caller from a booking's participant list. The creator is
// never a participant and cannot leave their own booking.
func (s *BookingService) Leave(ctx context.Context, bookingID, userID string) (*models.BookingWithRoom, error) {
	booking, err := s.bookingRepo.GetBookingByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, NewNotFoundError("Booking not found")
	}

	if _, err := s.authz.ResolveActor(ctx, userID); err != nil {
		return nil, err
	}

	if booking.UserID == userID {
		return nil, NewForbiddenError("The creator cannot leave their own booking")
	}
	if !booking.IsParticipant(userID) {
		return nil, NewValidationError("", "Not a participant of this booking")
	}
	if started, err := bookingStarted(&booking.Booking, time.Now()); err != nil {
		return nil, err
	} else if started {
		return nil, NewValidationError("", "Booking has already started")
	}

	if err := s.bookingRepo.RemoveParticipant(ctx, bookingID, userID); err != nil {
		return nil, err
	}

	return s.bookingRepo.GetBookingByID(ctx, bookingID)
}

// Delete removes a booking. Admin only.
func (s *BookingService) Delete(ctx context.Context, bookingID, actorID string) error {
	actor, err := s.authz.ResolveActor(ctx, actorID)
	if err != nil {
		return err
	}
	if !actor.IsAdmin() {
		return NewForbiddenError("Only administrators can delete bookings")
	}

	booking, err := s.bookingRepo.GetBookingByID(ctx, bookingID)
	if err != nil {
		return err
	}
	if booking == nil {
		return NewNotFoundError("Booking not found")
	}

	return s.bookingRepo.DeleteBooking(ctx, bookingID)
}

// ListForUser retrieves a user's bookings, optionally filtered by status and
// restricted to bookings that have not yet started.
func (s *BookingService) ListForUser(ctx context.Context, userID, status string, upcoming bool) ([]*models.BookingWithRoom, error) {
	if status != "" && !models.ValidBookingStatus(status) {
		return nil, NewValidationError("status", "invalid booking status")
	}
	return s.bookingRepo.ListUserBookings(ctx, userID, status, upcoming, time.Now())
}

// parseStartTime converts "HH:MM" to minutes since midnight.
func parseStartTime(s string) (int, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, err
	}
	return t.Hour()*60 + t.Minute(), nil
}

// bookingStarted reports whether the booking's start datetime, read as local
// wall clock, is in the past.
func bookingStarted(b *models.Booking, now time.Time) (bool, error) {
	start, err := b.StartDateTime()
	if err != nil {
		return false, err
	}
	return start.Before(now), nil
}

// isUniqueViolation reports whether err is a PostgreSQL unique constraint
// violation (code 23505).
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
