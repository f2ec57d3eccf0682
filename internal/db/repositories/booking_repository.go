// booking_repository.go implements BookingRepository, data access for bookings
// and their participant lists. Bookings are always read back joined with the
// reserved room so the API can return room details without a second round trip.
package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/roomreserve/roomreserve/internal/db/models"
)

// BookingRepository handles booking database operations
type BookingRepository struct {
	db *sql.DB
}

// NewBookingRepository creates a new BookingRepository
func NewBookingRepository(db *sql.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

// CreateBooking inserts a new booking. The unique index on
// (room_id, booking_date, start_time) makes the database reject a slot that
// was taken between availability check and insert; callers map that violation
// to an availability error.
func (r *BookingRepository) CreateBooking(ctx context.Context, booking *models.Booking) error {
	booking.ID = uuid.New().String()
	booking.CreatedAt = time.Now()
	booking.UpdatedAt = time.Now()
	if booking.Visibility == "" {
		booking.Visibility = models.VisibilityPrivate
	}

	query := `
		INSERT INTO bookings (id, user_id, room_id, organization_id, booking_date, start_time,
			duration_minutes, status, visibility, max_participants, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := r.db.ExecContext(ctx, query,
		booking.ID,
		booking.UserID,
		booking.RoomID,
		booking.OrganizationID,
		booking.Date,
		booking.StartTime,
		booking.DurationMinutes,
		booking.Status,
		booking.Visibility,
		booking.MaxParticipants,
		booking.CreatedAt,
		booking.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}

	return nil
}

// GetBookingByID retrieves a booking joined with its room, including the
// participant list
func (r *BookingRepository) GetBookingByID(ctx context.Context, bookingID string) (*models.BookingWithRoom, error) {
	query := `
		SELECT b.id, b.user_id, b.room_id, b.organization_id,
		       to_char(b.booking_date, 'YYYY-MM-DD'), b.start_time,
		       b.duration_minutes, b.status, b.visibility, b.max_participants,
		       b.created_at, b.updated_at,
		       r.name, r.category, r.capacity
		FROM bookings b
		JOIN rooms r ON b.room_id = r.id
		WHERE b.id = $1
	`

	booking := &models.BookingWithRoom{}
	err := r.db.QueryRowContext(ctx, query, bookingID).Scan(
		&booking.ID,
		&booking.UserID,
		&booking.RoomID,
		&booking.OrganizationID,
		&booking.Date,
		&booking.StartTime,
		&booking.DurationMinutes,
		&booking.Status,
		&booking.Visibility,
		&booking.MaxParticipants,
		&booking.CreatedAt,
		&booking.UpdatedAt,
		&booking.RoomName,
		&booking.RoomCategory,
		&booking.RoomCapacity,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}

	participants, err := r.ListParticipants(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	booking.Participants = participants

	return booking, nil
}

// UpdateBookingStatus sets a booking's status
func (r *BookingRepository) UpdateBookingStatus(ctx context.Context, bookingID, status string) error {
	query := `
		UPDATE bookings
		SET status = $2, updated_at = $3
		WHERE id = $1
	`
	_, err := r.db.ExecContext(ctx, query, bookingID, status, time.Now())
	return err
}

// DeleteBooking removes a booking (cascades to participants)
func (r *BookingRepository) DeleteBooking(ctx context.Context, bookingID string) error {
	query := `DELETE FROM bookings WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, bookingID)
	return err
}

// ListUserBookings retrieves a user's bookings joined with room details,
// optionally filtered by status and restricted to bookings that have not yet
// started as of now.
func (r *BookingRepository) ListUserBookings(ctx context.Context, userID, status string, upcoming bool, now time.Time) ([]*models.BookingWithRoom, error) {
	query := `
		SELECT b.id, b.user_id, b.room_id, b.organization_id,
		       to_char(b.booking_date, 'YYYY-MM-DD'), b.start_time,
		       b.duration_minutes, b.status, b.visibility, b.max_participants,
		       b.created_at, b.updated_at,
		       r.name, r.category, r.capacity
		FROM bookings b
		JOIN rooms r ON b.room_id = r.id
		WHERE b.user_id = $1
	`
	args := []interface{}{userID}

	if status != "" {
		args = append(args, status)
		query += fmt.Sprintf(` AND b.status = $%d`, len(args))
	}
	if upcoming {
		nowDate := now.Format("2006-01-02")
		nowMinutes := now.Hour()*60 + now.Minute()
		args = append(args, nowDate)
		dateArg := len(args)
		args = append(args, nowMinutes)
		minArg := len(args)
		query += fmt.Sprintf(` AND (b.booking_date > $%d OR (b.booking_date = $%d AND (split_part(b.start_time, ':', 1)::int * 60 + split_part(b.start_time, ':', 2)::int) >= $%d))`,
			dateArg, dateArg, minArg)
	}
	query += ` ORDER BY b.booking_date ASC, b.start_time ASC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bookings := make([]*models.BookingWithRoom, 0)
	for rows.Next() {
		booking := &models.BookingWithRoom{}
		err := rows.Scan(
			&booking.ID,
			&booking.UserID,
			&booking.RoomID,
			&booking.OrganizationID,
			&booking.Date,
			&booking.StartTime,
			&booking.DurationMinutes,
			&booking.Status,
			&booking.Visibility,
			&booking.MaxParticipants,
			&booking.CreatedAt,
			&booking.UpdatedAt,
			&booking.RoomName,
			&booking.RoomCategory,
			&booking.RoomCapacity,
		)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, booking)
	}

	return bookings, rows.Err()
}

// ListParticipants returns the user ids of a booking's participants in join order
func (r *BookingRepository) ListParticipants(ctx context.Context, bookingID string) ([]string, error) {
	query := `
		SELECT user_id
		FROM booking_participants
		WHERE booking_id = $1
		ORDER BY joined_at ASC
	`

	rows, err := r.db.QueryContext(ctx, query, bookingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	participants := make([]string, 0)
	for rows.Next() {
		var userID string
		if err := rows.Scan(&userID); err != nil {
			return nil, err
		}
		participants = append(participants, userID)
	}

	return participants, rows.Err()
}

// AddParticipant adds a user to a booking's participant list
func (r *BookingRepository) AddParticipant(ctx context.Context, bookingID, userID string) error {
	query := `
		INSERT INTO booking_participants (booking_id, user_id, joined_at)
		VALUES ($1, $2, $3)
	`
	_, err := r.db.ExecContext(ctx, query, bookingID, userID, time.Now())
	if err != nil {
		return fmt.Errorf("failed to add participant: %w", err)
	}
	return nil
}

// RemoveParticipant removes a user from a booking's participant list
func (r *BookingRepository) RemoveParticipant(ctx context.Context, bookingID, userID string) error {
	query := `DELETE FROM booking_participants WHERE booking_id = $1 AND user_id = $2`
	_, err := r.db.ExecContext(ctx, query, bookingID, userID)
	return err
}

// CompleteElapsedBookings marks confirmed bookings whose end time has passed
// as completed and returns how many rows were updated. Used by the background
// sweeper.
func (r *BookingRepository) CompleteElapsedBookings(ctx context.Context, now time.Time) (int64, error) {
	nowDate := now.Format("2006-01-02")
	nowMinutes := now.Hour()*60 + now.Minute()

	query := `
		UPDATE bookings
		SET status = 'completed', updated_at = $3
		WHERE status = 'confirmed'
		  AND (booking_date < $1
		       OR (booking_date = $1 AND (split_part(start_time, ':', 1)::int * 60 + split_part(start_time, ':', 2)::int) + duration_minutes <= $2))
	`

	result, err := r.db.ExecContext(ctx, query, nowDate, nowMinutes, now)
	if err != nil {
		return 0, fmt.Errorf("failed to complete elapsed bookings: %w", err)
	}

	return result.RowsAffected()
}
