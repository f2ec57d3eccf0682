// room_repository.go implements RoomRepository, data access for the static room
// catalog: CRUD, category aggregation, and the availability query used when
// placing bookings.
package repositories

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/roomreserve/roomreserve/internal/db/models"
)

// RoomRepository handles room database operations
type RoomRepository struct {
	db *sql.DB
}

// NewRoomRepository creates a new RoomRepository
func NewRoomRepository(db *sql.DB) *RoomRepository {
	return &RoomRepository{db: db}
}

// CreateRoom creates a new room
func (r *RoomRepository) CreateRoom(ctx context.Context, room *models.Room) error {
	room.ID = uuid.New().String()
	room.CreatedAt = time.Now()

	query := `
		INSERT INTO rooms (id, name, category, capacity, description, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.ExecContext(ctx, query,
		room.ID,
		room.Name,
		room.Category,
		room.Capacity,
		room.Description,
		room.CreatedAt,
	)

	return err
}

// GetRoomByID retrieves a room by ID
func (r *RoomRepository) GetRoomByID(ctx context.Context, roomID string) (*models.Room, error) {
	query := `
		SELECT id, name, category, capacity, description, created_at
		FROM rooms
		WHERE id = $1
	`

	room := &models.Room{}
	err := r.db.QueryRowContext(ctx, query, roomID).Scan(
		&room.ID,
		&room.Name,
		&room.Category,
		&room.Capacity,
		&room.Description,
		&room.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}

	return room, nil
}

// ListRooms retrieves all rooms, optionally filtered by category
func (r *RoomRepository) ListRooms(ctx context.Context, category string) ([]*models.Room, error) {
	query := `
		SELECT id, name, category, capacity, description, created_at
		FROM rooms
	`
	args := []interface{}{}
	if category != "" {
		query += ` WHERE category = $1`
		args = append(args, category)
	}
	query += ` ORDER BY name ASC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	rooms := make([]*models.Room, 0)
	for rows.Next() {
		room := &models.Room{}
		err := rows.Scan(
			&room.ID,
			&room.Name,
			&room.Category,
			&room.Capacity,
			&room.Description,
			&room.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		rooms = append(rooms, room)
	}

	return rooms, rows.Err()
}

// CategoryCounts returns the number of rooms per category
func (r *RoomRepository) CategoryCounts(ctx context.Context) ([]models.RoomCategoryCount, error) {
	query := `
		SELECT category, COUNT(*)
		FROM rooms
		GROUP BY category
		ORDER BY category ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make([]models.RoomCategoryCount, 0)
	for rows.Next() {
		var c models.RoomCategoryCount
		if err := rows.Scan(&c.Category, &c.Count); err != nil {
			return nil, err
		}
		counts = append(counts, c)
	}

	return counts, rows.Err()
}

// FindAvailableRooms returns rooms of the given category with no booking that
// overlaps the [startMinutes, startMinutes+durationMinutes) window on the given
// date. Cancelled and rejected bookings do not block a slot. Results are
// ordered by id ascending, which is the tie-break order for room selection.
func (r *RoomRepository) FindAvailableRooms(ctx context.Context, category, date string, startMinutes, durationMinutes int) ([]*models.Room, error) {
	query := `
		SELECT r.id, r.name, r.category, r.capacity, r.description, r.created_at
		FROM rooms r
		WHERE r.category = $1
		  AND NOT EXISTS (
			SELECT 1 FROM bookings b
			WHERE b.room_id = r.id
			  AND b.booking_date = $2
			  AND b.status NOT IN ('cancelled', 'rejected')
			  AND (split_part(b.start_time, ':', 1)::int * 60 + split_part(b.start_time, ':', 2)::int) < $3 + $4
			  AND $3 < (split_part(b.start_time, ':', 1)::int * 60 + split_part(b.start_time, ':', 2)::int) + b.duration_minutes
		  )
		ORDER BY r.id ASC
	`

	rows, err := r.db.QueryContext(ctx, query, category, date, startMinutes, durationMinutes)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	rooms := make([]*models.Room, 0)
	for rows.Next() {
		room := &models.Room{}
		err := rows.Scan(
			&room.ID,
			&room.Name,
			&room.Category,
			&room.Capacity,
			&room.Description,
			&room.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		rooms = append(rooms, room)
	}

	return rooms, rows.Err()
}
