// stats.go implements handlers for aggregating and serving dashboard statistics.
package admin

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
)

// StatsHandler handles stats-related API requests
type StatsHandler struct {
	db *sqlx.DB
}

// NewStatsHandler creates a new stats handler
func NewStatsHandler(database *sqlx.DB) *StatsHandler {
	return &StatsHandler{
		db: database,
	}
}

// DashboardStats represents the response for dashboard statistics
type DashboardStats struct {
	Users         int64              `json:"users"`
	Organizations int64              `json:"organizations"`
	Rooms         RoomStats          `json:"rooms"`
	Bookings      BookingStats       `json:"bookings"`
	Issues        int64              `json:"issues"`
	BusiestRooms  []RoomBookingCount `json:"busiest_rooms"`
	ByStatus      []BookingStatusRow `json:"bookings_by_status"`
}

// RoomStats represents room counts by category
type RoomStats struct {
	Total int64 `json:"total"`
	Small int64 `json:"small"`
	Large int64 `json:"large"`
}

// BookingStats represents aggregate booking counts
type BookingStats struct {
	Total     int64 `json:"total"`
	Pending   int64 `json:"pending"`
	Confirmed int64 `json:"confirmed"`
	Upcoming  int64 `json:"upcoming"`
}

// RoomBookingCount is the booking count for a single room.
type RoomBookingCount struct {
	RoomName string `json:"room_name" db:"room_name"`
	Count    int64  `json:"count" db:"count"`
}

// BookingStatusRow is an aggregated booking count for one status.
type BookingStatusRow struct {
	Status string `json:"status" db:"status"`
	Count  int64  `json:"count" db:"count"`
}

// @Summary      Get dashboard statistics
// @Description  Returns aggregated counts for the admin dashboard: users, organizations, rooms by category, bookings by status, issues, and the busiest rooms.
// @Tags         Stats
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  DashboardStats
// @Failure      401  {object}  map[string]interface{}  "Unauthorized"
// @Failure      500  {object}  map[string]interface{}  "Internal server error"
// @Router       /api/admin/stats [get]
// GetDashboardStats returns dashboard statistics using a single database round-trip for the core counts.
func (h *StatsHandler) GetDashboardStats(c *gin.Context) {
	ctx := c.Request.Context()

	// Core counts — single round-trip.
	query := `
		SELECT
			(SELECT COUNT(*) FROM users) AS user_count,
			(SELECT COUNT(*) FROM organizations) AS org_count,
			(SELECT COUNT(*) FROM rooms) AS room_count,
			(SELECT COUNT(*) FROM rooms WHERE category = 'small') AS small_count,
			(SELECT COUNT(*) FROM rooms WHERE category = 'large') AS large_count,
			(SELECT COUNT(*) FROM bookings) AS booking_count,
			(SELECT COUNT(*) FROM bookings WHERE status = 'pending') AS pending_count,
			(SELECT COUNT(*) FROM bookings WHERE status = 'confirmed') AS confirmed_count,
			(SELECT COUNT(*) FROM issues) AS issue_count
	`

	var stats DashboardStats

	err := h.db.QueryRowContext(ctx, query).Scan(
		&stats.Users,
		&stats.Organizations,
		&stats.Rooms.Total,
		&stats.Rooms.Small,
		&stats.Rooms.Large,
		&stats.Bookings.Total,
		&stats.Bookings.Pending,
		&stats.Bookings.Confirmed,
		&stats.Issues,
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load dashboard statistics"})
		return
	}

	// Upcoming bookings. Start instants live in date + minute columns, so the
	// comparison is done on the date alone; today's already-started bookings
	// still count as upcoming until midnight.
	if err := h.db.QueryRowContext(ctx, `
		SELECT COUNT(*)
		FROM bookings
		WHERE booking_date >= CURRENT_DATE
		  AND status IN ('pending', 'confirmed')
	`).Scan(&stats.Bookings.Upcoming); err != nil {
		slog.Error("stats: upcoming bookings count failed", "error", err)
		stats.Bookings.Upcoming = 0
	}

	// Busiest rooms — top 8.
	stats.BusiestRooms = []RoomBookingCount{}
	if err := h.db.SelectContext(ctx, &stats.BusiestRooms, `
		SELECT r.name AS room_name, COUNT(b.id) AS count
		FROM bookings b
		JOIN rooms r ON r.id = b.room_id
		GROUP BY r.name
		ORDER BY count DESC, r.name ASC
		LIMIT 8
	`); err != nil {
		slog.Error("stats: busiest rooms query failed", "error", err)
		stats.BusiestRooms = []RoomBookingCount{}
	}

	// Booking counts by status.
	stats.ByStatus = []BookingStatusRow{}
	if err := h.db.SelectContext(ctx, &stats.ByStatus, `
		SELECT status, COUNT(*) AS count
		FROM bookings
		GROUP BY status
		ORDER BY count DESC
	`); err != nil {
		slog.Error("stats: bookings-by-status query failed", "error", err)
		stats.ByStatus = []BookingStatusRow{}
	}

	c.JSON(http.StatusOK, stats)
}
