// bookings.go implements HTTP handlers for creating, inspecting, and managing
// bookings, including the join/leave participant endpoints and the per-user
// booking list. All business rules live in the services package; handlers only
// bind JSON, resolve the session, and translate service errors to HTTP.
package bookings

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/roomreserve/roomreserve/internal/db/repositories"
	"github.com/roomreserve/roomreserve/internal/services"
	"github.com/roomreserve/roomreserve/internal/telemetry"
)

// BookingHandlers handles booking endpoints
type BookingHandlers struct {
	svc *services.BookingService
}

// NewBookingHandlers creates a new BookingHandlers instance
func NewBookingHandlers(db *sql.DB) *BookingHandlers {
	bookingRepo := repositories.NewBookingRepository(db)
	roomRepo := repositories.NewRoomRepository(db)
	orgRepo := repositories.NewOrganizationRepository(db)
	authz := services.NewAuthorizationService(repositories.NewUserRepository(db))
	return &BookingHandlers{
		svc: services.NewBookingService(bookingRepo, roomRepo, orgRepo, authz),
	}
}

// createBookingRequest is the JSON body for POST /api/bookings. The wire
// names are the public API contract; the struct is mapped onto
// services.CreateBookingRequest before any validation runs.
type createBookingRequest struct {
	Category        string  `json:"category"`
	Date            string  `json:"date"`
	StartTime       string  `json:"startTime"`
	Duration        int     `json:"duration"`
	OrganizationID  *string `json:"organizationId"`
	Visibility      string  `json:"visibility"`
	MaxParticipants int     `json:"maxParticipants"`
}

// updateStatusRequest is the JSON body for PATCH /api/bookings/:id
type updateStatusRequest struct {
	Status string `json:"status"`
}

// @Summary      Create booking
// @Description  Reserve the first available room in a category for a date and time window. Organization bookings start pending; personal bookings are confirmed immediately.
// @Tags         Bookings
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  createBookingRequest  true  "Booking details"
// @Success      201  {object}  map[string]interface{}  "booking: models.BookingWithRoom"
// @Failure      400  {object}  map[string]interface{}  "Validation error"
// @Failure      404  {object}  map[string]interface{}  "No rooms available"
// @Router       /api/bookings [post]
// CreateBookingHandler creates a booking
// POST /api/bookings
func (h *BookingHandlers) CreateBookingHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createBookingRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}

		booking, err := h.svc.Create(c.Request.Context(), c.GetString("user_id"), services.CreateBookingRequest{
			Category:        req.Category,
			Date:            req.Date,
			StartTime:       req.StartTime,
			DurationMinutes: req.Duration,
			OrganizationID:  req.OrganizationID,
			Visibility:      req.Visibility,
			MaxParticipants: req.MaxParticipants,
		})
		if err != nil {
			respondServiceError(c, err)
			return
		}

		telemetry.BookingsCreatedTotal.WithLabelValues(booking.RoomCategory, booking.Status).Inc()
		c.JSON(http.StatusCreated, gin.H{"booking": booking})
	}
}

// @Summary      Get booking
// @Description  Get a booking by ID, including room details and participants.
// @Tags         Bookings
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "Booking ID"
// @Success      200  {object}  map[string]interface{}  "booking: models.BookingWithRoom"
// @Failure      404  {object}  map[string]interface{}  "Booking not found"
// @Router       /api/bookings/{id} [get]
// GetBookingHandler returns a single booking
// GET /api/bookings/:id
func (h *BookingHandlers) GetBookingHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		booking, err := h.svc.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"booking": booking})
	}
}

// @Summary      Update booking status
// @Description  Set a booking's status. Only the creator or an admin may modify a booking.
// @Tags         Bookings
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string               true  "Booking ID"
// @Param        body  body  updateStatusRequest  true  "New status"
// @Success      200  {object}  map[string]interface{}  "booking: models.BookingWithRoom"
// @Failure      400  {object}  map[string]interface{}  "Invalid status"
// @Failure      403  {object}  map[string]interface{}  "Not the creator or an admin"
// @Failure      404  {object}  map[string]interface{}  "Booking not found"
// @Router       /api/bookings/{id} [patch]
// UpdateBookingStatusHandler updates a booking's status
// PATCH /api/bookings/:id
func (h *BookingHandlers) UpdateBookingStatusHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req updateStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}

		booking, err := h.svc.UpdateStatus(c.Request.Context(), c.Param("id"), c.GetString("user_id"), req.Status)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"booking": booking})
	}
}

// @Summary      Delete booking
// @Description  Permanently delete a booking. Admin only; non-admin creators cancel via status instead.
// @Tags         Bookings
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "Booking ID"
// @Success      200  {object}  map[string]interface{}  "message: Booking deleted"
// @Failure      403  {object}  map[string]interface{}  "Only administrators can delete bookings"
// @Failure      404  {object}  map[string]interface{}  "Booking not found"
// @Router       /api/bookings/{id} [delete]
// DeleteBookingHandler deletes a booking (admin only)
// DELETE /api/bookings/:id
func (h *BookingHandlers) DeleteBookingHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := h.svc.Delete(c.Request.Context(), c.Param("id"), c.GetString("user_id")); err != nil {
			respondServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Booking deleted"})
	}
}

// @Summary      Join booking
// @Description  Join a public or organization-visible booking as a participant.
// @Tags         Bookings
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "Booking ID"
// @Success      200  {object}  map[string]interface{}  "booking: models.BookingWithRoom"
// @Failure      400  {object}  map[string]interface{}  "Already joined, full, or already started"
// @Failure      403  {object}  map[string]interface{}  "Not joinable or not an organization member"
// @Failure      404  {object}  map[string]interface{}  "Booking not found"
// @Router       /api/v2/bookings/{id}/join [post]
// JoinBookingHandler adds the caller as a participant
// POST /api/v2/bookings/:id/join
func (h *BookingHandlers) JoinBookingHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		booking, err := h.svc.Join(c.Request.Context(), c.Param("id"), c.GetString("user_id"))
		if err != nil {
			respondServiceError(c, err)
			return
		}
		telemetry.BookingJoinsTotal.Inc()
		c.JSON(http.StatusOK, gin.H{"booking": booking})
	}
}

// @Summary      Leave booking
// @Description  Leave a booking previously joined. The creator cannot leave their own booking.
// @Tags         Bookings
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "Booking ID"
// @Success      200  {object}  map[string]interface{}  "booking: models.BookingWithRoom"
// @Failure      400  {object}  map[string]interface{}  "Not a participant or already started"
// @Failure      403  {object}  map[string]interface{}  "The creator cannot leave their own booking"
// @Failure      404  {object}  map[string]interface{}  "Booking not found"
// @Router       /api/v2/bookings/{id}/join [delete]
// LeaveBookingHandler removes the caller from the participant list
// DELETE /api/v2/bookings/:id/join
func (h *BookingHandlers) LeaveBookingHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		booking, err := h.svc.Leave(c.Request.Context(), c.Param("id"), c.GetString("user_id"))
		if err != nil {
			respondServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"booking": booking})
	}
}

// @Summary      List my bookings
// @Description  List the caller's bookings, newest first, optionally filtered by status or restricted to upcoming bookings.
// @Tags         Bookings
// @Security     Bearer
// @Produce      json
// @Param        status    query  string  false  "Status filter"
// @Param        upcoming  query  bool    false  "Only bookings that have not yet started"
// @Success      200  {object}  map[string]interface{}  "bookings: []models.BookingWithRoom"
// @Failure      400  {object}  map[string]interface{}  "Invalid status"
// @Router       /api/user/bookings [get]
// ListUserBookingsHandler lists the caller's bookings
// GET /api/user/bookings?status=&upcoming=true
func (h *BookingHandlers) ListUserBookingsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		upcoming := c.Query("upcoming") == "true"
		bookings, err := h.svc.ListForUser(c.Request.Context(), c.GetString("user_id"), c.Query("status"), upcoming)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"bookings": bookings})
	}
}

// respondServiceError maps a services.Error to its HTTP status and JSON body.
// Anything else is treated as an internal error: logged with detail, returned
// opaque so storage internals never leak to clients.
func respondServiceError(c *gin.Context, err error) {
	var svcErr *services.Error
	if errors.As(err, &svcErr) {
		body := gin.H{"error": svcErr.Message}
		if svcErr.Field != "" {
			body["field"] = svcErr.Field
		}
		c.JSON(svcErr.HTTPStatus(), body)
		return
	}
	slog.Error("booking handler: internal error", "method", c.Request.Method, "path", c.FullPath(), "error", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
}
