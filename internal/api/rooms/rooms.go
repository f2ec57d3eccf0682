// rooms.go implements HTTP handlers for browsing rooms and the admin-only
// room creation endpoint. Room listings are public so the booking form can be
// rendered before login.
package rooms

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/roomreserve/roomreserve/internal/db/models"
	"github.com/roomreserve/roomreserve/internal/db/repositories"
)

// RoomHandlers handles room browsing and management endpoints
type RoomHandlers struct {
	roomRepo *repositories.RoomRepository
}

// NewRoomHandlers creates a new RoomHandlers instance
func NewRoomHandlers(db *sql.DB) *RoomHandlers {
	return &RoomHandlers{
		roomRepo: repositories.NewRoomRepository(db),
	}
}

// createRoomRequest is the JSON body for POST /api/rooms
type createRoomRequest struct {
	Name        string `json:"name"`
	Category    string `json:"category"`
	Capacity    int    `json:"capacity"`
	Description string `json:"description"`
}

// @Summary      List rooms
// @Description  List all rooms, optionally filtered by category (small or large).
// @Tags         Rooms
// @Produce      json
// @Param        category  query  string  false  "Room category filter: small or large"
// @Success      200  {object}  map[string]interface{}  "rooms: []models.Room"
// @Failure      400  {object}  map[string]interface{}  "Invalid category"
// @Router       /api/rooms [get]
// ListRoomsHandler lists rooms with an optional category filter
// GET /api/rooms?category=small|large
func (h *RoomHandlers) ListRoomsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		category := c.Query("category")
		if category != "" && !models.ValidRoomCategory(category) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid room category",
				"field": "category",
			})
			return
		}

		rooms, err := h.roomRepo.ListRooms(c.Request.Context(), category)
		if err != nil {
			slog.Error("failed to list rooms", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"rooms": rooms})
	}
}

// @Summary      Get room
// @Description  Get a single room by ID.
// @Tags         Rooms
// @Produce      json
// @Param        id  path  string  true  "Room ID"
// @Success      200  {object}  map[string]interface{}  "room: models.Room"
// @Failure      404  {object}  map[string]interface{}  "Room not found"
// @Router       /api/rooms/{id} [get]
// GetRoomHandler returns a single room
// GET /api/rooms/:id
func (h *RoomHandlers) GetRoomHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		room, err := h.roomRepo.GetRoomByID(c.Request.Context(), c.Param("id"))
		if err != nil {
			slog.Error("failed to get room", "room_id", c.Param("id"), "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}
		if room == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Room not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"room": room})
	}
}

// @Summary      Room category counts
// @Description  Aggregated number of rooms per category.
// @Tags         Rooms
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "categories: []models.RoomCategoryCount"
// @Router       /api/rooms/categories [get]
// CategoriesHandler returns the number of rooms in each category
// GET /api/rooms/categories
func (h *RoomHandlers) CategoriesHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		counts, err := h.roomRepo.CategoryCounts(c.Request.Context())
		if err != nil {
			slog.Error("failed to count room categories", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"categories": counts})
	}
}

// @Summary      Create room
// @Description  Create a new room. Admin only.
// @Tags         Rooms
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  createRoomRequest  true  "Room details"
// @Success      201  {object}  map[string]interface{}  "room: models.Room"
// @Failure      400  {object}  map[string]interface{}  "Validation error"
// @Failure      403  {object}  map[string]interface{}  "Administrator access required"
// @Router       /api/rooms [post]
// CreateRoomHandler creates a room (admin only, enforced by middleware)
// POST /api/rooms
func (h *RoomHandlers) CreateRoomHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createRoomRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}

		req.Name = strings.TrimSpace(req.Name)
		if req.Name == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Name is required", "field": "name"})
			return
		}
		if !models.ValidRoomCategory(req.Category) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid room category", "field": "category"})
			return
		}
		if req.Capacity < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Capacity must be at least 1", "field": "capacity"})
			return
		}

		room := &models.Room{
			Name:        req.Name,
			Category:    req.Category,
			Capacity:    req.Capacity,
			Description: req.Description,
		}
		if err := h.roomRepo.CreateRoom(c.Request.Context(), room); err != nil {
			slog.Error("failed to create room", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}

		c.JSON(http.StatusCreated, gin.H{"room": room})
	}
}
