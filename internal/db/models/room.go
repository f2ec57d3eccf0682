// Package models - room.go defines the Room model, static reference data
// describing bookable rooms by size category and capacity.
package models

import "time"

// Room categories.
const (
	RoomCategorySmall = "small"
	RoomCategoryLarge = "large"
)

// Room represents a bookable room
type Room struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Category    string    `json:"category"`
	Capacity    int       `json:"capacity"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// ValidRoomCategory reports whether c is a known room category.
func ValidRoomCategory(c string) bool {
	return c == RoomCategorySmall || c == RoomCategoryLarge
}

// RoomCategoryCount is an aggregated room count for one category.
type RoomCategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}
