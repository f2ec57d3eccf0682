// Package models - booking.go defines the Booking model, its status and
// visibility enums, and the room-enriched view returned by the booking API.
package models

import (
	"fmt"
	"time"
)

// Booking statuses. Transitions are not constrained beyond the enum itself:
// any status may be set from any other by an authorized caller.
const (
	BookingStatusPending   = "pending"
	BookingStatusConfirmed = "confirmed"
	BookingStatusCancelled = "cancelled"
	BookingStatusCompleted = "completed"
	BookingStatusRejected  = "rejected"
)

// Booking visibility controls who may discover and join a booking.
const (
	VisibilityPrivate = "private"
	VisibilityPublic  = "public"
	VisibilityOrg     = "org"
)

// Booking represents a reservation of a room for a date/time window,
// optionally on behalf of an organization.
type Booking struct {
	ID              string    `json:"id"`
	UserID          string    `json:"user_id"`
	RoomID          string    `json:"room_id"`
	OrganizationID  *string   `json:"organization_id"`
	Date            string    `json:"date"`       // YYYY-MM-DD
	StartTime       string    `json:"start_time"` // HH:MM, local wall clock
	DurationMinutes int       `json:"duration_minutes"`
	Status          string    `json:"status"`
	Visibility      string    `json:"visibility"`
	MaxParticipants int       `json:"max_participants"`
	Participants    []string  `json:"participants"` // user ids, excluding the creator
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// BookingWithRoom is a booking joined with the reserved room's details.
type BookingWithRoom struct {
	Booking
	RoomName     string `json:"room_name"`
	RoomCategory string `json:"room_category"`
	RoomCapacity int    `json:"room_capacity"`
}

// ValidBookingStatus reports whether s is a known booking status.
func ValidBookingStatus(s string) bool {
	switch s {
	case BookingStatusPending, BookingStatusConfirmed, BookingStatusCancelled,
		BookingStatusCompleted, BookingStatusRejected:
		return true
	}
	return false
}

// ValidVisibility reports whether v is a known visibility value.
func ValidVisibility(v string) bool {
	return v == VisibilityPrivate || v == VisibilityPublic || v == VisibilityOrg
}

// StartDateTime parses the booking's date and start time as local wall clock.
func (b *Booking) StartDateTime() (time.Time, error) {
	t, err := time.ParseInLocation("2006-01-02 15:04", b.Date+" "+b.StartTime, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse booking start: %w", err)
	}
	return t, nil
}

// IsParticipant returns true if userID is in the participant list.
func (b *Booking) IsParticipant(userID string) bool {
	for _, p := range b.Participants {
		if p == userID {
			return true
		}
	}
	return false
}
