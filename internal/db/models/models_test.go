package models

import (
	"testing"
	"time"
)

// ---------------------------------------------------------------------------
// Booking enums
// ---------------------------------------------------------------------------

func TestValidBookingStatus(t *testing.T) {
	valid := []string{"pending", "confirmed", "cancelled", "completed", "rejected"}
	for _, s := range valid {
		if !ValidBookingStatus(s) {
			t.Errorf("ValidBookingStatus(%q) = false, want true", s)
		}
	}
	invalid := []string{"", "PENDING", "paused", "done", "confirmed "}
	for _, s := range invalid {
		if ValidBookingStatus(s) {
			t.Errorf("ValidBookingStatus(%q) = true, want false", s)
		}
	}
}

func TestValidVisibility(t *testing.T) {
	for _, v := range []string{"private", "public", "org"} {
		if !ValidVisibility(v) {
			t.Errorf("ValidVisibility(%q) = false, want true", v)
		}
	}
	for _, v := range []string{"", "Private", "organization", "hidden"} {
		if ValidVisibility(v) {
			t.Errorf("ValidVisibility(%q) = true, want false", v)
		}
	}
}

// ---------------------------------------------------------------------------
// Booking.StartDateTime
// ---------------------------------------------------------------------------

func TestStartDateTime_ParsesLocalWallClock(t *testing.T) {
	b := &Booking{Date: "2026-03-15", StartTime: "09:30"}
	got, err := b.StartDateTime()
	if err != nil {
		t.Fatalf("StartDateTime() error: %v", err)
	}
	want := time.Date(2026, 3, 15, 9, 30, 0, 0, time.Local)
	if !got.Equal(want) {
		t.Errorf("StartDateTime() = %v, want %v", got, want)
	}
}

func TestStartDateTime_InvalidDate(t *testing.T) {
	b := &Booking{Date: "15-03-2026", StartTime: "09:30"}
	if _, err := b.StartDateTime(); err == nil {
		t.Error("StartDateTime() expected error for malformed date, got nil")
	}
}

func TestStartDateTime_InvalidTime(t *testing.T) {
	b := &Booking{Date: "2026-03-15", StartTime: "9:30am"}
	if _, err := b.StartDateTime(); err == nil {
		t.Error("StartDateTime() expected error for malformed time, got nil")
	}
}

// ---------------------------------------------------------------------------
// Booking.IsParticipant
// ---------------------------------------------------------------------------

func TestIsParticipant(t *testing.T) {
	b := &Booking{Participants: []string{"user-2", "user-3"}}

	if !b.IsParticipant("user-2") {
		t.Error("IsParticipant(user-2) = false, want true")
	}
	if b.IsParticipant("user-1") {
		t.Error("IsParticipant(user-1) = true, want false")
	}

	empty := &Booking{}
	if empty.IsParticipant("user-2") {
		t.Error("IsParticipant on empty list = true, want false")
	}
}

// ---------------------------------------------------------------------------
// Room
// ---------------------------------------------------------------------------

func TestValidRoomCategory(t *testing.T) {
	if !ValidRoomCategory("small") || !ValidRoomCategory("large") {
		t.Error("ValidRoomCategory rejected a known category")
	}
	for _, c := range []string{"", "medium", "Small", "LARGE"} {
		if ValidRoomCategory(c) {
			t.Errorf("ValidRoomCategory(%q) = true, want false", c)
		}
	}
}
