package admin

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
)

var coreStatCols = []string{
	"user_count", "org_count", "room_count", "small_count", "large_count",
	"booking_count", "pending_count", "confirmed_count", "issue_count",
}

func newStatsRouter(t *testing.T) (sqlmock.Sqlmock, *gin.Engine) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	h := NewStatsHandler(sqlx.NewDb(db, "sqlmock"))

	r := gin.New()
	r.GET("/admin/stats", h.GetDashboardStats)

	return mock, r
}

func TestGetDashboardStats_Success(t *testing.T) {
	mock, r := newStatsRouter(t)

	mock.ExpectQuery("SELECT").
		WillReturnRows(sqlmock.NewRows(coreStatCols).
			AddRow(10, 2, 6, 4, 2, 30, 5, 20, 3))
	mock.ExpectQuery("SELECT COUNT.*FROM bookings.*booking_date >= CURRENT_DATE").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(7))
	mock.ExpectQuery("SELECT r.name AS room_name").
		WillReturnRows(sqlmock.NewRows([]string{"room_name", "count"}).
			AddRow("Huddle A", 12).
			AddRow("Boardroom", 9))
	mock.ExpectQuery("SELECT status, COUNT").
		WillReturnRows(sqlmock.NewRows([]string{"status", "count"}).
			AddRow("confirmed", 20).
			AddRow("pending", 5))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/admin/stats", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var stats DashboardStats
	if err := json.Unmarshal(w.Body.Bytes(), &stats); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if stats.Users != 10 {
		t.Errorf("Users = %d, want 10", stats.Users)
	}
	if stats.Rooms.Small != 4 || stats.Rooms.Large != 2 {
		t.Errorf("Rooms = %+v, want small 4 / large 2", stats.Rooms)
	}
	if stats.Bookings.Upcoming != 7 {
		t.Errorf("Upcoming = %d, want 7", stats.Bookings.Upcoming)
	}
	if len(stats.BusiestRooms) != 2 || stats.BusiestRooms[0].RoomName != "Huddle A" {
		t.Errorf("BusiestRooms = %+v", stats.BusiestRooms)
	}
	if len(stats.ByStatus) != 2 {
		t.Errorf("ByStatus = %+v", stats.ByStatus)
	}
}

func TestGetDashboardStats_CoreQueryError(t *testing.T) {
	mock, r := newStatsRouter(t)

	mock.ExpectQuery("SELECT").
		WillReturnError(errDB)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/admin/stats", nil))

	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", w.Code)
	}
}

func TestGetDashboardStats_OptionalQueriesFailSoft(t *testing.T) {
	mock, r := newStatsRouter(t)

	mock.ExpectQuery("SELECT").
		WillReturnRows(sqlmock.NewRows(coreStatCols).
			AddRow(1, 0, 0, 0, 0, 0, 0, 0, 0))
	mock.ExpectQuery("SELECT COUNT.*FROM bookings.*booking_date >= CURRENT_DATE").
		WillReturnError(errDB)
	mock.ExpectQuery("SELECT r.name AS room_name").
		WillReturnError(errDB)
	mock.ExpectQuery("SELECT status, COUNT").
		WillReturnError(errDB)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/admin/stats", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var stats DashboardStats
	if err := json.Unmarshal(w.Body.Bytes(), &stats); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if stats.BusiestRooms == nil || stats.ByStatus == nil {
		t.Error("optional aggregates should be empty slices, not null")
	}
	if stats.Bookings.Upcoming != 0 {
		t.Errorf("Upcoming = %d, want 0 when the count query fails", stats.Bookings.Upcoming)
	}
}
