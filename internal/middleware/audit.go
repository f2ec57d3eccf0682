// audit.go provides Gin middleware that records authenticated write operations
// to the audit log.
package middleware

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/roomreserve/roomreserve/internal/db/models"
	"github.com/roomreserve/roomreserve/internal/db/repositories"
	"github.com/roomreserve/roomreserve/internal/safego"
)

// AuditMiddleware logs successful authenticated write operations to the
// database. Reads and failed requests are not recorded.
func AuditMiddleware(auditRepo *repositories.AuditRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Request.Method == "GET" || c.Request.Method == "OPTIONS" {
			return
		}
		if c.Writer.Status() >= 400 {
			return
		}

		entry := &models.AuditLog{
			Action:    c.Request.Method + " " + c.Request.URL.Path,
			CreatedAt: time.Now(),
		}

		ip := c.ClientIP()
		entry.IPAddress = &ip

		if userID, ok := c.Get("user_id"); ok {
			if uid, ok := userID.(string); ok {
				entry.UserID = &uid
			}
		}

		if rt := resourceTypeFromPath(c.Request.URL.Path); rt != "" {
			entry.ResourceType = &rt
		}

		metadata := map[string]interface{}{
			"status_code": c.Writer.Status(),
		}
		if requestID, ok := c.Get(RequestIDKey); ok {
			metadata["request_id"] = requestID
		}
		entry.Metadata = metadata

		// Audit writes never block the response
		safego.Go(func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := auditRepo.CreateAuditLog(ctx, entry); err != nil {
				slog.Error("failed to write audit log", "action", entry.Action, "error", err)
			}
		})
	}
}

// resourceTypeFromPath infers the affected resource type from the request path.
func resourceTypeFromPath(path string) string {
	switch {
	case strings.Contains(path, "/bookings"):
		return "booking"
	case strings.Contains(path, "/organizations"):
		return "organization"
	case strings.Contains(path, "/rooms"):
		return "room"
	case strings.Contains(path, "/issues"):
		return "issue"
	case strings.Contains(path, "/users"):
		return "user"
	case strings.Contains(path, "/auth"):
		return "session"
	}
	return ""
}
