// requestid.go tags every request with an identifier that threads through the
// request logs and the audit trail.
package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// RequestIDHeader is the HTTP header used to propagate the request identifier.
	RequestIDHeader = "X-Request-ID"

	// RequestIDKey is the gin.Context key under which the request ID is stored.
	// The logger middleware and the audit middleware both read it from here.
	RequestIDKey = "request_id"

	// maxInboundRequestIDLength caps reused upstream IDs. Anything longer is
	// discarded and replaced, since the value ends up in audit_logs metadata.
	maxInboundRequestIDLength = 64
)

// RequestIDMiddleware ensures every request carries a request ID. An inbound
// X-Request-ID from the load balancer is reused when it looks sane; otherwise
// a fresh UUID is generated. The ID is stored under RequestIDKey and echoed in
// the response header so clients can quote it in support requests.
//
// Register it before the logging and audit middleware so both see the ID.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if !validInboundRequestID(id) {
			id = uuid.New().String()
		}

		c.Set(RequestIDKey, id)
		c.Header(RequestIDHeader, id)

		c.Next()
	}
}

// validInboundRequestID accepts non-empty printable ASCII up to the length cap.
func validInboundRequestID(id string) bool {
	if id == "" || len(id) > maxInboundRequestIDLength {
		return false
	}
	for i := 0; i < len(id); i++ {
		if id[i] <= 0x20 || id[i] >= 0x7f {
			return false
		}
	}
	return true
}
