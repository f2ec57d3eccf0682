// Package api wires together all HTTP routes for the room booking backend.
//
// Route grouping philosophy:
//   - Room browsing, signup/login, and issue intake are public: the booking
//     form and the problem-report form must render before a session exists.
//   - Everything under the authenticated group requires a valid session; the
//     admin group additionally requires the admin role.
//   - Participant join/leave endpoints live under /api/v2 alongside a v2 read
//     endpoint; the v1 booking routes predate the participant model and keep
//     their original shapes for existing clients.
package api

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/roomreserve/roomreserve/internal/api/accounts"
	"github.com/roomreserve/roomreserve/internal/api/admin"
	"github.com/roomreserve/roomreserve/internal/api/bookings"
	"github.com/roomreserve/roomreserve/internal/api/issues"
	"github.com/roomreserve/roomreserve/internal/api/rooms"
	"github.com/roomreserve/roomreserve/internal/config"
	"github.com/roomreserve/roomreserve/internal/db/models"
	"github.com/roomreserve/roomreserve/internal/db/repositories"
	"github.com/roomreserve/roomreserve/internal/jobs"
	"github.com/roomreserve/roomreserve/internal/middleware"
)

// BackgroundServices holds references to background jobs and resources that must
// be stopped during graceful shutdown. The caller (cmd/server) is responsible for
// calling Shutdown() when the process receives a termination signal.
type BackgroundServices struct {
	completer    *jobs.BookingCompleter
	rateLimiters []*middleware.RateLimiter
	redisLimiter *middleware.RedisRateLimiter
}

// Shutdown stops all background goroutines. It should be called after the HTTP
// server has been shut down so that in-flight requests are drained first.
func (bg *BackgroundServices) Shutdown() {
	slog.Info("stopping background services")
	if bg.completer != nil {
		bg.completer.Stop()
	}
	for _, rl := range bg.rateLimiters {
		rl.Stop()
	}
	if bg.redisLimiter != nil {
		bg.redisLimiter.Stop()
	}
	slog.Info("all background services stopped")
}

// NewRouter creates and configures the Gin router
func NewRouter(cfg *config.Config, db *sql.DB) (*gin.Engine, *BackgroundServices) {
	router := gin.New()

	// Initialize repositories shared by middleware
	userRepo := repositories.NewUserRepository(db)
	orgRepo := repositories.NewOrganizationRepository(db)
	auditRepo := repositories.NewAuditRepository(db)
	bookingRepo := repositories.NewBookingRepository(db)

	// Wrap *sql.DB with sqlx for the issue and stats handlers
	sqlxDB := sqlx.NewDb(db, "postgres")

	// Initialize handlers
	accountHandlers := accounts.NewAccountHandlers(cfg, db)
	roomHandlers := rooms.NewRoomHandlers(db)
	bookingHandlers := bookings.NewBookingHandlers(db)
	issueHandlers := issues.NewIssueHandlers(sqlxDB)
	orgHandlers := admin.NewOrganizationHandlers(cfg, db)
	adminUserHandlers := admin.NewUserHandlers(cfg, db)
	issueAdminHandlers := admin.NewIssueAdminHandlers(sqlxDB)
	statsHandler := admin.NewStatsHandler(sqlxDB)

	// Start the booking completion sweeper
	var completer *jobs.BookingCompleter
	if cfg.Jobs.BookingCompleter.Enabled {
		completer = jobs.NewBookingCompleter(bookingRepo, cfg.Jobs.BookingCompleter.IntervalMinutes)
		go completer.Start(context.Background())
	}

	// Add middleware
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.MetricsMiddleware())
	router.Use(LoggerMiddleware(cfg))
	router.Use(CORSMiddleware(cfg))
	router.Use(middleware.SecurityHeadersMiddleware(middleware.APISecurityHeadersConfig()))

	// Health check endpoint
	router.GET("/health", healthCheckHandler(db))

	// Readiness check endpoint
	router.GET("/ready", readinessHandler(db))

	// API version
	router.GET("/version", versionHandler())

	// Rate limiting. A Redis address switches enforcement to shared counters;
	// otherwise each replica keeps in-memory token buckets.
	bg := &BackgroundServices{completer: completer}
	var generalLimit, authLimit, issueLimit gin.HandlerFunc
	if cfg.Security.RateLimiting.Enabled {
		if cfg.Security.RateLimiting.RedisAddr != "" {
			redisLimiter, err := middleware.NewRedisRateLimiter(
				cfg.Security.RateLimiting.RedisAddr,
				cfg.Security.RateLimiting.RedisPassword,
				cfg.Security.RateLimiting.RedisDB,
				cfg.Security.RateLimiting.RequestsPerMinute,
			)
			if err != nil {
				log.Printf("Redis rate limiter unavailable, falling back to in-memory limits: %v", err)
			} else {
				bg.redisLimiter = redisLimiter
				shared := middleware.RedisRateLimitMiddleware(redisLimiter)
				generalLimit, authLimit, issueLimit = shared, shared, shared
			}
		}
		if generalLimit == nil {
			generalCfg := middleware.DefaultRateLimitConfig()
			generalCfg.RequestsPerMinute = cfg.Security.RateLimiting.RequestsPerMinute
			generalCfg.BurstSize = cfg.Security.RateLimiting.Burst
			generalLimiter := middleware.NewRateLimiter(generalCfg)
			authLimiter := middleware.NewRateLimiter(middleware.AuthRateLimitConfig())
			issueLimiter := middleware.NewRateLimiter(middleware.IssueRateLimitConfig())
			bg.rateLimiters = []*middleware.RateLimiter{generalLimiter, authLimiter, issueLimiter}
			generalLimit = middleware.RateLimitMiddleware(generalLimiter)
			authLimit = middleware.RateLimitMiddleware(authLimiter)
			issueLimit = middleware.RateLimitMiddleware(issueLimiter)
		}
	} else {
		noop := func(c *gin.Context) { c.Next() }
		generalLimit, authLimit, issueLimit = noop, noop, noop
	}

	// Public account endpoints. Login and signup get the stricter auth preset
	// to slow down credential stuffing.
	authGroup := router.Group("/api/auth")
	{
		authGroup.POST("/signup", authLimit, accountHandlers.SignupHandler())
		authGroup.POST("/login", authLimit, accountHandlers.LoginHandler())
		authGroup.POST("/logout", accountHandlers.LogoutHandler())
	}

	// Public room browsing
	roomsGroup := router.Group("/api/rooms")
	roomsGroup.Use(generalLimit)
	{
		roomsGroup.GET("", roomHandlers.ListRoomsHandler())
		roomsGroup.GET("/categories", roomHandlers.CategoriesHandler())
		roomsGroup.GET("/:id", roomHandlers.GetRoomHandler())
	}

	// Issue intake: anonymous is allowed, but a session attributes the report.
	router.POST("/api/issues",
		issueLimit,
		middleware.OptionalAuthMiddleware(userRepo),
		issueHandlers.CreateIssueHandler(),
	)

	// Authenticated endpoints
	authed := router.Group("/api")
	authed.Use(generalLimit)
	authed.Use(middleware.AuthMiddleware(userRepo))
	authed.Use(middleware.AuditMiddleware(auditRepo))
	{
		authed.GET("/auth/me", accountHandlers.MeHandler())

		authed.POST("/bookings", bookingHandlers.CreateBookingHandler())
		authed.GET("/bookings/:id", bookingHandlers.GetBookingHandler())
		authed.PATCH("/bookings/:id", bookingHandlers.UpdateBookingStatusHandler())
		authed.DELETE("/bookings/:id", bookingHandlers.DeleteBookingHandler())

		authed.GET("/user/bookings", bookingHandlers.ListUserBookingsHandler())

		// v2 carries the participant model
		authed.GET("/v2/bookings/:id", bookingHandlers.GetBookingHandler())
		authed.PATCH("/v2/bookings/:id", bookingHandlers.UpdateBookingStatusHandler())
		authed.DELETE("/v2/bookings/:id", bookingHandlers.DeleteBookingHandler())
		authed.POST("/v2/bookings/:id/join", bookingHandlers.JoinBookingHandler())
		authed.DELETE("/v2/bookings/:id/join", bookingHandlers.LeaveBookingHandler())

		// Facility issues are triaged by officers; admins see the same queue
		// at /admin/issues.
		authed.GET("/issues",
			middleware.RequireRole(models.RoleOfficer, models.RoleAdmin),
			issueAdminHandlers.ListIssuesHandler(),
		)

		// Organization reads are open to that organization's members
		memberReads := authed.Group("/organizations")
		memberReads.Use(middleware.RequireOrgMembership(orgRepo))
		{
			memberReads.GET("/:id", orgHandlers.GetOrganizationHandler())
			memberReads.GET("/:id/members", orgHandlers.ListMembersHandler())
		}

		// Admin endpoints
		adminGroup := authed.Group("")
		adminGroup.Use(middleware.RequireAdmin())
		{
			adminGroup.GET("/organizations", orgHandlers.ListOrganizationsHandler())
			adminGroup.POST("/organizations", orgHandlers.CreateOrganizationHandler())
			adminGroup.POST("/organizations/:id/members", orgHandlers.AddMemberHandler())
			adminGroup.DELETE("/organizations/:id/members/:user_id", orgHandlers.RemoveMemberHandler())

			adminGroup.POST("/rooms", roomHandlers.CreateRoomHandler())

			adminGroup.GET("/admin/stats", statsHandler.GetDashboardStats)
			adminGroup.GET("/admin/users", adminUserHandlers.ListUsersHandler())
			adminGroup.PATCH("/admin/users/:id/role", adminUserHandlers.UpdateUserRoleHandler())
			adminGroup.GET("/admin/issues", issueAdminHandlers.ListIssuesHandler())
		}
	}

	return router, bg
}

// @Summary      Health check
// @Description  Returns the health status of the service, including database connectivity.
// @Tags         System
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "status: healthy, time: RFC3339 timestamp"
// @Failure      503  {object}  map[string]interface{}  "status: unhealthy, error: database connection failed"
// @Router       /health [get]
// healthCheckHandler returns the health status of the service
func healthCheckHandler(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Check database connection
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "unhealthy",
				"error":  "database connection failed",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status": "healthy",
			"time":   time.Now().UTC().Format(time.RFC3339),
		})
	}
}

// @Summary      Readiness check
// @Description  Returns whether the service is ready to accept traffic. Checks database connectivity.
// @Tags         System
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "ready: true, time: RFC3339 timestamp"
// @Failure      503  {object}  map[string]interface{}  "ready: false, error: database not ready"
// @Router       /ready [get]
// readinessHandler returns the readiness status of the service.
func readinessHandler(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		checks := gin.H{}

		// Check database connection
		if err := db.Ping(); err != nil {
			checks["database"] = "unhealthy"
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"ready":  false,
				"checks": checks,
				"error":  "database not ready",
			})
			return
		}
		checks["database"] = "healthy"

		c.JSON(http.StatusOK, gin.H{
			"ready":  true,
			"checks": checks,
			"time":   time.Now().UTC().Format(time.RFC3339),
		})
	}
}

// @Summary      API version
// @Description  Returns the current API version and the supported booking API revisions.
// @Tags         System
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "version, api_version, revisions"
// @Router       /version [get]
// versionHandler returns the API version
func versionHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"version":     "0.1.0",
			"api_version": "v2",
			"revisions": gin.H{
				"bookings": "v2",
			},
		})
	}
}

// LoggerMiddleware provides structured logging
func LoggerMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)

		logRequest(c, latency, path, query)
	}
}

// logRequest logs a request as a structured slog record. The output format
// (json or text) follows the global handler configured in telemetry.SetupLogger.
func logRequest(c *gin.Context, latency time.Duration, path, query string) {
	requestID, _ := c.Get(middleware.RequestIDKey)
	slog.LogAttrs(
		c.Request.Context(),
		slog.LevelInfo,
		"http request",
		slog.String("method", c.Request.Method),
		slog.String("path", path),
		slog.String("query", query),
		slog.Int("status", c.Writer.Status()),
		slog.Int("size", c.Writer.Size()),
		slog.Duration("latency", latency),
		slog.String("ip", c.ClientIP()),
		slog.String("request_id", fmt.Sprintf("%v", requestID)),
		slog.String("user_agent", c.Request.UserAgent()),
	)
}

// CORSMiddleware handles CORS
func CORSMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")

		// Check if origin is allowed
		allowed := false
		for _, allowedOrigin := range cfg.Security.CORS.AllowedOrigins {
			if allowedOrigin == "*" || allowedOrigin == origin {
				allowed = true
				break
			}
		}

		if allowed {
			if origin == "" {
				c.Header("Access-Control-Allow-Origin", "*")
			} else {
				c.Header("Access-Control-Allow-Origin", origin)
			}
			c.Header("Access-Control-Allow-Credentials", "true")
			c.Header("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
			c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization, X-Requested-With")
			c.Header("Access-Control-Max-Age", "3600")
		}

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
