// Package api serves sessions, navigation and screen actions over HTTP.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"

	"attendtrack/internal/auth"
	"attendtrack/internal/config"
	"attendtrack/internal/httpmiddleware"
	"attendtrack/internal/journal"
	"attendtrack/internal/metrics"
	"attendtrack/internal/screens"
	"attendtrack/internal/session"
)

// EventLister reads the navigation journal.
type EventLister interface {
	List(ctx context.Context, sessionID string, limit, offset int) ([]journal.Event, error)
}

// Deps are the collaborators the router needs. Journal, Events and Checks
// may be nil.
type Deps struct {
	Config   config.App
	Sessions session.Store
	Journal  *journal.Publisher
	Events   EventLister
	Metrics  *metrics.Metrics
	Checks   map[string]func(context.Context) bool
	Now      screens.Clock
}

// Server holds the handlers' shared state.
type Server struct {
	cfg      config.App
	sessions session.Store
	journal  *journal.Publisher
	events   EventLister
	metrics  *metrics.Metrics
	checks   map[string]func(context.Context) bool
	now      screens.Clock
}

// NewServer builds a server from d, defaulting the clock to time.Now.
func NewServer(d Deps) *Server {
	now := d.Now
	if now == nil {
		now = time.Now
	}
	return &Server{
		cfg:      d.Config,
		sessions: d.Sessions,
		journal:  d.Journal,
		events:   d.Events,
		metrics:  d.Metrics,
		checks:   d.Checks,
		now:      now,
	}
}

// Router builds the gin engine with middleware and every route.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		SkipPaths: []string{"/healthz", "/metrics"},
	}))
	r.Use(cors.New(cors.Config{
		AllowOriginFunc:  func(string) bool { return true },
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
		MaxAge:           24 * time.Hour,
	}))
	r.Use(securityHeaders())
	if s.metrics != nil {
		r.Use(s.metrics.GinMiddleware())
	}
	if s.cfg.RateLimitPerMin > 0 {
		r.Use(httpmiddleware.NewTokenBucket(s.cfg.RateLimitPerMin, s.cfg.RateLimitPerMin).GinMiddleware())
	}

	store := cookie.NewStore([]byte(s.cfg.CookieSecret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   int(s.cfg.SessionTTL.Seconds()),
		HttpOnly: true,
		Secure:   s.cfg.Production(),
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions(auth.CookieName, store))

	r.GET("/healthz", s.healthz)
	r.POST("/v1/sessions", s.startSession)

	authed := r.Group("/v1", auth.SessionAuth(s.cfg.JWTSigningKey, s.cfg.JWTIssuer))
	authed.GET("/events", s.listEvents)

	sess := authed.Group("/session")
	sess.GET("", s.currentView)
	sess.DELETE("", s.endSession)
	sess.POST("/role", s.selectRole)
	sess.POST("/login", s.login)
	sess.POST("/back", s.back)
	sess.POST("/welcome", s.backToWelcome)
	sess.POST("/navigate", s.navigate)
	sess.POST("/tab", s.changeTab)
	sess.POST("/logout", s.logout)

	sess.POST("/calendar/month", s.shiftMonth)
	sess.GET("/calendar/days/:date", s.dayDetails)
	sess.GET("/roster", s.roster)
	sess.POST("/roster/:id/toggle", s.toggleStudent)
	sess.POST("/roster/save", s.saveAttendance)
	sess.POST("/alerts/:id/dismiss", s.dismissAlert)
	sess.POST("/alerts/:id/action", s.alertAction)
	sess.PUT("/goal", s.setGoal)
	sess.PUT("/preferences", s.updatePreferences)
	sess.GET("/profile/qr", s.classQR)
	sess.POST("/profile/:action", s.profileAction)

	return r
}

func (s *Server) healthz(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	body := gin.H{"status": "ok", "sessions": s.sessions.Healthy(ctx)}
	status := http.StatusOK
	if !body["sessions"].(bool) {
		status = http.StatusServiceUnavailable
		body["status"] = "degraded"
	}
	// optional backends are reported but do not fail the check
	for name, check := range s.checks {
		body[name] = check(ctx)
	}
	c.JSON(status, body)
}

func securityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		if gin.Mode() == gin.ReleaseMode {
			c.Header("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}
		c.Next()
	}
}
