package api

import (
	"log/slog"
	"net/http"

	"github.com/Domenick1991/skybook/internal/repository"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

type RouterDeps struct {
	Secret        string
	Users         repository.UserRepository
	LegacyLimiter *rate.Limiter
	Logger        *slog.Logger

	Bookings *BookingHandler
	Flights  *FlightHandler
	Alerts   *AlertHandler
	Admin    *AdminHandler
}

func NewRouter(deps RouterDeps) *gin.Engine {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(logger))

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "skybook-backend"})
	})

	legacy := r.Group("/")
	if deps.LegacyLimiter != nil {
		legacy.Use(RateLimit(deps.LegacyLimiter))
	}
	deps.Alerts.RegisterLegacy(legacy)

	public := r.Group("/api")
	deps.Flights.Register(public)

	authed := r.Group("/api", Auth(deps.Secret, deps.Users, logger))
	deps.Bookings.Register(authed)
	deps.Alerts.Register(authed)
	deps.Admin.Register(authed)

	return r
}

func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		logger.Debug("request", "method", c.Request.Method, "path", c.FullPath(), "status", c.Writer.Status())
	}
}
