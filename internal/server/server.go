package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"gymhub/internal/appointment"
	"gymhub/internal/auth"
	"gymhub/internal/booking"
	"gymhub/internal/config"
	"gymhub/internal/credit"
	"gymhub/internal/email"
	"gymhub/internal/gymservice"
	"gymhub/internal/location"
	"gymhub/internal/realtime"
	"gymhub/internal/user"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
)

// Deps are the long-lived collaborators the HTTP layer is built from.
type Deps struct {
	DB        *sqlx.DB
	Config    *config.Config
	Email     *email.Service
	Hub       *realtime.Hub
	Publisher *realtime.Publisher
	Payments  credit.Provider
}

type Server struct {
	router  *gin.Engine
	http    *http.Server
	limiter *RateLimiter
	deps    Deps
}

func New(deps Deps) *Server {
	cfg := deps.Config

	router := gin.New()
	limiter := NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, 3*time.Minute)
	router.Use(
		gin.Recovery(),
		RequestIDMiddleware(),
		RequestLoggingMiddleware(),
		MetricsMiddleware(),
		corsMiddleware(),
	)

	// typed nils must not leak into the services' interface fields
	var (
		bookingPublisher booking.Publisher
		bookingNotifier  booking.Notifier
		creditNotifier   credit.Notifier
	)
	if deps.Publisher != nil {
		bookingPublisher = deps.Publisher
	}
	if deps.Email != nil {
		bookingNotifier = deps.Email
		creditNotifier = deps.Email
	}

	userHandler := user.NewHandler(user.NewService(user.NewRepository(deps.DB), cfg.JWTSecret))
	locationHandler := location.NewHandler(location.NewService(location.NewRepository(deps.DB)))
	serviceHandler := gymservice.NewHandler(gymservice.NewService(gymservice.NewRepository(deps.DB)))
	appointmentHandler := appointment.NewHandler(appointment.NewService(appointment.NewRepository(deps.DB)))
	bookingHandler := booking.NewHandler(booking.NewService(booking.NewRepository(deps.DB), bookingPublisher, bookingNotifier))
	creditHandler := credit.NewHandler(credit.NewService(credit.NewRepository(deps.DB), deps.Payments, creditNotifier))

	router.GET("/health", Health(deps.DB))
	router.GET("/metrics", Metrics())
	if deps.Hub != nil {
		router.GET("/ws", deps.Hub.ServeWS)
	}

	public := router.Group("/auth")
	public.Use(RateLimitMiddleware(limiter))
	{
		public.POST("/register", userHandler.Register)
		public.POST("/login", userHandler.Login)
	}

	authMiddleware := auth.AuthMiddleware(cfg.JWTSecret)
	staff := auth.RequireRole(auth.RoleAdmin, auth.RoleEmployee)
	adminOnly := auth.RequireRole(auth.RoleAdmin)
	memberOnly := auth.RequireRole(auth.RoleMember)

	protected := router.Group("/")
	protected.Use(authMiddleware, RateLimitMiddleware(limiter))
	{
		protected.GET("/me", userHandler.GetMe)

		protected.POST("/employees", adminOnly, userHandler.CreateEmployee)
		protected.GET("/employees", adminOnly, userHandler.ListEmployees)
		protected.DELETE("/employees/:id", adminOnly, userHandler.DeactivateEmployee)
		protected.GET("/members", staff, userHandler.ListMembers)

		protected.GET("/locations", locationHandler.List)
		protected.GET("/locations/:id", locationHandler.Get)
		protected.POST("/locations", adminOnly, locationHandler.Create)
		protected.PUT("/locations/:id", adminOnly, locationHandler.Update)
		protected.DELETE("/locations/:id", adminOnly, locationHandler.Deactivate)

		protected.GET("/services", serviceHandler.List)
		protected.GET("/services/location/:id", serviceHandler.ListByLocation)
		protected.GET("/services/:id", serviceHandler.Get)
		protected.POST("/services", staff, serviceHandler.Create)
		protected.PUT("/services/:id", staff, serviceHandler.Update)
		protected.DELETE("/services/:id", staff, serviceHandler.Deactivate)

		protected.GET("/appointments/available", appointmentHandler.Available)
		protected.GET("/appointments/location/:id", appointmentHandler.ByLocation)
		protected.GET("/appointments/location/:id/upcoming", appointmentHandler.UpcomingByLocation)
		protected.GET("/appointments/:id", appointmentHandler.Get)
		protected.POST("/appointments", staff, appointmentHandler.Create)
		protected.PUT("/appointments/:id", staff, appointmentHandler.Update)
		protected.DELETE("/appointments/:id", staff, appointmentHandler.Delete)

		protected.POST("/bookings", memberOnly, bookingHandler.Create)
		protected.DELETE("/bookings/:id", memberOnly, bookingHandler.Cancel)
		protected.GET("/bookings/my", memberOnly, bookingHandler.Mine)
		protected.GET("/bookings/appointment/:id", staff, bookingHandler.ByAppointment)

		protected.POST("/payments", memberOnly, creditHandler.Create)
		protected.POST("/payments/confirm/:intentId", memberOnly, creditHandler.Confirm)
		protected.GET("/payments/credits/:serviceId", memberOnly, creditHandler.Credits)
		protected.GET("/payments/my", memberOnly, creditHandler.Mine)

		if deps.Email != nil {
			protected.GET("/test-email", adminOnly, TestEmail(deps.Email))
		}
	}

	return &Server{
		router:  router,
		limiter: limiter,
		deps:    deps,
		http: &http.Server{
			Addr:              ":" + cfg.Port,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// Start blocks until the server stops. It returns nil after Shutdown.
func (s *Server) Start() error {
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown drains HTTP requests and disconnects websocket clients.
func (s *Server) Shutdown(ctx context.Context) error {
	s.limiter.Stop()
	if s.deps.Hub != nil {
		s.deps.Hub.Close()
	}
	return s.http.Shutdown(ctx)
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With, X-Request-ID")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
