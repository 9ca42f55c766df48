package routes

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"starevents/internal/auth"
	"starevents/internal/bookings"
	"starevents/internal/events"
	"starevents/internal/notifications"
	"starevents/internal/payments"
	"starevents/internal/reports"
	"starevents/internal/shared/config"
	"starevents/internal/shared/database"
	"starevents/internal/tickets"
	"starevents/internal/users"
	"starevents/pkg/cache"
)

// Router wires every domain package and its dependencies.
type Router struct {
	config       *config.Config
	db           *database.DB
	cacheService cache.Service
	publisher    notifications.Publisher
	gateway      payments.Gateway

	userRepo     users.Repository
	eventService events.Service
	bookingRepo  bookings.Repository
	ticketSvc    tickets.Service
}

func NewRouter(cfg *config.Config, db *database.DB, cacheService cache.Service, publisher notifications.Publisher, gateway payments.Gateway) *Router {
	return &Router{
		config:       cfg,
		db:           db,
		cacheService: cacheService,
		publisher:    publisher,
		gateway:      gateway,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	r.setupHealthRoutes(engine)

	engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := engine.Group(r.config.GetAPIBasePath())
	{
		r.setupAuthRoutes(api)
		r.setupUserRoutes(api)

		// Events before bookings: the booking service needs the event
		// service for bookability and ownership checks.
		r.setupEventRoutes(api)
		r.setupBookingRoutes(api)
		r.setupTicketRoutes(api)
		r.setupPaymentRoutes(api)
		r.setupReportRoutes(api)
	}
}

func (r *Router) setupHealthRoutes(engine *gin.Engine) {
	engine.GET("/health", func(c *gin.Context) {
		if err := r.db.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":    "unhealthy",
				"error":     err.Error(),
				"timestamp": time.Now(),
				"service":   "starevents-backend",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now(),
			"service":   "starevents-backend",
		})
	})

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
			"version": r.config.APIVersion,
		})
	})
}

func (r *Router) setupAuthRoutes(rg *gin.RouterGroup) {
	r.userRepo = users.NewRepository(r.db.PostgreSQL)
	authService := auth.NewService(r.userRepo, r.config)
	authController := auth.NewController(authService)
	auth.SetupAuthRoutes(rg, authController)
}

func (r *Router) setupUserRoutes(rg *gin.RouterGroup) {
	userService := users.NewService(r.userRepo)
	userController := users.NewController(userService)
	users.SetupUserRoutes(rg, userController)
}

func (r *Router) setupEventRoutes(rg *gin.RouterGroup) {
	eventRepo := events.NewRepository(r.db.PostgreSQL)
	r.eventService = events.NewService(eventRepo)
	r.eventService.SetCacheService(r.cacheService)

	eventController := events.NewController(r.eventService)
	events.SetupEventRoutes(rg, eventController)
}

func (r *Router) setupBookingRoutes(rg *gin.RouterGroup) {
	r.bookingRepo = bookings.NewRepository(r.db.PostgreSQL, events.NewInventory())
	bookingService := bookings.NewService(r.bookingRepo, r.eventService, r.userRepo)
	bookingService.SetCacheService(r.cacheService)
	if r.publisher != nil {
		bookingService.SetPublisher(r.publisher)
	}

	bookingController := bookings.NewController(bookingService)
	bookings.SetupBookingRoutes(rg, bookingController)
}

func (r *Router) setupTicketRoutes(rg *gin.RouterGroup) {
	ticketRepo := tickets.NewRepository(r.db.PostgreSQL)
	qr := tickets.NewQRGenerator(r.config.Tickets.QRCodePath, r.config.Tickets.QRCodeSize)
	r.ticketSvc = tickets.NewService(ticketRepo, r.eventService, qr)

	ticketController := tickets.NewController(r.ticketSvc)
	tickets.SetupTicketRoutes(rg, ticketController)
}

func (r *Router) setupPaymentRoutes(rg *gin.RouterGroup) {
	paymentRepo := payments.NewRepository(r.db.PostgreSQL)
	paymentService := payments.NewService(paymentRepo, r.bookingRepo, r.ticketSvc, r.userRepo, r.gateway, r.config.Stripe.Currency)
	paymentService.SetCacheService(r.cacheService)
	if r.publisher != nil {
		paymentService.SetPublisher(r.publisher)
	}

	paymentController := payments.NewController(paymentService)
	payments.SetupPaymentRoutes(rg, paymentController)
}

func (r *Router) setupReportRoutes(rg *gin.RouterGroup) {
	reportRepo := reports.NewRepository(r.db.PostgreSQL)
	reportService := reports.NewService(reportRepo, r.eventService)
	reportService.SetCacheService(r.cacheService)

	reportController := reports.NewController(reportService)
	reports.SetupReportRoutes(rg, reportController)
}
