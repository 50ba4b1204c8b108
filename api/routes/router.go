// api/routes/router.go
package routes

import (
	"net/http"
	"time"

	"seatlock/internal/bookings"
	"seatlock/internal/locks"
	"seatlock/internal/shared/config"
	"seatlock/internal/shared/database"
	"seatlock/internal/shared/middleware"
	"seatlock/internal/shows"
	"seatlock/pkg/cache"
	"seatlock/pkg/events"

	"github.com/gin-gonic/gin"
)

// Router holds all route dependencies
type Router struct {
	config    *config.Config
	db        *database.DB
	publisher events.Publisher

	// Wired in order: shows, then locks, then bookings
	showRepo    shows.Repository
	showService shows.Service
	lockService locks.Service
}

// NewRouter creates a new router instance
func NewRouter(cfg *config.Config, db *database.DB, publisher events.Publisher) *Router {
	return &Router{
		config:    cfg,
		db:        db,
		publisher: publisher,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	r.setupHealthRoutes(engine)

	api := engine.Group(r.config.GetAPIBasePath())
	{
		r.setupShowRoutes(api)
		r.setupLockRoutes(api)
		r.setupBookingRoutes(api)
	}
}

// setupHealthRoutes sets up health check and system status routes
func (r *Router) setupHealthRoutes(engine *gin.Engine) {
	engine.GET("/health", func(c *gin.Context) {
		if err := r.db.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":    "unhealthy",
				"error":     err.Error(),
				"timestamp": time.Now(),
				"service":   "seatlock-booking",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now(),
			"service":   "seatlock-booking",
		})
	})

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
			"version": r.config.APIVersion,
		})
	})

	engine.GET("/status", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":      "operational",
			"api_version": r.config.APIVersion,
			"timestamp":   time.Now(),
		})
	})
}

// setupShowRoutes configures show and seat map routes
func (r *Router) setupShowRoutes(rg *gin.RouterGroup) {
	r.showRepo = shows.NewRepository(r.db.GetPostgreSQL())

	var cacheService cache.Service
	if r.db.GetRedis() != nil {
		cacheService = cache.NewService(r.db.GetRedis())
	}
	r.showService = shows.NewService(r.showRepo, cacheService, r.config.Redis.CacheTTL)

	shows.SetupShowRoutes(rg, shows.NewController(r.showService), middleware.OptionalAuthWithConfig(r.config))
}

// setupLockRoutes configures seat lock routes
func (r *Router) setupLockRoutes(rg *gin.RouterGroup) {
	lockRepo := locks.NewRepository(r.db.GetRedis())
	r.lockService = locks.NewService(lockRepo, shows.NewSeatInventory(r.showRepo), r.publisher, r.config.Redis.LockTTL)

	// Seat listings need live holds
	r.showService.SetLockReader(r.lockService)

	locks.SetupLockRoutes(rg, locks.NewController(r.lockService), middleware.JWTAuthWithConfig(r.config))
}

// setupBookingRoutes configures booking routes
func (r *Router) setupBookingRoutes(rg *gin.RouterGroup) {
	bookingRepo := bookings.NewRepository(r.db.GetPostgreSQL())
	gateway := bookings.NewStaticGateway(r.config.PaymentMethods)
	bookingService := bookings.NewService(bookingRepo, r.lockService, r.showRepo, gateway, r.publisher)

	bookings.SetupBookingRoutes(rg, bookings.NewController(bookingService), middleware.JWTAuthWithConfig(r.config))
}
