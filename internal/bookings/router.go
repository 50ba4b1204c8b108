package bookings

import (
	"github.com/gin-gonic/gin"
)

// SetupBookingRoutes configures all booking-related routes
func SetupBookingRoutes(rg *gin.RouterGroup, controller *Controller, auth ...gin.HandlerFunc) {
	bookings := rg.Group("/bookings")
	bookings.Use(auth...)
	{
		bookings.POST("", controller.CreateBooking)        // POST /api/v1/bookings
		bookings.GET("", controller.GetUserBookings)       // GET /api/v1/bookings
		bookings.GET("/:bookingId", controller.GetBooking) // GET /api/v1/bookings/:bookingId
	}
}

// Key flow:
// 1. Client locks seats with POST /locks (one lock per current selection)
// 2. Client submits POST /bookings with the seats, prices, payment method and lockId
// 3. The lock is validated, seats are sold and payment charged in one transaction
// 4. The lock is consumed; no release call is needed afterwards
