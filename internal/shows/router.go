package shows

import (
	"github.com/gin-gonic/gin"
)

// SetupShowRoutes registers the public show endpoints. optionalAuth lets the
// seat listing recognise the caller's own holds.
func SetupShowRoutes(rg *gin.RouterGroup, controller *Controller, optionalAuth ...gin.HandlerFunc) {
	shows := rg.Group("/shows")
	shows.Use(optionalAuth...)
	{
		shows.GET("/:showId", controller.GetShow)        // GET /api/v1/shows/:showId
		shows.GET("/:showId/seats", controller.GetSeats) // GET /api/v1/shows/:showId/seats
	}
}
