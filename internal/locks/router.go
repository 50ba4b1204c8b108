package locks

import (
	"github.com/gin-gonic/gin"
)

func SetupLockRoutes(rg *gin.RouterGroup, controller *Controller, auth ...gin.HandlerFunc) {
	locks := rg.Group("/locks")
	locks.Use(auth...)
	{
		locks.POST("", controller.AcquireLock)                 // POST /api/v1/locks
		locks.GET("/:lockId", controller.GetLock)              // GET /api/v1/locks/:lockId
		locks.POST("/:lockId/release", controller.ReleaseLock) // POST /api/v1/locks/:lockId/release
	}
}
