package locks

import (
	"errors"
	"net/http"

	"seatlock/internal/shared/middleware"
	"seatlock/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
)

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

func (c *Controller) AcquireLock(ctx *gin.Context) {
	var req AcquireLockRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondError(ctx, http.StatusBadRequest, "Invalid request data", response.KindValidation, err, nil)
		return
	}

	lock, err := c.service.AcquireLock(ctx.Request.Context(), middleware.HolderID(ctx), req)
	if err != nil {
		c.respondLockError(ctx, "Failed to lock seats", err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusCreated, "Seats locked successfully", lock, nil)
}

func (c *Controller) ReleaseLock(ctx *gin.Context) {
	lockID := ctx.Param("lockId")
	if lockID == "" {
		response.RespondError(ctx, http.StatusBadRequest, "Lock ID is required", response.KindValidation, nil, nil)
		return
	}

	result, err := c.service.ReleaseLock(ctx.Request.Context(), middleware.HolderID(ctx), lockID)
	if err != nil {
		c.respondLockError(ctx, "Failed to release lock", err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Lock released", result, nil)
}

func (c *Controller) GetLock(ctx *gin.Context) {
	lock, err := c.service.GetLock(ctx.Request.Context(), middleware.HolderID(ctx), ctx.Param("lockId"))
	if err != nil {
		c.respondLockError(ctx, "Failed to get lock", err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Lock retrieved successfully", lock, nil)
}

func (c *Controller) respondLockError(ctx *gin.Context, message string, err error) {
	var conflict *ConflictError
	switch {
	case errors.As(err, &conflict):
		response.RespondError(ctx, http.StatusConflict, message, response.KindConflict, err, conflict.Seats)
	case errors.Is(err, ErrInvalidSeats):
		response.RespondError(ctx, http.StatusBadRequest, message, response.KindValidation, err, nil)
	case errors.Is(err, ErrShowNotFound), errors.Is(err, ErrLockNotFound):
		response.RespondError(ctx, http.StatusNotFound, message, response.KindNotFound, err, nil)
	case errors.Is(err, ErrNotLockOwner):
		response.RespondError(ctx, http.StatusForbidden, message, response.KindUnauthorized, err, nil)
	default:
		response.RespondError(ctx, http.StatusInternalServerError, message, response.KindInternal, err, nil)
	}
}
