package shows

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

func (c *Controller) GetShow(ctx *gin.Context) {
	show, err := c.service.GetShow(ctx.Request.Context(), ctx.Param("showId"))
	if err != nil {
		c.respondShowError(ctx, "Failed to get show", err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Show retrieved successfully", show, nil)
}

func (c *Controller) GetSeats(ctx *gin.Context) {
	seats, err := c.service.GetSeats(ctx.Request.Context(), ctx.Param("showId"), middleware.HolderID(ctx))
	if err != nil {
		c.respondShowError(ctx, "Failed to get seats", err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Seats retrieved successfully", seats, nil)
}

func (c *Controller) respondShowError(ctx *gin.Context, message string, err error) {
	switch {
	case errors.Is(err, ErrInvalidShowID):
		response.RespondError(ctx, http.StatusBadRequest, message, response.KindValidation, err, nil)
	case errors.Is(err, ErrShowNotFound):
		response.RespondError(ctx, http.StatusNotFound, message, response.KindNotFound, err, nil)
	default:
		response.RespondError(ctx, http.StatusInternalServerError, message, response.KindInternal, err, nil)
	}
}
