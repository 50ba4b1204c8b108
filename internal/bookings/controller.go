package bookings

import (
	"errors"
	"net/http"

	"seatlock/internal/shared/middleware"
	"seatlock/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

// CreateBooking handles POST /api/v1/bookings
func (c *Controller) CreateBooking(ctx *gin.Context) {
	var req CreateBookingRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondError(ctx, http.StatusBadRequest, "Invalid request body", response.KindValidation, err, nil)
		return
	}

	booking, err := c.service.CreateBooking(ctx.Request.Context(), middleware.HolderID(ctx), req)
	if err != nil {
		c.respondBookingError(ctx, "Failed to create booking", err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusCreated, "Booking confirmed", CreateBookingResponse{Booking: booking}, nil)
}

// GetBooking handles GET /api/v1/bookings/:bookingId
func (c *Controller) GetBooking(ctx *gin.Context) {
	bookingID, err := uuid.Parse(ctx.Param("bookingId"))
	if err != nil {
		response.RespondError(ctx, http.StatusBadRequest, "Invalid booking ID", response.KindValidation, err, nil)
		return
	}

	booking, err := c.service.GetBooking(ctx.Request.Context(), middleware.HolderID(ctx), bookingID)
	if err != nil {
		c.respondBookingError(ctx, "Failed to get booking", err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Booking retrieved successfully", booking, nil)
}

// GetUserBookings handles GET /api/v1/bookings?page=1&limit=10
func (c *Controller) GetUserBookings(ctx *gin.Context) {
	var query BookingListQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		response.RespondError(ctx, http.StatusBadRequest, "Invalid query parameters", response.KindValidation, err, nil)
		return
	}

	bookings, err := c.service.GetUserBookings(ctx.Request.Context(), middleware.HolderID(ctx), query)
	if err != nil {
		c.respondBookingError(ctx, "Failed to get bookings", err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Bookings retrieved successfully", bookings, nil)
}

func (c *Controller) respondBookingError(ctx *gin.Context, message string, err error) {
	switch {
	case errors.Is(err, ErrInvalidBooking):
		response.RespondError(ctx, http.StatusBadRequest, message, response.KindValidation, err, nil)
	case errors.Is(err, ErrSessionExpired):
		response.RespondError(ctx, http.StatusGone, message, response.KindSessionExpired, err, nil)
	case errors.Is(err, ErrSeatsUnavailable):
		response.RespondError(ctx, http.StatusConflict, message, response.KindConflict, err, nil)
	case errors.Is(err, ErrPaymentFailed):
		response.RespondError(ctx, http.StatusPaymentRequired, message, response.KindPayment, err, nil)
	case errors.Is(err, ErrBookingNotFound):
		response.RespondError(ctx, http.StatusNotFound, message, response.KindNotFound, err, nil)
	default:
		response.RespondError(ctx, http.StatusInternalServerError, message, response.KindBookingFailed, err, nil)
	}
}
