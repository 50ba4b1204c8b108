package response

import "github.com/gin-gonic/gin"

func RespondJSON(c *gin.Context, status string, code int, message string, data interface{}, errors interface{}) {
	c.JSON(code, StandardApiResponse{
		Status:     status,
		StatusCode: code,
		Message:    message,
		Data:       data,
		Errors:     errors,
	})
}

// RespondError writes an error envelope carrying an ErrorDetail
func RespondError(c *gin.Context, code int, message, kind string, detail error, seats interface{}) {
	body := ErrorDetail{ErrorKind: kind, Seats: seats}
	if detail != nil {
		body.Detail = detail.Error()
	}
	RespondJSON(c, "error", code, message, nil, body)
}
