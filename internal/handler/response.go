package handler

import (
	"github.com/gin-gonic/gin"

	apperrors "github.com/pitstop/pitstop-api/pkg/errors"
)

type Response struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Error   string      `json:"error,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func NewSuccessResponse(data interface{}) *Response {
	return &Response{
		Status: "success",
		Data:   data,
	}
}

func NewErrorResponse(message string) *Response {
	return &Response{
		Status:  "error",
		Message: message,
		Error:   message,
	}
}

// Error maps an application error onto the HTTP status for its kind and
// writes the error envelope. Unknown errors come out as a generic 500.
func Error(c *gin.Context, err error) {
	appErr := apperrors.FromError(err)
	c.JSON(appErr.StatusCode(), NewErrorResponse(appErr.Message))
}
