package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type Response struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
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
	}
}

// Error renders an application error with the status its kind maps to and
// attaches it to the context for the logging middleware.
func Error(c *gin.Context, err error) {
	c.Error(err)

	status := http.StatusInternalServerError
	message := "internal server error"
	if coded, ok := err.(interface{ StatusCode() int }); ok {
		status = coded.StatusCode()
		message = err.Error()
	}

	c.JSON(status, NewErrorResponse(message))
}
