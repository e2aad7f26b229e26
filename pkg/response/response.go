package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	appErrors "github.com/campus-mailroom/mailroom-api/pkg/errors"
)

// ErrorBody is the error contract shared by every endpoint.
type ErrorBody struct {
	Error string `json:"error"`
}

// SuccessBody acknowledges a delete.
type SuccessBody struct {
	Success bool `json:"success"`
}

func noStore(c *gin.Context) {
	c.Header("Cache-Control", "no-store")
	c.Header("Pragma", "no-cache")
}

// JSON writes data as-is; list endpoints pass a query.Page envelope.
func JSON(c *gin.Context, status int, data interface{}) {
	noStore(c)
	c.JSON(status, data)
}

// OK responds with HTTP 200.
func OK(c *gin.Context, data interface{}) {
	JSON(c, http.StatusOK, data)
}

// Created responds with HTTP 201 Created.
func Created(c *gin.Context, data interface{}) {
	JSON(c, http.StatusCreated, data)
}

// Deleted acknowledges a successful delete with {"success": true}.
func Deleted(c *gin.Context) {
	JSON(c, http.StatusOK, SuccessBody{Success: true})
}

// Error converts err into {"error": message} with the matching status and
// records the underlying cause on the gin context for the request logger.
func Error(c *gin.Context, err error) {
	appErr := appErrors.FromError(err)
	if appErr.Err != nil {
		_ = c.Error(appErr.Err)
	}
	noStore(c)
	c.JSON(appErr.Status, ErrorBody{Error: appErr.Message})
}
