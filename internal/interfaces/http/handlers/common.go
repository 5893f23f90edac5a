// Package handlers implements the HTTP endpoint handlers.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/geowild/ConserveIQ/pkg/errors"
)

// ErrorResponse is the standard error body.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// respondError maps an application error to its HTTP status via the error
// code table.  Internal details are not leaked; the code and message of the
// AppError are considered safe.
func respondError(c *gin.Context, err error) {
	code := errors.GetCode(err)
	status := code.HTTPStatus()
	msg := "internal server error"
	if status < http.StatusInternalServerError {
		var ae *errors.AppError
		if errors.As(err, &ae) {
			msg = ae.Message
		}
	}
	c.JSON(status, ErrorResponse{Code: code.String(), Message: msg})
}
