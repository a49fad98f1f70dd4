// Package response holds the JSON envelope helpers shared by every
// service's handlers.
package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/soa-tours/platform/internal/pkg/apierr"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

// RespondError maps an error onto the envelope. Unclassified errors
// become an opaque 500 so internals never leak to clients.
func RespondError(c *gin.Context, err error) {
	if ae := apierr.As(err); ae != nil {
		c.JSON(ae.Status, ErrorEnvelope{Error: APIError{Message: ae.Err.Error(), Code: ae.Code}})
		return
	}
	c.JSON(http.StatusInternalServerError, ErrorEnvelope{Error: APIError{Message: "internal server error", Code: "internal_error"}})
}

func RespondOK(c *gin.Context, body interface{}) {
	c.JSON(http.StatusOK, body)
}

func RespondCreated(c *gin.Context, body interface{}) {
	c.JSON(http.StatusCreated, body)
}
