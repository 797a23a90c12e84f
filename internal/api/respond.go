package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "fiscal-forum/internal/common/errors"
	"fiscal-forum/internal/common/logger"
	"fiscal-forum/internal/models"
)

// FallbackError is shown when the server cannot say anything more useful.
const FallbackError = "Something went wrong. Please try again later."

// respondError writes the {success:false} body for err. Messages of 5xx
// errors are never exposed.
func respondError(c *gin.Context, log logger.Logger, err error) {
	stdErr := apperrors.AsStandardError(err)
	status := apperrors.HTTPStatus(stdErr.Code)

	body := models.SubmitResponse{Success: false, Error: stdErr.Message, Errors: stdErr.FieldErrors()}
	if status >= http.StatusInternalServerError {
		body.Error = FallbackError
		log.Error("request failed", map[string]interface{}{
			"path":      c.FullPath(),
			"errorCode": string(stdErr.Code),
			"details":   stdErr.Details,
		})
	}
	c.AbortWithStatusJSON(status, body)
}
