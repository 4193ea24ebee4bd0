package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/taskforge/taskforge/internal/models"
	"github.com/taskforge/taskforge/pkg/logger"
)

// Response is the uniform envelope every endpoint answers with.
type Response struct {
	Status  bool                   `json:"status"`
	Message string                 `json:"message,omitempty"`
	Data    interface{}            `json:"data,omitempty"`
	Errors  map[string][]string    `json:"errors,omitempty"`
	Meta    *models.PaginationMeta `json:"meta,omitempty"`
}

func respondOK(c *gin.Context, data interface{}, message string) {
	c.JSON(http.StatusOK, Response{
		Status:  true,
		Message: message,
		Data:    data,
	})
}

func respondCreated(c *gin.Context, data interface{}, message string) {
	c.JSON(http.StatusCreated, Response{
		Status:  true,
		Message: message,
		Data:    data,
	})
}

func respondList(c *gin.Context, data interface{}, meta *models.PaginationMeta) {
	c.JSON(http.StatusOK, Response{
		Status: true,
		Data:   data,
		Meta:   meta,
	})
}

// respondError translates the service error taxonomy into the envelope
// and its HTTP status code. Anything outside the taxonomy is a 500 and is
// logged; those must not leak internals to the caller.
func respondError(c *gin.Context, err error) {
	var validationErrs models.ValidationErrors
	var notFound *models.NotFoundError
	var forbidden *models.ForbiddenError
	var gone *models.GoneError

	switch {
	case errors.As(err, &validationErrs):
		c.JSON(http.StatusUnprocessableEntity, Response{
			Status: false,
			Errors: validationErrs,
		})
	case errors.As(err, &notFound):
		c.JSON(http.StatusNotFound, Response{
			Status:  false,
			Message: notFound.Error(),
		})
	case errors.As(err, &forbidden):
		c.JSON(http.StatusForbidden, Response{
			Status:  false,
			Message: forbidden.Message,
		})
	case errors.As(err, &gone):
		c.JSON(http.StatusGone, Response{
			Status:  false,
			Message: gone.Message,
		})
	default:
		logger.WithError(err).Error("unhandled service error")
		c.JSON(http.StatusInternalServerError, Response{
			Status:  false,
			Message: "Internal server error",
		})
	}
}

// respondInvalidBody covers unparseable request bodies with a 422, the
// same outcome malformed field values get.
func respondInvalidBody(c *gin.Context) {
	c.JSON(http.StatusUnprocessableEntity, Response{
		Status: false,
		Errors: map[string][]string{
			"body": {"The request body must be valid JSON."},
		},
	})
}
