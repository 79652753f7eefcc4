package handler

import (
	"errors"
	"net/http"

	"codeconnect/internal/logger"
	"codeconnect/internal/microservices/http-api/dto"
	"codeconnect/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

const internalErrorMessage = "Internal Server Error"

func respond(c *gin.Context, status int, data interface{}, message string) {
	c.JSON(status, dto.Response{Success: true, Data: data, Message: message})
}

func respondPage(c *gin.Context, data interface{}, pagination dto.Pagination) {
	c.JSON(http.StatusOK, dto.Response{Success: true, Data: data, Pagination: &pagination})
}

func respondFailure(c *gin.Context, status int, message string) {
	c.JSON(status, dto.Response{Success: false, Data: nil, Message: message})
}

// respondError maps a service error kind to its status. Anything unclassified
// is logged and hidden behind a generic 500.
func respondError(c *gin.Context, err error) {
	var svcErr *service.Error
	message := err.Error()
	if errors.As(err, &svcErr) {
		message = svcErr.Message
	}

	switch {
	case errors.Is(err, service.ErrValidation):
		respondFailure(c, http.StatusBadRequest, message)
	case errors.Is(err, service.ErrUnauthenticated):
		respondFailure(c, http.StatusUnauthorized, message)
	case errors.Is(err, service.ErrForbidden):
		respondFailure(c, http.StatusForbidden, message)
	case errors.Is(err, service.ErrNotFound):
		respondFailure(c, http.StatusNotFound, message)
	default:
		logger.FromGin(c).Error("request failed",
			zap.String("route", c.FullPath()),
			zap.Error(err),
		)
		respondFailure(c, http.StatusInternalServerError, internalErrorMessage)
	}
}

// respondBindError reports the first failed binding rule, or a generic
// message when the body is not JSON at all.
func respondBindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		respondFailure(c, http.StatusBadRequest, service.FieldMessage(verrs[0]))
		return
	}
	var maxBytes *http.MaxBytesError
	if errors.As(err, &maxBytes) {
		respondFailure(c, http.StatusRequestEntityTooLarge, "Request body too large")
		return
	}
	respondFailure(c, http.StatusBadRequest, "Invalid request body")
}
