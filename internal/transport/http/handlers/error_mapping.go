package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/arklim/contacts-service/internal/infra/security"
	"github.com/arklim/contacts-service/internal/infra/validator"
	"github.com/arklim/contacts-service/internal/repository"
	"github.com/arklim/contacts-service/internal/usecase"
)

// respondWithError maps the service error taxonomy onto HTTP statuses in one
// place, so every handler fails the same way. Internal error details never
// reach the response body.
func respondWithError(c *gin.Context, err error) {
	var verr *validator.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, verr.Error()))
	case errors.Is(err, repository.ErrConflict):
		c.JSON(http.StatusConflict, NewErrorResponse(c, "userName or email already exists"))
	case errors.Is(err, repository.ErrNotFound):
		c.JSON(http.StatusNotFound, NewErrorResponse(c, "not found"))
	case errors.Is(err, usecase.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "bad credentials"))
	case errors.Is(err, security.ErrInvalidToken):
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "invalid token"))
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		c.JSON(http.StatusGatewayTimeout, NewErrorResponse(c, "request cancelled"))
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "internal error"))
	}
}
