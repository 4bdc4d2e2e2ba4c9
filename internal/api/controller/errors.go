package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/spendwise/spendwise/internal/api/response"
	"github.com/spendwise/spendwise/internal/repository"
	"github.com/spendwise/spendwise/internal/service"
)

// writeError maps service and repository errors onto HTTP statuses in one
// place so every controller reports the same way. Ownership violations never
// reach here as such: scoped queries surface them as ErrNotFound.
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrValidation):
		response.Error(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials), errors.Is(err, service.ErrInvalidToken):
		response.Error(c, http.StatusUnauthorized, err.Error())
	case errors.Is(err, repository.ErrNotFound):
		response.Error(c, http.StatusNotFound, "not found")
	case errors.Is(err, repository.ErrDuplicate):
		response.Error(c, http.StatusConflict, "already exists")
	default:
		response.Error(c, http.StatusInternalServerError, err.Error())
	}
}
