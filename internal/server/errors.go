// Package server provides the HTTP REST API for the application assistant.
package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/daniel/autoapply/internal/pipeline"
	"github.com/daniel/autoapply/internal/store"
)

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// ErrServiceUnavailable indicates a required collaborator is not configured
type ErrServiceUnavailable struct {
	Service string
}

func (e *ErrServiceUnavailable) Error() string {
	return fmt.Sprintf("%s is not configured", e.Service)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var notFound *pipeline.ErrJobNotFound
	if errors.As(err, &notFound) {
		return http.StatusNotFound
	}
	var importErr *store.ImportError
	if errors.As(err, &importErr) {
		return http.StatusBadRequest
	}
	var validation *ErrValidation
	if errors.As(err, &validation) {
		return http.StatusBadRequest
	}
	var unavailable *ErrServiceUnavailable
	if errors.As(err, &unavailable) {
		return http.StatusServiceUnavailable
	}
	var stageErr *pipeline.StageError
	if errors.As(err, &stageErr) {
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}
