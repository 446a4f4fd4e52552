// File: paper_catalog_go_backend/internal/errors/errorHandlers.go

package errors

import (
	stderrors "errors"
	"net/http"

	"paper_catalog_go_backend/internal/openalex"
	"paper_catalog_go_backend/internal/services"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/rs/zerolog"
)

// ErrorType represents the type of error
type ErrorType string

const (
	ErrorTypeNotFound            ErrorType = "NOT_FOUND"
	ErrorTypeValidation          ErrorType = "VALIDATION_ERROR"
	ErrorTypeUpstream            ErrorType = "UPSTREAM_ERROR"
	ErrorTypeStore               ErrorType = "STORE_ERROR"
	ErrorTypeInternalServerError ErrorType = "INTERNAL_SERVER_ERROR"
)

// CustomError represents a custom error with associated HTTP status code and type
type CustomError struct {
	Type       ErrorType
	Message    string
	StatusCode int
	Details    interface{}
	Internal   error
}

// Error implements the error interface
func (e *CustomError) Error() string {
	return e.Message
}

func (e *CustomError) Unwrap() error {
	return e.Internal
}

// newError creates a new CustomError
func newError(errType ErrorType, message string, statusCode int, internal error) *CustomError {
	return &CustomError{
		Type:       errType,
		Message:    message,
		StatusCode: statusCode,
		Internal:   internal,
	}
}

// New404Error creates a new not found error
func New404Error(message string) *CustomError {
	return newError(ErrorTypeNotFound, message, http.StatusNotFound, nil)
}

// New422Error wraps a rejected payload. ozzo-validation field errors are
// reported per field in Details.
func New422Error(err error) *CustomError {
	customErr := newError(ErrorTypeValidation, "Invalid request payload", http.StatusUnprocessableEntity, err)
	var fieldErrs validation.Errors
	if stderrors.As(err, &fieldErrs) {
		customErr.Details = fieldErrs
	} else if err != nil {
		customErr.Details = err.Error()
	}
	return customErr
}

// New502Error reports a failing upstream service and keeps its message.
func New502Error(internal error) *CustomError {
	return newError(ErrorTypeUpstream, internal.Error(), http.StatusBadGateway, internal)
}

// New503Error reports a failing store and keeps its message.
func New503Error(internal error) *CustomError {
	return newError(ErrorTypeStore, internal.Error(), http.StatusServiceUnavailable, internal)
}

// New500Error creates a new internal server error
func New500Error(internal error) *CustomError {
	return newError(ErrorTypeInternalServerError, "An unexpected error occurred", http.StatusInternalServerError, internal)
}

// FromDomain maps service and adapter errors onto caller-visible outcomes.
// Anything unrecognised becomes a generic 500.
func FromDomain(err error) *CustomError {
	var (
		customErr      *CustomError
		importNotFound *services.ImportNotFoundError
		importUpstream *services.ImportUpstreamError
		serviceErr     *openalex.ServiceError
		storeErr       *services.StoreError
	)

	switch {
	case stderrors.As(err, &customErr):
		return customErr
	case stderrors.Is(err, services.ErrPaperNotFound):
		return New404Error("Paper not found")
	case stderrors.As(err, &importNotFound):
		return New404Error("Paper not found in OpenAlex")
	case stderrors.As(err, &importUpstream), stderrors.As(err, &serviceErr):
		return New502Error(err)
	case stderrors.As(err, &storeErr):
		return New503Error(err)
	default:
		return New500Error(err)
	}
}

// HandleError handles the custom error and sends an appropriate JSON response
func HandleError(c *gin.Context, err error) {
	customErr := FromDomain(err)
	log := zerolog.Ctx(c.Request.Context())

	switch customErr.Type {
	case ErrorTypeInternalServerError:
		log.Error().
			Err(customErr.Internal).
			Str("url", c.Request.URL.String()).
			Msg("Internal Server Error")
	case ErrorTypeUpstream, ErrorTypeStore:
		log.Warn().
			Err(customErr.Internal).
			Str("type", string(customErr.Type)).
			Str("url", c.Request.URL.String()).
			Msg("Dependency failure")
	}

	body := gin.H{
		"type":    customErr.Type,
		"message": customErr.Message,
	}
	if customErr.Details != nil {
		body["details"] = customErr.Details
	}
	c.AbortWithStatusJSON(customErr.StatusCode, gin.H{"error": body})
}
