// Package response provides the shared HTTP response envelope and the mapping
// from domain errors to status codes.
package response

import (
	"errors"
	"net/http"

	"github.com/Vikrant465/booking-service/internal/domain"
	"github.com/gin-gonic/gin"
)

// Envelope is the body shape of every API response.
type Envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
	Meta    *Meta       `json:"meta,omitempty"`
}

// APIError carries a machine-readable code alongside the message.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Meta carries pagination metadata for list responses.
type Meta struct {
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
}

// Success writes a 200 response with the given data.
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Envelope{Success: true, Data: data})
}

// Created writes a 201 response with the given data.
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Envelope{Success: true, Data: data})
}

// Paginated writes a 200 list response with pagination metadata.
func Paginated(c *gin.Context, items interface{}, total int64, page, limit int) {
	c.JSON(http.StatusOK, Envelope{
		Success: true,
		Data:    items,
		Meta:    &Meta{Total: total, Page: page, Limit: limit},
	})
}

// BadRequest writes a 400 response with a validation error body.
func BadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, Envelope{
		Success: false,
		Error:   &APIError{Code: domain.CodeValidation, Message: message},
	})
}

// Error writes the response for a service error, translating domain error
// codes to HTTP statuses. Unknown errors become opaque 500s.
func Error(c *gin.Context, err error) {
	var domainErr *domain.DomainError
	if !errors.As(err, &domainErr) {
		c.JSON(http.StatusInternalServerError, Envelope{
			Success: false,
			Error:   &APIError{Code: "INTERNAL_ERROR", Message: "internal server error"},
		})
		return
	}

	c.JSON(statusFor(domainErr.Code), Envelope{
		Success: false,
		Error:   &APIError{Code: domainErr.Code, Message: domainErr.Message},
	})
}

func statusFor(code string) int {
	switch code {
	case domain.CodeValidation, domain.CodeGeolocationDenied:
		return http.StatusBadRequest
	case domain.CodeNotFound:
		return http.StatusNotFound
	case domain.CodeInvalidState:
		return http.StatusConflict
	case domain.CodeIncompleteBooking:
		return http.StatusUnprocessableEntity
	case domain.CodeRouteUnavailable:
		return http.StatusUnprocessableEntity
	case domain.CodeServiceUnavailable:
		return http.StatusBadGateway
	case domain.CodeServiceTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
