package geo

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/Vikrant465/booking-service/internal/domain"
)

// Client holds the shared HTTP plumbing for the map provider's geocoding and
// directions APIs. Every request carries the client timeout, so a hung
// provider surfaces as SERVICE_TIMEOUT instead of stalling the booking flow.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// NewClient creates a map provider client. baseURL is the provider API root
// (e.g. https://api.mapbox.com) and token the access token appended to every
// request.
func NewClient(baseURL, token string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		http:    &http.Client{Timeout: timeout},
	}
}

// classifyTransportError converts a transport-level failure into a coded
// domain error for the named upstream service.
func classifyTransportError(service string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return domain.NewServiceTimeoutError(service)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return domain.NewServiceTimeoutError(service)
	}
	return domain.NewServiceUnavailableError(service, err)
}
