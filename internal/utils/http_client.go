package utils

import (
	"time"

	"github.com/go-resty/resty/v2"
)

// HTTPClient is a wrapper around the resty.Client HTTP client.
// It embeds *resty.Client to expose all of its methods directly,
// while allowing extension with additional application-specific behavior.
//
// Example usage:
//
//	client := utils.NewHTTPClient().WithBaseURL("https://fhir.example.org/R4")
//	resp, err := client.R().Get("/Patient")
type HTTPClient struct {
	*resty.Client
}

// NewHTTPClient creates and returns a new HTTPClient instance whose requests
// accept resource documents by default.
//
// Each call returns an independent client instance with its own
// configuration, connection pool, and state.
func NewHTTPClient() *HTTPClient {
	client := resty.New().
		SetHeader("Accept", ContentTypeFHIRJSON+", application/json")

	return &HTTPClient{Client: client}
}

// WithBaseURL sets the url relative request paths are resolved against.
func (c *HTTPClient) WithBaseURL(baseURL string) *HTTPClient {
	c.SetBaseURL(baseURL)
	return c
}

// WithTimeout bounds every request; zero keeps resty's default (no timeout).
func (c *HTTPClient) WithTimeout(timeout time.Duration) *HTTPClient {
	if timeout > 0 {
		c.SetTimeout(timeout)
	}
	return c
}
