// Package onenote provides constants used throughout the OneNote SDK.
package onenote

import (
	"fmt"
	"time"
)

// API routes
const (
	apiRouteFormat = "https://www.onenote.com/api/%s/me/notes/"
	APIVersionV1   = "v1.0"
	APIVersionBeta = "beta"
)

// Response headers
const (
	HeaderCorrelationID   = "X-CorrelationId"
	HeaderClientRequestID = "client-request-id"
	HeaderLocation        = "Location"
	HeaderRetryAfter      = "Retry-After"
)

// Content types
const (
	ContentTypeJSON      = "application/json"
	ContentTypeHTML      = "text/html"
	ContentTypeMultipart = "multipart/form-data"
)

// Default HTTP configuration
const (
	DefaultTimeout           = 30 * time.Second
	DefaultRetryAttempts     = 3
	DefaultRetryDelay        = 1 * time.Second
	DefaultMaxRetryDelay     = 10 * time.Second
	DefaultRequestsPerSecond = 10.0
	DefaultBurst             = 15
	DefaultRateLimitBackoff  = 60 * time.Second
)

// Default polling configuration for copy operations
const (
	DefaultPollInterval   = 2 * time.Second
	DefaultMaxInterval    = 30 * time.Second
	DefaultPollMultiplier = 1.5
)

// Token lifecycle
const (
	// DefaultRefreshLookahead is how close to expiry a token may get before it is refreshed.
	DefaultRefreshLookahead = 5 * time.Minute
)

// File permissions
const (
	PermSecureFile = 0600
	PermSecureDir  = 0700
)

// APIRoute returns the base route for the stable or beta API.
func APIRoute(useBeta bool) string {
	if useBeta {
		return fmt.Sprintf(apiRouteFormat, APIVersionBeta)
	}
	return fmt.Sprintf(apiRouteFormat, APIVersionV1)
}
