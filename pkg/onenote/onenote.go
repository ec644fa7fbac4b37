// Package onenote (onenote.go) provides a Go SDK for the OneNote REST API.
// It covers authentication against Microsoft Account and Office 365 identities,
// a response translator that normalizes every HTTP response into an Envelope,
// and thin wrappers for notebooks, sections, section groups and pages.
package onenote

import "errors"

// Sentinel errors
var (
	// Token lifecycle
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrTokenRefreshFailed   = errors.New("token refresh failed")
	ErrUnknownProvider      = errors.New("unknown auth provider")

	// Response classification
	ErrUnexpectedStatus      = errors.New("unexpected status")
	ErrMalformedResponseBody = errors.New("malformed response body")
	ErrReauthRequired        = errors.New("re-authentication required")
	ErrAccessDenied          = errors.New("access denied")
	ErrRetryLater            = errors.New("retry later")
	ErrInvalidRequest        = errors.New("invalid request")
	ErrResourceNotFound      = errors.New("resource not found")
	ErrConflict              = errors.New("conflict")
	ErrQuotaExceeded         = errors.New("quota exceeded")

	// Copy operations
	ErrOperationFailed  = errors.New("operation failed")
	ErrOperationTimeout = errors.New("operation did not finish")

	// Device code polling
	ErrAuthorizationPending  = errors.New("authorization pending")
	ErrAuthorizationDeclined = errors.New("authorization declined")
)
