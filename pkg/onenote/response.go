// Package onenote (response.go) converts raw HTTP responses into Envelopes.
// Every API call in the SDK pipes its response through one of the Translate
// functions, so status codes and error bodies reach the caller intact instead
// of being turned into Go errors at the transport layer.
package onenote

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Envelope is the normalized result of an API call.
//
// Entity is non-nil only when StatusCode equals the status the call expected
// and the body parsed as the expected shape. Body always carries the raw text.
type Envelope[T any] struct {
	StatusCode    int
	CorrelationID string
	// Location is set by async operations (202 Accepted) to the URL to poll.
	Location string
	Body     string
	Entity   *T

	expected  int
	malformed bool
}

// OK reports whether the call returned its expected status.
func (e Envelope[T]) OK() bool {
	return e.StatusCode != 0 && e.StatusCode == e.expected
}

// Expected returns the status the call was waiting for.
func (e Envelope[T]) Expected() int {
	return e.expected
}

// Err classifies the envelope for callers that prefer an error over branching
// on StatusCode. It returns nil when the expected status came back with a
// usable (or intentionally empty) body.
func (e Envelope[T]) Err() error {
	if e.StatusCode == 0 {
		return fmt.Errorf("%w: no response received", ErrUnexpectedStatus)
	}
	if e.StatusCode == e.expected {
		if e.malformed {
			return fmt.Errorf("%w: status %d body could not be decoded", ErrMalformedResponseBody, e.StatusCode)
		}
		return nil
	}
	return classifyStatus(e.StatusCode, e.expected, e.Body)
}

// Translate converts a response carrying a single JSON entity.
func Translate[T any](res *http.Response, expected int) (Envelope[T], error) {
	return translate(res, expected, decodeEntity[T])
}

// TranslateList converts a response carrying a `{"value": [...]}` list.
// An empty value array yields a present, empty slice.
func TranslateList[T any](res *http.Response, expected int) (Envelope[[]T], error) {
	return translate(res, expected, decodeList[T])
}

// TranslateText converts a response whose body is the entity itself, such as
// page content returned as HTML.
func TranslateText(res *http.Response, expected int) (Envelope[string], error) {
	return translate(res, expected, func(body []byte) (*string, error) {
		s := string(body)
		return &s, nil
	})
}

// translate reads the body exactly once and fills the envelope. The returned
// error is non-nil only when the body could not be read; status and parse
// problems are reported through the envelope itself.
func translate[T any](res *http.Response, expected int, decode func([]byte) (*T, error)) (Envelope[T], error) {
	env := Envelope[T]{expected: expected}
	if res == nil {
		return env, nil
	}

	env.StatusCode = res.StatusCode
	env.CorrelationID = res.Header.Get(HeaderCorrelationID)
	env.Location = res.Header.Get(HeaderLocation)

	if res.Body == nil {
		return env, nil
	}
	body, readErr := io.ReadAll(res.Body)
	_ = res.Body.Close()
	env.Body = string(body)
	if readErr != nil {
		return env, fmt.Errorf("reading response body: %w", readErr)
	}

	if res.StatusCode != expected || len(bytes.TrimSpace(body)) == 0 {
		return env, nil
	}

	entity, err := decode(body)
	if err != nil || entity == nil {
		env.malformed = true
		return env, nil
	}
	env.Entity = entity
	return env, nil
}

func decodeEntity[T any](body []byte) (*T, error) {
	if bytes.Equal(bytes.TrimSpace(body), []byte("null")) {
		return nil, nil
	}
	var entity T
	if err := json.Unmarshal(body, &entity); err != nil {
		return nil, err
	}
	return &entity, nil
}

func decodeList[T any](body []byte) (*[]T, error) {
	var list struct {
		Value *[]T `json:"value"`
	}
	if err := json.Unmarshal(body, &list); err != nil {
		return nil, err
	}
	if list.Value == nil {
		return nil, nil
	}
	return list.Value, nil
}

// classifyStatus maps an unexpected status and its error payload onto the
// sentinel errors, keeping ErrUnexpectedStatus in the chain.
func classifyStatus(status, expected int, body string) error {
	var payload serviceError
	message := strings.TrimSpace(body)
	if err := json.Unmarshal([]byte(body), &payload); err == nil && payload.Error.Message != "" {
		message = payload.Error.Message
	}

	var sentinel error
	switch status {
	case http.StatusBadRequest, http.StatusMethodNotAllowed, http.StatusNotAcceptable,
		http.StatusLengthRequired, http.StatusPreconditionFailed,
		http.StatusRequestEntityTooLarge, http.StatusUnsupportedMediaType,
		http.StatusUnprocessableEntity:
		sentinel = ErrInvalidRequest
	case http.StatusUnauthorized:
		sentinel = ErrReauthRequired
	case http.StatusForbidden:
		sentinel = ErrAccessDenied
	case http.StatusNotFound, http.StatusGone:
		sentinel = ErrResourceNotFound
	case http.StatusConflict:
		sentinel = ErrConflict
	case http.StatusInsufficientStorage:
		sentinel = ErrQuotaExceeded
	case http.StatusTooManyRequests, http.StatusInternalServerError,
		http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		sentinel = ErrRetryLater
	}

	if sentinel == nil {
		return fmt.Errorf("%w: got %d, want %d: %s", ErrUnexpectedStatus, status, expected, message)
	}
	return fmt.Errorf("%w: %w: got %d, want %d: %s", ErrUnexpectedStatus, sentinel, status, expected, message)
}
