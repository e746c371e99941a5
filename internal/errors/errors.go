package errors

import (
	"errors"
	"fmt"
)

// This package defines a centralized set of sentinel errors for the application.
// Services return these (wrapped with %w) so that callers can classify failures
// with errors.Is without depending on transport or storage details. The API
// layer maps them to HTTP status codes; the conversation controller maps the
// provider ones to a visible error turn.

var (
	// ErrNotFound signifies that a requested resource could not be located.
	// This is typically mapped to a 404 Not Found HTTP status.
	ErrNotFound = errors.New("resource not found")

	// ErrValidation signifies that input data failed business rule validation,
	// e.g. an empty or whitespace-only message.
	// This is typically mapped to a 400 Bad Request HTTP status.
	ErrValidation = errors.New("validation failed")

	// ErrConflict signifies that an operation conflicts with the current state
	// of a resource.
	// This is typically mapped to a 409 Conflict HTTP status.
	ErrConflict = errors.New("resource conflict")

	// ErrBusy is returned when a conversation already has a request in flight.
	// It wraps ErrConflict so the API reports it as 409.
	ErrBusy = fmt.Errorf("%w: request already in progress", ErrConflict)

	// ErrInternal signifies an unexpected error on the server.
	// This is typically mapped to a 500 Internal Server Error HTTP status.
	ErrInternal = errors.New("internal server error")

	// ErrConfiguration signifies that the LLM provider could not be set up:
	// unknown provider identifier, missing credential or out-of-range option.
	ErrConfiguration = errors.New("configuration error")

	// ErrNotConfigured is returned when no provider has been configured yet.
	ErrNotConfigured = errors.New("API service not initialized")

	// ErrTransport signifies that the provider (or relay) could not be reached:
	// network, DNS or timeout failures.
	ErrTransport = errors.New("request could not be completed")

	// ErrProviderResponse signifies a non-success HTTP status or a malformed
	// success body returned by the vendor.
	ErrProviderResponse = errors.New("provider returned an invalid response")

	// ErrStorage signifies a persistence read or write failure.
	ErrStorage = errors.New("storage error")
)
