package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"

	app_errors "iris-chat/backend/internal/errors"
)

// ErrorKind classifies a provider failure.
type ErrorKind string

const (
	KindTransport ErrorKind = "transport"
	KindResponse  ErrorKind = "response"
)

// ProviderError is the single normalized failure returned by Provider.Generate.
//
// errors.Is(err, app_errors.ErrTransport) or errors.Is(err, app_errors.ErrProviderResponse)
// tells the two kinds apart.
type ProviderError struct {
	Provider   ProviderID
	Kind       ErrorKind
	StatusCode int
	Message    string
	Cause      error
}

func (e *ProviderError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Failed to get response from %s: ", e.Provider.DisplayName())
	switch {
	case e.Kind == KindTransport:
		b.WriteString(app_errors.ErrTransport.Error())
		if e.Cause != nil {
			b.WriteString(": ")
			b.WriteString(e.Cause.Error())
		}
	case e.StatusCode != 0:
		fmt.Fprintf(&b, "API request failed: %d %s.", e.StatusCode, http.StatusText(e.StatusCode))
		if e.Message != "" {
			b.WriteString(" ")
			b.WriteString(e.Message)
		}
	default:
		b.WriteString(e.Message)
	}
	return b.String()
}

func (e *ProviderError) Unwrap() []error {
	sentinel := app_errors.ErrProviderResponse
	if e.Kind == KindTransport {
		sentinel = app_errors.ErrTransport
	}
	if e.Cause == nil {
		return []error{sentinel}
	}
	return []error{sentinel, e.Cause}
}

// AsProviderError reports whether err wraps a *ProviderError.
func AsProviderError(err error) (*ProviderError, bool) {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}

// ConfigurationError is returned by Registry.Configure. Field names the missing
// or invalid requirement.
type ConfigurationError struct {
	Field   string
	Message string
}

func (e *ConfigurationError) Error() string { return e.Message }

func (e *ConfigurationError) Unwrap() error { return app_errors.ErrConfiguration }

func transportError(id ProviderID, cause error) *ProviderError {
	return &ProviderError{Provider: id, Kind: KindTransport, Cause: cause}
}

func statusError(id ProviderID, status int, body []byte) *ProviderError {
	return &ProviderError{
		Provider:   id,
		Kind:       KindResponse,
		StatusCode: status,
		Message:    parseErrorEnvelope(body),
	}
}

func malformedError(id ProviderID, message string, cause error) *ProviderError {
	return &ProviderError{Provider: id, Kind: KindResponse, Message: message, Cause: cause}
}

type errorEnvelope struct {
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// parseErrorEnvelope extracts error.message from a vendor error body.
// Anything it cannot read yields "".
func parseErrorEnvelope(raw []byte) string {
	var env errorEnvelope
	if err := json.Unmarshal(raw, &env); err != nil || env.Error == nil {
		return ""
	}
	return strings.TrimSpace(env.Error.Message)
}

// isTransportFailure reports whether err happened before a response was received.
func isTransportFailure(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return true
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}
