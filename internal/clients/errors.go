package clients

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

type ErrorKind string

const (
	KindMissingAPIKey   ErrorKind = "missing_api_key"
	KindTimeout         ErrorKind = "timeout"
	KindUnauthorized    ErrorKind = "unauthorized"
	KindRateLimited     ErrorKind = "rate_limited"
	KindServerError     ErrorKind = "server_error"
	KindNetworkError    ErrorKind = "network_error"
	KindInvalidResponse ErrorKind = "invalid_response"
	KindUnknown         ErrorKind = "unknown"
)

type ErrorClass string

const (
	ClassPrecondition ErrorClass = "precondition"
	ClassValidation   ErrorClass = "validation"
	ClassTransport    ErrorClass = "transport"
	ClassUnknown      ErrorClass = "unknown"
)

// ClientError is what every provider client returns when a call fails.
type ClientError struct {
	Kind       ErrorKind
	Provider   string
	StatusCode int
	// Code is the provider's own error code, when its error envelope had one.
	Code    string
	Message string
	Err     error
}

func (e *ClientError) Error() string {
	msg := fmt.Sprintf("[%s] %s: %s", e.Provider, e.Kind, e.Message)
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(" (status %d)", e.StatusCode)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ClientError) Unwrap() error { return e.Err }

func (e *ClientError) Class() ErrorClass {
	switch e.Kind {
	case KindMissingAPIKey:
		return ClassPrecondition
	case KindInvalidResponse:
		return ClassValidation
	case KindTimeout, KindUnauthorized, KindRateLimited, KindServerError, KindNetworkError:
		return ClassTransport
	default:
		return ClassUnknown
	}
}

// KindOf returns the kind of the first ClientError in err's chain, or
// KindUnknown.
func KindOf(err error) ErrorKind {
	var ce *ClientError
	if errors.As(err, &ce) {
		return ce.Kind
	}
	return KindUnknown
}

func newClientError(provider string, kind ErrorKind, message string, err error) *ClientError {
	return &ClientError{Kind: kind, Provider: provider, Message: message, Err: err}
}

func missingAPIKey(provider, envVar string) *ClientError {
	return newClientError(provider, KindMissingAPIKey,
		fmt.Sprintf("API key is required, set %s in your environment", envVar), nil)
}

// classifyTransport maps a failed round trip (err set) or a non-2xx response
// (statusCode set) to a ClientError.
func classifyTransport(provider string, statusCode int, err error) *ClientError {
	var ce *ClientError
	if errors.As(err, &ce) {
		return ce
	}

	if err != nil {
		if isTimeout(err) {
			return newClientError(provider, KindTimeout, "request timed out", err)
		}
		if errors.Is(err, context.Canceled) {
			return newClientError(provider, KindUnknown, "request canceled", err)
		}
	}

	var out *ClientError
	switch {
	case statusCode == http.StatusUnauthorized:
		out = newClientError(provider, KindUnauthorized, "credentials rejected", err)
	case statusCode == http.StatusTooManyRequests:
		out = newClientError(provider, KindRateLimited, "rate limit exceeded", err)
	case statusCode >= http.StatusInternalServerError:
		out = newClientError(provider, KindServerError, "server error", err)
	case statusCode != 0:
		out = newClientError(provider, KindNetworkError, "unexpected status", err)
	case err != nil && isNetworkError(err):
		out = newClientError(provider, KindNetworkError, "network error", err)
	default:
		out = newClientError(provider, KindUnknown, "unexpected error", err)
	}
	out.StatusCode = statusCode
	return out
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func isNetworkError(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	var opErr *net.OpError
	return errors.As(err, &opErr)
}

// UserMessage turns any pipeline error into the single line shown to the user.
func UserMessage(err error) string {
	var ce *ClientError
	if !errors.As(err, &ce) {
		if err == nil {
			return ""
		}
		return err.Error()
	}

	switch ce.Kind {
	case KindMissingAPIKey:
		return fmt.Sprintf("%s API key is missing. Please set it in your environment.", ce.Provider)
	case KindTimeout:
		return "Request timeout. Please check your internet connection."
	case KindUnauthorized:
		return fmt.Sprintf("Invalid API key. Please check your %s API key.", ce.Provider)
	case KindRateLimited:
		return "Rate limit exceeded. Please try again later."
	case KindServerError:
		return fmt.Sprintf("%s server error. Please try again later.", ce.Provider)
	case KindNetworkError:
		return "Network error. Please check your connection and try again."
	case KindInvalidResponse:
		if ce.Message != "" {
			return fmt.Sprintf("%s returned an invalid response: %s", ce.Provider, ce.Message)
		}
		return fmt.Sprintf("%s returned an invalid response.", ce.Provider)
	default:
		return "Unexpected error. Please try again."
	}
}
