package rms

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

// The client reduces every failure mode to one of four classes so call
// sites can pick a policy per class (swallow-and-log vs propagate) instead
// of blanket-catching around network calls.
var (
	// ErrTimeout covers connect and read deadlines being exceeded
	ErrTimeout = errors.New("modeling service timed out")
	// ErrRejected covers 4xx responses
	ErrRejected = errors.New("modeling service rejected the request")
	// ErrUnavailable covers 5xx responses and transport failures
	ErrUnavailable = errors.New("modeling service unavailable")
	// ErrMalformed covers responses that cannot be decoded
	ErrMalformed = errors.New("modeling service returned a malformed response")
)

// classifyTransport maps an http.Client error to a client error class
func classifyTransport(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	return fmt.Errorf("%w: %v", ErrUnavailable, err)
}

// classifyStatus maps a non-2xx response code to a client error class
func classifyStatus(code int) error {
	if code >= http.StatusInternalServerError {
		return fmt.Errorf("%w: status %d", ErrUnavailable, code)
	}
	return fmt.Errorf("%w: status %d", ErrRejected, code)
}
