package backend

import (
	"context"
	"errors"
	"fmt"
	"net"
	"syscall"
)

// StatusError is returned when the backend answers with a non-2xx status.
type StatusError struct {
	Code   int
	Reason string
}

func (e *StatusError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("backend: unexpected status %d", e.Code)
	}
	return fmt.Sprintf("backend: status %d: %s", e.Code, e.Reason)
}

// ErrorClass groups transport failures by how they are reported to the user.
type ErrorClass int

const (
	ClassOther ErrorClass = iota
	ClassTimeout
	ClassConnectivity
)

func (c ErrorClass) String() string {
	switch c {
	case ClassTimeout:
		return "timeout"
	case ClassConnectivity:
		return "connectivity"
	default:
		return "other"
	}
}

// Classify maps err to timeout, connectivity or other.
func Classify(err error) ErrorClass {
	if err == nil {
		return ClassOther
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return ClassTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return ClassTimeout
	}

	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return ClassOther
	}

	var opErr *net.OpError
	var dnsErr *net.DNSError
	switch {
	case errors.As(err, &dnsErr),
		errors.As(err, &opErr),
		errors.Is(err, syscall.ECONNREFUSED),
		errors.Is(err, syscall.ECONNRESET),
		errors.Is(err, syscall.ENETUNREACH),
		errors.Is(err, syscall.EHOSTUNREACH):
		return ClassConnectivity
	}
	return ClassOther
}

// IsTransport reports whether err happened before any HTTP response was read.
func IsTransport(err error) bool {
	if err == nil {
		return false
	}
	var statusErr *StatusError
	return !errors.As(err, &statusErr)
}
