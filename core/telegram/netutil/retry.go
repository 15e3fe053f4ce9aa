// Package netutil classifies network errors returned while talking to the Telegram API.
package netutil

import (
	"context"
	"errors"
	"net"
	"net/url"
	"syscall"
)

// ShouldRetry reports whether a network error is worth retrying.
// Only transient dial, reset and timeout failures qualify; API errors never do.
func ShouldRetry(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return false
	}
	if errors.Is(err, syscall.ECONNRESET) || errors.Is(err, syscall.ECONNREFUSED) {
		return true
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) && (opErr.Timeout() || opErr.Op == "dial") {
		return true
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Timeout() {
		return true
	}

	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
